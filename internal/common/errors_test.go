package common

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	err := NewUserError("could not open the transaction store", ErrStoreConnect)
	wrapped := fmt.Errorf("detect: %w", err)

	assert.Equal(t, "could not open the transaction store: transaction store unavailable", err.Error())
	assert.ErrorIs(t, wrapped, ErrStoreConnect)
	assert.Equal(t, "could not open the transaction store", UserMessage(wrapped))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "only message", NewUserError("only message", nil).Error())
}

func TestWithRetry(t *testing.T) {
	fast := RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, fast)

		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		cause := errors.New("down")
		err := WithRetry(context.Background(), func() error {
			calls++
			return cause
		}, fast)

		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return Permanent(ErrInvalidConfig)
		}, fast)

		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error { return errors.New("down") },
			RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
