package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/model"
	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

// fakeStore is an in-memory ExpenseReader.
type fakeStore struct {
	err   error
	since time.Time
	txns  []model.Transaction
	mu    sync.Mutex
}

func (f *fakeStore) GetExpensesSince(_ context.Context, since time.Time) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Transaction
	for _, txn := range f.txns {
		if !txn.Day().Before(since) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func monthly(memo string, amount int64, months int) []model.Transaction {
	txns := make([]model.Transaction, 0, months)
	for i := 0; i < months; i++ {
		txns = append(txns, model.Transaction{
			ID:        fmt.Sprintf("%s-%d", memo, i),
			Date:      testNow.AddDate(0, 0, -30*i),
			Memo:      memo,
			Amount:    amount,
			Direction: model.DirectionExpense,
		})
	}
	return txns
}

func newTestServer(t *testing.T, store *fakeStore) *httptest.Server {
	t.Helper()
	h := NewHandler(store, recurring.DefaultConfig(), func() time.Time { return testNow })
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/healthz") //nolint:noctx // test
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListPresets(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	var body PresetsResponse
	status := getJSON(t, srv.URL+"/api/v1/presets", &body)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Presets, 3)
	assert.Equal(t, "default", body.Presets[0].Name)
	assert.Equal(t, 16, body.Presets[0].Config.WindowWeeks)
	assert.Equal(t, "strict", body.Presets[1].Name)
	assert.InDelta(t, 0.10, body.Presets[1].Config.AmountTolerancePct, 1e-9)
	assert.Equal(t, "loose", body.Presets[2].Name)
	assert.Equal(t, 2, body.Presets[2].Config.MinOccurrences)
}

func TestListCandidates(t *testing.T) {
	store := &fakeStore{txns: append(monthly("NETFLIX.COM", 15, 4), monthly("CORNER CAFE", 4, 2)...)}
	srv := newTestServer(t, store)

	var body recurring.Result
	status := getJSON(t, srv.URL+"/api/v1/candidates", &body)

	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, body.Total)
	c := body.Candidates[0]
	assert.Equal(t, "NETFLIX.COM", c.Label)
	assert.Equal(t, recurring.RhythmMonthly, c.Rhythm)
	assert.Equal(t, recurring.ConfidenceHigh, c.Confidence)
	assert.Equal(t, 4, c.Occurrences)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), store.since)
}

func TestListCandidates_PresetAndNow(t *testing.T) {
	store := &fakeStore{txns: monthly("CORNER CAFE", 4, 2)}
	srv := newTestServer(t, store)

	var body recurring.Result
	status := getJSON(t, srv.URL+"/api/v1/candidates?preset=loose&now=2024-07-15", &body)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, body.Total, "loose preset accepts pairs")
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), store.since)
}

func TestListCandidates_EmptyStore(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	resp, err := http.Get(srv.URL + "/api/v1/candidates") //nolint:noctx // test
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.JSONEq(t, `[]`, string(raw["candidates"]))
	assert.JSONEq(t, `0`, string(raw["total"]))
}

func TestListCandidates_Errors(t *testing.T) {
	tests := []struct {
		name   string
		store  *fakeStore
		query  string
		status int
	}{
		{name: "unknown preset", store: &fakeStore{}, query: "?preset=aggressive", status: http.StatusBadRequest},
		{name: "bad date", store: &fakeStore{}, query: "?now=30/06/2024", status: http.StatusBadRequest},
		{name: "store failure", store: &fakeStore{err: errors.New("disk on fire")}, query: "", status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.store)

			var body errorResponse
			status := getJSON(t, srv.URL+"/api/v1/candidates"+tt.query, &body)

			assert.Equal(t, tt.status, status)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "disk on fire")
		})
	}
}

func TestGetSavings(t *testing.T) {
	store := &fakeStore{txns: append(monthly("NETFLIX.COM", 15, 4), monthly("SPOTIFY", 10, 4)...)}
	srv := newTestServer(t, store)

	var result recurring.Result
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/candidates", &result))
	require.Equal(t, 2, result.Total)

	var netflixID string
	for _, c := range result.Candidates {
		if c.Label == "NETFLIX.COM" {
			netflixID = c.ID
		}
	}
	require.NotEmpty(t, netflixID)

	var raw map[string]any
	url := fmt.Sprintf("%s/api/v1/savings?id=%s&id=%s&id=unknown", srv.URL, netflixID, netflixID)
	require.Equal(t, http.StatusOK, getJSON(t, url, &raw))

	assert.EqualValues(t, 1, raw["count"])
	assert.Equal(t, "15", raw["monthly"])
	assert.Equal(t, "180", raw["annual"])
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &fakeStore{})

	tests := []struct {
		path     string
		expected int
	}{
		{path: "/api/v1/presets", expected: http.StatusMethodNotAllowed},
		{path: "/api/v1/candidates", expected: http.StatusMethodNotAllowed},
		{path: "/api/v1/savings", expected: http.StatusMethodNotAllowed},
		{path: "/api/v1/unknown", expected: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Post(srv.URL+tt.path, "application/json", nil) //nolint:noctx // test
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestServeListener_ShutsDownOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	h := NewHandler(&fakeStore{}, recurring.DefaultConfig(), nil)
	go func() { done <- ServeListener(ctx, listener, h.Router()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + listener.Addr().String() + "/healthz") //nolint:noctx // test
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
