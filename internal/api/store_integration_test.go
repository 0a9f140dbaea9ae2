package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/Veraticus/the-spice-must-recur/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates_SQLiteStore(t *testing.T) {
	txns := testutil.Monthly("SPOTIFY USA", 10, 5, testNow)
	txns = append(txns, testutil.Weekly("CITY GYM", 25, 6, testNow.AddDate(0, 0, -1))...)
	// Outside the 16-week window.
	txns = append(txns, testutil.Monthly("OLD LEASE", 900, 3, testNow.AddDate(0, -8, 0))...)
	db := testutil.SetupTestDB(t, txns...)

	h := NewHandler(db.Storage, recurring.DefaultConfig(), func() time.Time { return testNow })
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	var result recurring.Result
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/v1/candidates", &result))

	require.Equal(t, 2, result.Total)
	labels := []string{result.Candidates[0].Label, result.Candidates[1].Label}
	assert.ElementsMatch(t, []string{"SPOTIFY USA", "CITY GYM"}, labels)
	for _, c := range result.Candidates {
		assert.Equal(t, recurring.ConfidenceHigh, c.Confidence)
	}
}
