package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTFetcher_FetchBars(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		assert.Equal(t, "EURUSD", r.URL.Query().Get("symbol"))
		assert.Equal(t, "H1", r.URL.Query().Get("timeframe"))
		w.Header().Set("Content-Type", "application/json")
		// Out of order on purpose: the fetcher sorts.
		w.Write([]byte(`[
			{"timestamp": 1709550000, "open": 1.0860, "high": 1.0880, "low": 1.0850, "close": 1.0875, "tick_volume": 1100, "spread": 2},
			{"timestamp": 1709546400, "open": 1.0850, "high": 1.0870, "low": 1.0840, "close": 1.0860, "tick_volume": 1200, "spread": 3}
		]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "secret", "")
	bars, err := f.FetchBars("EURUSD", "H1", 100)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, "secret", gotKey)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp), "bars must be sorted oldest first")
	// json.Number decoding keeps the exact decimal value.
	assert.True(t, bars[0].High.Equal(decimal.RequireFromString("1.0870")))
	assert.Equal(t, int64(1200), bars[0].TickVolume)
}

func TestRESTFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such symbol", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "")
	_, err := f.FetchBars("XXXYYY", "H1", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestRESTFetcher_InvalidBarRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// low > high: must never enter the pipeline.
		w.Write([]byte(`[{"timestamp": 1709546400, "open": 1.0850, "high": 1.0840, "low": 1.0870, "close": 1.0860, "tick_volume": 1200}]`))
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL, "", "")
	bars, err := f.FetchBars("EURUSD", "H1", 10)
	assert.Error(t, err)
	assert.Nil(t, bars)
}
