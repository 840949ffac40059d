package binance_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avargasm/edgebot/internal/adapters/binance"
)

// kline builds one positional row the way the spot API serves it.
func kline(openMS int64, closePrice string) string {
	return fmt.Sprintf(`[%d,"100.0","101.0","99.0",%q,"1000.0",%d,"0","0","0","0","0"]`,
		openMS, closePrice, openMS+59_999)
}

func TestFetchCloses_Success(t *testing.T) {
	base := time.Now().UTC().Add(-10 * time.Minute).Truncate(time.Minute)
	body := fmt.Sprintf("[%s,%s,%s]",
		kline(base.UnixMilli(), "100.5"),
		kline(base.Add(time.Minute).UnixMilli(), "101.5"),
		kline(base.Add(2*time.Minute).UnixMilli(), "102.5"),
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "BTCUSDT", q.Get("symbol"))
		assert.Equal(t, "1m", q.Get("interval"))
		assert.Equal(t, "3", q.Get("limit"), "requests one extra row for the open candle")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	candles, err := binance.NewClient(srv.URL).FetchCloses(context.Background(), "BTCUSDT", 2)

	require.NoError(t, err)
	require.Len(t, candles, 2)
	// Oldest first, trimmed to the requested count from the tail.
	assert.InDelta(t, 101.5, candles[0].Close, 1e-9)
	assert.InDelta(t, 102.5, candles[1].Close, 1e-9)
	assert.True(t, candles[0].CloseTime.Before(candles[1].CloseTime))
}

func TestFetchCloses_DropsOpenCandle(t *testing.T) {
	closed := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Minute)
	open := time.Now().UTC().Truncate(time.Minute) // closes in the future
	body := fmt.Sprintf("[%s,%s]",
		kline(closed.UnixMilli(), "100.5"),
		kline(open.UnixMilli(), "999.9"),
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	candles, err := binance.NewClient(srv.URL).FetchCloses(context.Background(), "BTCUSDT", 5)

	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.InDelta(t, 100.5, candles[0].Close, 1e-9)
}

func TestFetchCloses_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	_, err := binance.NewClient(srv.URL).FetchCloses(context.Background(), "BTCUSDT", 5)
	assert.Error(t, err)
}

func TestFetchCloses_MalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[1,2,3]]`))
	}))
	defer srv.Close()

	_, err := binance.NewClient(srv.URL).FetchCloses(context.Background(), "BTCUSDT", 5)
	assert.Error(t, err)
}
