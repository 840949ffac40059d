// Package binance provides the reference spot-price feed.
package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/avargasm/edgebot/internal/domain"
)

const (
	defaultBase = "https://api.binance.com"

	// Spot API allows 6000 request weight/min; klines cost 2. Stay far
	// below at 10 req/s.
	klinesRatePerSec = 10

	klinesInterval = "1m"
)

// Client fetches closed 1-minute candles from the Binance spot API.
// Implements ports.CandleProvider.
type Client struct {
	http    *http.Client
	base    string
	limiter *rate.Limiter
}

// NewClient creates a Client. An empty base falls back to production.
func NewClient(base string) *Client {
	if base == "" {
		base = defaultBase
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		limiter: rate.NewLimiter(klinesRatePerSec, 5),
	}
}

// FetchCloses returns the last limit 1-minute candles of the symbol,
// oldest first, excluding the still-open candle.
func (c *Client) FetchCloses(ctx context.Context, symbol string, limit int) ([]domain.Candle, error) {
	// Request one extra row: the final kline is the in-progress candle.
	url := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		c.base, symbol, klinesInterval, limit+1)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("binance.FetchCloses: rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("binance.FetchCloses: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("binance.FetchCloses %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("binance.FetchCloses %s: status %d: %s", symbol, resp.StatusCode, body)
	}

	// Each kline is a positional array: [openTime, open, high, low,
	// close, volume, closeTime, ...]. Prices are strings, times are ms.
	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("binance.FetchCloses %s: decode: %w", symbol, err)
	}

	now := time.Now().UTC()
	candles := make([]domain.Candle, 0, len(rows))
	for _, row := range rows {
		candle, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("binance.FetchCloses %s: %w", symbol, err)
		}
		if candle.CloseTime.After(now) {
			continue // still-open candle
		}
		candles = append(candles, candle)
	}
	if len(candles) > limit {
		candles = candles[len(candles)-limit:]
	}
	return candles, nil
}

func parseKline(row []json.RawMessage) (domain.Candle, error) {
	if len(row) < 7 {
		return domain.Candle{}, fmt.Errorf("kline row has %d fields", len(row))
	}

	var closeStr string
	if err := json.Unmarshal(row[4], &closeStr); err != nil {
		return domain.Candle{}, fmt.Errorf("kline close: %w", err)
	}
	closePrice, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return domain.Candle{}, fmt.Errorf("kline close %q: %w", closeStr, err)
	}

	var closeMS int64
	if err := json.Unmarshal(row[6], &closeMS); err != nil {
		return domain.Candle{}, fmt.Errorf("kline close time: %w", err)
	}

	return domain.Candle{
		CloseTime: time.UnixMilli(closeMS).UTC(),
		Close:     closePrice,
	}, nil
}
