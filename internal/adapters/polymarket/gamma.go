package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avargasm/edgebot/internal/domain"
)

const gammaMarketsPath = "/markets"

// QuoteClient resolves the active short-window up/down market for a
// coin via a configured Gamma series slug and quotes both sides.
type QuoteClient struct {
	client *Client
	series map[string]string // coin → series slug
}

// NewQuoteClient creates a QuoteClient over the shared HTTP client.
func NewQuoteClient(client *Client, series map[string]string) *QuoteClient {
	return &QuoteClient{client: client, series: series}
}

// FetchQuote returns the nearest open market of the coin's series with
// both token IDs and quoted prices.
func (q *QuoteClient) FetchQuote(ctx context.Context, coin string) (domain.MarketQuote, error) {
	slug, ok := q.series[coin]
	if !ok {
		return domain.MarketQuote{}, fmt.Errorf("gamma.FetchQuote: no series slug for coin %q", coin)
	}

	u := fmt.Sprintf("%s%s?series_slug=%s&active=true&closed=false&order=endDate&ascending=true&limit=1",
		q.client.gammaBase, gammaMarketsPath, url.QueryEscape(slug))

	var resp []gammaSeriesMarket
	if err := q.client.get(ctx, q.client.gammaLimiter, u, &resp); err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma.FetchQuote %s: %w", coin, err)
	}
	if len(resp) == 0 {
		return domain.MarketQuote{}, fmt.Errorf("gamma.FetchQuote %s: no open market for series %q", coin, slug)
	}

	return mapSeriesMarket(coin, resp[0])
}

// mapSeriesMarket decodes the string-encoded array fields and aligns
// outcomes with prices and token IDs.
func mapSeriesMarket(coin string, gm gammaSeriesMarket) (domain.MarketQuote, error) {
	outcomes, err := decodeStringArray(gm.Outcomes)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma: outcomes of %s: %w", gm.Slug, err)
	}
	prices, err := decodeStringArray(gm.OutcomePrices)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma: prices of %s: %w", gm.Slug, err)
	}
	tokenIDs, err := decodeStringArray(gm.ClobTokenIDs)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma: token ids of %s: %w", gm.Slug, err)
	}
	if len(outcomes) < 2 || len(prices) < 2 || len(tokenIDs) < 2 {
		return domain.MarketQuote{}, fmt.Errorf("gamma: market %s has incomplete outcome data", gm.Slug)
	}

	up, down := 0, 1
	if strings.EqualFold(outcomes[1], "up") || strings.EqualFold(outcomes[0], "down") {
		up, down = 1, 0
	}

	upPrice, err := strconv.ParseFloat(prices[up], 64)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma: up price of %s: %w", gm.Slug, err)
	}
	downPrice, err := strconv.ParseFloat(prices[down], 64)
	if err != nil {
		return domain.MarketQuote{}, fmt.Errorf("gamma: down price of %s: %w", gm.Slug, err)
	}

	quote := domain.MarketQuote{
		Coin:        coin,
		Slug:        gm.Slug,
		Question:    gm.Question,
		UpTokenID:   tokenIDs[up],
		DownTokenID: tokenIDs[down],
		UpPrice:     upPrice,
		DownPrice:   downPrice,
	}
	if gm.EndDate != "" {
		if t, err := time.Parse(time.RFC3339, gm.EndDate); err == nil {
			quote.WindowEnd = t.UTC()
		}
	}
	return quote, nil
}

// decodeStringArray parses Gamma's JSON-string-encoded arrays, e.g.
// `"[\"Up\", \"Down\"]"`.
func decodeStringArray(s string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
