package polymarket

import "encoding/json"

// Raw DTOs for the Polymarket APIs. Only used inside this package;
// conversion to domain entities happens in the fetch methods.

// --- Data API ---

// activityRaw is one row of GET /activity. Timestamps arrive as seconds
// or milliseconds depending on the endpoint version, so json.Number.
type activityRaw struct {
	TransactionHash string      `json:"transactionHash"`
	Asset           string      `json:"asset"`
	Side            string      `json:"side"`
	Timestamp       json.Number `json:"timestamp"`
	Price           float64     `json:"price"`
	Size            float64     `json:"size"`
	USDCSize        float64     `json:"usdcSize"`
	Type            string      `json:"type"`
}

// --- Gamma API ---

// gammaSeriesMarket is a market row of GET /markets filtered by series.
// Gamma encodes the array fields as JSON strings, so they need a second
// unmarshal pass.
type gammaSeriesMarket struct {
	Slug          string `json:"slug"`
	Question      string `json:"question"`
	Outcomes      string `json:"outcomes"`
	OutcomePrices string `json:"outcomePrices"`
	ClobTokenIDs  string `json:"clobTokenIds"`
	EndDate       string `json:"endDate"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
}

// publicSearchResponse is the response of GET /public-search.
type publicSearchResponse struct {
	Profiles []publicProfile `json:"profiles"`
}

type publicProfile struct {
	Name        string `json:"name"`
	Pseudonym   string `json:"pseudonym"`
	ProxyWallet string `json:"proxyWallet"`
}
