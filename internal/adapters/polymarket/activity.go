package polymarket

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/avargasm/edgebot/internal/domain"
)

const activityPath = "/activity"

// FetchActivity returns the wallet's recent TRADE activity, newest
// first, as reported by the Data API.
func (c *Client) FetchActivity(ctx context.Context, wallet string, limit int) ([]domain.ActivityRecord, error) {
	u := fmt.Sprintf("%s%s?user=%s&type=TRADE&limit=%d&offset=0&sortBy=TIMESTAMP&sortDirection=DESC",
		c.dataBase, activityPath, url.QueryEscape(wallet), limit)

	var raw []activityRaw
	if err := c.get(ctx, c.dataLimiter, u, &raw); err != nil {
		return nil, fmt.Errorf("polymarket.FetchActivity: %w", err)
	}

	records := make([]domain.ActivityRecord, 0, len(raw))
	for _, r := range raw {
		ts, err := r.Timestamp.Int64()
		if err != nil {
			continue
		}
		// The API reports seconds on some deployments and milliseconds
		// on others; normalize to milliseconds.
		if ts < 1e12 {
			ts *= 1000
		}
		records = append(records, domain.ActivityRecord{
			TransactionHash: r.TransactionHash,
			Asset:           r.Asset,
			Side:            r.Side,
			Price:           r.Price,
			Size:            r.Size,
			USDCSize:        r.USDCSize,
			TimestampMS:     ts,
		})
	}
	return records, nil
}

// ResolveWallet turns a configured source into a proxy wallet address.
// A 0x address passes through; anything else is treated as a profile
// handle and looked up via Gamma public search, preferring an exact
// pseudonym match over the first profile with a wallet.
func (c *Client) ResolveWallet(ctx context.Context, source string) (string, error) {
	if strings.HasPrefix(source, "0x") && len(source) == 42 {
		return strings.ToLower(source), nil
	}

	handle := strings.TrimPrefix(source, "@")
	u := fmt.Sprintf("%s/public-search?q=%s&search_profiles=true", c.gammaBase, url.QueryEscape(handle))

	var resp publicSearchResponse
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return "", fmt.Errorf("polymarket.ResolveWallet %q: %w", source, err)
	}

	var first string
	for _, p := range resp.Profiles {
		if p.ProxyWallet == "" {
			continue
		}
		if strings.EqualFold(p.Pseudonym, handle) || strings.EqualFold(p.Name, handle) {
			return strings.ToLower(p.ProxyWallet), nil
		}
		if first == "" {
			first = p.ProxyWallet
		}
	}
	if first != "" {
		return strings.ToLower(first), nil
	}
	return "", fmt.Errorf("polymarket.ResolveWallet: no profile found for %q", source)
}
