package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avargasm/edgebot/internal/adapters/notify"
	"github.com/avargasm/edgebot/internal/domain"
)

func TestConsole_TradeExecuted(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.TradeExecuted(context.Background(), domain.TradeRecord{
		Strategy:    "fairvalue",
		Side:        domain.SideBuy,
		Price:       0.60,
		Shares:      3.3333,
		NotionalUSD: 2,
		Edge:        0.10,
		Simulated:   true,
		Success:     true,
		ExecutedAt:  time.Date(2026, 3, 10, 12, 15, 0, 0, time.UTC),
	})

	out := buf.String()
	assert.Contains(t, out, "fairvalue")
	assert.Contains(t, out, "SIM")
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "edge 0.1000")
}

func TestConsole_TradeExecutedFailure(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.TradeExecuted(context.Background(), domain.TradeRecord{
		Strategy:   "mirror",
		Side:       domain.SideSell,
		Message:    "FOK not filled",
		ExecutedAt: time.Now(),
	})

	out := buf.String()
	assert.Contains(t, out, "LIVE")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "FOK not filled")
}

func TestConsole_FinalSummary(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.FinalSummary(domain.EngineStats{
		Strategy:     "mirror",
		StartBalance: 100,
		Balance:      103.5,
		Trades:       7,
		Wins:         3,
		Losses:       1,
		StartedAt:    time.Now().UTC(),
	})

	out := buf.String()
	assert.Contains(t, out, "mirror session")
	assert.Contains(t, out, "$+3.50")
	assert.Contains(t, out, "75.0%")
}

func TestConsole_WindowSummary(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf)

	c.WindowSummary(context.Background(), domain.EngineStats{
		Strategy: "fairvalue",
		Trades:   2,
		Skips:    5,
		Balance:  98,
	})

	assert.Contains(t, buf.String(), "fairvalue window")
	assert.Contains(t, buf.String(), "trades:2")
}
