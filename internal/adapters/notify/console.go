// Package notify prints trade activity to the console.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/avargasm/edgebot/internal/domain"
)

// Console implements ports.Notifier.
type Console struct {
	out io.Writer
}

// NewConsole creates a notifier that writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// TradeExecuted prints one status line per dispatch outcome.
func (c *Console) TradeExecuted(_ context.Context, rec domain.TradeRecord) {
	now := rec.ExecutedAt.Format("15:04:05")

	mode := "LIVE"
	if rec.Simulated {
		mode = "SIM"
	}
	status := "OK"
	if !rec.Success {
		status = "FAIL"
	}

	line := fmt.Sprintf("[%s] %s %s %s %s %.2f shares @ %.4f ($%.2f)",
		now, rec.Strategy, mode, status, rec.Side,
		rec.Shares, rec.Price, rec.NotionalUSD)
	if rec.Edge > 0 {
		line += fmt.Sprintf(" edge %.4f", rec.Edge)
	}
	if !rec.Success && rec.Message != "" {
		line += " — " + rec.Message
	}
	fmt.Fprintln(c.out, line)
}

// WindowSummary prints the running counters at a window rollover.
func (c *Console) WindowSummary(_ context.Context, stats domain.EngineStats) {
	fmt.Fprintf(c.out, "[%s] %s window: trades:%d skips:%d errors:%d balance:$%.2f daily-loss:$%.2f\n",
		time.Now().Format("15:04:05"), stats.Strategy,
		stats.Trades, stats.Skips, stats.Errors,
		stats.Balance, stats.DailyLoss)
}

// FinalSummary prints the session table on shutdown.
func (c *Console) FinalSummary(stats domain.EngineStats) {
	fmt.Fprintf(c.out, "\n%s session — started %s\n",
		stats.Strategy, stats.StartedAt.Format("2006-01-02 15:04:05 MST"))

	table := tablewriter.NewWriter(c.out)
	table.Header("Trades", "Wins", "Losses", "Win rate", "Skips", "Errors", "Balance", "PnL")
	table.Append(
		fmt.Sprintf("%d", stats.Trades),
		fmt.Sprintf("%d", stats.Wins),
		fmt.Sprintf("%d", stats.Losses),
		fmt.Sprintf("%.1f%%", stats.WinRate()),
		fmt.Sprintf("%d", stats.Skips),
		fmt.Sprintf("%d", stats.Errors),
		fmt.Sprintf("$%.2f", stats.Balance),
		fmt.Sprintf("$%+.2f", stats.PnL()),
	)
	table.Render()
}
