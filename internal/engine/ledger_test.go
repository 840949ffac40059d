package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/avargasm/edgebot/internal/engine"
)

func TestLedger_MarkAndSeen(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := engine.NewLedger(5*time.Minute, time.Hour, start)

	assert.False(t, l.Seen("a"))
	l.MarkSeen("a", start, start)
	assert.True(t, l.Seen("a"))
	assert.Equal(t, 1, l.Len())

	// Re-marking is idempotent.
	l.MarkSeen("a", start, start)
	assert.Equal(t, 1, l.Len())
}

func TestLedger_Eligibility(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := engine.NewLedger(5*time.Minute, time.Hour, start)

	assert.True(t, l.Eligible(start, start))
	assert.True(t, l.Eligible(start.Add(-5*time.Minute), start))
	assert.True(t, l.Eligible(start.Add(time.Hour), start.Add(time.Hour)))
	assert.False(t, l.Eligible(start.Add(-5*time.Minute-time.Second), start))

	// The same timestamp turns stale once the retention horizon passes.
	assert.False(t, l.Eligible(start, start.Add(2*time.Hour)))
}

func TestLedger_EvictedKeyNeverReQualifies(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := engine.NewLedger(5*time.Minute, time.Hour, start)

	at := start.Add(time.Minute)
	l.MarkSeen("trade-1", at, at)
	assert.True(t, l.Seen("trade-1"))

	// Two hours on, the entry is past retention and evicted. A quiet
	// source wallet keeps re-serving the same recent-N records, so the
	// evicted key must now read as stale rather than fresh.
	now := start.Add(2 * time.Hour)
	l.MarkSeen("other", now, now)
	assert.False(t, l.Seen("trade-1"))
	assert.False(t, l.Eligible(at, now))
}

func TestLedger_EvictsOldEntries(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	l := engine.NewLedger(5*time.Minute, 2*time.Hour, start)

	for i := 0; i < 10; i++ {
		at := start.Add(time.Duration(i) * time.Minute)
		l.MarkSeen(fmt.Sprintf("k%d", i), at, at)
	}
	assert.Equal(t, 10, l.Len())

	// Three hours later the first batch is past retention.
	now := start.Add(3 * time.Hour)
	l.MarkSeen("fresh", now, now)

	assert.Equal(t, 1, l.Len())
	assert.False(t, l.Seen("k0"))
	assert.True(t, l.Seen("fresh"))
}

func TestLedger_RetentionNeverBelowBootstrap(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	// Retention of one minute would allow eviction inside the bootstrap
	// window; the ledger raises it.
	l := engine.NewLedger(30*time.Minute, time.Minute, start)

	at := start.Add(-10 * time.Minute)
	l.MarkSeen("old-but-in-window", at, start)

	// Ten minutes in, the entry is still held: a re-served record must
	// hit the seen set, not be replayed.
	now := start.Add(10 * time.Minute)
	l.MarkSeen("other", now, now)
	assert.True(t, l.Seen("old-but-in-window"))
}
