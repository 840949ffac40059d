package engine

import "time"

// Ledger tracks which observations have already been acted on, and
// enforces the bootstrap window: anything observed before
// start - bootstrap is permanently ignored, even on first sight, so a
// fresh process never mass-replays a feed's history.
//
// The seen set is bounded: entries are held in insertion order and
// evicted once older than the retention horizon. Eligibility applies
// the same horizon, so an evicted key reads as stale and a re-served
// record can never produce a second action.
type Ledger struct {
	start     time.Time
	bootstrap time.Duration
	retention time.Duration
	seen      map[string]struct{}
	queue     []ledgerEntry
}

type ledgerEntry struct {
	key string
	at  time.Time
}

// NewLedger creates a ledger anchored at start (process start time).
// retention is raised to at least the bootstrap window plus an hour so
// eviction can never race the window check.
func NewLedger(bootstrap, retention time.Duration, start time.Time) *Ledger {
	if min := bootstrap + time.Hour; retention < min {
		retention = min
	}
	return &Ledger{
		start:     start,
		bootstrap: bootstrap,
		retention: retention,
		seen:      make(map[string]struct{}),
	}
}

// Seen reports whether the key has been marked.
func (l *Ledger) Seen(key string) bool {
	_, ok := l.seen[key]
	return ok
}

// MarkSeen records the key and evicts expired entries.
func (l *Ledger) MarkSeen(key string, observedAt, now time.Time) {
	l.evict(now)
	if _, ok := l.seen[key]; ok {
		return
	}
	l.seen[key] = struct{}{}
	l.queue = append(l.queue, ledgerEntry{key: key, at: observedAt})
}

// Eligible reports whether an observation is recent enough to act on:
// at or after start - bootstrap, and not past the retention horizon.
// The retention bound matches evict, so a key that has been dropped
// from the seen set never re-qualifies.
func (l *Ledger) Eligible(observedAt, now time.Time) bool {
	if observedAt.Before(l.start.Add(-l.bootstrap)) {
		return false
	}
	return !observedAt.Before(now.Add(-l.retention))
}

// Len returns the number of tracked keys.
func (l *Ledger) Len() int { return len(l.seen) }

func (l *Ledger) evict(now time.Time) {
	horizon := now.Add(-l.retention)
	i := 0
	for ; i < len(l.queue); i++ {
		if !l.queue[i].at.Before(horizon) {
			break
		}
		delete(l.seen, l.queue[i].key)
	}
	if i > 0 {
		l.queue = append(l.queue[:0], l.queue[i:]...)
	}
}
