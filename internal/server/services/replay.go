package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/timex"
)

type replayKey struct {
	identityID string
	slotStart  int64
}

// ReplayGuard remembers when each (identity, slot) pair was last consumed.
// Entries older than the reuse window count as absent and are dropped by
// Compact.
type ReplayGuard struct {
	mu     sync.Mutex
	window time.Duration
	used   map[replayKey]time.Time
}

func NewReplayGuard(window time.Duration) *ReplayGuard {
	return &ReplayGuard{window: window, used: make(map[replayKey]time.Time)}
}

// Check reports common.ErrAlreadyUsed when the pair was consumed less than
// the reuse window before now. It does not record anything.
func (g *ReplayGuard) Check(identityID string, slotStart int64, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.check(replayKey{identityID, slotStart}, now)
}

// Mark records the pair as consumed at now.
func (g *ReplayGuard) Mark(identityID string, slotStart int64, now time.Time) {
	g.mu.Lock()
	g.used[replayKey{identityID, slotStart}] = now
	g.mu.Unlock()
}

// Consume is Check followed by Mark in one step, for callers that do not
// verify anything between the two. AuthenticationProtocol calls Check and
// Mark separately so that a slot is marked only after the holder signature
// verified and the ledger accepted the submission.
func (g *ReplayGuard) Consume(identityID string, slotStart int64, now time.Time) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := replayKey{identityID, slotStart}
	if err := g.check(k, now); err != nil {
		return err
	}
	g.used[k] = now
	return nil
}

func (g *ReplayGuard) check(k replayKey, now time.Time) error {
	last, ok := g.used[k]
	if !ok {
		return nil
	}
	if now.Sub(last) < g.window {
		return common.ErrAlreadyUsed
	}
	delete(g.used, k)
	return nil
}

// Compact drops every entry that has outlived the reuse window and returns
// how many were removed.
func (g *ReplayGuard) Compact(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for k, last := range g.used {
		if now.Sub(last) >= g.window {
			delete(g.used, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of remembered pairs.
func (g *ReplayGuard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.used)
}

// Run compacts the table every interval until ctx is done.
func (g *ReplayGuard) Run(ctx context.Context, every time.Duration, clock timex.Clock) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Compact(clock())
		}
	}
}
