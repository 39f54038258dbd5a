package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattend/internal/common"
	"github.com/dmitrijs2005/gophattend/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayGuard_ConsumeWithinWindow(t *testing.T) {
	g := NewReplayGuard(300 * time.Second)
	t0 := time.Unix(1000, 0)

	require.NoError(t, g.Consume("E1", 1000, t0))
	assert.ErrorIs(t, g.Consume("E1", 1000, t0.Add(299*time.Second)), common.ErrAlreadyUsed)

	// other identity or other slot is unaffected
	assert.NoError(t, g.Consume("E2", 1000, t0))
	assert.NoError(t, g.Consume("E1", 1010, t0))
}

func TestReplayGuard_ExpiresAfterWindow(t *testing.T) {
	g := NewReplayGuard(300 * time.Second)
	t0 := time.Unix(1000, 0)

	g.Mark("E1", 1000, t0)
	assert.ErrorIs(t, g.Check("E1", 1000, t0.Add(time.Second)), common.ErrAlreadyUsed)
	assert.NoError(t, g.Check("E1", 1000, t0.Add(300*time.Second)))
	assert.Equal(t, 0, g.Len(), "expired entry is dropped lazily")
}

func TestReplayGuard_CheckDoesNotRecord(t *testing.T) {
	g := NewReplayGuard(time.Minute)
	now := time.Unix(1000, 0)

	require.NoError(t, g.Check("E1", 1000, now))
	require.NoError(t, g.Check("E1", 1000, now))
	assert.Equal(t, 0, g.Len())
}

func TestReplayGuard_Compact(t *testing.T) {
	g := NewReplayGuard(time.Minute)
	t0 := time.Unix(1000, 0)

	g.Mark("E1", 1000, t0)
	g.Mark("E2", 1000, t0.Add(30*time.Second))

	assert.Equal(t, 1, g.Compact(t0.Add(time.Minute)))
	assert.Equal(t, 1, g.Len())
	assert.Equal(t, 1, g.Compact(t0.Add(2*time.Minute)))
	assert.Equal(t, 0, g.Len())
}

func TestReplayGuard_RunStopsOnCancel(t *testing.T) {
	g := NewReplayGuard(time.Millisecond)
	g.Mark("E1", 1, time.Unix(0, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		g.Run(ctx, time.Millisecond, timex.SystemClock)
		close(done)
	}()

	assert.Eventually(t, func() bool { return g.Len() == 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestReplayGuard_RunDisabled(t *testing.T) {
	g := NewReplayGuard(time.Minute)
	// returns immediately
	g.Run(context.Background(), 0, timex.SystemClock)
}
