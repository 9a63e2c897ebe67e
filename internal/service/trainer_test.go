package service

import (
	"context"
	"testing"
	"time"

	"github.com/Harshitk-cp/peckorder/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerService_RunAll(t *testing.T) {
	f := newSimFixture(t)
	ctx := context.Background()
	zero := f.agent(t, domain.KindZeroOrder, domain.ZeroOrder)
	first := f.agent(t, domain.KindFirstOrder, domain.FirstOrder)
	random := f.agent(t, domain.KindRandom, domain.ZeroOrder)

	trainer := NewTrainerService(f.agents, f.svc, testLogger())
	trainer.SetGames(5)
	require.NoError(t, trainer.RunAll(ctx))

	snaps, err := f.svc.Beliefs(ctx, zero.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 5, snaps[0].GamesPlayed)

	snaps, err = f.svc.Beliefs(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)

	snaps, err = f.svc.Beliefs(ctx, random.ID)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	require.NoError(t, trainer.RunAll(ctx))
	snaps, err = f.svc.Beliefs(ctx, zero.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, snaps[0].GamesPlayed)

	// Training never records matches.
	assert.Empty(t, f.matches.matches)
}

func TestTrainerService_RunAllCancelled(t *testing.T) {
	f := newSimFixture(t)
	f.agent(t, domain.KindZeroOrder, domain.ZeroOrder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trainer := NewTrainerService(f.agents, f.svc, testLogger())
	assert.ErrorIs(t, trainer.RunAll(ctx), context.Canceled)
	assert.Zero(t, f.beliefs.upserts)
}

func TestTrainerService_StartStop(t *testing.T) {
	f := newSimFixture(t)
	f.agent(t, domain.KindZeroOrder, domain.ZeroOrder)

	trainer := NewTrainerService(f.agents, f.svc, testLogger())
	trainer.SetInterval(10 * time.Millisecond)
	trainer.SetGames(2)
	trainer.Start()

	assert.Eventually(t, func() bool {
		f.beliefs.mu.Lock()
		defer f.beliefs.mu.Unlock()
		return f.beliefs.upserts > 0
	}, 2*time.Second, 10*time.Millisecond)

	trainer.Stop()
}
