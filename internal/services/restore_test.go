//go:build integration

package services

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/queue"
)

func TestRestoreFromMirror(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	cfg := testConfig()
	clock := clockwork.NewFakeClockAt(genesis)
	store := db.NewDbWithMetrics(testDB)

	b, err := NewBank(&cfg.Staking)
	require.NoError(t, err)
	l, err := NewLedger(ctx, &cfg.Staking, store, b, clock)
	require.NoError(t, err)
	srv := NewService(cfg, l, store, queue.NoopPublisher{}, clock)

	first, opErr := srv.OpenStake(ctx, alice, sdkmath.NewInt(1000), 6)
	require.Nil(t, opErr)
	second, opErr := srv.OpenStake(ctx, alice, sdkmath.NewInt(2500), 12)
	require.Nil(t, opErr)

	_, opErr = srv.RecordCrashEvent(ctx, reporter, true, false, false)
	require.Nil(t, opErr)
	_, opErr = srv.RecordCrashEvent(ctx, reporter, false, true, true)
	require.Nil(t, opErr)

	clock.Advance(30 * day)
	_, opErr = srv.CloseStake(ctx, alice, first)
	require.Nil(t, opErr)

	require.NoError(t, srv.updateStats(ctx))
	statsDoc, err := testDB.GetOverallStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2500", statsDoc.TotalStaked)

	// the bank keeps its live balances across the restore
	cfg.Staking.RestoreFromDb = true
	cfg.Staking.InitialBalances = nil
	restored, err := NewLedger(ctx, &cfg.Staking, store, b, clock)
	require.NoError(t, err)

	assert.Equal(t, srv.Snapshot(), restored.Snapshot())

	quote, opErr := restored.Quote(alice, second)
	require.Nil(t, opErr)
	assert.Equal(t, uint64(4+10+5+1), quote.FinalAPY)
}
