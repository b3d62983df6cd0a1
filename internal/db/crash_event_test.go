//go:build integration

package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func TestCrashEvents(t *testing.T) {
	ctx := t.Context()
	t.Cleanup(func() {
		resetDatabase(t)
	})

	t.Run("no events", func(t *testing.T) {
		counters, err := testDB.GetLatestCrashCounters(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.CrashCounters{}, counters)
	})
	t.Run("latest wins", func(t *testing.T) {
		reporter := randomAccount(t)
		at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		var counters types.CrashCounters
		for _, flags := range [][3]bool{{true, false, false}, {false, true, true}, {true, true, true}} {
			counters = counters.Incremented(flags[0], flags[1], flags[2])
			event := types.BankCrashEventAddedEvent{
				Reporter: reporter,
				Big:      flags[0],
				Medium:   flags[1],
				Small:    flags[2],
				Counters: counters,
				At:       at,
			}
			err := testDB.SaveCrashEvent(ctx, model.NewCrashEventDocument(event))
			require.NoError(t, err)
			at = at.Add(time.Hour)
		}

		latest, err := testDB.GetLatestCrashCounters(ctx)
		require.NoError(t, err)
		assert.Equal(t, types.CrashCounters{Big: 2, Medium: 2, Small: 2}, latest)
	})
	t.Run("duplicate sequence", func(t *testing.T) {
		doc := model.NewCrashEventDocument(types.BankCrashEventAddedEvent{
			Reporter: randomAccount(t),
			Big:      true,
			Counters: types.CrashCounters{Big: 100},
			At:       time.Now(),
		})
		require.NoError(t, testDB.SaveCrashEvent(ctx, doc))

		err := testDB.SaveCrashEvent(ctx, doc)
		require.Error(t, err)
		assert.True(t, db.IsDuplicateKeyError(err))
	})
}
