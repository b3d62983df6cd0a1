package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func TestRecordLedgerOperation(t *testing.T) {
	before := testutil.ToFloat64(ledgerOperationErrors.WithLabelValues("OpenStake", string(types.ValidationError)))

	RecordLedgerOperation(time.Millisecond, "OpenStake", nil)
	RecordLedgerOperation(time.Millisecond, "OpenStake", types.NewValidationFailedError(errors.New("zero amount")))

	after := testutil.ToFloat64(ledgerOperationErrors.WithLabelValues("OpenStake", string(types.ValidationError)))
	assert.Equal(t, before+1, after)
}

func TestRecordStats(t *testing.T) {
	RecordStats(types.Stats{
		TotalStaked:   sdkmath.NewInt(1500),
		ActiveStakers: 2,
		OpenStakes:    3,
		CrashCounters: types.CrashCounters{Big: 1, Small: 4},
	})

	assert.Equal(t, 1500.0, testutil.ToFloat64(totalStakedGauge))
	assert.Equal(t, 2.0, testutil.ToFloat64(activeStakersGauge))
	assert.Equal(t, 3.0, testutil.ToFloat64(openStakesGauge))
	assert.Equal(t, 4.0, testutil.ToFloat64(crashCountersGauge.WithLabelValues("small")))
}

func TestRecordPollerDuration(t *testing.T) {
	failing := RecordPollerDuration("test", func(ctx context.Context) error {
		return errors.New("boom")
	})
	require.Error(t, failing(context.Background()))

	ok := RecordPollerDuration("test", func(ctx context.Context) error { return nil })
	require.NoError(t, ok(context.Background()))

	assert.Equal(t, 2, testutil.CollectAndCount(pollerDurationHistogram))
}
