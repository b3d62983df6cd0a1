package db

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type DbWithMetrics struct {
	db DbInterface
}

func NewDbWithMetrics(db DbInterface) *DbWithMetrics {
	return &DbWithMetrics{db: db}
}

func (d *DbWithMetrics) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

func (d *DbWithMetrics) SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error {
	return d.run("SaveNewStake", func() error {
		return d.db.SaveNewStake(ctx, stakeDoc)
	})
}

func (d *DbWithMetrics) CloseStake(ctx context.Context, settlement types.StakeRemovedEvent) error {
	return d.run("CloseStake", func() error {
		return d.db.CloseStake(ctx, settlement)
	})
}

func (d *DbWithMetrics) GetStake(ctx context.Context, account common.Address, id types.StakeID) (result *model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("GetStake", func() error {
		result, err = d.db.GetStake(ctx, account, id)
		return err
	})

	return
}

func (d *DbWithMetrics) FindStakes(ctx context.Context) (result []model.StakeDocument, err error) {
	//nolint:errcheck
	d.run("FindStakes", func() error {
		result, err = d.db.FindStakes(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) SaveCrashEvent(ctx context.Context, event *model.CrashEventDocument) error {
	return d.run("SaveCrashEvent", func() error {
		return d.db.SaveCrashEvent(ctx, event)
	})
}

func (d *DbWithMetrics) GetLatestCrashCounters(ctx context.Context) (result types.CrashCounters, err error) {
	//nolint:errcheck
	d.run("GetLatestCrashCounters", func() error {
		result, err = d.db.GetLatestCrashCounters(ctx)
		return err
	})

	return
}

func (d *DbWithMetrics) UpsertOverallStats(ctx context.Context, stats types.Stats) error {
	return d.run("UpsertOverallStats", func() error {
		return d.db.UpsertOverallStats(ctx, stats)
	})
}

func (d *DbWithMetrics) GetOverallStats(ctx context.Context) (result *model.OverallStatsDocument, err error) {
	//nolint:errcheck
	d.run("GetOverallStats", func() error {
		result, err = d.db.GetOverallStats(ctx)
		return err
	})

	return
}

// run is private method that executes passed lambda function and send metrics data with spent time, method name
// and an error if any. It returns the error from the lambda function for convenience
func (d *DbWithMetrics) run(method string, f func() error) error {
	startTime := time.Now()
	err := f()
	duration := time.Since(startTime)

	metrics.RecordDbLatency(duration, method, err != nil)
	return err
}
