package db

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type DbInterface interface {
	Ping(ctx context.Context) error
	// SaveNewStake returns DuplicateKeyError if the stake is already stored.
	SaveNewStake(ctx context.Context, stakeDoc *model.StakeDocument) error
	// CloseStake marks an open stake closed and stores its settlement. It
	// returns NotFoundError if no open stake matches.
	CloseStake(ctx context.Context, settlement types.StakeRemovedEvent) error
	GetStake(ctx context.Context, account common.Address, id types.StakeID) (*model.StakeDocument, error)
	// FindStakes returns every stake ordered by account and id.
	FindStakes(ctx context.Context) ([]model.StakeDocument, error)
	SaveCrashEvent(ctx context.Context, event *model.CrashEventDocument) error
	// GetLatestCrashCounters returns zero counters when no event was stored.
	GetLatestCrashCounters(ctx context.Context) (types.CrashCounters, error)
	UpsertOverallStats(ctx context.Context, stats types.Stats) error
	GetOverallStats(ctx context.Context) (*model.OverallStatsDocument, error)
}
