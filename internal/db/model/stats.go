package model

import (
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

const (
	OverallStatsCollection = "overall_stats"
	OverallStatsID         = "overall_stats"
)

// OverallStatsDocument represents the ledger wide statistics
type OverallStatsDocument struct {
	ID            string              `bson:"_id"`            // Always "overall_stats"
	TotalStaked   string              `bson:"total_staked"`   // Sum of open stake principal, decimal
	ActiveStakers uint64              `bson:"active_stakers"` // Accounts with an open stake
	OpenStakes    uint64              `bson:"open_stakes"`
	CrashCounters types.CrashCounters `bson:"crash_counters"`
	LastUpdated   int64               `bson:"last_updated"` // Unix timestamp of last update
}
