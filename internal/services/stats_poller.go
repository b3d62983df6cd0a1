package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/utils/poller"
)

// StartStatsPoller publishes the ledger aggregates every polling interval
// until ctx is cancelled.
func (s *Service) StartStatsPoller(ctx context.Context) {
	statsPoller := poller.NewPoller(
		"stats",
		s.cfg.Poller.StatsPollingInterval,
		s.clock,
		metrics.RecordPollerDuration("stats", s.updateStats),
	)
	statsPoller.Start(ctx)
}

func (s *Service) updateStats(ctx context.Context) error {
	stats := s.Stats()
	metrics.RecordStats(stats)

	if s.db != nil {
		if err := s.db.UpsertOverallStats(ctx, stats); err != nil {
			return fmt.Errorf("failed to upsert overall stats: %w", err)
		}
	}

	log.Ctx(ctx).Debug().
		Str("total_staked", stats.TotalStaked.String()).
		Uint64("active_stakers", stats.ActiveStakers).
		Uint64("open_stakes", stats.OpenStakes).
		Msg("Updated overall stats")

	return nil
}
