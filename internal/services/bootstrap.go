package services

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/auth"
	"github.com/crashbonus/crash-staking-ledger/internal/bank"
	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/ledger"
	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

// LedgerParams maps a staking profile onto ledger parameters.
func LedgerParams(profile config.Profile) ledger.Params {
	return ledger.Params{
		BaseAPY:           profile.BaseAPY,
		MaxAPYConst:       profile.MaxAPYConst,
		MaxAPYSlope:       profile.MaxAPYSlope,
		MinDurationMonths: profile.MinDurationMonths,
		MaxDurationMonths: profile.MaxDurationMonths,
		Penalty: rewards.PenaltySchedule{
			GracePeriod:      profile.GracePeriod,
			MinPenaltyWindow: profile.MinPenaltyWindow,
			MinRelease:       profile.MinRelease,
		},
		Bonus: profile.BonusWeights(),
	}
}

// NewEngine builds the reward engine for the configured profile.
func NewEngine(cfg *config.StakingConfig) (*rewards.Engine, error) {
	profile, err := cfg.ResolveProfile()
	if err != nil {
		return nil, err
	}
	return rewards.NewEngine(rewards.Schedule{
		HalvingStart:  cfg.HalvingStart.UTC(),
		HalvingPeriod: profile.HalvingPeriod,
		Compounding:   profile.Compounding,
	}, cfg.RateCacheSize)
}

// NewBank returns an in-memory bank seeded with the configured balances.
func NewBank(cfg *config.StakingConfig) (*bank.Bank, error) {
	balances, err := cfg.ParseInitialBalances()
	if err != nil {
		return nil, err
	}

	b := bank.New()
	for account, amount := range balances {
		b.Seed(account, amount)
	}
	return b, nil
}

// NewLedger wires a ledger from config. When restore-from-db is set the
// stakes and crash counters are loaded from the mirror first.
func NewLedger(
	ctx context.Context,
	cfg *config.StakingConfig,
	store db.DbInterface,
	balances ledger.BalanceLedger,
	clock clockwork.Clock,
) (*ledger.Ledger, error) {
	profile, err := cfg.ResolveProfile()
	if err != nil {
		return nil, err
	}

	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create reward engine: %w", err)
	}

	gate, err := auth.ParseAllowlist(cfg.PrivilegedReporters)
	if err != nil {
		return nil, err
	}

	if err := cfg.CheckRestore(); err != nil {
		return nil, err
	}

	var state *ledger.State
	if cfg.RestoreFromDb {
		state, err = restoreState(ctx, store)
		if err != nil {
			return nil, fmt.Errorf("failed to restore ledger state: %w", err)
		}
	}

	return ledger.New(state, engine, LedgerParams(profile), balances, gate, clock)
}

func restoreState(ctx context.Context, store db.DbInterface) (*ledger.State, error) {
	docs, err := store.FindStakes(ctx)
	if err != nil {
		return nil, err
	}

	stakes := make([]types.Stake, 0, len(docs))
	for _, doc := range docs {
		stake, err := doc.ToStake()
		if err != nil {
			return nil, err
		}
		stakes = append(stakes, stake)
	}

	counters, err := store.GetLatestCrashCounters(ctx)
	if err != nil {
		return nil, err
	}

	state, err := ledger.LoadState(stakes, counters)
	if err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Int("stakes", len(stakes)).
		Interface("crash_counters", counters).
		Msg("Restored ledger state from db")

	return state, nil
}
