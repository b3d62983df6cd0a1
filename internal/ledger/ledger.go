// Package ledger holds the stake lifecycle: opening and closing stakes,
// recording crash events and answering read-only queries. A Ledger is a
// single-writer store; callers serialize access to it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/fixedpoint"
	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type Ledger struct {
	state   *State
	crashes crashRegistry
	engine  *rewards.Engine
	params  Params
	bank    BalanceLedger
	gate    AuthorizationGate
	clock   clockwork.Clock
	events  []types.Event
}

func New(
	state *State,
	engine *rewards.Engine,
	params Params,
	bank BalanceLedger,
	gate AuthorizationGate,
	clock clockwork.Clock,
) (*Ledger, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ledger params: %w", err)
	}
	if state == nil {
		state = NewState()
	}

	return &Ledger{
		state:   state,
		crashes: crashRegistry{state: state},
		engine:  engine,
		params:  params,
		bank:    bank,
		gate:    gate,
		clock:   clock,
	}, nil
}

func (l *Ledger) Params() Params {
	return l.params
}

func (l *Ledger) Engine() *rewards.Engine {
	return l.engine
}

// now is the ledger time. Stakes are tracked with one second resolution.
func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC().Truncate(time.Second)
}

// OpenStake locks amount from account for durationMonths and returns the id of
// the new stake.
func (l *Ledger) OpenStake(
	ctx context.Context, account common.Address, amount sdkmath.Int, durationMonths uint32,
) (types.StakeID, *types.Error) {
	if durationMonths < l.params.MinDurationMonths || durationMonths > l.params.MaxDurationMonths {
		return 0, types.NewValidationFailedError(errors.New("duration out of range"))
	}
	if amount.IsNil() || !amount.IsPositive() {
		return 0, types.NewValidationFailedError(errors.New("zero amount"))
	}
	if account == (common.Address{}) {
		return 0, types.NewValidationFailedError(errors.New("zero account"))
	}

	createdAt := l.now()
	stake := types.Stake{
		ID:             l.state.NextStakeID(account),
		Account:        account,
		Amount:         amount,
		DurationMonths: durationMonths,
		CreatedAt:      createdAt,
		EndAt:          createdAt.Add(l.params.LockDuration(durationMonths)),
		BaseAPY:        l.params.BaseAPY,
		MaxAPY:         l.params.MaxAPY(durationMonths),
		CrashSnapshot:  l.crashes.snapshot(),
	}
	if !l.payoutFits(stake) {
		return 0, types.NewValidationFailedError(errors.New("amount too large"))
	}

	if err := l.bank.Debit(ctx, account, amount); err != nil {
		return 0, types.AsError(err)
	}

	var j journal
	l.state.insertStake(&j, stake)

	l.emit(types.StakeCreatedEvent{
		Account: account,
		StakeID: stake.ID,
		Amount:  amount,
		EndAt:   stake.EndAt,
		BaseAPY: stake.BaseAPY,
		MaxAPY:  stake.MaxAPY,
	})

	log.Ctx(ctx).Info().
		Str("account", account.Hex()).
		Uint64("stake_id", uint64(stake.ID)).
		Str("amount", amount.String()).
		Uint32("duration_months", durationMonths).
		Msg("stake opened")

	return stake.ID, nil
}

// CloseStake closes an open stake and credits the payout to its owner. The
// stake is marked closed before the credit; a failed credit restores it.
func (l *Ledger) CloseStake(
	ctx context.Context, account common.Address, id types.StakeID,
) (types.Quote, *types.Error) {
	stake, err := l.openStake(account, id)
	if err != nil {
		return types.Quote{}, err
	}

	now := l.now()
	quote := l.quote(stake, now)

	var j journal
	defer func() {
		if r := recover(); r != nil {
			j.revert()
			panic(r)
		}
	}()
	l.state.closeStake(&j, account, id, now)

	if creditErr := l.bank.Credit(ctx, account, quote.Payout); creditErr != nil {
		j.revert()
		log.Ctx(ctx).Error().Err(creditErr).
			Str("account", account.Hex()).
			Uint64("stake_id", uint64(id)).
			Msg("payout credit failed, stake close reverted")
		return types.Quote{}, types.AsError(creditErr)
	}

	l.emit(types.StakeRemovedEvent{
		Account:         account,
		StakeID:         id,
		Amount:          quote.Principal,
		RewardPaid:      quote.Reward,
		Payout:          quote.Payout,
		ReleaseFraction: quote.ReleaseFraction,
		ClosedAt:        now,
	})

	log.Ctx(ctx).Info().
		Str("account", account.Hex()).
		Uint64("stake_id", uint64(id)).
		Str("reward", quote.Reward.String()).
		Str("payout", quote.Payout.String()).
		Uint64("release_fraction", quote.ReleaseFraction).
		Msg("stake closed")

	return quote, nil
}

// RecordCrashEvent increments the flagged crash counters. Only privileged
// reporters may call it.
func (l *Ledger) RecordCrashEvent(
	ctx context.Context, reporter common.Address, big, medium, small bool,
) (types.CrashCounters, *types.Error) {
	if !l.gate.IsPrivileged(reporter) {
		return types.CrashCounters{}, types.NewForbiddenError(
			fmt.Errorf("%s is not a privileged reporter", reporter.Hex()),
		)
	}

	var j journal
	counters, err := l.crashes.record(&j, big, medium, small)
	if err != nil {
		return types.CrashCounters{}, types.NewValidationFailedError(err)
	}

	l.emit(types.BankCrashEventAddedEvent{
		Reporter: reporter,
		Big:      big,
		Medium:   medium,
		Small:    small,
		Counters: counters,
		At:       l.now(),
	})

	log.Ctx(ctx).Info().
		Str("reporter", reporter.Hex()).
		Bool("big", big).
		Bool("medium", medium).
		Bool("small", small).
		Msg("crash event recorded")

	return counters, nil
}

// DrainEvents returns the events emitted since the previous call, oldest first.
func (l *Ledger) DrainEvents() []types.Event {
	events := l.events
	l.events = nil
	return events
}

func (l *Ledger) emit(event types.Event) {
	l.events = append(l.events, event)
}

func (l *Ledger) openStake(account common.Address, id types.StakeID) (types.Stake, *types.Error) {
	stake, ok := l.state.Stake(account, id)
	if !ok {
		return types.Stake{}, types.NewNotFoundError(
			fmt.Errorf("stake %d of account %s not found", id, account.Hex()),
		)
	}
	if !stake.IsOpen() {
		return types.Stake{}, types.NewAlreadyClosedError(
			fmt.Errorf("stake %d of account %s is already closed", id, account.Hex()),
		)
	}
	return stake, nil
}

// payoutFits reports whether the largest payout stake can ever reach, with the
// rate pinned at its cap until maturity, stays within 256 bit arithmetic.
func (l *Ledger) payoutFits(stake types.Stake) (fits bool) {
	defer func() {
		if r := recover(); r != nil {
			fits = false
		}
	}()

	reward := l.engine.AccrueReward(stake.Amount, stake.CreatedAt, stake.EndAt, math.MaxUint64, stake.MaxAPY, stake.EndAt)
	fixedpoint.ApplyPercent(stake.Amount.Add(reward), rewards.FullRelease)
	return true
}

func (l *Ledger) quote(stake types.Stake, now time.Time) types.Quote {
	bonus := l.params.Bonus.BonusAPY(l.crashes.snapshot(), stake.CrashSnapshot)
	finalAPY := stake.BaseAPY + bonus

	reward := l.engine.AccrueReward(stake.Amount, stake.CreatedAt, stake.EndAt, finalAPY, stake.MaxAPY, now)
	fraction := l.params.Penalty.ReleaseFraction(stake.CreatedAt, stake.EndAt, now)

	return types.Quote{
		Principal:       stake.Amount,
		Reward:          reward,
		Payout:          fixedpoint.ApplyPercent(stake.Amount.Add(reward), fraction),
		ReleaseFraction: fraction,
		BonusAPY:        bonus,
		FinalAPY:        finalAPY,
		At:              now,
	}
}
