package services

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/ledger"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func (s *Service) OpenStake(
	ctx context.Context, account common.Address, amount sdkmath.Int, durationMonths uint32,
) (types.StakeID, *types.Error) {
	var id types.StakeID
	err := s.write(ctx, "OpenStake", func() *types.Error {
		var err *types.Error
		id, err = s.ledger.OpenStake(ctx, account, amount, durationMonths)
		return err
	})
	return id, err
}

func (s *Service) CloseStake(ctx context.Context, account common.Address, id types.StakeID) (types.Quote, *types.Error) {
	var quote types.Quote
	err := s.write(ctx, "CloseStake", func() *types.Error {
		var err *types.Error
		quote, err = s.ledger.CloseStake(ctx, account, id)
		return err
	})
	return quote, err
}

func (s *Service) RecordCrashEvent(
	ctx context.Context, reporter common.Address, big, medium, small bool,
) (types.CrashCounters, *types.Error) {
	var counters types.CrashCounters
	err := s.write(ctx, "RecordCrashEvent", func() *types.Error {
		var err *types.Error
		counters, err = s.ledger.RecordCrashEvent(ctx, reporter, big, medium, small)
		return err
	})
	return counters, err
}

func (s *Service) GetStake(account common.Address, id types.StakeID) (types.Stake, *types.Error) {
	var stake types.Stake
	err := s.read("GetStake", func() *types.Error {
		var err *types.Error
		stake, err = s.ledger.GetStake(account, id)
		return err
	})
	return stake, err
}

func (s *Service) ListStakes(account common.Address) []types.Stake {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.ListStakes(account)
}

func (s *Service) Penalty(account common.Address, id types.StakeID) (uint64, *types.Error) {
	var fraction uint64
	err := s.read("Penalty", func() *types.Error {
		var err *types.Error
		fraction, err = s.ledger.Penalty(account, id)
		return err
	})
	return fraction, err
}

func (s *Service) BonusAPY(account common.Address, id types.StakeID) (uint64, *types.Error) {
	var bonus uint64
	err := s.read("BonusAPY", func() *types.Error {
		var err *types.Error
		bonus, err = s.ledger.BonusAPY(account, id)
		return err
	})
	return bonus, err
}

func (s *Service) Quote(account common.Address, id types.StakeID) (types.Quote, *types.Error) {
	var quote types.Quote
	err := s.read("Quote", func() *types.Error {
		var err *types.Error
		quote, err = s.ledger.Quote(account, id)
		return err
	})
	return quote, err
}

func (s *Service) CrashCounters() types.CrashCounters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.CrashCounters()
}

func (s *Service) Stats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Stats()
}

func (s *Service) Snapshot() ledger.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Snapshot()
}

// write runs a mutating ledger operation. The events it committed are
// dispatched after the ledger lock is released, but before the next writer
// can dispatch its own.
func (s *Service) write(ctx context.Context, operation string, f func() *types.Error) *types.Error {
	outbox, err := s.commit(operation, f)
	defer s.dispatchMu.Unlock()

	s.dispatch(ctx, outbox)
	return err
}

// commit runs f under the ledger lock and returns holding the dispatch lock.
// A panicking operation releases the ledger lock and takes no dispatch lock.
func (s *Service) commit(operation string, f func() *types.Error) ([]outboxEntry, *types.Error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	startTime := time.Now()
	err := f()
	recordOperation(time.Since(startTime), operation, err)

	outbox := s.collect(s.ledger.DrainEvents())
	s.dispatchMu.Lock()
	return outbox, err
}

func (s *Service) read(operation string, f func() *types.Error) *types.Error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	startTime := time.Now()
	err := f()
	recordOperation(time.Since(startTime), operation, err)
	return err
}

func recordOperation(d time.Duration, operation string, err *types.Error) {
	if err != nil {
		metrics.RecordLedgerOperation(d, operation, err)
		return
	}
	metrics.RecordLedgerOperation(d, operation, nil)
}
