package ledger

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func (l *Ledger) GetStake(account common.Address, id types.StakeID) (types.Stake, *types.Error) {
	stake, ok := l.state.Stake(account, id)
	if !ok {
		return types.Stake{}, types.NewNotFoundError(
			fmt.Errorf("stake %d of account %s not found", id, account.Hex()),
		)
	}
	return stake, nil
}

// ListStakes returns all stakes of account, including closed ones.
func (l *Ledger) ListStakes(account common.Address) []types.Stake {
	return l.state.Stakes(account)
}

// Penalty returns the release fraction the stake would be closed with now.
func (l *Ledger) Penalty(account common.Address, id types.StakeID) (uint64, *types.Error) {
	stake, err := l.openStake(account, id)
	if err != nil {
		return 0, err
	}
	return l.params.Penalty.ReleaseFraction(stake.CreatedAt, stake.EndAt, l.now()), nil
}

// BonusAPY returns the bonus percentage the stake has earned from crash events
// reported since it was opened.
func (l *Ledger) BonusAPY(account common.Address, id types.StakeID) (uint64, *types.Error) {
	stake, err := l.openStake(account, id)
	if err != nil {
		return 0, err
	}
	return l.params.Bonus.BonusAPY(l.crashes.snapshot(), stake.CrashSnapshot), nil
}

// Quote previews closing the stake now without changing any state.
func (l *Ledger) Quote(account common.Address, id types.StakeID) (types.Quote, *types.Error) {
	stake, err := l.openStake(account, id)
	if err != nil {
		return types.Quote{}, err
	}
	return l.quote(stake, l.now()), nil
}

func (l *Ledger) CrashCounters() types.CrashCounters {
	return l.crashes.snapshot()
}

func (l *Ledger) Stats() types.Stats {
	return l.state.Stats()
}

func (l *Ledger) Snapshot() Snapshot {
	return l.state.Snapshot()
}
