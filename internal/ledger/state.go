package ledger

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
	"github.com/crashbonus/crash-staking-ledger/internal/utils/state"
)

type accountStakes struct {
	// stakes[i].ID == i; the next id is len(stakes).
	stakes []types.Stake
	active uint64
}

// State is the single-writer store of stakes, crash counters and aggregates.
// It is not safe for concurrent use.
type State struct {
	accounts      map[common.Address]*accountStakes
	counters      types.CrashCounters
	totalStaked   sdkmath.Int
	activeStakers uint64
	openStakes    uint64
}

func NewState() *State {
	return &State{
		accounts:    make(map[common.Address]*accountStakes),
		totalStaked: sdkmath.ZeroInt(),
	}
}

// LoadState rebuilds a state from previously persisted stakes and counters.
func LoadState(stakes []types.Stake, counters types.CrashCounters) (*State, error) {
	sorted := slices.Clone(stakes)
	slices.SortFunc(sorted, func(a, b types.Stake) int {
		if c := a.Account.Cmp(b.Account); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	s := NewState()
	s.counters = counters

	var j journal
	for _, stake := range sorted {
		if stake.ID != s.NextStakeID(stake.Account) {
			return nil, fmt.Errorf("stake %d of %s is out of sequence", stake.ID, stake.Account.Hex())
		}
		if !stake.Amount.IsPositive() {
			return nil, fmt.Errorf("stake %d of %s has non positive amount", stake.ID, stake.Account.Hex())
		}
		if !counters.Covers(stake.CrashSnapshot) {
			return nil, fmt.Errorf("stake %d of %s has a crash snapshot ahead of the counters", stake.ID, stake.Account.Hex())
		}

		closedAt := stake.ClosedAt
		stake.ClosedAt = time.Time{}
		s.insertStake(&j, stake)
		if !closedAt.IsZero() {
			s.closeStake(&j, stake.Account, stake.ID, closedAt)
		}
	}

	return s, nil
}

func (s *State) Stake(account common.Address, id types.StakeID) (types.Stake, bool) {
	acct, ok := s.accounts[account]
	if !ok || uint64(id) >= uint64(len(acct.stakes)) {
		return types.Stake{}, false
	}
	return acct.stakes[id], true
}

// Stakes returns every stake of account, open and closed, ordered by id.
func (s *State) Stakes(account common.Address) []types.Stake {
	acct, ok := s.accounts[account]
	if !ok {
		return []types.Stake{}
	}
	return slices.Clone(acct.stakes)
}

func (s *State) NextStakeID(account common.Address) types.StakeID {
	acct, ok := s.accounts[account]
	if !ok {
		return 0
	}
	return types.StakeID(len(acct.stakes))
}

func (s *State) ActiveStakeCount(account common.Address) uint64 {
	acct, ok := s.accounts[account]
	if !ok {
		return 0
	}
	return acct.active
}

func (s *State) Counters() types.CrashCounters {
	return s.counters
}

func (s *State) Stats() types.Stats {
	return types.Stats{
		TotalStaked:   s.totalStaked,
		ActiveStakers: s.activeStakers,
		OpenStakes:    s.openStakes,
		CrashCounters: s.counters,
	}
}

func (s *State) insertStake(j *journal, stake types.Stake) {
	acct, ok := s.accounts[stake.Account]
	if !ok {
		acct = &accountStakes{}
		s.accounts[stake.Account] = acct
		j.record(func() { delete(s.accounts, stake.Account) })
	}
	if stake.ID != types.StakeID(len(acct.stakes)) {
		panic(fmt.Sprintf("stake id %d is not the next id %d", stake.ID, len(acct.stakes)))
	}

	acct.stakes = append(acct.stakes, stake)
	j.record(func() {
		a := s.accounts[stake.Account]
		a.stakes = a.stakes[:stake.ID]
	})

	s.activate(j, stake.Account, stake.Amount)
}

func (s *State) closeStake(j *journal, account common.Address, id types.StakeID, at time.Time) {
	acct := s.accounts[account]
	stake := &acct.stakes[id]
	if !state.IsQualifiedStateForStakeStateChange(stake.State(), types.StateClosed) {
		panic(fmt.Sprintf("stake %d of %s cannot transition from %s", id, account.Hex(), stake.State()))
	}

	stake.ClosedAt = at
	j.record(func() { s.accounts[account].stakes[id].ClosedAt = time.Time{} })

	s.deactivate(j, account, stake.Amount)
}

func (s *State) setCounters(j *journal, counters types.CrashCounters) {
	if !counters.Covers(s.counters) {
		panic(fmt.Sprintf("crash counters may not decrease: %+v -> %+v", s.counters, counters))
	}

	prev := s.counters
	s.counters = counters
	j.record(func() { s.counters = prev })
}

func (s *State) activate(j *journal, account common.Address, amount sdkmath.Int) {
	acct := s.accounts[account]
	acct.active++
	s.openStakes++
	s.totalStaked = s.totalStaked.Add(amount)
	if acct.active == 1 {
		s.activeStakers++
	}
	j.record(func() { s.deactivate(&journal{}, account, amount) })
}

func (s *State) deactivate(j *journal, account common.Address, amount sdkmath.Int) {
	acct := s.accounts[account]
	acct.active--
	s.openStakes--
	s.totalStaked = s.totalStaked.Sub(amount)
	if acct.active == 0 {
		s.activeStakers--
	}
	j.record(func() { s.activate(&journal{}, account, amount) })
}

// Snapshot is a deep copy of the state.
type Snapshot struct {
	Stakes   map[common.Address][]types.Stake `json:"stakes"`
	Counters types.CrashCounters              `json:"counters"`
	Stats    types.Stats                      `json:"stats"`
}

func (s *State) Snapshot() Snapshot {
	stakes := make(map[common.Address][]types.Stake, len(s.accounts))
	for account, acct := range s.accounts {
		stakes[account] = slices.Clone(acct.stakes)
	}
	return Snapshot{
		Stakes:   stakes,
		Counters: s.counters,
		Stats:    s.Stats(),
	}
}
