package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// StakeID identifies a stake within the stakes of one account. Ids are
// allocated sequentially per account and never reused.
type StakeID uint64

// Stake is a time-locked deposit owned by a single account.
type Stake struct {
	ID             StakeID        `json:"id"`
	Account        common.Address `json:"account"`
	Amount         sdkmath.Int    `json:"amount"`
	DurationMonths uint32         `json:"duration_months"`
	CreatedAt      time.Time      `json:"created_at"`
	EndAt          time.Time      `json:"end_at"`
	// ClosedAt is zero while the stake is open.
	ClosedAt      time.Time     `json:"closed_at,omitzero"`
	BaseAPY       uint64        `json:"base_apy"`
	MaxAPY        uint64        `json:"max_apy"`
	CrashSnapshot CrashCounters `json:"crash_snapshot"`
}

func (s *Stake) IsOpen() bool {
	return s.ClosedAt.IsZero()
}

func (s *Stake) State() StakeState {
	if s.IsOpen() {
		return StateOpen
	}
	return StateClosed
}

// Quote is the outcome of closing a stake at a given time.
type Quote struct {
	Principal       sdkmath.Int `json:"principal"`
	Reward          sdkmath.Int `json:"reward"`
	Payout          sdkmath.Int `json:"payout"`
	ReleaseFraction uint64      `json:"release_fraction"`
	BonusAPY        uint64      `json:"bonus_apy"`
	FinalAPY        uint64      `json:"final_apy"`
	At              time.Time   `json:"at"`
}

// Stats are the ledger-wide aggregates.
type Stats struct {
	TotalStaked   sdkmath.Int   `json:"total_staked"`
	ActiveStakers uint64        `json:"active_stakers"`
	OpenStakes    uint64        `json:"open_stakes"`
	CrashCounters CrashCounters `json:"crash_counters"`
}
