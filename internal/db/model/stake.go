package model

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

const StakesCollection = "stakes"

// StakeDocument mirrors a ledger stake. Amounts are decimal strings, times
// are unix seconds and a zero ClosedAt marks an open stake.
type StakeDocument struct {
	ID             string              `bson:"_id"` // account/stake_id
	Account        string              `bson:"account"`
	StakeID        uint64              `bson:"stake_id"`
	Amount         string              `bson:"amount"`
	DurationMonths uint32              `bson:"duration_months"`
	CreatedAt      int64               `bson:"created_at"`
	EndAt          int64               `bson:"end_at"`
	ClosedAt       int64               `bson:"closed_at"`
	State          types.StakeState    `bson:"state"`
	BaseAPY        uint64              `bson:"base_apy"`
	MaxAPY         uint64              `bson:"max_apy"`
	CrashSnapshot  types.CrashCounters `bson:"crash_snapshot"`
	// Settlement, set when the stake is closed.
	RewardPaid      string `bson:"reward_paid,omitempty"`
	Payout          string `bson:"payout,omitempty"`
	ReleaseFraction uint64 `bson:"release_fraction,omitempty"`
}

func StakeDocumentID(account common.Address, id types.StakeID) string {
	return fmt.Sprintf("%s/%d", account.Hex(), id)
}

func NewStakeDocument(stake types.Stake) *StakeDocument {
	doc := &StakeDocument{
		ID:             StakeDocumentID(stake.Account, stake.ID),
		Account:        stake.Account.Hex(),
		StakeID:        uint64(stake.ID),
		Amount:         stake.Amount.String(),
		DurationMonths: stake.DurationMonths,
		CreatedAt:      stake.CreatedAt.Unix(),
		EndAt:          stake.EndAt.Unix(),
		State:          stake.State(),
		BaseAPY:        stake.BaseAPY,
		MaxAPY:         stake.MaxAPY,
		CrashSnapshot:  stake.CrashSnapshot,
	}
	if !stake.IsOpen() {
		doc.ClosedAt = stake.ClosedAt.Unix()
	}
	return doc
}

// ToStake converts the document back into a ledger stake.
func (d *StakeDocument) ToStake() (types.Stake, error) {
	if !common.IsHexAddress(d.Account) {
		return types.Stake{}, fmt.Errorf("stake %s has invalid account %q", d.ID, d.Account)
	}
	amount, ok := sdkmath.NewIntFromString(d.Amount)
	if !ok {
		return types.Stake{}, fmt.Errorf("stake %s has invalid amount %q", d.ID, d.Amount)
	}

	stake := types.Stake{
		ID:             types.StakeID(d.StakeID),
		Account:        common.HexToAddress(d.Account),
		Amount:         amount,
		DurationMonths: d.DurationMonths,
		CreatedAt:      time.Unix(d.CreatedAt, 0).UTC(),
		EndAt:          time.Unix(d.EndAt, 0).UTC(),
		BaseAPY:        d.BaseAPY,
		MaxAPY:         d.MaxAPY,
		CrashSnapshot:  d.CrashSnapshot,
	}
	if d.ClosedAt != 0 {
		stake.ClosedAt = time.Unix(d.ClosedAt, 0).UTC()
	}
	return stake, nil
}
