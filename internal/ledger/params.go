package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
)

// MonthDuration is the length of one lock month.
const MonthDuration = 30 * 24 * time.Hour

// Params are the rate and penalty parameters stakes are opened with.
type Params struct {
	BaseAPY uint64
	// MaxAPY of a stake is MaxAPYConst + DurationMonths*MaxAPYSlope.
	MaxAPYConst       uint64
	MaxAPYSlope       uint64
	MinDurationMonths uint32
	MaxDurationMonths uint32
	Penalty           rewards.PenaltySchedule
	Bonus             rewards.BonusWeights
}

func (p Params) Validate() error {
	if p.MinDurationMonths == 0 {
		return errors.New("min duration must be at least one month")
	}
	if p.MinDurationMonths > p.MaxDurationMonths {
		return fmt.Errorf("min duration %d exceeds max duration %d", p.MinDurationMonths, p.MaxDurationMonths)
	}
	if p.Penalty.MinRelease > 100 {
		return fmt.Errorf("min release %d is above 100 percent", p.Penalty.MinRelease)
	}
	if p.Penalty.GracePeriod < 0 || p.Penalty.MinPenaltyWindow < 0 {
		return errors.New("penalty windows must not be negative")
	}
	if p.Penalty.MinPenaltyWindow >= p.LockDuration(p.MinDurationMonths) {
		return fmt.Errorf("min penalty window %s must be shorter than the shortest lock", p.Penalty.MinPenaltyWindow)
	}
	return nil
}

func (p Params) MaxAPY(durationMonths uint32) uint64 {
	return p.MaxAPYConst + uint64(durationMonths)*p.MaxAPYSlope
}

func (p Params) LockDuration(durationMonths uint32) time.Duration {
	return time.Duration(durationMonths) * MonthDuration
}
