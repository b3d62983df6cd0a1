package rewards

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	sdkmath "cosmossdk.io/math"
	lru "github.com/hashicorp/golang-lru"

	"github.com/crashbonus/crash-staking-ledger/internal/fixedpoint"
)

// SecondsPerYear is the compounding horizon of an annual rate.
const SecondsPerYear uint64 = 365 * 24 * 60 * 60

const defaultRateCacheSize = 512

type CompoundingMode string

const (
	// CompoundRunningBalance carries the end-of-epoch balance into the next
	// halving epoch.
	CompoundRunningBalance CompoundingMode = "running-balance"
	// CompoundRestartPrincipal accrues every epoch on the original principal and
	// sums the per-epoch gains.
	CompoundRestartPrincipal CompoundingMode = "restart-principal"
)

func (m CompoundingMode) String() string {
	return string(m)
}

func (m CompoundingMode) Validate() error {
	switch m {
	case CompoundRunningBalance, CompoundRestartPrincipal:
		return nil
	default:
		return fmt.Errorf("unknown compounding mode %q", m)
	}
}

// Schedule anchors the halving epochs and selects how interest compounds
// across them.
type Schedule struct {
	HalvingStart  time.Time
	HalvingPeriod time.Duration
	Compounding   CompoundingMode
}

// Epoch is the part of a stake's life that falls into one halving period.
type Epoch struct {
	Index uint64
	Start time.Time
	End   time.Time
}

func (e Epoch) Seconds() uint64 {
	return uint64(e.End.Unix() - e.Start.Unix())
}

// EpochAccrual is the reward earned during one epoch.
type EpochAccrual struct {
	Epoch
	// AnnualRate is the capped, halved annual rate in ray.
	AnnualRate sdkmath.Int
	Gain       sdkmath.Int
}

type Accrual struct {
	Reward sdkmath.Int
	Epochs []EpochAccrual
}

// Engine computes compounded rewards under a halving schedule. Per-second
// growth factors are expensive to derive and are cached per annual rate.
type Engine struct {
	schedule Schedule
	rates    *lru.Cache
}

func NewEngine(schedule Schedule, rateCacheSize int) (*Engine, error) {
	if schedule.HalvingPeriod < time.Second {
		return nil, errors.New("halving period must be at least one second")
	}
	if err := schedule.Compounding.Validate(); err != nil {
		return nil, err
	}
	if rateCacheSize <= 0 {
		rateCacheSize = defaultRateCacheSize
	}

	rates, err := lru.New(rateCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to init rate cache: %w", err)
	}

	return &Engine{
		schedule: schedule,
		rates:    rates,
	}, nil
}

func (e *Engine) Schedule() Schedule {
	return e.schedule
}

// EpochIndex returns the halving epoch t falls into. Times before the halving
// start belong to epoch 0.
func (e *Engine) EpochIndex(t time.Time) uint64 {
	start := e.schedule.HalvingStart.Unix()
	at := t.Unix()
	if at < start {
		return 0
	}
	return uint64(at-start) / uint64(seconds(e.schedule.HalvingPeriod))
}

// Epochs partitions [from, to) at the halving boundaries.
func (e *Engine) Epochs(from, to time.Time) []Epoch {
	start := e.schedule.HalvingStart.Unix()
	period := seconds(e.schedule.HalvingPeriod)

	var epochs []Epoch
	for at, end := from.Unix(), to.Unix(); at < end; {
		k := e.EpochIndex(time.Unix(at, 0))
		boundary := start + int64(k+1)*period
		segmentEnd := min(boundary, end)

		epochs = append(epochs, Epoch{
			Index: k,
			Start: time.Unix(at, 0).UTC(),
			End:   time.Unix(segmentEnd, 0).UTC(),
		})
		at = segmentEnd
	}

	return epochs
}

// EpochRate returns min(finalAPY / 2^k, maxAPY) as a ray fraction.
func (e *Engine) EpochRate(finalAPY, maxAPY, k uint64) sdkmath.Int {
	rate := fixedpoint.PercentToRay(finalAPY)
	if k > 0 {
		shift := uint(min(k, 512))
		rate = sdkmath.NewIntFromBigInt(new(big.Int).Rsh(rate.BigInt(), shift))
	}
	return sdkmath.MinInt(rate, fixedpoint.PercentToRay(maxAPY))
}

// PerSecondFactor returns 1 + r_s in ray, where (1 + r_s)^SecondsPerYear is the
// largest value not exceeding 1 + annualRate.
func (e *Engine) PerSecondFactor(annualRate sdkmath.Int) sdkmath.Int {
	if annualRate.IsZero() {
		return fixedpoint.Ray
	}

	key := annualRate.String()
	if cached, ok := e.rates.Get(key); ok {
		return cached.(sdkmath.Int)
	}

	factor := perSecondFactor(annualRate)
	e.rates.Add(key, factor)
	return factor
}

func perSecondFactor(annualRate sdkmath.Int) sdkmath.Int {
	target := fixedpoint.Ray.Add(annualRate)

	// (1 + r/n)^n >= 1 + r bounds the root from above
	lo := fixedpoint.Ray
	hi := fixedpoint.Ray.Add(annualRate.QuoRaw(int64(SecondsPerYear))).AddRaw(1)

	for lo.LT(hi) {
		mid := lo.Add(hi).AddRaw(1).QuoRaw(2)
		if fixedpoint.RayPow(mid, SecondsPerYear).LTE(target) {
			lo = mid
		} else {
			hi = mid.SubRaw(1)
		}
	}

	return lo
}

// AccrueReward returns the reward earned by principal between createdAt and
// min(endAt, now).
func (e *Engine) AccrueReward(
	principal sdkmath.Int,
	createdAt, endAt time.Time,
	finalAPY, maxAPY uint64,
	now time.Time,
) sdkmath.Int {
	return e.Accrue(principal, createdAt, endAt, finalAPY, maxAPY, now).Reward
}

// Accrue is AccrueReward with the per-epoch breakdown.
func (e *Engine) Accrue(
	principal sdkmath.Int,
	createdAt, endAt time.Time,
	finalAPY, maxAPY uint64,
	now time.Time,
) Accrual {
	effectiveEnd := endAt
	if now.Unix() < endAt.Unix() {
		effectiveEnd = now
	}

	accrual := Accrual{Reward: sdkmath.ZeroInt()}
	if effectiveEnd.Unix() <= createdAt.Unix() {
		return accrual
	}

	balance := principal
	for _, epoch := range e.Epochs(createdAt, effectiveEnd) {
		rate := e.EpochRate(finalAPY, maxAPY, epoch.Index)
		factor := fixedpoint.RayPow(e.PerSecondFactor(rate), epoch.Seconds())

		base := balance
		if e.schedule.Compounding == CompoundRestartPrincipal {
			base = principal
		}
		grown := fixedpoint.RayMul(base, factor)
		gain := grown.Sub(base)

		if e.schedule.Compounding == CompoundRestartPrincipal {
			accrual.Reward = accrual.Reward.Add(gain)
		} else {
			balance = grown
		}

		accrual.Epochs = append(accrual.Epochs, EpochAccrual{
			Epoch:      epoch,
			AnnualRate: rate,
			Gain:       gain,
		})
	}

	if e.schedule.Compounding != CompoundRestartPrincipal {
		accrual.Reward = balance.Sub(principal)
	}

	return accrual
}
