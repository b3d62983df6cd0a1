package rewards

import (
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crashbonus/crash-staking-ledger/internal/fixedpoint"
)

const (
	year    = 365 * day
	halving = 2 * year
)

var programStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, period time.Duration, mode CompoundingMode) *Engine {
	t.Helper()
	e, err := NewEngine(Schedule{
		HalvingStart:  programStart,
		HalvingPeriod: period,
		Compounding:   mode,
	}, 16)
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(Schedule{HalvingPeriod: 0, Compounding: CompoundRunningBalance}, 0)
	require.Error(t, err)

	_, err = NewEngine(Schedule{HalvingPeriod: halving, Compounding: "weekly"}, 0)
	require.Error(t, err)

	e, err := NewEngine(Schedule{HalvingPeriod: halving, Compounding: CompoundRestartPrincipal}, 0)
	require.NoError(t, err)
	assert.Equal(t, CompoundRestartPrincipal, e.Schedule().Compounding)
}

func TestEpochs(t *testing.T) {
	e := newTestEngine(t, halving, CompoundRunningBalance)

	t.Run("partition at halving boundaries", func(t *testing.T) {
		from := programStart.Add(year)
		to := programStart.Add(5 * year)

		epochs := e.Epochs(from, to)
		require.Len(t, epochs, 3)

		assert.Equal(t, uint64(0), epochs[0].Index)
		assert.Equal(t, from, epochs[0].Start)
		assert.Equal(t, programStart.Add(halving), epochs[0].End)

		assert.Equal(t, uint64(1), epochs[1].Index)
		assert.Equal(t, programStart.Add(2*halving), epochs[1].End)

		assert.Equal(t, uint64(2), epochs[2].Index)
		assert.Equal(t, to, epochs[2].End)

		var total uint64
		for _, ep := range epochs {
			total += ep.Seconds()
		}
		assert.Equal(t, uint64(to.Sub(from)/time.Second), total)
	})
	t.Run("before halving start belongs to epoch 0", func(t *testing.T) {
		epochs := e.Epochs(programStart.Add(-year), programStart.Add(year))
		require.Len(t, epochs, 1)
		assert.Equal(t, uint64(0), epochs[0].Index)
	})
	t.Run("empty interval", func(t *testing.T) {
		assert.Empty(t, e.Epochs(programStart, programStart))
	})
	t.Run("index is anchored to the program, not the stake", func(t *testing.T) {
		a := programStart.Add(halving + day)
		b := programStart.Add(2*halving - day)
		assert.Equal(t, e.EpochIndex(a), e.EpochIndex(b))
		assert.Equal(t, uint64(1), e.EpochIndex(a))
	})
}

func TestEpochRate(t *testing.T) {
	e := newTestEngine(t, halving, CompoundRunningBalance)

	cases := []struct {
		finalAPY, maxAPY, k uint64
		want                sdkmath.Int
	}{
		{8, 81, 0, fixedpoint.PercentToRay(8)},
		{8, 81, 1, fixedpoint.PercentToRay(4)},
		{8, 81, 3, fixedpoint.PercentToRay(1)},
		{5, 81, 1, fixedpoint.PercentToRay(5).QuoRaw(2)},
		{100, 81, 0, fixedpoint.PercentToRay(81)},
		{400, 81, 1, fixedpoint.PercentToRay(81)},
		{4, 81, 1000, sdkmath.ZeroInt()},
	}
	for _, c := range cases {
		got := e.EpochRate(c.finalAPY, c.maxAPY, c.k)
		assert.Equal(t, c.want.String(), got.String(), "finalAPY=%d maxAPY=%d k=%d", c.finalAPY, c.maxAPY, c.k)
	}
}

func TestPerSecondFactor(t *testing.T) {
	e := newTestEngine(t, halving, CompoundRunningBalance)

	assert.Equal(t, fixedpoint.Ray.String(), e.PerSecondFactor(sdkmath.ZeroInt()).String())

	rate := fixedpoint.PercentToRay(4)
	target := fixedpoint.Ray.Add(rate)

	factor := e.PerSecondFactor(rate)
	assert.True(t, fixedpoint.RayPow(factor, SecondsPerYear).LTE(target))
	assert.True(t, fixedpoint.RayPow(factor.AddRaw(1), SecondsPerYear).GT(target))

	// cached on first use
	assert.Equal(t, 1, e.rates.Len())
	assert.Equal(t, factor.String(), e.PerSecondFactor(rate).String())
	assert.Equal(t, 1, e.rates.Len())
}

func TestAccrueReward(t *testing.T) {
	e := newTestEngine(t, halving, CompoundRunningBalance)
	createdAt := programStart.Add(30 * day)

	t.Run("one month at four percent", func(t *testing.T) {
		endAt := createdAt.Add(180 * day)
		reward := e.AccrueReward(sdkmath.NewInt(1000), createdAt, endAt, 4, 81, createdAt.Add(30*day))
		// 1000 * (1.04^(30/365) - 1) = 3.22...
		assert.Equal(t, sdkmath.NewInt(3).String(), reward.String())
	})
	t.Run("one full year matches the annual rate", func(t *testing.T) {
		principal := sdkmath.NewIntWithDecimal(1, 18)
		endAt := createdAt.Add(year)
		reward := e.AccrueReward(principal, createdAt, endAt, 10, 81, endAt)

		want := sdkmath.NewIntWithDecimal(1, 17)
		assert.True(t, reward.LTE(want), "reward %s", reward)
		assert.True(t, reward.GTE(want.SubRaw(10)), "reward %s", reward)
	})
	t.Run("nothing before creation", func(t *testing.T) {
		endAt := createdAt.Add(180 * day)
		assert.True(t, e.AccrueReward(sdkmath.NewInt(1000), createdAt, endAt, 4, 81, createdAt).IsZero())
		assert.True(t, e.AccrueReward(sdkmath.NewInt(1000), createdAt, endAt, 4, 81, createdAt.Add(-day)).IsZero())
	})
	t.Run("accrual stops at maturity", func(t *testing.T) {
		principal := sdkmath.NewIntWithDecimal(5, 20)
		endAt := createdAt.Add(90 * day)
		atEnd := e.AccrueReward(principal, createdAt, endAt, 6, 81, endAt)
		later := e.AccrueReward(principal, createdAt, endAt, 6, 81, endAt.Add(3*year))
		assert.Equal(t, atEnd.String(), later.String())
		assert.True(t, atEnd.IsPositive())
	})
	t.Run("zero rate earns nothing", func(t *testing.T) {
		endAt := createdAt.Add(year)
		assert.True(t, e.AccrueReward(sdkmath.NewInt(1_000_000), createdAt, endAt, 0, 81, endAt).IsZero())
	})
	t.Run("monotonic in elapsed time", func(t *testing.T) {
		principal := sdkmath.NewIntWithDecimal(1, 21)
		endAt := createdAt.Add(3 * year)
		prev := sdkmath.ZeroInt()
		for now := createdAt; !now.After(endAt); now = now.Add(73 * day) {
			got := e.AccrueReward(principal, createdAt, endAt, 12, 81, now)
			assert.True(t, got.GTE(prev))
			prev = got
		}
	})
}

func TestAccrue_Halving(t *testing.T) {
	principal := sdkmath.NewIntWithDecimal(1, 18)
	createdAt := programStart
	endAt := programStart.Add(2 * halving)

	halved := newTestEngine(t, halving, CompoundRunningBalance)
	flat := newTestEngine(t, 100*year, CompoundRunningBalance)

	withHalving := halved.Accrue(principal, createdAt, endAt, 8, 81, endAt)
	withoutHalving := flat.Accrue(principal, createdAt, endAt, 8, 81, endAt)

	require.Len(t, withHalving.Epochs, 2)
	require.Len(t, withoutHalving.Epochs, 1)
	assert.True(t, withHalving.Reward.LT(withoutHalving.Reward))
	assert.Equal(t, fixedpoint.PercentToRay(4).String(), withHalving.Epochs[1].AnnualRate.String())

	// running balance gains telescope into the reward
	sum := sdkmath.ZeroInt()
	for _, ep := range withHalving.Epochs {
		sum = sum.Add(ep.Gain)
	}
	assert.Equal(t, withHalving.Reward.String(), sum.String())

	// 1.08^2 * 1.04^2 - 1 = 0.26158...
	assert.True(t, withHalving.Reward.GT(sdkmath.NewIntWithDecimal(2615, 14)))
	assert.True(t, withHalving.Reward.LT(sdkmath.NewIntWithDecimal(2616, 14)))
}

func TestAccrue_CompoundingModes(t *testing.T) {
	principal := sdkmath.NewIntWithDecimal(1, 18)
	createdAt := programStart
	endAt := programStart.Add(2 * halving)

	running := newTestEngine(t, halving, CompoundRunningBalance)
	restart := newTestEngine(t, halving, CompoundRestartPrincipal)

	r := running.AccrueReward(principal, createdAt, endAt, 8, 81, endAt)
	p := restart.Accrue(principal, createdAt, endAt, 8, 81, endAt)

	assert.True(t, r.GT(p.Reward))

	// 0.1664 + 0.0816 = 0.248
	sum := sdkmath.ZeroInt()
	for _, ep := range p.Epochs {
		sum = sum.Add(ep.Gain)
	}
	assert.Equal(t, p.Reward.String(), sum.String())
	assert.True(t, p.Reward.GT(sdkmath.NewIntWithDecimal(2479, 14)))
	assert.True(t, p.Reward.LTE(sdkmath.NewIntWithDecimal(2480, 14)))
}

func TestAccrue_CappedRateIsContinuousAcrossBoundary(t *testing.T) {
	principal := sdkmath.NewIntWithDecimal(1, 18)
	createdAt := programStart.Add(year)
	endAt := programStart.Add(3 * year)

	halved := newTestEngine(t, halving, CompoundRunningBalance)
	flat := newTestEngine(t, 100*year, CompoundRunningBalance)

	// 400% halves to 200%, both above the 81% ceiling
	split := halved.Accrue(principal, createdAt, endAt, 400, 81, endAt)
	whole := flat.Accrue(principal, createdAt, endAt, 400, 81, endAt)

	require.Len(t, split.Epochs, 2)
	diff := split.Reward.Sub(whole.Reward).Abs()
	assert.True(t, diff.LTE(sdkmath.NewInt(2)), "diff %s", diff)
}
