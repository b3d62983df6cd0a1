package rewards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func TestBonusAPY(t *testing.T) {
	weights := BonusWeights{Version: "v1", Big: 10, Medium: 5, Small: 1}

	t.Run("no events since snapshot", func(t *testing.T) {
		c := types.CrashCounters{Big: 3, Medium: 2, Small: 7}
		assert.Zero(t, weights.BonusAPY(c, c))
	})
	t.Run("events before snapshot are ignored", func(t *testing.T) {
		snapshot := types.CrashCounters{Big: 4, Medium: 4, Small: 4}
		live := types.CrashCounters{Big: 4, Medium: 5, Small: 6}
		assert.Equal(t, uint64(5+2), weights.BonusAPY(live, snapshot))
	})
	t.Run("each class adds its weight", func(t *testing.T) {
		snapshot := types.CrashCounters{}
		live := snapshot
		prev := weights.BonusAPY(live, snapshot)
		for _, flags := range [][3]bool{{true, false, false}, {false, true, false}, {false, false, true}, {true, true, true}} {
			live = live.Incremented(flags[0], flags[1], flags[2])
			got := weights.BonusAPY(live, snapshot)
			var want uint64
			if flags[0] {
				want += weights.Big
			}
			if flags[1] {
				want += weights.Medium
			}
			if flags[2] {
				want += weights.Small
			}
			assert.Equal(t, prev+want, got)
			prev = got
		}
	})
	t.Run("counters behind snapshot panic", func(t *testing.T) {
		assert.Panics(t, func() {
			weights.BonusAPY(types.CrashCounters{}, types.CrashCounters{Small: 1})
		})
	})
}
