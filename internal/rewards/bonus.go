package rewards

import (
	"fmt"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

// BonusWeights are the annual percentage points a stake earns for each crash
// event reported after it was opened.
type BonusWeights struct {
	Version string `json:"version"`
	Big     uint64 `json:"big"`
	Medium  uint64 `json:"medium"`
	Small   uint64 `json:"small"`
}

// BonusAPY returns the bonus annual percentage accrued between the stake's
// snapshot and the live counters. The result is not capped.
func (w BonusWeights) BonusAPY(live, snapshot types.CrashCounters) uint64 {
	if !live.Covers(snapshot) {
		panic(fmt.Sprintf("crash counters %+v are behind stake snapshot %+v", live, snapshot))
	}

	return w.Big*(live.Big-snapshot.Big) +
		w.Medium*(live.Medium-snapshot.Medium) +
		w.Small*(live.Small-snapshot.Small)
}
