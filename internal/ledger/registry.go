package ledger

import (
	"errors"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

var errNoEventSpecified = errors.New("no event specified")

// crashRegistry owns the process-wide crash counters.
type crashRegistry struct {
	state *State
}

// record increments every flagged counter and returns the new counters.
func (r crashRegistry) record(j *journal, big, medium, small bool) (types.CrashCounters, error) {
	if !big && !medium && !small {
		return types.CrashCounters{}, errNoEventSpecified
	}

	counters := r.state.Counters().Incremented(big, medium, small)
	r.state.setCounters(j, counters)
	return counters, nil
}

func (r crashRegistry) snapshot() types.CrashCounters {
	return r.state.Counters()
}
