package state

import "github.com/crashbonus/crash-staking-ledger/internal/types"

// stakeStateChangeMap maps the current state of a stake to the states it can
// transition to. Closed is terminal.
var stakeStateChangeMap = map[types.StakeState][]types.StakeState{
	types.StateOpen:   {types.StateClosed},
	types.StateClosed: {},
}

func IsQualifiedStateForStakeStateChange(currentState, newState types.StakeState) bool {
	qualifiedStates, ok := stakeStateChangeMap[currentState]
	if !ok {
		return false
	}
	for _, state := range qualifiedStates {
		if state == newState {
			return true
		}
	}
	return false
}
