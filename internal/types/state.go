package types

// Enum values for Stake State
type StakeState string

const (
	StateOpen   StakeState = "OPEN"
	StateClosed StakeState = "CLOSED"
)

func (s StakeState) String() string {
	return string(s)
}

// QualifiedStatesForClose returns the qualified current states for closing a stake
func QualifiedStatesForClose() []StakeState {
	return []StakeState{StateOpen}
}
