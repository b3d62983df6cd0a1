package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

func TestIsQualifiedStateForStakeStateChange(t *testing.T) {
	assert.True(t, IsQualifiedStateForStakeStateChange(types.StateOpen, types.StateClosed))
	assert.False(t, IsQualifiedStateForStakeStateChange(types.StateOpen, types.StateOpen))
	assert.False(t, IsQualifiedStateForStakeStateChange(types.StateClosed, types.StateClosed))
	assert.False(t, IsQualifiedStateForStakeStateChange(types.StateClosed, types.StateOpen))
	assert.False(t, IsQualifiedStateForStakeStateChange("UNKNOWN", types.StateClosed))
}
