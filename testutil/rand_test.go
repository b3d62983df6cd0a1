package testutil

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomAlphaNum(t *testing.T) {
	_, err := RandomAlphaNum(0)
	require.Error(t, err)

	s, err := RandomAlphaNum(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)
	for _, c := range s {
		assert.Contains(t, charset, string(c))
	}
}

func TestRandomAccount(t *testing.T) {
	a, err := RandomAccount()
	require.NoError(t, err)
	b, err := RandomAccount()
	require.NoError(t, err)

	assert.NotEqual(t, common.Address{}, a)
	assert.NotEqual(t, a, b)
}
