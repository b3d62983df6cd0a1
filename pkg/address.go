package pkg

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAccount parses a 0x-prefixed hex account address. The zero address is
// rejected.
func ParseAccount(address string) (common.Address, error) {
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid account address %q", address)
	}

	account := common.HexToAddress(address)
	if account == (common.Address{}) {
		return common.Address{}, fmt.Errorf("zero account address is not allowed")
	}

	return account, nil
}
