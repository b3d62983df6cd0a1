package ledger

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// BalanceLedger moves fungible funds in and out of stakes. Implementations
// report a shortfall with types.NewInsufficientBalanceError.
type BalanceLedger interface {
	Debit(ctx context.Context, account common.Address, amount sdkmath.Int) error
	Credit(ctx context.Context, account common.Address, amount sdkmath.Int) error
}

// AuthorizationGate decides who may report crash events.
type AuthorizationGate interface {
	IsPrivileged(caller common.Address) bool
}
