// Package bank is an in-memory fungible balance ledger. Stake deposits are
// escrowed in a pool; payouts are paid from the pool and any shortfall (the
// reward part) is minted.
package bank

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type Bank struct {
	mu       sync.RWMutex
	balances map[common.Address]sdkmath.Int
	pool     sdkmath.Int
	minted   sdkmath.Int
}

func New() *Bank {
	return &Bank{
		balances: make(map[common.Address]sdkmath.Int),
		pool:     sdkmath.ZeroInt(),
		minted:   sdkmath.ZeroInt(),
	}
}

// Seed adds amount to the balance of account without touching the pool.
func (b *Bank) Seed(account common.Address, amount sdkmath.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[account] = b.balanceOf(account).Add(amount)
}

func (b *Bank) Balance(account common.Address) sdkmath.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.balanceOf(account)
}

// Pool returns the amount currently escrowed for open stakes and forfeited
// penalties.
func (b *Bank) Pool() sdkmath.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.pool
}

// Minted returns the total amount created to pay rewards.
func (b *Bank) Minted() sdkmath.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.minted
}

func (b *Bank) Debit(ctx context.Context, account common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return types.NewValidationFailedError(fmt.Errorf("negative debit amount %s", amount))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	balance := b.balanceOf(account)
	if balance.LT(amount) {
		return types.NewInsufficientBalanceError(
			fmt.Errorf("account %s balance %s is below %s", account.Hex(), balance, amount),
		)
	}

	b.balances[account] = balance.Sub(amount)
	b.pool = b.pool.Add(amount)

	log.Ctx(ctx).Debug().
		Str("account", account.Hex()).
		Str("amount", amount.String()).
		Msg("debited account")
	return nil
}

func (b *Bank) Credit(ctx context.Context, account common.Address, amount sdkmath.Int) error {
	if amount.IsNegative() {
		return types.NewValidationFailedError(fmt.Errorf("negative credit amount %s", amount))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	fromPool := sdkmath.MinInt(amount, b.pool)
	mint := amount.Sub(fromPool)
	b.pool = b.pool.Sub(fromPool)
	b.minted = b.minted.Add(mint)
	b.balances[account] = b.balanceOf(account).Add(amount)

	log.Ctx(ctx).Debug().
		Str("account", account.Hex()).
		Str("amount", amount.String()).
		Str("minted", mint.String()).
		Msg("credited account")
	return nil
}

func (b *Bank) balanceOf(account common.Address) sdkmath.Int {
	if balance, ok := b.balances[account]; ok {
		return balance
	}
	return sdkmath.ZeroInt()
}
