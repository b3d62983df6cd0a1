// Package auth decides which callers may report crash events.
package auth

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/utils"
	"github.com/crashbonus/crash-staking-ledger/pkg"
)

// Allowlist is the set of privileged crash reporters.
type Allowlist struct {
	mu      sync.RWMutex
	members map[common.Address]struct{}
}

func NewAllowlist(members ...common.Address) *Allowlist {
	a := &Allowlist{members: make(map[common.Address]struct{}, len(members))}
	for _, m := range members {
		a.members[m] = struct{}{}
	}
	return a
}

// ParseAllowlist builds an allowlist from a comma separated list of hex
// addresses. Duplicates (in any letter case) collapse into one entry.
func ParseAllowlist(allowlistStr string) (*Allowlist, error) {
	entries := utils.SplitList(allowlistStr)
	members := make([]common.Address, 0, len(entries))
	for _, entry := range entries {
		account, err := pkg.ParseAccount(strings.ToLower(entry))
		if err != nil {
			return nil, fmt.Errorf("invalid privileged reporter: %w", err)
		}
		members = append(members, account)
	}
	return NewAllowlist(members...), nil
}

func (a *Allowlist) IsPrivileged(caller common.Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.members[caller]
	return ok
}

func (a *Allowlist) Grant(account common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.members[account] = struct{}{}
}

func (a *Allowlist) Revoke(account common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.members, account)
}

// Members returns the privileged accounts sorted by address.
func (a *Allowlist) Members() []common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()

	members := make([]common.Address, 0, len(a.members))
	for m := range a.members {
		members = append(members, m)
	}
	slices.SortFunc(members, func(x, y common.Address) int {
		return x.Cmp(y)
	})
	return members
}
