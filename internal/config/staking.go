package config

import (
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/crashbonus/crash-staking-ledger/internal/auth"
	"github.com/crashbonus/crash-staking-ledger/pkg"
)

const defaultRateCacheSize = 512

type StakingConfig struct {
	Profile string `mapstructure:"profile"`
	// BonusWeightsVersion overrides the version pinned by the profile.
	BonusWeightsVersion string    `mapstructure:"bonus-weights-version"`
	HalvingStart        time.Time `mapstructure:"halving-start"`
	// PrivilegedReporters is a comma separated list of accounts allowed to
	// report crash events.
	PrivilegedReporters string `mapstructure:"privileged-reporters"`
	// InitialBalances maps accounts to decimal amounts seeded into the
	// in-memory bank at startup.
	InitialBalances map[string]string `mapstructure:"initial-balances"`
	RateCacheSize   int               `mapstructure:"rate-cache-size"`
	// RestoreFromDb rebuilds the ledger from the stakes mirror at startup.
	RestoreFromDb bool `mapstructure:"restore-from-db"`
}

func (cfg *StakingConfig) Validate() error {
	if cfg.Profile == "" {
		cfg.Profile = DefaultProfile
	}

	profile, err := cfg.ResolveProfile()
	if err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	if cfg.HalvingStart.IsZero() {
		return errors.New("staking halving-start must be set")
	}

	if _, err := auth.ParseAllowlist(cfg.PrivilegedReporters); err != nil {
		return err
	}

	if _, err := cfg.ParseInitialBalances(); err != nil {
		return err
	}
	if err := cfg.CheckRestore(); err != nil {
		return err
	}

	if cfg.RateCacheSize <= 0 {
		cfg.RateCacheSize = defaultRateCacheSize
	}

	return nil
}

// CheckRestore refuses to seed balances on top of a restored ledger. The
// restored stakes already hold the principal debited from those balances.
func (cfg *StakingConfig) CheckRestore() error {
	if cfg.RestoreFromDb && len(cfg.InitialBalances) > 0 {
		return errors.New("staking initial-balances cannot be set together with restore-from-db")
	}
	return nil
}

// ResolveProfile returns the selected profile with the configured overrides
// applied.
func (cfg *StakingConfig) ResolveProfile() (Profile, error) {
	profile, ok := Profiles[cfg.Profile]
	if !ok {
		return Profile{}, fmt.Errorf("unknown staking profile %q, expected one of %v", cfg.Profile, ProfileNames())
	}
	if cfg.BonusWeightsVersion != "" {
		profile.BonusWeightsVersion = cfg.BonusWeightsVersion
	}
	return profile, nil
}

func (cfg *StakingConfig) ParseInitialBalances() (map[common.Address]sdkmath.Int, error) {
	balances := make(map[common.Address]sdkmath.Int, len(cfg.InitialBalances))
	for address, value := range cfg.InitialBalances {
		account, err := pkg.ParseAccount(address)
		if err != nil {
			return nil, fmt.Errorf("invalid initial balance account: %w", err)
		}
		amount, ok := sdkmath.NewIntFromString(value)
		if !ok || amount.IsNegative() {
			return nil, fmt.Errorf("invalid initial balance %q for %s", value, address)
		}
		balances[account] = amount
	}
	return balances, nil
}
