package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
)

const (
	DefaultProfile       = "default"
	LegacyRestartProfile = "legacy-restart"

	day   = 24 * time.Hour
	month = 30 * day

	// maxAPYCeiling bounds the capped rate so that a full-length stake cannot
	// overflow the 256 bit ray arithmetic.
	maxAPYCeiling = 2000
)

// Profile is a named set of staking parameters. Profiles replace forked
// staking logic: every variant runs through the same engine and ledger.
type Profile struct {
	Name                string                  `json:"name"`
	BaseAPY             uint64                  `json:"base_apy"`
	MaxAPYConst         uint64                  `json:"max_apy_const"`
	MaxAPYSlope         uint64                  `json:"max_apy_slope"`
	MinDurationMonths   uint32                  `json:"min_duration_months"`
	MaxDurationMonths   uint32                  `json:"max_duration_months"`
	MinRelease          uint64                  `json:"min_release"`
	MinPenaltyWindow    time.Duration           `json:"min_penalty_window"`
	GracePeriod         time.Duration           `json:"grace_period"`
	HalvingPeriod       time.Duration           `json:"halving_period"`
	Compounding         rewards.CompoundingMode `json:"compounding"`
	BonusWeightsVersion string                  `json:"bonus_weights_version"`
}

// BonusWeightVersions are the published crash bonus weights. Published
// versions are never edited; new weights get a new version.
var BonusWeightVersions = map[string]rewards.BonusWeights{
	"v1": {Version: "v1", Big: 10, Medium: 5, Small: 1},
	"v2": {Version: "v2", Big: 8, Medium: 3, Small: 1},
}

var Profiles = map[string]Profile{
	DefaultProfile: {
		Name:                DefaultProfile,
		BaseAPY:             4,
		MaxAPYConst:         69,
		MaxAPYSlope:         2,
		MinDurationMonths:   3,
		MaxDurationMonths:   120,
		MinRelease:          30,
		MinPenaltyWindow:    60 * day,
		GracePeriod:         time.Hour,
		HalvingPeriod:       2 * 365 * day,
		Compounding:         rewards.CompoundRunningBalance,
		BonusWeightsVersion: "v1",
	},
	LegacyRestartProfile: {
		Name:                LegacyRestartProfile,
		BaseAPY:             4,
		MaxAPYConst:         69,
		MaxAPYSlope:         2,
		MinDurationMonths:   3,
		MaxDurationMonths:   120,
		MinRelease:          30,
		MinPenaltyWindow:    60 * day,
		GracePeriod:         0,
		HalvingPeriod:       2 * 365 * day,
		Compounding:         rewards.CompoundRestartPrincipal,
		BonusWeightsVersion: "v1",
	},
}

// ProfileNames returns the known profile names in lexical order.
func ProfileNames() []string {
	names := make([]string, 0, len(Profiles))
	for name := range Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (p Profile) Validate() error {
	if p.MinDurationMonths == 0 || p.MinDurationMonths > p.MaxDurationMonths {
		return fmt.Errorf("profile %s: invalid duration range %d-%d", p.Name, p.MinDurationMonths, p.MaxDurationMonths)
	}
	if p.MinRelease > 100 {
		return fmt.Errorf("profile %s: min release %d is above 100", p.Name, p.MinRelease)
	}
	if p.MinPenaltyWindow < 0 || p.GracePeriod < 0 {
		return fmt.Errorf("profile %s: penalty windows must not be negative", p.Name)
	}
	if p.MinPenaltyWindow >= time.Duration(p.MinDurationMonths)*month {
		return fmt.Errorf("profile %s: min penalty window %s must be shorter than the shortest lock of %d months",
			p.Name, p.MinPenaltyWindow, p.MinDurationMonths)
	}
	if p.HalvingPeriod < time.Second {
		return fmt.Errorf("profile %s: halving period must be at least one second", p.Name)
	}
	if err := p.Compounding.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", p.Name, err)
	}
	if _, ok := BonusWeightVersions[p.BonusWeightsVersion]; !ok {
		return fmt.Errorf("profile %s: unknown bonus weights version %q", p.Name, p.BonusWeightsVersion)
	}
	if top := p.MaxAPYConst + uint64(p.MaxDurationMonths)*p.MaxAPYSlope; top > maxAPYCeiling {
		return fmt.Errorf("profile %s: max apy %d exceeds %d", p.Name, top, maxAPYCeiling)
	}
	return nil
}

func (p Profile) BonusWeights() rewards.BonusWeights {
	return BonusWeightVersions[p.BonusWeightsVersion]
}
