package cli

import (
	"errors"
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/fixedpoint"
	"github.com/crashbonus/crash-staking-ledger/internal/rewards"
	"github.com/crashbonus/crash-staking-ledger/internal/services"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type quoteRequest struct {
	Profile   string
	Principal sdkmath.Int
	Months    uint32
	Elapsed   time.Duration
	BonusAPY  uint64
	// CreatedAt positions the stake on the halving schedule. The schedule
	// starts at CreatedAt when it is zero.
	CreatedAt    time.Time
	HalvingStart time.Time
}

func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Previews the payout of a stake without touching any state",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			profile, _ := flags.GetString("profile")
			principalStr, _ := flags.GetString("principal")
			months, _ := flags.GetUint32("months")
			elapsed, _ := flags.GetDuration("elapsed")
			bonus, _ := flags.GetUint64("bonus-apy")

			principal, ok := sdkmath.NewIntFromString(principalStr)
			if !ok {
				return fmt.Errorf("invalid principal %q", principalStr)
			}

			now := time.Now().UTC().Truncate(time.Second)
			quote, err := previewQuote(quoteRequest{
				Profile:      profile,
				Principal:    principal,
				Months:       months,
				Elapsed:      elapsed,
				BonusAPY:     bonus,
				CreatedAt:    now,
				HalvingStart: now,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "principal:        %s\n", quote.Principal)
			fmt.Fprintf(out, "final apy:        %d%%\n", quote.FinalAPY)
			fmt.Fprintf(out, "reward:           %s\n", quote.Reward)
			fmt.Fprintf(out, "release fraction: %d%%\n", quote.ReleaseFraction)
			fmt.Fprintf(out, "payout:           %s\n", quote.Payout)
			return nil
		},
	}

	cmd.Flags().String("profile", config.DefaultProfile, "staking profile")
	cmd.Flags().String("principal", "", "staked amount in base units")
	cmd.Flags().Uint32("months", 0, "lock duration in months")
	cmd.Flags().Duration("elapsed", 0, "time between opening and closing the stake")
	cmd.Flags().Uint64("bonus-apy", 0, "crash bonus accrued since the stake was opened")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("months")

	return cmd
}

func previewQuote(req quoteRequest) (types.Quote, error) {
	profile, ok := config.Profiles[req.Profile]
	if !ok {
		return types.Quote{}, fmt.Errorf("unknown staking profile %q, expected one of %v", req.Profile, config.ProfileNames())
	}
	params := services.LedgerParams(profile)

	if req.Months < params.MinDurationMonths || req.Months > params.MaxDurationMonths {
		return types.Quote{}, fmt.Errorf("months must be within %d-%d", params.MinDurationMonths, params.MaxDurationMonths)
	}
	if !req.Principal.IsPositive() {
		return types.Quote{}, errors.New("principal must be positive")
	}
	if req.Elapsed < 0 {
		return types.Quote{}, errors.New("elapsed must not be negative")
	}

	engine, err := rewards.NewEngine(rewards.Schedule{
		HalvingStart:  req.HalvingStart,
		HalvingPeriod: profile.HalvingPeriod,
		Compounding:   profile.Compounding,
	}, 0)
	if err != nil {
		return types.Quote{}, err
	}

	createdAt := req.CreatedAt
	endAt := createdAt.Add(params.LockDuration(req.Months))
	at := createdAt.Add(req.Elapsed)
	finalAPY := params.BaseAPY + req.BonusAPY

	reward := engine.AccrueReward(req.Principal, createdAt, endAt, finalAPY, params.MaxAPY(req.Months), at)
	fraction := params.Penalty.ReleaseFraction(createdAt, endAt, at)

	return types.Quote{
		Principal:       req.Principal,
		Reward:          reward,
		Payout:          fixedpoint.ApplyPercent(req.Principal.Add(reward), fraction),
		ReleaseFraction: fraction,
		BonusAPY:        req.BonusAPY,
		FinalAPY:        finalAPY,
		At:              at,
	}, nil
}
