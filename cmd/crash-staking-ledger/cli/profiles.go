package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
)

type profileView struct {
	config.Profile
	BonusWeights any `json:"bonus_weights"`
}

func ProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "Prints the staking profiles",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]profileView, 0, len(config.Profiles))
			for _, name := range config.ProfileNames() {
				profile := config.Profiles[name]
				views = append(views, profileView{Profile: profile, BonusWeights: profile.BonusWeights()})
			}

			out, err := json.MarshalIndent(views, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
