package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/services"
)

func DumpStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump-state",
		Short: "Builds the ledger from config and dumps its state",
		Args:  cobra.ExactArgs(0),
		RunE:  dumpState,
	}
}

func dumpState(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return err
	}

	var store db.DbInterface
	if cfg.Staking.RestoreFromDb {
		dbClient, err := db.New(ctx, cfg.Db)
		if err != nil {
			return fmt.Errorf("error while creating db client: %w", err)
		}
		defer dbClient.Close(ctx) //nolint:errcheck
		store = dbClient
	}

	balances, err := services.NewBank(&cfg.Staking)
	if err != nil {
		return err
	}

	l, err := services.NewLedger(ctx, &cfg.Staking, store, balances, clockwork.NewRealClock())
	if err != nil {
		return err
	}

	dumper := spew.ConfigState{Indent: "  ", SortKeys: true}
	dumper.Fdump(cmd.OutOrStdout(), l.Snapshot())
	return nil
}
