package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/crashbonus/crash-staking-ledger/internal/api"
	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/db"
	dbmodel "github.com/crashbonus/crash-staking-ledger/internal/db/model"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/tracing"
	"github.com/crashbonus/crash-staking-ledger/internal/queue"
	"github.com/crashbonus/crash-staking-ledger/internal/services"
)

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the crash staking ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		return fmt.Errorf("error while setting up ledger db model: %w", err)
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("error while creating db client: %w", err)
	}
	defer func() {
		if err := dbClient.Close(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Msg("failed to close db client")
		}
	}()

	if err := dbClient.Ping(ctx); err != nil {
		return fmt.Errorf("db is not reachable: %w", err)
	}
	store := db.NewDbWithMetrics(dbClient)

	var publisher queue.Publisher = queue.NoopPublisher{}
	if cfg.Queue != nil {
		publisher, err = queue.NewQueueManager(cfg.Queue)
		if err != nil {
			return fmt.Errorf("failed to initialize queue manager: %w", err)
		}
	} else {
		log.Warn().Msg("queue is not configured, ledger events will not be published")
	}

	balances, err := services.NewBank(&cfg.Staking)
	if err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	l, err := services.NewLedger(ctx, &cfg.Staking, store, balances, clock)
	if err != nil {
		return fmt.Errorf("error while creating ledger: %w", err)
	}

	service := services.NewService(cfg, l, store, publisher, clock)

	metrics.Init(cfg.Metrics.GetMetricsPort())

	log.Info().
		Str("profile", cfg.Staking.Profile).
		Time("halving_start", cfg.Staking.HalvingStart).
		Msg("Starting crash staking ledger")

	return service.Start(ctx, api.NewRouter(service))
}
