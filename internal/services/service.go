package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/crashbonus/crash-staking-ledger/internal/config"
	"github.com/crashbonus/crash-staking-ledger/internal/db"
	"github.com/crashbonus/crash-staking-ledger/internal/ledger"
	"github.com/crashbonus/crash-staking-ledger/internal/queue"
)

// Service is the single writer in front of the ledger. Ledger calls are
// serialized; committed events are mirrored into the db and published to
// the queue in commit order.
type Service struct {
	cfg       *config.Config
	ledger    *ledger.Ledger
	db        db.DbInterface
	publisher queue.Publisher
	clock     clockwork.Clock

	mu         sync.RWMutex
	dispatchMu sync.Mutex
}

func NewService(
	cfg *config.Config,
	l *ledger.Ledger,
	db db.DbInterface,
	publisher queue.Publisher,
	clock clockwork.Clock,
) *Service {
	if publisher == nil {
		publisher = queue.NoopPublisher{}
	}
	return &Service{
		cfg:       cfg,
		ledger:    l,
		db:        db,
		publisher: publisher,
		clock:     clock,
	}
}

// Start serves handler and runs the stats poller until ctx is cancelled or
// one of them fails.
func (s *Service) Start(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		log.Ctx(ctx).Info().Str("addr", server.Addr).Msg("Starting ledger server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ledger server failed: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		if err := server.Shutdown(context.WithoutCancel(ctx)); err != nil {
			return fmt.Errorf("failed to shutdown ledger server: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		s.StartStatsPoller(ctx)
		return nil
	})

	err := p.Wait()
	s.publisher.Shutdown()
	return err
}
