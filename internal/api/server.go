package api

import (
	"context"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/observability/metrics"
	"github.com/crashbonus/crash-staking-ledger/internal/observability/tracing"
	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

// LedgerService is what the api needs from the service layer.
type LedgerService interface {
	OpenStake(ctx context.Context, account common.Address, amount sdkmath.Int, durationMonths uint32) (types.StakeID, *types.Error)
	CloseStake(ctx context.Context, account common.Address, id types.StakeID) (types.Quote, *types.Error)
	RecordCrashEvent(ctx context.Context, reporter common.Address, big, medium, small bool) (types.CrashCounters, *types.Error)
	GetStake(account common.Address, id types.StakeID) (types.Stake, *types.Error)
	ListStakes(account common.Address) []types.Stake
	Penalty(account common.Address, id types.StakeID) (uint64, *types.Error)
	BonusAPY(account common.Address, id types.StakeID) (uint64, *types.Error)
	Quote(account common.Address, id types.StakeID) (types.Quote, *types.Error)
	CrashCounters() types.CrashCounters
	Stats() types.Stats
}

type Handler struct {
	service LedgerService
}

func NewRouter(service LedgerService) http.Handler {
	h := &Handler{service: service}

	r := chi.NewRouter()
	r.Use(traceMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/healthcheck", h.registerHandler(h.healthcheck))
	r.Route("/v1", func(r chi.Router) {
		r.Post("/stakes", h.registerHandler(h.openStake))
		r.Get("/stakes/{account}", h.registerHandler(h.listStakes))
		r.Get("/stakes/{account}/{id}", h.registerHandler(h.getStake))
		r.Post("/stakes/{account}/{id}/close", h.registerHandler(h.closeStake))
		r.Get("/stakes/{account}/{id}/penalty", h.registerHandler(h.penalty))
		r.Get("/stakes/{account}/{id}/bonus-apy", h.registerHandler(h.bonusAPY))
		r.Get("/stakes/{account}/{id}/quote", h.registerHandler(h.quote))
		r.Post("/crash-events", h.registerHandler(h.recordCrashEvent))
		r.Get("/crash-counters", h.registerHandler(h.crashCounters))
		r.Get("/stats", h.registerHandler(h.stats))
	})

	return r
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(tracing.TraceIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(tracing.TraceIDHeader, id)

		ctx := tracing.WithTraceID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.RecordHTTPRequest(time.Since(startTime), r.Method, route, ww.Status())

		log.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Msg("request served")
	})
}
