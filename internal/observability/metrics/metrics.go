package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/crashbonus/crash-staking-ledger/internal/types"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}

var (
	once          sync.Once
	metricsRouter *chi.Mux

	ledgerOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Histogram of ledger operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	ledgerOperationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_operation_error_count",
			Help: "The total number of failed ledger operations by error code",
		},
		[]string{"operation", "error_code"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	mirrorErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirror_error_count",
			Help: "The total number of committed ledger events that failed to be mirrored to the db",
		},
		[]string{"event_type"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of api request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_staked_amount",
			Help: "Sum of the principal of all open stakes",
		},
	)

	activeStakersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_stakers_count",
			Help: "Number of accounts with at least one open stake",
		},
	)

	openStakesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "open_stakes_count",
			Help: "Number of open stakes",
		},
	)

	crashCountersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "crash_events_count",
			Help: "Number of reported crash events by class",
		},
		[]string{"class"},
	)
)

// Init starts the metrics server and registers the collectors.
func Init(metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Info().Msgf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

func registerMetrics() {
	prometheus.MustRegister(
		ledgerOperationDuration,
		ledgerOperationErrors,
		queueSendErrorCounter,
		mirrorErrorCounter,
		pollerDurationHistogram,
		httpRequestDuration,
		dbLatency,
		totalStakedGauge,
		activeStakersGauge,
		openStakesGauge,
		crashCountersGauge,
	)
}

// RecordLedgerOperation records the duration of a ledger operation and, on
// failure, its error code.
func RecordLedgerOperation(d time.Duration, operation string, err error) {
	ledgerOperationDuration.WithLabelValues(operation, outcome(err != nil).String()).Observe(d.Seconds())
	if err != nil {
		ledgerOperationErrors.WithLabelValues(operation, types.ErrorCodeOf(err).String()).Inc()
	}
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordHTTPRequest(d time.Duration, method, route string, statusCode int) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(statusCode)).Observe(d.Seconds())
}

func RecordStats(stats types.Stats) {
	total, _ := stats.TotalStaked.BigInt().Float64()
	totalStakedGauge.Set(total)
	activeStakersGauge.Set(float64(stats.ActiveStakers))
	openStakesGauge.Set(float64(stats.OpenStakes))
	crashCountersGauge.WithLabelValues("big").Set(float64(stats.CrashCounters.Big))
	crashCountersGauge.WithLabelValues("medium").Set(float64(stats.CrashCounters.Medium))
	crashCountersGauge.WithLabelValues("small").Set(float64(stats.CrashCounters.Small))
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}

func RecordMirrorError(eventType types.EventType) {
	mirrorErrorCounter.WithLabelValues(eventType.String()).Inc()
}
