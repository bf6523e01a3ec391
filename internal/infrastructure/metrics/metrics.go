package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Mutation metrics
	MovementsApplied *prometheus.CounterVec
	MutationDuration prometheus.Histogram
	MutationErrors   *prometheus.CounterVec
	MovementAmount   prometheus.Histogram

	// Orchestrator metrics
	ExchangesExecuted prometheus.Counter
	HawalaOperations  *prometheus.CounterVec
	SubTransactions   *prometheus.CounterVec

	// Claim metrics
	CodesClaimed   prometheus.Counter
	ClaimConflicts prometheus.Counter

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBErrors      *prometheus.CounterVec
	DBConnections prometheus.Gauge

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		MovementsApplied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_movements_applied_total",
				Help: "Total number of ledger movements applied",
			},
			[]string{"label", "direction"},
		),
		MutationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sarraf_mutation_duration_seconds",
			Help:    "Duration of balance mutations",
			Buckets: prometheus.DefBuckets,
		}),
		MutationErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_mutation_errors_total",
				Help: "Total number of mutation errors by type",
			},
			[]string{"error_type"},
		),
		MovementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sarraf_movement_amount",
			Help:    "Movement amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		ExchangesExecuted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarraf_exchanges_executed_total",
			Help: "Total number of currency exchanges executed",
		}),
		HawalaOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_hawala_operations_total",
				Help: "Total hawala operations by kind",
			},
			[]string{"kind"},
		),
		SubTransactions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_subaccount_transactions_total",
				Help: "Total sub-account transactions by kind",
			},
			[]string{"kind"},
		),

		CodesClaimed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarraf_codes_claimed_total",
			Help: "Total number of activation codes claimed",
		}),
		ClaimConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarraf_claim_conflicts_total",
			Help: "Total number of claims lost to a concurrent claimant",
		}),

		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sarraf_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "sarraf_db_connections",
			Help: "Current number of database connections",
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarraf_cache_hits_total",
			Help: "Total balance cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sarraf_cache_misses_total",
			Help: "Total balance cache misses",
		}),
	}
}
