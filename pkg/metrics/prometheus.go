// Package metrics provides Prometheus metrics for the podium judging service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring: the writes that matter for a judging dashboard.
	scoresSubmitted   prometheus.Counter
	scoresOverwritten prometheus.Counter
	scoresRejected    *prometheus.CounterVec

	// Roster growth.
	eventsCreated  prometheus.Counter
	teamsCreated   prometheus.Counter
	judgesAssigned prometheus.Counter

	// Leaderboard reads and CSV plumbing.
	leaderboardReads   prometheus.Counter
	leaderboardBuildMs prometheus.Histogram
	exportsTotal       prometheus.Counter
	importBatches      prometheus.Counter
	importRowsOK       prometheus.Counter
	importRowsFailed   prometheus.Counter

	// Store internals.
	storeShardCount   prometheus.Gauge
	storeUpsertMs     prometheus.Histogram
	storeScoreRecords prometheus.Gauge

	// HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global manager backed by a dedicated registry so the default Go runtime
// collectors never collide with ours.
var (
	globalManager  *Manager                   //nolint:gochecknoglobals // singleton metrics manager
	customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry
)

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "podium",
		subsystem:        "judging",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initCollectors()
	return m
}

func (m *Manager) initCollectors() {
	factory := promauto.With(m.registry)

	m.scoresSubmitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_submitted_total",
		Help: "New score records accepted.",
	})
	m.scoresOverwritten = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_overwritten_total",
		Help: "Score records replaced by a resubmission for the same (team, judge) pair.",
	})
	m.scoresRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "scores_rejected_total",
		Help: "Score submissions rejected, by reason.",
	}, []string{"reason"})

	m.eventsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_created_total",
		Help: "Events created.",
	})
	m.teamsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "teams_created_total",
		Help: "Teams registered, individually or via roster import.",
	})
	m.judgesAssigned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "judges_assigned_total",
		Help: "Judge-to-event assignments made.",
	})

	m.leaderboardReads = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_reads_total",
		Help: "Leaderboard rankings computed.",
	})
	m.leaderboardBuildMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "leaderboard_build_duration_ms",
		Help:    "Time to recompute a full ranking, in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.exportsTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_exports_total",
		Help: "Leaderboard CSV exports served.",
	})
	m.importBatches = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roster_import_batches_total",
		Help: "Roster CSV import batches processed.",
	})
	m.importRowsOK = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roster_import_rows_ok_total",
		Help: "Roster rows that created a team.",
	})
	m.importRowsFailed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "roster_import_rows_failed_total",
		Help: "Roster rows rejected with a row-level diagnostic.",
	})

	m.storeShardCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_shard_count",
		Help: "Number of score shards in the in-memory store.",
	})
	m.storeUpsertMs = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "store_upsert_duration_ms",
		Help:    "Shard write time for a score upsert, in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.storeScoreRecords = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_score_records",
		Help: "Score records currently held by the store.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests, by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request latency, in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry returns the gatherer backing the global manager, for promhttp.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Package-level recording helpers delegating to the global manager.

func RecordScoreSubmitted() {
	if globalManager.enabled {
		globalManager.scoresSubmitted.Inc()
	}
}

func RecordScoreOverwritten() {
	if globalManager.enabled {
		globalManager.scoresOverwritten.Inc()
	}
}

func RecordScoreRejected(reason string) {
	if globalManager.enabled {
		globalManager.scoresRejected.WithLabelValues(reason).Inc()
	}
}

func RecordEventCreated() {
	if globalManager.enabled {
		globalManager.eventsCreated.Inc()
	}
}

func RecordTeamCreated() {
	if globalManager.enabled {
		globalManager.teamsCreated.Inc()
	}
}

func RecordJudgeAssigned() {
	if globalManager.enabled {
		globalManager.judgesAssigned.Inc()
	}
}

func RecordLeaderboardRead() {
	if globalManager.enabled {
		globalManager.leaderboardReads.Inc()
	}
}

func RecordLeaderboardBuildDuration(ms float64) {
	if globalManager.enabled {
		globalManager.leaderboardBuildMs.Observe(ms)
	}
}

func RecordExport() {
	if globalManager.enabled {
		globalManager.exportsTotal.Inc()
	}
}

func RecordImportBatch() {
	if globalManager.enabled {
		globalManager.importBatches.Inc()
	}
}

func RecordImportRowOK() {
	if globalManager.enabled {
		globalManager.importRowsOK.Inc()
	}
}

func RecordImportRowFailed() {
	if globalManager.enabled {
		globalManager.importRowsFailed.Inc()
	}
}

func UpdateStoreShardCount(n int) {
	if globalManager.enabled {
		globalManager.storeShardCount.Set(float64(n))
	}
}

func RecordStoreUpsertLatency(ms float64) {
	if globalManager.enabled {
		globalManager.storeUpsertMs.Observe(ms)
	}
}

func UpdateStoreScoreRecords(n int) {
	if globalManager.enabled {
		globalManager.storeScoreRecords.Set(float64(n))
	}
}

func RecordHTTPRequest(endpoint, method, status string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}
