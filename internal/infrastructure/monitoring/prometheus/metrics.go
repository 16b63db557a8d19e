package prometheus

import "time"

// Default bucket layouts, in seconds.
var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultSolveDurationBuckets  = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15, 30}
	DefaultSearchDurationBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120}
	DefaultIterationBuckets      = []float64{50, 100, 250, 500, 1000, 2000, 4000}
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Field solver
	SolveTotal        CounterVec // labels: outcome (ok|invalid), converged (true|false)
	SolveDuration     HistogramVec
	SolveIterations   HistogramVec
	SolveNonConverged CounterVec
	SolveCacheHits    CounterVec // labels: tier (memory|shared)
	SolveCacheMisses  CounterVec
	SolveCacheEntries GaugeVec

	// Candidate search
	SearchTotal         CounterVec   // labels: outcome (achievable|closest|failed)
	SearchDuration      HistogramVec
	SearchCandidates    HistogramVec // solver-verified candidates per search
	SearchBestDeviation GaugeVec     // observed best |deviation|, informational only

	// History store
	HistoryWritesTotal CounterVec // labels: status (ok|error)
}

// NewAppMetrics registers all service metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total",
		"Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds",
		"HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests",
		"In-flight HTTP requests")

	m.SolveTotal = collector.RegisterCounter("solve_total",
		"Field solves by outcome", "outcome", "converged")
	m.SolveDuration = collector.RegisterHistogram("solve_duration_seconds",
		"Field solve wall time", DefaultSolveDurationBuckets)
	m.SolveIterations = collector.RegisterHistogram("solve_cg_iterations",
		"Conjugate gradient iterations per solve", DefaultIterationBuckets)
	m.SolveNonConverged = collector.RegisterCounter("solve_nonconverged_total",
		"Solves that hit the CG iteration cap")
	m.SolveCacheHits = collector.RegisterCounter("solve_cache_hits_total",
		"Solve cache hits", "tier")
	m.SolveCacheMisses = collector.RegisterCounter("solve_cache_misses_total",
		"Solve cache misses")
	m.SolveCacheEntries = collector.RegisterGauge("solve_cache_entries",
		"Entries in the in-process solve cache")

	m.SearchTotal = collector.RegisterCounter("search_total",
		"Candidate searches by outcome", "outcome")
	m.SearchDuration = collector.RegisterHistogram("search_duration_seconds",
		"Candidate search wall time", DefaultSearchDurationBuckets)
	m.SearchCandidates = collector.RegisterHistogram("search_verified_candidates",
		"Solver-verified candidates per search", []float64{5, 10, 20, 30, 50, 100})
	m.SearchBestDeviation = collector.RegisterGauge("search_best_deviation_percent",
		"Best absolute deviation observed by the last search")

	m.HistoryWritesTotal = collector.RegisterCounter("history_writes_total",
		"Calculation history writes", "status")

	return m
}

// ObserveSolve records one solve outcome.
func (m *AppMetrics) ObserveSolve(duration time.Duration, iterations int, ok, converged bool) {
	outcome := "ok"
	if !ok {
		outcome = "invalid"
	}
	conv := "true"
	if !converged {
		conv = "false"
	}
	m.SolveTotal.WithLabelValues(outcome, conv).Inc()
	m.SolveDuration.WithLabelValues().Observe(duration.Seconds())
	m.SolveIterations.WithLabelValues().Observe(float64(iterations))
	if ok && !converged {
		m.SolveNonConverged.WithLabelValues().Inc()
	}
}
