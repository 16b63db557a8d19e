package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "heatglass"}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func TestNewMetricsCollector_RequiresNamespace(t *testing.T) {
	_, err := NewMetricsCollector(CollectorConfig{}, logging.NewNopLogger())
	assert.Error(t, err)
}

func scrape(t *testing.T, c MetricsCollector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(body)
}

func TestCollector_CounterAppearsInExposition(t *testing.T) {
	c := newTestCollector(t)
	counter := c.RegisterCounter("solve_total", "Field solves", "outcome", "converged")
	counter.WithLabelValues("ok", "true").Inc()
	counter.WithLabelValues("ok", "true").Add(2)

	body := scrape(t, c)
	assert.Contains(t, body, "heatglass_solve_total")
	assert.Contains(t, body, `outcome="ok"`)
}

func TestCollector_DuplicateRegistrationReturnsExisting(t *testing.T) {
	c := newTestCollector(t)
	first := c.RegisterCounter("dup_total", "dup", "label")
	second := c.RegisterCounter("dup_total", "dup", "label")

	first.WithLabelValues("a").Inc()
	second.WithLabelValues("a").Inc()

	body := scrape(t, c)
	assert.Contains(t, body, `heatglass_dup_total{label="a"} 2`)
}

func TestCollector_GaugeAndHistogram(t *testing.T) {
	c := newTestCollector(t)

	g := c.RegisterGauge("cache_entries", "entries")
	g.WithLabelValues().Set(41)
	g.WithLabelValues().Inc()

	h := c.RegisterHistogram("solve_duration_seconds", "duration", []float64{0.1, 1, 10})
	h.WithLabelValues().Observe(0.5)

	body := scrape(t, c)
	assert.Contains(t, body, "heatglass_cache_entries 42")
	assert.Contains(t, body, `heatglass_solve_duration_seconds_bucket{le="1"} 1`)
}

func TestNopCollector_Discards(t *testing.T) {
	c := NewNopCollector()
	c.RegisterCounter("x", "x").WithLabelValues().Inc()
	c.RegisterGauge("y", "y").WithLabelValues().Set(1)
	c.RegisterHistogram("z", "z", nil).WithLabelValues().Observe(1)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 204, rec.Code)
}

func TestTimer_Observes(t *testing.T) {
	c := newTestCollector(t)
	h := c.RegisterHistogram("timed_seconds", "timed", []float64{0.001, 1})

	timer := NewTimer(h.WithLabelValues())
	time.Sleep(2 * time.Millisecond)
	timer.ObserveDuration()

	body := scrape(t, c)
	assert.True(t, strings.Contains(body, "heatglass_timed_seconds_count 1"))
}

func TestAppMetrics_ObserveSolve(t *testing.T) {
	c := newTestCollector(t)
	m := NewAppMetrics(c)

	m.ObserveSolve(50*time.Millisecond, 900, true, true)
	m.ObserveSolve(80*time.Millisecond, 4000, true, false)
	m.ObserveSolve(time.Millisecond, 0, false, true)

	body := scrape(t, c)
	assert.Contains(t, body, `heatglass_solve_total{converged="true",outcome="ok"} 1`)
	assert.Contains(t, body, `heatglass_solve_total{converged="false",outcome="ok"} 1`)
	assert.Contains(t, body, `heatglass_solve_total{converged="true",outcome="invalid"} 1`)
	assert.Contains(t, body, "heatglass_solve_nonconverged_total 1")
}
