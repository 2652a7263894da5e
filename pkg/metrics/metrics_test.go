package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagepal/gateway/pkg/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveLookup("hit", 3*time.Millisecond)
	m.ObserveLookup("hit", 4*time.Millisecond)
	m.ObserveLookup("miss", time.Second)
	m.ObserveUpstream("gemini", "ok", time.Second)
	m.IncCache("hit")
	m.IncRateLimited()
	m.IncLimiterFallback()
	m.IncLimiterFallback()
	m.SetStoreDegraded(true)

	reg := m.Registry()
	count, err := testutil.GatherAndCount(reg, "packagepal_lookups_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per outcome")

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "packagepal_rate_limited_total"))

	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[mf.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[mf.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 3.0, values["packagepal_lookups_total"])
	assert.Equal(t, 2.0, values["packagepal_limiter_fallback_total"])
	assert.Equal(t, 1.0, values["packagepal_limiter_store_degraded"])
	assert.Equal(t, 1.0, values["packagepal_upstream_calls_total"])
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.IncCache("miss")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `packagepal_cache_results_total{result="miss"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
