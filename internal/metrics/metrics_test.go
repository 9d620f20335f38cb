package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector()

	c.ObserveCommit("committed", 20*time.Millisecond)
	c.ObserveCommit("committed", 5*time.Millisecond)
	c.ObserveCommit("aborted", time.Millisecond)
	c.IncRetry()
	c.AddEntries("batch-deduction", 3)
	c.ObserveAvailability(true)
	c.ObserveAvailability(false)
	c.ObserveConversion("density")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.commits.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.commits.WithLabelValues("aborted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.retries))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.ledgerEntries.WithLabelValues("batch-deduction")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.availability.WithLabelValues("short")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.conversions.WithLabelValues("density")))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveCommit("committed", time.Second)
		c.IncRetry()
		c.AddEntries("restock", 1)
		c.ObserveAvailability(true)
		c.ObserveConversion("direct")
	})
}

func TestHandlerExposesLedgerMetrics(t *testing.T) {
	c := NewCollector()
	c.ObserveCommit("committed", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `ledger_commits_total{outcome="committed"} 1`))
}
