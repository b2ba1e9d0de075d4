package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/products", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/v1/products", "200", 30*time.Millisecond)
	m.Observe("POST", "", "500", time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products", "200"))
	assert.Equal(t, float64(2), count)

	unknown := testutil.ToFloat64(m.requests.WithLabelValues("POST", "unknown", "500"))
	assert.Equal(t, float64(1), unknown)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	assert.NotPanics(t, func() {
		m.Observe("GET", "/x", "200", time.Second)
	})
	assert.NotPanics(t, func() {
		NewHTTPMetrics(nil).Observe("GET", "/x", "200", time.Second)
	})
}
