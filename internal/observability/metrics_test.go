package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCountsRequestsPerOutcome(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/tickets", "POST", 201, time.Millisecond)

	assert.Equal(t, int64(2), m.RequestCount("/tickets", "GET", 200))
	assert.Equal(t, int64(1), m.RequestCount("/tickets", "POST", 201))
	assert.Equal(t, int64(0), m.RequestCount("/tickets", "GET", 500))
}

func TestMetricsCountsErrorsPerCode(t *testing.T) {
	m := NewMetrics()

	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordError("/tickets/t-1", "GET", "NOT_FOUND")

	assert.Equal(t, int64(2), m.ErrorCount("/tickets", "POST", "VALIDATION_FAILED"))
	assert.Equal(t, int64(1), m.ErrorCount("/tickets/t-1", "GET", "NOT_FOUND"))
}

func TestMetricsNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/x", "GET", 200, 0)
		m.RecordError("/x", "GET", "INTERNAL_ERROR")
	})
}
