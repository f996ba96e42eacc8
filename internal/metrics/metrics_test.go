package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCalculation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordCalculation("passages", OutcomeCharged, 44, 4)
	m.RecordCalculation("passages", OutcomeCharged, 60, 9)
	m.RecordCalculation("passage", OutcomeInvalid, 0, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("passages", OutcomeCharged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues("passage", OutcomeInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.FeeAmount))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New(nil)
	m.RecordHTTP("POST", "/api/v1/toll/passage", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="POST",path="/api/v1/toll/passage",status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
