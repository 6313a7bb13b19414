package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsUsesIsolatedRegistry(t *testing.T) {
	a := NewMetrics("clinic_api")
	b := NewMetrics("clinic_api")

	a.OutboxEventsProcessed.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.OutboxEventsProcessed))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.OutboxEventsProcessed))
}

func TestObserveMutation(t *testing.T) {
	m := NewMetrics("clinic_api")

	m.ObserveMutation("doctor", "upsert", nil)
	m.ObserveMutation("doctor", "upsert", nil)
	m.ObserveMutation("doctor", "delete", errors.New("forbidden"))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Mutations.WithLabelValues("doctor", "upsert", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Mutations.WithLabelValues("doctor", "delete", "error")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveMutation("patient", "upsert", nil) })
}
