package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewRecorder(reg)
	require.NoError(t, err)

	rec.Observe(OperationSign, "HS256", OutcomeOK, time.Microsecond)
	rec.Observe(OperationSign, "HS256", OutcomeOK, time.Microsecond)
	rec.Observe(OperationVerify, "HS512", "token_expired", time.Microsecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.operations.WithLabelValues(OperationSign, "HS256", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues(OperationVerify, "HS512", "token_expired")))
	assert.Equal(t, 2, testutil.CollectAndCount(rec.duration))
}

func TestNewRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewRecorder(reg)
	require.NoError(t, err)
	second, err := NewRecorder(reg)
	require.NoError(t, err)

	first.Observe(OperationSign, "HS384", OutcomeOK, 0)
	second.Observe(OperationSign, "HS384", OutcomeOK, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(first.operations.WithLabelValues(OperationSign, "HS384", OutcomeOK)))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.Observe(OperationVerify, "HS256", OutcomeOK, time.Millisecond)
	})
}
