package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObservePass(10, 7, 3)
	m.ObservePass(2, 2, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Passes))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.MatchesProcessed))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.LedgerUpdates))
	assert.Equal(t, 9.0, testutil.ToFloat64(m.Samples.WithLabelValues(KindTrain)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Samples.WithLabelValues(KindPredict)))
}

func TestObserveTraining(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveTraining(500, 0.2)
	m.ObserveTraining(100, 0.05)

	assert.Equal(t, 600.0, testutil.ToFloat64(m.TrainingEpochs))
	assert.Equal(t, 0.05, testutil.ToFloat64(m.TrainingMSE))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "guru_training_mse")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObservePass(1, 1, 0)
		m.ObserveTraining(1, 1)
	})
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}
