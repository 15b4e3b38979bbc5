// Package metrics exposes prometheus counters for forward passes and
// training.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sample kinds used as the "kind" label.
const (
	KindTrain   = "train"
	KindPredict = "predict"
)

// Metrics provides observability for passes and model training. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Completed forward passes
	Passes prometheus.Counter

	// Matches fed through a generator
	MatchesProcessed prometheus.Counter

	// Samples assembled, by kind
	Samples *prometheus.CounterVec

	// Ledger mutations (matches with a result)
	LedgerUpdates prometheus.Counter

	TrainingEpochs prometheus.Counter
	TrainingMSE    prometheus.Gauge
}

// New creates a Metrics instance registered on reg. A nil reg registers
// on the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		Passes: f.NewCounter(prometheus.CounterOpts{
			Name: "guru_passes_total",
			Help: "Total number of completed forward passes",
		}),
		MatchesProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "guru_matches_processed_total",
			Help: "Total number of matches fed through a feature generator",
		}),
		Samples: f.NewCounterVec(prometheus.CounterOpts{
			Name: "guru_samples_total",
			Help: "Total number of samples assembled by kind",
		}, []string{"kind"}), // kind: "train", "predict"
		LedgerUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "guru_ledger_updates_total",
			Help: "Total number of matches recorded in a statistics ledger",
		}),
		TrainingEpochs: f.NewCounter(prometheus.CounterOpts{
			Name: "guru_training_epochs_total",
			Help: "Total number of training epochs run",
		}),
		TrainingMSE: f.NewGauge(prometheus.GaugeOpts{
			Name: "guru_training_mse",
			Help: "Mean squared error at the end of the last training run",
		}),
	}
}

// ObservePass records one completed pass and the samples it produced.
func (m *Metrics) ObservePass(matches, train, predict int) {
	if m == nil {
		return
	}
	m.Passes.Inc()
	m.MatchesProcessed.Add(float64(matches))
	m.LedgerUpdates.Add(float64(train))
	m.Samples.WithLabelValues(KindTrain).Add(float64(train))
	m.Samples.WithLabelValues(KindPredict).Add(float64(predict))
}

// ObserveTraining records the outcome of one training run.
func (m *Metrics) ObserveTraining(epochs int, mse float64) {
	if m != nil {
		m.TrainingEpochs.Add(float64(epochs))
		m.TrainingMSE.Set(mse)
	}
}
