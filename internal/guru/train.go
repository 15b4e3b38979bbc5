package guru

import (
	"context"

	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/dataset"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/logger"
	"github.com/aspera-non-spernit/guru/internal/metrics"
	"github.com/aspera-non-spernit/guru/internal/neural"
)

// Params are the training parameters handed to the network.
type Params struct {
	Momentum    float64
	Rate        float64
	HaltMSE     float64
	LogInterval int
	MaxEpochs   int
}

// Validate rejects momentum or rate outside [0, 1].
func (p Params) Validate() error {
	if p.Momentum < 0 || p.Momentum > 1 || p.Rate < 0 || p.Rate > 1 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidTrainingParams, "momentum %v, rate %v", p.Momentum, p.Rate),
			"momentum and rate must both lie in [0, 1]")
	}
	return nil
}

// Train fits net to the samples that carry a target. Parameters are
// checked before the network is touched.
func Train(ctx context.Context, net *neural.Network, samples []dataset.Sample, p Params, log *zap.SugaredLogger, m *metrics.Metrics) (neural.TrainResult, error) {
	if err := p.Validate(); err != nil {
		return neural.TrainResult{}, err
	}
	if log == nil {
		log = logger.Nop()
	}
	examples := make([]neural.Example, 0, len(samples))
	for _, s := range samples {
		if s.Trainable() {
			examples = append(examples, neural.Example{Inputs: s.Inputs, Outputs: s.Outputs})
		}
	}

	log.Infow("training network", "examples", len(examples), "layers", net.Layers(),
		"momentum", p.Momentum, "rate", p.Rate, "target_mse", p.HaltMSE)
	res, err := net.Train(ctx, examples, neural.TrainOptions{
		Momentum:    p.Momentum,
		Rate:        p.Rate,
		HaltMSE:     p.HaltMSE,
		LogInterval: p.LogInterval,
		MaxEpochs:   p.MaxEpochs,
		Logger:      log,
	})
	if err != nil {
		return res, errors.Wrap(err, "training network")
	}
	m.ObserveTraining(res.Epochs, res.MSE)
	log.Infow("training finished", "epochs", res.Epochs, "mse", res.MSE)
	return res, nil
}
