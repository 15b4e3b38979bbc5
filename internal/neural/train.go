package neural

import (
	"context"

	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/logger"
)

// Example is one training pair.
type Example struct {
	Inputs  []float64
	Outputs []float64
}

// TrainOptions control a training run.
type TrainOptions struct {
	Momentum float64
	Rate     float64
	// HaltMSE stops training once an epoch's mean squared error is at or
	// below it.
	HaltMSE float64
	// LogInterval logs progress every that many epochs; 0 disables it.
	LogInterval int
	// MaxEpochs bounds the run; 0 means no bound besides HaltMSE.
	MaxEpochs int
	Logger    *zap.SugaredLogger
}

// TrainResult reports how a training run ended.
type TrainResult struct {
	Epochs int
	MSE    float64
}

// Train runs epochs of online backpropagation over examples until the mean
// squared error reaches opts.HaltMSE, opts.MaxEpochs is hit or ctx is
// done. Every example must match the network's shape.
func (n *Network) Train(ctx context.Context, examples []Example, opts TrainOptions) (TrainResult, error) {
	if len(examples) == 0 {
		return TrainResult{}, errors.Wrap(errors.ErrEmptyDataset, "no training examples")
	}
	for i, e := range examples {
		if len(e.Inputs) != n.Inputs() || len(e.Outputs) != n.Outputs() {
			return TrainResult{}, errors.Wrapf(errors.ErrModelShape,
				"example %d is %dx%d, network is %dx%d", i, len(e.Inputs), len(e.Outputs), n.Inputs(), n.Outputs())
		}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	var res TrainResult
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		var sse float64
		for _, e := range examples {
			sse += n.backprop(e.Inputs, e.Outputs, opts.Rate, opts.Momentum)
		}
		res.Epochs++
		res.MSE = sse / float64(len(examples)*n.Outputs())

		if opts.LogInterval > 0 && res.Epochs%opts.LogInterval == 0 {
			log.Infow("training", "epoch", res.Epochs, "mse", res.MSE)
		}
		if res.MSE <= opts.HaltMSE {
			break
		}
		if opts.MaxEpochs > 0 && res.Epochs >= opts.MaxEpochs {
			log.Warnw("training stopped before reaching target error",
				"epochs", res.Epochs, "mse", res.MSE, "target", opts.HaltMSE)
			break
		}
	}
	return res, nil
}
