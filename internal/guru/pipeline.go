// Package guru wires the ledger, the feature generators and the network
// into the train, test and predict workflow.
package guru

import (
	"context"

	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/dataset"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/logger"
	"github.com/aspera-non-spernit/guru/internal/metrics"
	"github.com/aspera-non-spernit/guru/internal/neural"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// DefaultHidden are the hidden layer sizes of a fresh network.
var DefaultHidden = []int{12, 8, 5}

// Options configure a Pipeline.
type Options struct {
	// Split is the share of played matches used for training; the rest
	// are held out for testing.
	Split      float64
	Hidden     []int
	Seed       uint64
	SortClubs  bool
	AwayFactor float64
	Generator  features.Kind
	// Train toggles training. A loaded Model may be used as is.
	Train  bool
	Params Params
	// Model replaces the freshly initialised network when set.
	Model *neural.Network

	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
}

// Outcome is everything one pipeline run produces.
type Outcome struct {
	Registry *league.Registry
	Columns  []string
	Network  *neural.Network
	// Training is nil when training was skipped.
	Training *neural.TrainResult
	// Highest is the anchor model outputs are scaled by.
	Highest int
	// Seen scores the network on its own training data, Unseen on the
	// held-out matches.
	Seen     *Report
	Unseen   *Report
	Forecast Predictions
}

// Pipeline runs load-to-prediction over one match set.
type Pipeline struct {
	opts Options
	log  *zap.SugaredLogger
}

// NewPipeline returns a pipeline with opts. Zero values fall back to the
// usual defaults: split 0.9, hidden layers 12-8-5, the default generator.
func NewPipeline(opts Options) *Pipeline {
	if opts.Split == 0 {
		opts.Split = 0.9
	}
	if len(opts.Hidden) == 0 {
		opts.Hidden = DefaultHidden
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Pipeline{opts: opts, log: opts.Logger}
}

type role int

const (
	roleTrain role = iota
	roleTest
	rolePredict
)

// split holds samples and their matches per role, each in date order.
type split struct {
	samples [3][]dataset.Sample
	matches [3][]league.Match
}

// Run sorts matches by date, holds out the last played matches for
// testing, feeds every match once and in order through one generator and
// one ledger, then trains, tests and predicts.
func (p *Pipeline) Run(ctx context.Context, matches []league.Match) (*Outcome, error) {
	if p.opts.Train {
		if err := p.opts.Params.Validate(); err != nil {
			return nil, err
		}
	}
	sorted := league.SortByDate(matches)
	trainable := dataset.FilterResults(sorted)
	head, _, err := dataset.SplitAt(trainable, p.opts.Split)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "no played matches to train on")
	}

	roles := make([]role, len(sorted))
	played := 0
	for i, m := range sorted {
		switch {
		case !m.HasResult():
			roles[i] = rolePredict
		case played < len(head):
			roles[i] = roleTrain
			played++
		default:
			roles[i] = roleTest
		}
	}

	registry := league.NewRegistry(sorted, p.opts.SortClubs)
	out := &Outcome{
		Registry: registry,
		Columns:  features.Columns(registry),
		Highest:  stats.HighestScore(sorted),
	}
	s, err := p.pass(sorted, roles, head, registry, out.Highest)
	if err != nil {
		return nil, err
	}

	net, err := p.network(features.Width(registry.Len()))
	if err != nil {
		return nil, err
	}
	out.Network = net

	if p.opts.Train {
		res, err := Train(ctx, net, s.samples[roleTrain], p.opts.Params, p.log, p.opts.Metrics)
		if err != nil {
			return nil, err
		}
		out.Training = &res
	}

	if out.Seen, err = Test(net, s.samples[roleTrain], s.matches[roleTrain], out.Highest); err != nil {
		return nil, err
	}
	if out.Unseen, err = Test(net, s.samples[roleTest], s.matches[roleTest], out.Highest); err != nil {
		return nil, err
	}
	forecast, err := Test(net, s.samples[rolePredict], s.matches[rolePredict], out.Highest)
	if err != nil {
		return nil, err
	}
	out.Forecast = forecast.Predictions

	p.log.Infow("pipeline finished",
		"clubs", registry.Len(),
		"train", len(s.matches[roleTrain]),
		"test", len(s.matches[roleTest]),
		"predict", len(s.matches[rolePredict]),
		"result", out.Unseen.Result.String(),
		"winner", out.Unseen.Winner.String())
	return out, nil
}

// pass runs one forward pass over sorted with a fresh ledger and routes
// every sample by its role. reference is the window the generator scales
// game days and leagues against.
func (p *Pipeline) pass(sorted []league.Match, roles []role, reference []league.Match, r *league.Registry, highest int) (*split, error) {
	ledger := stats.NewLedger(r.Clubs())
	g, err := features.New(p.opts.Generator, reference, r, ledger, features.Options{
		AwayFactor: p.opts.AwayFactor,
		Logger:     p.log,
	})
	if err != nil {
		return nil, err
	}
	res, err := dataset.Pass(sorted, highest, g, dataset.PassOptions{Logger: p.log, Metrics: p.opts.Metrics})
	if err != nil {
		return nil, err
	}
	s := &split{}
	for i, sample := range res.Samples {
		k := roles[i]
		s.samples[k] = append(s.samples[k], sample)
		s.matches[k] = append(s.matches[k], sorted[i])
	}
	return s, nil
}

func (p *Pipeline) network(inputs int) (*neural.Network, error) {
	if m := p.opts.Model; m != nil {
		if m.Inputs() != inputs || m.Outputs() != 2 {
			return nil, errors.WithHint(
				errors.Wrapf(errors.ErrModelShape, "model is %dx%d, data needs %dx2", m.Inputs(), m.Outputs(), inputs),
				"a saved model only fits the club set it was trained on")
		}
		return m, nil
	}
	layers := append([]int{inputs}, p.opts.Hidden...)
	return neural.New(append(layers, 2), p.opts.Seed)
}
