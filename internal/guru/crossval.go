package guru

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aspera-non-spernit/guru/internal/dataset"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/neural"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// FoldReport is the outcome of one cross-validation fold.
type FoldReport struct {
	Fold     int                `json:"fold"`
	Train    int                `json:"train"`
	Test     int                `json:"test"`
	Training neural.TrainResult `json:"training"`
	Report   *Report            `json:"report"`
}

// CrossReport aggregates every fold.
type CrossReport struct {
	Folds  []FoldReport `json:"folds"`
	Result NetworkStats `json:"result"`
	Winner NetworkStats `json:"winner"`
}

// CrossValidate deals the played matches into k random folds and, for
// each fold, trains a fresh network on the other folds and tests it on
// that one. Folds are independent: each owns its ledger, generator and
// network, so they run concurrently. The first failing fold cancels the
// rest.
func (p *Pipeline) CrossValidate(ctx context.Context, matches []league.Match, k int) (*CrossReport, error) {
	if err := p.opts.Params.Validate(); err != nil {
		return nil, err
	}
	sorted := league.SortByDate(matches)
	trainable := dataset.FilterResults(sorted)
	folds, err := dataset.Folds(len(trainable), k, p.opts.Seed)
	if err != nil {
		return nil, err
	}
	registry := league.NewRegistry(sorted, p.opts.SortClubs)
	highest := stats.HighestScore(sorted)

	reports := make([]FoldReport, k)
	g, ctx := errgroup.WithContext(ctx)
	for f, fold := range folds {
		g.Go(func() error {
			r, err := p.fold(ctx, trainable, fold, registry, highest)
			if err != nil {
				return errors.Wrapf(err, "fold %d", f)
			}
			r.Fold = f
			reports[f] = *r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &CrossReport{Folds: reports}
	for _, r := range reports {
		out.Result.Add(r.Report.Result)
		out.Winner.Add(r.Report.Winner)
	}
	p.log.Infow("cross-validation finished", "folds", k,
		"result", out.Result.String(), "winner", out.Winner.String())
	return out, nil
}

func (p *Pipeline) fold(ctx context.Context, trainable []league.Match, held []int, r *league.Registry, highest int) (*FoldReport, error) {
	roles := make([]role, len(trainable))
	for _, i := range held {
		roles[i] = roleTest
	}
	reference := make([]league.Match, 0, len(trainable)-len(held))
	for i, m := range trainable {
		if roles[i] == roleTrain {
			reference = append(reference, m)
		}
	}
	if len(reference) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "no matches left to train on")
	}

	s, err := p.pass(trainable, roles, reference, r, highest)
	if err != nil {
		return nil, err
	}
	net, err := p.network(features.Width(r.Len()))
	if err != nil {
		return nil, err
	}
	if p.opts.Model != nil {
		// folds must not share weights
		if net, err = clone(net); err != nil {
			return nil, err
		}
	}
	res, err := Train(ctx, net, s.samples[roleTrain], p.opts.Params, p.log, p.opts.Metrics)
	if err != nil {
		return nil, err
	}
	rep, err := Test(net, s.samples[roleTest], s.matches[roleTest], highest)
	if err != nil {
		return nil, err
	}
	return &FoldReport{
		Train:    len(s.matches[roleTrain]),
		Test:     len(s.matches[roleTest]),
		Training: res,
		Report:   rep,
	}, nil
}

func clone(n *neural.Network) (*neural.Network, error) {
	data, err := n.MarshalJSON()
	if err != nil {
		return nil, err
	}
	c := &neural.Network{}
	if err := c.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return c, nil
}
