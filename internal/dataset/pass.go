package dataset

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/logger"
	"github.com/aspera-non-spernit/guru/internal/metrics"
)

// PassOptions configure a forward pass.
type PassOptions struct {
	Logger  *zap.SugaredLogger
	Metrics *metrics.Metrics
}

// PassResult holds the samples of one pass, in match order.
type PassResult struct {
	ID      uuid.UUID
	Samples []Sample
	Train   int
	Predict int
}

// Pass feeds matches through g in order and assembles one sample per
// match. The first error aborts the whole pass and no samples are
// returned: a skipped match would leave the generator's ledger out of
// step with the rest of the set.
func Pass(matches []league.Match, maxGoal int, g features.Generator, opts PassOptions) (*PassResult, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	res := &PassResult{ID: uuid.New(), Samples: make([]Sample, 0, len(matches))}
	log = log.With("pass_id", res.ID.String())

	start := time.Now()
	log.Infow("pass started", "matches", len(matches), "max_goal", maxGoal)

	for i, m := range matches {
		s, err := Assemble(m, maxGoal, g)
		if err != nil {
			log.Errorw("pass aborted", "index", i, "match", m.ScoreLine(), "error", err)
			return nil, errors.Wrapf(err, "pass %s: match %d", res.ID, i)
		}
		if s.Trainable() {
			res.Train++
		} else {
			res.Predict++
		}
		res.Samples = append(res.Samples, s)
	}

	opts.Metrics.ObservePass(len(matches), res.Train, res.Predict)
	log.Infow("pass finished",
		"samples", len(res.Samples),
		"train", res.Train,
		"predict", res.Predict,
		"duration", time.Since(start))
	return res, nil
}
