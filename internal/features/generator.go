package features

import (
	"time"

	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/logger"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// Generator produces the input vector of one match. As its last step it
// records the match in the state it reads from, so it must see every
// match exactly once and in chronological order.
type Generator interface {
	Generate(m league.Match) ([]float64, error)
}

// Kind tags a Generator implementation.
type Kind string

const (
	// KindDefault keeps incremental per-club and head-to-head indexes and
	// runs in near-linear time over a pass.
	KindDefault Kind = "default"
	// KindScan recomputes every history feature by scanning the matches
	// fed so far. Quadratic; kept as an oracle and for small sets.
	KindScan Kind = "scan"
)

// Options configure a generator.
type Options struct {
	AwayFactor float64
	Logger     *zap.SugaredLogger
}

func (o Options) withDefaults() Options {
	if o.AwayFactor == 0 {
		o.AwayFactor = DefaultAwayFactor
	}
	if o.Logger == nil {
		o.Logger = logger.Nop()
	}
	return o
}

// New builds a generator of the given kind. reference is the match window
// the game-day and league features are scaled against. The ledger is taken
// over by the generator for the lifetime of the pass.
func New(kind Kind, reference []league.Match, r *league.Registry, l *stats.Ledger, opts Options) (Generator, error) {
	switch kind {
	case KindDefault, "":
		return NewDefault(reference, r, l, opts)
	case KindScan:
		return NewScan(reference, r, l, opts)
	default:
		return nil, errors.Newf("unknown generator kind %q", kind)
	}
}

// history answers the to-date questions that are not kept in the ledger.
type history interface {
	wdl(m league.Match, o stats.Outcome) [2]int
	median(m league.Match) [2]float64
	leagueHighest(m league.Match) [2]int
	headToHead(m league.Match) [2]int
	record(m league.Match)
}

// base holds what every reference generator shares: the fixed window
// computed from the reference set and the ledger it advances.
type base struct {
	registry *league.Registry
	ledger   *stats.Ledger
	opts     Options

	first, last int64
	maxLeague   int64
	lastDate    time.Time
	seen        int
	// clubs already fed at lastDate
	busy map[league.Club]bool
}

func newBase(reference []league.Match, r *league.Registry, l *stats.Ledger, opts Options) (*base, error) {
	if len(reference) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyDataset, "generator needs a reference window")
	}
	b := &base{registry: r, ledger: l, opts: opts.withDefaults(), busy: make(map[league.Club]bool)}
	b.first, b.last = reference[0].Date.Unix(), reference[0].Date.Unix()
	for _, m := range reference {
		ts := m.Date.Unix()
		b.first = min(b.first, ts)
		b.last = max(b.last, ts)
		v, err := league.LabelValue(m.League)
		if err != nil {
			return nil, err
		}
		b.maxLeague = max(b.maxLeague, v)
	}
	return b, nil
}

// admit rejects a match dated before the previous one, and a club playing
// twice at one kickoff: the ledger would already hold the first of the two
// while the history still hides it.
func (b *base) admit(m league.Match) error {
	if b.seen == 0 {
		return nil
	}
	if m.Date.Before(b.lastDate) {
		return errors.Wrapf(errors.ErrOutOfOrder, "%s on %s after %s",
			m.ScoreLine(), m.Date.Format(time.RFC3339), b.lastDate.Format(time.RFC3339))
	}
	if m.Date.Equal(b.lastDate) {
		for _, c := range []league.Club{m.Home, m.Away} {
			if b.busy[c] {
				return errors.Wrapf(errors.ErrOutOfOrder, "%s plays twice at %s",
					c, m.Date.Format(time.RFC3339))
			}
		}
	}
	return nil
}

// generate builds the vector from h and the ledger, then advances both.
func (b *base) generate(h history, m league.Match) ([]float64, error) {
	if err := b.admit(m); err != nil {
		return nil, err
	}

	inputs, err := ClubOneHot(b.registry, m, b.opts.AwayFactor)
	if err != nil {
		return nil, err
	}
	home, err := b.ledger.Get(m.Home)
	if err != nil {
		return nil, err
	}
	away, err := b.ledger.Get(m.Away)
	if err != nil {
		return nil, err
	}

	inputs = append(inputs, GameDay(m.Date, b.first, b.last))

	lv, err := league.LabelValue(m.League)
	if err != nil {
		return nil, err
	}
	inputs = append(inputs, LeagueStrength(lv, b.maxLeague))

	for _, o := range []stats.Outcome{stats.Win, stats.Draw, stats.Loss} {
		p := intPair(h.wdl(m, o))
		inputs = append(inputs, p[0], p[1])
	}

	med := h.median(m)
	p := stats.NormalizePair(med[stats.Home], med[stats.Away])
	inputs = append(inputs, p[0], p[1])

	hts := stats.TotalScoringToDate(home)
	ats := stats.TotalScoringToDate(away)
	p = intPair([2]int{hts[stats.Home], ats[stats.Away]})
	inputs = append(inputs, p[0], p[1])

	p = RelativeAdvantage(home, away)
	inputs = append(inputs, p[0], p[1])

	best := [2]int{
		stats.HighestScoringToDate(home)[stats.Home],
		stats.HighestScoringToDate(away)[stats.Away],
	}
	p = intPair(best)
	inputs = append(inputs, p[0], p[1])

	p = HighestVsLeague(best, h.leagueHighest(m))
	inputs = append(inputs, p[0], p[1])

	p = intPair(h.headToHead(m))
	inputs = append(inputs, p[0], p[1])

	// features are final; only now may the match become history
	if err := b.ledger.Update(m); err != nil {
		return nil, err
	}
	h.record(m)
	if b.seen == 0 || m.Date.After(b.lastDate) {
		clear(b.busy)
	}
	b.busy[m.Home], b.busy[m.Away] = true, true
	b.lastDate = m.Date
	b.seen++

	b.opts.Logger.Debugw("generated features",
		"home", m.Home,
		"away", m.Away,
		"date", m.Date,
		"played", m.HasResult(),
		"width", len(inputs))
	return inputs, nil
}
