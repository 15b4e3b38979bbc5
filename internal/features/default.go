package features

import (
	"time"

	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// Default is the reference generator. Besides the ledger it keeps
// incremental indexes of outcomes, score logs, the league's best scores and
// head-to-head goals, so each match costs O(clubs) instead of a scan over
// the whole set.
type Default struct {
	*base
	idx *index
}

// NewDefault returns the indexed reference generator.
func NewDefault(reference []league.Match, r *league.Registry, l *stats.Ledger, opts Options) (*Default, error) {
	b, err := newBase(reference, r, l, opts)
	if err != nil {
		return nil, err
	}
	return &Default{base: b, idx: newIndex()}, nil
}

func (d *Default) Generate(m league.Match) ([]float64, error) {
	d.idx.advance(m.Date)
	return d.generate(d.idx, m)
}

// pair keys head-to-head goals by the unordered club pair; goals[0]
// belongs to lo, goals[1] to hi.
type pair struct{ lo, hi league.Club }

func pairOf(a, b league.Club) (pair, bool) {
	if a <= b {
		return pair{a, b}, false
	}
	return pair{b, a}, true
}

type index struct {
	// matches recorded but dated at the current instant; they only become
	// history once a later match arrives, matching a strict date filter
	pending []league.Match

	outcomes map[league.Club]*[2][3]int
	scores   map[league.Club]*[2][]int
	best     [2]int
	h2h      map[pair][2]int
}

func newIndex() *index {
	return &index{
		outcomes: make(map[league.Club]*[2][3]int),
		scores:   make(map[league.Club]*[2][]int),
		h2h:      make(map[pair][2]int),
	}
}

func (x *index) record(m league.Match) {
	if m.Result != nil {
		x.pending = append(x.pending, m)
	}
}

// advance commits every pending match dated strictly before date.
func (x *index) advance(date time.Time) {
	kept := x.pending[:0]
	for _, m := range x.pending {
		if !m.Date.Before(date) {
			kept = append(kept, m)
			continue
		}
		x.commit(m)
	}
	x.pending = kept
}

func (x *index) commit(m league.Match) {
	r := *m.Result
	o := stats.OutcomeOf(r) + 1

	x.outcomesOf(m.Home)[stats.Home][o]++
	x.outcomesOf(m.Away)[stats.Away][o]++

	hs := x.scoresOf(m.Home)
	hs[stats.Home] = append(hs[stats.Home], r.Home)
	as := x.scoresOf(m.Away)
	as[stats.Away] = append(as[stats.Away], r.Away)

	x.best[stats.Home] = max(x.best[stats.Home], r.Home)
	x.best[stats.Away] = max(x.best[stats.Away], r.Away)

	k, swapped := pairOf(m.Home, m.Away)
	g := x.h2h[k]
	if swapped {
		g[0] += r.Away
		g[1] += r.Home
	} else {
		g[0] += r.Home
		g[1] += r.Away
	}
	x.h2h[k] = g
}

func (x *index) outcomesOf(c league.Club) *[2][3]int {
	o, ok := x.outcomes[c]
	if !ok {
		o = &[2][3]int{}
		x.outcomes[c] = o
	}
	return o
}

func (x *index) scoresOf(c league.Club) *[2][]int {
	s, ok := x.scores[c]
	if !ok {
		s = &[2][]int{}
		x.scores[c] = s
	}
	return s
}

func (x *index) wdl(m league.Match, o stats.Outcome) [2]int {
	var counts [2]int
	if h, ok := x.outcomes[m.Home]; ok {
		counts[stats.Home] = h[stats.Home][o+1]
	}
	if a, ok := x.outcomes[m.Away]; ok {
		counts[stats.Away] = a[stats.Away][o+1]
	}
	return counts
}

func (x *index) median(m league.Match) [2]float64 {
	var med [2]float64
	if h, ok := x.scores[m.Home]; ok {
		med[stats.Home] = stats.Median(h[stats.Home])
	}
	if a, ok := x.scores[m.Away]; ok {
		med[stats.Away] = stats.Median(a[stats.Away])
	}
	return med
}

func (x *index) leagueHighest(league.Match) [2]int { return x.best }

func (x *index) headToHead(m league.Match) [2]int {
	k, swapped := pairOf(m.Home, m.Away)
	g := x.h2h[k]
	if swapped {
		return [2]int{g[1], g[0]}
	}
	return g
}
