package features

import (
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// Scan computes history features by filtering every match it has been fed
// so far on each call, using the full-scan queries of package stats. It
// produces the same vectors as Default in quadratic time.
type Scan struct {
	*base
	seen *scanned
}

// NewScan returns the scanning generator.
func NewScan(reference []league.Match, r *league.Registry, l *stats.Ledger, opts Options) (*Scan, error) {
	b, err := newBase(reference, r, l, opts)
	if err != nil {
		return nil, err
	}
	return &Scan{base: b, seen: &scanned{}}, nil
}

func (s *Scan) Generate(m league.Match) ([]float64, error) {
	return s.generate(s.seen, m)
}

type scanned struct{ matches []league.Match }

func (s *scanned) wdl(m league.Match, o stats.Outcome) [2]int {
	return stats.WDLCountsToDate(s.matches, m, o)
}

func (s *scanned) median(m league.Match) [2]float64 {
	return stats.MedianScoreToDate(s.matches, m)
}

func (s *scanned) leagueHighest(m league.Match) [2]int {
	return stats.HighestScoringInLeagueToDate(s.matches, m.Date)
}

func (s *scanned) headToHead(m league.Match) [2]int {
	return stats.HeadToHeadToDate(s.matches, m)
}

func (s *scanned) record(m league.Match) {
	if m.HasResult() {
		s.matches = append(s.matches, m)
	}
}
