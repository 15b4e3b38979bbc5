package stats

import (
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
)

// Side selects the home or the away half of a club's record.
type Side int

const (
	Home Side = iota
	Away
)

func (s Side) String() string {
	if s == Home {
		return "home"
	}
	return "away"
}

// Stats is the scoring history of one club. After every update
// len(HomeScores) == GamesPlayed[Home] and len(AwayScores) == GamesPlayed[Away].
type Stats struct {
	HomeScores  []int  `json:"home_scores"`
	AwayScores  []int  `json:"away_scores"`
	GamesPlayed [2]int `json:"games_played"`
}

// Check verifies the counter/length invariant for club c.
func (s *Stats) Check(c league.Club) error {
	if len(s.HomeScores) != s.GamesPlayed[Home] {
		return errors.WithStack(&errors.InvariantError{
			Club: string(c), Side: Home.String(), Len: len(s.HomeScores), Played: s.GamesPlayed[Home],
		})
	}
	if len(s.AwayScores) != s.GamesPlayed[Away] {
		return errors.WithStack(&errors.InvariantError{
			Club: string(c), Side: Away.String(), Len: len(s.AwayScores), Played: s.GamesPlayed[Away],
		})
	}
	return nil
}

func (s *Stats) clone() Stats {
	return Stats{
		HomeScores:  append([]int(nil), s.HomeScores...),
		AwayScores:  append([]int(nil), s.AwayScores...),
		GamesPlayed: s.GamesPlayed,
	}
}

// Ledger holds the running Stats of every club for one forward pass over a
// match set. It is owned by exactly one generator; it is not safe for
// concurrent use and must not be shared between passes.
type Ledger struct {
	stats map[league.Club]*Stats
}

// NewLedger starts an empty record for every club.
func NewLedger(clubs []league.Club) *Ledger {
	l := &Ledger{stats: make(map[league.Club]*Stats, len(clubs))}
	for _, c := range clubs {
		l.stats[c] = &Stats{}
	}
	return l
}

// Get returns the live record of c. Callers must treat it as read-only;
// only Update mutates the ledger.
func (l *Ledger) Get(c league.Club) (*Stats, error) {
	s, ok := l.stats[c]
	if !ok {
		return nil, errors.MissingClub(string(c))
	}
	return s, nil
}

// Update records a played match: the home goals go to the home club's home
// log, the away goals to the away club's away log, and both counters move
// by one. A match without a result leaves the ledger untouched, so
// predictions never leak into later training signal.
func (l *Ledger) Update(m league.Match) error {
	h, err := l.Get(m.Home)
	if err != nil {
		return err
	}
	a, err := l.Get(m.Away)
	if err != nil {
		return err
	}
	if m.Result == nil {
		return nil
	}

	h.HomeScores = append(h.HomeScores, m.Result.Home)
	h.GamesPlayed[Home]++
	a.AwayScores = append(a.AwayScores, m.Result.Away)
	a.GamesPlayed[Away]++

	if err := h.Check(m.Home); err != nil {
		return err
	}
	return a.Check(m.Away)
}

// Snapshot returns a deep copy of every record.
func (l *Ledger) Snapshot() map[league.Club]Stats {
	out := make(map[league.Club]Stats, len(l.stats))
	for c, s := range l.stats {
		out[c] = s.clone()
	}
	return out
}

// Reset clears every record, keeping the club set.
func (l *Ledger) Reset() {
	for c := range l.stats {
		l.stats[c] = &Stats{}
	}
}

// Len returns the number of clubs tracked.
func (l *Ledger) Len() int { return len(l.stats) }
