// Package features turns matches into model input vectors.
//
// A Generator reads the running ledger and the match history strictly
// before the match it is asked about, emits the vector, and only then
// records the match. Matches must be fed in chronological order.
package features

import (
	"time"

	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

// DefaultAwayFactor weighs the away club against the home club in the
// one-hot block. 1.0 treats both as equally strong.
const DefaultAwayFactor = 1.0

// ClubOneHot returns one slot per registered club: the home slot holds
// 1/(1+awayFactor), the away slot awayFactor/(1+awayFactor), every other
// slot 0.
func ClubOneHot(r *league.Registry, m league.Match, awayFactor float64) ([]float64, error) {
	h, err := r.Index(m.Home)
	if err != nil {
		return nil, err
	}
	a, err := r.Index(m.Away)
	if err != nil {
		return nil, err
	}
	v := make([]float64, r.Len())
	v[h] = stats.Normalize(1, 0, 1+awayFactor)
	v[a] = stats.Normalize(awayFactor, 0, 1+awayFactor)
	return v, nil
}

// GameDay places date between the first and last kickoff of the reference
// window. Fixtures after the window score above 1.
func GameDay(date time.Time, first, last int64) float64 {
	return stats.Normalize(float64(date.Unix()), float64(first), float64(last))
}

// LeagueStrength normalizes a league value (see league.LabelValue) against
// the largest one seen.
func LeagueStrength(v, max int64) float64 {
	return stats.Normalize(float64(v), 0, float64(max))
}

// RelativeAdvantage compares how much better the home club scores at home
// than away with how much better the away club scores away than at home.
func RelativeAdvantage(home, away *stats.Stats) [2]float64 {
	return stats.NormalizePair(stats.GoalRatio(home, stats.Home), stats.GoalRatio(away, stats.Away))
}

// HighestVsLeague rates each club's best score on its side against the
// league's best on that side. The two values are independent.
func HighestVsLeague(clubBest, leagueBest [2]int) [2]float64 {
	return [2]float64{
		stats.Normalize(float64(clubBest[stats.Home]), 0, float64(leagueBest[stats.Home])),
		stats.Normalize(float64(clubBest[stats.Away]), 0, float64(leagueBest[stats.Away])),
	}
}

func intPair(p [2]int) [2]float64 {
	return stats.NormalizePair(float64(p[0]), float64(p[1]))
}

// Columns names every slot of the vector a reference generator emits for
// the registry.
func Columns(r *league.Registry) []string {
	clubs := r.Clubs()
	cols := make([]string, 0, len(clubs)+fixedColumns)
	for _, c := range clubs {
		cols = append(cols, "club:"+string(c))
	}
	return append(cols,
		"game_day",
		"league",
		"wins:home", "wins:away",
		"draws:home", "draws:away",
		"losses:home", "losses:away",
		"median:home", "median:away",
		"total:home", "total:away",
		"advantage:home", "advantage:away",
		"highest:home", "highest:away",
		"highest_vs_league:home", "highest_vs_league:away",
		"head_to_head:home", "head_to_head:away",
	)
}

// fixedColumns is the number of slots after the one-hot block.
const fixedColumns = 20

// Width is the length of a reference vector for a registry of n clubs.
func Width(n int) int { return n + fixedColumns }
