package stats

import (
	"cmp"
	"time"

	"github.com/aspera-non-spernit/guru/internal/league"
)

// Outcome is the result of a match seen from the home side.
type Outcome int

const (
	Loss Outcome = -1
	Draw Outcome = 0
	Win  Outcome = 1
)

// OutcomeOf compares home and away goals.
func OutcomeOf(r league.Result) Outcome {
	return Outcome(cmp.Compare(r.Home, r.Away))
}

// TotalScoringToDate sums a club's home and away goals. The ledger only
// holds matches already processed, so the sums are "to date" as long as the
// ledger is advanced after features are generated.
func TotalScoringToDate(s *Stats) [2]int {
	var total [2]int
	for _, g := range s.HomeScores {
		total[Home] += g
	}
	for _, g := range s.AwayScores {
		total[Away] += g
	}
	return total
}

// HighestScoringToDate returns a club's best home and best away scores,
// 0 where it has not played.
func HighestScoringToDate(s *Stats) [2]int {
	var hs [2]int
	for _, g := range s.HomeScores {
		hs[Home] = max(hs[Home], g)
	}
	for _, g := range s.AwayScores {
		hs[Away] = max(hs[Away], g)
	}
	return hs
}

// GoalRatio is the ratio of a club's scoring on side to its scoring on the
// other side. When the other side has no goals the raw total is returned.
func GoalRatio(s *Stats, side Side) float64 {
	total := TotalScoringToDate(s)
	own, other := total[side], total[1-side]
	if other == 0 {
		return float64(own)
	}
	return float64(own) / float64(other)
}

// HighestScoringInLeagueToDate scans every played match dated strictly
// before date and returns the highest home and highest away result. It is
// O(len(matches)) per call.
func HighestScoringInLeagueToDate(matches []league.Match, date time.Time) [2]int {
	var hs [2]int
	for _, m := range matches {
		if m.Result == nil || !m.Date.Before(date) {
			continue
		}
		hs[Home] = max(hs[Home], m.Result.Home)
		hs[Away] = max(hs[Away], m.Result.Away)
	}
	return hs
}

// AllTimeHighestScoreInLeague returns the highest home and highest away
// result over every played match.
func AllTimeHighestScoreInLeague(matches []league.Match) [2]int {
	var hs [2]int
	for _, m := range matches {
		if m.Result == nil {
			continue
		}
		hs[Home] = max(hs[Home], m.Result.Home)
		hs[Away] = max(hs[Away], m.Result.Away)
	}
	return hs
}

// HighestScore is the larger side of AllTimeHighestScoreInLeague, the fixed
// anchor for normalizing model outputs.
func HighestScore(matches []league.Match) int {
	hs := AllTimeHighestScoreInLeague(matches)
	return max(hs[Home], hs[Away])
}

// WDLCountsToDate counts played matches before m whose outcome equals o:
// index Home counts m's home club at home, index Away counts m's away club
// away. Outcomes are always read from the home side of the counted match.
func WDLCountsToDate(matches []league.Match, m league.Match, o Outcome) [2]int {
	var counts [2]int
	for _, n := range matches {
		if n.Result == nil || !n.Date.Before(m.Date) || OutcomeOf(*n.Result) != o {
			continue
		}
		if n.Home == m.Home {
			counts[Home]++
		}
		if n.Away == m.Away {
			counts[Away]++
		}
	}
	return counts
}

// MedianScoreToDate returns the median home goals of m's home club at home
// and the median away goals of m's away club away, over played matches
// before m.
func MedianScoreToDate(matches []league.Match, m league.Match) [2]float64 {
	var home, away []int
	for _, n := range matches {
		if n.Result == nil || !n.Date.Before(m.Date) {
			continue
		}
		if n.Home == m.Home {
			home = append(home, n.Result.Home)
		}
		if n.Away == m.Away {
			away = append(away, n.Result.Away)
		}
	}
	return [2]float64{Median(home), Median(away)}
}

// HeadToHeadToDate sums the goals of every played meeting of m's two clubs
// before m, oriented so index Home is m's home club.
func HeadToHeadToDate(matches []league.Match, m league.Match) [2]int {
	var goals [2]int
	for _, n := range matches {
		if n.Result == nil || !n.Date.Before(m.Date) {
			continue
		}
		switch {
		case n.Home == m.Home && n.Away == m.Away:
			goals[Home] += n.Result.Home
			goals[Away] += n.Result.Away
		case n.Home == m.Away && n.Away == m.Home:
			goals[Home] += n.Result.Away
			goals[Away] += n.Result.Home
		}
	}
	return goals
}

// GameDays counts the matches in the set.
func GameDays(matches []league.Match) int { return len(matches) }
