package league

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aspera-non-spernit/guru/internal/errors"
)

// Club is a participant in the league, identified by name.
type Club string

// Result holds the goals scored by each side of a played match.
type Result struct {
	Home int `json:"home" yaml:"home"`
	Away int `json:"away" yaml:"away"`
}

// Match represents a fixture between two clubs. A nil Result marks a
// fixture that has not been played yet; it is a prediction target and never
// a training example.
type Match struct {
	Date   time.Time `json:"date"`
	League string    `json:"league,omitempty"`
	Home   Club      `json:"home"`
	Away   Club      `json:"away"`
	Result *Result   `json:"result,omitempty"`
}

// LabelValue reads a league label as a base-36 integer. The empty label
// is 0.
func LabelValue(label string) (int64, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(label, 36, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "league label %q is not base-36", label)
	}
	return v, nil
}

// TableEntry holds the standings info for one club.
type TableEntry struct {
	Club         Club `json:"club"`
	Played       int  `json:"played"`
	Wins         int  `json:"wins"`
	Draws        int  `json:"draws"`
	Losses       int  `json:"losses"`
	GoalsFor     int  `json:"goals_for"`
	GoalsAgainst int  `json:"goals_against"`
	GoalDiff     int  `json:"goal_diff"`
	Points       int  `json:"points"`
}

// HasResult reports whether the match has been played.
func (m Match) HasResult() bool { return m.Result != nil }

// Involves reports whether c plays in the match.
func (m Match) Involves(c Club) bool { return m.Home == c || m.Away == c }

func (m Match) ScoreLine() string {
	if m.Result == nil {
		return fmt.Sprintf("%s - %s", m.Home, m.Away)
	}
	return fmt.Sprintf("%s %d - %d %s",
		m.Home, m.Result.Home,
		m.Result.Away, m.Away,
	)
}

// SortByDate returns a copy of matches in chronological order. Matches on
// the same instant keep their source order.
func SortByDate(matches []Match) []Match {
	sorted := make([]Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// IsChronological reports whether matches are ordered by date.
func IsChronological(matches []Match) bool {
	for i := 1; i < len(matches); i++ {
		if matches[i].Date.Before(matches[i-1].Date) {
			return false
		}
	}
	return true
}
