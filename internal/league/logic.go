// internal/league/logic.go
package league

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// RoundRobin returns a double round-robin season for clubs as unplayed
// matches. Round i is dated first + i*every; the second half repeats the
// first with home and away swapped.
func RoundRobin(clubs []Club, first time.Time, every time.Duration) []Match {
	firstHalf := schedule(clubs)

	var season []Match
	for i, round := range firstHalf {
		date := first.Add(time.Duration(i) * every)
		for _, p := range round {
			season = append(season, Match{Date: date, Home: p[0], Away: p[1]})
		}
	}
	// Second half with swapped home/away
	offset := len(firstHalf)
	for i, round := range firstHalf {
		date := first.Add(time.Duration(offset+i) * every)
		for _, p := range round {
			season = append(season, Match{Date: date, Home: p[1], Away: p[0]})
		}
	}
	return season
}

// schedule is the circle method: the first club stays fixed while the
// others rotate one slot per round.
func schedule(clubs []Club) [][][2]Club {
	teams := make([]*Club, 0, len(clubs)+1)
	for i := range clubs {
		teams = append(teams, &clubs[i])
	}
	// If odd number of clubs, add a nil placeholder (bye)
	if len(teams)%2 != 0 {
		teams = append(teams, nil)
	}
	n := len(teams)
	if n < 2 {
		return nil
	}

	rounds := make([][][2]Club, n-1)
	for i := 0; i < n-1; i++ {
		round := make([][2]Club, 0, n/2)
		for j := 0; j < n/2; j++ {
			home := teams[j]
			away := teams[n-1-j]
			if home != nil && away != nil {
				round = append(round, [2]Club{*home, *away})
			}
		}
		rounds[i] = round

		// Rotate everyone except the first
		last := teams[n-1]
		copy(teams[2:], teams[1:n-1])
		teams[1] = last
	}
	return rounds
}

// Standings computes the league table from played matches. Unplayed
// matches are ignored. Ordering: points, goal difference, goals for, name.
func Standings(matches []Match) []TableEntry {
	entries := make(map[Club]*TableEntry)
	entry := func(c Club) *TableEntry {
		e, ok := entries[c]
		if !ok {
			e = &TableEntry{Club: c}
			entries[c] = e
		}
		return e
	}

	for _, m := range matches {
		home, away := entry(m.Home), entry(m.Away)
		if m.Result == nil {
			continue
		}
		hg, ag := m.Result.Home, m.Result.Away

		home.Played++
		away.Played++
		home.GoalsFor += hg
		home.GoalsAgainst += ag
		away.GoalsFor += ag
		away.GoalsAgainst += hg

		switch {
		case hg > ag:
			home.Wins++
			away.Losses++
			home.Points += 3
		case hg < ag:
			away.Wins++
			home.Losses++
			away.Points += 3
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	table := make([]TableEntry, 0, len(entries))
	for _, e := range entries {
		e.GoalDiff = e.GoalsFor - e.GoalsAgainst
		table = append(table, *e)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.Club < b.Club
	})
	return table
}

// WriteTable prints the table in fixed-width columns.
func WriteTable(w io.Writer, label string, table []TableEntry) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-16s %2s %2s %2s %2s %3s %3s %3s %3s\n",
		"Club", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"); err != nil {
		return err
	}
	for _, e := range table {
		if _, err := fmt.Fprintf(w, "%-16s %2d %2d %2d %2d %3d %3d %3d %3d\n",
			e.Club,
			e.Played,
			e.Wins,
			e.Draws,
			e.Losses,
			e.GoalsFor,
			e.GoalsAgainst,
			e.GoalDiff,
			e.Points,
		); err != nil {
			return err
		}
	}
	return nil
}
