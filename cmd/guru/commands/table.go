package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aspera-non-spernit/guru/internal/league"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the league table of the played matches",
	RunE:  runTable,
}

var tablePlain bool

func init() {
	tableCmd.Flags().BoolVar(&tablePlain, "plain", false, "print fixed-width text instead of a rendered table")
}

func runTable(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	matches, err := e.loadMatches(cmd.Context())
	if err != nil {
		return err
	}
	table := league.Standings(matches)
	if tablePlain {
		return league.WriteTable(cmd.OutOrStdout(), "Standings", table)
	}

	rows := pterm.TableData{{"#", "Club", "P", "W", "D", "L", "GF", "GA", "GD", "Pts"}}
	for i, t := range table {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(t.Club),
			strconv.Itoa(t.Played),
			strconv.Itoa(t.Wins),
			strconv.Itoa(t.Draws),
			strconv.Itoa(t.Losses),
			strconv.Itoa(t.GoalsFor),
			strconv.Itoa(t.GoalsAgainst),
			strconv.Itoa(t.GoalDiff),
			strconv.Itoa(t.Points),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
