package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/store"
)

var fixturesCmd = &cobra.Command{
	Use:     "fixtures",
	Short:   "Generate a double round-robin schedule",
	Example: `  guru fixtures --clubs Ajax,Benfica,Celtic,Dynamo --start 2024-08-10T15:00:00Z --out season.yaml`,
	RunE:    runFixtures,
}

var (
	fixturesClubs []string
	fixturesStart string
	fixturesEvery time.Duration
	fixturesOut   string
)

func init() {
	fixturesCmd.Flags().StringSliceVar(&fixturesClubs, "clubs", nil, "participating clubs")
	fixturesCmd.Flags().StringVar(&fixturesStart, "start", "", "kickoff of the first round (RFC 3339)")
	fixturesCmd.Flags().DurationVar(&fixturesEvery, "every", 7*24*time.Hour, "time between rounds")
	fixturesCmd.Flags().StringVar(&fixturesOut, "out", "", "write the schedule to this .json or .yaml file")
	_ = fixturesCmd.MarkFlagRequired("clubs")
	_ = fixturesCmd.MarkFlagRequired("start")
}

func runFixtures(cmd *cobra.Command, args []string) error {
	if len(fixturesClubs) < 2 {
		return errors.WithHint(errors.New("need at least two clubs"), "pass --clubs A,B[,C...]")
	}
	first, err := time.Parse(time.RFC3339, fixturesStart)
	if err != nil {
		return errors.Wrapf(err, "parsing --start %q", fixturesStart)
	}
	clubs := make([]league.Club, len(fixturesClubs))
	for i, c := range fixturesClubs {
		clubs[i] = league.Club(c)
	}
	schedule := league.RoundRobin(clubs, first, fixturesEvery)

	if fixturesOut != "" {
		if err := store.SaveFile(fixturesOut, schedule); err != nil {
			return err
		}
		pterm.Success.Printf("wrote %d fixtures to %s\n", len(schedule), fixturesOut)
		return nil
	}
	for _, m := range schedule {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", m.Date.Format(time.RFC3339), m.ScoreLine())
	}
	return nil
}
