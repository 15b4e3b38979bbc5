package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aspera-non-spernit/guru/internal/guru"
	"github.com/aspera-non-spernit/guru/internal/stats"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Train, test and predict",
	Long:  `Replay the matches, train the network on the first share of the played
matches, score it on both halves and predict every open fixture.`,
	RunE: runRun,
}

var (
	runExplain  bool
	runMarkdown bool
)

func init() {
	addTrainingFlags(runCmd)
	runCmd.Flags().Bool("train", true, "train the network before testing")
	runCmd.Flags().Bool("save-model", false, "save the network after the run")
	runCmd.Flags().BoolVar(&runExplain, "explain", false, "print the feature columns")
	runCmd.Flags().BoolVar(&runMarkdown, "markdown", false, "print the forecast as a markdown table")
}

func runRun(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	matches, err := e.loadMatches(cmd.Context())
	if err != nil {
		return err
	}
	p, err := e.pipeline(nil)
	if err != nil {
		return err
	}
	out, err := p.Run(cmd.Context(), matches)
	if err != nil {
		return err
	}

	pterm.DefaultHeader.Println("guru")
	pterm.Info.Printf("%d game days, %d clubs, %d inputs, layers %v\n",
		stats.GameDays(matches), out.Registry.Len(), len(out.Columns), out.Network.Layers())
	if out.Training != nil {
		pterm.Info.Printf("trained %d epochs, mse %.6f\n", out.Training.Epochs, out.Training.MSE)
	}
	if runExplain {
		rows := pterm.TableData{{"#", "Feature"}}
		for i, c := range out.Columns {
			rows = append(rows, []string{strconv.Itoa(i), c})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
			return err
		}
	}

	if err := renderStats(out.Seen, out.Unseen); err != nil {
		return err
	}

	if len(out.Forecast) > 0 {
		pterm.DefaultSection.Println("Forecast")
		if runMarkdown {
			fmt.Fprint(cmd.OutOrStdout(), out.Forecast.Markdown())
		} else if err := renderPredictions(out.Forecast); err != nil {
			return err
		}
	}

	if e.cfg.Model.Save {
		if err := out.Network.Save(e.cfg.Model.Path); err != nil {
			return err
		}
		pterm.Success.Printf("saved network to %s\n", e.cfg.Model.Path)
	}
	return nil
}

func renderStats(seen, unseen *guru.Report) error {
	rows := pterm.TableData{{"Set", "Measure", "Tested", "Positive", "Negative", "Correct"}}
	for _, set := range []struct {
		name string
		rep  *guru.Report
	}{{"seen", seen}, {"unseen", unseen}} {
		if set.rep == nil {
			continue
		}
		rows = append(rows, statsRow(set.name, "result", set.rep.Result))
		rows = append(rows, statsRow(set.name, "winner", set.rep.Winner))
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func statsRow(set, measure string, s guru.NetworkStats) []string {
	return []string{
		set,
		measure,
		strconv.Itoa(s.Tested),
		strconv.Itoa(s.Positive),
		strconv.Itoa(s.Negative),
		strconv.Itoa(s.Correct()) + "%",
	}
}

func renderPredictions(ps guru.Predictions) error {
	rows := pterm.TableData{{"Date", "Home", "Predicted result", "Away"}}
	for _, p := range ps {
		rows = append(rows, []string{
			p.Date.Format("2006-01-02"),
			string(p.Home),
			fmt.Sprintf("%d : %d", p.Predicted.Home, p.Predicted.Away),
			string(p.Away),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
