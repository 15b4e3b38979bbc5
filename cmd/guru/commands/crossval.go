package commands

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var crossvalCmd = &cobra.Command{
	Use:   "crossval",
	Short: "Cross-validate the network over k random folds",
	RunE:  runCrossval,
}

func init() {
	addTrainingFlags(crossvalCmd)
	crossvalCmd.Flags().Int("folds", 0, "number of folds")
}

func runCrossval(cmd *cobra.Command, args []string) error {
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
	rep, err := p.CrossValidate(cmd.Context(), matches, e.cfg.Folds)
	if err != nil {
		return err
	}

	rows := pterm.TableData{{"Fold", "Train", "Test", "Epochs", "MSE", "Result", "Winner"}}
	for _, f := range rep.Folds {
		rows = append(rows, []string{
			strconv.Itoa(f.Fold),
			strconv.Itoa(f.Train),
			strconv.Itoa(f.Test),
			strconv.Itoa(f.Training.Epochs),
			fmt.Sprintf("%.6f", f.Training.MSE),
			strconv.Itoa(f.Report.Result.Correct()) + "%",
			strconv.Itoa(f.Report.Winner.Correct()) + "%",
		})
	}
	pterm.DefaultSection.Printf("%d-fold cross-validation\n", len(rep.Folds))
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	pterm.Info.Println("result: " + rep.Result.String())
	pterm.Info.Println("winner: " + rep.Winner.String())
	return nil
}
