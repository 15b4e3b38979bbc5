package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/store"
)

var importCmd = &cobra.Command{
	Use:     "import",
	Short:   "Copy a match file into the database",
	Example: `  guru import --data matches.json --database sqlite://guru.db
  guru import --data matches.yaml --database postgres://guru@localhost/guru --replace`,
	RunE: runImport,
}

var importReplace bool

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "delete every stored match first")
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	if e.cfg.Database == "" {
		return errors.WithHint(errors.New("no database configured"), "pass --database or set GURU_DATABASE")
	}
	matches, err := store.LoadFile(e.cfg.Data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := store.Open(ctx, e.cfg.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		return err
	}
	if importReplace {
		if err := s.DeleteAllMatches(ctx); err != nil {
			return err
		}
	}
	if err := s.SaveMatches(ctx, matches); err != nil {
		return err
	}
	e.log.Infow("imported matches", "file", e.cfg.Data, "matches", len(matches), "replace", importReplace)
	pterm.Success.Printf("imported %d matches\n", len(matches))
	return nil
}
