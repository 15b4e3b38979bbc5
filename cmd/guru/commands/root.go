// Package commands holds the guru CLI.
package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/aspera-non-spernit/guru/internal/config"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/features"
	"github.com/aspera-non-spernit/guru/internal/guru"
	"github.com/aspera-non-spernit/guru/internal/league"
	"github.com/aspera-non-spernit/guru/internal/logger"
	"github.com/aspera-non-spernit/guru/internal/metrics"
	"github.com/aspera-non-spernit/guru/internal/neural"
	"github.com/aspera-non-spernit/guru/internal/store"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "guru",
	Short: "Predict match results from each club's scoring history",
	Long:  `guru - Predict match results from each club's scoring history.

guru replays every match in date order, derives features from what each
club had done up to that day, trains a feed-forward network on the played
matches and predicts the open fixtures.

Examples:
  guru run --data matches.json            # Train, test and predict
  guru run --train=false --load-model     # Predict with a saved network
  guru crossval --folds 5                 # k-fold cross-validation
  guru table --data matches.yaml          # Print the league table
  guru import --data matches.json --database sqlite://guru.db
  guru serve --listen :8080               # Serve standings and predictions`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("data", "", "match file (.json, .yaml, .yml)")
	rootCmd.PersistentFlags().String("database", "", "postgres:// or sqlite:// DSN to read matches from")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(crossvalCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		return err
	}
	return nil
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"log-json":     "log.json",
	"log-level":    "log.level",
	"save-model":   "model.save",
	"load-model":   "model.load",
	"model-path":   "model.path",
	"log-interval": "log_interval",
	"max-epochs":   "max_epochs",
	"away-factor":  "away_factor",
	"sort-clubs":   "sort_clubs",
}

// env is what every command starts from.
type env struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

func setup(cmd *cobra.Command) (*env, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return &env{cfg: cfg, log: log}, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		err = v.BindPFlag(key, f)
	})
	return err
}

// loadMatches reads from the database when one is configured, otherwise
// from the match file.
func (e *env) loadMatches(ctx context.Context) ([]league.Match, error) {
	if e.cfg.Database != "" {
		s, err := store.Open(ctx, e.cfg.Database)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		matches, err := s.LoadMatches(ctx)
		if err != nil {
			return nil, err
		}
		e.log.Infow("loaded matches", "database", e.cfg.Database, "matches", len(matches))
		return matches, nil
	}
	matches, err := store.LoadFile(e.cfg.Data)
	if err != nil {
		return nil, err
	}
	e.log.Infow("loaded matches", "file", e.cfg.Data, "matches", len(matches))
	return matches, nil
}

func (e *env) pipeline(m *metrics.Metrics) (*guru.Pipeline, error) {
	opts := guru.Options{
		Split:      e.cfg.Split,
		Hidden:     e.cfg.Hidden,
		Seed:       e.cfg.Seed,
		SortClubs:  e.cfg.SortClubs,
		AwayFactor: e.cfg.AwayFactor,
		Generator:  features.Kind(e.cfg.Generator),
		Train:      e.cfg.Train,
		Params: guru.Params{
			Momentum:    e.cfg.Momentum,
			Rate:        e.cfg.Rate,
			HaltMSE:     e.cfg.Error,
			LogInterval: e.cfg.LogInterval,
			MaxEpochs:   e.cfg.MaxEpochs,
		},
		Logger:  e.log,
		Metrics: m,
	}
	if e.cfg.Model.Load {
		net, err := neural.Load(e.cfg.Model.Path)
		if err != nil {
			return nil, err
		}
		opts.Model = net
	}
	return guru.NewPipeline(opts), nil
}

func addTrainingFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("error", 0, "training halts at this mean squared error")
	f.Float64("split", 0, "share of played matches used for training")
	f.Float64("momentum", 0, "training momentum in [0, 1]")
	f.Float64("rate", 0, "learning rate in [0, 1]")
	f.Int("log-interval", 0, "log training progress every n epochs")
	f.Int("max-epochs", 0, "upper bound on training epochs")
	f.IntSlice("hidden", nil, "hidden layer sizes")
	f.Uint64("seed", 0, "seed for weight initialisation and fold assignment")
	f.Float64("away-factor", 0, "weight of the away club in the one-hot block")
	f.Bool("sort-clubs", true, "index clubs in lexical order")
	f.String("generator", "", "feature generator: default or scan")
	f.Bool("load-model", false, "start from the saved network")
	f.String("model-path", "", "network file")
}
