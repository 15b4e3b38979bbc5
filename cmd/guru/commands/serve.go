package commands

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aspera-non-spernit/guru/internal/api"
	"github.com/aspera-non-spernit/guru/internal/errors"
	"github.com/aspera-non-spernit/guru/internal/metrics"
	"github.com/aspera-non-spernit/guru/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pipeline once and serve its results over HTTP",
	RunE:  runServe,
}

func init() {
	addTrainingFlags(serveCmd)
	serveCmd.Flags().Bool("train", true, "train the network before serving")
	serveCmd.Flags().String("listen", "", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.log.Sync() //nolint:errcheck

	ctx := cmd.Context()
	matches, err := e.loadMatches(ctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	p, err := e.pipeline(metrics.New(reg))
	if err != nil {
		return err
	}
	out, err := p.Run(ctx, matches)
	if err != nil {
		return err
	}

	var source api.MatchSource
	if e.cfg.Database != "" {
		s, err := store.Open(ctx, e.cfg.Database)
		if err != nil {
			return err
		}
		defer s.Close()
		source = s
	}
	h := api.NewHandler(api.State{
		Registry:    out.Registry,
		Matches:     matches,
		Predictions: out.Forecast,
	}, source, e.log)

	srv := &http.Server{
		Addr:              e.cfg.Listen,
		Handler:           api.NewRouter(h, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		e.log.Infow("listening", "addr", e.cfg.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.log.Infow("shutting down")
	if err := srv.Shutdown(shutdown); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}
