package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/turing/internal/cli"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves the registered machines over HTTP: listing, descriptions, Mermaid
graphs, runs (persisted to the configured store), run events over SSE and
Prometheus metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc := loadServices(cmd, cli.WithMetrics(nil))
		defer svc.Close()

		cfg := svc.Config.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}
		logger := svc.Logger

		handler := httpAdapter.NewHandler(svc.Engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMaxLimits(domain.Limits{Time: cfg.MaxTime, Space: cfg.MaxSpace}),
			httpAdapter.WithMetrics(cfg.MetricsPath, promhttp.Handler()),
			httpAdapter.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
			httpAdapter.WithRunnerOptions(
				runner.WithStore(svc.Store),
				runner.WithLocker(svc.Locker),
				runner.WithCheckpointEvery(svc.Config.CheckpointEvery),
			),
		)

		srv := &http.Server{
			Addr:    cfg.Addr,
			Handler: handler,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			logger.Info("Starting Turing Server", "addr", srv.Addr, "store", svc.Config.Store.Kind)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			logger.Info("Start shutdown")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
				return srv.Close()
			}
			logger.Info("Turing Server stopped gracefully")
			return nil
		})

		if err := g.Wait(); err != nil {
			die(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides server.addr)")
}
