package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hodaniel/graphwalker"
	"github.com/hodaniel/graphwalker/internal/cli"
	httpAdapter "github.com/hodaniel/graphwalker/pkg/adapters/http"
	"github.com/hodaniel/graphwalker/pkg/observability"
	"github.com/hodaniel/graphwalker/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the online walking HTTP server",
	Long: `Serves stored models over a JSON API. Test drivers create a session and
request steps one at a time with has-next and next.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		target, _ := cmd.Flags().GetString("store")
		withMetrics, _ := cmd.Flags().GetBool("metrics")

		store, err := cli.OpenStore(target)
		if err != nil {
			return err
		}

		hooks := observability.Logging(logger)
		var handlerOpts []httpAdapter.Option
		if withMetrics {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			metrics := observability.NewMetrics(reg)
			hooks = hooks.Merge(metrics.Hooks())
			handlerOpts = append(handlerOpts, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
		}
		handlerOpts = append(handlerOpts, httpAdapter.WithLogger(logger))

		mgr := session.NewManager(store,
			session.WithLogger(logger),
			session.WithLifecycleHooks(hooks),
			session.WithWalkerOptions(graphwalker.WithLogger(logger)),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(mgr, handlerOpts...),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting GraphWalker Server", "address", srv.Addr, "store", target)
			fmt.Fprintf(cmd.OutOrStdout(), "Starting GraphWalker Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "GraphWalker Server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8887", "Port to listen on")
	serveCmd.Flags().String("store", "", "Model catalog: a directory (default .graphwalker/models) or redis://host:port/db")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
}
