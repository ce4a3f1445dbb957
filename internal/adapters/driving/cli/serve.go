package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kotae/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/kotae/internal/core/ports/driving"
	"github.com/custodia-labs/kotae/internal/core/services"
	"github.com/custodia-labs/kotae/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the search HTTP API",
	Long: `Starts the HTTP API used by the browser widget:

  GET  /api/v1/search?q=keywords&limit=10
  GET  /api/v1/status
  POST /api/v1/reload
  GET  /healthz
  GET  /metrics

The dataset loads in the background; searches answer 503 until it is ready.
With reload.interval or reload.watch set, the dataset reloads automatically.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from http.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := runtimeFor(cmd)
	if err != nil {
		return err
	}

	addr := rt.Settings.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	cfg := httpapi.Config{
		Addr:        addr,
		CORSOrigins: rt.Settings.HTTP.CORSOrigins,
		Debug:       verbose,
	}
	if rt.Registry != nil {
		cfg.Gatherer = rt.Registry
	}
	server, err := httpapi.NewServer(&httpapi.Ports{Search: rt.Search, Dataset: rt.Dataset}, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt.Start(ctx)
	if reloader := newReloader(rt); reloader != nil {
		stop := startReloader(ctx, reloader)
		defer stop()
	}

	cmd.Printf("kotae API listening on %s\n", displayAddr(addr))
	return server.Run(ctx)
}

// newReloader returns a reloader for the configured interval and watch
// settings, or nil when neither is enabled.
func newReloader(rt *Runtime) *services.Reloader {
	reload := rt.Settings.Reload
	watch := reload.Watch && rt.Watcher != nil
	if reload.Interval <= 0 && !watch {
		return nil
	}
	r := services.NewReloader(rt.Dataset, reload.Interval)
	if watch {
		r.SetWatcher(rt.Watcher, rt.Settings.Source.Locator)
	}
	return r
}

// startReloader runs r in the background. The returned stop cancels the loop
// and returns once it and any in-flight reload have finished.
func startReloader(ctx context.Context, r driving.Reloader) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("reloader stopped: %v", err)
		}
	}()
	return func() {
		cancel()
		if err := r.Stop(); err != nil {
			logger.Warn("reloader stop: %v", err)
		}
		<-done
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
