package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/metrics"
	"github.com/matzehuels/forcegraph/pkg/scene"
	"github.com/matzehuels/forcegraph/pkg/visualization"
)

// metricsShutdownTimeout bounds how long the metrics server drains.
const metricsShutdownTimeout = 5 * time.Second

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	scene       sceneFlags
	metricsAddr string
	logFile     string
}

// viewCommand creates the view command, which runs the simulation live in
// the terminal.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [dataset]",
		Short: "Explore the graph interactively in the terminal",
		Long: `View loads a dataset and animates the force simulation in the terminal.
Drag nodes with the mouse, zoom with the wheel or +/- and pan with the arrow keys.
Press ? for every key binding.`,
		Example: `  forcegraph view movies.json
  forcegraph view movies.json --year 2000 --operator ">=" --limit 50
  forcegraph view movies.json --metrics-addr :9090`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: datasetCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.scene.resolve(cmd, c.configPath)
			if err != nil {
				return err
			}
			p := opts.scene.options(s)
			return c.runView(cmd.Context(), args[0], p.Query, p.Visual, opts)
		},
	}

	opts.scene.register(cmd)
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while viewing")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file (the terminal is taken by the view)")

	return cmd
}

// runView loads and filters the dataset, then hands the terminal to the
// interactive model until the user quits or ctx is cancelled.
func (c *CLI) runView(ctx context.Context, path string, q *graph.Query, visual scene.Options, opts viewOpts) error {
	logger, closeLog, err := c.viewLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	runner.Logger = logger
	data, err := runner.Load(ctx, path)
	if err != nil {
		return err
	}
	if q != nil {
		data = graph.Filter(data, *q)
	}

	if opts.metricsAddr != "" {
		reg := metrics.DefaultRegistry()
		reg.Register()
		srv := startMetricsServer(opts.metricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", "error", err)
			}
		}()
	}

	m, err := newViewModel(filepath.Base(path), data, visual, visualization.WithLogger(logger))
	if err != nil {
		return err
	}

	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("view: %w", err)
	}
	return nil
}

// viewLogger returns a logger that stays off the terminal: a file when one
// is given, otherwise nothing.
func (c *CLI) viewLogger(path string) (*log.Logger, func(), error) {
	if path == "" {
		return newLogger(io.Discard, c.Logger.GetLevel()), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(f, c.Logger.GetLevel()), func() { _ = f.Close() }, nil
}

// metricsRouter exposes the registry and a liveness check.
func metricsRouter(reg *metrics.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(reg.Middleware)
	r.Method(http.MethodGet, "/metrics", reg.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// startMetricsServer serves metricsRouter on addr in the background.
func startMetricsServer(addr string, reg *metrics.Registry, logger *log.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metricsRouter(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	return srv
}
