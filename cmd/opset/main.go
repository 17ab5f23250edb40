// Package main provides the opset CLI: operator catalog introspection and
// small forward/backward runs.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/born-ml/opset/internal/catalog"
	"github.com/born-ml/opset/internal/config"
	"github.com/born-ml/opset/internal/tensor"
)

const version = "v0.1.0-dev"

// app carries settings resolved from env and flags to subcommands.
type app struct {
	cfg      config.Config
	device   string
	logLevel string
	metrics  bool
	catalog  *catalog.Catalog
	shutdown func(context.Context) error
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	root := &cobra.Command{
		Use:           "opset",
		Short:         "Elementwise operator catalog with gradient wiring",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", a.cfg.LogLevel.String(), "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.device, "device", a.cfg.Device.String(), "Device operators are resolved for")
	flags.IntVar(&a.cfg.Workers, "workers", a.cfg.Workers, "Worker goroutines per elementwise operator")
	flags.IntVar(&a.cfg.MinChunk, "min-chunk", a.cfg.MinChunk, "Minimum elements per worker range")
	flags.BoolVar(&a.cfg.Parallel, "parallel", a.cfg.Parallel, "Split elementwise work across workers")
	flags.BoolVar(&a.cfg.Trace, "trace", a.cfg.Trace, "Export OpenTelemetry spans to stderr")
	flags.BoolVar(&a.metrics, "metrics", false, "Print operator metrics on exit")

	root.AddCommand(
		newVersionCmd(),
		newListCmd(a),
		newDescribeCmd(a),
		newRunCmd(a),
		newGradcheckCmd(a),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "opset %s\n", version)
		},
	}
}

func (a *app) setup(_ *cobra.Command) error {
	level, err := zerolog.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if a.cfg.Device, err = tensor.ParseDevice(a.device); err != nil {
		return err
	}

	if a.cfg.Trace {
		if a.shutdown, err = initTracer(); err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
	}

	if a.catalog, err = catalog.New(); err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	log.Debug().Int("operators", len(a.catalog.Operators.Schemas())).Msg("catalog ready")
	return nil
}

func (a *app) teardown(cmd *cobra.Command) error {
	if a.metrics {
		if err := printMetrics(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.shutdown(ctx)
	}
	return nil
}
