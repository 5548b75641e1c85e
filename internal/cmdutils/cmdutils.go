// Package cmdutils holds what the github-connect subcommands share: loading
// the configuration and preparing the process before a subcommand runs.
package cmdutils

import (
	"context"
	"fmt"
	"log/slog"
	"syscall"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/openkcm/common-sdk/pkg/health"
	"github.com/openkcm/common-sdk/pkg/logger"
	"github.com/openkcm/common-sdk/pkg/otlp"
	"github.com/openkcm/common-sdk/pkg/status"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	slogctx "github.com/veqryn/slog-context"

	"github.com/seedora/github-connect/internal/config"
)

const (
	healthStatusTimeout = 5 * time.Second
)

// configPaths are searched in order for config.yaml.
var configPaths = []string{
	"/etc/github-connect",
	"$HOME/.github-connect",
	".",
}

// BusinessFunc is the work of a subcommand once the process is prepared.
type BusinessFunc func(context.Context, *config.Config) error

// Runner prepares the process for a subcommand and then runs its BusinessFunc.
type Runner func(context.Context, BusinessFunc, *config.Config) error

// mode is what a subcommand needs besides the logger. The api-server is long
// lived, traced and probed; connect is a short interactive job.
type mode struct {
	name         string
	telemetry    bool
	statusServer bool
}

var (
	serviceMode = mode{name: "api-server", telemetry: true, statusServer: true}
	jobMode     = mode{name: "connect"}
)

// CobraCommand builds a subcommand that loads config.yaml and hands it to
// runner together with businessFunc.
func CobraCommand(use, short, long, buildInfo string, runner Runner, businessFunc BusinessFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(buildInfo)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if err := runner(cmd.Context(), businessFunc, cfg); err != nil {
				return fmt.Errorf("running %s: %w", use, err)
			}

			return nil
		},
	}
}

// RunAsService runs the exchange backend with telemetry and a status server.
func RunAsService(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
	return serviceMode.run(ctx, fn, cfg)
}

// RunAsJob runs a handshake with the logger only.
func RunAsJob(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
	return jobMode.run(ctx, fn, cfg)
}

func (m mode) run(ctx context.Context, fn BusinessFunc, cfg *config.Config) error {
	if err := logger.InitAsDefault(cfg.Logger, cfg.Application); err != nil {
		return oops.In(m.name).Wrapf(err, "Failed to initialise the logger")
	}

	ctx = slogctx.With(ctx, "command", m.name)
	slogctx.Debug(ctx, "Starting github-connect", slog.String("application", cfg.Application.Name))

	if m.telemetry {
		if err := otlp.Init(ctx, &cfg.Application, &cfg.Telemetry, &cfg.Logger); err != nil {
			return oops.In(m.name).Wrapf(err, "Failed to initialise telemetry")
		}
	}

	if m.statusServer {
		go m.serveStatus(ctx, cfg)
	}

	if err := fn(ctx, cfg); err != nil {
		return oops.In(m.name).Wrapf(err, "Failed to run %s", m.name)
	}

	return nil
}

// serveStatus stops the process when the status server fails.
func (m mode) serveStatus(ctx context.Context, cfg *config.Config) {
	if err := startStatusServer(ctx, cfg); err != nil {
		slogctx.Error(ctx, "Status server failed", "error", err)
		_ = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	}
}

func loadConfig(buildInfo string) (*config.Config, error) {
	cfg := &config.Config{}

	if err := commoncfg.LoadConfig(cfg, map[string]any{}, configPaths...); err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if err := commoncfg.UpdateConfigVersion(&cfg.BaseConfig, buildInfo); err != nil {
		return nil, fmt.Errorf("updating the build version: %w", err)
	}

	return cfg, nil
}

func statusListener(ctx context.Context, state health.State) {
	attrs := make([]any, 0, 2+2*len(state.CheckState))
	attrs = append(attrs, "status", state.Status)

	for name, check := range state.CheckState {
		attrs = append(attrs, name, check.Status)
	}

	slogctx.Info(ctx, "Exchange backend readiness changed", attrs...)
}

// startStatusServer serves liveness and readiness. The exchange backend keeps
// no connections of its own, so readiness only tracks the process.
func startStatusServer(ctx context.Context, cfg *config.Config) error {
	liveness := status.WithLiveness(
		health.NewHandler(
			health.NewChecker(health.WithDisabledAutostart()),
		),
	)

	readiness := status.WithReadiness(
		health.NewHandler(
			health.NewChecker(
				health.WithDisabledAutostart(),
				health.WithTimeout(healthStatusTimeout),
				health.WithStatusListener(statusListener),
			),
		),
	)

	if err := status.Start(ctx, &cfg.BaseConfig, liveness, readiness); err != nil {
		return fmt.Errorf("starting status server: %w", err)
	}

	return nil
}
