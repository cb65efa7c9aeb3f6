package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/modhook"
	"github.com/GoCodeAlone/modhook/feeders"
	"github.com/GoCodeAlone/modhook/hosttest"
	"github.com/GoCodeAlone/modhook/internal/telemetry"
	"github.com/GoCodeAlone/modhook/script"
)

// RunOptions control how a scenario is replayed.
type RunOptions struct {
	ConfigPath string
	// UseDiagnostics logs through the configured diagnostics file instead
	// of the command output.
	UseDiagnostics bool
	// NoMessaging and RejectListener simulate the two fatal load failures.
	NoMessaging    bool
	RejectListener bool
}

// RunResult summarises a replayed scenario.
type RunResult struct {
	Loaded     bool
	Steps      int
	HitSinks   int
	EquipSinks int
}

// NewRunCommand creates the run command
func NewRunCommand(configPath *string) *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Load the plugin into a simulated host and replay a scenario",
		Long: `Load the plugin into an in-memory host, then deliver the scenario's
lifecycle messages and gameplay events in order. A "plugin" section in the
scenario file overrides the configuration file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ConfigPath = *configPath

			shutdown, err := telemetry.Setup(cmd.Context(), "hostsim")
			if err != nil {
				return fmt.Errorf("setup tracing: %w", err)
			}
			defer func() { _ = shutdown(context.Background()) }()

			result, err := RunScenario(args[0], opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario complete: %d steps, hit sinks %d, equip sinks %d\n",
				result.Steps, result.HitSinks, result.EquipSinks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.UseDiagnostics, "diagnostics", false, "Log to the configured diagnostics file instead of stdout")
	cmd.Flags().BoolVar(&opts.NoMessaging, "no-messaging", false, "Simulate a host without a messaging interface")
	cmd.Flags().BoolVar(&opts.RejectListener, "reject-listener", false, "Simulate a host that rejects the lifecycle listener")

	return cmd
}

// RunScenario loads the plugin described by the scenario into a simulated
// host and plays every step. Logs go to out unless opts.UseDiagnostics.
func RunScenario(path string, opts RunOptions, out io.Writer) (RunResult, error) {
	var result RunResult

	scenario, err := LoadScenario(path)
	if err != nil {
		return result, err
	}
	cfg, err := loadConfig(opts.ConfigPath, keyFeeder{file: feeders.NewYamlFeeder(path), key: "plugin"})
	if err != nil {
		return result, err
	}

	// The script engine and watcher share the plugin's logger.
	var logger modhook.Logger
	if opts.UseDiagnostics {
		diag, err := modhook.NewDiagnostics(cfg.Name, cfg.Log)
		if err != nil {
			return result, err
		}
		defer diag.Close()
		logger = diag.Logger()
	} else {
		level, err := modhook.ParseLogLevel(cfg.Log.Level)
		if err != nil {
			return result, err
		}
		logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	}
	pluginOpts := []modhook.Option{modhook.WithLogger(logger)}

	if cfg.Scripts.Path != "" {
		engine, err := script.NewEngine(cfg.Scripts.Path, logger)
		if err != nil {
			return result, err
		}
		scriptOpts, err := script.Options(engine, cfg.Scripts.Watch, logger)
		if err != nil {
			return result, err
		}
		pluginOpts = append(pluginOpts, scriptOpts...)
	}

	var hostOpts []hosttest.Option
	if opts.NoMessaging {
		hostOpts = append(hostOpts, hosttest.WithoutMessaging())
	}
	if opts.RejectListener {
		hostOpts = append(hostOpts, hosttest.RejectListener())
	}
	host, err := scenario.NewHost(hostOpts...)
	if err != nil {
		return result, err
	}

	plugin, err := modhook.NewPlugin(cfg, pluginOpts...)
	if err != nil {
		return result, err
	}
	defer plugin.Close()

	plugin.Query()
	if !plugin.Load(host) {
		return result, fmt.Errorf("plugin %s failed to load", cfg.Name)
	}
	result.Loaded = true

	result.Steps, err = scenario.Play(host)
	result.HitSinks = host.Events.Hit.SinkCount()
	result.EquipSinks = host.Events.Equip.SinkCount()
	return result, err
}
