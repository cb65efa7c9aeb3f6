package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/modhook"
	"github.com/GoCodeAlone/modhook/feeders"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// PrintVersion prints version information
func PrintVersion() string {
	return fmt.Sprintf("hostsim v%s (commit: %s, built on: %s)", Version, Commit, Date)
}

// NewRootCommand creates the root command for the hostsim application
func NewRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "hostsim",
		Short: "Host simulator - drive a modhook plugin without a game",
		Long: `Host simulator loads a modhook plugin into an in-memory host.
It can print the plugin's capability descriptor, replay a scenario of
lifecycle messages and gameplay events, and write sample configuration.`,
		Version:      PrintVersion(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Plugin configuration file (yaml, toml or json)")

	cmd.AddCommand(NewQueryCommand(&configPath))
	cmd.AddCommand(NewRunCommand(&configPath))
	cmd.AddCommand(NewSampleConfigCommand())

	return cmd
}

// keyFeeder feeds one top-level key of a YAML file, so a scenario can
// carry its own plugin section.
type keyFeeder struct {
	file feeders.YamlFeeder
	key  string
}

func (k keyFeeder) Feed(target any) error {
	return k.file.FeedKey(k.key, target)
}

// fileFeeder picks a feeder by file extension.
func fileFeeder(path string) (modhook.Feeder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return feeders.NewYamlFeeder(path), nil
	case ".toml":
		return feeders.NewTomlFeeder(path), nil
	case ".json":
		return feeders.NewJSONFeeder(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", modhook.ErrUnsupportedFormatType, filepath.Ext(path))
	}
}

// loadConfig layers the config file (if any), extra feeders and the
// environment, in that order.
func loadConfig(configPath string, extra ...modhook.Feeder) (*modhook.Config, error) {
	var list []modhook.Feeder
	if configPath != "" {
		f, err := fileFeeder(configPath)
		if err != nil {
			return nil, err
		}
		list = append(list, f)
	}
	list = append(list, extra...)
	list = append(list, feeders.NewEnvFeeder())
	return modhook.LoadConfig(list...)
}
