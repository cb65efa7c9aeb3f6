package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/GoCodeAlone/modhook"
)

// NewQueryCommand creates the query command, which prints the descriptor
// the plugin would hand to the host.
func NewQueryCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "query [yaml|json|toml]",
		Short:     "Print the plugin's capability descriptor",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"yaml", "json", "toml"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "yaml"
			if len(args) == 1 {
				format = args[0]
			}
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			plugin, err := modhook.NewPlugin(cfg)
			if err != nil {
				return err
			}
			descriptor, verr := plugin.Version()
			if err := writeDescriptor(cmd.OutOrStdout(), descriptor, format); err != nil {
				return err
			}
			if verr != nil {
				return fmt.Errorf("host would refuse this plugin: %w", verr)
			}
			return nil
		},
	}
	return cmd
}

func writeDescriptor(w io.Writer, d modhook.CapabilityDescriptor, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(d)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "toml":
		return toml.NewEncoder(w).Encode(d)
	default:
		return fmt.Errorf("%w: %s", modhook.ErrUnsupportedFormatType, format)
	}
}
