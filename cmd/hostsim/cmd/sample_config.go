package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoCodeAlone/modhook"
)

// NewSampleConfigCommand creates the sample-config command
func NewSampleConfigCommand() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "sample-config",
		Short: "Write a sample plugin configuration",
		Long: `Write a configuration file with every option at its default value.
Supported formats are YAML, JSON and TOML. Without --output the sample is
printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				if err := modhook.SaveSampleConfig(format, output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s sample configuration to %s\n", format, output)
				return nil
			}
			data, err := modhook.GenerateSampleConfig(format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format (yaml, json, toml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write")

	return cmd
}
