package cmd

import (
	"fmt"

	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/tui/theme"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate kakapo configuration",
		Long: `Inspect and validate kakapo configuration.

Without a subcommand the merged configuration is printed. The global file
(~/.config/kakapo/kakapo.yml) is overlaid by the nearest project kakapo.yml
or kakapo.toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, cfg)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}
	cmd.AddCommand(newConfigSchemaCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of kakapo.yml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a config file, or the merged configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg *config.Config
				err error
			)
			if len(args) == 1 {
				cfg, err = config.Load(args[0])
			} else {
				cfg, err = cli.LoadConfig(cmd)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s storage=%s catalog=%s\n",
				theme.DefaultTheme.Success.Render("Configuration is valid"), cfg.Storage.Driver, cfg.Catalog.URL)
			return nil
		},
	}
}
