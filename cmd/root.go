// Package cmd holds the kakapo command tree.
package cmd

import (
	"context"
	"encoding/json"
	"io"

	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the kakapo command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand("kakapo", "Ambient sound mixer")
	root.Long = `Kakapo keeps a collection of ambient sounds: fetch the catalog, toggle
playback, mix volumes and follow downloads. Commands talk to the kakapo daemon
when it is running and work on the local cache otherwise.

Examples:
  # Fetch the sound catalog
  kakapo init

  # Toggle the wind and turn it down
  kakapo play wind
  kakapo volume wind 0.25

  # Open the interactive mixer
  kakapo mixer`
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(
		NewInitCmd(),
		NewListCmd(),
		NewPlayCmd(),
		NewVolumeCmd(),
		NewEditCmd(),
		NewRemoveCmd(),
		NewResetCmd(),
		NewDownloadsCmd(),
		NewFavsCmd(),
		NewSwatchesCmd(),
		NewMixerCmd(),
		NewServeCmd(),
		NewStopCmd(),
		NewStatusCmd(),
		NewLogsCmd(),
		NewConfigCmd(),
		cli.NewVersionCommand("kakapo", version.GetInfo()),
	)
	cli.ApplyStyledHelpRecursive(root)
	return root
}

// newClient is swapped in tests.
var newClient = func(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (daemon.Client, error) {
	return daemon.New(ctx, cfg, cli.GetLogger(cmd))
}

// withClient loads the config and runs fn with a daemon or local client.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, client daemon.Client) error) error {
	cfg, err := cli.LoadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := newClient(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
