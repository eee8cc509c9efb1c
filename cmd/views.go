package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/swatches"
	"github.com/grovetools/kakapo/pkg/view"
	"github.com/grovetools/kakapo/tui/mixer"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// NewDownloadsCmd creates the `downloads` command.
func NewDownloadsCmd() *cobra.Command {
	var watch, html bool
	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "Show sounds that are still downloading",
		Long: `Show sounds that are still downloading.

Examples:
  # Follow progress until every sound is available
  kakapo downloads --watch

  # Print the download list as HTML
  kakapo downloads --html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client daemon.Client) error {
				out := cmd.OutOrStdout()
				snap, err := client.Sounds(ctx)
				if err != nil {
					return err
				}
				list := view.DownloadList(snap)

				switch {
				case cli.GetOptions(cmd).JSONOutput:
					return writeJSON(out, list)
				case html:
					markup, err := list.HTML()
					if err != nil {
						return err
					}
					fmt.Fprintln(out, markup)
					return nil
				case !watch:
					fmt.Fprintln(out, view.Render(list, view.TerminalWidth()))
					return nil
				}

				reporter := cli.NewProgressReporter(out, view.TerminalWidth())
				reporter.Redraw = isatty.IsTerminal(os.Stdout.Fd())
				if !reporter.Update(snap) {
					return nil
				}
				events, err := client.Stream(ctx)
				if err != nil {
					return err
				}
				for range events {
					snap, err := client.Sounds(ctx)
					if err != nil {
						return err
					}
					if !reporter.Update(snap) {
						reporter.Done()
						return nil
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep updating until all downloads finish")
	cmd.Flags().BoolVar(&html, "html", false, "Print the view as HTML")
	return cmd
}

// NewFavsCmd creates the `favs` command, the kakapo favourites panel built
// from the configured catalog.
func NewFavsCmd() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "favs",
		Short: "Show the catalog as the kakapo favourites panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			fetcher, err := daemon.NewFetcher(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			records, err := fetcher.Fetch(ctx)
			if err != nil {
				return err
			}

			panel := view.Kakapo(records)
			out := cmd.OutOrStdout()
			switch {
			case cli.GetOptions(cmd).JSONOutput:
				return writeJSON(out, panel)
			case html:
				markup, err := panel.HTML()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, markup)
			default:
				fmt.Fprintln(out, view.Render(panel, view.TerminalWidth()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Print the panel as HTML")
	return cmd
}

// NewSwatchesCmd creates the `swatches` command.
func NewSwatchesCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "swatches",
		Short: "Print the color swatch palette",
		Long:  "Print the color swatch palette. --mode selects dark or light swatches; the default is all of them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := swatches.Mode(strings.ToLower(mode))
			switch m {
			case swatches.All, swatches.Dark, swatches.Light:
			default:
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown mode %q, want dark or light", mode))
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, swatches.Hex(m))
			}
			colored := swatches.Supported()
			for _, s := range swatches.Swatches(m) {
				label := fmt.Sprintf(" %-8s %s ", s.Name, s.Hex)
				if colored {
					label = s.Style().Render(label)
				}
				fmt.Fprintln(out, label)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Palette subset: dark, light")
	return cmd
}

// NewMixerCmd creates the `mixer` command.
func NewMixerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mixer",
		Short: "Open the interactive mixer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client daemon.Client) error {
				return mixer.Run(ctx, client)
			})
		},
	}
}
