package cmd

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/actions"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/grovetools/kakapo/tui/theme"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the `init` command.
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Fetch the sound catalog and replace the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, actions.InitCommand{})
		},
	}
}

// NewListCmd creates the `list` command.
func NewListCmd() *cobra.Command {
	var playing bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the sounds in the collection",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, client daemon.Client) error {
				snap, err := client.Sounds(ctx)
				if err != nil {
					return err
				}
				list := snap.Sounds
				if playing {
					list = snap.Filter(func(s models.Sound) bool { return s.Playing })
				}
				out := cmd.OutOrStdout()
				if cli.GetOptions(cmd).JSONOutput {
					if list == nil {
						list = []models.Sound{}
					}
					return writeJSON(out, list)
				}
				if len(list) == 0 {
					fmt.Fprintln(out, theme.DefaultTheme.Muted.Render("No sounds. Run 'kakapo init' to fetch the catalog."))
					return nil
				}
				fmt.Fprintln(out, soundTable(list))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&playing, "playing", false, "Only show sounds that are playing")
	return cmd
}

func soundTable(list []models.Sound) string {
	t := theme.DefaultTheme
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border)).
		Headers("ID", "NAME", "SOURCE", "STATE", "VOLUME", "TAGS")
	for _, s := range list {
		state := ""
		switch {
		case !s.Downloaded():
			state = fmt.Sprintf("%s %3.0f%%", theme.IconDownload, s.Progress*100)
		case s.Playing:
			state = theme.IconPlay
		}
		tbl.Row(theme.Tile(s.ID, s.ID), s.Name, string(s.Source), state,
			strconv.FormatFloat(s.Volume, 'f', 2, 64), s.Tags)
	}
	return tbl.Render()
}

// NewPlayCmd creates the `play` command.
func NewPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Toggle playback of a sound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, actions.PlayCommand{ID: args[0]})
		},
	}
}

// NewVolumeCmd creates the `volume` command.
func NewVolumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "volume <id> <0..1>",
		Short: "Set the volume of a sound",
		Long:  "Set the volume of a sound. Values outside 0..1 are clamped, including Inf and -Inf.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("invalid volume %q", args[1]))
			}
			if math.IsNaN(value) {
				return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("invalid volume %q", args[1]))
			}
			return runAction(cmd, actions.VolumeCommand{ID: args[0], Value: value})
		},
	}
}

// NewEditCmd creates the `edit` command.
func NewEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a sound",
		Long: `Change the fields of a sound. Only the flags given are applied.

Examples:
  kakapo edit wind --tags "kakapo wind calm"
  kakapo edit cafe --progress 0.4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := patchFromFlags(cmd)
			if err != nil {
				return err
			}
			return runAction(cmd, actions.EditCommand{ID: args[0], Patch: patch})
		},
	}
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("tags", "", "Space separated tags")
	cmd.Flags().String("file", "", "Audio file or URL")
	cmd.Flags().String("img", "", "Image name or URL")
	cmd.Flags().String("link", "", "Source page link")
	cmd.Flags().Float64("progress", 0, "Download progress between 0 and 1")
	return cmd
}

func patchFromFlags(cmd *cobra.Command) (models.Patch, error) {
	var patch models.Patch
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	patch.Name = str("name")
	patch.Tags = str("tags")
	patch.File = str("file")
	patch.Img = str("img")
	patch.Link = str("link")
	if cmd.Flags().Changed("progress") {
		v, _ := cmd.Flags().GetFloat64("progress")
		patch.Progress = &v
	}
	if patch.Empty() {
		return patch, errors.New(errors.ErrCodeInvalidInput, "nothing to change: pass at least one field flag")
	}
	return patch, nil
}

// NewRemoveCmd creates the `remove` command.
func NewRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a sound from the collection",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, actions.RemoveCommand{ID: args[0]})
		},
	}
}

// NewResetCmd creates the `reset` command.
func NewResetCmd() *cobra.Command {
	var empty bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the collection to the last fetched catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, actions.ResetCommand{ToEmpty: empty})
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "Clear the collection instead")
	return cmd
}

// runAction dispatches one command and prints its descriptor.
func runAction(cmd *cobra.Command, c actions.Command) error {
	return withClient(cmd, func(ctx context.Context, client daemon.Client) error {
		action, err := client.Dispatch(ctx, c)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if cli.GetOptions(cmd).JSONOutput {
			return writeJSON(out, action)
		}
		fmt.Fprintln(out, describeAction(action))
		return nil
	})
}

func describeAction(a actions.Action) string {
	t := theme.DefaultTheme
	ok := t.Success.Render(theme.IconSuccess)
	if a.Type != actions.TypeReceived && a.Type != actions.TypeReset && !a.Found {
		return fmt.Sprintf("%s Sound '%s' is not in the collection, nothing changed", t.Warning.Render("!"), a.ID)
	}
	switch a.Type {
	case actions.TypeReceived:
		return fmt.Sprintf("%s Received %d sounds", ok, a.Count)
	case actions.TypeReset:
		return fmt.Sprintf("%s Collection reset, %d sounds", ok, a.Count)
	case actions.TypeRemove:
		return fmt.Sprintf("%s Removed %s, %d sounds left", ok, a.ID, a.Count)
	case actions.TypePlay:
		if a.Sound != nil && a.Sound.Playing {
			return fmt.Sprintf("%s %s %s", ok, theme.IconPlay, a.Sound.Name)
		}
		return fmt.Sprintf("%s %s %s", ok, theme.IconPause, soundName(a))
	case actions.TypeVolume:
		if a.Sound != nil {
			return fmt.Sprintf("%s %s %s at %.2f", ok, theme.IconVolume, a.Sound.Name, a.Sound.Volume)
		}
	}
	return fmt.Sprintf("%s Updated %s", ok, soundName(a))
}

func soundName(a actions.Action) string {
	if a.Sound != nil && strings.TrimSpace(a.Sound.Name) != "" {
		return a.Sound.Name
	}
	return a.ID
}
