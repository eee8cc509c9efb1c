package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/pkg/logging/logutil"
	"github.com/grovetools/kakapo/tui/theme"
	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	var (
		component string
		follow    bool
		tailLines int
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show kakapo log output",
		Long: `Show the newest log file of a kakapo component.

Examples:
  # Follow the daemon log
  kakapo logs -f

  # Last 50 lines of the command line log as JSON Lines
  kakapo logs --component kakapo-cli --tail 50 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			logFile, _, err := logutil.FindLogFile(cfg, component)
			if err != nil {
				return err
			}
			cli.GetLogger(cmd).WithField("log_file", logFile).Debug("Reading log file")

			out := cmd.OutOrStdout()
			asJSON := cli.GetOptions(cmd).JSONOutput
			emit := func(line string) {
				if asJSON {
					printLogJSON(out, line)
				} else {
					printLogText(out, line)
				}
			}

			lines, err := lastLines(logFile, tailLines)
			if err != nil {
				return err
			}
			for _, line := range lines {
				emit(line)
			}
			if !follow {
				return nil
			}

			t, err := tail.TailFile(logFile, tail.Config{
				Follow:   true,
				ReOpen:   true,
				Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
				Logger:   log.New(io.Discard, "", 0),
			})
			if err != nil {
				return fmt.Errorf("failed to follow %s: %w", logFile, err)
			}
			defer t.Cleanup()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for {
				select {
				case line, ok := <-t.Lines:
					if !ok {
						return t.Err()
					}
					if line.Err != nil {
						return line.Err
					}
					emit(line.Text)
				case <-ctx.Done():
					return t.Stop()
				}
			}
		},
	}

	cmd.Flags().StringVar(&component, "component", "kakapod", "Component whose log to show (kakapod, kakapo-cli)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVar(&tailLines, "tail", -1, "Number of lines to show from the end of the log (default: all)")
	return cmd
}

// lastLines returns the last n non-empty lines of path, or all of them when
// n is negative.
func lastLines(path string, n int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// printLogJSON writes line as a JSON object. Text lines are wrapped.
func printLogJSON(w io.Writer, line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		logMap = map[string]interface{}{"raw_line": line}
	}
	data, _ := json.Marshal(logMap)
	fmt.Fprintln(w, string(data))
}

// printLogText pretty-prints JSON log lines and passes text lines through.
func printLogText(w io.Writer, line string) {
	var logMap map[string]interface{}
	if err := json.Unmarshal([]byte(line), &logMap); err != nil {
		fmt.Fprintln(w, line)
		return
	}

	ts, _ := logMap["time"].(string)
	level, _ := logMap["level"].(string)
	msg, _ := logMap["msg"].(string)
	component, _ := logMap["component"].(string)

	parsedTime, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		parsedTime, _ = time.Parse(time.RFC3339, ts)
	}

	var levelStyle lipgloss.Style
	switch strings.ToLower(level) {
	case "error", "fatal", "panic":
		levelStyle = theme.DefaultTheme.Error
	case "warning":
		levelStyle = theme.DefaultTheme.Warning
	case "info":
		levelStyle = theme.DefaultTheme.Info
	default:
		levelStyle = theme.DefaultTheme.Muted
	}

	var keys []string
	for k := range logMap {
		switch k {
		case "time", "level", "msg", "component":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, fmt.Sprintf("%s=%v", theme.DefaultTheme.Muted.Render(k), logMap[k]))
	}

	fmt.Fprintf(w, "%s %s %s [%s] %s\n",
		parsedTime.Format("15:04:05"),
		levelStyle.Render(strings.ToUpper(level)),
		msg,
		theme.DefaultTheme.Muted.Render(component),
		strings.Join(fields, " "),
	)
}
