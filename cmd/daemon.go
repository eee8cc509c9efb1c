package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/grovetools/kakapo/cli"
	"github.com/grovetools/kakapo/config"
	"github.com/grovetools/kakapo/internal/daemon/pidfile"
	"github.com/grovetools/kakapo/internal/daemon/server"
	"github.com/grovetools/kakapo/logging"
	"github.com/grovetools/kakapo/pkg/daemon"
	"github.com/grovetools/kakapo/pkg/paths"
	"github.com/grovetools/kakapo/pkg/storage"
	"github.com/grovetools/kakapo/tui/theme"
	"github.com/grovetools/kakapo/version"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the `serve` command, which runs the daemon in the
// foreground.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the kakapo daemon",
		Long: `Run the kakapo daemon in the foreground.

The daemon owns the sound collection and serves it over a unix socket (and
server.listen when set). Config files are watched and the catalog source is
swapped on change without touching the collection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("kakapod")
			pidPath := paths.PidFilePath()

			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			sockPath := daemon.SocketPath(cfg)

			if err := pidfile.Acquire(pidPath); err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			d, st, err := daemon.NewDispatcher(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(logger, d)
			srv.SetRunningConfig(&daemon.RunningConfig{
				Socket:        sockPath,
				Listen:        cfg.Server.Listen,
				CatalogURL:    cfg.Catalog.URL,
				StorageDriver: cfg.Storage.Driver,
				SchemaVersion: storage.SchemaVersion,
				Version:       version.GetInfo().Version,
				StartedAt:     time.Now(),
			})

			watcher, err := daemon.NewConfigWatcher(configDirs(), cfg.Server.DebounceMs, func(file string) {
				next, err := cli.LoadConfig(cmd)
				if err != nil {
					logger.WithError(err).WithField("file", file).Warn("Ignoring invalid config change")
					return
				}
				fetcher, err := daemon.NewFetcher(next)
				if err != nil {
					logger.WithError(err).Warn("Ignoring invalid catalog settings")
					return
				}
				d.SetFetcher(fetcher)
				logger.WithField("file", file).Info("Configuration reloaded")
				srv.NotifyConfigReload(file)
			})
			if err != nil {
				logger.WithError(err).Debug("Config watcher disabled")
			} else {
				go watcher.Start(ctx)
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-stop
				logger.Info("Received stop signal")
				cancel()

				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}
			}()

			go func() {
				if _, err := d.Load(ctx); err != nil {
					logger.WithError(err).Warn("Sound collection not loaded")
				}
			}()

			if cfg.Server.Listen != "" {
				go func() {
					if err := srv.ListenTCP(cfg.Server.Listen); err != nil {
						logger.WithError(err).Error("TCP listener stopped")
					}
				}()
			}

			logger.WithField("pid", os.Getpid()).Info("Starting daemon")
			if err := srv.ListenAndServe(sockPath); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}

// configDirs returns the global config dir plus the directory holding the
// project config, if any.
func configDirs() []string {
	dirs := []string{paths.ConfigDir()}
	if cwd, err := os.Getwd(); err == nil {
		if project, err := config.FindConfigFile(cwd); err == nil {
			dirs = append(dirs, filepath.Dir(project))
		}
	}
	return dirs
}

// NewStopCmd creates the `stop` command.
func NewStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error checking status: %w", err)
			}
			if !running {
				fmt.Fprintln(out, "Daemon is not running")
				return nil
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("failed to find process %d: %w", pid, err)
			}
			if err := process.Signal(syscall.SIGTERM); err != nil {
				return fmt.Errorf("failed to send stop signal: %w", err)
			}
			fmt.Fprintf(out, "Sent SIGTERM to process %d\n", pid)
			return nil
		},
	}
}

type daemonStatus struct {
	Running bool                  `json:"running"`
	PID     int                   `json:"pid,omitempty"`
	Socket  string                `json:"socket"`
	Config  *daemon.RunningConfig `json:"config,omitempty"`
}

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadConfig(cmd)
			if err != nil {
				return err
			}
			running, pid, err := pidfile.IsRunning(paths.PidFilePath())
			if err != nil {
				return fmt.Errorf("error: %w", err)
			}

			status := daemonStatus{Running: running, PID: pid, Socket: daemon.SocketPath(cfg)}
			if running {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if client, err := daemon.NewRemoteClient(status.Socket); err == nil {
					defer client.Close()
					if rc, err := client.Config(ctx); err == nil {
						status.Config = rc
					} else {
						cli.GetLogger(cmd).WithError(err).Debug("Daemon config unavailable")
					}
				}
			}

			out := cmd.OutOrStdout()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(out, status)
			}
			if !running {
				fmt.Fprintln(out, theme.DefaultTheme.Muted.Render("Stopped"))
				return nil
			}
			fmt.Fprintf(out, "%s (PID: %d)\nSocket: %s\n", theme.DefaultTheme.Success.Render("Running"), pid, status.Socket)
			if rc := status.Config; rc != nil {
				fmt.Fprintf(out, "Catalog: %s\nStorage: %s (schema %s)\nVersion: %s\nStarted: %s\n",
					rc.CatalogURL, rc.StorageDriver, rc.SchemaVersion, rc.Version, rc.StartedAt.Format(time.RFC3339))
				if !rc.ConfigReloaded.IsZero() {
					fmt.Fprintf(out, "Config reloaded: %s\n", rc.ConfigReloaded.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}
