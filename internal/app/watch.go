package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/config"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/watcher"
)

var (
	watchDaemon       bool
	watchInterval     string
	watchStop         bool
	watchQuiet        bool
	watchNoAutomation bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor project health and alert on changes",
	Long: `Run a background monitor that periodically analyzes every non-archived
project, applies the automation rules and compares the result with the
previous pass. Health drops, status changes, new projects and automation
actions raise desktop notifications and/or terminal alerts.

Examples:
  toolthinker watch                    # run in foreground (ctrl-c to stop)
  toolthinker watch --daemon           # run in background, write PID file
  toolthinker watch --interval 5m      # check every 5 minutes (default: watch.interval)
  toolthinker watch --no-automation    # alert only, never change projects
  toolthinker watch --stop             # stop the background daemon`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "Run in background mode (write PID file, log to file)")
	watchCmd.Flags().StringVar(&watchInterval, "interval", "", "Check interval as duration string (e.g. 5m, 1h)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "Stop a running background daemon")
	watchCmd.Flags().BoolVar(&watchQuiet, "quiet", false, "Suppress terminal output, only send notifications")
	watchCmd.Flags().BoolVar(&watchNoAutomation, "no-automation", false, "Do not apply automation rules during passes")
	rootCmd.AddCommand(watchCmd)
}

// pidFilePath returns the path to the daemon PID file.
func pidFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.pid")
}

// logFilePath returns the path to the daemon log file.
func logFilePath() string {
	return filepath.Join(config.ConfigDir(), "watch.log")
}

// parseInterval applies the flag over the configured default.
func parseInterval(flag string, fallback time.Duration) (time.Duration, error) {
	interval := fallback
	if flag != "" {
		d, err := time.ParseDuration(flag)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", flag, err)
		}
		interval = d
	}
	if interval < 30*time.Second {
		return 0, fmt.Errorf("interval must be at least 30s, got %s", interval)
	}
	return interval, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchStop {
		return stopDaemon(cmd.OutOrStdout())
	}
	if watchDaemon {
		return runDaemon(cmd.Context())
	}
	return runForeground(cmd.Context(), cmd.OutOrStdout())
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// runForeground runs the watcher in the foreground with live terminal output.
func runForeground(parent context.Context, out io.Writer) error {
	col := watcher.NewCollector()
	e, err := openEnv(envOptions{alerter: col})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	interval, err := parseInterval(watchInterval, e.cfg.Watch.Interval)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	if !watchQuiet {
		fmt.Fprintf(out, "toolthinker watching... (checking every %s)\n", interval)
		initial, err := e.svc.AnalyzeAll(ctx, store.ProjectFilter{})
		if err != nil {
			return fmt.Errorf("initial analysis failed: %w", err)
		}
		fmt.Fprintf(out, "[%s] %s %d projects\n", now().Format("15:04:05"), checkMark(), len(initial))
	}

	w := watcher.New(e.svc, interval, deliver(ctx, terminalSink(out, watchQuiet), e.logger),
		watcher.WithClock(now),
		watcher.WithLogger(e.logger),
		watcher.WithAutomation(!watchNoAutomation),
		watcher.WithCollector(col),
	)

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		if !watchQuiet {
			fmt.Fprintln(out, "\nStopped.")
		}
		return nil
	}
	return err
}

// runDaemon sets up PID and log files, then runs the watcher. The actual
// backgrounding should be done by the caller (nohup, &, etc.) since Go
// cannot reliably fork.
func runDaemon(parent context.Context) error {
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if pid, err := readPID(); err == nil {
		if processExists(pid) {
			return fmt.Errorf("daemon already running (PID %d). Use --stop to stop it", pid)
		}
		// Stale PID file.
		_ = os.Remove(pidFilePath())
	}

	pid := os.Getpid()
	if err := os.WriteFile(pidFilePath(), []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer func() { _ = os.Remove(pidFilePath()) }()

	logFile, err := os.OpenFile(logFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	col := watcher.NewCollector()
	e, err := openEnv(envOptions{logWriter: logFile, fileLog: true, alerter: col})
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	interval, err := parseInterval(watchInterval, e.cfg.Watch.Interval)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(parent)
	defer cancel()

	e.logger.Info("daemon started", "pid", pid, "interval", interval)

	w := watcher.New(e.svc, interval, deliver(ctx, logSink(e.logger), e.logger),
		watcher.WithClock(now),
		watcher.WithLogger(e.logger),
		watcher.WithAutomation(!watchNoAutomation),
		watcher.WithCollector(col),
	)

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		e.logger.Info("daemon stopped")
		return nil
	}
	return err
}

// terminalSink sends alerts to the desktop and, unless quiet, prints them.
func terminalSink(out io.Writer, quiet bool) notify.Fanout {
	sink := notify.Fanout{notify.Desktop{}}
	if !quiet {
		sink = append(sink, notify.AlerterFunc(func(_ context.Context, a notify.Alert) error {
			printAlert(out, a)
			return nil
		}))
	}
	return sink
}

// logSink sends alerts to the desktop and records them in the daemon log.
func logSink(logger *charmLog.Logger) notify.Fanout {
	return notify.Fanout{
		notify.Desktop{},
		notify.AlerterFunc(func(_ context.Context, a notify.Alert) error {
			logger.Warn(a.Title, "level", a.Level, "project_id", a.ProjectID, "message", a.Message)
			return nil
		}),
	}
}

// deliver adapts a sink to the watcher's alert callback.
func deliver(ctx context.Context, sink notify.Alerter, logger *charmLog.Logger) func(notify.Alert) {
	return func(a notify.Alert) {
		if err := sink.Alert(ctx, a); err != nil {
			logger.Debug("alert delivery failed", "title", a.Title, "err", err)
		}
	}
}

// stopDaemon terminates the daemon named in the PID file. A PID file left
// by a dead process is removed.
func stopDaemon(out io.Writer) error {
	pid, err := readPID()
	if err != nil {
		return fmt.Errorf("no daemon running (could not read PID file: %v)", err)
	}

	if !processExists(pid) {
		_ = os.Remove(pidFilePath())
		return fmt.Errorf("no daemon running (PID %d is not active, cleaned up stale PID file)", pid)
	}

	if err := terminate(pid); err != nil {
		return fmt.Errorf("failed to stop daemon (PID %d): %w", pid, err)
	}
	_ = os.Remove(pidFilePath())
	fmt.Fprintf(out, "Stopped watch daemon (PID %d)\n", pid)
	return nil
}

// readPID reads the daemon PID from the PID file.
func readPID() (int, error) {
	data, err := os.ReadFile(pidFilePath())
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// printAlert formats and prints an alert to the terminal.
func printAlert(out io.Writer, a notify.Alert) {
	timestamp := a.Time.Format("15:04:05")
	icon := alertIcon(a.Level)
	fmt.Fprintf(out, "[%s] %s %s\n", timestamp, icon, a.Title)
	if a.Message != "" {
		fmt.Fprintf(out, "         %s\n", a.Message)
	}
}

// alertIcon returns the terminal indicator for an alert level. Plain output
// gets the level name instead of a glyph.
func alertIcon(level string) string {
	if output.IsNoColor() {
		return "[" + level + "]"
	}
	switch level {
	case notify.LevelCritical:
		return "\xf0\x9f\x94\xb4" // red circle
	case notify.LevelWarning:
		return "\xe2\x9a\xa0\xef\xb8\x8f" // warning sign
	case notify.LevelInfo:
		return "\xe2\x9c\x93" // check mark
	default:
		return " "
	}
}

// checkMark returns a terminal check mark indicator.
func checkMark() string {
	return "\xe2\x9c\x93"
}
