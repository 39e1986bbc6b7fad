// Package notify delivers project alerts to the desktop, the terminal or any
// other sink.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// Alert levels.
const (
	LevelInfo     = "info"
	LevelWarning  = "warning"
	LevelCritical = "critical"
)

// Alert is a notable project event.
type Alert struct {
	ProjectID string    `json:"project_id,omitempty"`
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Time      time.Time `json:"time"`
}

// Key identifies an alert for de-duplication.
func (a Alert) Key() string {
	return a.ProjectID + ":" + a.Level + ":" + a.Title + ":" + a.Message
}

// Alerter accepts alerts.
type Alerter interface {
	Alert(ctx context.Context, a Alert) error
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(ctx context.Context, a Alert) error

// Alert calls f.
func (f AlerterFunc) Alert(ctx context.Context, a Alert) error {
	return f(ctx, a)
}

// Fanout sends each alert to every alerter and returns the first error.
type Fanout []Alerter

// Alert implements Alerter.
func (f Fanout) Alert(ctx context.Context, a Alert) error {
	var first error
	for _, al := range f {
		if err := al.Alert(ctx, a); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Desktop sends desktop notifications.
type Desktop struct{}

// Alert implements Alerter.
func (Desktop) Alert(_ context.Context, a Alert) error {
	return Notify(a)
}

// Notify sends a desktop notification for the given alert. On macOS it uses
// osascript, on Linux it tries notify-send. If neither is available, it falls
// back to printing to stderr.
func Notify(alert Alert) error {
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return notifyFallback(os.Stderr, alert)
	}
}

func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "toolthinker" subtitle %q`,
		alert.Message, alert.Title,
	)
	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Run(); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	return nil
}

func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return notifyFallback(os.Stderr, alert)
	}

	title := fmt.Sprintf("toolthinker: %s", alert.Title)
	cmd := exec.Command("notify-send", title, alert.Message)
	if err := cmd.Run(); err != nil {
		return notifyFallback(os.Stderr, alert)
	}
	return nil
}

// notifyFallback prints the alert when no desktop notification system is
// available.
func notifyFallback(w io.Writer, alert Alert) error {
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", alert.Level, alert.Title, alert.Message)
	return err
}

// Writer prints alerts as single lines to an io.Writer.
type Writer struct {
	W io.Writer
}

// Alert implements Alerter.
func (w Writer) Alert(_ context.Context, a Alert) error {
	return notifyFallback(w.W, a)
}
