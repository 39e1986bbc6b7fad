package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/config"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/notify"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/output"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/service"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/store"
)

// now is the clock every command evaluates against.
var now = time.Now

// env is what a command needs: config, logger, store and service.
type env struct {
	cfg    *config.Config
	logger *charmLog.Logger
	db     *store.DB
	svc    *service.Service
}

// envOptions tweak openEnv for commands with their own sinks.
type envOptions struct {
	logWriter io.Writer
	fileLog   bool
	alerter   notify.Alerter
}

// openEnv loads config, configures output, opens the store and builds the
// service. Callers must Close the env.
func openEnv(opts envOptions) (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	output.Configure(cfg.Output.Color && !flagNoColor, os.Stdout)
	output.SetWidth(cfg.Output.Width)

	logWriter := opts.logWriter
	if logWriter == nil {
		logWriter = os.Stderr
	}
	build := newLogger
	if opts.fileLog {
		build = newFileLogger
	}
	logger, err := build(logWriter, cfg.Log.Level, flagVerbose)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.DBPath, store.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	alerter := opts.alerter
	if alerter == nil {
		alerter = notify.Writer{W: os.Stderr}
	}

	svc := service.New(db, settingsFrom(cfg),
		service.WithClock(now),
		service.WithLogger(logger),
		service.WithAlerter(alerter),
	)

	logger.Debug("environment ready", "db", cfg.DBPath, "framework_steps", len(cfg.Framework))
	return &env{cfg: cfg, logger: logger, db: db, svc: svc}, nil
}

// Close releases the store.
func (e *env) Close() error {
	return e.db.Close()
}

func settingsFrom(cfg *config.Config) service.Settings {
	return service.Settings{
		Framework:      cfg.Framework,
		Weights:        cfg.Weights,
		AvgDaysPerStep: cfg.Estimator.AvgDaysPerStep,
		RuleOverrides:  cfg.Automation.Enabled,
		Concurrency:    cfg.Watch.Concurrency,
	}
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID trims a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveID accepts a full project ID or a unique prefix of one, as shown
// in list output.
func (e *env) resolveID(ctx context.Context, arg string) (string, error) {
	if _, err := e.db.GetProject(ctx, arg); err == nil {
		return arg, nil
	} else if !errors.Is(err, store.ErrProjectNotFound) {
		return "", err
	}

	projects, err := e.db.ListProjects(ctx, store.ProjectFilter{IncludeArchived: true})
	if err != nil {
		return "", err
	}
	var match string
	for _, p := range projects {
		if !strings.HasPrefix(p.ID, arg) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("project ID prefix %q is ambiguous", arg)
		}
		match = p.ID
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", store.ErrProjectNotFound, arg)
	}
	return match, nil
}
