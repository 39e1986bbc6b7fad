package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/automation"
)

// Config is the top-level toolthinker configuration.
type Config struct {
	DBPath     string           `mapstructure:"db_path"`
	Framework  []string         `mapstructure:"framework"`
	Weights    analysis.Weights `mapstructure:"weights"`
	Estimator  Estimator        `mapstructure:"estimator"`
	Automation Automation       `mapstructure:"automation"`
	Watch      Watch            `mapstructure:"watch"`
	Output     Output           `mapstructure:"output"`
	Log        Log              `mapstructure:"log"`
}

// Estimator configures completion predictions.
type Estimator struct {
	AvgDaysPerStep float64 `mapstructure:"avg_days_per_step"`
}

// Automation holds per-rule enable overrides keyed by rule ID.
type Automation struct {
	Enabled map[string]bool `mapstructure:"enabled"`
}

// Watch configures the watch loop.
type Watch struct {
	Interval    time.Duration `mapstructure:"interval"`
	Concurrency int           `mapstructure:"concurrency"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// Log configures the logger.
type Log struct {
	Level string `mapstructure:"level"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or config.yaml in
// ConfigDir) and returns a Config with all defaults applied. Environment
// variables prefixed with TOOLTHINKER_ override file values. Unknown rule IDs
// under automation.enabled are rejected.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("db_path", filepath.Join(DefaultConfigDir, DefaultDBName))
	v.SetDefault("framework", DefaultFramework)
	v.SetDefault("weights.completion", DefaultWeights.Completion)
	v.SetDefault("weights.tags", DefaultWeights.Tags)
	v.SetDefault("weights.notes", DefaultWeights.Notes)
	v.SetDefault("weights.description", DefaultWeights.Description)
	v.SetDefault("weights.recent_activity", DefaultWeights.RecentActivity)
	v.SetDefault("weights.recent_activity_days", DefaultWeights.RecentActivityDays)
	v.SetDefault("estimator.avg_days_per_step", DefaultEstimator.AvgDaysPerStep)
	v.SetDefault("automation.enabled", map[string]bool{})
	v.SetDefault("watch.interval", DefaultWatch.Interval)
	v.SetDefault("watch.concurrency", DefaultWatch.Concurrency)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
	v.SetDefault("log.level", DefaultLogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := filepath.Join(ConfigDir(), DefaultConfigFile)
	if cfgFile != "" {
		path = expandPath(cfgFile)
	}
	v.SetConfigFile(path)

	// Missing config file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.DBPath = expandPath(cfg.DBPath)
	if len(cfg.Framework) == 0 {
		cfg.Framework = append([]string(nil), DefaultFramework...)
	}
	if cfg.Estimator.AvgDaysPerStep <= 0 {
		cfg.Estimator.AvgDaysPerStep = DefaultEstimator.AvgDaysPerStep
	}
	if cfg.Watch.Interval <= 0 {
		cfg.Watch.Interval = DefaultWatch.Interval
	}
	if cfg.Watch.Concurrency < 1 {
		cfg.Watch.Concurrency = DefaultWatch.Concurrency
	}
	if cfg.Automation.Enabled == nil {
		cfg.Automation.Enabled = map[string]bool{}
	}
	known := automation.DefaultRules(nil, nil, nil)
	for id := range cfg.Automation.Enabled {
		if _, ok := automation.Find(known, id); !ok {
			return nil, fmt.Errorf("automation.enabled: unknown rule %q", id)
		}
	}

	return &cfg, nil
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
