// Package config provides configuration loading and defaults for toolthinker.
package config

import (
	"time"

	"github.com/mjohnson2000/Tool-Thinker-App-2026-sub002/internal/analysis"
)

// DefaultConfigDir is the default location for toolthinker configuration.
const DefaultConfigDir = "~/.config/toolthinker"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "toolthinker.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// EnvPrefix prefixes environment overrides, e.g. TOOLTHINKER_DB_PATH.
const EnvPrefix = "TOOLTHINKER"

// DefaultFramework is the canonical step order of the business-planning
// framework.
var DefaultFramework = []string{
	"jobs_to_be_done",
	"value_proposition",
	"business_model_canvas",
	"customer_journey",
	"market_sizing",
	"competitive_analysis",
	"go_to_market",
	"financial_model",
}

// DefaultWeights holds the default health scoring weights.
var DefaultWeights = analysis.DefaultWeights

// DefaultEstimator holds the default completion estimator settings.
var DefaultEstimator = Estimator{
	AvgDaysPerStep: analysis.DefaultAvgDaysPerStep,
}

// DefaultWatch holds the default watch loop settings.
var DefaultWatch = Watch{
	Interval:    30 * time.Minute,
	Concurrency: 4,
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}

// DefaultLogLevel is used when log.level is unset.
const DefaultLogLevel = "info"
