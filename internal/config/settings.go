// Package config loads pulse settings from viper: config file, PULSE_ environment
// variables, and bound command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/sentiment-pulse/internal/aggregate"
	"github.com/Veraticus/sentiment-pulse/internal/alert"
	"github.com/Veraticus/sentiment-pulse/internal/common"
	"github.com/Veraticus/sentiment-pulse/internal/compare"
	"github.com/Veraticus/sentiment-pulse/internal/engine"
	"github.com/Veraticus/sentiment-pulse/internal/filter"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDatabasePath    = "database.path"
	KeyRulesPath       = "rules.path"
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyMinCount        = "aggregate.min_count"
	KeyTopN            = "aggregate.top_n"
	KeyCompareTopN     = "compare.top_n"
	KeyNewEntriesLimit = "compare.new_entries_limit"
	KeyAlertsLimit     = "alerts.limit"
	KeyTimeRange       = "filter.time_range"
	KeyPlatform        = "filter.platform"
	KeyCountry         = "filter.country"
)

// DefaultDatabasePath is where snapshots are stored unless configured otherwise.
const DefaultDatabasePath = "~/.local/share/pulse/pulse.db"

// EnvPrefix prefixes environment variable overrides, e.g. PULSE_AGGREGATE_TOP_N.
const EnvPrefix = "PULSE"

// EnvKeyReplacer maps nested keys onto environment variable names.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// Settings is the validated application configuration.
type Settings struct {
	DatabasePath string
	RulesPath    string // Empty uses the built-in rule set
	LogLevel     string
	LogFormat    string
	Filter       filter.Criteria
	Engine       engine.Config
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	defaults := engine.DefaultConfig()

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyRulesPath, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyMinCount, defaults.Aggregate.MinCount)
	v.SetDefault(KeyTopN, defaults.Aggregate.TopN)
	v.SetDefault(KeyCompareTopN, defaults.Compare.TopN)
	v.SetDefault(KeyNewEntriesLimit, defaults.Compare.NewEntriesLimit)
	v.SetDefault(KeyAlertsLimit, defaults.Alerts.Limit)
	v.SetDefault(KeyTimeRange, string(filter.RangeAll))
	v.SetDefault(KeyPlatform, "")
	v.SetDefault(KeyCountry, "")
}

// LoadSettings reads the settings from the global viper instance.
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(viper.GetViper())
}

// LoadSettingsFrom reads and validates the settings held by v.
func LoadSettingsFrom(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	ints := map[string]int{}
	for _, key := range []string{KeyMinCount, KeyTopN, KeyCompareTopN, KeyNewEntriesLimit, KeyAlertsLimit} {
		n, err := cast.ToIntE(v.Get(key))
		if err != nil {
			return nil, common.ConfigError("%s must be an integer, got %v", key, v.Get(key))
		}
		ints[key] = n
	}

	timeRange, err := filter.ParseTimeRange(v.GetString(KeyTimeRange))
	if err != nil {
		return nil, common.ConfigError("%s: %v", KeyTimeRange, err)
	}

	settings := &Settings{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		RulesPath:    ExpandPath(v.GetString(KeyRulesPath)),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    strings.ToLower(v.GetString(KeyLogFormat)),
		Filter: filter.Criteria{
			Range:    timeRange,
			Platform: v.GetString(KeyPlatform),
			Country:  v.GetString(KeyCountry),
		},
		Engine: engine.Config{
			Aggregate: aggregate.Options{
				MinCount: ints[KeyMinCount],
				TopN:     ints[KeyTopN],
			},
			Compare: compare.Options{
				TopN:            ints[KeyCompareTopN],
				NewEntriesLimit: ints[KeyNewEntriesLimit],
			},
			Alerts: alert.Options{Limit: ints[KeyAlertsLimit]},
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks value ranges that the types alone cannot express.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DatabasePath) == "" {
		return common.ConfigError("%s must not be empty", KeyDatabasePath)
	}
	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.LogFormat != "console" && s.LogFormat != "json" {
		return common.ConfigError("%s must be console or json, got %q", KeyLogFormat, s.LogFormat)
	}

	checks := []struct {
		key   string
		value int
		min   int
	}{
		{KeyMinCount, s.Engine.Aggregate.MinCount, 0},
		{KeyTopN, s.Engine.Aggregate.TopN, 0},
		{KeyCompareTopN, s.Engine.Compare.TopN, 0},
		{KeyAlertsLimit, s.Engine.Alerts.Limit, 1},
	}
	for _, c := range checks {
		if c.value < c.min {
			return common.ConfigError("%s must be at least %d, got %d", c.key, c.min, c.value)
		}
	}
	if s.Engine.Compare.NewEntriesLimit == 0 {
		return common.ConfigError("%s must be positive, or negative for no limit", KeyNewEntriesLimit)
	}
	return nil
}

func (s *Settings) String() string {
	return fmt.Sprintf("database=%s rules=%q min_count=%d top_n=%d range=%s",
		s.DatabasePath, s.RulesPath, s.Engine.Aggregate.MinCount, s.Engine.Aggregate.TopN, s.Filter.Range)
}
