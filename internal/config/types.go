package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .pgdash.yaml configuration file.
type Config struct {
	Version  int                `yaml:"version" mapstructure:"version"`
	Profiles map[string]Profile `yaml:"profiles" mapstructure:"profiles"`
	Default  string             `yaml:"default" mapstructure:"default"`
	Monitor  MonitorConfig      `yaml:"monitor" mapstructure:"monitor"`
}

// Profile defines a database server and its connection settings.
// Passwords never live here: they come from a credentials.Source at
// connect time.
type Profile struct {
	// Host is the server hostname or address.
	Host string `yaml:"host" mapstructure:"host"`

	// Port is the server port (default 5432).
	Port int `yaml:"port" mapstructure:"port"`

	// User is the login role. May be empty for peer/trust auth.
	User string `yaml:"user" mapstructure:"user"`

	// Database is the default database to connect to.
	Database string `yaml:"database" mapstructure:"database"`

	// SSLMode is passed through to the connection string (disable,
	// prefer, require, verify-ca, verify-full).
	SSLMode string `yaml:"sslmode" mapstructure:"sslmode"`
}

// MonitorConfig controls dashboard refresh and history behavior.
type MonitorConfig struct {
	// Interval is the automatic refresh cadence. Zero means off.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout" mapstructure:"connect_timeout"`

	// HistorySize is the number of samples kept for rate graphs.
	HistorySize int `yaml:"history_size" mapstructure:"history_size"`

	// TopTables is how many tables the size summary shows.
	TopTables int `yaml:"top_tables" mapstructure:"top_tables"`
}

// DefaultConfig returns a config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Profiles: make(map[string]Profile),
		Monitor: MonitorConfig{
			Interval:       2 * time.Second,
			ConnectTimeout: 10 * time.Second,
			HistorySize:    30,
			TopTables:      5,
		},
	}
}

// DSNDatabase returns the profile's database, falling back to the
// standard "postgres" maintenance database when none is configured.
func (p Profile) DSNDatabase() string {
	if p.Database == "" {
		return "postgres"
	}
	return p.Database
}
