package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pgdash/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pgdash only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest pgdash release")
	}

	for name, profile := range cfg.Profiles {
		if err := validateProfile(name, profile); err != nil {
			return err
		}
	}

	if cfg.Default != "" {
		if _, ok := cfg.Profiles[cfg.Default]; !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Default profile '%s' is not defined", cfg.Default),
				"Add it with 'pgdash profile add' or change the default.")
		}
	}

	if cfg.Monitor.HistorySize < 0 {
		return errors.New(errors.ErrConfig,
			"monitor.history_size cannot be negative",
			"Use a positive sample count, e.g. 30.")
	}

	if cfg.Monitor.TopTables < 0 {
		return errors.New(errors.ErrConfig,
			"monitor.top_tables cannot be negative",
			"Use a positive table count, e.g. 5.")
	}

	return nil
}

// validateProfile checks a single connection profile.
func validateProfile(name string, p Profile) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrConfig,
			"Profile name cannot be empty",
			"Give each profile a short identifier, like 'prod' or 'local'.")
	}

	if strings.ContainsAny(name, " \t:") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile name '%s' contains invalid characters", name),
			"Use letters, digits, dashes, and underscores only.")
	}

	if p.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' has no host", name),
			"Set 'host' to the server hostname or address.")
	}

	if p.Port < 0 || p.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' has invalid port %d", name, p.Port),
			"Ports must be between 1 and 65535 (or omitted for 5432).")
	}

	switch p.SSLMode {
	case "", "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' has unknown sslmode '%s'", name, p.SSLMode),
			"Valid modes: disable, allow, prefer, require, verify-ca, verify-full.")
	}

	return nil
}
