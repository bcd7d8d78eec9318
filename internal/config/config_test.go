package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pgdash/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.NotNil(t, cfg.Profiles)
	assert.Equal(t, 2*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, 10*time.Second, cfg.Monitor.ConnectTimeout)
	assert.Equal(t, 30, cfg.Monitor.HistorySize)
	assert.Equal(t, 5, cfg.Monitor.TopTables)
}

func TestProfileDSNDatabase(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected string
	}{
		{"explicit database", Profile{Database: "appdb"}, "appdb"},
		{"empty falls back to postgres", Profile{}, "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.DSNDatabase())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Profile{Host: "db.example.com", Port: 5432, User: "monitor"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) { c.Profiles["prod"] = valid },
			wantErr: false,
		},
		{
			name: "future version",
			mutate: func(c *Config) {
				c.Version = CurrentConfigVersion + 1
			},
			wantErr: true,
		},
		{
			name: "profile without host",
			mutate: func(c *Config) {
				c.Profiles["bad"] = Profile{Port: 5432}
			},
			wantErr: true,
		},
		{
			name: "profile with invalid port",
			mutate: func(c *Config) {
				c.Profiles["bad"] = Profile{Host: "h", Port: 70000}
			},
			wantErr: true,
		},
		{
			name: "profile with bad sslmode",
			mutate: func(c *Config) {
				c.Profiles["bad"] = Profile{Host: "h", SSLMode: "yes-please"}
			},
			wantErr: true,
		},
		{
			name: "profile name with colon",
			mutate: func(c *Config) {
				c.Profiles["a:b"] = valid
			},
			wantErr: true,
		},
		{
			name: "default references missing profile",
			mutate: func(c *Config) {
				c.Profiles["prod"] = valid
				c.Default = "staging"
			},
			wantErr: true,
		},
		{
			name: "negative history size",
			mutate: func(c *Config) {
				c.Monitor.HistorySize = -1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadAndSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	cfg := DefaultConfig()
	cfg.Profiles["prod"] = Profile{
		Host:     "db.example.com",
		Port:     5433,
		User:     "monitor",
		Database: "appdb",
		SSLMode:  "require",
	}
	cfg.Default = "prod"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", loaded.Default)
	require.Contains(t, loaded.Profiles, "prod")
	assert.Equal(t, "db.example.com", loaded.Profiles["prod"].Host)
	assert.Equal(t, 5433, loaded.Profiles["prod"].Port)
	assert.Equal(t, "require", loaded.Profiles["prod"].SSLMode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("profiles: [not: a: map"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o600))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(cwd)
	require.NoError(t, os.Chdir(dir))

	found, err := Find("")
	require.NoError(t, err)
	// Resolve symlinks: macOS tmp dirs live under /private
	resolvedFound, _ := filepath.EvalSymlinks(found)
	resolvedPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, resolvedPath, resolvedFound)
}

func TestLoadOrDefaultWithoutConfig(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(cwd)
	require.NoError(t, os.Chdir(t.TempDir()))

	// Point HOME at an empty dir so no global config is found
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, CurrentConfigVersion, cfg.Version)
}
