// Package credentials resolves connection secrets for named profiles.
// The dashboard never stores passwords itself; it asks a Source at
// connect time and moves on if none is available.
package credentials

import (
	"os"
	"strings"
)

// Source yields an optional secret for a profile identifier.
type Source interface {
	// Secret returns the secret for the given profile ID, and whether
	// one was found. A missing secret is not an error: the connection
	// attempt proceeds without a password (peer/trust auth, .pgpass).
	Secret(profileID string) (string, bool)
}

// EnvSource reads secrets from environment variables of the form
// PGDASH_SECRET_<PROFILE>, where <PROFILE> is the uppercased profile ID
// with dashes mapped to underscores.
type EnvSource struct{}

// NewEnvSource creates a Source backed by the process environment.
func NewEnvSource() *EnvSource {
	return &EnvSource{}
}

// EnvVar returns the environment variable holding the secret for a
// profile, for use in user-facing hints.
func EnvVar(profileID string) string {
	return "PGDASH_SECRET_" + envKey(profileID)
}

// Secret looks up PGDASH_SECRET_<PROFILE> in the environment.
func (s *EnvSource) Secret(profileID string) (string, bool) {
	val, ok := os.LookupEnv(EnvVar(profileID))
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// envKey normalizes a profile ID into an environment variable suffix.
func envKey(profileID string) string {
	normalized := strings.ToUpper(profileID)
	normalized = strings.ReplaceAll(normalized, "-", "_")
	normalized = strings.ReplaceAll(normalized, ".", "_")
	return normalized
}

// StaticSource serves secrets from an in-memory map. Used for secrets
// carried in the config file and as a test double.
type StaticSource struct {
	secrets map[string]string
}

// NewStaticSource creates a Source from a fixed map of profile ID to secret.
func NewStaticSource(secrets map[string]string) *StaticSource {
	copied := make(map[string]string, len(secrets))
	for k, v := range secrets {
		copied[k] = v
	}
	return &StaticSource{secrets: copied}
}

// Secret returns the stored secret for the profile, if any.
func (s *StaticSource) Secret(profileID string) (string, bool) {
	val, ok := s.secrets[profileID]
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// Chain tries each source in order and returns the first secret found.
type Chain []Source

// Secret walks the chain until a source yields a secret.
func (c Chain) Secret(profileID string) (string, bool) {
	for _, src := range c {
		if val, ok := src.Secret(profileID); ok {
			return val, true
		}
	}
	return "", false
}
