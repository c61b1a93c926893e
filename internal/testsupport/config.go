package testsupport

import (
	"path/filepath"
	"testing"

	"shortlist/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SocketPath = filepath.Join(base, "shortlistd.sock")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSessionTTLMinutes overrides the session lifetime on the test config.
func WithSessionTTLMinutes(minutes int) ConfigOption {
	return func(c *config.Config) {
		c.Auth.SessionTTLMinutes = minutes
	}
}

// WithSeedAccount overrides the bootstrap account on the test config.
func WithSeedAccount(username, password string) ConfigOption {
	return func(c *config.Config) {
		c.Auth.SeedUsername = username
		c.Auth.SeedPassword = password
	}
}
