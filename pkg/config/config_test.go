package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.True(t, c.Browser.Headless)
	assert.Equal(t, 30*time.Second, c.Browser.Timeout)
	assert.Equal(t, "https://github.com", c.Site.BaseURL)
	assert.Equal(t, retry.DefaultMaxAttempts, c.Verify.MaxAttempts)
	assert.Equal(t, "noreply@github.com", c.Verify.Sender)
	assert.Equal(t, "normal", c.Logging.Verbosity)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
browser:
  headless: false
  timeout: 10s
  slow_mo: 250ms
star:
  settle_delay: 1s
verify:
  max_attempts: 8
  sender: "*@github.com"
mailbox:
  mailhog_url: http://mail.internal:8025
logging:
  verbosity: debug
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.Browser.Headless)
	assert.Equal(t, 10*time.Second, c.Browser.Timeout)
	assert.Equal(t, 250*time.Millisecond, c.Browser.SlowMo)
	assert.Equal(t, time.Second, c.Star.SettleDelay)
	assert.Equal(t, 8, c.Verify.MaxAttempts)
	assert.Equal(t, "*@github.com", c.Verify.Sender)
	assert.Equal(t, "http://mail.internal:8025", c.Mailbox.MailHogURL)
	assert.Equal(t, logging.LevelDebug, c.Level())

	// untouched keys keep their defaults
	assert.Equal(t, "please verify", c.Verify.Subject)
	assert.Equal(t, retry.DefaultInitialInterval, c.Verify.InitialInterval)
	assert.Equal(t, "https://registry.npmjs.org", c.NPM.Registry)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "browser: [not, a, map]"))
	assert.ErrorContains(t, err, "failed to parse config file")

	_, err = Load(writeConfig(t, "verify:\n  max_attempts: 0\n"))
	assert.ErrorContains(t, err, "verify.max_attempts")
}

func TestLoadOptional(t *testing.T) {
	c, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	_, err = LoadOptional(writeConfig(t, "logging:\n  verbosity: loud\n"))
	assert.ErrorContains(t, err, "invalid logging verbosity")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"negative timeout", func(c *Config) { c.Browser.Timeout = -1 }, "browser.timeout"},
		{"negative slow mo", func(c *Config) { c.Browser.SlowMo = -1 }, "browser.slow_mo"},
		{"negative settle", func(c *Config) { c.Star.SettleDelay = -time.Second }, "star.settle_delay"},
		{"zero attempts", func(c *Config) { c.Verify.MaxAttempts = 0 }, "verify.max_attempts"},
		{"zero interval", func(c *Config) { c.Verify.InitialInterval = 0 }, "verify.initial_interval"},
		{"max below initial", func(c *Config) { c.Verify.MaxInterval = time.Millisecond }, "verify.max_interval"},
		{"bad sender glob", func(c *Config) { c.Verify.Sender = "[abc" }, "verify.sender"},
		{"relative base url", func(c *Config) { c.Site.BaseURL = "github.com" }, "site.base_url"},
		{"ftp registry", func(c *Config) { c.NPM.Registry = "ftp://registry" }, "npm.registry"},
		{"no mailhog host", func(c *Config) { c.Mailbox.MailHogURL = "http://" }, "mailbox.mailhog_url"},
		{"bad verbosity", func(c *Config) { c.Logging.Verbosity = "loud" }, "invalid logging verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorContains(t, c.Validate(), tt.wantErr)
		})
	}
}

func TestValidateFillsVerbosity(t *testing.T) {
	c := Default()
	c.Logging.Verbosity = ""
	require.NoError(t, c.Validate())
	assert.Equal(t, "normal", c.Logging.Verbosity)
	assert.Equal(t, logging.LevelInfo, c.Level())
}

func TestConversions(t *testing.T) {
	c := Default()
	c.Browser.SlowMo = 100 * time.Millisecond
	c.Browser.ExecutablePath = "/usr/bin/chromium"

	launch := c.LaunchOptions()
	assert.True(t, launch.Headless)
	assert.Equal(t, 30000.0, launch.Timeout)
	assert.Equal(t, 100.0, launch.SlowMo)
	assert.Equal(t, "/usr/bin/chromium", launch.ExecutablePath)

	policy := c.RetryPolicy()
	assert.Equal(t, retry.DefaultMaxAttempts, policy.MaxAttempts)
	b := policy.NewBackOff()
	first := b.NextBackOff()
	assert.InDelta(t, float64(retry.DefaultInitialInterval), float64(first), float64(retry.DefaultInitialInterval)/5)

	q := c.Query()
	assert.Equal(t, "noreply@github.com", q.From)
	assert.Equal(t, "please verify", q.Subject)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".ghauto", "config.yaml"), path)
}
