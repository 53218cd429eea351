// Package config loads ghauto settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/entrhq/ghauto/pkg/browser"
	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/mailbox"
	"github.com/entrhq/ghauto/pkg/repo"
	"github.com/entrhq/ghauto/pkg/retry"
	"github.com/entrhq/ghauto/pkg/verify"
	"github.com/entrhq/ghauto/pkg/workflow"
	"gopkg.in/yaml.v3"
)

// Config represents the ghauto configuration file
type Config struct {
	Browser BrowserConfig `yaml:"browser"`
	Site    SiteConfig    `yaml:"site"`
	Star    StarConfig    `yaml:"star"`
	Verify  VerifyConfig  `yaml:"verify"`
	Mailbox MailboxConfig `yaml:"mailbox"`
	NPM     NPMConfig     `yaml:"npm"`
	Logging LoggingConfig `yaml:"logging"`
}

// BrowserConfig controls the launched browser
type BrowserConfig struct {
	Headless       bool          `yaml:"headless"`
	Timeout        time.Duration `yaml:"timeout"` // per wait and navigation
	SlowMo         time.Duration `yaml:"slow_mo"`
	ExecutablePath string        `yaml:"executable_path"`
	Install        bool          `yaml:"install"` // download driver and browsers first
}

// SiteConfig points the workflows at a GitHub instance
type SiteConfig struct {
	BaseURL string `yaml:"base_url"`
}

// StarConfig tunes the star toggle
type StarConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// VerifyConfig tunes the verification mail poller
type VerifyConfig struct {
	MaxAttempts     int           `yaml:"max_attempts"`
	InitialInterval time.Duration `yaml:"initial_interval"`
	MaxInterval     time.Duration `yaml:"max_interval"`
	Sender          string        `yaml:"sender"` // glob, e.g. "*@github.com"
	Subject         string        `yaml:"subject"`
	LinkClass       string        `yaml:"link_class"`
}

// MailboxConfig locates the mailbox API
type MailboxConfig struct {
	MailHogURL string `yaml:"mailhog_url"`
}

// NPMConfig locates the package registry
type NPMConfig struct {
	Registry string `yaml:"registry"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity"`
}

// Default returns a configuration that works against github.com with a
// local MailHog.
func Default() *Config {
	query := verify.DefaultQuery()
	return &Config{
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  time.Duration(browser.DefaultTimeout) * time.Millisecond,
		},
		Site: SiteConfig{BaseURL: workflow.DefaultBaseURL},
		Star: StarConfig{SettleDelay: workflow.DefaultSettleDelay},
		Verify: VerifyConfig{
			MaxAttempts:     retry.DefaultMaxAttempts,
			InitialInterval: retry.DefaultInitialInterval,
			MaxInterval:     retry.DefaultMaxInterval,
			Sender:          query.From,
			Subject:         query.Subject,
			LinkClass:       verify.DefaultLinkClass,
		},
		Mailbox: MailboxConfig{MailHogURL: mailbox.DefaultMailHogURL},
		NPM:     NPMConfig{Registry: repo.DefaultRegistry},
		Logging: LoggingConfig{Verbosity: "normal"},
	}
}

// DefaultPath returns ~/.ghauto/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ghauto", "config.yaml"), nil
}

// Load reads path over the defaults and validates the result. Keys missing
// from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// LoadOptional behaves like Load but returns the defaults when path does
// not exist.
func LoadOptional(path string) (*Config, error) {
	config, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return config, err
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Browser.Timeout < 0 {
		return fmt.Errorf("browser.timeout cannot be negative")
	}
	if c.Browser.SlowMo < 0 {
		return fmt.Errorf("browser.slow_mo cannot be negative")
	}
	if c.Star.SettleDelay < 0 {
		return fmt.Errorf("star.settle_delay cannot be negative")
	}

	if c.Verify.MaxAttempts < 1 {
		return fmt.Errorf("verify.max_attempts must be at least 1")
	}
	if c.Verify.InitialInterval <= 0 {
		return fmt.Errorf("verify.initial_interval must be positive")
	}
	if c.Verify.MaxInterval < c.Verify.InitialInterval {
		return fmt.Errorf("verify.max_interval must not be less than verify.initial_interval")
	}
	if err := c.Query().Validate(); err != nil {
		return fmt.Errorf("verify.sender: %w", err)
	}

	for name, raw := range map[string]string{
		"site.base_url":       c.Site.BaseURL,
		"mailbox.mailhog_url": c.Mailbox.MailHogURL,
		"npm.registry":        c.NPM.Registry,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

// LaunchOptions converts the browser section.
func (c *Config) LaunchOptions() browser.LaunchOptions {
	return browser.LaunchOptions{
		Headless:       c.Browser.Headless,
		Timeout:        float64(c.Browser.Timeout.Milliseconds()),
		SlowMo:         float64(c.Browser.SlowMo.Milliseconds()),
		ExecutablePath: c.Browser.ExecutablePath,
		Install:        c.Browser.Install,
	}
}

// RetryPolicy converts the verify section's attempt budget and backoff.
func (c *Config) RetryPolicy() retry.Policy {
	initial, maxInterval := c.Verify.InitialInterval, c.Verify.MaxInterval
	return retry.Policy{
		MaxAttempts: c.Verify.MaxAttempts,
		NewBackOff:  func() backoff.BackOff { return retry.ExponentialBackOff(initial, maxInterval) },
	}
}

// Query returns the mailbox query for the verification mail.
func (c *Config) Query() mailbox.Query {
	return mailbox.Query{From: c.Verify.Sender, Subject: c.Verify.Subject}
}

// Level maps the verbosity onto a log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.Logging.Verbosity)
}
