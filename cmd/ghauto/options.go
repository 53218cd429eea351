package main

import (
	"fmt"
	"os"
	"time"

	"github.com/entrhq/ghauto/pkg/config"
	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/types"
	"github.com/spf13/pflag"
)

// Environment variables read when the matching flag is empty.
const (
	envPassword      = "GHAUTO_PASSWORD"
	envEmailPassword = "GHAUTO_EMAIL_PASSWORD"
)

// globalOptions are the persistent flags. A flag only overrides the
// config file when it was set on the command line.
type globalOptions struct {
	configPath string
	headless   bool
	timeout    time.Duration
	slowMo     time.Duration
	executable string
	install    bool
	baseURL    string
	mailhogURL string
	registry   string
	verbosity  string
}

func (o *globalOptions) bind(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVar(&o.configPath, "config", "", "path to config file (default ~/.ghauto/config.yaml)")
	fs.BoolVar(&o.headless, "headless", d.Browser.Headless, "run the browser without a window")
	fs.DurationVar(&o.timeout, "timeout", d.Browser.Timeout, "wait budget per page operation")
	fs.DurationVar(&o.slowMo, "slow-mo", d.Browser.SlowMo, "delay every browser operation")
	fs.StringVar(&o.executable, "chromium", "", "path to a Chromium executable")
	fs.BoolVar(&o.install, "install", d.Browser.Install, "download the Playwright driver and browsers first")
	fs.StringVar(&o.baseURL, "base-url", d.Site.BaseURL, "GitHub base URL")
	fs.StringVar(&o.mailhogURL, "mailhog-url", d.Mailbox.MailHogURL, "MailHog API used for verification mail")
	fs.StringVar(&o.registry, "registry", d.NPM.Registry, "npm registry used to resolve packages")
	fs.StringVarP(&o.verbosity, "verbosity", "v", d.Logging.Verbosity, "log level: quiet, normal, verbose, debug")
}

// load reads the config file and applies the flags set on fs. A missing
// default config file is not an error; a missing --config file is.
func (o *globalOptions) load(fs *pflag.FlagSet) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		var path string
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfg, err = config.LoadOptional(path)
	}
	if err != nil {
		return nil, err
	}

	if fs.Changed("headless") {
		cfg.Browser.Headless = o.headless
	}
	if fs.Changed("timeout") {
		cfg.Browser.Timeout = o.timeout
	}
	if fs.Changed("slow-mo") {
		cfg.Browser.SlowMo = o.slowMo
	}
	if fs.Changed("chromium") {
		cfg.Browser.ExecutablePath = o.executable
	}
	if fs.Changed("install") {
		cfg.Browser.Install = o.install
	}
	if fs.Changed("base-url") {
		cfg.Site.BaseURL = o.baseURL
	}
	if fs.Changed("mailhog-url") {
		cfg.Mailbox.MailHogURL = o.mailhogURL
	}
	if fs.Changed("registry") {
		cfg.NPM.Registry = o.registry
	}
	if fs.Changed("verbosity") {
		cfg.Logging.Verbosity = o.verbosity
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logging.SetLevel(cfg.Level())
	return cfg, nil
}

// accountOptions are the flags naming a GitHub account.
type accountOptions struct {
	username string
	email    string
	password string
}

func (a *accountOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&a.username, "username", "u", "", "GitHub username")
	fs.StringVarP(&a.email, "email", "e", "", "account email")
	fs.StringVarP(&a.password, "password", "p", "", "account password (default $"+envPassword+")")
}

func (a *accountOptions) credentials() types.Credentials {
	password := a.password
	if password == "" {
		password = os.Getenv(envPassword)
	}
	return types.Credentials{Username: a.username, Email: a.email, Password: password}
}

func emailPassword(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(envEmailPassword)
}
