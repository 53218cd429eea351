package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/playwright-community/playwright-go"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("browser")
	if err != nil {
		debugLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}

// Provider lazily creates and holds the single browser used by a client.
//
// Provider guards its own state with a mutex, but the pages it hands out
// are not safe for concurrent use.
type Provider struct {
	mu      sync.Mutex
	opts    Options
	pw      *playwright.Playwright
	browser playwright.Browser
	owned   bool
	closed  bool
}

// NewProvider creates a provider. Nothing is launched until Acquire.
func NewProvider(opts Options) *Provider {
	if opts.Launch.Timeout == 0 {
		opts.Launch.Timeout = DefaultTimeout
	}
	if opts.Launch.Viewport == nil {
		opts.Launch.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	return &Provider{opts: opts}
}

// Acquire returns the provider's browser, launching it on first call.
// Repeated calls return the same browser until Close.
func (p *Provider) Acquire() (playwright.Browser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if p.browser != nil {
		return p.browser, nil
	}

	if p.opts.Browser != nil {
		debugLog.Debugf("Using caller supplied browser")
		p.browser = p.opts.Browser
		p.owned = false
		return p.browser, nil
	}

	if err := p.launch(); err != nil {
		return nil, err
	}
	return p.browser, nil
}

// launch starts the Playwright driver and a Chromium instance. Caller holds mu.
func (p *Provider) launch() error {
	runOpts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if p.opts.Launch.Install {
		debugLog.Infof("Installing playwright driver and browsers")
		if err := playwright.Install(runOpts); err != nil {
			return fmt.Errorf("failed to install playwright: %w", err)
		}
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(p.opts.Launch.Headless),
	}
	if p.opts.Launch.SlowMo > 0 {
		launchOpts.SlowMo = playwright.Float(p.opts.Launch.SlowMo)
	}
	if p.opts.Launch.ExecutablePath != "" {
		launchOpts.ExecutablePath = playwright.String(p.opts.Launch.ExecutablePath)
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	debugLog.Infof("Launched chromium (headless=%v)", p.opts.Launch.Headless)
	p.pw = pw
	p.browser = browser
	p.owned = true
	return nil
}

// NewPage opens a fresh page on the provider's browser.
func (p *Provider) NewPage(ctx context.Context) (Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := p.Acquire()
	if err != nil {
		return nil, err
	}

	viewport := p.opts.Launch.Viewport
	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(p.opts.Launch.Timeout)
	page.SetDefaultNavigationTimeout(p.opts.Launch.Timeout)
	return &playwrightPage{page: page}, nil
}

// Close releases the browser. A launched browser and its driver are
// stopped; a caller supplied browser is left running. Close is idempotent
// and the provider cannot be reused afterwards.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	browser, pw, owned := p.browser, p.pw, p.owned
	p.browser, p.pw = nil, nil
	if !owned {
		return nil
	}

	var errs []error
	if browser != nil {
		if err := browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if pw != nil {
		if err := pw.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	debugLog.Infof("Closed browser")

	if len(errs) > 0 {
		return fmt.Errorf("errors closing browser: %v", errs)
	}
	return nil
}

// Closed reports whether Close has been called.
func (p *Provider) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
