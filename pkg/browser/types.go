package browser

import (
	"context"
	"errors"

	"github.com/playwright-community/playwright-go"
)

// Default values for launched browsers
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

var (
	// ErrTimeout is wrapped by every page error caused by a wait budget
	// running out.
	ErrTimeout = errors.New("browser: timed out")

	// ErrClosed is returned when a Provider is used after Close.
	ErrClosed = errors.New("browser: provider closed")
)

// Page is one browser tab driven by a workflow.
type Page interface {
	Goto(url string) error
	WaitForSelector(selector string, visible bool) error
	Type(selector, text string) error
	Click(selector string) error
	ClickAndWaitForNavigation(selector string) error
	IsVisible(selector string) (bool, error)
	URL() string
	Close() error
}

// PageOpener opens fresh pages. *Provider implements it.
type PageOpener interface {
	NewPage(ctx context.Context) (Page, error)
}

// LaunchOptions configures a browser launched by the Provider.
type LaunchOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Timeout is the default wait budget for page operations, in milliseconds
	Timeout float64

	// SlowMo slows every driver operation by the given milliseconds
	SlowMo float64

	// ExecutablePath points at a specific Chromium binary
	ExecutablePath string

	// Install downloads the Playwright driver and browsers before launch
	Install bool

	// Viewport sets the page viewport size
	Viewport *Viewport
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Options configures a Provider. When Browser is set, Launch is ignored and
// the Provider never closes the browser itself.
type Options struct {
	Browser playwright.Browser
	Launch  LaunchOptions
}

// IsTimeout reports whether err was caused by a wait running out.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
