// Package workflow runs fixed GitHub page-step sequences against a browser.
package workflow

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/ghauto/pkg/browser"
	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/types"
)

// Defaults for Engine fields left zero.
const (
	DefaultBaseURL     = "https://github.com"
	DefaultSettleDelay = 500 * time.Millisecond
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("workflow")
	if err != nil {
		debugLog.Warnf("Failed to initialize workflow logger, using stderr fallback: %v", err)
	}
}

// Engine interprets workflows. Each run opens a fresh page through Pages
// and closes it before returning, whatever the outcome.
type Engine struct {
	Pages browser.PageOpener

	// BaseURL is prepended to site-relative Navigate targets
	BaseURL string

	// SettleDelay is how long ToggleStar waits after clicking before it
	// re-reads the star state. The page exposes no completion signal.
	SettleDelay time.Duration

	// Sleep waits for d or until ctx is done. nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewEngine returns an engine with default base URL and settle delay.
func NewEngine(pages browser.PageOpener) *Engine {
	return &Engine{
		Pages:       pages,
		BaseURL:     DefaultBaseURL,
		SettleDelay: DefaultSettleDelay,
	}
}

// Run executes wf on a new page.
func (e *Engine) Run(ctx context.Context, wf Workflow, inputs Inputs) error {
	return e.withPage(ctx, wf.Name, func(page browser.Page) error {
		return e.Execute(ctx, page, wf, inputs)
	})
}

// Execute runs wf's steps strictly in order on page. The first failing step
// aborts the run.
func (e *Engine) Execute(ctx context.Context, page browser.Page, wf Workflow, inputs Inputs) error {
	for i, step := range wf.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		debugLog.Debugf("%s: step %d/%d: %s", wf.Name, i+1, len(wf.Steps), step)

		if err := e.execStep(page, step, inputs); err != nil {
			debugLog.Warnf("%s: step %d failed: %v", wf.Name, i+1, err)
			return stepError(wf.Name, i+1, step, err)
		}
	}
	return nil
}

func (e *Engine) execStep(page browser.Page, step Step, inputs Inputs) error {
	switch step.Action {
	case Navigate:
		return page.Goto(e.resolve(step.Target))
	case WaitForElement:
		return page.WaitForSelector(step.Target, step.Visible)
	case TypeText:
		value, ok := inputs[step.Input]
		if !ok || value == "" {
			return types.NewPreconditionError("", fmt.Sprintf("missing %s", step.Input))
		}
		return page.Type(step.Target, value)
	case Click:
		return page.Click(step.Target)
	case WaitForNavigation:
		return page.ClickAndWaitForNavigation(step.Target)
	default:
		return fmt.Errorf("unknown step action %v", step.Action)
	}
}

// stepError attaches workflow context to a failed step. Waits always fail
// as element timeouts; other steps only when the driver timed out.
func stepError(op string, index int, step Step, err error) error {
	if te, ok := err.(*types.Error); ok {
		te.Op = op
		te.Step = index
		return te
	}
	if step.Action == WaitForElement || browser.IsTimeout(err) {
		return &types.Error{
			Kind:     types.KindElementTimeout,
			Op:       op,
			Step:     index,
			Selector: step.Target,
			Err:      err,
		}
	}
	return fmt.Errorf("%s: step %d (%s): %w", op, index, step, err)
}

// resolve turns a site-relative path into an absolute URL.
func (e *Engine) resolve(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	base := e.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(target, "/")
}

// withPage opens a page, runs fn, and always closes the page. A close
// error is reported only when fn succeeded.
func (e *Engine) withPage(ctx context.Context, op string, fn func(browser.Page) error) (err error) {
	page, err := e.Pages.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to open page: %w", op, err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			debugLog.Warnf("%s: failed to close page: %v", op, closeErr)
			if err == nil {
				err = fmt.Errorf("%s: failed to close page: %w", op, closeErr)
			}
		}
	}()
	return fn(page)
}

// Visit opens rawURL on a new page and closes it once loaded.
// Errors name the URL without its query, which may carry a token.
func (e *Engine) Visit(ctx context.Context, op, rawURL string) error {
	return e.withPage(ctx, op, func(page browser.Page) error {
		if err := page.Goto(rawURL); err != nil {
			return stepError(op, 1, Step{Action: Navigate, Target: withoutQuery(rawURL)}, err)
		}
		return nil
	})
}

func withoutQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func (e *Engine) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
