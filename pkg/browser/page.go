package browser

import (
	"errors"
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// playwrightPage adapts a playwright.Page to Page.
type playwrightPage struct {
	page playwright.Page
}

// Goto navigates to url and waits for the load event.
func (p *playwrightPage) Goto(url string) error {
	waitUntil := playwright.WaitUntilState("load")
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{WaitUntil: &waitUntil}); err != nil {
		return wrap("navigation failed", err)
	}
	return nil
}

// WaitForSelector waits for selector to be attached, or visible when
// visible is set.
func (p *playwrightPage) WaitForSelector(selector string, visible bool) error {
	state := playwright.WaitForSelectorState("attached")
	if visible {
		state = playwright.WaitForSelectorState("visible")
	}
	_, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{State: &state})
	if err != nil {
		return wrap("wait failed", err)
	}
	return nil
}

func (p *playwrightPage) Type(selector, text string) error {
	if err := p.page.Type(selector, text); err != nil {
		return wrap("type failed", err)
	}
	return nil
}

func (p *playwrightPage) Click(selector string) error {
	if err := p.page.Click(selector); err != nil {
		return wrap("click failed", err)
	}
	return nil
}

// ClickAndWaitForNavigation registers the navigation waiter, then clicks.
// It returns once the navigation committed or either side failed.
func (p *playwrightPage) ClickAndWaitForNavigation(selector string) error {
	_, err := p.page.ExpectNavigation(func() error {
		return p.page.Click(selector)
	})
	if err != nil {
		return wrap("submit failed", err)
	}
	return nil
}

func (p *playwrightPage) IsVisible(selector string) (bool, error) {
	visible, err := p.page.IsVisible(selector)
	if err != nil {
		return false, wrap("visibility check failed", err)
	}
	return visible, nil
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

// wrap tags driver timeouts with ErrTimeout so callers do not depend on
// playwright's error types.
func wrap(msg string, err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", msg, ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
