// Package browser provides the browser handle and page primitives that the
// GitHub workflows are built from.
//
// A Provider owns at most one Playwright browser for the lifetime of a
// client. The browser is launched lazily on first use, or supplied by the
// caller ("bring your own browser"). Every workflow opens its own Page
// through the provider and closes it on the way out.
//
// # Page primitives
//
// Page is the narrow surface the workflow engine needs:
//
//   - Goto: navigate to a URL and wait for the load event
//   - WaitForSelector: wait until an element is attached, or visible
//   - Type: type text into a field
//   - Click: click an element
//   - ClickAndWaitForNavigation: click and wait for the navigation it triggers
//   - IsVisible: report whether an element is currently visible
//
// ClickAndWaitForNavigation arms the navigation waiter before the click so
// a fast navigation cannot be missed.
//
// Waits are bounded by the page default timeout (DefaultTimeout unless
// LaunchOptions.Timeout is set). Timeouts are reported as errors wrapping
// ErrTimeout regardless of the driver's own error type.
//
// # Example Usage
//
//	provider := browser.NewProvider(browser.Options{
//	    Launch: browser.LaunchOptions{Headless: true},
//	})
//	defer provider.Close()
//
//	page, err := provider.NewPage(ctx)
//	if err != nil {
//	    return err
//	}
//	defer page.Close()
//
//	if err := page.Goto("https://github.com/login"); err != nil {
//	    return err
//	}
package browser
