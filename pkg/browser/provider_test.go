package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// borrowedBrowser stands in for a caller supplied browser. Any method call
// on it panics through the nil embedded interface, so the tests also prove
// the provider never drives a borrowed browser on its own.
type borrowedBrowser struct {
	playwright.Browser
}

func TestNewProviderDefaults(t *testing.T) {
	p := NewProvider(Options{})
	assert.Equal(t, DefaultTimeout, p.opts.Launch.Timeout)
	require.NotNil(t, p.opts.Launch.Viewport)
	assert.Equal(t, DefaultViewportWidth, p.opts.Launch.Viewport.Width)
	assert.Equal(t, DefaultViewportHeight, p.opts.Launch.Viewport.Height)
}

func TestProviderAcquireBorrowedIsIdempotent(t *testing.T) {
	b := &borrowedBrowser{}
	p := NewProvider(Options{Browser: b})

	first, err := p.Acquire()
	require.NoError(t, err)
	second, err := p.Acquire()
	require.NoError(t, err)

	assert.Same(t, b, first)
	assert.Same(t, first, second)
}

func TestProviderCloseLeavesBorrowedBrowserRunning(t *testing.T) {
	p := NewProvider(Options{Browser: &borrowedBrowser{}})
	_, err := p.Acquire()
	require.NoError(t, err)

	require.NoError(t, p.Close())
	assert.True(t, p.Closed())

	// second close is a no-op
	require.NoError(t, p.Close())
}

func TestProviderReuseAfterClose(t *testing.T) {
	p := NewProvider(Options{Browser: &borrowedBrowser{}})
	require.NoError(t, p.Close())

	_, err := p.Acquire()
	assert.ErrorIs(t, err, ErrClosed)

	_, err = p.NewPage(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestProviderNewPageHonorsContext(t *testing.T) {
	p := NewProvider(Options{Browser: &borrowedBrowser{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.NewPage(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, IsTimeout(fmt.Errorf("wait failed: %w", ErrTimeout)))
	assert.False(t, IsTimeout(fmt.Errorf("click failed")))
}

const fixturePage = `<!doctype html>
<html><body>
<form action="/next" method="get">
  <input id="login" name="login">
  <button type="submit" class="btn-primary">Go</button>
</form>
<div class="hidden" style="display:none"><button>Hidden</button></div>
</body></html>`

func TestPlaywrightPageIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if r.URL.Path == "/next" {
			fmt.Fprintf(w, `<html><body><p id="done">%s</p></body></html>`, r.URL.Query().Get("login"))
			return
		}
		fmt.Fprint(w, fixturePage)
	}))
	defer srv.Close()

	p := NewProvider(Options{Launch: LaunchOptions{Headless: true, Timeout: 5000}})
	defer p.Close()

	page, err := p.NewPage(context.Background())
	require.NoError(t, err)
	defer page.Close()

	require.NoError(t, page.Goto(srv.URL))
	require.NoError(t, page.WaitForSelector("#login", true))
	require.NoError(t, page.Type("#login", "octocat"))

	visible, err := page.IsVisible(".hidden button")
	require.NoError(t, err)
	assert.False(t, visible)

	require.NoError(t, page.ClickAndWaitForNavigation("button.btn-primary"))
	assert.Contains(t, page.URL(), "/next?login=octocat")
	require.NoError(t, page.WaitForSelector("#done", false))

	err = page.WaitForSelector("#never", true)
	assert.True(t, IsTimeout(err), "expected timeout, got %v", err)
}
