// Package browsertest provides a scripted in-memory site implementing
// browser.PageOpener, for testing code that drives pages.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/entrhq/ghauto/pkg/browser"
)

// Call records one page operation.
type Call struct {
	Action   string
	URL      string
	Selector string
	Text     string
}

// ClickHook runs after a click on path. It may change the site.
type ClickHook func(site *Site, path, selector string)

// Site is a fake website. Each path has a set of elements, each either
// visible or hidden, and links that a submit follows.
type Site struct {
	mu sync.Mutex

	base     string
	elements map[string]map[string]bool
	links    map[string]map[string]string
	hooks    []ClickHook
	calls    []Call
	opened   int
	closed   int

	// NewPageErr, when set, is returned from NewPage
	NewPageErr error
}

var _ browser.PageOpener = (*Site)(nil)

// NewSite creates an empty site served at base.
func NewSite(base string) *Site {
	return &Site{
		base:     strings.TrimRight(base, "/"),
		elements: make(map[string]map[string]bool),
		links:    make(map[string]map[string]string),
	}
}

// Show makes the selectors present and visible on path.
func (s *Site) Show(path string, selectors ...string) *Site {
	s.set(path, true, selectors)
	return s
}

// Hide makes the selectors present but hidden on path.
func (s *Site) Hide(path string, selectors ...string) *Site {
	s.set(path, false, selectors)
	return s
}

// Remove deletes the selectors from path.
func (s *Site) Remove(path string, selectors ...string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sel := range selectors {
		delete(s.elements[path], sel)
	}
	return s
}

func (s *Site) set(path string, visible bool, selectors []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.elements[path] == nil {
		s.elements[path] = make(map[string]bool)
	}
	for _, sel := range selectors {
		s.elements[path][sel] = visible
	}
}

// Link makes a submit of selector on path navigate to dest.
func (s *Site) Link(path, selector, dest string) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.links[path] == nil {
		s.links[path] = make(map[string]string)
	}
	s.links[path][selector] = dest
	return s
}

// OnClick registers a hook run after every click or submit.
func (s *Site) OnClick(hook ClickHook) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
	return s
}

// NewPage implements browser.PageOpener.
func (s *Site) NewPage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.NewPageErr != nil {
		return nil, s.NewPageErr
	}
	s.opened++
	return &Page{site: s, path: "about:blank"}, nil
}

// Calls returns a copy of every recorded page operation.
func (s *Site) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Count returns how many calls matched action and selector. An empty
// selector matches any.
func (s *Site) Count(action, selector string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Action == action && (selector == "" || c.Selector == selector) {
			n++
		}
	}
	return n
}

// Typed returns the text last typed into selector.
func (s *Site) Typed(selector string) string {
	var text string
	for _, c := range s.Calls() {
		if c.Action == "type" && c.Selector == selector {
			text = c.Text
		}
	}
	return text
}

// PagesOpened returns how many pages were opened.
func (s *Site) PagesOpened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

// PagesClosed returns how many pages were closed.
func (s *Site) PagesClosed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// path strips the site base from an absolute URL.
func (s *Site) path(url string) string {
	p := strings.TrimPrefix(url, s.base)
	if p == "" {
		return "/"
	}
	return p
}

func (s *Site) record(c Call) {
	s.mu.Lock()
	s.calls = append(s.calls, c)
	s.mu.Unlock()
}

// lookup reports whether selector is present on path and whether it is visible.
func (s *Site) lookup(path, selector string) (present, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	visible, present = s.elements[path][selector]
	return present, visible
}

func (s *Site) runHooks(path, selector string) {
	s.mu.Lock()
	hooks := append([]ClickHook(nil), s.hooks...)
	s.mu.Unlock()
	for _, h := range hooks {
		h(s, path, selector)
	}
}

// Page is one tab on a Site.
type Page struct {
	site   *Site
	path   string
	closed bool
}

var _ browser.Page = (*Page)(nil)

func (p *Page) timeout(selector string) error {
	return fmt.Errorf("waiting for %q on %s: %w", selector, p.path, browser.ErrTimeout)
}

func (p *Page) Goto(url string) error {
	p.path = p.site.path(url)
	p.site.record(Call{Action: "goto", URL: url})
	return nil
}

func (p *Page) WaitForSelector(selector string, visible bool) error {
	p.site.record(Call{Action: "wait", URL: p.path, Selector: selector})
	present, isVisible := p.site.lookup(p.path, selector)
	if !present || (visible && !isVisible) {
		return p.timeout(selector)
	}
	return nil
}

func (p *Page) Type(selector, text string) error {
	if present, _ := p.site.lookup(p.path, selector); !present {
		return p.timeout(selector)
	}
	p.site.record(Call{Action: "type", URL: p.path, Selector: selector, Text: text})
	return nil
}

func (p *Page) Click(selector string) error {
	if present, visible := p.site.lookup(p.path, selector); !present || !visible {
		return p.timeout(selector)
	}
	p.site.record(Call{Action: "click", URL: p.path, Selector: selector})
	p.site.runHooks(p.path, selector)
	return nil
}

func (p *Page) ClickAndWaitForNavigation(selector string) error {
	if present, visible := p.site.lookup(p.path, selector); !present || !visible {
		return p.timeout(selector)
	}
	p.site.record(Call{Action: "submit", URL: p.path, Selector: selector})

	p.site.mu.Lock()
	dest, ok := p.site.links[p.path][selector]
	p.site.mu.Unlock()

	from := p.path
	p.site.runHooks(from, selector)
	if !ok {
		return fmt.Errorf("navigation after clicking %q on %s: %w", selector, from, browser.ErrTimeout)
	}
	p.path = dest
	return nil
}

func (p *Page) IsVisible(selector string) (bool, error) {
	_, visible := p.site.lookup(p.path, selector)
	return visible, nil
}

func (p *Page) URL() string {
	return p.site.base + p.path
}

func (p *Page) Close() error {
	if p.closed {
		return fmt.Errorf("page already closed")
	}
	p.closed = true
	p.site.mu.Lock()
	p.site.closed++
	p.site.mu.Unlock()
	return nil
}
