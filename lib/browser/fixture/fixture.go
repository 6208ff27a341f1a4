// Package fixture provides an in-memory scripted browser.Page for tests:
// a transaction list page that lazily releases content batches as the
// caller scrolls, plus a set of canned detail pages addressable by url.
package fixture

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"sendtg-export/lib/browser"
)

type Page struct {
	mu sync.Mutex

	// ListURL is the url the scripted infinite-scroll feed lives at.
	ListURL string
	// Batches are chunks of body HTML revealed one per bottom-reaching
	// scroll, simulating lazy loading.
	Batches []string
	// Endless makes the feed keep generating empty filler batches so the
	// page height never stabilizes.
	Endless bool
	// Details maps full urls to body HTML of canned detail pages.
	Details map[string]string
	// OnNavigate, when set, can reject a navigation to simulate a
	// per-item fetch failure.
	OnNavigate func(url string) error

	// BatchHeight is the pixel height each released batch adds.
	BatchHeight float64
	// Viewport is the window height; defaults to 600.
	Viewport float64

	location    string
	scrollY     float64
	released    int
	navigations []string
}

func (p *Page) init() {
	if p.Viewport == 0 {
		p.Viewport = 600
	}
	if p.BatchHeight == 0 {
		p.BatchHeight = 900
	}
	if p.location == "" {
		p.location = p.ListURL
		p.released = 1
	}
}

// Navigations returns every url passed to Navigate, in order.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()

	p.navigations = append(p.navigations, url)
	if p.OnNavigate != nil {
		if err := p.OnNavigate(url); err != nil {
			return err
		}
	}
	p.location = url
	p.scrollY = 0
	return nil
}

func (p *Page) Location(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	return p.location, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()

	if p.location != p.ListURL {
		body := p.Details[p.location]
		return "<html><body>" + body + "</body></html>", nil
	}

	visible := p.released
	if visible > len(p.Batches) {
		visible = len(p.Batches)
	}
	return "<html><body>" + strings.Join(p.Batches[:visible], "\n") + "</body></html>", nil
}

func (p *Page) ScrollTo(ctx context.Context, y float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()

	height := p.height()
	if y > height {
		y = height
	}
	if y < 0 {
		y = 0
	}
	p.scrollY = y

	// reaching the bottom of the feed mounts the next lazy batch
	if p.location == p.ListURL && y >= height-p.Viewport {
		if p.Endless || p.released < len(p.Batches) {
			p.released++
		}
	}
	return nil
}

func (p *Page) Metrics(ctx context.Context) (browser.Metrics, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.init()
	return browser.Metrics{
		ScrollHeight:   p.height(),
		ViewportHeight: p.Viewport,
		ScrollY:        p.scrollY,
	}, nil
}

func (p *Page) height() float64 {
	if p.location != p.ListURL {
		return p.Viewport * 2
	}
	return float64(p.released) * p.BatchHeight
}

var _ browser.Page = (*Page)(nil)

// SummaryAnchor renders a minimal transaction list item the way the site
// marks them up, handy for building feed batches in tests.
func SummaryAnchor(txType, id, display, date, tm string, amounts ...string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<a href="/transactions/%s/%s">`, txType, id)
	fmt.Fprintf(&sb, `<div>%s</div>`, display)
	if date != "" {
		fmt.Fprintf(&sb, `<div>%s %s</div>`, date, tm)
	}
	for _, amt := range amounts {
		fmt.Fprintf(&sb, `<div>%s</div>`, amt)
	}
	sb.WriteString(`</a>`)
	return sb.String()
}
