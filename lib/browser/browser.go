// Package browser defines the controlled-page capability the export
// pipeline is written against. Production attaches to a real Chrome tab
// over the DevTools protocol (see the cdp subpackage); tests use the
// scripted in-memory page in the fixture subpackage.
package browser

import "context"

// Metrics is a snapshot of the page's scroll geometry.
type Metrics struct {
	ScrollHeight   float64
	ViewportHeight float64
	ScrollY        float64
}

// Page is a single browser tab driven exclusively by one caller at a time.
// Every method blocks until the page has acknowledged the operation.
type Page interface {
	// Navigate points the tab at a url. It does not wait for the page to
	// settle, callers add their own settle delays.
	Navigate(ctx context.Context, url string) error
	// Location reports the tab's current url.
	Location(ctx context.Context) (string, error)
	// HTML returns the rendered document markup.
	HTML(ctx context.Context) (string, error)
	// ScrollTo scrolls the window to a vertical offset in pixels.
	ScrollTo(ctx context.Context, y float64) error
	Metrics(ctx context.Context) (Metrics, error)
}
