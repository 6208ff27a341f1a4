package export

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sendtg-export/lib/browser"
	"sendtg-export/lib/scrapers/sendtg"
)

// Collector walks the infinite-scroll transaction list until its content
// converges, accumulating summaries keyed by id.
type Collector struct {
	Page browser.Page

	// convergence tuning; zero values take the defaults below
	MaxAttempts          int
	HeightStableChecks   int
	TxCountStableChecks  int
	ScrollWait           time.Duration
	BottomWait           time.Duration
	SweepWait            time.Duration
	FinalWait            time.Duration
}

const (
	defaultMaxAttempts         = 200
	defaultHeightStableChecks  = 8
	defaultTxCountStableChecks = 5
	defaultScrollWait          = 500 * time.Millisecond
	defaultBottomWait          = 300 * time.Millisecond
	defaultSweepWait           = 400 * time.Millisecond
	defaultFinalWait           = 500 * time.Millisecond
)

func (c Collector) withDefaults() Collector {
	if c.MaxAttempts == 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.HeightStableChecks == 0 {
		c.HeightStableChecks = defaultHeightStableChecks
	}
	if c.TxCountStableChecks == 0 {
		c.TxCountStableChecks = defaultTxCountStableChecks
	}
	if c.ScrollWait == 0 {
		c.ScrollWait = defaultScrollWait
	}
	if c.BottomWait == 0 {
		c.BottomWait = defaultBottomWait
	}
	if c.SweepWait == 0 {
		c.SweepWait = defaultSweepWait
	}
	if c.FinalWait == 0 {
		c.FinalWait = defaultFinalWait
	}
	return c
}

// Collect scrolls through the list page until both the document height and
// the transaction count have been stable long enough, then runs one
// deterministic full sweep to catch anything lazy loading held back.
// Summaries come back in first-seen order.
func (c Collector) Collect(ctx context.Context, onProgress func(count int)) ([]sendtg.Summary, error) {
	c = c.withDefaults()
	if onProgress == nil {
		onProgress = func(int) {}
	}

	seen := map[string]sendtg.Summary{}
	var order []sendtg.Summary

	scan := func() error {
		added, err := c.scan(ctx, seen)
		if err != nil {
			return err
		}
		order = append(order, added...)
		onProgress(len(order))
		return nil
	}

	if err := scan(); err != nil {
		return nil, err
	}

	metrics, err := c.Page.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	viewport := metrics.ViewportHeight

	var lastHeight float64
	heightStable := 0
	lastTxCount := 0
	txCountStable := 0
	scrollPos := 0.0

	for i := 0; i < c.MaxAttempts; i++ {
		scrollPos += viewport * 0.8
		if err := c.Page.ScrollTo(ctx, scrollPos); err != nil {
			return nil, err
		}
		if err := sleep(ctx, c.ScrollWait); err != nil {
			return nil, err
		}

		metrics, err = c.Page.Metrics(ctx)
		if err != nil {
			return nil, err
		}

		// snap to the absolute bottom and give lazy content extra time
		// to mount once the cursor has run past the document
		if scrollPos >= metrics.ScrollHeight {
			if err := c.Page.ScrollTo(ctx, metrics.ScrollHeight); err != nil {
				return nil, err
			}
			if err := sleep(ctx, c.BottomWait); err != nil {
				return nil, err
			}
		}

		if err := scan(); err != nil {
			return nil, err
		}

		metrics, err = c.Page.Metrics(ctx)
		if err != nil {
			return nil, err
		}

		if metrics.ScrollHeight == lastHeight {
			heightStable++
		} else {
			heightStable = 0
			lastHeight = metrics.ScrollHeight
			// rebase the cursor if it overshot a page that grew
			if scrollPos >= metrics.ScrollHeight {
				scrollPos = metrics.ScrollY
			}
		}

		if len(seen) == lastTxCount {
			txCountStable++
		} else {
			txCountStable = 0
			lastTxCount = len(seen)
		}

		// height can plateau while rows are still back-filling, so both
		// signals must hold
		if heightStable >= c.HeightStableChecks && txCountStable >= c.TxCountStableChecks {
			break
		}
	}

	slog.DebugContext(ctx, "scroll loop done, running full sweep", "count", len(seen))

	// unconditional deterministic sweep: top to bottom in half-viewport
	// steps, then one last bottom pass
	if err := c.Page.ScrollTo(ctx, 0); err != nil {
		return nil, err
	}
	if err := sleep(ctx, c.BottomWait); err != nil {
		return nil, err
	}
	metrics, err = c.Page.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	for pos := 0.0; pos <= metrics.ScrollHeight; pos += viewport * 0.5 {
		if err := c.Page.ScrollTo(ctx, pos); err != nil {
			return nil, err
		}
		if err := sleep(ctx, c.SweepWait); err != nil {
			return nil, err
		}
		if err := scan(); err != nil {
			return nil, err
		}
	}

	metrics, err = c.Page.Metrics(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Page.ScrollTo(ctx, metrics.ScrollHeight); err != nil {
		return nil, err
	}
	if err := sleep(ctx, c.FinalWait); err != nil {
		return nil, err
	}
	if err := scan(); err != nil {
		return nil, err
	}

	if err := c.Page.ScrollTo(ctx, 0); err != nil {
		return nil, err
	}

	return order, nil
}

func (c Collector) scan(ctx context.Context, seen map[string]sendtg.Summary) ([]sendtg.Summary, error) {
	html, err := c.Page.HTML(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return sendtg.CollectSummaries(ctx, doc, seen), nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
