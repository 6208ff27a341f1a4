package capture

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sendtg-export/lib/browser"
	"sendtg-export/lib/scrapers/sendtg"
)

// slugs whose detail pages are worth capturing
var capturedTypes = map[string]bool{
	sendtg.TxWithdrawal: true,
	sendtg.TxDeposit:    true,
	sendtg.TxCheck:      true,
	sendtg.TxMarket:     true,
	sendtg.TxInvoice:    true,
}

// Watcher polls the attached tab and captures details whenever the user
// lands on a transaction detail page. Purely passive, it never navigates.
type Watcher struct {
	Page  browser.Page
	Store Store

	// PollInterval is how often the tab location is checked.
	PollInterval time.Duration
	// SettleDelay gives a freshly opened detail page time to render.
	SettleDelay time.Duration
}

// Run polls until ctx is cancelled. Extraction and store errors are logged
// and skipped, a capture miss is never fatal.
func (w Watcher) Run(ctx context.Context) {
	pollInterval := w.PollInterval
	if pollInterval == 0 {
		pollInterval = time.Second
	}
	settleDelay := w.SettleDelay
	if settleDelay == 0 {
		settleDelay = time.Second
	}

	lastID := ""
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		location, err := w.Page.Location(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to read tab location", "err", err)
			continue
		}
		txType, id, ok := sendtg.ParseDetailPath(location)
		if !ok || !capturedTypes[txType] {
			lastID = ""
			continue
		}
		if id == lastID {
			continue
		}

		// let the page finish rendering before scraping it
		select {
		case <-ctx.Done():
			return
		case <-time.After(settleDelay):
		}

		details, err := w.extract(ctx)
		if err != nil {
			slog.WarnContext(ctx, "failed to capture details", "id", id, "err", err)
			continue
		}
		lastID = id

		err = w.Store.Merge(ctx, id, txType, details)
		if err != nil {
			slog.WarnContext(ctx, "failed to store capture", "id", id, "err", err)
			continue
		}
		slog.InfoContext(ctx, "captured transaction details", "tx_type", txType, "id", id)
	}
}

func (w Watcher) extract(ctx context.Context) (sendtg.Details, error) {
	html, err := w.Page.HTML(ctx)
	if err != nil {
		return sendtg.Details{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sendtg.Details{}, err
	}
	return sendtg.ExtractDetails(ctx, doc), nil
}
