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

// Enricher visits each transaction's detail page to pull fee, network,
// destination address and hash. Only withdrawals and deposits are visited,
// nothing else carries those fields.
type Enricher struct {
	Page browser.Page
	// BaseURL prefixes the relative hrefs collected during the scan.
	BaseURL string
	// SettleDelay is how long a freshly navigated page gets to render
	// before extraction. There are no retries, this is the only slack.
	SettleDelay time.Duration
}

const defaultSettleDelay = 1500 * time.Millisecond

// Enrich fetches details sequentially and returns them keyed by id. A
// failure on one transaction logs it and records empty details, the rest
// of the batch continues. Cancelling ctx stops before the next item; the
// caller distinguishes that via ctx.Err. Whatever happens, the tab is
// pointed back at the transaction list before returning.
func (e Enricher) Enrich(ctx context.Context, txs []sendtg.Summary, onProgress func(current, total int)) (map[string]sendtg.Details, error) {
	if e.SettleDelay == 0 {
		e.SettleDelay = defaultSettleDelay
	}
	if onProgress == nil {
		onProgress = func(int, int) {}
	}

	details := map[string]sendtg.Details{}
	var stopped error

	for i, tx := range txs {
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}
		onProgress(i+1, len(txs))

		d, err := e.fetchOne(ctx, tx)
		if err != nil {
			if ctx.Err() != nil {
				stopped = ctx.Err()
				break
			}
			slog.WarnContext(ctx, "failed to fetch details", "id", tx.ID, "err", err)
			details[tx.ID] = sendtg.Details{}
			continue
		}
		details[tx.ID] = d
		slog.DebugContext(ctx, "fetched details", "tx_type", tx.TxType, "id", tx.ID)
	}

	// return to the list page even after a stop, the tab should never be
	// left parked on a detail page
	navCtx := ctx
	if navCtx.Err() != nil {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
	}
	if err := e.Page.Navigate(navCtx, e.BaseURL+sendtg.ListPath); err != nil {
		slog.WarnContext(ctx, "failed to navigate back to transaction list", "err", err)
	}

	return details, stopped
}

func (e Enricher) fetchOne(ctx context.Context, tx sendtg.Summary) (sendtg.Details, error) {
	err := e.Page.Navigate(ctx, e.BaseURL+tx.Href)
	if err != nil {
		return sendtg.Details{}, err
	}
	if err := sleep(ctx, e.SettleDelay); err != nil {
		return sendtg.Details{}, err
	}

	html, err := e.Page.HTML(ctx)
	if err != nil {
		return sendtg.Details{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return sendtg.Details{}, err
	}
	return sendtg.ExtractDetails(ctx, doc), nil
}
