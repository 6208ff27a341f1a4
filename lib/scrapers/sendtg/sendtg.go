// Package sendtg extracts structured transaction records from rendered
// app.send.tg pages. Extraction is pattern-based and best-effort over
// untrusted markup: anything that does not match is skipped or left empty,
// never an error for the whole page.
package sendtg

import (
	"regexp"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/sendtg")

const (
	Host    = "app.send.tg"
	BaseURL = "https://app.send.tg"

	// ListPath is the transaction history page all runs start from.
	ListPath = "/transactions"
	ListURL  = BaseURL + ListPath
)

// known transaction type slugs; anything else is carried through as-is
const (
	TxWithdrawal = "withdrawal"
	TxDeposit    = "deposit"
	TxCheck      = "check"
	TxMarket     = "market"
	TxInvoice    = "invoice"
)

// Amount is a single signed amount as rendered on the list page.
type Amount struct {
	Value      string
	Currency   string
	IsNegative bool
}

// Summary is one transaction as collected during the scan phase.
type Summary struct {
	ID      string
	TxType  string
	Type    string
	DateStr string
	TimeStr string
	// Amounts holds up to two entries in encounter order: a single
	// amount, or the send+receive pair of a swap.
	Amounts []Amount
	Href    string
}

// Details is the optional enrichment extracted from a detail page. Absent
// fields stay empty, they render as empty CSV cells downstream.
type Details struct {
	FeeAmount   string
	FeeCurrency string
	Network     string
	NetAmount   string
	ToAddress   string
	TxHash      string
}

// NeedsDetails reports whether a transaction type carries fee/network/hash
// data on its detail page.
func NeedsDetails(txType string) bool {
	return txType == TxWithdrawal || txType == TxDeposit
}

var detailPathRegex = regexp.MustCompile(`/transactions/(\w+)/([^?/]+)`)

// ParseDetailPath splits a detail-page href into its type slug and id.
func ParseDetailPath(href string) (txType, id string, ok bool) {
	groups := detailPathRegex.FindStringSubmatch(href)
	if len(groups) < 3 {
		return "", "", false
	}
	return groups[1], groups[2], true
}
