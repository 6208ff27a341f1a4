package export

import (
	"sort"
	"strings"

	"sendtg-export/lib/assets"
	"sendtg-export/lib/dates"
	"sendtg-export/lib/scrapers/sendtg"
)

// RawRow is the lossless export schema: everything collected, no
// accounting interpretation.
type RawRow struct {
	ID          string
	Date        string
	Type        string
	TxType      string
	Amount1     string
	Currency1   string
	Amount2     string
	Currency2   string
	FeeAmount   string
	FeeCurrency string
	NetAmount   string
	Network     string
	ToAddress   string
	TxHash      string
	URL         string
}

func (r RawRow) record() []string {
	return []string{
		r.ID, r.Date, r.Type, r.TxType,
		r.Amount1, r.Currency1, r.Amount2, r.Currency2,
		r.FeeAmount, r.FeeCurrency, r.NetAmount,
		r.Network, r.ToAddress, r.TxHash, r.URL,
	}
}

// KoinlyRow is the tax-software schema: each transaction classified as
// sent and/or received with a behavioral label. NetWorth columns are part
// of the format but never populated.
type KoinlyRow struct {
	Date             string
	SentAmount       string
	SentCurrency     string
	ReceivedAmount   string
	ReceivedCurrency string
	FeeAmount        string
	FeeCurrency      string
	NetWorthAmount   string
	NetWorthCurrency string
	Label            string
	Description      string
	TxHash           string
}

func (r KoinlyRow) record() []string {
	return []string{
		r.Date, r.SentAmount, r.SentCurrency,
		r.ReceivedAmount, r.ReceivedCurrency,
		r.FeeAmount, r.FeeCurrency,
		r.NetWorthAmount, r.NetWorthCurrency,
		r.Label, r.Description, r.TxHash,
	}
}

// BuildRawRows maps every transaction to a raw row, merging in whatever
// enrichment exists, sorted ascending by date.
func BuildRawRows(txs []sendtg.Summary, details map[string]sendtg.Details) []RawRow {
	rows := make([]RawRow, 0, len(txs))
	for _, tx := range txs {
		d := details[tx.ID]

		row := RawRow{
			ID:          tx.ID,
			Date:        dates.FromSite(tx.DateStr, tx.TimeStr),
			Type:        tx.Type,
			TxType:      tx.TxType,
			FeeAmount:   d.FeeAmount,
			FeeCurrency: d.FeeCurrency,
			NetAmount:   d.NetAmount,
			Network:     d.Network,
			ToAddress:   d.ToAddress,
			TxHash:      d.TxHash,
			URL:         sendtg.BaseURL + tx.Href,
		}
		if len(tx.Amounts) > 0 {
			row.Amount1 = tx.Amounts[0].Value
			row.Currency1 = tx.Amounts[0].Currency
		}
		if len(tx.Amounts) > 1 {
			row.Amount2 = tx.Amounts[1].Value
			row.Currency2 = tx.Amounts[1].Currency
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

// BuildKoinlyRows classifies every transaction into the Koinly accounting
// shape, sorted ascending by date.
func BuildKoinlyRows(txs []sendtg.Summary, details map[string]sendtg.Details, reg assets.Registry) []KoinlyRow {
	rows := make([]KoinlyRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, buildKoinlyRow(tx, details[tx.ID], reg))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})
	return rows
}

func buildKoinlyRow(tx sendtg.Summary, d sendtg.Details, reg assets.Registry) KoinlyRow {
	row := KoinlyRow{
		Date:        dates.FromSite(tx.DateStr, tx.TimeStr),
		FeeAmount:   d.FeeAmount,
		FeeCurrency: d.FeeCurrency,
		Description: describe(tx, d),
		TxHash:      d.TxHash,
	}

	typeText := strings.ToLower(tx.Type)

	switch {
	case strings.Contains(typeText, "swap") || strings.Contains(typeText, "exchange"):
		if sent, ok := findAmount(tx.Amounts, func(a sendtg.Amount) bool { return a.IsNegative }); ok {
			row.SentAmount = stripSign(sent.Value)
			row.SentCurrency = sent.Currency
		}
		if received, ok := findAmount(tx.Amounts, func(a sendtg.Amount) bool { return !a.IsNegative }); ok {
			row.ReceivedAmount = stripSign(received.Value)
			row.ReceivedCurrency = received.Currency
		}

	case strings.Contains(typeText, "buy") || strings.Contains(typeText, "sell"):
		crypto, hasCrypto := findAmount(tx.Amounts, func(a sendtg.Amount) bool { return reg.IsCrypto(a.Currency) })
		fiat, hasFiat := findAmount(tx.Amounts, func(a sendtg.Amount) bool { return reg.IsFiat(a.Currency) })

		buying := strings.Contains(typeText, "buy")
		if hasCrypto {
			if buying {
				row.ReceivedAmount = stripSign(crypto.Value)
				row.ReceivedCurrency = crypto.Currency
			} else {
				row.SentAmount = stripSign(crypto.Value)
				row.SentCurrency = crypto.Currency
			}
		}
		if hasFiat {
			if buying {
				row.SentAmount = stripSign(fiat.Value)
				row.SentCurrency = fiat.Currency
			} else {
				row.ReceivedAmount = stripSign(fiat.Value)
				row.ReceivedCurrency = fiat.Currency
			}
		}

	case len(tx.Amounts) > 0:
		amt := tx.Amounts[0]
		value := stripSign(amt.Value)
		received := !amt.IsNegative || strings.Contains(typeText, "deposit")

		switch tx.TxType {
		case sendtg.TxWithdrawal:
			// the detail page's post-fee amount is more accurate than
			// the list's display amount
			row.SentAmount = value
			if d.NetAmount != "" {
				row.SentAmount = d.NetAmount
			}
			row.SentCurrency = amt.Currency
			row.Label = "transfer"
		case sendtg.TxDeposit:
			row.ReceivedAmount = value
			row.ReceivedCurrency = amt.Currency
			row.Label = "transfer"
		case sendtg.TxCheck:
			if received {
				row.ReceivedAmount = value
				row.ReceivedCurrency = amt.Currency
			} else {
				row.SentAmount = value
				row.SentCurrency = amt.Currency
			}
			row.Label = "gift"
		case sendtg.TxInvoice:
			row.SentAmount = value
			row.SentCurrency = amt.Currency
			row.Label = "cost"
		default:
			if received {
				row.ReceivedAmount = value
				row.ReceivedCurrency = amt.Currency
			} else {
				row.SentAmount = value
				row.SentCurrency = amt.Currency
			}
		}
	}

	return row
}

func describe(tx sendtg.Summary, d sendtg.Details) string {
	description := tx.Type
	if d.Network != "" {
		description += " | Network: " + d.Network
	}
	if d.ToAddress != "" {
		description += " | To: " + d.ToAddress
	}
	return description
}

func findAmount(amounts []sendtg.Amount, match func(sendtg.Amount) bool) (sendtg.Amount, bool) {
	for _, a := range amounts {
		if match(a) {
			return a, true
		}
	}
	return sendtg.Amount{}, false
}

func stripSign(value string) string {
	return strings.TrimLeft(value, "+-")
}
