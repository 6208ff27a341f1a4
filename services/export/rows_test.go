package export

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"sendtg-export/lib/assets"
	"sendtg-export/lib/scrapers/sendtg"
)

func tx(id, txType, display, date, tm string, amounts ...sendtg.Amount) sendtg.Summary {
	return sendtg.Summary{
		ID:      id,
		TxType:  txType,
		Type:    display,
		DateStr: date,
		TimeStr: tm,
		Amounts: amounts,
		Href:    "/transactions/" + txType + "/" + id,
	}
}

func amt(value, currency string) sendtg.Amount {
	return sendtg.Amount{
		Value:      value,
		Currency:   currency,
		IsNegative: len(value) > 0 && value[0] == '-',
	}
}

func TestBuildKoinlyRowWithdrawal(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("w1", "withdrawal", "Withdrawal", "15 Mar 2024", "09:30", amt("-10", "TON"))},
		map[string]sendtg.Details{"w1": {
			NetAmount: "9.5", FeeAmount: "0.5", FeeCurrency: "TON",
			Network: "TON", ToAddress: "EQAbc", TxHash: "hash1",
		}},
		assets.Default(),
	)

	require.Len(t, rows, 1)
	expected := KoinlyRow{
		Date:         "2024-03-15 09:30 UTC",
		SentAmount:   "9.5",
		SentCurrency: "TON",
		FeeAmount:    "0.5",
		FeeCurrency:  "TON",
		Label:        "transfer",
		Description:  "Withdrawal | Network: TON | To: EQAbc",
		TxHash:       "hash1",
	}
	if diff := cmp.Diff(expected, rows[0]); diff != "" {
		t.Fatal(diff)
	}
}

func TestBuildKoinlyRowWithdrawalNoNetAmount(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("w1", "withdrawal", "Withdrawal", "15 Mar 2024", "09:30", amt("-10", "TON"))},
		nil,
		assets.Default(),
	)
	// without enrichment the display amount is all there is
	require.Equal(t, "10", rows[0].SentAmount)
	require.Equal(t, "transfer", rows[0].Label)
}

func TestBuildKoinlyRowBuy(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("b1", "market", "Buy TON", "1 Feb 2024", "12:00",
			amt("+100", "TON"), amt("-500", "RUB"))},
		nil,
		assets.Default(),
	)

	require.Equal(t, "100", rows[0].ReceivedAmount)
	require.Equal(t, "TON", rows[0].ReceivedCurrency)
	require.Equal(t, "500", rows[0].SentAmount)
	require.Equal(t, "RUB", rows[0].SentCurrency)
	require.Empty(t, rows[0].Label)
}

func TestBuildKoinlyRowSell(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("s1", "market", "Sell TON", "1 Feb 2024", "12:00",
			amt("-100", "TON"), amt("+500", "RUB"))},
		nil,
		assets.Default(),
	)

	require.Equal(t, "100", rows[0].SentAmount)
	require.Equal(t, "TON", rows[0].SentCurrency)
	require.Equal(t, "500", rows[0].ReceivedAmount)
	require.Equal(t, "RUB", rows[0].ReceivedCurrency)
}

func TestBuildKoinlyRowSwap(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("x1", "swap", "Swap", "2 Feb 2024", "13:00",
			amt("-5", "TON"), amt("+20", "USDT"))},
		nil,
		assets.Default(),
	)

	require.Equal(t, "5", rows[0].SentAmount)
	require.Equal(t, "TON", rows[0].SentCurrency)
	require.Equal(t, "20", rows[0].ReceivedAmount)
	require.Equal(t, "USDT", rows[0].ReceivedCurrency)
}

func TestBuildKoinlyRowCheckAndInvoice(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{
			tx("c1", "check", "Check", "3 Feb 2024", "10:00", amt("+1", "TON")),
			tx("c2", "check", "Check", "3 Feb 2024", "11:00", amt("-1", "TON")),
			tx("i1", "invoice", "Invoice", "3 Feb 2024", "12:00", amt("-2", "USDT")),
		},
		nil,
		assets.Default(),
	)

	require.Equal(t, "1", rows[0].ReceivedAmount)
	require.Equal(t, "gift", rows[0].Label)
	require.Equal(t, "1", rows[1].SentAmount)
	require.Equal(t, "gift", rows[1].Label)
	require.Equal(t, "2", rows[2].SentAmount)
	require.Equal(t, "cost", rows[2].Label)
}

func TestBuildKoinlyRowDepositTextForcesReceived(t *testing.T) {
	// a check whose display text mentions deposit counts as received even
	// with a negative sign
	rows := BuildKoinlyRows(
		[]sendtg.Summary{tx("c1", "check", "Deposit check", "3 Feb 2024", "10:00", amt("-1", "TON"))},
		nil,
		assets.Default(),
	)
	require.Equal(t, "1", rows[0].ReceivedAmount)
	require.Empty(t, rows[0].SentAmount)
}

func TestBuildKoinlyRowUnknownSlugBySign(t *testing.T) {
	rows := BuildKoinlyRows(
		[]sendtg.Summary{
			tx("u1", "promo", "Promo", "4 Feb 2024", "10:00", amt("+3", "NOT")),
			tx("u2", "promo", "Promo", "4 Feb 2024", "11:00", amt("-3", "NOT")),
		},
		nil,
		assets.Default(),
	)
	require.Equal(t, "3", rows[0].ReceivedAmount)
	require.Empty(t, rows[0].Label)
	require.Equal(t, "3", rows[1].SentAmount)
}

func TestRowsSortedByDate(t *testing.T) {
	txs := []sendtg.Summary{
		tx("late", "deposit", "Deposit", "2 Jan 2024", "10:00", amt("+1", "TON")),
		tx("early", "deposit", "Deposit", "1 Jan 2024", "09:00", amt("+1", "TON")),
	}

	raw := BuildRawRows(txs, nil)
	require.Equal(t, "early", raw[0].ID)
	require.Equal(t, "late", raw[1].ID)

	koinly := BuildKoinlyRows(txs, nil, assets.Default())
	require.Equal(t, "2024-01-01 09:00 UTC", koinly[0].Date)
	require.Equal(t, "2024-01-02 10:00 UTC", koinly[1].Date)
}

func TestBuildRawRowsVerbatim(t *testing.T) {
	rows := BuildRawRows(
		[]sendtg.Summary{tx("w1", "withdrawal", "Withdrawal", "15 Mar 2024", "09:30",
			amt("-10", "TON"), amt("+1", "USDT"))},
		map[string]sendtg.Details{"w1": {
			FeeAmount: "0.5", FeeCurrency: "TON", NetAmount: "9.5",
			Network: "TON", ToAddress: "EQAbc", TxHash: "hash1",
		}},
	)

	expected := RawRow{
		ID:          "w1",
		Date:        "2024-03-15 09:30 UTC",
		Type:        "Withdrawal",
		TxType:      "withdrawal",
		Amount1:     "-10",
		Currency1:   "TON",
		Amount2:     "+1",
		Currency2:   "USDT",
		FeeAmount:   "0.5",
		FeeCurrency: "TON",
		NetAmount:   "9.5",
		Network:     "TON",
		ToAddress:   "EQAbc",
		TxHash:      "hash1",
		URL:         "https://app.send.tg/transactions/withdrawal/w1",
	}
	if diff := cmp.Diff(expected, rows[0]); diff != "" {
		t.Fatal(diff)
	}
}
