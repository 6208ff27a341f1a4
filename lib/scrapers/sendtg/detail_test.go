package sendtg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const withdrawalDetailFixture = `
<html><body>
	<div>Withdrawal</div>
	<div>You sent</div>
	<div>9.5 TON</div>
	<div>Fee</div>
	<div>0.5 TON</div>
	<div>Network</div>
	<div>- The Open Network</div>
	<div>To</div>
	<div>EQAbcdefghijklmnopqrstuv123456</div>
	<a href="https://tonviewer.com/transaction/abcdef1234567890abcdef1234567890">view</a>
	<a href="https://tonviewer.com/transaction/ffffff1234567890abcdef1234567890">second</a>
</body></html>`

func TestExtractDetails(t *testing.T) {
	doc := parseDoc(t, withdrawalDetailFixture)
	details := ExtractDetails(context.Background(), doc)

	require.Equal(t, "9.5", details.NetAmount)
	require.Equal(t, "0.5", details.FeeAmount)
	require.Equal(t, "TON", details.FeeCurrency)
	// leading punctuation is stripped off the network name
	require.Equal(t, "The Open Network", details.Network)
	require.Equal(t, "EQAbcdefghijklmnopqrstuv123456", details.ToAddress)
	// first explorer link with a transaction segment wins
	require.Equal(t, "abcdef1234567890abcdef1234567890", details.TxHash)
}

func TestExtractDetailsRecipientFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div>Recipient</div>
		<div>UQZyxwvutsrqponmlkjihg987654</div>
	</body></html>`)
	details := ExtractDetails(context.Background(), doc)
	require.Equal(t, "UQZyxwvutsrqponmlkjihg987654", details.ToAddress)
}

func TestExtractDetailsExplorerAddressFallback(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<div>Deposit</div>
		<a href="https://tonscan.org/address/EQexplorerderivedaddress001122">addr</a>
	</body></html>`)
	details := ExtractDetails(context.Background(), doc)
	require.Equal(t, "EQexplorerderivedaddress001122", details.ToAddress)
	require.Empty(t, details.TxHash)
}

func TestExtractDetailsEmptyPage(t *testing.T) {
	doc := parseDoc(t, `<html><body><div>nothing useful here</div></body></html>`)
	details := ExtractDetails(context.Background(), doc)
	require.Equal(t, Details{}, details)
}
