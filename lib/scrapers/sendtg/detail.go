package sendtg

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sendtg-export/lib/htmlutil"
)

// blockchain explorers the site links out to; hrefs are matched by
// substring the way the site embeds them
var explorerHosts = []string{
	"tonviewer", "tonscan", "bscscan", "etherscan", "tronscan",
}

var explorerAddressRegex = regexp.MustCompile(`address/([A-Za-z0-9_-]{20,})`)
var explorerHashRegex = regexp.MustCompile(`(?:transaction|tx)/([a-zA-Z0-9:_-]{20,})`)
var leadingNonLetters = regexp.MustCompile(`^[^a-zA-Z]+`)

// ExtractDetails scans a rendered detail page for fee, network, net amount,
// destination address and transaction hash. Every field is optional;
// whatever fails to match stays empty.
func ExtractDetails(ctx context.Context, doc *goquery.Document) Details {
	_, span := tracer.Start(ctx, "ExtractDetails")
	defer span.End()

	var details Details

	body := doc.Find("body")
	if len(body.Nodes) == 0 {
		return details
	}
	text := strings.Join(htmlutil.Lines(body.Nodes[0]), "\n")

	if groups, ok := feeField.Extract(text); ok {
		details.FeeAmount = groups[0]
		details.FeeCurrency = groups[1]
	}
	if groups, ok := networkField.Extract(text); ok {
		details.Network = leadingNonLetters.ReplaceAllString(strings.TrimSpace(groups[0]), "")
	}
	if groups, ok := netAmountField.Extract(text); ok {
		details.NetAmount = groups[0]
	}
	if groups, ok := toAddressField.Extract(text); ok {
		details.ToAddress = groups[0]
	}

	links := explorerLinks(doc)

	if details.ToAddress == "" {
		for _, href := range links {
			if groups := explorerAddressRegex.FindStringSubmatch(href); groups != nil {
				details.ToAddress = groups[1]
				break
			}
		}
	}

	// first explorer link with a transaction path segment wins
	for _, href := range links {
		if groups := explorerHashRegex.FindStringSubmatch(href); groups != nil {
			details.TxHash = groups[1]
			break
		}
	}

	return details
}

func explorerLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, anchor *goquery.Selection) {
		href := anchor.AttrOr("href", "")
		for _, host := range explorerHosts {
			if strings.Contains(href, host) {
				links = append(links, href)
				return
			}
		}
	})
	return links
}
