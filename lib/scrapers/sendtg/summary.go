package sendtg

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"

	"sendtg-export/lib/htmlutil"
)

var dateTimeRegex = regexp.MustCompile(`(\d{1,2}\s+\w{3}\s+\d{4})\s+(\d{2}:\d{2})`)
var amountRegex = regexp.MustCompile(`([+-]?[\d.,]+)\s*([A-Z]{2,})`)

// CollectSummaries scans a rendered transaction list document for detail
// anchors and adds every transaction not already present in `into`, keyed
// by id. It returns the newly added summaries in encounter order, so
// repeated scans over a growing page are additive and idempotent.
func CollectSummaries(ctx context.Context, doc *goquery.Document, into map[string]Summary) []Summary {
	ctx, span := tracer.Start(ctx, "CollectSummaries")
	defer span.End()

	var added []Summary
	doc.Find(`a[href*="/transactions/"]`).Each(func(_ int, anchor *goquery.Selection) {
		href := anchor.AttrOr("href", "")
		txType, id, ok := ParseDetailPath(href)
		if !ok {
			return
		}
		if _, seen := into[id]; seen {
			return
		}
		if len(anchor.Nodes) == 0 {
			return
		}

		summary := parseSummaryLines(htmlutil.Lines(anchor.Nodes[0]))
		summary.ID = id
		summary.TxType = txType
		summary.Href = href
		if summary.Type == "" {
			summary.Type = txType
		}

		into[id] = summary
		added = append(added, summary)
	})

	span.SetAttributes(attribute.Int("added", len(added)))
	return added
}

// parseSummaryLines applies the date and amount patterns to each visible
// line of one list item. Fields can repeat across lines; the last date
// match wins, amounts are kept in encounter order capped at two.
func parseSummaryLines(lines []string) Summary {
	var summary Summary
	if len(lines) > 0 {
		summary.Type = lines[0]
	}

	for _, line := range lines {
		if groups := dateTimeRegex.FindStringSubmatch(line); groups != nil {
			summary.DateStr = groups[1]
			summary.TimeStr = groups[2]
		}
		if groups := amountRegex.FindStringSubmatch(line); groups != nil && len(summary.Amounts) < 2 {
			summary.Amounts = append(summary.Amounts, Amount{
				Value:      strings.ReplaceAll(groups[1], ",", ""),
				Currency:   groups[2],
				IsNegative: strings.HasPrefix(groups[1], "-"),
			})
		}
	}
	return summary
}
