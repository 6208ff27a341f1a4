package sendtg

import "regexp"

// FieldExtractor pulls one labeled value out of rendered page text. The
// patterns form a priority list: the first one that matches wins, so a
// preferred label can fall back to alternates when the markup lacks it.
type FieldExtractor struct {
	Name     string
	Patterns []*regexp.Regexp
}

// Extract returns the submatches of the first matching pattern.
func (e FieldExtractor) Extract(text string) ([]string, bool) {
	for _, pattern := range e.Patterns {
		if groups := pattern.FindStringSubmatch(text); groups != nil {
			return groups[1:], true
		}
	}
	return nil, false
}

var feeField = FieldExtractor{
	Name: "fee",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)Fee\s*\n?\s*([0-9.]+)\s*([A-Z]+)`),
	},
}

var networkField = FieldExtractor{
	Name: "network",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)Network\s*\n?\s*([^\n]+)`),
	},
}

var netAmountField = FieldExtractor{
	Name: "net_amount",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)You sent\s*\n?\s*([0-9.]+)\s*([A-Z]+)`),
	},
}

// destination address: the To field, falling back to Recipient; explorer
// links are tried separately as a last resort
var toAddressField = FieldExtractor{
	Name: "to_address",
	Patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)To\s*\n?\s*([A-Za-z0-9_-]{20,})`),
		regexp.MustCompile(`(?i)Recipient\s*\n?\s*([A-Za-z0-9_-]{20,})`),
	},
}
