// Package amount renders raw on-chain amount strings as human-readable
// decimals. Amounts scraped off the site are usually already human-scale,
// but values pulled from explorer links or raw payloads can be fixed-point
// integers far past the float64-safe range, hence math/big.
package amount

import (
	"math/big"
	"regexp"
	"strings"

	"sendtg-export/lib/assets"
)

var longDigitsRegex = regexp.MustCompile(`^\d{10,}$`)

// ForDisplay prepares a value for UI output. Only values that are
// unmistakably integer-encoded (a long pure-digit run) get normalized;
// signed site-rendered amounts like "-10" or "+5" come back verbatim.
func ForDisplay(raw string, symbol string, reg assets.Registry) string {
	if longDigitsRegex.MatchString(raw) {
		return Normalize(raw, symbol, reg)
	}
	return raw
}

// Normalize converts a raw numeric string into a decimal amount using the
// asset's fixed-point scale. Strings that already look human-scale (contain
// a decimal point and are not a long pure-digit run) pass through unchanged.
// Normalize never fails: anything unparseable is returned as-is.
func Normalize(raw string, symbol string, reg assets.Registry) string {
	if raw == "" {
		return "0"
	}
	if strings.Contains(raw, ".") && !longDigitsRegex.MatchString(raw) {
		return raw
	}

	// fixed-point integer encoding: strip stray separators the same way
	// the site renders them, then divide by 10^decimals
	digits := strings.ReplaceAll(raw, ".", "")
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return raw
	}

	decimals := reg.Decimals(symbol)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)

	intPart, fracPart := new(big.Int).QuoRem(value, divisor, new(big.Int))
	if fracPart.Sign() == 0 {
		return intPart.String()
	}

	frac := new(big.Int).Abs(fracPart).String()
	if pad := decimals - len(frac); pad > 0 {
		frac = strings.Repeat("0", pad) + frac
	}
	frac = strings.TrimRight(frac, "0")
	return intPart.String() + "." + frac
}
