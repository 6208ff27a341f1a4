package assets

// Registry holds the per-asset lookup tables used by amount conversion and
// the buy/sell row classification. The zero value is not useful, construct
// one with Default or FromConfig.
type Registry struct {
	decimals map[string]int
	crypto   map[string]bool
	fiat     map[string]bool
}

// DefaultDecimals is used for any asset missing from the decimals table.
const DefaultDecimals = 18

var defaultDecimals = map[string]int{
	"USDT": 18,
	"TON":  9,
	"BTC":  8,
	"ETH":  18,
	"USDC": 18,
	"NOT":  9,
	"DOGS": 9,
	"LTC":  8,
}

var defaultCrypto = []string{"TON", "USDT", "BTC", "ETH", "LTC", "USDC", "NOT"}

var defaultFiat = []string{"RUB", "UAH", "USD", "EUR", "KZT"}

// Config is the json5-facing shape of the registry. Entries are merged on
// top of the built-in tables, so new assets are configuration, not code.
type Config struct {
	Decimals map[string]int `json:"decimals"`
	Crypto   []string       `json:"crypto"`
	Fiat     []string       `json:"fiat"`
}

func Default() Registry {
	return FromConfig(Config{})
}

func FromConfig(cfg Config) Registry {
	r := Registry{
		decimals: map[string]int{},
		crypto:   map[string]bool{},
		fiat:     map[string]bool{},
	}
	for sym, d := range defaultDecimals {
		r.decimals[sym] = d
	}
	for sym, d := range cfg.Decimals {
		r.decimals[sym] = d
	}
	for _, sym := range append(defaultCrypto, cfg.Crypto...) {
		r.crypto[sym] = true
	}
	for _, sym := range append(defaultFiat, cfg.Fiat...) {
		r.fiat[sym] = true
	}
	return r
}

// Decimals returns the number of fixed-point decimal places for an asset
// symbol, falling back to DefaultDecimals for unknown assets.
func (r Registry) Decimals(symbol string) int {
	if d, ok := r.decimals[symbol]; ok {
		return d
	}
	return DefaultDecimals
}

func (r Registry) IsCrypto(symbol string) bool {
	return r.crypto[symbol]
}

func (r Registry) IsFiat(symbol string) bool {
	return r.fiat[symbol]
}
