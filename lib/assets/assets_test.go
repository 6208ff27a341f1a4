package assets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	reg := Default()

	require.Equal(t, 9, reg.Decimals("TON"))
	require.Equal(t, 8, reg.Decimals("BTC"))
	require.Equal(t, DefaultDecimals, reg.Decimals("UNKNOWN"))

	require.True(t, reg.IsCrypto("TON"))
	require.True(t, reg.IsFiat("RUB"))
	require.False(t, reg.IsCrypto("RUB"))
	require.False(t, reg.IsFiat("TON"))
	require.False(t, reg.IsCrypto("UNKNOWN"))
}

func TestFromConfigMergesOverDefaults(t *testing.T) {
	reg := FromConfig(Config{
		Decimals: map[string]int{"TON": 6, "PEPE": 18},
		Crypto:   []string{"PEPE"},
		Fiat:     []string{"GBP"},
	})

	// overrides win, the rest of the defaults survive
	require.Equal(t, 6, reg.Decimals("TON"))
	require.Equal(t, 18, reg.Decimals("PEPE"))
	require.Equal(t, 8, reg.Decimals("BTC"))

	require.True(t, reg.IsCrypto("PEPE"))
	require.True(t, reg.IsCrypto("TON"))
	require.True(t, reg.IsFiat("GBP"))
	require.True(t, reg.IsFiat("USD"))
}
