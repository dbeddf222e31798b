package chain_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/chain"
	wserr "github.com/halverson/walletsync/pkg/errors"
)

func wei(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad test amount: " + s)
	}
	return n
}

func TestParseDecimalAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"whole number", "1", "1000000000000000000"},
		{"decimal", "1.5", "1500000000000000000"},
		{"small fraction", "0.000000000000000001", "1"},
		{"leading dot", ".5", "500000000000000000"},
		{"zero", "0", "0"},
		{"long fraction truncated", "0.1234567890123456789999", "123456789012345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := chain.ParseDecimalAmount(tt.input, chain.Decimals, wserr.ErrInvalidInput)
			require.NoError(t, err)
			assert.Equal(t, wei(tt.expected), got)
		})
	}
}

func TestParseDecimalAmountInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"negative", "-1"},
		{"two dots", "1.2.3"},
		{"letters", "abc"},
		{"letters in fraction", "1.2x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := chain.ParseDecimalAmount(tt.input, chain.Decimals, wserr.ErrInvalidInput)
			require.ErrorIs(t, err, wserr.ErrInvalidInput)
		})
	}
}

func TestFormatDecimalAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    *big.Int
		expected string
	}{
		{"one eth", wei("1000000000000000000"), "1.0"},
		{"one and a half", wei("1500000000000000000"), "1.5"},
		{"nil", nil, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, chain.FormatDecimalAmount(tt.input, chain.Decimals))
		})
	}
}

func TestFormatFixedAmountTruncates(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    *big.Int
		expected string
	}{
		// 1.23456 ETH must truncate, not round, to 1.2345
		{"truncation not rounding", wei("1234560000000000000"), "1.2345"},
		{"exact places", wei("1234500000000000000"), "1.2345"},
		{"padding", wei("1500000000000000000"), "1.5000"},
		{"whole", wei("2000000000000000000"), "2.0000"},
		{"zero", big.NewInt(0), "0.0000"},
		{"dust below display precision", big.NewInt(1), "0.0000"},
		{"nil", nil, "0.0000"},
		{"high nines stay truncated", wei("999999999999999999"), "0.9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, chain.FormatFixedAmount(tt.input, chain.Decimals, chain.BalancePlaces))
		})
	}
}

func TestFormatBalance(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1.2345", chain.FormatBalance(wei("1234560000000000000")))
	assert.Equal(t, "0.0000", chain.FormatBalance(big.NewInt(0)))
}

func TestFormatFixedAmountZeroPlaces(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1", chain.FormatFixedAmount(wei("1999999999999999999"), chain.Decimals, 0))
}
