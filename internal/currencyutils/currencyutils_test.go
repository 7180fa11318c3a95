package currencyutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "plain decimal", input: "1234.56", expected: "1234.56"},
		{name: "decimal comma", input: "1234,56", expected: "1234.56"},
		{name: "french thousands with space", input: "1 234,56", expected: "1234.56"},
		{name: "european format", input: "1.234,56", expected: "1234.56"},
		{name: "us format", input: "1,234.56", expected: "1234.56"},
		{name: "comma as thousand separator", input: "1,234", expected: "1234"},
		{name: "euro symbol", input: "€1234,56", expected: "1234.56"},
		{name: "currency code suffix", input: "1234.56 EUR", expected: "1234.56"},
		{name: "currency code prefix", input: "EUR 1234,56", expected: "1234.56"},
		{name: "exponent digits survive code stripping", input: "1.5E2", expected: "150"},
		{name: "negative with comma", input: "-50,00", expected: "-50"},
		{name: "apostrophe thousands", input: "1'234.56", expected: "1234.56"},
		{name: "non-breaking space", input: "1 234,56", expected: "1234.56"},
		{name: "empty parses to zero", input: "", expected: "0"},
		{name: "blank parses to zero", input: "   ", expected: "0"},
		{name: "garbage", input: "abc", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.String())
		})
	}
}

func TestFormatAmount(t *testing.T) {
	amount, err := ParseAmount("1234,5")
	require.NoError(t, err)
	assert.Equal(t, "1234.50", FormatAmount(amount))
}
