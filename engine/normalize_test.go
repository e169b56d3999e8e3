package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	t.Parallel()

	testTable := []struct {
		name     string
		title    string
		expected string
	}{
		{"aliased crypto", "Tether TRC20 USDT", "USDTTRC20"},
		{"aliased coin", "Bitcoin BTC", "BTC"},
		{"aliased fiat rail", "Zelle USD", "ZELLEUSD"},
		{"aliased cyrillic rail", "Сбербанк RUB", "SBERRUB"},
		{"aliased bank account", "Банковский счет Wire Transfer USD", "WIREUSD"},
		{"unmapped falls back to first token", "Litecoin LTC", "Litecoin"},
		{"single token passes through", "BTC", "BTC"},
		{"empty title", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, testCase := range testTable {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, NormalizeCurrency(testCase.title))
		})
	}
}
