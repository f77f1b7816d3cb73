package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol("  aapl "))
	assert.Equal(t, "005930.KS", NormalizeSymbol("005930.ks"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestIsValidSymbol(t *testing.T) {
	valid := []string{"A", "AAPL", "BRK0B", "005930.KS", "035720.KQ", "ABCDEFGHIJ"}
	for _, s := range valid {
		assert.True(t, IsValidSymbol(s), s)
	}

	invalid := []string{"", "aapl", "AA PL", "AAPL!", "ABCDEFGHIJK", "005930.KOSPI", ".KS"}
	for _, s := range invalid {
		assert.False(t, IsValidSymbol(s), s)
	}
}

func TestMarketFor(t *testing.T) {
	assert.Equal(t, MarketUS, MarketFor("AAPL"))
	assert.Equal(t, MarketUS, MarketFor("VOO"))
	assert.Equal(t, MarketKR, MarketFor("005930.KS"))
	assert.Equal(t, MarketKR, MarketFor("035720.KQ"))
	assert.Equal(t, MarketKR, MarketFor("035720.kq"))
	assert.Equal(t, MarketUS, MarketFor("SAP.DE"))
}
