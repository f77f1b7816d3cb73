package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserAggregate(t *testing.T) {
	aggregate := NewUserAggregate("alice", []string{"Long Term", "Short Term", "Scout"})

	assert.Equal(t, "alice", aggregate.UserID)
	assert.NotNil(t, aggregate.Watchlist)
	assert.Empty(t, aggregate.Watchlist)
	require.Len(t, aggregate.Portfolios, 3)

	ids := map[string]bool{}
	for _, p := range aggregate.Portfolios {
		assert.NotEmpty(t, p.ID)
		assert.False(t, ids[p.ID], "portfolio ids must be unique")
		ids[p.ID] = true
		assert.Empty(t, p.Holdings)
	}
}

func TestFindWatchlistEntry(t *testing.T) {
	aggregate := NewUserAggregate("alice", []string{"A", "B", "C"})
	aggregate.Watchlist = []WatchlistEntry{
		{Symbol: "AAPL", DisplayOrder: 0},
		{Symbol: "MSFT", DisplayOrder: 1},
	}

	entry, idx := aggregate.FindWatchlistEntry("MSFT")
	require.NotNil(t, entry)
	assert.Equal(t, 1, idx)

	entry, idx = aggregate.FindWatchlistEntry("GOOG")
	assert.Nil(t, entry)
	assert.Equal(t, -1, idx)
}

func TestFindPortfolioAndHolding(t *testing.T) {
	aggregate := NewUserAggregate("alice", []string{"A", "B", "C"})
	target := &aggregate.Portfolios[1]
	target.Holdings = append(target.Holdings, Holding{ID: "h1", Symbol: "AAPL"})

	pf, idx := aggregate.FindPortfolio(target.ID)
	require.NotNil(t, pf)
	assert.Equal(t, 1, idx)
	assert.True(t, pf.HasSymbol("AAPL"))
	assert.False(t, pf.HasSymbol("MSFT"))

	holding, hidx := pf.FindHolding("h1")
	require.NotNil(t, holding)
	assert.Equal(t, 0, hidx)

	_, hidx = pf.FindHolding("h2")
	assert.Equal(t, -1, hidx)

	_, idx = aggregate.FindPortfolio("missing")
	assert.Equal(t, -1, idx)
}

func TestWatchlistSymbols(t *testing.T) {
	aggregate := NewUserAggregate("alice", []string{"A", "B", "C"})
	aggregate.Watchlist = []WatchlistEntry{
		{Symbol: "AAPL"},
		{Symbol: "005930.KS"},
	}
	assert.Equal(t, []string{"AAPL", "005930.KS"}, aggregate.WatchlistSymbols())
}
