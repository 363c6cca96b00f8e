package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardScore(t *testing.T) {
	assert.Equal(t, 50, Card{Symbol: SymbolChangeColor, Color: ColorWild}.Score(false))
	assert.Equal(t, 50, Card{Symbol: SymbolDraw4, Color: ColorWild}.Score(false))
	assert.Equal(t, 7, Card{Symbol: SymbolSeven, Color: ColorBlue}.Score(false))
	assert.Equal(t, 0, Card{Symbol: SymbolZero, Color: ColorRed}.Score(false))
	assert.Equal(t, 20, Card{Symbol: SymbolSkip, Color: ColorGreen}.Score(false))
	assert.Equal(t, 20, Card{Symbol: SymbolDraw2, Color: ColorYellow}.Score(true))

	// red zero of death only applies to the red zero
	assert.Equal(t, 125, Card{Symbol: SymbolZero, Color: ColorRed}.Score(true))
	assert.Equal(t, 0, Card{Symbol: SymbolZero, Color: ColorBlue}.Score(true))
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("red")
	require.True(t, ok)
	assert.Equal(t, ColorRed, c)

	_, ok = ParseColor("WILD")
	assert.False(t, ok, "wild is not a choosable color")
	_, ok = ParseColor("purple")
	assert.False(t, ok)
}

func TestStandardDeck(t *testing.T) {
	deck := StandardDeck()
	require.Len(t, deck, 108)

	counts := map[CardSymbol]int{}
	wild := 0
	ids := map[string]bool{}
	for _, c := range deck {
		counts[c.Symbol]++
		if c.IsWild() {
			wild++
		}
		ids[c.ID.String()] = true
		assert.True(t, ValidSymbol(c.Symbol), "unexpected symbol %s", c.Symbol)
	}
	assert.Len(t, ids, 108, "card identities must be unique")
	assert.Equal(t, 8, wild)
	assert.Equal(t, 4, counts[SymbolZero])
	assert.Equal(t, 8, counts[SymbolFive])
	assert.Equal(t, 8, counts[SymbolDraw2])
	assert.Equal(t, 4, counts[SymbolDraw4])
	assert.Equal(t, 4, counts[SymbolChangeColor])
}

func TestStandardDeckFor(t *testing.T) {
	assert.Len(t, StandardDeckFor(2, 7), 108)
	assert.Len(t, StandardDeckFor(14, 7), 108)
	assert.Len(t, StandardDeckFor(15, 7), 216)

	deck := StandardDeckFor(30, 7)
	require.Len(t, deck, 324)
	ids := map[string]bool{}
	for _, c := range deck {
		ids[c.ID.String()] = true
	}
	assert.Len(t, ids, len(deck), "copies get their own identities")
}
