// internal/models/card.go
package models

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// CardSymbol is the face of a card: a numeral or one of the action symbols.
type CardSymbol string

// CardColor is the color of a card. Wild cards carry ColorWild until a color is chosen for them.
type CardColor string

const (
	SymbolZero        CardSymbol = "0"
	SymbolOne         CardSymbol = "1"
	SymbolTwo         CardSymbol = "2"
	SymbolThree       CardSymbol = "3"
	SymbolFour        CardSymbol = "4"
	SymbolFive        CardSymbol = "5"
	SymbolSix         CardSymbol = "6"
	SymbolSeven       CardSymbol = "7"
	SymbolEight       CardSymbol = "8"
	SymbolNine        CardSymbol = "9"
	SymbolDraw2       CardSymbol = "draw2"
	SymbolDraw4       CardSymbol = "draw4"
	SymbolSkip        CardSymbol = "skip"
	SymbolReverse     CardSymbol = "reverse"
	SymbolChangeColor CardSymbol = "changeColor"
)

const (
	ColorRed    CardColor = "RED"
	ColorGreen  CardColor = "GREEN"
	ColorBlue   CardColor = "BLUE"
	ColorYellow CardColor = "YELLOW"
	ColorWild   CardColor = "WILD"
)

// PlayableColors lists the colors a wild card can be turned into.
var PlayableColors = []CardColor{ColorRed, ColorGreen, ColorBlue, ColorYellow}

// Card is an immutable card identity. Which pile or hand holds it is tracked by the game, not the card.
type Card struct {
	ID     uuid.UUID  `json:"id"`
	Symbol CardSymbol `json:"symbol"`
	Color  CardColor  `json:"color"`
}

// NewCard builds a card with a fresh identity.
func NewCard(symbol CardSymbol, color CardColor) Card {
	return Card{ID: uuid.New(), Symbol: symbol, Color: color}
}

// IsWild reports whether the card is wild-colored (change-color and draw-4).
func (c Card) IsWild() bool {
	return c.Color == ColorWild
}

// Numeral returns the face value of a numeral card.
func (c Card) Numeral() (int, bool) {
	n, err := strconv.Atoi(string(c.Symbol))
	if err != nil || n < 0 || n > 9 {
		return 0, false
	}
	return n, true
}

// Score returns the card's value in a final tally.
// Wild cards are worth 50, numerals their face value and every other symbol 20.
// With redZero set, a red 0 is worth 125.
func (c Card) Score(redZero bool) int {
	if c.IsWild() {
		return 50
	}
	if n, ok := c.Numeral(); ok {
		if n == 0 && redZero && c.Color == ColorRed {
			return 125
		}
		return n
	}
	return 20
}

func (c Card) String() string {
	return string(c.Color) + ":" + string(c.Symbol)
}

// ParseColor parses a color a wild card may be turned into. ColorWild is rejected.
func ParseColor(s string) (CardColor, bool) {
	c := CardColor(strings.ToUpper(strings.TrimSpace(s)))
	for _, pc := range PlayableColors {
		if c == pc {
			return c, true
		}
	}
	return "", false
}

// ValidSymbol reports whether s names a known card symbol.
func ValidSymbol(s CardSymbol) bool {
	switch s {
	case SymbolDraw2, SymbolDraw4, SymbolSkip, SymbolReverse, SymbolChangeColor:
		return true
	}
	_, ok := Card{Symbol: s}.Numeral()
	return ok
}
