package models

// StandardDeck returns the 108-card base deck: per color one 0 and two each of 1-9,
// skip, reverse and draw-2, plus four wild change-color and four wild draw-4 cards.
func StandardDeck() []Card {
	deck := make([]Card, 0, 108)
	numerals := []CardSymbol{
		SymbolOne, SymbolTwo, SymbolThree, SymbolFour, SymbolFive,
		SymbolSix, SymbolSeven, SymbolEight, SymbolNine,
	}
	actions := []CardSymbol{SymbolSkip, SymbolReverse, SymbolDraw2}

	for _, color := range PlayableColors {
		deck = append(deck, NewCard(SymbolZero, color))
		for i := 0; i < 2; i++ {
			for _, s := range numerals {
				deck = append(deck, NewCard(s, color))
			}
			for _, s := range actions {
				deck = append(deck, NewCard(s, color))
			}
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, NewCard(SymbolChangeColor, ColorWild))
		deck = append(deck, NewCard(SymbolDraw4, ColorWild))
	}
	return deck
}

// StandardDeckFor returns enough standard decks to deal handSize cards to every player and
// still leave a seed card plus one more hand's worth of draws. Every copy has its own
// card identities.
func StandardDeckFor(players, handSize int) []Card {
	deck := StandardDeck()
	for len(deck) < players*handSize+handSize+1 {
		deck = append(deck, StandardDeck()...)
	}
	return deck
}
