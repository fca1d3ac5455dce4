package engine

import "math/rand/v2"

// CreateShuffledIcons returns every icon twice in a uniformly random order.
// A nil rng uses the package-level source.
func CreateShuffledIcons(icons []Icon, rng *rand.Rand) []Icon {
	deck := make([]Icon, 0, 2*len(icons))
	deck = append(deck, icons...)
	deck = append(deck, icons...)

	swap := func(i, j int) { deck[i], deck[j] = deck[j], deck[i] }
	if rng != nil {
		rng.Shuffle(len(deck), swap)
	} else {
		rand.Shuffle(len(deck), swap)
	}
	return deck
}

// newBoard deals a fresh hidden card for every shuffled icon
func newBoard(icons []Icon, rng *rand.Rand) []Card {
	shuffled := CreateShuffledIcons(icons, rng)
	cards := make([]Card, len(shuffled))
	for i, icon := range shuffled {
		cards[i] = Card{ID: CardID(i), Icon: icon, State: Hidden}
	}
	return cards
}

// IconCounts returns how many cards carry each icon
func IconCounts(cards []Card) map[Icon]int {
	counts := make(map[Icon]int)
	for _, c := range cards {
		counts[c.Icon]++
	}
	return counts
}

// masked returns a copy of a card safe to show a player: hidden cards lose their icon
func masked(card Card) Card {
	if card.State == Hidden {
		card.Icon = ""
	}
	return card
}

func maskedBoard(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = masked(c)
	}
	return out
}
