package engine

import "math/rand/v2"

// Deck is a draw pile with its discard pile. Index 0 of cards is the top.
type Deck[T any] struct {
	cards   []T
	discard []T
	rng     *rand.Rand
}

// NewDeck creates a deck holding a copy of cards in the given order. It does
// not shuffle.
func NewDeck[T any](rng *rand.Rand, cards []T) *Deck[T] {
	d := &Deck[T]{cards: make([]T, len(cards)), rng: rng}
	copy(d.cards, cards)
	return d
}

func (d *Deck[T]) Shuffle() {
	shuffle(d.rng, d.cards)
}

// Draw removes and returns the top n cards. If fewer than n remain nothing is
// drawn and ErrEmptyDeck is returned.
func (d *Deck[T]) Draw(n int) ([]T, error) {
	if n > len(d.cards) {
		return nil, ErrEmptyDeck.WithData("want", n).WithData("left", len(d.cards))
	}
	drawn := make([]T, n)
	copy(drawn, d.cards[:n])
	d.cards = d.cards[n:]
	return drawn, nil
}

// DrawBottom removes and returns the bottom card.
func (d *Deck[T]) DrawBottom() (T, error) {
	var zero T
	if len(d.cards) == 0 {
		return zero, ErrEmptyDeck.WithData("want", 1).WithData("left", 0)
	}
	last := len(d.cards) - 1
	c := d.cards[last]
	d.cards = d.cards[:last]
	return c, nil
}

// Discard appends cards to the discard pile in the order given.
func (d *Deck[T]) Discard(cards ...T) {
	d.discard = append(d.discard, cards...)
}

// ReshuffleDiscardOntoTop shuffles the discard pile and places it above the
// remaining cards. The discard pile is left empty.
func (d *Deck[T]) ReshuffleDiscardOntoTop() {
	pile := d.discard
	d.discard = nil
	shuffle(d.rng, pile)
	d.cards = append(pile, d.cards...)
}

// Len returns the number of cards remaining.
func (d *Deck[T]) Len() int {
	return len(d.cards)
}

func (d *Deck[T]) DiscardLen() int {
	return len(d.discard)
}

// Peek returns the top n cards without removing them.
func (d *Deck[T]) Peek(n int) []T {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := make([]T, n)
	copy(out, d.cards[:n])
	return out
}

// Cards returns a copy of the draw pile, top first.
func (d *Deck[T]) Cards() []T {
	return d.Peek(len(d.cards))
}

// DiscardPile returns a copy of the discard pile, oldest first.
func (d *Deck[T]) DiscardPile() []T {
	out := make([]T, len(d.discard))
	copy(out, d.discard)
	return out
}

func shuffle[T any](rng *rand.Rand, s []T) {
	rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
