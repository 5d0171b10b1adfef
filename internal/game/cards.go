package game

import (
	"math/rand"
	"time"
)

type Piece int

const (
	King Piece = iota
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (p Piece) String() string {
	symbols := map[Piece]string{
		King: "♔", Queen: "♕", Rook: "♖", Bishop: "♗", Knight: "♘", Pawn: "♙",
	}
	return symbols[p]
}

// Card is one face-down token on the board. Exactly two cards share a Pair.
type Card struct {
	ID      int
	Pair    Piece
	Flipped bool
	Matched bool
}

// NewBoard builds an ordered deck of 2*pairs cards, two per pair.
func NewBoard(pairs int) []Card {
	cards := make([]Card, 0, 2*pairs)
	id := 0
	for p := 0; p < pairs; p++ {
		for i := 0; i < 2; i++ {
			cards = append(cards, Card{ID: id, Pair: Piece(p)})
			id++
		}
	}
	return cards
}

// Shuffle permutes cards in place with Fisher-Yates: walk i from the top,
// draw j uniformly from [0, i], swap. rnd may be nil in production use.
func Shuffle(cards []Card, rnd *rand.Rand) {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}
