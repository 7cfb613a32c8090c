// internal/card/card.go
//
// Canonical playing-card representation for the puzzle engine.
// Responsibilities:
//   - Normalize loose two/three-character card codes ("As", "10d", "KH")
//     into validated immutable Card values.
//   - Rank normalization: the token "10" always becomes "T".
//   - Equality and rank extraction primitives used by the feedback engine
//     and session state machine.
//
// Malformed input never panics: Parse returns an explicit invalid Card so
// batch callers (e.g. marking a board's known cards) can filter and
// continue.
package card

import "strings"

// Rank is a single canonical rank character: 2-9, T, J, Q, K, A.
// The zero value "" means absent/unparseable.
type Rank string

// Suit is a single lowercase suit character: s, h, d, c.
type Suit string

// Card is an immutable rank+suit value. The zero value is invalid.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Invalid is the explicit marker returned for malformed card codes.
var Invalid = Card{}

var validRanks = map[Rank]struct{}{
	"2": {}, "3": {}, "4": {}, "5": {}, "6": {}, "7": {}, "8": {},
	"9": {}, "T": {}, "J": {}, "Q": {}, "K": {}, "A": {},
}

var validSuits = map[Suit]struct{}{"s": {}, "h": {}, "d": {}, "c": {}}

// NormalizeRank maps a rank token to its canonical form.
// "10" becomes "T"; single-character tokens are uppercased and validated.
// An empty or unrecognized token yields the absent rank ""; callers must
// treat an absent rank as "cannot classify" and skip that card.
func NormalizeRank(token string) Rank {
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	if token == "10" {
		return "T"
	}
	r := Rank(strings.ToUpper(token))
	if _, ok := validRanks[r]; !ok {
		return ""
	}
	return r
}

// Parse splits a two-or-three-character code into rank and lowercase suit.
// Returns Invalid (never an error, never a panic) for malformed input so
// batch operations can filter bad entries and continue.
func Parse(code string) Card {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return Invalid
	}
	rank := NormalizeRank(code[:len(code)-1])
	if rank == "" {
		return Invalid
	}
	suit := Suit(strings.ToLower(code[len(code)-1:]))
	if _, ok := validSuits[suit]; !ok {
		return Invalid
	}
	return Card{Rank: rank, Suit: suit}
}

// ParseAll parses a slice of codes, dropping malformed entries and
// reporting the offending codes so the caller can log them.
func ParseAll(codes []string) (cards []Card, bad []string) {
	for _, code := range codes {
		c := Parse(code)
		if !c.Valid() {
			bad = append(bad, code)
			continue
		}
		cards = append(cards, c)
	}
	return cards, bad
}

// Valid reports whether c carries a recognized rank and suit.
func (c Card) Valid() bool {
	_, rok := validRanks[c.Rank]
	_, sok := validSuits[c.Suit]
	return rok && sok
}

// Equal reports rank+suit equality after normalization.
func (c Card) Equal(o Card) bool { return c.Rank == o.Rank && c.Suit == o.Suit }

// String returns the canonical code, e.g. "As", "Td". Invalid cards
// render as "??".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string(c.Rank) + string(c.Suit)
}
