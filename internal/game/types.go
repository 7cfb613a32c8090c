// internal/game/types.go
//
// Core type definitions for the hand-deduction engine.
// Defines:
//   - Verdict: per-card result of a guess (green/yellow/grey).
//   - FeedbackItem: a guessed card together with its verdict.
//   - Deduction: cumulative cross-guess knowledge for one session.
//   - Outcome: coarse session state (in_progress/won/lost).

package game

import (
	"sort"

	"github.com/hmcgraw/holdle/internal/card"
)

// Verdict is the evaluation result for a single guessed card.
// Possible values:
//   - "green":  exact rank+suit match with a solution card.
//   - "yellow": rank present in the solution at a different suit.
//   - "grey":   no match (or a rank signal already delivered earlier).
type Verdict string

const (
	VerdictGreen  Verdict = "green"
	VerdictYellow Verdict = "yellow"
	VerdictGrey   Verdict = "grey"
)

// FeedbackItem pairs a guessed card with its verdict. Order corresponds
// to the guess, but the feedback is non-positional: classification never
// depends on which guessed card came first.
type FeedbackItem struct {
	Card    card.Card `json:"card"`
	Verdict Verdict   `json:"verdict"`
}

// Outcome is the coarse session state.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWon        Outcome = "won"
	OutcomeLost       Outcome = "lost"
)

// Deduction is the knowledge accumulated across every guess of a
// session. Locked cards and confirmed-yellow ranks only grow, except
// that locking a card retires the weaker yellow signal for its rank.
// Eliminated cards are exact cards proven absent from the solution.
type Deduction struct {
	locked          map[card.Card]struct{}
	confirmedYellow map[card.Rank]struct{}
	eliminated      map[card.Card]struct{}
}

// NewDeduction returns an empty deduction state.
func NewDeduction() *Deduction {
	return &Deduction{
		locked:          make(map[card.Card]struct{}),
		confirmedYellow: make(map[card.Rank]struct{}),
		eliminated:      make(map[card.Card]struct{}),
	}
}

// IsLocked reports whether c was confirmed green in a prior guess.
func (d *Deduction) IsLocked(c card.Card) bool {
	_, ok := d.locked[c]
	return ok
}

// IsConfirmedYellow reports whether r was classified yellow in a prior
// guess and has not since been superseded by a lock.
func (d *Deduction) IsConfirmedYellow(r card.Rank) bool {
	_, ok := d.confirmedYellow[r]
	return ok
}

// IsEliminated reports whether c was proven absent from the solution.
func (d *Deduction) IsEliminated(c card.Card) bool {
	_, ok := d.eliminated[c]
	return ok
}

// Lock records an exact match. The lock supersedes any confirmed-yellow
// signal for the card's rank.
func (d *Deduction) Lock(c card.Card) {
	d.locked[c] = struct{}{}
	delete(d.confirmedYellow, c.Rank)
}

// ConfirmYellow records a rank-only match. A rank can re-enter the set
// after a lock: when the solution holds two cards of one rank, the
// second copy can still be signalled yellow after the first is locked.
func (d *Deduction) ConfirmYellow(r card.Rank) {
	d.confirmedYellow[r] = struct{}{}
}

// Eliminate records that the exact card c is not in the solution.
func (d *Deduction) Eliminate(c card.Card) {
	d.eliminated[c] = struct{}{}
}

// Locked returns the locked cards in stable order. At most 2 entries.
// These pre-populate the next guess's selection and cannot be deselected.
func (d *Deduction) Locked() []card.Card { return sortedCards(d.locked) }

// ConfirmedYellow returns the confirmed-yellow ranks in stable order.
func (d *Deduction) ConfirmedYellow() []card.Rank {
	out := make([]card.Rank, 0, len(d.confirmedYellow))
	for r := range d.confirmedYellow {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Eliminated returns the eliminated cards in stable order.
func (d *Deduction) Eliminated() []card.Card { return sortedCards(d.eliminated) }

func sortedCards(set map[card.Card]struct{}) []card.Card {
	out := make([]card.Card, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
