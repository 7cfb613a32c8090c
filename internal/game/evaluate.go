// internal/game/evaluate.go
//
// Pure guess classifier for a two-card hidden hand.
//
// Evaluate works like a two-pass Wordle scorer over a two-card
// multiset, with a third input: the player's accumulated deduction.
// The pass ordering is load-bearing:
//
//   Pass 1 (green): exact rank+suit matches against a mutable working
//     copy of the solution, so one physical solution card can never
//     satisfy two guessed cards.
//   Pass 2 (yellow): rank membership against the multiset of whatever
//     solution cards pass 1 left behind. A rank already confirmed
//     yellow by an earlier guess scores grey instead, so the player is
//     never handed the same rank signal twice.
//   Pass 3 (grey): everything unmarked.
//
// Evaluate never mutates the deduction state; the session folds the
// verdicts back in after the fact.

package game

import (
	"fmt"

	"github.com/hmcgraw/holdle/internal/card"
)

// Evaluate classifies guess against solution under the session's
// accumulated deduction. Pure and deterministic: identical inputs always
// produce identical verdicts.
//
// Malformed cards never crash the engine: an invalid guessed card scores
// grey, an invalid solution card is excluded from matching, and both are
// reported as non-fatal anomalies for the caller to log.
func Evaluate(guess, solution [2]card.Card, ded *Deduction) ([2]FeedbackItem, []error) {
	var out [2]FeedbackItem
	var anomalies []error

	for i, g := range guess {
		out[i] = FeedbackItem{Card: g, Verdict: VerdictGrey}
		if !g.Valid() {
			anomalies = append(anomalies, fmt.Errorf("guess slot %d: malformed card %q", i, g.String()))
		}
	}

	// Working copy of the solution; matched cards are consumed.
	working := make([]card.Card, 0, 2)
	for i, s := range solution {
		if !s.Valid() {
			anomalies = append(anomalies, fmt.Errorf("solution slot %d: malformed card %q", i, s.String()))
			continue
		}
		working = append(working, s)
	}

	// Pass 1: exact matches.
	for i, g := range guess {
		if !g.Valid() {
			continue
		}
		for j, s := range working {
			if g.Equal(s) {
				out[i].Verdict = VerdictGreen
				working = append(working[:j], working[j+1:]...)
				break
			}
		}
	}

	// Pass 2: rank matches against what remains, suppressed for ranks
	// the player already holds a yellow for.
	remaining := make(map[card.Rank]int, len(working))
	for _, s := range working {
		remaining[s.Rank]++
	}
	for i, g := range guess {
		if !g.Valid() || out[i].Verdict == VerdictGreen {
			continue
		}
		if remaining[g.Rank] > 0 {
			if ded != nil && ded.IsConfirmedYellow(g.Rank) {
				continue // already signalled: stays grey
			}
			out[i].Verdict = VerdictYellow
			remaining[g.Rank]--
		}
	}

	return out, anomalies
}

// allGreen reports whether every verdict is green, i.e. the exact hand
// was identified.
func allGreen(items [2]FeedbackItem) bool {
	for _, it := range items {
		if it.Verdict != VerdictGreen {
			return false
		}
	}
	return true
}
