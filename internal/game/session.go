// internal/game/session.go
//
// Session state machine for a single puzzle.
// Responsibilities:
//   - Create sessions from a validated puzzle record (fails on missing
//     or malformed hero hand / villain solution / action history).
//   - Gate guessing: 6 attempts total, one guess per street before the
//     river, unlimited re-guessing on the river until attempts run out.
//   - Gate street advancement: a guess is mandatory before advancing,
//     and the river is never advanced past.
//   - Fold each evaluation back into the cumulative deduction state.
//   - Track state transitions: in_progress → won/lost (terminal).
//
// Illegal transitions are refused as state-preserving no-ops: the call
// returns a sentinel error and no field changes, so a careless caller
// can never corrupt a session.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hmcgraw/holdle/internal/card"
	"github.com/hmcgraw/holdle/internal/puzzle"
)

const defaultAttempts = 6

// Sentinel errors for refused transitions. State is unchanged whenever
// one of these is returned.
var (
	ErrSessionOver   = errors.New("session already decided")
	ErrStreetGuessed = errors.New("already guessed this street")
	ErrMustGuess     = errors.New("must guess before advancing")
	ErrOnRiver       = errors.New("no street after the river")
	ErrInvalidGuess  = errors.New("guess needs two distinct selectable cards")
)

// Session owns the attempt budget, street pointer, guess gating, and
// deduction state for one puzzle. Not safe for concurrent use; each
// player action runs to completion before the next is accepted.
type Session struct {
	ID        string
	StartedAt time.Time

	record   *puzzle.Record
	hero     [2]card.Card
	solution [2]card.Card

	street            int
	attemptsRemaining int
	guessedThisStreet bool
	guessesUsed       int
	outcome           Outcome
	ded               *Deduction
}

// NewSession validates rec and constructs a fresh session on it.
// A record without a complete villain solution cannot start a session.
func NewSession(rec *puzzle.Record) (*Session, error) {
	if rec == nil {
		return nil, errors.New("session: nil puzzle record")
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	hero, err := rec.Hero()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	solution, err := rec.Solution()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{
		ID:                randomID(),
		StartedAt:         time.Now(),
		record:            rec,
		hero:              hero,
		solution:          solution,
		attemptsRemaining: defaultAttempts,
		outcome:           OutcomeInProgress,
		ded:               NewDeduction(),
	}, nil
}

// GuessResult is everything a guess reveals: the two verdicts plus the
// updated counters and deduction sets the selection grid re-renders from.
type GuessResult struct {
	Feedback          [2]FeedbackItem `json:"feedback"`
	AttemptsRemaining int             `json:"attemptsRemaining"`
	Outcome           Outcome         `json:"outcome"`
	Locked            []card.Card     `json:"lockedCards"`
	ConfirmedYellow   []card.Rank     `json:"confirmedYellowRanks"`
	Eliminated        []card.Card     `json:"eliminatedCards"`
}

// SubmitGuess evaluates a two-card guess and folds the verdicts into the
// session. Legal only while in progress with attempts left, and at most
// once per street before the river; on the river the player may submit
// repeatedly until attempts or the puzzle end the session.
func (s *Session) SubmitGuess(guess [2]card.Card) (*GuessResult, error) {
	if s.outcome != OutcomeInProgress || s.attemptsRemaining <= 0 {
		return nil, ErrSessionOver
	}
	if !s.OnRiver() && s.guessedThisStreet {
		return nil, ErrStreetGuessed
	}
	if !guess[0].Valid() || !guess[1].Valid() || guess[0].Equal(guess[1]) {
		return nil, ErrInvalidGuess
	}
	// Eliminated cards are not selectable; the grid blocks them but the
	// session refuses regardless of caller discipline.
	if s.ded.IsEliminated(guess[0]) || s.ded.IsEliminated(guess[1]) {
		return nil, ErrInvalidGuess
	}

	s.attemptsRemaining--
	s.guessesUsed++

	items, anomalies := Evaluate(guess, s.solution, s.ded)
	for _, a := range anomalies {
		log.Warn().Str("session", s.ID).Err(a).Msg("card anomaly during evaluation")
	}

	for _, it := range items {
		switch it.Verdict {
		case VerdictGreen:
			s.ded.Lock(it.Card)
		case VerdictYellow:
			s.ded.ConfirmYellow(it.Card.Rank)
		case VerdictGrey:
			if it.Card.Valid() {
				s.ded.Eliminate(it.Card)
			}
		}
	}

	switch {
	case allGreen(items):
		s.outcome = OutcomeWon
	case s.attemptsRemaining == 0:
		s.outcome = OutcomeLost
	case !s.OnRiver():
		s.guessedThisStreet = true
	}

	return &GuessResult{
		Feedback:          items,
		AttemptsRemaining: s.attemptsRemaining,
		Outcome:           s.outcome,
		Locked:            s.ded.Locked(),
		ConfirmedYellow:   s.ded.ConfirmedYellow(),
		Eliminated:        s.ded.Eliminated(),
	}, nil
}

// AdvanceStreet moves to the next street. A guess on the current street
// is a hard prerequisite, and the river is terminal. Deduction knowledge
// is never reset across streets.
func (s *Session) AdvanceStreet() error {
	if s.outcome != OutcomeInProgress {
		return ErrSessionOver
	}
	if s.OnRiver() {
		return ErrOnRiver
	}
	if !s.guessedThisStreet {
		return ErrMustGuess
	}
	s.street++
	s.guessedThisStreet = false
	return nil
}

// OnRiver reports whether the street pointer sits on the final street.
func (s *Session) OnRiver() bool {
	return s.street >= len(s.record.ActionHistory)-1
}

// CurrentStreet returns the street pointer and the street record it
// points at.
func (s *Session) CurrentStreet() (int, puzzle.Street) {
	return s.street, s.record.ActionHistory[s.street]
}

// Outcome reports the coarse session state.
func (s *Session) Outcome() Outcome { return s.outcome }

// AttemptsRemaining reports how many guesses are left.
func (s *Session) AttemptsRemaining() int { return s.attemptsRemaining }

// GuessesUsed reports how many guesses have been consumed.
func (s *Session) GuessesUsed() int { return s.guessesUsed }

// Hero returns the hero's hole cards.
func (s *Session) Hero() [2]card.Card { return s.hero }

// Record returns the puzzle record the session was built on.
func (s *Session) Record() *puzzle.Record { return s.record }

// DefaultSelection returns the cards a client should pre-select for the
// next guess: every locked card. Inclusion is not enforced here; the
// guess the player actually submits decides.
func (s *Session) DefaultSelection() []card.Card { return s.ded.Locked() }

// Deduction exposes the cumulative deduction state for rendering the
// selection grid (disabled and marked cards).
func (s *Session) Deduction() *Deduction { return s.ded }

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
