package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcgraw/holdle/internal/card"
	"github.com/hmcgraw/holdle/internal/puzzle"
)

// testRecord is a minimal four-street puzzle with solution [Ah, Kd].
func testRecord() *puzzle.Record {
	return &puzzle.Record{
		ID:           "t-001",
		HeroHand:     []string{"Qs", "Qd"},
		StartingPot:  3,
		HeroStart:    200,
		VillainStart: 200,
		ActionHistory: []puzzle.Street{
			{Name: "pre-flop", Actions: []string{"Villain raises to 6", "Hero calls"}, PotEnd: 12, HeroStack: 194, VillainStack: 194},
			{Name: "flop", CardsShown: []string{"7h", "8h", "2c"}, Actions: []string{"Hero checks", "Villain bets 8"}, PotEnd: 28, HeroStack: 186, VillainStack: 186},
			{Name: "turn", CardsShown: []string{"7h", "8h", "2c", "9h"}, Actions: []string{"Hero checks", "Villain bets 20"}, PotEnd: 68, HeroStack: 166, VillainStack: 166},
			{Name: "river", CardsShown: []string{"7h", "8h", "2c", "9h", "2d"}, Actions: []string{"Hero checks", "Villain bets 50"}, PotEnd: 168, HeroStack: 116, VillainStack: 116},
		},
		VillainSolution: []string{"Ah", "Kd"},
	}
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(testRecord())
	require.NoError(t, err)
	return s
}

func TestNewSessionRejectsIncompleteRecords(t *testing.T) {
	rec := testRecord()
	rec.VillainSolution = nil
	_, err := NewSession(rec)
	assert.Error(t, err)

	rec = testRecord()
	rec.VillainSolution = []string{"Ah", "zz"}
	_, err = NewSession(rec)
	assert.Error(t, err)

	rec = testRecord()
	rec.ActionHistory = nil
	_, err = NewSession(rec)
	assert.Error(t, err)

	rec = testRecord()
	rec.HeroHand = []string{"Qs"}
	_, err = NewSession(rec)
	assert.Error(t, err)

	_, err = NewSession(nil)
	assert.Error(t, err)
}

func TestSessionStartsFresh(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, OutcomeInProgress, s.Outcome())
	assert.Equal(t, 6, s.AttemptsRemaining())
	assert.False(t, s.OnRiver())
	idx, street := s.CurrentStreet()
	assert.Equal(t, 0, idx)
	assert.Equal(t, "pre-flop", street.Name)
	assert.Empty(t, s.DefaultSelection())
}

func TestSubmitGuessOncePerStreetBeforeRiver(t *testing.T) {
	s := newTestSession(t)
	_, err := s.SubmitGuess(pair("2c", "7s"))
	require.NoError(t, err)

	// Second guess on the same pre-river street is refused, state intact.
	attempts := s.AttemptsRemaining()
	_, err = s.SubmitGuess(pair("3c", "6s"))
	assert.ErrorIs(t, err, ErrStreetGuessed)
	assert.Equal(t, attempts, s.AttemptsRemaining())
	assert.Equal(t, OutcomeInProgress, s.Outcome())
}

func TestAdvanceRequiresGuess(t *testing.T) {
	s := newTestSession(t)
	err := s.AdvanceStreet()
	assert.ErrorIs(t, err, ErrMustGuess)
	idx, _ := s.CurrentStreet()
	assert.Equal(t, 0, idx)

	_, err = s.SubmitGuess(pair("2c", "7s"))
	require.NoError(t, err)
	require.NoError(t, s.AdvanceStreet())
	idx, street := s.CurrentStreet()
	assert.Equal(t, 1, idx)
	assert.Equal(t, "flop", street.Name)
}

func TestRiverAllowsRepeatedGuesses(t *testing.T) {
	s := newTestSession(t)
	for _, g := range [][2]card.Card{pair("2s", "3s"), pair("4s", "5s"), pair("6s", "7s")} {
		_, err := s.SubmitGuess(g)
		require.NoError(t, err)
		if !s.OnRiver() {
			require.NoError(t, s.AdvanceStreet())
		}
	}
	require.True(t, s.OnRiver())

	_, err := s.SubmitGuess(pair("8s", "9s"))
	require.NoError(t, err)
	_, err = s.SubmitGuess(pair("Ts", "Js"))
	require.NoError(t, err)
	assert.ErrorIs(t, s.AdvanceStreet(), ErrOnRiver)
}

func TestWinOnAllGreen(t *testing.T) {
	s := newTestSession(t)
	res, err := s.SubmitGuess(pair("Ah", "Kd"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.Equal(t, OutcomeWon, s.Outcome())
	assert.Equal(t, 5, res.AttemptsRemaining)

	// Terminal: no further guesses or advances.
	_, err = s.SubmitGuess(pair("2c", "7s"))
	assert.ErrorIs(t, err, ErrSessionOver)
	assert.ErrorIs(t, s.AdvanceStreet(), ErrSessionOver)
}

func TestLossWhenAttemptsExhausted(t *testing.T) {
	s := newTestSession(t)
	misses := [][2]card.Card{
		pair("2s", "3s"), pair("4s", "5s"), pair("6s", "7s"),
		pair("8s", "9s"), pair("Ts", "Js"), pair("Qc", "Jc"),
	}
	for i, g := range misses {
		res, err := s.SubmitGuess(g)
		require.NoError(t, err, "guess %d", i)
		if i < len(misses)-1 {
			assert.Equal(t, OutcomeInProgress, res.Outcome)
			if !s.OnRiver() {
				require.NoError(t, s.AdvanceStreet())
			}
		} else {
			assert.Equal(t, OutcomeLost, res.Outcome)
			assert.Equal(t, 0, res.AttemptsRemaining)
		}
	}
	_, err := s.SubmitGuess(pair("Ah", "Kd"))
	assert.ErrorIs(t, err, ErrSessionOver)
}

func TestWinOnLastAttemptBeatsLoss(t *testing.T) {
	s := newTestSession(t)
	for _, g := range [][2]card.Card{
		pair("2s", "3s"), pair("4s", "5s"), pair("6s", "7s"),
		pair("8s", "9s"), pair("Ts", "Js"),
	} {
		_, err := s.SubmitGuess(g)
		require.NoError(t, err)
		if !s.OnRiver() {
			require.NoError(t, s.AdvanceStreet())
		}
	}
	res, err := s.SubmitGuess(pair("Ah", "Kd"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.Equal(t, 0, res.AttemptsRemaining)
}

func TestInvalidGuessIsRefusedWithoutCost(t *testing.T) {
	s := newTestSession(t)
	cases := [][2]card.Card{
		{card.Invalid, card.Parse("Kd")},
		{card.Parse("Kd"), card.Invalid},
		pair("Kd", "Kd"),
	}
	for _, g := range cases {
		_, err := s.SubmitGuess(g)
		assert.ErrorIs(t, err, ErrInvalidGuess)
		assert.Equal(t, 6, s.AttemptsRemaining())
	}
}

func TestEliminatedCardNotSelectable(t *testing.T) {
	s := newTestSession(t)
	res, err := s.SubmitGuess(pair("2c", "7s"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []card.Card{card.Parse("2c"), card.Parse("7s")}, res.Eliminated)

	require.NoError(t, s.AdvanceStreet())
	_, err = s.SubmitGuess(pair("2c", "Ah"))
	assert.ErrorIs(t, err, ErrInvalidGuess)
	assert.Equal(t, 5, s.AttemptsRemaining())
}

func TestDeductionAccumulatesAcrossStreets(t *testing.T) {
	s := newTestSession(t)
	res, err := s.SubmitGuess(pair("As", "Kd"))
	require.NoError(t, err)
	assert.Equal(t, []card.Card{card.Parse("Kd")}, res.Locked)
	assert.Equal(t, []card.Rank{"A"}, res.ConfirmedYellow)

	// Street advancement must not reset anything.
	require.NoError(t, s.AdvanceStreet())
	assert.Equal(t, []card.Card{card.Parse("Kd")}, s.DefaultSelection())
	assert.True(t, s.Deduction().IsConfirmedYellow("A"))
}

// Full walkthrough: yellow suppression, lock supersession, and the win.
func TestEndToEndScenario(t *testing.T) {
	s := newTestSession(t)

	// Attempt 1: A present by rank only, K exact.
	res, err := s.SubmitGuess(pair("As", "Kd"))
	require.NoError(t, err)
	assert.Equal(t, [2]Verdict{VerdictYellow, VerdictGreen}, verdicts(res.Feedback))
	assert.Equal(t, []card.Card{card.Parse("Kd")}, res.Locked)
	assert.Equal(t, []card.Rank{"A"}, res.ConfirmedYellow)
	require.NoError(t, s.AdvanceStreet())

	// Attempt 2: Ah now exact; Ac gets no second rank signal.
	res, err = s.SubmitGuess(pair("Ah", "Ac"))
	require.NoError(t, err)
	assert.Equal(t, [2]Verdict{VerdictGreen, VerdictGrey}, verdicts(res.Feedback))
	assert.ElementsMatch(t, []card.Card{card.Parse("Ah"), card.Parse("Kd")}, res.Locked)
	assert.Empty(t, res.ConfirmedYellow, "lock supersedes the yellow for A")
	require.NoError(t, s.AdvanceStreet())

	// Attempt 3: the exact hand.
	res, err = s.SubmitGuess(pair("Ah", "Kd"))
	require.NoError(t, err)
	assert.Equal(t, [2]Verdict{VerdictGreen, VerdictGreen}, verdicts(res.Feedback))
	assert.Equal(t, OutcomeWon, res.Outcome)
	assert.Equal(t, 3, s.GuessesUsed())
}
