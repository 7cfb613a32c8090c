package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcgraw/holdle/internal/card"
)

func validRecord() Record {
	return Record{
		ID:           "p-1",
		HeroHand:     []string{"Ah", "Kd"},
		StartingPot:  3,
		HeroStart:    200,
		VillainStart: 200,
		ActionHistory: []Street{
			{Name: "pre-flop", Actions: []string{"Hero raises to 5", "Villain calls"}, PotEnd: 10, HeroStack: 195, VillainStack: 195},
			{Name: "river", CardsShown: []string{"2c", "7d", "Js", "Td", "3h"}, PotEnd: 40, HeroStack: 180, VillainStack: 180},
		},
		VillainSolution: []string{"Qs", "Qd"},
	}
}

func TestValidate(t *testing.T) {
	rec := validRecord()
	assert.NoError(t, rec.Validate())

	rec = validRecord()
	rec.VillainSolution = nil
	assert.Error(t, rec.Validate())

	rec = validRecord()
	rec.VillainSolution = []string{"Qs", "Qs"}
	assert.Error(t, rec.Validate(), "duplicate solution card")

	rec = validRecord()
	rec.HeroHand = []string{"Ah", "??"}
	assert.Error(t, rec.Validate())

	rec = validRecord()
	rec.ActionHistory = nil
	assert.Error(t, rec.Validate())

	rec = validRecord()
	rec.ID = ""
	assert.Error(t, rec.Validate())
}

func TestHeroAndSolutionNormalize(t *testing.T) {
	rec := validRecord()
	rec.HeroHand = []string{"10h", "KD"}
	hero, err := rec.Hero()
	require.NoError(t, err)
	assert.Equal(t, [2]card.Card{{Rank: "T", Suit: "h"}, {Rank: "K", Suit: "d"}}, hero)
}

func TestPublicStripsSolution(t *testing.T) {
	rec := validRecord()
	pub := rec.Public()
	assert.Nil(t, pub.VillainSolution)
	assert.Equal(t, rec.ID, pub.ID)
	// The original record is untouched.
	assert.Len(t, rec.VillainSolution, 2)
}

func TestStreetBoardFiltersMalformedCards(t *testing.T) {
	s := Street{CardsShown: []string{"2c", "bogus", "7d"}}
	cards, bad := s.Board()
	assert.Len(t, cards, 2)
	assert.Equal(t, []string{"bogus"}, bad)
}

func TestParseLibrary(t *testing.T) {
	data := []byte(`[
		{"id":"a","heroHand":["Ah","Kd"],"actionHistory":[{"streetName":"river","cardsShown":["2c","7d","Js","Td","3h"]}],"villainSolution":["Qs","Qd"]},
		{"id":"b","heroHand":["Ah"],"actionHistory":[],"villainSolution":[]}
	]`)
	records, rejected, err := ParseLibrary(data)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Len(t, rejected, 1)
	assert.Equal(t, "a", records[0].ID)
}

func TestParseLibraryErrors(t *testing.T) {
	_, _, err := ParseLibrary([]byte(`{not json`))
	assert.Error(t, err)

	_, _, err = ParseLibrary([]byte(`[]`))
	assert.Error(t, err, "no valid records")
}

func TestEmbeddedLibraryIsValid(t *testing.T) {
	data, err := embeddedLibrary()
	require.NoError(t, err)
	records, rejected, err := ParseLibrary(data)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.NotEmpty(t, records)
	for _, r := range records {
		assert.NoError(t, r.Validate())
		last := r.ActionHistory[len(r.ActionHistory)-1]
		assert.Equal(t, "river", last.Name)
		assert.Len(t, last.CardsShown, 5)
	}
}

func TestInitLoadsEmbeddedDefaults(t *testing.T) {
	require.NoError(t, Init())
	assert.NotZero(t, Stats())

	rec, ok := ByID(All()[0].ID)
	require.True(t, ok)
	assert.Equal(t, All()[0].ID, rec.ID)

	random, err := RandomRecord()
	require.NoError(t, err)
	assert.NoError(t, random.Validate())
}
