// internal/puzzle/puzzle.go
//
// Puzzle record model and library loading.
//
// Responsibilities:
//   - Define the pre-authored puzzle record schema (hero hand, per-street
//     action history with cumulative board cards and pot/stack snapshots,
//     villain solution).
//   - Defensive JSON parsing: malformed card codes inside streets are
//     filtered (with diagnostics) rather than failing the whole record;
//     a missing or malformed villain solution fails validation outright.
//   - Load the record library from an environment-provided file or fall
//     back to the embedded default library.
//
// Environment variables:
//   PUZZLES_FILE=/path/to/puzzles.json
//
// Initialization is run once (sync.Once) at process start.
package puzzle

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/hmcgraw/holdle/internal/card"
)

// Street is one entry of a record's action history. CardsShown is the
// cumulative board (0/3/4/5 codes); the last street is always the river.
type Street struct {
	Name         string   `json:"streetName"`
	Actions      []string `json:"actions"`
	CardsShown   []string `json:"cardsShown"`
	PotEnd       float64  `json:"potEnd"`
	HeroStack    float64  `json:"heroStack"`
	VillainStack float64  `json:"villainStack"`
}

// Board returns the street's revealed community cards with malformed
// codes filtered out (and reported so the caller can log them).
func (s Street) Board() (cards []card.Card, bad []string) {
	return card.ParseAll(s.CardsShown)
}

// Record is one pre-authored daily puzzle: a fixed historical hand with
// the villain's two concealed cards as ground truth.
type Record struct {
	ID              string   `json:"id"`
	HeroHand        []string `json:"heroHand"`
	StartingPot     float64  `json:"startingPot"`
	HeroStart       float64  `json:"heroStartingStack"`
	VillainStart    float64  `json:"villainStartingStack"`
	ActionHistory   []Street `json:"actionHistory"`
	VillainSolution []string `json:"villainSolution"`
}

// Validate checks the structural fields a session cannot start without.
// Street card codes are intentionally not validated here; they degrade
// per-card at render time instead of blocking the whole puzzle.
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.New("puzzle: missing id")
	}
	if _, err := parsePair(r.HeroHand); err != nil {
		return fmt.Errorf("puzzle %s: heroHand: %w", r.ID, err)
	}
	if len(r.ActionHistory) == 0 {
		return fmt.Errorf("puzzle %s: empty actionHistory", r.ID)
	}
	if _, err := parsePair(r.VillainSolution); err != nil {
		return fmt.Errorf("puzzle %s: villainSolution: %w", r.ID, err)
	}
	return nil
}

// Hero returns the validated hero hole cards.
func (r *Record) Hero() ([2]card.Card, error) { return parsePair(r.HeroHand) }

// Solution returns the validated villain hole cards.
func (r *Record) Solution() ([2]card.Card, error) { return parsePair(r.VillainSolution) }

// Public returns a copy safe to serve to clients: the villain solution
// is stripped.
func (r *Record) Public() Record {
	pub := *r
	pub.VillainSolution = nil
	return pub
}

// parsePair validates an exactly-two-distinct-cards slice.
func parsePair(codes []string) ([2]card.Card, error) {
	if len(codes) != 2 {
		return [2]card.Card{}, fmt.Errorf("want 2 cards, got %d", len(codes))
	}
	a, b := card.Parse(codes[0]), card.Parse(codes[1])
	if !a.Valid() {
		return [2]card.Card{}, fmt.Errorf("malformed card %q", codes[0])
	}
	if !b.Valid() {
		return [2]card.Card{}, fmt.Errorf("malformed card %q", codes[1])
	}
	if a.Equal(b) {
		return [2]card.Card{}, fmt.Errorf("duplicate card %q", codes[0])
	}
	return [2]card.Card{a, b}, nil
}

// ParseLibrary decodes a JSON array of records, dropping entries that
// fail Validate and reporting them.
func ParseLibrary(data []byte) (records []Record, rejected []error, err error) {
	var raw []Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("puzzle library: %w", err)
	}
	for i := range raw {
		if verr := raw[i].Validate(); verr != nil {
			rejected = append(rejected, verr)
			continue
		}
		records = append(records, raw[i])
	}
	if len(records) == 0 {
		return nil, rejected, errors.New("puzzle library: no valid records")
	}
	return records, rejected, nil
}

// --------------------------- package library --------------------------------

var (
	initOnce   sync.Once
	library    []Record
	byID       map[string]*Record
	initialErr error
)

// loader is swapped in tests; default reads PUZZLES_FILE or the embedded
// default library.
var loadBytes = func() ([]byte, error) {
	if path := os.Getenv("PUZZLES_FILE"); path != "" {
		return os.ReadFile(path)
	}
	return embeddedLibrary()
}

// Init loads the record library exactly once.
func Init() error {
	initOnce.Do(func() {
		data, err := loadBytes()
		if err != nil {
			initialErr = err
			return
		}
		records, _, err := ParseLibrary(data)
		if err != nil {
			initialErr = err
			return
		}
		library = records
		byID = make(map[string]*Record, len(records))
		for i := range library {
			byID[library[i].ID] = &library[i]
		}
	})
	return initialErr
}

// All returns every loaded record.
func All() []Record {
	return library
}

// ByID looks a record up, or returns false.
func ByID(id string) (*Record, bool) {
	r, ok := byID[id]
	return r, ok
}

// RandomRecord returns a cryptographically random record from the
// library, or an error when the library is empty.
func RandomRecord() (*Record, error) {
	if len(library) == 0 {
		return nil, errors.New("puzzle: library empty")
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(library))))
	return &library[nBig.Int64()], nil
}

// Stats returns the count of loaded records.
func Stats() int { return len(library) }
