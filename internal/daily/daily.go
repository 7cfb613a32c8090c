// internal/daily/daily.go
//
// Daily puzzle selection. Each calendar date (UTC) maps to one puzzle
// from the library: a random not-yet-used record is picked the first
// time a date is seen and the pick is written to daily_history, so the
// same date keeps returning the same puzzle across process restarts.
// When every record has been used, the history is cleared and selection
// starts over.
package daily

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/hmcgraw/holdle/internal/puzzle"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SelectFor returns the puzzle for the given date, choosing and
// recording a fresh one if the date has not been seen yet.
func (s *Store) SelectFor(ctx context.Context, date string, library []puzzle.Record) (*puzzle.Record, error) {
	if len(library) == 0 {
		return nil, errors.New("daily: puzzle library is empty")
	}

	// A pick already recorded for this date wins, as long as the record
	// still exists in the library.
	if id, ok, err := s.PickFor(ctx, date); err != nil {
		return nil, err
	} else if ok {
		for i := range library {
			if library[i].ID == id {
				return &library[i], nil
			}
		}
		// Library changed underneath the history; fall through and
		// select again for this date.
	}

	used, err := s.UsedIDs(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*puzzle.Record, 0, len(library))
	for i := range library {
		if _, ok := used[library[i].ID]; !ok {
			available = append(available, &library[i])
		}
	}

	// Everything used: reset the history and start the cycle over.
	if len(available) == 0 {
		if err := s.ResetHistory(ctx); err != nil {
			return nil, err
		}
		for i := range library {
			available = append(available, &library[i])
		}
	}

	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(available))))
	picked := available[nBig.Int64()]
	if err := s.RecordPick(ctx, date, picked.ID); err != nil {
		return nil, err
	}
	return picked, nil
}
