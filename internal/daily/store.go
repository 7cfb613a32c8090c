// internal/daily/store.go
//
// SQLite-backed persistence for the daily mode: which puzzle each date
// used (daily_history) and each player's finished result for a date
// (daily_results, one row per user+date).

package daily

import (
	"context"
	"database/sql"
	"errors"
)

// Result is a player's finished daily attempt. Only terminal outcomes
// are recorded; mid-puzzle state never touches the database.
type Result struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	PuzzleID  string `json:"puzzleId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
	Won       bool   `json:"won"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// PickFor returns the puzzle ID recorded for a date, if any.
func (s *Store) PickFor(ctx context.Context, date string) (string, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT puzzle_id FROM daily_history WHERE date=?`, date,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	return id, err == nil, err
}

// RecordPick writes the date→puzzle assignment; replays are ignored.
func (s *Store) RecordPick(ctx context.Context, date, puzzleID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_history(date, puzzle_id) VALUES(?,?)`,
		date, puzzleID,
	)
	return err
}

// UsedIDs returns the set of puzzle IDs already assigned to some date.
func (s *Store) UsedIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT puzzle_id FROM daily_history`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	used := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		used[id] = struct{}{}
	}
	return used, rows.Err()
}

// ResetHistory clears every date→puzzle assignment. Called when the
// whole library has been exhausted.
func (s *Store) ResetHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM daily_history`)
	return err
}

// AlreadyPlayed reports whether the user already finished the daily
// puzzle for a date.
func (s *Store) AlreadyPlayed(ctx context.Context, userID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`,
		userID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished attempt. UNIQUE(user_id, date) makes
// replays no-ops.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(user_id, date, puzzle_id, guesses, elapsed_ms, won)
		 VALUES(?,?,?,?,?,?)`, r.UserID, r.Date, r.PuzzleID, r.Guesses, r.ElapsedMs, won,
	)
	return err
}

// LBRow is one leaderboard entry.
type LBRow struct {
	UserID    string `json:"userId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// Leaderboard returns the winning results for a date, fewest guesses
// first with elapsed time as the tiebreak.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY guesses ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
