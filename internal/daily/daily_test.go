package daily

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmcgraw/holdle/internal/puzzle"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`
		CREATE TABLE daily_history (
			date TEXT PRIMARY KEY,
			puzzle_id TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		);
		CREATE TABLE daily_results (
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			puzzle_id TEXT NOT NULL,
			guesses INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
			UNIQUE (user_id, date)
		);`)
	require.NoError(t, err)
	return db
}

func testLibrary(ids ...string) []puzzle.Record {
	out := make([]puzzle.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, puzzle.Record{
			ID:       id,
			HeroHand: []string{"Ah", "Kd"},
			ActionHistory: []puzzle.Street{
				{Name: "river", CardsShown: []string{"2c", "7d", "Js", "Td", "3h"}},
			},
			VillainSolution: []string{"Qs", "Qd"},
		})
	}
	return out
}

func TestDateKey(t *testing.T) {
	ts := time.Date(2026, 8, 31, 23, 50, 0, 0, time.FixedZone("plus2", 2*3600))
	assert.Equal(t, "2026-08-31", DateKey(ts))
}

func TestSelectForIsStablePerDate(t *testing.T) {
	s := NewStore(testDB(t))
	lib := testLibrary("a", "b", "c")
	ctx := context.Background()

	first, err := s.SelectFor(ctx, "2026-08-31", lib)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.SelectFor(ctx, "2026-08-31", lib)
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestSelectForNeverRepeatsUntilExhausted(t *testing.T) {
	s := NewStore(testDB(t))
	lib := testLibrary("a", "b", "c")
	ctx := context.Background()

	seen := map[string]bool{}
	for _, date := range []string{"2026-09-01", "2026-09-02", "2026-09-03"} {
		rec, err := s.SelectFor(ctx, date, lib)
		require.NoError(t, err)
		assert.False(t, seen[rec.ID], "puzzle %s repeated before exhaustion", rec.ID)
		seen[rec.ID] = true
	}

	// Library exhausted: a fourth date resets history and picks again.
	rec, err := s.SelectFor(ctx, "2026-09-04", lib)
	require.NoError(t, err)
	assert.True(t, seen[rec.ID], "reset cycle reuses library records")

	// And the fourth date's pick is stable too.
	again, err := s.SelectFor(ctx, "2026-09-04", lib)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
}

func TestSelectForEmptyLibrary(t *testing.T) {
	s := NewStore(testDB(t))
	_, err := s.SelectFor(context.Background(), "2026-08-31", nil)
	assert.Error(t, err)
}

func TestResultsOncePerUserDate(t *testing.T) {
	s := NewStore(testDB(t))
	ctx := context.Background()

	played, err := s.AlreadyPlayed(ctx, "u1", "2026-08-31")
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{
		UserID: "u1", Date: "2026-08-31", PuzzleID: "a", Guesses: 3, ElapsedMs: 40000, Won: true,
	}))
	// Replay is ignored, not an error.
	require.NoError(t, s.InsertResult(ctx, Result{
		UserID: "u1", Date: "2026-08-31", PuzzleID: "a", Guesses: 1, ElapsedMs: 1, Won: true,
	}))

	played, err = s.AlreadyPlayed(ctx, "u1", "2026-08-31")
	require.NoError(t, err)
	assert.True(t, played)
}

func TestLeaderboardOrdersWinners(t *testing.T) {
	s := NewStore(testDB(t))
	ctx := context.Background()
	date := "2026-08-31"

	require.NoError(t, s.InsertResult(ctx, Result{UserID: "slow", Date: date, PuzzleID: "a", Guesses: 3, ElapsedMs: 90000, Won: true}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "fast", Date: date, PuzzleID: "a", Guesses: 3, ElapsedMs: 30000, Won: true}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "few", Date: date, PuzzleID: "a", Guesses: 2, ElapsedMs: 120000, Won: true}))
	require.NoError(t, s.InsertResult(ctx, Result{UserID: "lost", Date: date, PuzzleID: "a", Guesses: 6, ElapsedMs: 10000, Won: false}))

	rows, err := s.Leaderboard(ctx, date, 20)
	require.NoError(t, err)
	require.Len(t, rows, 3, "losses stay off the board")
	assert.Equal(t, "few", rows[0].UserID)
	assert.Equal(t, "fast", rows[1].UserID)
	assert.Equal(t, "slow", rows[2].UserID)
}
