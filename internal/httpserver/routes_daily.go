// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily puzzle mode.
// Endpoints under /daily (plus the legacy GET /api/daily-puzzle alias):
//   - GET  /daily/puzzle      → today's puzzle record, solution stripped
//   - POST /daily/new         → start today's session (creates or reuses)
//   - POST /daily/guess       → submit a guess for today's session
//   - POST /daily/advance     → reveal the next street
//   - GET  /daily/leaderboard → today's winners (or a given date)
//
// Each user finishes the daily puzzle once per day (enforced by DB +
// in-memory session). Sessions are held in memory for active play and
// the result is persisted once the session reaches a terminal outcome.
// The date→puzzle assignment is recorded so restarts keep the same pick.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/hmcgraw/holdle/internal/daily"
	"github.com/hmcgraw/holdle/internal/game"
	"github.com/hmcgraw/holdle/internal/puzzle"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	sessions map[string]string // userID|date → session ID
	mu       sync.Mutex        // guards sessions
}

// mountDaily registers all /daily routes plus the /api/daily-puzzle alias.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Get("/puzzle", dd.handlePuzzle)
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Post("/advance", dd.handleAdvance)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
	// Original API path kept for existing clients.
	r.Get("/api/daily-puzzle", dd.handlePuzzle)
}

// todaysRecord resolves the date key and puzzle record for right now.
func (d *dailyServer) todaysRecord(r *http.Request) (date string, rec *puzzle.Record, err error) {
	date = daily.DateKey(time.Now())
	rec, err = d.store.SelectFor(r.Context(), date, puzzle.All())
	return date, rec, err
}

// userIDWithAnon returns the authenticated user ID if logged in,
// otherwise ensures an anonymous ID via Server.ensureAnonID.
func (d *dailyServer) userIDWithAnon(w http.ResponseWriter, r *http.Request) string {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID
	}
	return d.srv.ensureAnonID(w, r)
}

// -----------------------------------------------------------------------------
// GET /daily/puzzle (and /api/daily-puzzle)

// puzzleRes is the public daily record.
type puzzleRes struct {
	Date   string        `json:"date"`
	Puzzle puzzle.Record `json:"puzzle"` // solution stripped
}

// handlePuzzle serves today's record with the villain solution stripped.
func (d *dailyServer) handlePuzzle(w http.ResponseWriter, r *http.Request) {
	date, rec, err := d.todaysRecord(r)
	if err != nil {
		log.Error().Err(err).Msg("daily selection")
		http.Error(w, `{"error":"daily_unavailable"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(puzzleRes{Date: date, Puzzle: rec.Public()})
}

// -----------------------------------------------------------------------------
// POST /daily/new

// newRes is returned by /daily/new.
type newRes struct {
	GameID            string        `json:"gameId"`
	Date              string        `json:"date"`
	Played            bool          `json:"played"`
	Puzzle            puzzle.Record `json:"puzzle,omitempty"`
	AttemptsRemaining int           `json:"attemptsRemaining,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
// - If user already finished today's puzzle → return Played=true.
// - Otherwise create/reuse an in-memory session and return GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)
	date, rec, err := d.todaysRecord(r)
	if err != nil {
		log.Error().Err(err).Msg("daily selection")
		http.Error(w, `{"error":"daily_unavailable"}`, http.StatusInternalServerError)
		return
	}

	// Check if already finished (persisted in DB).
	if played, err := d.store.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(newRes{GameID: "", Date: date, Played: true})
		return
	}

	// Reuse or create session in memory.
	key := uid + "|" + date
	d.mu.Lock()
	if id, ok := d.sessions[key]; ok {
		d.mu.Unlock()
		if sess, err := d.srv.store.Get(r.Context(), id); err == nil {
			_ = json.NewEncoder(w).Encode(newRes{
				GameID: id, Date: date, Played: false,
				Puzzle: rec.Public(), AttemptsRemaining: sess.AttemptsRemaining(),
			})
			return
		}
		// Stale mapping; fall through and start over.
		d.mu.Lock()
		delete(d.sessions, key)
	}
	d.mu.Unlock()

	sess, err := game.NewSession(rec)
	if err != nil {
		log.Error().Err(err).Str("puzzle", rec.ID).Msg("daily session construction")
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}
	if err := d.srv.store.Save(r.Context(), sess); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	d.mu.Lock()
	d.sessions[key] = sess.ID
	d.mu.Unlock()

	_ = json.NewEncoder(w).Encode(newRes{
		GameID: sess.ID, Date: date, Played: false,
		Puzzle: rec.Public(), AttemptsRemaining: sess.AttemptsRemaining(),
	})
}

// -----------------------------------------------------------------------------
// POST /daily/guess

// handleGuess validates and applies a guess to today's daily session.
// On a terminal outcome the result row is persisted (once per user+date).
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p guessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := d.sessionFor(w, r, uid, p.GameID)
	if !ok {
		return
	}
	guess, err := parseGuess(p.Cards)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	res, err := sess.SubmitGuess(guess)
	if err != nil {
		writeSessionErr(w, err)
		return
	}

	if res.Outcome == game.OutcomeWon || res.Outcome == game.OutcomeLost {
		elapsed := int(time.Since(sess.StartedAt).Milliseconds())
		if err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      daily.DateKey(time.Now()),
			PuzzleID:  sess.Record().ID,
			Guesses:   sess.GuessesUsed(),
			ElapsedMs: elapsed,
			Won:       res.Outcome == game.OutcomeWon,
		}); err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("persist daily result")
		}
	}
	_ = json.NewEncoder(w).Encode(res)
}

// -----------------------------------------------------------------------------
// POST /daily/advance

// handleAdvance reveals the next street of today's daily session.
func (d *dailyServer) handleAdvance(w http.ResponseWriter, r *http.Request) {
	uid := d.userIDWithAnon(w, r)

	var p advanceReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := d.sessionFor(w, r, uid, p.GameID)
	if !ok {
		return
	}
	if err := sess.AdvanceStreet(); err != nil {
		writeSessionErr(w, err)
		return
	}
	idx, street := sess.CurrentStreet()
	_ = json.NewEncoder(w).Encode(advanceRes{Street: idx, Record: street})
}

// sessionFor loads the caller's daily session, verifying the supplied
// game ID matches the one bound to user+date.
func (d *dailyServer) sessionFor(w http.ResponseWriter, r *http.Request, uid, gameID string) (*game.Session, bool) {
	key := uid + "|" + daily.DateKey(time.Now())
	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if !ok || gameID == "" || id != gameID {
		http.Error(w, `{"error":"no session"}`, http.StatusConflict)
		return nil, false
	}
	sess, err := d.srv.store.Get(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"no session"}`, http.StatusConflict)
		return nil, false
	}
	return sess, true
}

// -----------------------------------------------------------------------------
// GET /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, 20)
	if err != nil && err != sql.ErrNoRows {
		http.Error(w, `{"error":"server error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}
