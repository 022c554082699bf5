// internal/httpserver/routes_game.go
//
// HTTP routes for playing a hangman game.
// Exposes, under optional auth:
//   - POST /game/new               → start a game (picker/local word selection)
//   - POST /game/guess/letter      → apply a single-letter guess
//   - POST /game/guess/word        → apply a whole-word guess
//   - GET  /game/{id}              → public view of the game
//   - GET  /game/{id}/coach        → coach recommendation + rationale
//   - GET  /game/{id}/hint         → hint text (never the secret)
//   - POST /game/{id}/review       → post-game debrief (terminal games only)
//
// Engine errors map onto HTTP: invalid/repeated guesses → 400,
// guesses on finished games → 409, unknown game IDs → 404.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/lexigraph/hangman/internal/advise"
	"github.com/lexigraph/hangman/internal/coach"
	"github.com/lexigraph/hangman/internal/game"
	"github.com/lexigraph/hangman/internal/leaderboard"
	"github.com/lexigraph/hangman/internal/store"
	"github.com/lexigraph/hangman/internal/words"
)

// pickerSubsetSize bounds the subset offered to the external picker.
const pickerSubsetSize = 12

// mountGame registers all /game routes.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Post("/game/guess/letter", s.handleGuessLetter)
	r.Post("/game/guess/word", s.handleGuessWord)
	r.Get("/game/{id}", s.handleGetGame)
	r.Get("/game/{id}/coach", s.handleCoach)
	r.Get("/game/{id}/hint", s.handleHint)
	r.Post("/game/{id}/review", s.handleReview)
}

// gameView is the public JSON shape of a game.
// The secret is included only once the game is over.
type gameView struct {
	GameID       string          `json:"gameId"`
	Difficulty   game.Difficulty `json:"difficulty"`
	Mask         string          `json:"mask"`
	Guessed      []string        `json:"guessed"`
	Mistakes     int             `json:"mistakes"`
	MistakesLeft int             `json:"mistakesLeft"`
	MaxMistakes  int             `json:"maxMistakes"`
	Status       game.Status     `json:"status"`
	Secret       string          `json:"secret,omitempty"`
}

func viewOf(g *game.Game) gameView {
	v := gameView{
		GameID:       g.ID,
		Difficulty:   g.Difficulty,
		Mask:         g.Mask(),
		Guessed:      g.GuessedLetters(),
		Mistakes:     g.Mistakes,
		MistakesLeft: g.MaxMistakes - g.Mistakes,
		MaxMistakes:  g.MaxMistakes,
		Status:       g.Status,
	}
	if g.Status != game.StatusInProgress {
		v.Secret = g.Secret
	}
	return v
}

// ownerID resolves the stable identity the game rows are attached to.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) (id string, authed bool) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		return me.ID, true
	}
	return s.ensureAnonID(w, r), false
}

// -----------------------------------------------------------------------------
// /game/new

type newGameReq struct {
	Difficulty string `json:"difficulty"`
	Secret     string `json:"secret"` // optional fixed secret (testing)
}

// handleNewGame starts a game. Secret selection order:
//  1. explicit secret from the request (testing),
//  2. external picker over a sampled subset when enabled; an invalid pick
//     falls back to a deterministic seeded choice within the same subset,
//  3. seedable local random pick.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	d := game.ParseDifficulty(strings.ToLower(strings.TrimSpace(req.Difficulty)))

	secret := strings.TrimSpace(req.Secret)
	if secret == "" {
		secret = s.chooseSecret(r, d)
	}

	g, err := game.New(d, secret)
	if err != nil {
		http.Error(w, `{"error":"invalid_secret"}`, http.StatusBadRequest)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.startMu.Lock()
	s.started[g.ID] = time.Now()
	s.startMu.Unlock()

	// Persist owner row; the secret never reaches the DB.
	owner, authed := s.ownerID(w, r)
	now := time.Now().UTC().Format(time.RFC3339)
	ownerCol := "anonymous_id"
	if authed {
		ownerCol = "user_id"
	}
	if _, err := s.db.Exec(`INSERT INTO games (id, `+ownerCol+`, difficulty, started_at, status, guesses, mistakes)
	                        VALUES (?,?,?,?,?,0,0)`, g.ID, owner, string(d), now, string(game.StatusInProgress)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	_ = json.NewEncoder(w).Encode(viewOf(g))
}

// chooseSecret picks the secret word for a new game.
// The rng lock is not held across the picker's network round trip.
func (s *Server) chooseSecret(r *http.Request, d game.Difficulty) string {
	if s.cfg.UseLLMPicker && s.advisor != nil {
		s.rngMu.Lock()
		subset := words.Sample(d, s.rng, pickerSubsetSize)
		s.rngMu.Unlock()
		if len(subset) > 0 {
			word, err := s.advisor.PickWord(r.Context(), d, subset)
			if err == nil {
				return word
			}
			log.Warn().Err(err).Msg("picker rejected, seeded fallback")
			// Deterministic choice within the same subset.
			return subset[words.SeededIndex(strings.Join(subset, ","), s.cfg.PickSalt, len(subset))]
		}
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return words.Pick(d, s.rng)
}

// -----------------------------------------------------------------------------
// /game/guess/*

type guessLetterReq struct {
	GameID string `json:"gameId"`
	Letter string `json:"letter"`
}

type guessWordReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

// guessRes extends the game view with the verdict for this guess.
type guessRes struct {
	gameView
	Hit bool `json:"hit"`
}

func (s *Server) handleGuessLetter(w http.ResponseWriter, r *http.Request) {
	var req guessLetterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.applyGuess(w, r, req.GameID, func(g *game.Game) (bool, error) {
		return g.GuessLetter(req.Letter)
	})
}

func (s *Server) handleGuessWord(w http.ResponseWriter, r *http.Request) {
	var req guessWordReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	s.applyGuess(w, r, req.GameID, func(g *game.Game) (bool, error) {
		return g.GuessWord(req.Word)
	})
}

// applyGuess runs one engine operation, persists progress, and answers with
// the updated view. Engine errors never mutate the game, so the mapping to
// HTTP status codes is safe.
func (s *Server) applyGuess(w http.ResponseWriter, r *http.Request, gameID string, op func(*game.Game) (bool, error)) {
	g, err := s.store.Get(r.Context(), gameID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	hit, err := op(g)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	s.persistProgress(w, r, g)
	_ = json.NewEncoder(w).Encode(guessRes{gameView: viewOf(g), Hit: hit})
}

// writeEngineError maps engine sentinels onto HTTP responses.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidInput):
		http.Error(w, `{"error":"invalid_input"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrAlreadyGuessed):
		http.Error(w, `{"error":"already_guessed"}`, http.StatusBadRequest)
	case errors.Is(err, game.ErrGameOver):
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
	default:
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
	}
}

// persistProgress updates counters/history and, on a terminal state, the
// leaderboard and aggregate stats. Best effort, non-fatal if it fails.
func (s *Server) persistProgress(w http.ResponseWriter, r *http.Request, g *game.Game) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	ownerClause := `anonymous_id=?`
	ownerArg := any(s.ensureAnonID(w, r))
	if me != nil {
		ownerClause = `user_id=?`
		ownerArg = any(me.ID)
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Warn().Err(err).Msg("begin progress tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET guesses = guesses + 1, mistakes=? WHERE id=? AND `+ownerClause,
		g.Mistakes, g.ID, ownerArg); err != nil {
		log.Warn().Err(err).Msg("update guesses")
	}

	if g.Status != game.StatusInProgress {
		if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=? AND `+ownerClause,
			string(g.Status), time.Now().UTC().Format(time.RFC3339), g.ID, ownerArg); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me != nil {
			if err := s.bumpStats(tx, me.ID, g.Status == game.StatusWon, g.Mistakes); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
	}
	_ = tx.Commit()

	if g.Status != game.StatusInProgress {
		s.recordResult(r, g, ownerArg.(string))
	}
}

// recordResult writes a leaderboard entry for a finished game.
func (s *Server) recordResult(r *http.Request, g *game.Game, owner string) {
	s.startMu.Lock()
	start, ok := s.started[g.ID]
	delete(s.started, g.ID)
	s.startMu.Unlock()
	elapsed := 0
	if ok {
		elapsed = int(time.Since(start).Milliseconds())
	}
	err := s.lb.InsertResult(r.Context(), leaderboard.Result{
		UserID:     owner,
		Difficulty: string(g.Difficulty),
		Won:        g.Status == game.StatusWon,
		Mistakes:   g.Mistakes,
		Guesses:    len(g.History),
		ElapsedMs:  elapsed,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert result")
	}
}

// -----------------------------------------------------------------------------
// /game/{id} and advisory endpoints

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(viewOf(g))
}

// coachRes carries the coach's structured output plus its phrasing.
type coachRes struct {
	TopLetter  string         `json:"topLetter"`
	Candidates int            `json:"candidates"`
	Scores     map[string]int `json:"scores,omitempty"`
	Rationale  string         `json:"rationale"`
	Fallback   bool           `json:"fallback"` // true when no candidates survived
}

// handleCoach runs the coach over the difficulty's pool and the game's
// public view. When the pool has no consistent candidate left, answers with
// the global frequency fallback instead — the coach itself stays pure.
func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if g.Status != game.StatusInProgress {
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}

	rec, err := coach.Recommend(words.List(g.Difficulty), g.Mask(), g.Guessed)
	if errors.Is(err, coach.ErrNoCandidates) {
		letter := advise.FrequencyLetter(g.Guessed)
		_ = json.NewEncoder(w).Encode(coachRes{
			TopLetter: letter,
			Fallback:  true,
			Rationale: "No dictionary word matches the current pattern; '" + letter + "' is the most common remaining English letter.",
		})
		return
	}
	if err != nil {
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}

	_ = json.NewEncoder(w).Encode(coachRes{
		TopLetter:  rec.TopLetter,
		Candidates: len(rec.Candidates),
		Scores:     rec.Scores,
		Rationale:  s.advisor.Rationale(r.Context(), g.Mask(), rec),
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if g.Status != game.StatusInProgress {
		http.Error(w, `{"error":"game_over"}`, http.StatusConflict)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"hint": s.advisor.Hint(r.Context(), g.Secret)})
}

// handleReview produces the post-game debrief. Only terminal games are
// reviewed; asking earlier is a conflict.
func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if g.Status == game.StatusInProgress {
		http.Error(w, `{"error":"game_in_progress"}`, http.StatusConflict)
		return
	}
	text := s.advisor.Review(r.Context(), advise.ReviewInput{
		Secret:     g.Secret,
		Difficulty: g.Difficulty,
		Outcome:    g.Outcome(),
		History:    g.History,
	})
	_ = json.NewEncoder(w).Encode(map[string]any{"review": text, "outcome": g.Outcome()})
}

// -----------------------------------------------------------------------------
// /leaderboard

// lbRes is returned by /leaderboard.
type lbRes struct {
	Difficulty string            `json:"difficulty"`
	Top        []leaderboard.Row `json:"top"`
}

// handleLeaderboard returns the best games for a difficulty (default medium).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	d := game.ParseDifficulty(r.URL.Query().Get("difficulty"))
	rows, err := s.lb.Top(r.Context(), string(d), 20)
	if err != nil {
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{Difficulty: string(d), Top: rows})
}
