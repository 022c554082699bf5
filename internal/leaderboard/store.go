// internal/leaderboard/store.go
//
// Persists finished-game results and answers leaderboard queries.
// One row per finished game; ranking favors fewer mistakes, then fewer
// guesses, then faster games.

package leaderboard

import (
	"context"
	"database/sql"
)

// Result is one finished game's entry.
type Result struct {
	UserID     string `json:"userId"`
	Difficulty string `json:"difficulty"`
	Won        bool   `json:"won"`
	Mistakes   int    `json:"mistakes"`
	Guesses    int    `json:"guesses"`
	ElapsedMs  int    `json:"elapsedMs"`
}

// Row is one leaderboard line.
type Row struct {
	UserID    string `json:"userId"`
	Mistakes  int    `json:"mistakes"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult records a finished game.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	won := 0
	if r.Won {
		won = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results(user_id, difficulty, won, mistakes, guesses, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.UserID, r.Difficulty, won, r.Mistakes, r.Guesses, r.ElapsedMs,
	)
	return err
}

// Top returns the best winning games for a difficulty.
func (s *Store) Top(ctx context.Context, difficulty string, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, mistakes, guesses, elapsed_ms
		 FROM results
		 WHERE difficulty=? AND won=1
		 ORDER BY mistakes ASC, guesses ASC, elapsed_ms ASC, created_at ASC
		 LIMIT ?`, difficulty, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.UserID, &r.Mistakes, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
