// internal/game/types.go
//
// Core type definitions for the hangman game engine.
// Defines:
//   - Difficulty: tier selection, mapping to a mistake allowance.
//   - Status: lifecycle of a single game (in_progress/won/lost).
//   - Event: one entry of the append-only guess history.
//   - Game: state for a single in-progress or finished game.
//   - Outcome: read-only summary of a finished or running game.

package game

import "errors"

// Difficulty selects the wordlist tier and the mistake allowance.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// MaxMistakes returns the mistake allowance for the difficulty.
func (d Difficulty) MaxMistakes() int {
	switch d {
	case Easy:
		return 8
	case Hard:
		return 4
	default:
		return 6
	}
}

// ParseDifficulty normalizes a difficulty string.
// Unknown or empty input maps to Medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	}
	return Medium
}

// Status represents the lifecycle of a game session.
// A game starts in_progress and transitions exactly once to won or lost.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusWon        Status = "won"
	StatusLost       Status = "lost"
)

// GuessKind distinguishes letter guesses from whole-word guesses in history.
type GuessKind string

const (
	GuessLetterKind GuessKind = "letter"
	GuessWordKind   GuessKind = "word"
)

// Event is one entry of the append-only guess history.
// Mask and Mistakes are snapshots taken immediately after applying the guess.
type Event struct {
	Kind     GuessKind `json:"kind"`
	Guess    string    `json:"guess"`
	Hit      bool      `json:"hit"`
	Mask     string    `json:"mask"`
	Mistakes int       `json:"mistakes"`
}

// Game holds the state of a single hangman session.
// It is owned by exactly one session; all mutation goes through the
// engine operations in this package.
type Game struct {
	ID          string          // Unique game identifier (random hex string).
	Difficulty  Difficulty      // Tier the secret was drawn from.
	Secret      string          // The secret word (always lowercase).
	Revealed    []bool          // Per-position revealed flags, same length as Secret.
	Guessed     map[string]bool // Letters attempted so far (lowercase a–z).
	Mistakes    int             // Wrong guesses used so far.
	MaxMistakes int             // Allowance taken from Difficulty at creation.
	Status      Status          // in_progress | won | lost.
	History     []Event         // Append-only guess log.
}

// Outcome is a read-only summary of a game, safe to hand to callers.
type Outcome struct {
	Status           Status  `json:"status"`
	Mistakes         int     `json:"mistakes"`
	MistakesLeft     int     `json:"mistakesLeft"`
	RevealedFraction float64 `json:"revealedFraction"`
}

// Engine errors. All are sentinel values so callers can errors.Is on them;
// a failing operation always leaves the game state untouched.
var (
	// ErrInvalidInput reports a malformed guess (not lowercase a–z, wrong
	// shape) or an invalid secret at construction.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyGuessed reports a repeated letter guess.
	ErrAlreadyGuessed = errors.New("letter already guessed")

	// ErrGameOver reports a mutating call on a terminal game.
	ErrGameOver = errors.New("game already over")
)
