// internal/game/engine.go
//
// Core game engine for a single hangman session.
// Responsibilities:
//   - Create new games from a difficulty and a pre-validated secret word.
//   - Validate and apply letter and whole-word guesses.
//   - Track state transitions: in_progress → won/lost.
//   - Keep the append-only guess history for the post-game review.
//
// Notes:
//   - Secrets are chosen by the words package (or an external picker);
//     the engine only checks shape, it never re-derives validity.
//   - A correct letter reveals every occurrence at once.
//   - A wrong whole-word guess costs exactly one mistake and reveals
//     nothing, so neither guess mode is cheaper than the other.
//   - randomID() is a compact hex identifier for correlating server state.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// New constructs a new game for the difficulty around the given secret.
// The secret must be non-empty lowercase a–z; the mistake allowance is
// taken from the difficulty. Returns ErrInvalidInput on a malformed secret.
func New(d Difficulty, secret string) (*Game, error) {
	secret = strings.ToLower(strings.TrimSpace(secret))
	if secret == "" || !isAlpha(secret) {
		return nil, ErrInvalidInput
	}
	return &Game{
		ID:          randomID(),
		Difficulty:  d,
		Secret:      secret,
		Revealed:    make([]bool, len(secret)),
		Guessed:     make(map[string]bool),
		MaxMistakes: d.MaxMistakes(),
		Status:      StatusInProgress,
	}, nil
}

// GuessLetter applies a single-letter guess, mutating the game state.
// Returns whether the guess was a hit.
//
// Validation rules:
//   - Game must still be in progress (ErrGameOver otherwise).
//   - The guess must be exactly one lowercase a–z character (ErrInvalidInput).
//   - The letter must not have been guessed before (ErrAlreadyGuessed).
//
// On a hit every matching position is revealed; on a miss the mistake
// counter goes up by one. Either way the guess is appended to History and
// the status is recomputed. A failing guess changes nothing.
func (g *Game) GuessLetter(letter string) (bool, error) {
	if g.Status != StatusInProgress {
		return false, ErrGameOver
	}
	letter = strings.ToLower(strings.TrimSpace(letter))
	if len(letter) != 1 || !isAlpha(letter) {
		return false, ErrInvalidInput
	}
	if g.Guessed[letter] {
		return false, ErrAlreadyGuessed
	}

	g.Guessed[letter] = true
	hit := false
	for i := 0; i < len(g.Secret); i++ {
		if string(g.Secret[i]) == letter {
			g.Revealed[i] = true
			hit = true
		}
	}
	if !hit {
		g.Mistakes++
	}
	g.appendEvent(GuessLetterKind, letter, hit)
	g.recompute()
	return hit, nil
}

// GuessWord applies a whole-word guess, mutating the game state.
// Returns whether the guess matched the secret.
//
// A correct word reveals the entire mask and wins the game. A wrong word
// costs exactly one mistake and reveals nothing, even when some letters
// happen to match positionally.
func (g *Game) GuessWord(word string) (bool, error) {
	if g.Status != StatusInProgress {
		return false, ErrGameOver
	}
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || !isAlpha(word) {
		return false, ErrInvalidInput
	}

	hit := word == g.Secret
	if hit {
		for i := range g.Revealed {
			g.Revealed[i] = true
		}
	} else {
		g.Mistakes++
	}
	g.appendEvent(GuessWordKind, word, hit)
	g.recompute()
	return hit, nil
}

// Outcome reports a read-only summary of the game. No mutation.
func (g *Game) Outcome() Outcome {
	revealed := 0
	for _, r := range g.Revealed {
		if r {
			revealed++
		}
	}
	return Outcome{
		Status:           g.Status,
		Mistakes:         g.Mistakes,
		MistakesLeft:     g.MaxMistakes - g.Mistakes,
		RevealedFraction: float64(revealed) / float64(len(g.Revealed)),
	}
}

// Mask returns the public per-position view of the secret:
// revealed letters in place, '_' for hidden positions.
// This is the only view of the secret the coach ever sees.
func (g *Game) Mask() string {
	var b strings.Builder
	b.Grow(len(g.Secret))
	for i := 0; i < len(g.Secret); i++ {
		if g.Revealed[i] {
			b.WriteByte(g.Secret[i])
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// GuessedLetters returns the attempted letters in sorted order.
func (g *Game) GuessedLetters() []string {
	out := make([]string, 0, len(g.Guessed))
	for c := 'a'; c <= 'z'; c++ {
		if g.Guessed[string(c)] {
			out = append(out, string(c))
		}
	}
	return out
}

// appendEvent records one guess in the history with post-apply snapshots.
func (g *Game) appendEvent(kind GuessKind, guess string, hit bool) {
	g.History = append(g.History, Event{
		Kind:     kind,
		Guess:    guess,
		Hit:      hit,
		Mask:     g.Mask(),
		Mistakes: g.Mistakes,
	})
}

// recompute derives the status from the current fields.
//
// State transitions:
//   - If every position is revealed → won.
//   - Else if mistakes reach the allowance → lost.
func (g *Game) recompute() {
	all := true
	for _, r := range g.Revealed {
		if !r {
			all = false
			break
		}
	}
	if all {
		g.Status = StatusWon
		return
	}
	if g.Mistakes >= g.MaxMistakes {
		g.Status = StatusLost
	}
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
