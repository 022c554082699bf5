// internal/advise/local.go
//
// Deterministic local fallbacks. These always succeed, so the gameplay
// path is fully operable with every remote collaborator unavailable.

package advise

import (
	"context"
	"fmt"
	"strings"

	"github.com/lexigraph/hangman/internal/coach"
	"github.com/lexigraph/hangman/internal/game"
)

// englishFrequency orders letters by approximate frequency in English.
// Used only when the coach has no candidates left.
const englishFrequency = "etaoinshrdlcumwfgypbvkjxqz"

// Local implements every capability with deterministic phrasing.
// The zero value is ready to use.
type Local struct{}

// Hint reveals only the length and first letter of the secret.
func (Local) Hint(ctx context.Context, secret string) (string, error) {
	return fmt.Sprintf("The word has %d letters and starts with '%s'.",
		len(secret), strings.ToUpper(secret[:1])), nil
}

// Rationale states the coverage of the recommended letter across the
// surviving candidates.
func (Local) Rationale(ctx context.Context, mask string, rec coach.Recommendation) (string, error) {
	denom := len(rec.Candidates)
	if denom == 0 {
		denom = 1
	}
	pct := float64(rec.Scores[rec.TopLetter]) / float64(denom) * 100
	return fmt.Sprintf("Try '%s' — among %d words matching the pattern `%s`, it appears in about %.0f%% of them.",
		strings.ToUpper(rec.TopLetter), len(rec.Candidates), mask, pct), nil
}

// Review summarizes the guess history in three fixed lines.
func (Local) Review(ctx context.Context, in ReviewInput) (string, error) {
	hits, misses := 0, 0
	lastMask := strings.Repeat("_", len(in.Secret))
	for _, ev := range in.History {
		if ev.Hit {
			hits++
		} else {
			misses++
		}
		lastMask = ev.Mask
	}

	verdict := fmt.Sprintf("You lost — the word was '%s'.", in.Secret)
	if in.Outcome.Status == game.StatusWon {
		verdict = "You won — nice pattern narrowing!"
	}
	return fmt.Sprintf(
		"Outcome: %s\n"+
			"What went well: %d correct guesses kept the mask evolving to `%s`.\n"+
			"What to improve: %d wrong guesses; consider trying high-frequency letters earlier.\n"+
			"Next time: on %s difficulty, aim to finish with fewer than %d mistakes.",
		verdict, hits, lastMask, misses, in.Difficulty, max(1, in.Outcome.Mistakes)), nil
}

// FrequencyLetter returns the most frequent English letter not yet
// guessed. This is the caller-side fallback for coach.ErrNoCandidates;
// it is deliberately outside the coach's contract.
func FrequencyLetter(guessed map[string]bool) string {
	for _, r := range englishFrequency {
		if !guessed[string(r)] {
			return string(r)
		}
	}
	return "e"
}
