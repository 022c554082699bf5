// internal/coach/coach.go
//
// Next-best-letter advisor for hangman.
// Responsibilities:
//   - Filter a wordlist down to candidates consistent with the public
//     mask and the set of guessed letters.
//   - Score unguessed letters by how many candidates they would split.
//   - Pick the top letter deterministically (ties break alphabetically).
//
// The coach is pure and stateless: it consumes only the public view
// (mask + guessed letters), never the secret, and identical inputs
// always produce identical output.
package coach

import (
	"errors"
	"strings"
)

// Hidden marks an unrevealed position in the mask.
const Hidden = '_'

// ErrNoCandidates reports that no pool word is consistent with the mask
// and guess history. The caller decides the fallback strategy; a global
// letter-frequency pick lives outside this package.
var ErrNoCandidates = errors.New("no candidate words")

// Recommendation is the coach's structured output.
type Recommendation struct {
	TopLetter  string         `json:"topLetter"`
	Candidates []string       `json:"candidates"`
	Scores     map[string]int `json:"scores"`
}

// Recommend filters pool against the mask and guessed letters, scores the
// remaining letters, and returns the highest-coverage unguessed letter.
//
// Filter rules, per word w:
//   - len(w) == len(mask);
//   - every revealed mask position matches w exactly;
//   - w contains no guessed letter that is absent from the mask
//     (a confirmed miss excludes the letter everywhere).
//
// Coverage of a letter = number of candidates containing it in at least
// one still-hidden position.
func Recommend(pool []string, mask string, guessed map[string]bool) (Recommendation, error) {
	candidates := filter(pool, mask, guessed)
	if len(candidates) == 0 {
		return Recommendation{}, ErrNoCandidates
	}

	scores := score(candidates, mask, guessed)
	top := bestLetter(scores)
	return Recommendation{TopLetter: top, Candidates: candidates, Scores: scores}, nil
}

// filter returns the maximal subset of pool consistent with mask/guessed.
func filter(pool []string, mask string, guessed map[string]bool) []string {
	// Letters confirmed absent: guessed but nowhere in the revealed mask.
	missed := make(map[byte]bool, len(guessed))
	for l := range guessed {
		if len(l) == 1 && !strings.ContainsRune(mask, rune(l[0])) {
			missed[l[0]] = true
		}
	}

	var out []string
	for _, w := range pool {
		if len(w) != len(mask) {
			continue
		}
		ok := true
		for i := 0; i < len(mask); i++ {
			if mask[i] != Hidden && w[i] != mask[i] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for i := 0; i < len(w) && ok; i++ {
			if missed[w[i]] {
				ok = false
			}
		}
		if ok {
			out = append(out, w)
		}
	}
	return out
}

// score counts, per unguessed letter, the candidates containing that letter
// in at least one hidden position. Presence, not multiplicity.
func score(candidates []string, mask string, guessed map[string]bool) map[string]int {
	scores := make(map[string]int)
	for _, w := range candidates {
		var seen [26]bool
		for i := 0; i < len(w); i++ {
			if mask[i] != Hidden {
				continue
			}
			l := w[i]
			if seen[l-'a'] || guessed[string(l)] {
				continue
			}
			seen[l-'a'] = true
			scores[string(l)]++
		}
	}
	return scores
}

// bestLetter picks the highest score; ties break alphabetically so the
// recommendation is reproducible.
func bestLetter(scores map[string]int) string {
	best, bestScore := "", -1
	for c := byte('a'); c <= 'z'; c++ {
		if s, ok := scores[string(c)]; ok && s > bestScore {
			best, bestScore = string(c), s
		}
	}
	return best
}
