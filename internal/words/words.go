// internal/words/words.go
//
// Provides tiered word list management for the game engine.
//
// Responsibilities:
//   - Load one list per difficulty tier from environment-provided files or
//     fall back to embedded defaults.
//   - Keep the loaded lists immutable for the rest of the process; every
//     accessor hands out the shared read-only slice.
//   - Supply seeded and deterministic picking helpers for secret selection.
//
// Word Lists:
//   - "easy":   short common words, generous mistake allowance upstream.
//   - "medium": everyday words.
//   - "hard":   longer or less common words.
//
// Initialization behavior (Init):
//   1. For each tier, if WORDS_<TIER>_FILE is set, load words from that file.
//   2. Otherwise use the embedded default list for the tier.
//   3. A tier that ends up empty is an initialization error.
//
// Environment variables:
//   WORDS_EASY_FILE=/path/to/easy.txt
//   WORDS_MEDIUM_FILE=/path/to/medium.txt
//   WORDS_HARD_FILE=/path/to/hard.txt
//
// Constraints:
//   • Words must be alphabetic a–z; length may vary within a tier.
//   • Lists are normalized to lowercase.
//   • Initialization is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	"github.com/lexigraph/hangman/assets"
	"github.com/lexigraph/hangman/internal/game"
)

var (
	initOnce   sync.Once
	tiers      map[game.Difficulty][]string
	initialErr error
)

var tierEnvVars = map[game.Difficulty]string{
	game.Easy:   "WORDS_EASY_FILE",
	game.Medium: "WORDS_MEDIUM_FILE",
	game.Hard:   "WORDS_HARD_FILE",
}

// Init loads all tier lists exactly once.
// Returns an error if any tier ends up empty.
func Init() error {
	initOnce.Do(func() {
		tiers = make(map[game.Difficulty][]string, len(tierEnvVars))
		for tier, envVar := range tierEnvVars {
			var list []string
			if path := os.Getenv(envVar); path != "" {
				var err error
				list, err = readWordFile(path)
				if err != nil {
					initialErr = fmt.Errorf("load %s tier: %w", tier, err)
					return
				}
			} else {
				var err error
				list, err = assets.TierList(string(tier))
				if err != nil {
					initialErr = fmt.Errorf("embedded %s tier: %w", tier, err)
					return
				}
			}
			list = keepValid(list)
			if len(list) == 0 {
				initialErr = errors.New("words: " + string(tier) + " list is empty")
				return
			}
			tiers[tier] = list
		}
	})
	return initialErr
}

// readWordFile loads one word per line from a file,
// lowercases, trims, and keeps only alphabetic words.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, strings.TrimSpace(strings.ToLower(sc.Text())))
	}
	return out, sc.Err()
}

// keepValid drops blanks, comments, and anything not strictly a–z.
func keepValid(list []string) []string {
	var out []string
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if w == "" || strings.HasPrefix(w, "#") || !isAlpha(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// List returns the immutable word list for a difficulty tier.
// Callers must not mutate the returned slice.
func List(d game.Difficulty) []string {
	return tiers[d]
}

// Pick chooses one word from the tier using the provided random source.
// The source is passed explicitly so tests can seed it.
func Pick(d game.Difficulty, rng *rand.Rand) string {
	list := tiers[d]
	if len(list) == 0 {
		return ""
	}
	return list[rng.Intn(len(list))]
}

// Sample returns up to n distinct words from the tier, chosen by rng.
// Used to offer an external picker a bounded subset.
func Sample(d game.Difficulty, rng *rand.Rand, n int) []string {
	list := tiers[d]
	if len(list) <= n {
		out := make([]string, len(list))
		copy(out, list)
		return out
	}
	idx := rng.Perm(len(list))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, list[i])
	}
	return out
}

// SeededIndex returns a deterministic index in [0, n) derived from
// HMAC-SHA256(salt, seed). Used when an external picker's choice is
// rejected and the caller must fall back to a reproducible pick within
// the same subset.
func SeededIndex(seed, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(seed))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Stats returns the word count per tier.
func Stats() map[string]int {
	out := make(map[string]int, len(tiers))
	for tier, list := range tiers {
		out[string(tier)] = len(list)
	}
	return out
}
