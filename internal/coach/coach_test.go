package coach

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guessedSet(letters ...string) map[string]bool {
	m := make(map[string]bool, len(letters))
	for _, l := range letters {
		m[l] = true
	}
	return m
}

// Pool {cat,car,can,cap} with mask "c__": all four survive and 'a' covers
// every candidate's hidden positions.
func TestRecommendPicksMaxCoverage(t *testing.T) {
	pool := []string{"cat", "car", "can", "cap"}
	rec, err := Recommend(pool, "c__", guessedSet("c"))
	require.NoError(t, err)

	assert.Equal(t, "a", rec.TopLetter)
	assert.Equal(t, pool, rec.Candidates)
	assert.Equal(t, 4, rec.Scores["a"])
	assert.Equal(t, 1, rec.Scores["t"])
	assert.NotContains(t, rec.Scores, "c")
}

func TestRecommendFiltersByLength(t *testing.T) {
	rec, err := Recommend([]string{"cat", "cart", "ca"}, "___", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, rec.Candidates)
}

func TestRecommendFiltersByRevealedPositions(t *testing.T) {
	rec, err := Recommend([]string{"cat", "cot", "dot", "cut"}, "c_t", guessedSet("c", "t"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cat", "cot", "cut"}, rec.Candidates)
}

// A guessed letter absent from the mask is a confirmed miss and excludes
// every word containing it anywhere.
func TestRecommendExcludesMissedLetters(t *testing.T) {
	rec, err := Recommend([]string{"cat", "dog"}, "c__", guessedSet("c", "d"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, rec.Candidates)
}

// Coverage counts hidden positions only: letters already revealed in the
// mask do not score again for their revealed slots.
func TestScoreCountsHiddenPositionsOnly(t *testing.T) {
	// "s" appears only at the revealed position of "sun"; hidden slots are
	// u/n, so "s" must not be scored for it.
	rec, err := Recommend([]string{"sun", "sus"}, "s__", guessedSet("s"))
	require.NoError(t, err)
	assert.NotContains(t, rec.Scores, "s", "s is guessed, never rescored")
	assert.Equal(t, 2, rec.Scores["u"])
}

func TestRecommendTieBreaksAlphabetically(t *testing.T) {
	// "b" and "z" each cover one candidate; "b" wins the tie.
	rec, err := Recommend([]string{"ab", "az"}, "a_", guessedSet("a"))
	require.NoError(t, err)
	assert.Equal(t, "b", rec.TopLetter)
}

func TestRecommendNoCandidates(t *testing.T) {
	_, err := Recommend([]string{"dog", "dig"}, "c__", guessedSet("c"))
	assert.ErrorIs(t, err, ErrNoCandidates)

	_, err = Recommend(nil, "c__", guessedSet("c"))
	assert.ErrorIs(t, err, ErrNoCandidates)
}

// Identical inputs always yield identical output.
func TestRecommendDeterministic(t *testing.T) {
	pool := []string{"stream", "planet", "plants", "strain", "sprain"}
	guessed := guessedSet("s", "x")

	first, err := Recommend(pool, "s_____", guessed)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Recommend(pool, "s_____", guessed)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// Every surviving candidate satisfies the filter; every excluded pool word
// violates at least one rule.
func TestFilterSoundness(t *testing.T) {
	pool := []string{"garden", "golden", "gargle", "guzzle", "bottle", "gab"}
	mask := "g_____"
	guessed := guessedSet("g", "o")
	// 'o' was guessed and is absent from the mask → confirmed miss.

	rec, err := Recommend(pool, mask, guessed)
	require.NoError(t, err)
	// "golden" carries the missed 'o', "bottle" misses the revealed 'g',
	// "gab" has the wrong length.
	assert.ElementsMatch(t, []string{"garden", "gargle", "guzzle"}, rec.Candidates)
}
