package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesSecret(t *testing.T) {
	g, err := New(Medium, "  Planet ")
	require.NoError(t, err)
	assert.Equal(t, "planet", g.Secret)
	assert.Equal(t, "______", g.Mask())
	assert.Equal(t, 6, g.MaxMistakes)
	assert.Equal(t, StatusInProgress, g.Status)

	for _, bad := range []string{"", "  ", "caf3", "two words", "Straße"} {
		_, err := New(Medium, bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "secret %q", bad)
	}
}

func TestDifficultyAllowance(t *testing.T) {
	assert.Equal(t, 8, Easy.MaxMistakes())
	assert.Equal(t, 6, Medium.MaxMistakes())
	assert.Equal(t, 4, Hard.MaxMistakes())
	assert.Equal(t, Medium, ParseDifficulty("nonsense"))
	assert.Equal(t, Hard, ParseDifficulty("hard"))
}

// Mirrors a full round: c-x-a-t against "cat" wins with one mistake.
func TestGuessLetterFullRound(t *testing.T) {
	g, err := New(Medium, "cat")
	require.NoError(t, err)

	hit, err := g.GuessLetter("c")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "c__", g.Mask())
	assert.Equal(t, 0, g.Mistakes)

	hit, err = g.GuessLetter("x")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, g.Mistakes)
	assert.Equal(t, StatusInProgress, g.Status)

	_, err = g.GuessLetter("a")
	require.NoError(t, err)
	assert.Equal(t, "ca_", g.Mask())

	hit, err = g.GuessLetter("t")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "cat", g.Mask())
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, 1, g.Mistakes)
}

func TestGuessLetterRevealsAllOccurrences(t *testing.T) {
	g, err := New(Medium, "banana")
	require.NoError(t, err)

	hit, err := g.GuessLetter("a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "_a_a_a", g.Mask())
	assert.Equal(t, 0, g.Mistakes)
}

func TestGuessLetterRejectsRepeatsWithoutMutation(t *testing.T) {
	g, err := New(Medium, "dog")
	require.NoError(t, err)

	_, err = g.GuessLetter("o")
	require.NoError(t, err)
	mask, mistakes, events := g.Mask(), g.Mistakes, len(g.History)

	_, err = g.GuessLetter("o")
	assert.ErrorIs(t, err, ErrAlreadyGuessed)
	assert.Equal(t, mask, g.Mask())
	assert.Equal(t, mistakes, g.Mistakes)
	assert.Len(t, g.History, events)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestGuessLetterRejectsMalformedInput(t *testing.T) {
	g, err := New(Medium, "dog")
	require.NoError(t, err)

	for _, bad := range []string{"", "ab", "1", "!", "é"} {
		_, err := g.GuessLetter(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "guess %q", bad)
	}
	assert.Empty(t, g.History)
	assert.Equal(t, 0, g.Mistakes)
}

// Mirrors the loss scenario: two misses on a 2-mistake allowance, then
// any further guess is rejected.
func TestLossAndTerminalRejection(t *testing.T) {
	g, err := New(Medium, "dog")
	require.NoError(t, err)
	g.MaxMistakes = 2

	_, err = g.GuessLetter("x")
	require.NoError(t, err)
	assert.Equal(t, 1, g.Mistakes)

	_, err = g.GuessLetter("y")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Mistakes)
	assert.Equal(t, StatusLost, g.Status)

	_, err = g.GuessLetter("z")
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = g.GuessWord("dog")
	assert.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 2, g.Mistakes)
}

func TestGuessWordWinsAndRevealsAll(t *testing.T) {
	g, err := New(Medium, "cat")
	require.NoError(t, err)

	hit, err := g.GuessWord("CAT")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, StatusWon, g.Status)
	assert.Equal(t, "cat", g.Mask())
	assert.Equal(t, 0, g.Mistakes)
}

// A wrong word costs one mistake and reveals nothing, even when letters
// match positionally.
func TestGuessWordWrongCostsOneMistake(t *testing.T) {
	g, err := New(Medium, "cat")
	require.NoError(t, err)

	hit, err := g.GuessWord("cow")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, g.Mistakes)
	assert.Equal(t, "___", g.Mask())
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestHistoryIsAppendOnlySnapshots(t *testing.T) {
	g, err := New(Medium, "cat")
	require.NoError(t, err)

	_, _ = g.GuessLetter("c")
	_, _ = g.GuessLetter("x")
	_, _ = g.GuessWord("cot")

	require.Len(t, g.History, 3)
	assert.Equal(t, Event{Kind: GuessLetterKind, Guess: "c", Hit: true, Mask: "c__", Mistakes: 0}, g.History[0])
	assert.Equal(t, Event{Kind: GuessLetterKind, Guess: "x", Hit: false, Mask: "c__", Mistakes: 1}, g.History[1])
	assert.Equal(t, Event{Kind: GuessWordKind, Guess: "cot", Hit: false, Mask: "c__", Mistakes: 2}, g.History[2])
}

func TestOutcome(t *testing.T) {
	g, err := New(Medium, "cat")
	require.NoError(t, err)

	_, _ = g.GuessLetter("c")
	_, _ = g.GuessLetter("x")

	o := g.Outcome()
	assert.Equal(t, StatusInProgress, o.Status)
	assert.Equal(t, 1, o.Mistakes)
	assert.Equal(t, 5, o.MistakesLeft)
	assert.InDelta(t, 1.0/3.0, o.RevealedFraction, 1e-9)
}

// Invariants across an arbitrary guess sequence: mistakes never exceed the
// allowance, the revealed count never shrinks, and the status changes at
// most once.
func TestInvariantsAcrossSequence(t *testing.T) {
	g, err := New(Hard, "planet")
	require.NoError(t, err)

	revealedCount := func() int {
		n := 0
		for _, r := range g.Revealed {
			if r {
				n++
			}
		}
		return n
	}

	prevRevealed := 0
	terminalSeen := false
	for _, l := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "p", "l", "n", "t"} {
		_, err := g.GuessLetter(l)
		if terminalSeen {
			assert.ErrorIs(t, err, ErrGameOver)
		}
		assert.LessOrEqual(t, g.Mistakes, g.MaxMistakes)
		assert.GreaterOrEqual(t, revealedCount(), prevRevealed)
		prevRevealed = revealedCount()
		if g.Status != StatusInProgress {
			terminalSeen = true
		}
	}
	assert.True(t, terminalSeen)
}

func TestGuessedLettersSorted(t *testing.T) {
	g, err := New(Medium, "cab")
	require.NoError(t, err)
	_, _ = g.GuessLetter("c")
	_, _ = g.GuessLetter("z")
	_, _ = g.GuessLetter("a")
	assert.Equal(t, []string{"a", "c", "z"}, g.GuessedLetters())
}
