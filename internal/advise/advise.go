// internal/advise/advise.go
//
// Language-model collaborators for the hangman server, composed as
// primary-with-local-fallback strategies.
//
// Capabilities:
//   - HintSource:      one natural-language hint for the secret word.
//   - RationaleSource: phrasing for the coach's structured recommendation.
//   - ReviewSource:    post-game debrief from the guess history.
//   - PickerSource:    secret-word selection from an offered subset.
//
// The Advisor wraps a remote primary (may be absent in offline mode) with
// a deterministic local source. The primary runs under a context timeout;
// any error, timeout, or guard violation (a hint leaking the secret, a
// picked word outside the offered subset) falls through to the local path.
// Gameplay never depends on the primary being reachable.
package advise

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lexigraph/hangman/internal/coach"
	"github.com/lexigraph/hangman/internal/game"
)

// ReviewInput carries the finished game's facts to a ReviewSource.
// Only terminal games are reviewed, so the secret may be named.
type ReviewInput struct {
	Secret     string
	Difficulty game.Difficulty
	Outcome    game.Outcome
	History    []game.Event
}

// HintSource produces one short hint for the secret word.
// The hint must not contain the secret verbatim.
type HintSource interface {
	Hint(ctx context.Context, secret string) (string, error)
}

// RationaleSource phrases the coach's structured output for a player.
type RationaleSource interface {
	Rationale(ctx context.Context, mask string, rec coach.Recommendation) (string, error)
}

// ReviewSource produces a short post-game debrief.
type ReviewSource interface {
	Review(ctx context.Context, in ReviewInput) (string, error)
}

// PickerSource chooses one secret word from the offered subset.
type PickerSource interface {
	Pick(ctx context.Context, difficulty game.Difficulty, subset []string) (string, error)
}

// ErrNoPrimary reports that no remote source is configured (offline mode
// or missing credentials).
var ErrNoPrimary = errors.New("no remote source configured")

// Advisor composes the remote client with the local fallbacks.
// A nil client means offline: every call answers locally.
type Advisor struct {
	client  *Client
	local   Local
	timeout time.Duration
}

// NewAdvisor builds an Advisor. client may be nil for offline operation.
func NewAdvisor(client *Client, timeout time.Duration) *Advisor {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Advisor{client: client, timeout: timeout}
}

// Hint returns a hint for the secret, remote first, local on any failure.
// The remote answer is rejected if it contains the secret verbatim.
func (a *Advisor) Hint(ctx context.Context, secret string) string {
	if a.client != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		text, err := a.client.Hint(cctx, secret)
		if err == nil && text != "" && !strings.Contains(strings.ToLower(text), secret) {
			return text
		}
		if err != nil {
			log.Warn().Err(err).Msg("remote hint failed, using local")
		}
	}
	text, _ := a.local.Hint(ctx, secret)
	return text
}

// Rationale phrases the coach recommendation, remote first.
func (a *Advisor) Rationale(ctx context.Context, mask string, rec coach.Recommendation) string {
	if a.client != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		text, err := a.client.Rationale(cctx, mask, rec)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Warn().Err(err).Msg("remote rationale failed, using local")
		}
	}
	text, _ := a.local.Rationale(ctx, mask, rec)
	return text
}

// Review produces the post-game debrief, remote first.
func (a *Advisor) Review(ctx context.Context, in ReviewInput) string {
	if a.client != nil {
		cctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		text, err := a.client.Review(cctx, in)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Warn().Err(err).Msg("remote review failed, using local")
		}
	}
	text, _ := a.local.Review(ctx, in)
	return text
}

// PickWord asks the remote picker for a word out of subset. The choice is
// validated against the subset; anything else is an error and the caller
// must fall back to a deterministic seeded pick within the same subset.
func (a *Advisor) PickWord(ctx context.Context, d game.Difficulty, subset []string) (string, error) {
	if a.client == nil {
		return "", ErrNoPrimary
	}
	cctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	word, err := a.client.Pick(cctx, d, subset)
	if err != nil {
		return "", err
	}
	word = strings.ToLower(strings.TrimSpace(word))
	for _, w := range subset {
		if w == word {
			return word, nil
		}
	}
	return "", errors.New("picked word not in offered subset")
}
