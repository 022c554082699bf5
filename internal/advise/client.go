// internal/advise/client.go
//
// Minimal chat-completions client for an OpenAI-compatible endpoint.
// One request per capability; prompts only ever carry facts the player is
// allowed to see (plus the secret where the capability requires it, e.g.
// hints and post-game reviews).

package advise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexigraph/hangman/internal/coach"
	"github.com/lexigraph/hangman/internal/game"
)

// Client talks to an OpenAI-compatible chat-completions API.
type Client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewClient constructs a Client. baseURL is the API root without the
// trailing /chat/completions path.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat sends one request and returns the first choice's text.
func (c *Client) chat(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	msgs := []chatMessage{}
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: user})

	data, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// Hint asks for one short hint without the secret itself.
func (c *Client) Hint(ctx context.Context, secret string) (string, error) {
	system := "You are a helpful hangman clue-giver."
	user := fmt.Sprintf(
		"The secret word is '%s'. Give exactly ONE short, natural-sounding hint that helps a player guess the word. "+
			"Do NOT include the word itself. Reply with the hint only.", secret)
	return c.chat(ctx, system, user, 0.8, 80)
}

// Rationale asks for one sentence backing the coach's letter pick.
// Only public facts are sent: the mask, the letter, candidate count.
func (c *Client) Rationale(ctx context.Context, mask string, rec coach.Recommendation) (string, error) {
	user := fmt.Sprintf(
		"You are coaching a hangman player. The current mask is `%s` and there are about %d possible words left. "+
			"Recommend guessing the letter '%s' and give ONE short sentence explaining why. "+
			"Do not reveal any letters beyond the recommendation and do not include the secret word.",
		mask, len(rec.Candidates), strings.ToUpper(rec.TopLetter))
	return c.chat(ctx, "", user, 0.7, 60)
}

// Review asks for a short post-game debrief from the compact history.
func (c *Client) Review(ctx context.Context, in ReviewInput) (string, error) {
	system := "You are a concise strategy coach for hangman. Provide clear, actionable feedback."
	user := fmt.Sprintf(
		"Game outcome: %s\nDifficulty: %s\nSecret word: %s\nMistakes: %d\nHistory (each line = step):\n%s\n\n"+
			"Write a post-game review in ~3 short paragraphs:\n"+
			"1) Key turning points that helped or hurt progress\n"+
			"2) Missed opportunities or alternative moves\n"+
			"3) Concrete next-game tips (letter-choice strategy, when to attempt a full-word guess)\n"+
			"Keep it under 140 words total. Avoid bullet lists; use compact prose.",
		in.Outcome.Status, in.Difficulty, in.Secret, in.Outcome.Mistakes, formatHistory(in.History))
	return c.chat(ctx, system, user, 0.4, 300)
}

// Pick asks the model to choose one word from the offered subset.
func (c *Client) Pick(ctx context.Context, d game.Difficulty, subset []string) (string, error) {
	user := fmt.Sprintf(
		"Choose ONE word from this list for a %s hangman round: %s. "+
			"Output only the chosen word in lowercase, nothing else.",
		d, strings.Join(subset, ", "))
	word, err := c.chat(ctx, "", user, 0.7, 20)
	if err != nil {
		return "", err
	}
	word = strings.Trim(word, `"' `)
	return strings.ToLower(word), nil
}

// formatHistory compresses the guess log into an LLM-friendly string.
// Example line: "3) letter:e HIT -> _e__e | mistakes=1"
func formatHistory(history []game.Event) string {
	var b strings.Builder
	for i, ev := range history {
		verdict := "MISS"
		if ev.Hit {
			verdict = "HIT"
		}
		fmt.Fprintf(&b, "%d) %s:%s %s -> %s | mistakes=%d\n", i+1, ev.Kind, ev.Guess, verdict, ev.Mask, ev.Mistakes)
	}
	return strings.TrimRight(b.String(), "\n")
}
