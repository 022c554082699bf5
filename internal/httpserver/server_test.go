package httpserver

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexigraph/hangman/internal/advise"
	"github.com/lexigraph/hangman/internal/config"
	"github.com/lexigraph/hangman/internal/store"
	"github.com/lexigraph/hangman/internal/words"
)

// newTestServer wires a full server against an in-memory SQLite database,
// offline advisor, and a fixed-seed random source.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	require.NoError(t, words.Init())

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a fresh empty :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	schema, err := os.ReadFile("../../sql/001_init.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	cfg := config.Config{
		ClientOrigin:   "http://localhost:5173",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "hangman_token",
		Offline:        true,
		PickSalt:       "test_salt",
	}
	s := New(cfg, store.NewMemoryStore(), db, advise.NewAdvisor(nil, time.Second), rand.New(rand.NewSource(1)))

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return srv
}

// client with a cookie jar so anon/auth cookies survive across calls.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, c *http.Client, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := c.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp, decodeMap(t, resp)
}

func getJSON(t *testing.T, c *http.Client, url string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := c.Get(url)
	require.NoError(t, err)
	return resp, decodeMap(t, resp)
}

func decodeMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := getJSON(t, newClient(t), srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
}

func TestGameLifecycleOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	resp, body := postJSON(t, c, srv.URL+"/game/new", map[string]string{"difficulty": "medium", "secret": "cat"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	gameID, _ := body["gameId"].(string)
	require.NotEmpty(t, gameID)
	assert.Equal(t, "___", body["mask"])
	assert.Equal(t, float64(6), body["maxMistakes"])
	assert.Equal(t, "in_progress", body["status"])
	assert.NotContains(t, body, "secret")

	resp, body = postJSON(t, c, srv.URL+"/game/guess/letter", map[string]string{"gameId": gameID, "letter": "c"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["hit"])
	assert.Equal(t, "c__", body["mask"])

	// Repeated letter is a 400 and changes nothing.
	resp, body = postJSON(t, c, srv.URL+"/game/guess/letter", map[string]string{"gameId": gameID, "letter": "c"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Wrong whole-word guess: one mistake, nothing revealed.
	resp, body = postJSON(t, c, srv.URL+"/game/guess/word", map[string]string{"gameId": gameID, "word": "cow"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["hit"])
	assert.Equal(t, "c__", body["mask"])
	assert.Equal(t, float64(1), body["mistakes"])

	// Correct word wins and reveals the secret.
	resp, body = postJSON(t, c, srv.URL+"/game/guess/word", map[string]string{"gameId": gameID, "word": "cat"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "won", body["status"])
	assert.Equal(t, "cat", body["secret"])

	// Terminal games reject further guesses.
	resp, _ = postJSON(t, c, srv.URL+"/game/guess/letter", map[string]string{"gameId": gameID, "letter": "z"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Unknown game IDs are 404.
	resp, _ = postJSON(t, c, srv.URL+"/game/guess/letter", map[string]string{"gameId": "nope", "letter": "a"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCoachEndpoint(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	_, body := postJSON(t, c, srv.URL+"/game/new", map[string]string{"difficulty": "easy", "secret": "cat"})
	gameID := body["gameId"].(string)

	_, _ = postJSON(t, c, srv.URL+"/game/guess/letter", map[string]string{"gameId": gameID, "letter": "c"})

	resp, body := getJSON(t, c, srv.URL+"/game/"+gameID+"/coach")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Easy tier holds cat/car/can/cap: 'a' covers all four candidates.
	assert.Equal(t, "a", body["topLetter"])
	assert.Equal(t, float64(4), body["candidates"])
	assert.Equal(t, false, body["fallback"])
	assert.Contains(t, body["rationale"], "'A'")
}

func TestHintEndpointNeverLeaksSecret(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	_, body := postJSON(t, c, srv.URL+"/game/new", map[string]string{"difficulty": "easy", "secret": "planet"})
	gameID := body["gameId"].(string)

	resp, body := getJSON(t, c, srv.URL+"/game/"+gameID+"/hint")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hint := body["hint"].(string)
	assert.Equal(t, "The word has 6 letters and starts with 'P'.", hint)
}

func TestReviewOnlyAfterTerminal(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	_, body := postJSON(t, c, srv.URL+"/game/new", map[string]string{"difficulty": "medium", "secret": "cat"})
	gameID := body["gameId"].(string)

	resp, _ := postJSON(t, c, srv.URL+"/game/"+gameID+"/review", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	_, _ = postJSON(t, c, srv.URL+"/game/guess/word", map[string]string{"gameId": gameID, "word": "cat"})

	resp, body = postJSON(t, c, srv.URL+"/game/"+gameID+"/review", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["review"], "You won")
}

func TestAuthStatsAndLeaderboard(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	resp, _ := postJSON(t, c, srv.URL+"/auth/signup", map[string]string{"Username": "player_one", "Password": "hunter2hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Win one hard game with a single word guess.
	_, body := postJSON(t, c, srv.URL+"/game/new", map[string]string{"difficulty": "hard", "secret": "labyrinth"})
	gameID := body["gameId"].(string)
	resp, body = postJSON(t, c, srv.URL+"/game/guess/word", map[string]string{"gameId": gameID, "word": "labyrinth"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "won", body["status"])

	resp, body = getJSON(t, c, srv.URL+"/stats/me")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["gamesPlayed"])
	assert.Equal(t, float64(1), body["wins"])
	assert.Equal(t, float64(0), body["losses"])

	resp, body = getJSON(t, c, srv.URL+"/leaderboard?difficulty=hard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	top, _ := body["top"].([]any)
	require.Len(t, top, 1)
	entry := top[0].(map[string]any)
	assert.Equal(t, float64(0), entry["mistakes"])

	// Stats are gated.
	resp, err := newClient(t).Get(srv.URL + "/stats/me")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
