package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/nerdle-solver/internal/config"
	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/results"
	"github.com/robalobadob/nerdle-solver/internal/store"
)

var (
	corpusOnce sync.Once
	testCorpus *corpus.Corpus
)

func loadCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	corpusOnce.Do(func() {
		c, err := corpus.Default()
		require.NoError(t, err)
		testCorpus = c
	})
	return testCorpus
}

func newTestServer(t *testing.T, mutate func(*config.Config), persist bool) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.MaxTurns = 0
	cfg.Server.JWTSecret = "test-secret"
	if mutate != nil {
		mutate(&cfg)
	}
	deps := Deps{Config: cfg, Corpus: loadCorpus(t), Sessions: store.NewMemoryStore(cfg.Server.SessionTTL)}
	if persist {
		rs, err := results.Open(filepath.Join(t.TempDir(), "nerdle.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = rs.Close() })
		deps.Runs = rs
	}
	ts := httptest.NewServer(New(deps).Router())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out map[string]any
	raw := new(bytes.Buffer)
	_, _ = raw.ReadFrom(res.Body)
	if strings.HasPrefix(strings.TrimSpace(raw.String()), "{") {
		require.NoError(t, json.Unmarshal(raw.Bytes(), &out))
	}
	return res, out
}

func TestHealthAndCorpus(t *testing.T) {
	ts := newTestServer(t, nil, false)

	res, body := do(t, ts, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, res.Header.Get("Content-Type"), "application/json")

	res, body = do(t, ts, http.MethodGet, "/corpus", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 8, body["length"])
	assert.EqualValues(t, loadCorpus(t).Len(), body["equations"])

	res, body = do(t, ts, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "not_found", body["error"])
}

func TestScore(t *testing.T) {
	ts := newTestServer(t, nil, false)

	res, body := do(t, ts, http.MethodPost, "/score", "", scoreReq{Secret: "3*4+5=17", Guess: "1+2*6=14"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "BPBPBGGP", body["pattern"])
	assert.Equal(t, false, body["solved"])

	res, body = do(t, ts, http.MethodPost, "/score", "", scoreReq{Secret: "3*4+5=17", Guess: "1+1=2"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "length_mismatch", body["error"])
}

func TestSessionSolvesSecret(t *testing.T) {
	ts := newTestServer(t, nil, false)
	const secret equation.Equation = "52-14=38"

	res, body := do(t, ts, http.MethodPost, "/session/new", "", map[string]any{"seed": 11})
	require.Equal(t, http.StatusOK, res.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	assert.Equal(t, "awaiting_feedback", body["state"])
	assert.Equal(t, "3*4+5=17", body["guess"])

	for i := 0; i < 20 && body["state"] == "awaiting_feedback"; i++ {
		guess := equation.Equation(body["guess"].(string))
		p := feedback.MustScore(secret, guess)
		res, body = do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: p.String()})
		require.Equal(t, http.StatusOK, res.StatusCode)
	}
	assert.Equal(t, "solved", body["state"])
	assert.Equal(t, string(secret), body["guess"])

	res, body = do(t, ts, http.MethodGet, "/session", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	hist := body["history"].([]any)
	assert.Equal(t, "GGGGGGGG", hist[len(hist)-1].(map[string]any)["feedback"])

	res, body = do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: "GGGGGGGG"})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "game_over", body["error"])

	res, _ = do(t, ts, http.MethodDelete, "/session", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	res, _ = do(t, ts, http.MethodGet, "/session", token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestInvalidFeedbackLeavesSessionUnchanged(t *testing.T) {
	ts := newTestServer(t, nil, false)
	_, body := do(t, ts, http.MethodPost, "/session/new", "", map[string]any{"seed": 5})
	token := body["token"].(string)

	for _, bad := range []string{"GGG", "GGGGGGGX", ""} {
		res, out := do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: bad})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, bad)
		assert.Equal(t, "invalid_feedback", out["error"])
	}

	_, after := do(t, ts, http.MethodGet, "/session", token, nil)
	assert.Equal(t, body["guess"], after["guess"])
	assert.Equal(t, body["remaining"], after["remaining"])
	assert.EqualValues(t, 1, after["turn"])
}

func TestContradictoryFeedbackExhausts(t *testing.T) {
	ts := newTestServer(t, nil, false)
	_, body := do(t, ts, http.MethodPost, "/session/new", "", map[string]any{"seed": 5})
	token := body["token"].(string)

	res, out := do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: "bbbbbbbb"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "exhausted", out["state"])
	assert.EqualValues(t, 0, out["remaining"])
	assert.Nil(t, out["guess"])
}

func TestTurnLimit(t *testing.T) {
	ts := newTestServer(t, func(c *config.Config) { c.MaxTurns = 1 }, false)
	_, body := do(t, ts, http.MethodPost, "/session/new", "", map[string]any{"seed": 5})
	token := body["token"].(string)

	p := feedback.MustScore("52-14=38", equation.Equation(body["guess"].(string)))
	_, out := do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: p.String()})
	assert.Equal(t, true, out["limitReached"])
	assert.Equal(t, "awaiting_guess", out["state"])

	res, out := do(t, ts, http.MethodPost, "/session/feedback", token, feedbackReq{Feedback: p.String()})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "turn_limit", out["error"])
}

func TestSessionAuth(t *testing.T) {
	ts := newTestServer(t, nil, false)

	res, body := do(t, ts, http.MethodGet, "/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Unauthorized", body["error"])

	res, body = do(t, ts, http.MethodGet, "/session", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Invalid token", body["error"])

	other := New(Deps{Config: func() config.Config {
		c := config.Default()
		c.Server.JWTSecret = "other-secret"
		return c
	}(), Corpus: loadCorpus(t), Sessions: store.NewMemoryStore(0)})
	forged, _, err := other.signSessionToken("some-session")
	require.NoError(t, err)
	res, _ = do(t, ts, http.MethodGet, "/session", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestSuggestions(t *testing.T) {
	ts := newTestServer(t, nil, false)
	_, body := do(t, ts, http.MethodPost, "/session/new", "", map[string]any{"seed": 5})
	token := body["token"].(string)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/session/suggestions?limit=3", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var ranked []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&ranked))
	require.Len(t, ranked, 3)
	assert.GreaterOrEqual(t, ranked[0]["score"].(float64), ranked[1]["score"].(float64))
}

func TestSimulateAndRuns(t *testing.T) {
	ts := newTestServer(t, nil, true)

	res, body := do(t, ts, http.MethodPost, "/simulate", "", simulateReq{Games: 10, Seed: 4, Save: true, Label: "api"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 10, body["games"])
	assert.EqualValues(t, 10, body["solved"])
	assert.Nil(t, body["results"])
	runID, _ := body["runId"].(string)
	require.NotEmpty(t, runID)

	res, body = do(t, ts, http.MethodGet, "/runs/"+runID, "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "api", body["label"])
	assert.EqualValues(t, 10, body["games"])

	res, _ = do(t, ts, http.MethodGet, "/runs/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, body = do(t, ts, http.MethodPost, "/simulate", "", simulateReq{Secrets: []string{"3*4+5=17"}, Detail: true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	games := body["results"].([]any)
	require.Len(t, games, 1)
	assert.EqualValues(t, 1, games[0].(map[string]any)["turns"])

	res, _ = do(t, ts, http.MethodPost, "/simulate", "", simulateReq{Games: maxAPIGames + 1})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	res, _ = do(t, ts, http.MethodPost, "/simulate", "", simulateReq{Secrets: []string{"1+1=3"}})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestRunsWithoutPersistence(t *testing.T) {
	ts := newTestServer(t, nil, false)
	res, _ := do(t, ts, http.MethodGet, "/runs", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	res, _ = do(t, ts, http.MethodPost, "/simulate", "", simulateReq{Games: 1, Save: true})
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
}

func TestDaily(t *testing.T) {
	ts := newTestServer(t, nil, true)

	res, first := do(t, ts, http.MethodGet, "/daily?date=2025-06-01", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "2025-06-01", first["date"])
	assert.Equal(t, true, first["solved"])

	_, again := do(t, ts, http.MethodGet, "/daily?date=2025-06-01", "", nil)
	assert.Equal(t, first, again)

	res, _ = do(t, ts, http.MethodGet, "/daily?date=June", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/daily/history", nil)
	hres, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer hres.Body.Close()
	var hist []map[string]any
	require.NoError(t, json.NewDecoder(hres.Body).Decode(&hist))
	require.Len(t, hist, 1)
	assert.Equal(t, first["secret"], hist[0]["secret"])
}
