package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austinraben/wordhunt/internal/config"
	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/db"
	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/store"
	"github.com/austinraben/wordhunt/internal/words"
)

// C A T S
// O R E D
// D I N E
// F I R E
var testRows = [][]string{
	{"C", "A", "T", "S"},
	{"O", "R", "E", "D"},
	{"D", "I", "N", "E"},
	{"F", "I", "R", "E"},
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	srv   *Server
	clk   *clock
	daily *daily.Service
	grid  daily.Grid
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "wordhunt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))

	cfg := config.Default()
	cfg.Game.AutoGenerate = false

	clk := &clock{t: time.Now()}
	svc := daily.NewService(daily.NewStore(conn), game.NewGenerator(nil), false)

	letters, err := game.ParseGrid(testRows)
	require.NoError(t, err)
	grid := daily.Grid{ID: "grid-en", Date: svc.Key(words.English).Date, Language: words.English, Letters: letters}
	require.NoError(t, svc.Store().InsertGrid(context.Background(), grid))

	dict := words.New(words.English, []string{"cat", "cats", "care", "fire", "tend", "dine", "ode", "red"})
	srv := New(cfg, Deps{
		DB:    conn,
		Store: store.NewMemoryStore(store.Options{Now: clk.Now}),
		Daily: svc,
		Words: words.NewLibrary(dict),
	})
	srv.now = clk.Now
	return &fixture{srv: srv, clk: clk, daily: svc, grid: grid}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (f *fixture) newGame(t *testing.T, token string) newGameRes {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/game/new", `{"language":"english"}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[newGameRes](t, rec)
}

func (f *fixture) register(t *testing.T, username, password string) authRes {
	t.Helper()
	body, _ := json.Marshal(credentials{Username: username, Password: password})
	rec := f.do(t, http.MethodPost, "/users", string(body), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[authRes](t, rec)
}

func TestHealthAndNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = f.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodOptions, "/game/new", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)

	alice := f.register(t, " Alice ", "")
	assert.Equal(t, "alice", alice.Username)
	assert.NotEmpty(t, alice.Token)

	rec := f.do(t, http.MethodPost, "/users", `{"username":"ALICE"}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	for _, body := range []string{
		`{"username":"al"}`,
		`{"username":"bad name!"}`,
		`{"username":"bobby","password":"short"}`,
	} {
		rec = f.do(t, http.MethodPost, "/users", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	rec = f.do(t, http.MethodPost, "/users", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/Alice", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/users/nobody", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Passwordless accounts log in by name only.
	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"alice"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"anything123"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.register(t, "bob", "correct horse")
	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"bob","password":"wrong horse"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"bob"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/auth/login", `{"username":"Bob","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	bob := decode[authRes](t, rec)

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "wordhunt_token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	rec = f.do(t, http.MethodGet, "/auth/me", "", bob.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob", decode[authUser](t, rec).Username)

	rec = f.do(t, http.MethodGet, "/auth/me", "", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDailyGridRoutes(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/daily/grid", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, f.grid, decode[daily.Grid](t, rec))

	rec = f.do(t, http.MethodGet, "/daily/grid?lang=klingon", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/daily/grid?lang=de", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "auto-generation is off")

	rec = f.do(t, http.MethodPost, "/daily/grid", `{"language":"german"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[daily.Grid](t, rec)
	assert.Equal(t, words.German, created.Language)

	rec = f.do(t, http.MethodPost, "/daily/grid", `{"language":"German"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[daily.Grid](t, rec))

	rec = f.do(t, http.MethodGet, "/daily/leaderboard?date=yesterday", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGuestGameFlow(t *testing.T) {
	f := newFixture(t)
	g := f.newGame(t, "")
	assert.Equal(t, "grid-en", g.GridID)
	assert.Equal(t, int64(100_000), g.TimeLimitMs)
	assert.Equal(t, f.grid.Letters, g.Grid)

	sel := func(row, col int) selectRes {
		rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/select", `{"row":`+strconv.Itoa(row)+`,"col":`+strconv.Itoa(col)+`}`, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[selectRes](t, rec)
	}
	finalize := func() finalizeRes {
		rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/finalize", "", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[finalizeRes](t, rec)
	}

	assert.Equal(t, game.VerdictForming, sel(0, 0).Verdict)
	sel(0, 1)
	m := sel(0, 2)
	assert.Equal(t, game.VerdictValid, m.Verdict)
	assert.Equal(t, "CAT", m.Word)

	refused := sel(3, 3)
	assert.False(t, refused.Accepted)
	assert.Equal(t, game.VerdictInvalid, refused.Verdict)

	out := finalize()
	assert.Equal(t, game.VerdictAccepted, out.Verdict)
	assert.Equal(t, 100, out.Points)
	assert.Equal(t, 100, out.Score)
	assert.Equal(t, 1, out.WordCount)

	out = finalize()
	assert.Equal(t, game.VerdictRejected, out.Verdict)
	assert.Equal(t, game.ReasonTooShort, out.Reason)

	sel(0, 0)
	sel(0, 1)
	sel(0, 2)
	out = finalize()
	assert.Equal(t, game.ReasonDuplicate, out.Reason)
	assert.Equal(t, 100, out.Score)

	rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/end", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	end := decode[endRes](t, rec)
	assert.False(t, end.Persisted, "guests are not persisted")
	assert.Equal(t, 100, end.Score)
	assert.Equal(t, []string{"cat"}, end.Words)

	rec = f.do(t, http.MethodPost, "/game/"+g.SessionID+"/select", `{"row":0,"col":0}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/game/nope/finalize", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/game/new", `{"language":"german"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "no German dictionary loaded")
}

func TestPlayerResultReachesLeaderboard(t *testing.T) {
	f := newFixture(t)
	carol := f.register(t, "carol", "")
	g := f.newGame(t, carol.Token)

	click := func(row, col int) eventRes {
		rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/click", `{"row":`+strconv.Itoa(row)+`,"col":`+strconv.Itoa(col)+`}`, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[eventRes](t, rec)
	}
	click(3, 0)
	click(3, 1)
	click(3, 2)
	ev := click(3, 3)
	require.NotNil(t, ev.Move)
	assert.Equal(t, "FIRE", ev.Word)
	ev = click(3, 3)
	require.NotNil(t, ev.Outcome)
	assert.Equal(t, 400, ev.Outcome.Points)
	assert.Equal(t, 400, ev.Score)
	assert.Empty(t, ev.Word)

	for range 2 {
		rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/end", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		end := decode[endRes](t, rec)
		assert.True(t, end.Persisted)
		assert.Equal(t, "carol", end.Player)
	}

	// A guest session is not on the board.
	guest := f.newGame(t, "")
	f.do(t, http.MethodPost, "/game/"+guest.SessionID+"/end", "", "")

	rec := f.do(t, http.MethodGet, "/daily/leaderboard?lang=english", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[leaderboardRes](t, rec)
	assert.Equal(t, f.grid.Date, board.Date)
	assert.Equal(t, []leaderboardEntry{{Name: "carol", Score: 400, LongestWord: "fire", TotalWords: 1}}, board.Users)
}

func TestMovesAfterTimeLimit(t *testing.T) {
	f := newFixture(t)
	g := f.newGame(t, "")

	f.clk.Advance(99 * time.Second)
	rec := f.do(t, http.MethodPost, "/game/"+g.SessionID+"/select", `{"row":0,"col":0}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1000), decode[selectRes](t, rec).RemainingMs)

	f.clk.Advance(time.Second)
	rec = f.do(t, http.MethodPost, "/game/"+g.SessionID+"/select", `{"row":0,"col":1}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"time_up"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/game/"+g.SessionID+"/end", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
