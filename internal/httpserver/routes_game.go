// internal/httpserver/routes_game.go
//
// HTTP routes for live game sessions.
//   - POST /game/new {language}     → start a session on today's grid
//   - POST /game/{id}/select {row,col} → extend the path
//   - POST /game/{id}/click {row,col}  → click modality (click the last cell to submit)
//   - POST /game/{id}/finalize      → submit the current word
//   - POST /game/{id}/end           → summary; persisted for signed-in players
//
// Sessions live in the store until the janitor evicts them. Moves after the
// time limit answer 409 time_up; /end is always allowed.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/store"
	"github.com/austinraben/wordhunt/internal/words"
)

// mountGame registers all /game routes except the websocket.
func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Post("/select", s.handleSelect)
		r.Post("/click", s.handleClick)
		r.Post("/finalize", s.handleFinalize)
		r.Post("/end", s.handleEnd)
	})
}

type newGameRes struct {
	SessionID   string         `json:"sessionId"`
	GridID      string         `json:"gridId"`
	Date        string         `json:"date"`
	Language    words.Language `json:"language"`
	Grid        game.Grid      `json:"grid"`
	TimeLimitMs int64          `json:"timeLimitMs"`
}

// handleNewGame starts a session on today's grid for the requested language.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req languageReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	lang, err := words.ParseLanguage(req.Language)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language")
		return
	}
	dict, err := s.words.Get(lang)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language")
		return
	}
	g, err := s.daily.Today(r.Context(), lang)
	switch {
	case errors.Is(err, daily.ErrGridNotFound):
		writeError(w, http.StatusNotFound, "no_grid_today")
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("load daily grid")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	sess, err := game.NewSession(g.Letters, dict)
	if err != nil {
		// Stored grids are validated on load, so this is corruption.
		hlog.FromRequest(r).Error().Err(err).Str("grid_id", g.ID).Msg("start session")
		writeError(w, http.StatusInternalServerError, "bad_grid")
		return
	}
	var player string
	if me := currentUser(r.Context()); me != nil {
		player = me.Username
	}
	limit := s.cfg.Game.TimeLimit
	if err := s.store.Save(r.Context(), store.NewEntry(sess, g.ID, player, s.now(), limit)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	hlog.FromRequest(r).Debug().Str("session", sess.ID).Str("grid_id", g.ID).Bool("guest", player == "").Msg("session started")

	writeJSON(w, http.StatusCreated, newGameRes{
		SessionID:   sess.ID,
		GridID:      g.ID,
		Date:        g.Date,
		Language:    lang,
		Grid:        g.Letters,
		TimeLimitMs: limit.Milliseconds(),
	})
}

// progress is attached to every move response.
type progress struct {
	Score       int   `json:"score"`
	WordCount   int   `json:"wordCount"`
	RemainingMs int64 `json:"remainingMs"`
}

func (s *Server) progress(e *store.Entry) progress {
	return progress{
		Score:       e.Session.Score(),
		WordCount:   e.Session.WordCount(),
		RemainingMs: e.Remaining(s.now()).Milliseconds(),
	}
}

type selectRes struct {
	game.Move
	progress
}

type finalizeRes struct {
	game.Outcome
	progress
}

type eventRes struct {
	game.Event
	Word string `json:"word"`
	progress
}

// play runs fn on the session named in the URL and maps store errors to HTTP.
func (s *Server) play(w http.ResponseWriter, r *http.Request, fn func(*store.Entry) any) {
	var res any
	err := s.store.Play(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		res = fn(e)
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "session_not_found")
	case errors.Is(err, store.ErrTimeUp):
		writeError(w, http.StatusConflict, "time_up")
	case errors.Is(err, store.ErrEnded):
		writeError(w, http.StatusConflict, "session_ended")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout")
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("session")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

func decodeCell(r *http.Request) (game.Cell, bool) {
	var c game.Cell
	if err := decodeJSON(r, &c); err != nil {
		return c, false
	}
	return c, true
}

// handleSelect extends the path with one cell.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCell(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.play(w, r, func(e *store.Entry) any {
		return selectRes{Move: e.Session.Select(c), progress: s.progress(e)}
	})
}

// handleClick feeds one click to the click adapter.
func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCell(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	s.play(w, r, func(e *store.Entry) any {
		ev := e.Click.Click(c)
		return eventRes{Event: ev, Word: e.Session.Word(), progress: s.progress(e)}
	})
}

// handleFinalize submits the current word.
func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	s.play(w, r, func(e *store.Entry) any {
		return finalizeRes{Outcome: e.Session.Finalize(), progress: s.progress(e)}
	})
}

type endRes struct {
	game.Summary
	GridID    string `json:"gridId"`
	Player    string `json:"player,omitempty"`
	Persisted bool   `json:"persisted"`
}

// handleEnd closes the session and records the result for signed-in players.
// Ending twice returns the same summary without a second insert.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var res endRes
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), func(e *store.Entry) error {
		e.Ended = true
		if e.Player == "" {
			if me := currentUser(r.Context()); me != nil {
				e.Player = me.Username
			}
		}
		sum := e.Session.Summary()
		if e.Player != "" && !e.Persisted {
			if err := s.daily.Store().InsertResult(r.Context(), daily.Result{
				GridID:      e.GridID,
				Username:    e.Player,
				Score:       sum.Score,
				LongestWord: sum.LongestWord,
				TotalWords:  sum.TotalWords,
			}); err != nil {
				return err
			}
			e.Persisted = true
			hlog.FromRequest(r).Info().Str("player", e.Player).Int("score", sum.Score).Str("grid_id", e.GridID).Msg("result saved")
		}
		res = endRes{Summary: sum, GridID: e.GridID, Player: e.Player, Persisted: e.Persisted}
		return nil
	})
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
