// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily grid.
// Exposes three endpoints under /daily:
//   - GET  /daily/grid?lang=            → today's grid (auto-generated when configured)
//   - POST /daily/grid {language}       → external trigger: create today's grid if missing
//   - GET  /daily/leaderboard?date=&lang= → best session per player, highest score first
//
// One grid exists per language per UTC day (enforced by daily.Service + DB).

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/words"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/grid", s.handleDailyGrid)
		r.Post("/grid", s.handleEnsureGrid)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// languageReq is the body of POST /daily/grid and POST /game/new.
type languageReq struct {
	Language string `json:"language"`
}

// handleDailyGrid returns today's grid for ?lang= (default English).
func (s *Server) handleDailyGrid(w http.ResponseWriter, r *http.Request) {
	lang, err := words.ParseLanguage(r.URL.Query().Get("lang"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language")
		return
	}
	g, err := s.daily.Today(r.Context(), lang)
	switch {
	case errors.Is(err, daily.ErrGridNotFound):
		writeError(w, http.StatusNotFound, "no_grid_today")
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Str("language", string(lang)).Msg("load daily grid")
		writeError(w, http.StatusInternalServerError, "db_error")
	default:
		writeJSON(w, http.StatusOK, g)
	}
}

// handleEnsureGrid creates today's grid if needed: 201 when created, 200 when it existed.
func (s *Server) handleEnsureGrid(w http.ResponseWriter, r *http.Request) {
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
	g, created, err := s.daily.Ensure(r.Context(), lang)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("language", string(lang)).Msg("ensure daily grid")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, g)
}

// leaderboardEntry is one row of /daily/leaderboard.
type leaderboardEntry struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	LongestWord string `json:"longestWord"`
	TotalWords  int    `json:"totalWords"`
}

// leaderboardRes is returned by /daily/leaderboard.
type leaderboardRes struct {
	Date     string             `json:"date"`
	Language words.Language     `json:"language"`
	Users    []leaderboardEntry `json:"users"`
}

// handleLeaderboard returns the leaderboard for ?date= (default today) and ?lang=.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang, err := words.ParseLanguage(q.Get("lang"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_language")
		return
	}
	date, err := daily.ParseDate(q.Get("date"), s.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := s.daily.Store().Leaderboard(r.Context(), daily.Key{Date: date, Language: lang})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	res := leaderboardRes{Date: date, Language: lang, Users: make([]leaderboardEntry, 0, len(rows))}
	for _, row := range rows {
		res.Users = append(res.Users, leaderboardEntry{
			Name:        row.Username,
			Score:       row.Score,
			LongestWord: row.LongestWord,
			TotalWords:  row.TotalWords,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
