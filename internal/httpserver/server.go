// internal/httpserver/server.go
//
// HTTP server wiring for the Word Hunt backend.
// Responsibilities:
//   - Router + middleware (request IDs, access logs, JSON, CORS, timeouts, panic recovery).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Daily grid + leaderboard endpoints under /daily (routes_daily.go).
//   - Game session endpoints under /game, REST and websocket (routes_game.go, ws.go).
//   - User registration, login and JWT cookies (auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the player when a valid token is
//     present; guests can still play, they just are not persisted.
//   - The websocket route sits outside the request timeout.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/austinraben/wordhunt/internal/config"
	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/store"
	"github.com/austinraben/wordhunt/internal/words"
)

// Deps are the collaborators the server drives.
type Deps struct {
	DB    *sql.DB
	Store store.Store
	Daily *daily.Service
	Words *words.Library
}

// Server bundles router, live session store, daily service and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   *config.Config
	db    *sql.DB
	store store.Store
	daily *daily.Service
	words *words.Library
	now   func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg *config.Config, d Deps) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		db:    d.DB,
		store: d.Store,
		daily: d.Daily,
		words: d.Words,
		now:   time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                     // add X-Request-ID
	s.r.Use(chimw.RealIP)                        // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))         // request-scoped logger
	s.r.Use(hlog.RequestIDHandler("req_id", "")) // correlate log lines
	s.r.Use(accessLog)                           // one line per request
	s.r.Use(chimw.Recoverer)                     // recover from panics
	s.r.Use(jsonContentType)                     // default JSON responses
	s.r.Use(s.cors)                              // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth)                  // player when signed in

	// Websocket play is long-lived, so it skips the timeout group.
	s.r.Get("/game/{id}/ws", s.handleWS)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout)) // bound handler time

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "wordhunt",
				"endpoints": []string{"/health", "/daily/grid", "/daily/leaderboard", "POST /game/new", "POST /users", "POST /auth/login"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.words.Stats())
		})

		s.mountDaily(r)
		s.mountGame(r)
		s.mountAuth(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one structured line per request through the request logger.
var accessLog = hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
	lvl := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		lvl = zerolog.ErrorLevel
	}
	hlog.FromRequest(r).WithLevel(lvl).
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
})

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.Server.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError sends {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// decodeJSON reads a JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
