// internal/httpserver/auth.go
//
// Player accounts for the Word Hunt backend.
// Responsibilities:
//   - POST /users registers a player (409 when the name is taken).
//   - POST /auth/login, POST /auth/logout, GET /auth/me.
//   - GET /users/{username} answers whether a player exists.
//   - HS256 JWT in an HttpOnly cookie (or Authorization: Bearer) and the
//     optional-auth middleware that puts the player into request context.
//
// Passwords are optional. Accounts created without one log in by name only,
// which matches how the leaderboard identifies players.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/crypto/bcrypt"

	"github.com/austinraben/wordhunt/internal/db"
)

// ErrUsernameTaken is returned when registering a name that already exists.
var ErrUsernameTaken = errors.New("username taken")

var errUserNotFound = errors.New("user not found")

// authUser is placed into request context by the auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// currentUser returns the signed-in player, or nil for guests.
func currentUser(ctx context.Context) *authUser {
	u, _ := ctx.Value(ctxUserKey{}).(*authUser)
	return u
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authRes struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// mountAuth registers account routes.
func (s *Server) mountAuth(r chi.Router) {
	r.Post("/users", s.handleRegister)
	r.Get("/users/{username}", s.handleGetUser)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		me := currentUser(r.Context())
		if me == nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, me)
	})
}

// handleRegister creates a player, signs a JWT and sets the auth cookie.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	switch {
	case errors.Is(err, ErrUsernameTaken):
		writeError(w, http.StatusConflict, "username_taken")
		return
	case err != nil:
		var ve validationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	s.issueToken(w, r, http.StatusCreated, u)
}

// handleLogin authenticates a player and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(r.Context(), normalizeUsername(body.Username))
	if err != nil {
		if !errors.Is(err, errUserNotFound) {
			hlog.FromRequest(r).Error().Err(err).Msg("find user")
		}
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	if !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials")
		return
	}
	s.issueToken(w, r, http.StatusOK, u)
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleGetUser reports whether a username is registered.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.findUserByUsername(r.Context(), normalizeUsername(chi.URLParam(r, "username")))
	switch {
	case errors.Is(err, errUserNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("find user")
		writeError(w, http.StatusInternalServerError, "db_error")
	default:
		writeJSON(w, http.StatusOK, map[string]any{"username": u.Username, "createdAt": u.CreatedAt})
	}
}

func (s *Server) issueToken(w http.ResponseWriter, r *http.Request, status int, u *userRow) {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.setAuthCookie(w, tok, exp)
	writeJSON(w, status, authRes{ID: u.ID, Username: u.Username, Token: tok})
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with the player if a valid JWT is present.
// It never 401s; guests pass through untouched.
func (s *Server) withOptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := s.bearerOrCookie(r); tok != "" {
			if id, ok := s.parseJWT(tok); ok {
				// The account must still exist.
				if u, err := s.findUserByID(r.Context(), id); err == nil {
					ctx := context.WithValue(r.Context(), ctxUserKey{}, &authUser{ID: u.ID, Username: u.Username})
					r = r.WithContext(ctx)
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------ users ---------------------------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type validationError string

func (e validationError) Error() string { return string(e) }

// createUser validates input, hashes the password if any, and inserts the player.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var hash string
	if pw != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(h)
	}
	u := &userRow{ID: uuid.NewString(), Username: username, PasswordHash: hash, CreatedAt: s.now().UTC()}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if db.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%s: %w", username, ErrUsernameTaken)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username=?`, username)
	return scanUser(row)
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errUserNotFound
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// checkPassword accepts an empty password only for passwordless accounts.
func checkPassword(hash, pw string) bool {
	if hash == "" {
		return pw == ""
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// normalizeUsername trims and lowercases; names are case-insensitive.
func normalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// validateSignup enforces username rules and, when given, password length.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return validationError("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return validationError("username: letters, numbers, underscore only")
		}
	}
	if p != "" && (len(p) < 8 || len(p) > 100) {
		return validationError("password must be 8-100 chars")
	}
	return nil
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(time.Duration(s.cfg.Auth.ExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Auth.JWTSecret))
	return ss, exp, err
}

// parseJWT verifies tok and returns the user ID it carries.
func (s *Server) parseJWT(tok string) (string, bool) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", false
	}
	id, _ := claims["id"].(string)
	return id, id != ""
}

// setAuthCookie writes the auth token cookie with appropriate security attributes.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.authCookie(token, exp, 0))
}

// clearAuthCookie deletes the auth token cookie.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.authCookie("", time.Time{}, -1))
}

func (s *Server) authCookie(value string, exp time.Time, maxAge int) *http.Cookie {
	secure := s.cfg.Auth.SecureOnly
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.Auth.CookieName); err == nil {
		return c.Value
	}
	return ""
}
