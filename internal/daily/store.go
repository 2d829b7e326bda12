package daily

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/austinraben/wordhunt/internal/db"
	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/words"
)

var (
	// ErrGridExists is returned when a grid for the same date and language is already stored.
	ErrGridExists = errors.New("grid already exists")
	// ErrGridNotFound is returned when no grid matches the lookup.
	ErrGridNotFound = errors.New("grid not found")
)

// Result is one finished session.
type Result struct {
	GridID      string `json:"gridId"`
	Username    string `json:"name"`
	Score       int    `json:"score"`
	LongestWord string `json:"longestWord"`
	TotalWords  int    `json:"totalWords"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertGrid stores g. A second grid for the same key yields ErrGridExists.
func (s *Store) InsertGrid(ctx context.Context, g Grid) error {
	letters, err := json.Marshal(g.Letters)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grids(id, date, day, language, letters) VALUES(?,?,?,?,?)`,
		g.ID, g.Date, g.Key().Day(), string(g.Language), string(letters),
	)
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", g.Key(), ErrGridExists)
	}
	return err
}

// GridByKey loads the grid for k.
func (s *Store) GridByKey(ctx context.Context, k Key) (Grid, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, language, letters FROM grids WHERE date=? AND language=?`,
		k.Date, string(k.Language),
	)
	g, err := scanGrid(row)
	if errors.Is(err, ErrGridNotFound) {
		return Grid{}, fmt.Errorf("%s: %w", k, ErrGridNotFound)
	}
	return g, err
}

// GridByID loads a grid by its ID.
func (s *Store) GridByID(ctx context.Context, id string) (Grid, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, date, language, letters FROM grids WHERE id=?`, id,
	)
	return scanGrid(row)
}

func scanGrid(row *sql.Row) (Grid, error) {
	var (
		g       Grid
		lang    string
		letters string
	)
	if err := row.Scan(&g.ID, &g.Date, &lang, &letters); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Grid{}, ErrGridNotFound
		}
		return Grid{}, err
	}
	g.Language = words.Language(lang)

	var rows [][]string
	if err := json.Unmarshal([]byte(letters), &rows); err != nil {
		return Grid{}, fmt.Errorf("grid %s letters: %w", g.ID, err)
	}
	parsed, err := game.ParseGrid(rows)
	if err != nil {
		return Grid{}, fmt.Errorf("grid %s: %w", g.ID, err)
	}
	g.Letters = parsed
	return g, nil
}

// InsertResult records a finished session against its grid.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(grid_id, username, score, longest_word, total_words)
		VALUES(?,?,?,?,?)`, r.GridID, r.Username, r.Score, r.LongestWord, r.TotalWords,
	)
	if db.IsForeignKeyViolation(err) {
		return fmt.Errorf("grid %s: %w", r.GridID, ErrGridNotFound)
	}
	return err
}

// Results returns every result for a grid in insertion order.
func (s *Store) Results(ctx context.Context, gridID string) ([]Result, error) {
	return s.queryResults(ctx,
		`SELECT grid_id, username, score, longest_word, total_words
		FROM scores WHERE grid_id=? ORDER BY id ASC`, gridID,
	)
}

// Leaderboard ranks the best session per player on k's grid.
func (s *Store) Leaderboard(ctx context.Context, k Key) ([]Result, error) {
	all, err := s.queryResults(ctx,
		`SELECT s.grid_id, s.username, s.score, s.longest_word, s.total_words
		FROM scores s JOIN grids g ON g.id = s.grid_id
		WHERE g.date=? AND g.language=?
		ORDER BY s.id ASC`, k.Date, string(k.Language),
	)
	if err != nil {
		return nil, err
	}
	return RankBest(all), nil
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.GridID, &r.Username, &r.Score, &r.LongestWord, &r.TotalWords); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Clear deletes every score, grid and user. Maintenance only.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, table := range []string{"scores", "grids", "users"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
