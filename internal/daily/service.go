package daily

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/words"
)

// Service hands out one grid per language per UTC day.
//
// Generation happens at most once per key: concurrent callers in this process
// share one generation, and a second process losing the insert race re-reads
// the winner's grid.
type Service struct {
	store        *Store
	gen          *game.Generator
	autoGenerate bool
	now          func() time.Time

	group singleflight.Group
}

// NewService builds a Service. When autoGenerate is false, Today only reads
// and grids must be created through Ensure.
func NewService(store *Store, gen *game.Generator, autoGenerate bool) *Service {
	return &Service{store: store, gen: gen, autoGenerate: autoGenerate, now: time.Now}
}

// Store exposes the underlying persistence.
func (s *Service) Store() *Store { return s.store }

// Key returns today's key for lang.
func (s *Service) Key(lang words.Language) Key { return KeyFor(s.now(), lang) }

type ensured struct {
	grid    Grid
	created bool
}

// Ensure returns today's grid for lang, generating it if missing.
// created reports whether this call stored a new grid.
func (s *Service) Ensure(ctx context.Context, lang words.Language) (Grid, bool, error) {
	key := s.Key(lang)
	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		g, err := s.store.GridByKey(ctx, key)
		if err == nil {
			return ensured{grid: g}, nil
		}
		if !errors.Is(err, ErrGridNotFound) {
			return nil, err
		}

		g = Grid{
			ID:       uuid.NewString(),
			Date:     key.Date,
			Language: lang,
			Letters:  s.gen.Generate(lang),
		}
		if err := s.store.InsertGrid(ctx, g); err != nil {
			if !errors.Is(err, ErrGridExists) {
				return nil, err
			}
			g, err = s.store.GridByKey(ctx, key)
			if err != nil {
				return nil, err
			}
			return ensured{grid: g}, nil
		}
		log.Info().Str("date", key.Date).Str("language", string(lang)).Str("grid_id", g.ID).Msg("daily grid generated")
		return ensured{grid: g, created: true}, nil
	})
	if err != nil {
		return Grid{}, false, err
	}
	e := v.(ensured)
	return e.grid, e.created, nil
}

// Today returns today's grid for lang. Without auto-generation a missing grid
// is ErrGridNotFound.
func (s *Service) Today(ctx context.Context, lang words.Language) (Grid, error) {
	if s.autoGenerate {
		g, _, err := s.Ensure(ctx, lang)
		return g, err
	}
	return s.store.GridByKey(ctx, s.Key(lang))
}
