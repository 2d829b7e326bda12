package daily

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/austinraben/wordhunt/internal/db"
	"github.com/austinraben/wordhunt/internal/game"
	"github.com/austinraben/wordhunt/internal/words"
)

var fixedNow = time.Date(2025, time.March, 7, 23, 30, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "wordhunt.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(conn))
	return conn
}

func newTestService(t *testing.T, auto bool) *Service {
	t.Helper()
	svc := NewService(NewStore(openTestDB(t)), game.NewGenerator(&game.Options{Seed: 1}), auto)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDateKey(t *testing.T) {
	berlin := time.FixedZone("CET", 2*60*60)
	assert.Equal(t, "2025-03-07", DateKey(time.Date(2025, 3, 8, 1, 0, 0, 0, berlin)), "keys are UTC")

	got, err := ParseDate("", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-07", got)

	got, err = ParseDate(" 2024-12-31 ", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", got)

	_, err = ParseDate("31/12/2024", fixedNow)
	assert.Error(t, err)
}

func TestKeyDay(t *testing.T) {
	assert.Equal(t, 7, KeyFor(fixedNow, words.English).Day())
	assert.Zero(t, Key{Date: "garbage"}.Day())
	assert.Equal(t, "2025-03-07/german", KeyFor(fixedNow, words.German).String())
}

func TestStoreGridRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))

	letters, err := game.ParseGrid([][]string{
		{"C", "A", "T", "S"},
		{"O", "R", "E", "D"},
		{"D", "I", "N", "E"},
		{"F", "Ü", "R", "E"},
	})
	require.NoError(t, err)
	g := Grid{ID: "g1", Date: "2025-03-07", Language: words.German, Letters: letters}
	require.NoError(t, st.InsertGrid(ctx, g))

	got, err := st.GridByKey(ctx, g.Key())
	require.NoError(t, err)
	assert.Equal(t, g, got)

	byID, err := st.GridByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, g, byID)

	// Same date in another language is a separate grid.
	other := g
	other.ID, other.Language = "g2", words.English
	require.NoError(t, st.InsertGrid(ctx, other))

	dup := g
	dup.ID = "g3"
	assert.ErrorIs(t, st.InsertGrid(ctx, dup), ErrGridExists)

	_, err = st.GridByKey(ctx, Key{Date: "2025-03-08", Language: words.German})
	assert.ErrorIs(t, err, ErrGridNotFound)
	_, err = st.GridByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrGridNotFound)
}

func TestStoreResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	st := NewStore(openTestDB(t))
	var letters game.Grid
	for r := range game.Size {
		for c := range game.Size {
			letters[r][c] = "E"
		}
	}
	require.NoError(t, st.InsertGrid(ctx, Grid{ID: "en", Date: "2025-03-07", Language: words.English, Letters: letters}))
	require.NoError(t, st.InsertGrid(ctx, Grid{ID: "de", Date: "2025-03-07", Language: words.German, Letters: letters}))

	for _, r := range []Result{
		{GridID: "en", Username: "ana", Score: 400, LongestWord: "fire", TotalWords: 3},
		{GridID: "en", Username: "bo", Score: 800, LongestWord: "cats", TotalWords: 5},
		{GridID: "en", Username: "ana", Score: 1200, LongestWord: "diner", TotalWords: 6},
		{GridID: "en", Username: "cy", Score: 800, LongestWord: "tend", TotalWords: 4},
		{GridID: "de", Username: "dora", Score: 5000, LongestWord: "käse", TotalWords: 9},
	} {
		require.NoError(t, st.InsertResult(ctx, r))
	}

	all, err := st.Results(ctx, "en")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	board, err := st.Leaderboard(ctx, Key{Date: "2025-03-07", Language: words.English})
	require.NoError(t, err)
	want := []Result{
		{GridID: "en", Username: "ana", Score: 1200, LongestWord: "diner", TotalWords: 6},
		{GridID: "en", Username: "bo", Score: 800, LongestWord: "cats", TotalWords: 5},
		{GridID: "en", Username: "cy", Score: 800, LongestWord: "tend", TotalWords: 4},
	}
	if diff := cmp.Diff(want, board); diff != "" {
		t.Errorf("leaderboard mismatch (-want +got):\n%s", diff)
	}

	empty, err := st.Leaderboard(ctx, Key{Date: "2025-03-06", Language: words.English})
	require.NoError(t, err)
	assert.Empty(t, empty)

	err = st.InsertResult(ctx, Result{GridID: "missing", Username: "ana"})
	assert.ErrorIs(t, err, ErrGridNotFound)

	require.NoError(t, st.Clear(ctx))
	all, err = st.Results(ctx, "en")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRankBest(t *testing.T) {
	in := []Result{
		{Username: "zed", Score: 100},
		{Username: "amy", Score: 300},
		{Username: "Zed", Score: 300},
		{Username: "bob", Score: 300},
		{Username: "amy", Score: 300, LongestWord: "later"},
		{Username: "kim", Score: 0},
	}
	// zed submitted first, so the improved Zed row keeps the lead among 300s.
	want := []Result{
		{Username: "Zed", Score: 300},
		{Username: "amy", Score: 300},
		{Username: "bob", Score: 300},
		{Username: "kim", Score: 0},
	}
	if diff := cmp.Diff(want, RankBest(in)); diff != "" {
		t.Errorf("RankBest mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, RankBest(nil))
}

func TestServiceEnsure(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, false)

	g, created, err := svc.Ensure(ctx, words.English)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2025-03-07", g.Date)
	assert.Equal(t, words.English, g.Language)
	require.NoError(t, g.Letters.Validate())

	again, created, err := svc.Ensure(ctx, words.English)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, g, again)

	de, _, err := svc.Ensure(ctx, words.German)
	require.NoError(t, err)
	assert.NotEqual(t, g.ID, de.ID)
}

func TestServiceEnsureConcurrent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, false)

	const callers = 16
	ids := make([]string, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, _, err := svc.Ensure(ctx, words.German)
			assert.NoError(t, err)
			ids[i] = g.ID
		}(i)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestServiceEnsureReadsStoredGrid(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, false)

	// Another process already stored today's grid.
	var letters game.Grid
	for r := range game.Size {
		for c := range game.Size {
			letters[r][c] = "A"
		}
	}
	theirs := Grid{ID: "other-process", Date: "2025-03-07", Language: words.English, Letters: letters}
	require.NoError(t, svc.Store().InsertGrid(ctx, theirs))

	g, created, err := svc.Ensure(ctx, words.English)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, theirs, g)
}

func TestServiceToday(t *testing.T) {
	ctx := context.Background()

	t.Run("read only", func(t *testing.T) {
		svc := newTestService(t, false)
		_, err := svc.Today(ctx, words.English)
		assert.ErrorIs(t, err, ErrGridNotFound)

		made, _, err := svc.Ensure(ctx, words.English)
		require.NoError(t, err)
		got, err := svc.Today(ctx, words.English)
		require.NoError(t, err)
		assert.Equal(t, made, got)
	})

	t.Run("auto generate", func(t *testing.T) {
		svc := newTestService(t, true)
		g, err := svc.Today(ctx, words.German)
		require.NoError(t, err)
		assert.Equal(t, words.German, g.Language)
	})
}
