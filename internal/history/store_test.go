package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)

	run := &Run{
		Mode:       "bundle",
		SourceDir:  "/src/research",
		OutputDir:  "/out/20260823-103000__kubernetes",
		Query:      "kubernetes",
		Regex:      false,
		Days:       365,
		Limit:      25,
		Selected:   25,
		Considered: 30,
	}
	require.NoError(t, store.Record(run))

	// Record fills in identity fields
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	runs, err := store.Recent("", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "bundle", got.Mode)
	assert.Equal(t, "kubernetes", got.Query)
	assert.Equal(t, 25, got.Selected)
	assert.Equal(t, 30, got.Considered)
}

func TestRecentOrderAndLimit(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(&Run{
			Mode:      "collect",
			SourceDir: "/src",
			OutputDir: "/out",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.Recent("", 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Newest first
	for i := 1; i < len(runs); i++ {
		assert.False(t, runs[i].CreatedAt.After(runs[i-1].CreatedAt),
			"runs out of order: %v before %v", runs[i-1].CreatedAt, runs[i].CreatedAt)
	}
}

func TestRecentModeFilter(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record(&Run{Mode: "collect", SourceDir: "/a", OutputDir: "/x"}))
	require.NoError(t, store.Record(&Run{Mode: "bundle", SourceDir: "/b", OutputDir: "/y"}))
	require.NoError(t, store.Record(&Run{Mode: "bundle", SourceDir: "/c", OutputDir: "/z"}))

	bundles, err := store.Recent("bundle", 0)
	require.NoError(t, err)
	assert.Len(t, bundles, 2)
	for _, run := range bundles {
		assert.Equal(t, "bundle", run.Mode)
	}

	collects, err := store.Recent("collect", 0)
	require.NoError(t, err)
	assert.Len(t, collects, 1)
}

func TestStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Record(&Run{Mode: "collect", SourceDir: "/a", OutputDir: "/x"}))
	require.NoError(t, store.Close())

	// Rows survive reopening; schema init is idempotent
	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.Recent("", 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
