package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ganot/stitchcounter/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func sampleProjects() []project.Project {
	parent := "c1"
	trigger := 5
	return []project.Project{{
		ID:         "p1",
		Name:       "Socks",
		IsActive:   true,
		IsExpanded: true,
		CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Counters: []project.Counter{
			{ID: "c1", Name: "Rows", Value: 4, Min: 0, Max: 100, Step: 1},
			{ID: "c2", Name: "Repeats", Min: 0, Max: 20, Step: 1, LinkedToCounterID: &parent, TriggerValue: &trigger},
		},
	}}
}

func TestProjectStore_EmptyLoad(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)

	projects, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, projects)
	require.Empty(t, projects)
}

func TestProjectStore_SaveReplaces(t *testing.T) {
	db := NewTestDB(t)
	store := NewProjectStore(db)
	ctx := context.Background()

	require.NoError(t, store.SaveAll(ctx, sampleProjects()))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, sampleProjects(), loaded)

	require.NoError(t, store.SaveAll(ctx, []project.Project{}))
	loaded, err = store.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)

	var rows int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv_store`).Scan(&rows))
	require.Equal(t, 1, rows)
}

func TestProjectStore_KeysAreIsolated(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	a := NewProjectStoreWithKey(db, "a")
	b := NewProjectStoreWithKey(db, "b")
	require.NoError(t, a.SaveAll(ctx, sampleProjects()))

	loaded, err := b.LoadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestProjectStore_LoadsHistoricalRow(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES (?, ?)`, DefaultKey,
		[]byte(`[{"id":"p1","name":"Old","createdAt":"2023-01-01T00:00:00Z","counters":[{"id":"c1","name":"Rows","value":1,"min":0,"max":5,"step":1}]}]`))
	require.NoError(t, err)

	loaded, err := NewProjectStore(db).LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.True(t, loaded[0].IsActive)
	require.True(t, loaded[0].IsExpanded)
	require.False(t, loaded[0].Counters[0].IsManuallyDisabled)
}

func TestProjectStore_LoadsRowWithFractionalFields(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES (?, ?)`, DefaultKey,
		[]byte(`[{"id":"p1","name":"Old","createdAt":"2023-01-01T00:00:00Z","counters":[
			{"id":"c1","name":"Rows","value":2.5,"min":0,"max":5,"step":1.5},
			{"id":"c2","name":"Repeats","value":0,"min":0,"max":5,"step":1,"linkedToCounterId":"c1","triggerValue":1.5}]}]`))
	require.NoError(t, err)

	store := NewProjectStore(db)
	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, 2, loaded[0].Counters[0].Value)
	require.Equal(t, 1, loaded[0].Counters[0].Step)
	require.Nil(t, loaded[0].Counters[1].TriggerValue)

	// Saving writes the normalized integers back.
	require.NoError(t, store.SaveAll(ctx, loaded))
	reloaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, loaded, reloaded)
}

func TestProjectStore_FilePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stitch.db")
	ctx := context.Background()

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	require.NoError(t, NewProjectStore(db).SaveAll(ctx, sampleProjects()))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	loaded, err := NewProjectStore(db).LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, sampleProjects(), loaded)
}
