package profiles

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/common"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE profiles (
	id       TEXT PRIMARY KEY,
	email    TEXT NOT NULL,
	role     TEXT NOT NULL,
	data     BLOB NOT NULL,
	salt     BLOB,
	verifier BLOB
);`

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(sqliteSchema)
	require.NoError(t, err)
	return db
}

func sampleUser(id string) models.User {
	return models.User{
		ID:               id,
		Name:             "Ann Example",
		Email:            id + "@example.com",
		Role:             models.RolePatient,
		Phone:            "555-0100",
		RegistrationDate: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		IsActive:         true,
	}
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	rec := Record{User: sampleUser("u1"), Salt: []byte("salt"), Verifier: []byte("ver")}
	require.NoError(t, r.Upsert(ctx, rec))

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
}

func TestSQLite_Get_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	got, err := r.Get(context.Background(), "nope")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLite_Upsert_Overwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	first := Record{User: sampleUser("u1"), Salt: []byte("s1"), Verifier: []byte("v1")}
	require.NoError(t, r.Upsert(ctx, first))

	second := first
	second.User.Name = "Ann Renamed"
	second.Salt, second.Verifier = []byte("s2"), []byte("v2")
	require.NoError(t, r.Upsert(ctx, second))

	got, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann Renamed", got.User.Name)
	assert.Equal(t, []byte("v2"), got.Verifier)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestSQLite_Upsert_NilSecrets(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	u := sampleUser("demo-patient")
	u.IsDemo = true
	require.NoError(t, r.Upsert(ctx, Record{User: u}))

	got, err := r.Get(ctx, "demo-patient")
	require.NoError(t, err)
	assert.True(t, got.User.IsDemo)
	assert.Empty(t, got.Salt)
	assert.Empty(t, got.Verifier)
}

func TestSQLite_List_OrderedByID(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Upsert(ctx, Record{User: sampleUser(id)}))
	}

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].User.ID)
	assert.Equal(t, "b", all[1].User.ID)
	assert.Equal(t, "c", all[2].User.ID)
}

func TestSQLite_Get_CorruptData(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := db.Exec(`INSERT INTO profiles (id, email, role, data) VALUES ('bad', 'x', 'patient', 'not json')`)
	require.NoError(t, err)

	_, err = r.Get(context.Background(), "bad")
	assert.ErrorIs(t, err, common.ErrCorruptRecord)
}

func TestSQLite_ClosedDB(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	assert.ErrorContains(t, r.Upsert(ctx, Record{User: sampleUser("u1")}), "failed to upsert profile u1")

	_, err := r.Get(ctx, "u1")
	assert.ErrorContains(t, err, "failed to get profile u1")

	_, err = r.List(ctx)
	assert.ErrorContains(t, err, "failed to list profiles")
}
