// Package localdb opens the client databases and brings their schema up to
// date with the embedded goose migrations.
package localdb

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/carekeeper/internal/client/localdb/migrations"
	"github.com/dmitrijs2005/carekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/carekeeper/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/carekeeper/internal/dbx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriver   = "sqlite"
	postgresDriver = "pgx"
)

// seams for tests
var (
	sqlOpen = sql.Open
	gooseUp = runGoose
)

// DB is the local SQLite database holding the metadata store and, unless a
// shared directory is configured, the profile directory.
type DB struct {
	SQL      *sql.DB
	Metadata metadata.Repository
}

// Directory is the profile directory backend. Close is a no-op when the
// directory shares the local database handle.
type Directory struct {
	Profiles profiles.Repository
	shared   bool
	db       *sql.DB
	newRepo  func(dbx.DBTX) profiles.Repository
}

func newSQLiteRepo(db dbx.DBTX) profiles.Repository { return profiles.NewSQLiteRepository(db) }
func newPostgresRepo(db dbx.DBTX) profiles.Repository { return profiles.NewPostgresRepository(db) }

func newDirectory(db *sql.DB, shared bool, newRepo func(dbx.DBTX) profiles.Repository) *Directory {
	return &Directory{Profiles: newRepo(db), shared: shared, db: db, newRepo: newRepo}
}

func (d *Directory) Upsert(ctx context.Context, rec profiles.Record) error {
	return d.Profiles.Upsert(ctx, rec)
}

func (d *Directory) Get(ctx context.Context, id string) (*profiles.Record, error) {
	return d.Profiles.Get(ctx, id)
}

func (d *Directory) List(ctx context.Context) ([]profiles.Record, error) {
	return d.Profiles.List(ctx)
}

// UpsertAll writes recs in a single transaction: either all of them are
// stored or none.
func (d *Directory) UpsertAll(ctx context.Context, recs []profiles.Record) error {
	return dbx.WithTx(ctx, d.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := d.newRepo(tx)
		for _, rec := range recs {
			if err := repo.Upsert(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func (d *Directory) Close() error {
	if d.shared || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func runGoose(ctx context.Context, db *sql.DB, dialect string, fsys fs.FS, dir string) error {
	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())

	return goose.UpContext(ctx, db, dir)
}

// Open opens the SQLite database at dsn and runs its migrations.
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlOpen(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local db: %w", err)
	}
	// one connection keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := gooseUp(ctx, db, "sqlite3", migrations.SQLite, "sqlite"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate local db: %w", err)
	}

	return &DB{
		SQL:      db,
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}

// IsPostgresDSN reports whether dsn names a PostgreSQL server.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// OpenDirectory returns the profile directory. A postgres:// DSN opens a
// shared PostgreSQL directory; anything else reuses local.
func (d *DB) OpenDirectory(ctx context.Context, dsn string) (*Directory, error) {
	if !IsPostgresDSN(dsn) {
		return newDirectory(d.SQL, true, newSQLiteRepo), nil
	}

	db, err := sqlOpen(postgresDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile directory: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to profile directory: %w", err)
	}
	if err := gooseUp(ctx, db, "postgres", migrations.Postgres, "postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate profile directory: %w", err)
	}

	return newDirectory(db, false, newPostgresRepo), nil
}
