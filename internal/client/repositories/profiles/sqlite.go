package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carekeeper/internal/common"
	"github.com/dmitrijs2005/carekeeper/internal/dbx"
)

var _ Repository = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, rec Record) error {
	data, err := encodeUser(rec.User)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, email, role, data, salt, verifier)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email    = excluded.email,
			role     = excluded.role,
			data     = excluded.data,
			salt     = excluded.salt,
			verifier = excluded.verifier
	`, rec.User.ID, rec.User.Email, string(rec.User.Role), data, rec.Salt, rec.Verifier)
	if err != nil {
		return fmt.Errorf("failed to upsert profile %s: %w", rec.User.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Record, error) {
	var (
		data []byte
		rec  Record
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT data, salt, verifier FROM profiles WHERE id = ?`, id,
	).Scan(&data, &rec.Salt, &rec.Verifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	if rec.User, err = decodeUser(id, data); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data, salt, verifier FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var (
			id   string
			data []byte
			rec  Record
		)
		if err := rows.Scan(&id, &data, &rec.Salt, &rec.Verifier); err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		if rec.User, err = decodeUser(id, data); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile rows: %w", err)
	}
	return result, nil
}
