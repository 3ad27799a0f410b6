package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/carekeeper/internal/common"
	"github.com/dmitrijs2005/carekeeper/internal/dbx"
)

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository backs a directory shared between workstations.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, rec Record) error {
	data, err := encodeUser(rec.User)
	if err != nil {
		return err
	}

	query :=
		`INSERT INTO profiles (id, email, role, data, salt, verifier)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		 email = EXCLUDED.email, role = EXCLUDED.role, data = EXCLUDED.data,
		 salt = EXCLUDED.salt, verifier = EXCLUDED.verifier
		 `

	_, err = r.db.ExecContext(ctx, query,
		rec.User.ID, rec.User.Email, string(rec.User.Role), string(data), rec.Salt, rec.Verifier)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*Record, error) {
	query :=
		`SELECT data, salt, verifier FROM profiles
		 WHERE id = $1
		 `

	var (
		data []byte
		rec  Record
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data, &rec.Salt, &rec.Verifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if rec.User, err = decodeUser(id, data); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Record, error) {
	query :=
		`SELECT id, data, salt, verifier FROM profiles
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
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
			return nil, fmt.Errorf("db error: %w", err)
		}
		if rec.User, err = decodeUser(id, data); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
