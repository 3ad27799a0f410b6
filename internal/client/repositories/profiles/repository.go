// Package profiles stores the profile directory: every user ever registered
// or seeded, keyed by id, together with the password verifier derived at
// registration.
package profiles

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/common"
)

// Record is one directory entry. Salt and Verifier are empty for seeded
// demo profiles, which have no password.
type Record struct {
	User     models.User
	Salt     []byte
	Verifier []byte
}

// Repository is implemented over SQLite and PostgreSQL. Get returns
// common.ErrorNotFound when the id is unknown.
type Repository interface {
	Upsert(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context) ([]Record, error)
}

func encodeUser(u models.User) ([]byte, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile %s: %w", u.ID, err)
	}
	return data, nil
}

func decodeUser(id string, data []byte) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return models.User{}, fmt.Errorf("profile %s: %w: %v", id, common.ErrCorruptRecord, err)
	}
	// the id column is authoritative
	u.ID = id
	return u, nil
}
