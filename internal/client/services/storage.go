package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/carekeeper/internal/client/models"
	"github.com/dmitrijs2005/carekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/carekeeper/internal/common"
)

// CurrentUserKey is the metadata key holding the persisted session.
const CurrentUserKey = "carekeeper.currentUser"

// Storage persists the current-user slot across process restarts.
// GetUser returns (nil, nil) when nothing is stored.
type Storage interface {
	GetUser(ctx context.Context) (*models.User, error)
	SetUser(ctx context.Context, u models.User) error
	ClearUser(ctx context.Context) error
}

// LocalStorage keeps the user as JSON in the local metadata store.
type LocalStorage struct {
	repo metadata.Repository
}

var _ Storage = (*LocalStorage)(nil)

func NewLocalStorage(repo metadata.Repository) *LocalStorage {
	return &LocalStorage{repo: repo}
}

func (s *LocalStorage) GetUser(ctx context.Context) (*models.User, error) {
	data, err := s.repo.Get(ctx, CurrentUserKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptRecord, err)
	}
	return &u, nil
}

func (s *LocalStorage) SetUser(ctx context.Context, u models.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	return s.repo.Set(ctx, CurrentUserKey, data)
}

func (s *LocalStorage) ClearUser(ctx context.Context) error {
	return s.repo.Delete(ctx, CurrentUserKey)
}
