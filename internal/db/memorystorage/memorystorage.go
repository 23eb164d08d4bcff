// Package memorystorage provides a purely in-memory storage backend.
// It reuses the jsondb cache without ever touching the filesystem.
package memorystorage

import (
	"context"

	"github.com/SalmanGits/link-sharing-be/internal/db/jsondb"
	"github.com/SalmanGits/link-sharing-be/internal/models"
	"github.com/SalmanGits/link-sharing-be/internal/user"
)

type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.CacheStruct{
				Users:         map[string]*user.User{},
				EmailToUserID: map[string]string{},
				Submissions:   []models.Submission{},
			},
		},
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
