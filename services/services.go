// Package services validates requests, maps transfer objects to entities and
// back, and delegates persistence to the stores.
//
// Every validation step records its problems in an apperrors.Collector; a
// request is rejected with all of them at once and nothing is written.
package services

import (
	"context"
	"errors"

	"todolist-service/models"
	"todolist-service/store"
)

// UserStore is the persistence surface the user and task services need
type UserStore interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	GetAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// TaskStore is the persistence surface of the task service
type TaskStore interface {
	GetByID(ctx context.Context, id int64) (models.Task, error)
	GetByParentID(ctx context.Context, parentID int64) ([]models.Task, error)
	GetByOwnerID(ctx context.Context, userID int64) ([]models.Task, error)
	GetByOwnerIDAndStatus(ctx context.Context, userID int64, status models.Status) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, task *models.Task) error
}

// PasswordHasher hashes new passwords and checks plaintext against a hash
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// found turns a lookup error into an existence flag.
// Errors other than store.ErrNotFound are passed through.
func found(err error) (bool, error) {
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
