package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todolist-service/models"

	"github.com/jmoiron/sqlx"
)

const userColumns = "id, username, name, password, created_at, updated_at"

// UserStore reads and writes rows of the users table
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore creates a user store on db
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// GetByID returns the user with id, or ErrNotFound
func (s *UserStore) GetByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind("SELECT "+userColumns+" FROM users WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetByUsername returns the user registered as username, or ErrNotFound
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, s.db.Rebind("SELECT "+userColumns+" FROM users WHERE username = ?"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

// ExistsByUsername reports whether username is already registered
func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind("SELECT COUNT(*) FROM users WHERE username = ?"), username)
	if err != nil {
		return false, fmt.Errorf("count users by username: %w", err)
	}
	return count > 0, nil
}

// GetAll returns every user ordered by id
func (s *UserStore) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Create inserts user and fills in its id and bookkeeping timestamps
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO users (username, name, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		user.Username, user.Name, user.Password, now, now)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// Update overwrites the stored row with the same id as user
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET username = ?, name = ?, password = ?, updated_at = ? WHERE id = ?"),
		user.Username, user.Name, user.Password, now, user.ID)
	if err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	user.UpdatedAt = now
	return nil
}
