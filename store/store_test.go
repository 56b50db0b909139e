package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"todolist-service/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database with the sqlite3 migrations applied.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	files, err := filepath.Glob("../database/migrations/sqlite3/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)
	for _, file := range files {
		body, err := os.ReadFile(file)
		require.NoError(t, err)
		_, err = db.Exec(string(body))
		require.NoError(t, err, file)
	}
	return db
}

func createUser(t *testing.T, s *UserStore, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Name: "Name of " + username, Password: "hash"}
	require.NoError(t, s.Create(context.Background(), &user))
	return user
}

func TestUserStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t))

	user := createUser(t, s, "alice@example.com")
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Username)
	assert.Equal(t, "hash", got.Password)

	byName, err := s.GetByUsername(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t))

	_, err := s.GetByID(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Update(ctx, &models.User{ID: 42, Username: "nobody"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_ExistsByUsername(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t))
	createUser(t, s, "bob")

	exists, err := s.ExistsByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ExistsByUsername(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserStore_CreateDuplicateUsername(t *testing.T) {
	s := NewUserStore(setupTestDB(t))
	createUser(t, s, "bob")

	dup := models.User{Username: "bob", Password: "hash"}
	assert.Error(t, s.Create(context.Background(), &dup))
}

func TestUserStore_UpdateAndGetAll(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore(setupTestDB(t))
	first := createUser(t, s, "first")
	createUser(t, s, "second")

	first.Name = "Renamed"
	require.NoError(t, s.Update(ctx, &first))

	users, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Renamed", users[0].Name)
	assert.Equal(t, "second", users[1].Username)
}

func TestUserStore_GetAllEmpty(t *testing.T) {
	users, err := NewUserStore(setupTestDB(t)).GetAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestTaskStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	owner := createUser(t, NewUserStore(db), "owner")
	s := NewTaskStore(db)

	now := time.Now()
	task := models.Task{
		Title:        "Buy milk",
		Description:  "2 litres",
		UserID:       owner.ID,
		Status:       models.StatusOpen,
		CreationTime: now,
		ModifiedTime: now,
	}
	require.NoError(t, s.Create(ctx, &task))
	assert.NotZero(t, task.ID)

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Nil(t, got.ParentID)
	assert.Equal(t, models.StatusOpen, got.Status)
	assert.True(t, got.CreationTime.Equal(now), "creation time %v != %v", got.CreationTime, now)
}

func TestTaskStore_Queries(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := NewUserStore(db)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	s := NewTaskStore(db)

	insert := func(userID int64, parentID *int64, status models.Status) models.Task {
		now := time.Now()
		task := models.Task{Title: "t", UserID: userID, ParentID: parentID, Status: status, CreationTime: now, ModifiedTime: now}
		require.NoError(t, s.Create(ctx, &task))
		return task
	}

	root := insert(alice.ID, nil, models.StatusOpen)
	child1 := insert(alice.ID, &root.ID, models.StatusDone)
	child2 := insert(alice.ID, &root.ID, models.StatusOpen)
	insert(bob.ID, nil, models.StatusOpen)

	children, err := s.GetByParentID(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, child1.ID, children[0].ID)
	assert.Equal(t, child2.ID, children[1].ID)
	require.NotNil(t, children[0].ParentID)
	assert.Equal(t, root.ID, *children[0].ParentID)

	owned, err := s.GetByOwnerID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	open, err := s.GetByOwnerIDAndStatus(ctx, alice.ID, models.StatusOpen)
	require.NoError(t, err)
	require.Len(t, open, 2)
	for _, task := range open {
		assert.Equal(t, models.StatusOpen, task.Status)
	}

	none, err := s.GetByParentID(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskStore_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	owner := createUser(t, NewUserStore(db), "owner")
	s := NewTaskStore(db)

	created := time.Now().Add(-time.Hour)
	task := models.Task{Title: "draft", UserID: owner.ID, Status: models.StatusOpen, CreationTime: created, ModifiedTime: created}
	require.NoError(t, s.Create(ctx, &task))

	task.Title = "final"
	task.Status = models.StatusDone
	task.ModifiedTime = time.Now()
	require.NoError(t, s.Update(ctx, &task))

	got, err := s.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	assert.Equal(t, models.StatusDone, got.Status)
	assert.True(t, got.CreationTime.Equal(created))

	missing := models.Task{ID: 999, UserID: owner.ID, Status: models.StatusOpen}
	assert.ErrorIs(t, s.Update(ctx, &missing), ErrNotFound)

	_, err = s.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
