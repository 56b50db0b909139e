package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todolist-service/models"

	"github.com/jmoiron/sqlx"
)

const taskColumns = "id, title, description, user_id, parent_id, status, creation_time, modified_time"

// TaskStore reads and writes rows of the tasks table
type TaskStore struct {
	db *sqlx.DB
}

// NewTaskStore creates a task store on db
func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// GetByID returns the task with id, or ErrNotFound
func (s *TaskStore) GetByID(ctx context.Context, id int64) (models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task, s.db.Rebind("SELECT "+taskColumns+" FROM tasks WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}

// GetByParentID returns the direct children of parentID
func (s *TaskStore) GetByParentID(ctx context.Context, parentID int64) ([]models.Task, error) {
	return s.list(ctx, "WHERE parent_id = ?", parentID)
}

// GetByOwnerID returns every task owned by userID
func (s *TaskStore) GetByOwnerID(ctx context.Context, userID int64) ([]models.Task, error) {
	return s.list(ctx, "WHERE user_id = ?", userID)
}

// GetByOwnerIDAndStatus returns the tasks owned by userID that are in status
func (s *TaskStore) GetByOwnerIDAndStatus(ctx context.Context, userID int64, status models.Status) ([]models.Task, error) {
	return s.list(ctx, "WHERE user_id = ? AND status = ?", userID, string(status))
}

func (s *TaskStore) list(ctx context.Context, where string, args ...interface{}) ([]models.Task, error) {
	tasks := []models.Task{}
	query := s.db.Rebind("SELECT " + taskColumns + " FROM tasks " + where + " ORDER BY id")
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts task and fills in its id
func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO tasks (title, description, user_id, parent_id, status, creation_time, modified_time)
			VALUES (?, ?, ?, ?, ?, ?, ?)`),
		task.Title, task.Description, task.UserID, task.ParentID, string(task.Status), task.CreationTime, task.ModifiedTime)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	task.ID = id
	return nil
}

// Update overwrites the stored row with the same id as task
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	result, err := s.db.ExecContext(ctx,
		s.db.Rebind(`UPDATE tasks SET title = ?, description = ?, user_id = ?, parent_id = ?, status = ?,
			creation_time = ?, modified_time = ? WHERE id = ?`),
		task.Title, task.Description, task.UserID, task.ParentID, string(task.Status),
		task.CreationTime, task.ModifiedTime, task.ID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", task.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
