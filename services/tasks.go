package services

import (
	"context"
	"fmt"
	"time"

	"todolist-service/apperrors"
	"todolist-service/models"
)

// TaskService implements the task operations
type TaskService struct {
	tasks TaskStore
	users UserStore
	now   func() time.Time
}

// NewTaskService creates a task service. users is only used to check that
// owners exist.
func NewTaskService(tasks TaskStore, users UserStore) *TaskService {
	return &TaskService{
		tasks: tasks,
		users: users,
		now:   time.Now,
	}
}

// Add validates dto and inserts it as a new task. Any id in dto is ignored.
func (s *TaskService) Add(ctx context.Context, dto models.TaskDto) (models.TaskDto, error) {
	dto.ID = nil
	return s.save(ctx, dto, false)
}

// Update validates dto and replaces the stored task with the same id.
// The stored creation time always wins over the one in dto.
func (s *TaskService) Update(ctx context.Context, dto models.TaskDto) (models.TaskDto, error) {
	return s.save(ctx, dto, true)
}

func (s *TaskService) save(ctx context.Context, dto models.TaskDto, isUpdate bool) (models.TaskDto, error) {
	existing, err := s.validate(ctx, dto, isUpdate)
	if err != nil {
		return models.TaskDto{}, err
	}

	task := models.TaskFromDto(dto)
	if existing != nil {
		task.CreationTime = existing.CreationTime
		if task.Status == "" {
			task.Status = existing.Status
		}
	}
	if task.Status == "" {
		task.Status = models.StatusOpen
	}

	// modified time is stamped on create too, so a fresh task has both equal
	now := s.now()
	if task.CreationTime.IsZero() {
		task.CreationTime = now
	}
	task.ModifiedTime = now

	if isUpdate {
		err = s.tasks.Update(ctx, &task)
	} else {
		err = s.tasks.Create(ctx, &task)
	}
	if err != nil {
		return models.TaskDto{}, err
	}
	return models.TaskToDto(task), nil
}

// validate checks the references in dto and returns the stored task when
// isUpdate is set and it exists.
func (s *TaskService) validate(ctx context.Context, dto models.TaskDto, isUpdate bool) (*models.Task, error) {
	var failures apperrors.Collector
	var existing *models.Task

	if isUpdate {
		if dto.ID == nil {
			failures.Add("Id", "This task does not exist!")
		} else {
			task, err := s.tasks.GetByID(ctx, *dto.ID)
			ok, err := found(err)
			if err != nil {
				return nil, err
			}
			if ok {
				existing = &task
			} else {
				failures.Add("Id", "This task does not exist!")
			}
		}
	}

	if dto.UserID == nil {
		failures.Add("UserId", "User is required!")
	} else {
		_, err := s.users.GetByID(ctx, *dto.UserID)
		ok, err := found(err)
		if err != nil {
			return nil, err
		}
		if !ok {
			failures.Add("UserId", "User does not exist!")
		}
	}

	if dto.ParentID != nil {
		_, err := s.tasks.GetByID(ctx, *dto.ParentID)
		ok, err := found(err)
		if err != nil {
			return nil, err
		}
		if !ok {
			failures.Add("ParentId", "Parent does not exist!")
		}
	}

	if dto.Status != "" {
		if _, ok := models.ParseStatus(dto.Status); !ok {
			failures.Add("Status", unknownStatus(dto.Status))
		}
	}

	if err := failures.Failure("Validation errors"); err != nil {
		return nil, err
	}
	return existing, nil
}

// Get returns the task with id. An unknown id yields an empty TaskDto and no
// error, unlike UserService.GetByID.
func (s *TaskService) Get(ctx context.Context, id int64) (models.TaskDto, error) {
	task, err := s.tasks.GetByID(ctx, id)
	ok, err := found(err)
	if err != nil {
		return models.TaskDto{}, err
	}
	if !ok {
		return models.TaskDto{}, nil
	}
	return models.TaskToDto(task), nil
}

// ListByParent returns the direct children of parentID
func (s *TaskService) ListByParent(ctx context.Context, parentID int64) ([]models.TaskDto, error) {
	tasks, err := s.tasks.GetByParentID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return tasksToDtos(tasks), nil
}

// ListByUser returns the tasks owned by userID, filtered to status when it is
// not empty. A status outside the closed set is a validation failure.
func (s *TaskService) ListByUser(ctx context.Context, userID int64, status string) ([]models.TaskDto, error) {
	if status == "" {
		tasks, err := s.tasks.GetByOwnerID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return tasksToDtos(tasks), nil
	}

	st, ok := models.ParseStatus(status)
	if !ok {
		var failures apperrors.Collector
		failures.Add("Status", unknownStatus(status))
		return nil, failures.Failure("Status is wrong!")
	}
	tasks, err := s.tasks.GetByOwnerIDAndStatus(ctx, userID, st)
	if err != nil {
		return nil, err
	}
	return tasksToDtos(tasks), nil
}

func unknownStatus(status string) string {
	return fmt.Sprintf("No status %q; expected one of %s", status, models.StatusNames())
}

func tasksToDtos(tasks []models.Task) []models.TaskDto {
	dtos := make([]models.TaskDto, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, models.TaskToDto(task))
	}
	return dtos
}
