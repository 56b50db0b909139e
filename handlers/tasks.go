package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	cachepackage "todolist-service/cache"
	"todolist-service/models"
	"todolist-service/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const taskCacheKeyPrefix = "task:"

// TaskHandler handles task-related operations
type TaskHandler struct {
	tasks *services.TaskService
	cache *cachepackage.ResponseCache
}

// NewTaskHandler creates a new task handler. cache may be nil.
func NewTaskHandler(tasks *services.TaskService, cache *cachepackage.ResponseCache) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
		cache: cache,
	}
}

func taskCacheKey(id int64) string {
	return taskCacheKeyPrefix + strconv.FormatInt(id, 10)
}

// AddTask handles POST /task/add
func (h *TaskHandler) AddTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.TaskDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Adding task", zap.String("title", req.Title))

	task, err := h.tasks.Add(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to add task")
		return
	}

	logRequest(ctx, "info", "Task added successfully", zap.Int64("task_id", *task.ID))
	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask handles PUT /task/update
func (h *TaskHandler) UpdateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.TaskDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating task")

	task, err := h.tasks.Update(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to update task")
		return
	}

	h.cache.Delete(taskCacheKey(*task.ID))

	logRequest(ctx, "info", "Task updated successfully", zap.Int64("task_id", *task.ID))
	writeJSON(w, http.StatusOK, task)
}

// GetTask handles GET /task/{id}. An unknown id answers 200 with {}.
func (h *TaskHandler) GetTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting task", zap.Int64("task_id", id))

	cacheKey := taskCacheKey(id)
	if cached, ok := h.cache.Get(cacheKey); ok {
		logRequest(ctx, "debug", "Serving task from cache", zap.Int64("task_id", id))
		writeRaw(w, cached)
		return
	}

	task, err := h.tasks.Get(ctx, id)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to get task")
		return
	}

	response, _ := json.Marshal(task)
	// an empty answer for a missing id must not outlive the task's creation
	if task.ID != nil {
		h.cache.Set(cacheKey, response, 10*time.Minute)
	}

	writeRaw(w, response)
}

// GetTasksOfParent handles GET /task/parent/{parentId}
func (h *TaskHandler) GetTasksOfParent(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	parentID, ok := pathID(ctx, w, r, "parentId")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListByParent(ctx, parentID)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to list tasks")
		return
	}

	logRequest(ctx, "info", "Subtasks retrieved successfully", zap.Int64("parent_id", parentID), zap.Int("count", len(tasks)))
	writeJSON(w, http.StatusOK, tasks)
}

// GetTasksOfUser handles GET /task/user/{userId} and /task/user/{userId}/{status}
func (h *TaskHandler) GetTasksOfUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(ctx, w, r, "userId")
	if !ok {
		return
	}
	status := mux.Vars(r)["status"]

	tasks, err := h.tasks.ListByUser(ctx, userID, status)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to list tasks")
		return
	}

	logRequest(ctx, "info", "User tasks retrieved successfully",
		zap.Int64("user_id", userID), zap.String("status", status), zap.Int("count", len(tasks)))
	writeJSON(w, http.StatusOK, tasks)
}
