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

	"go.uber.org/zap"
)

const (
	usersListCacheKey  = "users:list"
	userCacheKeyPrefix = "user:"
)

// UserHandler handles user-related operations
type UserHandler struct {
	users *services.UserService
	cache *cachepackage.ResponseCache
}

// NewUserHandler creates a new user handler. cache may be nil.
func NewUserHandler(users *services.UserService, cache *cachepackage.ResponseCache) *UserHandler {
	return &UserHandler{
		users: users,
		cache: cache,
	}
}

func userCacheKey(id int64) string {
	return userCacheKeyPrefix + strconv.FormatInt(id, 10)
}

// GetUsers handles GET /users - list all users
func (h *UserHandler) GetUsers(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logRequest(ctx, "info", "Listing users")

	if cached, ok := h.cache.Get(usersListCacheKey); ok {
		logRequest(ctx, "debug", "Serving from cache")
		writeRaw(w, cached)
		return
	}

	users, err := h.users.GetAll(ctx)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to list users")
		return
	}

	response, _ := json.Marshal(users)
	h.cache.Set(usersListCacheKey, response, 5*time.Minute)

	logRequest(ctx, "info", "Users retrieved successfully", zap.Int("count", len(users)))
	writeRaw(w, response)
}

// GetUser handles GET /users/{id} - get user by ID
func (h *UserHandler) GetUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(ctx, w, r, "id")
	if !ok {
		return
	}

	logRequest(ctx, "info", "Getting user", zap.Int64("user_id", id))

	cacheKey := userCacheKey(id)
	if cached, ok := h.cache.Get(cacheKey); ok {
		logRequest(ctx, "debug", "Serving user from cache", zap.Int64("user_id", id))
		writeRaw(w, cached)
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to get user")
		return
	}

	response, _ := json.Marshal(user)
	h.cache.Set(cacheKey, response, 10*time.Minute)

	logRequest(ctx, "info", "User retrieved successfully", zap.Int64("user_id", id))
	writeRaw(w, response)
}

// Register handles POST /users - create a new user
func (h *UserHandler) Register(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.UserDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Registering user", zap.String("username", req.Username))

	user, err := h.users.Register(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to create user")
		return
	}

	h.cache.Delete(usersListCacheKey)

	logRequest(ctx, "info", "User created successfully", zap.Int64("user_id", *user.ID))
	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser handles PUT /users - change the display name of a user
func (h *UserHandler) UpdateUser(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.UserDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Updating user", zap.String("username", req.Username))

	user, err := h.users.Update(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to update user")
		return
	}

	h.cache.Delete(usersListCacheKey, userCacheKey(*user.ID))

	logRequest(ctx, "info", "User updated successfully", zap.Int64("user_id", *user.ID))
	writeJSON(w, http.StatusOK, user)
}

// Login handles POST /login - check username and password
func (h *UserHandler) Login(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.LoginDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Login request", zap.String("username", req.Username))

	user, err := h.users.Login(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to log in")
		return
	}

	logRequest(ctx, "info", "Login successful", zap.Int64("user_id", *user.ID))
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword handles PUT /users/changePassword
func (h *UserHandler) ChangePassword(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req models.NewPasswordDto
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	logRequest(ctx, "info", "Changing password", zap.Int64("user_id", req.UserID))

	changed, err := h.users.ChangePassword(ctx, req)
	if err != nil {
		writeFailure(ctx, w, err, "Failed to change password")
		return
	}

	logRequest(ctx, "info", "Password changed successfully", zap.Int64("user_id", req.UserID))
	writeJSON(w, http.StatusOK, changed)
}
