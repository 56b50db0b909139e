package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"todolist-service/models"
	"todolist-service/store"
)

// fakeUserStore is an in-memory UserStore
type fakeUserStore struct {
	users  map[int64]models.User
	nextID int64
	err    error
}

var _ UserStore = (*fakeUserStore)(nil)

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]models.User)}
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := f.GetByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (f *fakeUserStore) GetAll(_ context.Context) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrNotFound
	}
	f.users[user.ID] = *user
	return nil
}

// fakeTaskStore is an in-memory TaskStore
type fakeTaskStore struct {
	tasks  map[int64]models.Task
	nextID int64
}

var _ TaskStore = (*fakeTaskStore)(nil)

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[int64]models.Task)}
}

func (f *fakeTaskStore) GetByID(_ context.Context, id int64) (models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return models.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskStore) filter(keep func(models.Task) bool) []models.Task {
	var out []models.Task
	for _, task := range f.tasks {
		if keep(task) {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeTaskStore) GetByParentID(_ context.Context, parentID int64) ([]models.Task, error) {
	return f.filter(func(t models.Task) bool { return t.ParentID != nil && *t.ParentID == parentID }), nil
}

func (f *fakeTaskStore) GetByOwnerID(_ context.Context, userID int64) ([]models.Task, error) {
	return f.filter(func(t models.Task) bool { return t.UserID == userID }), nil
}

func (f *fakeTaskStore) GetByOwnerIDAndStatus(_ context.Context, userID int64, status models.Status) ([]models.Task, error) {
	return f.filter(func(t models.Task) bool { return t.UserID == userID && t.Status == status }), nil
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	f.nextID++
	task.ID = f.nextID
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	if _, ok := f.tasks[task.ID]; !ok {
		return store.ErrNotFound
	}
	f.tasks[task.ID] = *task
	return nil
}

// fakeHasher is a reversible stand-in for bcrypt
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Verify(password, hash string) bool {
	return strings.TrimPrefix(hash, "hashed:") == password && strings.HasPrefix(hash, "hashed:")
}

func int64Ptr(v int64) *int64 { return &v }
