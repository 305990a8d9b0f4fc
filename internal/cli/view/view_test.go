package view

import (
	"context"
	"errors"
	"sync"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

var errDown = domain.ErrConnection.WithCause(errors.New("dial tcp: refused"))

// fakeAPI serves canned data. Setting block makes GetUsers wait for a
// release.
type fakeAPI struct {
	mu       sync.Mutex
	users    []*domain.User
	tasks    []*domain.Task
	byStatus *domain.TaskStatsByStatus
	byType   domain.TaskStatsByType

	usersErr  error
	tasksErr  error
	statsErr  error
	deleteErr error

	userFetches int
	taskFetches int
	deleted     []string
	created     []domain.UserCreate

	block chan struct{}
}

func (f *fakeAPI) GetUsers(context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	f.userFetches++
	block := f.block
	users := append([]*domain.User(nil), f.users...)
	err := f.usersErr
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return users, err
}

func (f *fakeAPI) CreateUser(_ context.Context, req domain.UserCreate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	u := &domain.User{ID: "new", Username: req.Username, Role: domain.RoleUser}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, id string, req domain.UserUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			if req.Role != nil {
				u.Role = *req.Role
			}
			return u, nil
		}
	}
	return nil, domain.ErrNotFound.WithMessage("User not found")
}

func (f *fakeAPI) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	kept := f.users[:0:0]
	for _, u := range f.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.users = kept
	return nil
}

func (f *fakeAPI) GetAllTasks(context.Context) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taskFetches++
	return append([]*domain.Task(nil), f.tasks...), f.tasksErr
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) GetTaskStatsByStatus(context.Context) (*domain.TaskStatsByStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.byStatus, nil
}

func (f *fakeAPI) GetTaskStatsByType(context.Context) (domain.TaskStatsByType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byType, nil
}

func sampleUsers() []*domain.User {
	return []*domain.User{
		{ID: "1", Username: "admin", Role: domain.RoleAdmin},
		{ID: "2", Username: "Alice", Role: domain.RoleUser},
		{ID: "3", Username: "bob", Role: domain.RoleUser},
	}
}

func sampleTasks() []*domain.Task {
	return []*domain.Task{
		{ID: "t1", UserID: "2", Username: "alice", TaskType: "translation", Status: domain.TaskCompleted},
		{ID: "t2", UserID: "2", Username: "alice", TaskType: "summarization", Status: domain.TaskPending},
		{ID: "t3", UserID: "3", Username: "bob", TaskType: "translation", Status: domain.TaskFailed},
		{ID: "t4", UserID: "3", Username: "bob", TaskType: "code_generation", Status: domain.TaskCompleted},
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = id(it)
	}
	return out
}

func userIDs(us []*domain.User) []string { return ids(us, func(u *domain.User) string { return u.ID }) }
func taskIDs(ts []*domain.Task) []string { return ids(ts, func(t *domain.Task) string { return t.ID }) }

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
