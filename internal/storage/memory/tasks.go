package memory

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
	"github.com/yndnr/taskadmin-go/internal/storage"
	"github.com/yndnr/taskadmin-go/pkg/cmap"
)

// TaskStore is an in-memory service.TaskRepository.
type TaskStore struct {
	tasks  *cmap.Map[string, *domain.Task]
	mirror mirror
}

// NewTaskStore creates a task store. kv may be nil; otherwise existing
// records are loaded from it.
func NewTaskStore(ctx context.Context, kv storage.KVEngine) (*TaskStore, error) {
	s := &TaskStore{
		tasks:  cmap.New[string, *domain.Task](),
		mirror: mirror{kv: kv, prefix: taskPrefix},
	}

	err := s.mirror.load(ctx, func(data []byte) error {
		var t domain.Task
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		s.tasks.Set(t.ID, &t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Get retrieves a task by ID.
func (s *TaskStore) Get(_ context.Context, id string) (*domain.Task, error) {
	t, ok := s.tasks.Get(id)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// Put creates or replaces a task.
func (s *TaskStore) Put(ctx context.Context, t *domain.Task) error {
	stored := cloneTask(t)
	// Usernames are resolved on read.
	stored.Username = ""
	s.tasks.Set(t.ID, stored)
	return s.mirror.put(ctx, t.ID, stored)
}

// Delete removes a task by ID.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.tasks.Pop(id); !ok {
		return domain.ErrTaskNotFound
	}
	return s.mirror.delete(ctx, id)
}

// List returns all tasks, newest first.
func (s *TaskStore) List(_ context.Context) ([]*domain.Task, error) {
	values := s.tasks.Values()
	out := make([]*domain.Task, len(values))
	for i, t := range values {
		out[i] = cloneTask(t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case a == nil && b == nil:
			return out[i].ID < out[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case !a.Equal(b.Time):
			return a.After(b.Time)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Count returns the number of stored tasks.
func (s *TaskStore) Count() int {
	return s.tasks.Count()
}

// CountByStatus returns task counts keyed by status.
func (s *TaskStore) CountByStatus() map[string]int {
	counts := make(map[string]int)
	s.tasks.Range(func(_ string, t *domain.Task) bool {
		counts[string(t.Status)]++
		return true
	})
	return counts
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.CreatedAt != nil {
		v := *t.CreatedAt
		c.CreatedAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	if t.Result != nil {
		v := *t.Result
		c.Result = &v
	}
	if t.Error != nil {
		v := *t.Error
		c.Error = &v
	}
	return &c
}
