package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// TaskService handles task queries and statistics.
type TaskService struct {
	tasks TaskRepository
	users UserRepository
	now   func() time.Time
}

// NewTaskService creates a new TaskService. users is used to resolve
// usernames and may be nil.
func NewTaskService(tasks TaskRepository, users UserRepository) *TaskService {
	return &TaskService{tasks: tasks, users: users, now: time.Now}
}

// List returns all tasks, newest first, with usernames resolved.
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	for _, t := range tasks {
		s.fillUsername(ctx, t, names)
	}
	return tasks, nil
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillUsername(ctx, t, nil)
	return t, nil
}

// Delete removes a task by ID.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.tasks.Get(ctx, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}

// StatsByStatus counts tasks per status.
func (s *TaskService) StatsByStatus(ctx context.Context) (domain.TaskStatsByStatus, error) {
	var stats domain.TaskStatsByStatus
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return stats, err
	}
	for _, t := range tasks {
		stats.Add(t.Status)
	}
	return stats, nil
}

// StatsByType counts tasks per task type. Known types are always present.
func (s *TaskService) StatsByType(ctx context.Context) (domain.TaskStatsByType, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	stats := make(domain.TaskStatsByType, len(domain.TaskTypes))
	for _, tt := range domain.TaskTypes {
		stats[tt] = 0
	}
	for _, t := range tasks {
		stats[t.TaskType]++
	}
	return stats, nil
}

// Seed creates n tasks spread over owners. The same seed always produces
// the same types, statuses and prompts.
func (s *TaskService) Seed(ctx context.Context, n int, owners []*domain.User, seed uint64) ([]*domain.Task, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(owners) == 0 {
		return nil, errors.New("seed tasks: no owners")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	base := s.now().UTC().Truncate(time.Second)
	out := make([]*domain.Task, 0, n)

	for i := 0; i < n; i++ {
		owner := owners[i%len(owners)]
		taskType := domain.TaskTypes[rng.IntN(len(domain.TaskTypes))]
		status := domain.TaskStatuses[rng.IntN(len(domain.TaskStatuses))]
		created := base.Add(-time.Duration(n-i) * time.Minute)

		t := &domain.Task{
			ID:        uuid.NewString(),
			UserID:    owner.ID,
			TaskType:  taskType,
			Prompt:    fmt.Sprintf("%s request #%d", taskType, i+1),
			Status:    status,
			CreatedAt: domain.NewTimestamp(created),
		}
		switch status {
		case domain.TaskCompleted:
			result := fmt.Sprintf("%s output #%d", taskType, i+1)
			t.Result = &result
			t.CompletedAt = domain.NewTimestamp(created.Add(30 * time.Second))
		case domain.TaskFailed:
			msg := "model timeout"
			t.Error = &msg
			t.CompletedAt = domain.NewTimestamp(created.Add(30 * time.Second))
		}

		if err := s.tasks.Put(ctx, t); err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TaskService) fillUsername(ctx context.Context, t *domain.Task, cache map[string]string) {
	if s.users == nil || t.Username != "" {
		return
	}
	if name, ok := cache[t.UserID]; ok {
		t.Username = name
		return
	}
	acc, err := s.users.Get(ctx, t.UserID)
	if err != nil {
		return
	}
	t.Username = acc.Username
	if cache != nil {
		cache[t.UserID] = acc.Username
	}
}
