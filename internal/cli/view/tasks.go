package view

import (
	"context"
	"strings"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// TypeAll disables the task type filter.
const TypeAll = "all"

// TasksAPI is the part of the API the tasks view calls.
type TasksAPI interface {
	GetAllTasks(ctx context.Context) ([]*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// TaskFilter selects tasks by status, type and search term. All
// conditions must hold.
type TaskFilter struct {
	// Status is a task status or StatusAll. Empty means StatusAll.
	Status string
	// Type is an exact task type or TypeAll. Empty means TypeAll.
	Type string
	// Term matches task type, user id or username, ignoring case.
	Term string
}

// Match reports whether t passes the filter.
func (f TaskFilter) Match(t *domain.Task) bool {
	if f.Status != "" && f.Status != StatusAll && string(t.Status) != f.Status {
		return false
	}
	if f.Type != "" && f.Type != TypeAll && t.TaskType != f.Type {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Term))
	if term == "" {
		return true
	}
	for _, field := range []string{t.TaskType, t.UserID, t.Username} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// FilterTasks keeps the tasks matching f.
func FilterTasks(tasks []*domain.Task, f TaskFilter) []*domain.Task {
	out := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tasks is the task monitoring view.
type Tasks struct {
	lifecycle
	api TasksAPI

	tasks  []*domain.Task
	filter TaskFilter
}

// NewTasks creates an unmounted view.
func NewTasks(api TasksAPI, opts ...Option) *Tasks {
	v := &Tasks{api: api, filter: TaskFilter{Status: StatusAll, Type: TypeAll}}
	v.init(opts)
	return v
}

// Mount loads the task list.
func (v *Tasks) Mount(ctx context.Context) error {
	return v.Refresh(ctx)
}

// Refresh refetches the task list.
func (v *Tasks) Refresh(ctx context.Context) error {
	gen, ok := v.begin()
	if !ok {
		return nil
	}
	tasks, err := v.api.GetAllTasks(ctx)
	v.finish(gen, err, func() { v.tasks = tasks })
	return err
}

// Delete removes task id and refetches.
func (v *Tasks) Delete(ctx context.Context, id string) error {
	err := v.api.DeleteTask(ctx, id)
	if !v.mutated(err, "Task "+id+" deleted") || err != nil {
		return err
	}
	_ = v.Refresh(ctx)
	return nil
}

// SetStatusFilter sets the status filter.
func (v *Tasks) SetStatusFilter(status string) {
	v.mu.Lock()
	v.filter.Status = status
	v.mu.Unlock()
	v.changed()
}

// SetTypeFilter sets the task type filter.
func (v *Tasks) SetTypeFilter(taskType string) {
	v.mu.Lock()
	v.filter.Type = taskType
	v.mu.Unlock()
	v.changed()
}

// SetSearch sets the search term.
func (v *Tasks) SetSearch(term string) {
	v.mu.Lock()
	v.filter.Term = term
	v.mu.Unlock()
	v.changed()
}

// Filter returns the active filter.
func (v *Tasks) Filter() TaskFilter {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.filter
}

// All returns the held list, unfiltered.
func (v *Tasks) All() []*domain.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]*domain.Task(nil), v.tasks...)
}

// Visible returns the tasks matching the filter.
func (v *Tasks) Visible() []*domain.Task {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return FilterTasks(v.tasks, v.filter)
}
