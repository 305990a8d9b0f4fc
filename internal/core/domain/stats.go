package domain

import "sort"

// TaskStatsByStatus counts tasks per status.
type TaskStatsByStatus struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}

// Total returns the number of tasks across all statuses.
func (s TaskStatsByStatus) Total() int {
	return s.Pending + s.InProgress + s.Completed + s.Failed
}

// Add counts one task with the given status. Unknown statuses are ignored.
func (s *TaskStatsByStatus) Add(status TaskStatus) {
	switch status {
	case TaskPending:
		s.Pending++
	case TaskInProgress:
		s.InProgress++
	case TaskCompleted:
		s.Completed++
	case TaskFailed:
		s.Failed++
	}
}

// Buckets returns the counts in display order.
func (s TaskStatsByStatus) Buckets() []Bucket {
	return []Bucket{
		{Label: string(TaskPending), Count: s.Pending},
		{Label: string(TaskInProgress), Count: s.InProgress},
		{Label: string(TaskCompleted), Count: s.Completed},
		{Label: string(TaskFailed), Count: s.Failed},
	}
}

// TaskStatsByType counts tasks per task type. The key set is open.
type TaskStatsByType map[string]int

// Total returns the number of tasks across all types.
func (s TaskStatsByType) Total() int {
	n := 0
	for _, v := range s {
		n += v
	}
	return n
}

// Buckets returns the counts sorted by descending count, then label.
func (s TaskStatsByType) Buckets() []Bucket {
	out := make([]Bucket, 0, len(s))
	for k, v := range s {
		out = append(out, Bucket{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Bucket is one labelled count of a breakdown.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}
