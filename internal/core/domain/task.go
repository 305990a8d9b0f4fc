package domain

// TaskStatus is the processing state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskFailed}

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Known task types. The backend may report others; clients must not reject
// them.
const (
	TaskTypeSummarization  = "summarization"
	TaskTypeTranslation    = "translation"
	TaskTypeCodeGeneration = "code_generation"
)

// TaskTypes lists the known task types.
var TaskTypes = []string{TaskTypeSummarization, TaskTypeTranslation, TaskTypeCodeGeneration}

// Task is a unit of AI work submitted by a user.
type Task struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Username    string     `json:"username,omitempty"`
	TaskType    string     `json:"task_type"`
	Prompt      string     `json:"prompt,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   *Timestamp `json:"created_at,omitempty"`
	CompletedAt *Timestamp `json:"completed_at,omitempty"`
	Result      *string    `json:"result,omitempty"`
	Error       *string    `json:"error,omitempty"`
}

// Finished reports whether the task reached a terminal status.
func (t *Task) Finished() bool {
	return t.Status == TaskCompleted || t.Status == TaskFailed
}
