package domain

import "time"

// TaskPriority indicates task urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// TaskStatus tracks work progress.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work an administrator assigns to a worker.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     time.Time
	Priority    TaskPriority
	Status      TaskStatus
	Location    string
	AssignedTo  string
	AssignedBy  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	AssignedTo string
	Statuses   []TaskStatus
}
