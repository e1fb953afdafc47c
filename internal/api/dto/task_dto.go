package dto

import (
	"time"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/service"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description" validate:"required"`
	DueDate     time.Time           `json:"dueDate" validate:"required"`
	Priority    domain.TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	Location    string              `json:"location"`
	AssignedTo  string              `json:"assignedTo" validate:"required"`
}

// ToInput converts the payload.
func (r CreateTaskRequest) ToInput() service.TaskCreateInput {
	return service.TaskCreateInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Location:    r.Location,
		AssignedTo:  r.AssignedTo,
	}
}

// UpdateTaskRequest is a partial admin update.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	DueDate     *time.Time           `json:"dueDate"`
	Priority    *domain.TaskPriority `json:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	Status      *domain.TaskStatus   `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Location    *string              `json:"location"`
	AssignedTo  *string              `json:"assignedTo"`
}

// ToInput converts the payload.
func (r UpdateTaskRequest) ToInput() service.TaskUpdateInput {
	return service.TaskUpdateInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Status:      r.Status,
		Location:    r.Location,
		AssignedTo:  r.AssignedTo,
	}
}

// TaskStatusRequest lets a worker move a task along.
type TaskStatusRequest struct {
	Status domain.TaskStatus `json:"status" validate:"required,oneof=pending in-progress completed"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DueDate     time.Time           `json:"dueDate"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
	Location    string              `json:"location,omitempty"`
	AssignedTo  string              `json:"assignedTo"`
	AssignedBy  string              `json:"assignedBy"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Location:    t.Location,
		AssignedTo:  t.AssignedTo,
		AssignedBy:  t.AssignedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of tasks.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}
