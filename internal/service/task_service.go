package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// TaskCreateInput describes a new assignment.
type TaskCreateInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    domain.TaskPriority
	Location    string
	AssignedTo  string
}

// TaskUpdateInput is a partial update. Nil fields are left untouched.
type TaskUpdateInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *domain.TaskPriority
	Status      *domain.TaskStatus
	Location    *string
	AssignedTo  *string
}

// TaskService manages work assigned by admins to workers.
type TaskService struct {
	tasks      repository.TaskRepository
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TaskDependencies encapsulates collaborators.
type TaskDependencies struct {
	Tasks      repository.TaskRepository
	Accounts   repository.AccountRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTaskService builds the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.Tasks,
		accounts:   deps.Accounts,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

func (s *TaskService) requireWorker(ctx context.Context, id string) error {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "worker")
	}
	if account.Role != domain.RoleWorker {
		return errorutil.NewNotFound("worker", nil)
	}
	return nil
}

// Create assigns a new task to a worker.
func (s *TaskService) Create(ctx context.Context, adminID string, in TaskCreateInput) (*domain.Task, error) {
	errs := fieldErrors{}
	if strings.TrimSpace(in.Title) == "" {
		errs.add("title", "title is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		errs.add("description", "description is required")
	}
	if in.DueDate.IsZero() {
		errs.add("dueDate", "due date is required")
	}
	if in.Priority == "" {
		in.Priority = domain.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		errs.add("priority", "priority must be Low, Medium, High or Urgent")
	}
	if strings.TrimSpace(in.AssignedTo) == "" {
		errs.add("assignedTo", "assignee is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if err := s.requireWorker(ctx, in.AssignedTo); err != nil {
		return nil, err
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate.UTC(),
		Priority:    in.Priority,
		Status:      domain.TaskStatusPending,
		Location:    strings.TrimSpace(in.Location),
		AssignedTo:  in.AssignedTo,
		AssignedBy:  adminID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	s.publishAssigned(ctx, adminID, task)
	return task, nil
}

func (s *TaskService) publishAssigned(ctx context.Context, adminID string, task *domain.Task) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      events.EventTaskAssigned,
		AccountID: task.AssignedTo,
		ActorID:   adminID,
		Payload: events.TaskAssignedPayload{
			TaskID:   task.ID,
			Title:    task.Title,
			Priority: task.Priority,
			DueDate:  task.DueDate,
		},
	})
}

// List returns all tasks, optionally filtered.
func (s *TaskService) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, errorutil.NewValidationError("unknown task status", map[string]any{"status": status})
		}
	}
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return tasks, nil
}

// ListByWorker returns tasks assigned to a given worker.
func (s *TaskService) ListByWorker(ctx context.Context, workerID string) ([]domain.Task, error) {
	if err := s.requireWorker(ctx, workerID); err != nil {
		return nil, err
	}
	return s.List(ctx, domain.TaskFilter{AssignedTo: workerID})
}

// ListForWorker returns the caller's own tasks, optionally narrowed by status.
func (s *TaskService) ListForWorker(ctx context.Context, workerID string, statuses []domain.TaskStatus) ([]domain.Task, error) {
	return s.List(ctx, domain.TaskFilter{AssignedTo: workerID, Statuses: statuses})
}

// Update applies a partial admin update.
func (s *TaskService) Update(ctx context.Context, adminID, id string, in TaskUpdateInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "task")
	}

	errs := fieldErrors{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			errs.add("title", "title cannot be empty")
		}
		task.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			errs.add("description", "description cannot be empty")
		}
		task.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate.UTC()
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			errs.add("priority", "priority must be Low, Medium, High or Urgent")
		}
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			errs.add("status", "status must be pending, in-progress or completed")
		}
		task.Status = *in.Status
	}
	if in.Location != nil {
		task.Location = strings.TrimSpace(*in.Location)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	reassigned := false
	if in.AssignedTo != nil && *in.AssignedTo != task.AssignedTo {
		if err := s.requireWorker(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = *in.AssignedTo
		reassigned = true
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, mapRepoError(err, "task")
	}
	if reassigned {
		s.publishAssigned(ctx, adminID, task)
	}
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return mapRepoError(s.tasks.Delete(ctx, id), "task")
}

// UpdateStatus lets a worker move one of their own tasks along.
func (s *TaskService) UpdateStatus(ctx context.Context, workerID, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, errorutil.NewValidationError("status must be pending, in-progress or completed", nil)
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "task")
	}
	if task.AssignedTo != workerID {
		return nil, errorutil.NewForbidden("task is assigned to another worker")
	}
	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, mapRepoError(err, "task")
	}
	return task, nil
}
