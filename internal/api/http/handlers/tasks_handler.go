package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/worker-portal/internal/api/dto"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/service"
)

// TasksHandler exposes task endpoints for workers and admins.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

func parseStatuses(raw string) []domain.TaskStatus {
	if raw == "" {
		return nil
	}
	var statuses []domain.TaskStatus
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			statuses = append(statuses, domain.TaskStatus(part))
		}
	}
	return statuses
}

// ListMine handles GET /tasks.
func (h *TasksHandler) ListMine(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.ListForWorker(c.UserContext(), p.ID(), parseStatuses(c.Query("status")))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"tasks": dto.NewTaskResponses(tasks)})
}

// UpdateStatus handles PUT /tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.TaskStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.UpdateStatus(c.UserContext(), p.ID(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"task": dto.NewTaskResponse(task)})
}

// Create handles POST /admin/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.Create(c.UserContext(), p.ID(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "task": dto.NewTaskResponse(task)})
}

// ListAll handles GET /admin/tasks.
func (h *TasksHandler) ListAll(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(c.UserContext(), domain.TaskFilter{
		AssignedTo: c.Query("assignedTo"),
		Statuses:   parseStatuses(c.Query("status")),
	})
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"tasks": dto.NewTaskResponses(tasks)})
}

// ListByWorker handles GET /admin/tasks/worker/:workerId.
func (h *TasksHandler) ListByWorker(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListByWorker(c.UserContext(), c.Params("workerId"))
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"tasks": dto.NewTaskResponses(tasks)})
}

// Update handles PUT /admin/tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	task, err := h.tasks.Update(c.UserContext(), p.ID(), c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return success(c, fiber.Map{"task": dto.NewTaskResponse(task)})
}

// Delete handles DELETE /admin/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return success(c, fiber.Map{"message": "Task deleted"})
}
