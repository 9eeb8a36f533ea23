package handlers_fiber

import (
	"net/http"

	"github.com/Sahil-1827/task-management-system-backend/internal/mapper"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

const defaultTaskPageSize = 20

// CreateTask stores a new task for the caller's tenant.
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	var body api.CreateTaskJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	task, err := h.uc.CreateTask(c.Context(), actorOf(c), mapper.FromOAPICreateTask(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPITask(*task))
}

// ListTasks returns the page of tasks visible to the caller.
func (h *Handler) ListTasks(c *fiber.Ctx, params api.ListTasksParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}

	tasks, total, err := h.uc.ListTasks(c.Context(), actorOf(c), mapper.FromOAPIListTasks(params))
	if err != nil {
		return h.writeError(c, err)
	}

	limit := params.Limit
	if limit == 0 {
		limit = defaultTaskPageSize
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITaskList(tasks, total, limit, params.Offset))
}

// GetTaskPriorityStats counts visible tasks per priority.
func (h *Handler) GetTaskPriorityStats(c *fiber.Ctx) error {
	stats, err := h.uc.TaskPriorityStats(c.Context(), actorOf(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIPriorityStats(stats))
}

// GetTask returns a single task.
func (h *Handler) GetTask(c *fiber.Ctx, id string) error {
	task, err := h.uc.GetTask(c.Context(), actorOf(c), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITask(*task))
}

// UpdateTask applies a partial update.
func (h *Handler) UpdateTask(c *fiber.Ctx, id string) error {
	var body api.UpdateTaskJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	task, err := h.uc.UpdateTask(c.Context(), actorOf(c), id, mapper.FromOAPIUpdateTask(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITask(*task))
}

// DeleteTask removes a task and its comments.
func (h *Handler) DeleteTask(c *fiber.Ctx, id string) error {
	if err := h.uc.DeleteTask(c.Context(), actorOf(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
