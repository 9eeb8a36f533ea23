package handlers_fiber

import (
	"net/http"

	"github.com/Sahil-1827/task-management-system-backend/internal/mapper"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// CreateComment attaches a comment to a task.
func (h *Handler) CreateComment(c *fiber.Ctx) error {
	var body api.CreateCommentJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	comment, err := h.uc.AddComment(c.Context(), actorOf(c), mapper.FromOAPICreateComment(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIComment(*comment))
}

// ListComments returns the live comments of a task, oldest first.
func (h *Handler) ListComments(c *fiber.Ctx, taskID string) error {
	comments, err := h.uc.ListComments(c.Context(), actorOf(c), taskID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIComments(comments))
}

// DeleteComment removes a comment.
func (h *Handler) DeleteComment(c *fiber.Ctx, id string) error {
	if err := h.uc.DeleteComment(c.Context(), actorOf(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
