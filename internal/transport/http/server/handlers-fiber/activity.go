package handlers_fiber

import (
	"net/http"

	"github.com/Sahil-1827/task-management-system-backend/internal/mapper"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// ListActivity returns the most recent activity entries the caller may see.
func (h *Handler) ListActivity(c *fiber.Ctx, params api.ListActivityParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}

	entries, err := h.uc.ActivityLog(c.Context(), actorOf(c), params.Limit)
	if err != nil {
		h.log.Errorw("failed to read activity log", "error", err.Error())
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIActivity(entries))
}
