package handlers_fiber

import (
	"net/http"

	"github.com/Sahil-1827/task-management-system-backend/internal/mapper"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// CreateTeam creates a team; the caller becomes one of its managers.
func (h *Handler) CreateTeam(c *fiber.Ctx) error {
	var body api.CreateTeamJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	team, err := h.uc.CreateTeam(c.Context(), actorOf(c), mapper.FromOAPICreateTeam(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPITeam(*team))
}

// ListTeams returns teams visible to the caller.
func (h *Handler) ListTeams(c *fiber.Ctx, params api.ListTeamsParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}

	teams, err := h.uc.ListTeams(c.Context(), actorOf(c), params.Limit, params.Offset)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITeams(teams))
}

// GetTeam returns team with members and managers.
func (h *Handler) GetTeam(c *fiber.Ctx, id string) error {
	team, err := h.uc.GetTeam(c.Context(), actorOf(c), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITeam(*team))
}

// UpdateTeam applies a partial update, including membership changes.
func (h *Handler) UpdateTeam(c *fiber.Ctx, id string) error {
	var body api.UpdateTeamJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	team, err := h.uc.UpdateTeam(c.Context(), actorOf(c), id, mapper.FromOAPIUpdateTeam(body))
	if err != nil {
		h.log.Infow("team update rejected", "team_id", id, "error", err)
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPITeam(*team))
}

// DeleteTeam removes a team. Tasks referencing it keep the dangling id.
func (h *Handler) DeleteTeam(c *fiber.Ctx, id string) error {
	if err := h.uc.DeleteTeam(c.Context(), actorOf(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
