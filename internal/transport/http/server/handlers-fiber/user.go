package handlers_fiber

import (
	"net/http"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	"github.com/Sahil-1827/task-management-system-backend/internal/mapper"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
)

// ListUsers returns the users of the caller's tenant.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context(), actorOf(c))
	if err != nil {
		h.log.Errorw("failed to list users", "error", err.Error())
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUsers(users))
}

// CreateUser adds a user to the caller's tenant.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var body api.CreateUserJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	usr, err := h.uc.CreateUser(c.Context(), actorOf(c), mapper.FromOAPICreateUser(body))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(mapper.ToOAPIUser(*usr))
}

// UpdateProfile changes the caller's own name or email.
func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var body api.UpdateProfileJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	usr, err := h.uc.UpdateProfile(c.Context(), actorOf(c), body.Name, body.Email)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}

// ChangeUserRole promotes or demotes a user.
func (h *Handler) ChangeUserRole(c *fiber.Ctx, id string) error {
	var body api.ChangeUserRoleJSONRequestBody
	if err := h.parseBody(c, &body); err != nil {
		return writeError(c, err)
	}

	usr, err := h.uc.ChangeUserRole(c.Context(), actorOf(c), id, entities.Role(body.Role))
	if err != nil {
		h.log.Errorw("failed to change user role", "user_id", id, "error", err.Error())
		return h.writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToOAPIUser(*usr))
}
