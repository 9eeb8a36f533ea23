package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	if status, _, _ := classify(err); status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return writeError(c, err)
}

func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := classify(err)
	return c.Status(status).JSON(errorResponse(code, msg))
}

func classify(err error) (int, api.ErrorResponseErrorCode, string) {
	switch {
	case errors.Is(err, entities.ErrInvalidArgument):
		return http.StatusBadRequest, api.INVALIDARGUMENT, err.Error()
	case errors.Is(err, entities.ErrUnauthenticated):
		return http.StatusUnauthorized, api.UNAUTHENTICATED, "authentication required"
	case errors.Is(err, entities.ErrForbidden):
		return http.StatusForbidden, api.FORBIDDEN, err.Error()
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, api.NOTFOUND, "resource not found"
	case errors.Is(err, entities.ErrUserExists):
		return http.StatusConflict, api.USEREXISTS, "user with this email already exists"
	default:
		return http.StatusInternalServerError, api.INTERNAL, "internal error"
	}
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: struct {
		Code    api.ErrorResponseErrorCode `json:"code"`
		Message string                     `json:"message"`
	}{Code: code, Message: msg}}
}

// actorOf returns the authenticated caller. A missing actor is the zero
// value, which every usecase rejects as unauthenticated.
func actorOf(c *fiber.Ctx) entities.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

// parseBody decodes the JSON body into dst and validates its tags.
func (h *Handler) parseBody(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
	}
	return h.check(dst)
}

func (h *Handler) check(v interface{}) error {
	if err := h.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, formatValidation(err))
	}
	return nil
}

func formatValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field()[:1]) + e.Field()[1:]
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, e.Param()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, e.Param()))
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, ", ")
}
