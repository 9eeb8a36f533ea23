package handlers_fiber

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorUserExists(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, entities.ErrUserExists)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, api.USEREXISTS, body.Error.Code)
	require.Equal(t, "user with this email already exists", body.Error.Message)
}

func TestWriteErrorNotFoundMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, fmt.Errorf("%w: t-1", entities.ErrTaskNotFound))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body api.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, api.NOTFOUND, body.Error.Code)
	require.Equal(t, "resource not found", body.Error.Message)
}

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   api.ErrorResponseErrorCode
	}{
		{name: "invalid", err: fmt.Errorf("%w: title is required", entities.ErrInvalidArgument), status: http.StatusBadRequest, code: api.INVALIDARGUMENT},
		{name: "unauthenticated", err: entities.ErrUnauthenticated, status: http.StatusUnauthorized, code: api.UNAUTHENTICATED},
		{name: "forbidden", err: fmt.Errorf("%w: not your task", entities.ErrForbidden), status: http.StatusForbidden, code: api.FORBIDDEN},
		{name: "persistence", err: fmt.Errorf("%w: connection reset", entities.ErrPersistence), status: http.StatusInternalServerError, code: api.INTERNAL},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, code: api.INTERNAL},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return writeError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, tt.code, body.Error.Code)
			if tt.status == http.StatusInternalServerError {
				require.Equal(t, "internal error", body.Error.Message)
			}
		})
	}
}
