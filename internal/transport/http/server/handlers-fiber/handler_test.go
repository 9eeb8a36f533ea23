package handlers_fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	api "github.com/Sahil-1827/task-management-system-backend/internal/oapi"
	"github.com/Sahil-1827/task-management-system-backend/internal/repository/memory"
	"github.com/Sahil-1827/task-management-system-backend/internal/transport/http/middleware"
	"github.com/Sahil-1827/task-management-system-backend/internal/usecase"
	"github.com/Sahil-1827/task-management-system-backend/internal/usecase/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "handler-test-secret"

var (
	adminActor = entities.Actor{ID: "admin", Name: "Ada", Role: entities.RoleAdmin, TenantID: "acme"}
	userActor  = entities.Actor{ID: "u1", Name: "Uma", Role: entities.RoleUser, TenantID: "acme"}
	otherActor = entities.Actor{ID: "x1", Name: "Xan", Role: entities.RoleAdmin, TenantID: "globex"}
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	repo := memory.New(log)
	for _, a := range []entities.Actor{adminActor, userActor, otherActor} {
		_, err := repo.CreateUser(ctx, entities.User{
			ID: a.ID, TenantID: a.TenantID, Name: a.Name, Email: a.ID + "@example.com", Role: a.Role, IsActive: true,
		})
		require.NoError(t, err)
	}

	uc := usecase.New(log, ctx, repo, time.Second, domain.WithAsyncNotify(false))
	app := fiber.New()
	app.Use(middleware.Authenticate(secret, "", log))
	api.RegisterHandlers(app, NewHandler(log, uc))
	return app
}

func call(t *testing.T, app *fiber.App, actor entities.Actor, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	token, err := middleware.IssueToken(secret, "", actor, time.Hour)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodPost, "/api/tasks", map[string]any{
		"title": "Ship", "priority": "High", "assignees": []string{userActor.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created api.Task
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "To Do", created.Status)
	require.Equal(t, []string{userActor.ID}, created.Assignees)
	require.Nil(t, created.Team)

	resp, body = call(t, app, userActor, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list api.TaskList
	require.NoError(t, json.Unmarshal(body, &list))
	require.EqualValues(t, 1, list.Total)
	require.Equal(t, defaultTaskPageSize, list.Limit)

	resp, body = call(t, app, userActor, http.MethodPut, "/api/tasks/"+created.Id, map[string]any{"status": "Done"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated api.Task
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Equal(t, "Done", updated.Status)

	resp, _ = call(t, app, userActor, http.MethodDelete, "/api/tasks/"+created.Id, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, adminActor, http.MethodGet, "/api/tasks/stats/priority", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats api.PriorityStats
	require.NoError(t, json.Unmarshal(body, &stats))
	require.EqualValues(t, 1, stats.High)

	resp, body = call(t, app, adminActor, http.MethodGet, "/api/activity-logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []api.ActivityLogEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 2)
	require.Equal(t, "status", entries[0].Action)
	require.Equal(t, "create", entries[1].Action)

	resp, _ = call(t, app, adminActor, http.MethodDelete, "/api/tasks/"+created.Id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodPost, "/api/tasks", map[string]any{"priority": "Urgent"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errBody))
	require.Equal(t, api.INVALIDARGUMENT, errBody.Error.Code)
	require.Contains(t, errBody.Error.Message, "title is required")
	require.Contains(t, errBody.Error.Message, "priority must be one of")
}

func TestListTasksRejectsLargeLimit(t *testing.T) {
	app := newTestApp(t)

	resp, _ := call(t, app, adminActor, http.MethodGet, "/api/tasks?limit=500", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForeignTenantTaskIsNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodPost, "/api/tasks", map[string]any{"title": "Private"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created api.Task
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = call(t, app, otherActor, http.MethodGet, "/api/tasks/"+created.Id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUserEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodPost, "/api/users", map[string]any{
		"name": "Bea", "email": "bea@example.com", "role": "manager",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created api.User
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "manager", created.Role)

	resp, _ = call(t, app, adminActor, http.MethodPost, "/api/users", map[string]any{
		"name": "Bea again", "email": "BEA@example.com",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = call(t, app, userActor, http.MethodPost, "/api/users", map[string]any{
		"name": "Nope", "email": "nope@example.com",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, adminActor, http.MethodPut, "/api/users/"+created.Id+"/role", map[string]any{"role": "user"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var changed api.User
	require.NoError(t, json.Unmarshal(body, &changed))
	require.Equal(t, "user", changed.Role)
}

func TestTeamAndCommentEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodPost, "/api/teams", map[string]any{
		"name": "Core", "members": []string{userActor.ID},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var team api.Team
	require.NoError(t, json.Unmarshal(body, &team))
	require.Equal(t, []string{userActor.ID}, team.Members)

	resp, body = call(t, app, adminActor, http.MethodPost, "/api/tasks", map[string]any{"title": "Ship", "team": team.Id})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var task api.Task
	require.NoError(t, json.Unmarshal(body, &task))

	resp, body = call(t, app, userActor, http.MethodPost, "/api/comments", map[string]any{"task": task.Id, "text": "on it"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var comment api.Comment
	require.NoError(t, json.Unmarshal(body, &comment))
	require.Equal(t, userActor.ID, comment.User)

	resp, body = call(t, app, adminActor, http.MethodGet, "/api/comments/task/"+task.Id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var comments []api.Comment
	require.NoError(t, json.Unmarshal(body, &comments))
	require.Len(t, comments, 1)

	resp, _ = call(t, app, userActor, http.MethodDelete, "/api/comments/"+comment.Id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = call(t, app, userActor, http.MethodDelete, "/api/teams/"+team.Id, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, app, adminActor, http.MethodDelete, "/api/teams/"+team.Id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = call(t, app, adminActor, http.MethodGet, "/api/tasks/"+task.Id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &task))
	require.Nil(t, task.Team)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMalformedQueryIsInvalidArgument(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, adminActor, http.MethodGet, "/api/teams?limit=abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errBody api.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errBody))
	require.Equal(t, api.INVALIDARGUMENT, errBody.Error.Code)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := call(t, app, userActor, http.MethodPut, "/api/users/profile", map[string]any{"name": "Uma T"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var usr api.User
	require.NoError(t, json.Unmarshal(body, &usr))
	require.Equal(t, userActor.ID, usr.Id)
	require.Equal(t, "Uma T", usr.Name)
	require.Equal(t, "u1@example.com", usr.Email)

	resp, _ = call(t, app, userActor, http.MethodPut, "/api/users/profile", map[string]any{"email": "admin@example.com"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = call(t, app, userActor, http.MethodPut, "/api/users/profile", map[string]any{"email": "nope"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = call(t, app, userActor, http.MethodGet, "/api/activity-logs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var entries []api.ActivityLogEntry
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	require.Equal(t, "update", entries[0].Action)
	require.Equal(t, "user", entries[0].Entity)
}
