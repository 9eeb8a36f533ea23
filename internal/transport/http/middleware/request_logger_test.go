package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core).Sugar()

	app := fiber.New()
	app.Use(RequestLogger(log))
	app.Use(Authenticate(testSecret, "", log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/fail", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusInternalServerError) })

	token, err := IssueToken(testSecret, "", entities.Actor{ID: "u1", Role: entities.RoleUser, TenantID: "acme"}, time.Hour)
	require.NoError(t, err)

	for _, path := range []string{"/ok", "/fail"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	require.Equal(t, zapcore.InfoLevel, entries[0].Level)
	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)

	ctx := entries[0].ContextMap()
	require.Equal(t, "/ok", ctx["path"])
	require.Equal(t, "u1", ctx["actor_id"])
	require.Equal(t, "acme", ctx["tenant_id"])
}
