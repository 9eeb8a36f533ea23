package oapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/tasks)
	CreateTask(c *fiber.Ctx) error
	// (GET /api/tasks)
	ListTasks(c *fiber.Ctx, params ListTasksParams) error
	// (GET /api/tasks/stats/priority)
	GetTaskPriorityStats(c *fiber.Ctx) error
	// (GET /api/tasks/:id)
	GetTask(c *fiber.Ctx, id string) error
	// (PUT /api/tasks/:id)
	UpdateTask(c *fiber.Ctx, id string) error
	// (DELETE /api/tasks/:id)
	DeleteTask(c *fiber.Ctx, id string) error

	// (POST /api/teams)
	CreateTeam(c *fiber.Ctx) error
	// (GET /api/teams)
	ListTeams(c *fiber.Ctx, params ListTeamsParams) error
	// (GET /api/teams/:id)
	GetTeam(c *fiber.Ctx, id string) error
	// (PUT /api/teams/:id)
	UpdateTeam(c *fiber.Ctx, id string) error
	// (DELETE /api/teams/:id)
	DeleteTeam(c *fiber.Ctx, id string) error

	// (GET /api/users)
	ListUsers(c *fiber.Ctx) error
	// (POST /api/users)
	CreateUser(c *fiber.Ctx) error
	// (PUT /api/users/profile)
	UpdateProfile(c *fiber.Ctx) error
	// (PUT /api/users/:id/role)
	ChangeUserRole(c *fiber.Ctx, id string) error

	// (POST /api/comments)
	CreateComment(c *fiber.Ctx) error
	// (GET /api/comments/task/:taskId)
	ListComments(c *fiber.Ctx, taskID string) error
	// (DELETE /api/comments/:id)
	DeleteComment(c *fiber.Ctx, id string) error

	// (GET /api/activity-logs)
	ListActivity(c *fiber.Ctx, params ListActivityParams) error
}

// RegisterHandlers mounts every API route on router.
func RegisterHandlers(router fiber.Router, si ServerInterface) {
	w := &wrapper{handler: si}

	router.Post("/api/tasks", si.CreateTask)
	router.Get("/api/tasks", w.ListTasks)
	router.Get("/api/tasks/stats/priority", si.GetTaskPriorityStats)
	router.Get("/api/tasks/:id", func(c *fiber.Ctx) error { return si.GetTask(c, c.Params("id")) })
	router.Put("/api/tasks/:id", func(c *fiber.Ctx) error { return si.UpdateTask(c, c.Params("id")) })
	router.Delete("/api/tasks/:id", func(c *fiber.Ctx) error { return si.DeleteTask(c, c.Params("id")) })

	router.Post("/api/teams", si.CreateTeam)
	router.Get("/api/teams", w.ListTeams)
	router.Get("/api/teams/:id", func(c *fiber.Ctx) error { return si.GetTeam(c, c.Params("id")) })
	router.Put("/api/teams/:id", func(c *fiber.Ctx) error { return si.UpdateTeam(c, c.Params("id")) })
	router.Delete("/api/teams/:id", func(c *fiber.Ctx) error { return si.DeleteTeam(c, c.Params("id")) })

	router.Get("/api/users", si.ListUsers)
	router.Post("/api/users", si.CreateUser)
	router.Put("/api/users/profile", si.UpdateProfile)
	router.Put("/api/users/:id/role", func(c *fiber.Ctx) error { return si.ChangeUserRole(c, c.Params("id")) })

	router.Post("/api/comments", si.CreateComment)
	router.Get("/api/comments/task/:taskId", func(c *fiber.Ctx) error { return si.ListComments(c, c.Params("taskId")) })
	router.Delete("/api/comments/:id", func(c *fiber.Ctx) error { return si.DeleteComment(c, c.Params("id")) })

	router.Get("/api/activity-logs", w.ListActivity)
}

type wrapper struct {
	handler ServerInterface
}

func (w *wrapper) ListTasks(c *fiber.Ctx) error {
	var params ListTasksParams
	if err := c.QueryParser(&params); err != nil {
		return badQuery(c, err)
	}
	return w.handler.ListTasks(c, params)
}

func (w *wrapper) ListTeams(c *fiber.Ctx) error {
	var params ListTeamsParams
	if err := c.QueryParser(&params); err != nil {
		return badQuery(c, err)
	}
	return w.handler.ListTeams(c, params)
}

func (w *wrapper) ListActivity(c *fiber.Ctx) error {
	var params ListActivityParams
	if err := c.QueryParser(&params); err != nil {
		return badQuery(c, err)
	}
	return w.handler.ListActivity(c, params)
}

func badQuery(c *fiber.Ctx, err error) error {
	var resp ErrorResponse
	resp.Error.Code = INVALIDARGUMENT
	resp.Error.Message = "invalid query: " + err.Error()
	return c.Status(http.StatusBadRequest).JSON(resp)
}
