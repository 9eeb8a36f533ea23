package usecase

import (
	"context"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// TaskUsecaseInterface abstracts task operations for the delivery layer.
type TaskUsecaseInterface interface {
	CreateTask(ctx context.Context, actor entities.Actor, task entities.Task) (*entities.Task, error)
	UpdateTask(ctx context.Context, actor entities.Actor, taskID string, delta entities.TaskDelta) (*entities.Task, error)
	DeleteTask(ctx context.Context, actor entities.Actor, taskID string) error
	GetTask(ctx context.Context, actor entities.Actor, taskID string) (*entities.Task, error)
	ListTasks(ctx context.Context, actor entities.Actor, filter entities.TaskFilter) ([]entities.Task, int64, error)
	TaskPriorityStats(ctx context.Context, actor entities.Actor) (entities.PriorityStats, error)
}

// TeamUsecaseInterface abstracts team operations.
type TeamUsecaseInterface interface {
	CreateTeam(ctx context.Context, actor entities.Actor, team entities.Team) (*entities.Team, error)
	UpdateTeam(ctx context.Context, actor entities.Actor, teamID string, delta entities.TeamDelta) (*entities.Team, error)
	DeleteTeam(ctx context.Context, actor entities.Actor, teamID string) error
	GetTeam(ctx context.Context, actor entities.Actor, teamID string) (*entities.Team, error)
	ListTeams(ctx context.Context, actor entities.Actor, limit, offset int) ([]entities.Team, error)
}

// UserUsecaseInterface abstracts user administration.
type UserUsecaseInterface interface {
	CreateUser(ctx context.Context, actor entities.Actor, user entities.User) (*entities.User, error)
	ChangeUserRole(ctx context.Context, actor entities.Actor, userID string, role entities.Role) (*entities.User, error)
	ListUsers(ctx context.Context, actor entities.Actor) ([]entities.User, error)
	UpdateProfile(ctx context.Context, actor entities.Actor, name, email *string) (*entities.User, error)
}

// CommentUsecaseInterface abstracts task comments.
type CommentUsecaseInterface interface {
	AddComment(ctx context.Context, actor entities.Actor, comment entities.Comment) (*entities.Comment, error)
	ListComments(ctx context.Context, actor entities.Actor, taskID string) ([]entities.Comment, error)
	DeleteComment(ctx context.Context, actor entities.Actor, commentID string) error
}

// ActivityUsecaseInterface abstracts activity log reads.
type ActivityUsecaseInterface interface {
	ActivityLog(ctx context.Context, actor entities.Actor, limit int) ([]entities.ActivityLogEntry, error)
}
