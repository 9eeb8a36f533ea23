// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/audit"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// UserInterface exposes user-related operations.
type UserInterface interface {
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	GetUser(ctx context.Context, tenantID, userID string) (*entities.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]entities.User, error)
	SetUserRole(ctx context.Context, tenantID, userID string, role entities.Role) (*entities.User, error)
	// SaveUser overwrites name and email. A taken email yields ErrUserExists.
	SaveUser(ctx context.Context, user entities.User) (*entities.User, error)
	// StaffIDs returns the ids of every admin and manager of the tenant.
	StaffIDs(ctx context.Context, tenantID string) ([]string, error)
}

// TeamInterface exposes team-related operations.
type TeamInterface interface {
	CreateTeam(ctx context.Context, team entities.Team) (*entities.Team, error)
	GetTeam(ctx context.Context, tenantID, teamID string) (*entities.Team, error)
	ListTeams(ctx context.Context, tenantID string, filter entities.TeamFilter) ([]entities.Team, error)
	// SaveTeam replaces the stored team document atomically.
	SaveTeam(ctx context.Context, team entities.Team) (*entities.Team, error)
	DeleteTeam(ctx context.Context, tenantID, teamID string) error
	TeamIDsForMember(ctx context.Context, tenantID, userID string) ([]string, error)
	// TeamMemberIDs returns the members of a team, or nothing for a missing team.
	TeamMemberIDs(ctx context.Context, tenantID, teamID string) ([]string, error)
}

// TaskInterface exposes task-related operations.
type TaskInterface interface {
	CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	GetTask(ctx context.Context, tenantID, taskID string) (*entities.Task, error)
	ListTasks(ctx context.Context, tenantID string, filter entities.TaskFilter) ([]entities.Task, int64, error)
	// SaveTask replaces the stored task document atomically.
	SaveTask(ctx context.Context, task entities.Task) (*entities.Task, error)
	DeleteTask(ctx context.Context, tenantID, taskID string) error
	// ReachableTaskIDs returns tasks assigned to userID or to one of teamIDs.
	ReachableTaskIDs(ctx context.Context, tenantID, userID string, teamIDs []string) ([]string, error)
	CountTasksByPriority(ctx context.Context, tenantID string, scope *entities.Scope) (entities.PriorityStats, error)
}

// CommentInterface exposes comment-related operations.
type CommentInterface interface {
	CreateComment(ctx context.Context, comment entities.Comment) (*entities.Comment, error)
	GetComment(ctx context.Context, tenantID, commentID string) (*entities.Comment, error)
	// ListComments returns comments of a task created after since, oldest first.
	ListComments(ctx context.Context, tenantID, taskID string, since time.Time) ([]entities.Comment, error)
	DeleteComment(ctx context.Context, tenantID, commentID string) error
}

// ActivityInterface is the capped activity log store.
type ActivityInterface interface {
	audit.Store
}
