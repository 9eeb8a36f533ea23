package audit

import (
	"context"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// Reach is the set of tasks and teams an actor can currently reach.
type Reach struct {
	TaskIDs map[string]struct{}
	TeamIDs map[string]struct{}
}

// NewReach builds a Reach from id lists.
func NewReach(taskIDs, teamIDs []string) Reach {
	r := Reach{
		TaskIDs: make(map[string]struct{}, len(taskIDs)),
		TeamIDs: make(map[string]struct{}, len(teamIDs)),
	}
	for _, id := range taskIDs {
		r.TaskIDs[id] = struct{}{}
	}
	for _, id := range teamIDs {
		r.TeamIDs[id] = struct{}{}
	}
	return r
}

// ReachResolver computes an actor's reach at query time.
type ReachResolver interface {
	Reach(ctx context.Context, actor entities.Actor) (Reach, error)
}

// Visible decides whether actor may see entry. Admins see the whole tenant;
// everyone else sees what they performed, entries about tasks and teams they
// can currently reach, and entries about themselves.
func Visible(actor entities.Actor, reach Reach, entry entities.ActivityLogEntry) bool {
	if entry.TenantID != actor.TenantID {
		return false
	}
	if actor.Role == entities.RoleAdmin {
		return true
	}
	if entry.PerformedBy == actor.ID {
		return true
	}
	switch entry.Entity {
	case entities.EntityTask:
		_, ok := reach.TaskIDs[entry.EntityID]
		return ok
	case entities.EntityTeam:
		_, ok := reach.TeamIDs[entry.EntityID]
		return ok
	case entities.EntityUser:
		return entry.EntityID == actor.ID
	}
	return false
}

// RelationshipSource is the slice of the document store reach needs.
type RelationshipSource interface {
	TeamIDsForMember(ctx context.Context, tenantID, userID string) ([]string, error)
	ReachableTaskIDs(ctx context.Context, tenantID, userID string, teamIDs []string) ([]string, error)
}

// StoreReach resolves reach from the document store: teams the actor is a
// member of, and tasks assigned to the actor or to one of those teams.
type StoreReach struct {
	src RelationshipSource
}

// NewStoreReach wraps src.
func NewStoreReach(src RelationshipSource) *StoreReach {
	return &StoreReach{src: src}
}

// Reach implements ReachResolver.
func (s *StoreReach) Reach(ctx context.Context, actor entities.Actor) (Reach, error) {
	teamIDs, err := s.src.TeamIDsForMember(ctx, actor.TenantID, actor.ID)
	if err != nil {
		return Reach{}, fmt.Errorf("member teams: %w", err)
	}
	taskIDs, err := s.src.ReachableTaskIDs(ctx, actor.TenantID, actor.ID, teamIDs)
	if err != nil {
		return Reach{}, fmt.Errorf("reachable tasks: %w", err)
	}
	return NewReach(taskIDs, teamIDs), nil
}
