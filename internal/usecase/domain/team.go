package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sahil-1827/task-management-system-backend/internal/authz"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

const (
	maxTeamNameLength = 100
	maxTeamLimit      = 100
)

// CreateTeam stores a new team. The creator becomes one of its managers.
func (u *Usecase) CreateTeam(ctx context.Context, actor entities.Actor, team entities.Team) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	team.Name = strings.TrimSpace(team.Name)
	if team.Name == "" || len(team.Name) > maxTeamNameLength {
		u.log.Errorw("failed to create team: bad name", "tenant_id", actor.TenantID)
		return nil, fmt.Errorf("%w: team name must be 1-%d characters", entities.ErrInvalidArgument, maxTeamNameLength)
	}
	team.MemberIDs = entities.Dedupe(team.MemberIDs)
	team.ManagerIDs = entities.Dedupe(append(team.ManagerIDs, actor.ID))

	if err := u.authorize(actor, authz.ActionCreate, authz.ResourceTeam, authz.Facts{IsCreator: true}, nil); err != nil {
		return nil, err
	}
	if _, err := u.requireUsers(ctx, actor.TenantID, team.MemberIDs); err != nil {
		return nil, err
	}
	if _, err := u.requireUsers(ctx, actor.TenantID, team.ManagerIDs); err != nil {
		return nil, err
	}

	now := u.now()
	team.ID = u.newID()
	team.TenantID = actor.TenantID
	team.CreatedBy = actor.ID
	team.CreatedAt = now
	team.UpdatedAt = now

	created, err := u.repo.CreateTeam(ctx, team)
	if err != nil {
		return nil, u.persistErr("create team", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionCreate,
		Entity:   entities.EntityTeam,
		EntityID: created.ID,
		Details:  fmt.Sprintf("Team %q was created by %s", created.Name, actor.DisplayName()),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, teamCreatedEvents(actor, *created))

	u.log.Infow("team created", "tenant_id", actor.TenantID, "team_id", created.ID, "members", len(created.MemberIDs))
	return created, nil
}

// UpdateTeam applies delta to a team. Every added or removed member gets an
// activity entry of their own.
func (u *Usecase) UpdateTeam(ctx context.Context, actor entities.Actor, teamID string, delta entities.TeamDelta) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", entities.ErrInvalidArgument)
	}
	if len(delta.Fields()) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", entities.ErrInvalidArgument)
	}
	if delta.Name != nil {
		name := strings.TrimSpace(*delta.Name)
		if name == "" || len(name) > maxTeamNameLength {
			return nil, fmt.Errorf("%w: team name must be 1-%d characters", entities.ErrInvalidArgument, maxTeamNameLength)
		}
		delta.Name = &name
	}

	before, err := u.repo.GetTeam(ctx, actor.TenantID, teamID)
	if err != nil {
		return nil, u.persistErr("get team", err)
	}
	if err := u.authorize(actor, authz.ActionUpdate, authz.ResourceTeam, teamFacts(actor, *before), delta.Fields()); err != nil {
		return nil, err
	}

	next := delta.Apply(*before)
	added, _ := entities.Diff(before.MemberIDs, next.MemberIDs)
	if _, err := u.requireUsers(ctx, actor.TenantID, added); err != nil {
		return nil, err
	}
	addedMgr, _ := entities.Diff(before.ManagerIDs, next.ManagerIDs)
	if _, err := u.requireUsers(ctx, actor.TenantID, addedMgr); err != nil {
		return nil, err
	}

	next.UpdatedAt = u.now()
	after, err := u.repo.SaveTeam(ctx, next)
	if err != nil {
		return nil, u.persistErr("save team", err)
	}

	changes := diffTeam(*before, *after)
	by := actor.DisplayName()
	entries := []entities.ActivityLogEntry{{
		Action:   entities.ActionUpdate,
		Entity:   entities.EntityTeam,
		EntityID: after.ID,
		Details:  changes.describe(after.Name, by),
	}}
	for _, id := range changes.added {
		entries = append(entries, entities.ActivityLogEntry{
			Action:   entities.ActionAssign,
			Entity:   entities.EntityUser,
			EntityID: id,
			Details:  fmt.Sprintf("Added to team %q by %s", after.Name, by),
		})
	}
	for _, id := range changes.removed {
		entries = append(entries, entities.ActivityLogEntry{
			Action:   entities.ActionDelete,
			Entity:   entities.EntityUser,
			EntityID: id,
			Details:  fmt.Sprintf("Removed from team %q by %s", after.Name, by),
		})
	}
	u.record(ctx, actor, entries, teamUpdatedEvents(actor, *after, changes))

	u.log.Infow("team updated", "tenant_id", actor.TenantID, "team_id", after.ID, "fields", delta.Fields())
	return after, nil
}

// DeleteTeam removes a team. Tasks that reference it keep the dangling id,
// which reads resolve to no team.
func (u *Usecase) DeleteTeam(ctx context.Context, actor entities.Actor, teamID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return err
	}
	if teamID == "" {
		return fmt.Errorf("%w: team id is required", entities.ErrInvalidArgument)
	}

	team, err := u.repo.GetTeam(ctx, actor.TenantID, teamID)
	if err != nil {
		return u.persistErr("get team", err)
	}
	if err := u.authorize(actor, authz.ActionDelete, authz.ResourceTeam, teamFacts(actor, *team), nil); err != nil {
		return err
	}
	if err := u.repo.DeleteTeam(ctx, actor.TenantID, teamID); err != nil {
		return u.persistErr("delete team", err)
	}

	by := actor.DisplayName()
	entries := []entities.ActivityLogEntry{{
		Action:   entities.ActionDelete,
		Entity:   entities.EntityTeam,
		EntityID: team.ID,
		Details:  fmt.Sprintf("Team %q was deleted by %s", team.Name, by),
	}}
	for _, id := range team.MemberIDs {
		entries = append(entries, entities.ActivityLogEntry{
			Action:   entities.ActionDelete,
			Entity:   entities.EntityUser,
			EntityID: id,
			Details:  fmt.Sprintf("Removed from team %q by %s", team.Name, by),
		})
	}
	u.record(ctx, actor, entries, teamDeletedEvents(actor, *team))

	u.log.Infow("team deleted", "tenant_id", actor.TenantID, "team_id", team.ID)
	return nil
}

// GetTeam returns a team the actor created, manages or belongs to. Admins
// see every team of the tenant.
func (u *Usecase) GetTeam(ctx context.Context, actor entities.Actor, teamID string) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", entities.ErrInvalidArgument)
	}
	team, err := u.repo.GetTeam(ctx, actor.TenantID, teamID)
	if err != nil {
		return nil, u.persistErr("get team", err)
	}
	if actor.Role != entities.RoleAdmin {
		f := teamFacts(actor, *team)
		if !f.IsCreator && !f.IsTeamMember && !f.IsTeamManager {
			return nil, fmt.Errorf("%w: team %s is not visible", entities.ErrForbidden, teamID)
		}
	}
	return team, nil
}

// ListTeams returns the teams visible to the actor.
func (u *Usecase) ListTeams(ctx context.Context, actor entities.Actor, limit, offset int) ([]entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	filter := entities.TeamFilter{Limit: limit, Offset: offset}
	if filter.Limit <= 0 || filter.Limit > maxTeamLimit {
		filter.Limit = maxTeamLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if actor.Role != entities.RoleAdmin {
		filter.VisibleTo = actor.ID
	}

	teams, err := u.repo.ListTeams(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, u.persistErr("list teams", err)
	}
	return teams, nil
}

func teamFacts(actor entities.Actor, team entities.Team) authz.Facts {
	return authz.Facts{
		IsCreator:     team.CreatedBy == actor.ID,
		IsTeamMember:  team.HasMember(actor.ID),
		IsTeamManager: team.HasManager(actor.ID),
	}
}
