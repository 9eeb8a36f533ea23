package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sahil-1827/task-management-system-backend/internal/authz"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

const (
	maxTitleLength   = 200
	defaultTaskLimit = 20
	maxTaskLimit     = 100
)

// CreateTask validates, authorizes and stores a new task.
func (u *Usecase) CreateTask(ctx context.Context, actor entities.Actor, task entities.Task) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	task.AssigneeIDs = entities.Dedupe(task.AssigneeIDs)
	if err := validateNewTask(&task); err != nil {
		return nil, err
	}

	team, err := u.requireTeam(ctx, actor.TenantID, task.TeamID)
	if err != nil {
		return nil, err
	}
	facts := authz.Facts{
		IsCreator:         true,
		IsCurrentAssignee: len(task.AssigneeIDs) == 1 && task.AssigneeIDs[0] == actor.ID,
		IsTeamMember:      team != nil && team.HasMember(actor.ID),
	}
	if err := u.authorize(actor, authz.ActionCreate, authz.ResourceTask, facts, createdTaskFields(task)); err != nil {
		return nil, err
	}
	assignees, err := u.requireUsers(ctx, actor.TenantID, task.AssigneeIDs)
	if err != nil {
		return nil, err
	}

	now := u.now()
	task.ID = u.newID()
	task.TenantID = actor.TenantID
	task.CreatedBy = actor.ID
	task.CreatedAt = now
	task.UpdatedAt = now

	created, err := u.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, u.persistErr("create task", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionCreate,
		Entity:   entities.EntityTask,
		EntityID: created.ID,
		Details:  describeTaskCreated(*created, assignees, team),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, taskCreatedEvents(actor, *created, team))

	u.log.Infow("task created", "tenant_id", actor.TenantID, "task_id", created.ID, "actor_id", actor.ID)
	return created, nil
}

// UpdateTask applies delta to an existing task.
func (u *Usecase) UpdateTask(ctx context.Context, actor entities.Actor, taskID string, delta entities.TaskDelta) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	delta, err := validateTaskDelta(taskID, delta)
	if err != nil {
		return nil, err
	}

	before, err := u.repo.GetTask(ctx, actor.TenantID, taskID)
	if err != nil {
		return nil, u.persistErr("get task", err)
	}
	facts, oldTeam, err := u.taskFacts(ctx, actor, *before)
	if err != nil {
		return nil, err
	}
	if err := u.authorize(actor, authz.ActionUpdate, authz.ResourceTask, facts, delta.Fields()); err != nil {
		return nil, err
	}

	if delta.AssigneeIDs != nil {
		if _, err := u.requireUsers(ctx, actor.TenantID, entities.Dedupe(*delta.AssigneeIDs)); err != nil {
			return nil, err
		}
	}
	newTeam := oldTeam
	if delta.TeamID != nil {
		if newTeam, err = u.requireTeam(ctx, actor.TenantID, *delta.TeamID); err != nil {
			return nil, err
		}
	}

	next := delta.Apply(*before)
	next.UpdatedAt = u.now()
	after, err := u.repo.SaveTask(ctx, next)
	if err != nil {
		return nil, u.persistErr("save task", err)
	}

	changes := diffTask(*before, *after)
	entry := entities.ActivityLogEntry{
		Action:   changes.action(),
		Entity:   entities.EntityTask,
		EntityID: after.ID,
		Details:  changes.describe(after.Title),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, taskUpdatedEvents(actor, *before, *after, oldTeam, newTeam, changes))

	u.log.Infow("task updated", "tenant_id", actor.TenantID, "task_id", after.ID, "actor_id", actor.ID, "fields", delta.Fields())
	return u.resolveTeamRef(ctx, after)
}

// DeleteTask removes a task and its comments.
func (u *Usecase) DeleteTask(ctx context.Context, actor entities.Actor, taskID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return err
	}
	if taskID == "" {
		return fmt.Errorf("%w: task id is required", entities.ErrInvalidArgument)
	}

	task, err := u.repo.GetTask(ctx, actor.TenantID, taskID)
	if err != nil {
		return u.persistErr("get task", err)
	}
	facts, team, err := u.taskFacts(ctx, actor, *task)
	if err != nil {
		return err
	}
	if err := u.authorize(actor, authz.ActionDelete, authz.ResourceTask, facts, nil); err != nil {
		return err
	}

	if err := u.repo.DeleteTask(ctx, actor.TenantID, taskID); err != nil {
		return u.persistErr("delete task", err)
	}

	entry := entities.ActivityLogEntry{
		Action:   entities.ActionDelete,
		Entity:   entities.EntityTask,
		EntityID: task.ID,
		Details:  fmt.Sprintf("Task %q was deleted", task.Title),
	}
	u.record(ctx, actor, []entities.ActivityLogEntry{entry}, taskDeletedEvents(actor, *task, team))

	u.log.Infow("task deleted", "tenant_id", actor.TenantID, "task_id", task.ID, "actor_id", actor.ID)
	return nil
}

// GetTask returns a task the actor can reach.
func (u *Usecase) GetTask(ctx context.Context, actor entities.Actor, taskID string) (*entities.Task, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	task, err := u.readableTask(ctx, actor, taskID)
	if err != nil {
		return nil, err
	}
	return u.resolveTeamRef(ctx, task)
}

// ListTasks returns the tasks in the actor's scope and the total match count.
func (u *Usecase) ListTasks(ctx context.Context, actor entities.Actor, filter entities.TaskFilter) ([]entities.Task, int64, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, 0, err
	}
	for _, s := range filter.Statuses {
		if !s.Valid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, s)
		}
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, filter.Priority)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultTaskLimit
	}
	if filter.Limit > maxTaskLimit {
		filter.Limit = maxTaskLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	scope, err := u.taskScope(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	filter.Scope = scope

	tasks, total, err := u.repo.ListTasks(ctx, actor.TenantID, filter)
	if err != nil {
		return nil, 0, u.persistErr("list tasks", err)
	}

	known := make(map[string]bool)
	for i := range tasks {
		id := tasks[i].TeamID
		if id == "" {
			continue
		}
		exists, ok := known[id]
		if !ok {
			team, err := u.loadTeam(ctx, actor.TenantID, id)
			if err != nil {
				return nil, 0, err
			}
			exists = team != nil
			known[id] = exists
		}
		if !exists {
			tasks[i].TeamID = ""
		}
	}
	return tasks, total, nil
}

// TaskPriorityStats counts the tasks in the actor's scope per priority.
func (u *Usecase) TaskPriorityStats(ctx context.Context, actor entities.Actor) (entities.PriorityStats, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return entities.PriorityStats{}, err
	}
	scope, err := u.taskScope(ctx, actor)
	if err != nil {
		return entities.PriorityStats{}, err
	}
	stats, err := u.repo.CountTasksByPriority(ctx, actor.TenantID, scope)
	if err != nil {
		return entities.PriorityStats{}, u.persistErr("count tasks", err)
	}
	return stats, nil
}

// taskFacts computes the actor's relationship to task. The returned team is
// nil when the task has none or its team no longer exists.
func (u *Usecase) taskFacts(ctx context.Context, actor entities.Actor, task entities.Task) (authz.Facts, *entities.Team, error) {
	team, err := u.loadTeam(ctx, actor.TenantID, task.TeamID)
	if err != nil {
		return authz.Facts{}, nil, err
	}
	facts := authz.Facts{
		IsCreator:         task.CreatedBy == actor.ID,
		IsCurrentAssignee: task.HasAssignee(actor.ID),
	}
	if team != nil {
		facts.IsTeamMember = team.HasMember(actor.ID)
		facts.IsTeamManager = team.HasManager(actor.ID)
	}
	return facts, team, nil
}

// readableTask loads a task and checks the actor can see it.
func (u *Usecase) readableTask(ctx context.Context, actor entities.Actor, taskID string) (*entities.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("%w: task id is required", entities.ErrInvalidArgument)
	}
	task, err := u.repo.GetTask(ctx, actor.TenantID, taskID)
	if err != nil {
		return nil, u.persistErr("get task", err)
	}
	if actor.Role == entities.RoleAdmin {
		return task, nil
	}
	facts, _, err := u.taskFacts(ctx, actor, *task)
	if err != nil {
		return nil, err
	}
	if facts.IsCreator || facts.IsCurrentAssignee || facts.IsTeamMember || facts.IsTeamManager {
		return task, nil
	}
	return nil, fmt.Errorf("%w: task %s is not visible", entities.ErrForbidden, taskID)
}

// taskScope returns nil for admins and otherwise the actor plus the teams
// they belong to; managers also see the teams they manage or created.
func (u *Usecase) taskScope(ctx context.Context, actor entities.Actor) (*entities.Scope, error) {
	if actor.Role == entities.RoleAdmin {
		return nil, nil
	}
	var teamIDs []string
	if actor.Role == entities.RoleManager {
		teams, err := u.repo.ListTeams(ctx, actor.TenantID, entities.TeamFilter{VisibleTo: actor.ID})
		if err != nil {
			return nil, u.persistErr("list teams", err)
		}
		for _, t := range teams {
			teamIDs = append(teamIDs, t.ID)
		}
	} else {
		ids, err := u.repo.TeamIDsForMember(ctx, actor.TenantID, actor.ID)
		if err != nil {
			return nil, u.persistErr("member teams", err)
		}
		teamIDs = ids
	}
	return &entities.Scope{UserID: actor.ID, TeamIDs: teamIDs}, nil
}

// requireTeam loads a team that a mutation is about to reference.
func (u *Usecase) requireTeam(ctx context.Context, tenantID, teamID string) (*entities.Team, error) {
	if teamID == "" {
		return nil, nil
	}
	team, err := u.repo.GetTeam(ctx, tenantID, teamID)
	if err != nil {
		return nil, u.persistErr("get team", err)
	}
	return team, nil
}

// resolveTeamRef clears a reference to a team that no longer exists.
func (u *Usecase) resolveTeamRef(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	if task.TeamID == "" {
		return task, nil
	}
	team, err := u.loadTeam(ctx, task.TenantID, task.TeamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		out := task.Clone()
		out.TeamID = ""
		return &out, nil
	}
	return task, nil
}

func validateNewTask(task *entities.Task) error {
	task.Title = strings.TrimSpace(task.Title)
	if task.Title == "" {
		return fmt.Errorf("%w: title is required", entities.ErrInvalidArgument)
	}
	if len(task.Title) > maxTitleLength {
		return fmt.Errorf("%w: title is longer than %d characters", entities.ErrInvalidArgument, maxTitleLength)
	}
	if len(task.AssigneeIDs) > 0 && task.TeamID != "" {
		return fmt.Errorf("%w: a task is assigned to users or to a team, not both", entities.ErrInvalidArgument)
	}
	if task.Status == "" {
		task.Status = entities.StatusToDo
	}
	if !task.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, task.Status)
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if !task.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, task.Priority)
	}
	return nil
}

func validateTaskDelta(taskID string, delta entities.TaskDelta) (entities.TaskDelta, error) {
	if taskID == "" {
		return delta, fmt.Errorf("%w: task id is required", entities.ErrInvalidArgument)
	}
	if delta.SetsBoth() {
		return delta, fmt.Errorf("%w: a task is assigned to users or to a team, not both", entities.ErrInvalidArgument)
	}
	if len(delta.Fields()) == 0 {
		return delta, fmt.Errorf("%w: nothing to update", entities.ErrInvalidArgument)
	}
	if delta.Title != nil {
		title := strings.TrimSpace(*delta.Title)
		if title == "" || len(title) > maxTitleLength {
			return delta, fmt.Errorf("%w: title must be 1-%d characters", entities.ErrInvalidArgument, maxTitleLength)
		}
		delta.Title = &title
	}
	if delta.Status != nil && !delta.Status.Valid() {
		return delta, fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, *delta.Status)
	}
	if delta.Priority != nil && !delta.Priority.Valid() {
		return delta, fmt.Errorf("%w: unknown priority %q", entities.ErrInvalidArgument, *delta.Priority)
	}
	return delta, nil
}

// createdTaskFields lists the assignment fields a new task sets.
func createdTaskFields(task entities.Task) []string {
	fields := []string{entities.FieldTitle, entities.FieldStatus, entities.FieldPriority}
	if len(task.AssigneeIDs) > 0 {
		fields = append(fields, entities.FieldAssignees)
	}
	if task.TeamID != "" {
		fields = append(fields, entities.FieldTeam)
	}
	return fields
}
