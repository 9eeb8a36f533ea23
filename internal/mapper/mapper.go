// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	oapi "github.com/Sahil-1827/task-management-system-backend/internal/oapi"
)

// FromOAPICreateTask builds an entities.Task from the create request.
func FromOAPICreateTask(src oapi.CreateTaskJSONRequestBody) entities.Task {
	return entities.Task{
		Title:       src.Title,
		Description: src.Description,
		Status:      entities.TaskStatus(src.Status),
		Priority:    entities.TaskPriority(src.Priority),
		DueDate:     src.DueDate,
		AssigneeIDs: src.Assignees,
		TeamID:      src.Team,
	}
}

// FromOAPIUpdateTask builds a partial task update.
func FromOAPIUpdateTask(src oapi.UpdateTaskJSONRequestBody) entities.TaskDelta {
	delta := entities.TaskDelta{
		Title:        src.Title,
		Description:  src.Description,
		DueDate:      src.DueDate,
		ClearDueDate: src.ClearDueDate,
		AssigneeIDs:  src.Assignees,
		TeamID:       src.Team,
	}
	if src.Status != nil {
		status := entities.TaskStatus(*src.Status)
		delta.Status = &status
	}
	if src.Priority != nil {
		priority := entities.TaskPriority(*src.Priority)
		delta.Priority = &priority
	}
	return delta
}

// FromOAPIListTasks maps query parameters to a task filter.
func FromOAPIListTasks(params oapi.ListTasksParams) entities.TaskFilter {
	filter := entities.TaskFilter{
		Priority: entities.TaskPriority(params.Priority),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if params.Status != "" {
		filter.Statuses = []entities.TaskStatus{entities.TaskStatus(params.Status)}
	}
	return filter
}

// ToOAPITask maps entities.Task to transport model.
func ToOAPITask(t entities.Task) oapi.Task {
	var team *string
	if t.TeamID != "" {
		id := t.TeamID
		team = &id
	}
	return oapi.Task{
		Id:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		Assignees:   nonNil(t.AssigneeIDs),
		Team:        team,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// ToOAPITaskList maps a page of tasks.
func ToOAPITaskList(tasks []entities.Task, total int64, limit, offset int) oapi.TaskList {
	res := make([]oapi.Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, ToOAPITask(t))
	}
	return oapi.TaskList{Tasks: res, Total: total, Limit: limit, Offset: offset}
}

// ToOAPIPriorityStats maps task counts per priority.
func ToOAPIPriorityStats(s entities.PriorityStats) oapi.PriorityStats {
	return oapi.PriorityStats{Low: s.Low, Medium: s.Medium, High: s.High}
}

// FromOAPICreateTeam builds an entities.Team from the create request.
func FromOAPICreateTeam(src oapi.CreateTeamJSONRequestBody) entities.Team {
	return entities.Team{
		Name:        src.Name,
		Description: src.Description,
		MemberIDs:   src.Members,
		ManagerIDs:  src.Managers,
	}
}

// FromOAPIUpdateTeam builds a partial team update.
func FromOAPIUpdateTeam(src oapi.UpdateTeamJSONRequestBody) entities.TeamDelta {
	return entities.TeamDelta{
		Name:        src.Name,
		Description: src.Description,
		MemberIDs:   src.Members,
		ManagerIDs:  src.Managers,
	}
}

// ToOAPITeam maps entities.Team to transport model.
func ToOAPITeam(team entities.Team) oapi.Team {
	return oapi.Team{
		Id:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Members:     nonNil(team.MemberIDs),
		Managers:    nonNil(team.ManagerIDs),
		CreatedBy:   team.CreatedBy,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

// ToOAPITeams maps a slice of teams.
func ToOAPITeams(teams []entities.Team) []oapi.Team {
	res := make([]oapi.Team, 0, len(teams))
	for _, t := range teams {
		res = append(res, ToOAPITeam(t))
	}
	return res
}

// FromOAPICreateUser builds an entities.User from the create request.
func FromOAPICreateUser(src oapi.CreateUserJSONRequestBody) entities.User {
	return entities.User{
		Name:  src.Name,
		Email: src.Email,
		Role:  entities.Role(src.Role),
	}
}

// ToOAPIUser maps entities.User to transport model.
func ToOAPIUser(u entities.User) oapi.User {
	return oapi.User{
		Id:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// ToOAPIUsers maps a slice of users.
func ToOAPIUsers(users []entities.User) []oapi.User {
	res := make([]oapi.User, 0, len(users))
	for _, u := range users {
		res = append(res, ToOAPIUser(u))
	}
	return res
}

// FromOAPICreateComment builds an entities.Comment from the create request.
func FromOAPICreateComment(src oapi.CreateCommentJSONRequestBody) entities.Comment {
	return entities.Comment{
		TaskID:  src.Task,
		Text:    src.Text,
		ReplyTo: src.ReplyTo,
	}
}

// ToOAPIComment maps entities.Comment to transport model.
func ToOAPIComment(c entities.Comment) oapi.Comment {
	var replyTo *string
	if c.ReplyTo != "" {
		id := c.ReplyTo
		replyTo = &id
	}
	return oapi.Comment{
		Id:        c.ID,
		Task:      c.TaskID,
		User:      c.AuthorID,
		Text:      c.Text,
		ReplyTo:   replyTo,
		IsPinned:  c.IsPinned,
		CreatedAt: c.CreatedAt,
	}
}

// ToOAPIComments maps a slice of comments.
func ToOAPIComments(comments []entities.Comment) []oapi.Comment {
	res := make([]oapi.Comment, 0, len(comments))
	for _, c := range comments {
		res = append(res, ToOAPIComment(c))
	}
	return res
}

// ToOAPIActivity maps activity log entries to transport models.
func ToOAPIActivity(entries []entities.ActivityLogEntry) []oapi.ActivityLogEntry {
	res := make([]oapi.ActivityLogEntry, 0, len(entries))
	for _, e := range entries {
		res = append(res, oapi.ActivityLogEntry{
			Id:          e.ID,
			Action:      string(e.Action),
			Entity:      string(e.Entity),
			EntityId:    e.EntityID,
			PerformedBy: e.PerformedBy,
			Details:     e.Details,
			CreatedAt:   e.CreatedAt,
		})
	}
	return res
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
