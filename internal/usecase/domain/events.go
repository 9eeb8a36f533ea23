package domain

import (
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

func taskEvent(actor entities.Actor, kind entities.EventKind, task entities.Task, msg string) entities.Event {
	snapshot := task.Clone()
	return entities.Event{
		Kind:     kind,
		TenantID: actor.TenantID,
		ActorID:  actor.ID,
		Payload:  entities.EventPayload{Task: &snapshot, TaskID: task.ID, Message: msg},
	}
}

func teamEvent(actor entities.Actor, kind entities.EventKind, team entities.Team, msg string) entities.Event {
	snapshot := team.Clone()
	return entities.Event{
		Kind:     kind,
		TenantID: actor.TenantID,
		ActorID:  actor.ID,
		Payload:  entities.EventPayload{Team: &snapshot, TeamID: team.ID, Message: msg},
	}
}

func taskCreatedEvents(actor entities.Actor, task entities.Task, team *entities.Team) []entities.Event {
	by := actor.DisplayName()
	events := make([]entities.Event, 0, 2)

	if len(task.AssigneeIDs) > 0 {
		ev := taskEvent(actor, entities.EventTaskAssigned, task,
			fmt.Sprintf("Task %q has been assigned to you by %s", task.Title, by))
		ev.Recipients = task.AssigneeIDs
		events = append(events, ev)
	}
	if team != nil {
		ev := taskEvent(actor, entities.EventTaskAssignedToTeam, task,
			fmt.Sprintf("Task %q has been assigned to your team %q by %s", task.Title, team.Name, by))
		ev.TeamID = team.ID
		events = append(events, ev)
	}

	ev := taskEvent(actor, entities.EventTaskUpdated, task, fmt.Sprintf("Task %q has been created by %s", task.Title, by))
	ev.NotifyStaff = true
	return append(events, ev)
}

// taskUpdatedEvents derives events from a task diff, in delivery order:
// removals first, then additions, then the general update.
func taskUpdatedEvents(actor entities.Actor, before, after entities.Task, oldTeam, newTeam *entities.Team, c taskChanges) []entities.Event {
	by := actor.DisplayName()
	events := make([]entities.Event, 0, 5)

	if len(c.removed) > 0 {
		ev := taskEvent(actor, entities.EventTaskUnassigned, after,
			fmt.Sprintf("You have been unassigned from task %q by %s", after.Title, by))
		ev.Recipients = c.removed
		events = append(events, ev)
	}
	if len(c.added) > 0 {
		ev := taskEvent(actor, entities.EventTaskAssigned, after,
			fmt.Sprintf("Task %q has been assigned to you by %s", after.Title, by))
		ev.Recipients = c.added
		events = append(events, ev)
	}
	if c.teamChanged && before.TeamID != "" && oldTeam != nil {
		ev := taskEvent(actor, entities.EventTaskUnassigned, after,
			fmt.Sprintf("Task %q is no longer assigned to your team %q", after.Title, oldTeam.Name))
		ev.TeamID = before.TeamID
		events = append(events, ev)
	}
	if c.teamChanged && after.TeamID != "" && newTeam != nil && newTeam.ID == after.TeamID {
		ev := taskEvent(actor, entities.EventTaskAssignedToTeam, after,
			fmt.Sprintf("Task %q has been assigned to your team %q by %s", after.Title, newTeam.Name, by))
		ev.TeamID = after.TeamID
		events = append(events, ev)
	}
	if c.any() {
		ev := taskEvent(actor, entities.EventTaskUpdated, after, fmt.Sprintf("Task %q has been updated by %s", after.Title, by))
		ev.Recipients = after.AssigneeIDs
		ev.TeamID = after.TeamID
		ev.NotifyStaff = true
		events = append(events, ev)
	}
	return events
}

func taskDeletedEvents(actor entities.Actor, task entities.Task, team *entities.Team) []entities.Event {
	ev := taskEvent(actor, entities.EventTaskUnassigned, task,
		fmt.Sprintf("Task %q has been deleted by %s", task.Title, actor.DisplayName()))
	ev.Recipients = task.AssigneeIDs
	if team != nil {
		ev.TeamID = team.ID
	}
	ev.NotifyStaff = true
	return []entities.Event{ev}
}

func teamCreatedEvents(actor entities.Actor, team entities.Team) []entities.Event {
	by := actor.DisplayName()
	added := teamEvent(actor, entities.EventTeamAdded, team,
		fmt.Sprintf("You have been added to team %q by %s", team.Name, by))
	added.Recipients = team.MemberIDs

	created := teamEvent(actor, entities.EventTeamUpdated, team,
		fmt.Sprintf("Team %q has been created by %s", team.Name, by))
	created.Recipients = team.ManagerIDs
	created.NotifyStaff = true
	return []entities.Event{added, created}
}

func teamUpdatedEvents(actor entities.Actor, after entities.Team, c teamChanges) []entities.Event {
	by := actor.DisplayName()
	events := make([]entities.Event, 0, 3)

	if len(c.removed) > 0 {
		ev := teamEvent(actor, entities.EventTeamRemoved, after,
			fmt.Sprintf("You have been removed from team %q by %s", after.Name, by))
		ev.Recipients = c.removed
		events = append(events, ev)
	}
	if len(c.added) > 0 {
		ev := teamEvent(actor, entities.EventTeamAdded, after,
			fmt.Sprintf("You have been added to team %q by %s", after.Name, by))
		ev.Recipients = c.added
		events = append(events, ev)
	}
	ev := teamEvent(actor, entities.EventTeamUpdated, after, fmt.Sprintf("Team %q has been updated by %s", after.Name, by))
	ev.Recipients = after.ManagerIDs
	ev.TeamID = after.ID
	ev.NotifyStaff = true
	return append(events, ev)
}

func teamDeletedEvents(actor entities.Actor, team entities.Team) []entities.Event {
	ev := teamEvent(actor, entities.EventTeamRemoved, team,
		fmt.Sprintf("Team %q has been deleted by %s", team.Name, actor.DisplayName()))
	ev.Recipients = append(append([]string(nil), team.MemberIDs...), team.ManagerIDs...)
	ev.NotifyStaff = true
	return []entities.Event{ev}
}

func commentEvent(actor entities.Actor, kind entities.EventKind, task entities.Task, comment entities.Comment, msg string) entities.Event {
	c := comment
	return entities.Event{
		Kind:       kind,
		TenantID:   actor.TenantID,
		ActorID:    actor.ID,
		Recipients: append([]string(nil), task.AssigneeIDs...),
		TeamID:     task.TeamID,
		Payload:    entities.EventPayload{Comment: &c, TaskID: task.ID, CommentID: comment.ID, Message: msg},
	}
}
