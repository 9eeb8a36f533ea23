package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

const dueDateLayout = "2006-01-02"

// taskChanges is the field-level difference between two task snapshots.
type taskChanges struct {
	parts       []string
	status      bool
	assignment  bool
	other       bool
	added       []string
	removed     []string
	teamChanged bool
}

func (c taskChanges) any() bool { return len(c.parts) > 0 }

// action picks the activity verb: status-only and assignment-only changes get
// their own verbs, everything else is an update.
func (c taskChanges) action() entities.ActivityAction {
	switch {
	case c.status && !c.assignment && !c.other:
		return entities.ActionStatus
	case c.assignment && !c.status && !c.other:
		return entities.ActionAssign
	default:
		return entities.ActionUpdate
	}
}

func (c taskChanges) describe(title string) string {
	if !c.any() {
		return fmt.Sprintf("Task %q was updated.", title)
	}
	return fmt.Sprintf("Task %q updated: %s.", title, strings.Join(c.parts, ", "))
}

func diffTask(before, after entities.Task) taskChanges {
	var c taskChanges
	if before.Title != after.Title {
		c.parts = append(c.parts, fmt.Sprintf("title from %q to %q", before.Title, after.Title))
		c.other = true
	}
	if before.Description != after.Description {
		c.parts = append(c.parts, "description")
		c.other = true
	}
	if before.Status != after.Status {
		c.parts = append(c.parts, fmt.Sprintf("status from %q to %q", before.Status, after.Status))
		c.status = true
	}
	if before.Priority != after.Priority {
		c.parts = append(c.parts, fmt.Sprintf("priority from %q to %q", before.Priority, after.Priority))
		c.other = true
	}
	if !sameDay(before.DueDate, after.DueDate) {
		c.parts = append(c.parts, fmt.Sprintf("due date from %q to %q", formatDue(before.DueDate), formatDue(after.DueDate)))
		c.other = true
	}

	c.added, c.removed = entities.Diff(before.AssigneeIDs, after.AssigneeIDs)
	if n := len(c.added); n > 0 {
		c.parts = append(c.parts, fmt.Sprintf("assigned to %d user(s)", n))
		c.assignment = true
	}
	if n := len(c.removed); n > 0 {
		c.parts = append(c.parts, fmt.Sprintf("unassigned from %d user(s)", n))
		c.assignment = true
	}
	if before.TeamID != after.TeamID {
		c.teamChanged = true
		c.assignment = true
		if before.TeamID != "" {
			c.parts = append(c.parts, "unassigned from a team")
		}
		if after.TeamID != "" {
			c.parts = append(c.parts, "assigned to a team")
		}
	}
	return c
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format(dueDateLayout)
}

func describeTaskCreated(task entities.Task, assignees []entities.User, team *entities.Team) string {
	msg := fmt.Sprintf("Task %q was created", task.Title)
	switch {
	case len(assignees) > 0:
		names := make([]string, 0, len(assignees))
		for _, a := range assignees {
			names = append(names, userName(a))
		}
		msg += " and assigned to " + strings.Join(names, ", ")
	case team != nil:
		msg += fmt.Sprintf(" and assigned to team %s", team.Name)
	}
	return msg
}

func userName(u entities.User) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// teamChanges is the difference between two team snapshots.
type teamChanges struct {
	parts           []string
	added           []string
	removed         []string
	managersChanged bool
}

func diffTeam(before, after entities.Team) teamChanges {
	var c teamChanges
	if before.Name != after.Name {
		c.parts = append(c.parts, fmt.Sprintf("name from %q to %q", before.Name, after.Name))
	}
	if before.Description != after.Description {
		c.parts = append(c.parts, "description")
	}
	c.added, c.removed = entities.Diff(before.MemberIDs, after.MemberIDs)
	if len(c.added) > 0 || len(c.removed) > 0 {
		c.parts = append(c.parts, fmt.Sprintf("members: %d member(s) added and %d member(s) removed", len(c.added), len(c.removed)))
	}
	addedMgr, removedMgr := entities.Diff(before.ManagerIDs, after.ManagerIDs)
	if len(addedMgr) > 0 || len(removedMgr) > 0 {
		c.managersChanged = true
		c.parts = append(c.parts, "managers")
	}
	return c
}

func (c teamChanges) describe(name, actorName string) string {
	if len(c.parts) == 0 {
		return fmt.Sprintf("Team %q was updated by %s.", name, actorName)
	}
	return fmt.Sprintf("Team %q updated by %s: %s.", name, actorName, strings.Join(c.parts, ", "))
}
