// Package entities contains core business entities.
package entities

import "time"

// TaskStatus enumerates task lifecycle states.
type TaskStatus string

const (
	// StatusToDo is the initial status.
	StatusToDo TaskStatus = "To Do"
	// StatusInProgress marks work in flight.
	StatusInProgress TaskStatus = "In Progress"
	// StatusDone marks completed work.
	StatusDone TaskStatus = "Done"
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Field names used by deltas and the authorization engine.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "dueDate"
	FieldAssignees   = "assignees"
	FieldTeam        = "team"
	FieldName        = "name"
	FieldMembers     = "members"
	FieldManagers    = "managers"
	FieldRole        = "role"
	FieldEmail       = "email"
)

// Task is either assigned to individual users or to a team, never both.
type Task struct {
	ID          string       `json:"id"`
	TenantID    string       `json:"tenantId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	AssigneeIDs []string     `json:"assignees"`
	TeamID      string       `json:"team,omitempty"`
	CreatedBy   string       `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	out := t
	out.AssigneeIDs = append([]string(nil), t.AssigneeIDs...)
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}

// HasAssignee reports whether userID is a current assignee.
func (t Task) HasAssignee(userID string) bool {
	return Contains(t.AssigneeIDs, userID)
}

// TaskDelta is a partial task update. Nil fields are left untouched.
// An empty TeamID clears the team, an empty AssigneeIDs slice clears assignees.
type TaskDelta struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	AssigneeIDs  *[]string
	TeamID       *string
}

// Fields lists the field names touched by the delta.
func (d TaskDelta) Fields() []string {
	fields := make([]string, 0, 7)
	if d.Title != nil {
		fields = append(fields, FieldTitle)
	}
	if d.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if d.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if d.Priority != nil {
		fields = append(fields, FieldPriority)
	}
	if d.DueDate != nil || d.ClearDueDate {
		fields = append(fields, FieldDueDate)
	}
	if d.AssigneeIDs != nil {
		fields = append(fields, FieldAssignees)
	}
	if d.TeamID != nil {
		fields = append(fields, FieldTeam)
	}
	return fields
}

// SetsBoth reports whether the delta names both a non-empty assignee set and a team.
func (d TaskDelta) SetsBoth() bool {
	return d.AssigneeIDs != nil && len(*d.AssigneeIDs) > 0 && d.TeamID != nil && *d.TeamID != ""
}

// Apply returns a copy of t with the delta applied. Setting a team clears
// individual assignees and setting assignees clears the team.
func (d TaskDelta) Apply(t Task) Task {
	out := t.Clone()
	if d.Title != nil {
		out.Title = *d.Title
	}
	if d.Description != nil {
		out.Description = *d.Description
	}
	if d.Status != nil {
		out.Status = *d.Status
	}
	if d.Priority != nil {
		out.Priority = *d.Priority
	}
	if d.ClearDueDate {
		out.DueDate = nil
	} else if d.DueDate != nil {
		due := *d.DueDate
		out.DueDate = &due
	}
	if d.AssigneeIDs != nil {
		out.AssigneeIDs = Dedupe(*d.AssigneeIDs)
		if len(out.AssigneeIDs) > 0 {
			out.TeamID = ""
		}
	}
	if d.TeamID != nil {
		out.TeamID = *d.TeamID
		if out.TeamID != "" {
			out.AssigneeIDs = nil
		}
	}
	return out
}

// Scope restricts listings to what a user can reach: tasks they created, are
// assigned to, or that belong to one of TeamIDs.
type Scope struct {
	UserID  string
	TeamIDs []string
}

// TaskFilter narrows a task listing. A nil Scope means the whole tenant.
type TaskFilter struct {
	Scope    *Scope
	Statuses []TaskStatus
	Priority TaskPriority
	Limit    int
	Offset   int
}

// PriorityStats counts tasks per priority.
type PriorityStats struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}
