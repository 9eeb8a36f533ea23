// Package entities contains core business entities.
package entities

// EventKind names a live notification.
type EventKind string

const (
	EventTaskAssigned       EventKind = "taskAssigned"
	EventTaskUnassigned     EventKind = "taskUnassigned"
	EventTaskAssignedToTeam EventKind = "taskAssignedToTeam"
	EventTaskUpdated        EventKind = "taskUpdated"
	EventTeamAdded          EventKind = "teamAdded"
	EventTeamRemoved        EventKind = "teamRemoved"
	EventTeamUpdated        EventKind = "teamUpdated"
	EventCommentAdded       EventKind = "commentAdded"
	EventCommentDeleted     EventKind = "commentDeleted"
)

// EventPayload is the body delivered to clients. Exactly one of the snapshot
// fields or id fields is usually set, plus a human-readable message.
type EventPayload struct {
	Task      *Task    `json:"task,omitempty"`
	Team      *Team    `json:"team,omitempty"`
	Comment   *Comment `json:"comment,omitempty"`
	TaskID    string   `json:"taskId,omitempty"`
	TeamID    string   `json:"teamId,omitempty"`
	CommentID string   `json:"commentId,omitempty"`
	Message   string   `json:"message"`
}

// Event is a domain event produced by a mutation.
type Event struct {
	Kind     EventKind
	TenantID string
	ActorID  string
	// Recipients are always included.
	Recipients []string
	// TeamID names the affected team; its current members are included.
	TeamID string
	// NotifyStaff includes every admin and manager of the tenant.
	NotifyStaff bool
	Payload     EventPayload
}

// Notification is one resolved (recipient, kind, payload) tuple.
type Notification struct {
	RecipientID string
	Kind        EventKind
	Payload     EventPayload
}
