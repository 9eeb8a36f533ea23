// Package entities contains core business entities.
package entities

import "time"

// ActivityAction enumerates audited actions.
type ActivityAction string

const (
	ActionCreate ActivityAction = "create"
	ActionUpdate ActivityAction = "update"
	ActionDelete ActivityAction = "delete"
	ActionAssign ActivityAction = "assign"
	ActionStatus ActivityAction = "status"
)

// EntityKind enumerates the kinds of audited entities.
type EntityKind string

const (
	EntityTask EntityKind = "task"
	EntityTeam EntityKind = "team"
	EntityUser EntityKind = "user"
)

// ActivityLogEntry is an immutable record of a successful mutation.
type ActivityLogEntry struct {
	ID          string         `json:"id"`
	Action      ActivityAction `json:"action"`
	Entity      EntityKind     `json:"entity"`
	EntityID    string         `json:"entityId"`
	PerformedBy string         `json:"performedBy"`
	TenantID    string         `json:"tenantId"`
	Details     string         `json:"details"`
	CreatedAt   time.Time      `json:"createdAt"`
}
