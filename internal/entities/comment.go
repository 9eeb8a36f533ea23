// Package entities contains core business entities.
package entities

import "time"

// Comment is a note attached to a task.
type Comment struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	TaskID    string    `json:"task"`
	AuthorID  string    `json:"user"`
	Text      string    `json:"text"`
	ReplyTo   string    `json:"replyTo,omitempty"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
}
