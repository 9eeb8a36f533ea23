// Package entities contains core business entities.
package entities

import "time"

// Team groups members under a name. Managers are tracked separately and need
// not be members.
type Team struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberIDs   []string  `json:"members"`
	ManagerIDs  []string  `json:"managers"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is a team member.
func (t Team) HasMember(userID string) bool {
	return Contains(t.MemberIDs, userID)
}

// HasManager reports whether userID manages the team.
func (t Team) HasManager(userID string) bool {
	return Contains(t.ManagerIDs, userID)
}

// TeamDelta is a partial team update. Nil fields are left untouched.
type TeamDelta struct {
	Name        *string
	Description *string
	MemberIDs   *[]string
	ManagerIDs  *[]string
}

// Fields lists the field names touched by the delta.
func (d TeamDelta) Fields() []string {
	fields := make([]string, 0, 4)
	if d.Name != nil {
		fields = append(fields, FieldName)
	}
	if d.Description != nil {
		fields = append(fields, FieldDescription)
	}
	if d.MemberIDs != nil {
		fields = append(fields, FieldMembers)
	}
	if d.ManagerIDs != nil {
		fields = append(fields, FieldManagers)
	}
	return fields
}

// Apply returns a copy of t with the delta applied.
func (d TeamDelta) Apply(t Team) Team {
	out := t.Clone()
	if d.Name != nil {
		out.Name = *d.Name
	}
	if d.Description != nil {
		out.Description = *d.Description
	}
	if d.MemberIDs != nil {
		out.MemberIDs = Dedupe(*d.MemberIDs)
	}
	if d.ManagerIDs != nil {
		out.ManagerIDs = Dedupe(*d.ManagerIDs)
	}
	return out
}

// Clone returns a deep copy of t.
func (t Team) Clone() Team {
	out := t
	out.MemberIDs = append([]string(nil), t.MemberIDs...)
	out.ManagerIDs = append([]string(nil), t.ManagerIDs...)
	return out
}

// TeamFilter scopes a team listing. Empty VisibleTo means the whole tenant.
type TeamFilter struct {
	VisibleTo string
	Limit     int
	Offset    int
}
