// Package oapi holds the HTTP API models and the route table binding them to
// a ServerInterface implementation.
package oapi

import "time"

// ErrorResponseErrorCode enumerates API error codes.
type ErrorResponseErrorCode string

const (
	INVALIDARGUMENT ErrorResponseErrorCode = "INVALID_ARGUMENT"
	UNAUTHENTICATED ErrorResponseErrorCode = "UNAUTHENTICATED"
	FORBIDDEN       ErrorResponseErrorCode = "FORBIDDEN"
	NOTFOUND        ErrorResponseErrorCode = "NOT_FOUND"
	USEREXISTS      ErrorResponseErrorCode = "USER_EXISTS"
	INTERNAL        ErrorResponseErrorCode = "INTERNAL"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// Task defines model for Task.
type Task struct {
	Id          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Assignees   []string   `json:"assignees"`
	Team        *string    `json:"team"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskList defines model for a page of tasks.
type TaskList struct {
	Tasks  []Task `json:"tasks"`
	Total  int64  `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CreateTaskJSONRequestBody defines body for CreateTask.
type CreateTaskJSONRequestBody struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	Status      string     `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate     *time.Time `json:"dueDate"`
	Assignees   []string   `json:"assignees" validate:"omitempty,dive,required"`
	Team        string     `json:"team"`
}

// UpdateTaskJSONRequestBody defines body for UpdateTask. Absent fields are
// left untouched; an empty team or assignee list clears it.
type UpdateTaskJSONRequestBody struct {
	Title        *string    `json:"title" validate:"omitempty,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=5000"`
	Status       *string    `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	DueDate      *time.Time `json:"dueDate"`
	ClearDueDate bool       `json:"clearDueDate"`
	Assignees    *[]string  `json:"assignees"`
	Team         *string    `json:"team"`
}

// ListTasksParams defines query parameters for ListTasks.
type ListTasksParams struct {
	Status   string `query:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done"`
	Priority string `query:"priority" validate:"omitempty,oneof=Low Medium High"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
	Offset   int    `query:"offset" validate:"gte=0"`
}

// PriorityStats defines model for task counts per priority.
type PriorityStats struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
}

// Team defines model for Team.
type Team struct {
	Id          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Members     []string  `json:"members"`
	Managers    []string  `json:"managers"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTeamJSONRequestBody defines body for CreateTeam.
type CreateTeamJSONRequestBody struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Members     []string `json:"members" validate:"omitempty,dive,required"`
	Managers    []string `json:"managers" validate:"omitempty,dive,required"`
}

// UpdateTeamJSONRequestBody defines body for UpdateTeam.
type UpdateTeamJSONRequestBody struct {
	Name        *string   `json:"name" validate:"omitempty,max=100"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Members     *[]string `json:"members"`
	Managers    *[]string `json:"managers"`
}

// ListTeamsParams defines query parameters for ListTeams.
type ListTeamsParams struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// User defines model for User.
type User struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUserJSONRequestBody defines body for CreateUser.
type CreateUserJSONRequestBody struct {
	Name  string `json:"name" validate:"required,max=100"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=manager user"`
}

// UpdateProfileJSONRequestBody defines body for UpdateProfile. Absent fields
// are left untouched.
type UpdateProfileJSONRequestBody struct {
	Name  *string `json:"name" validate:"omitempty,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// ChangeUserRoleJSONRequestBody defines body for ChangeUserRole.
type ChangeUserRoleJSONRequestBody struct {
	Role string `json:"role" validate:"required,oneof=manager user"`
}

// Comment defines model for Comment.
type Comment struct {
	Id        string    `json:"id"`
	Task      string    `json:"task"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	ReplyTo   *string   `json:"replyTo"`
	IsPinned  bool      `json:"isPinned"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCommentJSONRequestBody defines body for CreateComment.
type CreateCommentJSONRequestBody struct {
	Task    string `json:"task" validate:"required"`
	Text    string `json:"text" validate:"required,max=2000"`
	ReplyTo string `json:"replyTo"`
}

// ActivityLogEntry defines model for ActivityLogEntry.
type ActivityLogEntry struct {
	Id          string    `json:"id"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	EntityId    string    `json:"entityId"`
	PerformedBy string    `json:"performedBy"`
	Details     string    `json:"details"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListActivityParams defines query parameters for ListActivity.
type ListActivityParams struct {
	Limit int `query:"limit" validate:"gte=0"`
}
