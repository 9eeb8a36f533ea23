// Package memory implements the repository in process memory. It backs the
// "memory" repository backend and the usecase tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/audit"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"go.uber.org/zap"
)

// Memory keeps every document in maps guarded by one RWMutex. Each write
// replaces a whole document, matching the per-document atomicity of the
// Postgres backend.
type Memory struct {
	log *zap.SugaredLogger

	mu       sync.RWMutex
	users    map[string]entities.User
	teams    map[string]entities.Team
	tasks    map[string]entities.Task
	comments map[string]entities.Comment

	activity *audit.MemoryStore
}

// New returns an empty in-memory repository.
func New(log *zap.SugaredLogger) *Memory {
	return &Memory{
		log:      log.Named("repo.memory"),
		users:    make(map[string]entities.User),
		teams:    make(map[string]entities.Team),
		tasks:    make(map[string]entities.Task),
		comments: make(map[string]entities.Comment),
		activity: audit.NewMemoryStore(),
	}
}

// OnStart is a no-op.
func (m *Memory) OnStart(_ context.Context) error {
	m.log.Infow("memory repository ready")
	return nil
}

// OnStop is a no-op.
func (m *Memory) OnStop(_ context.Context) error { return nil }

// CreateUser stores a new user. Emails are unique across tenants.
func (m *Memory) CreateUser(_ context.Context, user entities.User) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) && user.Email != "" {
			return nil, entities.ErrUserExists
		}
	}
	if _, ok := m.users[user.ID]; ok {
		return nil, entities.ErrUserExists
	}
	m.users[user.ID] = user
	return &user, nil
}

// GetUser fetches a user of the tenant.
func (m *Memory) GetUser(_ context.Context, tenantID, userID string) (*entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, entities.ErrUserNotFound
	}
	return &u, nil
}

// ListUsers returns the tenant's users ordered by creation time.
func (m *Memory) ListUsers(_ context.Context, tenantID string) ([]entities.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entities.User, 0)
	for _, u := range m.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// SetUserRole changes a user's role.
func (m *Memory) SetUserRole(_ context.Context, tenantID, userID string, role entities.Role) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok || u.TenantID != tenantID {
		return nil, entities.ErrUserNotFound
	}
	u.Role = role
	m.users[userID] = u
	return &u, nil
}

// SaveUser updates name and email of an existing user.
func (m *Memory) SaveUser(_ context.Context, user entities.User) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.users[user.ID]
	if !ok || cur.TenantID != user.TenantID {
		return nil, entities.ErrUserNotFound
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, entities.ErrUserExists
		}
	}
	cur.Name = user.Name
	cur.Email = user.Email
	m.users[user.ID] = cur
	return &cur, nil
}

// StaffIDs returns admins and managers of the tenant.
func (m *Memory) StaffIDs(_ context.Context, tenantID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0)
	for _, u := range m.users {
		if u.TenantID == tenantID && u.Role.IsStaff() {
			out = append(out, u.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CreateTeam stores a new team.
func (m *Memory) CreateTeam(_ context.Context, team entities.Team) (*entities.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams[team.ID] = team.Clone()
	out := team.Clone()
	return &out, nil
}

// GetTeam fetches a team of the tenant.
func (m *Memory) GetTeam(_ context.Context, tenantID, teamID string) (*entities.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[teamID]
	if !ok || t.TenantID != tenantID {
		return nil, entities.ErrTeamNotFound
	}
	out := t.Clone()
	return &out, nil
}

// ListTeams returns teams ordered by creation time. VisibleTo restricts to
// teams the user created, manages or belongs to.
func (m *Memory) ListTeams(_ context.Context, tenantID string, filter entities.TeamFilter) ([]entities.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entities.Team, 0)
	for _, t := range m.teams {
		if t.TenantID != tenantID {
			continue
		}
		if v := filter.VisibleTo; v != "" && t.CreatedBy != v && !t.HasMember(v) && !t.HasManager(v) {
			continue
		}
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return page(out, filter.Offset, filter.Limit), nil
}

// SaveTeam replaces a team document.
func (m *Memory) SaveTeam(_ context.Context, team entities.Team) (*entities.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.teams[team.ID]; !ok || t.TenantID != team.TenantID {
		return nil, entities.ErrTeamNotFound
	}
	m.teams[team.ID] = team.Clone()
	out := team.Clone()
	return &out, nil
}

// DeleteTeam removes a team. Tasks that reference it are left untouched.
func (m *Memory) DeleteTeam(_ context.Context, tenantID, teamID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.teams[teamID]; !ok || t.TenantID != tenantID {
		return entities.ErrTeamNotFound
	}
	delete(m.teams, teamID)
	return nil
}

// TeamIDsForMember returns the teams userID belongs to.
func (m *Memory) TeamIDsForMember(_ context.Context, tenantID, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0)
	for _, t := range m.teams {
		if t.TenantID == tenantID && t.HasMember(userID) {
			out = append(out, t.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// TeamMemberIDs returns a team's members; a missing team has none.
func (m *Memory) TeamMemberIDs(_ context.Context, tenantID, teamID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.teams[teamID]
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	return append([]string(nil), t.MemberIDs...), nil
}

// CreateTask stores a new task.
func (m *Memory) CreateTask(_ context.Context, task entities.Task) (*entities.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tasks[task.ID] = task.Clone()
	out := task.Clone()
	return &out, nil
}

// GetTask fetches a task of the tenant.
func (m *Memory) GetTask(_ context.Context, tenantID, taskID string) (*entities.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tasks[taskID]
	if !ok || t.TenantID != tenantID {
		return nil, entities.ErrTaskNotFound
	}
	out := t.Clone()
	return &out, nil
}

// ListTasks returns matching tasks, newest first, and the total match count.
func (m *Memory) ListTasks(_ context.Context, tenantID string, filter entities.TaskFilter) ([]entities.Task, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entities.Task, 0)
	for _, t := range m.tasks {
		if t.TenantID != tenantID || !inScope(t, filter.Scope) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, t.Status) {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	total := int64(len(out))
	return page(out, filter.Offset, filter.Limit), total, nil
}

// SaveTask replaces a task document.
func (m *Memory) SaveTask(_ context.Context, task entities.Task) (*entities.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tasks[task.ID]; !ok || t.TenantID != task.TenantID {
		return nil, entities.ErrTaskNotFound
	}
	m.tasks[task.ID] = task.Clone()
	out := task.Clone()
	return &out, nil
}

// DeleteTask removes a task and its comments.
func (m *Memory) DeleteTask(_ context.Context, tenantID, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tasks[taskID]; !ok || t.TenantID != tenantID {
		return entities.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	for id, c := range m.comments {
		if c.TaskID == taskID {
			delete(m.comments, id)
		}
	}
	return nil
}

// ReachableTaskIDs returns tasks assigned to userID or to one of teamIDs.
func (m *Memory) ReachableTaskIDs(_ context.Context, tenantID, userID string, teamIDs []string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0)
	for _, t := range m.tasks {
		if t.TenantID != tenantID {
			continue
		}
		if t.HasAssignee(userID) || (t.TeamID != "" && entities.Contains(teamIDs, t.TeamID)) {
			out = append(out, t.ID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// CountTasksByPriority counts in-scope tasks per priority.
func (m *Memory) CountTasksByPriority(_ context.Context, tenantID string, scope *entities.Scope) (entities.PriorityStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var stats entities.PriorityStats
	for _, t := range m.tasks {
		if t.TenantID != tenantID || !inScope(t, scope) {
			continue
		}
		switch t.Priority {
		case entities.PriorityLow:
			stats.Low++
		case entities.PriorityMedium:
			stats.Medium++
		case entities.PriorityHigh:
			stats.High++
		}
	}
	return stats, nil
}

// CreateComment stores a comment.
func (m *Memory) CreateComment(_ context.Context, c entities.Comment) (*entities.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.comments[c.ID] = c
	return &c, nil
}

// GetComment fetches a comment of the tenant.
func (m *Memory) GetComment(_ context.Context, tenantID, commentID string) (*entities.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.comments[commentID]
	if !ok || c.TenantID != tenantID {
		return nil, entities.ErrCommentNotFound
	}
	return &c, nil
}

// ListComments returns a task's comments created after since, oldest first.
func (m *Memory) ListComments(_ context.Context, tenantID, taskID string, since time.Time) ([]entities.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]entities.Comment, 0)
	for _, c := range m.comments {
		if c.TenantID == tenantID && c.TaskID == taskID && c.CreatedAt.After(since) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// DeleteComment removes a comment.
func (m *Memory) DeleteComment(_ context.Context, tenantID, commentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.comments[commentID]
	if !ok || c.TenantID != tenantID {
		return entities.ErrCommentNotFound
	}
	delete(m.comments, commentID)
	return nil
}

// AppendCapped delegates to the capped in-memory activity store.
func (m *Memory) AppendCapped(ctx context.Context, entry entities.ActivityLogEntry, size int, limits audit.Limits) error {
	return m.activity.AppendCapped(ctx, entry, size, limits)
}

// RecentActivity delegates to the capped in-memory activity store.
func (m *Memory) RecentActivity(ctx context.Context, tenantID string, limit int) ([]entities.ActivityLogEntry, error) {
	return m.activity.RecentActivity(ctx, tenantID, limit)
}

func inScope(t entities.Task, scope *entities.Scope) bool {
	if scope == nil {
		return true
	}
	if t.CreatedBy == scope.UserID || t.HasAssignee(scope.UserID) {
		return true
	}
	return t.TeamID != "" && entities.Contains(scope.TeamIDs, t.TeamID)
}

func containsStatus(list []entities.TaskStatus, s entities.TaskStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func page[T any](list []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return list[:0]
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
