package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryTaskScopeAndReach(t *testing.T) {
	ctx := context.Background()
	m := New(zap.NewNop().Sugar())
	now := time.Now()

	_, err := m.CreateTeam(ctx, entities.Team{ID: "g", TenantID: "t1", Name: "core", MemberIDs: []string{"u1"}})
	require.NoError(t, err)

	for _, task := range []entities.Task{
		{ID: "a", TenantID: "t1", AssigneeIDs: []string{"u1"}, Priority: entities.PriorityHigh, CreatedAt: now},
		{ID: "b", TenantID: "t1", TeamID: "g", Priority: entities.PriorityLow, CreatedAt: now.Add(time.Second)},
		{ID: "c", TenantID: "t1", CreatedBy: "u2", Priority: entities.PriorityLow, CreatedAt: now.Add(2 * time.Second)},
		{ID: "d", TenantID: "t2", AssigneeIDs: []string{"u1"}, CreatedAt: now},
	} {
		_, err := m.CreateTask(ctx, task)
		require.NoError(t, err)
	}

	teams, err := m.TeamIDsForMember(ctx, "t1", "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"g"}, teams)

	ids, err := m.ReachableTaskIDs(ctx, "t1", "u1", teams)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, ids)

	list, total, err := m.ListTasks(ctx, "t1", entities.TaskFilter{Scope: &entities.Scope{UserID: "u1", TeamIDs: teams}})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "b", list[0].ID)

	stats, err := m.CountTasksByPriority(ctx, "t1", nil)
	require.NoError(t, err)
	require.Equal(t, entities.PriorityStats{Low: 2, High: 1}, stats)

	paged, total, err := m.ListTasks(ctx, "t1", entities.TaskFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, paged, 1)
	require.Equal(t, "b", paged[0].ID)
}

func TestMemoryDocumentsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := New(zap.NewNop().Sugar())

	team := entities.Team{ID: "g", TenantID: "t1", MemberIDs: []string{"u1"}}
	_, err := m.CreateTeam(ctx, team)
	require.NoError(t, err)
	team.MemberIDs[0] = "mutated"

	got, err := m.GetTeam(ctx, "t1", "g")
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, got.MemberIDs)

	_, err = m.GetTeam(ctx, "t2", "g")
	require.ErrorIs(t, err, entities.ErrTeamNotFound)
}

func TestMemoryDeleteTeamLeavesTaskReference(t *testing.T) {
	ctx := context.Background()
	m := New(zap.NewNop().Sugar())

	_, err := m.CreateTeam(ctx, entities.Team{ID: "g", TenantID: "t1"})
	require.NoError(t, err)
	_, err = m.CreateTask(ctx, entities.Task{ID: "a", TenantID: "t1", TeamID: "g"})
	require.NoError(t, err)
	require.NoError(t, m.DeleteTeam(ctx, "t1", "g"))

	task, err := m.GetTask(ctx, "t1", "a")
	require.NoError(t, err)
	require.Equal(t, "g", task.TeamID)

	members, err := m.TeamMemberIDs(ctx, "t1", "g")
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestMemoryUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	m := New(zap.NewNop().Sugar())

	_, err := m.CreateUser(ctx, entities.User{ID: "u1", TenantID: "t1", Email: "a@example.com"})
	require.NoError(t, err)
	_, err = m.CreateUser(ctx, entities.User{ID: "u2", TenantID: "t2", Email: "A@example.com"})
	require.ErrorIs(t, err, entities.ErrUserExists)
}

func TestMemorySaveUser(t *testing.T) {
	ctx := context.Background()
	m := New(zap.NewNop().Sugar())

	_, err := m.CreateUser(ctx, entities.User{ID: "u1", TenantID: "t1", Name: "Ann", Email: "ann@example.com", Role: entities.RoleUser})
	require.NoError(t, err)
	_, err = m.CreateUser(ctx, entities.User{ID: "u2", TenantID: "t1", Name: "Bo", Email: "bo@example.com", Role: entities.RoleUser})
	require.NoError(t, err)

	saved, err := m.SaveUser(ctx, entities.User{ID: "u1", TenantID: "t1", Name: "Anna", Email: "ann@example.com", Role: entities.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "Anna", saved.Name)
	require.Equal(t, entities.RoleUser, saved.Role)

	_, err = m.SaveUser(ctx, entities.User{ID: "u1", TenantID: "t1", Name: "Anna", Email: "BO@example.com"})
	require.ErrorIs(t, err, entities.ErrUserExists)

	_, err = m.SaveUser(ctx, entities.User{ID: "u1", TenantID: "t2", Name: "Anna", Email: "x@example.com"})
	require.ErrorIs(t, err, entities.ErrUserNotFound)
}
