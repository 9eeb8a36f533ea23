package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedReach struct {
	reach Reach
	calls int
}

func (f *fixedReach) Reach(_ context.Context, _ entities.Actor) (Reach, error) {
	f.calls++
	return f.reach, nil
}

func newTestLog(t *testing.T, reach ReachResolver) (*Log, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	tick := 0
	l := NewLog(zap.NewNop().Sugar(), store, reach, DefaultLimits()).WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	})
	return l, store
}

var admin = entities.Actor{ID: "admin", Role: entities.RoleAdmin, TenantID: "t1"}

func TestAppendEvictsOldestBeyondCap(t *testing.T) {
	l, store := newTestLog(t, &fixedReach{})
	ctx := context.Background()

	var first entities.ActivityLogEntry
	for i := 0; i < 26; i++ {
		e, err := l.Append(ctx, admin, entities.ActivityLogEntry{
			Action:   entities.ActionCreate,
			Entity:   entities.EntityTask,
			EntityID: fmt.Sprintf("task-%d", i),
			Details:  fmt.Sprintf("Task %d was created", i),
		})
		require.NoError(t, err)
		if i == 0 {
			first = e
		}
	}

	got, err := l.Query(ctx, admin, 100)
	require.NoError(t, err)
	require.Len(t, got, 25)
	for _, e := range got {
		require.NotEqual(t, first.ID, e.ID)
	}
	require.Equal(t, "task-25", got[0].EntityID)
	require.Equal(t, "task-1", got[24].EntityID)
	require.Equal(t, uint64(1), store.Evicted("t1"))
}

func TestAppendStampsEntry(t *testing.T) {
	l, _ := newTestLog(t, &fixedReach{})

	e, err := l.Append(context.Background(), admin, entities.ActivityLogEntry{
		Action:      entities.ActionDelete,
		Entity:      entities.EntityTeam,
		EntityID:    "g",
		TenantID:    "spoofed",
		PerformedBy: "spoofed",
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Equal(t, "t1", e.TenantID)
	require.Equal(t, "admin", e.PerformedBy)
	require.False(t, e.CreatedAt.IsZero())
}

func TestAppendRejectsOversizeEntry(t *testing.T) {
	l, _ := newTestLog(t, &fixedReach{})

	_, err := l.Append(context.Background(), admin, entities.ActivityLogEntry{
		Action:  entities.ActionUpdate,
		Entity:  entities.EntityTask,
		Details: strings.Repeat("x", DefaultMaxBytes),
	})
	require.ErrorIs(t, err, entities.ErrEntryTooLarge)
}

func TestByteBudgetEvicts(t *testing.T) {
	store := NewMemoryStore()
	l := NewLog(zap.NewNop().Sugar(), store, &fixedReach{}, Limits{MaxEntries: 100, MaxBytes: 1024})
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		_, err := l.Append(ctx, admin, entities.ActivityLogEntry{
			Action:   entities.ActionUpdate,
			Entity:   entities.EntityTask,
			EntityID: fmt.Sprintf("task-%d", i),
			Details:  strings.Repeat("d", 100),
		})
		require.NoError(t, err)
	}

	got, err := store.RecentActivity(ctx, "t1", 0)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	require.Less(t, len(got), 20)

	total := 0
	for _, e := range got {
		size, err := EntrySize(e)
		require.NoError(t, err)
		total += size
	}
	require.LessOrEqual(t, total, 1024)
	require.Equal(t, "task-19", got[0].EntityID)
}

func TestTenantsAreIsolated(t *testing.T) {
	l, _ := newTestLog(t, &fixedReach{})
	ctx := context.Background()
	other := entities.Actor{ID: "admin2", Role: entities.RoleAdmin, TenantID: "t2"}

	for i := 0; i < 30; i++ {
		_, err := l.Append(ctx, admin, entities.ActivityLogEntry{Action: entities.ActionCreate, Entity: entities.EntityTask, EntityID: "x"})
		require.NoError(t, err)
	}
	_, err := l.Append(ctx, other, entities.ActivityLogEntry{Action: entities.ActionCreate, Entity: entities.EntityTask, EntityID: "y"})
	require.NoError(t, err)

	got, err := l.Query(ctx, other, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "y", got[0].EntityID)
}

func TestConcurrentAppendsStayBounded(t *testing.T) {
	l, store := newTestLog(t, &fixedReach{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Append(ctx, admin, entities.ActivityLogEntry{
				Action:   entities.ActionCreate,
				Entity:   entities.EntityTask,
				EntityID: fmt.Sprintf("task-%d", i),
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.RecentActivity(ctx, "t1", 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultMaxEntries)
	require.Equal(t, uint64(200-DefaultMaxEntries), store.Evicted("t1"))
}

func TestQueryVisibilityForNonAdmins(t *testing.T) {
	reach := &fixedReach{reach: NewReach([]string{"task-mine"}, []string{"team-mine"})}
	l, _ := newTestLog(t, reach)
	ctx := context.Background()

	for _, e := range []entities.ActivityLogEntry{
		{Action: entities.ActionCreate, Entity: entities.EntityTask, EntityID: "task-mine"},
		{Action: entities.ActionCreate, Entity: entities.EntityTask, EntityID: "task-other"},
		{Action: entities.ActionUpdate, Entity: entities.EntityTeam, EntityID: "team-mine"},
		{Action: entities.ActionUpdate, Entity: entities.EntityTeam, EntityID: "team-other"},
		{Action: entities.ActionAssign, Entity: entities.EntityUser, EntityID: "u1"},
		{Action: entities.ActionAssign, Entity: entities.EntityUser, EntityID: "u2"},
	} {
		_, err := l.Append(ctx, admin, e)
		require.NoError(t, err)
	}
	u1 := entities.Actor{ID: "u1", Role: entities.RoleUser, TenantID: "t1"}
	_, err := l.Append(ctx, u1, entities.ActivityLogEntry{Action: entities.ActionStatus, Entity: entities.EntityTask, EntityID: "task-gone"})
	require.NoError(t, err)

	got, err := l.Query(ctx, u1, 0)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, e := range got {
		ids = append(ids, e.EntityID)
	}
	require.Equal(t, []string{"task-gone", "u1", "team-mine", "task-mine"}, ids)
	require.Equal(t, 1, reach.calls)

	all, err := l.Query(ctx, admin, 0)
	require.NoError(t, err)
	require.Len(t, all, 7)
	require.Equal(t, 1, reach.calls)
}

func TestQueryLimit(t *testing.T) {
	l, _ := newTestLog(t, &fixedReach{})
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := l.Append(ctx, admin, entities.ActivityLogEntry{Action: entities.ActionCreate, Entity: entities.EntityTask, EntityID: fmt.Sprint(i)})
		require.NoError(t, err)
	}

	got, err := l.Query(ctx, admin, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "9", got[0].EntityID)
}

func TestVisibleRejectsForeignTenant(t *testing.T) {
	e := entities.ActivityLogEntry{TenantID: "t2", PerformedBy: "admin", Entity: entities.EntityTask}
	require.False(t, Visible(admin, Reach{}, e))
}
