package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	"github.com/Sahil-1827/task-management-system-backend/internal/presence"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticDirectory struct {
	teams map[string][]string
	staff []string
	err   error
}

func (d staticDirectory) TeamMemberIDs(_ context.Context, _, teamID string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.teams[teamID], nil
}

func (d staticDirectory) StaffIDs(_ context.Context, _ string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.staff, nil
}

func newTestDispatcher(dir Directory) (*Dispatcher, *presence.Registry, *Recorder) {
	reg := presence.NewRegistry()
	rec := NewRecorder()
	return NewDispatcher(zap.NewNop().Sugar(), dir, reg, rec), reg, rec
}

func recipients(notes []entities.Notification) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.RecipientID)
	}
	return out
}

func TestPlanRecipientRules(t *testing.T) {
	dir := staticDirectory{
		teams: map[string][]string{"g": {"m1", "m2", "actor"}},
		staff: []string{"admin", "mgr", "actor"},
	}
	d, _, _ := newTestDispatcher(dir)

	notes, err := d.Plan(context.Background(), []entities.Event{{
		Kind:        entities.EventTaskUpdated,
		TenantID:    "t1",
		ActorID:     "actor",
		Recipients:  []string{"explicit", "m1"},
		TeamID:      "g",
		NotifyStaff: true,
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"explicit", "m1", "m2", "admin", "mgr"}, recipients(notes))
}

func TestPlanWithoutStaffFlagSkipsStaff(t *testing.T) {
	d, _, _ := newTestDispatcher(staticDirectory{staff: []string{"admin"}})

	notes, err := d.Plan(context.Background(), []entities.Event{{
		Kind:       entities.EventCommentAdded,
		ActorID:    "actor",
		Recipients: []string{"u1"},
	}})
	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, recipients(notes))
}

func TestPlanKeepsEventOrderPerRecipient(t *testing.T) {
	d, _, _ := newTestDispatcher(staticDirectory{})

	notes, err := d.Plan(context.Background(), []entities.Event{
		{Kind: entities.EventTaskUnassigned, Recipients: []string{"u1"}},
		{Kind: entities.EventTaskAssigned, Recipients: []string{"u1"}},
		{Kind: entities.EventTaskUpdated, Recipients: []string{"u1"}},
	})
	require.NoError(t, err)
	require.Len(t, notes, 3)
	require.Equal(t, entities.EventTaskUnassigned, notes[0].Kind)
	require.Equal(t, entities.EventTaskAssigned, notes[1].Kind)
	require.Equal(t, entities.EventTaskUpdated, notes[2].Kind)
}

func TestPlanDirectoryError(t *testing.T) {
	boom := errors.New("boom")
	d, _, _ := newTestDispatcher(staticDirectory{err: boom})

	_, err := d.Plan(context.Background(), []entities.Event{{Kind: entities.EventTaskUpdated, TeamID: "g"}})
	require.ErrorIs(t, err, boom)
}

type flakyTeamDirectory struct {
	staticDirectory
	failing string
	err     error
}

func (d flakyTeamDirectory) TeamMemberIDs(ctx context.Context, tenantID, teamID string) ([]string, error) {
	if teamID == d.failing {
		return nil, d.err
	}
	return d.staticDirectory.TeamMemberIDs(ctx, tenantID, teamID)
}

func TestPlanContinuesAfterLookupError(t *testing.T) {
	down := errors.New("directory down")
	d, _, _ := newTestDispatcher(flakyTeamDirectory{
		staticDirectory: staticDirectory{teams: map[string][]string{"new": {"m1"}}},
		failing:         "old",
		err:             down,
	})

	notes, err := d.Plan(context.Background(), []entities.Event{
		{Kind: entities.EventTaskUnassigned, TeamID: "old", Recipients: []string{"u1"}},
		{Kind: entities.EventTaskAssigned, Recipients: []string{"u2"}},
		{Kind: entities.EventTaskAssignedToTeam, TeamID: "new"},
	})
	require.ErrorIs(t, err, down)
	require.Equal(t, []string{"u1", "u2", "m1"}, recipients(notes))
}

func TestFanoutDeliversPastFailedTeamLookup(t *testing.T) {
	down := errors.New("directory down")
	d, reg, rec := newTestDispatcher(flakyTeamDirectory{failing: "old", err: down})
	reg.Register("u2", "c2")

	rep, err := d.Fanout(context.Background(),
		entities.Event{Kind: entities.EventTaskUnassigned, TeamID: "old"},
		entities.Event{Kind: entities.EventTaskAssigned, Recipients: []string{"u2"}},
	)
	require.ErrorIs(t, err, down)
	require.Equal(t, 1, rep.Delivered)
	require.Equal(t, []entities.EventKind{entities.EventTaskAssigned}, rec.KindsFor("c2"))
}

func TestDeliverToEveryChannel(t *testing.T) {
	d, reg, rec := newTestDispatcher(staticDirectory{})
	reg.Register("u1", "c1")
	reg.Register("u1", "c2")

	rep := d.Deliver(context.Background(), []entities.Notification{{
		RecipientID: "u1",
		Kind:        entities.EventTaskAssigned,
		Payload:     entities.EventPayload{Message: "hi"},
	}})
	require.Equal(t, Report{Delivered: 2}, rep)
	require.Equal(t, []entities.EventKind{entities.EventTaskAssigned}, rec.KindsFor("c1"))
	require.Equal(t, []entities.EventKind{entities.EventTaskAssigned}, rec.KindsFor("c2"))
}

func TestDeliverOfflineRecipientDoesNotBlock(t *testing.T) {
	d, _, rec := newTestDispatcher(staticDirectory{})

	done := make(chan Report, 1)
	go func() {
		done <- d.Deliver(context.Background(), []entities.Notification{{RecipientID: "offline", Kind: entities.EventTaskUpdated}})
	}()

	select {
	case rep := <-done:
		require.Equal(t, Report{Offline: 1}, rep)
	case <-time.After(time.Second):
		t.Fatal("deliver blocked on offline recipient")
	}
	require.Empty(t, rec.Sent())
}

func TestDeliverCountsTransportFailures(t *testing.T) {
	d, reg, rec := newTestDispatcher(staticDirectory{})
	reg.Register("u1", "bad")
	reg.Register("u1", "good")
	rec.FailChannel("bad", errors.New("closed"))

	rep := d.Deliver(context.Background(), []entities.Notification{{RecipientID: "u1", Kind: entities.EventTeamUpdated}})
	require.Equal(t, Report{Delivered: 1, Failed: 1}, rep)
	require.Len(t, rec.Sent(), 1)
}

func TestFanoutExcludesActor(t *testing.T) {
	d, reg, rec := newTestDispatcher(staticDirectory{teams: map[string][]string{"g": {"actor", "m1"}}})
	reg.Register("actor", "ca")
	reg.Register("m1", "cm")

	rep, err := d.Fanout(context.Background(), entities.Event{
		Kind:    entities.EventTaskAssignedToTeam,
		ActorID: "actor",
		TeamID:  "g",
	})
	require.NoError(t, err)
	require.Equal(t, 1, rep.Delivered)
	require.Empty(t, rec.KindsFor("ca"))
	require.Equal(t, []entities.EventKind{entities.EventTaskAssignedToTeam}, rec.KindsFor("cm"))
}
