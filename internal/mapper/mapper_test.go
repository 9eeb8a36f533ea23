package mapper

import (
	"testing"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	oapi "github.com/Sahil-1827/task-management-system-backend/internal/oapi"

	"github.com/stretchr/testify/require"
)

func TestToOAPITaskTeamAndAssignees(t *testing.T) {
	teamTask := ToOAPITask(entities.Task{ID: "t1", TeamID: "team-1"})
	require.NotNil(t, teamTask.Team)
	require.Equal(t, "team-1", *teamTask.Team)
	require.Equal(t, []string{}, teamTask.Assignees)

	dangling := ToOAPITask(entities.Task{ID: "t2", AssigneeIDs: []string{"u1"}})
	require.Nil(t, dangling.Team)
	require.Equal(t, []string{"u1"}, dangling.Assignees)
}

func TestFromOAPIUpdateTaskKeepsAbsentFields(t *testing.T) {
	status := "Done"
	delta := FromOAPIUpdateTask(oapi.UpdateTaskJSONRequestBody{Status: &status})

	require.Equal(t, []string{entities.FieldStatus}, delta.Fields())
	require.Equal(t, entities.StatusDone, *delta.Status)
}

func TestFromOAPIUpdateTaskClearsTeam(t *testing.T) {
	empty := ""
	assignees := []string{"u1"}
	delta := FromOAPIUpdateTask(oapi.UpdateTaskJSONRequestBody{Team: &empty, Assignees: &assignees})

	out := delta.Apply(entities.Task{TeamID: "team-1"})
	require.Empty(t, out.TeamID)
	require.Equal(t, []string{"u1"}, out.AssigneeIDs)
}

func TestFromOAPIListTasks(t *testing.T) {
	filter := FromOAPIListTasks(oapi.ListTasksParams{Status: "In Progress", Priority: "High", Limit: 5, Offset: 10})

	require.Equal(t, []entities.TaskStatus{entities.StatusInProgress}, filter.Statuses)
	require.Equal(t, entities.PriorityHigh, filter.Priority)
	require.Equal(t, 5, filter.Limit)
	require.Equal(t, 10, filter.Offset)
	require.Nil(t, filter.Scope)
}

func TestToOAPICommentReplyTo(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := ToOAPIComment(entities.Comment{ID: "c2", TaskID: "t1", AuthorID: "u1", ReplyTo: "c1", CreatedAt: at})

	require.NotNil(t, c.ReplyTo)
	require.Equal(t, "c1", *c.ReplyTo)
	require.Equal(t, at, c.CreatedAt)
	require.Nil(t, ToOAPIComment(entities.Comment{ID: "c1"}).ReplyTo)
}

func TestToOAPIActivityOmitsTenant(t *testing.T) {
	out := ToOAPIActivity([]entities.ActivityLogEntry{{
		ID: "a1", Action: entities.ActionAssign, Entity: entities.EntityTask,
		EntityID: "t1", PerformedBy: "u1", TenantID: "acme", Details: "x",
	}})

	require.Len(t, out, 1)
	require.Equal(t, "assign", out[0].Action)
	require.Equal(t, "task", out[0].Entity)
	require.Equal(t, "t1", out[0].EntityId)
}
