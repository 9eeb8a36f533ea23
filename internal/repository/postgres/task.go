package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	taskColumns = `
t.id, t.tenant_id, t.title, t.description, t.status, t.priority, t.due_date, t.team_id,
t.created_by, t.created_at, t.updated_at,
ARRAY(SELECT a.user_id FROM task_assignees a WHERE a.task_id = t.id ORDER BY a.position)`
	insertTaskQuery = `
INSERT INTO tasks(id, tenant_id, title, description, status, priority, due_date, team_id, created_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	updateTaskQuery = `
UPDATE tasks SET title=$3, description=$4, status=$5, priority=$6, due_date=$7, team_id=$8, updated_at=$9
WHERE tenant_id=$1 AND id=$2`
	selectTaskQuery       = `SELECT` + taskColumns + ` FROM tasks t WHERE t.tenant_id=$1 AND t.id=$2`
	deleteTaskQuery       = `DELETE FROM tasks WHERE tenant_id=$1 AND id=$2`
	reachableTaskIDsQuery = `
SELECT t.id FROM tasks t
WHERE t.tenant_id=$1 AND (
    EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id=$2)
    OR (t.team_id <> '' AND t.team_id = ANY($3::text[])))
ORDER BY t.id`
)

// CreateTask inserts a task with its assignees.
func (p *Postgres) CreateTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, insertTaskQuery,
			task.ID, task.TenantID, task.Title, task.Description, task.Status, task.Priority,
			task.DueDate, task.TeamID, task.CreatedBy, task.CreatedAt, task.UpdatedAt); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return replaceIDs(ctx, tx, "task_assignees", "task_id", task.ID, task.AssigneeIDs)
	})
	if err != nil {
		p.log.Errorw("failed to create task", "error", err, "task_id", task.ID)
		return nil, err
	}

	p.log.Infow("task created", "tenant_id", task.TenantID, "task_id", task.ID)
	out := task.Clone()
	return &out, nil
}

// GetTask fetches a task with its assignees.
func (p *Postgres) GetTask(ctx context.Context, tenantID, taskID string) (*entities.Task, error) {
	t, err := scanTask(p.db.QueryRow(ctx, selectTaskQuery, tenantID, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns matching tasks newest first and the total match count.
func (p *Postgres) ListTasks(ctx context.Context, tenantID string, filter entities.TaskFilter) ([]entities.Task, int64, error) {
	where, args := buildTaskFilter(tenantID, filter.Scope, filter.Statuses, filter.Priority)

	var total int64
	if err := p.db.QueryRow(ctx, "SELECT COUNT(*) FROM tasks t "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := "SELECT" + taskColumns + " FROM tasks t " + where + " ORDER BY t.created_at DESC, t.id DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]entities.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, total, nil
}

// SaveTask replaces the task row and its assignees in one transaction.
func (p *Postgres) SaveTask(ctx context.Context, task entities.Task) (*entities.Task, error) {
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, updateTaskQuery, task.TenantID, task.ID, task.Title, task.Description,
			task.Status, task.Priority, task.DueDate, task.TeamID, task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return entities.ErrTaskNotFound
		}
		return replaceIDs(ctx, tx, "task_assignees", "task_id", task.ID, task.AssigneeIDs)
	})
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			p.log.Errorw("failed to save task", "error", err, "task_id", task.ID)
		}
		return nil, err
	}

	p.log.Infow("task saved", "tenant_id", task.TenantID, "task_id", task.ID)
	out := task.Clone()
	return &out, nil
}

// DeleteTask removes a task; assignees and comments cascade.
func (p *Postgres) DeleteTask(ctx context.Context, tenantID, taskID string) error {
	tag, err := p.db.Exec(ctx, deleteTaskQuery, tenantID, taskID)
	if err != nil {
		p.log.Errorw("failed to delete task", "error", err, "task_id", taskID)
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrTaskNotFound
	}

	p.log.Infow("task deleted", "tenant_id", tenantID, "task_id", taskID)
	return nil
}

// ReachableTaskIDs returns tasks assigned to userID or to one of teamIDs.
func (p *Postgres) ReachableTaskIDs(ctx context.Context, tenantID, userID string, teamIDs []string) ([]string, error) {
	if teamIDs == nil {
		teamIDs = []string{}
	}
	return p.queryIDs(ctx, reachableTaskIDsQuery, tenantID, userID, teamIDs)
}

// CountTasksByPriority counts in-scope tasks per priority.
func (p *Postgres) CountTasksByPriority(ctx context.Context, tenantID string, scope *entities.Scope) (entities.PriorityStats, error) {
	var stats entities.PriorityStats
	where, args := buildTaskFilter(tenantID, scope, nil, "")

	rows, err := p.db.Query(ctx, "SELECT t.priority, COUNT(*) FROM tasks t "+where+" GROUP BY t.priority", args...)
	if err != nil {
		return stats, fmt.Errorf("count by priority: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var priority entities.TaskPriority
		var cnt int64
		if err := rows.Scan(&priority, &cnt); err != nil {
			return stats, fmt.Errorf("scan priority count: %w", err)
		}
		switch priority {
		case entities.PriorityLow:
			stats.Low = cnt
		case entities.PriorityMedium:
			stats.Medium = cnt
		case entities.PriorityHigh:
			stats.High = cnt
		}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate priority counts: %w", err)
	}
	return stats, nil
}

func buildTaskFilter(tenantID string, scope *entities.Scope, statuses []entities.TaskStatus, priority entities.TaskPriority) (string, []any) {
	conditions := []string{"t.tenant_id = $1"}
	args := []any{tenantID}
	idx := 2

	if scope != nil {
		teamIDs := scope.TeamIDs
		if teamIDs == nil {
			teamIDs = []string{}
		}
		conditions = append(conditions, fmt.Sprintf(
			"(t.created_by = $%d OR EXISTS (SELECT 1 FROM task_assignees a WHERE a.task_id = t.id AND a.user_id = $%d) OR (t.team_id <> '' AND t.team_id = ANY($%d::text[])))",
			idx, idx, idx+1))
		args = append(args, scope.UserID, teamIDs)
		idx += 2
	}
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		conditions = append(conditions, "t.status = ANY($"+strconv.Itoa(idx)+"::text[])")
		args = append(args, values)
		idx++
	}
	if priority != "" {
		conditions = append(conditions, "t.priority = $"+strconv.Itoa(idx))
		args = append(args, string(priority))
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanTask(row pgx.Row) (*entities.Task, error) {
	var t entities.Task
	if err := row.Scan(&t.ID, &t.TenantID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.TeamID,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt, &t.AssigneeIDs); err != nil {
		return nil, err
	}
	return &t, nil
}
