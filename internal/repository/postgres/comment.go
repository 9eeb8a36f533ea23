package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertCommentQuery = `
INSERT INTO comments(id, tenant_id, task_id, author_id, text, reply_to, is_pinned, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	selectCommentQuery = `
SELECT id, tenant_id, task_id, author_id, text, reply_to, is_pinned, created_at
FROM comments WHERE tenant_id=$1 AND id=$2`
	listCommentsQuery = `
SELECT id, tenant_id, task_id, author_id, text, reply_to, is_pinned, created_at
FROM comments WHERE tenant_id=$1 AND task_id=$2 AND created_at > $3
ORDER BY created_at, id`
	deleteCommentQuery = `DELETE FROM comments WHERE tenant_id=$1 AND id=$2`
)

// CreateComment inserts a comment.
func (p *Postgres) CreateComment(ctx context.Context, c entities.Comment) (*entities.Comment, error) {
	if _, err := p.db.Exec(ctx, insertCommentQuery,
		c.ID, c.TenantID, c.TaskID, c.AuthorID, c.Text, c.ReplyTo, c.IsPinned, c.CreatedAt); err != nil {
		p.log.Errorw("failed to insert comment", "error", err, "task_id", c.TaskID)
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

// GetComment fetches a comment.
func (p *Postgres) GetComment(ctx context.Context, tenantID, commentID string) (*entities.Comment, error) {
	c, err := scanComment(p.db.QueryRow(ctx, selectCommentQuery, tenantID, commentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrCommentNotFound
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListComments returns comments of a task created after since, oldest first.
func (p *Postgres) ListComments(ctx context.Context, tenantID, taskID string, since time.Time) ([]entities.Comment, error) {
	rows, err := p.db.Query(ctx, listCommentsQuery, tenantID, taskID, since)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]entities.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// DeleteComment removes a comment.
func (p *Postgres) DeleteComment(ctx context.Context, tenantID, commentID string) error {
	tag, err := p.db.Exec(ctx, deleteCommentQuery, tenantID, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrCommentNotFound
	}
	return nil
}

func scanComment(row pgx.Row) (*entities.Comment, error) {
	var c entities.Comment
	if err := row.Scan(&c.ID, &c.TenantID, &c.TaskID, &c.AuthorID, &c.Text, &c.ReplyTo, &c.IsPinned, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
