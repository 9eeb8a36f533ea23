package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/authz"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

const maxCommentLength = 2000

// AddComment attaches a comment to a task the actor can reach.
func (u *Usecase) AddComment(ctx context.Context, actor entities.Actor, comment entities.Comment) (*entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	comment.Text = strings.TrimSpace(comment.Text)
	if comment.Text == "" || len(comment.Text) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment text must be 1-%d characters", entities.ErrInvalidArgument, maxCommentLength)
	}
	if comment.TaskID == "" {
		return nil, fmt.Errorf("%w: task id is required", entities.ErrInvalidArgument)
	}

	task, err := u.repo.GetTask(ctx, actor.TenantID, comment.TaskID)
	if err != nil {
		return nil, u.persistErr("get task", err)
	}
	facts, _, err := u.taskFacts(ctx, actor, *task)
	if err != nil {
		return nil, err
	}
	if err := u.authorize(actor, authz.ActionCreate, authz.ResourceComment, facts, nil); err != nil {
		return nil, err
	}
	if comment.ReplyTo != "" {
		parent, err := u.repo.GetComment(ctx, actor.TenantID, comment.ReplyTo)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: reply target does not exist", entities.ErrInvalidArgument)
			}
			return nil, u.persistErr("get comment", err)
		}
		if parent.TaskID != task.ID {
			return nil, fmt.Errorf("%w: reply target belongs to another task", entities.ErrInvalidArgument)
		}
	}

	comment.ID = u.newID()
	comment.TenantID = actor.TenantID
	comment.AuthorID = actor.ID
	comment.IsPinned = false
	comment.CreatedAt = u.now()

	created, err := u.repo.CreateComment(ctx, comment)
	if err != nil {
		return nil, u.persistErr("create comment", err)
	}

	ev := commentEvent(actor, entities.EventCommentAdded, *task, *created,
		fmt.Sprintf("%s commented on task %q", actor.DisplayName(), task.Title))
	u.record(ctx, actor, nil, []entities.Event{ev})
	return created, nil
}

// ListComments returns the live comments of a task the actor can see.
func (u *Usecase) ListComments(ctx context.Context, actor entities.Actor, taskID string) ([]entities.Comment, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	if _, err := u.readableTask(ctx, actor, taskID); err != nil {
		return nil, err
	}

	var since time.Time
	if u.commentTTL > 0 {
		since = u.now().Add(-u.commentTTL)
	}
	comments, err := u.repo.ListComments(ctx, actor.TenantID, taskID, since)
	if err != nil {
		return nil, u.persistErr("list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Authors may delete their own; managers and
// admins may delete any.
func (u *Usecase) DeleteComment(ctx context.Context, actor entities.Actor, commentID string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return err
	}
	if commentID == "" {
		return fmt.Errorf("%w: comment id is required", entities.ErrInvalidArgument)
	}

	comment, err := u.repo.GetComment(ctx, actor.TenantID, commentID)
	if err != nil {
		return u.persistErr("get comment", err)
	}
	facts := authz.Facts{IsCreator: comment.AuthorID == actor.ID}
	if err := u.authorize(actor, authz.ActionDelete, authz.ResourceComment, facts, nil); err != nil {
		return err
	}
	if err := u.repo.DeleteComment(ctx, actor.TenantID, commentID); err != nil {
		return u.persistErr("delete comment", err)
	}

	task, err := u.repo.GetTask(ctx, actor.TenantID, comment.TaskID)
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			u.log.Errorw("failed to load task for comment event", "task_id", comment.TaskID, "error", err)
		}
		return nil
	}
	ev := commentEvent(actor, entities.EventCommentDeleted, *task, *comment,
		fmt.Sprintf("%s deleted a comment on task %q", actor.DisplayName(), task.Title))
	u.record(ctx, actor, nil, []entities.Event{ev})
	return nil
}
