package domain

import (
	"context"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
)

// ActivityLog returns the most recent activity entries visible to the actor.
func (u *Usecase) ActivityLog(ctx context.Context, actor entities.Actor, limit int) ([]entities.ActivityLogEntry, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := checkActor(actor); err != nil {
		return nil, err
	}
	entries, err := u.auditor.Query(ctx, actor, limit)
	if err != nil {
		return nil, u.persistErr("query activity", err)
	}
	return entries, nil
}
