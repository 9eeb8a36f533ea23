package postgres

import (
	"context"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/audit"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	// Appends for one tenant serialize on a transaction-scoped advisory lock,
	// so insert-then-trim is atomic per tenant.
	lockTenantActivityQuery = `SELECT pg_advisory_xact_lock(hashtext('activity_logs'), hashtext($1))`
	insertActivityQuery     = `
INSERT INTO activity_logs(id, tenant_id, action, entity, entity_id, performed_by, details, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	// The newest entry is always kept; older ones go once either the running
	// count or the running byte total crosses its bound.
	trimActivityQuery = `
DELETE FROM activity_logs WHERE seq IN (
    SELECT seq FROM (
        SELECT seq,
            ROW_NUMBER() OVER (ORDER BY seq DESC) AS rn,
            SUM(size_bytes) OVER (ORDER BY seq DESC ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) AS running
        FROM activity_logs WHERE tenant_id=$1
    ) ranked
    WHERE rn > 1 AND (rn > $2 OR running > $3)
)`
	recentActivityQuery = `
SELECT id, tenant_id, action, entity, entity_id, performed_by, details, created_at
FROM activity_logs WHERE tenant_id=$1 ORDER BY seq DESC LIMIT $2`
)

// AppendCapped inserts entry and trims the tenant's log to limits in one transaction.
func (p *Postgres) AppendCapped(ctx context.Context, entry entities.ActivityLogEntry, size int, limits audit.Limits) error {
	var evicted int64
	err := p.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, lockTenantActivityQuery, entry.TenantID); err != nil {
			return fmt.Errorf("lock tenant log: %w", err)
		}
		if _, err := tx.Exec(ctx, insertActivityQuery,
			entry.ID, entry.TenantID, entry.Action, entry.Entity, entry.EntityID,
			entry.PerformedBy, entry.Details, size, entry.CreatedAt); err != nil {
			return fmt.Errorf("insert activity: %w", err)
		}
		tag, err := tx.Exec(ctx, trimActivityQuery, entry.TenantID, limits.MaxEntries, limits.MaxBytes)
		if err != nil {
			return fmt.Errorf("trim activity: %w", err)
		}
		evicted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		p.log.Errorw("failed to append activity", "error", err, "tenant_id", entry.TenantID)
		return err
	}
	if evicted > 0 {
		p.log.Debugw("activity evicted", "tenant_id", entry.TenantID, "evicted", evicted)
	}
	return nil
}

// RecentActivity returns up to limit entries of the tenant, newest first.
func (p *Postgres) RecentActivity(ctx context.Context, tenantID string, limit int) ([]entities.ActivityLogEntry, error) {
	rows, err := p.db.Query(ctx, recentActivityQuery, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	out := make([]entities.ActivityLogEntry, 0)
	for rows.Next() {
		var e entities.ActivityLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Action, &e.Entity, &e.EntityID, &e.PerformedBy, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return out, nil
}
