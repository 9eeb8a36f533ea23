// Package audit keeps a bounded, tenant-scoped trail of recent mutations.
//
// Each tenant's store holds at most Limits.MaxEntries entries and
// Limits.MaxBytes encoded bytes; appends evict the oldest entries first.
// This is a recent-history log, not a compliance log.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Defaults mirror the capped collection the service has always used.
const (
	DefaultMaxEntries = 25
	DefaultMaxBytes   = 16384
)

// Limits bound one tenant's store.
type Limits struct {
	MaxEntries int
	MaxBytes   int
}

// DefaultLimits returns the default per-tenant bounds.
func DefaultLimits() Limits {
	return Limits{MaxEntries: DefaultMaxEntries, MaxBytes: DefaultMaxBytes}
}

// Store persists entries with an atomic insert-then-trim per tenant.
type Store interface {
	// AppendCapped inserts entry and evicts the tenant's oldest entries until
	// both limits hold, as a single atomic step with respect to other appends
	// for the same tenant.
	AppendCapped(ctx context.Context, entry entities.ActivityLogEntry, size int, limits Limits) error
	// RecentActivity returns up to limit entries of the tenant, newest first.
	RecentActivity(ctx context.Context, tenantID string, limit int) ([]entities.ActivityLogEntry, error)
}

// Log stamps, bounds and filters activity entries.
type Log struct {
	log    *zap.SugaredLogger
	store  Store
	reach  ReachResolver
	limits Limits
	clock  func() time.Time
	newID  func() string
}

// NewLog wires an audit log over store.
func NewLog(log *zap.SugaredLogger, store Store, reach ReachResolver, limits Limits) *Log {
	if limits.MaxEntries <= 0 {
		limits.MaxEntries = DefaultMaxEntries
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = DefaultMaxBytes
	}
	return &Log{
		log:    log.Named("audit"),
		store:  store,
		reach:  reach,
		limits: limits,
		clock:  time.Now,
		newID:  uuid.NewString,
	}
}

// WithClock replaces the timestamp source.
func (l *Log) WithClock(clock func() time.Time) *Log {
	l.clock = clock
	return l
}

// Limits returns the configured bounds.
func (l *Log) Limits() Limits { return l.limits }

// Append stamps entry with an id, the creation time, the actor's tenant and
// the performer, then writes it through the capped store.
func (l *Log) Append(ctx context.Context, actor entities.Actor, entry entities.ActivityLogEntry) (entities.ActivityLogEntry, error) {
	entry.ID = l.newID()
	entry.TenantID = actor.TenantID
	entry.PerformedBy = actor.ID
	entry.CreatedAt = l.clock().UTC()

	if entry.TenantID == "" {
		return entry, fmt.Errorf("%w: tenant is required", entities.ErrInvalidArgument)
	}

	size, err := EntrySize(entry)
	if err != nil {
		return entry, err
	}
	if size > l.limits.MaxBytes {
		return entry, fmt.Errorf("%w: %d bytes exceeds budget of %d", entities.ErrEntryTooLarge, size, l.limits.MaxBytes)
	}

	if err := l.store.AppendCapped(ctx, entry, size, l.limits); err != nil {
		return entry, fmt.Errorf("append activity: %w", err)
	}
	l.log.Debugw("activity appended", "tenant_id", entry.TenantID, "entity", entry.Entity, "entity_id", entry.EntityID, "action", entry.Action)
	return entry, nil
}

// Query returns up to limit entries visible to actor, most recent first.
// Visibility is evaluated against the actor's current relationships.
func (l *Log) Query(ctx context.Context, actor entities.Actor, limit int) ([]entities.ActivityLogEntry, error) {
	if limit <= 0 || limit > l.limits.MaxEntries {
		limit = l.limits.MaxEntries
	}

	all, err := l.store.RecentActivity(ctx, actor.TenantID, l.limits.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}

	var reach Reach
	if actor.Role != entities.RoleAdmin {
		reach, err = l.reach.Reach(ctx, actor)
		if err != nil {
			return nil, fmt.Errorf("resolve reach: %w", err)
		}
	}

	out := make([]entities.ActivityLogEntry, 0, limit)
	for _, e := range all {
		if !Visible(actor, reach, e) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// EntrySize is the byte size charged against the budget: the length of the
// entry's JSON encoding. Every store uses the same measure.
func EntrySize(entry entities.ActivityLogEntry) (int, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("encode activity: %w", err)
	}
	return len(raw), nil
}
