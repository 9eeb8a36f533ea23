// Package domain coordinates task, team, user and comment mutations: it
// validates the request, authorizes it, persists it, records it in the
// activity log and fans live notifications out to the affected users.
//
// Only the persistence outcome decides the result returned to the caller.
// Audit and notification failures are logged and swallowed.
package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sahil-1827/task-management-system-backend/internal/audit"
	"github.com/Sahil-1827/task-management-system-backend/internal/authz"
	"github.com/Sahil-1827/task-management-system-backend/internal/entities"
	"github.com/Sahil-1827/task-management-system-backend/internal/notify"
	"github.com/Sahil-1827/task-management-system-backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authorizer decides whether a mutation may proceed.
type Authorizer interface {
	Decide(req authz.Request) authz.Decision
}

// Auditor records and reads the bounded activity log.
type Auditor interface {
	Append(ctx context.Context, actor entities.Actor, entry entities.ActivityLogEntry) (entities.ActivityLogEntry, error)
	Query(ctx context.Context, actor entities.Actor, limit int) ([]entities.ActivityLogEntry, error)
}

// Notifier fans events out to online recipients.
type Notifier interface {
	Fanout(ctx context.Context, events ...entities.Event) (notify.Report, error)
}

// Usecase struct implements all usecase interfaces.
type Usecase struct {
	ctx     context.Context
	log     *zap.SugaredLogger
	repo    repository.Repository
	timeout time.Duration

	authorizer Authorizer
	auditor    Auditor
	notifier   Notifier
	async      bool
	commentTTL time.Duration
	clock      func() time.Time
	newID      func() string

	pending sync.WaitGroup
}

// Option customizes a Usecase.
type Option func(*Usecase)

// WithAuthorizer replaces the default policy engine.
func WithAuthorizer(a Authorizer) Option { return func(u *Usecase) { u.authorizer = a } }

// WithAuditor replaces the default repository-backed activity log.
func WithAuditor(a Auditor) Option { return func(u *Usecase) { u.auditor = a } }

// WithNotifier sets the live notification fan-out. Without one, events are dropped.
func WithNotifier(n Notifier) Option { return func(u *Usecase) { u.notifier = n } }

// WithAsyncNotify runs fan-out on a background goroutine after the mutation returns.
func WithAsyncNotify(async bool) Option { return func(u *Usecase) { u.async = async } }

// WithCommentTTL hides comments older than ttl. Zero keeps every comment visible.
func WithCommentTTL(ttl time.Duration) Option { return func(u *Usecase) { u.commentTTL = ttl } }

// WithClock replaces the time source used for document timestamps.
func WithClock(clock func() time.Time) Option { return func(u *Usecase) { u.clock = clock } }

// WithIDGenerator replaces the id source for new documents.
func WithIDGenerator(newID func() string) Option { return func(u *Usecase) { u.newID = newID } }

// New constructs a new usecase layer with its dependencies.
func New(
	log *zap.SugaredLogger,
	ctx context.Context,
	repo repository.Repository,
	timeout time.Duration,
	opts ...Option,
) *Usecase {
	u := &Usecase{
		ctx:        ctx,
		log:        log.Named("usecase"),
		repo:       repo,
		timeout:    timeout,
		authorizer: authz.NewEngine(),
		clock:      time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.auditor == nil {
		u.auditor = audit.NewLog(log, repo, audit.NewStoreReach(repo), audit.DefaultLimits())
	}
	return u
}

// Wait blocks until background notification fan-outs have finished.
func (u *Usecase) Wait() {
	u.pending.Wait()
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (u *Usecase) now() time.Time {
	return u.clock().UTC()
}

func checkActor(actor entities.Actor) error {
	if actor.ID == "" || actor.TenantID == "" || !actor.Role.Valid() {
		return fmt.Errorf("%w: incomplete actor identity", entities.ErrUnauthenticated)
	}
	return nil
}

func (u *Usecase) authorize(actor entities.Actor, action authz.Action, resource authz.Resource, facts authz.Facts, delta []string) error {
	decision := u.authorizer.Decide(authz.Request{
		Actor:    actor,
		Action:   action,
		Resource: resource,
		Facts:    facts,
		Delta:    delta,
	})
	if decision.Allowed {
		return nil
	}
	u.log.Infow("mutation denied",
		"tenant_id", actor.TenantID, "actor_id", actor.ID, "role", actor.Role,
		"action", action, "resource", resource, "reason", decision.Reason)
	return fmt.Errorf("%w: %s %s (%s)", entities.ErrForbidden, action, resource, decision.Reason)
}

// persistErr passes domain errors through and marks everything else as a
// store failure.
func (u *Usecase) persistErr(op string, err error) error {
	if errors.Is(err, entities.ErrNotFound) || errors.Is(err, entities.ErrUserExists) ||
		errors.Is(err, entities.ErrInvalidArgument) || errors.Is(err, entities.ErrPersistence) {
		return err
	}
	u.log.Errorw("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", entities.ErrPersistence, op, err)
}

// record appends the audit entries and then fans the events out. It runs on a
// context detached from the request so a disconnecting client cannot cut it
// short. Neither step can fail the mutation.
func (u *Usecase) record(ctx context.Context, actor entities.Actor, entries []entities.ActivityLogEntry, events []entities.Event) {
	detached := context.WithoutCancel(ctx)

	auditCtx, cancel := withTimeout(detached, u.timeout)
	for _, e := range entries {
		if _, err := u.auditor.Append(auditCtx, actor, e); err != nil {
			u.log.Errorw("activity append failed",
				"entity", e.Entity, "entity_id", e.EntityID, "tenant_id", actor.TenantID, "error", err)
		}
	}
	cancel()

	if u.notifier == nil || len(events) == 0 {
		return
	}
	if !u.async {
		u.fanout(detached, events)
		return
	}
	u.pending.Add(1)
	go func() {
		defer u.pending.Done()
		u.fanout(detached, events)
	}()
}

func (u *Usecase) fanout(ctx context.Context, events []entities.Event) {
	defer func() {
		if r := recover(); r != nil {
			u.log.Errorw("notification fanout panicked", "panic", r)
		}
	}()

	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	report, err := u.notifier.Fanout(ctx, events...)
	if err != nil {
		u.log.Errorw("notification fanout failed", "events", len(events), "error", err)
		return
	}
	u.log.Debugw("notifications sent",
		"events", len(events), "delivered", report.Delivered, "offline", report.Offline, "failed", report.Failed)
}

// loadTeam returns the team or nil when the reference is dangling.
func (u *Usecase) loadTeam(ctx context.Context, tenantID, teamID string) (*entities.Team, error) {
	if teamID == "" {
		return nil, nil
	}
	team, err := u.repo.GetTeam(ctx, tenantID, teamID)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, u.persistErr("get team", err)
	}
	return team, nil
}

// requireUsers checks that every id names a user of the tenant and returns
// them in input order.
func (u *Usecase) requireUsers(ctx context.Context, tenantID string, ids []string) ([]entities.User, error) {
	users := make([]entities.User, 0, len(ids))
	for _, id := range ids {
		user, err := u.repo.GetUser(ctx, tenantID, id)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", entities.ErrUserNotFound, id)
			}
			return nil, u.persistErr("get user", err)
		}
		users = append(users, *user)
	}
	return users, nil
}
