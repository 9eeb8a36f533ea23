// Package notify resolves domain events into per-recipient notifications and
// delivers them to whoever is online at fanout time.
//
// Delivery is at-most-once and best-effort. Offline recipients are skipped
// and nothing is queued for them; transport failures are counted and logged.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"go.uber.org/zap"
)

// Directory answers the relationship lookups needed to expand an event.
type Directory interface {
	TeamMemberIDs(ctx context.Context, tenantID, teamID string) ([]string, error)
	StaffIDs(ctx context.Context, tenantID string) ([]string, error)
}

// Presence exposes the channels currently open for a user.
type Presence interface {
	ChannelsFor(userID string) []string
}

// Transport emits a named event with a JSON-serializable payload to a channel.
type Transport interface {
	Emit(channelID string, kind entities.EventKind, payload any) error
}

// Report summarizes one delivery pass.
type Report struct {
	Delivered int
	Offline   int
	Failed    int
}

// Dispatcher turns events into notifications and delivers them.
type Dispatcher struct {
	log       *zap.SugaredLogger
	dir       Directory
	presence  Presence
	transport Transport
}

// NewDispatcher wires a dispatcher.
func NewDispatcher(log *zap.SugaredLogger, dir Directory, presence Presence, transport Transport) *Dispatcher {
	return &Dispatcher{
		log:       log.Named("notify"),
		dir:       dir,
		presence:  presence,
		transport: transport,
	}
}

// Plan resolves events into ordered notifications. Recipients of one event are
// deduplicated and the acting user is always excluded. Event order is kept, so
// a recipient sees the events of one mutation in the order they were produced.
//
// A failed directory lookup drops only the recipients it would have added:
// explicit recipients and later events are still planned, and the lookup
// errors are returned joined alongside the full plan.
func (d *Dispatcher) Plan(ctx context.Context, events []entities.Event) ([]entities.Notification, error) {
	notes := make([]entities.Notification, 0, len(events))
	staff := map[string][]string{}
	var errs []error

	for _, ev := range events {
		recipients := append([]string(nil), ev.Recipients...)

		if ev.TeamID != "" {
			members, err := d.dir.TeamMemberIDs(ctx, ev.TenantID, ev.TeamID)
			if err != nil {
				errs = append(errs, fmt.Errorf("team members for %s: %w", ev.TeamID, err))
			} else {
				recipients = append(recipients, members...)
			}
		}

		if ev.NotifyStaff {
			ids, ok := staff[ev.TenantID]
			if !ok {
				var err error
				ids, err = d.dir.StaffIDs(ctx, ev.TenantID)
				if err != nil {
					errs = append(errs, fmt.Errorf("staff for tenant %s: %w", ev.TenantID, err))
				} else {
					staff[ev.TenantID] = ids
				}
			}
			recipients = append(recipients, ids...)
		}

		for _, id := range entities.Dedupe(recipients) {
			if id == ev.ActorID {
				continue
			}
			notes = append(notes, entities.Notification{
				RecipientID: id,
				Kind:        ev.Kind,
				Payload:     ev.Payload,
			})
		}
	}
	return notes, errors.Join(errs...)
}

// Deliver sends each notification to every channel of its recipient. It never
// blocks on offline recipients and never returns transport errors.
func (d *Dispatcher) Deliver(_ context.Context, notes []entities.Notification) Report {
	var rep Report
	for _, n := range notes {
		channels := d.presence.ChannelsFor(n.RecipientID)
		if len(channels) == 0 {
			rep.Offline++
			continue
		}
		for _, ch := range channels {
			if err := d.transport.Emit(ch, n.Kind, n.Payload); err != nil {
				rep.Failed++
				d.log.Warnw("emit failed",
					"recipient", n.RecipientID,
					"channel", ch,
					"kind", n.Kind,
					"error", err,
				)
				continue
			}
			rep.Delivered++
		}
	}
	return rep
}

// Fanout plans and delivers events in one call.
func (d *Dispatcher) Fanout(ctx context.Context, events ...entities.Event) (Report, error) {
	notes, err := d.Plan(ctx, events)
	rep := d.Deliver(ctx, notes)
	if err != nil {
		return rep, err
	}
	d.log.Debugw("fanout", "events", len(events), "delivered", rep.Delivered, "offline", rep.Offline, "failed", rep.Failed)
	return rep, nil
}
