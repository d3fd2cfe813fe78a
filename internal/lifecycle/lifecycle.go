// Package lifecycle is the ticket status machine: pure decision logic over
// role-gated transitions, separated from the network call that persists them.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/model"
)

// InvalidTransitionError is a status change not permitted for the role/state
// pair. Raised locally, before any network call.
type InvalidTransitionError struct {
	From model.TicketStatus
	To   model.TicketStatus
	Role model.Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed for role %s", e.From, e.To, e.Role)
}

// userTransitions: a user may only resolve an active ticket.
// adminTransitions: forward-biased; closed is terminal, nothing re-enters open.
var (
	userTransitions = map[model.TicketStatus][]model.TicketStatus{
		model.TicketStatusOpen:       {model.TicketStatusResolved},
		model.TicketStatusInProgress: {model.TicketStatusResolved},
	}
	adminTransitions = map[model.TicketStatus][]model.TicketStatus{
		model.TicketStatusOpen:       {model.TicketStatusInProgress, model.TicketStatusResolved, model.TicketStatusClosed},
		model.TicketStatusInProgress: {model.TicketStatusResolved, model.TicketStatusClosed},
		model.TicketStatusResolved:   {model.TicketStatusClosed},
	}
)

func transitions(role model.Role) map[model.TicketStatus][]model.TicketStatus {
	if role == model.RoleAdmin {
		return adminTransitions
	}
	return userTransitions
}

// CanTransition reports whether role may move a ticket from one status to
// another. A self-transition is permitted as a no-op but never offered.
func CanTransition(from, to model.TicketStatus, role model.Role) bool {
	if from == to {
		return true
	}
	for _, t := range transitions(role)[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Available enumerates the transitions offered as actions from the current
// status; the current status itself is excluded.
func Available(from model.TicketStatus, role model.Role) []model.TicketStatus {
	src := transitions(role)[from]
	out := make([]model.TicketStatus, 0, len(src))
	for _, t := range src {
		if t != from {
			out = append(out, t)
		}
	}
	return out
}

// AcceptsInput reports whether the ticket's conversation is open for new
// messages. Resolved and closed tickets are closed for input.
func AcceptsInput(status model.TicketStatus) bool {
	return status == model.TicketStatusOpen || status == model.TicketStatusInProgress
}

// TicketUpdater is the slice of the REST client ApplyTransition needs.
type TicketUpdater interface {
	UpdateTicket(ctx context.Context, ticketID string, patch client.TicketPatch) (*model.Ticket, error)
}

// ApplyTransition validates the transition, persists a status-only patch and
// folds only status and updated_at back into the local ticket. Title,
// category, description and user_id are never touched by a status change,
// even if a stale payload comes back with different values.
func ApplyTransition(ctx context.Context, api TicketUpdater, ticket *model.Ticket, to model.TicketStatus, role model.Role) error {
	if !CanTransition(ticket.Status, to, role) {
		return &InvalidTransitionError{From: ticket.Status, To: to, Role: role}
	}
	if ticket.Status == to {
		return nil
	}
	status := string(to)
	updated, err := api.UpdateTicket(ctx, ticket.ID, client.TicketPatch{Status: &status})
	if err != nil {
		return err
	}
	ticket.Status = updated.Status
	ticket.UpdatedAt = updated.UpdatedAt
	return nil
}
