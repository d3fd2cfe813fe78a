// Package roleview projects ticket data and actions through the session's
// role. Both front-end surfaces consume this one abstraction instead of
// duplicating role checks: a user sees only their own tickets and may only
// resolve them; an admin sees everything and drives the full lifecycle.
// Admin-only calls fail fast locally so server-side enforcement is the
// backstop, not the only guard.
package roleview

import (
	"context"

	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/lifecycle"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/session"
)

// API is the slice of the REST client the view needs.
type API interface {
	ListTickets(ctx context.Context, userID string) ([]model.Ticket, error)
	TicketStats(ctx context.Context, userID string) (*model.TicketStats, error)
	AdminDashboard(ctx context.Context, adminID string) (*model.AdminDashboardStats, error)
	AdminUsers(ctx context.Context, adminID string) ([]model.UserWithStats, error)
	AdminUserTickets(ctx context.Context, adminID, targetUserID string) ([]model.Ticket, error)
	RateMessage(ctx context.Context, adminID string, req client.RateMessageRequest) (*model.MessageRating, error)
}

type View struct {
	api     API
	session *session.Store
}

func New(api API, sess *session.Store) *View {
	return &View{api: api, session: sess}
}

func (v *View) principal() (*model.User, error) {
	u := v.session.Current()
	if u == nil {
		return nil, errs.ErrForbidden
	}
	return u, nil
}

func (v *View) requireAdmin() (*model.User, error) {
	u, err := v.principal()
	if err != nil {
		return nil, err
	}
	if u.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	return u, nil
}

// Tickets returns the ticket set for the current role: a user's own tickets,
// or every ticket for an admin.
func (v *View) Tickets(ctx context.Context) ([]model.Ticket, error) {
	u, err := v.principal()
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleAdmin {
		return v.api.ListTickets(ctx, "")
	}
	return v.api.ListTickets(ctx, u.ID)
}

// Stats is scoped the same way as Tickets.
func (v *View) Stats(ctx context.Context) (*model.TicketStats, error) {
	u, err := v.principal()
	if err != nil {
		return nil, err
	}
	if u.Role == model.RoleAdmin {
		return v.api.TicketStats(ctx, "")
	}
	return v.api.TicketStats(ctx, u.ID)
}

// UserTickets lists another user's tickets. Admin only; rejected locally for
// a user principal before any network call.
func (v *View) UserTickets(ctx context.Context, targetUserID string) ([]model.Ticket, error) {
	u, err := v.requireAdmin()
	if err != nil {
		return nil, err
	}
	return v.api.AdminUserTickets(ctx, u.ID, targetUserID)
}

// Users lists all users with their ticket stats. Admin only.
func (v *View) Users(ctx context.Context) ([]model.UserWithStats, error) {
	u, err := v.requireAdmin()
	if err != nil {
		return nil, err
	}
	return v.api.AdminUsers(ctx, u.ID)
}

// Dashboard loads the aggregate admin dashboard. Admin only.
func (v *View) Dashboard(ctx context.Context) (*model.AdminDashboardStats, error) {
	u, err := v.requireAdmin()
	if err != nil {
		return nil, err
	}
	return v.api.AdminDashboard(ctx, u.ID)
}

// RateMessage records an evaluation of a bot message. Admin only.
func (v *View) RateMessage(ctx context.Context, req client.RateMessageRequest) (*model.MessageRating, error) {
	u, err := v.requireAdmin()
	if err != nil {
		return nil, err
	}
	return v.api.RateMessage(ctx, u.ID, req)
}

// CanView reports whether the current principal may open this ticket at all.
func (v *View) CanView(t *model.Ticket) bool {
	u := v.session.Current()
	if u == nil {
		return false
	}
	return u.Role == model.RoleAdmin || t.UserID == u.ID
}

// ComposerEnabled reports whether the conversation composer is shown for
// this ticket: the ticket must accept input and the principal must be able
// to view it.
func (v *View) ComposerEnabled(t *model.Ticket) bool {
	return v.CanView(t) && lifecycle.AcceptsInput(t.Status)
}

// StatusActions returns the status changes offered for this ticket. Invalid
// transitions are prevented by not offering them, not by erroring after the
// fact. A user is offered resolve only on their own tickets.
func (v *View) StatusActions(t *model.Ticket) []model.TicketStatus {
	u := v.session.Current()
	if u == nil {
		return nil
	}
	if u.Role != model.RoleAdmin && t.UserID != u.ID {
		return nil
	}
	return lifecycle.Available(t.Status, u.Role)
}

// ChangeStatus validates ownership and role locally, then applies the
// transition through the status machine.
func (v *View) ChangeStatus(ctx context.Context, api lifecycle.TicketUpdater, t *model.Ticket, to model.TicketStatus) error {
	u, err := v.principal()
	if err != nil {
		return err
	}
	if u.Role != model.RoleAdmin && t.UserID != u.ID {
		return errs.ErrForbidden
	}
	return lifecycle.ApplyTransition(ctx, api, t, to, u.Role)
}
