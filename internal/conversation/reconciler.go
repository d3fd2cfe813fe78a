// Package conversation owns the ordered message sequence for one open ticket
// and reconciles optimistic local sends with server-confirmed messages.
//
// State is two lists: the confirmed sequence as last fetched or merged from
// the backend, and the pending sequence of optimistic messages awaiting
// confirmation. The display sequence is their concatenation, so a pending
// message always renders after the last confirmed one and no confirmed
// message is ever reordered or dropped.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/lifecycle"
	"github.com/autana/helpdesk/internal/model"
	"github.com/google/uuid"
)

var (
	// ErrEmptyMessage — content is empty after trimming. No optimistic
	// entry is created and no network call is made.
	ErrEmptyMessage = errors.New("message content is empty")
	// ErrTicketClosed — the ticket no longer accepts input.
	ErrTicketClosed = errors.New("ticket is closed for new messages")
	// ErrBusy — a send is already in flight; sends are serialized to keep
	// confirmations in order.
	ErrBusy = errors.New("a send is already in flight")
	// ErrNotLoaded — Send/AppendSynthetic before a successful Load.
	ErrNotLoaded = errors.New("no ticket loaded")
)

// LoadError wraps a failed Load. Prior state is preserved.
type LoadError struct {
	TicketID string
	Err      error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load ticket %s: %v", e.TicketID, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// SendError wraps a failed send after its optimistic entry was rolled back.
// The display sequence never shows a message the backend never received.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("send message: %v", e.Err) }
func (e *SendError) Unwrap() error { return e.Err }

// API is the slice of the REST client the reconciler needs.
type API interface {
	GetTicket(ctx context.Context, ticketID string) (*model.TicketWithMessages, error)
	SendMessage(ctx context.Context, req client.SendMessageRequest) (*model.Message, error)
}

// Entry is one element of the display sequence. Pending entries carry a
// temporary identifier and have not been confirmed by the backend.
type Entry struct {
	Message model.Message
	Pending bool
}

// Reconciler mediates sends for exactly one ticket at a time so the visible
// order never regresses or duplicates. One send is in flight at most.
type Reconciler struct {
	api API

	mu        sync.Mutex
	ticket    *model.Ticket
	confirmed []model.Message
	pending   []model.Message
	inFlight  bool
	loaded    bool
}

func NewReconciler(api API) *Reconciler {
	return &Reconciler{api: api}
}

// Load fetches the ticket and its full message history, replacing the
// confirmed sequence wholesale and clearing any stale optimistic state,
// including an in-flight marker whose Complete never ran. On failure prior
// state is preserved and a LoadError returned.
func (r *Reconciler) Load(ctx context.Context, ticketID string) error {
	t, err := r.api.GetTicket(ctx, ticketID)
	if err != nil {
		return &LoadError{TicketID: ticketID, Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket := t.Ticket
	r.ticket = &ticket
	r.confirmed = append([]model.Message(nil), t.Messages...)
	r.pending = nil
	r.inFlight = false
	r.loaded = true
	return nil
}

// Begin is the synchronous half of a send: it validates locally and appends
// an optimistic message that Display shows immediately, before any network
// round-trip. The returned entry must be handed to Complete. A second Begin
// while a send is in flight fails with ErrBusy; it is not queued.
func (r *Reconciler) Begin(content, senderName string) (Entry, error) {
	trimmed := strings.TrimSpace(content)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return Entry{}, ErrNotLoaded
	}
	if r.inFlight {
		return Entry{}, ErrBusy
	}
	if trimmed == "" {
		return Entry{}, ErrEmptyMessage
	}
	if !lifecycle.AcceptsInput(r.ticket.Status) {
		return Entry{}, ErrTicketClosed
	}
	optimistic := model.Message{
		ID:         "pending-" + uuid.NewString(),
		TicketID:   r.ticket.ID,
		Content:    trimmed,
		SenderName: senderName,
		CreatedAt:  time.Now(),
	}
	r.pending = append(r.pending, optimistic)
	r.inFlight = true
	return Entry{Message: optimistic, Pending: true}, nil
}

// Complete is the asynchronous half: it performs the create call for an
// entry returned by Begin. On success the optimistic entry is promoted into
// the confirmed sequence; on failure it is removed entirely and a SendError
// returned so the caller can notify the user and allow resubmission.
func (r *Reconciler) Complete(ctx context.Context, entry Entry) (*model.Message, error) {
	confirmed, err := r.api.SendMessage(ctx, client.SendMessageRequest{
		TicketID:   entry.Message.TicketID,
		Content:    entry.Message.Content,
		SenderName: entry.Message.SenderName,
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inFlight = false
	r.removePending(entry.Message.ID)
	if err != nil {
		return nil, &SendError{Err: err}
	}
	r.confirmed = append(r.confirmed, *confirmed)
	return confirmed, nil
}

// Send runs both halves back to back for callers without their own event
// loop.
func (r *Reconciler) Send(ctx context.Context, content, senderName string) (*model.Message, error) {
	entry, err := r.Begin(content, senderName)
	if err != nil {
		return nil, err
	}
	return r.Complete(ctx, entry)
}

// AppendSynthetic creates an automated (bot) message through the same client
// path and appends it to the confirmed sequence. Callers invoke it only
// after the triggering send has resolved, so a synthetic reply never
// precedes the human message it answers.
func (r *Reconciler) AppendSynthetic(ctx context.Context, content, senderName string) (*model.Message, error) {
	r.mu.Lock()
	if !r.loaded {
		r.mu.Unlock()
		return nil, ErrNotLoaded
	}
	ticketID := r.ticket.ID
	r.mu.Unlock()

	msg, err := r.api.SendMessage(ctx, client.SendMessageRequest{
		TicketID:   ticketID,
		Content:    content,
		IsBot:      true,
		SenderName: senderName,
	})
	if err != nil {
		return nil, &SendError{Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmed = append(r.confirmed, *msg)
	return msg, nil
}

// Display returns the confirmed sequence followed by pending entries in the
// order they were locally created.
func (r *Reconciler) Display() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.confirmed)+len(r.pending))
	for _, m := range r.confirmed {
		out = append(out, Entry{Message: m})
	}
	for _, m := range r.pending {
		out = append(out, Entry{Message: m, Pending: true})
	}
	return out
}

// Ticket returns a copy of the loaded ticket, or nil before the first load.
func (r *Reconciler) Ticket() *model.Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticket == nil {
		return nil
	}
	t := *r.ticket
	return &t
}

// Busy reports whether a send is in flight; the composer disables itself
// while this is true.
func (r *Reconciler) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

func (r *Reconciler) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// SetStatus folds an externally applied status change (ApplyTransition) into
// the loaded ticket so composer gating follows immediately.
func (r *Reconciler) SetStatus(status model.TicketStatus, updatedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ticket == nil {
		return
	}
	r.ticket.Status = status
	r.ticket.UpdatedAt = updatedAt
}

func (r *Reconciler) removePending(id string) {
	for i, m := range r.pending {
		if m.ID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return
		}
	}
}
