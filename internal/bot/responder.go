package bot

import (
	"context"
	"strings"
)

// TicketContext is what the responder sees of the conversation: the ticket's
// framing plus the message that triggered the reply.
type TicketContext struct {
	TicketID    string
	Category    string
	Description string
	UserMessage string
	History     []string
}

// Responder generates an automated reply for a ticket conversation. The
// production system would back this with an inference service; the scripted
// implementation below stands in for it.
type Responder interface {
	GenerateResponse(ctx context.Context, tc TicketContext) (string, error)
}

// Scripted is a deterministic canned responder keyed by ticket category.
type Scripted struct {
	Name string
}

func NewScripted(name string) *Scripted {
	if name == "" {
		name = "Support Assistant"
	}
	return &Scripted{Name: name}
}

var categoryReplies = map[string]string{
	"financing":     "Thanks for the details. I'm checking your financing plan with our payments team and will follow up here shortly.",
	"warranty":      "I've noted your warranty question. Coverage details depend on your purchase date; let me pull up your record.",
	"documentation": "Got it. For document and transfer questions I'll need to verify your file — give me a moment.",
	"delivery":      "Thanks for reaching out about your delivery. I'm checking the latest logistics status for your order now.",
	"maintenance":   "Understood. I'm looking up the authorized service centers and included maintenance for your vehicle.",
	"technical":     "Sorry you're hitting a problem with the platform. Could you tell me what error message you see, if any?",
}

const fallbackReply = "Thanks for the information. I'm reviewing your case and will update you here as soon as I have an answer. If this is urgent, reply and I'll escalate it to a specialist."

func (s *Scripted) GenerateResponse(ctx context.Context, tc TicketContext) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(tc.History) == 0 {
		greeting := "Hi! Thanks for contacting support."
		if tc.Category != "" {
			greeting += " I've reviewed your ticket about \"" + tc.Category + "\"."
		}
		return greeting + " How can I help you specifically?", nil
	}
	key := strings.ToLower(strings.TrimSpace(tc.Category))
	if reply, ok := categoryReplies[key]; ok {
		return reply, nil
	}
	return fallbackReply, nil
}
