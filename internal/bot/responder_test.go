package bot

import (
	"context"
	"strings"
	"testing"
)

func TestScriptedGreetsOnFirstContact(t *testing.T) {
	s := NewScripted("Support Assistant")
	reply, err := s.GenerateResponse(context.Background(), TicketContext{
		Category:    "warranty",
		UserMessage: "hello",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(reply, "warranty") {
		t.Fatalf("greeting does not mention the category: %q", reply)
	}
}

func TestScriptedRepliesByCategory(t *testing.T) {
	s := NewScripted("")
	if s.Name != "Support Assistant" {
		t.Fatalf("default name = %q", s.Name)
	}
	history := []string{"earlier message"}

	for _, category := range []string{"financing", "warranty", "delivery", "maintenance", "technical", "documentation"} {
		reply, err := s.GenerateResponse(context.Background(), TicketContext{
			Category:    category,
			UserMessage: "any update?",
			History:     history,
		})
		if err != nil {
			t.Fatalf("%s: %v", category, err)
		}
		if reply == "" || reply == fallbackReply {
			t.Errorf("%s: got fallback reply", category)
		}
	}

	// Category matching ignores case and padding.
	spaced, err := s.GenerateResponse(context.Background(), TicketContext{
		Category: "  Financing ",
		History:  history,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if spaced != categoryReplies["financing"] {
		t.Fatalf("case/space-insensitive match failed: %q", spaced)
	}
}

func TestScriptedFallsBackOnUnknownCategory(t *testing.T) {
	s := NewScripted("Support Assistant")
	reply, err := s.GenerateResponse(context.Background(), TicketContext{
		Category: "something else",
		History:  []string{"earlier"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if reply != fallbackReply {
		t.Fatalf("reply = %q, want fallback", reply)
	}
}

func TestScriptedHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewScripted("Support Assistant")
	if _, err := s.GenerateResponse(ctx, TicketContext{}); err == nil {
		t.Fatalf("expected error from cancelled context")
	}
}
