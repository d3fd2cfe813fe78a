package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autana/helpdesk/internal/model"
)

func TestGetTicketDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tickets/t1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "t1",
			"title":  "engine warning light",
			"status": "open",
			"messages": []map[string]interface{}{
				{"id": "m1", "ticket_id": "t1", "content": "hello"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	got, err := c.GetTicket(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if got.ID != "t1" || got.Status != model.TicketStatusOpen {
		t.Fatalf("ticket = %+v", got.Ticket)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "hello" {
		t.Fatalf("messages = %+v", got.Messages)
	}
}

func TestDetailBodyBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Admin access required"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.AdminDashboard(context.Background(), "u1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Detail != "Admin access required" {
		t.Fatalf("APIError = %+v", apiErr)
	}
	if !apiErr.Forbidden() {
		t.Fatalf("Forbidden() = false for 403")
	}
}

func TestNonDetailErrorBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ListTickets(context.Background(), "")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL)
	_, err := c.Me(context.Background(), "u1")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Unwrap() == nil {
		t.Fatalf("NetworkError does not wrap the cause")
	}
}

func TestSendMessagePostsJSONBody(t *testing.T) {
	var got SendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/messages/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(model.Message{ID: "m1", TicketID: got.TicketID, Content: got.Content})
	}))
	defer srv.Close()

	c := New(srv.URL)
	msg, err := c.SendMessage(context.Background(), SendMessageRequest{
		TicketID:   "t1",
		Content:    "my car won't start",
		SenderName: "Alice",
	})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}
	if got.TicketID != "t1" || got.Content != "my car won't start" || got.SenderName != "Alice" {
		t.Fatalf("request body = %+v", got)
	}
	if got.IsBot {
		t.Fatalf("user message flagged as bot")
	}
	if msg.ID != "m1" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestListTicketsScopesByUserID(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode([]model.Ticket{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ListTickets(context.Background(), "u1"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if query != "user_id=u1" {
		t.Fatalf("query = %q", query)
	}
	if _, err := c.ListTickets(context.Background(), ""); err != nil {
		t.Fatalf("list all: %v", err)
	}
	if query != "" {
		t.Fatalf("admin scope sent a user filter: %q", query)
	}
}

func TestUpdateTicketOmitsNilFields(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(model.Ticket{ID: "t1", Status: model.TicketStatusResolved})
	}))
	defer srv.Close()

	status := "resolved"
	c := New(srv.URL)
	if _, err := c.UpdateTicket(context.Background(), "t1", TicketPatch{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(raw) != 1 || raw["status"] != "resolved" {
		t.Fatalf("patch body = %v, want only status", raw)
	}
}
