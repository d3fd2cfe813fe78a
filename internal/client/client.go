// Package client is the typed REST client for the helpdesk backend. All
// operations take a context and surface backend detail messages as errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/autana/helpdesk/internal/model"
)

// APIError is a non-2xx response whose body carried a detail message.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
}

// Forbidden reports whether the backend rejected the call for lack of
// privileges.
func (e *APIError) Forbidden() bool { return e.StatusCode == http.StatusForbidden }

// NetworkError is a transport failure or a non-2xx response without a
// parseable body. Retryable from the user's point of view.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return &NetworkError{Op: method + " " + path, Err: err}
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		var eb errorBody
		if json.Unmarshal(payload, &eb) == nil && eb.Detail != "" {
			return &APIError{StatusCode: resp.StatusCode, Detail: eb.Detail}
		}
		return &NetworkError{
			Op:  method + " " + path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload))),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	return nil
}

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Me(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/auth/me?user_id="+url.QueryEscape(userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListTickets returns tickets newest first; pass an empty userID for all
// tickets (admin scope).
func (c *Client) ListTickets(ctx context.Context, userID string) ([]model.Ticket, error) {
	path := "/tickets/"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	var items []model.Ticket
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetTicket(ctx context.Context, ticketID string) (*model.TicketWithMessages, error) {
	var t model.TicketWithMessages
	if err := c.do(ctx, http.MethodGet, "/tickets/"+url.PathEscape(ticketID), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

type CreateTicketRequest struct {
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (c *Client) CreateTicket(ctx context.Context, req CreateTicketRequest) (*model.Ticket, error) {
	var t model.Ticket
	if err := c.do(ctx, http.MethodPost, "/tickets/", req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TicketPatch carries a partial ticket update; nil fields are not sent.
type TicketPatch struct {
	Title       *string `json:"title,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (c *Client) UpdateTicket(ctx context.Context, ticketID string, patch TicketPatch) (*model.Ticket, error) {
	var t model.Ticket
	if err := c.do(ctx, http.MethodPatch, "/tickets/"+url.PathEscape(ticketID), patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) TicketStats(ctx context.Context, userID string) (*model.TicketStats, error) {
	path := "/tickets/stats"
	if userID != "" {
		path += "?user_id=" + url.QueryEscape(userID)
	}
	var stats model.TicketStats
	if err := c.do(ctx, http.MethodGet, path, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListMessages(ctx context.Context, ticketID string) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(ticketID), nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

type SendMessageRequest struct {
	TicketID   string `json:"ticket_id"`
	Content    string `json:"content"`
	IsBot      bool   `json:"is_bot,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
}

func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*model.Message, error) {
	var m model.Message
	if err := c.do(ctx, http.MethodPost, "/messages/", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) AdminDashboard(ctx context.Context, adminID string) (*model.AdminDashboardStats, error) {
	var stats model.AdminDashboardStats
	if err := c.do(ctx, http.MethodGet, "/admin/dashboard?user_id="+url.QueryEscape(adminID), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) AdminUsers(ctx context.Context, adminID string) ([]model.UserWithStats, error) {
	var users []model.UserWithStats
	if err := c.do(ctx, http.MethodGet, "/admin/users?user_id="+url.QueryEscape(adminID), nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) AdminUserTickets(ctx context.Context, adminID, targetUserID string) ([]model.Ticket, error) {
	path := "/admin/users/" + url.PathEscape(targetUserID) + "/tickets?user_id=" + url.QueryEscape(adminID)
	var items []model.Ticket
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type RateMessageRequest struct {
	MessageID    string `json:"message_id"`
	TicketID     string `json:"ticket_id,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
	IsHelpful    *bool  `json:"is_helpful,omitempty"`
	FeedbackText string `json:"feedback_text,omitempty"`
}

func (c *Client) RateMessage(ctx context.Context, adminID string, req RateMessageRequest) (*model.MessageRating, error) {
	var r model.MessageRating
	if err := c.do(ctx, http.MethodPost, "/admin/ratings?user_id="+url.QueryEscape(adminID), req, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
