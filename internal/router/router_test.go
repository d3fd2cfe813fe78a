package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/autana/helpdesk/internal/handler"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}, &model.Message{}, &model.MessageRating{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	users := service.NewUserService(db)
	tickets := service.NewTicketService(db)
	messages := service.NewMessageService(db)
	admin := service.NewAdminService(db)

	h := Handlers{
		Auth:    handler.NewAuthHandler(users),
		Ticket:  handler.NewTicketHandler(tickets, nil),
		Message: handler.NewMessageHandler(messages, tickets, nil),
		Admin:   handler.NewAdminHandler(admin, users, tickets),
	}
	return New(h, nil), db
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %s: %v", rec.Body.String(), err)
	}
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeInto(t, rec, &body)
	return body.Detail
}

func TestSignupLoginAndTicketFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/auth/signup", map[string]string{
		"email":    "alice@example.com",
		"name":     "Alice",
		"password": "s3cret1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: %d %s", rec.Code, rec.Body.String())
	}
	var alice model.User
	decodeInto(t, rec, &alice)
	if alice.ID == "" || alice.Role != model.RoleUser {
		t.Fatalf("signup user = %+v", alice)
	}

	rec = doJSON(t, srv, http.MethodPost, "/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-pass",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPost, "/tickets/", map[string]string{
		"user_id":     alice.ID,
		"title":       "engine warning light",
		"category":    "maintenance",
		"description": "yellow light on dash",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ticket: %d %s", rec.Code, rec.Body.String())
	}
	var ticket model.Ticket
	decodeInto(t, rec, &ticket)
	if ticket.Status != model.TicketStatusOpen {
		t.Fatalf("new ticket status = %s", ticket.Status)
	}

	rec = doJSON(t, srv, http.MethodPost, "/messages/", map[string]interface{}{
		"ticket_id":   ticket.ID,
		"content":     "the light came on yesterday",
		"sender_name": "Alice",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create message: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/tickets/"+ticket.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get ticket: %d", rec.Code)
	}
	var loaded model.TicketWithMessages
	decodeInto(t, rec, &loaded)
	if len(loaded.Messages) != 1 || loaded.Messages[0].Content != "the light came on yesterday" {
		t.Fatalf("messages = %+v", loaded.Messages)
	}
}

func TestTicketPatchValidation(t *testing.T) {
	srv, db := newTestServer(t)
	ticket := &model.Ticket{UserID: "u1", Title: "t", Category: "c", Description: "d"}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, srv, http.MethodPatch, "/tickets/"+ticket.ID, map[string]string{"status": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus status: %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodPatch, "/tickets/"+ticket.ID, map[string]string{})
	if rec.Code != http.StatusBadRequest || detail(t, rec) != "no changes" {
		t.Fatalf("empty patch: %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPatch, "/tickets/"+ticket.ID, map[string]string{"status": "in_progress"})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid patch: %d %s", rec.Code, rec.Body.String())
	}
	var updated model.Ticket
	decodeInto(t, rec, &updated)
	if updated.Status != model.TicketStatusInProgress || updated.Title != "t" {
		t.Fatalf("updated = %+v", updated)
	}

	rec = doJSON(t, srv, http.MethodPatch, "/tickets/missing", map[string]string{"status": "closed"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing ticket: %d", rec.Code)
	}
}

func TestAdminEndpointsRejectNonAdmins(t *testing.T) {
	srv, db := newTestServer(t)

	alice := &model.User{Email: "alice@example.com", Name: "Alice", PasswordHash: "x", Role: model.RoleUser}
	root := &model.User{Email: "root@example.com", Name: "Root", PasswordHash: "x", Role: model.RoleAdmin}
	for _, u := range []*model.User{alice, root} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	paths := []string{
		"/admin/dashboard",
		"/admin/users",
		"/admin/users/" + alice.ID + "/tickets",
	}
	for _, path := range paths {
		if rec := doJSON(t, srv, http.MethodGet, path, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s without user_id: %d", path, rec.Code)
		}
		if rec := doJSON(t, srv, http.MethodGet, path+"?user_id="+alice.ID, nil); rec.Code != http.StatusForbidden {
			t.Errorf("%s as user: %d", path, rec.Code)
		}
		if rec := doJSON(t, srv, http.MethodGet, path+"?user_id="+root.ID, nil); rec.Code != http.StatusOK {
			t.Errorf("%s as admin: %d %s", path, rec.Code, rec.Body.String())
		}
	}

	// Unknown principals are forbidden, not 404: don't leak user existence.
	rec := doJSON(t, srv, http.MethodGet, "/admin/dashboard?user_id=ffffffff-ffff-ffff-ffff-ffffffffffff", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unknown principal: %d", rec.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/health", "/ready"} {
		if rec := doJSON(t, srv, http.MethodGet, path, nil); rec.Code != http.StatusOK {
			t.Errorf("%s: %d", path, rec.Code)
		}
	}
}
