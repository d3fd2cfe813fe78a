package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}, &model.Message{}, &model.MessageRating{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedTicket(t *testing.T, db *gorm.DB, userID string, status model.TicketStatus, createdAt time.Time) *model.Ticket {
	t.Helper()
	ticket := &model.Ticket{
		UserID:      userID,
		Title:       "title",
		Category:    "technical",
		Description: "description",
		Status:      status,
		CreatedAt:   createdAt,
	}
	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func TestTicketCreateAssignsIDAndOpenStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db)
	ctx := context.Background()

	ticket := &model.Ticket{
		UserID:      "u1",
		Title:       "engine warning light",
		Category:    "maintenance",
		Description: "yellow light on dash",
		Status:      model.TicketStatusClosed, // client-supplied status is ignored
	}
	if err := svc.Create(ctx, ticket); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.ID == "" {
		t.Fatalf("no id assigned")
	}
	if ticket.Status != model.TicketStatusOpen {
		t.Fatalf("status = %s, want open", ticket.Status)
	}

	got, err := svc.GetByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "engine warning light" || got.Status != model.TicketStatusOpen {
		t.Fatalf("stored ticket = %+v", got)
	}
}

func TestTicketGetByIDNotFound(t *testing.T) {
	svc := NewTicketService(newTestDB(t))
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketListNewestFirstAndScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	oldest := seedTicket(t, db, "u1", model.TicketStatusOpen, base)
	newest := seedTicket(t, db, "u1", model.TicketStatusOpen, base.Add(2*time.Minute))
	other := seedTicket(t, db, "u2", model.TicketStatusOpen, base.Add(time.Minute))

	all, err := svc.List(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d", len(all))
	}
	if all[0].ID != newest.ID || all[1].ID != other.ID || all[2].ID != oldest.ID {
		t.Fatalf("order = %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
	}

	mine, err := svc.List(ctx, "u1", 0, 0)
	if err != nil {
		t.Fatalf("list scoped: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("len(mine) = %d", len(mine))
	}
	for _, ticket := range mine {
		if ticket.UserID != "u1" {
			t.Fatalf("scoped list leaked ticket of %s", ticket.UserID)
		}
	}

	limited, err := svc.List(ctx, "", 1, 1)
	if err != nil {
		t.Fatalf("list paginated: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != other.ID {
		t.Fatalf("paginated = %+v", limited)
	}
}

func TestTicketUpdateIsPartial(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db)
	ctx := context.Background()

	ticket := seedTicket(t, db, "u1", model.TicketStatusOpen, time.Now())

	updated, err := svc.Update(ctx, ticket.ID, map[string]interface{}{
		"status":  string(model.TicketStatusInProgress),
		"user_id": "attacker", // must be stripped
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.TicketStatusInProgress {
		t.Fatalf("status = %s", updated.Status)
	}
	if updated.UserID != "u1" {
		t.Fatalf("user_id changed to %s", updated.UserID)
	}
	if updated.Title != "title" || updated.Category != "technical" || updated.Description != "description" {
		t.Fatalf("untouched fields mutated: %+v", updated)
	}

	if _, err := svc.Update(ctx, "missing", map[string]interface{}{"status": "closed"}); !errors.Is(err, errs.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketStats(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db)
	ctx := context.Background()

	now := time.Now()
	seedTicket(t, db, "u1", model.TicketStatusOpen, now)
	seedTicket(t, db, "u1", model.TicketStatusResolved, now)
	seedTicket(t, db, "u2", model.TicketStatusOpen, now)
	seedTicket(t, db, "u2", model.TicketStatusClosed, now)

	all, err := svc.Stats(ctx, "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if all.Total != 4 || all.Open != 2 || all.InProgress != 0 || all.Resolved != 1 || all.Closed != 1 {
		t.Fatalf("stats = %+v", all)
	}

	scoped, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("scoped stats: %v", err)
	}
	if scoped.Total != 2 || scoped.Open != 1 || scoped.Resolved != 1 {
		t.Fatalf("scoped stats = %+v", scoped)
	}
}

func TestGetWithMessagesOrdersAscending(t *testing.T) {
	db := newTestDB(t)
	svc := NewTicketService(db)
	ctx := context.Background()

	ticket := seedTicket(t, db, "u1", model.TicketStatusOpen, time.Now())
	base := time.Now().Add(-time.Minute)
	for i, content := range []string{"first", "second", "third"} {
		msg := &model.Message{
			TicketID:  ticket.ID,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(msg).Error; err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}

	got, err := svc.GetWithMessages(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("get with messages: %v", err)
	}
	if got.ID != ticket.ID {
		t.Fatalf("ticket = %+v", got.Ticket)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("len(messages) = %d", len(got.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got.Messages[i].Content != want {
			t.Fatalf("messages[%d] = %s, want %s", i, got.Messages[i].Content, want)
		}
	}
}
