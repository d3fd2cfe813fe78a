package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/roleview"
	"github.com/autana/helpdesk/internal/session"
)

func testView(t *testing.T, u *model.User) (*roleview.View, *session.Store) {
	t.Helper()
	sess, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	if u != nil {
		if err := sess.SetUser(u); err != nil {
			t.Fatalf("set user: %v", err)
		}
	}
	return roleview.New(nil, sess), sess
}

func TestLoginScreenRenders(t *testing.T) {
	api := client.New("http://localhost:8000")
	_, sess := testView(t, nil)
	app := NewApp(api, sess, "Support Assistant")
	out := app.View()
	if !strings.Contains(out, "log in") {
		t.Fatalf("login screen missing:\n%s", out)
	}
}

func TestListRendersTicketsAndRoleHelp(t *testing.T) {
	adminView, _ := testView(t, &model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin})
	m := newListModel(adminView, true)
	m, _ = m.update(ticketsMsg{
		tickets: []model.Ticket{{ID: "t1", Title: "engine warning light", Category: "maintenance", Status: model.TicketStatusOpen}},
		stats:   &model.TicketStats{Total: 1, Open: 1},
	})
	out := m.render()
	if !strings.Contains(out, "All tickets") || !strings.Contains(out, "engine warning light") {
		t.Fatalf("admin list missing content:\n%s", out)
	}
	if !strings.Contains(out, "d: dashboard") || !strings.Contains(out, "u: users") {
		t.Fatalf("admin list missing admin actions:\n%s", out)
	}
	if strings.Contains(out, "n: new ticket") {
		t.Fatalf("admin list offers ticket creation:\n%s", out)
	}

	userView, _ := testView(t, &model.User{ID: "u1", Name: "Alice", Role: model.RoleUser})
	u := newListModel(userView, false)
	u, _ = u.update(ticketsMsg{})
	out = u.render()
	if !strings.Contains(out, "Your tickets") || !strings.Contains(out, "n: new ticket") {
		t.Fatalf("user list missing content:\n%s", out)
	}
	if strings.Contains(out, "d: dashboard") {
		t.Fatalf("user list offers admin actions:\n%s", out)
	}
}

func TestUserTicketsListIsScoped(t *testing.T) {
	view, _ := testView(t, &model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin})
	target := model.UserWithStats{User: model.User{ID: "u1", Name: "Alice"}, TicketCount: 2}
	m := newUserTicketsModel(view, target)
	m, _ = m.update(ticketsMsg{tickets: []model.Ticket{{ID: "t1", Title: "warranty claim", Category: "warranty", Status: model.TicketStatusOpen}}})
	out := m.render()
	if !strings.Contains(out, "Tickets — Alice") || !strings.Contains(out, "warranty claim") {
		t.Fatalf("scoped list missing content:\n%s", out)
	}
	if !strings.Contains(out, "esc: back") {
		t.Fatalf("scoped list missing back hint:\n%s", out)
	}
}

func TestDashboardRendersStats(t *testing.T) {
	view, _ := testView(t, &model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin})
	m := newDashboardModel(view)
	m, _ = m.update(dashboardMsg{stats: &model.AdminDashboardStats{
		TotalUsers:    3,
		TotalTickets:  5,
		TotalMessages: 12,
		BotMessages:   4,
		Tickets:       model.TicketStats{Total: 5, Open: 2, Resolved: 3},
	}})
	out := m.render()
	for _, want := range []string{"Dashboard", "users     3", "tickets   5", "messages  12", "from bot 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestUsersScreenRendersAndSelects(t *testing.T) {
	view, _ := testView(t, &model.User{ID: "a1", Name: "Root", Role: model.RoleAdmin})
	m := newUsersModel(view)
	m, _ = m.update(usersMsg{users: []model.UserWithStats{
		{User: model.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: model.RoleUser}, TicketCount: 2, OpenTickets: 1},
		{User: model.User{ID: "a1", Name: "Root", Email: "root@example.com", Role: model.RoleAdmin}},
	}})
	out := m.render()
	if !strings.Contains(out, "alice@example.com") || !strings.Contains(out, "tickets 2") {
		t.Fatalf("users screen missing content:\n%s", out)
	}
	if sel := m.selected(); sel == nil || sel.ID != "u1" {
		t.Fatalf("selected = %+v", sel)
	}
}

func TestChatRendersLoadingState(t *testing.T) {
	view, _ := testView(t, &model.User{ID: "u1", Name: "Alice", Role: model.RoleUser})
	api := client.New("http://localhost:8000")
	m := newChatModel(api, view, &model.User{ID: "u1", Name: "Alice", Role: model.RoleUser}, "Support Assistant", "t1")
	if out := m.render(); !strings.Contains(out, "loading conversation") {
		t.Fatalf("chat loading state missing:\n%s", out)
	}
}
