package tui

import (
	"fmt"
	"strings"

	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/roleview"
	tea "github.com/charmbracelet/bubbletea"
)

type dashboardModel struct {
	view    *roleview.View
	stats   *model.AdminDashboardStats
	loading bool
	errLine string
}

func newDashboardModel(view *roleview.View) dashboardModel {
	return dashboardModel{view: view, loading: true}
}

func (m dashboardModel) load() tea.Cmd {
	view := m.view
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		stats, err := view.Dashboard(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dashboardMsg{stats: stats}
	}
}

func (m dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.stats = msg.stats
		m.loading = false
		m.errLine = ""
		return m, nil
	case errMsg:
		m.loading = false
		m.errLine = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(subtleStyle.Render("loading…"))
		b.WriteString("\n")
	case m.errLine != "":
		b.WriteString(errorStyle.Render(m.errLine))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("r: retry"))
		b.WriteString("\n")
	default:
		s := m.stats
		b.WriteString(fmt.Sprintf("users     %d\n", s.TotalUsers))
		b.WriteString(fmt.Sprintf("tickets   %d  %s\n", s.TotalTickets, subtleStyle.Render(fmt.Sprintf(
			"open %d · in progress %d · resolved %d · closed %d",
			s.Tickets.Open, s.Tickets.InProgress, s.Tickets.Resolved, s.Tickets.Closed))))
		b.WriteString(fmt.Sprintf("messages  %d  %s\n", s.TotalMessages,
			subtleStyle.Render(fmt.Sprintf("from bot %d", s.BotMessages))))
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("r: refresh · esc: back"))
	return b.String()
}

type usersModel struct {
	view    *roleview.View
	users   []model.UserWithStats
	cursor  int
	loading bool
	errLine string
}

func newUsersModel(view *roleview.View) usersModel {
	return usersModel{view: view, loading: true}
}

func (m usersModel) load() tea.Cmd {
	view := m.view
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		users, err := view.Users(ctx)
		if err != nil {
			return errMsg{err}
		}
		return usersMsg{users: users}
	}
}

func (m usersModel) update(msg tea.Msg) (usersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersMsg:
		m.users = msg.users
		m.loading = false
		m.errLine = ""
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil
	case errMsg:
		m.loading = false
		m.errLine = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.users)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m usersModel) selected() *model.UserWithStats {
	if m.cursor < 0 || m.cursor >= len(m.users) {
		return nil
	}
	u := m.users[m.cursor]
	return &u
}

func (m usersModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Users"))
	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(subtleStyle.Render("loading…"))
		b.WriteString("\n")
	case m.errLine != "":
		b.WriteString(errorStyle.Render(m.errLine))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("r: retry"))
		b.WriteString("\n")
	case len(m.users) == 0:
		b.WriteString(subtleStyle.Render("no users"))
		b.WriteString("\n")
	default:
		for i, u := range m.users {
			line := fmt.Sprintf("%s %s %s", u.Name, subtleStyle.Render("<"+u.Email+">"),
				subtleStyle.Render(fmt.Sprintf("tickets %d · open %d", u.TicketCount, u.OpenTickets)))
			if u.Role == model.RoleAdmin {
				line += " " + flashStyle.Render("[admin]")
			}
			if i == m.cursor {
				line = selectedStyle.Render("> ") + line
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("enter: tickets · r: refresh · esc: back"))
	return b.String()
}
