package tui

import (
	"fmt"
	"strings"

	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/roleview"
	tea "github.com/charmbracelet/bubbletea"
)

type listModel struct {
	view    *roleview.View
	tickets []model.Ticket
	stats   *model.TicketStats
	cursor  int
	loading bool
	errLine string
	admin   bool

	// scope — если задан, список показывает тикеты одного пользователя
	// (админский фильтр по пользователю).
	scope *model.UserWithStats
}

func newListModel(view *roleview.View, admin bool) listModel {
	return listModel{view: view, admin: admin, loading: true}
}

func newUserTicketsModel(view *roleview.View, user model.UserWithStats) listModel {
	return listModel{view: view, admin: true, loading: true, scope: &user}
}

func (m listModel) load() tea.Cmd {
	view := m.view
	scope := m.scope
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if scope != nil {
			tickets, err := view.UserTickets(ctx, scope.ID)
			if err != nil {
				return errMsg{err}
			}
			return ticketsMsg{tickets: tickets}
		}
		tickets, err := view.Tickets(ctx)
		if err != nil {
			return errMsg{err}
		}
		stats, err := view.Stats(ctx)
		if err != nil {
			return errMsg{err}
		}
		return ticketsMsg{tickets: tickets, stats: stats}
	}
}

func (m listModel) update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketsMsg:
		m.tickets = msg.tickets
		m.stats = msg.stats
		m.loading = false
		m.errLine = ""
		if m.cursor >= len(m.tickets) {
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
			if m.cursor < len(m.tickets)-1 {
				m.cursor++
			}
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m listModel) selected() *model.Ticket {
	if m.cursor < 0 || m.cursor >= len(m.tickets) {
		return nil
	}
	t := m.tickets[m.cursor]
	return &t
}

func (m listModel) render() string {
	var b strings.Builder
	switch {
	case m.scope != nil:
		b.WriteString(titleStyle.Render("Tickets — " + m.scope.Name))
	case m.admin:
		b.WriteString(titleStyle.Render("All tickets"))
	default:
		b.WriteString(titleStyle.Render("Your tickets"))
	}
	b.WriteString("\n")
	if m.stats != nil {
		b.WriteString(subtleStyle.Render(fmt.Sprintf(
			"total %d · open %d · in progress %d · resolved %d · closed %d",
			m.stats.Total, m.stats.Open, m.stats.InProgress, m.stats.Resolved, m.stats.Closed)))
		b.WriteString("\n\n")
	}
	switch {
	case m.loading:
		b.WriteString(subtleStyle.Render("loading…"))
		b.WriteString("\n")
	case m.errLine != "":
		b.WriteString(errorStyle.Render(m.errLine))
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render("r: retry"))
		b.WriteString("\n")
	case len(m.tickets) == 0:
		b.WriteString(subtleStyle.Render("no tickets yet"))
		b.WriteString("\n")
	default:
		for i, t := range m.tickets {
			line := fmt.Sprintf("%s %s %s", statusBadge(string(t.Status)), t.Title, subtleStyle.Render("("+t.Category+")"))
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
	var help string
	switch {
	case m.scope != nil:
		help = "enter: open · r: refresh · esc: back"
	case m.admin:
		help = "enter: open · d: dashboard · u: users · r: refresh · q: log out · ctrl+c: quit"
	default:
		help = "enter: open · n: new ticket · r: refresh · q: log out · ctrl+c: quit"
	}
	b.WriteString(subtleStyle.Render(help))
	return b.String()
}
