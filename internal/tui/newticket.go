package tui

import (
	"strings"

	"github.com/autana/helpdesk/internal/client"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Suggested categories; the backend accepts any label.
var categories = []string{"financing", "warranty", "documentation", "delivery", "maintenance", "technical"}

type newTicketModel struct {
	api     *client.Client
	userID  string
	inputs  []textinput.Model
	focus   int
	errLine string
}

func newNewTicketModel(api *client.Client, userID string) newTicketModel {
	title := textinput.New()
	title.Placeholder = "title"
	title.Focus()

	category := textinput.New()
	category.Placeholder = "category (" + strings.Join(categories, ", ") + ")"

	description := textinput.New()
	description.Placeholder = "description"

	return newTicketModel{
		api:    api,
		userID: userID,
		inputs: []textinput.Model{title, category, description},
	}
}

func (m newTicketModel) update(msg tea.Msg) (newTicketModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m = m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m = m.moveFocus(-1)
			return m, nil
		case "enter":
			return m, m.submit()
		}
	case errMsg:
		m.errLine = msg.err.Error()
		return m, nil
	}
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m newTicketModel) moveFocus(dir int) newTicketModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m newTicketModel) submit() tea.Cmd {
	req := client.CreateTicketRequest{
		UserID:      m.userID,
		Title:       strings.TrimSpace(m.inputs[0].Value()),
		Category:    strings.TrimSpace(m.inputs[1].Value()),
		Description: strings.TrimSpace(m.inputs[2].Value()),
	}
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		t, err := api.CreateTicket(ctx, req)
		if err != nil {
			return errMsg{err}
		}
		return ticketCreatedMsg{ticket: *t}
	}
}

func (m newTicketModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("New ticket"))
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine))
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render("enter: create · esc: back"))
	return b.String()
}
