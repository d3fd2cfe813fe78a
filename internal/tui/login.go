package tui

import (
	"strings"

	"github.com/autana/helpdesk/internal/client"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginModel struct {
	api     *client.Client
	inputs  []textinput.Model
	focus   int
	signup  bool
	errLine string
}

const (
	fieldEmail = iota
	fieldName
	fieldPassword
)

func newLoginModel(api *client.Client) loginModel {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()

	name := textinput.New()
	name.Placeholder = "name"

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	return loginModel{
		api:    api,
		inputs: []textinput.Model{email, name, password},
	}
}

func (m loginModel) visibleFields() []int {
	if m.signup {
		return []int{fieldEmail, fieldName, fieldPassword}
	}
	return []int{fieldEmail, fieldPassword}
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			m = m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m = m.moveFocus(-1)
			return m, nil
		case "ctrl+s":
			m.signup = !m.signup
			m.errLine = ""
			return m, nil
		case "enter":
			return m, m.submit()
		}
	case errMsg:
		m.errLine = msg.err.Error()
		return m, nil
	}
	var cmds []tea.Cmd
	for _, i := range m.visibleFields() {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m loginModel) moveFocus(dir int) loginModel {
	fields := m.visibleFields()
	for idx, f := range fields {
		if f == m.focus {
			next := (idx + dir + len(fields)) % len(fields)
			m.focus = fields[next]
			break
		}
	}
	for _, f := range fields {
		if f == m.focus {
			m.inputs[f].Focus()
		} else {
			m.inputs[f].Blur()
		}
	}
	return m
}

func (m loginModel) submit() tea.Cmd {
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	password := m.inputs[fieldPassword].Value()
	signup := m.signup
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if signup {
			u, err := api.Signup(ctx, client.SignupRequest{Email: email, Name: name, Password: password})
			if err != nil {
				return errMsg{err}
			}
			return loggedInMsg{user: u}
		}
		u, err := api.Login(ctx, email, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{user: u}
	}
}

func (m loginModel) render() string {
	var b strings.Builder
	if m.signup {
		b.WriteString(titleStyle.Render("Helpdesk — sign up"))
	} else {
		b.WriteString(titleStyle.Render("Helpdesk — log in"))
	}
	b.WriteString("\n")
	for _, f := range m.visibleFields() {
		b.WriteString(m.inputs[f].View())
		b.WriteString("\n")
	}
	if m.errLine != "" {
		b.WriteString(errorStyle.Render(m.errLine))
		b.WriteString("\n")
	}
	b.WriteString(subtleStyle.Render("enter: submit · ctrl+s: toggle signup · ctrl+c: quit"))
	return b.String()
}
