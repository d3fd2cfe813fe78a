// Package tui is the terminal portal: one role-aware surface over the
// helpdesk backend. A regular user sees their own tickets and a composer
// with a simulated assistant; an admin sees every ticket and the full
// status lifecycle.
package tui

import (
	"fmt"

	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/roleview"
	"github.com/autana/helpdesk/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenLogin screen = iota
	screenList
	screenNewTicket
	screenChat
	screenDashboard
	screenUsers
	screenUserTickets
)

type App struct {
	api     *client.Client
	sess    *session.Store
	view    *roleview.View
	botName string

	screen   screen
	login    loginModel
	list     listModel
	form     newTicketModel
	chat     chatModel
	dash     dashboardModel
	users    usersModel
	userList listModel
}

func NewApp(api *client.Client, sess *session.Store, botName string) *App {
	app := &App{
		api:     api,
		sess:    sess,
		view:    roleview.New(api, sess),
		botName: botName,
		screen:  screenLogin,
		login:   newLoginModel(api),
	}
	if sess.LoggedIn() {
		app.screen = screenList
		app.list = newListModel(app.view, sess.IsAdmin())
	}
	return app
}

func (a *App) Init() tea.Cmd {
	if a.screen == screenList {
		return a.list.load()
	}
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch msg := msg.(type) {
	case loggedInMsg:
		if err := a.sess.SetUser(msg.user); err != nil {
			a.login.errLine = "persist session: " + err.Error()
			return a, nil
		}
		a.screen = screenList
		a.list = newListModel(a.view, a.sess.IsAdmin())
		return a, a.list.load()
	case ticketCreatedMsg:
		a.screen = screenChat
		a.chat = newChatModel(a.api, a.view, a.sess.Current(), a.botName, msg.ticket.ID)
		return a, a.chat.load()
	case backMsg:
		a.screen = screenList
		a.list = newListModel(a.view, a.sess.IsAdmin())
		return a, a.list.load()
	}

	switch a.screen {
	case screenLogin:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	case screenList:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "enter":
				if t := a.list.selected(); t != nil {
					a.screen = screenChat
					a.chat = newChatModel(a.api, a.view, a.sess.Current(), a.botName, t.ID)
					return a, a.chat.load()
				}
				return a, nil
			case "n":
				if !a.sess.IsAdmin() {
					u := a.sess.Current()
					a.screen = screenNewTicket
					a.form = newNewTicketModel(a.api, u.ID)
					return a, nil
				}
			case "d":
				if a.sess.IsAdmin() {
					a.screen = screenDashboard
					a.dash = newDashboardModel(a.view)
					return a, a.dash.load()
				}
			case "u":
				if a.sess.IsAdmin() {
					a.screen = screenUsers
					a.users = newUsersModel(a.view)
					return a, a.users.load()
				}
			case "q":
				if err := a.sess.Clear(); err != nil {
					return a, nil
				}
				a.screen = screenLogin
				a.login = newLoginModel(a.api)
				return a, nil
			}
		}
		var cmd tea.Cmd
		a.list, cmd = a.list.update(msg)
		return a, cmd
	case screenNewTicket:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			return a, func() tea.Msg { return backMsg{} }
		}
		var cmd tea.Cmd
		a.form, cmd = a.form.update(msg)
		return a, cmd
	case screenChat:
		var cmd tea.Cmd
		a.chat, cmd = a.chat.update(msg)
		return a, cmd
	case screenDashboard:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			return a, func() tea.Msg { return backMsg{} }
		}
		var cmd tea.Cmd
		a.dash, cmd = a.dash.update(msg)
		return a, cmd
	case screenUsers:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				return a, func() tea.Msg { return backMsg{} }
			case "enter":
				if u := a.users.selected(); u != nil {
					a.screen = screenUserTickets
					a.userList = newUserTicketsModel(a.view, *u)
					return a, a.userList.load()
				}
				return a, nil
			}
		}
		var cmd tea.Cmd
		a.users, cmd = a.users.update(msg)
		return a, cmd
	case screenUserTickets:
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.String() {
			case "esc":
				a.screen = screenUsers
				return a, nil
			case "enter":
				if t := a.userList.selected(); t != nil {
					a.screen = screenChat
					a.chat = newChatModel(a.api, a.view, a.sess.Current(), a.botName, t.ID)
					return a, a.chat.load()
				}
				return a, nil
			}
		}
		var cmd tea.Cmd
		a.userList, cmd = a.userList.update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.screen {
	case screenLogin:
		body = a.login.render()
	case screenList:
		body = a.list.render()
	case screenNewTicket:
		body = a.form.render()
	case screenChat:
		body = a.chat.render()
	case screenDashboard:
		body = a.dash.render()
	case screenUsers:
		body = a.users.render()
	case screenUserTickets:
		body = a.userList.render()
	}
	if u := a.sess.Current(); u != nil {
		body += "\n" + subtleStyle.Render(fmt.Sprintf("logged in as %s (%s)", u.Name, u.Role))
	}
	return body + "\n"
}

// Run starts the portal against the given backend.
func Run(baseURL, botName string) error {
	path, err := session.DefaultPath()
	if err != nil {
		return fmt.Errorf("session path: %w", err)
	}
	sess, err := session.Open(path)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	api := client.New(baseURL)
	app := NewApp(api, sess, botName)
	_, err = tea.NewProgram(app).Run()
	return err
}
