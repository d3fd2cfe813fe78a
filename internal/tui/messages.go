package tui

import (
	"context"
	"time"

	"github.com/autana/helpdesk/internal/conversation"
	"github.com/autana/helpdesk/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	requestTimeout = 20 * time.Second
	flashDuration  = 3 * time.Second
)

// botReplyDelay — задержка перед синтетическим ответом бота после отправки
// пользователя, как в исходном портале.
const botReplyDelay = 2 * time.Second

type errMsg struct{ err error }

type loggedInMsg struct{ user *model.User }

type ticketsMsg struct {
	tickets []model.Ticket
	stats   *model.TicketStats
}

type ticketCreatedMsg struct{ ticket model.Ticket }

type conversationLoadedMsg struct{}

type sendResultMsg struct {
	entry conversation.Entry
	err   error
}

type botTickMsg struct{}

type botReplyMsg struct{ err error }

type statusChangedMsg struct {
	status model.TicketStatus
	err    error
}

type dashboardMsg struct{ stats *model.AdminDashboardStats }

type usersMsg struct{ users []model.UserWithStats }

type ratedMsg struct {
	rating int
	err    error
}

type clearFlashMsg struct{}

type backMsg struct{}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func clearFlashAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearFlashMsg{} })
}

func scheduleBotReply() tea.Cmd {
	return tea.Tick(botReplyDelay, func(time.Time) tea.Msg { return botTickMsg{} })
}
