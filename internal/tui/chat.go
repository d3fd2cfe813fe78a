package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/autana/helpdesk/internal/bot"
	"github.com/autana/helpdesk/internal/client"
	"github.com/autana/helpdesk/internal/conversation"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/roleview"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type chatModel struct {
	rec       *conversation.Reconciler
	view      *roleview.View
	api       *client.Client
	responder bot.Responder
	botName   string
	user      *model.User

	composer textinput.Model
	spin     spinner.Model

	ticketID   string
	loading    bool
	loadErr    string
	flash      string
	actionMode bool
	rateMode   bool

	// lastUserMessage — то, на что отвечает синтетический бот.
	lastUserMessage string
}

func newChatModel(api *client.Client, view *roleview.View, user *model.User, botName string, ticketID string) chatModel {
	composer := textinput.New()
	composer.Placeholder = "type a message"
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return chatModel{
		rec:       conversation.NewReconciler(api),
		view:      view,
		api:       api,
		responder: bot.NewScripted(botName),
		botName:   botName,
		user:      user,
		composer:  composer,
		spin:      spin,
		ticketID:  ticketID,
		loading:   true,
	}
}

func (m chatModel) load() tea.Cmd {
	rec := m.rec
	id := m.ticketID
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := rec.Load(ctx, id); err != nil {
			return errMsg{err}
		}
		return conversationLoadedMsg{}
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case conversationLoadedMsg:
		m.loading = false
		m.loadErr = ""
		return m, nil
	case errMsg:
		if m.loading {
			m.loading = false
			m.loadErr = msg.err.Error()
			return m, nil
		}
		m.flash = msg.err.Error()
		return m, clearFlashAfter(flashDuration)
	case sendResultMsg:
		if msg.err != nil {
			// Оптимистичное сообщение уже откатилось; показываем уведомление.
			m.flash = msg.err.Error()
			return m, clearFlashAfter(flashDuration)
		}
		if m.user.Role == model.RoleUser {
			return m, scheduleBotReply()
		}
		return m, nil
	case botTickMsg:
		return m, m.botReply()
	case botReplyMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
			return m, clearFlashAfter(flashDuration)
		}
		return m, nil
	case statusChangedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
		} else {
			m.flash = "status changed to " + string(msg.status)
		}
		m.actionMode = false
		return m, clearFlashAfter(flashDuration)
	case ratedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
		} else {
			m.flash = fmt.Sprintf("rated %d/5", msg.rating)
		}
		m.rateMode = false
		return m, clearFlashAfter(flashDuration)
	case clearFlashMsg:
		m.flash = ""
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.rec.Busy() {
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.loadErr != "" {
			switch msg.String() {
			case "r":
				m.loading = true
				m.loadErr = ""
				return m, m.load()
			case "esc":
				return m, func() tea.Msg { return backMsg{} }
			}
			return m, nil
		}
		if m.actionMode {
			return m.updateActionMode(msg)
		}
		if m.rateMode {
			return m.updateRateMode(msg)
		}
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return backMsg{} }
		case "ctrl+a":
			if len(m.statusActions()) > 0 {
				m.actionMode = true
			}
			return m, nil
		case "ctrl+r":
			if m.user.Role == model.RoleAdmin && m.latestBotMessage() != nil {
				m.rateMode = true
			}
			return m, nil
		case "enter":
			return m.beginSend()
		}
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m chatModel) statusActions() []model.TicketStatus {
	t := m.rec.Ticket()
	if t == nil {
		return nil
	}
	return m.view.StatusActions(t)
}

func (m chatModel) updateActionMode(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	actions := m.statusActions()
	switch msg.String() {
	case "esc":
		m.actionMode = false
		return m, nil
	default:
		idx, err := strconv.Atoi(msg.String())
		if err != nil || idx < 1 || idx > len(actions) {
			return m, nil
		}
		return m, m.changeStatus(actions[idx-1])
	}
}

func (m chatModel) updateRateMode(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.rateMode = false
		return m, nil
	default:
		rating, err := strconv.Atoi(msg.String())
		if err != nil || rating < 1 || rating > 5 {
			return m, nil
		}
		target := m.latestBotMessage()
		if target == nil {
			m.rateMode = false
			return m, nil
		}
		return m, m.rate(target, rating)
	}
}

// latestBotMessage returns the newest confirmed bot message, the one a rating
// applies to.
func (m chatModel) latestBotMessage() *model.Message {
	entries := m.rec.Display()
	for i := len(entries) - 1; i >= 0; i-- {
		if e := entries[i]; e.Message.IsBot && !e.Pending {
			msg := e.Message
			return &msg
		}
	}
	return nil
}

func (m chatModel) rate(target *model.Message, rating int) tea.Cmd {
	view := m.view
	req := client.RateMessageRequest{
		MessageID: target.ID,
		TicketID:  target.TicketID,
		Rating:    &rating,
	}
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if _, err := view.RateMessage(ctx, req); err != nil {
			return ratedMsg{rating: rating, err: err}
		}
		return ratedMsg{rating: rating}
	}
}

// beginSend stages the optimistic message synchronously so it renders
// immediately, then confirms over the network in a command.
func (m chatModel) beginSend() (chatModel, tea.Cmd) {
	content := m.composer.Value()
	entry, err := m.rec.Begin(content, m.user.Name)
	if err != nil {
		m.flash = err.Error()
		return m, clearFlashAfter(flashDuration)
	}
	m.composer.SetValue("")
	m.lastUserMessage = entry.Message.Content
	rec := m.rec
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		_, err := rec.Complete(ctx, entry)
		return sendResultMsg{entry: entry, err: err}
	})
}

func (m chatModel) botReply() tea.Cmd {
	rec := m.rec
	responder := m.responder
	botName := m.botName
	userMessage := m.lastUserMessage
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		t := rec.Ticket()
		if t == nil {
			return botReplyMsg{}
		}
		var history []string
		for _, e := range rec.Display() {
			if !e.Pending {
				history = append(history, e.Message.Content)
			}
		}
		reply, err := responder.GenerateResponse(ctx, bot.TicketContext{
			TicketID:    t.ID,
			Category:    t.Category,
			Description: t.Description,
			UserMessage: userMessage,
			History:     history,
		})
		if err != nil {
			return botReplyMsg{err: err}
		}
		if _, err := rec.AppendSynthetic(ctx, reply, botName); err != nil {
			return botReplyMsg{err: err}
		}
		return botReplyMsg{}
	}
}

func (m chatModel) changeStatus(to model.TicketStatus) tea.Cmd {
	rec := m.rec
	view := m.view
	api := m.api
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		t := rec.Ticket()
		if t == nil {
			return statusChangedMsg{status: to, err: conversation.ErrNotLoaded}
		}
		if err := view.ChangeStatus(ctx, api, t, to); err != nil {
			return statusChangedMsg{status: to, err: err}
		}
		rec.SetStatus(t.Status, t.UpdatedAt)
		return statusChangedMsg{status: to}
	}
}

func (m chatModel) render() string {
	var b strings.Builder
	switch {
	case m.loading:
		return subtleStyle.Render("loading conversation…")
	case m.loadErr != "":
		b.WriteString(errorStyle.Render("failed to load ticket: " + m.loadErr))
		b.WriteString("\n\n")
		b.WriteString(subtleStyle.Render("r: retry · esc: back"))
		return b.String()
	}

	t := m.rec.Ticket()
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n", statusBadge(string(t.Status)), subtleStyle.Render(t.Category)))

	for _, e := range m.rec.Display() {
		b.WriteString(renderEntry(e))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.actionMode {
		actions := m.statusActions()
		parts := make([]string, 0, len(actions))
		for i, a := range actions {
			parts = append(parts, fmt.Sprintf("%d: %s", i+1, a))
		}
		b.WriteString(flashStyle.Render("change status — " + strings.Join(parts, " · ") + " · esc: cancel"))
		b.WriteString("\n")
	} else if m.rateMode {
		b.WriteString(flashStyle.Render("rate the last bot reply — 1..5 · esc: cancel"))
		b.WriteString("\n")
	} else if m.view.ComposerEnabled(t) {
		if m.rec.Busy() {
			b.WriteString(m.spin.View())
			b.WriteString(subtleStyle.Render(" sending…"))
		} else {
			b.WriteString(m.composer.View())
		}
		b.WriteString("\n")
	} else {
		b.WriteString(subtleStyle.Render("this conversation is closed"))
		b.WriteString("\n")
	}

	if m.flash != "" {
		b.WriteString(flashStyle.Render(m.flash))
		b.WriteString("\n")
	}
	help := "enter: send · esc: back"
	if len(m.statusActions()) > 0 {
		help = "ctrl+a: status actions · " + help
	}
	if m.user.Role == model.RoleAdmin && m.latestBotMessage() != nil {
		help = "ctrl+r: rate bot reply · " + help
	}
	b.WriteString(subtleStyle.Render(help))
	return b.String()
}

func renderEntry(e conversation.Entry) string {
	name := e.Message.SenderName
	if name == "" {
		if e.Message.IsBot {
			name = "bot"
		} else {
			name = "you"
		}
	}
	line := fmt.Sprintf("%s: %s", name, e.Message.Content)
	switch {
	case e.Pending:
		return pendingBubbleStyle.Render(line + " …")
	case e.Message.IsBot:
		return botBubbleStyle.Render(line)
	default:
		return userBubbleStyle.Render(line)
	}
}
