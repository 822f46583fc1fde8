package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moneymentor/advisor/internal/cli/formatter"
	"github.com/moneymentor/advisor/internal/service"
)

// chatModel is the interactive chat loop. Each submitted line runs a
// dialogue turn asynchronously so the UI stays responsive while the
// language model is thinking.
type chatModel struct {
	advisor   service.AdvisorService
	sessionID string

	input    textinput.Model
	messages []string
	waiting  bool
	err      error
}

type turnDoneMsg struct {
	result *service.TurnResult
	err    error
}

func newChatModel(advisor service.AdvisorService, sessionID, welcome string) *chatModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 500

	m := &chatModel{
		advisor:   advisor,
		sessionID: sessionID,
		input:     ti,
	}
	m.messages = append(m.messages, formatter.FormatAssistant(welcome))
	return m
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc || msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		if msg.Type == tea.KeyEnter {
			input := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if input == "" || m.waiting {
				return m, nil
			}
			return m.handleInput(input)
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case turnDoneMsg:
		m.waiting = false
		// Replace the pending placeholder with the actual reply.
		m.messages = m.messages[:len(m.messages)-1]
		if msg.result != nil {
			m.messages = append(m.messages, formatter.FormatAssistant(msg.result.Reply))
		}
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *chatModel) View() string {
	var b strings.Builder

	for _, msg := range m.messages {
		b.WriteString(msg)
		b.WriteString("\n")
	}

	prompt := formatter.StylePurple.Render("advisor") + formatter.Dim("> ")
	b.WriteString(prompt)
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter to send, esc to quit"))

	return b.String()
}

func (m *chatModel) handleInput(input string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(input) {
	case "/quit", "/exit", "/q", "quit", "exit":
		return m, tea.Quit
	}

	m.messages = append(m.messages,
		formatter.FormatUser(input),
		formatter.FormatThinking(),
	)
	m.waiting = true

	return m, func() tea.Msg {
		result, err := m.advisor.ProcessTurn(context.Background(), m.sessionID, input)
		return turnDoneMsg{result: result, err: err}
	}
}
