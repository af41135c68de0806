/*
Package ui renders a chat session in the terminal with Bubble Tea.

The Bubble Tea update loop is the only goroutine that touches the session: inbound frames
and connection state changes are delivered to it as messages (FrameMsg, StateMsg), and
keyboard input is turned into Session.Submit calls.
*/
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatlink/internal/app/session"
	"chatlink/internal/app/transport"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	sidebarWidth = 24

	// header + input line + borders
	chromeHeight = 5

	inputCharLimit = 2000
)

// FrameMsg carries one inbound text frame from the channel.
type FrameMsg struct {
	Text string
}

// StateMsg reports a connection state change.
type StateMsg struct {
	State transport.State
}

// Model is the Bubble Tea model for one chat session.
type Model struct {
	session  *session.Session
	input    textinput.Model
	messages viewport.Model
	status   transport.State

	width  int
	height int
}

// New builds the model for s.
func New(s *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = inputCharLimit
	ti.Focus()

	m := Model{
		session:  s,
		input:    ti,
		messages: viewport.New(defaultWidth-sidebarWidth, defaultHeight-chromeHeight),
		status:   transport.StateConnecting,
	}
	m.resize(defaultWidth, defaultHeight)

	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case FrameMsg:
		if m.session.HandleFrame(msg.Text) {
			m.refreshMessages()
		}
		return m, nil

	case StateMsg:
		m.status = msg.State
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.session.Submit(m.input.Value()) {
				m.input.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if scrollsMessages(msg) {
		m.messages, cmd = m.messages.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// scrollsMessages keeps typed characters out of the viewport's own key bindings.
func scrollsMessages(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return true
	case tea.KeyMsg:
		return msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown
	default:
		return false
	}
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	m.messages.Width = max(width-sidebarWidth-2, 10)
	m.messages.Height = max(height-chromeHeight, 3)
	m.input.Width = max(width-sidebarWidth-6, 10)

	m.refreshMessages()
}

func (m *Model) refreshMessages() {
	m.messages.SetContent(renderLines(m.session.Lines(), m.messages.Width))
	m.messages.GotoBottom()
}
