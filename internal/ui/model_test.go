package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"chatlink/internal/app/protocol"
	"chatlink/internal/app/session"
	"chatlink/internal/app/transport"
	"chatlink/internal/pkg/errs"
)

type recordingChannel struct {
	frames []string
	err    error
}

func (c *recordingChannel) Send(text string) error {
	if c.err != nil {
		return c.err
	}
	c.frames = append(c.frames, text)
	return nil
}

func newModel(t *testing.T, ch *recordingChannel) Model {
	t.Helper()

	s, err := session.New("alice", ch)
	require.NoError(t, err)
	return New(s)
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func frame(env protocol.Envelope) FrameMsg {
	return FrameMsg{Text: protocol.Encode(env)}
}

func TestModel_InboundFramesRender(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	m = update(m, frame(protocol.Users{Names: []string{"alice", "bob"}}))
	m = update(m, frame(protocol.NewRelayedMessage(protocol.ChatMessage{From: "bob", Text: "hi"})))
	m = update(m, FrameMsg{Text: "not json"})

	view := m.View()
	req.Contains(view, "Users (2)")
	req.Contains(view, "bob: hi")
}

func TestModel_AvatarMarkers(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	m = update(m, frame(protocol.Users{Names: []string{"alice", "bob"}}))
	m = update(m, frame(protocol.NewRelayedMessage(protocol.ChatMessage{From: "bob", Text: "hi"})))
	m = update(m, frame(protocol.NewRelayedMessage(protocol.ChatMessage{From: "ghost", Text: "boo"})))

	view := m.View()
	req.Contains(view, avatarMarker+" bob")
	req.Contains(view, avatarMarker+" bob: hi")
	req.Contains(view, placeholderMarker+" ghost: boo")
	req.NotContains(view, placeholderMarker+" bob")
}

func TestModel_EnterSubmitsAndClears(t *testing.T) {
	req := require.New(t)
	ch := &recordingChannel{}
	m := newModel(t, ch)
	req.Len(ch.frames, 1, "register frame")

	m.input.SetValue("yo")
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	req.Equal("", m.input.Value())
	req.Equal([]string{
		protocol.Encode(protocol.Register{Username: "alice"}),
		protocol.Encode(protocol.NewMessage("yo")),
	}, ch.frames)
	req.Empty(m.session.Snapshot().Log)
}

func TestModel_EnterOnBlankKeepsInput(t *testing.T) {
	req := require.New(t)
	ch := &recordingChannel{}
	m := newModel(t, ch)

	m.input.SetValue("   ")
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	req.Equal("   ", m.input.Value())
	req.Len(ch.frames, 1)
}

func TestModel_ClearsInputWhenSendFails(t *testing.T) {
	req := require.New(t)
	ch := &recordingChannel{}
	m := newModel(t, ch)
	ch.err = errs.NewError(errs.ErrChannelClosed)

	m.input.SetValue("hello")
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	req.Equal("", m.input.Value())
}

func TestModel_LocalMessagesAlignRight(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	m = update(m, frame(protocol.NewRelayedMessage(protocol.ChatMessage{From: "alice", Text: "mine"})))

	var line string
	for _, l := range strings.Split(m.messages.View(), "\n") {
		if strings.Contains(l, "mine") {
			line = l
		}
	}
	req.NotEmpty(line)
	req.True(strings.HasSuffix(strings.TrimRight(line, " "), "mine"))
	req.True(strings.HasPrefix(line, " "))
	req.NotContains(line, "alice:")
}

func TestModel_StatusIndicator(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	req.Contains(m.View(), "connecting")

	m = update(m, StateMsg{State: transport.StateOpen})
	req.Contains(m.View(), "open")

	m = update(m, StateMsg{State: transport.StateClosed})
	req.Contains(m.View(), "disconnected")
}

func TestModel_Quit(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})

		req.NotNil(cmd)
		req.Equal(tea.Quit(), cmd())
	}
}

func TestModel_Resize(t *testing.T) {
	req := require.New(t)
	m := newModel(t, &recordingChannel{})

	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	req.Equal(120-sidebarWidth-2, m.messages.Width)
	req.Equal(40-chromeHeight, m.messages.Height)
}
