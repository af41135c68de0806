package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"chatlink/internal/app/transport"
)

// minInboxSize covers the state changes Dial reports before any Program is running.
const minInboxSize = 2

// Sender is the part of *tea.Program the Inbox needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Inbox queues channel events in arrival order until a Program can take them.
// Frame and State block when the queue is full, which pushes back on the read pump
// instead of dropping or reordering frames.
type Inbox struct {
	events chan tea.Msg
}

// NewInbox creates an Inbox holding up to size pending events.
func NewInbox(size int) *Inbox {
	return &Inbox{events: make(chan tea.Msg, max(size, minInboxSize))}
}

// Frame is a transport.FrameHandler.
func (i *Inbox) Frame(text string) {
	i.events <- FrameMsg{Text: text}
}

// State is a transport.StateHandler.
func (i *Inbox) State(s transport.State) {
	i.events <- StateMsg{State: s}
}

// Forward delivers queued events to p until ctx is done.
func (i *Inbox) Forward(ctx context.Context, p Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-i.events:
			p.Send(ev)
		}
	}
}
