package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatlink/internal/app/session"
	"chatlink/internal/app/transport"
	"chatlink/internal/app/user"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4C1D95")).
			Background(lipgloss.Color("#DDD6FE")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")).
			Padding(0, 1)

	sidebarTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6D28D9"))

	senderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	localStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A78BFA")).
			Padding(0, 1)

	statusStyles = map[transport.State]lipgloss.Style{
		transport.StateConnecting: lipgloss.NewStyle().Foreground(lipgloss.Color("#CA8A04")),
		transport.StateOpen:       lipgloss.NewStyle().Foreground(lipgloss.Color("#15803D")),
		transport.StateClosed:     lipgloss.NewStyle().Foreground(lipgloss.Color("#B91C1C")),
	}
)

func (m Model) View() string {
	header := headerStyle.Width(m.width).Render(
		fmt.Sprintf("Chat as %s  %s", m.session.LocalUsername(), m.statusLabel()),
	)

	sidebar := sidebarStyle.Height(m.messages.Height + 2).Render(renderRoster(m.session.Snapshot().Roster))

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.messages.View(),
		inputStyle.Width(m.messages.Width).Render(m.input.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main),
	)
}

func (m Model) statusLabel() string {
	label := "● " + m.status.String()
	if m.status == transport.StateClosed {
		label = "○ disconnected"
	}
	return statusStyles[m.status].Render(label)
}

// Terminals cannot draw the avatar image, so the avatar shows as a marker:
// filled for a known avatar, hollow for the placeholder of a sender missing from the roster.
const (
	avatarMarker      = "●"
	placeholderMarker = "○"
)

func avatarGlyph(avatar string) string {
	if avatar == user.PlaceholderAvatar {
		return placeholderMarker
	}
	return avatarMarker
}

func renderRoster(roster []user.Profile) string {
	var b strings.Builder

	b.WriteString(sidebarTitleStyle.Render(fmt.Sprintf("Users (%d)", len(roster))))
	for _, p := range roster {
		b.WriteString("\n")
		b.WriteString(avatarGlyph(p.Avatar) + " " + p.Name)
	}

	return b.String()
}

// renderLines lays out the log: local messages right-aligned, others left with the sender's marker and name.
func renderLines(lines []session.Line, width int) string {
	right := lipgloss.NewStyle().Width(width).Align(lipgloss.Right)
	left := lipgloss.NewStyle().Width(width).Align(lipgloss.Left)

	rendered := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Local {
			rendered = append(rendered, right.Render(localStyle.Render(l.Text)))
			continue
		}
		rendered = append(rendered, left.Render(avatarGlyph(l.Avatar)+" "+senderStyle.Render(l.From+":")+" "+l.Text))
	}

	return strings.Join(rendered, "\n")
}
