/*
Package session holds the client-side chat state and the logic that changes it.

A Session owns the roster, the message log and the local identity. Inbound frames go
through HandleFrame, which decodes them and applies Reduce; local input goes through
Submit, which builds an outbound Message and hands it to the Channel.

A Session is not safe for concurrent use. All calls must come from one event loop,
in the order the channel delivered the frames.
*/
package session

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"chatlink/internal/app/protocol"
	"chatlink/internal/app/user"
	"chatlink/internal/pkg/errs"
	"chatlink/internal/pkg/logx"
	"chatlink/internal/pkg/randx"
)

// Session is one chat session bound to one channel.
type Session struct {
	// id tags every log line of this session.
	id string

	state   State
	channel Channel
	avatar  user.AvatarFunc

	logger zerolog.Logger
}

// Option customizes a Session at construction.
type Option func(*Session)

// WithAvatar replaces the avatar URL function used for roster entries.
func WithAvatar(avatar user.AvatarFunc) Option {
	return func(s *Session) {
		s.avatar = avatar
	}
}

// WithID sets the session ID instead of generating one.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New creates a session for username and immediately submits a Register envelope on channel.
// A failed registration is logged and otherwise ignored; there is no retry and no acknowledgement.
func New(username string, channel Channel, opts ...Option) (*Session, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errs.NewError(errs.ErrInvalidUsername)
	}

	s := &Session{
		id:      randx.SessionID(),
		state:   State{LocalUsername: username},
		channel: channel,
		avatar:  user.AvatarURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = logx.Component("session").With().
		Str("session_id", s.id).
		Str("username", username).
		Logger()

	s.register()

	return s, nil
}

func (s *Session) register() {
	frame := protocol.Encode(protocol.Register{Username: s.state.LocalUsername})

	if err := s.channel.Send(frame); err != nil {
		s.logger.Error().Err(err).Msg("Failed to submit registration.")
		return
	}

	s.logger.Debug().Msg("Registered user.")
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// LocalUsername returns the name this session registered with.
func (s *Session) LocalUsername() string {
	return s.state.LocalUsername
}

// HandleFrame decodes and applies one inbound text frame and reports whether a re-render is needed.
// Malformed frames are logged and dropped without touching the state.
func (s *Session) HandleFrame(text string) bool {
	env, err := protocol.Decode(text)
	if err != nil {
		s.logger.Warn().Err(err).
			Int("error_code", errs.CodeOf(err)).
			Int("frame_bytes", len(text)).
			Msg("Dropping undecodable frame.")
		return false
	}

	if env.Type() == protocol.TypeRegister {
		s.logger.Debug().Msg("Ignoring inbound register frame.")
	}

	next, render, err := Reduce(s.state, env, s.avatar)
	if err != nil {
		s.logger.Warn().Err(err).
			Int("error_code", errs.CodeOf(err)).
			Str("msg_type", string(env.Type())).
			Msg("Dropping frame with malformed payload.")
		return false
	}

	s.state = next
	return render
}

// Submit sends raw as a chat message unless it is blank after trimming.
// The text is sent untrimmed. The returned value reports whether the input field should be
// cleared, which is true for every non-blank submit, whether or not the send succeeded.
// The message is not added to the log; it appears only when the server echoes it back.
func (s *Session) Submit(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}

	frame := protocol.Encode(protocol.NewMessage(raw))
	if err := s.channel.Send(frame); err != nil {
		s.logger.Error().Err(err).
			Int("error_code", errs.CodeOf(err)).
			Msg("Failed to submit message. Dropping it.")
	}

	return true
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	return s.state.clone()
}

// Line is one log entry prepared for display.
type Line struct {
	From string
	Text string

	// Local is true when the message was sent under the local username.
	Local bool

	// Avatar is the sender's roster avatar, or user.PlaceholderAvatar if the sender is not in the roster.
	Avatar string
}

// Lines returns the log with sender attribution resolved against the local name and the roster.
func (s *Session) Lines() []Line {
	return lo.Map(s.state.Log, func(m protocol.ChatMessage, _ int) Line {
		return Line{
			From:   m.From,
			Text:   m.Text,
			Local:  m.From == s.state.LocalUsername,
			Avatar: s.AvatarFor(m.From),
		}
	})
}

// AvatarFor returns the roster avatar of name, or user.PlaceholderAvatar when name is not in the roster.
func (s *Session) AvatarFor(name string) string {
	p, ok := lo.Find(s.state.Roster, func(p user.Profile) bool {
		return p.Name == name
	})
	if !ok {
		return user.PlaceholderAvatar
	}
	return p.Avatar
}
