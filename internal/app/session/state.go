package session

import (
	"slices"

	"github.com/samber/lo"

	"chatlink/internal/app/protocol"
	"chatlink/internal/app/user"
)

// State is the data a Renderer reads: who is online and what has been said.
type State struct {
	// LocalUsername is fixed when the session is created.
	LocalUsername string

	// Roster is the last Users snapshot, in server order.
	Roster []user.Profile

	// Log holds chat messages in arrival order. Entries are never changed or removed.
	Log []protocol.ChatMessage
}

// Reduce applies one decoded envelope to s and reports whether a re-render is needed.
// It never modifies s; on error the returned State is s unchanged.
func Reduce(s State, env protocol.Envelope, avatar user.AvatarFunc) (State, bool, error) {
	switch e := env.(type) {
	case protocol.Users:
		next := s
		next.Roster = lo.Map(e.Names, func(name string, _ int) user.Profile {
			return user.NewProfile(name, avatar)
		})
		return next, true, nil

	case protocol.Message:
		cm, ok, err := e.ChatMessage()
		if err != nil {
			return s, false, err
		}
		if !ok {
			return s, false, nil
		}
		next := s
		next.Log = append(slices.Clip(s.Log), cm)
		return next, true, nil

	default:
		return s, false, nil
	}
}

// clone returns a deep copy of s.
func (s State) clone() State {
	return State{
		LocalUsername: s.LocalUsername,
		Roster:        slices.Clone(s.Roster),
		Log:           slices.Clone(s.Log),
	}
}
