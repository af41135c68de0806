/*
Package user contains the roster entry type and the avatar URL derivation.

A participant is identified only by display name: the protocol carries no user ID,
so two participants that register the same name share a roster entry and an avatar.
*/
package user

import (
	"fmt"
	"net/url"
)

// DefaultAvatarTemplate is the external image-service URL; %s receives the escaped name.
const DefaultAvatarTemplate = "https://avatars.dicebear.com/api/adventurer-neutral/%s.svg"

// PlaceholderAvatar is returned when a message sender has no roster entry.
const PlaceholderAvatar = ""

// Profile represents one entry of the roster.
type Profile struct {
	// Name is the display name, unique per roster and used as the identity key.
	Name string

	// Avatar is the image URL derived from Name.
	Avatar string
}

// AvatarFunc maps a display name to an avatar URL. Implementations must be pure.
type AvatarFunc func(name string) string

// AvatarURL derives the default avatar URL for name.
func AvatarURL(name string) string {
	return AvatarFromTemplate(DefaultAvatarTemplate)(name)
}

// AvatarFromTemplate returns an AvatarFunc that substitutes the path-escaped name into template.
func AvatarFromTemplate(template string) AvatarFunc {
	return func(name string) string {
		return fmt.Sprintf(template, url.PathEscape(name))
	}
}

// NewProfile builds a roster entry for name using avatar.
func NewProfile(name string, avatar AvatarFunc) Profile {
	return Profile{Name: name, Avatar: avatar(name)}
}
