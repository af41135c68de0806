package randx

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUserNickname(t *testing.T) {
	req := require.New(t)

	name, err := UserNickname()

	req.NoError(err)
	req.True(strings.HasPrefix(name, NicknamePrefix))
	req.Len(name, len(NicknamePrefix)+NicknameRandomLength)
	for _, c := range strings.TrimPrefix(name, NicknamePrefix) {
		req.True(strings.ContainsRune(Base62Chars, c))
	}
}

func TestSessionID(t *testing.T) {
	req := require.New(t)

	a, b := SessionID(), SessionID()

	_, err := uuid.Parse(a)
	req.NoError(err)
	req.NotEqual(a, b)
}
