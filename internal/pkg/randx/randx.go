/*
Package randx provides functions for generating cryptographically secure random values.

It is used to pick a default display name when none is configured and to generate
the UUID that tags every log line written by one chat session.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const (
	// Base62Chars defines the character set used for Base62 encoding (0-9, A-Z, a-z).
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// Base62Len is the total number of characters in the Base62 character set (62).
	Base62Len = int64(len(Base62Chars))

	// NicknamePrefix is prepended to generated nicknames.
	NicknamePrefix = "User_"

	// NicknameRandomLength is the number of random Base62 characters in a generated nickname.
	NicknameRandomLength = 6
)

// SessionID generates a standard UUID v4 string identifying one client session.
func SessionID() string {
	return uuid.New().String()
}

// UserNickname generates a random nickname with a "User_" prefix and 6 random Base62 characters.
func UserNickname() (string, error) {
	result := make([]byte, NicknameRandomLength)

	for i := 0; i < NicknameRandomLength; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(Base62Len))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number for nickname: %v", err)
		}
		result[i] = Base62Chars[num.Int64()]
	}

	return NicknamePrefix + string(result), nil
}
