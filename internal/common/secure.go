package common

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// DefaultServerSecret is the placeholder shipped in the default config. A
// server started with it signs its session cookies with a generated secret
// instead.
const DefaultServerSecret = "change-me-usersadmin-secret"

// GenerateSecureRandomString returns a URL-safe random string of the given length.
func GenerateSecureRandomString(length int) (string, error) {
	// base64 expands by 4/3
	bytes := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	encoded := base64.URLEncoding.EncodeToString(bytes)
	return encoded[:length], nil
}

func IsDefaultSecret(secret string) bool {
	return len(secret) == 0 || strings.EqualFold(secret, DefaultServerSecret)
}
