package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const resetTokenBytes = 32

// NewResetToken returns 32 random bytes encoded as unpadded base64url.
func NewResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
