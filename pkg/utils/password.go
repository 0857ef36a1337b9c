package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// TemporaryPasswordValidity is how long a dealer's generated password stays
// usable before a change is forced.
const TemporaryPasswordValidity = 72 * time.Hour

// GenerateTemporaryPassword returns a 16-character uppercase hex password
// for freshly provisioned dealer accounts.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
