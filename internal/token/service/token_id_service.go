package service

import (
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/caredock/sharetoken/internal/errors"
)

// tokenIDByteLength is the raw entropy per identifier. 32 bytes (256 bits)
// keeps collisions out of birthday-bound range for any realistic issue volume.
const tokenIDByteLength = 32

// tokenIDService implements TokenIDService with crypto/rand identifiers.
type tokenIDService struct{}

// GenerateID creates a new cryptographically secure 32-byte random identifier.
// The identifier is base64 URL-encoded so it survives QR payloads, links, and
// form posts unescaped.
func (t *tokenIDService) GenerateID() (string, error) {
	randomBytes := make([]byte, tokenIDByteLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate random token id")
	}

	return base64.RawURLEncoding.EncodeToString(randomBytes), nil
}

// NewTokenIDService creates a new TokenIDService instance.
func NewTokenIDService() TokenIDService {
	return &tokenIDService{}
}
