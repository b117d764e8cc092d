// Package service provides token identifier generation and QR payload encoding.
package service

import (
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// TokenIDService generates opaque token identifiers.
type TokenIDService interface {
	// GenerateID returns a fresh cryptographically random identifier.
	GenerateID() (string, error)
}

// QRPayloadService encodes tokens into the opaque string a QR renderer turns
// into a scannable image, and decodes scanned payloads back.
type QRPayloadService interface {
	BuildPayload(token *tokenDomain.Token) (string, error)
	ParsePayload(payload string) (*QRPayload, error)
}
