package service

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"

	apperrors "github.com/caredock/sharetoken/internal/errors"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// QRPayload is the decoded form of the opaque string embedded in a QR code
// or sharing link. The rendering service treats the encoded form as opaque;
// scanners hand it back for parsing before calling validate.
type QRPayload struct {
	TokenID   string            `json:"token_id"`
	Scope     tokenDomain.Scope `json:"scope"`
	SubjectID uuid.UUID         `json:"subject_id"`
}

// qrPayloadService implements QRPayloadService with base64url-encoded JSON.
type qrPayloadService struct{}

// BuildPayload serializes the token's identity triple into the opaque payload
// string. Only what the consumer needs to start a redemption goes in; counts,
// expiry, and the access log stay server-side.
func (q *qrPayloadService) BuildPayload(token *tokenDomain.Token) (string, error) {
	payload := QRPayload{
		TokenID:   token.ID,
		Scope:     token.Scope,
		SubjectID: token.SubjectID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to marshal qr payload")
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// ParsePayload decodes a scanned payload string. Returns ErrInvalidInput for
// anything that is not a well-formed payload, without touching the store.
func (q *qrPayloadService) ParsePayload(payload string) (*QRPayload, error) {
	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed qr payload encoding")
	}

	var decoded QRPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "malformed qr payload")
	}

	if decoded.TokenID == "" || !decoded.Scope.IsValid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "incomplete qr payload")
	}

	return &decoded, nil
}

// NewQRPayloadService creates a new QRPayloadService instance.
func NewQRPayloadService() QRPayloadService {
	return &qrPayloadService{}
}
