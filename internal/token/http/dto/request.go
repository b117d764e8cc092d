// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/caredock/sharetoken/internal/validation"
)

// IssueTokenRequest contains the parameters for issuing a new access token.
type IssueTokenRequest struct {
	SubjectID  string `json:"subject_id"`
	Scope      string `json:"scope"`
	TTLSeconds int64  `json:"ttl_seconds"`
	MaxUses    *int   `json:"max_uses"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SubjectID,
			validation.Required,
			customValidation.UUID,
		),
		validation.Field(&r.Scope,
			validation.Required,
			validation.In("booking_with_doctor", "read_health_record"),
		),
		validation.Field(&r.TTLSeconds,
			validation.Required,
			validation.Min(int64(1)),
		),
		validation.Field(&r.MaxUses,
			validation.Min(1),
		),
	)
}

// ValidateTokenRequest contains the parameters for redeeming a token.
// ExpectedSubjectID is optional; when present the validator rejects a token
// bound to a different subject without spending a use.
type ValidateTokenRequest struct {
	TokenID           string `json:"token_id"`
	ConsumerID        string `json:"consumer_id"`
	ExpectedSubjectID string `json:"expected_subject_id"`
}

// Validate checks if the validate token request is valid.
func (r *ValidateTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TokenID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.ConsumerID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ExpectedSubjectID,
			validation.When(r.ExpectedSubjectID != "", customValidation.UUID),
		),
	)
}

// RevokeTokenRequest contains the parameters for revoking a token.
type RevokeTokenRequest struct {
	TokenID     string `json:"token_id"`
	RequestedBy string `json:"requested_by"`
}

// Validate checks if the revoke token request is valid.
func (r *RevokeTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.TokenID,
			validation.Required,
			customValidation.NotBlank,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.RequestedBy,
			validation.Required,
			customValidation.UUID,
		),
	)
}

// RedeemTokenRequest contains the parameters for the one-shot scan flow:
// the raw payload from a scanned QR code plus the consumer's identity.
type RedeemTokenRequest struct {
	QRPayload         string `json:"qr_payload"`
	ConsumerID        string `json:"consumer_id"`
	ExpectedSubjectID string `json:"expected_subject_id"`
}

// Validate checks if the redeem token request is valid.
func (r *RedeemTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.QRPayload,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ConsumerID,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ExpectedSubjectID,
			validation.When(r.ExpectedSubjectID != "", customValidation.UUID),
		),
	)
}
