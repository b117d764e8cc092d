package domain

import (
	"github.com/caredock/sharetoken/internal/errors"
)

// Token lifecycle and authorization errors.
var (
	// ErrTokenNotFound indicates a token with the specified id was not found.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrTokenAlreadyExists indicates an id collision on insert. The issuer
	// retries with a fresh id; this error never reaches callers.
	ErrTokenAlreadyExists = errors.Wrap(errors.ErrConflict, "token already exists")

	// ErrTokenExpired indicates the token's validity window has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrExpired, "token expired")

	// ErrTokenRevoked indicates the token was deactivated by its owner.
	ErrTokenRevoked = errors.Wrap(errors.ErrRevoked, "token revoked")

	// ErrTokenExhausted indicates the token's use budget is spent.
	ErrTokenExhausted = errors.Wrap(errors.ErrExhausted, "token uses exhausted")

	// ErrTokenSubjectMismatch indicates the caller bound the token to a
	// different subject than it was issued for.
	ErrTokenSubjectMismatch = errors.Wrap(errors.ErrSubjectMismatch, "token subject mismatch")

	// ErrNotTokenOwner indicates a revoke or audit request from someone
	// other than the token's subject.
	ErrNotTokenOwner = errors.Wrap(errors.ErrForbidden, "only the token owner may perform this operation")

	// ErrStoreUnavailable indicates the token store could not be reached
	// after bounded retries.
	ErrStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "token store unavailable")
)
