package domain

import (
	"github.com/caredock/sharetoken/internal/errors"
)

var (
	// ErrPatientNotFound indicates the grant's subject has no patient profile.
	ErrPatientNotFound = errors.Wrap(errors.ErrNotFound, "patient not found")

	// ErrDoctorNotFound indicates the grant's subject has no doctor profile.
	ErrDoctorNotFound = errors.Wrap(errors.ErrNotFound, "doctor not found")

	// ErrUnknownScope indicates a grant with a scope the gateway cannot resolve.
	ErrUnknownScope = errors.Wrap(errors.ErrInvalidInput, "unknown grant scope")
)
