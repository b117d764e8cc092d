// Package usecase implements the resource gateway: it turns a validated
// grant into the bounded clinical view the grant's scope authorizes.
package usecase

import (
	"context"

	"github.com/google/uuid"

	recordsDomain "github.com/caredock/sharetoken/internal/records/domain"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// RecordsRepository defines read-only access to the clinical record store.
// Every list operation is capped at the given limit.
type RecordsRepository interface {
	// GetPatientProfile retrieves a patient's summary header.
	// Returns ErrPatientNotFound if not found.
	GetPatientProfile(ctx context.Context, patientID uuid.UUID) (*recordsDomain.PatientProfile, error)

	// GetDoctorProfile retrieves a doctor's public booking profile.
	// Returns ErrDoctorNotFound if not found.
	GetDoctorProfile(ctx context.Context, doctorID uuid.UUID) (*recordsDomain.DoctorProfile, error)

	// ListRecentAppointments returns a patient's most recent appointments, newest first.
	ListRecentAppointments(ctx context.Context, patientID uuid.UUID, limit int) ([]*recordsDomain.Appointment, error)

	// ListRecentPrescriptions returns a patient's most recent prescriptions, newest first.
	ListRecentPrescriptions(ctx context.Context, patientID uuid.UUID, limit int) ([]*recordsDomain.Prescription, error)
}

// RecordsUseCase defines the gateway operation. It performs no authorization
// of its own: a grant is proof that validation already happened, and the
// gateway never re-derives one from raw input.
type RecordsUseCase interface {
	// Resolve assembles the bounded view the grant's scope authorizes.
	Resolve(ctx context.Context, grant *tokenDomain.ResourceGrant) (*recordsDomain.BoundedView, error)
}
