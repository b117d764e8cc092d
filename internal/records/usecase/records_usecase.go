package usecase

import (
	"context"

	"github.com/caredock/sharetoken/internal/config"
	recordsDomain "github.com/caredock/sharetoken/internal/records/domain"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// recordsUseCase implements RecordsUseCase over the clinical record store.
type recordsUseCase struct {
	config      *config.Config
	recordsRepo RecordsRepository
}

// Resolve assembles the bounded view for a grant.
//
// For a health record grant: the patient's profile plus the most recent
// appointments and prescriptions, both capped at Config.RecordFetchLimit.
// For a booking grant: the doctor's public profile.
//
// The grant is trusted as-is; the validator already enforced every token
// constraint before producing it.
func (r *recordsUseCase) Resolve(
	ctx context.Context,
	grant *tokenDomain.ResourceGrant,
) (*recordsDomain.BoundedView, error) {
	// The whole view is read against one deadline so a wedged store cannot
	// hang the redeemer that already spent a use.
	storeCtx, cancel := context.WithTimeout(ctx, r.config.StoreTimeout)
	defer cancel()

	switch grant.Scope {
	case tokenDomain.ScopeReadHealthRecord:
		return r.resolvePatientSummary(storeCtx, grant)
	case tokenDomain.ScopeBookingWithDoctor:
		return r.resolveBookingView(storeCtx, grant)
	default:
		return nil, recordsDomain.ErrUnknownScope
	}
}

func (r *recordsUseCase) resolvePatientSummary(
	ctx context.Context,
	grant *tokenDomain.ResourceGrant,
) (*recordsDomain.BoundedView, error) {
	profile, err := r.recordsRepo.GetPatientProfile(ctx, grant.SubjectID)
	if err != nil {
		return nil, err
	}

	limit := r.config.RecordFetchLimit

	appointments, err := r.recordsRepo.ListRecentAppointments(ctx, grant.SubjectID, limit)
	if err != nil {
		return nil, err
	}

	prescriptions, err := r.recordsRepo.ListRecentPrescriptions(ctx, grant.SubjectID, limit)
	if err != nil {
		return nil, err
	}

	return &recordsDomain.BoundedView{
		PatientSummary: &recordsDomain.PatientSummary{
			Profile:       profile,
			Appointments:  appointments,
			Prescriptions: prescriptions,
		},
	}, nil
}

func (r *recordsUseCase) resolveBookingView(
	ctx context.Context,
	grant *tokenDomain.ResourceGrant,
) (*recordsDomain.BoundedView, error) {
	doctor, err := r.recordsRepo.GetDoctorProfile(ctx, grant.SubjectID)
	if err != nil {
		return nil, err
	}

	return &recordsDomain.BoundedView{
		BookingView: &recordsDomain.BookingView{
			Doctor: doctor,
		},
	}, nil
}

// NewRecordsUseCase creates a new RecordsUseCase with the provided dependencies.
func NewRecordsUseCase(config *config.Config, recordsRepo RecordsRepository) RecordsUseCase {
	return &recordsUseCase{
		config:      config,
		recordsRepo: recordsRepo,
	}
}
