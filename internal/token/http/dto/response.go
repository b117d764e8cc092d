package dto

import (
	"time"

	recordsDomain "github.com/caredock/sharetoken/internal/records/domain"
	tokenDomain "github.com/caredock/sharetoken/internal/token/domain"
)

// IssueTokenResponse contains the result of issuing a token.
// The token id and payload are only returned here, once.
type IssueTokenResponse struct {
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
	QRPayload string    `json:"qr_payload"`
}

// MapIssueOutputToResponse converts an issue result to an API response.
func MapIssueOutputToResponse(output *tokenDomain.IssueTokenOutput) IssueTokenResponse {
	return IssueTokenResponse{
		TokenID:   output.Token.ID,
		ExpiresAt: output.Token.ExpiresAt,
		QRPayload: output.QRPayload,
	}
}

// ValidateTokenResponse contains the grant produced by a successful redemption.
type ValidateTokenResponse struct {
	SubjectID string `json:"subject_id"`
	Scope     string `json:"scope"`
}

// MapGrantToResponse converts a resource grant to an API response.
func MapGrantToResponse(grant *tokenDomain.ResourceGrant) ValidateTokenResponse {
	return ValidateTokenResponse{
		SubjectID: grant.SubjectID.String(),
		Scope:     string(grant.Scope),
	}
}

// RevokeTokenResponse confirms a revocation.
type RevokeTokenResponse struct {
	OK bool `json:"ok"`
}

// AccessLogEntryResponse represents one redemption in API responses.
type AccessLogEntryResponse struct {
	ConsumerID string    `json:"consumer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListAccessLogResponse represents a token's redemption history, newest first.
type ListAccessLogResponse struct {
	Data []AccessLogEntryResponse `json:"data"`
}

// MapAccessLogToResponse converts redemption records to a list API response.
func MapAccessLogToResponse(entries []*tokenDomain.AccessLogEntry) ListAccessLogResponse {
	entryResponses := make([]AccessLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryResponses = append(entryResponses, AccessLogEntryResponse{
			ConsumerID: entry.ConsumerID,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return ListAccessLogResponse{
		Data: entryResponses,
	}
}

// DoctorProfileResponse represents a doctor's public booking profile.
type DoctorProfileResponse struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Specialization  string `json:"specialization"`
	ConsultationFee int64  `json:"consultation_fee"`
	ClinicAddress   string `json:"clinic_address"`
}

// PatientProfileResponse represents a patient's summary header.
type PatientProfileResponse struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	BloodType   string    `json:"blood_type"`
	Allergies   string    `json:"allergies"`
}

// AppointmentResponse represents one visit in a patient summary.
type AppointmentResponse struct {
	DoctorName  string    `json:"doctor_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
}

// PrescriptionResponse represents one medication in a patient summary.
type PrescriptionResponse struct {
	Medication   string    `json:"medication"`
	Dosage       string    `json:"dosage"`
	Instructions string    `json:"instructions"`
	IssuedAt     time.Time `json:"issued_at"`
}

// PatientSummaryResponse is the bounded health record view.
type PatientSummaryResponse struct {
	Profile       PatientProfileResponse `json:"profile"`
	Appointments  []AppointmentResponse  `json:"appointments"`
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
}

// RedeemTokenResponse is the one-shot scan result: the grant plus the
// bounded view it authorizes.
type RedeemTokenResponse struct {
	SubjectID      string                  `json:"subject_id"`
	Scope          string                  `json:"scope"`
	Doctor         *DoctorProfileResponse  `json:"doctor,omitempty"`
	PatientSummary *PatientSummaryResponse `json:"patient_summary,omitempty"`
}

// MapBoundedViewToRedeemResponse converts a grant and its resolved view to
// the redeem API response.
func MapBoundedViewToRedeemResponse(
	grant *tokenDomain.ResourceGrant,
	view *recordsDomain.BoundedView,
) RedeemTokenResponse {
	response := RedeemTokenResponse{
		SubjectID: grant.SubjectID.String(),
		Scope:     string(grant.Scope),
	}

	if view.BookingView != nil {
		response.Doctor = &DoctorProfileResponse{
			ID:              view.BookingView.Doctor.ID.String(),
			FullName:        view.BookingView.Doctor.FullName,
			Specialization:  view.BookingView.Doctor.Specialization,
			ConsultationFee: view.BookingView.Doctor.ConsultationFee,
			ClinicAddress:   view.BookingView.Doctor.ClinicAddress,
		}
	}

	if view.PatientSummary != nil {
		summary := &PatientSummaryResponse{
			Profile: PatientProfileResponse{
				ID:          view.PatientSummary.Profile.ID.String(),
				FullName:    view.PatientSummary.Profile.FullName,
				DateOfBirth: view.PatientSummary.Profile.DateOfBirth,
				BloodType:   view.PatientSummary.Profile.BloodType,
				Allergies:   view.PatientSummary.Profile.Allergies,
			},
			Appointments:  make([]AppointmentResponse, 0, len(view.PatientSummary.Appointments)),
			Prescriptions: make([]PrescriptionResponse, 0, len(view.PatientSummary.Prescriptions)),
		}
		for _, appointment := range view.PatientSummary.Appointments {
			summary.Appointments = append(summary.Appointments, AppointmentResponse{
				DoctorName:  appointment.DoctorName,
				ScheduledAt: appointment.ScheduledAt,
				Status:      appointment.Status,
				Notes:       appointment.Notes,
			})
		}
		for _, prescription := range view.PatientSummary.Prescriptions {
			summary.Prescriptions = append(summary.Prescriptions, PrescriptionResponse{
				Medication:   prescription.Medication,
				Dosage:       prescription.Dosage,
				Instructions: prescription.Instructions,
				IssuedAt:     prescription.IssuedAt,
			})
		}
		response.PatientSummary = summary
	}

	return response
}
