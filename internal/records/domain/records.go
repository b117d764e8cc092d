// Package domain defines the clinical record views the resource gateway
// assembles for token bearers. All types here are read-only projections of
// the external record store; nothing in this module writes clinical data.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile is the patient's summary header.
type PatientProfile struct {
	ID          uuid.UUID
	FullName    string
	DateOfBirth time.Time
	BloodType   string
	Allergies   string
}

// DoctorProfile is the doctor's public booking profile. It carries only what
// a consumer needs to complete a booking, nothing from the doctor's own
// account or schedule internals.
type DoctorProfile struct {
	ID              uuid.UUID
	FullName        string
	Specialization  string
	ConsultationFee int64
	ClinicAddress   string
}

// Appointment is one visit record in a patient summary.
type Appointment struct {
	ID          uuid.UUID
	PatientID   uuid.UUID
	DoctorID    uuid.UUID
	DoctorName  string
	ScheduledAt time.Time
	Status      string
	Notes       string
}

// Prescription is one medication record in a patient summary.
type Prescription struct {
	ID           uuid.UUID
	PatientID    uuid.UUID
	PrescribedBy uuid.UUID
	Medication   string
	Dosage       string
	Instructions string
	IssuedAt     time.Time
}

// PatientSummary is the bounded health record view: the profile plus the
// most recent appointments and prescriptions, each list capped by the
// gateway. The cap is an information-minimization limit; a bearer of a
// record token never sees the full history.
type PatientSummary struct {
	Profile       *PatientProfile
	Appointments  []*Appointment
	Prescriptions []*Prescription
}

// BookingView is what a booking token resolves to: the doctor's public
// profile, enough to pick a slot and confirm a fee.
type BookingView struct {
	Doctor *DoctorProfile
}

// BoundedView is the gateway's response. Exactly one of the two views is
// populated, matching the grant's scope.
type BoundedView struct {
	PatientSummary *PatientSummary
	BookingView    *BookingView
}
