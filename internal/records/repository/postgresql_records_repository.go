// Package repository implements read-only access to the clinical record store
// for PostgreSQL and MySQL. Every list query carries a hard LIMIT; the gateway
// never pulls a full history.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/caredock/sharetoken/internal/database"
	apperrors "github.com/caredock/sharetoken/internal/errors"
	recordsDomain "github.com/caredock/sharetoken/internal/records/domain"
)

// PostgreSQLRecordsRepository implements clinical record reads for PostgreSQL.
type PostgreSQLRecordsRepository struct {
	db *sql.DB
}

// GetPatientProfile retrieves a patient's summary header.
// Returns ErrPatientNotFound if no patient with the id exists.
func (p *PostgreSQLRecordsRepository) GetPatientProfile(
	ctx context.Context,
	patientID uuid.UUID,
) (*recordsDomain.PatientProfile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, full_name, date_of_birth, blood_type, allergies
			  FROM patients WHERE id = $1`

	var profile recordsDomain.PatientProfile

	err := querier.QueryRowContext(ctx, query, patientID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.DateOfBirth,
		&profile.BloodType,
		&profile.Allergies,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordsDomain.ErrPatientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get patient profile")
	}

	return &profile, nil
}

// GetDoctorProfile retrieves a doctor's public booking profile.
// Returns ErrDoctorNotFound if no doctor with the id exists.
func (p *PostgreSQLRecordsRepository) GetDoctorProfile(
	ctx context.Context,
	doctorID uuid.UUID,
) (*recordsDomain.DoctorProfile, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, full_name, specialization, consultation_fee, clinic_address
			  FROM doctors WHERE id = $1`

	var profile recordsDomain.DoctorProfile

	err := querier.QueryRowContext(ctx, query, doctorID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.Specialization,
		&profile.ConsultationFee,
		&profile.ClinicAddress,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, recordsDomain.ErrDoctorNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get doctor profile")
	}

	return &profile, nil
}

// ListRecentAppointments returns a patient's most recent appointments,
// newest first, capped at limit.
func (p *PostgreSQLRecordsRepository) ListRecentAppointments(
	ctx context.Context,
	patientID uuid.UUID,
	limit int,
) ([]*recordsDomain.Appointment, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT a.id, a.patient_id, a.doctor_id, d.full_name, a.scheduled_at, a.status, a.notes
			  FROM appointments a
			  JOIN doctors d ON d.id = a.doctor_id
			  WHERE a.patient_id = $1
			  ORDER BY a.scheduled_at DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, patientID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointments")
	}
	defer func() { _ = rows.Close() }()

	var appointments []*recordsDomain.Appointment
	for rows.Next() {
		var appointment recordsDomain.Appointment
		if err := rows.Scan(
			&appointment.ID,
			&appointment.PatientID,
			&appointment.DoctorID,
			&appointment.DoctorName,
			&appointment.ScheduledAt,
			&appointment.Status,
			&appointment.Notes,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan appointment")
		}
		appointments = append(appointments, &appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate appointments")
	}

	return appointments, nil
}

// ListRecentPrescriptions returns a patient's most recent prescriptions,
// newest first, capped at limit.
func (p *PostgreSQLRecordsRepository) ListRecentPrescriptions(
	ctx context.Context,
	patientID uuid.UUID,
	limit int,
) ([]*recordsDomain.Prescription, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, patient_id, prescribed_by, medication, dosage, instructions, issued_at
			  FROM prescriptions
			  WHERE patient_id = $1
			  ORDER BY issued_at DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, patientID, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list prescriptions")
	}
	defer func() { _ = rows.Close() }()

	var prescriptions []*recordsDomain.Prescription
	for rows.Next() {
		var prescription recordsDomain.Prescription
		if err := rows.Scan(
			&prescription.ID,
			&prescription.PatientID,
			&prescription.PrescribedBy,
			&prescription.Medication,
			&prescription.Dosage,
			&prescription.Instructions,
			&prescription.IssuedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan prescription")
		}
		prescriptions = append(prescriptions, &prescription)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate prescriptions")
	}

	return prescriptions, nil
}

// NewPostgreSQLRecordsRepository creates a new PostgreSQL records repository.
func NewPostgreSQLRecordsRepository(db *sql.DB) *PostgreSQLRecordsRepository {
	return &PostgreSQLRecordsRepository{db: db}
}
