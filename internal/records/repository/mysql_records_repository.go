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

// MySQLRecordsRepository implements clinical record reads for MySQL.
// UUID columns are stored as CHAR(36) and parsed on scan.
type MySQLRecordsRepository struct {
	db *sql.DB
}

// GetPatientProfile retrieves a patient's summary header.
// Returns ErrPatientNotFound if no patient with the id exists.
func (m *MySQLRecordsRepository) GetPatientProfile(
	ctx context.Context,
	patientID uuid.UUID,
) (*recordsDomain.PatientProfile, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, full_name, date_of_birth, blood_type, allergies
			  FROM patients WHERE id = ?`

	var profile recordsDomain.PatientProfile
	var id string

	err := querier.QueryRowContext(ctx, query, patientID.String()).Scan(
		&id,
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

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse patient id")
	}
	profile.ID = parsedID

	return &profile, nil
}

// GetDoctorProfile retrieves a doctor's public booking profile.
// Returns ErrDoctorNotFound if no doctor with the id exists.
func (m *MySQLRecordsRepository) GetDoctorProfile(
	ctx context.Context,
	doctorID uuid.UUID,
) (*recordsDomain.DoctorProfile, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, full_name, specialization, consultation_fee, clinic_address
			  FROM doctors WHERE id = ?`

	var profile recordsDomain.DoctorProfile
	var id string

	err := querier.QueryRowContext(ctx, query, doctorID.String()).Scan(
		&id,
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

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse doctor id")
	}
	profile.ID = parsedID

	return &profile, nil
}

// ListRecentAppointments returns a patient's most recent appointments,
// newest first, capped at limit.
func (m *MySQLRecordsRepository) ListRecentAppointments(
	ctx context.Context,
	patientID uuid.UUID,
	limit int,
) ([]*recordsDomain.Appointment, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT a.id, a.patient_id, a.doctor_id, d.full_name, a.scheduled_at, a.status, a.notes
			  FROM appointments a
			  JOIN doctors d ON d.id = a.doctor_id
			  WHERE a.patient_id = ?
			  ORDER BY a.scheduled_at DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, patientID.String(), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list appointments")
	}
	defer func() { _ = rows.Close() }()

	var appointments []*recordsDomain.Appointment
	for rows.Next() {
		var appointment recordsDomain.Appointment
		var id, pID, dID string
		if err := rows.Scan(
			&id,
			&pID,
			&dID,
			&appointment.DoctorName,
			&appointment.ScheduledAt,
			&appointment.Status,
			&appointment.Notes,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan appointment")
		}
		if appointment.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse appointment id")
		}
		if appointment.PatientID, err = uuid.Parse(pID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse patient id")
		}
		if appointment.DoctorID, err = uuid.Parse(dID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse doctor id")
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
func (m *MySQLRecordsRepository) ListRecentPrescriptions(
	ctx context.Context,
	patientID uuid.UUID,
	limit int,
) ([]*recordsDomain.Prescription, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, patient_id, prescribed_by, medication, dosage, instructions, issued_at
			  FROM prescriptions
			  WHERE patient_id = ?
			  ORDER BY issued_at DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, patientID.String(), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list prescriptions")
	}
	defer func() { _ = rows.Close() }()

	var prescriptions []*recordsDomain.Prescription
	for rows.Next() {
		var prescription recordsDomain.Prescription
		var id, pID, prescriber string
		if err := rows.Scan(
			&id,
			&pID,
			&prescriber,
			&prescription.Medication,
			&prescription.Dosage,
			&prescription.Instructions,
			&prescription.IssuedAt,
		); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan prescription")
		}
		if prescription.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse prescription id")
		}
		if prescription.PatientID, err = uuid.Parse(pID); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse patient id")
		}
		if prescription.PrescribedBy, err = uuid.Parse(prescriber); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse prescriber id")
		}
		prescriptions = append(prescriptions, &prescription)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate prescriptions")
	}

	return prescriptions, nil
}

// NewMySQLRecordsRepository creates a new MySQL records repository.
func NewMySQLRecordsRepository(db *sql.DB) *MySQLRecordsRepository {
	return &MySQLRecordsRepository{db: db}
}
