package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
)

// PatientRepository interface defines patient database operations
type PatientRepository interface {
	GetAll(ctx context.Context) ([]models.Patient, error)
	GetByID(ctx context.Context, id int64) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patient *models.Patient) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type patientRepository struct {
	db *sql.DB
	lc *lifecycle
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *sql.DB, listener EntityListener) PatientRepository {
	return newPatientRepository(db, newLifecycle(listener))
}

func newPatientRepository(db *sql.DB, lc *lifecycle) *patientRepository {
	return &patientRepository{db: db, lc: lc}
}

const patientColumns = `
	id, first_name, last_name, age, sex, marital_status, occupation, address, email,
	id_document_number, notes, created_at, updated_at, created_by, updated_by, deleted_at`

func scanPatient(row interface{ Scan(...any) error }) (*models.Patient, error) {
	var p models.Patient
	err := row.Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Age, &p.Sex, &p.MaritalStatus, &p.Occupation,
		&p.Address, &p.Email, &p.IDDocumentNumber, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt, &p.CreatedBy, &p.UpdatedBy, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll retrieves all patients ordered by name. Emergency contacts are not loaded.
func (r *patientRepository) GetAll(ctx context.Context) ([]models.Patient, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY last_name ASC, first_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []models.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}
	return patients, nil
}

// GetByID retrieves a patient with emergency contacts
func (r *patientRepository) GetByID(ctx context.Context, id int64) (*models.Patient, error) {
	exec := database.Conn(ctx, r.db)
	p, err := scanPatient(exec.QueryRowContext(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", notFound(err))
	}

	rows, err := exec.QueryContext(ctx,
		`SELECT id, name, relationship, phone FROM emergency_contacts WHERE patient_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query emergency contacts: %w", err)
	}
	defer rows.Close()

	p.EmergencyContacts = []models.EmergencyContact{}
	for rows.Next() {
		var c models.EmergencyContact
		if err := rows.Scan(&c.ID, &c.Name, &c.Relationship, &c.Phone); err != nil {
			return nil, fmt.Errorf("failed to scan emergency contact: %w", err)
		}
		p.EmergencyContacts = append(p.EmergencyContacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emergency contacts: %w", err)
	}
	return p, nil
}

func (r *patientRepository) saveContacts(ctx context.Context, exec database.Executor, p *models.Patient) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM emergency_contacts WHERE patient_id = ?`, p.ID); err != nil {
		return fmt.Errorf("failed to clear emergency contacts: %w", err)
	}
	for i := range p.EmergencyContacts {
		c := &p.EmergencyContacts[i]
		result, err := exec.ExecContext(ctx,
			`INSERT INTO emergency_contacts (patient_id, name, relationship, phone) VALUES (?, ?, ?, ?)`,
			p.ID, c.Name, c.Relationship, c.Phone)
		if err != nil {
			return fmt.Errorf("failed to add emergency contact: %w", err)
		}
		if c.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get emergency contact ID: %w", err)
		}
	}
	return nil
}

// Create inserts a new patient and its emergency contacts
func (r *patientRepository) Create(ctx context.Context, patient *models.Patient) error {
	exec := database.Conn(ctx, r.db)
	patient.Stamp(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		INSERT INTO patients (first_name, last_name, age, sex, marital_status, occupation, address,
			email, id_document_number, notes, created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		patient.FirstName, patient.LastName, patient.Age, patient.Sex, patient.MaritalStatus,
		patient.Occupation, patient.Address, patient.Email, patient.IDDocumentNumber, patient.Notes,
		patient.CreatedAt, patient.UpdatedAt, patient.CreatedBy, patient.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	if patient.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get patient ID: %w", err)
	}
	if err := r.saveContacts(ctx, exec, patient); err != nil {
		return err
	}

	r.lc.listener.AfterCreate(ctx, patient)
	return nil
}

// Update saves all fields of an existing patient and replaces its contacts
func (r *patientRepository) Update(ctx context.Context, patient *models.Patient) error {
	exec := database.Conn(ctx, r.db)
	previous, err := r.GetByID(ctx, patient.ID)
	if err != nil {
		return err
	}

	keepCreation(&patient.Base, &previous.Base)
	r.lc.listener.BeforeUpdate(ctx, previous, patient)
	patient.Touch(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		UPDATE patients
		SET first_name = ?, last_name = ?, age = ?, sex = ?, marital_status = ?, occupation = ?,
			address = ?, email = ?, id_document_number = ?, notes = ?, updated_at = ?, updated_by = ?
		WHERE id = ?`,
		patient.FirstName, patient.LastName, patient.Age, patient.Sex, patient.MaritalStatus,
		patient.Occupation, patient.Address, patient.Email, patient.IDDocumentNumber, patient.Notes,
		patient.UpdatedAt, patient.UpdatedBy, patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if err := affectedOne(result); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if err := r.saveContacts(ctx, exec, patient); err != nil {
		return err
	}

	r.lc.listener.AfterUpdate(ctx, patient)
	return nil
}

// Delete removes a patient. Emergency contacts cascade.
func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	patient, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	r.lc.listener.AfterDelete(ctx, patient)
	return nil
}

// Count returns the number of patients
func (r *patientRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := database.Conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM patients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}
