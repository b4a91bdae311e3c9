package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
)

// AdmissionRepository interface defines admission database operations
type AdmissionRepository interface {
	GetAll(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error)
	GetByID(ctx context.Context, id int64) (*models.Admission, error)
	Create(ctx context.Context, admission *models.Admission) error
	Update(ctx context.Context, admission *models.Admission) error
	Delete(ctx context.Context, id int64) error
	CountActiveByRoom(ctx context.Context, roomID int64) (int, error)
	HasActiveForPatient(ctx context.Context, patientID int64) (bool, error)
}

type admissionRepository struct {
	db       *sql.DB
	lc       *lifecycle
	patients *patientRepository
	rooms    *roomRepository
	triage   TriageCodeRepository
	users    *userRepository
}

// NewAdmissionRepository creates a new admission repository
func NewAdmissionRepository(db *sql.DB, listener EntityListener) AdmissionRepository {
	lc := newLifecycle(listener)
	return newAdmissionRepository(db, lc,
		newPatientRepository(db, lc), newRoomRepository(db, lc), NewTriageCodeRepository(db), newUserRepository(db, lc))
}

func newAdmissionRepository(db *sql.DB, lc *lifecycle, patients *patientRepository, rooms *roomRepository,
	triage TriageCodeRepository, users *userRepository) *admissionRepository {
	return &admissionRepository{db: db, lc: lc, patients: patients, rooms: rooms, triage: triage, users: users}
}

const admissionColumns = `
	id, patient_id, triage_code_id, room_id, treating_physician_id, admission_date,
	discharge_date, status, inventory, created_at, updated_at, created_by, updated_by, deleted_at`

// admissionRow is an admission with its foreign keys not yet resolved
type admissionRow struct {
	models.Admission
	patientID, triageCodeID, roomID, physicianID int64
}

func scanAdmission(row interface{ Scan(...any) error }) (*admissionRow, error) {
	var a admissionRow
	err := row.Scan(
		&a.ID, &a.patientID, &a.triageCodeID, &a.roomID, &a.physicianID, &a.AdmissionDate,
		&a.DischargeDate, &a.Status, &a.Inventory,
		&a.CreatedAt, &a.UpdatedAt, &a.CreatedBy, &a.UpdatedBy, &a.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// resolve loads the related entities of an admission row
func (r *admissionRepository) resolve(ctx context.Context, row *admissionRow) (*models.Admission, error) {
	a := row.Admission
	var err error
	if a.Patient, err = r.patients.GetByID(ctx, row.patientID); err != nil {
		return nil, err
	}
	if a.TriageCode, err = r.triage.GetByID(ctx, row.triageCodeID); err != nil {
		return nil, err
	}
	if a.Room, err = r.rooms.GetByID(ctx, row.roomID); err != nil {
		return nil, err
	}
	if a.TreatingPhysician, err = r.users.GetByID(ctx, row.physicianID); err != nil {
		return nil, err
	}
	if a.ConsultingPhysicians, err = r.consultingPhysicians(ctx, a.ID); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *admissionRepository) consultingPhysicians(ctx context.Context, admissionID int64) ([]models.User, error) {
	rows, err := database.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT physician_id FROM admission_consulting_physicians WHERE admission_id = ? ORDER BY physician_id`,
		admissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query consulting physicians: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan consulting physician: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating consulting physicians: %w", err)
	}

	physicians := []models.User{}
	for _, id := range ids {
		u, err := r.users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		physicians = append(physicians, *u)
	}
	return physicians, nil
}

// GetAll retrieves admissions, newest first. An empty status returns all.
func (r *admissionRepository) GetAll(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error) {
	query := `SELECT ` + admissionColumns + ` FROM admissions`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY admission_date DESC, id DESC`

	rows, err := database.Conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query admissions: %w", err)
	}
	var list []*admissionRow
	for rows.Next() {
		row, err := scanAdmission(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan admission: %w", err)
		}
		list = append(list, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating admissions: %w", err)
	}

	admissions := make([]models.Admission, 0, len(list))
	for _, row := range list {
		a, err := r.resolve(ctx, row)
		if err != nil {
			return nil, err
		}
		admissions = append(admissions, *a)
	}
	return admissions, nil
}

// GetByID retrieves an admission with its relations
func (r *admissionRepository) GetByID(ctx context.Context, id int64) (*models.Admission, error) {
	row, err := scanAdmission(database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+admissionColumns+` FROM admissions WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get admission: %w", notFound(err))
	}
	return r.resolve(ctx, row)
}

func (r *admissionRepository) saveConsulting(ctx context.Context, exec database.Executor, a *models.Admission) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM admission_consulting_physicians WHERE admission_id = ?`, a.ID); err != nil {
		return fmt.Errorf("failed to clear consulting physicians: %w", err)
	}
	for _, u := range a.ConsultingPhysicians {
		if _, err := exec.ExecContext(ctx,
			`INSERT OR IGNORE INTO admission_consulting_physicians (admission_id, physician_id) VALUES (?, ?)`,
			a.ID, u.ID); err != nil {
			return fmt.Errorf("failed to add consulting physician: %w", err)
		}
	}
	return nil
}

func relationIDs(a *models.Admission) (patientID, triageID, roomID, physicianID int64, err error) {
	if a.Patient == nil || a.TriageCode == nil || a.Room == nil || a.TreatingPhysician == nil {
		return 0, 0, 0, 0, fmt.Errorf("admission is missing a required relation")
	}
	return a.Patient.ID, a.TriageCode.ID, a.Room.ID, a.TreatingPhysician.ID, nil
}

// Create inserts a new admission
func (r *admissionRepository) Create(ctx context.Context, admission *models.Admission) error {
	patientID, triageID, roomID, physicianID, err := relationIDs(admission)
	if err != nil {
		return fmt.Errorf("failed to create admission: %w", err)
	}

	exec := database.Conn(ctx, r.db)
	admission.Stamp(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		INSERT INTO admissions (patient_id, triage_code_id, room_id, treating_physician_id,
			admission_date, discharge_date, status, inventory,
			created_at, updated_at, created_by, updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		patientID, triageID, roomID, physicianID,
		admission.AdmissionDate, admission.DischargeDate, admission.Status, admission.Inventory,
		admission.CreatedAt, admission.UpdatedAt, admission.CreatedBy, admission.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create admission: %w", err)
	}
	if admission.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("failed to get admission ID: %w", err)
	}
	if err := r.saveConsulting(ctx, exec, admission); err != nil {
		return err
	}

	r.lc.listener.AfterCreate(ctx, admission)
	return nil
}

// Update saves all fields of an existing admission
func (r *admissionRepository) Update(ctx context.Context, admission *models.Admission) error {
	patientID, triageID, roomID, physicianID, err := relationIDs(admission)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}

	exec := database.Conn(ctx, r.db)
	previous, err := r.GetByID(ctx, admission.ID)
	if err != nil {
		return err
	}

	keepCreation(&admission.Base, &previous.Base)
	r.lc.listener.BeforeUpdate(ctx, previous, admission)
	admission.Touch(r.lc.now(), actorID(ctx))

	result, err := exec.ExecContext(ctx, `
		UPDATE admissions
		SET patient_id = ?, triage_code_id = ?, room_id = ?, treating_physician_id = ?,
			admission_date = ?, discharge_date = ?, status = ?, inventory = ?,
			updated_at = ?, updated_by = ?
		WHERE id = ?`,
		patientID, triageID, roomID, physicianID,
		admission.AdmissionDate, admission.DischargeDate, admission.Status, admission.Inventory,
		admission.UpdatedAt, admission.UpdatedBy, admission.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	if err := affectedOne(result); err != nil {
		return fmt.Errorf("failed to update admission: %w", err)
	}
	if err := r.saveConsulting(ctx, exec, admission); err != nil {
		return err
	}

	r.lc.listener.AfterUpdate(ctx, admission)
	return nil
}

// Delete removes an admission
func (r *admissionRepository) Delete(ctx context.Context, id int64) error {
	admission, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM admissions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete admission: %w", err)
	}

	r.lc.listener.AfterDelete(ctx, admission)
	return nil
}

// CountActiveByRoom returns how many active admissions occupy a room
func (r *admissionRepository) CountActiveByRoom(ctx context.Context, roomID int64) (int, error) {
	var count int
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admissions WHERE room_id = ? AND status = ?`, roomID, models.AdmissionActive).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count room occupancy: %w", err)
	}
	return count, nil
}

// HasActiveForPatient reports whether the patient is currently admitted
func (r *admissionRepository) HasActiveForPatient(ctx context.Context, patientID int64) (bool, error) {
	var exists bool
	err := database.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admissions WHERE patient_id = ? AND status = ?)`,
		patientID, models.AdmissionActive).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active admission: %w", err)
	}
	return exists, nil
}
