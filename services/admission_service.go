package services

import (
	"context"
	"fmt"
	"time"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

// AdmissionService interface defines hospital stay business logic
type AdmissionService interface {
	GetAll(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error)
	GetByID(ctx context.Context, id int64) (*models.Admission, error)
	Admit(ctx context.Context, form *models.AdmissionForm) (*models.Admission, error)
	Discharge(ctx context.Context, id int64) (*models.Admission, error)
	Delete(ctx context.Context, id int64) error
	GetTriageCodes(ctx context.Context) ([]models.TriageCode, error)
}

type admissionService struct {
	admissions repositories.AdmissionRepository
	patients   repositories.PatientRepository
	rooms      repositories.RoomRepository
	triage     repositories.TriageCodeRepository
	users      repositories.UserRepository
	tx         Transactor
	now        func() time.Time
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(repos *repositories.Repositories, tx Transactor) AdmissionService {
	return &admissionService{
		admissions: repos.Admissions,
		patients:   repos.Patients,
		rooms:      repos.Rooms,
		triage:     repos.TriageCodes,
		users:      repos.Users,
		tx:         tx,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *admissionService) GetAll(ctx context.Context, status models.AdmissionStatus) ([]models.Admission, error) {
	return s.admissions.GetAll(ctx, status)
}

func (s *admissionService) GetByID(ctx context.Context, id int64) (*models.Admission, error) {
	return s.admissions.GetByID(ctx, id)
}

func (s *admissionService) GetTriageCodes(ctx context.Context) ([]models.TriageCode, error) {
	return s.triage.GetAll(ctx)
}

// Admit opens a stay for a patient in a room that has space and matches the
// patient's sex
func (s *admissionService) Admit(ctx context.Context, form *models.AdmissionForm) (*models.Admission, error) {
	if err := models.Check(form.Validate()); err != nil {
		return nil, err
	}

	admission := &models.Admission{Status: models.AdmissionActive, Inventory: form.Inventory}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if admission.Patient, err = s.patients.GetByID(ctx, form.PatientID); err != nil {
			return err
		}
		if admission.TriageCode, err = s.triage.GetByID(ctx, form.TriageCodeID); err != nil {
			return err
		}
		if admission.Room, err = s.rooms.GetByID(ctx, form.RoomID); err != nil {
			return err
		}
		if admission.TreatingPhysician, err = s.users.GetByID(ctx, form.TreatingPhysicianID); err != nil {
			return err
		}
		admission.ConsultingPhysicians = []models.User{}
		for _, id := range form.ConsultingPhysicianIDs {
			u, err := s.users.GetByID(ctx, id)
			if err != nil {
				return err
			}
			admission.ConsultingPhysicians = append(admission.ConsultingPhysicians, *u)
		}

		if err := s.checkAdmissible(ctx, admission.Patient, admission.Room); err != nil {
			return err
		}

		admission.AdmissionDate = s.now()
		if form.AdmissionDate != nil {
			admission.AdmissionDate = form.AdmissionDate.UTC()
		}
		return s.admissions.Create(ctx, admission)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to admit patient: %w", err)
	}
	return admission, nil
}

func (s *admissionService) checkAdmissible(ctx context.Context, patient *models.Patient, room *models.Room) error {
	active, err := s.admissions.HasActiveForPatient(ctx, patient.ID)
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("patient %d is already admitted: %w", patient.ID, ErrConflict)
	}

	if string(room.Gender) != string(patient.Sex) {
		return &models.ValidationError{Messages: []string{"Room " + room.Number + " does not accept this patient"}}
	}

	occupied, err := s.admissions.CountActiveByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if occupied >= room.Capacity {
		return fmt.Errorf("room %s is full: %w", room.Number, ErrConflict)
	}
	return nil
}

// Discharge closes an active stay
func (s *admissionService) Discharge(ctx context.Context, id int64) (*models.Admission, error) {
	var admission *models.Admission
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if admission, err = s.admissions.GetByID(ctx, id); err != nil {
			return err
		}
		if err := admission.Discharge(s.now()); err != nil {
			return err
		}
		return s.admissions.Update(ctx, admission)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discharge admission: %w", err)
	}
	return admission, nil
}

// Delete removes an admission record
func (s *admissionService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.admissions.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete admission: %w", err)
	}
	return nil
}
