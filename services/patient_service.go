package services

import (
	"context"
	"fmt"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
)

// PatientService interface defines patient business logic
type PatientService interface {
	GetAll(ctx context.Context) ([]models.Patient, error)
	GetByID(ctx context.Context, id int64) (*models.Patient, error)
	Create(ctx context.Context, form *models.PatientForm) (*models.Patient, error)
	Update(ctx context.Context, id int64, form *models.PatientForm) (*models.Patient, error)
	Delete(ctx context.Context, id int64) error
}

type patientService struct {
	patients   repositories.PatientRepository
	admissions repositories.AdmissionRepository
	tx         Transactor
}

// NewPatientService creates a new patient service
func NewPatientService(patients repositories.PatientRepository, admissions repositories.AdmissionRepository, tx Transactor) PatientService {
	return &patientService{patients: patients, admissions: admissions, tx: tx}
}

func (s *patientService) GetAll(ctx context.Context) ([]models.Patient, error) {
	return s.patients.GetAll(ctx)
}

func (s *patientService) GetByID(ctx context.Context, id int64) (*models.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// Create registers a new patient
func (s *patientService) Create(ctx context.Context, form *models.PatientForm) (*models.Patient, error) {
	if err := models.Check(form.Validate()); err != nil {
		return nil, err
	}

	patient := &models.Patient{}
	form.Apply(patient)
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.patients.Create(ctx, patient)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// Update replaces a patient's data
func (s *patientService) Update(ctx context.Context, id int64, form *models.PatientForm) (*models.Patient, error) {
	if err := models.Check(form.Validate()); err != nil {
		return nil, err
	}

	var patient *models.Patient
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if patient, err = s.patients.GetByID(ctx, id); err != nil {
			return err
		}
		form.Apply(patient)
		return s.patients.Update(ctx, patient)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// Delete removes a patient who is not currently admitted
func (s *patientService) Delete(ctx context.Context, id int64) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		active, err := s.admissions.HasActiveForPatient(ctx, id)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("patient %d has an active admission: %w", id, ErrConflict)
		}
		return s.patients.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
