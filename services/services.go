package services

import (
	"context"
	"errors"

	"github.com/insidehealthgt/hms/repositories"
)

// ErrConflict is returned when an operation clashes with existing data
var ErrConflict = errors.New("conflict")

// Transactor runs fn inside a unit of work
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Services holds all service instances
type Services struct {
	Users      UserService
	Patients   PatientService
	Rooms      RoomService
	Admissions AdmissionService
	Audit      AuditService
	Dashboard  DashboardService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, tx Transactor, auditPageSize int) *Services {
	return &Services{
		Users:      NewUserService(repos.Users, tx),
		Patients:   NewPatientService(repos.Patients, repos.Admissions, tx),
		Rooms:      NewRoomService(repos.Rooms, repos.Admissions, tx),
		Admissions: NewAdmissionService(repos, tx),
		Audit:      NewAuditService(repos.Audit, auditPageSize),
		Dashboard:  NewDashboardService(repos),
	}
}
