package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/userctx"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("not found")

// EntityListener receives lifecycle callbacks for persisted entities.
// Callbacks run inside the caller's unit of work and must not fail it.
type EntityListener interface {
	BeforeUpdate(ctx context.Context, previous, current any)
	AfterCreate(ctx context.Context, entity any)
	AfterUpdate(ctx context.Context, entity any)
	AfterDelete(ctx context.Context, entity any)
}

type noopListener struct{}

func (noopListener) BeforeUpdate(context.Context, any, any) {}
func (noopListener) AfterCreate(context.Context, any)       {}
func (noopListener) AfterUpdate(context.Context, any)       {}
func (noopListener) AfterDelete(context.Context, any)       {}

// Repositories struct holds all repository interfaces
type Repositories struct {
	Users       UserRepository
	Patients    PatientRepository
	Rooms       RoomRepository
	TriageCodes TriageCodeRepository
	Admissions  AdmissionRepository
	Audit       AuditRepository
}

// NewRepositories creates and initializes all repositories. A nil listener
// disables lifecycle callbacks.
func NewRepositories(db *sql.DB, listener EntityListener) *Repositories {
	lc := newLifecycle(listener)
	users := newUserRepository(db, lc)
	patients := newPatientRepository(db, lc)
	rooms := newRoomRepository(db, lc)
	triage := NewTriageCodeRepository(db)
	return &Repositories{
		Users:       users,
		Patients:    patients,
		Rooms:       rooms,
		TriageCodes: triage,
		Admissions:  newAdmissionRepository(db, lc, patients, rooms, triage, users),
		Audit:       NewAuditRepository(db),
	}
}

// lifecycle stamps bookkeeping fields and forwards callbacks to the listener
type lifecycle struct {
	listener EntityListener
	now      func() time.Time
}

func newLifecycle(listener EntityListener) *lifecycle {
	if listener == nil {
		listener = noopListener{}
	}
	return &lifecycle{
		listener: listener,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// actorID returns the id of the authenticated actor, if any
func actorID(ctx context.Context) *int64 {
	actor, ok := userctx.GetActor(ctx)
	if !ok {
		return nil
	}
	id := actor.ID
	return &id
}

// keepCreation carries the immutable creation fields over from the stored row
func keepCreation(current, stored *models.Base) {
	current.CreatedAt = stored.CreatedAt
	current.CreatedBy = stored.CreatedBy
	current.DeletedAt = stored.DeletedAt
}

// notFound maps sql.ErrNoRows to ErrNotFound
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
