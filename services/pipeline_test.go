package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/insidehealthgt/hms/audit"
	"github.com/insidehealthgt/hms/database"
	"github.com/insidehealthgt/hms/models"
	"github.com/insidehealthgt/hms/repositories"
	"github.com/insidehealthgt/hms/userctx"
)

// pipeline wires the real audit pipeline over a temporary database
type pipeline struct {
	db    *sql.DB
	tm    *database.TxManager
	repos *repositories.Repositories
	logs  *test.Hook
}

// flakyStore fails inserts for the listed entity ids
type flakyStore struct {
	audit.Store
	failFor map[int64]bool
}

func (s *flakyStore) Insert(ctx context.Context, record *audit.Record) error {
	if s.failFor[record.EntityID] {
		return errors.New("audit store unavailable")
	}
	return s.Store.Insert(ctx, record)
}

func newPipeline(t *testing.T, store func(audit.Store) audit.Store, opts ...database.TxOption) *pipeline {
	t.Helper()
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	db, err := database.Initialize(filepath.Join(t.TempDir(), "hms.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tm := database.NewTxManager(db, log, opts...)
	t.Cleanup(tm.Wait)

	var sink audit.Store = repositories.NewAuditRepository(db)
	if store != nil {
		sink = store(sink)
	}
	interceptor := audit.NewInterceptor(audit.LocatorFunc(database.Locate), audit.NewWriter(sink, log, nil), audit.NewSerializer(), log)

	return &pipeline{db: db, tm: tm, repos: repositories.NewRepositories(db, interceptor), logs: hook}
}

func (p *pipeline) records(t *testing.T) []audit.Record {
	t.Helper()
	page, err := p.repos.Audit.Search(context.Background(), repositories.AuditFilter{Ascending: true, Size: 1000})
	require.NoError(t, err)
	return page.Items
}

func decodeValues(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	require.NotNil(t, raw)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func actorCtx() context.Context {
	ctx := userctx.WithActor(context.Background(), userctx.Actor{ID: 1, Name: "Admin"})
	return userctx.WithRequestInfo(ctx, "192.168.1.20", "test-agent")
}

func TestPipeline_PasswordChangeRecordsFieldNameOnly(t *testing.T) {
	p := newPipeline(t, nil)
	users := &userService{users: p.repos.Users, tx: p.tm, cost: bcrypt.MinCost}
	ctx := actorCtx()

	created, err := users.Create(ctx, &models.UserForm{
		Username:  "ann",
		Email:     "ann@hospital.org",
		Password:  "old password",
		FirstName: strPtr("Ann"),
	})
	require.NoError(t, err)

	require.NoError(t, users.ChangePassword(ctx, created.ID, &models.PasswordForm{
		CurrentPassword: "old password",
		NewPassword:     "new password",
	}))

	records := p.records(t)
	require.Len(t, records, 2)

	create := records[0]
	assert.Equal(t, audit.ActionCreate, create.Action)
	assert.NotContains(t, decodeValues(t, create.NewValues), "passwordHash")

	update := records[1]
	assert.Equal(t, audit.ActionUpdate, update.Action)
	assert.Equal(t, "User", update.EntityType)
	assert.Equal(t, created.ID, update.EntityID)
	assert.Equal(t, []string{"passwordHash", "mustChangePassword"}, update.ChangedFields)
	oldValues := decodeValues(t, update.OldValues)
	newValues := decodeValues(t, update.NewValues)
	assert.NotContains(t, oldValues, "passwordHash")
	assert.NotContains(t, newValues, "passwordHash")
	assert.Equal(t, "Ann", oldValues["firstName"])
	assert.Equal(t, true, oldValues["mustChangePassword"])
	assert.Equal(t, false, newValues["mustChangePassword"])
	require.NotNil(t, update.ActorID)
	assert.Equal(t, int64(1), *update.ActorID)
	assert.Equal(t, "Admin", *update.ActorName)
	assert.Equal(t, "192.168.1.20", *update.SourceIP)
	assert.False(t, update.RecordedAt.IsZero())
}

func TestPipeline_PasswordOnlyUpdate(t *testing.T) {
	p := newPipeline(t, nil)
	ctx := context.Background()

	user := &models.User{Username: "ann", Email: "ann@hospital.org", PasswordHash: "abc", FirstName: strPtr("Ann"), Status: models.UserStatusActive}
	require.NoError(t, p.tm.RunInTx(ctx, func(ctx context.Context) error {
		return p.repos.Users.Create(ctx, user)
	}))

	require.NoError(t, p.tm.RunInTx(ctx, func(ctx context.Context) error {
		stored, err := p.repos.Users.GetByID(ctx, user.ID)
		if err != nil {
			return err
		}
		stored.PasswordHash = "xyz"
		return p.repos.Users.Update(ctx, stored)
	}))

	records := p.records(t)
	require.Len(t, records, 2)
	update := records[1]
	assert.Equal(t, audit.ActionUpdate, update.Action)
	assert.Equal(t, user.ID, update.EntityID)
	assert.Equal(t, []string{"passwordHash"}, update.ChangedFields)
	assert.NotContains(t, decodeValues(t, update.OldValues), "passwordHash")
	assert.NotContains(t, decodeValues(t, update.NewValues), "passwordHash")
	assert.Nil(t, update.ActorID)
	assert.Nil(t, update.SourceIP)
}

func seedAdmissionFixtures(t *testing.T, p *pipeline) (*models.Patient, *models.Room, *models.User) {
	t.Helper()
	var patient *models.Patient
	var room *models.Room
	var physician *models.User
	require.NoError(t, p.tm.RunInTx(context.Background(), func(ctx context.Context) error {
		physician = &models.User{Username: "house", Email: "house@hospital.org", PasswordHash: "x", Status: models.UserStatusActive}
		if err := p.repos.Users.Create(ctx, physician); err != nil {
			return err
		}
		patient = &models.Patient{FirstName: "Ana", LastName: "Lopez", Age: 40, Sex: models.SexFemale}
		if err := p.repos.Patients.Create(ctx, patient); err != nil {
			return err
		}
		room = &models.Room{Number: "201", Type: models.RoomTypeShared, Gender: models.RoomGenderFemale, Capacity: 2}
		return p.repos.Rooms.Create(ctx, room)
	}))
	return patient, room, physician
}

func TestPipeline_AdmissionLifecycle(t *testing.T) {
	p := newPipeline(t, nil)
	patient, room, physician := seedAdmissionFixtures(t, p)
	admissions := NewAdmissionService(p.repos, p.tm)
	ctx := actorCtx()

	admitted, err := admissions.Admit(ctx, &models.AdmissionForm{
		PatientID:           patient.ID,
		TriageCodeID:        2,
		RoomID:              room.ID,
		TreatingPhysicianID: physician.ID,
	})
	require.NoError(t, err)

	_, err = admissions.Discharge(ctx, admitted.ID)
	require.NoError(t, err)
	require.NoError(t, admissions.Delete(ctx, admitted.ID))

	var history []audit.Record
	for _, r := range p.records(t) {
		if r.EntityType == "Admission" {
			history = append(history, r)
		}
	}
	require.Len(t, history, 3)

	create := history[0]
	assert.Equal(t, audit.ActionCreate, create.Action)
	assert.Nil(t, create.OldValues)
	assert.Nil(t, create.ChangedFields)
	newValues := decodeValues(t, create.NewValues)
	assert.Equal(t, float64(patient.ID), newValues["patientId"])
	assert.Equal(t, float64(2), newValues["triageCodeId"])
	assert.Equal(t, float64(room.ID), newValues["roomId"])
	assert.NotContains(t, newValues, "consultingPhysicians")
	assert.NotContains(t, newValues, "patient")

	update := history[1]
	assert.Equal(t, []string{"dischargeDate", "status"}, update.ChangedFields)
	assert.Nil(t, decodeValues(t, update.OldValues)["dischargeDate"])
	assert.Equal(t, "DISCHARGED", decodeValues(t, update.NewValues)["status"])

	// the deleted admission's record carries its full pre-image
	del := history[2]
	assert.Equal(t, audit.ActionDelete, del.Action)
	assert.Equal(t, admitted.ID, del.EntityID)
	assert.Nil(t, del.NewValues)
	assert.Nil(t, del.ChangedFields)
	oldValues := decodeValues(t, del.OldValues)
	assert.Equal(t, "DISCHARGED", oldValues["status"])
	assert.Equal(t, float64(physician.ID), oldValues["treatingPhysicianId"])
	assert.Equal(t, float64(admitted.ID), oldValues["id"])
}

func TestPipeline_CreateRoomWithNullPrice(t *testing.T) {
	p := newPipeline(t, nil)
	rooms := NewRoomService(p.repos.Rooms, p.repos.Admissions, p.tm)

	room, err := rooms.Create(context.Background(), &models.RoomForm{
		Number: "101", Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1,
	})
	require.NoError(t, err)

	records := p.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, audit.ActionCreate, records[0].Action)
	assert.Equal(t, room.ID, records[0].EntityID)
	assert.Nil(t, records[0].OldValues)
	newValues := decodeValues(t, records[0].NewValues)
	assert.Equal(t, "101", newValues["number"])
	price, ok := newValues["price"]
	assert.True(t, ok)
	assert.Nil(t, price)
}

func TestPipeline_RoomAmountsAreExact(t *testing.T) {
	p := newPipeline(t, nil)
	rooms := NewRoomService(p.repos.Rooms, p.repos.Admissions, p.tm)
	price, cost := models.Money(1999), models.Money(10)

	room, err := rooms.Create(context.Background(), &models.RoomForm{
		Number: "102", Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1,
		Price: &price, Cost: &cost,
	})
	require.NoError(t, err)

	stored, err := rooms.GetByID(context.Background(), room.ID)
	require.NoError(t, err)
	assert.Equal(t, price, *stored.Price)

	records := p.records(t)
	require.Len(t, records, 1)
	newValues := decodeValues(t, records[0].NewValues)
	assert.Equal(t, "19.99", newValues["price"])
	assert.Equal(t, "0.10", newValues["cost"])
}

func TestPipeline_RollbackWritesNothing(t *testing.T) {
	p := newPipeline(t, nil)
	errBoom := errors.New("boom")

	err := p.tm.RunInTx(context.Background(), func(ctx context.Context) error {
		for i := 1; i <= 3; i++ {
			room := &models.Room{Number: fmt.Sprint(i), Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1}
			if err := p.repos.Rooms.Create(ctx, room); err != nil {
				return err
			}
		}
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, p.records(t))

	require.NoError(t, p.tm.RunInTx(context.Background(), func(ctx context.Context) error {
		for i := 1; i <= 3; i++ {
			room := &models.Room{Number: fmt.Sprint(i), Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1}
			if err := p.repos.Rooms.Create(ctx, room); err != nil {
				return err
			}
		}
		return nil
	}))
	assert.Len(t, p.records(t), 3)
}

func TestPipeline_BusinessFailureAfterAuditRollsBackAudit(t *testing.T) {
	p := newPipeline(t, nil)
	patient, room, physician := seedAdmissionFixtures(t, p)
	before := len(p.records(t))
	admissions := NewAdmissionService(p.repos, p.tm)

	form := &models.AdmissionForm{PatientID: patient.ID, TriageCodeID: 1, RoomID: room.ID, TreatingPhysicianID: physician.ID}
	_, err := admissions.Admit(context.Background(), form)
	require.NoError(t, err)

	// a second admission of the same patient is refused before anything is written
	_, err = admissions.Admit(context.Background(), form)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, p.records(t), before+1)
}

func TestPipeline_WriteFailureIsIsolated(t *testing.T) {
	p := newPipeline(t, func(s audit.Store) audit.Store {
		return &flakyStore{Store: s, failFor: map[int64]bool{2: true}}
	})

	var rooms []*models.Room
	err := p.tm.RunInTx(context.Background(), func(ctx context.Context) error {
		for i := 1; i <= 3; i++ {
			room := &models.Room{Number: fmt.Sprint(i), Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1}
			if err := p.repos.Rooms.Create(ctx, room); err != nil {
				return err
			}
			rooms = append(rooms, room)
		}
		return nil
	})
	require.NoError(t, err, "audit failures never reach the caller")

	count, err := p.repos.Rooms.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count, "business data is committed")

	records := p.records(t)
	require.Len(t, records, 2)
	assert.Equal(t, rooms[0].ID, records[0].EntityID)
	assert.Equal(t, rooms[2].ID, records[1].EntityID)

	var failures int
	for _, entry := range p.logs.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "Failed to write audit record" {
			failures++
			assert.Equal(t, int64(2), entry.Data["entity_id"])
			assert.Equal(t, "Room", entry.Data["entity_type"])
			assert.Equal(t, "CREATE", entry.Data["action"])
		}
	}
	assert.Equal(t, 1, failures)
}

func TestPipeline_WithoutUnitOfWorkNothingIsRecorded(t *testing.T) {
	p := newPipeline(t, nil)

	room := &models.Room{Number: "9", Type: models.RoomTypePrivate, Gender: models.RoomGenderMale, Capacity: 1}
	require.NoError(t, p.repos.Rooms.Create(context.Background(), room))

	assert.Empty(t, p.records(t))
	found := false
	for _, entry := range p.logs.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Data["entity_type"] == "Room" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPipeline_ConcurrentUpdatesAreIsolated(t *testing.T) {
	p := newPipeline(t, nil, database.WithAsyncHooks())
	ctx := context.Background()

	a := &models.Room{Number: "A", Type: models.RoomTypeShared, Gender: models.RoomGenderMale, Capacity: 2}
	b := &models.Room{Number: "B", Type: models.RoomTypeShared, Gender: models.RoomGenderFemale, Capacity: 3}
	require.NoError(t, p.tm.RunInTx(ctx, func(ctx context.Context) error {
		if err := p.repos.Rooms.Create(ctx, a); err != nil {
			return err
		}
		return p.repos.Rooms.Create(ctx, b)
	}))

	var wg sync.WaitGroup
	update := func(id int64, mutate func(*models.Room)) {
		defer wg.Done()
		err := p.tm.RunInTx(ctx, func(ctx context.Context) error {
			room, err := p.repos.Rooms.GetByID(ctx, id)
			if err != nil {
				return err
			}
			mutate(room)
			return p.repos.Rooms.Update(ctx, room)
		})
		assert.NoError(t, err)
	}
	wg.Add(2)
	go update(a.ID, func(r *models.Room) { r.Capacity = 4 })
	go update(b.ID, func(r *models.Room) { r.Number = "B2" })
	wg.Wait()
	p.tm.Wait()

	byEntity := map[int64]audit.Record{}
	for _, r := range p.records(t) {
		if r.Action == audit.ActionUpdate {
			byEntity[r.EntityID] = r
		}
	}
	require.Len(t, byEntity, 2)

	assert.Equal(t, []string{"capacity"}, byEntity[a.ID].ChangedFields)
	assert.Equal(t, float64(2), decodeValues(t, byEntity[a.ID].OldValues)["capacity"])
	assert.Equal(t, "A", decodeValues(t, byEntity[a.ID].OldValues)["number"])

	assert.Equal(t, []string{"number"}, byEntity[b.ID].ChangedFields)
	assert.Equal(t, "B", decodeValues(t, byEntity[b.ID].OldValues)["number"])
	assert.Equal(t, float64(3), decodeValues(t, byEntity[b.ID].OldValues)["capacity"])
}

func strPtr(s string) *string { return &s }
