package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Insert(ctx context.Context, record *Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func sampleIntent(id int64) Intent {
	actor := int64(1)
	name := "Admin"
	ip := "10.0.0.1"
	return Intent{
		ID:            uuid.New(),
		ActorID:       &actor,
		ActorName:     &name,
		Action:        ActionUpdate,
		EntityType:    "Account",
		EntityID:      id,
		OldValues:     NewSerializer().Serialize(&account{ID: id, Username: "old"}),
		NewValues:     NewSerializer().Serialize(&account{ID: id, Username: "new"}),
		ChangedFields: []string{"username"},
		SourceIP:      &ip,
		Timestamp:     time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewRecord(t *testing.T) {
	intent := sampleIntent(7)

	record := NewRecord(intent)

	assert.Equal(t, intent.ID.String(), record.EventID)
	assert.Equal(t, intent.ActorID, record.ActorID)
	assert.Equal(t, ActionUpdate, record.Action)
	assert.Equal(t, int64(7), record.EntityID)
	assert.JSONEq(t, `{"id":7,"username":"old","firstName":null,"lastLogin":null}`, string(record.OldValues))
	assert.Equal(t, []string{"username"}, record.ChangedFields)
	assert.Zero(t, record.ID)
	assert.True(t, record.RecordedAt.IsZero())
}

func TestNewRecord_AbsentValues(t *testing.T) {
	intent := sampleIntent(7)
	intent.Action = ActionCreate
	intent.OldValues = nil
	intent.ChangedFields = nil

	record := NewRecord(intent)

	assert.Nil(t, record.OldValues)
	assert.Nil(t, record.ChangedFields)

	b, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"oldValues":null`)
	assert.Contains(t, string(b), `"changedFields":null`)
}

func TestWriter_Write(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := &mockStore{}
	metrics := NewMetrics(prometheus.NewRegistry())
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *Record) bool {
		return r.EntityID == 7 && r.EntityType == "Account"
	})).Return(nil).Once()

	NewWriter(store, log, metrics).Write(context.Background(), sampleIntent(7))

	store.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.written))
}

func TestWriter_FailureIsLoggedAndDropped(t *testing.T) {
	log, hook := test.NewNullLogger()
	store := &mockStore{}
	metrics := NewMetrics(prometheus.NewRegistry())
	store.On("Insert", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	intent := sampleIntent(7)
	assert.NotPanics(t, func() {
		NewWriter(store, log, metrics).Write(context.Background(), intent)
	})

	store.AssertExpectations(t)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "UPDATE", entry.Data["action"])
	assert.Equal(t, "Account", entry.Data["entity_type"])
	assert.Equal(t, int64(7), entry.Data["entity_id"])
	assert.Equal(t, intent.ID.String(), entry.Data["intent_id"])
	assert.Equal(t, int64(1), entry.Data["actor_id"])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "disk full")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.writeFailures))
}

func TestWriter_FailureDoesNotAffectOtherIntents(t *testing.T) {
	log, _ := test.NewNullLogger()
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *Record) bool { return r.EntityID == 1 })).
		Return(errors.New("constraint violation")).Once()
	store.On("Insert", mock.Anything, mock.MatchedBy(func(r *Record) bool { return r.EntityID == 2 })).
		Return(nil).Once()

	writer := NewWriter(store, log, nil)
	writer.Write(context.Background(), sampleIntent(1))
	writer.Write(context.Background(), sampleIntent(2))

	store.AssertExpectations(t)
}

func TestWriter_RecoversStorePanics(t *testing.T) {
	log, hook := test.NewNullLogger()
	store := &mockStore{}
	store.On("Insert", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		panic("driver bug")
	}).Return(nil)

	assert.NotPanics(t, func() {
		NewWriter(store, log, nil).Write(context.Background(), sampleIntent(3))
	})
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
