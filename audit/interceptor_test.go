package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insidehealthgt/hms/userctx"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

type interceptorFixture struct {
	interceptor *Interceptor
	sink        *captureSink
	logs        *test.Hook
	metrics     *Metrics
}

func newInterceptorFixture() *interceptorFixture {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	sink := &captureSink{}
	metrics := NewMetrics(prometheus.NewRegistry())
	return &interceptorFixture{
		interceptor: NewInterceptor(fakeLocator, sink, NewSerializer(), log,
			WithClock(func() time.Time { return fixedNow }), WithMetrics(metrics)),
		sink:    sink,
		logs:    hook,
		metrics: metrics,
	}
}

func snapshotMap(t *testing.T, s *Snapshot) map[string]any {
	t.Helper()
	require.NotNil(t, s)
	var out map[string]any
	require.NoError(t, json.Unmarshal(s.JSON(), &out))
	return out
}

func TestInterceptor_UpdatePasswordHash(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)
	ctx = userctx.WithActor(ctx, userctx.Actor{ID: 1, Name: "Admin"})
	ctx = userctx.WithRequestInfo(ctx, "10.0.0.1", "curl")

	persisted := &account{ID: 7, PasswordHash: "abc", FirstName: strPtr("Ann")}
	current := &account{ID: 7, PasswordHash: "xyz", FirstName: strPtr("Ann")}

	f.interceptor.BeforeUpdate(ctx, persisted, current)
	f.interceptor.AfterUpdate(ctx, current)
	assert.Empty(t, f.sink.all(), "nothing is written before commit")

	uow.commit(ctx)
	intents := f.sink.all()
	require.Len(t, intents, 1)

	got := intents[0]
	assert.Equal(t, ActionUpdate, got.Action)
	assert.Equal(t, "Account", got.EntityType)
	assert.Equal(t, int64(7), got.EntityID)
	assert.Equal(t, []string{"passwordHash"}, got.ChangedFields)
	assert.NotContains(t, snapshotMap(t, got.OldValues), "passwordHash")
	assert.NotContains(t, snapshotMap(t, got.NewValues), "passwordHash")
	assert.Equal(t, "Ann", snapshotMap(t, got.OldValues)["firstName"])
	require.NotNil(t, got.ActorID)
	assert.Equal(t, int64(1), *got.ActorID)
	assert.Equal(t, "Admin", *got.ActorName)
	require.NotNil(t, got.SourceIP)
	assert.Equal(t, "10.0.0.1", *got.SourceIP)
	assert.Equal(t, fixedNow, got.Timestamp)
	assert.NotEqual(t, uuid.Nil, got.ID)

	assert.Nil(t, uow.Value(bufferKey{}), "buffer is removed once empty")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.emitted.WithLabelValues("UPDATE")))
}

func TestInterceptor_DeleteRecordsPreImage(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	f.interceptor.AfterDelete(ctx, &stay{ID: 3, Ward: &ward{ID: 9}, Status: "DISCHARGED"})
	uow.commit(ctx)

	intents := f.sink.all()
	require.Len(t, intents, 1)
	got := intents[0]
	assert.Equal(t, ActionDelete, got.Action)
	assert.Equal(t, int64(3), got.EntityID)
	assert.Nil(t, got.NewValues)
	assert.Nil(t, got.ChangedFields)
	assert.Nil(t, got.ActorID)
	assert.Nil(t, got.SourceIP)
	assert.Equal(t, map[string]any{
		"id":      float64(3),
		"wardId":  float64(9),
		"guestId": nil,
		"status":  "DISCHARGED",
	}, snapshotMap(t, got.OldValues))
}

func TestInterceptor_CreateRecordsNewImage(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	f.interceptor.AfterCreate(ctx, &ward{ID: 9, Number: "101"})
	uow.commit(ctx)

	intents := f.sink.all()
	require.Len(t, intents, 1)
	got := intents[0]
	assert.Equal(t, ActionCreate, got.Action)
	assert.Nil(t, got.OldValues)
	assert.Nil(t, got.ChangedFields)
	newValues := snapshotMap(t, got.NewValues)
	assert.Equal(t, "101", newValues["number"])
	price, ok := newValues["price"]
	assert.True(t, ok)
	assert.Nil(t, price)
}

func TestInterceptor_RollbackDiscardsIntents(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	f.interceptor.AfterCreate(ctx, &ward{ID: 1})
	f.interceptor.AfterDelete(ctx, &ward{ID: 2})
	uow.rollback()
	uow.commit(ctx)

	assert.Empty(t, f.sink.all())
}

func TestInterceptor_PreservesEmissionOrder(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	w := &ward{ID: 1, Number: "1"}
	f.interceptor.AfterCreate(ctx, w)
	updated := &ward{ID: 1, Number: "2"}
	f.interceptor.BeforeUpdate(ctx, w, updated)
	f.interceptor.AfterUpdate(ctx, updated)
	f.interceptor.AfterDelete(ctx, updated)
	uow.commit(ctx)

	intents := f.sink.all()
	require.Len(t, intents, 3)
	assert.Equal(t, ActionCreate, intents[0].Action)
	assert.Equal(t, ActionUpdate, intents[1].Action)
	assert.Equal(t, []string{"number"}, intents[1].ChangedFields)
	assert.Equal(t, ActionDelete, intents[2].Action)
}

func TestInterceptor_UpdateWithoutCapture(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	f.interceptor.AfterUpdate(ctx, &ward{ID: 4, Number: "7"})
	uow.commit(ctx)

	intents := f.sink.all()
	require.Len(t, intents, 1)
	assert.Equal(t, ActionUpdate, intents[0].Action)
	assert.Nil(t, intents[0].OldValues)
	assert.Nil(t, intents[0].ChangedFields)
	assert.Equal(t, "7", snapshotMap(t, intents[0].NewValues)["number"])
}

func TestInterceptor_BufferIsKeyedByTypeAndID(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	acc := &account{ID: 5, Username: "new"}
	f.interceptor.BeforeUpdate(ctx, &account{ID: 5, Username: "old"}, acc)
	w := &ward{ID: 5, Number: "B"}
	f.interceptor.BeforeUpdate(ctx, &ward{ID: 5, Number: "A"}, w)

	f.interceptor.AfterUpdate(ctx, acc)
	assert.NotNil(t, uow.Value(bufferKey{}), "ward capture still pending")
	f.interceptor.AfterUpdate(ctx, w)
	uow.commit(ctx)

	intents := f.sink.all()
	require.Len(t, intents, 2)
	assert.Equal(t, []string{"username"}, intents[0].ChangedFields)
	assert.Equal(t, "old", snapshotMap(t, intents[0].OldValues)["username"])
	assert.Equal(t, []string{"number"}, intents[1].ChangedFields)
	assert.Equal(t, "A", snapshotMap(t, intents[1].OldValues)["number"])
	assert.Nil(t, uow.Value(bufferKey{}))
}

func TestInterceptor_IgnoresNonAuditableValues(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	f.interceptor.AfterCreate(ctx, struct{ ID int64 }{ID: 1})
	f.interceptor.BeforeUpdate(ctx, "old", "new")
	f.interceptor.AfterUpdate(ctx, 42)
	f.interceptor.AfterDelete(ctx, nil)
	uow.commit(ctx)

	assert.Empty(t, f.sink.all())
	assert.Nil(t, uow.Value(bufferKey{}))
}

func TestInterceptor_NoUnitOfWorkDropsIntent(t *testing.T) {
	f := newInterceptorFixture()

	assert.NotPanics(t, func() {
		f.interceptor.AfterCreate(context.Background(), &ward{ID: 1})
	})

	assert.Empty(t, f.sink.all())
	entry := f.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Ward", entry.Data["entity_type"])
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.dropped.WithLabelValues(DropNoUnitOfWork)))
}

type brokenEntity struct{}

func (brokenEntity) AuditID() int64               { return 1 }
func (brokenEntity) AuditDescriptor() *Descriptor { panic("descriptor unavailable") }

func TestInterceptor_FaultsAreSwallowed(t *testing.T) {
	f := newInterceptorFixture()
	uow := newFakeUnitOfWork()
	ctx := withFakeUnitOfWork(context.Background(), uow)

	assert.NotPanics(t, func() {
		f.interceptor.AfterCreate(ctx, brokenEntity{})
		f.interceptor.BeforeUpdate(ctx, brokenEntity{}, brokenEntity{})
		f.interceptor.AfterUpdate(ctx, brokenEntity{})
		f.interceptor.AfterDelete(ctx, brokenEntity{})
	})
	uow.commit(ctx)

	assert.Empty(t, f.sink.all())
	entry := f.logs.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, 4.0, testutil.ToFloat64(f.metrics.dropped.WithLabelValues(DropFault)))
}

func TestInterceptor_ConcurrentUnitsOfWorkAreIsolated(t *testing.T) {
	f := newInterceptorFixture()
	const workers = 32

	var wg sync.WaitGroup
	for n := 0; n < workers; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			uow := newFakeUnitOfWork()
			ctx := withFakeUnitOfWork(context.Background(), uow)

			// every worker uses the same id to prove buffers are not shared
			before := &account{ID: 1, Username: fmt.Sprintf("user-%d", n)}
			after := &account{ID: 1, Username: fmt.Sprintf("user-%d", n), FirstName: strPtr(fmt.Sprintf("name-%d", n))}
			f.interceptor.BeforeUpdate(ctx, before, after)
			f.interceptor.AfterUpdate(ctx, after)
			uow.commit(ctx)
		}(n)
	}
	wg.Wait()

	intents := f.sink.all()
	require.Len(t, intents, workers)
	for _, got := range intents {
		assert.Equal(t, []string{"firstName"}, got.ChangedFields)
		oldValues := snapshotMap(t, got.OldValues)
		newValues := snapshotMap(t, got.NewValues)
		assert.Equal(t, oldValues["username"], newValues["username"])
		assert.Nil(t, oldValues["firstName"])
		assert.Equal(t, "name-"+oldValues["username"].(string)[len("user-"):], newValues["firstName"])
	}
}
