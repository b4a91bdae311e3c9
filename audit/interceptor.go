package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/insidehealthgt/hms/userctx"
)

// UnitOfWork is what the interceptor needs from the surrounding transaction
type UnitOfWork interface {
	AfterCommit(fn func(ctx context.Context))
	Value(key any) any
	SetValue(key, value any)
}

// Locator finds the unit of work a context belongs to
type Locator interface {
	Locate(ctx context.Context) (UnitOfWork, bool)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (UnitOfWork, bool)

// Locate calls f(ctx)
func (f LocatorFunc) Locate(ctx context.Context) (UnitOfWork, bool) {
	return f(ctx)
}

// Sink receives intents once their unit of work has committed
type Sink interface {
	Write(ctx context.Context, intent Intent)
}

type entityKey struct {
	entityType string
	id         int64
}

type pendingUpdate struct {
	old     *Snapshot
	changed []string
}

type bufferKey struct{}

// pendingBuffer holds pre-update captures for one unit of work
type pendingBuffer struct {
	mu      sync.Mutex
	entries map[entityKey]pendingUpdate
}

// Interceptor receives lifecycle callbacks from the persistence layer and
// turns them into intents registered with the current unit of work
type Interceptor struct {
	locator    Locator
	sink       Sink
	serializer *Serializer
	log        logrus.FieldLogger
	metrics    *Metrics
	now        func() time.Time
}

// InterceptorOption configures an Interceptor
type InterceptorOption func(*Interceptor)

// WithClock overrides the event timestamp source
func WithClock(now func() time.Time) InterceptorOption {
	return func(i *Interceptor) { i.now = now }
}

// WithMetrics records emitted and dropped intents
func WithMetrics(m *Metrics) InterceptorOption {
	return func(i *Interceptor) { i.metrics = m }
}

// NewInterceptor creates an Interceptor
func NewInterceptor(locator Locator, sink Sink, serializer *Serializer, log logrus.FieldLogger, opts ...InterceptorOption) *Interceptor {
	i := &Interceptor{
		locator:    locator,
		sink:       sink,
		serializer: serializer,
		log:        log,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// BeforeUpdate captures the persisted state of an entity about to be updated.
// previous holds the values last written to the database and current the
// values about to be written.
func (i *Interceptor) BeforeUpdate(ctx context.Context, previous, current any) {
	defer i.guard("before_update", current)

	prev, ok := previous.(Entity)
	if !ok {
		return
	}
	cur, ok := current.(Entity)
	if !ok {
		return
	}

	uow, ok := i.locator.Locate(ctx)
	if !ok {
		return
	}

	oldValues := Capture(prev)
	pending := pendingUpdate{
		old:     i.serializer.Snapshot(oldValues),
		changed: Diff(oldValues, Capture(cur)),
	}

	buf, _ := uow.Value(bufferKey{}).(*pendingBuffer)
	if buf == nil {
		buf = &pendingBuffer{entries: make(map[entityKey]pendingUpdate)}
		uow.SetValue(bufferKey{}, buf)
	}
	buf.mu.Lock()
	buf.entries[keyOf(cur)] = pending
	buf.mu.Unlock()
}

// AfterCreate records a CREATE with the full new image
func (i *Interceptor) AfterCreate(ctx context.Context, entity any) {
	defer i.guard("after_create", entity)

	e, ok := entity.(Entity)
	if !ok {
		return
	}
	i.emit(ctx, i.intent(ctx, ActionCreate, e, nil, i.serializer.Serialize(e), nil))
}

// AfterUpdate records an UPDATE using the state captured by BeforeUpdate.
// Without a capture the old image is left absent.
func (i *Interceptor) AfterUpdate(ctx context.Context, entity any) {
	defer i.guard("after_update", entity)

	e, ok := entity.(Entity)
	if !ok {
		return
	}

	var pending pendingUpdate
	if uow, ok := i.locator.Locate(ctx); ok {
		pending, _ = i.take(uow, keyOf(e))
	}
	if pending.old == nil {
		i.log.WithFields(logrus.Fields{
			"entity_type": e.AuditDescriptor().Type,
			"entity_id":   e.AuditID(),
		}).Debug("No pre-update snapshot, recording update without old values")
	}

	i.emit(ctx, i.intent(ctx, ActionUpdate, e, pending.old, i.serializer.Serialize(e), pending.changed))
}

// AfterDelete records a DELETE with the full pre-delete image
func (i *Interceptor) AfterDelete(ctx context.Context, entity any) {
	defer i.guard("after_delete", entity)

	e, ok := entity.(Entity)
	if !ok {
		return
	}
	i.emit(ctx, i.intent(ctx, ActionDelete, e, i.serializer.Serialize(e), nil, nil))
}

// take removes and returns the pending capture for key, dropping the buffer
// from the unit of work once it is empty
func (i *Interceptor) take(uow UnitOfWork, key entityKey) (pendingUpdate, bool) {
	buf, _ := uow.Value(bufferKey{}).(*pendingBuffer)
	if buf == nil {
		return pendingUpdate{}, false
	}

	buf.mu.Lock()
	pending, ok := buf.entries[key]
	delete(buf.entries, key)
	empty := len(buf.entries) == 0
	buf.mu.Unlock()

	if empty {
		uow.SetValue(bufferKey{}, nil)
	}
	return pending, ok
}

func (i *Interceptor) intent(ctx context.Context, action Action, e Entity, oldValues, newValues *Snapshot, changed []string) Intent {
	intent := Intent{
		ID:            uuid.New(),
		Action:        action,
		EntityType:    e.AuditDescriptor().Type,
		EntityID:      e.AuditID(),
		OldValues:     oldValues,
		NewValues:     newValues,
		ChangedFields: changed,
		Timestamp:     i.now().UTC(),
	}
	if actor, ok := userctx.GetActor(ctx); ok {
		id, name := actor.ID, actor.Name
		intent.ActorID = &id
		intent.ActorName = &name
	}
	if ip := userctx.GetIPAddress(ctx); ip != "" {
		intent.SourceIP = &ip
	}
	return intent
}

func (i *Interceptor) emit(ctx context.Context, intent Intent) {
	uow, ok := i.locator.Locate(ctx)
	if !ok {
		i.log.WithFields(intentFields(intent)).Warn("No active unit of work, audit intent dropped")
		i.metrics.incDropped(DropNoUnitOfWork)
		return
	}

	uow.AfterCommit(func(ctx context.Context) {
		i.sink.Write(ctx, intent)
	})
	i.metrics.incEmitted(intent.Action)
}

func (i *Interceptor) guard(stage string, entity any) {
	r := recover()
	if r == nil {
		return
	}
	fields := logrus.Fields{
		"stage": stage,
		"panic": fmt.Sprint(r),
	}
	if e, ok := entity.(Entity); ok {
		fields["entity_type"] = safeType(e)
	}
	i.log.WithFields(fields).Error("Audit interceptor failed, intent dropped")
	i.metrics.incDropped(DropFault)
}

func keyOf(e Entity) entityKey {
	return entityKey{entityType: e.AuditDescriptor().Type, id: e.AuditID()}
}

func safeType(e Entity) (name string) {
	defer func() {
		if recover() != nil {
			name = fmt.Sprintf("%T", e)
		}
	}()
	return e.AuditDescriptor().Type
}

func intentFields(intent Intent) logrus.Fields {
	fields := logrus.Fields{
		"intent_id":   intent.ID.String(),
		"action":      string(intent.Action),
		"entity_type": intent.EntityType,
		"entity_id":   intent.EntityID,
	}
	if intent.ActorID != nil {
		fields["actor_id"] = *intent.ActorID
	}
	return fields
}
