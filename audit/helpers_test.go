package audit

import (
	"context"
	"sync"
	"time"
)

type account struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    *string
	Token        *string
	LastLogin    *time.Time
	Groups       []string
}

var accountDescriptor = Describe("Account",
	Scalar("id", func(e Entity) any { return e.(*account).ID }),
	Scalar("username", func(e Entity) any { return e.(*account).Username }),
	Scalar("passwordHash", func(e Entity) any { return e.(*account).PasswordHash }),
	Scalar("firstName", func(e Entity) any { return e.(*account).FirstName }),
	Scalar("token", func(e Entity) any { return e.(*account).Token }),
	Scalar("lastLogin", func(e Entity) any { return e.(*account).LastLogin }),
	Collection("groups"),
)

func (a *account) AuditID() int64               { return a.ID }
func (a *account) AuditDescriptor() *Descriptor { return accountDescriptor }

type ward struct {
	ID     int64
	Number string
	Price  *float64
	Tags   []string
}

var wardDescriptor = Describe("Ward",
	Scalar("id", func(e Entity) any { return e.(*ward).ID }),
	Scalar("number", func(e Entity) any { return e.(*ward).Number }),
	Scalar("price", func(e Entity) any { return e.(*ward).Price }),
	// declared as a scalar on purpose: slices are still kept out of snapshots
	Scalar("tags", func(e Entity) any { return e.(*ward).Tags }),
)

func (w *ward) AuditID() int64               { return w.ID }
func (w *ward) AuditDescriptor() *Descriptor { return wardDescriptor }

type stay struct {
	ID     int64
	Ward   *ward
	Guest  *account
	Status string
}

var stayDescriptor = Describe("Stay",
	Scalar("id", func(e Entity) any { return e.(*stay).ID }),
	Relation("ward", func(e Entity) (int64, bool) {
		if w := e.(*stay).Ward; w != nil {
			return w.ID, true
		}
		return 0, false
	}),
	Relation("guest", func(e Entity) (int64, bool) {
		if g := e.(*stay).Guest; g != nil {
			return g.ID, true
		}
		return 0, false
	}),
	Scalar("status", func(e Entity) any { return e.(*stay).Status }),
	Scalar("broken", func(e Entity) any { panic("unreadable") }),
)

func (s *stay) AuditID() int64               { return s.ID }
func (s *stay) AuditDescriptor() *Descriptor { return stayDescriptor }

func strPtr(s string) *string { return &s }

// fakeUnitOfWork queues after-commit callbacks until commit is called
type fakeUnitOfWork struct {
	mu     sync.Mutex
	hooks  []func(ctx context.Context)
	values map[any]any
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{values: make(map[any]any)}
}

func (u *fakeUnitOfWork) AfterCommit(fn func(ctx context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hooks = append(u.hooks, fn)
}

func (u *fakeUnitOfWork) Value(key any) any {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.values[key]
}

func (u *fakeUnitOfWork) SetValue(key, value any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if value == nil {
		delete(u.values, key)
		return
	}
	u.values[key] = value
}

func (u *fakeUnitOfWork) commit(ctx context.Context) {
	u.mu.Lock()
	hooks := u.hooks
	u.hooks = nil
	u.mu.Unlock()
	for _, h := range hooks {
		h(ctx)
	}
}

func (u *fakeUnitOfWork) rollback() {
	u.mu.Lock()
	u.hooks = nil
	u.mu.Unlock()
}

type uowKey struct{}

func withFakeUnitOfWork(ctx context.Context, u *fakeUnitOfWork) context.Context {
	return context.WithValue(ctx, uowKey{}, u)
}

var fakeLocator = LocatorFunc(func(ctx context.Context) (UnitOfWork, bool) {
	u, ok := ctx.Value(uowKey{}).(*fakeUnitOfWork)
	return u, ok
})

// captureSink collects intents in delivery order
type captureSink struct {
	mu      sync.Mutex
	intents []Intent
}

func (s *captureSink) Write(_ context.Context, intent Intent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intents = append(s.intents, intent)
}

func (s *captureSink) all() []Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Intent(nil), s.intents...)
}
