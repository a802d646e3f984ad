// Package eventbus is a minimal in-process publish/subscribe bus. Handlers
// are registered per concrete event type and run concurrently on Publish.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("eventbus: bus is closed")

// Handler handles events of type E.
type Handler[E any] func(ctx context.Context, e E) error

// HandlerFunc is the untyped form every handler is stored as.
type HandlerFunc func(ctx context.Context, e any) error

type subscriber struct {
	id uuid.UUID
	fn HandlerFunc
}

// Bus dispatches events to the handlers subscribed to their type.
type Bus struct {
	mu      sync.Mutex
	subs    map[reflect.Type][]subscriber
	closed  bool
	timeout time.Duration
}

// Option configures New.
type Option func(*Bus)

// WithTimeout bounds every Publish call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(b *Bus) { b.timeout = d }
}

// New returns an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{subs: make(map[reflect.Type][]subscriber)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription identifies a registered handler.
type Subscription struct {
	ID  uuid.UUID
	typ reflect.Type
	bus *Bus
}

// Unsubscribe removes the handler. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.bus == nil {
		return
	}
	s.bus.remove(s.typ, s.ID)
}

// Subscribe registers h for events whose dynamic type is E. Events are
// matched by their concrete type, so E must not be an interface type;
// Subscribe panics if it is.
func Subscribe[E any](b *Bus, h Handler[E]) Subscription {
	typ := reflect.TypeFor[E]()
	return b.SubscribeType(typ, func(ctx context.Context, e any) error {
		return h(ctx, e.(E))
	})
}

// SubscribeType registers fn for events of type typ. It panics when typ is
// nil or an interface type, which no published event can have.
func (b *Bus) SubscribeType(typ reflect.Type, fn HandlerFunc) Subscription {
	if typ == nil || typ.Kind() == reflect.Interface {
		panic(fmt.Sprintf("eventbus: cannot subscribe to interface type %v", typ))
	}
	id := uuid.New()
	b.mu.Lock()
	b.subs[typ] = append(b.subs[typ], subscriber{id: id, fn: fn})
	b.mu.Unlock()
	zap.L().Debug("eventbus: subscribed", zap.Stringer("type", typ), zap.Stringer("id", id))
	return Subscription{ID: id, typ: typ, bus: b}
}

func (b *Bus) remove(typ reflect.Type, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[typ]
	for i, s := range list {
		if s.id != id {
			continue
		}
		next := make([]subscriber, 0, len(list)-1)
		next = append(next, list[:i]...)
		next = append(next, list[i+1:]...)
		if len(next) == 0 {
			delete(b.subs, typ)
		} else {
			b.subs[typ] = next
		}
		return
	}
}

// HandlerCount returns how many handlers are subscribed to the type of e.
func (b *Bus) HandlerCount(e any) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[reflect.TypeOf(e)])
}

// Publish runs every handler subscribed to the dynamic type of e
// concurrently and waits for all of them. The errors of every failing
// handler are joined. Handlers added or removed during a publish do not
// affect it.
func (b *Bus) Publish(ctx context.Context, e any) error {
	if e == nil {
		return errors.New("eventbus: nil event")
	}
	typ := reflect.TypeOf(e)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	snapshot := b.subs[typ]
	b.mu.Unlock()

	if len(snapshot) == 0 {
		return nil
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	// Wait reports only the first failure, so every handler records its own
	// error and a failed wait returns them all.
	errs := make([]error, len(snapshot))
	var g errgroup.Group
	for i, s := range snapshot {
		g.Go(func() error {
			errs[i] = invoke(ctx, s, e)
			return errs[i]
		})
	}
	if g.Wait() == nil {
		return nil
	}
	err := errors.Join(errs...)
	zap.L().Warn("eventbus: handlers failed", zap.Stringer("type", typ), zap.Error(err))
	return err
}

func invoke(ctx context.Context, s subscriber, e any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: handler %s panicked: %v", s.id, r)
		}
	}()
	return s.fn(ctx, e)
}

// Close makes every later Publish fail with ErrClosed. Publishes already
// running complete normally.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}
