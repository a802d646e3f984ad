package eventbus

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPlaced struct{ ID int }

type orderCancelled struct{ ID int }

func TestPublish_InvokesEveryHandlerOfType(t *testing.T) {
	b := New()
	var got atomic.Int64
	for range 3 {
		Subscribe(b, func(ctx context.Context, e orderPlaced) error {
			got.Add(int64(e.ID))
			return nil
		})
	}
	Subscribe(b, func(ctx context.Context, e orderCancelled) error {
		t.Error("handler for another type must not run")
		return nil
	})

	require.NoError(t, b.Publish(context.Background(), orderPlaced{ID: 5}))
	assert.Equal(t, int64(15), got.Load())
	assert.Equal(t, 3, b.HandlerCount(orderPlaced{}))
	assert.Equal(t, 1, b.HandlerCount(orderCancelled{}))
}

func TestPublish_PointerAndValueAreDistinctTypes(t *testing.T) {
	b := New()
	var calls int
	Subscribe(b, func(ctx context.Context, e *orderPlaced) error {
		calls++
		return nil
	})
	require.NoError(t, b.Publish(context.Background(), orderPlaced{}))
	require.NoError(t, b.Publish(context.Background(), &orderPlaced{}))
	assert.Equal(t, 1, calls)
}

func TestPublish_RunsConcurrently(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	wg.Add(2)
	for range 2 {
		Subscribe(b, func(ctx context.Context, e orderPlaced) error {
			wg.Done()
			wg.Wait()
			return nil
		})
	}
	done := make(chan error, 1)
	go func() { done <- b.Publish(context.Background(), orderPlaced{}) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handlers did not run concurrently")
	}
}

func TestPublish_JoinsErrorsAndRecoversPanics(t *testing.T) {
	b := New()
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var ran atomic.Int32
	Subscribe(b, func(ctx context.Context, e orderPlaced) error { ran.Add(1); return errA })
	Subscribe(b, func(ctx context.Context, e orderPlaced) error { ran.Add(1); return errB })
	Subscribe(b, func(ctx context.Context, e orderPlaced) error { ran.Add(1); panic("kaboom") })
	Subscribe(b, func(ctx context.Context, e orderPlaced) error { ran.Add(1); return nil })

	err := b.Publish(context.Background(), orderPlaced{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, int32(4), ran.Load(), "a failing handler must not stop the others")
}

func TestPublish_NoSubscribers(t *testing.T) {
	b := New()
	assert.NoError(t, b.Publish(context.Background(), orderPlaced{}))
	assert.Error(t, b.Publish(context.Background(), nil))
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var calls int
	sub := Subscribe(b, func(ctx context.Context, e orderPlaced) error { calls++; return nil })
	keep := Subscribe(b, func(ctx context.Context, e orderPlaced) error { calls += 10; return nil })
	assert.NotEqual(t, sub.ID, keep.ID)

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, b.Publish(context.Background(), orderPlaced{}))
	assert.Equal(t, 10, calls)

	keep.Unsubscribe()
	assert.Equal(t, 0, b.HandlerCount(orderPlaced{}))
	Subscription{}.Unsubscribe()
}

func TestSubscribeType(t *testing.T) {
	b := New()
	var seen any
	b.SubscribeType(reflect.TypeOf(orderCancelled{}), func(ctx context.Context, e any) error {
		seen = e
		return nil
	})
	require.NoError(t, b.Publish(context.Background(), orderCancelled{ID: 9}))
	assert.Equal(t, orderCancelled{ID: 9}, seen)
}

func TestPublish_Timeout(t *testing.T) {
	b := New(WithTimeout(20 * time.Millisecond))
	Subscribe(b, func(ctx context.Context, e orderPlaced) error {
		<-ctx.Done()
		return ctx.Err()
	})
	err := b.Publish(context.Background(), orderPlaced{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClose(t *testing.T) {
	b := New()
	Subscribe(b, func(ctx context.Context, e orderPlaced) error { return nil })
	b.Close()
	assert.ErrorIs(t, b.Publish(context.Background(), orderPlaced{}), ErrClosed)
}

type orderEvent interface{ OrderID() int }

func TestSubscribe_RejectsInterfaceTypes(t *testing.T) {
	b := New()
	assert.Panics(t, func() {
		Subscribe(b, func(ctx context.Context, e orderEvent) error { return nil })
	})
	assert.Panics(t, func() {
		b.SubscribeType(reflect.TypeFor[error](), func(ctx context.Context, e any) error { return nil })
	})
	assert.Panics(t, func() {
		b.SubscribeType(nil, func(ctx context.Context, e any) error { return nil })
	})
	assert.Equal(t, 0, b.HandlerCount(orderPlaced{}))
}
