package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishDispatchesAsynchronously(t *testing.T) {
	bus := NewInMemoryBus(nil)
	got := make(chan Event, 1)
	bus.Subscribe("listing.changed", HandlerFunc(func(ctx context.Context, e Event) error {
		got <- e
		return nil
	}))

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "listing.changed"})

	select {
	case e := <-got:
		if e.EventName() != "listing.changed" {
			t.Fatalf("handler received %q", e.EventName())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishOutlivesCanceledRequestContext(t *testing.T) {
	bus := NewInMemoryBus(nil)
	ctxAlive := make(chan bool, 1)
	bus.Subscribe("listing.changed", HandlerFunc(func(ctx context.Context, e Event) error {
		ctxAlive <- ctx.Err() == nil
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "listing.changed"})

	select {
	case alive := <-ctxAlive:
		if !alive {
			t.Fatal("handler saw a canceled context")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishIgnoresHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	ran := make(chan struct{}, 2)
	failing := HandlerFunc(func(ctx context.Context, e Event) error {
		ran <- struct{}{}
		return errors.New("boom")
	})
	bus.Subscribe("listing.changed", failing)
	bus.Subscribe("listing.changed", failing)

	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "listing.changed"})

	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("handler %d never ran", i)
		}
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(nil)
	errFirst := errors.New("first failed")
	bus.Subscribe("listing.changed", HandlerFunc(func(ctx context.Context, e Event) error {
		return errFirst
	}))
	bus.Subscribe("listing.changed", HandlerFunc(func(ctx context.Context, e Event) error {
		return nil
	}))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "listing.changed"})
	if !errors.Is(err, errFirst) {
		t.Fatalf("joined error missing handler failure: %v", err)
	}
}

func TestPublishWithoutSubscribersIsANoOp(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"})
	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "nobody.listens"}); err != nil {
		t.Fatalf("PublishSync with no subscribers: %v", err)
	}
}
