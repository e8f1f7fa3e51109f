package events

import (
	"testing"
	"time"
)

func TestBus_EmitDelivers(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe(4)
	b := bus.Subscribe(4)
	defer a.Close()
	defer b.Close()

	bus.Emit("dictation:start-chat")

	for _, sub := range []*Subscription{a, b} {
		select {
		case got := <-sub.C():
			if got != "dictation:start-chat" {
				t.Errorf("expected start-chat, got %q", got)
			}
		default:
			t.Error("expected signal in subscription")
		}
	}
}

func TestBus_EmitWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Emit("dictation:stop-global")

	if bus.Dropped() != 0 {
		t.Errorf("no subscribers is not a drop, got %d", bus.Dropped())
	}
}

func TestBus_FullSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		bus.Emit("a")
		bus.Emit("b")
		bus.Emit("c")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}

	if bus.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", bus.Dropped())
	}
	if got := <-sub.C(); got != "a" {
		t.Errorf("expected first signal kept, got %q", got)
	}
}

func TestBus_CloseUnsubscribes(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	sub.Close()
	sub.Close()

	bus.Emit("a")

	if _, ok := <-sub.C(); ok {
		t.Error("expected closed channel")
	}
	if bus.Dropped() != 0 {
		t.Errorf("closed subscription must not count drops, got %d", bus.Dropped())
	}
}

func TestBus_Handle(t *testing.T) {
	bus := NewBus()
	got := make(chan string, 2)
	sub := bus.Handle(func(name string) { got <- name })
	defer sub.Close()

	bus.Emit("x")
	bus.Emit("y")

	for _, want := range []string{"x", "y"} {
		select {
		case name := <-got:
			if name != want {
				t.Errorf("expected %q, got %q", want, name)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %q", want)
		}
	}
}
