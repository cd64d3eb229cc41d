package events

import (
	"testing"
	"time"

	"github.com/thenoetrevino/etapa/internal/models"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()

	ev := Event{Type: EventJobStarted, Job: "pytest", Timestamp: time.Now()}
	bus.Publish(ev)
	bus.Close()

	for name, ch := range map[string]<-chan Event{"a": a, "b": b} {
		got, ok := <-ch
		if !ok {
			t.Fatalf("subscriber %s channel closed before delivery", name)
		}
		if got.Type != EventJobStarted || got.Job != "pytest" {
			t.Errorf("subscriber %s got %+v", name, got)
		}
		if _, ok := <-ch; ok {
			t.Errorf("subscriber %s channel not closed after Close", name)
		}
	}
}

func TestBusPublishAfterCloseIsNoOp(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe()
	bus.Close()

	// must not panic
	bus.Publish(Event{Type: EventRunFinished, Status: models.StatusPassed})

	if _, ok := <-ch; ok {
		t.Error("expected closed channel")
	}
}

func TestBusSubscribeAfterClose(t *testing.T) {
	bus := NewBus()
	bus.Close()

	ch := bus.Subscribe()
	if _, ok := <-ch; ok {
		t.Error("subscription after close must be a closed channel")
	}
}

func TestBusDropsForSlowSubscriber(t *testing.T) {
	bus := NewBus()
	_ = bus.Subscribe() // never read

	// Overfill the buffer; Publish must never block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < defaultBuffer*2; i++ {
			bus.Publish(Event{Type: EventStepStarted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	bus.Close()
}

func TestPublishToNilPublisher(t *testing.T) {
	// must not panic
	PublishTo(nil, Event{Type: EventRunStarted})
}
