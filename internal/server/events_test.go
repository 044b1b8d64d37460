package server

import (
	"context"
	"testing"
	"time"

	"github.com/leadkitchen/dealdesk/internal/syncer"
)

func TestEventDispatcherBroadcastsToSubscribers(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, firstCleanup := dispatcher.Subscribe(ctx)
	defer firstCleanup()
	second, secondCleanup := dispatcher.Subscribe(ctx)
	defer secondCleanup()

	dispatcher.Broadcast(&syncer.Report{RunID: "run-1"})

	for _, stream := range []<-chan SyncEvent{first, second} {
		select {
		case event := <-stream:
			if event.EventType != syncEventCompleted {
				t.Fatalf("unexpected event type %q", event.EventType)
			}
			if event.Report == nil || event.Report.RunID != "run-1" {
				t.Fatalf("unexpected report: %+v", event.Report)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatal("expected sync event within deadline")
		}
	}
}

func TestEventDispatcherIgnoresNilReport(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx)
	defer cleanup()

	dispatcher.Broadcast(nil)

	select {
	case event := <-stream:
		t.Fatalf("expected no event, got %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEventDispatcherDropsUnsubscribed(t *testing.T) {
	dispatcher := NewEventDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	stream, cleanup := dispatcher.Subscribe(ctx)
	cleanup()
	cancel()

	dispatcher.Broadcast(&syncer.Report{RunID: "run-2"})

	select {
	case _, ok := <-stream:
		if ok {
			t.Fatal("expected no delivery after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
	}
}
