package server

import (
	"context"
	"sync"
	"time"

	"github.com/leadkitchen/dealdesk/internal/syncer"
)

const (
	syncEventCompleted  = "sync-complete"
	syncEventHeartbeat  = "heartbeat"
	heartbeatInterval   = 25 * time.Second
	subscriberBufferLen = 16
)

// SyncEvent is one message delivered over the sync event stream.
type SyncEvent struct {
	EventType string         `json:"event"`
	Report    *syncer.Report `json:"report,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// EventDispatcher fans completed sync reports out to every connected
// event-stream subscriber. Slow subscribers drop messages rather than
// block the publisher.
type EventDispatcher struct {
	mu          sync.RWMutex
	subscribers map[int64]*eventSubscriber
	nextID      int64
}

type eventSubscriber struct {
	id     int64
	stream chan SyncEvent
}

func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		subscribers: make(map[int64]*eventSubscriber),
	}
}

// Subscribe registers a listener and returns its stream plus a cleanup
// function. The subscription ends when the context is cancelled.
func (d *EventDispatcher) Subscribe(ctx context.Context) (<-chan SyncEvent, func()) {
	subscriber := &eventSubscriber{
		stream: make(chan SyncEvent, subscriberBufferLen),
	}
	d.mu.Lock()
	d.nextID++
	subscriber.id = d.nextID
	d.subscribers[subscriber.id] = subscriber
	d.mu.Unlock()

	cleanup := func() {
		d.mu.Lock()
		delete(d.subscribers, subscriber.id)
		d.mu.Unlock()
	}
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return subscriber.stream, cleanup
}

// Broadcast delivers a completed sync report to every subscriber.
func (d *EventDispatcher) Broadcast(report *syncer.Report) {
	if report == nil {
		return
	}
	d.publish(SyncEvent{
		EventType: syncEventCompleted,
		Report:    report,
		Timestamp: time.Now().UTC(),
	})
}

func (d *EventDispatcher) publish(event SyncEvent) {
	d.mu.RLock()
	copies := make([]*eventSubscriber, 0, len(d.subscribers))
	for _, subscriber := range d.subscribers {
		copies = append(copies, subscriber)
	}
	d.mu.RUnlock()
	for _, subscriber := range copies {
		select {
		case subscriber.stream <- event:
		default:
		}
	}
}
