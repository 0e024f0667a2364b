package eventbus

import (
	"runtime/debug"
	"sync"

	"siteseek/internal/domain"
	"siteseek/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventManifestLoaded    = domain.EventManifestLoaded
	EventManifestFailed    = domain.EventManifestFailed
	EventIndexReady        = domain.EventIndexReady
	EventIndexFailed       = domain.EventIndexFailed
	EventQueryChanged      = domain.EventQueryChanged
	EventResultsUpdated    = domain.EventResultsUpdated
	EventPreviewRequested  = domain.EventPreviewRequested
	EventPreviewLoaded     = domain.EventPreviewLoaded
	EventPreviewFailed     = domain.EventPreviewFailed
	EventPageOpenRequested = domain.EventPageOpenRequested
	EventError             = domain.EventError
)

// Re-export domain event types
type ManifestLoadedEvent = domain.ManifestLoadedEvent
type ManifestFailedEvent = domain.ManifestFailedEvent
type IndexReadyEvent = domain.IndexReadyEvent
type IndexFailedEvent = domain.IndexFailedEvent
type QueryChangedEvent = domain.QueryChangedEvent
type ResultsUpdatedEvent = domain.ResultsUpdatedEvent
type PreviewRequestedEvent = domain.PreviewRequestedEvent
type PreviewLoadedEvent = domain.PreviewLoadedEvent
type PreviewFailedEvent = domain.PreviewFailedEvent
type PageOpenRequestedEvent = domain.PageOpenRequestedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      int
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    int
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closed    bool
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return
	}

	select {
	case b.eventChan <- event:
	default:
		// Channel full, log and drop
		logging.Logger(logging.CompBus).Warn("event channel full, dropping event",
			"type", string(event.Type()))
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops dispatching and detaches all subscribers. Used on teardown so
// late events cannot call back into a torn-down UI.
func (b *bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.handlers = make(map[EventType][]subscription)
	b.mu.Unlock()

	close(b.quit)
	b.wg.Wait()
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	log := logging.Logger(logging.CompBus)
	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			subsCopy := make([]subscription, len(subs))
			copy(subsCopy, subs)
			b.mu.RUnlock()

			for _, s := range subsCopy {
				func(h EventHandler) {
					defer func() {
						if r := recover(); r != nil {
							log.Error("event handler panic",
								"type", string(event.Type()),
								"panic", r,
								"stack", string(debug.Stack()))
						}
					}()
					h(event)
				}(s.handler)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
