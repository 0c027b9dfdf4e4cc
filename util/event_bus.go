// util/event_bus.go

package util

import (
	"context"
	"fmt"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/accessledger/logging"
)

// Event types
const (
	// EventChangesRecorded carries the []*model.ChangeRecord committed by one mutation
	EventChangesRecorded = "changes.recorded"
	// EventProfilePublished carries the *model.PortalSnapshot that was published
	EventProfilePublished = "profile.published"
	// EventProfileUpdated carries the updated *model.Profile
	EventProfileUpdated = "profile.updated"
)

// Event represents an event in the system
type Event struct {
	Type    string
	Payload interface{}
}

// EventHandler is a function that handles an event
type EventHandler func(context.Context, Event) error

// EventBus manages event subscriptions and publications
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	errorChan   chan error
	wg          conc.WaitGroup
}

// NewEventBus creates a new EventBus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]EventHandler),
		errorChan:   make(chan error, 100),
	}
}

// Subscribe adds a new subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], handler)
}

// Publish sends an event to all subscribers. Handlers run asynchronously and
// outlive the request that published the event.
func (eb *EventBus) Publish(ctx context.Context, eventType string, payload interface{}) {
	eb.mu.RLock()
	handlers := append([]EventHandler(nil), eb.subscribers[eventType]...)
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		Type:    eventType,
		Payload: payload,
	}
	handlerCtx := context.WithoutCancel(ctx)

	for _, handler := range handlers {
		h := handler
		eb.wg.Go(func() {
			var err error
			var pc panics.Catcher
			pc.Try(func() { err = h(handlerCtx, event) })
			if recovered := pc.Recovered(); recovered != nil {
				err = recovered.AsError()
			}
			if err == nil {
				return
			}
			select {
			case eb.errorChan <- fmt.Errorf("event handler error (%s): %w", eventType, err):
			default:
				logger.Error("Error channel full, logging event handler error",
					zap.Error(err),
					zap.String("eventType", eventType))
			}
		})
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}

// Start begins processing events and handling errors
func (eb *EventBus) Start(ctx context.Context) {
	go eb.processErrors(ctx)
}

// processErrors handles errors from event handlers
func (eb *EventBus) processErrors(ctx context.Context) {
	for {
		select {
		case err := <-eb.errorChan:
			logger.Error("Event handler error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}
}
