package app

import (
	"sync"
)

// EventHandler is a function that handles events
type EventHandler func(event EventMsg)

// EventBus handles event subscription and publishing. Handlers run on their
// own goroutine and must not touch UI state.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[EventType][]EventHandler
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe subscribes to an event type
func (b *EventBus) Subscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// OnOpenConversation subscribes to one-to-one conversation intents
func (b *EventBus) OnOpenConversation(fn func(ConversationIntent)) {
	b.Subscribe(EventOpenConversation, func(e EventMsg) {
		if intent, ok := e.Data.(ConversationIntent); ok {
			fn(intent)
		}
	})
}

// OnCreateGroup subscribes to group creation intents
func (b *EventBus) OnCreateGroup(fn func()) {
	b.Subscribe(EventCreateGroup, func(EventMsg) { fn() })
}

// OnFetchFailed subscribes to page fetch failures
func (b *EventBus) OnFetchFailed(fn func(error)) {
	b.Subscribe(EventFetchFailed, func(e EventMsg) {
		if err, ok := e.Data.(error); ok {
			fn(err)
		}
	})
}

// Publish publishes an event to all subscribers
func (b *EventBus) Publish(event EventMsg) {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}

// Clear removes all handlers
func (b *EventBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[EventType][]EventHandler)
}
