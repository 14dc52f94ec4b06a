package event

import (
	"context"
	"testing"

	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

// mockHandler implements EventHandler for testing
type mockHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
}

func newMockHandler(eventTypes ...string) *mockHandler {
	return &mockHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *mockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.handled = append(h.handled, event)
	return nil
}

func (h *mockHandler) EventTypes() []string {
	return h.eventTypes
}

func TestHandlerRegistry_Register_SpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("IdeaCreated", "IdeaUpdated")

	registry.Register(handler, "IdeaCreated", "IdeaUpdated")

	handlers := registry.GetHandlers("IdeaCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("IdeaUpdated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("IdeaDeleted")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_Register_Wildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler() // No event types = wildcard

	registry.Register(handler)

	handlers := registry.GetHandlers("IdeaCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])

	handlers = registry.GetHandlers("AnyEventType")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler, handlers[0])
}

func TestHandlerRegistry_Register_MixedTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	specificHandler := newMockHandler("IdeaCreated")
	wildcardHandler := newMockHandler()

	registry.Register(specificHandler, "IdeaCreated")
	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("IdeaCreated")
	assert.Len(t, handlers, 2)

	handlers = registry.GetHandlers("OtherEvent")
	assert.Len(t, handlers, 1)
	assert.Equal(t, wildcardHandler, handlers[0])
}

func TestHandlerRegistry_Unregister_SpecificHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	handler1 := newMockHandler("IdeaCreated")
	handler2 := newMockHandler("IdeaCreated")

	registry.Register(handler1, "IdeaCreated")
	registry.Register(handler2, "IdeaCreated")

	handlers := registry.GetHandlers("IdeaCreated")
	assert.Len(t, handlers, 2)

	registry.Unregister(handler1)

	handlers = registry.GetHandlers("IdeaCreated")
	assert.Len(t, handlers, 1)
	assert.Equal(t, handler2, handlers[0])
}

func TestHandlerRegistry_Unregister_WildcardHandler(t *testing.T) {
	registry := NewHandlerRegistry()
	wildcardHandler := newMockHandler()

	registry.Register(wildcardHandler)

	handlers := registry.GetHandlers("AnyEvent")
	assert.Len(t, handlers, 1)

	registry.Unregister(wildcardHandler)

	handlers = registry.GetHandlers("AnyEvent")
	assert.Len(t, handlers, 0)
}

func TestHandlerRegistry_RegisterTwice(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("IdeaCreated")

	registry.Register(handler, "IdeaCreated")
	registry.Register(handler, "IdeaCreated")
	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("IdeaCreated"), 1)
	assert.Len(t, registry.GetHandlers("CommentCreated"), 1)
}

func TestHandlerRegistry_EventTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newMockHandler("IdeaCreated", "IdeaUpdated")

	registry.Register(handler, "IdeaCreated", "IdeaUpdated")
	assert.ElementsMatch(t, []string{"IdeaCreated", "IdeaUpdated"}, registry.EventTypes())

	registry.Unregister(handler)
	assert.Empty(t, registry.EventTypes())
}

func TestHandlerRegistry_GetHandlersReturnsCopy(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register(newMockHandler("IdeaCreated"), "IdeaCreated")

	handlers := registry.GetHandlers("IdeaCreated")
	handlers[0] = nil

	assert.NotNil(t, registry.GetHandlers("IdeaCreated")[0])
}
