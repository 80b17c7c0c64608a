package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/domain/shared"
)

func TestHandlerRegistry_Register(t *testing.T) {
	registry := NewHandlerRegistry()
	h := newTestHandler()

	registry.Register(h, "CategoryUpdated", "ArticleUpdated")
	registry.Register(h, "CategoryUpdated")

	assert.Equal(t, []shared.EventHandler{h}, registry.GetHandlers("CategoryUpdated"))
	assert.Equal(t, []shared.EventHandler{h}, registry.GetHandlers("ArticleUpdated"))
	assert.Empty(t, registry.GetHandlers("OrderPlaced"))
}

func TestHandlerRegistry_WildcardComesLast(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newTestHandler()
	wildcard := newTestHandler()

	registry.Register(wildcard)
	registry.Register(wildcard)
	registry.Register(typed, "OrderPlaced")

	handlers := registry.GetHandlers("OrderPlaced")
	require.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])
	assert.Equal(t, []shared.EventHandler{wildcard}, registry.GetHandlers("Anything"))
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	registry.Register(a, "X", "Y")
	registry.Register(b, "X")
	registry.Register(a)

	registry.Unregister(a)

	assert.Equal(t, []shared.EventHandler{b}, registry.GetHandlers("X"))
	assert.Empty(t, registry.GetHandlers("Y"))
	_, exists := registry.handlers["Y"]
	assert.False(t, exists)
}

func TestHandlerRegistry_GetAllHandlers(t *testing.T) {
	registry := NewHandlerRegistry()
	a := newTestHandler()
	b := newTestHandler()
	registry.Register(a, "X", "Y")
	registry.Register(b)
	registry.Register(a)

	assert.ElementsMatch(t, []shared.EventHandler{a, b}, registry.GetAllHandlers())
}
