// Package hooks delivers host lifecycle notifications to subscribed handlers.
package hooks

import (
	"context"
	"sync"
)

// Name identifies a lifecycle hook.
type Name string

const (
	CreateCombatant Name = "createCombatant"
	DeleteCombatant Name = "deleteCombatant"
	DeleteCombat    Name = "deleteCombat"
)

// Handler reacts to a hook. The payload type depends on the hook.
type Handler func(ctx context.Context, payload any)

type subscription struct {
	handle  int
	handler Handler
}

// Bus is a synchronous publish/subscribe dispatcher keyed by hook name.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Name][]subscription
	next     int
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]subscription)}
}

// On registers h for name and returns a handle for Off. A nil handler is ignored and yields -1.
func (b *Bus) On(name Name, h Handler) int {
	if h == nil {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	handle := b.next
	b.next++
	b.handlers[name] = append(b.handlers[name], subscription{handle: handle, handler: h})
	return handle
}

// Off removes the subscription identified by handle.
func (b *Bus) Off(handle int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, subs := range b.handlers {
		for i, s := range subs {
			if s.handle == handle {
				b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Call runs every handler subscribed to name, in subscription order, before returning.
// Handlers may subscribe or call other hooks.
func (b *Bus) Call(ctx context.Context, name Name, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[name]))
	copy(subs, b.handlers[name])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(ctx, payload)
	}
}

// Count returns the number of handlers subscribed to name.
func (b *Bus) Count(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}
