// Package bus implements the in-process event dispatch core: a registry of
// named handlers plus an event-type subscription table. Send delivers a
// message to one handler directly; Publish fans an event out to every
// subscriber, synchronously, on the calling goroutine.
//
// The bus is single-threaded by design. Every dispatch, including cascading
// publishes triggered inside handlers, completes before the initiating call
// returns. Callers that need concurrent access must serialize around the bus
// themselves.
package bus

import (
	"context"
	"fmt"

	"wareflow/internal/audit"
	"wareflow/internal/event"
)

// Message is anything deliverable to a handler: a typed command sent
// directly, or a typed event fanned out by Publish. Handlers inspect the
// concrete type and ignore messages they do not understand.
type Message any

// Handler is a unit of business logic bound to a name on the bus. The return
// value exists for direct callers of Send; Publish never reads it.
type Handler interface {
	Handle(ctx context.Context, msg Message) error
}

// Publisher is the capability handed to services so they can publish
// follow-on events without holding the full bus surface.
type Publisher interface {
	Publish(ctx context.Context, e event.Event)
}

// Sender dispatches a message to a single named handler.
type Sender interface {
	Send(ctx context.Context, handlerName string, msg Message) error
}

type delivery struct {
	handlerName string
	msg         Message
}

// Bus routes messages between named handlers.
type Bus struct {
	handlers    map[string]Handler
	subscribers map[string][]string
	audit       *audit.Logger

	// pending is the work list drained by Publish. Nested publishes insert
	// their deliveries at cursor, ahead of everything queued before the
	// current handler ran, which reproduces the depth-first order of
	// call-stack recursion without growing the stack. cursor advances past
	// each batch the running handler enqueues, so sequential publishes from
	// one handler stay in publish order; it is reset before every dispatch.
	pending  []delivery
	cursor   int
	draining bool
}

// New creates an empty bus. The audit logger records dispatch failures and
// published events; pass audit.Discard() to silence it.
func New(log *audit.Logger) *Bus {
	return &Bus{
		handlers:    make(map[string]Handler),
		subscribers: make(map[string][]string),
		audit:       log,
	}
}

// Register binds a handler under a unique name. Registering the same name
// again overwrites the previous binding.
func (b *Bus) Register(name string, h Handler) {
	b.handlers[name] = h
}

// Subscribe appends handlerName to the ordered subscriber list for
// eventType. Duplicate subscriptions are preserved: the handler is invoked
// once per registration.
func (b *Bus) Subscribe(eventType, handlerName string) {
	b.subscribers[eventType] = append(b.subscribers[eventType], handlerName)
}

// Send delivers msg to the named handler and returns its result to the
// caller. An unknown handler name is reported and returned as an error; it
// never panics or aborts a running fan-out.
func (b *Bus) Send(ctx context.Context, handlerName string, msg Message) error {
	h, ok := b.handlers[handlerName]
	if !ok {
		b.audit.Log("DISPATCH FAILED", "", fmt.Sprintf("handler '%s' not found", handlerName))
		return fmt.Errorf("bus: unknown handler %q", handlerName)
	}

	return h.Handle(ctx, msg)
}

// Publish fans e out to every subscriber of its event type, in subscription
// order. An event type with no subscribers is a silent no-op. Handler errors
// are logged and absorbed; they never reach the publisher.
func (b *Bus) Publish(ctx context.Context, e event.Event) {
	eventType := e.EventType()
	b.audit.Log("EVENT PUBLISHED", "", eventType)

	subs := b.subscribers[eventType]
	if len(subs) == 0 {
		return
	}

	batch := make([]delivery, 0, len(subs))
	for _, name := range subs {
		batch = append(batch, delivery{handlerName: name, msg: e})
	}

	rest := b.pending[b.cursor:]
	b.pending = append(b.pending[:b.cursor:b.cursor], append(batch, rest...)...)
	b.cursor += len(batch)

	if b.draining {
		return
	}

	b.draining = true
	defer func() { b.draining = false }()

	for len(b.pending) > 0 {
		next := b.pending[0]
		b.pending = b.pending[1:]
		b.cursor = 0

		if err := b.Send(ctx, next.handlerName, next.msg); err != nil {
			b.audit.Log("HANDLER ERROR", "", fmt.Sprintf("%s: %v", next.handlerName, err))
		}
	}
}
