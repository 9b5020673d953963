package world

import (
	"fmt"
	"log/slog"
)

// EventHandler is a script-registered callback for a named event. It
// receives the event payload and may return a script-runtime error, which
// is surfaced to the operator without aborting the tick.
type EventHandler func(payload any) error

// EventBus holds the registration-ordered handler lists for every event name.
// Registration only happens during init; dispatch happens every tick.
type EventBus struct {
	log      *slog.Logger
	handlers map[string][]EventHandler
}

func NewEventBus(log *slog.Logger) *EventBus {
	return &EventBus{log: log, handlers: map[string][]EventHandler{}}
}

// Register appends fn to the handler list for name, in call order.
func (e *EventBus) Register(name string, fn EventHandler) {
	e.handlers[name] = append(e.handlers[name], fn)
}

// Fire invokes every handler registered for name, in registration order,
// with the given payload. A handler's failure is logged and does not stop
// later handlers from running, matching the tick loop's never-propagate
// policy for per-handler errors.
func (e *EventBus) Fire(name string, payload any) {
	for _, h := range e.handlers[name] {
		if err := safeCall(h, payload); err != nil {
			e.log.Error("event handler failed", "event", name, "error", err)
		}
	}
}

func safeCall(h EventHandler, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: handler panicked: %v", ErrScript, r)
		}
	}()
	return h(payload)
}
