package sinkmock

import (
	"context"
	"sync"

	"annuity-exchange/internal/domain/events"
)

var _ events.Sink = (*Sink)(nil)

// Sink records every emitted event for assertions.
type Sink struct {
	mu     sync.Mutex
	Events []events.Event
}

func (s *Sink) Emit(_ context.Context, e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, e)
}

func (s *Sink) ByType(t events.Type) []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []events.Event
	for _, e := range s.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
