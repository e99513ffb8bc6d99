package system

import (
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/event"
	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
)

// EventDispatchSystem makes last tick's events readable and delivers them
// to subscribers. Phase 1 (Events).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
