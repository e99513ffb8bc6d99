package system

import (
	"time"

	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/world"
)

// TriggerSystem fires triggers for active entities entering their regions
// and releases the ones that left. Phase 3 (Triggers).
type TriggerSystem struct {
	m *world.Map
}

func NewTriggerSystem(m *world.Map) *TriggerSystem {
	return &TriggerSystem{m: m}
}

func (s *TriggerSystem) Phase() coresys.Phase { return coresys.PhaseTriggers }

func (s *TriggerSystem) Update(_ time.Duration) {
	s.m.UpdateTriggers()
}
