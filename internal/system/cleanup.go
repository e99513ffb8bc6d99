package system

import (
	"time"

	coresys "github.com/cobalthex/dyingandmore/internal/core/system"
	"github.com/cobalthex/dyingandmore/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 6 (Cleanup).
type CleanupSystem struct {
	m *world.Map
}

func NewCleanupSystem(m *world.Map) *CleanupSystem {
	return &CleanupSystem{m: m}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.m.FlushDestroys()
}
