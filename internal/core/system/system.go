package system

import "time"

// Phase defines execution ordering within a single simulation tick.
type Phase int

const (
	PhaseActivate Phase = iota // 0: recompute active rectangle, demote + promote
	PhaseEvents                // 1: dispatch last tick's events
	PhaseUpdate                // 2: physics, fluids, particles
	PhaseTriggers              // 3: trigger containment
	PhaseSettle                // 4: hand leavers back to sectors, propagate transforms
	PhasePersist               // 5: journal flush
	PhaseCleanup               // 6: destroy queued entities
)

// System is the interface every simulation stage implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
