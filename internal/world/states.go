package world

import (
	"time"

	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/core/event"
	"github.com/cobalthex/dyingandmore/internal/data"
)

// StateInstance is a running state: its definition plus elapsed time.
// Transitions are looked up by the finished instance's own name, so a
// state replaced before it finishes never fires its transition.
type StateInstance struct {
	data.StateDef
	reported bool
	Elapsed  time.Duration
}

// Finished reports whether a non-looping state has run its duration.
func (s *StateInstance) Finished() bool {
	return !s.Looping && s.Elapsed >= s.Duration
}

// StateMachine drives an entity's base state and its overlay states.
// Transitions map a state name to the next state name.
type StateMachine struct {
	owner       ecs.EntityID
	defs        map[string]data.StateDef
	transitions map[string]string
	base        *StateInstance
	overlays    []*StateInstance
	bus         *event.Bus
}

// NewStateMachine builds a machine from a class. A nil class yields an
// empty machine whose operations are no-ops.
func NewStateMachine(owner ecs.EntityID, class *data.EntityClass, bus *event.Bus) *StateMachine {
	sm := &StateMachine{
		owner:       owner,
		defs:        make(map[string]data.StateDef),
		transitions: make(map[string]string),
		bus:         bus,
	}
	if class == nil {
		return sm
	}
	for _, s := range class.States {
		sm.defs[s.Name] = s
	}
	for from, to := range class.Transitions {
		sm.transitions[from] = to
	}
	if class.InitialState != "" {
		sm.SetBase(class.InitialState)
	}
	return sm
}

// AddTransition registers current -> next.
func (sm *StateMachine) AddTransition(current, next string) {
	sm.transitions[current] = next
}

func (sm *StateMachine) Base() *StateInstance       { return sm.base }
func (sm *StateMachine) Overlays() []*StateInstance { return sm.overlays }

// SetBase replaces the base state. Unknown names are ignored.
func (sm *StateMachine) SetBase(name string) bool {
	def, ok := sm.defs[name]
	if !ok || def.Overlay {
		return false
	}
	sm.base = &StateInstance{StateDef: def}
	return true
}

// AddOverlay starts an overlay state alongside the base.
func (sm *StateMachine) AddOverlay(name string) bool {
	def, ok := sm.defs[name]
	if !ok || !def.Overlay {
		return false
	}
	sm.overlays = append(sm.overlays, &StateInstance{StateDef: def})
	return true
}

// RemoveOverlay stops every overlay named name.
func (sm *StateMachine) RemoveOverlay(name string) {
	kept := sm.overlays[:0]
	for _, o := range sm.overlays {
		if o.Name != name {
			kept = append(kept, o)
		}
	}
	sm.overlays = kept
}

// Update advances all states and applies transitions for finished ones.
func (sm *StateMachine) Update(dt time.Duration) {
	if sm.base != nil {
		sm.base.Elapsed += dt
		if sm.base.Finished() && !sm.base.reported {
			sm.base.reported = true
			from := sm.base.Name
			event.Emit(sm.bus, event.StateFinished{EntityID: sm.owner, State: from})
			if next, ok := sm.transitions[from]; ok && sm.SetBase(next) {
				event.Emit(sm.bus, event.StateTransitioned{EntityID: sm.owner, From: from, To: next})
			}
		}
	}

	kept := sm.overlays[:0]
	var started []*StateInstance
	for _, o := range sm.overlays {
		o.Elapsed += dt
		if !o.Finished() {
			kept = append(kept, o)
			continue
		}
		event.Emit(sm.bus, event.StateFinished{EntityID: sm.owner, State: o.Name, Overlay: true})
		if next, ok := sm.transitions[o.Name]; ok {
			if def, ok := sm.defs[next]; ok && def.Overlay {
				started = append(started, &StateInstance{StateDef: def})
				event.Emit(sm.bus, event.StateTransitioned{EntityID: sm.owner, From: o.Name, To: next, Overlay: true})
			}
		}
	}
	sm.overlays = append(kept, started...)
}
