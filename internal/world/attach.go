package world

import (
	"errors"

	"github.com/cobalthex/dyingandmore/internal/core/ecs"
	"github.com/cobalthex/dyingandmore/internal/geom"
)

var ErrAttachCycle = errors.New("world: attachment would form a cycle")

// Attach makes child follow parent at offset, expressed in the parent's
// frame (+X along the parent's forward). A previous parent is replaced.
func (m *Map) Attach(child, parent *Entity, offset geom.Vec2) error {
	if child == nil || parent == nil {
		return nil
	}
	for p := parent; p != nil; p = m.Entity(p.parent) {
		if p.ID == child.ID {
			return ErrAttachCycle
		}
	}
	m.Detach(child)
	child.parent = parent.ID
	child.localOffset = offset
	parent.children = append(parent.children, child.ID)
	return nil
}

// Detach releases child from its parent. Its world transform is kept.
func (m *Map) Detach(child *Entity) {
	if child == nil || child.parent == 0 {
		return
	}
	if p := m.Entity(child.parent); p != nil {
		p.children = removeID(p.children, child.ID)
	}
	child.parent = 0
	child.localOffset = geom.Vec2{}
}

// detachHierarchy cuts e out of the tree before it is freed. Children
// become roots where they stand.
func (m *Map) detachHierarchy(e *Entity) {
	m.Detach(e)
	for _, id := range e.children {
		if c := m.Entity(id); c != nil {
			c.parent = 0
			c.localOffset = geom.Vec2{}
		}
	}
	e.children = nil
}

// PropagateTransforms positions every attached entity from its parent,
// walking each tree from its root with an explicit stack so every node is
// visited exactly once after its parent.
func (m *Map) PropagateTransforms() {
	var stack []ecs.EntityID
	m.EachEntity(func(root *Entity) {
		if root.parent != 0 || len(root.children) == 0 {
			return
		}
		stack = append(stack[:0], root.ID)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			p := m.Entity(id)
			if p == nil {
				continue
			}
			for _, cid := range p.children {
				c := m.Entity(cid)
				if c == nil {
					continue
				}
				c.Position = p.Position.Add(c.localOffset.Rotate(p.Forward))
				c.UpdateBounds()
				stack = append(stack, cid)
			}
		}
	})
}

func removeID(ids []ecs.EntityID, id ecs.EntityID) []ecs.EntityID {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
