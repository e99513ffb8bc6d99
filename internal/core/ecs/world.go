package ecs

// World owns the entity pool, the store registry and the deferred destroy
// queue. Destroys requested mid-tick are only applied by FlushDestroyQueue,
// which the cleanup stage runs once per tick, so nothing is released while
// an iteration still references it.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	queued       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
		queued:       make(map[EntityID]struct{}, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// MarkForDestruction queues an entity for the next flush. Queuing the same
// live entity twice is a no-op.
func (w *World) MarkForDestruction(id EntityID) bool {
	if !w.pool.Alive(id) {
		return false
	}
	if _, ok := w.queued[id]; ok {
		return false
	}
	w.queued[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// PendingDestroy reports whether id is queued for the next flush.
func (w *World) PendingDestroy(id EntityID) bool {
	_, ok := w.queued[id]
	return ok
}

// FlushDestroyQueue runs detach for each queued entity, then clears its
// stores and releases the handle. Entities queued by detach callbacks are
// flushed in the same call.
func (w *World) FlushDestroyQueue(detach func(EntityID)) int {
	n := 0
	for i := 0; i < len(w.destroyQueue); i++ {
		id := w.destroyQueue[i]
		if detach != nil {
			detach(id)
		}
		w.registry.RemoveAll(id)
		w.pool.Destroy(id)
		delete(w.queued, id)
		n++
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
