package world

import (
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/reconcile"
	"github.com/oomph-ac/posesync/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Spawner creates the engine of an object the world has not seen before. It returns nil if the
// object should be ignored.
type Spawner func(name string) *reconcile.Engine

// World is the client-side registry of synchronized objects. Everything that happens to one
// object runs on the same worker lane, so its snapshots and ticks never race, while different
// objects are processed in parallel.
type World struct {
	log   *logrus.Logger
	pool  *worker.Pool
	spawn Spawner

	engines *orderedmap.OrderedMap[string, *reconcile.Engine]

	deadlock.RWMutex
}

// New creates a world processing objects on the given number of lanes. spawn may be nil, in which
// case snapshots of unknown objects are dropped.
func New(log *logrus.Logger, lanes int, spawn Spawner) *World {
	return &World{
		log:     log,
		pool:    worker.NewPool(lanes),
		spawn:   spawn,
		engines: orderedmap.NewOrderedMap[string, *reconcile.Engine](),
	}
}

// Add registers e, replacing any engine with the same name.
func (w *World) Add(e *reconcile.Engine) {
	w.Lock()
	defer w.Unlock()
	w.engines.Set(e.Name(), e)
}

// Engine returns the engine of the object called name.
func (w *World) Engine(name string) (*reconcile.Engine, bool) {
	w.RLock()
	defer w.RUnlock()
	return w.engines.Get(name)
}

// Remove unregisters the object called name and reports whether it existed.
func (w *World) Remove(name string) bool {
	w.Lock()
	defer w.Unlock()
	return w.engines.Delete(name)
}

// Len returns the number of registered objects.
func (w *World) Len() int {
	w.RLock()
	defer w.RUnlock()
	return w.engines.Len()
}

// Names returns the names of the registered objects in registration order.
func (w *World) Names() []string {
	w.RLock()
	defer w.RUnlock()
	names := make([]string, 0, w.engines.Len())
	for el := w.engines.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Dispatch queues s for the object called name, spawning it first if needed. If warp is set and
// s becomes the new target the object is moved to it without smoothing. The first snapshot of an
// object always warps on its own.
func (w *World) Dispatch(name string, s entity.Snapshot, warp bool) {
	e, ok := w.engineOrSpawn(name)
	if !ok {
		w.log.WithField("object", name).Debug("dropped snapshot of unknown object")
		return
	}
	w.pool.Submit(lane(name), func() {
		if e.Receive(s) == reconcile.OutcomeAccepted && warp {
			e.WarpToLatest()
		}
	})
}

// Despawn removes the object called name.
func (w *World) Despawn(name string) {
	if w.Remove(name) {
		w.log.WithField("object", name).Debug("despawned")
	}
}

func (w *World) engineOrSpawn(name string) (*reconcile.Engine, bool) {
	if e, ok := w.Engine(name); ok {
		return e, true
	}
	if w.spawn == nil {
		return nil, false
	}

	w.Lock()
	defer w.Unlock()
	if e, ok := w.engines.Get(name); ok {
		return e, true
	}
	e := w.spawn(name)
	if e == nil {
		return nil, false
	}
	w.engines.Set(name, e)
	return e, true
}

// Tick advances every object by dt seconds and returns once all of them are done, including any
// snapshot queued before the call.
func (w *World) Tick(dt float64) {
	w.RLock()
	var wg sync.WaitGroup
	wg.Add(w.engines.Len())
	for el := w.engines.Front(); el != nil; el = el.Next() {
		e := el.Value
		w.pool.Submit(lane(el.Key), func() {
			defer wg.Done()
			e.Tick(dt)
		})
	}
	w.RUnlock()
	wg.Wait()
}

// Flush waits until every task queued so far has run.
func (w *World) Flush() {
	var wg sync.WaitGroup
	wg.Add(w.pool.Lanes())
	for i := 0; i < w.pool.Lanes(); i++ {
		w.pool.Submit(uint64(i), wg.Done)
	}
	wg.Wait()
}

// Close waits for queued work and stops the lanes. The world must not be used afterwards.
func (w *World) Close() {
	w.pool.Close()
}

// lane returns the worker lane key of an object.
func lane(name string) uint64 {
	return xxh3.HashString(name)
}
