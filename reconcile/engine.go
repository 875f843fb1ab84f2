package reconcile

import (
	"sync"
	"sync/atomic"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/posesync/assert"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/game"
	"github.com/oomph-ac/posesync/settings"
	"github.com/oomph-ac/posesync/simulation"
	"github.com/sirupsen/logrus"
)

// Stats are counters kept per engine.
type Stats struct {
	Accepted uint64
	Stale    uint64
	Warps    uint64
	Evicted  uint64
}

// Engine synchronizes the pose of one remotely simulated object. Receive and Tick must not be
// called concurrently with each other for the same engine; settings and stats may be accessed from
// anywhere.
type Engine struct {
	name  string
	log   *logrus.Entry
	clock Clock

	settings atomic.Pointer[settings.Settings]

	mu         sync.Mutex
	transform  *entity.Transform
	body       *entity.BodySink
	active     entity.Sink
	reconciler *Reconciler
	frames     FrameTimer

	accepted, stale, warps, evicted atomic.Uint64
}

// New creates an engine for the object called name. transform holds the pose when no body drives
// the object; body may be nil. s must be valid.
func New(log *logrus.Logger, name string, clock Clock, s settings.Settings, transform *entity.Transform, body *simulation.Body) *Engine {
	err := s.Validate()
	assert.IsTrue(err == nil, "invalid settings for %s: %v", name, err)

	e := &Engine{
		name:       name,
		log:        log.WithField("object", name),
		clock:      clock,
		transform:  transform,
		reconciler: NewReconciler(),
	}
	if body != nil {
		e.body = entity.NewBodySink(body)
	}
	e.settings.Store(&s)
	return e
}

// Name returns the name of the synchronized object.
func (e *Engine) Name() string {
	return e.name
}

// Settings returns the settings currently in use.
func (e *Engine) Settings() settings.Settings {
	return *e.settings.Load()
}

// SetSettings replaces the settings used from the next receive or tick on.
func (e *Engine) SetSettings(s settings.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	e.settings.Store(&s)
	return nil
}

// sink returns the pose sink selected by s. When the selection changed since the last call the
// newly selected sink is warped to the pose of the previous one, so both describe the same object.
func (e *Engine) sink(s settings.Settings) entity.Sink {
	var selected entity.Sink = e.transform
	if s.UseDriverAbstraction && e.body != nil {
		selected = e.body
	}
	if e.active != nil && e.active != selected {
		selected.Warp(e.active.Read())
		e.log.Debug("switched pose sink")
	}
	e.active = selected
	return selected
}

// Pose returns the pose currently applied to the object.
func (e *Engine) Pose() entity.Pose {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sink(e.Settings()).Read()
}

// Receive hands a decoded snapshot to the engine and returns what became of it.
func (e *Engine) Receive(snap entity.Snapshot) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.Settings()
	outcome := e.reconciler.Receive(snap, s.SyncInterval, e.sink(s))
	switch outcome {
	case OutcomeStale:
		e.stale.Add(1)
		staleSnapshots.Inc()
		e.log.WithField("sent", snap.SentTime).Debug("dropped stale snapshot")
		return outcome
	case OutcomeInitial:
		e.warps.Add(1)
		warps.Inc()
		e.log.WithField("pose", snap.Pose).Debug("warped to first snapshot")
	}
	e.accepted.Add(1)
	acceptedSnapshots.Inc()
	bufferLength.Observe(float64(e.reconciler.Buffer().Len()))
	return outcome
}

// Tick advances the object by dt seconds. A body owned by the engine is stepped by the same dt
// first, so moves written to it derive their velocities over this frame.
func (e *Engine) Tick(dt float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.Settings()
	if s.UseSmoothedFrameTime {
		dt = e.frames.Sample(dt)
	}
	if e.body != nil {
		e.body.Body().Step(dt)
	}
	if n := e.reconciler.Tick(e.sink(s), s, e.clock.Now(), dt); n > 0 {
		e.evicted.Add(uint64(n))
		evictedSnapshots.Add(float64(n))
	}
}

// ResetToCurrentPose treats the pose the object currently has as arrived, discarding every target
// received so far.
func (e *Engine) ResetToCurrentPose() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reconciler.Reset(e.sink(e.Settings()))
	e.frames.Reset()
}

// WarpToLatest moves the object to the newest received pose without smoothing. It panics if no
// snapshot was ever received.
func (e *Engine) WarpToLatest() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reconciler.Warp(e.sink(e.Settings()))
	e.warps.Add(1)
	warps.Inc()
	e.log.Debug("warped to latest snapshot")
}

// Stats returns the counters of the engine.
func (e *Engine) Stats() Stats {
	return Stats{
		Accepted: e.accepted.Load(),
		Stale:    e.stale.Load(),
		Warps:    e.warps.Load(),
		Evicted:  e.evicted.Load(),
	}
}

// DebugMarkers returns boxes on the newest buffered snapshot positions while debugging snapshot
// interpolation, or nil otherwise.
func (e *Engine) DebugMarkers() []cube.BBox {
	s := e.Settings()
	if !s.Debug.Enabled || s.Strategy != settings.StrategySnapshotInterpolation || s.Debug.MaxVisualizationCount == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	buf := e.reconciler.Buffer()
	skip := buf.Len() - s.Debug.MaxVisualizationCount
	markers := make([]cube.BBox, 0, min(buf.Len(), s.Debug.MaxVisualizationCount))
	for i, snap := range buf.All() {
		if i < skip {
			continue
		}
		markers = append(markers, game.MarkerBox(snap.Pose.Position, s.Debug.VisualizationScale))
	}
	return markers
}
