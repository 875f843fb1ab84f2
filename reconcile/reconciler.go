package reconcile

import (
	"math"

	"github.com/oomph-ac/posesync/assert"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/game"
	"github.com/oomph-ac/posesync/settings"
)

// Outcome is the result of handing a snapshot to a Reconciler.
type Outcome uint8

const (
	// OutcomeStale means the snapshot was not newer than the latest accepted one and was dropped.
	OutcomeStale Outcome = iota
	// OutcomeInitial means the snapshot was the first one received and the sink was warped to it.
	OutcomeInitial
	// OutcomeAccepted means the snapshot became the pending target.
	OutcomeAccepted
)

// Accepted reports whether the snapshot was taken in, either as the first one or as a new target.
func (o Outcome) Accepted() bool {
	return o != OutcomeStale
}

// Reconciler moves a pose sink towards the poses it receives. It is not safe for concurrent use:
// receiving and ticking one object must be serialized by the caller.
type Reconciler struct {
	buffer *entity.Buffer

	// current is the snapshot being approached. It is only meaningful once st is set.
	current entity.Snapshot
	// st is nil until the reconciler is initialized by a snapshot or a reset.
	st state

	// received is true once any snapshot was accepted; latestSent is the send time of the newest one.
	received   bool
	latestSent float64
}

// NewReconciler returns an uninitialized reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{buffer: entity.NewBuffer()}
}

// Initialized reports whether the reconciler has a current snapshot.
func (r *Reconciler) Initialized() bool {
	return r.st != nil
}

// Current returns the snapshot currently being approached. It panics if the reconciler was never
// initialized.
func (r *Reconciler) Current() entity.Snapshot {
	assert.IsTrue(r.Initialized(), "reconciler read before any snapshot was received")
	return r.current
}

// Pending returns the snapshot queued after the current one, if any. It panics if the reconciler
// was never initialized.
func (r *Reconciler) Pending() (entity.Snapshot, bool) {
	assert.IsTrue(r.Initialized(), "reconciler read before any snapshot was received")
	if p, ok := r.st.(trackingPending); ok {
		return p.next, true
	}
	return entity.Snapshot{}, false
}

// Buffer returns the snapshots retained for interpolation.
func (r *Reconciler) Buffer() *entity.Buffer {
	return r.buffer
}

// Receive accepts s if it is newer than every snapshot accepted so far. The very first snapshot
// warps the sink to it, even after a Reset. Later snapshots get their speeds measured against the current snapshot
// over syncInterval, become pending and are buffered.
func (r *Reconciler) Receive(s entity.Snapshot, syncInterval float64, sink entity.Sink) Outcome {
	if r.received && s.SentTime <= r.latestSent {
		return OutcomeStale
	}
	first := !r.received
	r.received, r.latestSent = true, s.SentTime

	if first {
		r.current, r.st = s.Instant(), trackingCurrent{}
		sink.Warp(s.Pose)
		return OutcomeInitial
	}

	s.LinearSpeed = s.Pose.Position.Sub(r.current.Pose.Position).Len() / syncInterval
	s.AngularSpeed = game.QuatAngle(s.Pose.Orientation, r.current.Pose.Orientation) / syncInterval
	r.st = trackingPending{next: s}
	r.buffer.Push(s)
	return OutcomeAccepted
}

// Tick advances the sink by dt seconds with the configured strategy. now is the current time on
// the authoritative timeline and is only used by snapshot interpolation. It returns how many
// snapshots were evicted from the buffer. Ticking an uninitialized reconciler does nothing.
func (r *Reconciler) Tick(sink entity.Sink, s settings.Settings, now, dt float64) (evicted int) {
	if !r.Initialized() {
		return 0
	}
	dt = math.Max(dt, 0)

	if s.Strategy == settings.StrategySnapshotInterpolation {
		return r.interpolate(sink, now-s.SnapshotLatencyMargin)
	}

	r.buffer.Clear()
	r.arrive(sink)
	switch s.Strategy {
	case settings.StrategyConstantVelocity:
		r.constantVelocity(sink, s.ConstantVelocityMultiplier, dt)
	case settings.StrategyLerp:
		r.lerp(sink, game.ExpFactor(s.ExponentialSmoothingRate, dt))
	case settings.StrategySlerp:
		r.slerp(sink, game.ExpFactor(s.ExponentialSmoothingRate, dt))
	}
	r.arrive(sink)
	return 0
}

// arrive advances to the pending snapshot once the sink is close enough to the current one,
// snapping the sink onto the current pose first.
func (r *Reconciler) arrive(sink entity.Sink) {
	p, ok := r.st.(trackingPending)
	if !ok {
		return
	}
	if !sink.Read().Within(r.current.Pose, game.ArrivalDistance, game.ArrivalAngle) {
		return
	}
	sink.Write(r.current.Pose)
	r.current, r.st = p.next, trackingCurrent{}
}

// Reset re-reads the sink into the current snapshot, as if it had just arrived there, and drops
// everything received before. The next received snapshot is still compared with the latest send
// time seen.
func (r *Reconciler) Reset(sink entity.Sink) {
	r.current = entity.Snapshot{Pose: sink.Read(), SentTime: r.latestSent}.Instant()
	r.st = trackingCurrent{}
	r.buffer.Clear()
}

// Warp writes the newest known pose to the sink without smoothing, making it the current snapshot.
// It panics if the reconciler was never initialized.
func (r *Reconciler) Warp(sink entity.Sink) {
	assert.IsTrue(r.Initialized(), "warp requested before any snapshot was received")
	target := r.current
	if p, ok := r.st.(trackingPending); ok {
		target = p.next
	}
	sink.Warp(target.Pose)
	r.current, r.st = target, trackingCurrent{}
	r.buffer.Clear()
}
