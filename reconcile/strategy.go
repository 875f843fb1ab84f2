package reconcile

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/game"
)

// constantVelocity moves the sink towards the current snapshot at the speeds measured when it was
// received, never passing it.
func (r *Reconciler) constantVelocity(sink entity.Sink, multiplier, dt float64) {
	from := sink.Read()
	sink.Write(entity.Pose{
		Position:    game.MoveTowards(from.Position, r.current.Pose.Position, r.current.LinearSpeed*multiplier*dt),
		Orientation: game.RotateTowards(from.Orientation, r.current.Pose.Orientation, r.current.AngularSpeed*multiplier*dt),
	})
}

func (r *Reconciler) lerp(sink entity.Sink, factor float64) {
	from := sink.Read()
	sink.Write(entity.Pose{
		Position:    game.Lerp(from.Position, r.current.Pose.Position, factor),
		Orientation: game.Nlerp(from.Orientation, r.current.Pose.Orientation, factor),
	})
}

func (r *Reconciler) slerp(sink entity.Sink, factor float64) {
	from := sink.Read()
	sink.Write(entity.Pose{
		Position:    game.SlerpVec3(from.Position, r.current.Pose.Position, factor),
		Orientation: game.Slerp(from.Orientation, r.current.Pose.Orientation, factor),
	})
}

// interpolate writes the pose the object had at playback time t, blended between the two
// buffered snapshots around it, and evicts the snapshots that can no longer be needed.
func (r *Reconciler) interpolate(sink entity.Sink, t float64) int {
	lower, higher, ok := r.buffer.Bracket(t)
	if !ok {
		return 0
	}
	sink.Write(entity.Interpolate(lower.Pose, higher.Pose, interpolationRatio(t, lower.SentTime, higher.SentTime)))
	return r.buffer.EvictBefore(math.Min(t, lower.SentTime))
}

// interpolationRatio returns where t lies between lower and higher, clamped to [0, 1]. A zero span
// resolves to higher.
func interpolationRatio(t, lower, higher float64) float64 {
	span := higher - lower
	if span == 0 {
		return 1
	}
	ratio := (t - lower) / span
	if math.IsNaN(ratio) {
		return 1
	}
	return mgl64.Clamp(ratio, 0, 1)
}
