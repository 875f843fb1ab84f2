package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/posesync/game"
)

// Pose is the position and orientation of a simulated object. It is an immutable value.
type Pose struct {
	// Position is the world-space position of the object.
	Position mgl64.Vec3
	// Orientation is a unit quaternion.
	Orientation mgl64.Quat
}

// NewPose returns a pose with a normalized orientation.
func NewPose(pos mgl64.Vec3, orientation mgl64.Quat) Pose {
	return Pose{Position: pos, Orientation: orientation.Normalize()}
}

// PoseAt returns a pose at pos with the identity orientation.
func PoseAt(pos mgl64.Vec3) Pose {
	return Pose{Position: pos, Orientation: mgl64.QuatIdent()}
}

// Within reports whether o lies within maxDist units and maxDegrees of p.
func (p Pose) Within(o Pose, maxDist, maxDegrees float64) bool {
	return p.Position.Sub(o.Position).Len() <= maxDist && game.QuatAngle(p.Orientation, o.Orientation) <= maxDegrees
}

// Interpolate blends a towards b by t: linearly for position and spherically for orientation. At
// t=0 and t=1 the endpoints are returned exactly.
func Interpolate(a, b Pose, t float64) Pose {
	if t <= 0 {
		return a
	} else if t >= 1 {
		return b
	}
	return Pose{
		Position:    game.Lerp(a.Position, b.Position, t),
		Orientation: game.Slerp(a.Orientation, b.Orientation, t),
	}
}

func (p Pose) String() string {
	return fmt.Sprintf("pos=%v euler=%v", p.Position, game.QuatToEuler(p.Orientation))
}
