package simulation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a minimal rigid body. Dynamic bodies integrate their velocities on every Step, while
// kinematic bodies are moved explicitly with MoveTo and only have their velocities derived from
// those moves so that anything reading them (contacts, effects) sees plausible motion.
type Body struct {
	// Position is the world-space position of the body.
	Position mgl64.Vec3
	// Rotation is the world-space orientation of the body.
	Rotation mgl64.Quat
	// LinearVelocity is measured in units per second.
	LinearVelocity mgl64.Vec3
	// AngularVelocity is a world-space rotation axis scaled by radians per second.
	AngularVelocity mgl64.Vec3
	// Kinematic bodies ignore their velocities in Step.
	Kinematic bool

	lastStep float64
}

// NewBody returns a dynamic body at rest.
func NewBody(pos mgl64.Vec3, rot mgl64.Quat) *Body {
	return &Body{Position: pos, Rotation: rot.Normalize()}
}

// Step advances the body by dt seconds.
func (b *Body) Step(dt float64) {
	if dt <= 0 {
		return
	}
	b.lastStep = dt
	if b.Kinematic {
		return
	}

	b.Position = b.Position.Add(b.LinearVelocity.Mul(dt))
	if rate := b.AngularVelocity.Len(); rate > 0 {
		spin := mgl64.QuatRotate(rate*dt, b.AngularVelocity.Mul(1/rate))
		b.Rotation = spin.Mul(b.Rotation).Normalize()
	}
}

// MoveTo moves the body to the given pose. The velocities are derived from the move over the
// duration of the last step; before the first step they are left untouched. Stepping is up to the
// owner of the body, which for synchronized objects is the engine driving it.
func (b *Body) MoveTo(pos mgl64.Vec3, rot mgl64.Quat) {
	rot = rot.Normalize()
	if b.lastStep > 0 {
		b.LinearVelocity = pos.Sub(b.Position).Mul(1 / b.lastStep)
		b.AngularVelocity = angularDelta(b.Rotation, rot).Mul(1 / b.lastStep)
	}
	b.Position, b.Rotation = pos, rot
}

// Teleport places the body at the given pose and stops it.
func (b *Body) Teleport(pos mgl64.Vec3, rot mgl64.Quat) {
	b.Position, b.Rotation = pos, rot.Normalize()
	b.LinearVelocity, b.AngularVelocity = mgl64.Vec3{}, mgl64.Vec3{}
}

// angularDelta returns the rotation from -> to as an axis scaled by its angle in radians.
func angularDelta(from, to mgl64.Quat) mgl64.Vec3 {
	delta := to.Mul(from.Inverse()).Normalize()
	if delta.W < 0 {
		delta = delta.Scale(-1)
	}
	sinHalf := delta.V.Len()
	if sinHalf < 1e-12 {
		return mgl64.Vec3{}
	}
	angle := 2 * math.Atan2(sinHalf, delta.W)
	return delta.V.Mul(angle / sinHalf)
}
