package simulation

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestKinematicMoveDerivesVelocity(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, mgl64.QuatIdent())
	b.Kinematic = true
	b.Step(0.5)

	turn := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
	b.MoveTo(mgl64.Vec3{2, 0, 0}, turn)

	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.Position)
	assert.True(t, b.LinearVelocity.ApproxEqualThreshold(mgl64.Vec3{4, 0, 0}, 1e-9), "got %v", b.LinearVelocity)
	assert.True(t, b.AngularVelocity.ApproxEqualThreshold(mgl64.Vec3{0, math.Pi, 0}, 1e-9), "got %v", b.AngularVelocity)

	// Kinematic bodies do not drift on their own.
	b.Step(1)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, b.Position)
}

func TestDynamicStepIntegrates(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, mgl64.QuatIdent())
	b.LinearVelocity = mgl64.Vec3{0, 0, 3}
	b.AngularVelocity = mgl64.Vec3{0, math.Pi, 0}
	b.Step(0.5)

	assert.True(t, b.Position.ApproxEqualThreshold(mgl64.Vec3{0, 0, 1.5}, 1e-9))
	forward := b.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	assert.True(t, forward.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9), "got %v", forward)
}

func TestTeleportStops(t *testing.T) {
	b := NewBody(mgl64.Vec3{}, mgl64.QuatIdent())
	b.LinearVelocity = mgl64.Vec3{1, 1, 1}
	b.Teleport(mgl64.Vec3{5, 5, 5}, mgl64.QuatIdent())
	assert.Equal(t, mgl64.Vec3{}, b.LinearVelocity)
	assert.Equal(t, mgl64.Vec3{5, 5, 5}, b.Position)
}
