package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// Lerp blends a towards b by t. The a*(1-t)+b*t form makes t=0 and t=1 return a and b exactly.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

// ExpFactor returns the frame-rate independent blend factor 1-e^(-rate*dt).
func ExpFactor(rate, dt float64) float64 {
	return 1 - math.Exp(-rate*dt)
}

// MoveTowards moves current towards target by at most maxDelta, never passing the target.
func MoveTowards(current, target mgl64.Vec3, maxDelta float64) mgl64.Vec3 {
	if maxDelta <= 0 || math.IsNaN(maxDelta) {
		return current
	}
	diff := target.Sub(current)
	dist := diff.Len()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return current.Add(diff.Mul(maxDelta / dist))
}

// QuatAngle returns the angle in degrees between two orientations.
func QuatAngle(a, b mgl64.Quat) float64 {
	dot := math.Abs(a.Normalize().Dot(b.Normalize()))
	if dot > 1-quatDotEpsilon {
		return 0
	}
	return mgl64.RadToDeg(2 * math.Acos(math.Min(dot, 1)))
}

// RotateTowards rotates from towards to by at most maxDegrees, never passing to.
func RotateTowards(from, to mgl64.Quat, maxDegrees float64) mgl64.Quat {
	if maxDegrees <= 0 || math.IsNaN(maxDegrees) {
		return from
	}
	angle := QuatAngle(from, to)
	if angle == 0 || maxDegrees >= angle {
		return to
	}
	return slerpUnclamped(from, to, maxDegrees/angle)
}

// Slerp spherically interpolates between two orientations along the shortest arc. t is clamped to
// [0, 1] and the endpoints are returned untouched.
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if t <= 0 {
		return a
	} else if t >= 1 {
		return b
	}
	return slerpUnclamped(a, b, t)
}

// Nlerp linearly interpolates between two orientations along the shortest arc and renormalizes.
func Nlerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if t <= 0 {
		return a
	} else if t >= 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return a.Scale(1 - t).Add(b.Scale(t)).Normalize()
}

func slerpUnclamped(a, b mgl64.Quat, t float64) mgl64.Quat {
	a, b = a.Normalize(), b.Normalize()
	dot := a.Dot(b)
	if dot < 0 {
		b, dot = b.Scale(-1), -dot
	}
	if dot > nlerpThreshold {
		return a.Scale(1 - t).Add(b.Scale(t)).Normalize()
	}
	theta := math.Acos(mgl64.Clamp(dot, -1, 1)) * t
	rel := b.Sub(a.Scale(dot)).Normalize()
	return a.Scale(math.Cos(theta)).Add(rel.Scale(math.Sin(theta)))
}

// SlerpVec3 treats a and b as directions with magnitudes: the direction is rotated at constant
// angular speed while the magnitude is blended linearly.
func SlerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	if t <= 0 {
		return a
	} else if t >= 1 {
		return b
	}

	la, lb := a.Len(), b.Len()
	if la < mgl64.Epsilon || lb < mgl64.Epsilon {
		return Lerp(a, b, t)
	}
	na, nb := a.Mul(1/la), b.Mul(1/lb)
	dot := mgl64.Clamp(na.Dot(nb), -1, 1)
	theta := math.Acos(dot)
	if theta < mgl64.Epsilon {
		return Lerp(a, b, t)
	}

	rel := nb.Sub(na.Mul(dot))
	if rel.Len() < mgl64.Epsilon {
		// Antiparallel: any perpendicular axis gives a valid arc.
		rel = na.Cross(axisX)
		if rel.Len() < mgl64.Epsilon {
			rel = na.Cross(axisY)
		}
	}
	rel = rel.Normalize()

	dir := na.Mul(math.Cos(theta * t)).Add(rel.Mul(math.Sin(theta * t)))
	return dir.Mul(la + (lb-la)*t)
}

// EulerToQuat converts pitch (X), yaw (Y) and roll (Z) in degrees to an orientation. Roll is applied
// first, then pitch, then yaw.
func EulerToQuat(euler mgl64.Vec3) mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(euler.Y()), axisY).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(euler.X()), axisX)).
		Mul(mgl64.QuatRotate(mgl64.DegToRad(euler.Z()), axisZ)).
		Normalize()
}

// QuatToEuler is the inverse of EulerToQuat, returning angles wrapped to [0, 360). Near +-90 degrees of
// pitch roll is folded into yaw.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	q = q.Normalize()
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	sinPitch := mgl64.Clamp(-2*(y*z-w*x), -1, 1)
	var pitch, yaw, roll float64
	if math.Abs(sinPitch) < 0.99999 {
		pitch = math.Asin(sinPitch)
		yaw = math.Atan2(2*(x*z+w*y), 1-2*(x*x+y*y))
		roll = math.Atan2(2*(x*y+w*z), 1-2*(x*x+z*z))
	} else {
		pitch = math.Copysign(math.Pi/2, sinPitch)
		yaw = math.Atan2(-2*(x*z-w*y), 1-2*(y*y+z*z))
	}
	return mgl64.Vec3{
		WrapDegrees(mgl64.RadToDeg(pitch)),
		WrapDegrees(mgl64.RadToDeg(yaw)),
		WrapDegrees(mgl64.RadToDeg(roll)),
	}
}

// WrapDegrees wraps an angle to [0, 360).
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// WrapDegrees32 wraps a float32 angle to [0, 360).
func WrapDegrees32(deg float32) float32 {
	deg = math32.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Vec32To64 converts a 32-bit vector to a 64-bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}
