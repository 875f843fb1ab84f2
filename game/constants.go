package game

const (
	// ArrivalDistance is the largest positional error, in world units, at which an applied pose
	// counts as having arrived at its target.
	ArrivalDistance = 0.01
	// ArrivalAngle is the largest angular error, in degrees, at which an applied pose counts as
	// having arrived at its target.
	ArrivalAngle = 1.0

	// quatDotEpsilon mirrors the usual "orientations are equal" dot product tolerance.
	quatDotEpsilon = 1e-6
	// nlerpThreshold is the dot product above which slerp degrades to a normalized lerp.
	nlerpThreshold = 0.9995
)
