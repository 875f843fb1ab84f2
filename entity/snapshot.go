package entity

import "math"

// Snapshot is a received pose along with when it was sent and received, and the speeds derived
// from the previous update.
type Snapshot struct {
	Pose Pose

	// SentTime is the authoritative-clock time, in seconds, at which the pose was encoded.
	SentTime float64
	// ReceivedTime is the local-clock time, in seconds, at which the pose was decoded.
	ReceivedTime float64

	// LinearSpeed is measured in units per second.
	LinearSpeed float64
	// AngularSpeed is measured in degrees per second.
	AngularSpeed float64
}

// Instant returns a copy of the snapshot with infinite speeds, meaning "already arrived".
func (s Snapshot) Instant() Snapshot {
	s.LinearSpeed, s.AngularSpeed = math.Inf(1), math.Inf(1)
	return s
}
