package entity

import "github.com/oomph-ac/posesync/simulation"

// Sink is however the pose of a simulated object is actually read and mutated. Reconciliation only
// ever goes through this interface.
type Sink interface {
	// Read returns the currently applied pose.
	Read() Pose
	// Write moves the object to p as part of smoothed motion.
	Write(p Pose)
	// Warp places the object at p instantly, discarding any motion state.
	Warp(p Pose)
}

// Transform is a Sink that assigns poses directly.
type Transform struct {
	pose Pose
}

// NewTransform returns a Transform holding p.
func NewTransform(p Pose) *Transform {
	return &Transform{pose: p}
}

func (t *Transform) Read() Pose { return t.pose }
func (t *Transform) Write(p Pose) { t.pose = p }
func (t *Transform) Warp(p Pose) { t.pose = p }

// BodySink drives a kinematic simulation.Body, so writes become physics motion with derived
// velocities and warps become teleports.
type BodySink struct {
	body *simulation.Body
}

// NewBodySink marks body as kinematic and wraps it.
func NewBodySink(body *simulation.Body) *BodySink {
	body.Kinematic = true
	return &BodySink{body: body}
}

// Body returns the driven body.
func (s *BodySink) Body() *simulation.Body {
	return s.body
}

func (s *BodySink) Read() Pose {
	return Pose{Position: s.body.Position, Orientation: s.body.Rotation}
}

func (s *BodySink) Write(p Pose) {
	s.body.MoveTo(p.Position, p.Orientation)
}

func (s *BodySink) Warp(p Pose) {
	s.body.Teleport(p.Position, p.Orientation)
}
