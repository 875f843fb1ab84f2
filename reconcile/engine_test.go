package reconcile

import (
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/settings"
	"github.com/oomph-ac/posesync/simulation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetLevel(logrus.DebugLevel)
	return log
}

func newTestEngine(s settings.Settings, clock Clock, body *simulation.Body) (*Engine, *entity.Transform) {
	transform := entity.NewTransform(entity.PoseAt(mgl64.Vec3{}))
	return New(testLogger(), "crate", clock, s, transform, body), transform
}

func TestEngineRejectsInvalidSettings(t *testing.T) {
	s := settings.DefaultSettings()
	s.SyncInterval = 0
	assert.Panics(t, func() { newTestEngine(s, NewManualClock(0), nil) })

	e, _ := newTestEngine(settings.DefaultSettings(), NewManualClock(0), nil)
	assert.Error(t, e.SetSettings(s))
	assert.Equal(t, settings.DefaultSettings(), e.Settings())
}

func TestEngineInterpolationExample(t *testing.T) {
	clock := NewManualClock(0)
	e, transform := newTestEngine(withStrategy(settings.StrategySnapshotInterpolation), clock, nil)

	require.Equal(t, OutcomeInitial, e.Receive(snap(0.5, mgl64.Vec3{-5, 0, 0})))
	assert.Equal(t, mgl64.Vec3{-5, 0, 0}, transform.Read().Position)
	for i, x := range []float64{0, 10, 20} {
		require.True(t, e.Receive(snap(float64(i+1), mgl64.Vec3{x, 0, 0})).Accepted())
	}
	assert.Equal(t, OutcomeStale, e.Receive(snap(2, mgl64.Vec3{})))

	clock.Set(2.5)
	e.Tick(1.0 / 60)
	assert.Equal(t, mgl64.Vec3{15, 0, 0}, e.Pose().Position)

	assert.Equal(t, Stats{Accepted: 4, Stale: 1, Warps: 1, Evicted: 1}, e.Stats())
}

func TestEngineWarpToLatest(t *testing.T) {
	e, transform := newTestEngine(withStrategy(settings.StrategyLerp), NewManualClock(0), nil)
	assert.Panics(t, e.WarpToLatest)

	e.Receive(snap(0, mgl64.Vec3{}))
	e.Receive(snap(1, mgl64.Vec3{0, 0, 8}))
	e.WarpToLatest()
	assert.Equal(t, mgl64.Vec3{0, 0, 8}, transform.Read().Position)
	assert.Equal(t, uint64(2), e.Stats().Warps)
}

func TestEngineResetToCurrentPose(t *testing.T) {
	e, transform := newTestEngine(withStrategy(settings.StrategyConstantVelocity), NewManualClock(0), nil)
	e.Receive(snap(0, mgl64.Vec3{}))
	e.Receive(snap(1, mgl64.Vec3{10, 0, 0}))

	transform.Warp(entity.PoseAt(mgl64.Vec3{-2, 0, 0}))
	e.ResetToCurrentPose()
	e.Tick(1)
	assert.Equal(t, mgl64.Vec3{-2, 0, 0}, transform.Read().Position)
}

func TestEngineDrivesBody(t *testing.T) {
	s := withStrategy(settings.StrategyConstantVelocity)
	s.UseDriverAbstraction = true
	s.SyncInterval = 1
	body := simulation.NewBody(mgl64.Vec3{}, mgl64.QuatIdent())
	e, transform := newTestEngine(s, NewManualClock(0), body)
	require.True(t, body.Kinematic)

	e.Receive(snap(0, mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, body.Position)
	assert.Equal(t, mgl64.Vec3{}, transform.Read().Position, "the transform is bypassed")

	// The engine steps the body itself, so the move derives a velocity over the frame.
	e.Receive(snap(1, mgl64.Vec3{3, 0, 0}))
	e.Tick(0.5)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, body.Position)
	assert.InDelta(t, 2, body.LinearVelocity.X(), 1e-9)

	// Switching to the transform carries the pose over and motion continues from there.
	s.UseDriverAbstraction = false
	require.NoError(t, e.SetSettings(s))
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, e.Pose().Position)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, transform.Read().Position)
	e.Tick(0.5)
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, transform.Read().Position)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, body.Position, "the body is no longer written")

	// And back again: the body is teleported to where the transform left the object.
	s.UseDriverAbstraction = true
	require.NoError(t, e.SetSettings(s))
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, e.Pose().Position)
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, body.Position)
	assert.Zero(t, body.LinearVelocity.Len())
}

func TestEngineSinkSwitchKeepsSmoothedPose(t *testing.T) {
	s := withStrategy(settings.StrategyLerp)
	s.UseDriverAbstraction = true
	e, transform := newTestEngine(s, NewManualClock(0), simulation.NewBody(mgl64.Vec3{}, mgl64.QuatIdent()))

	e.Receive(snap(0, mgl64.Vec3{50, 0, 0}))
	for i := 1; i <= 20; i++ {
		e.Receive(snap(float64(i), mgl64.Vec3{50 + float64(i)*0.1, 0, 0}))
		e.Tick(1.0 / 60)
	}
	before := e.Pose()
	target := mgl64.Vec3{52, 0, 0}
	require.Greater(t, before.Position.X(), 50.0)

	s.UseDriverAbstraction = false
	require.NoError(t, e.SetSettings(s))
	assert.Equal(t, before, e.Pose())
	assert.Equal(t, before, transform.Read())

	e.Tick(1.0 / 60)
	assert.LessOrEqual(t, e.Pose().Position.Sub(target).Len(), before.Position.Sub(target).Len())
}

func TestEngineSmoothsFrameTime(t *testing.T) {
	s := withStrategy(settings.StrategyConstantVelocity)
	s.UseSmoothedFrameTime = true
	s.SyncInterval = 1
	e, transform := newTestEngine(s, NewManualClock(0), nil)
	e.Receive(snap(0, mgl64.Vec3{}))
	e.Receive(snap(1, mgl64.Vec3{100, 0, 0}))

	e.Tick(1)
	require.Equal(t, mgl64.Vec3{100, 0, 0}, e.reconciler.Current().Pose.Position)
	assert.InDelta(t, 100, transform.Read().Position.X(), 1e-9)

	e.ResetToCurrentPose()
	e.Receive(snap(2, mgl64.Vec3{0, 0, 0}))
	e.Tick(0.1)
	e.Tick(1.1)
	// 0.1 primes the average, then 0.1+(1.1-0.1)*0.2 = 0.3 seconds at 100 units per second.
	assert.InDelta(t, 100-10-30, transform.Read().Position.X(), 1e-9)
}

func TestEngineDebugMarkers(t *testing.T) {
	s := withStrategy(settings.StrategySnapshotInterpolation)
	e, _ := newTestEngine(s, NewManualClock(0), nil)
	e.Receive(snap(0, mgl64.Vec3{}))
	for i := 1; i <= 5; i++ {
		e.Receive(snap(float64(i), mgl64.Vec3{float64(i), 0, 0}))
	}
	assert.Nil(t, e.DebugMarkers())

	s.Debug.Enabled = true
	s.Debug.MaxVisualizationCount = 3
	s.Debug.VisualizationScale = 0.5
	require.NoError(t, e.SetSettings(s))

	markers := e.DebugMarkers()
	require.Len(t, markers, 3)
	assert.InDelta(t, 2.75, markers[0].Min().X(), 1e-6)
	assert.InDelta(t, 5.25, markers[2].Max().X(), 1e-6)
}

func TestFrameTimer(t *testing.T) {
	var f FrameTimer
	assert.Equal(t, 0.02, f.Sample(0.02))
	assert.InDelta(t, 0.024, f.Sample(0.04), 1e-12)
	f.Reset()
	assert.Equal(t, 0.5, f.Sample(0.5))
}

func TestClocks(t *testing.T) {
	c := NewManualClock(1)
	c.Advance(0.5)
	assert.Equal(t, 1.5, c.Now())
	c.Set(-2)
	assert.Equal(t, -2.0, c.Now())

	sys := NewSystemClock(time.Now().Add(-time.Second))
	assert.GreaterOrEqual(t, sys.Now(), 1.0)
}
