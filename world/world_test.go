package world

import (
	"fmt"
	"io"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/reconcile"
	"github.com/oomph-ac/posesync/settings"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newWorld(t *testing.T, clock reconcile.Clock, s settings.Settings) *World {
	log := quietLogger()
	w := New(log, 4, func(name string) *reconcile.Engine {
		if name == "ignored" {
			return nil
		}
		return reconcile.New(log, name, clock, s, entity.NewTransform(entity.PoseAt(mgl64.Vec3{})), nil)
	})
	t.Cleanup(w.Close)
	return w
}

func snap(sent float64, pos mgl64.Vec3) entity.Snapshot {
	return entity.Snapshot{Pose: entity.PoseAt(pos), SentTime: sent, ReceivedTime: sent}
}

func TestDispatchSpawnsObjects(t *testing.T) {
	w := newWorld(t, reconcile.NewManualClock(0), settings.DefaultSettings())
	w.Dispatch("b", snap(1, mgl64.Vec3{1, 0, 0}), false)
	w.Dispatch("a", snap(1, mgl64.Vec3{2, 0, 0}), false)
	w.Dispatch("ignored", snap(1, mgl64.Vec3{}), false)
	w.Flush()

	assert.Equal(t, []string{"b", "a"}, w.Names())
	a, ok := w.Engine("a")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, a.Pose().Position)

	w.Despawn("a")
	assert.Equal(t, 1, w.Len())
	_, ok = w.Engine("a")
	assert.False(t, ok)
}

func TestDispatchWithoutSpawnerDrops(t *testing.T) {
	w := New(quietLogger(), 2, nil)
	defer w.Close()
	w.Dispatch("a", snap(1, mgl64.Vec3{}), false)
	w.Flush()
	assert.Zero(t, w.Len())
}

func TestTickInterpolatesEveryObject(t *testing.T) {
	clock := reconcile.NewManualClock(0)
	s := settings.DefaultSettings()
	s.Strategy = settings.StrategySnapshotInterpolation
	s.SnapshotLatencyMargin = 0.5
	w := newWorld(t, clock, s)

	names := make([]string, 16)
	for i := range names {
		names[i] = fmt.Sprintf("object-%d", i)
		for sent := 0; sent <= 3; sent++ {
			w.Dispatch(names[i], snap(float64(sent), mgl64.Vec3{float64(sent * 10), float64(i), 0}), false)
		}
	}

	clock.Set(3)
	w.Tick(1.0 / 60)
	for i, name := range names {
		e, ok := w.Engine(name)
		require.True(t, ok)
		assert.Equal(t, mgl64.Vec3{25, float64(i), 0}, e.Pose().Position, name)
		assert.Equal(t, uint64(4), e.Stats().Accepted)
	}
}

func TestWarpFrames(t *testing.T) {
	s := settings.DefaultSettings()
	s.Strategy = settings.StrategyLerp
	w := newWorld(t, reconcile.NewManualClock(0), s)

	w.Dispatch("a", snap(0, mgl64.Vec3{}), false)
	w.Dispatch("a", snap(1, mgl64.Vec3{0, 50, 0}), true)
	w.Dispatch("a", snap(0.5, mgl64.Vec3{0, 99, 0}), true)
	w.Flush()

	e, _ := w.Engine("a")
	assert.Equal(t, mgl64.Vec3{0, 50, 0}, e.Pose().Position)
	assert.Equal(t, uint64(2), e.Stats().Warps)
	assert.Equal(t, uint64(1), e.Stats().Stale)
}

func TestWarpAsFirstFrameWarpsOnce(t *testing.T) {
	w := newWorld(t, reconcile.NewManualClock(0), settings.DefaultSettings())
	w.Dispatch("a", snap(1, mgl64.Vec3{0, 7, 0}), true)
	w.Flush()

	e, ok := w.Engine("a")
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 7, 0}, e.Pose().Position)
	assert.Equal(t, uint64(1), e.Stats().Warps)
}
