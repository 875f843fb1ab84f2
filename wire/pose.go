package wire

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/game"
	"github.com/oomph-ac/posesync/internal"
	"github.com/oomph-ac/posesync/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// PoseSize is the length of an encoded pose: one flag byte and six float32s.
const PoseSize = 1 + 6*4

// EncodePose returns the wire form of p: a flag byte, the position and the orientation as Euler
// angles in degrees, each wrapped to [0, 360).
func EncodePose(p entity.Pose) []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	var flags uint8
	pos := game.Vec64To32(p.Position)
	euler := game.Vec64To32(game.QuatToEuler(p.Orientation))
	for i := range euler {
		euler[i] = game.WrapDegrees32(euler[i])
	}

	w := protocol.NewWriter(buf, 0)
	w.Uint8(&flags)
	w.Vec3(&pos)
	w.Vec3(&euler)
	return bytes.Clone(buf.Bytes())
}

// DecodePose reads a pose written by EncodePose.
func DecodePose(payload []byte) (p entity.Pose, err error) {
	if len(payload) != PoseSize {
		return p, oerror.New("pose payload is %d bytes, expected %d", len(payload), PoseSize)
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()
	buf.Write(payload)

	defer func() {
		if v := recover(); v != nil {
			err = oerror.New("error decoding pose: %v", v)
		}
	}()

	var (
		flags      uint8
		pos, euler mgl32.Vec3
	)
	r := protocol.NewReader(buf, 0, false)
	r.Uint8(&flags)
	r.Vec3(&pos)
	r.Vec3(&euler)

	return entity.NewPose(game.Vec32To64(pos), game.EulerToQuat(game.Vec32To64(euler))), nil
}

// Decode reads a snapshot from payload. The caller supplies the authoritative send time and the
// local receive time, both in seconds.
func Decode(payload []byte, sent, received float64) (entity.Snapshot, error) {
	p, err := DecodePose(payload)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("decode snapshot sent at %v: %w", sent, err)
	}
	return entity.Snapshot{Pose: p, SentTime: sent, ReceivedTime: received}, nil
}
