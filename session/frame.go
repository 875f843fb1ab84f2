package session

import (
	"bytes"
	"math"

	"github.com/oomph-ac/posesync/internal"
	"github.com/oomph-ac/posesync/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	_ = iota
	// FrameIDPose carries the encoded pose of an object.
	FrameIDPose
	// FrameIDWarp carries a pose the object must be moved to without smoothing.
	FrameIDWarp
	// FrameIDDespawn tells the receiver the object no longer exists. It has no payload.
	FrameIDDespawn
)

// Frame is one message of the session link. Sent is the authoritative time in seconds at which the
// frame was written.
type Frame struct {
	ID      uint8
	Sent    float64
	Object  string
	Payload []byte
}

// Encode returns the wire form of the frame.
func (f Frame) Encode() []byte {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()

	sent := math.Float64bits(f.Sent)
	w := protocol.NewWriter(buf, 0)
	w.Uint8(&f.ID)
	w.Uint64(&sent)
	w.String(&f.Object)
	w.ByteSlice(&f.Payload)
	return bytes.Clone(buf.Bytes())
}

// DecodeFrame reads a frame written by Frame.Encode.
func DecodeFrame(b []byte) (f Frame, err error) {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)
	buf.Reset()
	buf.Write(b)

	defer func() {
		if v := recover(); v != nil {
			f, err = Frame{}, oerror.New("error decoding frame: %v", v)
		}
	}()

	var sent uint64
	r := protocol.NewReader(buf, 0, false)
	r.Uint8(&f.ID)
	r.Uint64(&sent)
	r.String(&f.Object)
	r.ByteSlice(&f.Payload)
	f.Sent = math.Float64frombits(sent)

	// Short reads of strings and slices do not fail, so compare against the length the frame
	// should have had.
	if n := len(f.Encode()); n != len(b) {
		return Frame{}, oerror.New("frame is %d bytes, expected %d", len(b), n)
	}
	switch f.ID {
	case FrameIDPose, FrameIDWarp, FrameIDDespawn:
	default:
		return Frame{}, oerror.New("unknown frame: %d", f.ID)
	}
	return f, nil
}
