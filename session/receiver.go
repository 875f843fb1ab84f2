package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/oerror"
	"github.com/oomph-ac/posesync/reconcile"
	"github.com/oomph-ac/posesync/wire"
	"github.com/sirupsen/logrus"
)

// PacketReader reads one whole packet at a time.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// Dispatcher receives the snapshots decoded by a Receiver.
type Dispatcher interface {
	// Dispatch hands over a snapshot of the object called name. warp is set when the object must
	// be moved to it without smoothing.
	Dispatch(name string, s entity.Snapshot, warp bool)
	// Despawn tells that the object called name no longer exists.
	Despawn(name string)
}

// Receiver is the client side of the link: it decodes frames from a connection and dispatches the
// snapshots they carry, stamped with the local receive time.
type Receiver struct {
	log        *logrus.Logger
	conn       PacketReader
	clock      reconcile.Clock
	dispatcher Dispatcher

	frames, malformed atomic.Uint64
}

// NewReceiver returns a receiver reading from conn.
func NewReceiver(log *logrus.Logger, conn PacketReader, clock reconcile.Clock, d Dispatcher) *Receiver {
	return &Receiver{log: log, conn: conn, clock: clock, dispatcher: d}
}

// Run reads packets until ctx is cancelled or reading fails. If conn is an io.Closer it is closed
// when ctx is cancelled so that a pending read returns.
func (r *Receiver) Run(ctx context.Context) error {
	if c, ok := r.conn.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	for {
		b, err := r.conn.ReadPacket()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read packet: %w", err)
		}
		r.handle(b)
	}
}

// Frames returns the number of frames dispatched and the number of packets that could not be
// decoded.
func (r *Receiver) Frames() (dispatched, malformed uint64) {
	return r.frames.Load(), r.malformed.Load()
}

func (r *Receiver) handle(b []byte) {
	defer func() {
		if v := recover(); v != nil {
			r.log.Errorf("Receiver.handle() panic: %v", v)
			hub := sentry.CurrentHub().Clone()
			hub.ConfigureScope(func(scope *sentry.Scope) {
				scope.SetTag("conn_type", "receiver")
			})
			hub.Recover(oerror.New("%v", v))
			hub.Flush(time.Second * 5)
		}
	}()

	received := r.clock.Now()
	f, err := DecodeFrame(b)
	if err != nil {
		r.malformed.Add(1)
		r.log.Warnf("skipping packet: %v", err)
		return
	}

	if f.ID == FrameIDDespawn {
		r.frames.Add(1)
		r.dispatcher.Despawn(f.Object)
		return
	}

	s, err := wire.Decode(f.Payload, f.Sent, received)
	if err != nil {
		r.malformed.Add(1)
		r.log.WithField("object", f.Object).Warnf("skipping frame: %v", err)
		return
	}
	r.frames.Add(1)
	r.dispatcher.Dispatch(f.Object, s, f.ID == FrameIDWarp)
}
