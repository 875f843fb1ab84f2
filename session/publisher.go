package session

import (
	"fmt"
	"io"
	"sync"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/reconcile"
	"github.com/oomph-ac/posesync/wire"
	"github.com/sirupsen/logrus"
)

type tracked struct {
	sink entity.Sink
	warp bool
}

// Publisher is the authoritative side of the link. Every Publish sends the pose every tracked
// object currently has, without any reconciliation.
type Publisher struct {
	log   *logrus.Logger
	conn  io.Writer
	clock reconcile.Clock

	mu      sync.Mutex
	objects *orderedmap.OrderedMap[string, *tracked]
}

// NewPublisher returns a publisher writing one packet per frame to conn.
func NewPublisher(log *logrus.Logger, conn io.Writer, clock reconcile.Clock) *Publisher {
	return &Publisher{
		log:     log,
		conn:    conn,
		clock:   clock,
		objects: orderedmap.NewOrderedMap[string, *tracked](),
	}
}

// Track starts publishing the pose of sink under name. Receivers warp to its first pose.
func (p *Publisher) Track(name string, sink entity.Sink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects.Set(name, &tracked{sink: sink})
}

// Teleport makes the next publication of name a warp.
func (p *Publisher) Teleport(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.objects.Get(name); ok {
		t.warp = true
	}
}

// Untrack stops publishing name and tells receivers to despawn it.
func (p *Publisher) Untrack(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.objects.Delete(name) {
		return nil
	}
	return p.write(Frame{ID: FrameIDDespawn, Sent: p.clock.Now(), Object: name})
}

// Len returns the number of tracked objects.
func (p *Publisher) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.objects.Len()
}

// Publish writes the current pose of every tracked object, in the order they were tracked.
func (p *Publisher) Publish() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.clock.Now()
	for el := p.objects.Front(); el != nil; el = el.Next() {
		f := Frame{ID: FrameIDPose, Sent: now, Object: el.Key, Payload: wire.EncodePose(el.Value.sink.Read())}
		if el.Value.warp {
			f.ID = FrameIDWarp
		}
		if err := p.write(f); err != nil {
			return err
		}
		el.Value.warp = false
	}
	return nil
}

func (p *Publisher) write(f Frame) error {
	if _, err := p.conn.Write(f.Encode()); err != nil {
		return fmt.Errorf("publish %s: %w", f.Object, err)
	}
	p.log.WithField("object", f.Object).Tracef("published frame %d at %v", f.ID, f.Sent)
	return nil
}
