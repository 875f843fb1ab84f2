package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// laneBacklog is how many tasks a lane queues before Submit blocks.
const laneBacklog = 64

// Pool runs submitted functions on a fixed set of lanes. Every lane is a single goroutine, so
// functions submitted with the same key run one at a time, in submission order.
type Pool struct {
	lanes []chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// NewPool starts a pool with n lanes, or one lane per CPU if n is not positive.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{lanes: make([]chan func(), n)}
	p.wg.Add(n)
	for i := range p.lanes {
		p.lanes[i] = make(chan func(), laneBacklog)
		go p.work(p.lanes[i])
	}
	return p
}

func (p *Pool) work(queue <-chan func()) {
	defer p.wg.Done()
	for f := range queue {
		run(f)
	}
}

// run calls f, reporting a panic to sentry instead of letting it take the lane down.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Lanes returns the number of lanes of the pool.
func (p *Pool) Lanes() int {
	return len(p.lanes)
}

// Submit queues f on the lane picked by key. It must not be called after Close.
func (p *Pool) Submit(key uint64, f func()) {
	p.lanes[key%uint64(len(p.lanes))] <- f
}

// Close stops accepting work and waits for every queued function to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		for _, lane := range p.lanes {
			close(lane)
		}
	})
	p.wg.Wait()
}
