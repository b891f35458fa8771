package luamedia

import (
	"sync"

	"go.uber.org/zap"
)

// Loop is the single logical scripting thread. Every mutation of wrapper,
// registry, or lifecycle state happens on it; engine goroutines marshal their
// callbacks through Post instead of touching that state directly. Nothing run
// on the loop may block.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop creates a loop and starts its goroutine.
func NewLoop() *Loop {
	l := &Loop{done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			// Closed and fully drained.
			l.mu.Unlock()
			close(l.done)
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
	}
}

// Post enqueues fn on the loop. Once the loop is closed it is a silent no-op
// and returns false; teardown order between the loop and late native
// callbacks is unspecified, so dropping is the safe behavior.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		Logger().Debug("loop: task dropped after close")
		return false
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
	l.mu.Unlock()
	return true
}

// Call runs fn on the loop and waits for it to finish. It must not be called
// from the loop itself.
func (l *Loop) Call(fn func()) error {
	ran := make(chan struct{})
	if !l.Post(func() {
		defer close(ran)
		fn()
	}) {
		return ErrLoopClosed
	}
	<-ran
	return nil
}

// Close stops the loop after draining already queued tasks and waits for the
// loop goroutine to exit. Idempotent.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		Logger().Debug("loop: closing", zap.Int("queued", len(l.queue)))
		l.cond.Broadcast()
	}
	l.mu.Unlock()
	<-l.done
}
