package luamedia

// DeferredState is the settlement state of a deferred result.
type DeferredState int

const (
	DeferredPending DeferredState = iota
	DeferredResolved
	DeferredRejected
)

func (s DeferredState) String() string {
	switch s {
	case DeferredPending:
		return "pending"
	case DeferredResolved:
		return "resolved"
	case DeferredRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Deferred is an asynchronous result settled exactly once. Settlement and
// callback delivery are marshaled onto the script loop; a Deferred never
// blocks its caller and never fires a callback from a foreign goroutine.
//
// State, Value, and Err are loop-confined; Resolve, Reject, and Done may be
// called from any goroutine.
type Deferred struct {
	loop      *Loop
	state     DeferredState
	value     any
	err       error
	callbacks []func(any, error)
}

func newDeferred(loop *Loop) *Deferred {
	return &Deferred{loop: loop}
}

// Resolve settles the deferred with a value. Later settlements are ignored.
func (d *Deferred) Resolve(value any) {
	d.loop.Post(func() { d.settle(DeferredResolved, value, nil) })
}

// Reject settles the deferred with an error. Later settlements are ignored.
func (d *Deferred) Reject(err error) {
	d.loop.Post(func() { d.settle(DeferredRejected, nil, err) })
}

// Done registers a callback invoked on the loop once the deferred settles.
// If it is already settled the callback still fires via the loop, never
// inline.
func (d *Deferred) Done(cb func(value any, err error)) {
	d.loop.Post(func() {
		if d.state == DeferredPending {
			d.callbacks = append(d.callbacks, cb)
			return
		}
		cb(d.value, d.err)
	})
}

// State returns the settlement state.
func (d *Deferred) State() DeferredState { return d.state }

// Value returns the resolution value, if resolved.
func (d *Deferred) Value() any { return d.value }

// Err returns the rejection error, if rejected.
func (d *Deferred) Err() error { return d.err }

func (d *Deferred) settle(state DeferredState, value any, err error) {
	if d.state != DeferredPending {
		return
	}
	d.state = state
	d.value = value
	d.err = err
	callbacks := d.callbacks
	d.callbacks = nil
	for _, cb := range callbacks {
		cb(value, err)
	}
}
