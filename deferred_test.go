package luamedia

import "testing"

func TestDeferredResolveOnLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	d := newDeferred(loop)
	loop.Call(func() {
		if d.State() != DeferredPending {
			t.Fatalf("initial state = %v, want pending", d.State())
		}
	})

	d.Resolve(42)
	loop.Call(func() {
		if d.State() != DeferredResolved {
			t.Fatalf("state = %v, want resolved", d.State())
		}
		if d.Value() != 42 {
			t.Fatalf("value = %v, want 42", d.Value())
		}
		if d.Err() != nil {
			t.Fatalf("err = %v, want nil", d.Err())
		}
	})
}

func TestDeferredSettlesOnce(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	d := newDeferred(loop)
	d.Reject(ErrNotImplemented)
	d.Resolve("late")
	d.Reject(ErrLoopClosed)

	loop.Call(func() {
		if d.State() != DeferredRejected {
			t.Fatalf("state = %v, want rejected", d.State())
		}
		if d.Err() != ErrNotImplemented {
			t.Fatalf("err = %v, want first rejection", d.Err())
		}
		if d.Value() != nil {
			t.Fatalf("value = %v after rejection, want nil", d.Value())
		}
	})
}

func TestDeferredCallbacksFireOnLoop(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()

	d := newDeferred(loop)
	fired := 0
	var gotValue any
	d.Done(func(value any, err error) {
		fired++
		gotValue = value
	})

	d.Resolve("ok")
	loop.Call(func() {})

	// Registering after settlement still fires, via the loop, not inline.
	loop.Call(func() {
		registered := false
		d.Done(func(any, error) {
			if !registered {
				t.Error("callback fired inline from Done")
			}
			fired++
		})
		registered = true
	})
	loop.Call(func() {})

	loop.Call(func() {
		if fired != 2 {
			t.Errorf("callbacks fired %d times, want 2", fired)
		}
		if gotValue != "ok" {
			t.Errorf("callback value = %v, want ok", gotValue)
		}
	})
}
