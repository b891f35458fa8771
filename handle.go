package luamedia

import "sync/atomic"

// RefCounted is implemented by native engine objects whose lifetime is
// managed by manual reference counting rather than the Go garbage collector.
type RefCounted interface {
	Ref()
	Unref()
}

// refCount provides shared-ownership lifetime management for native engine
// objects. The count starts at 1 for the creating owner; the destructor runs
// exactly once, when the count reaches zero. Ref or Unref after the count has
// hit zero is a use-after-free and panics.
type refCount struct {
	n       atomic.Int32
	destroy func()
}

func (r *refCount) initRef(destroy func()) {
	r.n.Store(1)
	r.destroy = destroy
}

// Ref adds a reference.
func (r *refCount) Ref() {
	if r.n.Add(1) <= 1 {
		panic("luamedia: Ref on released object")
	}
}

// Unref drops a reference, destroying the object when the last one is gone.
func (r *refCount) Unref() {
	n := r.n.Add(-1)
	switch {
	case n == 0:
		if r.destroy != nil {
			r.destroy()
		}
	case n < 0:
		panic("luamedia: Unref without matching Ref")
	}
}

// refs reports the current reference count.
func (r *refCount) refs() int32 {
	return r.n.Load()
}

// strongRef pins a refcounted object alive until released. It makes the
// owning side of a reference a type-level property instead of a convention;
// non-owning lookups go through the identity registry, which never retains.
type strongRef[T RefCounted] struct {
	v    T
	held bool
}

// retain takes a reference on v and returns the owning handle.
func retain[T RefCounted](v T) strongRef[T] {
	v.Ref()
	return strongRef[T]{v: v, held: true}
}

// get returns the referenced object. Valid only while the reference is held.
func (s *strongRef[T]) get() T {
	return s.v
}

// release drops the reference. Safe to call more than once.
func (s *strongRef[T]) release() {
	if !s.held {
		return
	}
	s.held = false
	s.v.Unref()
}
