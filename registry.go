package luamedia

import (
	"runtime"
	"weak"

	"go.uber.org/zap"
)

// registry maps a native object's identity (its pointer) to the single live
// wrapper for it. Entries are weak: the registry is never the reason a
// wrapper stays alive, so the scripting heap can reclaim wrappers freely.
//
// All methods are loop-confined; there is no lock because mutation is owned
// by the session's script loop. If multiple scripting threads were ever
// allowed, entries would need a mutex and the insert would need to be a
// compare-and-set.
type registry[N comparable, W any] struct {
	name    string
	loop    *Loop
	entries map[N]weak.Pointer[W]
}

func newRegistry[N comparable, W any](name string, loop *Loop) *registry[N, W] {
	return &registry[N, W]{
		name:    name,
		loop:    loop,
		entries: make(map[N]weak.Pointer[W]),
	}
}

// getOrCreate returns the wrapper registered for native, or constructs,
// registers, and returns a new one. On a hit the construct callback is not
// invoked at all: this is cache-or-construct, never update. Construction and
// insertion are a single step from the caller's point of view.
//
// construct returns the wrapper plus a finalize func that releases the
// wrapper's references without touching the wrapper itself; it runs on the
// loop if the wrapper is collected without an explicit release.
func (r *registry[N, W]) getOrCreate(native N, construct func() (*W, func())) *W {
	if p, ok := r.entries[native]; ok {
		if w := p.Value(); w != nil {
			Logger().Debug("registry: hit", zap.String("registry", r.name))
			return w
		}
		// The wrapper was collected but its cleanup has not run yet.
		// Treat as a miss.
		delete(r.entries, native)
	}

	w, finalize := construct()
	r.entries[native] = weak.Make(w)
	Logger().Debug("registry: insert",
		zap.String("registry", r.name), zap.Int("size", len(r.entries)))

	// The cleanup must not reference w, or w would never be collected.
	// It removes the (now dead) entry and releases the wrapper's native
	// references, marshaled onto the loop.
	runtime.AddCleanup(w, func(key N) {
		r.loop.Post(func() {
			r.dropDead(key)
			finalize()
		})
	}, native)

	return w
}

// release removes the entry for native if it still maps to w. Releasing a
// wrapper that was never registered, or was already released, is a no-op.
func (r *registry[N, W]) release(native N, w *W) {
	p, ok := r.entries[native]
	if !ok {
		return
	}
	if v := p.Value(); v != nil && v != w {
		// The identity has been re-wrapped since; not ours to remove.
		return
	}
	delete(r.entries, native)
	Logger().Debug("registry: release",
		zap.String("registry", r.name), zap.Int("size", len(r.entries)))
}

// dropDead removes the entry for native if its wrapper has been collected.
func (r *registry[N, W]) dropDead(native N) {
	if p, ok := r.entries[native]; ok && p.Value() == nil {
		delete(r.entries, native)
	}
}

// size returns the number of entries, including dead ones whose cleanup has
// not run yet.
func (r *registry[N, W]) size() int {
	return len(r.entries)
}

// wrapperRefs is the owning half of a wrapper: a strong reference to the
// session (keeps the engine alive) and a strong reference to the wrapped
// native object. It is shared between the wrapper and its GC finalize func so
// the explicit release path and the collection path drop each reference at
// most once between them.
type wrapperRefs[N RefCounted] struct {
	session strongRef[*Session]
	native  strongRef[N]
}

func newWrapperRefs[N RefCounted](s *Session, native N) *wrapperRefs[N] {
	return &wrapperRefs[N]{
		session: retain(s),
		native:  retain(native),
	}
}

// drop releases both references. Idempotent.
func (r *wrapperRefs[N]) drop() {
	r.native.release()
	r.session.release()
}
