package luamedia

import (
	"runtime"
	"testing"
	"time"
)

func TestRegistryIdentityUniqueness(t *testing.T) {
	session, engine, loop := newTestSession(t)

	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()
	b := engine.NewTrack(RTPCodecTypeVideo, "v1", "cam")
	defer b.Unref()

	loop.Call(func() {
		w1 := session.CreateOrReuseTrackWrapper(a)
		// Unrelated registry activity in between.
		other := session.CreateOrReuseTrackWrapper(b)
		w2 := session.CreateOrReuseTrackWrapper(a)
		w3 := session.CreateOrReuseTrackWrapper(a)

		if w1 != w2 || w2 != w3 {
			t.Error("repeated GetOrCreate returned distinct wrappers for one native track")
		}
		if other == w1 {
			t.Error("distinct native tracks share a wrapper")
		}
		if session.tracks.size() != 2 {
			t.Errorf("registry size = %d, want 2", session.tracks.size())
		}
	})
}

func TestRegistryReleaseIdempotent(t *testing.T) {
	session, engine, loop := newTestSession(t)

	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()
	b := engine.NewTrack(RTPCodecTypeAudio, "a2", "mic")
	defer b.Unref()

	loop.Call(func() {
		wa := session.CreateOrReuseTrackWrapper(a)
		wb := session.CreateOrReuseTrackWrapper(b)

		wa.Release()
		wa.Release() // already released: no-op
		wb.Release()
		wb.Release()

		if session.tracks.size() != 0 {
			t.Errorf("registry size = %d after releases, want 0", session.tracks.size())
		}

		// Releasing must not disturb an unrelated successor entry.
		wb2 := session.CreateOrReuseTrackWrapper(b)
		wa.Release()
		if session.tracks.size() != 1 {
			t.Errorf("registry size = %d, want 1", session.tracks.size())
		}
		if session.CreateOrReuseTrackWrapper(b) != wb2 {
			t.Error("stale release evicted the successor wrapper")
		}
	})
}

func TestRegistryReleaseThenRecreate(t *testing.T) {
	session, engine, loop := newTestSession(t)

	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()

	loop.Call(func() {
		w1 := session.CreateOrReuseTrackWrapper(a)
		w1.Release()
		w2 := session.CreateOrReuseTrackWrapper(a)
		if w1 == w2 {
			t.Error("released identity was not re-wrapped")
		}
	})
}

func TestRegistryBoundedAcrossCreateReleaseCycles(t *testing.T) {
	session, engine, loop := newTestSession(t)

	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()

	loop.Call(func() {
		for i := 0; i < 1000; i++ {
			session.CreateOrReuseTrackWrapper(a).Release()
		}
		if session.tracks.size() != 0 {
			t.Errorf("registry grew to %d entries across create/release cycles", session.tracks.size())
		}
	})
}

func TestRegistryDropsCollectedWrappers(t *testing.T) {
	session, engine, loop := newTestSession(t)

	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()

	// Create a wrapper and drop every reference to it without releasing.
	loop.Call(func() { session.CreateOrReuseTrackWrapper(a) })

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		var size int
		loop.Call(func() { size = session.tracks.size() })
		if size == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("registry still has %d entries after wrapper was collected", size)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// The cleanup also dropped the wrapper's native reference.
	if a.refs() != 1 {
		t.Fatalf("native track refs = %d after collection, want 1", a.refs())
	}
}
