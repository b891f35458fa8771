package luamedia

import (
	"runtime"

	"go.uber.org/zap"
)

// Session is the owning context wrappers are created under: the analogue of a
// peer connection. It holds the factory engine alive, owns one identity
// registry per identity space (streams, tracks), and propagates its teardown
// to dependent receiver wrappers.
//
// A session is reference counted. The creator owns the initial reference and
// every wrapper retains one, so the session (and through it the engine) is
// released only after the last wrapper is gone.
//
// Except where noted, methods are loop-confined: they must run on the
// session's script loop.
type Session struct {
	refCount
	engine *Engine
	loop   *Loop

	streams   *registry[*NativeStream, MediaStream]
	tracks    *registry[*NativeTrack, MediaStreamTrack]
	receivers []*RTPReceiver
	closed    bool
}

// NewSession creates a session on the given loop, retaining the engine.
func NewSession(engine *Engine, loop *Loop) *Session {
	engine.Ref()
	s := &Session{
		engine:  engine,
		loop:    loop,
		streams: newRegistry[*NativeStream, MediaStream]("streams", loop),
		tracks:  newRegistry[*NativeTrack, MediaStreamTrack]("tracks", loop),
	}
	s.initRef(func() {
		Logger().Debug("session: released")
		engine.Unref()
	})
	return s
}

// Loop returns the session's script loop. Safe from any goroutine.
func (s *Session) Loop() *Loop { return s.loop }

// CreateOrReuseStreamWrapper returns the single wrapper for native,
// constructing it through the internal factory path on first sight.
func (s *Session) CreateOrReuseStreamWrapper(native *NativeStream) *MediaStream {
	return s.streams.getOrCreate(native, func() (*MediaStream, func()) {
		return newMediaStream(s, native)
	})
}

// CreateOrReuseTrackWrapper returns the single wrapper for native. Tracks
// have their own identity space: a track reached through several streams or
// receivers always resolves to the same wrapper.
func (s *Session) CreateOrReuseTrackWrapper(native *NativeTrack) *MediaStreamTrack {
	return s.tracks.getOrCreate(native, func() (*MediaStreamTrack, func()) {
		return newMediaStreamTrack(s, native)
	})
}

// NewReceiver wraps a native receiver. Receivers are created once per native
// receiver by the session layer and are dependent wrappers: the session
// notifies them when it closes. A receiver created after the session closed
// starts out degraded.
func (s *Session) NewReceiver(native *NativeReceiver) *RTPReceiver {
	r, finalize := newRTPReceiver(s, native)
	runtime.AddCleanup(r, func(fin func()) {
		s.loop.Post(fin)
	}, finalize)
	if s.closed {
		r.sessionClosed()
	} else {
		s.receivers = append(s.receivers, r)
	}
	return r
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool { return s.closed }

// Close marks the session closed and notifies each dependent receiver exactly
// once, on the script loop. Idempotent; may be called from any goroutine.
func (s *Session) Close() {
	s.loop.Post(func() {
		if s.closed {
			return
		}
		s.closed = true
		receivers := s.receivers
		s.receivers = nil
		for _, r := range receivers {
			r.sessionClosed()
		}
		Logger().Debug("session: closed", zap.Int("receivers", len(receivers)))
	})
}
