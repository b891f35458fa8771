package luamedia

import (
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

// RTPReceiver is the scripting-visible wrapper for a native RTP receiver. It
// is a dependent wrapper: when the owning session closes it degrades to a
// closed state in which source enumeration stops querying the native object
// and returns empty results, while cached accessors keep working. The
// transition is monotonic and happens exactly once, on the script loop.
//
// Methods are loop-confined.
type RTPReceiver struct {
	session *Session
	native  *NativeReceiver
	track   *MediaStreamTrack
	refs    *wrapperRefs[*NativeReceiver]
	closed  bool
}

func newRTPReceiver(s *Session, native *NativeReceiver) (*RTPReceiver, func()) {
	refs := newWrapperRefs(s, native)
	// The associated track wrapper is fetched eagerly, not lazily, so it
	// stays answerable after the session closes.
	track := s.CreateOrReuseTrackWrapper(native.Track())
	w := &RTPReceiver{session: s, native: native, track: track, refs: refs}
	return w, refs.drop
}

// Track returns the associated track wrapper, fixed at construction. Remains
// valid after the session closes.
func (w *RTPReceiver) Track() *MediaStreamTrack { return w.track }

// GetParameters returns the receiver's RTP parameters.
func (w *RTPReceiver) GetParameters() webrtc.RTPParameters {
	return w.native.Parameters()
}

// GetContributingSources returns the CSRCs observed within the reporting
// window, or an empty result once the session has closed.
func (w *RTPReceiver) GetContributingSources() []RTPSource {
	if w.closed {
		return nil
	}
	return w.native.Sources(RTPSourceTypeCSRC)
}

// GetSynchronizationSources returns the SSRCs observed within the reporting
// window, or an empty result once the session has closed.
func (w *RTPReceiver) GetSynchronizationSources() []RTPSource {
	if w.closed {
		return nil
	}
	return w.native.Sources(RTPSourceTypeSSRC)
}

// GetStats is not implemented; the deferred result is rejected rather than
// left pending or settled with misleading data.
func (w *RTPReceiver) GetStats() *Deferred {
	d := newDeferred(w.session.loop)
	d.Reject(ErrNotImplemented)
	return d
}

// GetCapabilities is not implemented.
func (w *RTPReceiver) GetCapabilities() (webrtc.RTPCapabilities, error) {
	return webrtc.RTPCapabilities{}, ErrNotImplemented
}

// Closed reports whether the owning session has closed this receiver.
func (w *RTPReceiver) Closed() bool { return w.closed }

// sessionClosed degrades the receiver. Called by the session, on the loop,
// at most once per receiver.
func (w *RTPReceiver) sessionClosed() {
	if w.closed {
		return
	}
	w.closed = true
	Logger().Debug("receiver: closed", zap.String("track", w.track.ID()))
}

// Release drops the wrapper's references. Safe to call more than once.
func (w *RTPReceiver) Release() {
	w.refs.drop()
}
