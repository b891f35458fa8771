package luamedia

// MediaStreamTrack is the scripting-visible wrapper for a native track.
// There is at most one live wrapper per native track per session, enforced by
// the session's track registry; the wrapped native pointer never changes
// after construction.
//
// Methods are loop-confined.
type MediaStreamTrack struct {
	session *Session
	native  *NativeTrack
	refs    *wrapperRefs[*NativeTrack]
}

func newMediaStreamTrack(s *Session, native *NativeTrack) (*MediaStreamTrack, func()) {
	refs := newWrapperRefs(s, native)
	w := &MediaStreamTrack{session: s, native: native, refs: refs}
	return w, refs.drop
}

// ID returns the native track's identifier.
func (w *MediaStreamTrack) ID() string { return w.native.ID() }

// Kind returns the track kind (audio or video).
func (w *MediaStreamTrack) Kind() RTPCodecType { return w.native.Kind() }

// Label returns a human-readable label for the track source.
func (w *MediaStreamTrack) Label() string { return w.native.Label() }

// Enabled reports whether the track is enabled.
func (w *MediaStreamTrack) Enabled() bool { return w.native.Enabled() }

// SetEnabled sets the enabled state.
func (w *MediaStreamTrack) SetEnabled(enabled bool) { w.native.SetEnabled(enabled) }

// Muted reports whether the track is muted.
func (w *MediaStreamTrack) Muted() bool { return w.native.Muted() }

// ReadyState returns the track's live/ended state.
func (w *MediaStreamTrack) ReadyState() TrackState { return w.native.State() }

// Stop ends the native track. Monotonic.
func (w *MediaStreamTrack) Stop() { w.native.End() }

// Clone is not implemented.
func (w *MediaStreamTrack) Clone() (*MediaStreamTrack, error) {
	return nil, ErrNotImplemented
}

// Release unregisters the wrapper and drops its references. Safe to call
// more than once.
func (w *MediaStreamTrack) Release() {
	w.session.tracks.release(w.native, w)
	w.refs.drop()
}
