package luamedia

// MediaStream is the scripting-visible wrapper for a native stream. It
// retains the session and the native stream; the wrapped native pointer never
// changes after construction. Wrappers originate only from the internal
// factory path (Session.CreateOrReuseStreamWrapper); scripts cannot construct
// them.
//
// Methods are loop-confined.
type MediaStream struct {
	session *Session
	native  *NativeStream
	refs    *wrapperRefs[*NativeStream]
}

func newMediaStream(s *Session, native *NativeStream) (*MediaStream, func()) {
	refs := newWrapperRefs(s, native)
	w := &MediaStream{session: s, native: native, refs: refs}
	return w, refs.drop
}

// ID returns the native stream's identifier.
func (w *MediaStream) ID() string { return w.native.ID() }

// Active reports whether any member track is live.
func (w *MediaStream) Active() bool { return w.native.Active() }

// GetAudioTracks returns wrappers for the stream's audio tracks, each
// resolved through the track identity registry.
func (w *MediaStream) GetAudioTracks() []*MediaStreamTrack {
	return w.wrapTracks(w.native.AudioTracks())
}

// GetVideoTracks returns wrappers for the stream's video tracks.
func (w *MediaStream) GetVideoTracks() []*MediaStreamTrack {
	return w.wrapTracks(w.native.VideoTracks())
}

// GetTracks returns wrappers for all tracks, audio before video, in native
// enumeration order.
func (w *MediaStream) GetTracks() []*MediaStreamTrack {
	tracks := w.wrapTracks(w.native.AudioTracks())
	return append(tracks, w.wrapTracks(w.native.VideoTracks())...)
}

// GetTrackByID returns the wrapper for the track with the given id, searching
// audio tracks first and then video tracks, or nil if neither has it.
func (w *MediaStream) GetTrackByID(id string) *MediaStreamTrack {
	if t := w.native.FindAudioTrack(id); t != nil {
		return w.session.CreateOrReuseTrackWrapper(t)
	}
	if t := w.native.FindVideoTrack(id); t != nil {
		return w.session.CreateOrReuseTrackWrapper(t)
	}
	return nil
}

// AddTrack adds the wrapped native track to the collection matching its kind.
func (w *MediaStream) AddTrack(t *MediaStreamTrack) {
	switch t.Kind() {
	case RTPCodecTypeAudio:
		w.native.AddAudioTrack(t.native)
	case RTPCodecTypeVideo:
		w.native.AddVideoTrack(t.native)
	default:
		Logger().Warn("stream: ignoring track of unknown kind")
	}
}

// RemoveTrack removes the wrapped native track from the collection matching
// its kind.
func (w *MediaStream) RemoveTrack(t *MediaStreamTrack) {
	switch t.Kind() {
	case RTPCodecTypeAudio:
		w.native.RemoveAudioTrack(t.native)
	case RTPCodecTypeVideo:
		w.native.RemoveVideoTrack(t.native)
	default:
		Logger().Warn("stream: ignoring track of unknown kind")
	}
}

// Clone is not implemented.
func (w *MediaStream) Clone() (*MediaStream, error) {
	return nil, ErrNotImplemented
}

// Release unregisters the wrapper and drops its references. The collector
// normally does this when the wrapper becomes unreachable; Release exists for
// deterministic teardown. Safe to call more than once.
func (w *MediaStream) Release() {
	w.session.streams.release(w.native, w)
	w.refs.drop()
}

func (w *MediaStream) wrapTracks(native []*NativeTrack) []*MediaStreamTrack {
	tracks := make([]*MediaStreamTrack, 0, len(native))
	for _, t := range native {
		tracks = append(tracks, w.session.CreateOrReuseTrackWrapper(t))
	}
	return tracks
}
