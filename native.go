package luamedia

import (
	"sort"
	"sync"
	"time"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

// Re-export pion's RTPCodecType as the track kind. Kind is a closed
// enumeration: every add/remove/enumerate site dispatches exhaustively on
// audio vs video.
type RTPCodecType = webrtc.RTPCodecType

const (
	RTPCodecTypeUnknown = webrtc.RTPCodecTypeUnknown
	RTPCodecTypeAudio   = webrtc.RTPCodecTypeAudio
	RTPCodecTypeVideo   = webrtc.RTPCodecTypeVideo
)

// TrackState represents the state of a native track.
type TrackState int

const (
	TrackStateLive  TrackState = iota // Track is producing/consuming media
	TrackStateEnded                   // Track has ended
)

func (s TrackState) String() string {
	switch s {
	case TrackStateLive:
		return "live"
	case TrackStateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// NativeTrack is a reference-counted native audio or video track. Engine
// worker goroutines may mutate it, so its state is lock-guarded; identity is
// the pointer itself.
type NativeTrack struct {
	refCount
	id    string
	label string
	kind  RTPCodecType

	mu      sync.Mutex
	state   TrackState
	muted   bool
	enabled bool
}

func (t *NativeTrack) ID() string         { return t.id }
func (t *NativeTrack) Label() string      { return t.label }
func (t *NativeTrack) Kind() RTPCodecType { return t.kind }

func (t *NativeTrack) State() TrackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// End transitions the track to ended. Monotonic; ending twice is a no-op.
func (t *NativeTrack) End() {
	t.mu.Lock()
	t.state = TrackStateEnded
	t.mu.Unlock()
}

func (t *NativeTrack) Muted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.muted
}

func (t *NativeTrack) SetMuted(muted bool) {
	t.mu.Lock()
	t.muted = muted
	t.mu.Unlock()
}

func (t *NativeTrack) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *NativeTrack) SetEnabled(enabled bool) {
	t.mu.Lock()
	t.enabled = enabled
	t.mu.Unlock()
}

// NativeStream is a reference-counted native collection of tracks, split by
// kind the way the engine stores them. A track may belong to any number of
// streams; the stream retains each member track.
type NativeStream struct {
	refCount
	id string

	mu    sync.Mutex
	audio []*NativeTrack
	video []*NativeTrack
}

func (s *NativeStream) ID() string { return s.id }

// Active reports whether any member track is live.
func (s *NativeStream) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.audio {
		if t.State() == TrackStateLive {
			return true
		}
	}
	for _, t := range s.video {
		if t.State() == TrackStateLive {
			return true
		}
	}
	return false
}

// AddAudioTrack adds t to the audio collection. The stream retains the track;
// adding a track that is already a member is a no-op.
func (s *NativeStream) AddAudioTrack(t *NativeTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = addTrack(s.audio, t)
}

// AddVideoTrack adds t to the video collection.
func (s *NativeStream) AddVideoTrack(t *NativeTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.video = addTrack(s.video, t)
}

// RemoveAudioTrack removes t from the audio collection and drops the
// stream's reference. Removing a non-member is a no-op.
func (s *NativeStream) RemoveAudioTrack(t *NativeTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = removeTrack(s.audio, t)
}

// RemoveVideoTrack removes t from the video collection.
func (s *NativeStream) RemoveVideoTrack(t *NativeTrack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.video = removeTrack(s.video, t)
}

// AudioTracks returns the audio tracks in native enumeration order.
func (s *NativeStream) AudioTracks() []*NativeTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*NativeTrack(nil), s.audio...)
}

// VideoTracks returns the video tracks in native enumeration order.
func (s *NativeStream) VideoTracks() []*NativeTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*NativeTrack(nil), s.video...)
}

// FindAudioTrack returns the audio track with the given id, or nil.
func (s *NativeStream) FindAudioTrack(id string) *NativeTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findTrack(s.audio, id)
}

// FindVideoTrack returns the video track with the given id, or nil.
func (s *NativeStream) FindVideoTrack(id string) *NativeTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return findTrack(s.video, id)
}

func (s *NativeStream) destroy() {
	s.mu.Lock()
	audio, video := s.audio, s.video
	s.audio, s.video = nil, nil
	s.mu.Unlock()
	for _, t := range audio {
		t.Unref()
	}
	for _, t := range video {
		t.Unref()
	}
}

func addTrack(tracks []*NativeTrack, t *NativeTrack) []*NativeTrack {
	for _, existing := range tracks {
		if existing == t {
			return tracks
		}
	}
	t.Ref()
	return append(tracks, t)
}

func removeTrack(tracks []*NativeTrack, t *NativeTrack) []*NativeTrack {
	for i, existing := range tracks {
		if existing == t {
			t.Unref()
			return append(tracks[:i], tracks[i+1:]...)
		}
	}
	return tracks
}

func findTrack(tracks []*NativeTrack, id string) *NativeTrack {
	for _, t := range tracks {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// RTPSourceType distinguishes synchronization (SSRC) from contributing
// (CSRC) sources.
type RTPSourceType int

const (
	RTPSourceTypeSSRC RTPSourceType = iota
	RTPSourceTypeCSRC
)

func (t RTPSourceType) String() string {
	switch t {
	case RTPSourceTypeSSRC:
		return "ssrc"
	case RTPSourceTypeCSRC:
		return "csrc"
	default:
		return "unknown"
	}
}

// RTPSource describes a source observed on a receiver's RTP stream within
// the reporting window.
type RTPSource struct {
	Timestamp    time.Time
	Source       uint32
	Type         RTPSourceType
	RTPTimestamp uint32
}

// sourceWindow is how long an observed source stays reportable, per the
// RTP source reporting rules.
const sourceWindow = 10 * time.Second

type sourceKey struct {
	source uint32
	typ    RTPSourceType
}

type sourceEntry struct {
	seen         time.Time
	rtpTimestamp uint32
}

// NativeReceiver is a reference-counted native RTP receiver. It retains the
// track it delivers and records the sources observed on its packet stream.
// ObserveRTP is called from the engine's network goroutines.
type NativeReceiver struct {
	refCount
	track  *NativeTrack
	params webrtc.RTPParameters

	mu      sync.Mutex
	sources map[sourceKey]sourceEntry
}

// Track returns the track this receiver delivers. Fixed at construction.
func (r *NativeReceiver) Track() *NativeTrack { return r.track }

// Parameters returns the receiver's RTP parameters.
func (r *NativeReceiver) Parameters() webrtc.RTPParameters { return r.params }

// ObserveRTP records the packet's SSRC and CSRCs as observed sources.
func (r *NativeReceiver) ObserveRTP(pkt *rtp.Packet) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[sourceKey{pkt.SSRC, RTPSourceTypeSSRC}] = sourceEntry{now, pkt.Timestamp}
	for _, csrc := range pkt.CSRC {
		r.sources[sourceKey{csrc, RTPSourceTypeCSRC}] = sourceEntry{now, pkt.Timestamp}
	}
	for k, e := range r.sources {
		if now.Sub(e.seen) > sourceWindow {
			delete(r.sources, k)
		}
	}
}

// Sources returns the sources of the given type observed within the
// reporting window, most recent first.
func (r *NativeReceiver) Sources(typ RTPSourceType) []RTPSource {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []RTPSource
	for k, e := range r.sources {
		if k.typ != typ || now.Sub(e.seen) > sourceWindow {
			continue
		}
		out = append(out, RTPSource{
			Timestamp:    e.seen,
			Source:       k.source,
			Type:         k.typ,
			RTPTimestamp: e.rtpTimestamp,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Source < out[j].Source
	})
	return out
}

func (r *NativeReceiver) destroy() {
	r.track.Unref()
}
