package luamedia

import (
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

// Engine is the factory context for native media objects, the analogue of a
// peer-connection factory. It is the most broadly shared native object: every
// session and (transitively) every wrapper holds a reference, so the engine
// is torn down only after the last of them is gone.
type Engine struct {
	refCount
}

// NewEngine creates an engine. The caller owns the initial reference.
func NewEngine() *Engine {
	e := &Engine{}
	e.initRef(func() {
		Logger().Debug("engine: released")
	})
	return e
}

// NewTrack creates a native track. The caller owns the initial reference.
func (e *Engine) NewTrack(kind RTPCodecType, id, label string) *NativeTrack {
	t := &NativeTrack{
		id:      id,
		label:   label,
		kind:    kind,
		state:   TrackStateLive,
		enabled: true,
	}
	t.initRef(func() {
		Logger().Debug("engine: track released", zap.String("id", id))
	})
	return t
}

// NewStream creates a native stream. The caller owns the initial reference.
func (e *Engine) NewStream(id string) *NativeStream {
	s := &NativeStream{id: id}
	s.initRef(s.destroy)
	return s
}

// NewReceiver creates a native receiver for track. The receiver retains the
// track; the caller owns the initial reference on the receiver.
func (e *Engine) NewReceiver(track *NativeTrack, params webrtc.RTPParameters) *NativeReceiver {
	track.Ref()
	r := &NativeReceiver{
		track:   track,
		params:  params,
		sources: make(map[sourceKey]sourceEntry),
	}
	r.initRef(r.destroy)
	return r
}
