package luamedia

import (
	"github.com/Shopify/go-lua"
)

var streamMethods = []lua.RegistryFunction{
	{Name: "id", Function: streamID},
	{Name: "active", Function: streamActive},
	{Name: "getAudioTracks", Function: streamGetAudioTracks},
	{Name: "getVideoTracks", Function: streamGetVideoTracks},
	{Name: "getTracks", Function: streamGetTracks},
	{Name: "getTrackById", Function: streamGetTrackByID},
	{Name: "addTrack", Function: streamAddTrack},
	{Name: "removeTrack", Function: streamRemoveTrack},
	{Name: "clone", Function: streamClone},
}

func checkStream(l *lua.State) *MediaStream {
	if w, ok := lua.CheckUserData(l, 1, luaStreamType).(*MediaStream); ok && w != nil {
		return w
	}
	lua.ArgumentError(l, 1, "MediaStream expected")
	return nil
}

// streamEq compares the wrapped Go wrappers, so two userdata pushed for the
// same identity-registered wrapper compare equal in scripts.
func streamEq(l *lua.State) int {
	a, _ := l.ToUserData(1).(*MediaStream)
	b, _ := l.ToUserData(2).(*MediaStream)
	l.PushBoolean(a != nil && a == b)
	return 1
}

func streamID(l *lua.State) int {
	l.PushString(checkStream(l).ID())
	return 1
}

func streamActive(l *lua.State) int {
	l.PushBoolean(checkStream(l).Active())
	return 1
}

func streamGetAudioTracks(l *lua.State) int {
	pushTrackList(l, checkStream(l).GetAudioTracks())
	return 1
}

func streamGetVideoTracks(l *lua.State) int {
	pushTrackList(l, checkStream(l).GetVideoTracks())
	return 1
}

func streamGetTracks(l *lua.State) int {
	pushTrackList(l, checkStream(l).GetTracks())
	return 1
}

func streamGetTrackByID(l *lua.State) int {
	w := checkStream(l)
	id := lua.CheckString(l, 2)
	track := w.GetTrackByID(id)
	if track == nil {
		l.PushNil()
		return 1
	}
	PushMediaStreamTrack(l, track)
	return 1
}

func streamAddTrack(l *lua.State) int {
	w := checkStream(l)
	w.AddTrack(checkTrackAt(l, 2))
	return 0
}

func streamRemoveTrack(l *lua.State) int {
	w := checkStream(l)
	w.RemoveTrack(checkTrackAt(l, 2))
	return 0
}

func streamClone(l *lua.State) int {
	if _, err := checkStream(l).Clone(); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 0
}
