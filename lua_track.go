package luamedia

import (
	"github.com/Shopify/go-lua"
)

var trackMethods = []lua.RegistryFunction{
	{Name: "id", Function: trackID},
	{Name: "kind", Function: trackKind},
	{Name: "label", Function: trackLabel},
	{Name: "enabled", Function: trackEnabled},
	{Name: "setEnabled", Function: trackSetEnabled},
	{Name: "muted", Function: trackMuted},
	{Name: "readyState", Function: trackReadyState},
	{Name: "stop", Function: trackStop},
	{Name: "clone", Function: trackClone},
}

func checkTrack(l *lua.State) *MediaStreamTrack {
	return checkTrackAt(l, 1)
}

func checkTrackAt(l *lua.State, index int) *MediaStreamTrack {
	if w, ok := lua.CheckUserData(l, index, luaTrackType).(*MediaStreamTrack); ok && w != nil {
		return w
	}
	lua.ArgumentError(l, index, "MediaStreamTrack expected")
	return nil
}

func trackEq(l *lua.State) int {
	a, _ := l.ToUserData(1).(*MediaStreamTrack)
	b, _ := l.ToUserData(2).(*MediaStreamTrack)
	l.PushBoolean(a != nil && a == b)
	return 1
}

func trackID(l *lua.State) int {
	l.PushString(checkTrack(l).ID())
	return 1
}

func trackKind(l *lua.State) int {
	l.PushString(checkTrack(l).Kind().String())
	return 1
}

func trackLabel(l *lua.State) int {
	l.PushString(checkTrack(l).Label())
	return 1
}

func trackEnabled(l *lua.State) int {
	l.PushBoolean(checkTrack(l).Enabled())
	return 1
}

func trackSetEnabled(l *lua.State) int {
	w := checkTrack(l)
	lua.CheckType(l, 2, lua.TypeBoolean)
	w.SetEnabled(l.ToBoolean(2))
	return 0
}

func trackMuted(l *lua.State) int {
	l.PushBoolean(checkTrack(l).Muted())
	return 1
}

func trackReadyState(l *lua.State) int {
	l.PushString(checkTrack(l).ReadyState().String())
	return 1
}

func trackStop(l *lua.State) int {
	checkTrack(l).Stop()
	return 0
}

func trackClone(l *lua.State) int {
	if _, err := checkTrack(l).Clone(); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 0
}
