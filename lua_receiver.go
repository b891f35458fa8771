package luamedia

import (
	"github.com/Shopify/go-lua"
)

var receiverMethods = []lua.RegistryFunction{
	{Name: "track", Function: receiverTrack},
	{Name: "transport", Function: receiverTransport},
	{Name: "rtcpTransport", Function: receiverTransport},
	{Name: "getParameters", Function: receiverGetParameters},
	{Name: "getContributingSources", Function: receiverGetContributingSources},
	{Name: "getSynchronizationSources", Function: receiverGetSynchronizationSources},
	{Name: "getStats", Function: receiverGetStats},
	{Name: "getCapabilities", Function: receiverGetCapabilities},
}

func checkReceiver(l *lua.State) *RTPReceiver {
	if w, ok := lua.CheckUserData(l, 1, luaReceiverType).(*RTPReceiver); ok && w != nil {
		return w
	}
	lua.ArgumentError(l, 1, "RTPReceiver expected")
	return nil
}

func receiverEq(l *lua.State) int {
	a, _ := l.ToUserData(1).(*RTPReceiver)
	b, _ := l.ToUserData(2).(*RTPReceiver)
	l.PushBoolean(a != nil && a == b)
	return 1
}

func receiverTrack(l *lua.State) int {
	PushMediaStreamTrack(l, checkReceiver(l).Track())
	return 1
}

// receiverTransport reports the transport, which is always absent for now.
func receiverTransport(l *lua.State) int {
	checkReceiver(l)
	l.PushNil()
	return 1
}

func receiverGetParameters(l *lua.State) int {
	params := checkReceiver(l).GetParameters()
	l.NewTable()
	l.NewTable()
	for i, c := range params.Codecs {
		l.NewTable()
		l.PushString(c.MimeType)
		l.SetField(-2, "mimeType")
		l.PushNumber(float64(c.ClockRate))
		l.SetField(-2, "clockRate")
		l.PushNumber(float64(c.Channels))
		l.SetField(-2, "channels")
		l.PushNumber(float64(c.PayloadType))
		l.SetField(-2, "payloadType")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "codecs")
	l.NewTable()
	for i, h := range params.HeaderExtensions {
		l.NewTable()
		l.PushString(h.URI)
		l.SetField(-2, "uri")
		l.PushNumber(float64(h.ID))
		l.SetField(-2, "id")
		l.RawSetInt(-2, i+1)
	}
	l.SetField(-2, "headerExtensions")
	return 1
}

func receiverGetContributingSources(l *lua.State) int {
	pushSourceList(l, checkReceiver(l).GetContributingSources())
	return 1
}

func receiverGetSynchronizationSources(l *lua.State) int {
	pushSourceList(l, checkReceiver(l).GetSynchronizationSources())
	return 1
}

func receiverGetStats(l *lua.State) int {
	pushDeferred(l, checkReceiver(l).GetStats())
	return 1
}

func receiverGetCapabilities(l *lua.State) int {
	w := checkReceiver(l)
	if _, err := w.GetCapabilities(); err != nil {
		lua.Errorf(l, "%s", err.Error())
	}
	return 0
}

func pushSourceList(l *lua.State, sources []RTPSource) {
	l.NewTable()
	for i, src := range sources {
		l.NewTable()
		l.PushNumber(float64(src.Timestamp.UnixMilli()))
		l.SetField(-2, "timestamp")
		l.PushNumber(float64(src.Source))
		l.SetField(-2, "source")
		l.PushNumber(float64(src.RTPTimestamp))
		l.SetField(-2, "rtpTimestamp")
		l.RawSetInt(-2, i+1)
	}
}
