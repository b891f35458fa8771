package luamedia

import (
	"strings"
	"testing"

	"github.com/Shopify/go-lua"
	"github.com/pion/webrtc/v4"
)

func newLuaTest(t *testing.T) (*lua.State, *Session, *Engine, *Loop) {
	t.Helper()
	session, engine, loop := newTestSession(t)
	var l *lua.State
	loop.Call(func() {
		l = lua.NewState()
		lua.OpenLibraries(l)
		RegisterTypes(l)
	})
	return l, session, engine, loop
}

func runScript(t *testing.T, loop *Loop, l *lua.State, src string) {
	t.Helper()
	loop.Call(func() {
		if err := lua.LoadString(l, src); err != nil {
			t.Fatalf("script load failed: %v", err)
		}
		if err := l.ProtectedCall(0, 0, 0); err != nil {
			t.Fatalf("script failed: %v", err)
		}
	})
}

func TestLuaConstructorsRejectScriptCalls(t *testing.T) {
	l, _, _, loop := newLuaTest(t)

	// No call shape a script can produce passes the construction guard, and
	// every failure reads the same.
	runScript(t, loop, l, `
		local calls = {
			function() return MediaStream() end,
			function() return MediaStream(1, 2) end,
			function() return MediaStream({}, {}) end,
			function() return MediaStreamTrack("a1") end,
			function() return MediaStreamTrack(nil, nil) end,
			function() return RTPReceiver(io.stdout, io.stdout) end,
		}
		for i, call in ipairs(calls) do
			local ok, err = pcall(call)
			assert(not ok, "constructor call " .. i .. " succeeded")
			assert(string.find(err, "cannot be constructed", 1, true),
				"constructor call " .. i .. " failed with: " .. tostring(err))
		end
	`)
}

func TestLuaConstructorRejectsMismatchedHandle(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	track := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer track.Unref()

	// Valid tokens but a track handle fed to the stream constructor must fail
	// the same way as forged arguments.
	loop.Call(func() {
		err := pushConstructed(l, "MediaStream", session, track)
		if err == nil {
			t.Fatal("stream constructor accepted a track handle")
		}
		if !strings.Contains(err.Error(), "cannot be constructed") {
			t.Fatalf("unexpected error: %v", err)
		}
		l.Pop(1) // error value
	})
}

func TestLuaConstructedWrapperIsRegistryIdentity(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	track := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer track.Unref()

	loop.Call(func() {
		if err := pushConstructed(l, "MediaStreamTrack", session, track); err != nil {
			t.Fatal(err)
		}
		w, _ := l.ToUserData(-1).(*MediaStreamTrack)
		l.Pop(1)
		if w == nil {
			t.Fatal("constructor did not return a MediaStreamTrack userdata")
		}
		if w != session.CreateOrReuseTrackWrapper(track) {
			t.Error("constructed wrapper differs from the registry's wrapper")
		}
	})
}

func TestLuaScriptSeesOneWrapperPerTrack(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	native := engine.NewStream("s1")
	defer native.Unref()
	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()
	v := engine.NewTrack(RTPCodecTypeVideo, "v1", "cam")
	defer v.Unref()
	native.AddAudioTrack(a)
	native.AddVideoTrack(v)

	loop.Call(func() {
		PushMediaStream(l, session.CreateOrReuseStreamWrapper(native))
		l.SetGlobal("stream")
	})

	runScript(t, loop, l, `
		local all = stream:getTracks()
		assert(#all == 2)
		assert(all[1]:kind() == "audio" and all[2]:kind() == "video")
		assert(all[1] == stream:getAudioTracks()[1])
		assert(all[2] == stream:getVideoTracks()[1])
		assert(stream:getTrackById("a1") == all[1])
		assert(stream:getTrackById("nope") == nil)
		assert(all[1] ~= all[2])
	`)
}

func TestLuaTrackMethods(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	track := engine.NewTrack(RTPCodecTypeAudio, "a1", "built-in mic")
	defer track.Unref()

	loop.Call(func() {
		PushMediaStreamTrack(l, session.CreateOrReuseTrackWrapper(track))
		l.SetGlobal("track")
	})

	runScript(t, loop, l, `
		assert(track:id() == "a1")
		assert(track:kind() == "audio")
		assert(track:label() == "built-in mic")
		assert(track:readyState() == "live")
		track:setEnabled(true)
		assert(track:enabled() == true)
		track:setEnabled(false)
		assert(track:enabled() == false)
		track:stop()
		assert(track:readyState() == "ended")
		local ok, err = pcall(function() return track:clone() end)
		assert(not ok and string.find(err, "not implemented", 1, true))
	`)

	if track.State() != TrackStateEnded {
		t.Error("script stop did not end the native track")
	}
}

func TestLuaStreamAddRemoveTrack(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	native := engine.NewStream("s1")
	defer native.Unref()
	a := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer a.Unref()

	loop.Call(func() {
		PushMediaStream(l, session.CreateOrReuseStreamWrapper(native))
		l.SetGlobal("stream")
		PushMediaStreamTrack(l, session.CreateOrReuseTrackWrapper(a))
		l.SetGlobal("track")
	})

	runScript(t, loop, l, `
		assert(#stream:getTracks() == 0)
		stream:addTrack(track)
		assert(#stream:getAudioTracks() == 1)
		assert(stream:getTracks()[1] == track)
		stream:removeTrack(track)
		assert(#stream:getTracks() == 0)
	`)
}

func TestLuaReceiverSurface(t *testing.T) {
	l, session, engine, loop := newLuaTest(t)

	track := engine.NewTrack(RTPCodecTypeAudio, "a1", "mic")
	defer track.Unref()
	native := engine.NewReceiver(track, webrtc.RTPParameters{
		Codecs: []webrtc.RTPCodecParameters{{
			RTPCodecCapability: webrtc.RTPCodecCapability{MimeType: "audio/opus", ClockRate: 48000, Channels: 2},
			PayloadType:        111,
		}},
	})
	defer native.Unref()

	loop.Call(func() {
		PushRTPReceiver(l, session.NewReceiver(native))
		l.SetGlobal("receiver")
	})

	runScript(t, loop, l, `
		assert(receiver:track():id() == "a1")
		assert(receiver:transport() == nil)
		assert(receiver:rtcpTransport() == nil)
		local p = receiver:getParameters()
		assert(p.codecs[1].mimeType == "audio/opus")
		assert(p.codecs[1].payloadType == 111)
		assert(#receiver:getSynchronizationSources() == 0)
		local ok, err = pcall(function() return receiver:getCapabilities() end)
		assert(not ok and string.find(err, "not implemented", 1, true))
		stats = receiver:getStats()
		assert(stats:state() == "pending")
	`)

	// The rejection lands on the next loop turn.
	runScript(t, loop, l, `
		assert(stats:state() == "rejected")
		assert(string.find(stats:error(), "not implemented", 1, true))
		assert(stats:value() == nil)
	`)
}
