package luamedia

import (
	"github.com/Shopify/go-lua"
)

// Lua type names for wrapper metatables.
const (
	luaStreamType   = "luamedia.MediaStream"
	luaTrackType    = "luamedia.MediaStreamTrack"
	luaReceiverType = "luamedia.RTPReceiver"
	luaDeferredType = "luamedia.Deferred"
)

// factoryToken and handleToken are the opaque capability tokens required by
// the script-visible constructors. Only internal factory paths instantiate
// them and they are never stored anywhere a script can reach, so scripts
// cannot forge the arguments needed to construct a wrapper.
type factoryToken struct {
	session *Session
}

type handleToken struct {
	native any
}

// RegisterTypes registers the wrapper metatables and the script-visible
// constructors on l. Scripts calling a constructor without the two internal
// capability tokens get an error; wrappers reach scripts only through push
// helpers or token-carrying internal calls.
//
// The Lua state must only ever be touched from the session's script loop.
func RegisterTypes(l *lua.State) {
	registerWrapperType(l, luaStreamType, streamMethods, streamEq)
	registerWrapperType(l, luaTrackType, trackMethods, trackEq)
	registerWrapperType(l, luaReceiverType, receiverMethods, receiverEq)
	registerWrapperType(l, luaDeferredType, deferredMethods, nil)

	l.PushGoFunction(streamConstruct)
	l.SetGlobal("MediaStream")
	l.PushGoFunction(trackConstruct)
	l.SetGlobal("MediaStreamTrack")
	l.PushGoFunction(receiverConstruct)
	l.SetGlobal("RTPReceiver")
}

func registerWrapperType(l *lua.State, name string, methods []lua.RegistryFunction, eq lua.Function) {
	lua.NewMetaTable(l, name)
	if eq != nil {
		l.PushGoFunction(eq)
		l.SetField(-2, "__eq")
	}
	l.NewTable()
	lua.SetFunctions(l, methods, 0)
	l.SetField(-2, "__index")
	l.Pop(1)
}

// constructionArgs validates the construction-guard calling convention: the
// call must carry exactly the factory token and a handle token wrapping a
// native object of the expected type. Anything else fails identically.
func constructionArgs[N any](l *lua.State) (*Session, N, bool) {
	var zero N
	if l.Top() != 2 {
		return nil, zero, false
	}
	ft, _ := l.ToUserData(1).(*factoryToken)
	ht, _ := l.ToUserData(2).(*handleToken)
	if ft == nil || ht == nil {
		return nil, zero, false
	}
	native, ok := ht.native.(N)
	if !ok {
		return nil, zero, false
	}
	return ft.session, native, true
}

func streamConstruct(l *lua.State) int {
	s, native, ok := constructionArgs[*NativeStream](l)
	if !ok {
		lua.Errorf(l, "%s", ErrInvalidConstruction.Error())
		return 0
	}
	PushMediaStream(l, s.CreateOrReuseStreamWrapper(native))
	return 1
}

func trackConstruct(l *lua.State) int {
	s, native, ok := constructionArgs[*NativeTrack](l)
	if !ok {
		lua.Errorf(l, "%s", ErrInvalidConstruction.Error())
		return 0
	}
	PushMediaStreamTrack(l, s.CreateOrReuseTrackWrapper(native))
	return 1
}

func receiverConstruct(l *lua.State) int {
	s, native, ok := constructionArgs[*NativeReceiver](l)
	if !ok {
		lua.Errorf(l, "%s", ErrInvalidConstruction.Error())
		return 0
	}
	PushRTPReceiver(l, s.NewReceiver(native))
	return 1
}

// pushConstructed invokes the named script-visible constructor with internal
// capability tokens, leaving the wrapper on the stack. This is the internal
// factory path engine callbacks use to hand a native object to scripts.
func pushConstructed(l *lua.State, global string, s *Session, native any) error {
	l.Global(global)
	l.PushUserData(&factoryToken{session: s})
	l.PushUserData(&handleToken{native: native})
	return l.ProtectedCall(2, 1, 0)
}

// PushMediaStream pushes the wrapper as a Lua userdata.
func PushMediaStream(l *lua.State, w *MediaStream) {
	l.PushUserData(w)
	lua.SetMetaTableNamed(l, luaStreamType)
}

// PushMediaStreamTrack pushes the wrapper as a Lua userdata.
func PushMediaStreamTrack(l *lua.State, w *MediaStreamTrack) {
	l.PushUserData(w)
	lua.SetMetaTableNamed(l, luaTrackType)
}

// PushRTPReceiver pushes the wrapper as a Lua userdata.
func PushRTPReceiver(l *lua.State, w *RTPReceiver) {
	l.PushUserData(w)
	lua.SetMetaTableNamed(l, luaReceiverType)
}

func pushTrackList(l *lua.State, tracks []*MediaStreamTrack) {
	l.NewTable()
	for i, t := range tracks {
		PushMediaStreamTrack(l, t)
		l.RawSetInt(-2, i+1)
	}
}
