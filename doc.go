// Package luamedia exposes a reference-counted native-style media engine
// (streams, tracks, RTP receivers) to embedded Lua scripts as stable,
// identity-preserving wrapper objects.
//
// Key pieces include:
//   - Engine/NativeTrack/NativeStream/NativeReceiver: the refcounted native
//     object layer, mutable from engine worker goroutines
//   - Session: the owning context for wrappers, with one identity registry
//     per identity space so each native object has exactly one live wrapper
//   - MediaStream/MediaStreamTrack/RTPReceiver: the scripting-visible
//     wrappers, constructible only through internal factory paths
//   - Loop: the single scripting thread; engine callbacks marshal onto it
//   - Lua bindings (RegisterTypes and the Push helpers) built on Shopify's
//     go-lua
//
// # Ownership
//
// Native objects are manually reference counted. A wrapper retains its
// session (which retains the engine) and its native object for as long as
// the wrapper is reachable from scripts; registries hold only weak
// references, so the Go collector reclaims wrappers freely and their native
// references are dropped via a cleanup marshaled onto the loop.
//
// # Threading
//
// All wrapper, registry, and lifecycle state is confined to the session's
// Loop. The native layer is internally locked and may be driven from any
// goroutine; anything that needs to touch wrappers afterwards posts to the
// loop instead of mutating directly.
package luamedia
