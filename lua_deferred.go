package luamedia

import (
	"github.com/Shopify/go-lua"
)

// Deferred results surface to scripts as userdata the script polls from the
// loop; there is no blocking wait, matching the no-suspend rule for the
// scripting thread.
var deferredMethods = []lua.RegistryFunction{
	{Name: "state", Function: deferredState},
	{Name: "value", Function: deferredValue},
	{Name: "error", Function: deferredError},
}

func pushDeferred(l *lua.State, d *Deferred) {
	l.PushUserData(d)
	lua.SetMetaTableNamed(l, luaDeferredType)
}

func checkDeferred(l *lua.State) *Deferred {
	if d, ok := lua.CheckUserData(l, 1, luaDeferredType).(*Deferred); ok && d != nil {
		return d
	}
	lua.ArgumentError(l, 1, "Deferred expected")
	return nil
}

func deferredState(l *lua.State) int {
	l.PushString(checkDeferred(l).State().String())
	return 1
}

func deferredValue(l *lua.State) int {
	switch v := checkDeferred(l).Value().(type) {
	case nil:
		l.PushNil()
	case string:
		l.PushString(v)
	case bool:
		l.PushBoolean(v)
	case int:
		l.PushNumber(float64(v))
	case float64:
		l.PushNumber(v)
	default:
		l.PushNil()
	}
	return 1
}

func deferredError(l *lua.State) int {
	if err := checkDeferred(l).Err(); err != nil {
		l.PushString(err.Error())
	} else {
		l.PushNil()
	}
	return 1
}
