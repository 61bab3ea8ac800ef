package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals can load code from disk or bypass the compiled-chunk model.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
	"collectgarbage",
}

// openSafeLibraries opens only the pure standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, package and channel stay closed.
}

// installSandbox strips globals that reach outside the state.
func installSandbox(L *lua.LState) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// readOnly wraps t in a proxy whose writes raise an error.
func readOnly(L *lua.LState, t *lua.LTable) *lua.LTable {
	proxy := L.NewTable()
	mt := L.NewTable()
	L.SetField(mt, "__index", t)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("attempt to modify read-only table")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LFalse)
	L.SetMetatable(proxy, mt)
	return proxy
}
