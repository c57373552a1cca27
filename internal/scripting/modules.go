package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the duel.* Lua table into L:
//   - duel.round(x): round half up, matching the engine's rounding
//   - duel.log(msg): write msg to the Manager's logger at Debug level
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: duel global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	duel := L.NewTable()
	L.SetField(duel, "round", L.NewFunction(func(L *lua.LState) int {
		x := float64(L.CheckNumber(1))
		L.Push(lua.LNumber(math.Floor(x + 0.5)))
		return 1
	}))
	L.SetField(duel, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("scripting: lua log", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("duel", duel)
}
