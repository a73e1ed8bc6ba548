package strategy

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/fairdice/internal/game/dice"
)

// DefaultInstructionLimit caps the Lua opcodes one selection may execute
// when no override is configured.
const DefaultInstructionLimit = 100_000

// Lua runs a user-supplied script to pick the computer's die. The script
// must define a global function:
//
//	function select_die(faces, taken)
//
// where faces is a 1-based array of 1-based face arrays and taken is the
// 1-based index the human already holds (0 when the computer picks first).
// It must return a 1-based index of an untaken die.
//
// Scripts run in a sandbox: only the base, table, string, and math
// libraries are loaded, file/loader globals are stripped, and execution is
// bounded by an instruction limit.
type Lua struct {
	path      string
	instLimit int
}

// NewLua creates a Lua selector for the script at path.
//
// Precondition: path must be non-empty. instLimit <= 0 uses
// DefaultInstructionLimit.
func NewLua(path string, instLimit int) *Lua {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Lua{path: path, instLimit: instLimit}
}

// SelectDie loads and runs the script in a fresh sandboxed state.
//
// Postcondition: the returned index is in [0, len(set)) and != taken, or an
// error when the script misbehaves (bad return, taken die, opcode limit).
func (l *Lua) SelectDie(set []dice.Die, taken int) (int, error) {
	L := newSandboxedState(l.instLimit)
	defer L.Close()

	if err := L.DoFile(l.path); err != nil {
		return 0, fmt.Errorf("strategy: loading script %s: %w", l.path, err)
	}

	fn := L.GetGlobal("select_die")
	if fn.Type() != lua.LTFunction {
		return 0, fmt.Errorf("strategy: script %s does not define select_die", l.path)
	}

	facesTable := L.NewTable()
	for _, d := range set {
		dieTable := L.NewTable()
		for _, f := range d.Faces() {
			dieTable.Append(lua.LNumber(f))
		}
		facesTable.Append(dieTable)
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		facesTable, lua.LNumber(taken+1)); err != nil {
		return 0, fmt.Errorf("strategy: running select_die in %s: %w", l.path, err)
	}

	ret := L.Get(-1)
	L.Pop(1)
	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("strategy: select_die in %s returned %s, want number", l.path, ret.Type())
	}

	index := int(num) - 1
	if index < 0 || index >= len(set) {
		return 0, fmt.Errorf("strategy: select_die in %s returned index %d, set has %d dice", l.path, int(num), len(set))
	}
	if index == taken {
		return 0, fmt.Errorf("strategy: select_die in %s picked the die the player already holds", l.path)
	}
	return index, nil
}

// countingContext cancels itself after Done() has been called limit times.
// GopherLua's main loop calls Done() once per opcode, making this an exact
// instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newSandboxedState creates an LState with only the safe standard
// libraries, dangerous globals stripped, and execution bounded to limit
// opcodes.
func newSandboxedState(limit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	L.SetContext(&countingContext{Context: base, cancel: cancel, remaining: rem})

	return L
}
