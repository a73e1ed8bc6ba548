package strategy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/fairdice/internal/game/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript writes a Lua strategy script into a temp dir and returns its path.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strategy.lua")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// TestLua_PicksHighestSum verifies a scripted selector receives faces and
// the taken index, and its 1-based answer maps back correctly.
func TestLua_PicksHighestSum(t *testing.T) {
	script := writeScript(t, `
function select_die(faces, taken)
    local best, bestSum = 0, -math.huge
    for i, die in ipairs(faces) do
        if i ~= taken then
            local sum = 0
            for _, f in ipairs(die) do sum = sum + f end
            if sum > bestSum then best, bestSum = i, sum end
        end
    end
    return best
end
`)
	sel := strategy.NewLua(script, 0)
	set := testSet(t)

	// All three dice sum to 30, so the strict comparison keeps the first
	// untaken die.
	idx, err := sel.SelectDie(set, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	idx, err = sel.SelectDie(set, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
}

// TestLua_RejectsTakenDie verifies a script returning the player's die is an
// error, not a silent misplay.
func TestLua_RejectsTakenDie(t *testing.T) {
	script := writeScript(t, `
function select_die(faces, taken)
    return taken
end
`)
	_, err := strategy.NewLua(script, 0).SelectDie(testSet(t), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already holds")
}

// TestLua_RejectsBadReturn covers out-of-range and non-number returns and a
// missing select_die function.
func TestLua_RejectsBadReturn(t *testing.T) {
	set := testSet(t)

	_, err := strategy.NewLua(writeScript(t, `function select_die(f, t) return 99 end`), 0).SelectDie(set, -1)
	assert.Error(t, err)

	_, err = strategy.NewLua(writeScript(t, `function select_die(f, t) return "one" end`), 0).SelectDie(set, -1)
	assert.Error(t, err)

	_, err = strategy.NewLua(writeScript(t, `x = 1`), 0).SelectDie(set, -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not define select_die")
}

// TestLua_InstructionLimit verifies a runaway script is cut off by the
// instruction limit instead of hanging the game.
func TestLua_InstructionLimit(t *testing.T) {
	script := writeScript(t, `
function select_die(faces, taken)
    while true do end
end
`)
	_, err := strategy.NewLua(script, 10_000).SelectDie(testSet(t), -1)
	assert.Error(t, err)
}

// TestLua_SandboxStripsDangerousGlobals verifies file and loader globals
// are absent inside the sandbox.
func TestLua_SandboxStripsDangerousGlobals(t *testing.T) {
	script := writeScript(t, `
function select_die(faces, taken)
    if dofile ~= nil or loadfile ~= nil or load ~= nil or require ~= nil then
        return 99
    end
    return 1
end
`)
	idx, err := strategy.NewLua(script, 0).SelectDie(testSet(t), -1)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}
