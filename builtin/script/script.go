// Package script runs sandboxed Lua bodies for script nodes. A script sees
// its node's input values as the global table `inputs` and produces its
// outputs by returning a table keyed by output name, either directly or
// from an `exec(inputs)` function.
package script

import (
	"fmt"

	"github.com/Shopify/go-lua"
)

// Validate checks that source parses as Lua without running it.
func Validate(source string) error {
	l := lua.NewState()
	if err := lua.LoadString(l, source); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Execute runs source in a fresh sandboxed state and returns the produced
// output table. Each node execution gets its own state; nothing persists
// between runs.
func Execute(source string, inputs map[string]any) (map[string]any, error) {
	l := lua.NewState()
	setupSandbox(l)

	pushValue(l, inputs)
	l.SetGlobal("inputs")

	if err := lua.DoString(l, source); err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	// Prefer an exec function; fall back to the chunk's return value.
	l.Global("exec")
	if l.TypeOf(-1) == lua.TypeFunction {
		pushValue(l, inputs)
		if err := l.ProtectedCall(1, 1, 0); err != nil {
			return nil, fmt.Errorf("script exec: %w", err)
		}
	} else {
		l.Pop(1)
		if l.Top() == 0 {
			return nil, fmt.Errorf("script: no exec function and no return value")
		}
	}

	result := pullValue(l, -1)
	l.Pop(1)

	outputs, ok := result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("script: result must be a table of outputs, got %T", result)
	}
	return outputs, nil
}
