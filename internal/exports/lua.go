package exports

import (
	"context"
	"fmt"

	"github.com/Shopify/go-lua"
)

// NewLuaState returns a Lua state with the standard libraries and the
// registry bound under exports.<resource>.
func NewLuaState(ctx context.Context, r *Registry) *lua.State {
	l := lua.NewState()
	lua.OpenLibraries(l)
	BindLua(ctx, l, r)
	return l
}

// BindLua installs every export of r as exports.<resource>.<Name>. The
// global exports table is created when missing. Both the dot and the colon
// call forms are accepted.
func BindLua(ctx context.Context, l *lua.State, r *Registry) {
	l.Global("exports")
	if l.TypeOf(-1) != lua.TypeTable {
		l.Pop(1)
		l.NewTable()
		l.PushValue(-1)
		l.SetGlobal("exports")
	}

	l.NewTable()
	for _, name := range r.Names() {
		l.PushGoFunction(luaExport(ctx, r, name))
		l.SetField(-2, name)
	}
	l.SetField(-2, r.Resource())
	l.Pop(1)
}

// RunScript executes a Lua file against the registry.
func RunScript(ctx context.Context, r *Registry, path string) error {
	l := NewLuaState(ctx, r)
	if err := lua.DoFile(l, path); err != nil {
		return fmt.Errorf("failed to run script %s: %w", path, err)
	}
	return nil
}

func luaExport(ctx context.Context, r *Registry, name string) lua.Function {
	return func(l *lua.State) int {
		first := 1
		// exports.res:Name(...) passes the resource table as self.
		if l.Top() >= 1 && l.TypeOf(1) == lua.TypeTable {
			first = 2
		}

		args := make([]any, 0, l.Top())
		for i := first; i <= l.Top(); i++ {
			args = append(args, luaArg(l, i))
		}

		result, err := r.Call(ctx, name, args...)
		if err != nil {
			lua.Errorf(l, "%s", err.Error())
			return 0
		}
		return pushResult(l, result)
	}
}

func luaArg(l *lua.State, i int) any {
	switch l.TypeOf(i) {
	case lua.TypeNil, lua.TypeNone:
		return nil
	case lua.TypeBoolean:
		return l.ToBoolean(i)
	case lua.TypeNumber:
		n, _ := l.ToNumber(i)
		return n
	case lua.TypeString:
		s, _ := l.ToString(i)
		return s
	default:
		return l.ToValue(i)
	}
}

func pushResult(l *lua.State, result any) int {
	switch v := result.(type) {
	case nil:
		return 0
	case bool:
		l.PushBoolean(v)
	case float64:
		l.PushNumber(v)
	case int:
		l.PushInteger(v)
	case string:
		l.PushString(v)
	default:
		l.PushString(fmt.Sprint(v))
	}
	return 1
}
