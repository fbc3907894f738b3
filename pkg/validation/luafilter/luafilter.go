// Package luafilter runs settings validation written in Lua. The script must
// define a global function
//
//	function validate(page, key, value) ... end
//
// returning the value to store, or nil (or false) plus an optional message to
// reject it. The interpreter is sandboxed: only the base, table, string and
// math libraries are opened and the file loading builtins are removed.
package luafilter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/goliatone/go-optionspage/pkg/validation"
)

// FunctionName is the global the script must define.
const FunctionName = "validate"

var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("luafilter: state closed")
	// ErrMissingFunction is returned when the script does not define validate.
	ErrMissingFunction = errors.New("luafilter: validate function not defined")
)

// Script owns one sandboxed Lua state. Calls are serialised; the state is not
// safe for concurrent use.
type Script struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// New compiles and runs source, then checks that validate is defined.
func New(source string) (*Script, error) {
	L := newSandbox()
	if err := protect(func() error { return L.DoString(source) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("luafilter: load script: %w", err)
	}
	if fn := L.GetGlobal(FunctionName); fn.Type() != lua.LTFunction {
		L.Close()
		return nil, ErrMissingFunction
	}
	return &Script{L: L}, nil
}

// Load reads the script from path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("luafilter: read %s: %w", path, err)
	}
	return New(string(data))
}

// Filter adapts the script to validation.Filter.
func (s *Script) Filter() validation.Filter {
	return s.Validate
}

// Validate calls validate(page, key, value). Cancelling ctx aborts a running
// script.
func (s *Script) Validate(ctx context.Context, pageID, key, value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}
	if ctx != nil {
		s.L.SetContext(ctx)
		defer s.L.RemoveContext()
	}

	top := s.L.GetTop()
	defer s.L.SetTop(top)

	err := protect(func() error {
		return s.L.CallByParam(lua.P{
			Fn:      s.L.GetGlobal(FunctionName),
			NRet:    lua.MultRet,
			Protect: true,
		}, lua.LString(pageID), lua.LString(key), lua.LString(value))
	})
	if err != nil {
		return "", fmt.Errorf("luafilter: %s: %w", key, err)
	}

	returned := s.L.GetTop() - top
	if returned == 0 {
		return value, nil
	}

	first := s.L.Get(top + 1)
	if first == lua.LNil || first == lua.LFalse {
		message := ""
		if returned > 1 {
			if msg, ok := s.L.Get(top + 2).(lua.LString); ok {
				message = string(msg)
			}
		}
		return "", validation.Reject(key, message)
	}
	if first == lua.LTrue {
		return value, nil
	}
	return lua.LVAsString(first), nil
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
