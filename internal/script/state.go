package script

import (
	"context"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single call into a script.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe. The mutex serialises every call
// made through State; Lua code itself always runs single-threaded.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	closed  bool
	timeout time.Duration
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the timeout for each Call. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	removeUnsafeGlobals(L)

	s := &State{L: L, timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// openSafeLibraries opens only the Lua standard libraries that cannot touch
// the file system or the process.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// removeUnsafeGlobals drops base functions that load code from disk or strings.
func removeUnsafeGlobals(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// DoFile loads and executes a Lua file. Top-level code is bounded by ctx and
// the execution timeout, like Call.
func (s *State) DoFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	defer s.bind(ctx)()
	return s.doWithRecovery(func() error {
		return s.L.DoFile(path)
	})
}

// DoString executes a chunk of Lua source. The name is used in error messages.
func (s *State) DoString(name, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	fn, err := s.L.Load(stringReader(code), name)
	if err != nil {
		return err
	}
	return s.doWithRecovery(func() error {
		s.L.Push(fn)
		return s.L.PCall(0, lua.MultRet, nil)
	})
}

// bind attaches ctx, limited by the execution timeout, to the Lua state.
// The returned function detaches it. Caller must hold s.mu.
func (s *State) bind(ctx context.Context) func() {
	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	s.L.SetContext(ctx)
	return func() {
		s.L.RemoveContext()
		cancel()
	}
}

// doWithRecovery executes a function with panic recovery.
func (s *State) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Call calls a global Lua function with the given arguments. The call is
// aborted when ctx is done or the execution timeout elapses.
// Returns an empty slice (not nil) if the function returns no values.
func (s *State) Call(ctx context.Context, fn string, args ...lua.LValue) ([]lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	defer s.bind(ctx)()

	fnVal := s.L.GetGlobal(fn)
	if fnVal == lua.LNil {
		return nil, fmt.Errorf("%w: %q", ErrNoHandleFunc, fn)
	}
	if fnVal.Type() != lua.LTFunction {
		return nil, fmt.Errorf("%w: %q is a %s", ErrNoHandleFunc, fn, fnVal.Type())
	}

	stackTop := s.L.GetTop()

	s.L.Push(fnVal)
	for _, arg := range args {
		s.L.Push(arg)
	}

	callErr := s.doWithRecovery(func() error {
		return s.L.PCall(len(args), lua.MultRet, nil)
	})
	if callErr != nil {
		s.L.SetTop(stackTop)
		return nil, callErr
	}

	// Only the values pushed by the call.
	nRet := s.L.GetTop() - stackTop
	if nRet <= 0 {
		return []lua.LValue{}, nil
	}
	results := make([]lua.LValue, nRet)
	for i := 0; i < nRet; i++ {
		results[i] = s.L.Get(stackTop + i + 1)
	}
	s.L.Pop(nRet)

	return results, nil
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// Close releases all resources associated with the Lua state.
// After Close is called, all other methods will return ErrStateClosed.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
