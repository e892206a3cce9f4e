package script

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/evfire/internal/event"
)

// HandleFunc is the global every handler script must define.
const HandleFunc = "handle"

// TypeField is the table key carrying the event's type name.
const TypeField = "_type"

// Handler runs a Lua script as an event handler. The script is loaded on the
// first call; a script that fails to load is retried on the next call.
type Handler struct {
	name   string
	path   string
	logger *slog.Logger
	opts   []StateOption

	mu    sync.Mutex
	state *State
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithName sets the name the handler reports in logs.
func WithName(name string) HandlerOption {
	return func(h *Handler) {
		if name != "" {
			h.name = name
		}
	}
}

// WithLogger sets the logger behind the script's log function.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithStateOptions passes options to the Lua state.
func WithStateOptions(opts ...StateOption) HandlerOption {
	return func(h *Handler) {
		h.opts = append(h.opts, opts...)
	}
}

// NewHandler returns a handler for the script at path.
func NewHandler(path string, opts ...HandlerOption) *Handler {
	h := &Handler{
		name:   Prefix + path,
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandlerName implements event.Named.
func (h *Handler) HandlerName() string {
	return h.name
}

// Path returns the script path.
func (h *Handler) Path() string {
	return h.path
}

// Handle calls the script's handle function with the event as a table.
// A false return stops propagation.
func (h *Handler) Handle(ctx context.Context, ev any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.load(ctx); err != nil {
		return err
	}

	fields := event.Fields(ev)
	if fields == nil {
		fields = make(map[string]any, 1)
	}
	fields[TypeField] = event.TypeName(ev)
	arg := toLua(h.state.L, fields)

	results, err := h.state.Call(ctx, HandleFunc, arg)
	if err != nil {
		return errors.Wrapf(err, "%s", h.name)
	}
	if len(results) > 0 && results[0] == lua.LFalse {
		return event.ErrStopPropagation
	}
	return nil
}

// load compiles the script once. Caller must hold h.mu.
func (h *Handler) load(ctx context.Context) error {
	if h.state != nil {
		return nil
	}

	s := NewState(h.opts...)
	s.RegisterFunc("log", h.luaLog)
	if err := s.DoFile(ctx, h.path); err != nil {
		_ = s.Close()
		return errors.Wrapf(err, "loading %s", h.name)
	}
	h.state = s
	return nil
}

// luaLog implements log(msg [, level]).
func (h *Handler) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	level := slog.LevelInfo
	if L.GetTop() >= 2 {
		switch L.CheckString(2) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	h.logger.Log(context.Background(), level, msg, "script", h.name)
	return 0
}

// Close releases the Lua state. A later call loads the script again.
func (h *Handler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == nil {
		return nil
	}
	err := h.state.Close()
	h.state = nil
	return err
}
