package script

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dshills/evfire/internal/event"
)

// Prefix marks a handler reference as a Lua script path.
const Prefix = "lua:"

// Resolver resolves "lua:<path>" references to script handlers. Paths are
// relative to the script directory and may not leave it. One handler is kept
// per script file.
type Resolver struct {
	dir    string
	logger *slog.Logger
	opts   []StateOption

	mu       sync.Mutex
	handlers map[string]*Handler
}

// NewResolver returns a resolver for scripts under dir.
func NewResolver(dir string, logger *slog.Logger, opts ...StateOption) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		dir:      dir,
		logger:   logger,
		opts:     opts,
		handlers: make(map[string]*Handler),
	}
}

// Dir returns the script directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Resolve implements dispatch.Resolver.
func (r *Resolver) Resolve(ref string) (event.Handler, bool) {
	path, ok := r.scriptPath(ref)
	if !ok {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handlers[path]; ok {
		return h, true
	}
	h := NewHandler(path,
		WithName(ref),
		WithLogger(r.logger),
		WithStateOptions(r.opts...),
	)
	r.handlers[path] = h
	return h, true
}

// CanResolve implements dispatch.Checker.
func (r *Resolver) CanResolve(ref string) bool {
	_, ok := r.scriptPath(ref)
	return ok
}

// scriptPath maps a reference to an existing regular file under dir.
func (r *Resolver) scriptPath(ref string) (string, bool) {
	rel, ok := strings.CutPrefix(ref, Prefix)
	if !ok || rel == "" {
		return "", false
	}
	rel = filepath.FromSlash(rel)
	if !filepath.IsLocal(rel) {
		return "", false
	}

	path := filepath.Join(r.dir, rel)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// Scripts returns a reference for every .lua file under the script directory.
func (r *Resolver) Scripts() []string {
	var refs []string
	_ = filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".lua" {
			return nil
		}
		rel, err := filepath.Rel(r.dir, path)
		if err != nil {
			return nil
		}
		refs = append(refs, Prefix+filepath.ToSlash(rel))
		return nil
	})
	return refs
}

// Close closes every handler created by the resolver.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var first error
	for path, h := range r.handlers {
		if err := h.Close(); err != nil && first == nil {
			first = err
		}
		delete(r.handlers, path)
	}
	return first
}
