package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/evfire/internal/event"
	"github.com/dshills/evfire/internal/event/dispatch"
)

const testEvents = `
[events.test]
"github.com/dshills/evfire/internal/shop.OrderPlaced" = [
  "github.com/dshills/evfire/internal/shop.ReserveInventory",
  "lua:flag.lua",
  "github.com/dshills/evfire/internal/shop.EmailReceipt",
  "NoSuchHandler",
]
"github.com/dshills/evfire/internal/shop.OrderCancelled" = "github.com/dshills/evfire/internal/shop.AuditTrail"

[events.empty]
`

const flagScript = `
function handle(event)
    if event.ID == "blocked" then
        log("blocked order", "warn")
        return false
    end
end
`

type fixture struct {
	config  string
	scripts string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, "events.toml")
	if err := os.WriteFile(config, []byte(testEvents), 0o644); err != nil {
		t.Fatal(err)
	}
	scripts := filepath.Join(dir, "scripts")
	if err := os.Mkdir(scripts, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scripts, "flag.lua"), []byte(flagScript), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"EVFIRE_ENV", "EVFIRE_CONFIG", "EVFIRE_SCRIPT_DIR", "EVFIRE_LOG_LEVEL", "EVFIRE_LOG_FORMAT"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	return fixture{config: config, scripts: scripts}
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(newApp(&out, &errOut))
	base := []string{"--config", f.config, "--scripts", f.scripts, "--env", "test"}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "evfire dev") {
		t.Errorf("out = %q", out)
	}
}

func TestFire(t *testing.T) {
	f := newFixture(t)
	out, logs, err := f.run(t, "fire", "shop.OrderPlaced", "--data",
		`{"id":"o1","customer":{"email":"ada@example.com"},"items":[{"sku":"apple","qty":1,"price":2}]}`)
	if err != nil {
		t.Fatalf("fire: %v\n%s", err, logs)
	}

	for _, want := range []string{
		"github.com/dshills/evfire/internal/shop.OrderPlaced (dispatch ",
		"ok       github.com/dshills/evfire/internal/shop.ReserveInventory",
		"ok       lua:flag.lua",
		"ok       github.com/dshills/evfire/internal/shop.EmailReceipt",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "NoSuchHandler") {
		t.Errorf("unresolvable handler reported:\n%s", out)
	}
	if !strings.Contains(logs, "event fired") || !strings.Contains(logs, "running event handler") {
		t.Errorf("logs missing dispatch messages:\n%s", logs)
	}
}

func TestFire_ScriptStops(t *testing.T) {
	f := newFixture(t)
	out, logs, err := f.run(t, "fire", "OrderPlaced", "--data",
		`{"id":"blocked","items":[{"sku":"pear","qty":1}]}`)
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !strings.Contains(out, "stopped  lua:flag.lua") {
		t.Errorf("output = %s", out)
	}
	if strings.Contains(out, "EmailReceipt") {
		t.Errorf("handler after stop ran:\n%s", out)
	}
	if !strings.Contains(logs, "blocked order") {
		t.Errorf("script log missing:\n%s", logs)
	}
}

func TestFire_HandlerFailure(t *testing.T) {
	f := newFixture(t)
	data := `{"id":"o2","items":[{"sku":"apple","qty":1}]}`

	out, logs, err := f.run(t, "fire", "OrderPlaced", "--data", data)
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !strings.Contains(out, "FAILED   github.com/dshills/evfire/internal/shop.EmailReceipt") {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(logs, "event handler failed") {
		t.Errorf("failure not logged:\n%s", logs)
	}

	_, _, err = f.run(t, "fire", "OrderPlaced", "--strict", "--data", data)
	if !errors.Is(err, errHandlerFailed) {
		t.Errorf("strict: err = %v, want errHandlerFailed", err)
	}
	if got := exitCode(err); got != exitHandlerFailed {
		t.Errorf("exitCode = %d, want %d", got, exitHandlerFailed)
	}
}

func TestFire_Errors(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.run(t, "fire", "Nope")
	if !errors.Is(err, event.ErrUnknownKind) {
		t.Errorf("unknown kind: err = %v", err)
	}

	_, _, err = f.run(t, "fire", "OrderPlaced", "--data", "{not json")
	if err == nil {
		t.Error("expected decode error")
	}

	_, _, err = f.run(t, "fire", "OrderPlaced", "--env", "staging")
	if !errors.Is(err, dispatch.ErrLoad) || !errors.Is(err, dispatch.ErrEnvironmentNotConfigured) {
		t.Errorf("missing env: err = %v", err)
	}
	if got := exitCode(err); got != exitLoad {
		t.Errorf("exitCode = %d, want %d", got, exitLoad)
	}

	_, _, err = f.run(t, "fire", "OrderPlaced", "--config", filepath.Join(t.TempDir(), "none.toml"))
	if !errors.Is(err, dispatch.ErrLoad) {
		t.Errorf("missing file: err = %v", err)
	}

	_, _, err = f.run(t, "fire", "OrderPlaced", "--log-format", "xml")
	if err == nil || exitCode(err) != exitError {
		t.Errorf("bad log format: err = %v", err)
	}
}

func TestFire_NoHandlers(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run(t, "fire", "OrderPlaced", "--env", "empty")
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !strings.Contains(out, "no handlers ran") {
		t.Errorf("output = %s", out)
	}
}

func TestRoutes(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run(t, "routes")
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	for _, want := range []string{
		"events.test from " + f.config,
		"github.com/dshills/evfire/internal/shop.OrderCancelled",
		"lua:flag.lua",
		string(dispatch.StateReference),
		string(dispatch.StateUnresolvable),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("routes missing %q:\n%s", want, out)
		}
	}
	// Cancelled sorts before placed.
	if strings.Index(out, "shop.OrderCancelled") > strings.Index(out, "shop.OrderPlaced") {
		t.Errorf("routes not sorted:\n%s", out)
	}
}

func TestKinds(t *testing.T) {
	f := newFixture(t)
	out, _, err := f.run(t, "kinds")
	if err != nil {
		t.Fatalf("kinds: %v", err)
	}
	for _, want := range []string{
		"github.com/dshills/evfire/internal/shop.PriorityOrderPlaced",
		"github.com/dshills/evfire/internal/shop.AuditTrail",
		"lua:flag.lua",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("kinds missing %q:\n%s", want, out)
		}
	}
}
