package loader

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/events.toml", `
[events.production]
"example.com/shop.OrderPlaced" = ["shop.EmailReceipt", "lua:audit.lua"]

[events.development]
"example.com/shop.OrderPlaced" = []
`)

	loader := NewTOMLLoaderWithFS(memfs, "/events.toml")
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	events, ok := config["events"].(map[string]any)
	if !ok {
		t.Fatal("expected events to be a map")
	}
	prod, ok := events["production"].(map[string]any)
	if !ok {
		t.Fatal("expected events.production to be a map")
	}

	want := []any{"shop.EmailReceipt", "lua:audit.lua"}
	if got := prod["example.com/shop.OrderPlaced"]; !reflect.DeepEqual(got, want) {
		t.Errorf("handlers = %#v, want %#v", got, want)
	}
	if loader.Path() != "/events.toml" {
		t.Errorf("Path() = %q", loader.Path())
	}
}

func TestTOMLLoader_LoadNonExistent(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "/nonexistent.toml")

	config, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}
	if config != nil {
		t.Error("expected nil config for non-existent file")
	}
}

func TestTOMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/invalid.toml", `
[events
production = 4
`)

	loader := NewTOMLLoaderWithFS(memfs, "/invalid.toml")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected parse error")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Path != "/invalid.toml" {
		t.Errorf("Path = %q, want '/invalid.toml'", parseErr.Path)
	}
	if parseErr.Line <= 0 {
		t.Errorf("Line = %d, want a position", parseErr.Line)
	}
	if !strings.Contains(parseErr.Error(), "line") {
		t.Errorf("Error() = %q, want line number", parseErr.Error())
	}
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	loader := NewTOMLLoaderWithFS(NewMemFS(), "")

	config, err := loader.LoadFromReader(strings.NewReader(`environment = "staging"`))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if config["environment"] != "staging" {
		t.Errorf("environment = %v, want 'staging'", config["environment"])
	}
}

func TestTOMLLoader_LoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/conf/events.toml", `
"@include" = ["base.toml"]

[events.production]
"shop.OrderPlaced" = ["Override"]
`)
	memfs.AddFile("/conf/base.toml", `
[events.production]
"shop.OrderPlaced" = ["Base"]
"shop.OrderCancelled" = ["Refund"]
`)

	loader := NewTOMLLoaderWithFS(memfs, "/conf/events.toml")
	config, err := loader.LoadWithIncludes("/conf/events.toml", 5)
	if err != nil {
		t.Fatalf("LoadWithIncludes failed: %v", err)
	}

	prod := config["events"].(map[string]any)["production"].(map[string]any)
	if got := prod["shop.OrderPlaced"]; !reflect.DeepEqual(got, []any{"Override"}) {
		t.Errorf("OrderPlaced = %#v, want including file to win", got)
	}
	if got := prod["shop.OrderCancelled"]; !reflect.DeepEqual(got, []any{"Refund"}) {
		t.Errorf("OrderCancelled = %#v, want value from include", got)
	}
	if _, ok := config["@include"]; ok {
		t.Error("@include key was not removed")
	}
}

func TestTOMLLoader_LoadWithIncludes_Missing(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "gone.toml"`)

	_, err := NewTOMLLoaderWithFS(memfs, "/a.toml").LoadWithIncludes("/a.toml", 3)
	if err == nil || !strings.Contains(err.Error(), "gone.toml") {
		t.Errorf("error = %v, want missing include named", err)
	}
}

func TestTOMLLoader_LoadWithIncludes_DepthExceeded(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = ["b.toml"]`)
	memfs.AddFile("/b.toml", `"@include" = ["c.toml"]`)
	memfs.AddFile("/c.toml", `"@include" = ["d.toml"]`)
	memfs.AddFile("/d.toml", `value = 1`)

	loader := NewTOMLLoaderWithFS(memfs, "/a.toml")

	_, err := loader.LoadWithIncludes("/a.toml", 2)
	if err == nil || !strings.Contains(err.Error(), "depth exceeded") {
		t.Errorf("expected 'depth exceeded' error, got: %v", err)
	}

	config, err := loader.LoadWithIncludes("/a.toml", 5)
	if err != nil {
		t.Fatalf("expected success with depth 5, got: %v", err)
	}
	if config["value"] != int64(1) {
		t.Errorf("value = %v, want 1", config["value"])
	}
}

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name     string
		dst      map[string]any
		src      map[string]any
		expected map[string]any
	}{
		{"nil dst", nil, map[string]any{"a": 1}, map[string]any{"a": 1}},
		{"nil src", map[string]any{"a": 1}, nil, map[string]any{"a": 1}},
		{"src overrides dst", map[string]any{"a": 1}, map[string]any{"a": 2}, map[string]any{"a": 2}},
		{
			"nested merge",
			map[string]any{"events": map[string]any{"dev": 1, "prod": 1}},
			map[string]any{"events": map[string]any{"prod": 2}},
			map[string]any{"events": map[string]any{"dev": 1, "prod": 2}},
		},
		{
			"list replaced not appended",
			map[string]any{"h": []any{"a", "b"}},
			map[string]any{"h": []any{"c"}},
			map[string]any{"h": []any{"c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.expected)
			}
		})
	}
}
