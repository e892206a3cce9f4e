package event

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Record is implemented by data-record values that can export their fields
// as a map. When an event or one of its fields is a Record, the exported map
// is used in place of the value's own fields.
type Record interface {
	AsMap() map[string]any
}

// maxDepth bounds how deep nested values are expanded.
const maxDepth = 8

// Fields returns the exported fields of a struct event as a map.
// Nested structs, maps and Records become map[string]any; slices and arrays
// become []any. The result is always a fresh map, never one owned by v.
// Returns nil for values that are not structs or Records.
func Fields(v any) map[string]any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if r, ok := v.(Record); ok {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		m, _ := plainMap(reflect.ValueOf(r.AsMap()), 0).(map[string]any)
		return m
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return structFields(rv, 0)
}

func structFields(rv reflect.Value, depth int) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		out[f.Name] = plain(rv.Field(i), depth+1)
	}
	return out
}

// plain converts a reflected value into maps, slices and leaf values.
func plain(v reflect.Value, depth int) any {
	if !v.IsValid() {
		return nil
	}
	if depth > maxDepth {
		return "..."
	}

	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case Record:
			if rx := reflect.ValueOf(x); rx.Kind() == reflect.Pointer && rx.IsNil() {
				return nil
			}
			return plainMap(reflect.ValueOf(x.AsMap()), depth)
		case fmt.Stringer:
			if v.Kind() == reflect.Struct {
				return x.String()
			}
		case []byte:
			if x == nil {
				return nil
			}
			return string(x)
		}
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return plain(v.Elem(), depth+1)
	case reflect.Struct:
		return structFields(v, depth)
	case reflect.Map:
		return plainMap(v, depth)
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = plain(v.Index(i), depth+1)
		}
		return out
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return nil
		}
		return v.Type().String()
	}

	if v.CanInterface() {
		return v.Interface()
	}
	return fmt.Sprint(v)
}

func plainMap(v reflect.Value, depth int) any {
	if v.IsNil() {
		return nil
	}
	out := make(map[string]any, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = plain(iter.Value(), depth+1)
	}
	return out
}

// FormatContext renders the exported fields of an event as indented
// "[name] => value" lines. Nested values are expanded one level of
// indentation deeper. Returns "" if the event has no fields.
func FormatContext(v any) string {
	fields := Fields(v)
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	writeMap(&b, fields, 0)
	return strings.TrimSuffix(b.String(), "\n")
}

func writeMap(b *strings.Builder, m map[string]any, level int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeValue(b, k, m[k], level)
	}
}

func writeValue(b *strings.Builder, name string, v any, level int) {
	indent := strings.Repeat("    ", level)
	switch x := v.(type) {
	case map[string]any:
		if len(x) == 0 {
			fmt.Fprintf(b, "%s[%s] => {}\n", indent, name)
			return
		}
		fmt.Fprintf(b, "%s[%s] =>\n", indent, name)
		writeMap(b, x, level+1)
	case []any:
		if len(x) == 0 {
			fmt.Fprintf(b, "%s[%s] => []\n", indent, name)
			return
		}
		fmt.Fprintf(b, "%s[%s] =>\n", indent, name)
		for i, item := range x {
			writeValue(b, fmt.Sprint(i), item, level+1)
		}
	case nil:
		fmt.Fprintf(b, "%s[%s] => <nil>\n", indent, name)
	default:
		fmt.Fprintf(b, "%s[%s] => %v\n", indent, name, x)
	}
}
