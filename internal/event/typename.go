package event

import "reflect"

// TypeName returns the fully qualified name of v's concrete type, in the form
// "<import path>.<Name>". This is the key events are dispatched on.
//
// A single level of pointer indirection is ignored so that T and *T share a
// name. Types defined from or embedding another type keep their own name;
// there is no inheritance-based matching.
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	return typeName(reflect.TypeOf(v))
}

// TypeNameOf returns the dispatch key for the type T.
func TypeNameOf[T any]() string {
	return typeName(reflect.TypeFor[T]())
}

func typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}
