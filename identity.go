package wirebox

import "reflect"

// TypeIdentity is the registry key for bindings. It is a reflect.Type, so
// two identities are equal exactly when they denote the same Go type —
// identity equality, never structural.
type TypeIdentity = reflect.Type

// TypeOf returns the TypeIdentity for T. It works for interface types as
// well as concrete types, which makes it the usual way to name an abstract
// when binding or resolving.
func TypeOf[T any]() TypeIdentity {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// typeName renders an identity for error messages.
func typeName(t TypeIdentity) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// baseType strips one level of pointer so that *Service and Service share
// the same metadata entry.
func baseType(t TypeIdentity) TypeIdentity {
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}
