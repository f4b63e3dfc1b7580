// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"fmt"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// EntityTypeSet returns the types an entity's signature mentions, in
// declaration order. Types return themselves. Methods contribute their
// type arguments (or type parameters, when not constructed), parameter
// types, and result; type parameter constraints are not followed. Nil
// types, such as an untyped discard, are skipped.
func EntityTypeSet(sym types.Symbol) ([]types.Type, error) {
	switch s := sym.(type) {
	case nil:
		return nil, nil
	case types.Type:
		return []types.Type{s}, nil
	case *types.Namespace, *types.Label, *types.RangeVariable:
		return nil, nil
	case *types.Field:
		return appendType(nil, s.Type()), nil
	case *types.Parameter:
		return appendType(nil, s.Type()), nil
	case *types.Local:
		return appendType(nil, s.Type()), nil
	case *types.Discard:
		return appendType(nil, s.Type()), nil
	case *types.Event:
		return appendType(nil, s.Type()), nil
	case *types.Property:
		out := appendType(nil, s.Type())
		for _, p := range s.Parameters() {
			out = appendType(out, p.Type())
		}
		return out, nil
	case *types.Method:
		return methodTypes(s), nil
	default:
		return nil, fmt.Errorf("%w: %s %s", ErrUnsupportedSymbol, sym.Kind(), sym.Name())
	}
}

func methodTypes(m *types.Method) []types.Type {
	var out []types.Type
	if m.IsConstructed() {
		for _, a := range m.TypeArguments() {
			out = appendType(out, a)
		}
	} else {
		for _, p := range m.TypeParameters() {
			out = append(out, p)
		}
	}
	for _, p := range m.Parameters() {
		out = appendType(out, p.Type())
	}
	return appendType(out, m.Result())
}

func appendType(ts []types.Type, t types.Type) []types.Type {
	if t == nil {
		return ts
	}
	return append(ts, t)
}

// SimpleTypes reduces a type to the named types it is built from.
//
// An unbound generic is terminal. A constructed generic contributes its
// unbound form and its definition, then the simple types of each argument;
// a generic definition contributes its unbound form, itself, and its type
// parameters.
// Pointers and arrays contribute their element, function pointers their
// parameters and results. Everything else is terminal. The result keeps
// discovery order and is not deduplicated across nesting levels; use
// types.Distinct for a set.
func SimpleTypes(t types.Type) []types.Type {
	return appendSimple(nil, t)
}

func appendSimple(out []types.Type, t types.Type) []types.Type {
	switch t := t.(type) {
	case nil:
		return out
	case *types.Named:
		switch {
		case t.IsUnbound():
			return append(out, t)
		case t.IsConstructed():
			out = append(out, t.Unbound(), t.Origin())
			for _, a := range t.TypeArgs() {
				out = appendSimple(out, a)
			}
			return out
		case t.IsDefinition():
			def := t.WithoutNullable()
			out = append(out, def.Unbound(), def)
			for _, p := range def.TypeParams() {
				out = appendSimple(out, p)
			}
			return out
		default:
			return append(out, t)
		}
	case *types.Pointer:
		return appendSimple(out, t.Elem())
	case *types.Array:
		return appendSimple(out, t.Elem())
	case *types.FuncPointer:
		for _, p := range t.Params() {
			out = appendSimple(out, p)
		}
		for _, r := range t.Results() {
			out = appendSimple(out, r)
		}
		return out
	default:
		return append(out, t)
	}
}

// ReferenceTypes returns the simple types of every type in the resolved
// entity's type set. Unresolved references have none.
func ReferenceTypes(ref Reference) ([]types.Type, error) {
	set, err := EntityTypeSet(ref.Symbol)
	if err != nil {
		return nil, err
	}
	var out []types.Type
	for _, t := range set {
		out = appendSimple(out, t)
	}
	return out, nil
}
