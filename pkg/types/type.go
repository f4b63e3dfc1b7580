// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Type is a type descriptor. Every Type is also a Symbol.
type Type interface {
	Symbol
	isType()
}

// ConstructError is returned when a generic definition is instantiated
// with the wrong number of type arguments, or when the receiver is not a
// generic definition.
type ConstructError struct {
	Name string
	Want int
	Got  int
}

func (e *ConstructError) Error() string {
	if e.Want == 0 {
		return fmt.Sprintf("%s is not a generic definition", e.Name)
	}
	return fmt.Sprintf("%s takes %d type arguments, got %d", e.Name, e.Want, e.Got)
}

// NamedOption configures a Named type at construction.
type NamedOption func(*Named)

// InNamespace sets the namespace (or Go package path) of a named type.
func InNamespace(ns string) NamedOption {
	return func(n *Named) { n.namespace = ns }
}

// ValueType marks a named type as a value type (struct or enum).
func ValueType() NamedOption {
	return func(n *Named) { n.value = true }
}

// NullableWrapper marks a generic definition whose constructions are
// displayed with the "T?" shorthand.
func NullableWrapper() NamedOption {
	return func(n *Named) { n.wrapper = true }
}

// Named is a named type: an ordinary type, a generic definition, the
// unbound form of a generic definition, a construction of one, or an
// error type standing in for a name that could not be bound.
type Named struct {
	name      string
	namespace string
	value     bool
	wrapper   bool
	isError   bool
	nullable  bool

	params  []*TypeParam
	args    []Type
	origin  *Named // definition, for unbound and constructed forms
	unbound *Named // unbound twin, on definitions only
	base    *Named // unannotated source of a nullable copy
	isUnb   bool
}

// NewNamed returns a named type. With type parameters it is a generic
// definition and its unbound form is created alongside it.
func NewNamed(name string, params []*TypeParam, opts ...NamedOption) *Named {
	n := &Named{name: name, params: params}
	for _, opt := range opts {
		opt(n)
	}
	for _, p := range params {
		p.owner = n
	}
	if len(params) > 0 {
		u := *n
		u.isUnb = true
		u.origin = n
		n.unbound = &u
	}
	return n
}

// NewError returns an error type for a name that could not be bound.
func NewError(name string) *Named {
	return &Named{name: name, isError: true}
}

func (n *Named) Kind() SymbolKind {
	if n.isError {
		return ErrorTypeSymbol
	}
	return NamedTypeSymbol
}

func (n *Named) Name() string             { return n.name }
func (n *Named) Namespace() string        { return n.namespace }
func (n *Named) IsValueType() bool        { return n.value }
func (n *Named) IsError() bool            { return n.isError }
func (n *Named) IsNullable() bool         { return n.nullable }
func (n *Named) IsUnbound() bool          { return n.isUnb }
func (n *Named) TypeArgs() []Type         { return n.args }
func (n *Named) TypeParams() []*TypeParam { return n.params }
func (*Named) isSymbol()                  {}
func (*Named) isType()                    {}

// IsGeneric reports whether n is a generic definition, its unbound form,
// or a construction of a generic definition.
func (n *Named) IsGeneric() bool { return len(n.params) > 0 }

// IsDefinition reports whether n is a generic definition.
func (n *Named) IsDefinition() bool { return len(n.params) > 0 && n.origin == nil }

// IsConstructed reports whether n is a generic definition instantiated
// with type arguments.
func (n *Named) IsConstructed() bool { return n.origin != nil && !n.isUnb }

// IsNullableValue reports whether n is a construction of a nullable
// wrapper definition such as System.Nullable<T>.
func (n *Named) IsNullableValue() bool { return n.IsConstructed() && n.origin.wrapper }

// Origin returns the generic definition of an unbound or constructed type,
// and n itself otherwise.
func (n *Named) Origin() *Named {
	if n.origin != nil {
		return n.origin
	}
	return n
}

// Unbound returns the unbound form of a generic type, or nil for
// non-generic types.
func (n *Named) Unbound() *Named {
	if n.isUnb {
		return n
	}
	return n.Origin().unbound
}

// Construct instantiates a generic definition with args.
func (n *Named) Construct(args ...Type) (*Named, error) {
	if !n.IsDefinition() {
		return nil, &ConstructError{Name: n.name, Want: 0, Got: len(args)}
	}
	if len(args) != len(n.params) {
		return nil, &ConstructError{Name: n.name, Want: len(n.params), Got: len(args)}
	}
	c := &Named{
		name:      n.name,
		namespace: n.namespace,
		value:     n.value,
		params:    n.params,
		args:      append([]Type(nil), args...),
		origin:    n,
	}
	return c, nil
}

// WithNullable returns a copy of n carrying a nullable annotation. The
// copy keeps n's generic identity.
func (n *Named) WithNullable() *Named {
	if n.nullable {
		return n
	}
	c := *n
	c.nullable = true
	c.base = n
	return &c
}

// WithoutNullable returns n without its nullable annotation.
func (n *Named) WithoutNullable() *Named {
	if n.nullable && n.base != nil {
		return n.base
	}
	return n
}

// FullName returns the namespace-qualified name.
func (n *Named) FullName() string {
	if n.namespace == "" {
		return n.String()
	}
	return n.namespace + "." + n.String()
}

func (n *Named) String() string {
	var b strings.Builder
	switch {
	case n.IsNullableValue():
		b.WriteString(typeString(n.args[0]))
		b.WriteByte('?')
		return b.String()
	case n.isUnb:
		b.WriteString(n.name)
		b.WriteByte('<')
		b.WriteString(strings.Repeat(",", len(n.params)-1))
		b.WriteByte('>')
	case len(n.args) > 0:
		b.WriteString(n.name)
		writeTypeList(&b, n.args)
	case len(n.params) > 0:
		b.WriteString(n.name)
		writeTypeList(&b, typeParamsAsTypes(n.params))
	default:
		b.WriteString(n.name)
	}
	if n.nullable {
		b.WriteByte('?')
	}
	return b.String()
}

// TypeParam is a type parameter of a generic type or method.
type TypeParam struct {
	name        string
	index       int
	owner       Symbol
	constraints []Type
}

// NewTypeParam returns a type parameter at position index. Constraints are
// recorded but never followed by the decomposer.
func NewTypeParam(name string, index int, constraints ...Type) *TypeParam {
	return &TypeParam{name: name, index: index, constraints: constraints}
}

func (*TypeParam) Kind() SymbolKind      { return TypeParameterSymbol }
func (p *TypeParam) Name() string        { return p.name }
func (p *TypeParam) Index() int          { return p.index }
func (p *TypeParam) Owner() Symbol       { return p.owner }
func (p *TypeParam) Constraints() []Type { return p.constraints }
func (p *TypeParam) String() string      { return p.name }
func (*TypeParam) isSymbol()             {}
func (*TypeParam) isType()               {}

// Dynamic is the dynamic type.
type Dynamic struct{}

// DynamicType is the single dynamic type value.
var DynamicType = &Dynamic{}

func (*Dynamic) Kind() SymbolKind { return DynamicTypeSymbol }
func (*Dynamic) Name() string     { return "dynamic" }
func (*Dynamic) String() string   { return "dynamic" }
func (*Dynamic) isSymbol()        {}
func (*Dynamic) isType()          {}

// Pointer is an unmanaged pointer type.
type Pointer struct {
	elem Type
}

// NewPointer returns a pointer to elem.
func NewPointer(elem Type) *Pointer { return &Pointer{elem: elem} }

func (*Pointer) Kind() SymbolKind { return PointerTypeSymbol }
func (p *Pointer) Name() string   { return "" }
func (p *Pointer) Elem() Type     { return p.elem }
func (p *Pointer) String() string { return typeString(p.elem) + "*" }
func (*Pointer) isSymbol()        {}
func (*Pointer) isType()          {}

// FuncPointer is a function pointer type. Go func types map here too,
// which is why it carries a list of results.
type FuncPointer struct {
	params  []Type
	results []Type
}

// NewFuncPointer returns a function pointer type.
func NewFuncPointer(params, results []Type) *FuncPointer {
	return &FuncPointer{params: params, results: results}
}

func (*FuncPointer) Kind() SymbolKind  { return FunctionPointerTypeSymbol }
func (*FuncPointer) Name() string      { return "" }
func (f *FuncPointer) Params() []Type  { return f.params }
func (f *FuncPointer) Results() []Type { return f.results }
func (*FuncPointer) isSymbol()         {}
func (*FuncPointer) isType()           {}

func (f *FuncPointer) String() string {
	ts := append(append([]Type(nil), f.params...), f.results...)
	var b strings.Builder
	b.WriteString("delegate*")
	if len(f.results) == 0 {
		ts = append(ts, voidType)
	}
	writeTypeList(&b, ts)
	return b.String()
}

// Array is an array type of the given rank.
type Array struct {
	elem Type
	rank int
}

// NewArray returns an array of elem. Rank below one is treated as one.
func NewArray(elem Type, rank int) *Array {
	if rank < 1 {
		rank = 1
	}
	return &Array{elem: elem, rank: rank}
}

func (*Array) Kind() SymbolKind { return ArrayTypeSymbol }
func (*Array) Name() string     { return "" }
func (a *Array) Elem() Type     { return a.elem }
func (a *Array) Rank() int      { return a.rank }
func (*Array) isSymbol()        {}
func (*Array) isType()          {}

func (a *Array) String() string {
	return typeString(a.elem) + "[" + strings.Repeat(",", a.rank-1) + "]"
}

// Opaque is any other type shape, such as a Go struct or interface
// literal. The decomposer treats it as terminal.
type Opaque struct {
	desc string
}

// NewOpaque returns an opaque type displayed as desc.
func NewOpaque(desc string) *Opaque { return &Opaque{desc: desc} }

func (*Opaque) Kind() SymbolKind { return OtherTypeSymbol }
func (o *Opaque) Name() string   { return o.desc }
func (o *Opaque) String() string { return o.desc }
func (*Opaque) isSymbol()        {}
func (*Opaque) isType()          {}

// substitution maps type parameters to arguments.
type substitution map[*TypeParam]Type

func newSubstitution(params []*TypeParam, args []Type) substitution {
	s := make(substitution, len(params))
	for i, p := range params {
		s[p] = args[i]
	}
	return s
}

func (s substitution) apply(t Type) Type {
	switch t := t.(type) {
	case nil:
		return nil
	case *TypeParam:
		if r, ok := s[t]; ok {
			return r
		}
		return t
	case *Pointer:
		return NewPointer(s.apply(t.elem))
	case *Array:
		return NewArray(s.apply(t.elem), t.rank)
	case *FuncPointer:
		return NewFuncPointer(s.applyAll(t.params), s.applyAll(t.results))
	case *Named:
		if !t.IsConstructed() {
			return t
		}
		c, err := t.origin.Construct(s.applyAll(t.args)...)
		if err != nil {
			return t
		}
		if t.nullable {
			return c.WithNullable()
		}
		return c
	default:
		return t
	}
}

func (s substitution) applyAll(ts []Type) []Type {
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = s.apply(t)
	}
	return out
}

// Substitute replaces the type parameters of def in t with args. It is
// used by front-ends to type members of constructed generic types.
func Substitute(t Type, def *Named, args []Type) Type {
	if def == nil || len(def.params) != len(args) {
		return t
	}
	return newSubstitution(def.params, args).apply(t)
}

// Identical reports whether a and b denote the same type. Constructed
// types are compared by origin and arguments; definitions, unbound forms,
// and type parameters by identity.
func Identical(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch a := a.(type) {
	case *Named:
		b, ok := b.(*Named)
		if !ok {
			return false
		}
		if a.nullable != b.nullable {
			return false
		}
		if a.IsConstructed() && b.IsConstructed() {
			return a.origin == b.origin && identicalAll(a.args, b.args)
		}
		if a.isError && b.isError {
			return a.name == b.name
		}
		return a.root() == b.root()
	case *Pointer:
		b, ok := b.(*Pointer)
		return ok && Identical(a.elem, b.elem)
	case *Array:
		b, ok := b.(*Array)
		return ok && a.rank == b.rank && Identical(a.elem, b.elem)
	case *FuncPointer:
		b, ok := b.(*FuncPointer)
		return ok && identicalAll(a.params, b.params) && identicalAll(a.results, b.results)
	case *Opaque:
		b, ok := b.(*Opaque)
		return ok && a.desc == b.desc
	case *Dynamic:
		_, ok := b.(*Dynamic)
		return ok
	default:
		return a == b
	}
}

// root maps a nullable copy back to the value it was derived from.
func (n *Named) root() *Named {
	if n.base != nil {
		return n.base
	}
	return n
}

func identicalAll(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Distinct returns ts without repeated types, keeping the first
// occurrence of each.
func Distinct(ts []Type) []Type {
	out := make([]Type, 0, len(ts))
	for _, t := range ts {
		dup := false
		for _, seen := range out {
			if Identical(t, seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
