// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the symbol and syntax model shared by the
// dependency engine and its language front-ends. Values in this package
// are immutable once constructed and safe to share across goroutines.
package types

import "strings"

// SymbolKind identifies the category of a named entity.
type SymbolKind int

const (
	NamespaceSymbol SymbolKind = iota
	AliasSymbol
	FieldSymbol
	PropertySymbol
	EventSymbol
	MethodSymbol
	ParameterSymbol
	LabelSymbol
	LocalSymbol
	DiscardSymbol
	RangeVariableSymbol

	// Type kinds. Every value at or after NamedTypeSymbol is a Type.
	NamedTypeSymbol
	TypeParameterSymbol
	DynamicTypeSymbol
	PointerTypeSymbol
	FunctionPointerTypeSymbol
	ArrayTypeSymbol
	ErrorTypeSymbol
	OtherTypeSymbol
)

// String returns the human-readable name of the symbol kind.
func (k SymbolKind) String() string {
	switch k {
	case NamespaceSymbol:
		return "Namespace"
	case AliasSymbol:
		return "Alias"
	case FieldSymbol:
		return "Field"
	case PropertySymbol:
		return "Property"
	case EventSymbol:
		return "Event"
	case MethodSymbol:
		return "Method"
	case ParameterSymbol:
		return "Parameter"
	case LabelSymbol:
		return "Label"
	case LocalSymbol:
		return "Local"
	case DiscardSymbol:
		return "Discard"
	case RangeVariableSymbol:
		return "RangeVariable"
	case NamedTypeSymbol:
		return "NamedType"
	case TypeParameterSymbol:
		return "TypeParameter"
	case DynamicTypeSymbol:
		return "DynamicType"
	case PointerTypeSymbol:
		return "PointerType"
	case FunctionPointerTypeSymbol:
		return "FunctionPointerType"
	case ArrayTypeSymbol:
		return "ArrayType"
	case ErrorTypeSymbol:
		return "ErrorType"
	case OtherTypeSymbol:
		return "Type"
	default:
		return "Unknown"
	}
}

// IsType reports whether symbols of this kind are type descriptors.
func (k SymbolKind) IsType() bool {
	return k >= NamedTypeSymbol && k <= OtherTypeSymbol
}

// Symbol is a named entity a resolver can return for a reference.
// The set of implementations is closed to this package.
type Symbol interface {
	Kind() SymbolKind
	Name() string
	String() string
	isSymbol()
}

// Namespace is a namespace or, for Go, an imported package name.
type Namespace struct {
	name string
}

// NewNamespace returns a namespace entity.
func NewNamespace(name string) *Namespace { return &Namespace{name: name} }

func (*Namespace) Kind() SymbolKind { return NamespaceSymbol }
func (n *Namespace) Name() string   { return n.name }
func (n *Namespace) String() string { return n.name }
func (*Namespace) isSymbol()        {}

// Alias is a named alias of a type or namespace.
type Alias struct {
	name   string
	target Symbol
}

// NewAlias returns an alias entity pointing at target.
func NewAlias(name string, target Symbol) *Alias { return &Alias{name: name, target: target} }

func (*Alias) Kind() SymbolKind { return AliasSymbol }
func (a *Alias) Name() string   { return a.name }
func (a *Alias) Target() Symbol { return a.target }
func (*Alias) isSymbol()        {}

func (a *Alias) String() string {
	if a.target == nil {
		return a.name
	}
	return a.name + " = " + a.target.String()
}

// Field is a field or constant member, or a Go package-level variable.
type Field struct {
	name string
	typ  Type
}

// NewField returns a field entity of type t.
func NewField(name string, t Type) *Field { return &Field{name: name, typ: t} }

func (*Field) Kind() SymbolKind { return FieldSymbol }
func (f *Field) Name() string   { return f.name }
func (f *Field) Type() Type     { return f.typ }
func (f *Field) String() string { return f.name }
func (*Field) isSymbol()        {}

// Property is a property member. Indexers carry their parameters.
type Property struct {
	name   string
	typ    Type
	params []*Parameter
}

// NewProperty returns a property entity; indexers pass their parameters.
func NewProperty(name string, t Type, params ...*Parameter) *Property {
	return &Property{name: name, typ: t, params: params}
}

func (*Property) Kind() SymbolKind           { return PropertySymbol }
func (p *Property) Name() string             { return p.name }
func (p *Property) Type() Type               { return p.typ }
func (p *Property) Parameters() []*Parameter { return p.params }
func (p *Property) String() string           { return p.name }
func (*Property) isSymbol()                  {}

// Event is an event member.
type Event struct {
	name string
	typ  Type
}

// NewEvent returns an event entity of type t.
func NewEvent(name string, t Type) *Event { return &Event{name: name, typ: t} }

func (*Event) Kind() SymbolKind { return EventSymbol }
func (e *Event) Name() string   { return e.name }
func (e *Event) Type() Type     { return e.typ }
func (e *Event) String() string { return e.name }
func (*Event) isSymbol()        {}

// Parameter is a method, indexer, lambda, or function pointer parameter.
type Parameter struct {
	name string
	typ  Type
}

// NewParameter returns a parameter entity of type t.
func NewParameter(name string, t Type) *Parameter { return &Parameter{name: name, typ: t} }

func (*Parameter) Kind() SymbolKind { return ParameterSymbol }
func (p *Parameter) Name() string   { return p.name }
func (p *Parameter) Type() Type     { return p.typ }
func (p *Parameter) String() string { return p.name }
func (*Parameter) isSymbol()        {}

// Label is a statement label.
type Label struct {
	name string
}

// NewLabel returns a label entity.
func NewLabel(name string) *Label { return &Label{name: name} }

func (*Label) Kind() SymbolKind { return LabelSymbol }
func (l *Label) Name() string   { return l.name }
func (l *Label) String() string { return l.name }
func (*Label) isSymbol()        {}

// Local is a local variable.
type Local struct {
	name string
	typ  Type
}

// NewLocal returns a local variable entity of type t.
func NewLocal(name string, t Type) *Local { return &Local{name: name, typ: t} }

func (*Local) Kind() SymbolKind { return LocalSymbol }
func (l *Local) Name() string   { return l.name }
func (l *Local) Type() Type     { return l.typ }
func (l *Local) String() string { return l.name }
func (*Local) isSymbol()        {}

// Discard is the write-only "_" target. Its type may be unknown.
type Discard struct {
	typ Type
}

// NewDiscard returns a discard entity; t may be nil.
func NewDiscard(t Type) *Discard { return &Discard{typ: t} }

func (*Discard) Kind() SymbolKind { return DiscardSymbol }
func (*Discard) Name() string     { return "_" }
func (d *Discard) Type() Type     { return d.typ }
func (*Discard) String() string   { return "_" }
func (*Discard) isSymbol()        {}

// RangeVariable is a query range variable.
type RangeVariable struct {
	name string
	typ  Type
}

// NewRangeVariable returns a range variable entity; t may be nil.
func NewRangeVariable(name string, t Type) *RangeVariable {
	return &RangeVariable{name: name, typ: t}
}

func (*RangeVariable) Kind() SymbolKind { return RangeVariableSymbol }
func (r *RangeVariable) Name() string   { return r.name }
func (r *RangeVariable) Type() Type     { return r.typ }
func (r *RangeVariable) String() string { return r.name }
func (*RangeVariable) isSymbol()        {}

// Method is a method, constructor, local function, or Go func.
// A generic method is either a definition (type parameters) or a
// construction of one (type arguments).
type Method struct {
	name       string
	typeParams []*TypeParam
	typeArgs   []Type
	params     []*Parameter
	result     Type
	origin     *Method
}

// NewMethod returns a method definition. result may be nil for methods
// that return nothing.
func NewMethod(name string, typeParams []*TypeParam, params []*Parameter, result Type) *Method {
	m := &Method{name: name, typeParams: typeParams, params: params, result: result}
	for _, p := range typeParams {
		p.owner = m
	}
	return m
}

func (*Method) Kind() SymbolKind               { return MethodSymbol }
func (m *Method) Name() string                 { return m.name }
func (m *Method) TypeParameters() []*TypeParam { return m.typeParams }
func (m *Method) TypeArguments() []Type        { return m.typeArgs }
func (m *Method) Parameters() []*Parameter     { return m.params }
func (m *Method) Result() Type                 { return m.result }
func (*Method) isSymbol()                      {}

// IsConstructed reports whether m was produced by Construct.
func (m *Method) IsConstructed() bool { return m.origin != nil }

// Origin returns the generic definition of a constructed method, or m.
func (m *Method) Origin() *Method {
	if m.origin != nil {
		return m.origin
	}
	return m
}

// Construct instantiates a generic method definition with args. Parameter
// and result types are substituted.
func (m *Method) Construct(args ...Type) (*Method, error) {
	if m.origin != nil || len(m.typeParams) == 0 {
		return nil, &ConstructError{Name: m.name, Want: 0, Got: len(args)}
	}
	if len(args) != len(m.typeParams) {
		return nil, &ConstructError{Name: m.name, Want: len(m.typeParams), Got: len(args)}
	}
	sub := newSubstitution(m.typeParams, args)
	params := make([]*Parameter, len(m.params))
	for i, p := range m.params {
		params[i] = NewParameter(p.name, sub.apply(p.typ))
	}
	return &Method{
		name:       m.name,
		typeParams: m.typeParams,
		typeArgs:   args,
		params:     params,
		result:     sub.apply(m.result),
		origin:     m,
	}, nil
}

func (m *Method) String() string {
	var b strings.Builder
	b.WriteString(m.name)
	switch {
	case len(m.typeArgs) > 0:
		writeTypeList(&b, m.typeArgs)
	case len(m.typeParams) > 0:
		writeTypeList(&b, typeParamsAsTypes(m.typeParams))
	}
	b.WriteByte('(')
	for i, p := range m.params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeString(p.typ))
	}
	b.WriteByte(')')
	return b.String()
}

// writeTypeList writes "<a, b>".
func writeTypeList(b *strings.Builder, ts []Type) {
	b.WriteByte('<')
	for i, t := range ts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(typeString(t))
	}
	b.WriteByte('>')
}

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func typeParamsAsTypes(ps []*TypeParam) []Type {
	ts := make([]Type, len(ps))
	for i, p := range ps {
		ts[i] = p
	}
	return ts
}
