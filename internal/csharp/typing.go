// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// resolveType resolves type syntax. It never returns nil: names that do
// not resolve become error types.
func (r *Resolver) resolveType(n *Node) types.Type {
	switch n.typ {
	case "predefined_type":
		if t, ok := builtins.keywords[n.Text()]; ok {
			return t
		}
		return types.NewError(n.Text())
	case "void_keyword":
		return builtins.void
	case "implicit_type":
		return r.implicitType(n)
	case "identifier", "generic_name", "qualified_name", "alias_qualified_name":
		if t, ok := r.nameSymbol(n, true).(types.Type); ok {
			return t
		}
		return types.NewError(n.Text())
	case "nullable_type":
		return r.nullable(n)
	case "array_type":
		return r.array(n)
	case "pointer_type":
		if len(n.children) > 0 {
			return types.NewPointer(r.resolveType(n.children[0]))
		}
	case "ref_type":
		if t := n.typeChild(); t != nil {
			return r.resolveType(t)
		}
	case "function_pointer_type":
		return r.funcPointer(n)
	case "tuple_type":
		return r.tuple(n)
	}
	return types.NewError(n.Text())
}

func (r *Resolver) nullable(n *Node) types.Type {
	if len(n.children) == 0 {
		return types.NewError(n.Text())
	}
	inner := r.resolveType(n.children[0])
	t, ok := inner.(*types.Named)
	if !ok {
		return inner
	}
	if t.IsValueType() && !t.IsNullableValue() {
		if c, err := builtins.nullable.Construct(t); err == nil {
			return c
		}
	}
	return t.WithNullable()
}

func (r *Resolver) array(n *Node) types.Type {
	elem := n.typeChild()
	if elem == nil {
		return types.NewError(n.Text())
	}
	rank := 1
	if spec := n.child("array_rank_specifier"); spec != nil {
		rank = strings.Count(spec.Text(), ",") + 1
	}
	return types.NewArray(r.resolveType(elem), rank)
}

// funcPointer resolves delegate*<P1, P2, R>. The last type is the result.
func (r *Resolver) funcPointer(n *Node) types.Type {
	var all []types.Type
	for _, c := range n.children {
		switch {
		case c.typ == "function_pointer_parameter":
			if t := c.typeChild(); t != nil {
				all = append(all, r.resolveType(t))
			}
		case c.kind.IsTypeSyntax():
			all = append(all, r.resolveType(c))
		}
	}
	if len(all) == 0 {
		return types.NewError(n.Text())
	}
	params, result := all[:len(all)-1], all[len(all)-1]
	if result == types.Type(builtins.void) {
		return types.NewFuncPointer(params, nil)
	}
	return types.NewFuncPointer(params, []types.Type{result})
}

// tuple resolves (int a, string b) to System.ValueTuple<int, string>.
func (r *Resolver) tuple(n *Node) types.Type {
	var elems []types.Type
	for _, c := range n.childrenOf("tuple_element") {
		if t := c.typeChild(); t != nil {
			elems = append(elems, r.resolveType(t))
		}
	}
	if len(elems) == 0 || len(elems) > len(builtins.valueTuples) {
		return types.NewError(n.Text())
	}
	c, err := builtins.valueTuples[len(elems)-1].Construct(elems...)
	if err != nil {
		return types.NewError(n.Text())
	}
	return c
}

// implicitType infers the type behind var from the declaration it types.
func (r *Resolver) implicitType(n *Node) types.Type {
	var t types.Type
	p := n.parent
	if p != nil && p.typ == "ref_type" {
		p = p.parent
	}
	if p != nil {
		switch p.typ {
		case "variable_declaration":
			if d := p.child("variable_declarator"); d != nil {
				if init := initializer(d); init != nil {
					t = r.exprType(init)
				}
			}
		case "foreach_statement":
			if coll := collection(p); coll != nil {
				t = elementType(r.exprType(coll))
			}
		}
	}
	if t == nil {
		return types.NewError("var")
	}
	return t
}

// initializer returns the value a variable declarator assigns.
func initializer(d *Node) *Node {
	if len(d.children) < 2 {
		return nil
	}
	last := d.children[len(d.children)-1]
	if last.typ == "equals_value_clause" {
		if len(last.children) == 0 {
			return nil
		}
		return last.children[0]
	}
	if last.kind == types.KindOther && last.typ == "identifier" {
		return nil
	}
	return last
}

// collection returns the expression a foreach iterates.
func collection(p *Node) *Node {
	if c := p.byField("right"); c != nil {
		return c
	}
	id := p.declaredIdent()
	for i, c := range p.children {
		if c == id && i+1 < len(p.children) {
			return p.children[i+1]
		}
	}
	return nil
}

// enumerables yield their first type argument.
var enumerables = map[string]bool{
	"IEnumerable": true, "IList": true, "ICollection": true, "IReadOnlyList": true,
	"List": true, "HashSet": true, "Queue": true, "Stack": true,
	"Span": true, "ReadOnlySpan": true,
}

// elementType returns what iterating t yields, or nil.
func elementType(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Array:
		return t.Elem()
	case *types.Named:
		if t.WithoutNullable() == types.StringType {
			return builtins.char
		}
		if !t.IsConstructed() {
			return nil
		}
		args := t.TypeArgs()
		switch {
		case enumerables[t.Name()] && len(args) == 1:
			return args[0]
		case len(args) == 2 && strings.HasSuffix(t.Name(), "Dictionary"):
			kv := builtins.inNamespace("System.Collections.Generic", "KeyValuePair", 2)
			if c, err := kv.Construct(args...); err == nil {
				return c
			}
		}
	}
	return nil
}

// exprType returns the static type of an expression, or nil when it has
// none, as for lambdas and the null literal.
func (r *Resolver) exprType(n *Node) types.Type {
	switch n.kind {
	case types.KindLiteral:
		return literalType(n)
	case types.KindInterpolation:
		return types.StringType
	}
	switch n.typ {
	case "identifier", "generic_name", "qualified_name", "alias_qualified_name":
		return valueType(r.symbolOf(n))
	case "predefined_type", "nullable_type", "array_type", "pointer_type", "function_pointer_type",
		"tuple_type", "implicit_type", "void_keyword", "ref_type":
		return r.resolveType(n)
	case "member_access_expression", "member_binding_expression":
		if len(n.children) > 0 {
			return r.exprType(n.children[len(n.children)-1])
		}
	case "conditional_access_expression":
		if len(n.children) > 1 {
			return r.liftNullable(r.exprType(n.children[len(n.children)-1]))
		}
	case "invocation_expression":
		return r.invocationType(n)
	case "object_creation_expression", "array_creation_expression", "cast_expression",
		"default_expression", "stackalloc_expression":
		if t := n.typeChild(); t != nil {
			return r.resolveType(t)
		}
	case "as_expression":
		if len(n.children) > 1 {
			return r.resolveType(n.children[len(n.children)-1])
		}
	case "implicit_array_creation_expression":
		if init := n.child("initializer_expression"); init != nil && len(init.children) > 0 {
			if elem := r.exprType(init.children[0]); elem != nil {
				return types.NewArray(elem, 1)
			}
		}
	case "parenthesized_expression", "checked_expression", "ref_expression",
		"postfix_unary_expression", "with_expression":
		if len(n.children) > 0 {
			return r.exprType(n.children[0])
		}
	case "prefix_unary_expression":
		if strings.HasPrefix(n.Text(), "!") {
			return builtins.boolean
		}
		if len(n.children) > 0 {
			return r.exprType(n.children[len(n.children)-1])
		}
	case "is_expression", "is_pattern_expression":
		return builtins.boolean
	case "typeof_expression":
		return builtins.typ
	case "sizeof_expression":
		return builtins.int32
	case "assignment_expression":
		if len(n.children) > 0 {
			return r.exprType(n.children[0])
		}
	case "binary_expression":
		return r.binaryType(n)
	case "conditional_expression":
		for _, c := range n.children[min(1, len(n.children)):] {
			if t := r.exprType(c); t != nil {
				return t
			}
		}
	case "this_expression":
		if td := r.enclosingType(n); td != nil {
			return td.named
		}
	case "base_expression":
		if td := r.enclosingType(n); td != nil && len(td.bases) > 0 {
			return td.bases[0]
		}
	case "element_access_expression":
		if len(n.children) > 0 {
			return r.elementAccessType(r.exprType(n.children[0]))
		}
	case "await_expression":
		if len(n.children) > 0 {
			return awaitedType(r.exprType(n.children[len(n.children)-1]))
		}
	case "tuple_expression":
		return r.tupleExprType(n)
	case "switch_expression":
		for _, arm := range n.childrenOf("switch_expression_arm") {
			if len(arm.children) > 0 {
				if t := r.exprType(arm.children[len(arm.children)-1]); t != nil {
					return t
				}
			}
		}
	}
	return nil
}

func literalType(n *Node) types.Type {
	text := strings.ToLower(n.Text())
	switch n.typ {
	case "string_literal", "verbatim_string_literal", "raw_string_literal":
		return types.StringType
	case "character_literal":
		return builtins.char
	case "boolean_literal":
		return builtins.boolean
	case "integer_literal":
		switch {
		case strings.HasSuffix(text, "ul") || strings.HasSuffix(text, "lu"):
			return builtins.uint64
		case strings.HasSuffix(text, "l"):
			return builtins.int64
		case strings.HasSuffix(text, "u"):
			return builtins.uint32
		default:
			return builtins.int32
		}
	case "real_literal":
		switch {
		case strings.HasSuffix(text, "f"):
			return builtins.float32
		case strings.HasSuffix(text, "m"):
			return builtins.decimal
		default:
			return builtins.float64
		}
	}
	return nil
}

// invocationType returns what a call evaluates to. Calls to methods that
// return nothing have type void; nameof is a string.
func (r *Resolver) invocationType(n *Node) types.Type {
	if len(n.children) == 0 {
		return nil
	}
	callee := n.children[0]
	name := callee
	if callee.typ == "member_access_expression" && len(callee.children) > 0 {
		name = callee.children[len(callee.children)-1]
	}
	switch sym := r.symbolOf(name).(type) {
	case *types.Method:
		if sym.Result() == nil {
			return builtins.void
		}
		return sym.Result()
	case nil:
		if callee.typ == "identifier" && callee.Text() == "nameof" {
			return types.StringType
		}
		return nil
	default:
		// a delegate-typed value
		if t, ok := valueType(sym).(*types.Named); ok {
			for _, m := range r.typeMembers(t, "Invoke", 0, 0) {
				if m, ok := m.(*types.Method); ok && m.Result() != nil {
					return m.Result()
				}
			}
		}
		return nil
	}
}

// numericRank orders the built-in numeric types for binary promotion.
func numericRank(t types.Type) int {
	switch t {
	case types.Type(builtins.int32), types.Type(builtins.char):
		return 1
	case types.Type(builtins.uint32):
		return 2
	case types.Type(builtins.int64):
		return 3
	case types.Type(builtins.uint64):
		return 4
	case types.Type(builtins.float32):
		return 5
	case types.Type(builtins.float64):
		return 6
	case types.Type(builtins.decimal):
		return 7
	}
	return 0
}

func (r *Resolver) binaryType(n *Node) types.Type {
	if len(n.children) < 2 {
		return nil
	}
	left, right := n.children[0], n.children[len(n.children)-1]
	op := strings.TrimSpace(string(r.file.Source[left.end:right.start]))
	lt, rt := r.exprType(left), r.exprType(right)
	switch op {
	case "==", "!=", "<", ">", "<=", ">=", "&&", "||":
		return builtins.boolean
	case "??":
		if lt == nil {
			return rt
		}
		if named, ok := lt.(*types.Named); ok && named.IsNullableValue() {
			return named.TypeArgs()[0]
		}
		return lt
	case "+":
		if lt == types.StringType || rt == types.StringType {
			return types.StringType
		}
	}
	lr, rr := numericRank(lt), numericRank(rt)
	switch {
	case lr > 0 && rr > 0 && rr > lr:
		return rt
	case lr > 0 && rr > 0:
		return lt
	case lt != nil:
		return lt
	default:
		return rt
	}
}

// liftNullable maps value types to their nullable form, as ?. does.
func (r *Resolver) liftNullable(t types.Type) types.Type {
	named, ok := t.(*types.Named)
	if !ok || !named.IsValueType() || named.IsNullableValue() || named == builtins.void {
		return t
	}
	if c, err := builtins.nullable.Construct(named); err == nil {
		return c
	}
	return t
}

func (r *Resolver) elementAccessType(t types.Type) types.Type {
	switch t := t.(type) {
	case *types.Array:
		return t.Elem()
	case *types.Named:
		if t.WithoutNullable() == types.StringType {
			return builtins.char
		}
		for _, m := range r.typeMembers(t, "this[]", 0, 0) {
			if p, ok := m.(*types.Property); ok {
				return p.Type()
			}
		}
	case *types.Pointer:
		return t.Elem()
	}
	return nil
}

// awaitedType unwraps Task<T> and ValueTask<T>. Awaiting a bare Task is void.
func awaitedType(t types.Type) types.Type {
	named, ok := t.(*types.Named)
	if !ok || named.Namespace() != "System.Threading.Tasks" {
		return nil
	}
	if named.IsConstructed() && len(named.TypeArgs()) == 1 {
		return named.TypeArgs()[0]
	}
	return builtins.void
}

func (r *Resolver) tupleExprType(n *Node) types.Type {
	var elems []types.Type
	for _, a := range n.childrenOf("argument") {
		if len(a.children) == 0 {
			return nil
		}
		t := r.exprType(a.children[len(a.children)-1])
		if t == nil {
			return nil
		}
		elems = append(elems, t)
	}
	if len(elems) == 0 || len(elems) > len(builtins.valueTuples) {
		return nil
	}
	c, err := builtins.valueTuples[len(elems)-1].Construct(elems...)
	if err != nil {
		return nil
	}
	return c
}
