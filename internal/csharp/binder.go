// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// typeDecl is a type declared in the file.
type typeDecl struct {
	node  *Node
	named *types.Named
	bases []types.Type
}

// localSpaces are the nodes whose declaration space holds locals, labels,
// and local functions declared among their statements.
var localSpaces = []string{"block", "switch_section", "compilation_unit"}

// collectTypes declares every type in the file and registers it with the
// enclosing namespace, type, or compilation unit.
func (r *Resolver) collectTypes(n *Node, ns string) {
	for _, c := range n.children {
		switch {
		case c.typ == "namespace_declaration" || c.typ == "file_scoped_namespace_declaration":
			full := qualify(ns, namespaceName(c))
			r.addNamespace(full)
			r.collectTypes(c, full)
			if c.typ == "file_scoped_namespace_declaration" && !hasTypeDeclarations(c) {
				// Older grammars leave the members as siblings.
				ns = full
			}
		case typeDeclarationTypes[c.typ]:
			td := r.declareType(c, ns)
			r.register(r.container(c), td.named)
			r.collectTypes(c, qualify(ns, td.named.Name()))
		default:
			r.collectTypes(c, ns)
		}
	}
}

func hasTypeDeclarations(n *Node) bool {
	for _, c := range n.children {
		if typeDeclarationTypes[c.typ] || c.typ == "declaration_list" {
			return true
		}
	}
	return false
}

func namespaceName(n *Node) string {
	if name := n.byField("name"); name != nil {
		return name.Text()
	}
	for _, c := range n.children {
		if c.kind == types.KindTypeSyntax {
			return c.Text()
		}
	}
	return ""
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	if name == "" {
		return ns
	}
	return ns + "." + name
}

// addNamespace records ns and each of its prefixes.
func (r *Resolver) addNamespace(ns string) {
	parts := strings.Split(ns, ".")
	for i := range parts {
		full := strings.Join(parts[:i+1], ".")
		if _, ok := r.namespaces[full]; !ok {
			r.namespaces[full] = types.NewNamespace(full)
		}
	}
}

// container returns the node whose declaration space holds the type or
// member declared by n.
func (r *Resolver) container(n *Node) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if typeDeclarationTypes[p.typ] || p.typ == "namespace_declaration" ||
			p.typ == "file_scoped_namespace_declaration" || p.typ == "compilation_unit" {
			return p
		}
	}
	return r.file.Root
}

func (r *Resolver) declareType(n *Node, ns string) *typeDecl {
	name := ""
	if id := n.declaredIdent(); id != nil {
		name = id.Text()
	}
	params := r.typeParams(n)
	opts := []types.NamedOption{types.InNamespace(ns)}
	switch n.typ {
	case "struct_declaration", "record_struct_declaration", "enum_declaration":
		opts = append(opts, types.ValueType())
	}
	td := &typeDecl{node: n, named: types.NewNamed(name, params, opts...)}
	for _, p := range params {
		r.register(n, p)
	}
	r.typeDecls[n] = td
	r.byNamed[td.named] = td
	r.global[name] = append(r.global[name], td)
	r.order = append(r.order, td)
	return td
}

// typeParams creates the type parameters of a generic type or method.
func (r *Resolver) typeParams(n *Node) []*types.TypeParam {
	list := n.child("type_parameter_list")
	if list == nil {
		return nil
	}
	var out []*types.TypeParam
	for _, p := range list.childrenOf("type_parameter") {
		if id := p.declaredIdent(); id != nil {
			out = append(out, types.NewTypeParam(id.Text(), len(out)))
		}
	}
	return out
}

func (r *Resolver) register(space *Node, sym types.Symbol) {
	m := r.spaces[space]
	if m == nil {
		m = make(map[string][]types.Symbol)
		r.spaces[space] = m
	}
	m[sym.Name()] = append(m[sym.Name()], sym)
}

// bindUsings resolves using aliases and records imported namespaces.
func (r *Resolver) bindUsings(n *Node) {
	for _, c := range n.children {
		if c.typ != "using_directive" {
			r.bindUsings(c)
			continue
		}
		var alias string
		if id := c.declaredIdent(); id != nil {
			alias = id.Text()
		} else if ne := c.child("name_equals"); ne != nil {
			if id := ne.declaredIdent(); id != nil {
				alias = id.Text()
			}
		}
		target := lastTypeSyntax(c)
		if target == nil {
			continue
		}
		if alias == "" {
			r.addNamespace(target.Text())
			continue
		}
		if sym := r.symbolOf(target); sym != nil {
			r.aliases[alias] = sym
		}
	}
}

func lastTypeSyntax(n *Node) *Node {
	var last *Node
	for _, c := range n.children {
		if c.kind.IsTypeSyntax() {
			last = c
		}
	}
	return last
}

// bindMembers binds the bases and members of every declared type.
func (r *Resolver) bindMembers() {
	for _, td := range r.order {
		if bl := td.node.child("base_list"); bl != nil {
			for _, b := range bl.children {
				if b.kind.IsTypeSyntax() {
					td.bases = append(td.bases, r.resolveType(b))
				} else if t := b.typeChild(); t != nil {
					// primary constructor base: Base(args)
					td.bases = append(td.bases, r.resolveType(t))
				}
			}
		}
		if td.node.typ == "delegate_declaration" {
			// Invoke shares the delegate's type parameters.
			var params []*types.Parameter
			if pl := td.node.child("parameter_list"); pl != nil {
				params = r.parameters(td.node, pl)
			}
			invoke := types.NewMethod("Invoke", nil, params, r.result(td.node))
			r.methods[td.node] = invoke
			r.addMember(td, invoke)
			continue
		}
		if pl := td.node.child("parameter_list"); pl != nil {
			// record primary constructor parameters become properties
			for _, p := range r.parameters(td.node, pl) {
				r.addMember(td, types.NewProperty(p.Name(), p.Type()))
			}
		}
		for _, body := range td.node.children {
			switch body.typ {
			case "declaration_list", "enum_member_declaration_list":
				for _, m := range body.children {
					r.bindMember(td, m)
				}
			}
		}
	}
}

// addMember joins sym to the type's declaration space, alongside its type
// parameters and nested types.
func (r *Resolver) addMember(td *typeDecl, sym types.Symbol) {
	r.register(td.node, sym)
}

func (r *Resolver) bindMember(td *typeDecl, m *Node) {
	switch m.typ {
	case "field_declaration", "event_field_declaration":
		vd := m.child("variable_declaration")
		if vd == nil {
			return
		}
		t := r.resolveTypeOf(vd)
		for _, d := range vd.childrenOf("variable_declarator") {
			id := d.declaredIdent()
			if id == nil {
				continue
			}
			if m.typ == "event_field_declaration" {
				r.addMember(td, types.NewEvent(id.Text(), t))
			} else {
				r.addMember(td, types.NewField(id.Text(), t))
			}
		}
	case "property_declaration":
		if id := m.declaredIdent(); id != nil {
			r.addMember(td, types.NewProperty(id.Text(), r.resolveTypeOf(m)))
		}
	case "indexer_declaration":
		var params []*types.Parameter
		if pl := m.child("bracketed_parameter_list"); pl != nil {
			params = r.parameters(m, pl)
		}
		r.addMember(td, types.NewProperty("this[]", r.resolveTypeOf(m), params...))
	case "event_declaration":
		if id := m.declaredIdent(); id != nil {
			r.addMember(td, types.NewEvent(id.Text(), r.resolveTypeOf(m)))
		}
	case "enum_member_declaration":
		if id := m.declaredIdent(); id != nil {
			r.addMember(td, types.NewField(id.Text(), td.named))
		}
	case "method_declaration":
		name := ""
		if id := m.declaredIdent(); id != nil {
			name = id.Text()
		}
		r.addMember(td, r.bindMethod(m, name))
	case "constructor_declaration":
		r.addMember(td, r.bindMethod(m, ".ctor"))
	case "destructor_declaration":
		r.addMember(td, r.bindMethod(m, "Finalize"))
	case "operator_declaration", "conversion_operator_declaration":
		r.addMember(td, r.bindMethod(m, "operator"))
	}
}

// bindMethod creates the method declared by n: its type parameters, its
// parameters, and its result. Type parameters and parameters join n's
// declaration space.
func (r *Resolver) bindMethod(n *Node, name string) *types.Method {
	tparams := r.typeParams(n)
	for _, p := range tparams {
		r.register(n, p)
	}
	var params []*types.Parameter
	if pl := n.child("parameter_list"); pl != nil {
		params = r.parameters(n, pl)
	}
	var result types.Type
	switch n.typ {
	case "constructor_declaration", "destructor_declaration":
	default:
		result = r.result(n)
	}
	m := types.NewMethod(name, tparams, params, result)
	r.methods[n] = m
	return m
}

// result returns the declared return type of n, or nil for void.
func (r *Resolver) result(n *Node) types.Type {
	rt := n.typeChild()
	if rt == nil {
		return nil
	}
	t := r.resolveType(rt)
	if t == types.Type(builtins.void) {
		return nil
	}
	return t
}

// parameters binds the parameters in list and registers them with space.
func (r *Resolver) parameters(space, list *Node) []*types.Parameter {
	var out []*types.Parameter
	for _, p := range list.childrenOf("parameter") {
		id := p.declaredIdent()
		if id == nil {
			continue
		}
		var t types.Type
		if tc := p.typeChild(); tc != nil {
			t = r.resolveType(tc)
		}
		param := types.NewParameter(id.Text(), t)
		r.register(space, param)
		out = append(out, param)
	}
	return out
}

// bindBodies binds local functions, locals, labels, and lambda parameters
// in source order, so that implicitly typed locals see the locals declared
// before them.
func (r *Resolver) bindBodies(n *Node) {
	switch n.typ {
	case "block", "switch_section", "compilation_unit":
		// local functions are visible before their declaration
		for _, c := range n.children {
			lf := c
			if c.typ == "global_statement" && len(c.children) > 0 {
				lf = c.children[0]
			}
			if lf.typ == "local_function_statement" {
				name := ""
				if id := lf.declaredIdent(); id != nil {
					name = id.Text()
				}
				r.register(n, r.bindMethod(lf, name))
			}
		}
	case "lambda_expression", "anonymous_method_expression":
		if id := n.declaredIdent(); id != nil {
			r.register(n, types.NewParameter(id.Text(), nil))
		} else if ip := n.child("implicit_parameter"); ip != nil {
			r.register(n, types.NewParameter(ip.Text(), nil))
		} else if pl := n.child("parameter_list"); pl != nil {
			r.parameters(n, pl)
		}
	}

	for _, c := range n.children {
		r.bindBodies(c)
	}

	switch n.typ {
	case "variable_declaration":
		if n.parent == nil || n.parent.typ == "field_declaration" || n.parent.typ == "event_field_declaration" {
			return
		}
		space := n.parent
		if space.typ == "local_declaration_statement" {
			space = r.localSpace(space)
		}
		t := r.resolveTypeOf(n)
		for _, d := range n.childrenOf("variable_declarator") {
			if id := d.declaredIdent(); id != nil {
				r.register(space, types.NewLocal(id.Text(), t))
			}
		}
	case "foreach_statement":
		if id := n.declaredIdent(); id != nil {
			r.register(n, types.NewLocal(id.Text(), r.resolveTypeOf(n)))
		}
	case "catch_declaration":
		if id := n.declaredIdent(); id != nil && n.parent != nil {
			r.register(n.parent, types.NewLocal(id.Text(), r.resolveTypeOf(n)))
		}
	case "declaration_expression", "declaration_pattern":
		// out int x, out var x, is Foo x
		id := n.declaredIdent()
		if d := n.child("single_variable_designation"); d != nil {
			id = d.declaredIdent()
		}
		if id != nil {
			r.register(r.localSpace(n), types.NewLocal(id.Text(), r.resolveTypeOf(n)))
		}
	case "labeled_statement":
		if id := n.declaredIdent(); id != nil {
			r.register(r.localSpace(n), types.NewLabel(id.Text()))
		}
	case "from_clause":
		if id := n.declaredIdent(); id != nil {
			// from int x in xs: only a type before the name counts
			var t types.Type
			for _, c := range n.children {
				if c == id {
					break
				}
				if c.kind.IsTypeSyntax() {
					t = r.resolveType(c)
				}
			}
			if q := n.ancestor("query_expression"); q != nil {
				r.register(q, types.NewRangeVariable(id.Text(), t))
			}
		}
	}
}

// localSpace returns the block-like node that holds locals declared at n.
func (r *Resolver) localSpace(n *Node) *Node {
	if s := n.ancestor(localSpaces...); s != nil {
		return s
	}
	return r.file.Root
}

// resolveTypeOf resolves the type a declaration carries, or an error type
// when it carries none.
func (r *Resolver) resolveTypeOf(n *Node) types.Type {
	if tc := n.typeChild(); tc != nil {
		return r.resolveType(tc)
	}
	return types.NewError("?")
}
