// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// maxBaseDepth bounds the walk up a type's bases.
const maxBaseDepth = 16

// Resolver answers deps.Resolver queries for the nodes of one file. It is
// built once by NewResolver and never written afterwards, so a single
// Resolver may serve concurrent analyses.
type Resolver struct {
	file       *File
	spaces     map[*Node]map[string][]types.Symbol
	typeDecls  map[*Node]*typeDecl
	byNamed    map[*types.Named]*typeDecl
	global     map[string][]*typeDecl
	order      []*typeDecl
	namespaces map[string]*types.Namespace
	aliases    map[string]types.Symbol
	methods    map[*Node]*types.Method
}

var _ deps.Resolver = (*Resolver)(nil)

// NewResolver binds the declarations of f.
func NewResolver(f *File) (*Resolver, error) {
	if f == nil || f.Root == nil {
		return nil, fmt.Errorf("%w: nil file", deps.ErrInvalidArgument)
	}
	r := &Resolver{
		file:       f,
		spaces:     make(map[*Node]map[string][]types.Symbol),
		typeDecls:  make(map[*Node]*typeDecl),
		byNamed:    make(map[*types.Named]*typeDecl),
		global:     make(map[string][]*typeDecl),
		namespaces: make(map[string]*types.Namespace),
		aliases:    make(map[string]types.Symbol),
		methods:    make(map[*Node]*types.Method),
	}
	r.collectTypes(f.Root, "")
	r.bindUsings(f.Root)
	r.bindMembers()
	r.bindBodies(f.Root)
	return r, nil
}

// DeclaredSymbol returns the entity a name or type syntax denotes.
func (r *Resolver) DeclaredSymbol(n types.Node) (types.Symbol, error) {
	cn, err := r.own(n)
	if err != nil {
		return nil, err
	}
	return r.symbolOf(cn), nil
}

// ExpressionType returns the static type of an expression or type syntax.
func (r *Resolver) ExpressionType(n types.Node) (types.Type, error) {
	cn, err := r.own(n)
	if err != nil {
		return nil, err
	}
	return r.exprType(cn), nil
}

func (r *Resolver) own(n types.Node) (*Node, error) {
	cn, ok := n.(*Node)
	if !ok || cn == nil || cn.file != r.file {
		return nil, fmt.Errorf("%w: node does not belong to %s", deps.ErrInvalidArgument, r.file.Path)
	}
	return cn, nil
}

func (r *Resolver) symbolOf(n *Node) types.Symbol {
	switch n.typ {
	case "identifier", "generic_name", "qualified_name", "alias_qualified_name":
		return r.nameSymbol(n, r.typeContext(n))
	case "predefined_type", "nullable_type", "array_type", "pointer_type",
		"function_pointer_type", "tuple_type", "implicit_type", "void_keyword", "ref_type":
		return r.resolveType(n)
	}
	return nil
}

// typeOnlyParents hold nothing but types among their named children.
var typeOnlyParents = map[string]bool{
	"type_argument_list":           true,
	"base_list":                    true,
	"nullable_type":                true,
	"array_type":                   true,
	"pointer_type":                 true,
	"ref_type":                     true,
	"typeof_expression":            true,
	"type_parameter_constraint":    true,
	"type_constraint":              true,
	"function_pointer_parameter":   true,
	"tuple_element":                true,
	"explicit_interface_specifier": true,
}

// typedParents carry a type among other children.
var typedParents = map[string]bool{
	"variable_declaration":       true,
	"parameter":                  true,
	"local_function_statement":   true,
	"method_declaration":         true,
	"property_declaration":       true,
	"delegate_declaration":       true,
	"event_declaration":          true,
	"indexer_declaration":        true,
	"operator_declaration":       true,
	"catch_declaration":          true,
	"foreach_statement":          true,
	"declaration_expression":     true,
	"declaration_pattern":        true,
	"object_creation_expression": true,
	"array_creation_expression":  true,
	"cast_expression":            true,
	"default_expression":         true,
	"sizeof_expression":          true,
	"stackalloc_expression":      true,
}

// typeContext reports whether n stands where only a type may appear.
func (r *Resolver) typeContext(n *Node) bool {
	p := n.parent
	if p == nil {
		return false
	}
	if n.field == "type" || n.field == "returns" || typeOnlyParents[p.typ] {
		return true
	}
	return typedParents[p.typ] && p.typeChild() == n
}

// simpleName splits a simple name into its identifier, its explicit type
// arguments, and its arity. Omitted arguments, as in typeof(List<>), give
// an arity with no arguments.
func (r *Resolver) simpleName(n *Node) (name string, args []types.Type, arity int) {
	if n.typ != "generic_name" {
		return n.Text(), nil, 0
	}
	if id := n.child("identifier"); id != nil {
		name = id.Text()
	}
	list := n.child("type_argument_list")
	if list == nil {
		return name, nil, 0
	}
	for _, c := range list.children {
		args = append(args, r.resolveType(c))
	}
	if len(args) == 0 {
		return name, nil, strings.Count(list.Text(), ",") + 1
	}
	return name, args, len(args)
}

// nameSymbol resolves a simple, qualified, or member name.
func (r *Resolver) nameSymbol(n *Node, typesOnly bool) types.Symbol {
	simple, recv, global := n, (*Node)(nil), false
	switch n.typ {
	case "qualified_name":
		if len(n.children) < 2 {
			return nil
		}
		recv, simple = n.children[0], n.children[len(n.children)-1]
	case "alias_qualified_name":
		if len(n.children) < 2 {
			return nil
		}
		simple = n.children[len(n.children)-1]
		if n.children[0].Text() == "global" {
			global = true
		} else {
			recv = n.children[0]
		}
	default:
		recv = memberReceiver(n)
	}
	name, args, arity := r.simpleName(simple)
	attribute := n.parent != nil && n.parent.typ == "attribute"
	if attribute {
		typesOnly = true
	}

	find := func(name string) []types.Symbol {
		var cands []types.Symbol
		switch {
		case global:
			cands = r.globalLookup(name, arity)
		case recv != nil:
			cands = r.members(r.receiver(recv), name, arity)
		default:
			cands = r.lookup(n, name, arity)
		}
		if typesOnly {
			cands = onlyTypes(cands)
		}
		return cands
	}
	cands := find(name)
	if attribute && len(cands) == 0 {
		// [Obsolete] names ObsoleteAttribute.
		cands = find(name + "Attribute")
	}
	if sym := r.pick(n, cands, args, arity); sym != nil {
		return sym
	}
	if typesOnly {
		if name == "var" && recv == nil {
			return r.implicitType(n)
		}
		return types.NewError(simple.Text())
	}
	if name == "_" && recv == nil {
		return r.discard(n)
	}
	return nil
}

// discard types an undeclared _ assigned to, as in _ = F(), with the
// assigned value. Any other undeclared _ stays unresolved.
func (r *Resolver) discard(n *Node) types.Symbol {
	p := n.parent
	if p == nil || p.typ != "assignment_expression" || n.field != "left" {
		return nil
	}
	right := p.byField("right")
	if right == nil {
		return nil
	}
	return types.NewDiscard(r.exprType(right))
}

// memberReceiver returns the expression whose member n names, if any.
func memberReceiver(n *Node) *Node {
	p := n.parent
	if p == nil || len(p.children) == 0 || p.children[len(p.children)-1] != n {
		return nil
	}
	switch p.typ {
	case "member_access_expression":
		if len(p.children) > 1 {
			return p.children[0]
		}
	case "member_binding_expression":
		if c := p.parent; c != nil && c.typ == "conditional_access_expression" && len(c.children) > 0 {
			return c.children[0]
		}
	}
	return nil
}

func onlyTypes(syms []types.Symbol) []types.Symbol {
	var out []types.Symbol
	for _, s := range syms {
		if s.Kind().IsType() {
			out = append(out, s)
		}
	}
	return out
}

func matchArity(s types.Symbol, arity int) bool {
	switch s := s.(type) {
	case *types.Named:
		return len(s.TypeParams()) == arity
	case *types.Method:
		return arity == 0 || len(s.TypeParameters()) == arity
	default:
		return arity == 0
	}
}

func withArity(syms []types.Symbol, arity int) []types.Symbol {
	var out []types.Symbol
	for _, s := range syms {
		if matchArity(s, arity) {
			out = append(out, s)
		}
	}
	return out
}

// lookup searches the declaration spaces enclosing from, then inherited
// members, using aliases, the file's types, and the framework.
func (r *Resolver) lookup(from *Node, name string, arity int) []types.Symbol {
	for s := from; s != nil; s = s.parent {
		if syms := withArity(r.spaces[s][name], arity); len(syms) > 0 {
			return syms
		}
		if td := r.typeDecls[s]; td != nil {
			if syms := r.inherited(td, name, arity, 0); len(syms) > 0 {
				return syms
			}
		}
	}
	if a, ok := r.aliases[name]; ok && arity == 0 {
		return []types.Symbol{a}
	}
	return r.globalLookup(name, arity)
}

func (r *Resolver) globalLookup(name string, arity int) []types.Symbol {
	var out []types.Symbol
	for _, td := range r.global[name] {
		if matchArity(td.named, arity) {
			out = append(out, td.named)
		}
	}
	for _, t := range builtins.named[name] {
		if matchArity(t, arity) {
			out = append(out, t)
		}
	}
	if len(out) > 0 || arity > 0 {
		return out
	}
	if name == "dynamic" {
		return []types.Symbol{types.DynamicType}
	}
	if ns, ok := r.namespaces[name]; ok {
		return []types.Symbol{ns}
	}
	if ns, ok := builtins.namespaces[name]; ok {
		return []types.Symbol{ns}
	}
	return nil
}

// receiver resolves the left side of a member access to the namespace or
// type whose members are searched.
func (r *Resolver) receiver(recv *Node) types.Symbol {
	target := recv
	if recv.typ == "member_access_expression" && len(recv.children) > 1 {
		target = recv.children[len(recv.children)-1]
	}
	switch target.typ {
	case "identifier", "generic_name", "qualified_name", "alias_qualified_name", "predefined_type":
		switch s := r.symbolOf(target).(type) {
		case nil, *types.Method:
			return nil
		case *types.Namespace:
			return s
		case types.Type:
			return s
		default:
			return asSymbol(valueType(s))
		}
	}
	return asSymbol(r.exprType(recv))
}

func asSymbol(t types.Type) types.Symbol {
	if t == nil {
		return nil
	}
	return t
}

// valueType returns the type of a variable-like entity.
func valueType(s types.Symbol) types.Type {
	switch s := s.(type) {
	case types.Type:
		return s
	case *types.Field:
		return s.Type()
	case *types.Property:
		return s.Type()
	case *types.Event:
		return s.Type()
	case *types.Local:
		return s.Type()
	case *types.Parameter:
		return s.Type()
	case *types.RangeVariable:
		return s.Type()
	case *types.Discard:
		return s.Type()
	default:
		return nil
	}
}

// members returns the members of a namespace or type named name.
func (r *Resolver) members(recv types.Symbol, name string, arity int) []types.Symbol {
	switch v := recv.(type) {
	case *types.Namespace:
		var out []types.Symbol
		for _, td := range r.global[name] {
			if td.named.Namespace() == v.Name() && matchArity(td.named, arity) {
				out = append(out, td.named)
			}
		}
		if t := builtins.inNamespace(v.Name(), name, arity); t != nil {
			out = append(out, t)
		}
		if len(out) == 0 && arity == 0 {
			full := v.Name() + "." + name
			if ns, ok := r.namespaces[full]; ok {
				out = append(out, ns)
			} else if ns, ok := builtins.namespaces[full]; ok {
				out = append(out, ns)
			}
		}
		return out
	case *types.Named:
		return r.typeMembers(v, name, arity, 0)
	case *types.Array:
		return r.typeMembers(builtins.lookupOne("Array", 0), name, arity, 0)
	case *types.TypeParam:
		for _, c := range v.Constraints() {
			if cn, ok := c.(*types.Named); ok {
				if out := r.typeMembers(cn, name, arity, 0); len(out) > 0 {
					return out
				}
			}
		}
		return r.typeMembers(builtins.object, name, arity, 0)
	default:
		return nil
	}
}

// typeMembers returns the members of t named name, searching bases when t
// declares none. Members of constructed types are substituted.
func (r *Resolver) typeMembers(t *types.Named, name string, arity, depth int) []types.Symbol {
	if t == nil || depth > maxBaseDepth {
		return nil
	}
	def := t.WithoutNullable().Origin()
	var out []types.Symbol
	if td := r.byNamed[def]; td != nil {
		for _, s := range r.spaces[td.node][name] {
			if _, ok := s.(*types.TypeParam); ok || !matchArity(s, arity) {
				continue
			}
			if _, ok := s.(*types.Parameter); ok {
				continue
			}
			out = append(out, substituteMember(s, t))
		}
		if len(out) == 0 {
			out = r.baseMembers(td, t, name, arity, depth)
		}
	} else {
		for _, s := range builtins.members[def][name] {
			if matchArity(s, arity) {
				out = append(out, substituteMember(s, t))
			}
		}
	}
	if len(out) == 0 && def != builtins.object {
		out = withArity(builtins.members[builtins.object][name], arity)
	}
	return out
}

func (r *Resolver) baseMembers(td *typeDecl, t *types.Named, name string, arity, depth int) []types.Symbol {
	for _, b := range td.bases {
		bn, ok := types.Substitute(b, td.named, t.TypeArgs()).(*types.Named)
		if !ok {
			continue
		}
		if out := r.typeMembers(bn, name, arity, depth+1); len(out) > 0 {
			return out
		}
	}
	return nil
}

// inherited returns the members td inherits under name.
func (r *Resolver) inherited(td *typeDecl, name string, arity, depth int) []types.Symbol {
	return r.baseMembers(td, td.named, name, arity, depth)
}

// substituteMember types a member of a constructed type. Generic methods
// are returned as declared.
func substituteMember(s types.Symbol, t *types.Named) types.Symbol {
	if !t.IsConstructed() {
		return s
	}
	def, args := t.Origin(), t.TypeArgs()
	sub := func(x types.Type) types.Type { return types.Substitute(x, def, args) }
	subParams := func(ps []*types.Parameter) []*types.Parameter {
		out := make([]*types.Parameter, len(ps))
		for i, p := range ps {
			out[i] = types.NewParameter(p.Name(), sub(p.Type()))
		}
		return out
	}
	switch v := s.(type) {
	case *types.Field:
		return types.NewField(v.Name(), sub(v.Type()))
	case *types.Property:
		return types.NewProperty(v.Name(), sub(v.Type()), subParams(v.Parameters())...)
	case *types.Event:
		return types.NewEvent(v.Name(), sub(v.Type()))
	case *types.Method:
		if len(v.TypeParameters()) > 0 {
			return v
		}
		return types.NewMethod(v.Name(), nil, subParams(v.Parameters()), sub(v.Result()))
	default:
		return s
	}
}

// pick chooses among candidates: by argument count when n is invoked,
// then constructing generic definitions with the explicit arguments.
func (r *Resolver) pick(n *Node, cands []types.Symbol, args []types.Type, arity int) types.Symbol {
	if len(cands) == 0 {
		return nil
	}
	sym := cands[0]
	var callArgs []*Node
	if inv := invocationOf(n); inv != nil {
		callArgs = arguments(inv)
		for _, c := range cands {
			if m, ok := c.(*types.Method); ok && len(m.Parameters()) == len(callArgs) {
				sym = c
				break
			}
		}
	}
	switch s := sym.(type) {
	case *types.Named:
		if !s.IsDefinition() {
			return s
		}
		if len(args) == 0 && arity > 0 {
			return s.Unbound()
		}
		if c, err := s.Construct(args...); err == nil {
			return c
		}
		return s
	case *types.Method:
		if len(s.TypeParameters()) == 0 {
			return s
		}
		if len(args) == 0 {
			args = r.infer(s, callArgs)
		}
		if c, err := s.Construct(args...); err == nil {
			return c
		}
		return s
	default:
		return sym
	}
}

// invocationOf returns the invocation whose callee n names.
func invocationOf(n *Node) *Node {
	callee := n
	if memberReceiver(n) != nil {
		callee = n.parent
	}
	p := callee.parent
	if p != nil && p.typ == "invocation_expression" && len(p.children) > 0 && p.children[0] == callee {
		return p
	}
	return nil
}

// arguments returns the argument expressions of an invocation.
func arguments(inv *Node) []*Node {
	list := inv.child("argument_list")
	if list == nil {
		return nil
	}
	var out []*Node
	for _, a := range list.childrenOf("argument") {
		if len(a.children) > 0 {
			out = append(out, a.children[len(a.children)-1])
		}
	}
	return out
}

// infer derives method type arguments from argument types. It returns nil
// when some type parameter stays unknown.
func (r *Resolver) infer(m *types.Method, callArgs []*Node) []types.Type {
	if len(callArgs) != len(m.Parameters()) {
		return nil
	}
	bound := make(map[*types.TypeParam]types.Type)
	for i, p := range m.Parameters() {
		unify(p.Type(), r.exprType(callArgs[i]), bound)
	}
	out := make([]types.Type, len(m.TypeParameters()))
	for i, tp := range m.TypeParameters() {
		t, ok := bound[tp]
		if !ok {
			return nil
		}
		out[i] = t
	}
	return out
}

func unify(param, arg types.Type, bound map[*types.TypeParam]types.Type) {
	if param == nil || arg == nil {
		return
	}
	switch p := param.(type) {
	case *types.TypeParam:
		if _, ok := bound[p]; !ok {
			bound[p] = arg
		}
	case *types.Array:
		if a, ok := arg.(*types.Array); ok {
			unify(p.Elem(), a.Elem(), bound)
		}
	case *types.Named:
		a, ok := arg.(*types.Named)
		if !ok || !p.IsConstructed() || !a.IsConstructed() || p.Origin() != a.Origin() {
			return
		}
		for i, pa := range p.TypeArgs() {
			unify(pa, a.TypeArgs()[i], bound)
		}
	}
}

// enclosingType returns the declaration of the type containing n.
func (r *Resolver) enclosingType(n *Node) *typeDecl {
	for p := n.parent; p != nil; p = p.parent {
		if td := r.typeDecls[p]; td != nil {
			return td
		}
	}
	return nil
}
