// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package csharp is the C# front-end: it parses source with tree-sitter,
// adapts the syntax tree to types.Node, and resolves references against a
// declaration table built from the file.
package csharp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// ErrParse is returned when tree-sitter produces no tree.
var ErrParse = errors.New("parse failed")

// fieldNames are the grammar fields recorded on child nodes.
var fieldNames = []string{
	"name", "type", "returns", "left", "right", "function", "arguments",
	"expression", "qualifier", "value", "body", "alias",
}

// File is a parsed C# source file.
type File struct {
	Path   string
	Source []byte
	Root   *Node
	// HasErrors reports syntax errors; the tree is still usable.
	HasErrors bool
}

// Parse parses src with the tree-sitter C# grammar.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	root, err := sitter.ParseCtx(ctx, src, csharp.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s: no tree", ErrParse, path)
	}
	f := &File{Path: path, Source: src, HasErrors: root.HasError()}
	f.Root = f.convert(root, nil, "", false, false)
	return f, nil
}

// Node adapts a tree-sitter node. Only named nodes are kept.
type Node struct {
	typ      string
	kind     types.NodeKind
	field    string
	start    uint32
	end      uint32
	span     types.Span
	parent   *Node
	children []*Node
	nodes    []types.Node
	file     *File
}

type childKey struct {
	start, end uint32
	typ        string
}

func keyOf(n *sitter.Node) childKey {
	return childKey{start: n.StartByte(), end: n.EndByte(), typ: n.Type()}
}

// convert adapts sn and its named descendants. Inert nodes are directive
// operands: they stay in the tree as KindOther and are never references.
func (f *File) convert(sn *sitter.Node, parent *Node, field string, declaring, inert bool) *Node {
	count := int(sn.NamedChildCount())
	n := &Node{
		typ:    sn.Type(),
		field:  field,
		start:  sn.StartByte(),
		end:    sn.EndByte(),
		parent: parent,
		file:   f,
		span: types.Span{
			Start: types.Pos{Line: int(sn.StartPoint().Row) + 1, Column: int(sn.StartPoint().Column) + 1},
			End:   types.Pos{Line: int(sn.EndPoint().Row) + 1, Column: int(sn.EndPoint().Column) + 1},
		},
	}
	n.kind = types.KindOther
	if !inert {
		n.kind = classify(n.typ, declaring, count)
	}

	fields := make(map[childKey]string)
	for _, name := range fieldNames {
		if c := sn.ChildByFieldName(name); c != nil {
			if _, seen := fields[keyOf(c)]; !seen {
				fields[keyOf(c)] = name
			}
		}
	}
	named := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := sn.NamedChild(i); c != nil {
			named = append(named, c)
		}
	}
	decl := f.declaringIndex(n.typ, named, fields)
	var condition *sitter.Node
	directive := strings.HasPrefix(n.typ, "preproc_")
	if directive {
		condition = sn.ChildByFieldName("condition")
	}
	for i, c := range named {
		operand := directive && (directiveOperand(c.Type()) || condition != nil && keyOf(c) == keyOf(condition))
		child := f.convert(c, n, fields[keyOf(c)], i == decl, inert || operand)
		n.children = append(n.children, child)
		n.nodes = append(n.nodes, child)
	}
	return n
}

// directiveOperand reports whether a child of a preprocessor directive is
// part of the directive line, such as a warning code or a symbol, rather
// than code the directive encloses.
func directiveOperand(typ string) bool {
	switch typ {
	case "identifier", "preproc_arg", "binary_expression", "prefix_unary_expression",
		"parenthesized_expression":
		return true
	}
	return strings.HasSuffix(typ, "_literal")
}

// declaringIndex returns the index of the child identifier that a node of
// type typ declares, or -1.
func (f *File) declaringIndex(typ string, named []*sitter.Node, fields map[childKey]string) int {
	if typ == "using_directive" {
		// using Alias = Target;
		if len(named) >= 2 && named[0].Type() == "identifier" &&
			strings.Contains(string(f.Source[named[0].EndByte():named[1].StartByte()]), "=") {
			return 0
		}
		return -1
	}
	if typ == "lambda_expression" {
		// x => ...
		if len(named) > 0 && named[0].Type() == "identifier" {
			return 0
		}
		return -1
	}
	if !nameOwners[typ] {
		return -1
	}
	want := "name"
	if typ == "foreach_statement" {
		want = "left"
	}
	for i, c := range named {
		if fields[keyOf(c)] == want && c.Type() == "identifier" {
			return i
		}
	}

	switch typ {
	case "parameter", "catch_declaration", "tuple_element", "foreach_statement":
		// The name is the first identifier after the type. An untyped
		// lambda parameter has the name alone.
		typeAt := -1
		for i, c := range named {
			if typeAt < 0 && typeSyntaxTypes[c.Type()] {
				typeAt = i
				continue
			}
			if typeAt >= 0 && c.Type() == "identifier" {
				return i
			}
		}
		if typ == "parameter" && typeAt >= 0 && named[typeAt].Type() == "identifier" {
			return typeAt
		}
		return -1
	case "enum_member_declaration", "variable_declarator", "type_parameter", "labeled_statement",
		"name_equals", "single_variable_designation", "from_clause", "let_clause", "join_clause",
		"query_continuation":
		for i, c := range named {
			if c.Type() == "identifier" {
				return i
			}
		}
		return -1
	default:
		// Type and member declarations: the last identifier before the
		// parameter, type parameter, accessor, base, or body part.
		last := -1
		for i, c := range named {
			if stopsName[c.Type()] {
				break
			}
			if c.Type() == "identifier" {
				last = i
			}
		}
		return last
	}
}

var stopsName = map[string]bool{
	"parameter_list":                    true,
	"bracketed_parameter_list":          true,
	"type_parameter_list":               true,
	"accessor_list":                     true,
	"base_list":                         true,
	"declaration_list":                  true,
	"enum_member_declaration_list":      true,
	"arrow_expression_clause":           true,
	"block":                             true,
	"equals_value_clause":               true,
	"type_parameter_constraints_clause": true,
}

func (n *Node) Kind() types.NodeKind   { return n.kind }
func (n *Node) Type() string           { return n.typ }
func (n *Node) Children() []types.Node { return n.nodes }
func (n *Node) Span() types.Span       { return n.span }
func (n *Node) Text() string           { return string(n.file.Source[n.start:n.end]) }

// Parent returns nil at the compilation unit.
func (n *Node) Parent() types.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

// Field is the grammar field this node fills in its parent, if any.
func (n *Node) Field() string { return n.field }

// PrintsText reports whether n is a local declaration, local function, or
// expression statement.
func (n *Node) PrintsText() bool { return textStatements[n.typ] }

// DeclaredNames returns the names a declaration introduces.
func (n *Node) DeclaredNames() []string {
	if n.kind != types.KindDeclaration {
		return nil
	}
	switch n.typ {
	case "field_declaration", "event_field_declaration":
		var names []string
		if vd := n.child("variable_declaration"); vd != nil {
			for _, d := range vd.childrenOf("variable_declarator") {
				if id := d.declaredIdent(); id != nil {
					names = append(names, id.Text())
				}
			}
		}
		return names
	case "namespace_declaration", "file_scoped_namespace_declaration":
		if name := n.byField("name"); name != nil {
			return []string{name.Text()}
		}
		for _, c := range n.children {
			if c.kind == types.KindTypeSyntax {
				return []string{c.Text()}
			}
		}
		return nil
	case "indexer_declaration":
		return []string{"this[]"}
	default:
		if id := n.declaredIdent(); id != nil {
			return []string{id.Text()}
		}
		return nil
	}
}

// declaredIdent returns the identifier child that n declares.
func (n *Node) declaredIdent() *Node {
	for _, c := range n.children {
		if c.typ == "identifier" && c.kind == types.KindOther {
			return c
		}
	}
	return nil
}

func (n *Node) child(typ string) *Node {
	for _, c := range n.children {
		if c.typ == typ {
			return c
		}
	}
	return nil
}

func (n *Node) childrenOf(typ string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.typ == typ {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) byField(field string) *Node {
	for _, c := range n.children {
		if c.field == field {
			return c
		}
	}
	return nil
}

// typeChild returns the type syntax that n's declaration carries: the
// grammar's type field when present, else the first type syntax child.
func (n *Node) typeChild() *Node {
	for _, f := range []string{"type", "returns"} {
		if c := n.byField(f); c != nil && c.kind.IsTypeSyntax() {
			return c
		}
	}
	for _, c := range n.children {
		if c.kind.IsTypeSyntax() {
			return c
		}
	}
	return nil
}

// ancestor returns the nearest strict ancestor of one of the given types.
func (n *Node) ancestor(typs ...string) *Node {
	for p := n.parent; p != nil; p = p.parent {
		for _, t := range typs {
			if p.typ == t {
				return p
			}
		}
	}
	return nil
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q at %s", n.typ, strings.TrimSpace(n.Text()), n.span)
}

// ScopeAt returns the innermost declaration or statement enclosing the
// 1-based line and column, or the compilation unit when none does.
func (f *File) ScopeAt(line, col int) (*Node, error) {
	p := types.Pos{Line: line, Column: col}
	if !f.Root.span.Contains(p) {
		return nil, fmt.Errorf("%w: position %d:%d outside %s", deps.ErrInvalidArgument, line, col, f.Path)
	}
	scope, n := f.Root, f.Root
	for {
		var next *Node
		for _, c := range n.children {
			if c.span.Contains(p) {
				next = c
				break
			}
		}
		if next == nil {
			return scope, nil
		}
		if next.kind.IsScope() {
			scope = next
		}
		n = next
	}
}
