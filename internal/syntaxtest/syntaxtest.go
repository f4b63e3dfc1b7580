// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package syntaxtest builds small in-memory syntax trees for tests of
// code that consumes types.Node.
package syntaxtest

import (
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Node is a hand-built syntax node.
type Node struct {
	kind     types.NodeKind
	typ      string
	text     string
	names    []string
	parent   *Node
	children []*Node
}

// New returns a node with the given children and links their parents.
// When text is empty the node's text is its children's text joined by
// spaces.
func New(kind types.NodeKind, typ, text string, children ...*Node) *Node {
	n := &Node{kind: kind, typ: typ, text: text, children: children}
	for _, c := range children {
		c.parent = n
	}
	return n
}

// Decl returns a declaration node introducing names.
func Decl(typ string, names []string, children ...*Node) *Node {
	n := New(types.KindDeclaration, typ, "", children...)
	n.names = names
	return n
}

// Type returns a type syntax leaf.
func Type(text string) *Node { return New(types.KindTypeSyntax, "type", text) }

// Lit returns a literal leaf.
func Lit(text string) *Node { return New(types.KindLiteral, "literal", text) }

// Other returns a non-reference node.
func Other(typ string, children ...*Node) *Node {
	return New(types.KindOther, typ, "", children...)
}

func (n *Node) Kind() types.NodeKind { return n.kind }
func (n *Node) Type() string         { return n.typ }
func (n *Node) Span() types.Span     { return types.Span{} }

// DeclaredNames implements types.Declarator.
func (n *Node) DeclaredNames() []string { return n.names }

// Parent returns nil at the root.
func (n *Node) Parent() types.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []types.Node {
	out := make([]types.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) Text() string {
	if n.text != "" {
		return n.text
	}
	parts := make([]string, 0, len(n.children))
	for _, c := range n.children {
		parts = append(parts, c.Text())
	}
	return strings.Join(parts, " ")
}

// Resolver answers lookups from fixed tables keyed by node.
type Resolver struct {
	Declared map[types.Node]types.Symbol
	Typed    map[types.Node]types.Type
	Err      error
	Calls    int
}

func (r *Resolver) DeclaredSymbol(n types.Node) (types.Symbol, error) {
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Declared[n], nil
}

func (r *Resolver) ExpressionType(n types.Node) (types.Type, error) {
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Typed[n], nil
}
