// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"strings"

	"github.com/petar-djukic/go-deps/internal/walk"
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// Scope is a compilation unit, declaration, or statement together with
// the references whose nearest enclosing scope it is.
type Scope struct {
	Node       types.Node
	References []deps.Reference
	Children   []*Scope
}

// Title is the section heading of the scope: its native node type,
// followed by the names it declares, if any.
func (s *Scope) Title() string {
	d, ok := s.Node.(types.Declarator)
	if !ok {
		return s.Node.Type()
	}
	names := d.DeclaredNames()
	if len(names) == 0 {
		return s.Node.Type()
	}
	return s.Node.Type() + ": " + strings.Join(names, ", ")
}

// IsLeaf reports whether s has no nested scopes.
func (s *Scope) IsLeaf() bool { return len(s.Children) == 0 }

func isScope(n types.Node) bool { return n.Kind().IsScope() }

// ScopeOf returns the nearest strict ancestor of n that is a scope node,
// bounded by root. It returns nil when n is root or outside root.
func ScopeOf(n, root types.Node) types.Node {
	return walk.Nearest(n, root, isScope)
}

// Scopes groups the references of a by scope. The returned tree is rooted
// at root, which acts as a scope whatever its kind, and lists nested
// scopes in source order. Every reference appears in exactly one scope.
func Scopes(root types.Node, a *deps.Analysis) *Scope {
	top := &Scope{Node: root}
	byNode := map[types.Node]*Scope{root: top}
	build(top, byNode)

	for _, ref := range a.References() {
		s := byNode[ScopeOf(ref.Node, root)]
		if s == nil {
			s = top
		}
		s.References = append(s.References, ref)
	}
	return top
}

// build attaches the scopes directly nested in s, looking through
// non-scope nodes in between.
func build(s *Scope, byNode map[types.Node]*Scope) {
	for n := range walk.Preorder(s.Node, func(n types.Node) bool { return !isScope(n) }) {
		if !isScope(n) {
			continue
		}
		child := &Scope{Node: n}
		byNode[n] = child
		s.Children = append(s.Children, child)
		build(child, byNode)
	}
}
