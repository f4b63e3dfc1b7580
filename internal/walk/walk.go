// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package walk provides the pre-order tree traversal shared by the
// reference finder and the scope reporter.
package walk

import (
	"iter"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Preorder yields the strict descendants of root in pre-order. descend is
// consulted for every yielded node and reports whether the walk continues
// into that node's children. The root itself is never yielded and always
// descended. A nil descend descends everywhere.
//
// The walk uses an explicit stack, so tree depth is not bounded by the
// goroutine stack.
func Preorder(root types.Node, descend func(types.Node) bool) iter.Seq[types.Node] {
	return func(yield func(types.Node) bool) {
		if root == nil {
			return
		}
		stack := pushChildren(nil, root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			if descend == nil || descend(n) {
				stack = pushChildren(stack, n)
			}
		}
	}
}

// pushChildren pushes n's children in reverse so the first child is
// popped first.
func pushChildren(stack []types.Node, n types.Node) []types.Node {
	children := n.Children()
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, children[i])
	}
	return stack
}

// Nearest returns the nearest strict ancestor of n that satisfies match,
// stopping at (and returning) bound if it is reached first. It returns nil
// when neither is found.
func Nearest(n types.Node, bound types.Node, match func(types.Node) bool) types.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == bound || match(p) {
			return p
		}
	}
	return nil
}
