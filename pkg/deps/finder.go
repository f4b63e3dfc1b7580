// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package deps extracts the named entities a syntax tree depends on.
//
// Analyze walks a tree, finds every reference-bearing node, and resolves
// each through a Resolver. EntityTypeSet and SimpleTypes then reduce the
// resolved entities to the flat list of named types they depend on.
// Everything here is synchronous and free of shared state; trees and
// resolvers may be used from many goroutines at once.
package deps

import (
	"errors"
	"iter"

	"github.com/petar-djukic/go-deps/internal/walk"
	"github.com/petar-djukic/go-deps/pkg/types"
)

var (
	// ErrInvalidArgument is returned for a nil root or resolver.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedNode is returned when a node that is not
	// reference-bearing is handed to Resolve.
	ErrUnsupportedNode = errors.New("unsupported node")

	// ErrUnsupportedSymbol is returned by EntityTypeSet for entity kinds
	// it has no rule for.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
)

// IsReference reports whether n is reference-bearing: type syntax other
// than an omitted type argument, a literal, or an interpolated string.
func IsReference(n types.Node) bool {
	switch k := n.Kind(); {
	case k == types.KindOmittedTypeArgument:
		return false
	case k.IsTypeSyntax(), k.IsLiteral(), k == types.KindInterpolation:
		return true
	default:
		return false
	}
}

// descends reports whether the finder continues below n. Argument lists
// and interpolations are references that can contain further references.
func descends(n types.Node) bool {
	switch n.Kind() {
	case types.KindArgList, types.KindInterpolation:
		return true
	default:
		return !IsReference(n)
	}
}

// FindReferences yields every reference under root in pre-order. The root
// itself is never yielded. A ref-type wrapper yields the type it wraps in
// its place. Duplicates are kept.
func FindReferences(root types.Node) iter.Seq[types.Node] {
	return func(yield func(types.Node) bool) {
		for n := range walk.Preorder(root, descends) {
			if !IsReference(n) {
				continue
			}
			if n.Kind() == types.KindRefType {
				target := refTarget(n)
				if target == nil {
					continue
				}
				if !yield(target) {
					return
				}
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// refTarget returns the type syntax a ref-type wrapper annotates.
func refTarget(n types.Node) types.Node {
	for _, c := range n.Children() {
		if c.Kind().IsTypeSyntax() {
			return c
		}
	}
	return nil
}
