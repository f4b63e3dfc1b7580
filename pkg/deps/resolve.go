// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"fmt"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Resolver answers semantic questions about nodes of one tree. Both
// methods return a nil value and a nil error when there is no answer.
type Resolver interface {
	// DeclaredSymbol returns the entity a name or type syntax denotes.
	DeclaredSymbol(n types.Node) (types.Symbol, error)
	// ExpressionType returns the static type of an expression.
	ExpressionType(n types.Node) (types.Type, error)
}

// Resolve maps a reference node to the entity it denotes, or nil. Type
// syntax asks for the declared symbol first and falls back to the
// expression type. Interpolated strings are always the built-in string
// type. Resolver errors are returned as is.
func Resolve(n types.Node, r Resolver) (types.Symbol, error) {
	switch k := n.Kind(); {
	case k.IsTypeSyntax():
		sym, err := r.DeclaredSymbol(n)
		if err != nil {
			return nil, err
		}
		if sym != nil {
			return sym, nil
		}
		return expressionType(n, r)
	case k.IsLiteral():
		return expressionType(n, r)
	case k == types.KindInterpolation:
		return types.StringType, nil
	default:
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedNode, n.Type(), k)
	}
}

// expressionType keeps a nil type from becoming a non-nil Symbol.
func expressionType(n types.Node, r Resolver) (types.Symbol, error) {
	t, err := r.ExpressionType(n)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}
	return t, nil
}
