// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Reference pairs a reference-bearing node with the entity it resolved
// to. Symbol is nil when the resolver had no answer.
type Reference struct {
	Node   types.Node
	Symbol types.Symbol
}

func (r Reference) String() string {
	if r.Symbol == nil {
		return r.Node.Text()
	}
	return fmt.Sprintf("%s (%s)", r.Node.Text(), r.Symbol.Kind())
}

// Analysis is the ordered result of analyzing one subtree.
type Analysis struct {
	refs []Reference
}

// Analyze finds every reference under root and resolves it. References
// keep pre-order discovery order, duplicates included. Resolver errors
// abort the analysis.
func Analyze(root types.Node, r Resolver) (*Analysis, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidArgument)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: nil resolver", ErrInvalidArgument)
	}
	a := &Analysis{}
	for n := range FindReferences(root) {
		sym, err := Resolve(n, r)
		if err != nil {
			return nil, err
		}
		a.refs = append(a.refs, Reference{Node: n, Symbol: sym})
	}
	return a, nil
}

// References returns a copy of the references in discovery order.
func (a *Analysis) References() []Reference {
	return append([]Reference(nil), a.refs...)
}

// Len returns the number of references.
func (a *Analysis) Len() int { return len(a.refs) }

// Equal reports whether a and b hold the same references (same nodes,
// same entities) in the same order.
func (a *Analysis) Equal(b *Analysis) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.refs) != len(b.refs) {
		return false
	}
	for i := range a.refs {
		if a.refs[i].Node != b.refs[i].Node || !SameSymbol(a.refs[i].Symbol, b.refs[i].Symbol) {
			return false
		}
	}
	return true
}

// SameSymbol reports whether x and y denote the same entity. Resolvers may
// build a fresh symbol per query, so types compare with types.Identical,
// constructed methods by definition and arguments, and other entities by
// kind, name, and type set.
func SameSymbol(x, y types.Symbol) bool {
	if x == nil || y == nil {
		return x == y
	}
	if x == y {
		return true
	}
	if x.Kind() != y.Kind() || x.Name() != y.Name() {
		return false
	}
	switch xs := x.(type) {
	case types.Type:
		ys, ok := y.(types.Type)
		return ok && types.Identical(xs, ys)
	case *types.Method:
		ym, ok := y.(*types.Method)
		if !ok {
			return false
		}
		if xs.Origin() == ym.Origin() {
			return sameTypes(xs.TypeArguments(), ym.TypeArguments())
		}
		return sameTypes(methodTypes(xs), methodTypes(ym))
	}
	xt, xerr := EntityTypeSet(x)
	yt, yerr := EntityTypeSet(y)
	return xerr == nil && yerr == nil && sameTypes(xt, yt)
}

func sameTypes(a, b []types.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !types.Identical(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (a *Analysis) String() string {
	var b strings.Builder
	for i, r := range a.refs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.String())
	}
	return b.String()
}
