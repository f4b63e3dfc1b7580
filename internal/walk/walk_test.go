// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-deps/internal/syntaxtest"
	"github.com/petar-djukic/go-deps/pkg/types"
)

func texts(seq func(func(types.Node) bool)) []string {
	var out []string
	for n := range seq {
		out = append(out, n.Text())
	}
	return out
}

func TestPreorder_VisitsDescendantsInOrder(t *testing.T) {
	a := syntaxtest.Lit("a")
	b := syntaxtest.Lit("b")
	c := syntaxtest.Lit("c")
	root := syntaxtest.Other("root", syntaxtest.Other("x", a, b), c)

	got := texts(Preorder(root, nil))
	assert.Equal(t, []string{"a b", "a", "b", "c"}, got)
}

func TestPreorder_StopsAtPrunedNodes(t *testing.T) {
	inner := syntaxtest.Lit("inner")
	pruned := syntaxtest.New(types.KindTypeSyntax, "t", "pruned", inner)
	root := syntaxtest.Other("root", pruned, syntaxtest.Lit("after"))

	got := texts(Preorder(root, func(n types.Node) bool { return n.Kind() != types.KindTypeSyntax }))
	assert.Equal(t, []string{"pruned", "after"}, got)
}

func TestPreorder_RootIsNotYielded(t *testing.T) {
	root := syntaxtest.Type("root")
	assert.Empty(t, texts(Preorder(root, func(types.Node) bool { return false })))
}

func TestPreorder_EarlyBreak(t *testing.T) {
	root := syntaxtest.Other("root", syntaxtest.Lit("1"), syntaxtest.Lit("2"), syntaxtest.Lit("3"))
	var got []string
	for n := range Preorder(root, nil) {
		got = append(got, n.Text())
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"1", "2"}, got)
}

func TestPreorder_DeepTree(t *testing.T) {
	leaf := syntaxtest.Lit("leaf")
	n := leaf
	for range 100000 {
		n = syntaxtest.Other("wrap", n)
	}
	var last types.Node
	count := 0
	for m := range Preorder(n, nil) {
		last = m
		count++
	}
	assert.Equal(t, 100000, count)
	assert.Same(t, leaf, last)
}

func TestNearest(t *testing.T) {
	lit := syntaxtest.Lit("x")
	stmt := syntaxtest.New(types.KindStatement, "stmt", "", syntaxtest.Other("expr", lit))
	root := syntaxtest.New(types.KindCompilationUnit, "unit", "", stmt)

	isScope := func(n types.Node) bool { return n.Kind().IsScope() }
	assert.Same(t, stmt, Nearest(lit, root, isScope))
	assert.Same(t, root, Nearest(stmt, root, isScope))
	assert.Nil(t, Nearest(root, root, isScope))
}
