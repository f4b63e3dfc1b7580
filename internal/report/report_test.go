// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/internal/syntaxtest"
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

var (
	intType = types.NewNamed("int", nil, types.ValueType())
	listDef = types.NewNamed("List", []*types.TypeParam{types.NewTypeParam("T", 0)})
)

func analyze(t *testing.T, root types.Node, r *syntaxtest.Resolver) *deps.Analysis {
	t.Helper()
	a, err := deps.Analyze(root, r)
	require.NoError(t, err)
	return a
}

func TestText_FieldDeclaration(t *testing.T) {
	typeNode := syntaxtest.Type("List<int>?")
	root := syntaxtest.New(types.KindCompilationUnit, "compilation_unit", "",
		syntaxtest.Decl("class_declaration", []string{"C"},
			syntaxtest.Decl("field_declaration", []string{"Items"},
				syntaxtest.Other("variable_declaration", typeNode))))
	listInt, err := listDef.Construct(intType)
	require.NoError(t, err)
	r := &syntaxtest.Resolver{Declared: map[types.Node]types.Symbol{
		typeNode: types.NewField("Items", listInt.WithNullable()),
	}}

	want := "Dependencies analysis:\n" +
		"| - compilation_unit\n" +
		"    | - class_declaration: C\n" +
		"        | - field_declaration: Items\n" +
		"            | * List<int>? (Field)\n"
	assert.Equal(t, want, Text(root, analyze(t, root, r)))
}

func TestText_SiblingsAndStatements(t *testing.T) {
	x := syntaxtest.Type("x")
	one := syntaxtest.Lit("1")
	null := syntaxtest.Lit("null")
	stmt := syntaxtest.New(types.KindStatement, "local_declaration_statement", "var y = 1;",
		syntaxtest.Other("variable_declaration", one))
	root := syntaxtest.New(types.KindCompilationUnit, "compilation_unit", "",
		syntaxtest.Decl("class_declaration", []string{"A"}, x),
		syntaxtest.Decl("method_declaration", []string{"B"},
			syntaxtest.New(types.KindStatement, "block", "", stmt),
			null))
	r := &syntaxtest.Resolver{
		Declared: map[types.Node]types.Symbol{x: types.NewLocal("x", intType)},
		Typed:    map[types.Node]types.Type{one: intType},
	}

	want := "Dependencies analysis:\n" +
		"| - compilation_unit\n" +
		"    | - class_declaration: A\n" +
		"    |   | * x (Local)\n" +
		"    | - method_declaration: B\n" +
		"        | * null\n" +
		"        | - block\n" +
		"            | - local_declaration_statement\n" +
		"                | # var y = 1;\n" +
		"                | * 1 (NamedType)\n"
	assert.Equal(t, want, Text(root, analyze(t, root, r)))
}

func TestScopes_EveryReferenceOnce(t *testing.T) {
	a1 := syntaxtest.Lit("1")
	a2 := syntaxtest.Lit("2")
	a3 := syntaxtest.Lit("3")
	inner := syntaxtest.New(types.KindStatement, "expression_statement", "f(2);", syntaxtest.Other("call", a2))
	root := syntaxtest.Other("fragment", a1, syntaxtest.Other("wrapper", inner), a3)

	tree := Scopes(root, analyze(t, root, &syntaxtest.Resolver{}))

	var count func(s *Scope) int
	count = func(s *Scope) int {
		n := len(s.References)
		for _, c := range s.Children {
			n += count(c)
		}
		return n
	}
	assert.Equal(t, 3, count(tree))
	require.Len(t, tree.Children, 1)
	assert.Same(t, inner, tree.Children[0].Node)
	assert.Len(t, tree.References, 2)
	assert.Same(t, a2, tree.Children[0].References[0].Node)
}

func TestScopeOf(t *testing.T) {
	lit := syntaxtest.Lit("1")
	decl := syntaxtest.Decl("field_declaration", []string{"F"}, syntaxtest.Other("expr", lit))
	root := syntaxtest.New(types.KindCompilationUnit, "unit", "", decl)

	assert.Same(t, decl, ScopeOf(lit, root))
	assert.Same(t, root, ScopeOf(decl, root))
}

func TestJSON(t *testing.T) {
	typeNode := syntaxtest.Type("List<int>")
	root := syntaxtest.New(types.KindCompilationUnit, "compilation_unit", "",
		syntaxtest.Decl("field_declaration", []string{"Items"}, typeNode))
	listInt, err := listDef.Construct(intType)
	require.NoError(t, err)
	r := &syntaxtest.Resolver{Declared: map[types.Node]types.Symbol{typeNode: listInt}}

	data, err := JSON(root, analyze(t, root, r), true)
	require.NoError(t, err)

	var got ScopeJSON
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "compilation_unit", got.Kind)
	require.Len(t, got.Scopes, 1)
	assert.Equal(t, []string{"Items"}, got.Scopes[0].Names)
	require.Len(t, got.Scopes[0].References, 1)
	ref := got.Scopes[0].References[0]
	assert.Equal(t, "NamedType", ref.Kind)
	assert.Equal(t, []string{"List<>", "List<T>", "int"}, ref.Types)
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.Title("T")
	b.Section("a", func() {
		b.Item("plain")
		b.Section("b", nil)
	})
	b.Item("top")
	b.Text("one\ntwo\n")

	want := "T\n" +
		"| - a\n" +
		"|   | * plain\n" +
		"|   | - b\n" +
		"| * top\n" +
		"| # one\n" +
		"| # two\n"
	assert.Equal(t, want, b.String())
}
