// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/internal/syntaxtest"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// classFixture builds the tree of
//
//	class C { public List<int>? Items; }
func classFixture(t *testing.T) (root, typeNode *syntaxtest.Node, r *syntaxtest.Resolver, field *types.Field) {
	t.Helper()
	typeNode = syntaxtest.New(types.KindTypeSyntax, "nullable_type", "List<int>?",
		syntaxtest.New(types.KindTypeSyntax, "generic_name", "List<int>", syntaxtest.Type("int")))
	root = syntaxtest.New(types.KindCompilationUnit, "compilation_unit", "",
		syntaxtest.Decl("class_declaration", []string{"C"},
			syntaxtest.Decl("field_declaration", []string{"Items"},
				syntaxtest.Other("variable_declaration", typeNode))))

	field = types.NewField("Items", construct(t, listDef, intType).WithNullable())
	r = &syntaxtest.Resolver{Declared: map[types.Node]types.Symbol{typeNode: field}}
	return root, typeNode, r, field
}

func TestAnalyze_FieldDeclaration(t *testing.T) {
	root, typeNode, r, field := classFixture(t)

	a, err := Analyze(root, r)
	require.NoError(t, err)
	refs := a.References()
	require.Len(t, refs, 1)
	assert.Same(t, typeNode, refs[0].Node)
	assert.Same(t, field, refs[0].Symbol)
	assert.Equal(t, "List<int>? (Field)", refs[0].String())

	simple, err := ReferenceTypes(refs[0])
	require.NoError(t, err)
	assert.Equal(t, []string{"List<>", "List<T>", "int"}, names(simple))
}

func TestAnalyze_IsIdempotent(t *testing.T) {
	root, _, r, _ := classFixture(t)

	first, err := Analyze(root, r)
	require.NoError(t, err)
	second, err := Analyze(root, r)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.String(), second.String())
}

func TestAnalyze_KeepsOrderAndDuplicates(t *testing.T) {
	x1 := syntaxtest.Type("x")
	lit := syntaxtest.Lit("1")
	x2 := syntaxtest.Type("x")
	root := syntaxtest.Other("root", x1, syntaxtest.Other("expr", lit), x2)
	local := types.NewLocal("x", intType)
	r := &syntaxtest.Resolver{
		Declared: map[types.Node]types.Symbol{x1: local, x2: local},
		Typed:    map[types.Node]types.Type{lit: intType},
	}

	a, err := Analyze(root, r)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
	assert.Equal(t, "x (Local)\n1 (NamedType)\nx (Local)", a.String())
}

func TestAnalyze_UnresolvedReference(t *testing.T) {
	root := syntaxtest.Other("root", syntaxtest.Lit("null"))

	a, err := Analyze(root, &syntaxtest.Resolver{})
	require.NoError(t, err)
	require.Equal(t, 1, a.Len())
	assert.Nil(t, a.References()[0].Symbol)
	assert.Equal(t, "null", a.References()[0].String())
}

func TestAnalyze_InvalidArguments(t *testing.T) {
	_, err := Analyze(nil, &syntaxtest.Resolver{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = Analyze(syntaxtest.Other("root"), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAnalyze_ResolverErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	root := syntaxtest.Other("root", syntaxtest.Type("x"))

	a, err := Analyze(root, &syntaxtest.Resolver{Err: boom})
	assert.Nil(t, a)
	assert.ErrorIs(t, err, boom)
}

func TestAnalysis_ReferencesIsACopy(t *testing.T) {
	root, _, r, _ := classFixture(t)
	a, err := Analyze(root, r)
	require.NoError(t, err)

	refs := a.References()
	refs[0].Symbol = nil
	assert.NotNil(t, a.References()[0].Symbol)
}

func TestAnalysis_Equal(t *testing.T) {
	root, _, r, _ := classFixture(t)
	a, err := Analyze(root, r)
	require.NoError(t, err)
	other, err := Analyze(syntaxtest.Other("root"), r)
	require.NoError(t, err)

	assert.False(t, a.Equal(other))
	assert.False(t, a.Equal(nil))
	assert.True(t, (*Analysis)(nil).Equal(nil))
}

func TestSameSymbol(t *testing.T) {
	listInt := construct(t, listDef, intType)
	tp := types.NewTypeParam("U", 0)
	echo := types.NewMethod("Echo", []*types.TypeParam{tp}, []*types.Parameter{types.NewParameter("u", tp)}, tp)
	echoInt, err := echo.Construct(intType)
	require.NoError(t, err)
	echoIntAgain, err := echo.Construct(intType)
	require.NoError(t, err)
	echoObject, err := echo.Construct(objectType)
	require.NoError(t, err)

	tests := []struct {
		name string
		x, y types.Symbol
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", types.NewLocal("x", intType), nil, false},
		{"rebuilt constructed type", listInt, construct(t, listDef, intType), true},
		{"different arguments", listInt, construct(t, listDef, objectType), false},
		{"rebuilt field", types.NewField("F", listInt), types.NewField("F", construct(t, listDef, intType)), true},
		{"field of another type", types.NewField("F", intType), types.NewField("F", objectType), false},
		{"local and parameter", types.NewLocal("x", intType), types.NewParameter("x", intType), false},
		{"constructed method", echoInt, echoIntAgain, true},
		{"method arguments differ", echoInt, echoObject, false},
		{"rebuilt method", types.NewMethod("M", nil, nil, intType), types.NewMethod("M", nil, nil, intType), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameSymbol(tt.x, tt.y))
		})
	}
}
