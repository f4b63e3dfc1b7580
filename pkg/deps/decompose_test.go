// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/pkg/types"
)

func TestSimpleTypes(t *testing.T) {
	nullableInt := construct(t, nullableDef, intType)
	tests := []struct {
		name string
		typ  types.Type
		want []string
	}{
		{"named", objectType, []string{"object"}},
		{"array", types.NewArray(objectType, 1), []string{"object"}},
		{"unbound generic", listDef.Unbound(), []string{"List<>"}},
		{"unbound two-parameter generic", dictDef.Unbound(), []string{"Dictionary<,>"}},
		{"generic definition", listDef, []string{"List<>", "List<T>", "T"}},
		{"two-parameter definition", dictDef, []string{"Dictionary<,>", "Dictionary<TKey, TValue>", "TKey", "TValue"}},
		{"annotated definition", listDef.WithNullable(), []string{"List<>", "List<T>", "T"}},
		{
			"constructed generic",
			construct(t, listDef, types.NewArray(nullableInt, 1)),
			[]string{"List<>", "List<T>", "Nullable<>", "Nullable<T>", "int"},
		},
		{"pointer", types.NewPointer(intType), []string{"int"}},
		{"pointer array", types.NewArray(types.NewPointer(intType), 1), []string{"int"}},
		{
			"function pointer",
			types.NewFuncPointer([]types.Type{intType}, []types.Type{intType}),
			[]string{"int", "int"},
		},
		{"type parameter", listDef.TypeParams()[0], []string{"T"}},
		{"dynamic", types.DynamicType, []string{"dynamic"}},
		{"error type", types.NewError("Missing"), []string{"Missing"}},
		{"opaque", types.NewOpaque("struct{}"), []string{"struct{}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(SimpleTypes(tt.typ)))
		})
	}
}

func TestSimpleTypes_ConstructedIdentity(t *testing.T) {
	got := SimpleTypes(construct(t, listDef, intType))
	require.Len(t, got, 3)
	assert.Same(t, listDef.Unbound(), got[0])
	assert.Same(t, listDef, got[1])
	assert.Same(t, intType, got[2])
	assert.NotSame(t, got[0], got[1])
}

func TestSimpleTypes_NestedGenericsTerminate(t *testing.T) {
	inner := construct(t, listDef, intType)
	middle := construct(t, listDef, inner)
	outer := construct(t, listDef, middle)

	got := SimpleTypes(outer)
	assert.Equal(t, []string{"List<>", "List<T>", "List<>", "List<T>", "List<>", "List<T>", "int"}, names(got))
	assert.Equal(t, []string{"List<>", "List<T>", "int"}, names(types.Distinct(got)))
}

func TestSimpleTypes_NullableReferenceKeepsIdentity(t *testing.T) {
	annotated := construct(t, listDef, intType).WithNullable()
	assert.Equal(t, "List<int>?", annotated.String())
	assert.Equal(t, []string{"List<>", "List<T>", "int"}, names(SimpleTypes(annotated)))
}

func TestSimpleTypes_DefinitionIdentity(t *testing.T) {
	got := SimpleTypes(listDef)
	require.Len(t, got, 3)
	assert.Same(t, listDef.Unbound(), got[0])
	assert.Same(t, listDef, got[1])
	assert.Same(t, listDef.TypeParams()[0], got[2])
}

func TestSimpleTypes_Nil(t *testing.T) {
	assert.Empty(t, SimpleTypes(nil))
}

func TestEntityTypeSet(t *testing.T) {
	listInt := construct(t, listDef, intType)
	tp := types.NewTypeParam("TItem", 0)
	genericMethod := types.NewMethod("Map",
		[]*types.TypeParam{tp},
		[]*types.Parameter{types.NewParameter("items", types.NewArray(tp, 1))},
		objectType)
	constructed, err := genericMethod.Construct(intType)
	require.NoError(t, err)

	tests := []struct {
		name string
		sym  types.Symbol
		want []string
	}{
		{"namespace", types.NewNamespace("System"), nil},
		{"label", types.NewLabel("done"), nil},
		{"range variable", types.NewRangeVariable("x", intType), nil},
		{"type", listInt, []string{"List<int>"}},
		{"field", types.NewField("Items", listInt), []string{"List<int>"}},
		{"parameter", types.NewParameter("p", intType), []string{"int"}},
		{"local", types.NewLocal("l", objectType), []string{"object"}},
		{"discard", types.NewDiscard(intType), []string{"int"}},
		{"untyped discard", types.NewDiscard(nil), nil},
		{"event", types.NewEvent("Changed", objectType), []string{"object"}},
		{"property", types.NewProperty("Count", intType), []string{"int"}},
		{
			"indexer",
			types.NewProperty("this[]", objectType, types.NewParameter("i", intType), types.NewParameter("s", types.StringType)),
			[]string{"object", "int", "string"},
		},
		{"method definition", genericMethod, []string{"TItem", "TItem[]", "object"}},
		{"constructed method", constructed, []string{"int", "int[]", "object"}},
		{"void method", types.NewMethod("Run", nil, nil, nil), nil},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EntityTypeSet(tt.sym)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}
}

// Type parameter constraints are deliberately not part of a method's type
// set, even when they name types nothing else in the signature mentions.
func TestEntityTypeSet_MethodConstraintsAreOmitted(t *testing.T) {
	icomparable := types.NewNamed("IComparable", nil)
	tp := types.NewTypeParam("T", 0, icomparable)
	m := types.NewMethod("Max", []*types.TypeParam{tp}, []*types.Parameter{types.NewParameter("a", tp)}, tp)

	got, err := EntityTypeSet(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"T", "T", "T"}, names(got))
	assert.NotContains(t, names(got), "IComparable")
}

func TestEntityTypeSet_AliasIsUnsupported(t *testing.T) {
	_, err := EntityTypeSet(types.NewAlias("Str", types.StringType))
	assert.ErrorIs(t, err, ErrUnsupportedSymbol)
}

func TestReferenceTypes(t *testing.T) {
	field := types.NewField("Items", construct(t, listDef, intType).WithNullable())

	got, err := ReferenceTypes(Reference{Symbol: field})
	require.NoError(t, err)
	assert.Equal(t, []string{"List<>", "List<T>", "int"}, names(got))

	got, err = ReferenceTypes(Reference{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
