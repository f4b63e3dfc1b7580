// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-deps/internal/syntaxtest"
	"github.com/petar-djukic/go-deps/pkg/types"
)

func found(root types.Node) []string {
	var out []string
	for n := range FindReferences(root) {
		out = append(out, n.Text())
	}
	return out
}

func TestFindReferences(t *testing.T) {
	tests := []struct {
		name string
		root types.Node
		want []string
	}{
		{
			name: "literals and types in pre-order",
			root: syntaxtest.Other("root",
				syntaxtest.Other("call", syntaxtest.Type("Console"), syntaxtest.Lit(`"hi"`)),
				syntaxtest.Lit("1")),
			want: []string{"Console", `"hi"`, "1"},
		},
		{
			name: "type syntax stops descent",
			root: syntaxtest.Other("root",
				syntaxtest.New(types.KindTypeSyntax, "generic_name", "List<int>", syntaxtest.Type("int"))),
			want: []string{"List<int>"},
		},
		{
			name: "argument list is yielded and searched",
			root: syntaxtest.Other("root",
				syntaxtest.New(types.KindArgList, "arglist", "__arglist(1)", syntaxtest.Lit("1"))),
			want: []string{"__arglist(1)", "1"},
		},
		{
			name: "interpolation is yielded and searched",
			root: syntaxtest.Other("root",
				syntaxtest.New(types.KindInterpolation, "interpolated", `$"{x}"`,
					syntaxtest.Other("hole", syntaxtest.Type("x")))),
			want: []string{`$"{x}"`, "x"},
		},
		{
			name: "nested interpolation",
			root: syntaxtest.Other("root",
				syntaxtest.New(types.KindInterpolation, "interpolated", `$"{$"{y}"}"`,
					syntaxtest.New(types.KindInterpolation, "interpolated", `$"{y}"`, syntaxtest.Type("y")))),
			want: []string{`$"{$"{y}"}"`, `$"{y}"`, "y"},
		},
		{
			name: "ref type yields the wrapped type",
			root: syntaxtest.Other("root",
				syntaxtest.New(types.KindRefType, "ref_type", "ref int", syntaxtest.Type("int"))),
			want: []string{"int"},
		},
		{
			name: "omitted type argument is not a reference",
			root: syntaxtest.Other("root", syntaxtest.New(types.KindOmittedTypeArgument, "omitted", "<>")),
			want: nil,
		},
		{
			name: "duplicates are kept",
			root: syntaxtest.Other("root", syntaxtest.Type("x"), syntaxtest.Type("x")),
			want: []string{"x", "x"},
		},
		{
			name: "root is searched but not yielded",
			root: syntaxtest.New(types.KindTypeSyntax, "t", "outer", syntaxtest.Type("inner")),
			want: []string{"inner"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, found(tt.root))
		})
	}
}

func TestFindReferences_RefTypeIsNotDescended(t *testing.T) {
	inner := syntaxtest.New(types.KindTypeSyntax, "generic_name", "List<int>", syntaxtest.Type("int"))
	root := syntaxtest.Other("root", syntaxtest.New(types.KindRefType, "ref_type", "ref List<int>", inner))

	var got []types.Node
	for n := range FindReferences(root) {
		got = append(got, n)
	}
	assert.Equal(t, []types.Node{inner}, got)
}

func TestFindReferences_IsRestartable(t *testing.T) {
	root := syntaxtest.Other("root", syntaxtest.Lit("1"), syntaxtest.Type("int"))
	seq := FindReferences(root)

	var first, second []string
	for n := range seq {
		first = append(first, n.Text())
	}
	for n := range seq {
		second = append(second, n.Text())
	}
	assert.Equal(t, first, second)
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		kind types.NodeKind
		want bool
	}{
		{types.KindTypeSyntax, true},
		{types.KindRefType, true},
		{types.KindOmittedTypeArgument, false},
		{types.KindLiteral, true},
		{types.KindArgList, true},
		{types.KindInterpolation, true},
		{types.KindStatement, false},
		{types.KindDeclaration, false},
		{types.KindOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsReference(syntaxtest.New(tt.kind, "n", "n")))
		})
	}
}
