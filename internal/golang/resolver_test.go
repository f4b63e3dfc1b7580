// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package golang

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/internal/report"
	"github.com/petar-djukic/go-deps/internal/syntaxtest"
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

const shapesSrc = `package shapes

type Box[T any] struct {
	Value T
}

func (b *Box[T]) Get() T { return b.Value }

func Echo[T any](x T) T { return x }

var limit = 10

const ceiling = 3

func Use(items []int, m map[string]*Box[int]) int {
	total := 0
	for _, v := range items {
		total += v
	}
	b := m["k"]
	return total + b.Get() + Echo(1) + limit + ceiling
}

func Loop() {
outer:
	for {
		break outer
	}
}
`

func analyzeGo(t *testing.T, src string) (*File, *deps.Analysis) {
	t.Helper()
	f, err := ParseFile("shapes.go", []byte(src))
	require.NoError(t, err)
	require.NoError(t, f.Package().Err())
	r, err := NewResolver(f)
	require.NoError(t, err)
	a, err := deps.Analyze(f.Root, r)
	require.NoError(t, err)
	return f, a
}

// find returns the last reference whose node text is text.
func find(t *testing.T, a *deps.Analysis, text string) deps.Reference {
	t.Helper()
	var found *deps.Reference
	for _, ref := range a.References() {
		if ref.Node.Text() == text {
			found = &ref
		}
	}
	require.NotNil(t, found, "no reference %q", text)
	return *found
}

func TestAnalyze_GoSymbolKinds(t *testing.T) {
	_, a := analyzeGo(t, shapesSrc)

	tests := []struct {
		text string
		kind types.SymbolKind
	}{
		{"items", types.ParameterSymbol},
		{"m", types.ParameterSymbol},
		{"total", types.LocalSymbol},
		{"v", types.LocalSymbol},
		{"b", types.LocalSymbol},
		{"Value", types.FieldSymbol},
		{"Get", types.MethodSymbol},
		{"limit", types.FieldSymbol},
		{"ceiling", types.FieldSymbol},
		{"outer", types.LabelSymbol},
		{"any", types.OtherTypeSymbol},
		{"[]int", types.ArrayTypeSymbol},
		{`"k"`, types.NamedTypeSymbol},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ref := find(t, a, tt.text)
			require.NotNil(t, ref.Symbol)
			assert.Equal(t, tt.kind, ref.Symbol.Kind())
		})
	}
}

func TestAnalyze_GoReceiverIsParameter(t *testing.T) {
	_, a := analyzeGo(t, shapesSrc)
	var kinds []types.SymbolKind
	for _, ref := range a.References() {
		if ref.Node.Text() == "b" {
			kinds = append(kinds, ref.Symbol.Kind())
		}
	}
	// b.Value in Get, then b.Get() in Use
	assert.Equal(t, []types.SymbolKind{types.ParameterSymbol, types.LocalSymbol}, kinds)
}

func TestAnalyze_GoGenericInstance(t *testing.T) {
	_, a := analyzeGo(t, shapesSrc)

	echo, ok := find(t, a, "Echo").Symbol.(*types.Method)
	require.True(t, ok)
	assert.True(t, echo.IsConstructed())
	assert.Equal(t, "Echo<int>(int)", echo.String())

	one := find(t, a, "1")
	assert.Equal(t, "int", one.Symbol.String(), "untyped constants take their default type")
	assert.Same(t, types.StringType, find(t, a, `"k"`).Symbol)
}

func TestAnalyze_GoTypeDecomposition(t *testing.T) {
	_, a := analyzeGo(t, shapesSrc)

	ref := find(t, a, "map[string]*Box[int]")
	assert.Equal(t, "map<string, Box<int>*>", ref.Symbol.String())

	simple, err := deps.ReferenceTypes(ref)
	require.NoError(t, err)
	var got []string
	for _, s := range simple {
		got = append(got, s.String())
	}
	assert.Equal(t, []string{"map<,>", "map<K, V>", "string", "Box<>", "Box<T>", "int"}, got)
}

func TestAnalyze_GoNamedTypesAreShared(t *testing.T) {
	_, a := analyzeGo(t, `package p

type Box[T any] struct{ Value T }

var a Box[int]
var b Box[string]

func f() Box[int] { return a }
`)
	var boxes []*types.Named
	for _, ref := range a.References() {
		n, ok := ref.Symbol.(*types.Named)
		if ok && n.Name() == "Box" {
			boxes = append(boxes, n.Origin())
		}
	}
	require.Len(t, boxes, 3)
	for _, b := range boxes[1:] {
		assert.Same(t, boxes[0], b)
	}
	assert.Equal(t, "p", boxes[0].Namespace())
	assert.True(t, boxes[0].IsValueType(), "struct types are value types")
}

func TestAnalyze_GoMultipleResults(t *testing.T) {
	_, a := analyzeGo(t, `package p

func pair() (int, string) { return 0, "" }

func use() {
	n, s := pair()
	_, _ = n, s
}
`)
	m, ok := find(t, a, "pair").Symbol.(*types.Method)
	require.True(t, ok)
	require.NotNil(t, m.Result())
	assert.Equal(t, "tuple<int, string>", m.Result().String())
}

func TestAnalyze_GoTypeErrorsStillAnalyze(t *testing.T) {
	f, err := ParseFile("bad.go", []byte(`package p

func f() int { return undefined }
`))
	require.NoError(t, err)
	assert.ErrorIs(t, f.Package().Err(), ErrTypeCheck)

	r, err := NewResolver(f)
	require.NoError(t, err)
	a, err := deps.Analyze(f.Root, r)
	require.NoError(t, err)
	ref := find(t, a, "undefined")
	assert.Nil(t, ref.Symbol)
	assert.Equal(t, "undefined", ref.String())
}

func TestParseFile_SyntaxError(t *testing.T) {
	_, err := ParseFile("bad.go", []byte("package p\nfunc {"))
	assert.Error(t, err)
}

func TestResolver_InvalidArguments(t *testing.T) {
	_, err := NewResolver(nil)
	assert.ErrorIs(t, err, deps.ErrInvalidArgument)

	f, err := ParseFile("a.go", []byte("package p\n"))
	require.NoError(t, err)
	r, err := NewResolver(f)
	require.NoError(t, err)

	other, err := ParseFile("b.go", []byte("package q\n"))
	require.NoError(t, err)
	_, err = r.DeclaredSymbol(other.Root)
	assert.ErrorIs(t, err, deps.ErrInvalidArgument)
	_, err = r.ExpressionType(syntaxtest.Type("int"))
	assert.ErrorIs(t, err, deps.ErrInvalidArgument)
}

func TestResolver_ConcurrentAnalyses(t *testing.T) {
	f, err := ParseFile("shapes.go", []byte(shapesSrc))
	require.NoError(t, err)
	r, err := NewResolver(f)
	require.NoError(t, err)
	want, err := deps.Analyze(f.Root, r)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*deps.Analysis, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = deps.Analyze(f.Root, r)
		}()
	}
	wg.Wait()
	for _, got := range results {
		require.NotNil(t, got)
		assert.True(t, want.Equal(got))
	}
}

func TestFile_ScopeAt(t *testing.T) {
	f, err := ParseFile("shapes.go", []byte(shapesSrc))
	require.NoError(t, err)

	tests := []struct {
		name      string
		line, col int
		wantType  string
	}{
		{"inside loop body", 18, 3, "AssignStmt"},
		{"function name", 15, 6, "FuncDecl"},
		{"package clause", 1, 1, "File"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := f.ScopeAt(tt.line, tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, n.Type())
		})
	}

	_, err = f.ScopeAt(500, 1)
	assert.ErrorIs(t, err, deps.ErrInvalidArgument)
}

func TestNode_DeclaredNames(t *testing.T) {
	f, err := ParseFile("shapes.go", []byte(shapesSrc))
	require.NoError(t, err)

	var names [][]string
	for _, c := range f.Root.children {
		if c.Kind() == types.KindDeclaration {
			names = append(names, c.DeclaredNames())
		}
	}
	assert.Equal(t, [][]string{
		{"Box"}, {"Get"}, {"Echo"}, {"limit"}, {"ceiling"}, {"Use"}, {"Loop"},
	}, names)
}

func TestReport_GoScopes(t *testing.T) {
	f, a := analyzeGo(t, shapesSrc)
	text := report.Text(f.Root, a)
	assert.True(t, strings.HasPrefix(text, "Dependencies analysis:\n"))
	assert.Contains(t, text, "| - FuncDecl: Use")
	assert.Contains(t, text, "| # total += v")
	assert.Contains(t, text, `| # b := m["k"]`)
	assert.Contains(t, text, "| * v (Local)")
	assert.NotContains(t, text, "| # return", "return statements print no text")
}

func TestLoadPackage(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/m\n\ngo 1.22\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "m.go"), []byte("package m\n\nfunc Double(x int) int { return x * 2 }\n"), 0o644))

	pkgs, err := LoadPackage(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "example.com/m", pkgs[0].Path)
	require.Len(t, pkgs[0].Files, 1)

	f := pkgs[0].Files[0]
	r, err := NewResolver(f)
	require.NoError(t, err)
	a, err := deps.Analyze(f.Root, r)
	require.NoError(t, err)
	assert.Equal(t, types.ParameterSymbol, find(t, a, "x").Symbol.Kind())
}
