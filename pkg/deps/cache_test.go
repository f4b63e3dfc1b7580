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

func TestCachingResolver_Memoizes(t *testing.T) {
	n := syntaxtest.Type("x")
	lit := syntaxtest.Lit("1")
	inner := &syntaxtest.Resolver{
		Declared: map[types.Node]types.Symbol{n: types.NewLocal("x", intType)},
		Typed:    map[types.Node]types.Type{lit: intType},
	}
	c, err := NewCachingResolver(inner, 16)
	require.NoError(t, err)

	for range 3 {
		sym, err := c.DeclaredSymbol(n)
		require.NoError(t, err)
		assert.Equal(t, "x", sym.Name())
		typ, err := c.ExpressionType(lit)
		require.NoError(t, err)
		assert.Same(t, intType, typ)
	}
	assert.Equal(t, 2, inner.Calls)
	assert.Equal(t, 2, c.Len())

	c.Purge()
	assert.Zero(t, c.Len())
}

func TestCachingResolver_DoesNotCacheErrors(t *testing.T) {
	inner := &syntaxtest.Resolver{Err: errors.New("boom")}
	c, err := NewCachingResolver(inner, 0)
	require.NoError(t, err)

	n := syntaxtest.Type("x")
	_, err = c.DeclaredSymbol(n)
	require.Error(t, err)
	_, err = c.DeclaredSymbol(n)
	require.Error(t, err)
	assert.Equal(t, 2, inner.Calls)
}

func TestCachingResolver_AnalyzeMatchesUncached(t *testing.T) {
	root, _, r, _ := classFixture(t)
	c, err := NewCachingResolver(r, 4)
	require.NoError(t, err)

	plain, err := Analyze(root, r)
	require.NoError(t, err)
	cached, err := Analyze(root, c)
	require.NoError(t, err)
	assert.True(t, plain.Equal(cached))
}

func TestNewCachingResolver_NilResolver(t *testing.T) {
	_, err := NewCachingResolver(nil, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
