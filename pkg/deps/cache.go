// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// DefaultCacheSize is the number of nodes a caching resolver remembers
// per lookup kind when no size is given.
const DefaultCacheSize = 4096

// CachingResolver memoizes another Resolver per node. Errors are not
// cached. It is safe for concurrent use when the wrapped resolver is.
type CachingResolver struct {
	next     Resolver
	declared *lru.Cache[types.Node, types.Symbol]
	typed    *lru.Cache[types.Node, types.Type]
}

// NewCachingResolver wraps r with two LRU caches of the given size. A size
// of zero or less selects DefaultCacheSize.
func NewCachingResolver(r Resolver, size int) (*CachingResolver, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil resolver", ErrInvalidArgument)
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	declared, err := lru.New[types.Node, types.Symbol](size)
	if err != nil {
		return nil, fmt.Errorf("creating symbol cache: %w", err)
	}
	typed, err := lru.New[types.Node, types.Type](size)
	if err != nil {
		return nil, fmt.Errorf("creating type cache: %w", err)
	}
	return &CachingResolver{next: r, declared: declared, typed: typed}, nil
}

// DeclaredSymbol implements Resolver.
func (c *CachingResolver) DeclaredSymbol(n types.Node) (types.Symbol, error) {
	if sym, ok := c.declared.Get(n); ok {
		return sym, nil
	}
	sym, err := c.next.DeclaredSymbol(n)
	if err != nil {
		return nil, err
	}
	c.declared.Add(n, sym)
	return sym, nil
}

// ExpressionType implements Resolver.
func (c *CachingResolver) ExpressionType(n types.Node) (types.Type, error) {
	if t, ok := c.typed.Get(n); ok {
		return t, nil
	}
	t, err := c.next.ExpressionType(n)
	if err != nil {
		return nil, err
	}
	c.typed.Add(n, t)
	return t, nil
}

// Len returns the number of cached answers.
func (c *CachingResolver) Len() int { return c.declared.Len() + c.typed.Len() }

// Purge drops every cached answer.
func (c *CachingResolver) Purge() {
	c.declared.Purge()
	c.typed.Purge()
}
