// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package golang

import (
	"fmt"
	"go/ast"
	"go/token"
	gotypes "go/types"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// Resolver answers deps.Resolver queries for one file from the type
// checker's records. It is safe for concurrent use.
type Resolver struct {
	file *File
	info *gotypes.Info
	conv *converter
}

var _ deps.Resolver = (*Resolver)(nil)

// NewResolver returns a resolver for f.
func NewResolver(f *File) (*Resolver, error) {
	if f == nil || f.Root == nil {
		return nil, fmt.Errorf("%w: nil file", deps.ErrInvalidArgument)
	}
	r := &Resolver{file: f, info: f.pkg.Info, conv: newConverter()}
	ast.Inspect(f.AST, func(n ast.Node) bool {
		switch fn := n.(type) {
		case *ast.FuncDecl:
			r.conv.markParams(r.info, fn.Type, fn.Recv)
		case *ast.FuncLit:
			r.conv.markParams(r.info, fn.Type, nil)
		}
		return true
	})
	return r, nil
}

func (r *Resolver) own(n types.Node) (*Node, error) {
	gn, ok := n.(*Node)
	if !ok || gn == nil || gn.file != r.file {
		return nil, fmt.Errorf("%w: node does not belong to %s", deps.ErrInvalidArgument, r.file.Path)
	}
	return gn, nil
}

// DeclaredSymbol returns the entity an identifier, qualified identifier,
// import path, or type expression denotes.
func (r *Resolver) DeclaredSymbol(n types.Node) (types.Symbol, error) {
	gn, err := r.own(n)
	if err != nil {
		return nil, err
	}
	switch x := gn.ast.(type) {
	case *ast.Ident:
		return r.ident(x), nil
	case *ast.SelectorExpr:
		return r.ident(x.Sel), nil
	case *ast.BasicLit:
		if spec, ok := gn.parent.ast.(*ast.ImportSpec); ok {
			return r.importPath(spec), nil
		}
		return nil, nil
	case ast.Expr:
		if tv, ok := r.info.Types[x]; ok && tv.IsType() {
			return symbol(r.conv.Type(tv.Type)), nil
		}
	}
	return nil, nil
}

// ExpressionType returns the type the checker recorded for an expression.
// Untyped constants take their default type.
func (r *Resolver) ExpressionType(n types.Node) (types.Type, error) {
	gn, err := r.own(n)
	if err != nil {
		return nil, err
	}
	expr, ok := gn.ast.(ast.Expr)
	if !ok {
		return nil, nil
	}
	if tv, ok := r.info.Types[astutil.Unparen(expr)]; ok {
		return r.conv.Type(tv.Type), nil
	}
	return nil, nil
}

func (r *Resolver) ident(id *ast.Ident) types.Symbol {
	if obj := r.info.Uses[id]; obj != nil {
		if fn, ok := obj.(*gotypes.Func); ok {
			if inst, ok := r.info.Instances[id]; ok {
				return r.conv.Instance(fn, inst.TypeArgs)
			}
		}
		return r.conv.Object(obj)
	}
	if obj := r.info.Defs[id]; obj != nil {
		return r.conv.Object(obj)
	}
	if id.Name == "_" {
		return types.NewDiscard(nil)
	}
	return nil
}

func (r *Resolver) importPath(spec *ast.ImportSpec) types.Symbol {
	var obj gotypes.Object
	if spec.Name != nil {
		obj = r.info.Defs[spec.Name]
	} else {
		obj = r.info.Implicits[spec]
	}
	if obj != nil {
		return r.conv.Object(obj)
	}
	path, err := strconv.Unquote(spec.Path.Value)
	if err != nil {
		return nil
	}
	return types.NewNamespace(path)
}

func symbol(t types.Type) types.Symbol {
	if t == nil {
		return nil
	}
	return t
}

// ScopeAt returns the innermost declaration or statement enclosing the
// 1-based line and column, or the file when none does.
func (f *File) ScopeAt(line, col int) (*Node, error) {
	tf := f.pkg.Fset.File(f.AST.Pos())
	if tf == nil || line < 1 || line > tf.LineCount() || col < 1 {
		return nil, fmt.Errorf("%w: position %d:%d outside %s", deps.ErrInvalidArgument, line, col, f.Path)
	}
	pos := tf.LineStart(line) + token.Pos(col-1)
	path, _ := astutil.PathEnclosingInterval(f.AST, pos, pos)
	for _, an := range path {
		if n := f.index[an]; n != nil && n.kind.IsScope() {
			return n, nil
		}
	}
	return f.Root, nil
}
