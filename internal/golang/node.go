// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package golang

import (
	"fmt"
	"go/ast"
	gotypes "go/types"
	"strconv"
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Node adapts a go/ast node to types.Node. Comments are not part of the
// tree.
type Node struct {
	ast      ast.Node
	typ      string
	kind     types.NodeKind
	span     types.Span
	parent   *Node
	children []*Node
	nodes    []types.Node
	file     *File
}

func (n *Node) Kind() types.NodeKind   { return n.kind }
func (n *Node) Type() string           { return n.typ }
func (n *Node) Children() []types.Node { return n.nodes }
func (n *Node) Span() types.Span       { return n.span }

// AST returns the wrapped syntax node.
func (n *Node) AST() ast.Node { return n.ast }

// Parent returns nil at the file.
func (n *Node) Parent() types.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Text() string {
	fset := n.file.pkg.Fset
	start, end := fset.Position(n.ast.Pos()).Offset, fset.Position(n.ast.End()).Offset
	if start < 0 || end > len(n.file.Source) || start > end {
		return ""
	}
	return string(n.file.Source[start:end])
}

func (n *Node) String() string {
	return fmt.Sprintf("%s %q at %s", n.typ, strings.TrimSpace(n.Text()), n.span)
}

// PrintsText reports whether n declares or assigns locals, or is an
// expression statement.
func (n *Node) PrintsText() bool {
	switch n.ast.(type) {
	case *ast.AssignStmt, *ast.DeclStmt, *ast.ExprStmt, *ast.IncDecStmt, *ast.SendStmt:
		return true
	}
	return false
}

// DeclaredNames returns the names a declaration introduces.
func (n *Node) DeclaredNames() []string {
	switch d := n.ast.(type) {
	case *ast.FuncDecl:
		return []string{d.Name.Name}
	case *ast.TypeSpec:
		return []string{d.Name.Name}
	case *ast.ValueSpec:
		return identNames(d.Names)
	case *ast.ImportSpec:
		if d.Name != nil {
			return []string{d.Name.Name}
		}
		if p, err := strconv.Unquote(d.Path.Value); err == nil {
			return []string{p}
		}
		return nil
	case *ast.Field:
		if len(d.Names) == 0 {
			if t := n.file.index[d.Type]; t != nil {
				return []string{t.Text()}
			}
			return nil
		}
		return identNames(d.Names)
	case *ast.GenDecl:
		var names []string
		for _, c := range n.children {
			names = append(names, c.DeclaredNames()...)
		}
		return names
	}
	return nil
}

func identNames(ids []*ast.Ident) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name
	}
	return out
}

// build converts the subtree at an into Nodes.
func (f *File) build(an ast.Node, parent *Node) *Node {
	fset := f.pkg.Fset
	start, end := fset.Position(an.Pos()), fset.Position(an.End())
	n := &Node{
		ast:    an,
		typ:    strings.TrimPrefix(fmt.Sprintf("%T", an), "*ast."),
		parent: parent,
		file:   f,
		span: types.Span{
			Start: types.Pos{Line: start.Line, Column: start.Column},
			End:   types.Pos{Line: end.Line, Column: end.Column},
		},
	}
	n.kind = f.classify(an, parent)
	f.index[an] = n
	for _, c := range directChildren(an) {
		child := f.build(c, n)
		n.children = append(n.children, child)
		n.nodes = append(n.nodes, child)
	}
	return n
}

// directChildren lists the immediate children of an, skipping comments.
func directChildren(an ast.Node) []ast.Node {
	var out []ast.Node
	ast.Inspect(an, func(c ast.Node) bool {
		if c == nil || c == an {
			return c == an
		}
		switch c.(type) {
		case *ast.CommentGroup, *ast.Comment:
		default:
			out = append(out, c)
		}
		return false
	})
	return out
}

// classify maps a go/ast node onto the engine's node kinds using the
// type checker's view of it.
func (f *File) classify(an ast.Node, parent *Node) types.NodeKind {
	info := f.pkg.Info
	switch x := an.(type) {
	case *ast.File:
		return types.KindCompilationUnit
	case *ast.FuncDecl, *ast.GenDecl, *ast.TypeSpec, *ast.ValueSpec, *ast.ImportSpec:
		return types.KindDeclaration
	case *ast.Field:
		// struct fields and interface methods are declarations; parameters
		// are not
		if parent != nil && parent.parent != nil {
			switch parent.parent.ast.(type) {
			case *ast.StructType, *ast.InterfaceType:
				return types.KindDeclaration
			}
		}
		return types.KindOther
	case ast.Stmt:
		return types.KindStatement
	case *ast.Ident:
		if _, ok := info.Defs[x]; ok {
			return types.KindOther
		}
		return types.KindTypeSyntax
	case *ast.SelectorExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if _, ok := info.Uses[id].(*gotypes.PkgName); ok {
				return types.KindTypeSyntax
			}
		}
		return types.KindOther
	case *ast.BasicLit:
		if parent != nil {
			switch p := parent.ast.(type) {
			case *ast.ImportSpec:
				return types.KindTypeSyntax
			case *ast.Field:
				if p.Tag == x {
					return types.KindOther
				}
			}
		}
		return types.KindLiteral
	case *ast.FuncType:
		if parent == nil {
			return types.KindOther
		}
		switch parent.ast.(type) {
		case *ast.FuncDecl, *ast.FuncLit:
			return types.KindOther
		case *ast.Field:
			// an interface method's signature
			if list := parent.parent; list != nil && list.parent != nil {
				if _, ok := list.parent.ast.(*ast.InterfaceType); ok {
					return types.KindOther
				}
			}
		}
		return types.KindTypeSyntax
	case *ast.StarExpr, *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.IndexExpr, *ast.IndexListExpr:
		if tv, ok := info.Types[x.(ast.Expr)]; ok && tv.IsType() {
			return types.KindTypeSyntax
		}
		return types.KindOther
	default:
		return types.KindOther
	}
}
