// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package golang is the Go front-end: it parses and type-checks Go source,
// adapts go/ast to types.Node, and answers resolver queries from the type
// checker's records.
package golang

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	gotypes "go/types"
	"os"
	"sort"

	"golang.org/x/tools/go/packages"
)

// ErrTypeCheck classifies type errors. Files with type errors are still
// analyzed; unresolved names have no symbol.
var ErrTypeCheck = errors.New("type check failed")

// Package is a type-checked package and its files.
type Package struct {
	Path  string
	Fset  *token.FileSet
	Types *gotypes.Package
	Info  *gotypes.Info
	Files []*File
	// Errors holds the type errors reported while checking.
	Errors []error
}

// Err returns nil, or ErrTypeCheck wrapping the first type error.
func (p *Package) Err() error {
	if len(p.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v (and %d more)", ErrTypeCheck, p.Errors[0], len(p.Errors)-1)
}

// File is one Go source file of a checked package.
type File struct {
	Path   string
	Source []byte
	Root   *Node
	AST    *ast.File

	pkg   *Package
	index map[ast.Node]*Node
}

// Package returns the package the file was checked with.
func (f *File) Package() *Package { return f.pkg }

// NodeOf returns the Node wrapping an, or nil.
func (f *File) NodeOf(an ast.Node) *Node { return f.index[an] }

// Source is a file to check.
type Source struct {
	Path    string
	Content []byte
}

func newInfo() *gotypes.Info {
	return &gotypes.Info{
		Types:      make(map[ast.Expr]gotypes.TypeAndValue),
		Defs:       make(map[*ast.Ident]gotypes.Object),
		Uses:       make(map[*ast.Ident]gotypes.Object),
		Implicits:  make(map[ast.Node]gotypes.Object),
		Instances:  make(map[*ast.Ident]gotypes.Instance),
		Selections: make(map[*ast.SelectorExpr]*gotypes.Selection),
		Scopes:     make(map[ast.Node]*gotypes.Scope),
	}
}

// ParseFile parses and type-checks a single file.
func ParseFile(path string, src []byte) (*File, error) {
	pkg, err := ParseFiles([]Source{{Path: path, Content: src}})
	if err != nil {
		return nil, err
	}
	return pkg.Files[0], nil
}

// ParseFiles parses srcs and type-checks them together as one package.
// Imports are type-checked from source. Syntax errors fail the call; type
// errors are collected on the package.
func ParseFiles(srcs []Source) (*Package, error) {
	if len(srcs) == 0 {
		return nil, errors.New("no files")
	}
	fset := token.NewFileSet()
	var files []*ast.File
	for _, s := range srcs {
		af, err := parser.ParseFile(fset, s.Path, s.Content, parser.ParseComments|parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
		}
		files = append(files, af)
	}

	pkg := &Package{Fset: fset, Info: newInfo()}
	conf := gotypes.Config{
		Importer: importer.ForCompiler(fset, "source", nil),
		Error:    func(err error) { pkg.Errors = append(pkg.Errors, err) },
	}
	// With an Error handler Check keeps going; its error repeats the first one.
	tpkg, _ := conf.Check(files[0].Name.Name, fset, files, pkg.Info)
	pkg.Types = tpkg
	if tpkg != nil {
		pkg.Path = tpkg.Path()
	}
	for i, af := range files {
		pkg.Files = append(pkg.Files, pkg.newFile(srcs[i].Path, srcs[i].Content, af))
	}
	return pkg, nil
}

// LoadPackage loads the packages matching patterns in dir, "./..." by
// default, with go/packages. Packages with syntax errors are skipped and
// reported in the returned error alongside those that loaded.
func LoadPackage(ctx context.Context, dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports,
	}
	loaded, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages in %s: %w", dir, err)
	}
	sort.Slice(loaded, func(i, j int) bool { return loaded[i].PkgPath < loaded[j].PkgPath })

	var out []*Package
	var errs []error
	for _, lp := range loaded {
		if lp.Types == nil || lp.TypesInfo == nil {
			for _, e := range lp.Errors {
				errs = append(errs, e)
			}
			continue
		}
		pkg := &Package{Path: lp.PkgPath, Fset: lp.Fset, Types: lp.Types, Info: lp.TypesInfo}
		for _, e := range lp.TypeErrors {
			pkg.Errors = append(pkg.Errors, e)
		}
		for i, af := range lp.Syntax {
			path := lp.Fset.Position(af.Pos()).Filename
			if i < len(lp.CompiledGoFiles) {
				path = lp.CompiledGoFiles[i]
			}
			src, err := os.ReadFile(path)
			if err != nil {
				errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
				continue
			}
			pkg.Files = append(pkg.Files, pkg.newFile(path, src, af))
		}
		out = append(out, pkg)
	}
	return out, errors.Join(errs...)
}

func (p *Package) newFile(path string, src []byte, af *ast.File) *File {
	f := &File{Path: path, Source: src, AST: af, pkg: p, index: make(map[ast.Node]*Node)}
	f.Root = f.build(af, nil)
	return f
}
