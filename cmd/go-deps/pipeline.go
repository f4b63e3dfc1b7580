// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-deps/internal/config"
	"github.com/petar-djukic/go-deps/internal/csharp"
	"github.com/petar-djukic/go-deps/internal/golang"
	"github.com/petar-djukic/go-deps/internal/source"
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// env is what every command needs: configuration, a logger, and a loader.
type env struct {
	cfg    config.Config
	log    *logrus.Logger
	loader *source.Loader
}

func newEnv(v *viper.Viper, errOut io.Writer) (*env, error) {
	cfg := config.Load(v)
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(errOut)
	log.SetLevel(cfg.Level())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	loader, err := source.NewLoader(source.Options{
		WorkDir:     cfg.WorkDir,
		Rev:         cfg.Rev,
		Lang:        source.Lang(cfg.Lang),
		Include:     cfg.Include,
		Exclude:     cfg.Exclude,
		Concurrency: cfg.Concurrency,
	}, log.WithField("workdir", cfg.WorkDir))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, loader: loader}, nil
}

// unit is one parsed file with the resolver that answers for it.
type unit struct {
	path      string
	lang      source.Lang
	root      types.Node
	resolver  deps.Resolver
	namespace string
	scopeAt   func(line, col int) (types.Node, error)
}

// units loads and parses the selected files under paths, sorted by path.
// Files that fail to load or parse are logged and skipped.
func (e *env) units(ctx context.Context, paths []string) ([]*unit, error) {
	files, err := e.loader.Load(ctx, paths...)
	if err != nil {
		if len(files) == 0 {
			return nil, err
		}
		e.log.WithError(err).Warn("some files could not be read")
	}

	var cs, gofiles []source.File
	for _, f := range files {
		switch f.Lang {
		case source.LangCSharp:
			cs = append(cs, f)
		case source.LangGo:
			gofiles = append(gofiles, f)
		}
	}

	var out []*unit
	for i, r := range source.Map(ctx, cs, e.cfg.Concurrency, e.csharpUnit) {
		if r.Err != nil {
			e.log.WithError(r.Err).WithFields(logrus.Fields{"file": cs[i].Path, "lang": source.LangCSharp}).Warn("skipping file")
			continue
		}
		out = append(out, r.Value)
	}
	out = append(out, e.goUnits(ctx, gofiles)...)
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out, nil
}

func (e *env) csharpUnit(ctx context.Context, f source.File) (*unit, error) {
	log := e.log.WithFields(logrus.Fields{"file": f.Path, "lang": source.LangCSharp})
	cf, err := csharp.Parse(ctx, f.Path, f.Content)
	if err != nil {
		return nil, err
	}
	if cf.HasErrors {
		log.Warn("syntax errors; analyzing the recovered tree")
	}
	r, err := csharp.NewResolver(cf)
	if err != nil {
		return nil, err
	}
	res, err := e.cached(r)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed")
	return &unit{
		path:     f.Path,
		lang:     source.LangCSharp,
		root:     cf.Root,
		resolver: res,
		scopeAt: func(line, col int) (types.Node, error) {
			n, err := cf.ScopeAt(line, col)
			if err != nil {
				return nil, err
			}
			return n, nil
		},
	}, nil
}

// goUnits type-checks Go files a package directory at a time. Worktree
// packages load through go/packages so imports resolve against the module;
// revisions and files go/packages leaves out are checked from source.
func (e *env) goUnits(ctx context.Context, files []source.File) []*unit {
	if len(files) == 0 {
		return nil
	}
	byPath := make(map[string]source.File, len(files))
	byDir := make(map[string][]source.File)
	for _, f := range files {
		byPath[f.Path] = f
		dir := path.Dir(f.Path)
		byDir[dir] = append(byDir[dir], f)
	}

	var out []*unit
	done := make(map[string]bool)
	if e.cfg.Rev == "" {
		var patterns []string
		for dir := range byDir {
			patterns = append(patterns, "./"+dir)
		}
		sort.Strings(patterns)
		pkgs, err := golang.LoadPackage(ctx, e.loader.Root(), patterns...)
		if err != nil {
			e.log.WithError(err).WithField("lang", source.LangGo).Warn("go/packages reported errors")
		}
		for _, pkg := range pkgs {
			e.checkErrors(pkg)
			for _, gf := range pkg.Files {
				rel, err := filepath.Rel(e.loader.Root(), gf.Path)
				if err != nil {
					continue
				}
				rel = filepath.ToSlash(rel)
				if _, ok := byPath[rel]; !ok || done[rel] {
					continue
				}
				if u := e.goUnit(rel, gf); u != nil {
					out = append(out, u)
					done[rel] = true
				}
			}
		}
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		var srcs []golang.Source
		for _, f := range byDir[dir] {
			if !done[f.Path] {
				srcs = append(srcs, golang.Source{Path: f.Path, Content: f.Content})
			}
		}
		if len(srcs) == 0 {
			continue
		}
		pkg, err := golang.ParseFiles(srcs)
		if err != nil {
			e.log.WithError(err).WithFields(logrus.Fields{"dir": dir, "lang": source.LangGo}).Warn("skipping package")
			continue
		}
		e.checkErrors(pkg)
		for _, gf := range pkg.Files {
			if u := e.goUnit(gf.Path, gf); u != nil {
				out = append(out, u)
			}
		}
	}
	return out
}

func (e *env) checkErrors(pkg *golang.Package) {
	if err := pkg.Err(); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{"package": pkg.Path, "lang": source.LangGo}).Warn("type errors; unresolved names have no symbol")
	}
}

func (e *env) goUnit(rel string, gf *golang.File) *unit {
	r, err := golang.NewResolver(gf)
	if err != nil {
		e.log.WithError(err).WithField("file", rel).Warn("skipping file")
		return nil
	}
	res, err := e.cached(r)
	if err != nil {
		e.log.WithError(err).WithField("file", rel).Warn("skipping file")
		return nil
	}
	return &unit{
		path:      rel,
		lang:      source.LangGo,
		root:      gf.Root,
		resolver:  res,
		namespace: gf.Package().Path,
		scopeAt: func(line, col int) (types.Node, error) {
			n, err := gf.ScopeAt(line, col)
			if err != nil {
				return nil, err
			}
			return n, nil
		},
	}
}

// cached wraps r in an LRU cache unless caching is disabled.
func (e *env) cached(r deps.Resolver) (deps.Resolver, error) {
	if e.cfg.CacheSize < 0 {
		return r, nil
	}
	return deps.NewCachingResolver(r, e.cfg.CacheSize)
}

// analyze runs the engine over every unit in parallel. Results keep the
// order of units.
func (e *env) analyze(ctx context.Context, units []*unit) ([]*deps.Analysis, error) {
	results := source.Map(ctx, units, e.cfg.Concurrency, func(_ context.Context, u *unit) (*deps.Analysis, error) {
		return deps.Analyze(u.root, u.resolver)
	})
	out := make([]*deps.Analysis, len(results))
	for i, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("analyzing %s: %w", units[i].path, r.Err)
		}
		out[i] = r.Value
	}
	return out, nil
}

// parsePosition parses "line:col".
func parsePosition(s string) (line, col int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: position %q is not line:col", deps.ErrInvalidArgument, s)
	}
	if line, err = strconv.Atoi(l); err != nil {
		return 0, 0, fmt.Errorf("%w: position %q: %v", deps.ErrInvalidArgument, s, err)
	}
	if col, err = strconv.Atoi(c); err != nil {
		return 0, 0, fmt.Errorf("%w: position %q: %v", deps.ErrInvalidArgument, s, err)
	}
	return line, col, nil
}
