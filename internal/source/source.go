// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package source finds and reads the files go-deps analyzes, from the
// worktree or from a git revision.
package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrNoGit is returned when a revision is requested outside a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrNotFound is returned when a requested path or revision does not exist.
var ErrNotFound = errors.New("not found")

// Lang identifies a front-end.
type Lang string

const (
	LangAuto   Lang = "auto"
	LangCSharp Lang = "csharp"
	LangGo     Lang = "go"
)

// DetectLang maps a file extension to its front-end, or "".
func DetectLang(path string) Lang {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cs":
		return LangCSharp
	case ".go":
		return LangGo
	}
	return ""
}

// File is a source file ready for parsing.
type File struct {
	Path    string // slash-separated, relative to the work directory
	Lang    Lang
	Content []byte
}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"vendor":       true,
	".git":         true,
	"testdata":     true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
}

type pattern struct {
	text string
	glob glob.Glob
}

// Filter selects paths with include and exclude globs. Patterns use '/'
// as separator and "**" across directories.
type Filter struct {
	include []pattern
	exclude []pattern
}

// NewFilter compiles the patterns.
func NewFilter(include, exclude []string) (*Filter, error) {
	f := &Filter{}
	var err error
	if f.include, err = compile(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

func compile(texts []string) ([]pattern, error) {
	var out []pattern
	for _, t := range texts {
		g, err := glob.Compile(t, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %q: %w", t, err)
		}
		out = append(out, pattern{text: t, glob: g})
	}
	return out, nil
}

// Match reports whether rel, a slash-separated relative path, is selected.
// With no include patterns every path not excluded is selected.
func (f *Filter) Match(rel string) bool {
	if matchAny(rel, f.exclude) || matchAny(rel+"/**", f.exclude) {
		return false
	}
	return len(f.include) == 0 || matchAny(rel, f.include)
}

func matchAny(path string, patterns []pattern) bool {
	for _, p := range patterns {
		if p.glob.Match(path) {
			return true
		}
		// "**/x" also matches x at the root
		if !strings.Contains(path, "/") && strings.HasPrefix(p.text, "**/") {
			if g, err := glob.Compile(strings.TrimPrefix(p.text, "**/"), '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}
	return false
}
