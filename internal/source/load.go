// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
)

// Options configures a Loader.
type Options struct {
	WorkDir     string   // Root directory; revisions are read from its repository
	Rev         string   // Git revision; empty reads the worktree
	Lang        Lang     // Restrict to one front-end; "" or LangAuto keeps both
	Include     []string // Glob patterns relative to WorkDir
	Exclude     []string // Glob patterns relative to WorkDir
	Concurrency int      // Parallel file reads; <= 0 means runtime.NumCPU()
}

// Loader finds and reads source files.
type Loader struct {
	opts   Options
	root   string
	filter *Filter
	log    *logrus.Entry
}

// NewLoader returns a loader rooted at opts.WorkDir. A nil log uses the
// standard logrus logger.
func NewLoader(opts Options, log *logrus.Entry) (*Loader, error) {
	root, err := filepath.Abs(opts.WorkDir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory: %w", err)
	}
	filter, err := NewFilter(opts.Include, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Loader{opts: opts, root: root, filter: filter, log: log}, nil
}

// Root returns the absolute work directory.
func (l *Loader) Root() string { return l.root }

// Selected reports the front-end for rel and whether the loader would load
// it.
func (l *Loader) Selected(rel string) (Lang, bool) {
	lang := DetectLang(rel)
	if lang == "" {
		return "", false
	}
	if l.opts.Lang != "" && l.opts.Lang != LangAuto && lang != l.opts.Lang {
		return "", false
	}
	for _, part := range strings.Split(path.Dir(rel), "/") {
		if skipDirs[part] {
			return "", false
		}
	}
	return lang, l.filter.Match(rel)
}

// Load reads the selected files under paths, sorted by path. Paths are
// files or directories relative to the work directory; none means all of
// it. Unreadable files are reported together after the others load.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]File, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	if l.opts.Rev != "" {
		return l.loadRev(ctx, paths)
	}

	rels, err := l.discover(paths)
	if err != nil {
		return nil, err
	}
	results := Map(ctx, rels, l.opts.Concurrency, func(_ context.Context, rel string) (File, error) {
		content, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(rel)))
		if err != nil {
			return File{}, fmt.Errorf("reading %s: %w", rel, err)
		}
		lang, _ := l.Selected(rel)
		return File{Path: rel, Lang: lang, Content: content}, nil
	})

	var files []File
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		files = append(files, r.Value)
	}
	l.log.WithField("files", len(files)).Debug("loaded worktree sources")
	return files, errors.Join(errs...)
}

func (l *Loader) discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(abs string) {
		rel := l.rel(abs)
		if _, ok := l.Selected(rel); ok && !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(p) {
			abs = filepath.Join(l.root, p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip inaccessible entries
			}
			if d.IsDir() {
				if skipDirs[d.Name()] && path != abs {
					return filepath.SkipDir
				}
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking directory: %w", err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (l *Loader) rel(abs string) string {
	r, err := filepath.Rel(l.root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(r)
}

// loadRev reads the selected files from the tree of the configured
// revision. The work directory must be the repository root.
func (l *Loader) loadRev(ctx context.Context, paths []string) ([]File, error) {
	log := l.log.WithField("rev", l.opts.Rev)

	repo, err := gogit.PlainOpen(l.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(l.opts.Rev))
	if err != nil {
		return nil, fmt.Errorf("%w: revision %q: %v", ErrNotFound, l.opts.Rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}

	var prefixes []string
	for _, p := range paths {
		p = path.Clean(filepath.ToSlash(p))
		if p == "." {
			prefixes = nil
			break
		}
		if _, err := tree.FindEntry(p); err != nil {
			return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, p, l.opts.Rev)
		}
		prefixes = append(prefixes, p)
	}

	var files []File
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !underAny(f.Name, prefixes) {
			return nil
		}
		lang, ok := l.Selected(f.Name)
		if !ok {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s at %s: %w", f.Name, l.opts.Rev, err)
		}
		files = append(files, File{Path: f.Name, Lang: lang, Content: []byte(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	log.WithFields(logrus.Fields{"commit": hash.String()[:7], "files": len(files)}).Debug("loaded revision sources")
	return files, nil
}

func underAny(name string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if name == p || strings.HasPrefix(name, p+"/") {
			return true
		}
	}
	return false
}
