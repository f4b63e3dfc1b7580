// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls fn with the selected files that changed under the work
// directory, batching events until none arrive for debounce. It blocks
// until ctx is done. Revisions are immutable, so a loader with a revision
// cannot watch.
func (l *Loader) Watch(ctx context.Context, debounce time.Duration, fn func(changed []string)) error {
	if l.opts.Rev != "" {
		return errors.New("cannot watch a git revision")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := l.addDirs(w, l.root); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	changed := make(map[string]bool)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := l.addDirs(w, ev.Name); err != nil {
						l.log.WithError(err).WithField("dir", ev.Name).Warn("cannot watch new directory")
					}
					continue
				}
			}
			rel := l.rel(ev.Name)
			if _, ok := l.Selected(rel); !ok {
				continue
			}
			changed[rel] = true
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			if len(changed) == 0 {
				continue
			}
			list := make([]string, 0, len(changed))
			for rel := range changed {
				list = append(list, rel)
			}
			sort.Strings(list)
			changed = make(map[string]bool)
			l.log.WithField("files", len(list)).Debug("sources changed")
			fn(list)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.WithError(err).Warn("watch error")
		}
	}
}

func (l *Loader) addDirs(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] && path != dir {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
