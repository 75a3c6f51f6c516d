/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/fluxcd/pkg/zippack/archive"
	"github.com/fluxcd/pkg/zippack/logger"
)

// walker stages a directory tree into an archive.
type walker struct {
	filter   FilterFunc
	maxReads int
	loc      *time.Location
	raw      bool
	log      logr.Logger

	// exclude is the absolute path of the archive being written, which is
	// never packed into itself.
	exclude string

	files   int
	dirs    int
	skipped int
}

type child struct {
	name    string
	path    string
	isDir   bool
	modTime time.Time
	data    []byte
}

// timestamp returns the modification time to embed for t.
func (w *walker) timestamp(t time.Time) time.Time {
	if w.raw {
		return t
	}
	return archive.LocalWallClock(t, w.loc)
}

// walk stages every entry below dir into scope, depth first. Directories
// rejected by the filter are skipped with their whole subtree. Files of one
// directory are read with up to maxReads goroutines, but always staged in
// listing order.
func (w *walker) walk(ctx context.Context, scope *archive.Builder, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list directory '%s': %w", dir, err)
	}

	children := make([]*child, 0, len(entries))
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		fi, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("failed to stat '%s': %w", p, err)
		}

		// Ignore anything that is not a file or directory e.g. sockets
		if m := fi.Mode(); !(m.IsRegular() || m.IsDir()) {
			w.log.V(logger.DebugLevel).Info("skipping irregular file", "path", p, "mode", m.String())
			w.skipped++
			continue
		}

		if w.exclude != "" && !fi.IsDir() {
			if abs, err := filepath.Abs(p); err == nil && abs == w.exclude {
				w.log.V(logger.DebugLevel).Info("skipping output archive", "path", p)
				continue
			}
		}

		if w.filter != nil && !w.filter(e.Name(), p, fi.IsDir()) {
			w.log.V(logger.TraceLevel).Info("excluded by filter", "path", p, "dir", fi.IsDir())
			w.skipped++
			continue
		}

		children = append(children, &child{
			name:    e.Name(),
			path:    p,
			isDir:   fi.IsDir(),
			modTime: w.timestamp(fi.ModTime()),
		})
	}

	var g errgroup.Group
	g.SetLimit(w.maxReads)
	for _, c := range children {
		if c.isDir {
			continue
		}
		g.Go(func() error {
			data, err := os.ReadFile(c.path)
			if err != nil {
				return fmt.Errorf("failed to read '%s': %w", c.path, err)
			}
			c.data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, c := range children {
		if !c.isDir {
			if err := scope.ChildFile(c.name, c.data, c.modTime); err != nil {
				return err
			}
			w.files++
			continue
		}

		if err := scope.ChildDir(c.name, c.modTime); err != nil {
			return err
		}
		sub, err := scope.Child(c.name)
		if err != nil {
			return fmt.Errorf("failed to open archive folder for '%s': %w", c.path, err)
		}
		w.dirs++
		if err := w.walk(ctx, sub, c.path); err != nil {
			return err
		}
	}
	return nil
}
