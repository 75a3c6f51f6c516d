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

// Package archive stages files and directories into an in-memory zip
// archive through directory scoped builders and serializes it.
package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const (
	// DefaultFileMode is the permission mode applied to files inside an archive.
	DefaultFileMode os.FileMode = 0o644
	// DefaultDirMode is the permission mode applied to directories inside an archive.
	DefaultDirMode os.FileMode = os.ModeDir | 0o755
)

// ErrInvalidName is returned when an entry or scope name is empty, absolute
// or escapes the archive root.
var ErrInvalidName = errors.New("invalid archive entry name")

type entry struct {
	name     string
	dir      bool
	data     []byte
	modified time.Time
}

// table holds the entries of one archive, shared by all of its scopes.
type table struct {
	mu      sync.Mutex
	entries []*entry
	index   map[string]int
}

// Builder is a handle into an in-progress zip archive. It represents either
// the archive root or a directory inside it; names given to a scope are
// implicitly prefixed by the path of that scope.
//
// All scopes obtained from the same NewBuilder call share one entry table,
// which is guarded by a mutex, so staging from several goroutines is safe.
// Entries are serialized in the order in which they were first staged.
type Builder struct {
	t    *table
	base string
}

// NewBuilder returns the root scope of a new, empty archive.
func NewBuilder() *Builder {
	return &Builder{t: &table{index: make(map[string]int)}}
}

// Path returns the slash separated location of the scope inside the archive,
// with a trailing slash. It is empty for the root scope.
func (b *Builder) Path() string {
	return b.base
}

// Root returns the root scope of the archive b belongs to.
func (b *Builder) Root() *Builder {
	return &Builder{t: b.t}
}

// Folder returns the scope for the directory name relative to b. It does not
// stage a directory marker, see Dir.
func (b *Builder) Folder(name string) (*Builder, error) {
	rel, err := CleanName(name)
	if err != nil {
		return nil, err
	}
	return b.folder(rel), nil
}

// Dir stages a directory marker for name relative to b. Missing parent
// markers are staged with the same modification time.
func (b *Builder) Dir(name string, modTime time.Time) error {
	rel, err := CleanName(name)
	if err != nil {
		return err
	}
	b.dir(rel, modTime)
	return nil
}

// File stages a file with the given content for name relative to b. The
// builder takes ownership of data. Staging a name twice replaces the
// previous content but keeps the original position.
func (b *Builder) File(name string, data []byte, modTime time.Time) error {
	rel, err := CleanName(name)
	if err != nil {
		return err
	}
	b.file(rel, data, modTime)
	return nil
}

// Child is like Folder for a single path element, such as a name returned
// by os.ReadDir. The name is used verbatim: backslashes and dots inside it
// are part of the name.
func (b *Builder) Child(name string) (*Builder, error) {
	if err := checkElement(name); err != nil {
		return nil, err
	}
	return b.folder(name), nil
}

// ChildDir is like Dir for a single path element, see Child.
func (b *Builder) ChildDir(name string, modTime time.Time) error {
	if err := checkElement(name); err != nil {
		return err
	}
	b.dir(name, modTime)
	return nil
}

// ChildFile is like File for a single path element, see Child.
func (b *Builder) ChildFile(name string, data []byte, modTime time.Time) error {
	if err := checkElement(name); err != nil {
		return err
	}
	b.file(name, data, modTime)
	return nil
}

func (b *Builder) folder(rel string) *Builder {
	return &Builder{t: b.t, base: b.base + rel + "/"}
}

func (b *Builder) dir(rel string, modTime time.Time) {
	b.t.put(&entry{name: b.base + rel + "/", dir: true, modified: modTime})
}

func (b *Builder) file(rel string, data []byte, modTime time.Time) {
	b.t.put(&entry{name: b.base + rel, data: data, modified: modTime})
}

// Len returns the number of entries staged in the whole archive.
func (b *Builder) Len() int {
	b.t.mu.Lock()
	defer b.t.mu.Unlock()
	return len(b.t.entries)
}

// Names returns the names of all staged entries in serialization order.
// Directory names carry a trailing slash.
func (b *Builder) Names() []string {
	b.t.mu.Lock()
	defer b.t.mu.Unlock()
	names := make([]string, 0, len(b.t.entries))
	for _, e := range b.t.entries {
		names = append(names, e.name)
	}
	return names
}

// WriteTo serializes the whole archive to w using the strongest deflate
// level, regardless of the scope it is called on. Any environment specific
// data is left out of the headers: modes are set to DefaultFileMode and
// DefaultDirMode.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	wc := &writeCounter{}
	zw := zip.NewWriter(io.MultiWriter(w, wc))
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	b.t.mu.Lock()
	defer b.t.mu.Unlock()

	for _, e := range b.t.entries {
		header := &zip.FileHeader{
			Name:     e.name,
			Modified: e.modified,
		}
		if e.dir {
			header.Method = zip.Store
			header.SetMode(DefaultDirMode)
		} else {
			header.Method = zip.Deflate
			header.SetMode(DefaultFileMode)
		}

		fw, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return wc.written, fmt.Errorf("failed to write header for '%s': %w", e.name, err)
		}
		if e.dir {
			continue
		}
		if _, err := fw.Write(e.data); err != nil {
			zw.Close()
			return wc.written, fmt.Errorf("failed to write '%s': %w", e.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return wc.written, err
	}
	return wc.written, nil
}

// put stages e, adding markers for parent directories that are not staged yet.
func (t *table) put(e *entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parts := strings.Split(strings.TrimSuffix(e.name, "/"), "/")
	for i := 1; i < len(parts); i++ {
		dir := strings.Join(parts[:i], "/") + "/"
		if _, ok := t.index[dir]; !ok {
			t.index[dir] = len(t.entries)
			t.entries = append(t.entries, &entry{name: dir, dir: true, modified: e.modified})
		}
	}

	if i, ok := t.index[e.name]; ok {
		t.entries[i] = e
		return
	}
	t.index[e.name] = len(t.entries)
	t.entries = append(t.entries, e)
}

// CleanName returns name as a clean, slash separated path relative to a
// scope. Backslashes are treated as separators. It returns ErrInvalidName if
// name is empty, absolute or escapes the scope.
func CleanName(name string) (string, error) {
	n := strings.ReplaceAll(name, `\`, "/")
	if n == "" || path.IsAbs(n) || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	n = path.Clean(n)
	if n == "." || n == ".." || strings.HasPrefix(n, "../") {
		return "", fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return n, nil
}

// checkElement returns ErrInvalidName if name is not a single path element.
func checkElement(name string) error {
	if name == "" || name == "." || name == ".." || strings.Contains(name, "/") {
		return fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return nil
}

// writeCounter is an implementation of io.Writer
// that only records the number of bytes written.
type writeCounter struct {
	written int64
}

// Write implements the io.Writer interface.
func (wc *writeCounter) Write(p []byte) (int, error) {
	n := len(p)
	wc.written += int64(n)
	return n, nil
}
