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
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const ignoreFileCommentPrefix = "#"

// ReadPatterns collects ignore patterns from the given reader and returns them
// as a gitignore.Pattern slice. Blank lines and comments are skipped. If a
// domain is supplied, it is used as the scope of the read patterns.
func ReadPatterns(reader io.Reader, domain []string) ([]gitignore.Pattern, error) {
	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		s := scanner.Text()
		if !strings.HasPrefix(s, ignoreFileCommentPrefix) && len(strings.TrimSpace(s)) > 0 {
			ps = append(ps, gitignore.ParsePattern(s, domain))
		}
	}
	return ps, scanner.Err()
}

// ReadIgnoreFile attempts to read the ignore file at the given path and
// returns the patterns it contains.
func ReadIgnoreFile(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPatterns(f, domain)
}

// IgnoreFilter returns a FilterFunc that excludes every entry below root
// matched by the given patterns. Paths are matched relative to root.
func IgnoreFilter(root string, ps []gitignore.Pattern) FilterFunc {
	matcher := gitignore.NewMatcher(ps)
	return func(_, p string, isDir bool) bool {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return true
		}
		return !matcher.Match(strings.Split(filepath.ToSlash(rel), "/"), isDir)
	}
}

// AllFilters returns a FilterFunc that includes an entry only if every given
// filter does. Nil filters are ignored; if none remain, AllFilters returns nil.
func AllFilters(filters ...FilterFunc) FilterFunc {
	var fs []FilterFunc
	for _, f := range filters {
		if f != nil {
			fs = append(fs, f)
		}
	}
	switch len(fs) {
	case 0:
		return nil
	case 1:
		return fs[0]
	}
	return func(name, p string, isDir bool) bool {
		for _, f := range fs {
			if !f(name, p, isDir) {
				return false
			}
		}
		return true
	}
}
