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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	. "github.com/onsi/gomega"
)

func TestReadPatterns(t *testing.T) {
	g := NewWithT(t)

	ps, err := ReadPatterns(strings.NewReader(`# comment
*.map

   
node_modules/
!keep.map
`), nil)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ps).To(HaveLen(3))

	m := gitignore.NewMatcher(ps)
	g.Expect(m.Match([]string{"main.js.map"}, false)).To(BeTrue())
	g.Expect(m.Match([]string{"keep.map"}, false)).To(BeFalse())
	g.Expect(m.Match([]string{"node_modules"}, true)).To(BeTrue())
	g.Expect(m.Match([]string{"main.js"}, false)).To(BeFalse())
}

func TestReadIgnoreFile(t *testing.T) {
	g := NewWithT(t)

	path := filepath.Join(t.TempDir(), ".zipignore")
	g.Expect(os.WriteFile(path, []byte("*.log\n"), 0o600)).To(Succeed())

	ps, err := ReadIgnoreFile(path, nil)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(ps).To(HaveLen(1))

	_, err = ReadIgnoreFile(filepath.Join(t.TempDir(), "missing"), nil)
	g.Expect(os.IsNotExist(err)).To(BeTrue())
}

func TestIgnoreFilter(t *testing.T) {
	root := filepath.Join("build", "dist")
	filter := IgnoreFilter(root, []gitignore.Pattern{
		gitignore.ParsePattern("*.map", nil),
		gitignore.ParsePattern("/assets/tmp/", nil),
	})

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{path: "index.js", want: true},
		{path: "index.js.map", want: false},
		{path: "assets/app.js.map", want: false},
		{path: "assets", isDir: true, want: true},
		{path: "assets/tmp", isDir: true, want: false},
		{path: "tmp", isDir: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			g := NewWithT(t)

			p := filepath.Join(root, filepath.FromSlash(tt.path))
			g.Expect(filter(filepath.Base(p), p, tt.isDir)).To(Equal(tt.want))
		})
	}
}

func TestAllFilters(t *testing.T) {
	g := NewWithT(t)

	g.Expect(AllFilters()).To(BeNil())
	g.Expect(AllFilters(nil, nil)).To(BeNil())

	noMaps := func(name, _ string, _ bool) bool { return !strings.HasSuffix(name, ".map") }
	noDirs := func(_, _ string, isDir bool) bool { return !isDir }

	single := AllFilters(nil, noMaps)
	g.Expect(single("a.js", "a.js", false)).To(BeTrue())
	g.Expect(single("a.js.map", "a.js.map", false)).To(BeFalse())

	both := AllFilters(noMaps, nil, noDirs)
	g.Expect(both("a.js", "a.js", false)).To(BeTrue())
	g.Expect(both("a.js.map", "a.js.map", false)).To(BeFalse())
	g.Expect(both("assets", "assets", true)).To(BeFalse())
}
