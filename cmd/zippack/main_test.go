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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.TODO())
	return stdout.String(), err
}

func TestRootCmd(t *testing.T) {
	g := NewWithT(t)

	dir := t.TempDir()
	inDir := filepath.Join(dir, "dist")
	g.Expect(os.MkdirAll(filepath.Join(inDir, "assets"), 0o750)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(inDir, "a.js"), []byte("a"), 0o600)).To(Succeed())
	g.Expect(os.WriteFile(filepath.Join(inDir, "assets", "c.txt"), []byte("c"), 0o600)).To(Succeed())

	outDir := filepath.Join(dir, "dist-zip")
	out, err := execute(t,
		"--in-dir", inDir,
		"--out-dir", outDir,
		"--out-file-name", "site.zip",
		"--path-prefix", "site",
		"--log-level", "error",
	)
	g.Expect(err).ToNot(HaveOccurred())

	fields := strings.Fields(out)
	g.Expect(fields).To(HaveLen(3))
	g.Expect(fields[0]).To(Equal(filepath.Join(outDir, "site.zip")))
	g.Expect(fields[1]).To(HavePrefix("sha256:"))
	g.Expect(filepath.Join(outDir, "site.zip")).To(BeARegularFile())
}

func TestRootCmd_Failure(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "undefined")
	outDir := filepath.Join(dir, "out")

	t.Run("tolerated by default", func(t *testing.T) {
		g := NewWithT(t)

		out, err := execute(t, "--in-dir", missing, "--out-dir", outDir, "--log-level", "error")
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(out).To(BeEmpty())
	})

	t.Run("strict", func(t *testing.T) {
		g := NewWithT(t)

		_, err := execute(t, "--in-dir", missing, "--out-dir", outDir, "--log-level", "error", "--strict")
		g.Expect(err).To(HaveOccurred())
		g.Expect(filepath.Join(outDir, "dist.zip")).ToNot(BeAnExistingFile())
	})

	t.Run("unexpected arguments", func(t *testing.T) {
		g := NewWithT(t)

		_, err := execute(t, "extra")
		g.Expect(err).To(HaveOccurred())
	})
}
