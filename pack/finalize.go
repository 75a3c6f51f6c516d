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
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/pkg/zippack/archive"
)

// finalize serializes the archive scope belongs to and writes it to
// outPath, replacing an existing file. The old file is removed before the
// new one is written, there is no atomic rename.
func finalize(scope *archive.Builder, outPath string, algo digest.Algorithm) (*Result, error) {
	root := scope.Root()

	var buf bytes.Buffer
	d := algo.Digester()
	size, err := root.WriteTo(io.MultiWriter(&buf, d.Hash()))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize archive: %w", err)
	}

	if _, err := os.Stat(outPath); err == nil {
		if err := os.Remove(outPath); err != nil {
			return nil, fmt.Errorf("failed to remove existing archive '%s': %w", outPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write archive '%s': %w", outPath, err)
	}

	return &Result{
		Path:   outPath,
		Digest: d.Digest(),
		Size:   size,
	}, nil
}
