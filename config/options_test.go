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

package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/pkg/zippack/archive"
	"github.com/fluxcd/pkg/zippack/config"
)

func TestOptions_Resolve(t *testing.T) {
	tests := []struct {
		name string
		opts config.Options
		want config.Options
	}{
		{
			name: "empty options get defaults",
			opts: config.Options{},
			want: config.Options{
				InDir:              "dist",
				OutDir:             "dist-zip",
				OutFileName:        "dist.zip",
				MaxConcurrentReads: 1,
				DigestAlgo:         "sha256",
			},
		},
		{
			name: "set values are kept",
			opts: config.Options{
				InDir:              "build",
				OutDir:             "out",
				OutFileName:        "site.zip",
				PathPrefix:         "my-pref",
				IgnorePatterns:     []string{"*.map"},
				MaxConcurrentReads: 8,
				DigestAlgo:         "sha512",
				RawTimestamps:      true,
			},
			want: config.Options{
				InDir:              "build",
				OutDir:             "out",
				OutFileName:        "site.zip",
				PathPrefix:         "my-pref",
				IgnorePatterns:     []string{"*.map"},
				MaxConcurrentReads: 8,
				DigestAlgo:         "sha512",
				RawTimestamps:      true,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(tt.opts.Resolve()).To(Equal(tt.want))
		})
	}
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    config.Options
		wantErr error
	}{
		{
			name: "defaults are valid",
			opts: config.Options{},
		},
		{
			name: "relative prefix",
			opts: config.Options{PathPrefix: "my-pref/nested"},
		},
		{
			name:    "absolute prefix",
			opts:    config.Options{PathPrefix: filepath.Join(string(filepath.Separator), "abs")},
			wantErr: config.ErrAbsolutePathPrefix,
		},
		{
			name:    "slash rooted prefix",
			opts:    config.Options{PathPrefix: "/my-pref"},
			wantErr: config.ErrAbsolutePathPrefix,
		},
		{
			name:    "prefix escaping the archive root",
			opts:    config.Options{PathPrefix: "../outside"},
			wantErr: archive.ErrInvalidName,
		},
		{
			name:    "prefix resolving to the archive root",
			opts:    config.Options{PathPrefix: "a/.."},
			wantErr: config.ErrInvalidOptions,
		},
		{
			name:    "negative concurrency",
			opts:    config.Options{MaxConcurrentReads: -1},
			wantErr: config.ErrInvalidOptions,
		},
		{
			name:    "unknown digest algorithm",
			opts:    config.Options{DigestAlgo: "md5"},
			wantErr: config.ErrInvalidOptions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			err := tt.opts.Resolve().Validate()
			if tt.wantErr == nil {
				g.Expect(err).ToNot(HaveOccurred())
				return
			}
			g.Expect(err).To(HaveOccurred())
			g.Expect(errors.Is(err, tt.wantErr)).To(BeTrue())
		})
	}
}

func TestOptions_OutPath(t *testing.T) {
	g := NewWithT(t)

	opts := config.Options{OutDir: "tests/outDist"}.Resolve()
	g.Expect(opts.OutPath()).To(Equal(filepath.Join("tests", "outDist", "dist.zip")))
}

func TestOptions_GetDigestAlgorithm(t *testing.T) {
	g := NewWithT(t)

	algo, err := config.Options{DigestAlgo: "sha384"}.GetDigestAlgorithm()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(algo).To(Equal(digest.SHA384))

	_, err = config.Options{DigestAlgo: "blake3"}.GetDigestAlgorithm()
	g.Expect(err).To(HaveOccurred())
}
