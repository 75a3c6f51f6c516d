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

package config

import (
	_ "crypto/sha256"
	_ "crypto/sha512"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/pkg/zippack/archive"
)

const (
	// DefaultInDir is the conventional build output directory.
	DefaultInDir = "dist"
	// DefaultOutDir is the directory the archive is written to.
	DefaultOutDir = "dist-zip"
	// DefaultOutFileName is the file name of the archive.
	DefaultOutFileName = "dist.zip"
	// DefaultMaxConcurrentReads is the number of sibling files read at once.
	DefaultMaxConcurrentReads = 1
	// DefaultDigestAlgo is the hashing algorithm used for the archive digest.
	DefaultDigestAlgo = string(digest.SHA256)
)

var (
	// ErrAbsolutePathPrefix is returned when the path prefix is an absolute path.
	ErrAbsolutePathPrefix = errors.New("path prefix must be a relative path")
	// ErrInvalidOptions is returned for any other invalid option value.
	ErrInvalidOptions = errors.New("invalid options")
)

// Options contains the settings of a packaging run.
type Options struct {
	// InDir is the directory whose contents are archived.
	InDir string `json:"inDir"`

	// OutDir is the directory the archive is written to. It is created if missing.
	OutDir string `json:"outDir"`

	// OutFileName is the file name of the archive inside OutDir.
	OutFileName string `json:"outFileName"`

	// PathPrefix is an optional relative directory inside the archive under
	// which the contents of InDir are nested.
	PathPrefix string `json:"pathPrefix,omitempty"`

	// IgnorePatterns are gitignore style patterns, relative to InDir, of
	// entries that are left out of the archive.
	IgnorePatterns []string `json:"ignorePatterns,omitempty"`

	// IgnoreFile is an optional file with additional ignore patterns, one per line.
	IgnoreFile string `json:"ignoreFile,omitempty"`

	// MaxConcurrentReads is the maximum number of files of one directory read in parallel.
	MaxConcurrentReads int `json:"maxConcurrentReads"`

	// DigestAlgo is the hashing algorithm used to calculate the digest of the archive.
	DigestAlgo string `json:"digestAlgo"`

	// RawTimestamps disables the shift of modification times to the local
	// wall clock, embedding them as they are.
	RawTimestamps bool `json:"rawTimestamps,omitempty"`
}

// Resolve returns a copy of the Options with empty values replaced by their defaults:
//
//	InDir              dist
//	OutDir             dist-zip
//	OutFileName        dist.zip
//	MaxConcurrentReads 1
//	DigestAlgo         sha256
func (o Options) Resolve() Options {
	if o.InDir == "" {
		o.InDir = DefaultInDir
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.OutFileName == "" {
		o.OutFileName = DefaultOutFileName
	}
	if o.MaxConcurrentReads == 0 {
		o.MaxConcurrentReads = DefaultMaxConcurrentReads
	}
	if o.DigestAlgo == "" {
		o.DigestAlgo = DefaultDigestAlgo
	}
	return o
}

// Validate checks resolved Options. It does not touch the filesystem. The
// path prefix must be relative and stay inside the archive root.
func (o Options) Validate() error {
	if o.PathPrefix != "" && (filepath.IsAbs(o.PathPrefix) || path.IsAbs(filepath.ToSlash(o.PathPrefix))) {
		return fmt.Errorf("%w: '%s'", ErrAbsolutePathPrefix, o.PathPrefix)
	}
	if o.PathPrefix != "" {
		if _, err := archive.CleanName(o.PathPrefix); err != nil {
			return fmt.Errorf("%w: path prefix: %w", ErrInvalidOptions, err)
		}
	}
	if o.OutFileName == "" {
		return fmt.Errorf("%w: output file name is empty", ErrInvalidOptions)
	}
	if o.MaxConcurrentReads < 1 {
		return fmt.Errorf("%w: max concurrent reads must be at least 1, got %d", ErrInvalidOptions, o.MaxConcurrentReads)
	}
	if _, err := o.GetDigestAlgorithm(); err != nil {
		return err
	}
	return nil
}

// OutPath returns the path the archive is written to.
func (o Options) OutPath() string {
	return filepath.Join(o.OutDir, o.OutFileName)
}

// GetDigestAlgorithm returns the configured digest algorithm, or an error if
// it is unknown or not linked into the binary.
func (o Options) GetDigestAlgorithm() (digest.Algorithm, error) {
	algo := digest.Algorithm(o.DigestAlgo)
	if !algo.Available() {
		return "", fmt.Errorf("%w: unsupported digest algorithm '%s'", ErrInvalidOptions, o.DigestAlgo)
	}
	return algo, nil
}
