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

// Package pack archives a build output directory into a single zip file.
//
// Pack is meant to be called once after a build has written its artifacts:
//
//	res, err := pack.Pack(ctx, pack.Options{
//		Options: config.Options{
//			InDir:      "dist",
//			PathPrefix: "my-app",
//		},
//		Filter: func(name, path string, isDir bool) bool {
//			return isDir || !strings.HasSuffix(name, ".map")
//		},
//	})
//
// Failures never panic past Pack. They are returned and, for callers that
// fire and forget, passed to the optional DoneFunc.
package pack

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-logr/logr"
	"github.com/opencontainers/go-digest"

	"github.com/fluxcd/pkg/zippack/archive"
	"github.com/fluxcd/pkg/zippack/config"
	"github.com/fluxcd/pkg/zippack/logger"
)

// FilterFunc must return true if the entry with the given base name and
// full path should be included in the archive. It is not consulted for the
// input directory itself. Returning false for a directory excludes its whole
// subtree.
type FilterFunc func(name, path string, isDir bool) bool

// DoneFunc is called once at the end of every Pack call with the error of
// the run, or nil on success. A panic in a DoneFunc is logged and does not
// change the outcome of the run.
type DoneFunc func(err error)

// Options configures a Pack call.
type Options struct {
	config.Options

	// Filter is an optional inclusion predicate, combined with the ignore
	// patterns of config.Options.
	Filter FilterFunc

	// Done is an optional completion callback.
	Done DoneFunc

	// Logger receives progress messages. If unset, the logger stored in the
	// context is used, if any.
	Logger logr.Logger

	// Location is the time zone modification times are shifted to. Defaults
	// to time.Local.
	Location *time.Location
}

// Result describes an archive written by Pack.
type Result struct {
	// Path is the location of the written archive.
	Path string `json:"path"`

	// Digest is the digest of the archive file.
	Digest digest.Digest `json:"digest"`

	// Size is the size of the archive file in bytes.
	Size int64 `json:"size"`

	// Files is the number of files packed.
	Files int `json:"files"`

	// Dirs is the number of directories packed, excluding the path prefix.
	Dirs int `json:"dirs"`
}

// Pack archives the contents of opts.InDir into opts.OutDir/opts.OutFileName,
// replacing any existing file at that path. Empty options are resolved to
// their defaults first, see config.Options.Resolve.
//
// Every failure, including a panic in a FilterFunc, is returned as an *Error
// and passed to opts.Done. The context is checked before each directory is
// listed.
func Pack(ctx context.Context, opts Options) (result *Result, err error) {
	log := opts.Logger
	if log.GetSink() == nil {
		log = logr.FromContextOrDiscard(ctx)
	}

	o := opts.Options.Resolve()
	log = log.WithValues("inDir", o.InDir, "out", o.OutPath())

	stage := StageValidate
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &Error{Stage: stage, InDir: o.InDir, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			log.Error(err, "something went wrong while building zip file")
		} else {
			log.Info("zip archive written", "digest", result.Digest.String(), "size", result.Size,
				"files", result.Files, "dirs", result.Dirs)
		}
		notify(log, opts.Done, err)
	}()
	fail := func(e error) error {
		return &Error{Stage: stage, InDir: o.InDir, Err: e}
	}

	if err := o.Validate(); err != nil {
		return nil, fail(err)
	}
	algo, err := o.GetDigestAlgorithm()
	if err != nil {
		return nil, fail(err)
	}

	fi, err := os.Stat(o.InDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fail(err)
	}
	if err != nil || !fi.IsDir() {
		return nil, fail(fmt.Errorf("%w: '%s'", ErrInputNotFound, o.InDir))
	}

	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return nil, fail(fmt.Errorf("failed to create output directory '%s': %w", o.OutDir, err))
	}

	ignore, err := ignoreFilter(o)
	if err != nil {
		return nil, fail(err)
	}

	w := &walker{
		filter:   AllFilters(ignore, opts.Filter),
		maxReads: o.MaxConcurrentReads,
		loc:      opts.Location,
		raw:      o.RawTimestamps,
		log:      log,
	}
	if abs, err := filepath.Abs(o.OutPath()); err == nil {
		w.exclude = abs
	}

	root := archive.NewBuilder()
	scope := root
	if o.PathPrefix != "" {
		if err := root.Dir(o.PathPrefix, w.timestamp(fi.ModTime())); err != nil {
			return nil, fail(err)
		}
		if scope, err = root.Folder(o.PathPrefix); err != nil {
			return nil, fail(err)
		}
	}

	stage = StageWalk
	log.Info("preparing files")
	if err := w.walk(ctx, scope, o.InDir); err != nil {
		return nil, fail(err)
	}
	log.V(logger.DebugLevel).Info("files staged", "entries", root.Len(), "skipped", w.skipped)

	stage = StageFinalize
	log.Info("creating zip archive")
	res, err := finalize(scope, o.OutPath(), algo)
	if err != nil {
		return nil, fail(err)
	}
	res.Files = w.files
	res.Dirs = w.dirs
	return res, nil
}

// notify calls done with err, if set, recovering from a panic in it.
func notify(log logr.Logger, done DoneFunc, err error) {
	if done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error(fmt.Errorf("panic: %v", r), "completion callback failed")
		}
	}()
	done(err)
}

// ignoreFilter builds the FilterFunc for the ignore patterns and ignore file
// of o. It returns nil if neither is set.
func ignoreFilter(o config.Options) (FilterFunc, error) {
	var ps []gitignore.Pattern
	if o.IgnoreFile != "" {
		filePatterns, err := ReadIgnoreFile(o.IgnoreFile, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read ignore file: %w", err)
		}
		ps = append(ps, filePatterns...)
	}
	for _, p := range o.IgnorePatterns {
		ps = append(ps, gitignore.ParsePattern(p, nil))
	}
	if len(ps) == 0 {
		return nil, nil
	}
	return IgnoreFilter(o.InDir, ps), nil
}
