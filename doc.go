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

// Package zippack archives the output directory of a web build into a single
// zip file, as a post-build step.
//
// Archive Codec (archive pkg):
//   - Directory scoped builders staging files and directory markers in memory
//   - Deflate at the strongest level, environment independent file modes
//   - Modification times shifted to the local wall clock
//
// Configuration (config pkg):
//   - Options with a documented table of defaults (dist, dist-zip, dist.zip)
//   - Flag binding with environment variable support
//   - Validation of the path prefix, concurrency and digest algorithm
//
// Packaging (pack pkg):
//   - Depth-first traversal with an inclusion predicate and gitignore patterns
//   - Optional path prefix nesting the whole tree inside the archive
//   - Replacement of the previous archive and digest of the new one
//   - Completion callback for fire and forget callers
//
// Logging (logger pkg):
//   - logr loggers backed by zap, bound to command line flags
//
// The zippack command (cmd/zippack) runs a packaging pass from build scripts.
package zippack
