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
	"errors"
	"fmt"

	"github.com/fluxcd/pkg/zippack/config"
)

// Stage names the step of a packaging run an Error occurred in.
type Stage string

const (
	// StageValidate covers option validation and preparing the directories.
	StageValidate Stage = "validate"
	// StageWalk covers the traversal of the input directory.
	StageWalk Stage = "walk"
	// StageFinalize covers serializing and writing the archive.
	StageFinalize Stage = "finalize"
)

var (
	// ErrInputNotFound is returned when the input directory does not exist
	// or is not a directory.
	ErrInputNotFound = errors.New("input directory does not exist")

	// ErrAbsolutePathPrefix is returned when the path prefix is absolute.
	ErrAbsolutePathPrefix = config.ErrAbsolutePathPrefix

	// ErrInvalidOptions is returned for other invalid option values.
	ErrInvalidOptions = config.ErrInvalidOptions
)

// Error is returned by Pack and passed to the DoneFunc when a packaging run
// fails. It includes the Stage the run failed at, the input directory and
// the underlying Err.
type Error struct {
	Stage Stage
	InDir string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("zip packing of '%s' failed at %s stage: %v", e.InDir, e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
