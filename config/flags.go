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
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

const (
	flagInDir = "in-dir"
	envInDir  = "ZIPPACK_IN_DIR"

	flagOutDir = "out-dir"
	envOutDir  = "ZIPPACK_OUT_DIR"

	flagOutFileName = "out-file-name"
	envOutFileName  = "ZIPPACK_OUT_FILE_NAME"

	flagPathPrefix = "path-prefix"
	envPathPrefix  = "ZIPPACK_PATH_PREFIX"

	flagIgnore     = "ignore"
	flagIgnoreFile = "ignore-file"

	flagMaxConcurrentReads = "max-concurrent-reads"
	envMaxConcurrentReads  = "ZIPPACK_MAX_CONCURRENT_READS"

	flagDigestAlgo = "digest-algo"

	flagRawTimestamps = "raw-timestamps"
)

// BindFlags will parse the given pflag.FlagSet and set the Options accordingly.
// Environment variables, where supported, take precedence over the defaults but
// not over flags given on the command line.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.InDir, flagInDir,
		envOrDefault(envInDir, DefaultInDir),
		"The directory whose contents are archived.")

	fs.StringVar(&o.OutDir, flagOutDir,
		envOrDefault(envOutDir, DefaultOutDir),
		"The directory the archive is written to, created if missing.")

	fs.StringVar(&o.OutFileName, flagOutFileName,
		envOrDefault(envOutFileName, DefaultOutFileName),
		"The file name of the archive.")

	fs.StringVar(&o.PathPrefix, flagPathPrefix,
		envOrDefault(envPathPrefix, ""),
		"Relative directory inside the archive under which all entries are nested.")

	fs.StringSliceVar(&o.IgnorePatterns, flagIgnore, nil,
		"Gitignore style pattern of entries to leave out of the archive, can be repeated.")

	fs.StringVar(&o.IgnoreFile, flagIgnoreFile, "",
		"File with gitignore style patterns of entries to leave out of the archive.")

	fs.IntVar(&o.MaxConcurrentReads, flagMaxConcurrentReads,
		intEnvOrDefault(envMaxConcurrentReads, DefaultMaxConcurrentReads),
		"The maximum number of files of one directory read in parallel.")

	fs.StringVar(&o.DigestAlgo, flagDigestAlgo,
		DefaultDigestAlgo,
		"The hashing algorithm used to calculate the digest of the archive.")

	fs.BoolVar(&o.RawTimestamps, flagRawTimestamps, false,
		"Embed modification times as they are instead of shifting them to the local wall clock.")
}

// envOrDefault returns the value of the environment variable named by the key.
// If the variable is empty or not present, it returns the defaultValue instead.
func envOrDefault(envName, defaultValue string) string {
	ret := os.Getenv(envName)
	if ret != "" {
		return ret
	}

	return defaultValue
}

// intEnvOrDefault is like envOrDefault for integer values. Values that do not
// parse are ignored.
func intEnvOrDefault(envName string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(envName)); err == nil {
		return v
	}
	return defaultValue
}
