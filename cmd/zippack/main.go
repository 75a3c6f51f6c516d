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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fluxcd/pkg/zippack/config"
	"github.com/fluxcd/pkg/zippack/logger"
	"github.com/fluxcd/pkg/zippack/pack"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}

type rootFlags struct {
	pack   config.Options
	logger logger.Options
	strict bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "zippack",
		Short: "Archive a build output directory into a zip file",
		Long: `zippack walks the build output directory and writes its contents
to a single zip archive, replacing any archive left by a previous build.

Packaging failures are logged but do not fail the command unless --strict is set,
so a broken archive step never breaks the build it runs after.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, flags)
		},
	}

	flags.pack.BindFlags(cmd.Flags())
	flags.logger.BindFlags(cmd.Flags())
	cmd.Flags().BoolVar(&flags.strict, "strict", false,
		"Exit with a non-zero code when packaging fails.")

	return cmd
}

func runPack(cmd *cobra.Command, flags *rootFlags) error {
	flags.logger.Output = cmd.ErrOrStderr()
	log := logger.NewLogger(flags.logger).WithName("zippack")

	res, err := pack.Pack(cmd.Context(), pack.Options{
		Options: flags.pack,
		Logger:  log,
	})
	if err != nil {
		if flags.strict {
			return err
		}
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", res.Path, res.Digest, res.Size)
	return nil
}
