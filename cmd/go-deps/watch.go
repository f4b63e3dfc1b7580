// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const watchDebounce = 300 * time.Millisecond

// newWatchCmd creates the "watch" command.
func newWatchCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-analyze files as they change",
		Long:  "Watch prints the analysis of the selected files, then prints it again for each file that changes until interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			e, err := newEnv(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			run := func(paths []string) {
				units, err := e.units(ctx, paths)
				if err != nil {
					e.log.WithError(err).Warn("cannot load sources")
					return
				}
				analyses, err := e.analyze(ctx, units)
				if err != nil {
					e.log.WithError(err).Warn("analysis failed")
					return
				}
				writeText(cmd.OutOrStdout(), units, analyses)
			}

			run(args)
			return e.loader.Watch(ctx, watchDebounce, func(changed []string) {
				var present []string
				for _, p := range changed {
					if _, err := os.Stat(filepath.Join(e.loader.Root(), filepath.FromSlash(p))); err == nil {
						present = append(present, p)
					}
				}
				if len(present) > 0 {
					run(present)
				}
			})
		},
	}
}
