// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-deps/internal/depgraph"
)

// newGraphCmd creates the "graph" command.
func newGraphCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [paths...]",
		Short: "Print the declaration-to-type dependency graph",
		Long: "Graph links every declaration to the named types its references depend on and " +
			"reports dependency cycles. DOT output renders with Graphviz.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "dot" && format != "text" {
				return fmt.Errorf("unknown format %q", format)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			e, err := newEnv(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			units, err := e.units(ctx, args)
			if err != nil {
				return err
			}
			analyses, err := e.analyze(ctx, units)
			if err != nil {
				return err
			}

			g := depgraph.New()
			for i, u := range units {
				if err := g.Add(u.root, analyses[i], u.namespace); err != nil {
					return fmt.Errorf("graphing %s: %w", u.path, err)
				}
			}
			if format == "dot" {
				return g.WriteDOT(cmd.OutOrStdout())
			}
			return g.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("format", "text", "Output format: text or dot")
	return cmd
}
