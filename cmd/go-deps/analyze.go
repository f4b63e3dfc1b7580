// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/go-deps/internal/report"
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Report the references of each file grouped by scope",
		Long: "Analyze finds the references in each file, resolves them, and prints them grouped by " +
			"the declarations and statements that contain them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			withTypes, _ := cmd.Flags().GetBool("types")
			at, _ := cmd.Flags().GetString("at")
			if format != "text" && format != "json" {
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
			if at != "" {
				if units, err = narrow(units, at); err != nil {
					return err
				}
			}
			analyses, err := e.analyze(ctx, units)
			if err != nil {
				return err
			}
			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), units, analyses, withTypes)
			}
			writeText(cmd.OutOrStdout(), units, analyses)
			return nil
		},
	}

	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().Bool("types", false, "List each reference's simple types (json)")
	cmd.Flags().String("at", "", "Analyze only the scope enclosing line:col (one file)")
	return cmd
}

// narrow replaces the single unit's root with the scope at pos.
func narrow(units []*unit, pos string) ([]*unit, error) {
	if len(units) != 1 {
		return nil, fmt.Errorf("%w: --at needs exactly one file, got %d", deps.ErrInvalidArgument, len(units))
	}
	line, col, err := parsePosition(pos)
	if err != nil {
		return nil, err
	}
	root, err := units[0].scopeAt(line, col)
	if err != nil {
		return nil, err
	}
	u := *units[0]
	u.root = root
	return []*unit{&u}, nil
}

func writeText(w io.Writer, units []*unit, analyses []*deps.Analysis) {
	for i, u := range units {
		if len(units) > 1 {
			fmt.Fprintf(w, "== %s ==\n", u.path)
		}
		fmt.Fprint(w, report.Text(u.root, analyses[i]))
	}
}

type fileJSON struct {
	Path     string          `json:"path"`
	Lang     string          `json:"lang"`
	Analysis json.RawMessage `json:"analysis"`
}

func writeJSON(w io.Writer, units []*unit, analyses []*deps.Analysis, withTypes bool) error {
	out := make([]fileJSON, 0, len(units))
	for i, u := range units {
		raw, err := report.JSON(u.root, analyses[i], withTypes)
		if err != nil {
			return fmt.Errorf("%s: %w", u.path, err)
		}
		out = append(out, fileJSON{Path: u.path, Lang: string(u.lang), Analysis: raw})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// newTypesCmd creates the "types" command.
func newTypesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types [paths...]",
		Short: "Print the simple types behind each reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			distinct, _ := cmd.Flags().GetBool("distinct")

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
			w := cmd.OutOrStdout()
			for i, u := range units {
				if len(units) > 1 {
					fmt.Fprintf(w, "== %s ==\n", u.path)
				}
				for _, ref := range analyses[i].References() {
					line, err := typesLine(ref, distinct)
					if err != nil {
						e.log.WithError(err).WithField("file", u.path).Warn("cannot decompose reference")
						continue
					}
					fmt.Fprintln(w, line)
				}
			}
			return nil
		},
	}
	cmd.Flags().Bool("distinct", false, "Drop repeated types within a reference")
	return cmd
}

// typesLine renders "<text>: <simple types>", or "<text>: -" when the
// reference has none.
func typesLine(ref deps.Reference, distinct bool) (string, error) {
	simple, err := deps.ReferenceTypes(ref)
	if err != nil {
		return "", err
	}
	if distinct {
		simple = types.Distinct(simple)
	}
	if len(simple) == 0 {
		return ref.Node.Text() + ": -", nil
	}
	names := make([]string, len(simple))
	for i, t := range simple {
		names[i] = t.String()
	}
	return ref.Node.Text() + ": " + strings.Join(names, ", "), nil
}
