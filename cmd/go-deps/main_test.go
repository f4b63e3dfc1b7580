// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/internal/config"
	"github.com/petar-djukic/go-deps/pkg/deps"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(viper.New())
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

const listSrc = `using System.Collections.Generic;
class C {
    List<int> xs;
    void M() {
        int n = 1;
    }
}
`

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "go-deps 0.1.0\n", out)
}

func TestAnalyze_Text(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"C.cs": listSrc})

	out, err := run(t, "--workdir", dir, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "Dependencies analysis:\n")
	assert.Contains(t, out, "| - class_declaration: C")
	assert.Contains(t, out, "| * List<int> (NamedType)")
	assert.NotContains(t, out, "== C.cs ==", "no file headers for a single file")
}

func TestAnalyze_MultipleFilesHaveHeaders(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"b/B.cs": "class B { }\n", "A.cs": "class A { }\n"})

	out, err := run(t, "--workdir", dir, "--cache-size", "-1", "analyze")
	require.NoError(t, err)
	assert.Regexp(t, `(?s)== A\.cs ==.*== b/B\.cs ==`, out)
}

func TestAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"C.cs": listSrc})

	out, err := run(t, "--workdir", dir, "analyze", "--format", "json", "--types")
	require.NoError(t, err)

	var files []struct {
		Path     string `json:"path"`
		Lang     string `json:"lang"`
		Analysis struct {
			Kind string `json:"kind"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "C.cs", files[0].Path)
	assert.Equal(t, "csharp", files[0].Lang)
	assert.Equal(t, "compilation_unit", files[0].Analysis.Kind)
	assert.Contains(t, out, `"List<>"`)
}

func TestAnalyze_At(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"C.cs": listSrc})

	out, err := run(t, "--workdir", dir, "analyze", "--at", "5:9")
	require.NoError(t, err)
	assert.Contains(t, out, "| - local_declaration_statement")
	assert.Contains(t, out, "| * 1 (NamedType)")
	assert.NotContains(t, out, "List<int>")
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"A.cs": "class A { }\n", "B.cs": "class B { }\n"})

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown format", []string{"--workdir", dir, "analyze", "--format", "xml"}, nil},
		{"unknown language", []string{"--workdir", dir, "--lang", "rust", "analyze"}, config.ErrInvalidConfig},
		{"at with many files", []string{"--workdir", dir, "analyze", "--at", "1:1"}, deps.ErrInvalidArgument},
		{"bad position", []string{"--workdir", dir, "analyze", "A.cs", "--at", "one"}, deps.ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTypes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"C.cs": listSrc})

	out, err := run(t, "--workdir", dir, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "System.Collections.Generic: -\n")
	assert.Contains(t, out, "List<int>: List<>, List<T>, int\n")
}

func TestGraph(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"C.cs": listSrc})

	out, err := run(t, "--workdir", dir, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "C.xs -> System.Collections.Generic.List (1)\n")

	out, err = run(t, "--workdir", dir, "graph", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
}

func TestTypes_Revision(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	writeFiles(t, dir, map[string]string{"C.cs": "class C { string s; }\n"})
	_, err = wt.Add("C.cs")
	require.NoError(t, err)
	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	writeFiles(t, dir, map[string]string{"C.cs": "class C { int i; }\n"})

	out, err := run(t, "--workdir", dir, "--rev", "HEAD", "types")
	require.NoError(t, err)
	assert.Equal(t, "string: string\n", out)
}

func TestAnalyze_Go(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go command")
	}
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"go.mod": "module example.com/m\n\ngo 1.22\n",
		"m.go":   "package m\n\nfunc Double(x int) int { return x * 2 }\n",
	})

	out, err := run(t, "--workdir", dir, "--lang", "go", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "| - FuncDecl: Double")
	assert.Contains(t, out, "| * x (Parameter)")
}
