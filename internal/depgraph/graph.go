// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package depgraph builds a directed graph from declarations to the named
// types their references depend on.
//
// Declaration vertices are qualified by their enclosing declarations and
// point at the declarations they contain, so a type depends on what its
// members depend on. Type vertices are keyed by namespace and name, which
// makes a declared type and references to it the same vertex.
package depgraph

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// rootVertex owns references outside any declaration.
const rootVertex = "<root>"

// Edge is a dependency with the number of references behind it.
// Containment edges have weight zero.
type Edge struct {
	From   string
	To     string
	Weight int
}

// Graph accumulates dependencies across analyses. It is not safe for
// concurrent use.
type Graph struct {
	g graph.Graph[string, string]
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{g: graph.New(graph.StringHash, graph.Directed())}
}

// Add records the type dependencies of every reference in a. A reference
// counts once toward each type it depends on, however many of its simple
// types share that vertex. Declaration names are qualified with namespace
// when it is not empty.
func (g *Graph) Add(root types.Node, a *deps.Analysis, namespace string) error {
	if root == nil || a == nil {
		return fmt.Errorf("%w: nil root or analysis", deps.ErrInvalidArgument)
	}
	for _, ref := range a.References() {
		simple, err := deps.ReferenceTypes(ref)
		if errors.Is(err, deps.ErrUnsupportedSymbol) {
			continue
		}
		if err != nil {
			return err
		}
		owner, err := g.owner(ref.Node, root, namespace)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(simple))
		for _, t := range simple {
			key, ok := typeKey(t)
			if !ok || key == owner || seen[key] {
				continue
			}
			seen[key] = true
			if err := g.vertex(key, "ellipse"); err != nil {
				return err
			}
			if err := g.count(owner, key); err != nil {
				return err
			}
		}
	}
	return nil
}

// owner adds the declaration chain above n and returns its innermost
// vertex.
func (g *Graph) owner(n, root types.Node, namespace string) (string, error) {
	var chain []string
	var last []string
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == types.KindDeclaration {
			if d, ok := p.(types.Declarator); ok {
				names := d.DeclaredNames()
				// a Go GenDecl and its single spec name the same thing
				if len(names) > 0 && !slices.Equal(names, last) {
					chain = append(chain, strings.Join(names, ","))
				}
				last = names
			}
		}
		if p == root {
			break
		}
	}
	slices.Reverse(chain)

	parent := namespace
	if parent == "" {
		parent = rootVertex
	}
	if err := g.vertex(parent, "box"); err != nil {
		return "", err
	}
	for _, name := range chain {
		key := name
		if parent != rootVertex {
			key = parent + "." + name
		}
		if err := g.vertex(key, "box"); err != nil {
			return "", err
		}
		if err := g.contain(parent, key); err != nil {
			return "", err
		}
		parent = key
	}
	return parent, nil
}

// typeKey names the vertex for a simple type. Type parameters and
// unnamed shapes have none.
func typeKey(t types.Type) (string, bool) {
	n, ok := t.(*types.Named)
	if !ok {
		return "", false
	}
	if n.Namespace() == "" {
		return n.Name(), true
	}
	return n.Namespace() + "." + n.Name(), true
}

func (g *Graph) vertex(key, shape string) error {
	err := g.g.AddVertex(key, graph.VertexAttribute("shape", shape))
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return err
	}
	return nil
}

func (g *Graph) contain(from, to string) error {
	if from == to {
		return nil
	}
	err := g.g.AddEdge(from, to, graph.EdgeAttribute("style", "dashed"))
	if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
		return err
	}
	return nil
}

func (g *Graph) count(from, to string) error {
	e, err := g.g.Edge(from, to)
	if errors.Is(err, graph.ErrEdgeNotFound) {
		return g.g.AddEdge(from, to, graph.EdgeWeight(1))
	}
	if err != nil {
		return err
	}
	return g.g.UpdateEdge(from, to, graph.EdgeWeight(e.Properties.Weight+1))
}

// Order returns the number of vertices.
func (g *Graph) Order() (int, error) {
	return g.g.Order()
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() ([]Edge, error) {
	edges, err := g.g.Edges()
	if err != nil {
		return nil, err
	}
	out := make([]Edge, 0, len(edges))
	for _, e := range edges {
		out = append(out, Edge{From: e.Source, To: e.Target, Weight: e.Properties.Weight})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out, nil
}

// Cycles returns the strongly connected components that form dependency
// cycles, each sorted, in sorted order.
func (g *Graph) Cycles() ([][]string, error) {
	sccs, err := graph.StronglyConnectedComponents(g.g)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for _, c := range sccs {
		if len(c) == 1 {
			if _, err := g.g.Edge(c[0], c[0]); err != nil {
				continue
			}
		}
		sort.Strings(c)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out, nil
}

// WriteDOT renders the graph in Graphviz DOT.
func (g *Graph) WriteDOT(w io.Writer) error {
	return draw.DOT(g.g, w, draw.GraphAttribute("rankdir", "LR"))
}

// WriteText writes one "from -> to (n)" line per dependency, then the
// cycles.
func (g *Graph) WriteText(w io.Writer) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	for _, e := range edges {
		if e.Weight == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s -> %s (%d)\n", e.From, e.To, e.Weight); err != nil {
			return err
		}
	}
	cycles, err := g.Cycles()
	if err != nil {
		return err
	}
	for _, c := range cycles {
		if _, err := fmt.Fprintf(w, "cycle: %s\n", strings.Join(c, ", ")); err != nil {
			return err
		}
	}
	return nil
}
