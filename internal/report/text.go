// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

const title = "Dependencies analysis:"

// Text renders the analysis as a scope hierarchy:
//
//	Dependencies analysis:
//	| - compilation_unit
//	    | - class_declaration: C
//	        | - field_declaration: Items
//	            | * List<int>? (Field)
//
// Scopes whose node is a types.TextPrinter print their source text when it
// asks for it; other statement scopes print it when they have no nested
// scopes.
func Text(root types.Node, a *deps.Analysis) string {
	var b Builder
	b.Title(title)
	appendScope(&b, Scopes(root, a))
	return b.String()
}

func appendScope(b *Builder, s *Scope) {
	b.Section(s.Title(), func() {
		if printsText(s) {
			b.Text(s.Node.Text())
		}
		for _, ref := range s.References {
			b.Item(ref.String())
		}
		for _, c := range s.Children {
			appendScope(b, c)
		}
	})
}

func printsText(s *Scope) bool {
	if p, ok := s.Node.(types.TextPrinter); ok {
		return p.PrintsText()
	}
	return s.Node.Kind() == types.KindStatement && s.IsLeaf()
}
