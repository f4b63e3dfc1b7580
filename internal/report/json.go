// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package report

import (
	"encoding/json"
	"fmt"

	"github.com/petar-djukic/go-deps/pkg/deps"
	"github.com/petar-djukic/go-deps/pkg/types"
)

// ScopeJSON is the serialized form of a Scope.
type ScopeJSON struct {
	Kind       string          `json:"kind"`
	Names      []string        `json:"names,omitempty"`
	Span       string          `json:"span"`
	References []ReferenceJSON `json:"references,omitempty"`
	Scopes     []ScopeJSON     `json:"scopes,omitempty"`
}

// ReferenceJSON is the serialized form of a resolved reference.
type ReferenceJSON struct {
	Text   string   `json:"text"`
	Span   string   `json:"span"`
	Symbol string   `json:"symbol,omitempty"`
	Kind   string   `json:"kind,omitempty"`
	Types  []string `json:"types,omitempty"`
}

// JSON renders the scope tree as indented JSON. With withTypes each
// reference lists the simple types it depends on, without duplicates.
func JSON(root types.Node, a *deps.Analysis, withTypes bool) ([]byte, error) {
	out, err := toJSON(Scopes(root, a), withTypes)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(out, "", "  ")
}

func toJSON(s *Scope, withTypes bool) (ScopeJSON, error) {
	out := ScopeJSON{Kind: s.Node.Type(), Span: s.Node.Span().String()}
	if d, ok := s.Node.(types.Declarator); ok {
		out.Names = d.DeclaredNames()
	}
	for _, ref := range s.References {
		r := ReferenceJSON{Text: ref.Node.Text(), Span: ref.Node.Span().String()}
		if ref.Symbol != nil {
			r.Symbol = ref.Symbol.String()
			r.Kind = ref.Symbol.Kind().String()
		}
		if withTypes {
			ts, err := deps.ReferenceTypes(ref)
			if err != nil {
				return ScopeJSON{}, fmt.Errorf("decomposing %q at %s: %w", r.Text, r.Span, err)
			}
			for _, t := range types.Distinct(ts) {
				r.Types = append(r.Types, t.String())
			}
		}
		out.References = append(out.References, r)
	}
	for _, c := range s.Children {
		cj, err := toJSON(c, withTypes)
		if err != nil {
			return ScopeJSON{}, err
		}
		out.Scopes = append(out.Scopes, cj)
	}
	return out, nil
}
