// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report renders dependency analyses grouped by the scopes that
// contain each reference.
package report

import "strings"

// Line prefixes of the hierarchical text layout.
const (
	sectionPrefix = "| - "
	itemPrefix    = "| * "
	textPrefix    = "| # "
	openIndent    = "|   "
	lastIndent    = "    "
)

type entry struct {
	prefix   string
	text     string
	children []*entry
}

// Builder assembles an indented tree of titled sections, items, and text
// lines. Sections nest through callbacks.
type Builder struct {
	roots []*entry
	cur   *entry
}

func (b *Builder) add(prefix, text string) *entry {
	e := &entry{prefix: prefix, text: text}
	if b.cur == nil {
		b.roots = append(b.roots, e)
	} else {
		b.cur.children = append(b.cur.children, e)
	}
	return e
}

// Title starts a top-level block. Later calls nest under it until the next
// Title.
func (b *Builder) Title(text string) {
	e := &entry{text: text}
	b.roots = append(b.roots, e)
	b.cur = e
}

// Section adds a section and runs body with the section as the current
// parent.
func (b *Builder) Section(text string, body func()) {
	e := b.add(sectionPrefix, text)
	prev := b.cur
	b.cur = e
	if body != nil {
		body()
	}
	b.cur = prev
}

// Item adds a bullet entry.
func (b *Builder) Item(text string) { b.add(itemPrefix, text) }

// Text adds one entry per line of a multi-line source excerpt.
func (b *Builder) Text(text string) {
	for _, l := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.add(textPrefix, strings.TrimRight(l, "\r"))
	}
}

// String renders the tree. Nested entries are indented with a guide bar
// unless their parent is the last entry of its list.
func (b *Builder) String() string {
	var sb strings.Builder
	for _, root := range b.roots {
		sb.WriteString(root.text)
		sb.WriteByte('\n')
		render(&sb, root.children, "")
	}
	return sb.String()
}

func render(sb *strings.Builder, list []*entry, indent string) {
	for i, e := range list {
		sb.WriteString(indent)
		sb.WriteString(e.prefix)
		sb.WriteString(e.text)
		sb.WriteByte('\n')
		if len(e.children) == 0 {
			continue
		}
		next := indent + openIndent
		if i == len(list)-1 {
			next = indent + lastIndent
		}
		render(sb, e.children, next)
	}
}
