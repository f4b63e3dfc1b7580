// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// NodeKind classifies a syntax node for the dependency engine. Front-ends
// map their native node types onto this closed set.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindCompilationUnit
	KindDeclaration
	KindStatement
	KindTypeSyntax
	KindRefType
	KindOmittedTypeArgument
	KindLiteral
	KindArgList
	KindInterpolation
)

// String returns the human-readable name of the node kind.
func (k NodeKind) String() string {
	switch k {
	case KindCompilationUnit:
		return "CompilationUnit"
	case KindDeclaration:
		return "Declaration"
	case KindStatement:
		return "Statement"
	case KindTypeSyntax:
		return "TypeSyntax"
	case KindRefType:
		return "RefType"
	case KindOmittedTypeArgument:
		return "OmittedTypeArgument"
	case KindLiteral:
		return "Literal"
	case KindArgList:
		return "ArgList"
	case KindInterpolation:
		return "Interpolation"
	default:
		return "Other"
	}
}

// IsTypeSyntax reports whether k is one of the type syntax kinds.
func (k NodeKind) IsTypeSyntax() bool {
	return k == KindTypeSyntax || k == KindRefType || k == KindOmittedTypeArgument
}

// IsLiteral reports whether k is a literal expression kind.
func (k NodeKind) IsLiteral() bool {
	return k == KindLiteral || k == KindArgList
}

// IsScope reports whether nodes of kind k delimit a reporting scope.
func (k NodeKind) IsScope() bool {
	return k == KindCompilationUnit || k == KindDeclaration || k == KindStatement
}

// Pos is a 1-based line and column.
type Pos struct {
	Line   int
	Column int
}

// Span is the source range of a node.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Contains reports whether p falls inside s.
func (s Span) Contains(p Pos) bool {
	if p.Line < s.Start.Line || p.Line > s.End.Line {
		return false
	}
	if p.Line == s.Start.Line && p.Column < s.Start.Column {
		return false
	}
	if p.Line == s.End.Line && p.Column > s.End.Column {
		return false
	}
	return true
}

// Node is a node of a parsed source tree. Nodes are owned by their tree,
// are compared by identity, and are never mutated by the engine.
type Node interface {
	Kind() NodeKind
	// Type is the front-end's native node type, e.g. "class_declaration"
	// or "*ast.FuncDecl".
	Type() string
	Parent() Node
	Children() []Node
	Span() Span
	Text() string
}

// Declarator is implemented by declaration nodes that introduce names.
type Declarator interface {
	DeclaredNames() []string
}

// TextPrinter is implemented by nodes that decide whether a scope report
// prints their source text.
type TextPrinter interface {
	PrintsText() bool
}
