// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import (
	"strings"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// declarationTypes are the member and namespace declarations that delimit
// a reporting scope.
var declarationTypes = map[string]bool{
	"namespace_declaration":             true,
	"file_scoped_namespace_declaration": true,
	"class_declaration":                 true,
	"struct_declaration":                true,
	"interface_declaration":             true,
	"record_declaration":                true,
	"record_struct_declaration":         true,
	"enum_declaration":                  true,
	"delegate_declaration":              true,
	"field_declaration":                 true,
	"event_field_declaration":           true,
	"event_declaration":                 true,
	"property_declaration":              true,
	"indexer_declaration":               true,
	"method_declaration":                true,
	"constructor_declaration":           true,
	"destructor_declaration":            true,
	"operator_declaration":              true,
	"conversion_operator_declaration":   true,
	"enum_member_declaration":           true,
	"global_statement":                  true,
}

// typeDeclarationTypes declare named types.
var typeDeclarationTypes = map[string]bool{
	"class_declaration":         true,
	"struct_declaration":        true,
	"interface_declaration":     true,
	"record_declaration":        true,
	"record_struct_declaration": true,
	"enum_declaration":          true,
	"delegate_declaration":      true,
}

var typeSyntaxTypes = map[string]bool{
	"identifier":            true,
	"generic_name":          true,
	"qualified_name":        true,
	"alias_qualified_name":  true,
	"predefined_type":       true,
	"nullable_type":         true,
	"array_type":            true,
	"pointer_type":          true,
	"function_pointer_type": true,
	"tuple_type":            true,
	"implicit_type":         true,
	"void_keyword":          true,
}

var literalTypes = map[string]bool{
	"string_literal":          true,
	"verbatim_string_literal": true,
	"raw_string_literal":      true,
	"character_literal":       true,
	"integer_literal":         true,
	"real_literal":            true,
	"boolean_literal":         true,
	"null_literal":            true,
}

// nameOwners maps node types whose name child is a declaring identifier
// rather than a reference.
var nameOwners = map[string]bool{
	"class_declaration":           true,
	"struct_declaration":          true,
	"interface_declaration":       true,
	"record_declaration":          true,
	"record_struct_declaration":   true,
	"enum_declaration":            true,
	"delegate_declaration":        true,
	"method_declaration":          true,
	"constructor_declaration":     true,
	"destructor_declaration":      true,
	"event_declaration":           true,
	"property_declaration":        true,
	"enum_member_declaration":     true,
	"local_function_statement":    true,
	"variable_declarator":         true,
	"parameter":                   true,
	"type_parameter":              true,
	"labeled_statement":           true,
	"catch_declaration":           true,
	"foreach_statement":           true,
	"from_clause":                 true,
	"let_clause":                  true,
	"join_clause":                 true,
	"query_continuation":          true,
	"tuple_element":               true,
	"name_equals":                 true,
	"single_variable_designation": true,
	"declaration_expression":      true,
}

// textStatements print their source text in a scope report.
var textStatements = map[string]bool{
	"local_declaration_statement": true,
	"local_function_statement":    true,
	"expression_statement":        true,
}

// classify maps a native node type onto the engine's node kinds.
// Declaring identifiers are never references.
func classify(typ string, declaring bool, namedChildren int) types.NodeKind {
	switch {
	case typ == "compilation_unit":
		return types.KindCompilationUnit
	case declarationTypes[typ]:
		return types.KindDeclaration
	case typ == "block" || strings.HasSuffix(typ, "_statement"):
		return types.KindStatement
	case typ == "ref_type":
		return types.KindRefType
	case typ == "identifier" && declaring:
		return types.KindOther
	case typeSyntaxTypes[typ]:
		return types.KindTypeSyntax
	case literalTypes[typ]:
		return types.KindLiteral
	case typ == "default_expression" && namedChildren == 0:
		return types.KindLiteral
	case typ == "interpolated_string_expression":
		return types.KindInterpolation
	default:
		return types.KindOther
	}
}
