// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// StringType is the built-in string type. Interpolated strings resolve to
// it without consulting a resolver, and both front-ends map their string
// type to this value so references compare equal across sources.
var StringType = NewNamed("string", nil, InNamespace("System"))

// voidType is displayed as the result of function pointers that return
// nothing. It never appears in decomposer output.
var voidType = NewNamed("void", nil, InNamespace("System"))
