// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package deps

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-deps/pkg/types"
)

var (
	objectType = types.NewNamed("object", nil, types.InNamespace("System"))
	intType    = types.NewNamed("int", nil, types.InNamespace("System"), types.ValueType())
	listDef    = types.NewNamed("List", []*types.TypeParam{types.NewTypeParam("T", 0)},
		types.InNamespace("System.Collections.Generic"))
	dictDef = types.NewNamed("Dictionary",
		[]*types.TypeParam{types.NewTypeParam("TKey", 0), types.NewTypeParam("TValue", 1)},
		types.InNamespace("System.Collections.Generic"))
	nullableDef = types.NewNamed("Nullable", []*types.TypeParam{types.NewTypeParam("T", 0)},
		types.InNamespace("System"), types.ValueType(), types.NullableWrapper())
)

func construct(t *testing.T, def *types.Named, args ...types.Type) *types.Named {
	t.Helper()
	c, err := def.Construct(args...)
	require.NoError(t, err)
	return c
}

func names(ts []types.Type) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}
