// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package golang

import (
	"go/ast"
	gotypes "go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/petar-djukic/go-deps/pkg/types"
)

// Built-in generic shapes. Go has no named generic for these, so the
// engine sees map[K]V as map<K, V>, chan T as chan<T>, and a result list
// as tuple<...>.
var (
	mapType  = types.NewNamed("map", []*types.TypeParam{types.NewTypeParam("K", 0), types.NewTypeParam("V", 1)})
	chanType = types.NewNamed("chan", []*types.TypeParam{types.NewTypeParam("T", 0)})
	tuples   = map[int]*types.Named{}
	basics   = map[gotypes.BasicKind]*types.Named{}
)

func init() {
	for k := gotypes.Bool; k <= gotypes.UnsafePointer; k++ {
		b := gotypes.Typ[k]
		if k == gotypes.String {
			basics[k] = types.StringType
			continue
		}
		basics[k] = types.NewNamed(b.Name(), nil, types.ValueType())
	}
	for n := 2; n <= 8; n++ {
		params := make([]*types.TypeParam, n)
		for i := range params {
			params[i] = types.NewTypeParam("T"+string(rune('1'+i)), i)
		}
		tuples[n] = types.NewNamed("tuple", params, types.ValueType())
	}
}

// converter maps go/types values to engine symbols. Results are memoized
// so that a definition converts to the same *types.Named every time; the
// memo is guarded because resolvers are shared across goroutines.
type converter struct {
	mu      sync.Mutex
	typ     typeutil.Map
	names   map[*gotypes.TypeName]*types.Named
	tparams map[*gotypes.TypeParam]*types.TypeParam
	funcs   map[*gotypes.Func]*types.Method
	objects map[gotypes.Object]types.Symbol
	params  map[*gotypes.Var]bool
}

func newConverter() *converter {
	return &converter{
		names:   make(map[*gotypes.TypeName]*types.Named),
		tparams: make(map[*gotypes.TypeParam]*types.TypeParam),
		funcs:   make(map[*gotypes.Func]*types.Method),
		objects: make(map[gotypes.Object]types.Symbol),
		params:  make(map[*gotypes.Var]bool),
	}
}

// markParams records the parameters, receivers, and named results
// declared by a function signature.
func (c *converter) markParams(info *gotypes.Info, ft *ast.FuncType, recv *ast.FieldList) {
	for _, list := range []*ast.FieldList{recv, ft.Params, ft.Results} {
		if list == nil {
			continue
		}
		for _, field := range list.List {
			for _, name := range field.Names {
				if v, ok := info.Defs[name].(*gotypes.Var); ok {
					c.params[v] = true
				}
			}
		}
	}
}

// Type converts t.
func (c *converter) Type(t gotypes.Type) types.Type {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.convert(t)
}

// Object converts a declared object to the entity it denotes.
func (c *converter) Object(obj gotypes.Object) types.Symbol {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.objects[obj]; ok {
		return s
	}
	s := c.object(obj)
	c.objects[obj] = s
	return s
}

// Instance constructs the generic function fn with args.
func (c *converter) Instance(fn *gotypes.Func, args *gotypes.TypeList) types.Symbol {
	c.mu.Lock()
	defer c.mu.Unlock()
	def := c.function(fn)
	if args == nil || args.Len() != len(def.TypeParameters()) {
		return def
	}
	conv := make([]types.Type, args.Len())
	for i := range conv {
		conv[i] = c.convert(args.At(i))
	}
	m, err := def.Construct(conv...)
	if err != nil {
		return def
	}
	return m
}

func (c *converter) object(obj gotypes.Object) types.Symbol {
	switch o := obj.(type) {
	case *gotypes.PkgName:
		return types.NewNamespace(o.Imported().Path())
	case *gotypes.TypeName:
		return c.convert(o.Type())
	case *gotypes.Func:
		return c.function(o)
	case *gotypes.Var:
		t := c.convert(o.Type())
		switch {
		case o.Name() == "_":
			return types.NewDiscard(t)
		case o.IsField():
			return types.NewField(o.Name(), t)
		case c.params[o.Origin()] || c.params[o]:
			return types.NewParameter(o.Name(), t)
		case o.Pkg() != nil && o.Parent() == o.Pkg().Scope():
			return types.NewField(o.Name(), t)
		default:
			return types.NewLocal(o.Name(), t)
		}
	case *gotypes.Const:
		t := c.convert(gotypes.Default(o.Type()))
		if o.Pkg() != nil && o.Parent() == o.Pkg().Scope() {
			return types.NewField(o.Name(), t)
		}
		return types.NewLocal(o.Name(), t)
	case *gotypes.Label:
		return types.NewLabel(o.Name())
	case *gotypes.Builtin:
		return types.NewMethod(o.Name(), nil, nil, nil)
	default:
		return nil
	}
}

// function converts a func or method. Methods of instantiated receivers
// come with substituted signatures and convert as plain methods.
func (c *converter) function(fn *gotypes.Func) *types.Method {
	if m, ok := c.funcs[fn]; ok {
		return m
	}
	sig, _ := fn.Type().(*gotypes.Signature)
	if sig == nil {
		m := types.NewMethod(fn.Name(), nil, nil, nil)
		c.funcs[fn] = m
		return m
	}
	var tparams []*types.TypeParam
	for i := 0; i < sig.TypeParams().Len(); i++ {
		tparams = append(tparams, c.typeParam(sig.TypeParams().At(i)))
	}
	var params []*types.Parameter
	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		params = append(params, types.NewParameter(p.Name(), c.convert(p.Type())))
	}
	m := types.NewMethod(fn.Name(), tparams, params, c.results(sig.Results()))
	c.funcs[fn] = m
	return m
}

// results converts a result list: nothing, a single type, or a tuple.
func (c *converter) results(rs *gotypes.Tuple) types.Type {
	switch rs.Len() {
	case 0:
		return nil
	case 1:
		return c.convert(rs.At(0).Type())
	}
	def, ok := tuples[rs.Len()]
	if !ok {
		return types.NewOpaque(rs.String())
	}
	args := make([]types.Type, rs.Len())
	for i := range args {
		args[i] = c.convert(rs.At(i).Type())
	}
	t, err := def.Construct(args...)
	if err != nil {
		return types.NewOpaque(rs.String())
	}
	return t
}

func (c *converter) typeParam(tp *gotypes.TypeParam) *types.TypeParam {
	if p, ok := c.tparams[tp]; ok {
		return p
	}
	p := types.NewTypeParam(tp.Obj().Name(), tp.Index())
	c.tparams[tp] = p
	return p
}

// definition returns the engine type for a declared named type.
func (c *converter) definition(obj *gotypes.TypeName, named *gotypes.Named) *types.Named {
	if d, ok := c.names[obj]; ok {
		return d
	}
	var params []*types.TypeParam
	for i := 0; i < named.TypeParams().Len(); i++ {
		params = append(params, c.typeParam(named.TypeParams().At(i)))
	}
	var opts []types.NamedOption
	if obj.Pkg() != nil {
		opts = append(opts, types.InNamespace(obj.Pkg().Path()))
	}
	switch named.Underlying().(type) {
	case *gotypes.Interface, *gotypes.Pointer, *gotypes.Slice, *gotypes.Map,
		*gotypes.Chan, *gotypes.Signature:
	default:
		opts = append(opts, types.ValueType())
	}
	d := types.NewNamed(obj.Name(), params, opts...)
	c.names[obj] = d
	return d
}

func (c *converter) convert(t gotypes.Type) types.Type {
	if t == nil {
		return nil
	}
	if v := c.typ.At(t); v != nil {
		return v.(types.Type)
	}
	out := c.convertNew(t)
	if out != nil {
		c.typ.Set(t, out)
	}
	return out
}

func (c *converter) convertNew(t gotypes.Type) types.Type {
	switch t := t.(type) {
	case *gotypes.Alias:
		return c.convert(gotypes.Unalias(t))
	case *gotypes.Basic:
		if t.Info()&gotypes.IsUntyped != 0 {
			if t.Kind() == gotypes.UntypedNil {
				return nil
			}
			return c.convert(gotypes.Default(t))
		}
		if b, ok := basics[t.Kind()]; ok {
			return b
		}
		return types.NewOpaque(t.Name())
	case *gotypes.Named:
		def := c.definition(t.Origin().Obj(), t.Origin())
		targs := t.TypeArgs()
		if targs == nil || targs.Len() == 0 {
			return def
		}
		args := make([]types.Type, targs.Len())
		for i := range args {
			args[i] = c.convert(targs.At(i))
		}
		inst, err := def.Construct(args...)
		if err != nil {
			return types.NewError(t.String())
		}
		return inst
	case *gotypes.TypeParam:
		return c.typeParam(t)
	case *gotypes.Pointer:
		return types.NewPointer(c.convert(t.Elem()))
	case *gotypes.Slice:
		return types.NewArray(c.convert(t.Elem()), 1)
	case *gotypes.Array:
		return types.NewArray(c.convert(t.Elem()), 1)
	case *gotypes.Map:
		return c.construct(mapType, t.Key(), t.Elem())
	case *gotypes.Chan:
		return c.construct(chanType, t.Elem())
	case *gotypes.Signature:
		var params, results []types.Type
		for i := 0; i < t.Params().Len(); i++ {
			params = append(params, c.convert(t.Params().At(i).Type()))
		}
		for i := 0; i < t.Results().Len(); i++ {
			results = append(results, c.convert(t.Results().At(i).Type()))
		}
		return types.NewFuncPointer(params, results)
	case *gotypes.Tuple:
		return c.results(t)
	default:
		// struct and interface literals
		return types.NewOpaque(strings.TrimSpace(gotypes.TypeString(t, relativeTo(nil))))
	}
}

func (c *converter) construct(def *types.Named, args ...gotypes.Type) types.Type {
	conv := make([]types.Type, len(args))
	for i, a := range args {
		conv[i] = c.convert(a)
	}
	t, err := def.Construct(conv...)
	if err != nil {
		return types.NewError(def.Name())
	}
	return t
}

// relativeTo qualifies names by package name only.
func relativeTo(pkg *gotypes.Package) gotypes.Qualifier {
	return func(other *gotypes.Package) string {
		if pkg == other {
			return ""
		}
		return other.Name()
	}
}
