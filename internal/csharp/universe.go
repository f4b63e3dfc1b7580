// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package csharp

import "github.com/petar-djukic/go-deps/pkg/types"

// universe holds the framework types and namespaces the resolver knows
// without seeing their declarations.
type universe struct {
	keywords   map[string]types.Type
	named      map[string][]*types.Named
	namespaces map[string]*types.Namespace
	members    map[*types.Named]map[string][]types.Symbol

	object, boolean, char, int32, int64, uint32, uint64 *types.Named
	float32, float64, decimal, void, typ, nullable     *types.Named
	valueTuples                                        []*types.Named
}

var builtins = newUniverse()

func tps(names ...string) []*types.TypeParam {
	out := make([]*types.TypeParam, len(names))
	for i, n := range names {
		out[i] = types.NewTypeParam(n, i)
	}
	return out
}

func newUniverse() *universe {
	u := &universe{
		keywords:   make(map[string]types.Type),
		named:      make(map[string][]*types.Named),
		namespaces: make(map[string]*types.Namespace),
		members:    make(map[*types.Named]map[string][]types.Symbol),
	}
	for _, ns := range []string{
		"System", "System.Collections", "System.Collections.Generic", "System.Linq",
		"System.Text", "System.IO", "System.Threading", "System.Threading.Tasks",
	} {
		u.namespaces[ns] = types.NewNamespace(ns)
	}

	keyword := func(kw, clr string, value bool) *types.Named {
		opts := []types.NamedOption{types.InNamespace("System")}
		if value {
			opts = append(opts, types.ValueType())
		}
		t := types.NewNamed(kw, nil, opts...)
		u.keywords[kw] = t
		u.add(clr, t)
		return t
	}
	u.object = keyword("object", "Object", false)
	u.keywords["string"] = types.StringType
	u.add("String", types.StringType)
	u.boolean = keyword("bool", "Boolean", true)
	keyword("byte", "Byte", true)
	keyword("sbyte", "SByte", true)
	u.char = keyword("char", "Char", true)
	keyword("short", "Int16", true)
	keyword("ushort", "UInt16", true)
	u.int32 = keyword("int", "Int32", true)
	u.uint32 = keyword("uint", "UInt32", true)
	u.int64 = keyword("long", "Int64", true)
	u.uint64 = keyword("ulong", "UInt64", true)
	keyword("nint", "IntPtr", true)
	keyword("nuint", "UIntPtr", true)
	u.float32 = keyword("float", "Single", true)
	u.float64 = keyword("double", "Double", true)
	u.decimal = keyword("decimal", "Decimal", true)
	u.void = keyword("void", "Void", true)
	u.keywords["dynamic"] = types.DynamicType

	def := func(ns, name string, params []*types.TypeParam, opts ...types.NamedOption) *types.Named {
		t := types.NewNamed(name, params, append(opts, types.InNamespace(ns))...)
		u.add(name, t)
		return t
	}
	u.nullable = def("System", "Nullable", tps("T"), types.ValueType(), types.NullableWrapper())
	u.typ = def("System", "Type", nil)
	for _, name := range []string{
		"Exception", "Attribute", "Console", "Math", "Array", "Delegate", "Enum",
		"EventArgs", "EventHandler", "IDisposable", "Action",
	} {
		def("System", name, nil)
	}
	for _, name := range []string{"DateTime", "TimeSpan", "Guid", "RuntimeArgumentHandle"} {
		def("System", name, nil, types.ValueType())
	}
	def("System.Threading.Tasks", "Task", nil)
	def("System.Text", "StringBuilder", nil)
	def("System.Collections", "IEnumerable", nil)

	def("System", "Action", tps("T"))
	def("System", "Action", tps("T1", "T2"))
	def("System", "Action", tps("T1", "T2", "T3"))
	def("System", "Func", tps("TResult"))
	def("System", "Func", tps("T", "TResult"))
	def("System", "Func", tps("T1", "T2", "TResult"))
	def("System", "Func", tps("T1", "T2", "T3", "TResult"))
	def("System", "Lazy", tps("T"))
	def("System", "Tuple", tps("T1", "T2"))
	def("System", "Span", tps("T"), types.ValueType())
	def("System", "ReadOnlySpan", tps("T"), types.ValueType())
	def("System", "IComparable", tps("T"))
	def("System", "IEquatable", tps("T"))
	def("System", "EventHandler", tps("TEventArgs"))
	def("System.Threading.Tasks", "Task", tps("TResult"))
	def("System.Threading.Tasks", "ValueTask", tps("TResult"), types.ValueType())

	list := def("System.Collections.Generic", "List", tps("T"))
	for _, name := range []string{"IList", "ICollection", "IEnumerable", "IReadOnlyList", "HashSet", "Queue", "Stack"} {
		def("System.Collections.Generic", name, tps("T"))
	}
	for _, name := range []string{"Dictionary", "IDictionary", "IReadOnlyDictionary"} {
		def("System.Collections.Generic", name, tps("TKey", "TValue"))
	}
	def("System.Collections.Generic", "KeyValuePair", tps("TKey", "TValue"), types.ValueType())

	for arity := 1; arity <= 7; arity++ {
		names := make([]string, arity)
		for i := range names {
			names[i] = "T" + string(rune('1'+i))
		}
		u.valueTuples = append(u.valueTuples, def("System", "ValueTuple", tps(names...), types.ValueType()))
	}

	// A few members that test data and everyday code lean on.
	u.member(types.StringType, types.NewProperty("Length", u.int32))
	u.member(u.object, types.NewMethod("ToString", nil, nil, types.StringType))
	u.member(u.lookupOne("Array", 0), types.NewProperty("Length", u.int32))
	u.member(list, types.NewProperty("Count", u.int32))
	u.member(list, types.NewMethod("Add", nil, []*types.Parameter{types.NewParameter("item", list.TypeParams()[0])}, u.void))
	console := u.lookupOne("Console", 0)
	u.member(console, types.NewMethod("WriteLine", nil, []*types.Parameter{types.NewParameter("value", u.object)}, u.void))
	u.member(console, types.NewMethod("WriteLine", nil, nil, u.void))
	return u
}

func (u *universe) add(name string, t *types.Named) {
	u.named[name] = append(u.named[name], t)
}

func (u *universe) member(owner *types.Named, sym types.Symbol) {
	if owner == nil {
		return
	}
	m := u.members[owner]
	if m == nil {
		m = make(map[string][]types.Symbol)
		u.members[owner] = m
	}
	m[sym.Name()] = append(m[sym.Name()], sym)
}

// lookupOne returns the framework type with the given name and arity.
func (u *universe) lookupOne(name string, arity int) *types.Named {
	for _, t := range u.named[name] {
		if len(t.TypeParams()) == arity {
			return t
		}
	}
	return nil
}

// inNamespace returns the framework type declared in ns.
func (u *universe) inNamespace(ns, name string, arity int) *types.Named {
	for _, t := range u.named[name] {
		if t.Namespace() == ns && len(t.TypeParams()) == arity {
			return t
		}
	}
	return nil
}
