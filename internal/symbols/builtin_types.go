package symbols

import "icarus/internal/types"

// BindBuiltinTypes binds every builtin prelude symbol's Type field (left
// zero by name resolution, which runs before a *types.Interner exists) to
// its canonical TypeID in interner, so Identifier verification's
// VerifyScope.Lookup can hand back a real QualType for `int`, `bool`, and
// the rest of builtinPreludeEntries() instead of the zero-value NoTypeID.
// Mirrors internal/verify/literal.go's literal-to-builtin-type mapping
// (WidthAny ints, Slice(Char) for string, NoTypeID for nothing) since both
// describe the same builtin vocabulary from opposite ends: a literal's
// type there, a type name's meaning here.
func BindBuiltinTypes(table *Table, interner *types.Interner) {
	if table == nil || table.Symbols == nil || interner == nil {
		return
	}
	b := interner.Builtins()
	byName := map[string]types.TypeID{
		"int":     interner.Intern(types.MakeInt(types.WidthAny)),
		"uint":    interner.Intern(types.MakeUint(types.WidthAny)),
		"bool":    b.Bool,
		"float":   b.F64,
		"string":  interner.Intern(types.MakeSlice(b.Char)),
		"nothing": types.NoTypeID,
	}
	for i := range table.Symbols.Data() {
		sym := &table.Symbols.Data()[i]
		if sym.Kind != SymbolType || sym.Flags&SymbolFlagBuiltin == 0 {
			continue
		}
		name := table.Strings.MustLookup(sym.Name)
		if t, ok := byName[name]; ok {
			sym.Type = t
		}
	}
}
