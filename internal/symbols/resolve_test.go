package symbols

import (
	"testing"

	"icarus/internal/ast"
	"icarus/internal/diag"
	"icarus/internal/source"
)

// These tests build AST fixtures directly through ast.Builder instead of
// parsing source text: this package has no lexer/parser of its own, the
// AST arrives as an external contract.

type fixture struct {
	t       *testing.T
	builder *ast.Builder
	file    ast.FileID
	srcFile source.FileID
	next    uint32
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	builder := ast.NewBuilder(ast.Hints{}, nil)
	srcFile := source.FileID(1)
	file := builder.NewFile(source.Span{File: srcFile})
	return &fixture{t: t, builder: builder, file: file, srcFile: srcFile}
}

func (f *fixture) span() source.Span {
	f.next += 2
	return source.Span{File: f.srcFile, Start: f.next - 2, End: f.next}
}

func (f *fixture) name(s string) source.StringID {
	return f.builder.StringsInterner.Intern(s)
}

func (f *fixture) push(item ast.ItemID) {
	f.builder.PushItem(f.file, item)
}

func (f *fixture) resolve(opts *ResolveOptions) (Result, *diag.Bag) {
	bag := diag.NewBag(16)
	if opts == nil {
		opts = &ResolveOptions{}
	}
	opts.Reporter = &diag.BagReporter{Bag: bag}
	opts.Validate = true
	res := ResolveFile(f.builder, f.file, opts)
	return res, bag
}

func (f *fixture) fn(name string, params []ast.FnParam, body ast.StmtID, flags ast.FnModifier, attrs []ast.Attr) ast.ItemID {
	return f.builder.NewFn(f.name(name), f.span(), params, ast.NoTypeID, body, flags, attrs, f.span())
}

func (f *fixture) tag(name string) ast.ItemID {
	return f.builder.NewTag(f.name(name), nil, nil, false, source.Span{}, nil, nil, ast.VisPrivate, f.span())
}

func (f *fixture) let(name string, value ast.ExprID) ast.ItemID {
	return f.builder.Items.NewLet(f.name(name), ast.NoTypeID, value, false, ast.VisPrivate, f.span())
}

func (f *fixture) typeAlias(name string) ast.ItemID {
	return f.builder.NewTypeAlias(f.name(name), nil, nil, false, source.Span{}, nil, f.span(), source.Span{}, source.Span{}, nil, ast.VisPrivate, ast.NoTypeID, f.span())
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.builder.Exprs.NewIdent(f.span(), f.name(name))
}

func (f *fixture) call(target ast.ExprID) ast.ExprID {
	return f.builder.Exprs.NewCall(f.span(), target, nil, nil, nil, false)
}

func (f *fixture) member(target ast.ExprID, field string) ast.ExprID {
	return f.builder.Exprs.NewMember(f.span(), target, f.name(field))
}

func (f *fixture) block(stmts ...ast.StmtID) ast.StmtID {
	return f.builder.Stmts.NewBlock(f.span(), stmts)
}

func (f *fixture) exprStmt(e ast.ExprID) ast.StmtID {
	return f.builder.Stmts.NewExpr(f.span(), e, false)
}

func (f *fixture) returnStmt(e ast.ExprID) ast.StmtID {
	return f.builder.Stmts.NewReturn(f.span(), e)
}

func (f *fixture) letStmt(name string, value ast.ExprID) ast.StmtID {
	return f.builder.Stmts.NewLet(f.span(), f.name(name), ast.NoExprID, ast.NoTypeID, value, false)
}

func (f *fixture) param(name string) ast.FnParam {
	return ast.FnParam{Name: f.name(name), Type: ast.NoTypeID}
}

func (f *fixture) overloadAttr() []ast.Attr {
	return []ast.Attr{{Name: f.name("overload")}}
}

func (f *fixture) overrideAttr() []ast.Attr {
	return []ast.Attr{{Name: f.name("override")}}
}

func (f *fixture) externFn(name string, params []ast.FnParam, body ast.StmtID, flags ast.FnModifier, attrs []ast.Attr) ast.ExternMemberSpec {
	payload := f.builder.NewExternFn(f.name(name), f.span(), params, ast.NoTypeID, body, flags, attrs, f.span())
	return ast.ExternMemberSpec{Kind: ast.ExternMemberFn, Fn: payload, Span: f.span()}
}

func (f *fixture) extern(members ...ast.ExternMemberSpec) ast.ItemID {
	return f.builder.NewExtern(ast.NoTypeID, nil, members, f.span())
}

func (f *fixture) contract(name string) ast.ItemID {
	return f.builder.NewContract(f.name(name), f.span(), nil, nil, false, source.Span{}, f.span(), source.Span{}, nil, nil, ast.VisPrivate, f.span())
}

func (f *fixture) intrinsicAttr() []ast.Attr {
	return []ast.Attr{{Name: f.name("intrinsic")}}
}

func containsCode(bag *diag.Bag, code diag.Code) bool {
	for _, item := range bag.Items() {
		if item.Code == code {
			return true
		}
	}
	return false
}

func expectNoDiagnostics(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag == nil {
		return
	}
	if bag.Len() != 0 {
		for _, d := range bag.Items() {
			t.Logf("diagnostic: %s %s", d.Code, d.Message)
		}
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestResolveFileDeclaresTopLevelSymbols(t *testing.T) {
	f := newFixture(t)
	f.push(f.let("answer", f.builder.Exprs.NewLiteral(f.span(), ast.ExprLitInt, f.name("42"))))
	f.push(f.fn("compute", nil, ast.NoStmtID, 0, nil))
	f.push(f.typeAlias("ID"))

	res, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)

	expected := map[string]bool{"answer": false, "compute": false, "ID": false}
	for _, sym := range res.Table.Symbols.Data() {
		name := f.builder.StringsInterner.MustLookup(sym.Name)
		if _, ok := expected[name]; ok {
			expected[name] = true
		}
	}
	for name, ok := range expected {
		if !ok {
			t.Fatalf("expected symbol %s to be declared", name)
		}
	}
}

func TestResolveFileDuplicateLetReported(t *testing.T) {
	f := newFixture(t)
	f.push(f.let("value", ast.NoExprID))
	f.push(f.let("value", ast.NoExprID))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if got := bag.Items()[0].Code; got != diag.SemaDuplicateSymbol {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", got)
	}
}

func TestResolveAllowsFunctionOverloads(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", nil, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, f.overloadAttr()))

	res, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)

	nameID := f.name("compute")
	scope := res.Table.Scopes.Get(res.FileScope)
	if scope == nil {
		t.Fatalf("missing file scope")
	}
	if len(scope.NameIndex[nameID]) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(scope.NameIndex[nameID]))
	}
}

func TestResolveFunctionParamDuplicates(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("f", []ast.FnParam{f.param("a"), f.param("a")}, ast.NoStmtID, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", bag.Items()[0].Code)
	}
}

func TestResolveDuplicateFunctionWithoutAttribute(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", nil, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", nil, ast.NoStmtID, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	item := bag.Items()[0]
	if item.Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", item.Code)
	}
	if len(item.Fixes) == 0 {
		t.Fatalf("expected quick-fix suggestion")
	}
	if item.Fixes[0].Title != "mark function as override" {
		t.Fatalf("expected override suggestion, got %q", item.Fixes[0].Title)
	}
}

func TestResolveOverrideRequiresExistingFunction(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", nil, ast.NoStmtID, 0, f.overrideAttr()))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", bag.Items()[0].Code)
	}
}

func TestResolveDuplicateFunctionWithoutAttributeSuggestsOverload(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", []ast.FnParam{f.param("a"), f.param("b")}, ast.NoStmtID, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	item := bag.Items()[0]
	if item.Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", item.Code)
	}
	if len(item.Fixes) == 0 || item.Fixes[0].Title != "mark function as overload" {
		t.Fatalf("expected overload suggestion, got %+v", item.Fixes)
	}
}

func TestResolveOverloadDuplicateSignature(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, f.overloadAttr()))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", bag.Items()[0].Code)
	}
}

func TestResolveOverrideMismatchedSignature(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", []ast.FnParam{f.param("a"), f.param("b")}, ast.NoStmtID, 0, f.overrideAttr()))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", bag.Items()[0].Code)
	}
}

func TestResolveOverrideMatchingSignature(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, nil))
	f.push(f.fn("compute", []ast.FnParam{f.param("a")}, ast.NoStmtID, 0, f.overrideAttr()))

	_, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)
}

func TestResolveTagAndFunctionSameNameAllowed(t *testing.T) {
	f := newFixture(t)
	f.push(f.tag("Foo"))
	f.push(f.fn("Foo", nil, ast.NoStmtID, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnNameStyle {
		t.Fatalf("expected SemaFnNameStyle, got %v", bag.Items()[0].Code)
	}
}

func TestResolveAmbiguousConstructorCall(t *testing.T) {
	f := newFixture(t)
	f.push(f.tag("Foo"))
	f.push(f.fn("Foo", nil, ast.NoStmtID, 0, nil))
	call := f.call(f.ident("Foo"))
	body := f.block(f.exprStmt(call))
	f.push(f.fn("run", nil, body, 0, nil))

	_, bag := f.resolve(nil)
	if !containsCode(bag, diag.SemaAmbiguousCtorOrFn) {
		t.Fatalf("expected SemaAmbiguousCtorOrFn diagnostic, got %+v", bag.Items())
	}
}

func TestResolveModuleMemberUsesExports(t *testing.T) {
	f := newFixture(t)
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{}, false, nil, false))
	callExpr := f.call(f.member(f.ident("foo"), "bar"))
	body := f.block(f.exprStmt(callExpr))
	f.push(f.fn("run", nil, body, 0, nil))

	exports := NewModuleExports("foo")
	exports.Add(&ExportedSymbol{Name: "bar", Kind: SymbolFunction, Flags: SymbolFlagPublic})

	_, bag := f.resolve(&ResolveOptions{ModuleExports: map[string]*ModuleExports{"foo": exports}})
	expectNoDiagnostics(t, bag)
}

func TestResolveModuleMemberMissing(t *testing.T) {
	f := newFixture(t)
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{}, false, nil, false))
	callExpr := f.call(f.member(f.ident("foo"), "missing"))
	body := f.block(f.exprStmt(callExpr))
	f.push(f.fn("run", nil, body, 0, nil))

	exports := NewModuleExports("foo")
	_, bag := f.resolve(&ResolveOptions{ModuleExports: map[string]*ModuleExports{"foo": exports}})
	if !containsCode(bag, diag.SemaModuleMemberNotFound) {
		t.Fatalf("expected SemaModuleMemberNotFound, got %+v", bag.Items())
	}
}

func TestResolveModuleMemberNotPublic(t *testing.T) {
	f := newFixture(t)
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{}, false, nil, false))
	callExpr := f.call(f.member(f.ident("foo"), "hidden"))
	body := f.block(f.exprStmt(callExpr))
	f.push(f.fn("run", nil, body, 0, nil))

	exports := NewModuleExports("foo")
	exports.Add(&ExportedSymbol{Name: "hidden", Kind: SymbolFunction, Flags: 0})
	_, bag := f.resolve(&ResolveOptions{ModuleExports: map[string]*ModuleExports{"foo": exports}})
	if !containsCode(bag, diag.SemaModuleMemberNotPublic) {
		t.Fatalf("expected SemaModuleMemberNotPublic, got %+v", bag.Items())
	}
}

func TestResolveDuplicateModuleImport(t *testing.T) {
	f := newFixture(t)
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{}, false, nil, false))
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, f.name("bar"), ast.ImportOne{}, false, nil, false))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", bag.Items()[0].Code)
	}
}

func TestResolveModuleAndItemImportDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{}, false, nil, false))
	f.push(f.builder.NewImport(f.span(), []source.StringID{f.name("foo")}, source.NoStringID, ast.ImportOne{Name: f.name("bar")}, true, nil, false))

	_, bag := f.resolve(nil)
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestResolveFunctionNameStyleWarning(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("Foo", nil, ast.NoStmtID, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaFnNameStyle {
		t.Fatalf("expected SemaFnNameStyle, got %v", d.Code)
	}
	if len(d.Fixes) == 0 || d.Fixes[0].Edits[0].NewText != "foo" {
		t.Fatalf("expected fix to rename to foo, got %+v", d.Fixes)
	}
}

func TestResolveTagNameStyleWarning(t *testing.T) {
	f := newFixture(t)
	f.push(f.tag("foo"))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 warning, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaTagNameStyle {
		t.Fatalf("expected SemaTagNameStyle, got %v", d.Code)
	}
	if len(d.Fixes) == 0 || d.Fixes[0].Edits[0].NewText != "Foo" {
		t.Fatalf("expected fix to rename to Foo, got %+v", d.Fixes)
	}
}

func TestResolveIntrinsicValid(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("rt_alloc", []ast.FnParam{f.param("size")}, ast.NoStmtID, 0, f.intrinsicAttr()))

	_, bag := f.resolve(&ResolveOptions{ModulePath: "core/intrinsics", FilePath: "core/intrinsics.sg"})
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestResolveIntrinsicWrongModule(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("rt_alloc", []ast.FnParam{f.param("size")}, ast.NoStmtID, 0, f.intrinsicAttr()))

	_, bag := f.resolve(&ResolveOptions{ModulePath: "core/runtime", FilePath: "core/runtime.sg"})
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaIntrinsicBadContext {
		t.Fatalf("expected SemaIntrinsicBadContext, got %v", bag.Items()[0].Code)
	}
}

func TestResolveIntrinsicHasBody(t *testing.T) {
	f := newFixture(t)
	body := f.block(f.letStmt("x", ast.NoExprID))
	f.push(f.fn("rt_alloc", []ast.FnParam{f.param("size")}, body, 0, f.intrinsicAttr()))

	_, bag := f.resolve(&ResolveOptions{ModulePath: "core/intrinsics", FilePath: "core/intrinsics.sg"})
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaIntrinsicHasBody {
		t.Fatalf("expected SemaIntrinsicHasBody, got %v", bag.Items()[0].Code)
	}
}

func TestResolveIntrinsicBadName(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("foo", nil, ast.NoStmtID, 0, f.intrinsicAttr()))

	_, bag := f.resolve(&ResolveOptions{ModulePath: "core/intrinsics", FilePath: "core/intrinsics.sg"})
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaIntrinsicBadName {
		t.Fatalf("expected SemaIntrinsicBadName, got %v", bag.Items()[0].Code)
	}
}

func TestResolveIntrinsicOverrideForbidden(t *testing.T) {
	f := newFixture(t)
	f.push(f.fn("__add", []ast.FnParam{f.param("a"), f.param("b")}, ast.NoStmtID, 0, f.intrinsicAttr()))
	body := f.block(f.returnStmt(f.ident("a")))
	f.push(f.fn("__add", []ast.FnParam{f.param("a"), f.param("b")}, body, 0, f.overrideAttr()))

	_, bag := f.resolve(&ResolveOptions{ModulePath: "core/intrinsics", FilePath: "core/intrinsics.sg"})
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", bag.Items()[0].Code)
	}
}

func TestResolveLocalShadowingWarning(t *testing.T) {
	f := newFixture(t)
	body := f.block(f.letStmt("a", ast.NoExprID))
	f.push(f.fn("f", []ast.FnParam{f.param("a")}, body, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.SemaShadowSymbol {
		t.Fatalf("expected SemaShadowSymbol, got %v", d.Code)
	}
	if d.Severity != diag.SevWarning {
		t.Fatalf("expected warning severity, got %v", d.Severity)
	}
}

func TestResolveLocalDuplicateLet(t *testing.T) {
	f := newFixture(t)
	body := f.block(f.letStmt("value", ast.NoExprID), f.letStmt("value", ast.NoExprID))
	f.push(f.fn("f", nil, body, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", bag.Items()[0].Code)
	}
}

func TestResolveExprIdentifierMapping(t *testing.T) {
	f := newFixture(t)
	retExpr := f.ident("a")
	body := f.block(f.returnStmt(retExpr))
	f.push(f.fn("f", []ast.FnParam{f.param("a")}, body, 0, nil))

	res, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)

	symID, ok := res.ExprSymbols[retExpr]
	if !ok || !symID.IsValid() {
		t.Fatalf("identifier not resolved")
	}
}

func TestResolveExternFnDeclaresSymbol(t *testing.T) {
	f := newFixture(t)
	body := f.block(f.returnStmt(ast.NoExprID))
	member := f.externFn("touch", []ast.FnParam{f.param("self")}, body, 0, nil)
	f.push(f.extern(member))

	_, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)
}

func TestResolveExternFnOverrideMatchingSignature(t *testing.T) {
	f := newFixture(t)
	base := f.externFn("touch", []ast.FnParam{f.param("self")}, ast.NoStmtID, 0, nil)
	f.push(f.extern(base))
	overridden := f.externFn("touch", []ast.FnParam{f.param("self")}, f.block(), 0, f.overrideAttr())
	f.push(f.extern(overridden))

	_, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)
}

func TestResolveExternFnDuplicateWithoutAttribute(t *testing.T) {
	f := newFixture(t)
	first := f.externFn("touch", []ast.FnParam{f.param("self")}, ast.NoStmtID, 0, nil)
	f.push(f.extern(first))
	second := f.externFn("touch", []ast.FnParam{f.param("self")}, ast.NoStmtID, 0, nil)
	f.push(f.extern(second))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaFnOverride {
		t.Fatalf("expected SemaFnOverride, got %v", bag.Items()[0].Code)
	}
}

func TestResolveContractDeclaresSymbol(t *testing.T) {
	f := newFixture(t)
	f.push(f.contract("Drawable"))

	res, bag := f.resolve(nil)
	expectNoDiagnostics(t, bag)

	scope := res.Table.Scopes.Get(res.FileScope)
	ids := scope.NameIndex[f.name("Drawable")]
	if len(ids) != 1 {
		t.Fatalf("expected 1 symbol for Drawable, got %d", len(ids))
	}
	sym := res.Table.Symbols.Get(ids[0])
	if sym == nil || sym.Kind != SymbolContract {
		t.Fatalf("expected SymbolContract, got %+v", sym)
	}
}

func TestResolveDuplicateContractReported(t *testing.T) {
	f := newFixture(t)
	f.push(f.contract("Drawable"))
	f.push(f.contract("Drawable"))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("expected SemaDuplicateSymbol, got %v", bag.Items()[0].Code)
	}
}

func TestResolveUnresolvedIdentifier(t *testing.T) {
	f := newFixture(t)
	body := f.block(f.returnStmt(f.ident("missing")))
	f.push(f.fn("f", nil, body, 0, nil))

	_, bag := f.resolve(nil)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	if bag.Items()[0].Code != diag.SemaUnresolvedSymbol {
		t.Fatalf("expected SemaUnresolvedSymbol, got %v", bag.Items()[0].Code)
	}
}
