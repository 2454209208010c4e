package symbols

import (
	"fmt"

	"icarus/internal/ast"
	"icarus/internal/diag"
	"icarus/internal/source"
)

func (fr *fileResolver) declareLet(itemID ast.ItemID, letItem *ast.LetItem) {
	if letItem.Name == source.NoStringID {
		return
	}
	fr.walkTypeExpr(letItem.Type)
	if letItem.Value.IsValid() {
		fr.walkExpr(letItem.Value)
	}
	flags := SymbolFlags(0)
	if letItem.Visibility == ast.VisPublic {
		flags |= SymbolFlagPublic
	}
	if letItem.IsMut {
		flags |= SymbolFlagMutable
	}
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := preferSpan(letItem.NameSpan, letItem.Span)
	if symID, ok := fr.resolver.Declare(letItem.Name, span, SymbolLet, flags, decl); ok {
		fr.appendItemSymbol(itemID, symID)
	}
}

func (fr *fileResolver) declareConstItem(itemID ast.ItemID, constItem *ast.ConstItem) {
	if constItem.Name == source.NoStringID {
		return
	}
	fr.walkTypeExpr(constItem.Type)
	if constItem.Value.IsValid() {
		fr.walkExpr(constItem.Value)
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(constItem.AttrStart, constItem.AttrCount)
	flags := fr.applyVisibilityFlags(0, constItem.Visibility == ast.VisPublic, hidden, hiddenSpan, constItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := preferSpan(constItem.NameSpan, constItem.Span)
	if symID, ok := fr.resolver.Declare(constItem.Name, span, SymbolConst, flags, decl); ok {
		fr.appendItemSymbol(itemID, symID)
	}
}

func (fr *fileResolver) declareFn(itemID ast.ItemID, fnItem *ast.FnItem) {
	if fnItem.Name == source.NoStringID {
		return
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(fnItem.AttrStart, fnItem.AttrCount)
	flags := fr.applyVisibilityFlags(0, fnItem.Flags&ast.FnModifierPublic != 0, hidden, hiddenSpan, fnItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := fnNameSpan(fnItem)
	fr.enforceFunctionNameStyle(fnItem.Name, span)
	if symID, ok := fr.declareFunctionWithAttrs(itemID, fnItem, span, fnItem.FnKeywordSpan, flags, decl); ok {
		fr.appendItemSymbol(itemID, symID)
	}
	fr.walkFn(itemID, fnItem)
}

func (fr *fileResolver) declareType(itemID ast.ItemID, typeItem *ast.TypeItem) {
	if typeItem.Name == source.NoStringID {
		return
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(typeItem.AttrStart, typeItem.AttrCount)
	flags := fr.applyVisibilityFlags(0, typeItem.Visibility == ast.VisPublic, hidden, hiddenSpan, typeItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := preferSpan(typeItem.TypeKeywordSpan, typeItem.Span)
	if symID, ok := fr.resolver.Declare(typeItem.Name, span, SymbolType, flags, decl); ok {
		fr.appendItemSymbol(itemID, symID)
	}
}

func (fr *fileResolver) declareTag(itemID ast.ItemID, tagItem *ast.TagItem) {
	if tagItem.Name == source.NoStringID {
		return
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(tagItem.AttrStart, tagItem.AttrCount)
	flags := fr.applyVisibilityFlags(0, tagItem.Visibility == ast.VisPublic, hidden, hiddenSpan, tagItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := preferSpan(tagItem.TagKeywordSpan, tagItem.Span)
	fr.enforceTagNameStyle(tagItem.Name, span)
	if symID, ok := fr.resolver.Declare(tagItem.Name, span, SymbolTag, flags, decl); ok {
		fr.appendItemSymbol(itemID, symID)
	}
}

func (fr *fileResolver) declareContract(itemID ast.ItemID, contractItem *ast.ContractDecl) {
	if contractItem.Name == source.NoStringID {
		return
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(contractItem.AttrStart, contractItem.AttrCount)
	flags := fr.applyVisibilityFlags(0, contractItem.Visibility == ast.VisPublic, hidden, hiddenSpan, contractItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       itemID,
	}
	span := preferSpan(contractItem.ContractKeywordSpan, contractItem.Span)
	symID, ok := fr.resolver.Declare(contractItem.Name, span, SymbolContract, flags, decl)
	if !ok {
		return
	}
	fr.appendItemSymbol(itemID, symID)
	// Field/method requirements are resolved into types.TypeID once the
	// type checker runs; name resolution only reserves the contract's slot.
	if sym := fr.result.Table.Symbols.Get(symID); sym != nil {
		sym.Contract = NewContractSpec()
	}
}

func (fr *fileResolver) declareExternFn(container ast.ItemID, member ast.ExternMemberID, receiverKey TypeKey, fnItem *ast.FnItem) {
	if fnItem.Name == source.NoStringID {
		return
	}
	hidden, hiddenSpan := fr.hasHiddenAttr(fnItem.AttrStart, fnItem.AttrCount)
	flags := fr.applyVisibilityFlags(SymbolFlagImported|SymbolFlagMethod, fnItem.Flags&ast.FnModifierPublic != 0, hidden, hiddenSpan, fnItem.Span)
	decl := SymbolDecl{
		SourceFile: fr.sourceFile,
		ASTFile:    fr.fileID,
		Item:       container,
	}
	span := fnNameSpan(fnItem)
	symID, ok := fr.declareFunctionWithAttrs(container, fnItem, span, fnItem.FnKeywordSpan, flags, decl)
	if !ok {
		return
	}
	if sym := fr.result.Table.Symbols.Get(symID); sym != nil {
		sym.ReceiverKey = receiverKey
	}
	fr.appendItemSymbol(container, symID)
	fr.appendExternSymbol(member, symID)
}

func (fr *fileResolver) declareFunctionWithAttrs(itemID ast.ItemID, fnItem *ast.FnItem, span, keywordSpan source.Span, flags SymbolFlags, decl SymbolDecl) (SymbolID, bool) {
	attrs := fr.builder.Items.CollectAttrs(fnItem.AttrStart, fnItem.AttrCount)
	hasOverload := false
	hasOverride := false
	hasIntrinsic := false
	for _, attr := range attrs {
		name := fr.builder.StringsInterner.MustLookup(attr.Name)
		switch name {
		case "overload":
			hasOverload = true
		case "override":
			hasOverride = true
		case "intrinsic":
			hasIntrinsic = true
		}
	}

	scope := fr.resolver.CurrentScope()
	existing := fr.resolver.lookupInScope(scope, fnItem.Name, SymbolFunction.Mask())
	existingSymbols := make([]*Symbol, 0, len(existing))
	for _, id := range existing {
		existingSymbols = append(existingSymbols, fr.result.Table.Symbols.Get(id))
	}
	newSig := buildFunctionSignature(fr.builder, fnItem)

	if hasOverload && hasOverride {
		fr.reportInvalidOverride(fnItem.Name, span, "cannot combine @overload and @override", existing)
		return NoSymbolID, false
	}

	if hasOverride && len(existing) == 0 {
		fr.reportInvalidOverride(fnItem.Name, span, "@override requires an existing declaration", nil)
		return NoSymbolID, false
	}

	if hasIntrinsic {
		if hasOverload || hasOverride {
			fr.reportIntrinsicError(fnItem.Name, span, diag.SemaIntrinsicBadContext, "@intrinsic cannot be combined with @overload or @override")
			return NoSymbolID, false
		}
		if !fr.moduleAllowsIntrinsic() {
			fr.reportIntrinsicError(fnItem.Name, span, diag.SemaIntrinsicBadContext, "@intrinsic functions must be declared in module core/intrinsics")
			return NoSymbolID, false
		}
		if fnItem.Body.IsValid() {
			fr.reportIntrinsicError(fnItem.Name, span, diag.SemaIntrinsicHasBody, "@intrinsic declarations cannot have a body")
			return NoSymbolID, false
		}
		if !fr.intrinsicNameAllowed(fnItem.Name) {
			msg := fmt.Sprintf("unknown intrinsic; allowed names: %s", intrinsicAllowedNamesDisplay)
			fr.reportIntrinsicError(fnItem.Name, span, diag.SemaIntrinsicBadName, msg)
			return NoSymbolID, false
		}
		flags |= SymbolFlagBuiltin
	}

	if len(existing) > 0 {
		switch {
		case hasOverload:
			if !signatureDiffersFromAll(newSig, existingSymbols) {
				fr.reportInvalidOverride(fnItem.Name, span, "@overload duplicates existing signature; use @override", existing)
				return NoSymbolID, false
			}
		case hasOverride:
			match := false
			for _, sym := range existingSymbols {
				if sym == nil {
					continue
				}
				if sym.Flags&SymbolFlagBuiltin != 0 {
					fr.reportInvalidOverride(fnItem.Name, span, "cannot override builtin function", existing)
					return NoSymbolID, false
				}
				if signaturesEqual(sym.Signature, newSig) {
					match = true
				}
			}
			if !match {
				fr.reportInvalidOverride(fnItem.Name, span, "@override requires matching signature", existing)
				return NoSymbolID, false
			}
		default:
			fr.reportMissingOverload(fnItem.Name, span, keywordSpan, existing, newSig)
			return NoSymbolID, false
		}
	}

	symID := fr.resolver.declareWithoutChecks(fnItem.Name, span, SymbolFunction, flags, decl, newSig)
	if !symID.IsValid() {
		return NoSymbolID, false
	}
	return symID, true
}
