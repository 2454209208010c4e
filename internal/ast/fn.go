package ast

import "icarus/internal/source"

// FnModifier flags a function's declared modifiers: the bits callers parse
// out of its attribute list and keyword prefixes (extern/async/pure/...) and
// its computed visibility, folded into one word so dispatch and symbol
// resolution can test them without re-walking attrs.
type FnModifier uint8

const (
	FnAttrExtern FnModifier = 1 << iota
	FnAttrAsync
	FnAttrUnsafe
	FnAttrPure
	FnAttrOverload
	FnAttrOverride
	FnAttrInline
	FnModifierPublic
)

// FnModifierAsync names the same bit as FnAttrAsync; internal/symbols reads
// modifiers through this name since "async" there is a visibility-adjacent
// concern, not a dispatch attribute.
const FnModifierAsync = FnAttrAsync

// FnAttr is the historical name for FnModifier, kept for call sites that
// predate the visibility bit.
type FnAttr = FnModifier

type FnParam struct {
	Name      source.StringID // может быть source.NoStringID для `_`
	Type      TypeID          // обязательная аннотация
	Default   ExprID          // ast.NoExprID, если нет значения
	Variadic  bool
	AttrStart AttrID
	AttrCount uint32
}

type FnItem struct {
	Name          source.StringID
	NameSpan      source.Span
	FnKeywordSpan source.Span
	ParamsSpan    source.Span
	ParamsStart   FnParamID
	ParamsCount   uint32
	ReturnType    TypeID
	Body          StmtID
	Flags         FnModifier
	AttrStart     AttrID
	AttrCount     uint32
	Span          source.Span
}

func (i *Items) Fn(id ItemID) (*FnItem, bool) {
	item := i.Arena.Get(uint32(id))
	if item == nil || item.Kind != ItemFn {
		return nil, false
	}
	return i.Fns.Get(uint32(item.Payload)), true
}

// FnByPayload resolves an FnItem allocated directly into the Fns arena
// (bypassing the generic Item arena), as ExternMember.Fn and similar
// payload-only references do.
func (i *Items) FnByPayload(payload PayloadID) (*FnItem, bool) {
	fn := i.Fns.Get(uint32(payload))
	if fn == nil {
		return nil, false
	}
	return fn, true
}

func (i *Items) newFnPayload(
	name source.StringID,
	fnKeywordSpan source.Span,
	paramsStart FnParamID,
	paramsCount uint32,
	returnType TypeID,
	body StmtID,
	flags FnModifier,
	attrStart AttrID,
	attrCount uint32,
	span source.Span,
) PayloadID {
	payload := i.Fns.Allocate(FnItem{
		Name:          name,
		FnKeywordSpan: fnKeywordSpan,
		ParamsStart:   paramsStart,
		ParamsCount:   paramsCount,
		ReturnType:    returnType,
		Body:          body,
		Flags:         flags,
		AttrStart:     attrStart,
		AttrCount:     attrCount,
		Span:          span,
	})
	return PayloadID(payload)
}

func (i *Items) NewFnParam(name source.StringID, typ TypeID, def ExprID, variadic bool, attrs []Attr) FnParamID {
	attrStart, attrCount := i.allocateAttrs(attrs)
	return FnParamID(i.FnParams.Allocate(FnParam{
		Name:      name,
		Type:      typ,
		Default:   def,
		Variadic:  variadic,
		AttrStart: attrStart,
		AttrCount: attrCount,
	}))
}

func (i *Items) FnParam(id FnParamID) *FnParam {
	return i.FnParams.Get(uint32(id))
}

func (i *Items) GetFnParamIDs(fn *FnItem) []FnParamID {
	if fn == nil || fn.ParamsCount == 0 || !fn.ParamsStart.IsValid() {
		return nil
	}
	params := make([]FnParamID, fn.ParamsCount)
	start := uint32(fn.ParamsStart)
	for j := uint32(0); j < fn.ParamsCount; j++ {
		params[j] = FnParamID(start + j)
	}
	return params
}

// allocateFnParams copies params into the FnParams arena and returns the
// contiguous range describing them, mirroring allocateAttrs for the few item
// kinds (contracts, extern fns) that share FnParam's shape without going
// through NewFn itself.
func (i *Items) allocateFnParams(params []FnParam) (FnParamID, uint32) {
	var start FnParamID
	count := uint32(len(params))
	if count == 0 {
		return NoFnParamID, 0
	}
	for idx, param := range params {
		id := FnParamID(i.FnParams.Allocate(param))
		if idx == 0 {
			start = id
		}
	}
	return start, count
}

func (i *Items) NewFn(
	name source.StringID,
	fnKeywordSpan source.Span,
	params []FnParam,
	returnType TypeID,
	body StmtID,
	flags FnModifier,
	attrs []Attr,
	span source.Span,
) ItemID {
	paramsStart, paramsCount := i.allocateFnParams(params)
	attrStart, attrCount := i.allocateAttrs(attrs)
	payloadID := i.newFnPayload(name, fnKeywordSpan, paramsStart, paramsCount, returnType, body, flags, attrStart, attrCount, span)
	return i.New(ItemFn, span, payloadID)
}
