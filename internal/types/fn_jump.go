package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// FnInfo is the side-table payload for a KindFunction TypeID: a formal
// parameter list and an ordered return-type list (spec.md allows multiple
// return values, consistent with the original's `Returns(n)` nodes).
type FnInfo struct {
	Params  Params[TypeID]
	Returns []TypeID
}

func fnKey(params Params[TypeID], returns []TypeID) string {
	var b strings.Builder
	for i := 0; i < params.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		e := params.At(i)
		b.WriteString(strconv.FormatUint(uint64(e.Value), 10))
		if e.HasDefault {
			b.WriteByte('?')
		}
	}
	b.WriteByte(';')
	for i, r := range returns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(r), 10))
	}
	return b.String()
}

// MakeFunction interns a function type. Functions are structural: identical
// parameter/return shapes collapse to one TypeID, since two `(i64) -> i64`
// signatures from unrelated declarations are interchangeable as values.
func (in *Interner) MakeFunction(params Params[TypeID], returns []TypeID) TypeID {
	key := fnKey(params, returns)
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.fnIndex == nil {
		in.fnIndex = make(map[string]TypeID)
	}
	if id, ok := in.fnIndex[key]; ok {
		return id
	}
	in.fns = append(in.fns, FnInfo{Params: params, Returns: append([]TypeID(nil), returns...)})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("types: function table overflow: %w", err))
	}
	id := in.internRawLocked(Type{Kind: KindFunction, Payload: slot})
	in.fnIndex[key] = id
	return id
}

// Function returns the parameter/return shape for a Function TypeID.
func (in *Interner) Function(id TypeID) (*FnInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if t.Kind != KindFunction || int(t.Payload) >= len(in.fns) {
		return nil, false
	}
	cp := in.fns[t.Payload]
	return &cp, true
}

// JumpInfo is the side-table payload for a KindJump TypeID: a jump's
// state-parameter type (None for an unparameterised jump, matching the
// original's `jump` keyword with no `(state: T)`) and its argument params.
type JumpInfo struct {
	HasState bool
	State    TypeID
	Params   Params[TypeID]
}

// MakeJump interns a jump type, structurally like MakeFunction.
func (in *Interner) MakeJump(hasState bool, state TypeID, params Params[TypeID]) TypeID {
	key := fnKey(params, nil)
	if hasState {
		key = "s" + strconv.FormatUint(uint64(state), 10) + ";" + key
	} else {
		key = "n;" + key
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.fnIndex == nil {
		in.fnIndex = make(map[string]TypeID)
	}
	jkey := "jump:" + key
	if id, ok := in.fnIndex[jkey]; ok {
		return id
	}
	in.jumps = append(in.jumps, JumpInfo{HasState: hasState, State: state, Params: params})
	slot, err := safecast.Conv[uint32](len(in.jumps) - 1)
	if err != nil {
		panic(fmt.Errorf("types: jump table overflow: %w", err))
	}
	id := in.internRawLocked(Type{Kind: KindJump, Payload: slot, Elem: state})
	in.fnIndex[jkey] = id
	return id
}

// Jump returns the state/params shape for a Jump TypeID.
func (in *Interner) Jump(id TypeID) (*JumpInfo, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if t.Kind != KindJump || int(t.Payload) >= len(in.jumps) {
		return nil, false
	}
	cp := in.jumps[t.Payload]
	return &cp, true
}
