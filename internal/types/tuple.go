package types

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// TupleInfo is the side-table payload for a KindTuple TypeID: an ordered,
// fixed-arity product `(T0, T1, ...)`.
type TupleInfo struct {
	Elems []TypeID
}

// tupleKey stringifies an element sequence for the dedup map below, the
// same workaround mono's InstantiationKey uses for slice-shaped identity:
// Go map keys must be comparable, and a []TypeID is not.
func tupleKey(elems []TypeID) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(e), 10))
	}
	return b.String()
}

// MakeTuple interns a tuple type. Tuples are structural: two calls with the
// same element sequence collapse to the same TypeID, unlike Struct's
// nominal identity. Kept out of the primitive typeKey index (whose fields
// can't distinguish two tuples of different arity/elements) via a private
// dedup map instead.
func (in *Interner) MakeTuple(elems []TypeID) TypeID {
	if len(elems) == 0 {
		return in.builtins.EmptyArray // `()` coincides with the empty-array unit, per grammar note
	}
	cp := append([]TypeID(nil), elems...)
	key := tupleKey(cp)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.tupleIndex == nil {
		in.tupleIndex = make(map[string]TypeID)
	}
	if id, ok := in.tupleIndex[key]; ok {
		return id
	}
	in.tuples = append(in.tuples, TupleInfo{Elems: cp})
	slot, err := safecast.Conv[uint32](len(in.tuples) - 1)
	if err != nil {
		panic(fmt.Errorf("types: tuple table overflow: %w", err))
	}
	id := in.internRawLocked(Type{Kind: KindTuple, Payload: slot})
	in.tupleIndex[key] = id
	return id
}

// Tuple returns the element-type sequence for a Tuple TypeID.
func (in *Interner) Tuple(id TypeID) ([]TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.tupleInfoLocked(id)
	if info == nil {
		return nil, false
	}
	return append([]TypeID(nil), info.Elems...), true
}
