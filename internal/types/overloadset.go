package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// OverloadSetInfo is the side-table payload for a KindOverloadSet TypeID: a
// deduplicated set of callable member types (Function, Jump, or Generic*)
// that a name resolves to before argument matching picks one, per spec.md
// §4.5's dispatch-table construction.
type OverloadSetInfo struct {
	Members []TypeID
}

// MakeOverloadSet interns an overload-set type from a set of callable
// TypeIDs, structural like Tuple/Variant: order doesn't matter, duplicates
// collapse.
func (in *Interner) MakeOverloadSet(members []TypeID) TypeID {
	uniq := make(map[TypeID]bool, len(members))
	var flat []TypeID
	for _, m := range members {
		if !uniq[m] {
			uniq[m] = true
			flat = append(flat, m)
		}
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i] < flat[j] })

	var b strings.Builder
	for i, m := range flat {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(m), 10))
	}
	key := b.String()

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.fnIndex == nil {
		in.fnIndex = make(map[string]TypeID)
	}
	okey := "ovl:" + key
	if id, ok := in.fnIndex[okey]; ok {
		return id
	}
	in.overloadSets = append(in.overloadSets, OverloadSetInfo{Members: flat})
	slot, err := safecast.Conv[uint32](len(in.overloadSets) - 1)
	if err != nil {
		panic(fmt.Errorf("types: overload-set table overflow: %w", err))
	}
	id := in.internRawLocked(Type{Kind: KindOverloadSet, Payload: slot})
	in.fnIndex[okey] = id
	return id
}

// OverloadSet returns the callable member types for an OverloadSet TypeID.
func (in *Interner) OverloadSet(id TypeID) ([]TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.types) {
		return nil, false
	}
	t := in.types[id]
	if t.Kind != KindOverloadSet || int(t.Payload) >= len(in.overloadSets) {
		return nil, false
	}
	return append([]TypeID(nil), in.overloadSets[t.Payload].Members...), true
}
