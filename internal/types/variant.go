package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// VariantInfo is the side-table payload for a KindVariant TypeID: an
// unordered set of alternative member types, `T1 | T2 | ...`.
type VariantInfo struct {
	Members []TypeID
}

// MakeVariant interns a variant type. Per spec.md's Meet operation, a
// Variant is a *set* of members: duplicate members collapse, and member
// order does not affect identity (`A|B` and `B|A` are the same type).
// Nesting flattens: `(A|B)|C` normalises to `A|B|C`.
func (in *Interner) MakeVariant(members []TypeID) TypeID {
	flat := in.flattenVariantMembers(members)
	if len(flat) == 1 {
		return flat[0]
	}
	if len(flat) == 0 {
		return NoTypeID
	}
	key := variantKey(flat)

	in.mu.Lock()
	defer in.mu.Unlock()
	if in.variantIndex == nil {
		in.variantIndex = make(map[string]TypeID)
	}
	if id, ok := in.variantIndex[key]; ok {
		return id
	}
	in.variants = append(in.variants, VariantInfo{Members: flat})
	slot, err := safecast.Conv[uint32](len(in.variants) - 1)
	if err != nil {
		panic(fmt.Errorf("types: variant table overflow: %w", err))
	}
	id := in.internRawLocked(Type{Kind: KindVariant, Payload: slot})
	in.variantIndex[key] = id
	return id
}

func (in *Interner) flattenVariantMembers(members []TypeID) []TypeID {
	seen := make(map[TypeID]bool, len(members))
	var flat []TypeID
	var walk func(id TypeID)
	walk = func(id TypeID) {
		in.mu.RLock()
		var nested []TypeID
		if int(id) < len(in.types) && in.types[id].Kind == KindVariant {
			if info := in.variantInfoLocked(id); info != nil {
				nested = append(nested, info.Members...)
			}
		}
		in.mu.RUnlock()
		if nested != nil {
			for _, m := range nested {
				walk(m)
			}
			return
		}
		if !seen[id] {
			seen[id] = true
			flat = append(flat, id)
		}
	}
	for _, m := range members {
		walk(m)
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i] < flat[j] })
	return flat
}

func variantKey(members []TypeID) string {
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(strconv.FormatUint(uint64(m), 10))
	}
	return b.String()
}

// Variant returns the member-type set for a Variant TypeID, sorted by
// TypeID for deterministic iteration.
func (in *Interner) Variant(id TypeID) ([]TypeID, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.variantInfoLocked(id)
	if info == nil {
		return nil, false
	}
	return append([]TypeID(nil), info.Members...), true
}

// VariantContains reports whether member is one of id's alternatives;
// Meet(member, variant) relies on this for the "widening" implicit cast
// rule in spec.md §4.1.
func (in *Interner) VariantContains(id, member TypeID) bool {
	in.mu.RLock()
	defer in.mu.RUnlock()
	info := in.variantInfoLocked(id)
	if info == nil {
		return false
	}
	for _, m := range info.Members {
		if m == member {
			return true
		}
	}
	return false
}
