// Package dispatch implements the Overload/Dispatch Resolver of spec.md
// §4.5: matching an argument vector against each candidate in an
// OverloadSet, instantiating generics first when needed, and combining the
// results of multiple viable candidates via Meet.
//
// Grounded on internal/sema/contract_match.go's candidate-scoring loop
// (accumulate a per-candidate failure list, only report when every
// candidate fails) generalized from the teacher's contract/trait matching
// domain to call-argument matching.
package dispatch

import (
	"fmt"
	"strings"

	"icarus/internal/ctx"
	"icarus/internal/source"
	"icarus/internal/types"
	"icarus/internal/verify"
)

// Instantiator is the subset of internal/mono's API dispatch needs to
// concretise a GenericFunction/GenericStruct candidate before matching its
// parameters, per §4.5 step 3.
type Instantiator interface {
	Instantiate(c *ctx.Context, candidate types.TypeID, args []verify.Arg) (types.TypeID, error)
}

// Resolver implements verify.Resolver: candidate matching, ADL callers
// don't need (the verifier already expanded the candidate set before
// calling in; ADL's module-visibility walk lives in the name-resolution
// layer, not here, since it needs the symbol table verify.Scope already
// abstracts over).
type Resolver struct {
	Types   *types.Interner
	Strings *source.Interner
	Mono    Instantiator
}

// New constructs a Resolver.
func New(interner *types.Interner, strings *source.Interner, mono Instantiator) *Resolver {
	return &Resolver{Types: interner, Strings: strings, Mono: mono}
}

// candidateFailure records why one candidate in an OverloadSet did not
// match, accumulated so a final diagnostic can list every failure when
// none succeed, per §4.5 "accumulated per-candidate and reported together
// when no candidate succeeds."
type candidateFailure struct {
	candidate types.TypeID
	reason    string
	err       error
}

// ResolveCall implements verify.Resolver.
func (r *Resolver) ResolveCall(c *ctx.Context, candidates []types.TypeID, args []verify.Arg) (types.QualType, error) {
	var failures []candidateFailure
	var results []types.QualType

	for _, cand := range candidates {
		concrete := cand
		t, ok := r.Types.Lookup(cand)
		if !ok {
			failures = append(failures, candidateFailure{candidate: cand, reason: "unknown candidate"})
			continue
		}
		originalKind := t.Kind

		if (t.Kind == types.KindGenericFunction || t.Kind == types.KindGenericStruct) && r.Mono != nil {
			inst, err := r.Mono.Instantiate(c, cand, args)
			if err != nil {
				failures = append(failures, candidateFailure{candidate: cand, reason: err.Error(), err: err})
				continue
			}
			concrete = inst
			t, ok = r.Types.Lookup(concrete)
			if !ok {
				failures = append(failures, candidateFailure{candidate: cand, reason: "instantiation produced no type"})
				continue
			}
		}

		result, err := matchOne(r.Types, r.Strings, concrete, t, args)
		if err != nil {
			failures = append(failures, candidateFailure{candidate: cand, reason: err.Error(), err: err})
			continue
		}

		// §4.5 step 4: a resolved call's constness is the AND of its
		// argument constness, except a GenericStruct candidate (struct
		// instantiation is always a compile-time construction) which is
		// unconditionally constant regardless of its arguments.
		constant := originalKind == types.KindGenericStruct
		if !constant {
			constant = true
			for _, a := range args {
				if !a.Constant {
					constant = false
					break
				}
			}
		}
		if constant {
			result.Quals |= types.QualConst
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		// A single failing candidate's DispatchError already names the
		// precise failure kind (§4.5/§7); propagate it unwrapped so the
		// verifier can report the matching diagnostic code instead of the
		// generic fallback. Multiple candidates failing for different
		// reasons have no single kind to report, so they collapse to the
		// aggregate message as before.
		if len(failures) == 1 {
			if de, ok := failures[0].err.(*verify.DispatchError); ok {
				return types.QualType{}, de
			}
		}
		return types.QualType{}, fmt.Errorf("no matching overload: %s", formatFailures(failures))
	}

	merged := results[0]
	for _, res := range results[1:] {
		merged.Type = r.Types.Meet(merged.Type, res.Type)
		if !res.Quals.Has(types.QualConst) {
			merged.Quals &^= types.QualConst
		}
	}
	return merged, nil
}

func formatFailures(failures []candidateFailure) string {
	var b strings.Builder
	for i, f := range failures {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "candidate %d: %s", f.candidate, f.reason)
	}
	return b.String()
}
