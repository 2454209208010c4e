// Package workqueue implements the single-threaded cooperative scheduler
// that drives VerifyType/VerifyBody/EmitValue/CompleteStructMembers to
// completion, deferring items that depend on not-yet-available results
// instead of blocking, per spec.md §4.9/§5.
package workqueue

import (
	"fmt"
)

// ItemKind enumerates the four work-item shapes spec.md §4.9 names.
type ItemKind uint8

const (
	VerifyType ItemKind = iota
	VerifyBody
	EmitValue
	CompleteStructMembers
)

func (k ItemKind) String() string {
	switch k {
	case VerifyType:
		return "VerifyType"
	case VerifyBody:
		return "VerifyBody"
	case EmitValue:
		return "EmitValue"
	case CompleteStructMembers:
		return "CompleteStructMembers"
	default:
		return "Unknown"
	}
}

// Outcome is the three-valued result a work item's Run returns.
type Outcome uint8

const (
	Success Outcome = iota
	Failure
	Deferred
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Deferred:
		return "Deferred"
	default:
		return "Unknown"
	}
}

// Item is one unit of scheduled work. Target is an opaque key (typically
// an ast.ExprID or symbols.SymbolID) the queue uses only for debug output
// and the deferral-cycle diagnostic; the Run closure closes over whatever
// state it actually needs.
type Item struct {
	Kind   ItemKind
	Target fmt.Stringer
	Run    func() Outcome
}

// Queue is a FIFO work list with deferral-to-back-of-queue semantics and a
// debug-only infinite-deferral guard, grounded on the orchestration shape
// of the teacher's driver/parallel_diagnose.go (a work list drained to
// completion with per-item retry) generalized to the three-outcome model
// spec.md §4.9 specifies, and on internal/mono/recorder.go's instantiation
// bookkeeping for "don't redo completed work" memoisation style.
type Queue struct {
	items []Item

	// Debug instrumentation: per spec.md §4.9, "a debug-only counter
	// asserts the deferral count never exceeds queue size." DebugChecks
	// defaults to false in production builds; tests enable it to catch
	// infinite-deferral regressions early rather than spinning forever.
	DebugChecks bool

	onFailure func(Item)
}

// New constructs an empty Queue. onFailure, if non-nil, is invoked for
// every item that returns Failure (e.g. to surface a diagnostic); the
// queue itself does not format diagnostics, per spec.md's "the core never
// formats source; it only reports."
func New(onFailure func(Item)) *Queue {
	return &Queue{onFailure: onFailure}
}

// Push enqueues an item at the back of the queue.
func (q *Queue) Push(item Item) {
	q.items = append(q.items, item)
}

// Run drains the queue to completion (every item Success or Failure),
// deferring items that return Deferred to the back. Returns an error if
// DebugChecks is set and the total deferral count exceeds len(items) at
// any point the queue is non-empty — the same queue-size-bound invariant
// spec.md §4.9 describes, which would otherwise manifest as an infinite
// loop.
func (q *Queue) Run() error {
	deferrals := 0
	bound := len(q.items)
	for len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]

		switch item.Run() {
		case Success:
			// done
		case Failure:
			if q.onFailure != nil {
				q.onFailure(item)
			}
		case Deferred:
			deferrals++
			if q.DebugChecks && bound > 0 && deferrals > bound {
				return fmt.Errorf("workqueue: deferral count %d exceeds queue-size bound (%d items) — "+
					"likely infinite deferral cycle on %s(%s)", deferrals, bound, item.Kind, item.Target)
			}
			q.items = append(q.items, item)
		}
	}
	return nil
}

// Len reports the number of items currently queued.
func (q *Queue) Len() int { return len(q.items) }
