// Package fix builds diag.Fix quick-fix suggestions: small text-edit
// recipes a diagnostic can attach so a caller (IDE, --fix CLI flag) can
// apply a deterministic repair without re-deriving it from the diagnostic
// message. Grounded on the teacher's internal/fix package of the same
// shape (InsertText/ReplaceSpan/Option), trimmed to the handful of
// constructors this core's resolver actually reaches for.
package fix

import (
	"fmt"

	"icarus/internal/diag"
	"icarus/internal/source"
)

// Option mutates a Fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) { f.Applicability = app }
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) { f.Kind = kind }
}

// WithID sets a stable identifier for the fix, used for deduplication
// across repeated diagnostics naming the same repair.
func WithID(id string) Option {
	return func(f *diag.Fix) { f.ID = id }
}

func applyOptions(f diag.Fix, opts []Option) diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// MakeFixID derives a stable fix identifier from the diagnostic code and
// the span the fix targets, so two reports of the same code at the same
// source position collapse to one suggestion under diag's deduplication.
func MakeFixID(code diag.Code, span source.Span) string {
	return fmt.Sprintf("fix:%d:%d:%d-%d", code, span.File, span.Start, span.End)
}

// InsertText creates a fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string, guard string, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: at, NewText: text, OldText: guard}},
	}
	return applyOptions(f, opts)
}

// ReplaceSpan replaces the text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         []diag.TextEdit{{Span: span, NewText: newText, OldText: expect}},
	}
	return applyOptions(f, opts)
}

// DeleteSpan removes the text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	return ReplaceSpan(title, span, "", expect, opts...)
}
