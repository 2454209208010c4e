package types

// Quals is a bitset of value-category qualifiers attached to a QualType,
// orthogonal to the type itself: whether the expression denotes a
// constant, a reference (assignable lvalue), a buffer (unsized, indexable
// only), or the universal error type produced after a diagnosed failure so
// downstream verification can keep going without cascading.
type Quals uint8

const (
	QualConst Quals = 1 << iota
	QualRef
	QualBuf
	QualError
)

func (q Quals) Has(f Quals) bool { return q&f != 0 }

func (q Quals) String() string {
	if q == 0 {
		return ""
	}
	s := ""
	if q.Has(QualConst) {
		s += "const "
	}
	if q.Has(QualRef) {
		s += "ref "
	}
	if q.Has(QualBuf) {
		s += "buf "
	}
	if q.Has(QualError) {
		s += "error "
	}
	return s
}

// QualType pairs a Type handle with its value-category qualifiers, the
// result the Verifier attaches to every expression node (spec.md §4.4).
type QualType struct {
	Type  TypeID
	Quals Quals
}

// ErrorQualType is installed on an expression after a diagnostic has
// already been raised for it, so later passes see "some type" rather than
// NoTypeID and don't re-raise cascading errors.
func ErrorQualType() QualType { return QualType{Type: NoTypeID, Quals: QualError} }

// IsError reports whether qt denotes the post-diagnostic error sentinel.
func (qt QualType) IsError() bool { return qt.Quals.Has(QualError) }
