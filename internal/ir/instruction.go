package ir

// InstrKind enumerates instruction kinds, spec.md §3's Instruction list.
type InstrKind uint8

const (
	InstrArith InstrKind = iota
	InstrCompare
	InstrCast
	InstrLoad
	InstrStore
	InstrAlloca
	InstrPtrIncr
	InstrField
	InstrVariantType
	InstrVariantValue
	InstrCall
	InstrPhi
	InstrTypeCtor
	InstrInit
	InstrDestroy
	InstrMove
	InstrCopy
	InstrPrint
	InstrDebugIr
	InstrConst
)

// Instruction is a tagged union; every non-terminal instruction defines at
// most one result register (Dst), per spec.md's invariant. NoRegister
// means "no result" (Store, Destroy, Print, ...).
type Instruction struct {
	Kind InstrKind
	Dst  Register

	Arith        ArithInstr
	Compare      CompareInstr
	Cast         CastInstr
	Load         LoadInstr
	Store        StoreInstr
	Alloca       AllocaInstr
	PtrIncr      PtrIncrInstr
	Field        FieldInstr
	VariantType  VariantTypeInstr
	VariantValue VariantValueInstr
	Call         CallInstr
	Phi          PhiInstr
	TypeCtor     TypeCtorInstr
	Init         InitInstr
	Destroy      DestroyInstr
	Move         MoveInstr
	Copy         CopyInstr
	Print        PrintInstr
	DebugIr      struct{}
	Const        ConstInstr
}

// ArithOp enumerates the arithmetic/logic operators the Lowerer emits for
// binary expressions (spec.md's "arithmetic/logic/compare/cast").
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithMul
	ArithDiv
	ArithMod
	ArithAnd
	ArithOr
	ArithXor
	ArithShl
	ArithShr
)

// ArithInstr computes Op(Lhs, Rhs).
type ArithInstr struct {
	Op       ArithOp
	Lhs, Rhs Register
	Type     TypeID
}

// CompareOp enumerates relational operators.
type CompareOp uint8

const (
	CompareEq CompareOp = iota
	CompareNe
	CompareLt
	CompareLe
	CompareGt
	CompareGe
)

// CompareInstr computes a bool result from Op(Lhs, Rhs).
type CompareInstr struct {
	Op       CompareOp
	Lhs, Rhs Register
}

// CastInstr reinterprets or converts Value to To, per types.CanCastExplicitly.
type CastInstr struct {
	Value Register
	From  TypeID
	To    TypeID
}

// LoadInstr dereferences a pointer-typed register.
type LoadInstr struct {
	Addr Register
	Type TypeID
}

// StoreInstr writes Value to the address in Addr; has no result register.
type StoreInstr struct {
	Addr  Register
	Value Register
	Type  TypeID
}

// AllocaInstr reserves stack storage for a value of Type; per spec.md §4.2,
// allocas live in the entry block regardless of where the alloca appears
// lexically.
type AllocaInstr struct {
	Type TypeID
}

// PtrIncrInstr computes Base + Index*sizeof(Elem), pointer arithmetic for
// buffer-pointer indexing.
type PtrIncrInstr struct {
	Base  Register
	Index Register
	Elem  TypeID
}

// FieldInstr computes the address of field Index within Object's struct
// layout.
type FieldInstr struct {
	Object Register
	Index  int
	Name   string
}

// VariantTypeInstr extracts the active-member tag of a Variant-typed value.
type VariantTypeInstr struct {
	Value Register
}

// VariantValueInstr extracts (or constructs) the payload of a Variant value
// under the assumption its active member is As.
type VariantValueInstr struct {
	Value Register
	As    TypeID
}

// CalleeKind distinguishes a statically-known callee from one held in a
// register (an overload-resolved function value vs. a function pointer).
type CalleeKind uint8

const (
	CalleeStatic CalleeKind = iota
	CalleeDynamic
)

// CallInstr invokes Callee with Args; Dst (on the enclosing Instruction)
// holds the first output, OutParams the rest for multi-return functions.
type CallInstr struct {
	Kind       CalleeKind
	StaticName string
	Dynamic    Register
	Args       []Register
	OutParams  []Register
	Type       TypeID
}

// PhiIncoming pairs a predecessor block with the register its edge
// contributes.
type PhiIncoming struct {
	Block BlockID
	Value Register
}

// PhiInstr produces a register whose value depends on which predecessor
// control arrived from; validate.go checks Incoming matches the owning
// block's Incoming predecessor list exactly.
type PhiInstr struct {
	Type     TypeID
	Incoming []PhiIncoming
}

// TypeCtorKind enumerates the compile-time type constructors the IR can
// build as runtime `type` values (for generic code operating over `Type`
// handles at the value level), spec.md's "Ptr, BufPtr, Array, Arrow,
// Tuple, Variant, Enum, Flags, Struct" list.
type TypeCtorKind uint8

const (
	TypeCtorPtr TypeCtorKind = iota
	TypeCtorBufPtr
	TypeCtorArray
	TypeCtorArrow
	TypeCtorTuple
	TypeCtorVariant
	TypeCtorEnum
	TypeCtorFlags
	TypeCtorStruct
)

// TypeCtorInstr builds a runtime `type` value from operand registers (each
// expected to itself hold a `type`-typed value) and/or a fixed arity.
type TypeCtorInstr struct {
	Kind     TypeCtorKind
	Operands []Register
	Count    uint64 // Array length, when Kind == TypeCtorArray
}

// InitInstr default-initialises the storage at Addr.
type InitInstr struct {
	Addr Register
	Type TypeID
}

// DestroyInstr runs Type's destructor (if any) over the value at Addr.
type DestroyInstr struct {
	Addr Register
	Type TypeID
}

// MoveInstr move-constructs Dst's storage from Src, leaving Src in a
// moved-from state.
type MoveInstr struct {
	Dst, Src Register
	Type     TypeID
}

// CopyInstr copy-constructs Dst's storage from Src.
type CopyInstr struct {
	Dst, Src Register
	Type     TypeID
}

// PrintInstr is a debug/builtin print of Value (used by the reference
// ctime evaluator's `print` builtin and by tests exercising lowering).
type PrintInstr struct {
	Value Register
	Type  TypeID
}

// ConstKind distinguishes the payload field ConstInstr actually holds.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstUint
	ConstFloat
	ConstBool
	ConstString
	ConstNothing
)

// ConstInstr materialises a compile-time-known literal as a value register
// (this IR, unlike the teacher's mir.Operand/Const split, has no immediate
// operand form — every value used by another instruction is a register, so
// a literal needs its own instruction to produce one).
type ConstInstr struct {
	Kind        ConstKind
	Type        TypeID
	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	BoolValue   bool
	StringValue string
}
