// Package vm implements the backtracking virtual machine that executes the
// hard (backreference- or look-around-carrying) paths the compiler could
// not hand off to the linear engine.
//
// The instruction set and the tagged-opcode Inst struct follow the shape
// of the linear engine's own NFA state representation (see nfa.State):
// one struct, a Kind/Op discriminant, and per-opcode fields documented by
// which opcode reads them, rather than a Go interface per opcode.
package vm

import "github.com/coregx/fancyregex/linear"

// Op identifies the operation an Inst performs.
type Op uint8

const (
	// OpChar consumes one code point if it equals Char (casefold per CaseFold).
	OpChar Op = iota
	// OpAnyChar consumes one code point; matches '\n' only if Newline is set.
	OpAnyChar
	// OpDelegateMatch attempts the pooled linear.Regex at Delegate, anchored
	// to the current position, and consumes what it reports.
	OpDelegateMatch
	// OpSave writes the current position (or the unset sentinel, if
	// SaveUnset) to save slot Slot.
	OpSave
	// OpSplit pursues X first, pushing Y as a backtrack resumption point.
	// Greedy repeats wire X to the loop body and Y to the exit; lazy
	// repeats wire it the other way around -- there is no separate
	// "greedy" opcode, only a choice of which branch the compiler calls X.
	OpSplit
	// OpJmp continues at X unconditionally.
	OpJmp
	// OpAssertion succeeds or fails with no input consumption, per Assert.
	OpAssertion
	// OpBackref matches the text currently saved in group Group literally.
	OpBackref
	// OpLookAround runs Sub as an independent sub-match at the current
	// position (or LookWidth code points behind it, for look-behind);
	// succeeds iff the sub-match result agrees with Negative.
	OpLookAround
	// OpAtomicStart pushes a cut point; OpAtomicEnd (AtomicTarget) discards
	// every backtrack frame created since the matching OpAtomicStart.
	OpAtomicStart
	// OpAtomicEnd commits the atomic group started at AtomicTarget.
	OpAtomicEnd
	// OpAccept ends the program successfully.
	OpAccept
)

// AssertKind identifies a zero-width assertion checked by OpAssertion.
type AssertKind uint8

const (
	AssertStartText AssertKind = iota
	AssertEndText
	AssertStartLine
	AssertEndLine
	AssertWordBoundary
	AssertNotWordBoundary
)

// Inst is a single VM instruction. Only the fields relevant to Op are
// meaningful.
type Inst struct {
	Op Op

	// OpChar
	Char     rune
	CaseFold bool

	// OpAnyChar
	Newline bool

	// OpDelegateMatch
	Delegate  int
	ConstSize int // code-point width if fixed, -1 if variable

	// OpSave
	Slot      int
	SaveUnset bool

	// OpSplit, OpJmp
	X, Y int

	// OpAssertion
	Assert AssertKind

	// OpBackref: CaseFold is shared with OpChar's field above.
	Group int

	// OpLookAround
	Sub       *Prog
	Negative  bool
	LookWidth int // code points of left context to pin to, for look-behind

	// OpAtomicStart: AtomicTarget is unused.
	// OpAtomicEnd: AtomicTarget indexes the OpAtomicStart this instruction commits.
	AtomicTarget int
}

// Prog is a flat, already-linked instruction program plus the pool of
// compiled linear-engine delegates it references by index.
type Prog struct {
	Insts     []Inst
	Delegates []*linear.Regex
	NumSaves  int
}
