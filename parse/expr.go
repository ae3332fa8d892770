// Package parse implements the recursive-descent parser for the
// fancy-regex core: it turns a pattern string into an Expr abstract
// syntax tree plus the set of capture group numbers referenced by a
// backreference anywhere in the pattern.
//
// The AST is a closed, tagged-variant tree (dispatch on Kind, no
// interface hierarchy) matching the style the linear engine already uses
// for its own instruction opcodes (see nfa.Inst).
package parse

import "math"

// Kind tags the variant an Expr node holds.
type Kind int

// The complete set of Expr variants.
const (
	KindEmpty Kind = iota
	KindAny
	KindStartText
	KindEndText
	KindStartLine
	KindEndLine
	KindWordBoundary
	KindNotWordBoundary
	KindLiteral
	KindConcat
	KindAlt
	KindGroup
	KindLookAround
	KindRepeat
	KindDelegate
	KindBackref
	KindAtomicGroup
)

// LookKind distinguishes the four look-around flavors.
type LookKind int

const (
	LookAhead LookKind = iota
	LookAheadNeg
	LookBehind
	LookBehindNeg
)

// Unbounded is the sentinel for Repeat.Hi meaning "no upper bound".
const Unbounded = math.MaxInt32

// Expr is a single AST node. Only the fields relevant to Kind are
// meaningful; this mirrors the original Rust implementation's closed enum
// more directly than a Go interface hierarchy would, and keeps the
// Analyzer and Compiler's switch-on-Kind traversals flat.
type Expr struct {
	Kind Kind

	// KindAny
	Newline bool

	// KindLiteral
	Literal string
	CaseFold bool // case-insensitive comparison for Literal and Backref

	// KindConcat, KindAlt
	Children []*Expr

	// KindGroup, KindLookAround, KindRepeat, KindAtomicGroup
	Child *Expr

	// KindGroup: assigned during analysis, pre-order index starting at 1.
	Group int

	// KindLookAround
	Look LookKind

	// KindRepeat
	Lo, Hi int
	Greedy bool

	// KindDelegate: a leaf the linear engine parses and executes directly.
	DelegatePattern string
	// DelegateWidth is the fixed match width in code points, or -1 if
	// the delegate's width varies (e.g. a repeated class).
	DelegateWidth int

	// KindBackref
	Backref int
}

func newLeaf(k Kind) *Expr { return &Expr{Kind: k} }

// Empty returns the Expr that matches the empty string.
func Empty() *Expr { return newLeaf(KindEmpty) }

// Any returns the Expr for "." (newline=true allows matching '\n', i.e. (?s:.)).
func Any(newline bool) *Expr { return &Expr{Kind: KindAny, Newline: newline} }

// StartText returns the "\A"-style start-of-text assertion ("^" without multi-line).
func StartText() *Expr { return newLeaf(KindStartText) }

// EndText returns the "\z"-style end-of-text assertion ("$" without multi-line).
func EndText() *Expr { return newLeaf(KindEndText) }

// StartLine returns the multi-line "^" assertion (start of text or after '\n').
func StartLine() *Expr { return newLeaf(KindStartLine) }

// EndLine returns the multi-line "$" assertion (end of text or before '\n').
func EndLine() *Expr { return newLeaf(KindEndLine) }

// WordBoundary returns the "\b" assertion.
func WordBoundary() *Expr { return newLeaf(KindWordBoundary) }

// NotWordBoundary returns the "\B" assertion.
func NotWordBoundary() *Expr { return newLeaf(KindNotWordBoundary) }

// Literal returns a literal run of text, compared case-insensitively if casefold is set.
func Literal(s string, casefold bool) *Expr {
	return &Expr{Kind: KindLiteral, Literal: s, CaseFold: casefold}
}

// Delegate returns a leaf whose pattern text is handed to the linear
// engine as-is (character classes, predefined classes).
func Delegate(pattern string, width int, casefold bool) *Expr {
	return &Expr{Kind: KindDelegate, DelegatePattern: pattern, DelegateWidth: width, CaseFold: casefold}
}

// Concat returns the sequencing of children, in order.
func Concat(children []*Expr) *Expr { return &Expr{Kind: KindConcat, Children: children} }

// Alt returns the ordered alternation of children; first alternative wins.
func Alt(children []*Expr) *Expr { return &Expr{Kind: KindAlt, Children: children} }

// Group returns a capturing group around child. Group number is assigned later, by Analyze.
func Group(child *Expr) *Expr { return &Expr{Kind: KindGroup, Child: child} }

// LookAround returns a zero-width assertion of the given kind.
func LookAroundExpr(child *Expr, kind LookKind) *Expr {
	return &Expr{Kind: KindLookAround, Child: child, Look: kind}
}

// Repeat returns a bounded or unbounded repetition. hi == Unbounded means no upper bound.
func Repeat(child *Expr, lo, hi int, greedy bool) *Expr {
	return &Expr{Kind: KindRepeat, Child: child, Lo: lo, Hi: hi, Greedy: greedy}
}

// Backref returns a reference to a previously captured group's text.
func BackrefExpr(group int, casefold bool) *Expr {
	return &Expr{Kind: KindBackref, Backref: group, CaseFold: casefold}
}

// AtomicGroup returns a non-backtracking group.
func AtomicGroup(child *Expr) *Expr { return &Expr{Kind: KindAtomicGroup, Child: child} }
