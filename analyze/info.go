// Package analyze performs the bottom-up static pass over a parse.Expr
// tree, producing an Info tree of derived facts the compiler needs:
// whether a subtree requires backtracking, its fixed width if any, and
// whether it can observe text to the left of the match start.
//
// Info nodes mirror the shape of the teacher's own single-pass,
// struct-returning analyses over an already-built tree (see
// nfa/pattern_analysis.go) rather than a visitor interface.
package analyze

import (
	"github.com/coregx/fancyregex/parse"
	"github.com/coregx/fancyregex/rxerr"
)

// Unknown is the ConstSize/MinSize sentinel meaning "not a fixed width".
const Unknown = -1

// Info holds the derived facts for one Expr node, in the same tree shape
// as the Expr it was computed from.
type Info struct {
	Hard       bool
	LooksLeft  bool
	ConstSize  int // Unknown if not fixed
	MinSize    int
	StartGroup int
	EndGroup   int

	Child    *Info
	Children []*Info
}

type analyzer struct {
	nextGroup int
	// closed counts how many Group nodes the walk has fully finished
	// visiting so far, in the same pre-order/post-close sequence the
	// groups appear in the pattern. A Backref is only valid once its
	// target group has closed: this is what lets a trailing reference
	// like "(a)\1" succeed while rejecting both a forward reference to a
	// group that has not opened yet and a self-reference like "(\1)" to
	// the very group still being walked.
	closed   int
	backrefs map[int]bool
}

// Analyze computes the Info tree for e, assigns group numbers to every
// parse.Group node (in pre-order, starting at 1), and validates
// look-behind constant-width and backreference-target invariants.
func Analyze(e *parse.Expr, backrefs map[int]bool) (*Info, error) {
	a := &analyzer{backrefs: backrefs}
	return a.walk(e)
}

func (a *analyzer) walk(e *parse.Expr) (*Info, error) {
	switch e.Kind {
	case parse.KindEmpty:
		return &Info{ConstSize: 0, MinSize: 0}, nil

	case parse.KindStartText, parse.KindEndText, parse.KindStartLine, parse.KindEndLine:
		return &Info{ConstSize: 0, MinSize: 0, LooksLeft: e.Kind == parse.KindStartLine}

	case parse.KindWordBoundary, parse.KindNotWordBoundary:
		return &Info{Hard: false, ConstSize: 0, MinSize: 0, LooksLeft: true}, nil

	case parse.KindAny:
		return &Info{ConstSize: 1, MinSize: 1}, nil

	case parse.KindLiteral:
		n := len([]rune(e.Literal))
		return &Info{ConstSize: n, MinSize: n}, nil

	case parse.KindDelegate:
		size := e.DelegateWidth
		min := size
		if size < 0 {
			min = 0
		}
		return &Info{ConstSize: size, MinSize: min}, nil

	case parse.KindConcat:
		return a.walkConcat(e)

	case parse.KindAlt:
		return a.walkAlt(e)

	case parse.KindGroup:
		a.nextGroup++
		group := a.nextGroup
		child, err := a.walk(e.Child)
		if err != nil {
			return nil, err
		}
		e.Group = group
		a.closed++
		return &Info{
			Hard:       child.Hard,
			LooksLeft:  child.LooksLeft,
			ConstSize:  child.ConstSize,
			MinSize:    child.MinSize,
			StartGroup: group,
			EndGroup:   a.nextGroup,
			Child:      child,
		}, nil

	case parse.KindLookAround:
		child, err := a.walk(e.Child)
		if err != nil {
			return nil, err
		}
		if (e.Look == parse.LookBehind || e.Look == parse.LookBehindNeg) && child.ConstSize == Unknown {
			return nil, rxerr.New(rxerr.LookBehindNotConst)
		}
		looksLeft := e.Look == parse.LookBehind || e.Look == parse.LookBehindNeg
		return &Info{
			Hard:       true,
			LooksLeft:  looksLeft,
			ConstSize:  0,
			MinSize:    0,
			StartGroup: child.StartGroup,
			EndGroup:   child.EndGroup,
			Child:      child,
		}, nil

	case parse.KindRepeat:
		child, err := a.walk(e.Child)
		if err != nil {
			return nil, err
		}
		hard := child.Hard || a.repeatsLiveBackrefGroup(child)
		constSize := Unknown
		if e.Lo == e.Hi && child.ConstSize != Unknown {
			constSize = e.Lo * child.ConstSize
		}
		minSize := Unknown
		if child.MinSize != Unknown {
			minSize = e.Lo * child.MinSize
		}
		return &Info{
			Hard:       hard,
			LooksLeft:  child.LooksLeft,
			ConstSize:  constSize,
			MinSize:    minSize,
			StartGroup: child.StartGroup,
			EndGroup:   child.EndGroup,
			Child:      child,
		}, nil

	case parse.KindBackref:
		if e.Backref < 1 || e.Backref > a.closed {
			return nil, rxerr.New(rxerr.InvalidBackref)
		}
		return &Info{Hard: true, LooksLeft: false, ConstSize: Unknown, MinSize: 0}, nil

	case parse.KindAtomicGroup:
		child, err := a.walk(e.Child)
		if err != nil {
			return nil, err
		}
		return &Info{
			Hard:       true,
			LooksLeft:  child.LooksLeft,
			ConstSize:  child.ConstSize,
			MinSize:    child.MinSize,
			StartGroup: child.StartGroup,
			EndGroup:   child.EndGroup,
			Child:      child,
		}, nil

	default:
		return nil, rxerr.New(rxerr.ParseError)
	}
}

func (a *analyzer) walkConcat(e *parse.Expr) (*Info, error) {
	children := make([]*Info, len(e.Children))
	hard := false
	looksLeft := false
	constSize := 0
	minSize := 0
	startGroup, endGroup := 0, 0
	for i, c := range e.Children {
		ci, err := a.walk(c)
		if err != nil {
			return nil, err
		}
		children[i] = ci
		hard = hard || ci.Hard
		if i == 0 {
			looksLeft = ci.LooksLeft
			startGroup = ci.StartGroup
		}
		if constSize != Unknown {
			if ci.ConstSize == Unknown {
				constSize = Unknown
			} else {
				constSize += ci.ConstSize
			}
		}
		if minSize != Unknown {
			if ci.MinSize == Unknown {
				minSize = Unknown
			} else {
				minSize += ci.MinSize
			}
		}
		if ci.EndGroup > endGroup {
			endGroup = ci.EndGroup
		}
		if ci.StartGroup != 0 && startGroup == 0 {
			startGroup = ci.StartGroup
		}
	}
	return &Info{
		Hard:       hard,
		LooksLeft:  looksLeft,
		ConstSize:  constSize,
		MinSize:    minSize,
		StartGroup: startGroup,
		EndGroup:   endGroup,
		Children:   children,
	}, nil
}

func (a *analyzer) walkAlt(e *parse.Expr) (*Info, error) {
	children := make([]*Info, len(e.Children))
	hard := false
	looksLeft := false
	constSize := Unknown
	minSize := Unknown
	startGroup, endGroup := 0, 0
	agree := true
	for i, c := range e.Children {
		ci, err := a.walk(c)
		if err != nil {
			return nil, err
		}
		children[i] = ci
		hard = hard || ci.Hard
		looksLeft = looksLeft || ci.LooksLeft
		if i == 0 {
			constSize = ci.ConstSize
			minSize = ci.MinSize
		} else {
			if ci.ConstSize != constSize {
				agree = false
			}
			if ci.MinSize == Unknown || (minSize != Unknown && ci.MinSize < minSize) {
				if ci.MinSize != Unknown {
					minSize = ci.MinSize
				} else {
					minSize = Unknown
				}
			}
		}
		if ci.StartGroup != 0 && (startGroup == 0 || ci.StartGroup < startGroup) {
			startGroup = ci.StartGroup
		}
		if ci.EndGroup > endGroup {
			endGroup = ci.EndGroup
		}
	}
	if !agree {
		constSize = Unknown
	}
	return &Info{
		Hard:       hard,
		LooksLeft:  looksLeft,
		ConstSize:  constSize,
		MinSize:    minSize,
		StartGroup: startGroup,
		EndGroup:   endGroup,
		Children:   children,
	}, nil
}

// repeatsLiveBackrefGroup reports whether subtree contains a Group whose
// number is referenced by a live backreference anywhere in the pattern;
// such groups need their save slots restored on backtrack, which forces
// the whole Repeat into the hard path even if otherwise easy.
func (a *analyzer) repeatsLiveBackrefGroup(info *Info) bool {
	if len(a.backrefs) == 0 {
		return false
	}
	for g := range a.backrefs {
		if g >= info.StartGroup && g <= info.EndGroup && info.EndGroup > 0 {
			return true
		}
	}
	return false
}
