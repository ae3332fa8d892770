// Package compile lowers an analyzed parse.Expr into either a delegate
// compiled by the linear engine (the easy path) or a vm.Prog for the
// backtracking VM (the hard path).
package compile

import (
	"strings"

	"github.com/coregx/fancyregex/analyze"
	"github.com/coregx/fancyregex/linear"
	"github.com/coregx/fancyregex/parse"
	"github.com/coregx/fancyregex/rxerr"
	"github.com/coregx/fancyregex/vm"
)

// DefaultSizeLimit is the byte budget assumed when Config.SizeLimit is zero.
const DefaultSizeLimit = 10 * 1024 * 1024

// Config controls delegate compilation.
type Config struct {
	// SizeLimit caps the memory the linear engine may use per compiled
	// delegate, in bytes. Zero means DefaultSizeLimit.
	SizeLimit int
}

// DefaultConfig returns the default delegate compilation configuration.
func DefaultConfig() Config {
	return Config{SizeLimit: DefaultSizeLimit}
}

// Delegate compiles pattern through the linear engine, scaling its DFA
// state cache to Config.SizeLimit. The linear engine has no direct
// byte-budget knob, so this is a best-effort proportional translation:
// the default 10 MiB budget maps to meta.DefaultConfig's MaxDFAStates,
// and other budgets scale MaxDFAStates linearly from there.
func Delegate(pattern string, cfg Config) (*linear.Regex, error) {
	limit := cfg.SizeLimit
	if limit <= 0 {
		limit = DefaultSizeLimit
	}
	lc := linear.DefaultConfig()
	scaled := float64(lc.MaxDFAStates) * float64(limit) / float64(DefaultSizeLimit)
	switch {
	case scaled < 1:
		lc.MaxDFAStates = 1
	case scaled > 1_000_000:
		lc.MaxDFAStates = 1_000_000
	default:
		lc.MaxDFAStates = uint32(scaled)
	}
	re, err := linear.CompileWithConfig(pattern, lc)
	if err != nil {
		return nil, rxerr.Wrap(err)
	}
	return re, nil
}

// EasyPaths holds the whole-pattern delegate compiled for the easy path,
// plus the optional one-code-point-of-left-context variant used whenever
// the pattern looks_left and the match does not start at position 0.
type EasyPaths struct {
	Inner  *linear.Regex
	Inner1 *linear.Regex // nil unless the pattern looks_left
}

// CompileEasy serializes e (assumed non-hard) back to pattern text and
// compiles the two delegate variants spec.md's easy path needs:
// "(?s:.)*?(original)" for arbitrary start positions, and, if looksLeft,
// "^(?s:.)+?(original)" supplying one code point of left context.
func CompileEasy(e *parse.Expr, looksLeft bool, cfg Config) (*EasyPaths, error) {
	var buf strings.Builder
	e.ToStr(&buf, 0)
	body := buf.String()

	inner, err := Delegate("(?s:.)*?("+body+")", cfg)
	if err != nil {
		return nil, err
	}
	paths := &EasyPaths{Inner: inner}
	if looksLeft {
		inner1, err := Delegate("^(?s:.)+?("+body+")", cfg)
		if err != nil {
			return nil, err
		}
		paths.Inner1 = inner1
	}
	return paths, nil
}

// CompileHard lowers e into a vm.Prog, given its Info tree and the total
// number of capturing groups in the whole pattern. The whole-match span is
// saved to slots 0/1 as an implicit, unnumbered group 0, the same role the
// easy path's synthetic "(original)" wrapper plays.
func CompileHard(e *parse.Expr, info *analyze.Info, numGroups int, cfg Config) (*vm.Prog, error) {
	c := &compiler{cfg: cfg, numGroups: numGroups}
	c.emit(vm.Inst{Op: vm.OpSave, Slot: 0})
	if err := c.lowerNode(e, info); err != nil {
		return nil, err
	}
	c.emit(vm.Inst{Op: vm.OpSave, Slot: 1})
	c.emit(vm.Inst{Op: vm.OpAccept})
	return &vm.Prog{Insts: c.insts, Delegates: c.delegates, NumSaves: 2 * (numGroups + 1)}, nil
}

type compiler struct {
	cfg       Config
	numGroups int
	insts     []vm.Inst
	delegates []*linear.Regex
}

func (c *compiler) emit(i vm.Inst) int {
	c.insts = append(c.insts, i)
	return len(c.insts) - 1
}

// lowerNode lowers e. Any subtree whose Info is not hard is compiled as a
// single delegate leaf instead of being walked node by node, per spec.md
// §4.3's "delegation within the hard path".
func (c *compiler) lowerNode(e *parse.Expr, info *analyze.Info) error {
	if !info.Hard {
		return c.emitDelegate(e, info)
	}
	switch e.Kind {
	case parse.KindConcat:
		for i, child := range e.Children {
			if err := c.lowerNode(child, info.Children[i]); err != nil {
				return err
			}
		}
		return nil

	case parse.KindAlt:
		return c.lowerAlt(e, info)

	case parse.KindGroup:
		startSlot, endSlot := 2*e.Group, 2*e.Group+1
		c.emit(vm.Inst{Op: vm.OpSave, Slot: startSlot})
		if err := c.lowerNode(e.Child, info.Child); err != nil {
			return err
		}
		c.emit(vm.Inst{Op: vm.OpSave, Slot: endSlot})
		return nil

	case parse.KindLookAround:
		return c.lowerLookAround(e, info)

	case parse.KindRepeat:
		return c.lowerRepeat(e, info)

	case parse.KindAtomicGroup:
		startIdx := c.emit(vm.Inst{Op: vm.OpAtomicStart})
		if err := c.lowerNode(e.Child, info.Child); err != nil {
			return err
		}
		c.emit(vm.Inst{Op: vm.OpAtomicEnd, AtomicTarget: startIdx})
		return nil

	case parse.KindBackref:
		c.emit(vm.Inst{Op: vm.OpBackref, Group: e.Backref, CaseFold: e.CaseFold})
		return nil

	default:
		// Leaf and anchor kinds are never individually hard; reachable
		// only if the Analyzer's Hard propagation is extended later.
		return c.emitDelegate(e, info)
	}
}

func (c *compiler) emitDelegate(e *parse.Expr, info *analyze.Info) error {
	var buf strings.Builder
	e.ToStr(&buf, 0)
	pattern := buf.String()
	if pattern == "" {
		return nil
	}
	re, err := Delegate(pattern, c.cfg)
	if err != nil {
		return err
	}
	idx := len(c.delegates)
	c.delegates = append(c.delegates, re)
	c.emit(vm.Inst{Op: vm.OpDelegateMatch, Delegate: idx, ConstSize: info.ConstSize})
	return nil
}

func (c *compiler) lowerAlt(e *parse.Expr, info *analyze.Info) error {
	n := len(e.Children)
	if n == 0 {
		return nil
	}
	var jmpFixups []int
	for i := 0; i < n; i++ {
		if i == n-1 {
			if err := c.lowerNode(e.Children[i], info.Children[i]); err != nil {
				return err
			}
			break
		}
		splitIdx := c.emit(vm.Inst{Op: vm.OpSplit})
		c.insts[splitIdx].X = len(c.insts)
		if err := c.lowerNode(e.Children[i], info.Children[i]); err != nil {
			return err
		}
		jmpFixups = append(jmpFixups, c.emit(vm.Inst{Op: vm.OpJmp}))
		c.insts[splitIdx].Y = len(c.insts)
	}
	end := len(c.insts)
	for _, idx := range jmpFixups {
		c.insts[idx].X = end
	}
	return nil
}

func (c *compiler) lowerLookAround(e *parse.Expr, info *analyze.Info) error {
	sub := &compiler{cfg: c.cfg, numGroups: c.numGroups}
	if err := sub.lowerNode(e.Child, info.Child); err != nil {
		return err
	}
	sub.emit(vm.Inst{Op: vm.OpAccept})
	subProg := &vm.Prog{Insts: sub.insts, Delegates: sub.delegates, NumSaves: 2 * (c.numGroups + 1)}

	negative := e.Look == parse.LookAheadNeg || e.Look == parse.LookBehindNeg
	width := -1
	if e.Look == parse.LookBehind || e.Look == parse.LookBehindNeg {
		width = info.Child.ConstSize
	}
	c.emit(vm.Inst{Op: vm.OpLookAround, Sub: subProg, Negative: negative, LookWidth: width})
	return nil
}

// lowerRepeat unrolls Repeat{lo,hi,greedy} at compile time: lo mandatory
// copies of the body, followed by either a Split/Jmp loop (unbounded) or
// hi-lo optional copies each gated by its own Split (bounded), per
// spec.md §4.3's "explicit unrolled Split frames".
func (c *compiler) lowerRepeat(e *parse.Expr, info *analyze.Info) error {
	for i := 0; i < e.Lo; i++ {
		if err := c.lowerNode(e.Child, info.Child); err != nil {
			return err
		}
	}
	if e.Hi == parse.Unbounded {
		splitIdx := c.emit(vm.Inst{Op: vm.OpSplit})
		bodyStart := len(c.insts)
		if err := c.lowerNode(e.Child, info.Child); err != nil {
			return err
		}
		c.emit(vm.Inst{Op: vm.OpJmp, X: splitIdx})
		exitIdx := len(c.insts)
		if e.Greedy {
			c.insts[splitIdx].X, c.insts[splitIdx].Y = bodyStart, exitIdx
		} else {
			c.insts[splitIdx].X, c.insts[splitIdx].Y = exitIdx, bodyStart
		}
		return nil
	}

	n := e.Hi - e.Lo
	var splits []int
	for i := 0; i < n; i++ {
		splitIdx := c.emit(vm.Inst{Op: vm.OpSplit})
		bodyStart := len(c.insts)
		if err := c.lowerNode(e.Child, info.Child); err != nil {
			return err
		}
		splits = append(splits, splitIdx)
		if e.Greedy {
			c.insts[splitIdx].X = bodyStart
		} else {
			c.insts[splitIdx].Y = bodyStart
		}
	}
	end := len(c.insts)
	for _, idx := range splits {
		if e.Greedy {
			c.insts[idx].Y = end
		} else {
			c.insts[idx].X = end
		}
	}
	return nil
}
