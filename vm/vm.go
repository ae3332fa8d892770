package vm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/fancyregex/linear"
	"github.com/coregx/fancyregex/rxerr"
)

// Unset is the save-slot sentinel meaning "group not captured".
const Unset = -1

// MaxLookaroundDepth bounds recursion through nested look-around
// sub-programs, mirroring the parser's MAX_RECURSION budget.
const MaxLookaroundDepth = 64

type logEntry struct {
	slot int
	prev int
}

type frame struct {
	pc       int
	ip       int
	saveMark int
}

// budget is shared by a run and every look-around sub-run it spawns, so a
// single backtrack-step cap and recursion cap apply to the whole match
// attempt, not per sub-program.
type budget struct {
	steps    int
	limit    int
	depth    int
	maxDepth int
}

type execState struct {
	prog        *Prog
	text        string
	saves       []int
	saveLog     []logEntry
	stack       []frame
	atomicMarks []int
	bud         *budget
}

func newExecState(prog *Prog, text string, bud *budget) *execState {
	saves := make([]int, prog.NumSaves)
	for i := range saves {
		saves[i] = Unset
	}
	return &execState{prog: prog, text: text, saves: saves, bud: bud}
}

func (s *execState) pushSave(slot, val int) {
	s.saveLog = append(s.saveLog, logEntry{slot: slot, prev: s.saves[slot]})
	s.saves[slot] = val
}

func (s *execState) undoTo(mark int) {
	for len(s.saveLog) > mark {
		e := s.saveLog[len(s.saveLog)-1]
		s.saveLog = s.saveLog[:len(s.saveLog)-1]
		s.saves[e.slot] = e.prev
	}
}

// run executes s.prog starting at instruction pc and input offset ip,
// backtracking on failure until either OpAccept is reached (true) or the
// backtrack stack is exhausted (false).
func (s *execState) run(pc, ip int) (bool, error) {
	for {
		s.bud.steps++
		if s.bud.steps > s.bud.limit {
			return false, rxerr.New(rxerr.BacktrackLimitExceeded)
		}

		inst := &s.prog.Insts[pc]
		matched := false

		switch inst.Op {
		case OpAccept:
			return true, nil

		case OpChar:
			if r, size, ok := decodeRuneAt(s.text, ip); ok && runesEqual(r, inst.Char, inst.CaseFold) {
				pc, ip, matched = pc+1, ip+size, true
			}

		case OpAnyChar:
			if r, size, ok := decodeRuneAt(s.text, ip); ok && (inst.Newline || r != '\n') {
				pc, ip, matched = pc+1, ip+size, true
			}

		case OpDelegateMatch:
			if n, ok := matchDelegate(s.prog.Delegates[inst.Delegate], s.text, ip); ok {
				pc, ip, matched = pc+1, ip+n, true
			}

		case OpSave:
			val := ip
			if inst.SaveUnset {
				val = Unset
			}
			s.pushSave(inst.Slot, val)
			pc, matched = pc+1, true

		case OpSplit:
			s.stack = append(s.stack, frame{pc: inst.Y, ip: ip, saveMark: len(s.saveLog)})
			pc, matched = inst.X, true

		case OpJmp:
			pc, matched = inst.X, true

		case OpAssertion:
			if s.checkAssert(inst.Assert, ip) {
				pc, matched = pc+1, true
			}

		case OpBackref:
			if n, ok := s.matchBackref(inst.Group, inst.CaseFold, ip); ok {
				pc, ip, matched = pc+1, ip+n, true
			}

		case OpLookAround:
			var err error
			matched, err = s.runLookAround(inst, &pc, ip)
			if err != nil {
				return false, err
			}

		case OpAtomicStart:
			s.atomicMarks = append(s.atomicMarks, len(s.stack))
			pc, matched = pc+1, true

		case OpAtomicEnd:
			n := len(s.atomicMarks)
			mark := s.atomicMarks[n-1]
			s.atomicMarks = s.atomicMarks[:n-1]
			s.stack = s.stack[:mark]
			pc, matched = pc+1, true
		}

		if matched {
			continue
		}

		if len(s.stack) == 0 {
			return false, nil
		}
		top := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.undoTo(top.saveMark)
		pc, ip = top.pc, top.ip
	}
}

// runLookAround evaluates a look-around assertion and, on success, advances
// *pc past it. Captures made inside the sub-program are discarded: the
// sub-run gets its own fresh save array that is never merged back.
func (s *execState) runLookAround(inst *Inst, pc *int, ip int) (bool, error) {
	s.bud.depth++
	defer func() { s.bud.depth-- }()
	if s.bud.depth > s.bud.maxDepth {
		return false, rxerr.New(rxerr.StackOverflow)
	}

	lookIP := ip
	if inst.LookWidth >= 0 {
		back, ok := backUp(s.text, ip, inst.LookWidth)
		if !ok {
			if inst.Negative {
				*pc++
				return true, nil
			}
			return false, nil
		}
		lookIP = back
	}

	sub := newExecState(inst.Sub, s.text, s.bud)
	matchedSub, err := sub.run(0, lookIP)
	if err != nil {
		return false, err
	}
	if matchedSub != inst.Negative {
		*pc++
		return true, nil
	}
	return false, nil
}

func (s *execState) checkAssert(kind AssertKind, ip int) bool {
	switch kind {
	case AssertStartText:
		return ip == 0
	case AssertEndText:
		return ip == len(s.text)
	case AssertStartLine:
		if ip == 0 {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(s.text[:ip])
		return r == '\n'
	case AssertEndLine:
		if ip == len(s.text) {
			return true
		}
		r, _ := utf8.DecodeRuneInString(s.text[ip:])
		return r == '\n'
	case AssertWordBoundary, AssertNotWordBoundary:
		before := ip > 0 && isWordRune(runeBefore(s.text, ip))
		after := ip < len(s.text) && isWordRune(runeAt(s.text, ip))
		boundary := before != after
		if kind == AssertWordBoundary {
			return boundary
		}
		return !boundary
	}
	return false
}

func (s *execState) matchBackref(group int, casefold bool, ip int) (int, bool) {
	startSlot, endSlot := 2*group, 2*group+1
	if endSlot >= len(s.saves) {
		return 0, false
	}
	start, end := s.saves[startSlot], s.saves[endSlot]
	if start == Unset || end == Unset {
		return 0, false
	}
	captured := s.text[start:end]
	if ip+len(captured) > len(s.text) {
		return 0, false
	}
	candidate := s.text[ip : ip+len(captured)]
	if casefold {
		if !strings.EqualFold(candidate, captured) {
			return 0, false
		}
	} else if candidate != captured {
		return 0, false
	}
	return len(captured), true
}

// Run executes prog against text starting at byte offset pos, bounded by
// backtrackLimit VM steps. It returns the save array on success, nil on a
// clean no-match, or an error for BacktrackLimitExceeded/StackOverflow.
func Run(prog *Prog, text string, pos int, backtrackLimit int) ([]int, error) {
	bud := &budget{limit: backtrackLimit, maxDepth: MaxLookaroundDepth}
	s := newExecState(prog, text, bud)
	matched, err := s.run(0, pos)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, nil
	}
	return s.saves, nil
}

func decodeRuneAt(text string, ip int) (rune, int, bool) {
	if ip >= len(text) {
		return 0, 0, false
	}
	r, size := utf8.DecodeRuneInString(text[ip:])
	return r, size, true
}

func runeAt(text string, ip int) rune {
	r, _, _ := decodeRuneAt(text, ip)
	return r
}

func runeBefore(text string, ip int) rune {
	r, _ := utf8.DecodeLastRuneInString(text[:ip])
	return r
}

func backUp(text string, ip, n int) (int, bool) {
	pos := ip
	for i := 0; i < n; i++ {
		if pos == 0 {
			return 0, false
		}
		_, size := utf8.DecodeLastRuneInString(text[:pos])
		pos -= size
	}
	return pos, true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func runesEqual(a, b rune, casefold bool) bool {
	if a == b {
		return true
	}
	if !casefold {
		return false
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}

func matchDelegate(re *linear.Regex, text string, ip int) (int, bool) {
	idx := re.FindStringIndex(text[ip:])
	if idx == nil || idx[0] != 0 {
		return 0, false
	}
	return idx[1], true
}
