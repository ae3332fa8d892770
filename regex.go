// Package fancyregex implements a regular-expression matcher supporting
// backreferences and look-around on top of the fast, linear-time engine in
// github.com/coregx/fancyregex/linear. Patterns that need neither are
// compiled straight through to the linear engine (the "easy path");
// everything else is lowered to a small backtracking virtual machine (the
// "hard path"). Either way, compiling is the expensive step: a compiled
// Regex is immutable and safe to share across goroutines.
package fancyregex

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/fancyregex/analyze"
	"github.com/coregx/fancyregex/compile"
	"github.com/coregx/fancyregex/linear"
	"github.com/coregx/fancyregex/parse"
	"github.com/coregx/fancyregex/vm"
)

// Regex is a compiled pattern: either a Wrap around one or two linear
// engines (the easy path) or an Impl running the backtracking VM (the
// hard path). Exactly one of the two representations is populated.
type Regex struct {
	pattern   string
	numGroups int

	// Easy path.
	inner  *linear.Regex // "(?s:.)*?(original)"
	inner1 *linear.Regex // "^(?s:.)+?(original)", nil unless the pattern looks_left

	// Hard path.
	prog           *vm.Prog
	backtrackLimit int
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern is invalid.
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("fancyregex: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern with explicit configuration.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rewritten := applyFlags(pattern, cfg)
	expr, backrefs, err := parse.Parse(rewritten)
	if err != nil {
		return nil, err
	}
	info, err := analyze.Analyze(expr, backrefs)
	if err != nil {
		return nil, err
	}

	backtrackLimit := cfg.BacktrackLimit
	if backtrackLimit <= 0 {
		backtrackLimit = DefaultBacktrackLimit
	}
	ccfg := compile.Config{SizeLimit: cfg.SizeLimit}

	if !info.Hard {
		paths, err := compile.CompileEasy(expr, info.LooksLeft, ccfg)
		if err != nil {
			return nil, err
		}
		return &Regex{
			pattern:        pattern,
			numGroups:      info.EndGroup,
			inner:          paths.Inner,
			inner1:         paths.Inner1,
			backtrackLimit: backtrackLimit,
		}, nil
	}

	prog, err := compile.CompileHard(expr, info, info.EndGroup, ccfg)
	if err != nil {
		return nil, err
	}
	return &Regex{
		pattern:        pattern,
		numGroups:      info.EndGroup,
		prog:           prog,
		backtrackLimit: backtrackLimit,
	}, nil
}

// applyFlags rewrites pattern to "(?<flags>)pattern" for every Config flag
// that is set, per spec.md §6.
func applyFlags(pattern string, cfg Config) string {
	var flags strings.Builder
	if cfg.CaseInsensitive {
		flags.WriteByte('i')
	}
	if cfg.MultiLine {
		flags.WriteByte('m')
	}
	if cfg.DotMatchesNewLine {
		flags.WriteByte('s')
	}
	if cfg.Unicode {
		flags.WriteByte('u')
	}
	if flags.Len() == 0 {
		return pattern
	}
	return "(?" + flags.String() + ")" + pattern
}

// String returns the source pattern text the Regex was compiled from.
func (r *Regex) String() string { return r.pattern }

// IsMatch reports whether text contains any match.
func (r *Regex) IsMatch(text string) (bool, error) {
	m, err := r.Find(text)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// Find returns the leftmost match in text, or nil if there is none.
func (r *Regex) Find(text string) (*Match, error) {
	caps, err := r.Captures(text)
	if err != nil {
		return nil, err
	}
	if caps == nil {
		return nil, nil
	}
	return caps.Group(0), nil
}

// Captures returns every group of the leftmost match in text, or nil if
// there is no match.
func (r *Regex) Captures(text string) (*Captures, error) {
	return r.CapturesFromPos(text, 0)
}

// CapturesFromPos is like Captures but searches only text[pos:], while
// still allowing zero-width assertions (\b, look-behind) to observe the
// one code point immediately before pos.
func (r *Regex) CapturesFromPos(text string, pos int) (*Captures, error) {
	if r.prog != nil {
		return r.capturesHard(text, pos)
	}
	return r.capturesEasy(text, pos)
}

func (r *Regex) capturesEasy(text string, pos int) (*Captures, error) {
	if pos == 0 || r.inner1 == nil {
		idx := r.inner.FindStringSubmatchIndex(text[pos:])
		if idx == nil {
			return nil, nil
		}
		return buildCaptures(text, idx, pos, 1), nil
	}

	back, ok := stepBackOneRune(text, pos)
	if !ok {
		idx := r.inner.FindStringSubmatchIndex(text[pos:])
		if idx == nil {
			return nil, nil
		}
		return buildCaptures(text, idx, pos, 1), nil
	}
	idx := r.inner1.FindStringSubmatchIndex(text[back:])
	if idx == nil {
		return nil, nil
	}
	return buildCaptures(text, idx, back, 1), nil
}

func (r *Regex) capturesHard(text string, pos int) (*Captures, error) {
	for ip := pos; ; {
		saves, err := vm.Run(r.prog, text, ip, r.backtrackLimit)
		if err != nil {
			return nil, err
		}
		if saves != nil {
			return buildCaptures(text, saves, 0, 0), nil
		}
		if ip >= len(text) {
			return nil, nil
		}
		_, size := utf8.DecodeRuneInString(text[ip:])
		ip += size
	}
}

func stepBackOneRune(text string, pos int) (int, bool) {
	if pos <= 0 {
		return 0, false
	}
	_, size := utf8.DecodeLastRuneInString(text[:pos])
	return pos - size, true
}
