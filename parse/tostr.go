package parse

import "strings"

var metaChars = "\\.+*?()|[]{}^$#"

func isMeta(r rune) bool {
	return strings.ContainsRune(metaChars, r)
}

func pushQuoted(buf *strings.Builder, s string) {
	for _, r := range s {
		if isMeta(r) {
			buf.WriteByte('\\')
		}
		buf.WriteRune(r)
	}
}

// ToStr serializes e back into pattern text understood by the linear
// engine's dialect. It is only ever called on non-hard subtrees (easy
// sub-patterns and whole easy patterns); calling it on a Backref,
// LookAround, or AtomicGroup node is a programming error.
//
// precedence follows the grammar: 0 = alternation context, 1 = inside an
// alternative, 2 = concatenation context, 3 = repeat operand context.
func (e *Expr) ToStr(buf *strings.Builder, precedence int) {
	switch e.Kind {
	case KindEmpty:
		// matches nothing written
	case KindAny:
		if e.Newline {
			buf.WriteString("(?s:.)")
		} else {
			buf.WriteString(".")
		}
	case KindLiteral:
		if e.CaseFold {
			buf.WriteString("(?i:")
		}
		pushQuoted(buf, e.Literal)
		if e.CaseFold {
			buf.WriteString(")")
		}
	case KindStartText:
		buf.WriteString("^")
	case KindEndText:
		buf.WriteString("$")
	case KindStartLine:
		buf.WriteString("(?m:^)")
	case KindEndLine:
		buf.WriteString("(?m:$)")
	case KindWordBoundary:
		buf.WriteString(`\b`)
	case KindNotWordBoundary:
		buf.WriteString(`\B`)
	case KindConcat:
		if precedence > 1 {
			buf.WriteString("(?:")
		}
		for _, c := range e.Children {
			c.ToStr(buf, 2)
		}
		if precedence > 1 {
			buf.WriteString(")")
		}
	case KindAlt:
		if precedence > 0 {
			buf.WriteString("(?:")
		}
		containsEmpty := false
		for _, c := range e.Children {
			if c.Kind == KindEmpty {
				containsEmpty = true
				break
			}
		}
		if containsEmpty {
			buf.WriteString("(?:")
		}
		first := true
		for _, c := range e.Children {
			if c.Kind == KindEmpty {
				continue
			}
			if !first {
				buf.WriteString("|")
			}
			first = false
			c.ToStr(buf, 1)
		}
		if containsEmpty {
			// "(a|b|)" is rejected by most dialects; rewrite as an optional group.
			buf.WriteString(")?")
		}
		if precedence > 0 {
			buf.WriteString(")")
		}
	case KindGroup:
		buf.WriteString("(")
		e.Child.ToStr(buf, 0)
		buf.WriteString(")")
	case KindRepeat:
		if precedence > 2 {
			buf.WriteString("(?:")
		}
		e.Child.ToStr(buf, 3)
		buf.WriteString("{")
		writeUint(buf, e.Lo)
		buf.WriteString(",")
		if e.Hi != Unbounded {
			writeUint(buf, e.Hi)
		}
		buf.WriteString("}")
		if !e.Greedy {
			buf.WriteString("?")
		}
		if precedence > 2 {
			buf.WriteString(")")
		}
	case KindDelegate:
		if e.CaseFold {
			buf.WriteString("(?i:")
		}
		buf.WriteString(e.DelegatePattern)
		if e.CaseFold {
			buf.WriteString(")")
		}
	default:
		panic("parse: attempting to serialize a hard expression")
	}
}

func writeUint(buf *strings.Builder, n int) {
	if n >= 10 {
		writeUint(buf, n/10)
	}
	buf.WriteByte(byte('0' + n%10))
}
