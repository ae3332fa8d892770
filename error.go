package fancyregex

import "github.com/coregx/fancyregex/rxerr"

// Error is the single error type returned by every fancyregex operation,
// at both compile time and run time. It is a type alias for rxerr.Error
// so callers constructing or inspecting errors never need to import the
// leaf error package directly.
type Error = rxerr.Error

// Kind identifies the specific compile-time or run-time failure.
type Kind = rxerr.Kind

// The complete set of failure kinds a fancyregex operation can report.
const (
	ParseError             = rxerr.ParseError
	UnclosedOpenParen      = rxerr.UnclosedOpenParen
	InvalidRepeat          = rxerr.InvalidRepeat
	RecursionExceeded      = rxerr.RecursionExceeded
	LookBehindNotConst     = rxerr.LookBehindNotConst
	TrailingBackslash      = rxerr.TrailingBackslash
	InvalidEscape          = rxerr.InvalidEscape
	UnclosedUnicodeName    = rxerr.UnclosedUnicodeName
	InvalidHex             = rxerr.InvalidHex
	InvalidCodepointValue  = rxerr.InvalidCodepointValue
	InvalidClass           = rxerr.InvalidClass
	UnknownFlag            = rxerr.UnknownFlag
	InvalidBackref         = rxerr.InvalidBackref
	NonUnicodeUnsupported  = rxerr.NonUnicodeUnsupported
	InnerError             = rxerr.InnerError
	StackOverflow          = rxerr.StackOverflow
	BacktrackLimitExceeded = rxerr.BacktrackLimitExceeded
)
