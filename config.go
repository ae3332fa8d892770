package fancyregex

import "github.com/coregx/fancyregex/compile"

// DefaultBacktrackLimit is the VM step budget used when Config.BacktrackLimit is zero.
const DefaultBacktrackLimit = 1_000_000

// Config controls pattern compilation, following the same plain
// field-and-Validate shape the linear engine uses for its own meta.Config
// rather than a functional-options pattern.
type Config struct {
	// CaseInsensitive prepends the "i" inline flag.
	CaseInsensitive bool
	// MultiLine prepends the "m" inline flag.
	MultiLine bool
	// DotMatchesNewLine prepends the "s" inline flag.
	DotMatchesNewLine bool
	// Unicode prepends the "u" inline flag. Disabling Unicode mode is not
	// supported; setting this to false is a no-op, since every pattern is
	// always parsed and matched as Unicode text.
	Unicode bool
	// SizeLimit caps compiled delegate memory, in bytes. Zero means
	// compile.DefaultSizeLimit.
	SizeLimit int
	// BacktrackLimit caps VM steps per match attempt on the hard path.
	// Zero means DefaultBacktrackLimit. Unused on the easy path, whose
	// matches are bounded by the linear engine instead.
	BacktrackLimit int
}

// DefaultConfig returns the default compilation configuration.
func DefaultConfig() Config {
	return Config{
		Unicode:        true,
		SizeLimit:      compile.DefaultSizeLimit,
		BacktrackLimit: DefaultBacktrackLimit,
	}
}

// Validate reports whether c's numeric fields are in range.
func (c Config) Validate() error {
	if c.SizeLimit < 0 {
		return &ConfigError{Field: "SizeLimit", Message: "must not be negative"}
	}
	if c.BacktrackLimit < 0 {
		return &ConfigError{Field: "BacktrackLimit", Message: "must not be negative"}
	}
	return nil
}

// ConfigError reports an out-of-range Config field.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "fancyregex: invalid config: " + e.Field + ": " + e.Message
}

// RegexBuilder assembles a Config with chainable setters before compiling,
// mirroring the original fancy-regex crate's RegexBuilder.
type RegexBuilder struct {
	pattern string
	cfg     Config
}

// NewRegexBuilder starts building a Regex for pattern with default configuration.
func NewRegexBuilder(pattern string) *RegexBuilder {
	return &RegexBuilder{pattern: pattern, cfg: DefaultConfig()}
}

func (b *RegexBuilder) CaseInsensitive(v bool) *RegexBuilder {
	b.cfg.CaseInsensitive = v
	return b
}

func (b *RegexBuilder) MultiLine(v bool) *RegexBuilder {
	b.cfg.MultiLine = v
	return b
}

func (b *RegexBuilder) DotMatchesNewLine(v bool) *RegexBuilder {
	b.cfg.DotMatchesNewLine = v
	return b
}

func (b *RegexBuilder) Unicode(v bool) *RegexBuilder {
	b.cfg.Unicode = v
	return b
}

func (b *RegexBuilder) SizeLimit(n int) *RegexBuilder {
	b.cfg.SizeLimit = n
	return b
}

func (b *RegexBuilder) BacktrackLimit(n int) *RegexBuilder {
	b.cfg.BacktrackLimit = n
	return b
}

// Build compiles the accumulated configuration into a Regex.
func (b *RegexBuilder) Build() (*Regex, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return CompileWithConfig(b.pattern, b.cfg)
}
