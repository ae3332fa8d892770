package fancyregex

// Match is a single matched span: a half-open byte range into the text it
// was found in.
type Match struct {
	text  string
	start int
	end   int
}

// Start returns the byte offset of the match's first byte.
func (m *Match) Start() int { return m.start }

// End returns the byte offset one past the match's last byte.
func (m *Match) End() int { return m.end }

// Len returns the match's length in bytes.
func (m *Match) Len() int { return m.end - m.start }

// IsEmpty reports whether the match has zero length.
func (m *Match) IsEmpty() bool { return m.start == m.end }

// String returns the matched text.
func (m *Match) String() string { return m.text[m.start:m.end] }

// Bytes returns the matched text as a byte slice.
func (m *Match) Bytes() []byte { return []byte(m.text[m.start:m.end]) }
