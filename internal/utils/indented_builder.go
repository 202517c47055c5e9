package utils

import "strings"

// IndentedBuilder accumulates lines of text, prefixing each line with the
// current indentation. One builder produces one artifact and is never shared.
type IndentedBuilder struct {
	sb      strings.Builder
	unit    string
	newline string
	level   int
	prefix  string
}

// IndentOption configures an IndentedBuilder
type IndentOption func(*IndentedBuilder)

// WithIndentUnit sets the string repeated once per indentation level
func WithIndentUnit(unit string) IndentOption {
	return func(b *IndentedBuilder) {
		b.unit = unit
	}
}

// WithStartingLevel sets the initial indentation level
func WithStartingLevel(level int) IndentOption {
	return func(b *IndentedBuilder) {
		b.level = max(0, level)
	}
}

// WithNewline sets the line terminator
func WithNewline(newline string) IndentOption {
	return func(b *IndentedBuilder) {
		b.newline = newline
	}
}

// NewIndentedBuilder creates a builder indenting with one tab per level
func NewIndentedBuilder(opts ...IndentOption) *IndentedBuilder {
	b := &IndentedBuilder{
		unit:    "\t",
		newline: "\n",
	}
	for _, opt := range opts {
		opt(b)
	}
	b.prefix = strings.Repeat(b.unit, b.level)
	return b
}

// Line appends an indented line
func (b *IndentedBuilder) Line(line string) *IndentedBuilder {
	b.sb.WriteString(b.prefix)
	b.sb.WriteString(line)
	b.sb.WriteString(b.newline)
	return b
}

// Newline appends a bare line break with no indentation
func (b *IndentedBuilder) Newline() *IndentedBuilder {
	b.sb.WriteString(b.newline)
	return b
}

// Char appends a single character without indentation or line break
func (b *IndentedBuilder) Char(r rune) *IndentedBuilder {
	b.sb.WriteRune(r)
	return b
}

// Indent increases the indentation level by one
func (b *IndentedBuilder) Indent() *IndentedBuilder {
	b.setLevel(b.level + 1)
	return b
}

// Unindent decreases the indentation level by one, stopping at zero
func (b *IndentedBuilder) Unindent() *IndentedBuilder {
	b.setLevel(b.level - 1)
	return b
}

// Indented runs fn one level deeper. The previous level is restored when fn
// returns, whatever fn did to the level in between.
func (b *IndentedBuilder) Indented(fn func(*IndentedBuilder)) *IndentedBuilder {
	saved := b.level
	defer b.setLevel(saved)

	b.setLevel(saved + 1)
	fn(b)
	return b
}

// Block runs fn without changing the indentation
func (b *IndentedBuilder) Block(fn func(*IndentedBuilder)) *IndentedBuilder {
	fn(b)
	return b
}

// Level returns the current indentation level
func (b *IndentedBuilder) Level() int {
	return b.level
}

// Len returns the number of bytes written so far
func (b *IndentedBuilder) Len() int {
	return b.sb.Len()
}

// String returns the accumulated text
func (b *IndentedBuilder) String() string {
	return b.sb.String()
}

func (b *IndentedBuilder) setLevel(level int) {
	b.level = max(0, level)
	b.prefix = strings.Repeat(b.unit, b.level)
}
