package utils

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestIndentedBuilder_Line(t *testing.T) {
	b := NewIndentedBuilder()
	b.Line("class A {").
		Indented(func(sb *IndentedBuilder) {
			sb.Line("int x;")
			sb.Indented(func(sb *IndentedBuilder) {
				sb.Line("nested")
			})
			sb.Line("int y;")
		}).
		Char('}')

	assert.Equal(t, "class A {\n\tint x;\n\t\tnested\n\tint y;\n}", b.String())
	assert.Equal(t, 0, b.Level())
}

func TestIndentedBuilder_NewlineIsBare(t *testing.T) {
	b := NewIndentedBuilder(WithStartingLevel(2))
	b.Newline().Line("x")

	assert.Equal(t, "\n\t\tx\n", b.String())
}

func TestIndentedBuilder_Options(t *testing.T) {
	tests := []struct {
		name     string
		opts     []IndentOption
		expected string
	}{
		{
			name:     "default tab",
			expected: "a\n\tb\n",
		},
		{
			name:     "four spaces",
			opts:     []IndentOption{WithIndentUnit("    ")},
			expected: "a\n    b\n",
		},
		{
			name:     "crlf",
			opts:     []IndentOption{WithNewline("\r\n")},
			expected: "a\r\n\tb\r\n",
		},
		{
			name:     "starting level",
			opts:     []IndentOption{WithStartingLevel(1), WithIndentUnit(" ")},
			expected: " a\n  b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewIndentedBuilder(tt.opts...)
			b.Line("a").Indented(func(sb *IndentedBuilder) {
				sb.Line("b")
			})
			assert.Equal(t, tt.expected, b.String())
		})
	}
}

func TestIndentedBuilder_UnindentClampsAtZero(t *testing.T) {
	b := NewIndentedBuilder()
	b.Unindent().Unindent()
	assert.Equal(t, 0, b.Level())

	b.Line("x")
	assert.Equal(t, "x\n", b.String())
}

func TestIndentedBuilder_IndentedRestoresAfterUnbalancedCallback(t *testing.T) {
	b := NewIndentedBuilder()
	b.Indented(func(sb *IndentedBuilder) {
		sb.Indent().Indent().Indent()
	})
	assert.Equal(t, 0, b.Level())

	b.Indent()
	b.Indented(func(sb *IndentedBuilder) {
		sb.Unindent().Unindent().Unindent()
	})
	assert.Equal(t, 1, b.Level())
}

func TestIndentedBuilder_IndentedRestoresAfterPanic(t *testing.T) {
	b := NewIndentedBuilder()
	assert.Panics(t, func() {
		b.Indented(func(sb *IndentedBuilder) {
			panic("boom")
		})
	})
	assert.Equal(t, 0, b.Level())
}

func TestIndentedBuilder_BlockKeepsLevel(t *testing.T) {
	b := NewIndentedBuilder(WithStartingLevel(1))
	b.Block(func(sb *IndentedBuilder) {
		sb.Line("x")
	})
	assert.Equal(t, 1, b.Level())
	assert.Equal(t, "\tx\n", b.String())
}

// nest runs depth nested Indented calls and records the level seen at the bottom.
func nest(b *IndentedBuilder, depth int, seen *int) {
	if depth == 0 {
		*seen = b.Level()
		b.Line("leaf")
		return
	}
	b.Indented(func(sb *IndentedBuilder) {
		nest(sb, depth-1, seen)
	})
}

func TestIndentedBuilder_LevelProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("nested Indented calls restore the starting level", prop.ForAll(
		func(start, depth int) bool {
			b := NewIndentedBuilder(WithStartingLevel(start))
			var seen int
			nest(b, depth, &seen)
			return b.Level() == start && seen == start+depth
		},
		gen.IntRange(0, 5),
		gen.IntRange(0, 12),
	))

	properties.Property("leaf line carries one unit per level", prop.ForAll(
		func(depth int) bool {
			b := NewIndentedBuilder(WithIndentUnit("  "))
			var seen int
			nest(b, depth, &seen)
			return b.String() == strings.Repeat("  ", depth)+"leaf\n"
		},
		gen.IntRange(0, 12),
	))

	properties.Property("level never goes negative", prop.ForAll(
		func(ups, downs int) bool {
			b := NewIndentedBuilder()
			for i := 0; i < ups; i++ {
				b.Indent()
			}
			for i := 0; i < downs; i++ {
				b.Unindent()
			}
			return b.Level() == max(0, ups-downs)
		},
		gen.IntRange(0, 10),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t)
}
