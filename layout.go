package flatrecord

import (
	"sort"
)

// A Layout is the compiled description of one record shape. It is built once
// with AddField and then used for any number of Parse, ParseInto and Serialize
// calls.
//
// Layouts hold no per-record state. Once fully built a Layout may be shared by
// concurrent readers; AddField must not be called concurrently with any other
// method.
type Layout interface {
	// AddField registers the descriptor f under name. Fields may be added in
	// any order; the layout orders them by position.
	AddField(name string, f Field) error
	// ParseInto decodes line and stores each field through acc.
	ParseInto(line string, acc Accessor) error
	// Parse decodes line into a new Values.
	Parse(line string) (Values, error)
	// Serialize encodes the fields read through acc into a single line
	// terminated by LineEnding.
	Serialize(acc Accessor) (string, error)
	// Fields returns the registered field names in position order.
	Fields() []string
	LineEnding() string
}

type layoutConfig struct {
	padChar   byte
	eol       string
	lenient   bool
	delimiter byte
	enclosure byte
	escape    byte
}

// A LayoutOption configures a layout at construction time. Options that do not
// apply to a layout kind are ignored by it.
type LayoutOption func(c *layoutConfig)

// WithPadChar sets the character used to fill the gaps between fixed-width
// fields. Only the first character of s is significant.
func WithPadChar(s string) LayoutOption {
	return func(c *layoutConfig) {
		c.padChar = firstByte(s, c.padChar)
	}
}

// WithEOL sets the sequence terminating every serialized line. It may be
// empty.
func WithEOL(eol string) LayoutOption {
	return func(c *layoutConfig) {
		c.eol = eol
	}
}

// Lenient allows field overwrites, fixed-width overlaps and short lines
// instead of reporting them as errors.
func Lenient() LayoutOption {
	return func(c *layoutConfig) {
		c.lenient = true
	}
}

// WithDelimiter sets the field separator of a delimited layout. Only the first
// character of s is significant.
func WithDelimiter(s string) LayoutOption {
	return func(c *layoutConfig) {
		c.delimiter = firstByte(s, c.delimiter)
	}
}

// WithEnclosure sets the quote character of a delimited layout. Only the first
// character of s is significant.
func WithEnclosure(s string) LayoutOption {
	return func(c *layoutConfig) {
		c.enclosure = firstByte(s, c.enclosure)
	}
}

// WithEscape sets the escape character used inside quoted fields of a
// delimited layout. Only the first character of s is significant.
func WithEscape(s string) LayoutOption {
	return func(c *layoutConfig) {
		c.escape = firstByte(s, c.escape)
	}
}

func newLayoutConfig(opts []LayoutOption) layoutConfig {
	c := layoutConfig{
		padChar:   defaultPadChar,
		eol:       "\n",
		delimiter: ',',
		enclosure: '"',
		escape:    '\\',
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// sortedPositions returns the keys of order in ascending order.
func sortedPositions(order map[int]string) []int {
	positions := make([]int, 0, len(order))
	for pos := range order {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}
