package flatrecord

import (
	"github.com/pkg/errors"
)

// Field is the part of a field descriptor shared by both layout kinds.
type Field interface {
	// Position is the byte offset of a fixed-width field or the ordinal index
	// of a delimited field.
	Position() int
	Decorator() Decorator
	// EmptyValue is stored instead of decoding when the field's text is
	// empty.
	EmptyValue() any
}

type fieldConfig struct {
	empty     any
	decorator Decorator
	padChar   byte
	padDir    PadDirection
	truncate  bool
}

// A FieldOption configures a field descriptor at construction time.
type FieldOption func(c *fieldConfig)

// WithEmpty sets the value used when the field's text is empty.
func WithEmpty(v any) FieldOption {
	return func(c *fieldConfig) {
		c.empty = v
	}
}

// WithDecorator sets the field's decorator. A nil decorator selects
// DefaultDecorator.
func WithDecorator(d Decorator) FieldOption {
	return func(c *fieldConfig) {
		c.decorator = d
	}
}

// WithPad sets the pad character and direction of a fixed-width field. Only
// the first character of padChar is used; an empty string keeps the current
// pad character.
func WithPad(padChar string, dir PadDirection) FieldOption {
	return func(c *fieldConfig) {
		c.padChar = firstByte(padChar, c.padChar)
		c.padDir = dir
	}
}

// WithTruncate enables truncation of oversized values in a fixed-width field.
func WithTruncate() FieldOption {
	return func(c *fieldConfig) {
		c.truncate = true
	}
}

func newFieldConfig(opts []FieldOption) fieldConfig {
	c := fieldConfig{
		padChar: defaultPadChar,
		padDir:  PadRight,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.decorator == nil {
		c.decorator = DefaultDecorator{}
	}
	return c
}

// FixedField describes a field of a fixed-width record. It is immutable.
type FixedField struct {
	offset, length int
	cfg            fieldConfig
}

// NewFixedField returns a descriptor for the length bytes starting at the
// zero based offset.
func NewFixedField(offset, length int, opts ...FieldOption) (*FixedField, error) {
	if offset < 0 {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "offset %d is negative", offset)
	}
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "length %d is not positive", length)
	}
	cfg := newFieldConfig(opts)
	if !cfg.padDir.Valid() {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "pad direction %d", int(cfg.padDir))
	}
	return &FixedField{offset: offset, length: length, cfg: cfg}, nil
}

// NewNumberField returns a fixed-width field for numbers: zero filled on the
// left with an empty value of 0.
func NewNumberField(offset, length int, opts ...FieldOption) (*FixedField, error) {
	opts = append([]FieldOption{WithPad("0", PadLeft), WithEmpty(0)}, opts...)
	return NewFixedField(offset, length, opts...)
}

// NewIntegerField returns a number field holding a plain integer. An all zero
// field parses as int64(0), like any other value of the field.
func NewIntegerField(offset, length int, opts ...FieldOption) (*FixedField, error) {
	d, err := NewNumericDecorator(0)
	if err != nil {
		return nil, err
	}
	return NewNumberField(offset, length, append([]FieldOption{WithDecorator(d), WithEmpty(int64(0))}, opts...)...)
}

// NewFloatField returns a number field holding a fixed-point decimal with the
// given number of implied fraction digits. An all zero field parses as
// float64(0).
func NewFloatField(offset, length, precision int, opts ...FieldOption) (*FixedField, error) {
	d, err := NewNumericDecorator(precision)
	if err != nil {
		return nil, err
	}
	return NewNumberField(offset, length, append([]FieldOption{WithDecorator(d), WithEmpty(float64(0))}, opts...)...)
}

// NewBoolField returns a field holding one of two literals. Its length is the
// length of the longer literal.
func NewBoolField(offset int, trueText, falseText string, opts ...FieldOption) (*FixedField, error) {
	d, err := NewBooleanDecorator(trueText, falseText)
	if err != nil {
		return nil, err
	}
	length := len(trueText)
	if len(falseText) > length {
		length = len(falseText)
	}
	return NewFixedField(offset, length, append([]FieldOption{WithDecorator(d)}, opts...)...)
}

func (f *FixedField) Position() int { return f.offset }
func (f *FixedField) Decorator() Decorator { return f.cfg.decorator }
func (f *FixedField) EmptyValue() any { return f.cfg.empty }
func (f *FixedField) Offset() int { return f.offset }
func (f *FixedField) Length() int { return f.length }
func (f *FixedField) PadChar() byte { return f.cfg.padChar }
func (f *FixedField) PadDirection() PadDirection { return f.cfg.padDir }
func (f *FixedField) Truncate() bool { return f.cfg.truncate }

// Stop is the offset of the field's last byte.
func (f *FixedField) Stop() int { return f.offset + f.length - 1 }

// overlaps reports whether the byte ranges of f and o intersect.
func (f *FixedField) overlaps(o *FixedField) bool {
	return f.offset <= o.Stop() && o.offset <= f.Stop()
}

// IndexedField describes a field of a delimited record. It is immutable.
type IndexedField struct {
	index int
	cfg   fieldConfig
}

// NewIndexedField returns a descriptor for the zero based column index.
// Padding and truncation options have no effect on indexed fields.
func NewIndexedField(index int, opts ...FieldOption) (*IndexedField, error) {
	if index < 0 {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "index %d is negative", index)
	}
	return &IndexedField{index: index, cfg: newFieldConfig(opts)}, nil
}

func (f *IndexedField) Position() int { return f.index }
func (f *IndexedField) Decorator() Decorator { return f.cfg.decorator }
func (f *IndexedField) EmptyValue() any { return f.cfg.empty }
func (f *IndexedField) Index() int { return f.index }
