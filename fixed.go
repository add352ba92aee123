package flatrecord

import (
	"strings"

	"github.com/pkg/errors"
)

// FixedLayout is a Layout for fixed-width records, where every field occupies
// a fixed byte range of the line.
//
// A strict layout rejects duplicate field names, overlapping byte ranges and
// lines shorter than the record. A lenient layout accepts all three: a
// duplicate name replaces the earlier field, and on overlapping ranges the
// field with the greater offset wins the shared bytes. A field added at the
// offset of another field evicts it entirely, so it no longer counts towards
// NumFields or Len.
type FixedLayout struct {
	cfg       layoutConfig
	fields    map[string]*FixedField
	order     map[int]string // offset -> name
	positions []int          // sorted keys of order
	length    int
}

var _ Layout = (*FixedLayout)(nil)

// NewFixedLayout returns an empty fixed-width layout. The defaults are a space
// pad character, a "\n" line ending and strict mode.
func NewFixedLayout(opts ...LayoutOption) *FixedLayout {
	return &FixedLayout{
		cfg:    newLayoutConfig(opts),
		fields: make(map[string]*FixedField),
		order:  make(map[int]string),
	}
}

// AddField registers f, which must be a *FixedField, under name.
func (l *FixedLayout) AddField(name string, f Field) error {
	ff, ok := f.(*FixedField)
	if !ok || ff == nil {
		return fieldError("add", name, errors.Wrapf(ErrInvalidDescriptor, "%T is not a *FixedField", f))
	}

	if _, ok := l.fields[name]; ok {
		if !l.cfg.lenient {
			return fieldError("add", name, ErrFieldOverwrite)
		}
		l.remove(name)
	}

	if !l.cfg.lenient {
		for _, pos := range l.positions {
			other := l.order[pos]
			if o := l.fields[other]; ff.overlaps(o) {
				return fieldError("add", name, errors.Wrapf(ErrFieldOverlap,
					"bytes %d-%d intersect %s (%d-%d)", ff.Offset(), ff.Stop(), other, o.Offset(), o.Stop()))
			}
		}
	}

	// Only one field can start at a given offset.
	if prev, ok := l.order[ff.offset]; ok {
		l.remove(prev)
	}

	l.fields[name] = ff
	l.order[ff.offset] = name
	l.positions = sortedPositions(l.order)
	l.length = l.recordLength()
	return nil
}

func (l *FixedLayout) remove(name string) {
	f, ok := l.fields[name]
	if !ok {
		return
	}
	delete(l.fields, name)
	if l.order[f.offset] == name {
		delete(l.order, f.offset)
		l.positions = sortedPositions(l.order)
	}
}

// recordLength returns the end of the furthest reaching field.
func (l *FixedLayout) recordLength() int {
	var n int
	for _, f := range l.fields {
		if end := f.offset + f.length; end > n {
			n = end
		}
	}
	return n
}

// ParseInto decodes line and stores each field through acc. A trailing line
// ending is ignored.
//
// Padding is removed from the side(s) given by the field's pad direction. If
// nothing remains, the field's empty value is stored instead of decoding.
// Fields holding nested records are decoded from their text with the padding
// intact, since the nested layout owns those bytes.
func (l *FixedLayout) ParseInto(line string, acc Accessor) error {
	if l.cfg.eol != "" {
		line = strings.TrimSuffix(line, l.cfg.eol)
	}
	if !l.cfg.lenient && l.length > 0 && len(line) < l.length {
		return fieldError("parse", "", errors.Wrapf(ErrLineTooShort, "have %d bytes, want %d", len(line), l.length))
	}

	for _, pos := range l.positions {
		name := l.order[pos]
		f := l.fields[name]

		raw := sliceLine(line, f.offset, f.length)
		text := f.cfg.padDir.unpad(raw, f.PadChar())
		if _, ok := f.Decorator().(rawTextDecoder); ok && text != "" {
			text = raw
		}
		var (
			v   any
			err error
		)
		if text == "" {
			v = f.EmptyValue()
		} else if v, err = f.Decorator().Decode(text); err != nil {
			return fieldError("parse", name, err)
		}
		if err := acc.Set(name, v); err != nil {
			return fieldError("parse", name, err)
		}
	}
	return nil
}

// sliceLine returns up to length bytes of line starting at offset. Short lines
// yield a shorter or empty string.
func sliceLine(line string, offset, length int) string {
	if offset >= len(line) {
		return ""
	}
	end := offset + length
	if end > len(line) {
		end = len(line)
	}
	return line[offset:end]
}

// Parse decodes line into a new Values.
func (l *FixedLayout) Parse(line string) (Values, error) {
	v := Values{}
	if err := l.ParseInto(line, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Serialize encodes the fields read through acc into a line of Len bytes
// followed by the line ending. Bytes not covered by any field hold the
// layout's pad character.
//
// Values shorter than their field are padded with the field's pad character.
// Longer values are truncated according to the pad direction when the field
// allows truncation, and reported as ErrFieldTooLong otherwise.
func (l *FixedLayout) Serialize(acc Accessor) (string, error) {
	b := newLineBuilder(l.length, l.length+len(l.cfg.eol), l.cfg.padChar)
	for _, pos := range l.positions {
		name := l.order[pos]
		f := l.fields[name]

		text, err := f.Decorator().Encode(acc.Get(name))
		if err != nil {
			return "", fieldError("serialize", name, err)
		}
		text = f.cfg.padDir.pad(text, f.length, f.PadChar())
		if len(text) > f.length {
			if !f.Truncate() {
				return "", fieldError("serialize", name, errors.Wrapf(ErrFieldTooLong,
					"%d bytes, limit %d", len(text), f.length))
			}
			text = f.cfg.padDir.truncate(text, f.length)
		}
		b.WriteString(f.offset, text)
	}
	b.Append(l.cfg.eol)
	return b.String(), nil
}

// Len returns the record length in bytes, excluding the line ending.
func (l *FixedLayout) Len() int { return l.length }

// NumFields returns the number of registered fields.
func (l *FixedLayout) NumFields() int { return len(l.fields) }

// Field returns the descriptor registered under name.
func (l *FixedLayout) Field(name string) (*FixedField, bool) {
	f, ok := l.fields[name]
	return f, ok
}

func (l *FixedLayout) Fields() []string {
	names := make([]string, 0, len(l.positions))
	for _, pos := range l.positions {
		names = append(names, l.order[pos])
	}
	return names
}

func (l *FixedLayout) LineEnding() string { return l.cfg.eol }

// Lenient reports whether the layout was built in lenient mode.
func (l *FixedLayout) Lenient() bool { return l.cfg.lenient }
