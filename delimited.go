package flatrecord

import (
	"strings"

	"github.com/pkg/errors"
)

// DelimitedLayout is a Layout for delimited (CSV-like) records, where fields
// are identified by their ordinal index.
//
// A strict layout rejects duplicate field names and indexes. A lenient layout
// replaces the earlier field instead.
type DelimitedLayout struct {
	cfg       layoutConfig
	q         quoting
	fields    map[string]*IndexedField
	order     map[int]string // index -> name
	positions []int          // sorted keys of order
}

var _ Layout = (*DelimitedLayout)(nil)

// NewDelimitedLayout returns an empty delimited layout. The defaults are ','
// as delimiter, '"' as enclosure, '\' as escape, a "\n" line ending and
// strict mode.
func NewDelimitedLayout(opts ...LayoutOption) *DelimitedLayout {
	cfg := newLayoutConfig(opts)
	return &DelimitedLayout{
		cfg:    cfg,
		q:      quoting{delimiter: cfg.delimiter, enclosure: cfg.enclosure, escape: cfg.escape},
		fields: make(map[string]*IndexedField),
		order:  make(map[int]string),
	}
}

// AddField registers f, which must be an *IndexedField, under name.
func (l *DelimitedLayout) AddField(name string, f Field) error {
	xf, ok := f.(*IndexedField)
	if !ok || xf == nil {
		return fieldError("add", name, errors.Wrapf(ErrInvalidDescriptor, "%T is not an *IndexedField", f))
	}

	_, exists := l.fields[name]
	prev, taken := l.order[xf.index]
	if !l.cfg.lenient {
		if exists {
			return fieldError("add", name, ErrFieldOverwrite)
		}
		if taken {
			return fieldError("add", name, errors.Wrapf(ErrFieldOverwrite, "index %d belongs to %s", xf.index, prev))
		}
	}
	if exists {
		l.remove(name)
	}
	if taken {
		l.remove(prev)
	}

	l.fields[name] = xf
	l.order[xf.index] = name
	l.positions = sortedPositions(l.order)
	return nil
}

// AddHeader adds one field with default configuration per column of a header
// line, named after the column and indexed by its position.
func (l *DelimitedLayout) AddHeader(line string) error {
	for i, name := range l.q.split(l.trimEOL(line)) {
		f, err := NewIndexedField(i)
		if err != nil {
			return err
		}
		if err := l.AddField(name, f); err != nil {
			return err
		}
	}
	return nil
}

func (l *DelimitedLayout) remove(name string) {
	f, ok := l.fields[name]
	if !ok {
		return
	}
	delete(l.fields, name)
	if l.order[f.index] == name {
		delete(l.order, f.index)
		l.positions = sortedPositions(l.order)
	}
}

// trimEOL removes the configured line ending and any line break left over
// from a different convention, such as the "\r" of a CRLF file read with a
// "\n" layout.
func (l *DelimitedLayout) trimEOL(line string) string {
	line = strings.TrimSuffix(line, l.cfg.eol)
	return strings.TrimRight(line, "\r\n")
}

// ParseInto tokenizes line and stores each registered field through acc.
// Tokens at unregistered indexes are ignored and fields without a token are
// left unset. Empty tokens store the field's empty value.
func (l *DelimitedLayout) ParseInto(line string, acc Accessor) error {
	for i, token := range l.q.split(l.trimEOL(line)) {
		name, ok := l.order[i]
		if !ok {
			continue
		}
		f := l.fields[name]

		var (
			v   any
			err error
		)
		if token == "" {
			v = f.EmptyValue()
		} else if v, err = f.Decorator().Decode(token); err != nil {
			return fieldError("parse", name, err)
		}
		if err := acc.Set(name, v); err != nil {
			return fieldError("parse", name, err)
		}
	}
	return nil
}

// Parse decodes line into a new Values.
func (l *DelimitedLayout) Parse(line string) (Values, error) {
	v := Values{}
	if err := l.ParseInto(line, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Serialize encodes the fields read through acc into one delimited line. The
// line has one column per index up to the greatest registered index; unused
// columns are empty.
func (l *DelimitedLayout) Serialize(acc Accessor) (string, error) {
	var width int
	if n := len(l.positions); n > 0 {
		width = l.positions[n-1] + 1
	}
	columns := make([]string, width)
	for _, pos := range l.positions {
		name := l.order[pos]
		text, err := l.fields[name].Decorator().Encode(acc.Get(name))
		if err != nil {
			return "", fieldError("serialize", name, err)
		}
		columns[pos] = text
	}
	return l.q.join(columns) + l.cfg.eol, nil
}

// NumFields returns the number of registered fields.
func (l *DelimitedLayout) NumFields() int { return len(l.fields) }

// Field returns the descriptor registered under name.
func (l *DelimitedLayout) Field(name string) (*IndexedField, bool) {
	f, ok := l.fields[name]
	return f, ok
}

func (l *DelimitedLayout) Fields() []string {
	names := make([]string, 0, len(l.positions))
	for _, pos := range l.positions {
		names = append(names, l.order[pos])
	}
	return names
}

func (l *DelimitedLayout) LineEnding() string { return l.cfg.eol }

// Lenient reports whether the layout was built in lenient mode.
func (l *DelimitedLayout) Lenient() bool { return l.cfg.lenient }
