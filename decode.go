package flatrecord

import (
	"bufio"
	"bytes"
	"io"
	"reflect"
	"strings"
)

// Unmarshal parses flat record data and stores the result in the value
// pointed to by v. If v is nil or not a pointer, Unmarshal returns an
// InvalidUnmarshalError.
func Unmarshal(data []byte, v any) error {
	return NewDecoder(bytes.NewReader(data)).Decode(v)
}

// A Decoder reads and decodes flat records from an input stream. Records are
// separated by the line ending of their layout, see LayoutConfigurer.
type Decoder struct {
	data     *bufio.Reader
	done     bool
	registry *Registry
}

// NewDecoder returns a new decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		data:     bufio.NewReader(r),
		registry: defaultRegistry,
	}
}

// SetRegistry configures the Decoder to look up layouts in r instead of the
// package default registry.
func (d *Decoder) SetRegistry(r *Registry) {
	d.registry = r
}

// An InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
// (The argument to Unmarshal must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "flatrecord: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Ptr {
		return "flatrecord: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "flatrecord: Unmarshal(nil " + e.Type.String() + ")"
}

// Decode reads from its input and stores the decoded data to the value
// pointed to by v.
//
// In the case that v points to a struct value, Decode will read a
// single line from the input. If there is no data remaining,
// Decode returns io.EOF.
//
// In the case that v points to a slice value, Decode will read until
// the end of its input. Blank lines are skipped.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	if rv.Elem().Kind() == reflect.Slice {
		return d.readLines(rv.Elem())
	}

	ok, err := d.readLine(rv)
	if err == nil && !ok {
		return io.EOF
	}
	return err
}

func (d *Decoder) readLines(v reflect.Value) error {
	ct := v.Type().Elem()
	for {
		nv := reflect.New(indirectType(ct))
		ok, err := d.readLine(nv)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if ct.Kind() == reflect.Ptr {
			v.Set(reflect.Append(v, nv))
		} else {
			v.Set(reflect.Append(v, nv.Elem()))
		}
	}
}

// readLine decodes the next non-blank record into the struct v points to. It
// reports false when the input is exhausted.
func (d *Decoder) readLine(v reflect.Value) (bool, error) {
	for !d.done {
		if _, err := d.data.Peek(1); err == io.EOF {
			d.done = true
			break
		}
		l, err := d.registry.Layout(v.Type())
		if err != nil {
			return false, err
		}
		line, err := d.readRecord(l)
		if err != nil {
			return false, err
		}
		if line == "" {
			continue
		}

		for v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Ptr {
			if v.Elem().IsNil() {
				v.Elem().Set(reflect.New(v.Elem().Type().Elem()))
			}
			v = v.Elem()
		}
		return true, l.ParseInto(line, newStructAccessor(v))
	}
	return false, nil
}

// readRecord reads the text of one record, without its line ending. Records
// end with the layout's line ending; fixed-width records without one are
// read Len bytes at a time.
func (d *Decoder) readRecord(l Layout) (string, error) {
	eol := l.LineEnding()
	if fl, ok := l.(*FixedLayout); ok && eol == "" && fl.Len() > 0 {
		buf := make([]byte, fl.Len())
		n, err := io.ReadFull(d.data, buf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			d.done = true
		} else if err != nil {
			return "", err
		}
		return strings.TrimRight(string(buf[:n]), "\r\n"), nil
	}

	delim := byte('\n')
	if eol != "" {
		delim = eol[len(eol)-1]
	}
	var b strings.Builder
	for {
		s, err := d.data.ReadString(delim)
		b.WriteString(s)
		if err == io.EOF {
			d.done = true
			break
		}
		if err != nil {
			return "", err
		}
		// A newline always ends a record, so "\r\n" layouts read "\n" files.
		if delim == '\n' || strings.HasSuffix(b.String(), eol) {
			break
		}
	}
	line := strings.TrimSuffix(b.String(), eol)
	return strings.TrimRight(line, "\r\n"), nil
}
