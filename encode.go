package flatrecord

import (
	"bufio"
	"bytes"
	"io"
	"reflect"
)

// Marshal returns the flat record encoding of v.
//
// v must be a struct, a pointer to a struct, or a slice of either. A struct
// is encoded to a single line using the layout of its type; a slice encodes
// one line per element. Every line is terminated by the layout's line ending.
//
// The layout of a struct type is built from its field tags, see Registry.
// Fields of a fixed-width record are tagged `fixed:"offset,length[,opts]"`
// and fields of a delimited record `csv:"index[,opts]"`.
func Marshal(v any) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	err := NewEncoder(buff).Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// MarshalInvalidTypeError describes an invalid type being marshaled.
type MarshalInvalidTypeError struct {
	typeName string
}

func (e *MarshalInvalidTypeError) Error() string {
	return "flatrecord: cannot marshal unknown Type " + e.typeName
}

// An Encoder writes flat records to an output stream.
type Encoder struct {
	w        *bufio.Writer
	registry *Registry
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:        bufio.NewWriter(w),
		registry: defaultRegistry,
	}
}

// SetRegistry configures the Encoder to look up layouts in r instead of the
// package default registry.
func (e *Encoder) SetRegistry(r *Registry) {
	e.registry = r
}

// Encode writes the encoding of v to the stream.
// See the documentation for Marshal for details about
// encoding behavior.
func (e *Encoder) Encode(i any) (err error) {
	if i == nil {
		return nil
	}

	// check to see if i should be encoded into multiple lines
	v := reflect.ValueOf(i)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Slice {
		err = e.writeLines(v)
	} else {
		err = e.writeLine(v)
	}
	if err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *Encoder) writeLines(v reflect.Value) error {
lines:
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		for elem.Kind() == reflect.Ptr || elem.Kind() == reflect.Interface {
			// nil elements are omitted
			if elem.IsNil() {
				continue lines
			}
			elem = elem.Elem()
		}
		if err := e.writeLine(elem); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) writeLine(v reflect.Value) error {
	if v.Kind() != reflect.Struct {
		return &MarshalInvalidTypeError{typeName: v.Type().String()}
	}
	l, err := e.registry.Layout(v.Type())
	if err != nil {
		return err
	}
	line, err := l.Serialize(newStructAccessor(v))
	if err != nil {
		return err
	}
	_, err = e.w.WriteString(line)
	return err
}
