package flatrecord

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// A Decorator converts a field value to and from its textual form.
//
// Decode should be able to decode the text produced by Encode, up to any
// precision loss the decorator declares.
type Decorator interface {
	Encode(value any) (string, error)
	Decode(text string) (any, error)
}

var lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")

// DefaultDecorator renders values with their natural textual form. Line breaks
// are replaced by spaces since records are single lines.
//
// Decoding maps blank text to nil and "true"/"false" (in any case) to a bool.
// All other text is returned unchanged.
type DefaultDecorator struct{}

func (DefaultDecorator) Encode(value any) (string, error) {
	s, err := formatValue(value)
	if err != nil {
		return "", err
	}
	return lineBreaks.Replace(s), nil
}

func (DefaultDecorator) Decode(text string) (any, error) {
	switch {
	case strings.TrimSpace(text) == "":
		return nil, nil
	case strings.EqualFold(text, "true"):
		return true, nil
	case strings.EqualFold(text, "false"):
		return false, nil
	}
	return text, nil
}

func formatValue(value any) (string, error) {
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr && rv.IsNil() {
		return "", nil
	}
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case encoding.TextMarshaler:
		b, err := v.MarshalText()
		if err != nil {
			return "", errors.Wrapf(ErrInvalidValue, "marshal text: %v", err)
		}
		return string(b), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}
	return fmt.Sprint(rv.Interface()), nil
}

// BooleanDecorator maps booleans to two distinct literals.
type BooleanDecorator struct {
	trueText, falseText string
}

// NewBooleanDecorator returns a BooleanDecorator. The literals must differ.
func NewBooleanDecorator(trueText, falseText string) (*BooleanDecorator, error) {
	if trueText == falseText {
		return nil, errors.Wrapf(ErrDecoratorConfig, "true and false literals are both %q", trueText)
	}
	return &BooleanDecorator{trueText: trueText, falseText: falseText}, nil
}

// Encode returns the true literal for truthy values and the false literal
// otherwise. nil, false, zero numbers, "", "0" and nil pointers are falsy.
func (d *BooleanDecorator) Encode(value any) (string, error) {
	if truthy(reflect.ValueOf(value)) {
		return d.trueText, nil
	}
	return d.falseText, nil
}

// Decode returns true or false for the matching literal and nil for any other
// text.
func (d *BooleanDecorator) Decode(text string) (any, error) {
	switch text {
	case d.trueText:
		return true, nil
	case d.falseText:
		return false, nil
	}
	return nil, nil
}

func truthy(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil() && truthy(rv.Elem())
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		s := rv.String()
		return s != "" && s != "0"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

// NumericDecorator stores numbers as integers scaled by 10^precision, without
// a decimal separator. With precision 2 the value 577.31 is written "57731".
//
// Encoding truncates fraction digits beyond the precision. Decoding yields an
// int64 for precision 0 and a float64 otherwise.
type NumericDecorator struct {
	precision int
}

// NewNumericDecorator returns a NumericDecorator with the given number of
// implied fraction digits.
func NewNumericDecorator(precision int) (*NumericDecorator, error) {
	if precision < 0 {
		return nil, errors.Wrapf(ErrDecoratorConfig, "precision %d is negative", precision)
	}
	return &NumericDecorator{precision: precision}, nil
}

func (d *NumericDecorator) Precision() int { return d.precision }

func (d *NumericDecorator) Encode(value any) (string, error) {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}

	var s string
	switch rv.Kind() {
	case reflect.Invalid:
		return "", nil
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		s = strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		s = strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", errors.Wrapf(ErrInvalidValue, "cannot encode %v", f)
		}
		bitSize := 64
		if rv.Kind() == reflect.Float32 {
			bitSize = 32
		}
		s = strconv.FormatFloat(f, 'f', -1, bitSize)
	case reflect.String:
		text := strings.TrimSpace(rv.String())
		if text == "" {
			return "", nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", errors.Wrapf(ErrInvalidValue, "%q is not a number", text)
		}
		s = strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return "", errors.Wrapf(ErrInvalidValue, "cannot encode %T as a number", value)
	}
	return shiftDecimal(s, d.precision), nil
}

func (d *NumericDecorator) Decode(text string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "%q is not an integer", text)
	}
	if d.precision == 0 {
		return n, nil
	}
	return float64(n) / math.Pow10(d.precision), nil
}

// shiftDecimal moves the decimal point of the plain decimal number s by
// precision digits to the right and drops what remains after it.
func shiftDecimal(s string, precision int) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if len(frac) < precision {
		frac += strings.Repeat("0", precision-len(frac))
	}

	digits := strings.TrimLeft(whole+frac[:precision], "0")
	if digits == "" {
		return "0"
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// DateTimeDecorator formats time.Time values with a Go reference layout such
// as "20060102".
type DateTimeDecorator struct {
	layout string
}

// NewDateTimeDecorator returns a DateTimeDecorator for layout.
func NewDateTimeDecorator(layout string) (*DateTimeDecorator, error) {
	if layout == "" {
		return nil, errors.Wrap(ErrDecoratorConfig, "empty time layout")
	}
	return &DateTimeDecorator{layout: layout}, nil
}

func (d *DateTimeDecorator) Layout() string { return d.layout }

// Encode renders a time.Time or *time.Time. Absent values (nil, a nil pointer
// or the zero time) are rendered as empty text.
func (d *DateTimeDecorator) Encode(value any) (string, error) {
	var t time.Time
	switch v := value.(type) {
	case nil:
		return "", nil
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return "", nil
		}
		t = *v
	default:
		return "", errors.Wrapf(ErrInvalidValue, "cannot encode %T as a time", value)
	}
	if t.IsZero() {
		return "", nil
	}
	return t.Format(d.layout), nil
}

func (d *DateTimeDecorator) Decode(text string) (any, error) {
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(d.layout, text)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "%q does not match layout %q", text, d.layout)
	}
	return t, nil
}

// RecordDecorator embeds a record of another layout inside a field.
type RecordDecorator struct {
	layout Layout
}

// NewRecordDecorator returns a RecordDecorator for the nested layout.
func NewRecordDecorator(layout Layout) (*RecordDecorator, error) {
	if layout == nil {
		return nil, errors.Wrap(ErrDecoratorConfig, "nil nested layout")
	}
	return &RecordDecorator{layout: layout}, nil
}

// Encode serializes an Accessor or a map[string]any through the nested
// layout. nil serializes a record with every field absent.
func (d *RecordDecorator) Encode(value any) (string, error) {
	var acc Accessor
	switch v := value.(type) {
	case nil:
		acc = Values{}
	case Accessor:
		acc = v
	case map[string]any:
		acc = Values(v)
	default:
		return "", errors.Wrapf(ErrInvalidValue, "cannot encode %T as a nested record", value)
	}
	return serializeNested(d.layout, acc)
}

// Decode parses text through the nested layout into Values.
func (d *RecordDecorator) Decode(text string) (any, error) {
	v := Values{}
	if err := parseNested(d.layout, text, v); err != nil {
		return nil, err
	}
	return v, nil
}

// rawTextDecoder is implemented by decorators that decode the text of a
// fixed-width field without its padding removed.
type rawTextDecoder interface {
	rawText()
}

func (*RecordDecorator) rawText() {}

// parseNested parses an embedded record. Text shorter than a fixed-width
// record, as cut from a short line, is padded to the record length first.
func parseNested(layout Layout, text string, acc Accessor) error {
	if fl, ok := layout.(*FixedLayout); ok && len(text) < fl.Len() {
		text += repeat(fl.cfg.padChar, fl.Len()-len(text))
	}
	return layout.ParseInto(text, acc)
}

func serializeNested(layout Layout, acc Accessor) (string, error) {
	s, err := layout.Serialize(acc)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, layout.LineEnding()), nil
}
