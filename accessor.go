package flatrecord

import (
	"encoding"
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

// An Accessor reads and writes the named fields of one record instance.
// Layouts never inspect how values are stored; they only call Get and Set.
type Accessor interface {
	Get(name string) any
	Set(name string, value any) error
}

// Values is an Accessor backed by a map.
type Values map[string]any

func (v Values) Get(name string) any { return v[name] }

func (v Values) Set(name string, value any) error {
	v[name] = value
	return nil
}

// structAccessor exposes the fields of a struct value by Go field name.
type structAccessor struct {
	v reflect.Value
}

// newStructAccessor returns an accessor for the struct v points to.
func newStructAccessor(v reflect.Value) structAccessor {
	return structAccessor{v: reflect.Indirect(v)}
}

func (a structAccessor) Get(name string) any {
	fv := a.v.FieldByName(name)
	if !fv.IsValid() || !fv.CanInterface() {
		return nil
	}
	return fv.Interface()
}

func (a structAccessor) Set(name string, value any) error {
	fv := a.v.FieldByName(name)
	if !fv.IsValid() || !fv.CanSet() {
		return errors.Wrapf(ErrAccessor, "no settable field %s", name)
	}
	return assign(fv, value)
}

var textUnmarshalerType = reflect.TypeOf(new(encoding.TextUnmarshaler)).Elem()

// assign stores value in dst, converting between compatible types. A nil
// value stores the zero value.
func assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	src := reflect.ValueOf(value)
	t := dst.Type()
	switch {
	case src.Type().AssignableTo(t):
		dst.Set(src)
		return nil
	case src.Kind() == reflect.Ptr && src.Type().Elem() == t:
		if src.IsNil() {
			dst.Set(reflect.Zero(t))
		} else {
			dst.Set(src.Elem())
		}
		return nil
	case t.Kind() == reflect.Ptr:
		if dst.IsNil() {
			dst.Set(reflect.New(t.Elem()))
		}
		return assign(dst.Elem(), value)
	case reflect.PtrTo(t).Implements(textUnmarshalerType) && src.Kind() == reflect.String:
		return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(src.String()))
	}

	switch t.Kind() {
	case reflect.String:
		s, err := formatValue(value)
		if err != nil {
			return err
		}
		dst.SetString(s)
		return nil
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
		switch src.Kind() {
		case reflect.Float32, reflect.Float64:
			dst.SetInt(int64(src.Float()))
			return nil
		case reflect.String:
			i, err := strconv.ParseInt(src.String(), 10, 64)
			if err != nil {
				return errors.Wrapf(ErrAccessor, "cannot assign %q to %s", src.String(), t)
			}
			dst.SetInt(i)
			return nil
		}
	case reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8:
		switch src.Kind() {
		case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8:
			if src.Int() < 0 {
				return errors.Wrapf(ErrAccessor, "cannot assign %d to %s", src.Int(), t)
			}
		case reflect.Float32, reflect.Float64:
			if src.Float() < 0 {
				return errors.Wrapf(ErrAccessor, "cannot assign %v to %s", src.Float(), t)
			}
			dst.SetUint(uint64(src.Float()))
			return nil
		case reflect.String:
			u, err := strconv.ParseUint(src.String(), 10, 64)
			if err != nil {
				return errors.Wrapf(ErrAccessor, "cannot assign %q to %s", src.String(), t)
			}
			dst.SetUint(u)
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if src.Kind() == reflect.String {
			f, err := strconv.ParseFloat(src.String(), 64)
			if err != nil {
				return errors.Wrapf(ErrAccessor, "cannot assign %q to %s", src.String(), t)
			}
			dst.SetFloat(f)
			return nil
		}
	case reflect.Bool:
		if src.Kind() == reflect.String {
			b, err := strconv.ParseBool(src.String())
			if err != nil {
				return errors.Wrapf(ErrAccessor, "cannot assign %q to %s", src.String(), t)
			}
			dst.SetBool(b)
			return nil
		}
	}

	if isNumber(src.Kind()) && isNumber(t.Kind()) {
		dst.Set(src.Convert(t))
		return nil
	}
	return errors.Wrapf(ErrAccessor, "cannot assign %T to %s", value, t)
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Int16, reflect.Int8,
		reflect.Uint, reflect.Uint64, reflect.Uint32, reflect.Uint16, reflect.Uint8,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
