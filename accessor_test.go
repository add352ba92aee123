package flatrecord

import (
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestAssign(t *testing.T) {
	for _, tt := range []struct {
		name      string
		target    any
		value     any
		expected  any
		shouldErr bool
	}{
		{"nil", stringp("foo"), nil, stringp(""), false},
		{"string", new(string), "foo", stringp("foo"), false},
		{"string from int", new(string), 12, stringp("12"), false},
		{"string from bool", new(string), true, stringp("true"), false},
		{"string from TextMarshaler", new(string), EncodableString{"bar", nil}, stringp("bar"), false},
		{"*string", new(*string), "foo", func() any { p := stringp("foo"); return &p }(), false},
		{"int from string", new(int), "123", intp(123), false},
		{"int from int64", new(int), int64(999), intp(999), false},
		{"int from float", new(int), 12.9, intp(12), false},
		{"int invalid", new(int), "nan", nil, true},
		{"int from bool", new(int), true, nil, true},
		{"int64 from string", new(int64), "-42", int64p(-42), false},
		{"uint from string", new(uint), "7", func() any { u := uint(7); return &u }(), false},
		{"uint negative", new(uint), -1, nil, true},
		{"uint negative float", new(uint), -1.5, nil, true},
		{"float from string", new(float64), "1.25", float64p(1.25), false},
		{"float from int64", new(float64), int64(3), float64p(3), false},
		{"float invalid", new(float64), "abc", nil, true},
		{"bool from string", new(bool), "true", boolp(true), false},
		{"bool invalid", new(bool), "maybe", nil, true},
		{"TextUnmarshaler", new(EncodableString), "baz", &EncodableString{"baz", nil}, false},
		{"pointer into value", new(time.Time), &time.Time{}, &time.Time{}, false},
		{"struct from string", new(time.Location), "UTC", nil, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v := reflect.ValueOf(tt.target).Elem()
			err := assign(v, tt.value)
			if tt.shouldErr != (err != nil) {
				t.Errorf("assign() err want %v, have %v (%v)", tt.shouldErr, err != nil, err)
			}
			if tt.shouldErr {
				if !errors.Is(err, ErrAccessor) {
					t.Errorf("assign() err want %v, have %v", ErrAccessor, err)
				}
				return
			}
			if !reflect.DeepEqual(tt.target, tt.expected) {
				t.Errorf("assign() want %#v, have %#v", tt.expected, tt.target)
			}
		})
	}
}

func TestStructAccessor(t *testing.T) {
	type record struct {
		Name   string
		Amount float64
		hidden string
	}
	r := record{Name: "Ana", Amount: 1.5, hidden: "x"}
	acc := newStructAccessor(reflect.ValueOf(&r))

	if have := acc.Get("Name"); have != "Ana" {
		t.Errorf("Get() want %v, have %v", "Ana", have)
	}
	if have := acc.Get("hidden"); have != nil {
		t.Errorf("Get() unexported want nil, have %v", have)
	}
	if have := acc.Get("Missing"); have != nil {
		t.Errorf("Get() missing want nil, have %v", have)
	}

	if err := acc.Set("Amount", "2.75"); err != nil {
		t.Errorf("Set() err %v", err)
	}
	if r.Amount != 2.75 {
		t.Errorf("Set() want %v, have %v", 2.75, r.Amount)
	}
	for _, name := range []string{"hidden", "Missing"} {
		if err := acc.Set(name, "v"); !errors.Is(err, ErrAccessor) {
			t.Errorf("Set(%q) err want %v, have %v", name, ErrAccessor, err)
		}
	}
}

func TestValues(t *testing.T) {
	v := Values{}
	if err := v.Set("a", 1); err != nil {
		t.Errorf("Set() err %v", err)
	}
	if have := v.Get("a"); have != 1 {
		t.Errorf("Get() want %v, have %v", 1, have)
	}
	if have := v.Get("b"); have != nil {
		t.Errorf("Get() want nil, have %v", have)
	}
}
