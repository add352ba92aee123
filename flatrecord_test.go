package flatrecord

import (
	"testing"
)

var (
	nilFloat64 *float64
	nilInt     *int
	nilString  *string
)

func float64p(v float64) *float64 { return &v }
func intp(v int) *int             { return &v }
func int64p(v int64) *int64       { return &v }
func stringp(v string) *string    { return &v }
func boolp(v bool) *bool          { return &v }

// EncodableString is a string that implements the encoding TextUnmarshaler and TextMarshaler interface.
// This is useful for testing.
type EncodableString struct {
	S   string
	Err error
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EncodableString) UnmarshalText(text []byte) error {
	s.S = string(text)
	return s.Err
}

// MarshalText implements encoding.TextMarshaler.
func (s EncodableString) MarshalText() ([]byte, error) {
	return []byte(s.S), s.Err
}

func mustFixedField(t testing.TB, offset, length int, opts ...FieldOption) *FixedField {
	t.Helper()
	f, err := NewFixedField(offset, length, opts...)
	if err != nil {
		t.Fatalf("NewFixedField(%d, %d) err %v", offset, length, err)
	}
	return f
}

func mustIndexedField(t testing.TB, index int, opts ...FieldOption) *IndexedField {
	t.Helper()
	f, err := NewIndexedField(index, opts...)
	if err != nil {
		t.Fatalf("NewIndexedField(%d) err %v", index, err)
	}
	return f
}

func mustAdd(t testing.TB, l Layout, name string, f Field) {
	t.Helper()
	if err := l.AddField(name, f); err != nil {
		t.Fatalf("AddField(%q) err %v", name, err)
	}
}
