package flatrecord

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelimitedLayout_RoundTrip(t *testing.T) {
	l := NewDelimitedLayout(WithEOL(""))
	mustAdd(t, l, "name", mustIndexedField(t, 0))
	mustAdd(t, l, "address", mustIndexedField(t, 1))
	mustAdd(t, l, "phone", mustIndexedField(t, 2))
	mustAdd(t, l, "id", mustIndexedField(t, 3))
	mustAdd(t, l, "gap", mustIndexedField(t, 6))

	line := `"Fullname Surname","Street St, 1234",877883998,9988377849,,,00000`
	have, err := l.Parse(line)
	require.NoError(t, err)
	want := Values{
		"name":    "Fullname Surname",
		"address": "Street St, 1234",
		"phone":   "877883998",
		"id":      "9988377849",
		"gap":     "00000",
	}
	if diff := cmp.Diff(want, have); diff != "" {
		t.Errorf("Parse() mismatch (-want +have):\n%s", diff)
	}

	out, err := l.Serialize(have)
	require.NoError(t, err)
	assert.Equal(t, line, out)
}

func TestDelimitedLayout_Config(t *testing.T) {
	l := NewDelimitedLayout(WithDelimiter("|"), WithEnclosure("*"), WithEOL("\r\r\n"))
	mustAdd(t, l, "name", mustIndexedField(t, 0))
	mustAdd(t, l, "address", mustIndexedField(t, 1))
	mustAdd(t, l, "phone", mustIndexedField(t, 2))
	mustAdd(t, l, "id", mustIndexedField(t, 3))
	assert.Equal(t, "\r\r\n", l.LineEnding())

	line := "*Fullname Surname*|*Street St, 1234*|877883998|9988377849\r\r\n"
	obj := Values{}
	require.NoError(t, l.ParseInto(line, obj))
	assert.Equal(t, "Fullname Surname", obj["name"])
	assert.Equal(t, "Street St, 1234", obj["address"])
	assert.Equal(t, "877883998", obj["phone"])
	assert.Equal(t, "9988377849", obj["id"])

	out, err := l.Serialize(obj)
	require.NoError(t, err)
	assert.Equal(t, line, out)
}

func TestDelimitedLayout_Decorators(t *testing.T) {
	d, err := NewBooleanDecorator("Y", "N")
	require.NoError(t, err)

	l := NewDelimitedLayout()
	mustAdd(t, l, "test", mustIndexedField(t, 0, WithDecorator(d)))
	mustAdd(t, l, "test2", mustIndexedField(t, 1, WithDecorator(d)))

	values := Values{"test": true, "test2": false}
	line, err := l.Serialize(values)
	require.NoError(t, err)
	assert.Equal(t, byte('Y'), line[0])
	assert.Equal(t, byte('N'), line[2])

	have, err := l.Parse(line)
	require.NoError(t, err)
	assert.Equal(t, values, have)
}

func TestDelimitedLayout_Strict(t *testing.T) {
	l := NewDelimitedLayout()
	mustAdd(t, l, "teste", mustIndexedField(t, 0))
	mustAdd(t, l, "teste2", mustIndexedField(t, 1))

	err := l.AddField("teste", mustIndexedField(t, 5))
	assert.True(t, errors.Is(err, ErrFieldOverwrite), "overwrite by name: %v", err)

	err = l.AddField("foo", mustIndexedField(t, 0))
	assert.True(t, errors.Is(err, ErrFieldOverwrite), "overwrite by index: %v", err)

	assert.Equal(t, []string{"teste", "teste2"}, l.Fields())
}

func TestDelimitedLayout_Lenient(t *testing.T) {
	l := NewDelimitedLayout(Lenient())
	assert.True(t, l.Lenient())
	mustAdd(t, l, "teste", mustIndexedField(t, 0))
	mustAdd(t, l, "teste2", mustIndexedField(t, 1))

	mustAdd(t, l, "foo", mustIndexedField(t, 0))
	assert.Equal(t, []string{"foo", "teste2"}, l.Fields())
	_, ok := l.Field("teste")
	assert.False(t, ok)

	mustAdd(t, l, "teste2", mustIndexedField(t, 3))
	assert.Equal(t, []string{"foo", "teste2"}, l.Fields())
	assert.Equal(t, 2, l.NumFields())

	line, err := l.Serialize(Values{"foo": "a", "teste2": "b"})
	require.NoError(t, err)
	assert.Equal(t, "a,,,b\n", line)
}

func TestDelimitedLayout_EmptyValue(t *testing.T) {
	l := NewDelimitedLayout(WithEOL(""))
	mustAdd(t, l, "test", mustIndexedField(t, 5, WithEmpty("XPTO")))
	mustAdd(t, l, "missing", mustIndexedField(t, 9, WithEmpty("unused")))

	have, err := l.Parse("a,b,c,d,e,")
	require.NoError(t, err)
	assert.Equal(t, "XPTO", have["test"])
	assert.NotContains(t, have, "missing", "fields without a token are left unset")
}

func TestDelimitedLayout_Quoting(t *testing.T) {
	l := NewDelimitedLayout()
	for i, name := range []string{"delim", "quote", "escape", "plain"} {
		mustAdd(t, l, name, mustIndexedField(t, i))
	}

	values := Values{
		"delim":  "x,y",
		"quote":  `say "hi"`,
		"escape": `back\slash`,
		"plain":  "ok",
	}
	line, err := l.Serialize(values)
	require.NoError(t, err)
	assert.Equal(t, `"x,y","say ""hi""","back\\slash",ok`+"\n", line)

	have, err := l.Parse(line)
	require.NoError(t, err)
	assert.Equal(t, values, have)
}

func TestDelimitedLayout_AddHeader(t *testing.T) {
	l := NewDelimitedLayout()
	require.NoError(t, l.AddHeader("id,name,\"e-mail, primary\"\r\n"))
	assert.Equal(t, []string{"id", "name", "e-mail, primary"}, l.Fields())

	have, err := l.Parse("1,Ana,ana@example.com\n")
	require.NoError(t, err)
	assert.Equal(t, Values{"id": "1", "name": "Ana", "e-mail, primary": "ana@example.com"}, have)

	err = NewDelimitedLayout().AddHeader("a,b,a")
	assert.True(t, errors.Is(err, ErrFieldOverwrite), "AddHeader() err %v", err)
}

func TestDelimitedLayout_Errors(t *testing.T) {
	l := NewDelimitedLayout()
	err := l.AddField("f", mustFixedField(t, 0, 1))
	assert.True(t, errors.Is(err, ErrInvalidDescriptor), "AddField() err %v", err)

	d, err := NewDateTimeDecorator("20060102")
	require.NoError(t, err)
	mustAdd(t, l, "date", mustIndexedField(t, 1, WithDecorator(d)))

	_, err = l.Parse("x,2025-01-01")
	var fe *FieldError
	require.True(t, errors.As(err, &fe), "Parse() err %v", err)
	assert.Equal(t, "parse", fe.Op)
	assert.Equal(t, "date", fe.Field)
	assert.True(t, errors.Is(err, ErrInvalidValue))

	_, err = l.Serialize(Values{"date": 12})
	assert.True(t, errors.Is(err, ErrInvalidValue), "Serialize() err %v", err)
}
