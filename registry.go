package flatrecord

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// LayoutConfigurer is implemented by struct types that need layout options
// other than the defaults. The method is called on the zero value of the type.
// A Decoder splits its input on the line ending set here; fixed-width records
// without a line ending are read back to back.
type LayoutConfigurer interface {
	LayoutOptions() []LayoutOption
}

// A Registry builds layouts from struct tags and caches them by type. A
// layout is built fully before it is published, so cached layouts are safe
// for concurrent use. The zero value is ready to use.
type Registry struct {
	layouts sync.Map // map[reflect.Type]Layout
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Register sets the layout used for the type of prototype, replacing any
// layout discovered from struct tags.
func (r *Registry) Register(prototype any, layout Layout) {
	r.layouts.Store(indirectType(reflect.TypeOf(prototype)), layout)
}

// Layout returns the layout of struct type t, building it from the struct
// tags on first use.
func (r *Registry) Layout(t reflect.Type) (Layout, error) {
	t = indirectType(t)
	if l, ok := r.layouts.Load(t); ok {
		return l.(Layout), nil
	}
	l, err := r.build(t)
	if err != nil {
		return nil, err
	}
	actual, _ := r.layouts.LoadOrStore(t, l)
	return actual.(Layout), nil
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// build creates the layout of struct type t. Every exported field tagged with
// `fixed` or `csv` becomes a layout field named after the Go field.
func (r *Registry) build(t reflect.Type) (Layout, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.Errorf("flatrecord: cannot build layout for %v", t)
	}

	var kind string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		for _, k := range []string{fixedTag, csvTag} {
			if _, ok := f.Tag.Lookup(k); !ok {
				continue
			}
			if kind != "" && kind != k {
				return nil, errors.Errorf("flatrecord: %s mixes fixed and csv tags", t)
			}
			kind = k
		}
	}
	if kind == "" {
		return nil, errors.Errorf("flatrecord: %s has no fixed or csv tags", t)
	}

	var opts []LayoutOption
	if c, ok := reflect.New(t).Elem().Interface().(LayoutConfigurer); ok {
		opts = c.LayoutOptions()
	}
	var l Layout
	if kind == fixedTag {
		l = NewFixedLayout(opts...)
	} else {
		l = NewDelimitedLayout(opts...)
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(kind)
		if !ok || sf.PkgPath != "" {
			continue
		}
		ft, err := parseTag(kind, tag)
		if err != nil {
			return nil, errors.WithMessagef(err, "flatrecord: %s.%s", t.Name(), sf.Name)
		}
		if ft.decorator == nil && isNestedRecord(sf.Type) {
			ft.decorator = &StructDecorator{registry: r, typ: indirectType(sf.Type)}
		}
		field, err := ft.field(kind)
		if err != nil {
			return nil, errors.WithMessagef(err, "flatrecord: %s.%s", t.Name(), sf.Name)
		}
		if err := l.AddField(sf.Name, field); err != nil {
			return nil, err
		}
	}
	return l, nil
}

var timeType = reflect.TypeOf(time.Time{})

// isNestedRecord reports whether values of t are records of their own layout
// rather than scalars.
func isNestedRecord(t reflect.Type) bool {
	t = indirectType(t)
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	return !reflect.PtrTo(t).Implements(textUnmarshalerType) &&
		!t.Implements(reflect.TypeOf(new(encoding.TextMarshaler)).Elem())
}

// StructDecorator embeds a struct record of another layout inside a field. The
// nested layout is resolved through the registry on first use and reused.
type StructDecorator struct {
	registry *Registry
	typ      reflect.Type

	once   sync.Once
	layout Layout
	err    error
}

// NewStructDecorator returns a StructDecorator for the struct type of
// prototype, resolved through the default registry.
func NewStructDecorator(prototype any) *StructDecorator {
	return &StructDecorator{registry: defaultRegistry, typ: indirectType(reflect.TypeOf(prototype))}
}

func (d *StructDecorator) resolve() (Layout, error) {
	d.once.Do(func() {
		d.layout, d.err = d.registry.Layout(d.typ)
	})
	return d.layout, d.err
}

func (*StructDecorator) rawText() {}

// Encode serializes a struct or struct pointer. nil and nil pointers encode as
// empty text, leaving the enclosing field to its padding.
func (d *StructDecorator) Encode(value any) (string, error) {
	l, err := d.resolve()
	if err != nil {
		return "", err
	}
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return "", nil
	}
	if indirectType(rv.Type()) != d.typ {
		return "", errors.Wrapf(ErrInvalidValue, "cannot encode %T as %s", value, d.typ)
	}
	return serializeNested(l, newStructAccessor(rv))
}

// Decode parses text into a new struct and returns a pointer to it.
func (d *StructDecorator) Decode(text string) (any, error) {
	l, err := d.resolve()
	if err != nil {
		return nil, err
	}
	v := reflect.New(d.typ)
	if err := parseNested(l, text, newStructAccessor(v)); err != nil {
		return nil, err
	}
	return v.Interface(), nil
}
