// Package schema loads record layouts from YAML documents.
//
// A document describes one layout:
//
//	kind: fixed
//	padChar: " "
//	eol: "\n"
//	lenient: false
//	fields:
//	  - name: bank
//	    offset: 0
//	    length: 3
//	    pad: "0"
//	    align: left
//	    empty: 0
//	    decorator:
//	      type: numeric
//	      precision: 0
//
// Delimited layouts use kind "delimited", the delimiter, enclosure, escape and
// header keys, and an index instead of offset and length for each field.
package schema

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hengadev/errsx"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	flatrecord "github.com/ianlopshire/go-flatrecord"
)

const (
	KindFixed     = "fixed"
	KindDelimited = "delimited"
)

// Schema is the YAML form of a layout.
type Schema struct {
	Kind      string  `yaml:"kind"`
	PadChar   string  `yaml:"padChar"`
	EOL       *string `yaml:"eol"`
	Lenient   bool    `yaml:"lenient"`
	Delimiter string  `yaml:"delimiter"`
	Enclosure string  `yaml:"enclosure"`
	Escape    string  `yaml:"escape"`
	// Header is a header line adding one default field per column before the
	// explicit fields are added.
	Header string  `yaml:"header"`
	Fields []Field `yaml:"fields"`
}

// Field is the YAML form of a field descriptor.
type Field struct {
	Name      string     `yaml:"name"`
	Offset    int        `yaml:"offset"`
	Length    int        `yaml:"length"`
	Index     int        `yaml:"index"`
	Pad       string     `yaml:"pad"`
	Align     string     `yaml:"align"`
	Truncate  bool       `yaml:"truncate"`
	Empty     any        `yaml:"empty"`
	Decorator *Decorator `yaml:"decorator"`
}

// Decorator is the YAML form of a decorator.
type Decorator struct {
	Type      string  `yaml:"type"` // default, boolean, numeric, datetime or record
	Precision int     `yaml:"precision"`
	TrueText  string  `yaml:"trueText"`
	FalseText string  `yaml:"falseText"`
	Layout    string  `yaml:"layout"`
	Record    *Schema `yaml:"record"`
}

// Parse decodes a YAML schema document. Unknown keys are rejected.
func Parse(data []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Schema
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "schema: decode")
	}
	return &s, nil
}

// Load reads and decodes the schema document at path.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "schema: read")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return s, nil
}

// Build creates the layout described by s. Problems with individual fields are
// collected and returned together, keyed by field name.
func (s *Schema) Build() (flatrecord.Layout, error) {
	opts := []flatrecord.LayoutOption{
		flatrecord.WithPadChar(s.PadChar),
		flatrecord.WithDelimiter(s.Delimiter),
		flatrecord.WithEnclosure(s.Enclosure),
		flatrecord.WithEscape(s.Escape),
	}
	if s.EOL != nil {
		opts = append(opts, flatrecord.WithEOL(*s.EOL))
	}
	if s.Lenient {
		opts = append(opts, flatrecord.Lenient())
	}

	var layout flatrecord.Layout
	switch s.Kind {
	case KindFixed, "":
		layout = flatrecord.NewFixedLayout(opts...)
	case KindDelimited:
		dl := flatrecord.NewDelimitedLayout(opts...)
		if s.Header != "" {
			if err := dl.AddHeader(s.Header); err != nil {
				return nil, errors.WithMessage(err, "schema: header")
			}
		}
		layout = dl
	default:
		return nil, errors.Errorf("schema: unknown kind %q", s.Kind)
	}

	var errs errsx.Map
	for i, fs := range s.Fields {
		key := fs.Name
		if key == "" {
			key = fmt.Sprintf("fields[%d]", i)
			errs.Set(key, "missing name")
			continue
		}
		f, err := fs.build(s.Kind == KindDelimited)
		if err != nil {
			errs.Set(key, err)
			continue
		}
		if err := layout.AddField(fs.Name, f); err != nil {
			errs.Set(key, err)
		}
	}
	if !errs.IsEmpty() {
		return nil, errs.AsError()
	}
	return layout, nil
}

func (fs Field) build(delimited bool) (flatrecord.Field, error) {
	dir, ok := flatrecord.ParsePadDirection(fs.Align)
	if !ok {
		return nil, errors.Wrapf(flatrecord.ErrInvalidDescriptor, "align %q", fs.Align)
	}
	opts := []flatrecord.FieldOption{
		flatrecord.WithPad(fs.Pad, dir),
		flatrecord.WithEmpty(fs.Empty),
	}
	if fs.Truncate {
		opts = append(opts, flatrecord.WithTruncate())
	}
	if fs.Decorator != nil {
		d, err := fs.Decorator.build()
		if err != nil {
			return nil, err
		}
		opts = append(opts, flatrecord.WithDecorator(d))
	}

	if delimited {
		return flatrecord.NewIndexedField(fs.Index, opts...)
	}
	return flatrecord.NewFixedField(fs.Offset, fs.Length, opts...)
}

func (ds *Decorator) build() (flatrecord.Decorator, error) {
	switch ds.Type {
	case "", "default":
		return flatrecord.DefaultDecorator{}, nil
	case "boolean":
		return flatrecord.NewBooleanDecorator(ds.TrueText, ds.FalseText)
	case "numeric":
		return flatrecord.NewNumericDecorator(ds.Precision)
	case "datetime":
		return flatrecord.NewDateTimeDecorator(ds.Layout)
	case "record":
		if ds.Record == nil {
			return nil, errors.Wrap(flatrecord.ErrDecoratorConfig, "record decorator without record schema")
		}
		nested, err := ds.Record.Build()
		if err != nil {
			return nil, errors.WithMessage(err, "nested record")
		}
		return flatrecord.NewRecordDecorator(nested)
	}
	return nil, errors.Wrapf(flatrecord.ErrDecoratorConfig, "unknown decorator type %q", ds.Type)
}
