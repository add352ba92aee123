package flatrecord

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	fixedTag = "fixed"
	csvTag   = "csv"
)

// fieldTag is a parsed struct field tag.
//
// Fixed-width fields are tagged `fixed:"offset,length[,option...]"` and
// delimited fields `csv:"index[,option...]"`. Offsets and indexes start at 0.
type fieldTag struct {
	pos, length int
	padChar     string
	padDir      PadDirection
	truncate    bool
	empty       *string
	decorator   Decorator
}

// parseTag parses the tag of the given kind. Fixed-width tags require a
// length; the pad and truncation options are only valid on them.
func parseTag(kind, tag string) (fieldTag, error) {
	ft := fieldTag{padDir: PadRight}
	parts := strings.Split(tag, ",")

	var err error
	if ft.pos, err = strconv.Atoi(parts[0]); err != nil {
		return ft, errors.Wrapf(ErrInvalidDescriptor, "position %q", parts[0])
	}
	parts = parts[1:]
	if kind == fixedTag {
		if len(parts) == 0 {
			return ft, errors.Wrap(ErrInvalidDescriptor, "missing length")
		}
		if ft.length, err = strconv.Atoi(parts[0]); err != nil {
			return ft, errors.Wrapf(ErrInvalidDescriptor, "length %q", parts[0])
		}
		parts = parts[1:]
	}

	for _, opt := range parts {
		key, value, hasValue := strings.Cut(opt, "=")
		switch {
		case kind == fixedTag && !hasValue && (key == "left" || key == "right" || key == "both"):
			ft.padDir, _ = ParsePadDirection(key)
		case kind == fixedTag && key == "pad" && value != "":
			ft.padChar = value
		case kind == fixedTag && key == "trunc" && !hasValue:
			ft.truncate = true
		case key == "empty" && hasValue:
			v := value
			ft.empty = &v
		case key == "bool" && hasValue:
			t, f, ok := strings.Cut(value, "/")
			if !ok {
				return ft, errors.Wrapf(ErrDecoratorConfig, "bool option %q", value)
			}
			if ft.decorator, err = NewBooleanDecorator(t, f); err != nil {
				return ft, err
			}
		case key == "num" && hasValue:
			p, err := strconv.Atoi(value)
			if err != nil {
				return ft, errors.Wrapf(ErrDecoratorConfig, "num option %q", value)
			}
			if ft.decorator, err = NewNumericDecorator(p); err != nil {
				return ft, err
			}
		case key == "date" && hasValue:
			if ft.decorator, err = NewDateTimeDecorator(value); err != nil {
				return ft, err
			}
		default:
			return ft, errors.Wrapf(ErrInvalidDescriptor, "unknown option %q", opt)
		}
	}
	return ft, nil
}

func (ft fieldTag) options() []FieldOption {
	var opts []FieldOption
	opts = append(opts, WithPad(ft.padChar, ft.padDir))
	if ft.truncate {
		opts = append(opts, WithTruncate())
	}
	if ft.empty != nil {
		opts = append(opts, WithEmpty(*ft.empty))
	}
	if ft.decorator != nil {
		opts = append(opts, WithDecorator(ft.decorator))
	}
	return opts
}

// field builds the descriptor described by the tag.
func (ft fieldTag) field(kind string) (Field, error) {
	if kind == fixedTag {
		return NewFixedField(ft.pos, ft.length, ft.options()...)
	}
	return NewIndexedField(ft.pos, ft.options()...)
}
