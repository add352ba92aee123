package flatrecord

import (
	"strings"
)

// quoting holds the special characters of a delimited line. Only single byte
// characters are supported. An escape equal to the enclosure disables
// escaping; embedded enclosures are then only represented by doubling.
type quoting struct {
	delimiter, enclosure, escape byte
}

func (q quoting) escapes() bool { return q.escape != q.enclosure }

// split tokenizes line. Quoted fields may contain delimiters and line breaks;
// inside them a doubled enclosure stands for one enclosure character and an
// escape character makes the following character literal. Text following a
// closing enclosure up to the next delimiter is kept. An unterminated quoted
// field extends to the end of the line.
func (q quoting) split(line string) []string {
	var (
		fields []string
		i      int
	)
	for {
		var field string
		if i < len(line) && line[i] == q.enclosure {
			field, i = q.readQuoted(line, i+1)
		} else {
			j := strings.IndexByte(line[i:], q.delimiter)
			if j < 0 {
				j = len(line) - i
			}
			field, i = line[i:i+j], i+j
		}
		fields = append(fields, field)

		if i >= len(line) {
			return fields
		}
		// line[i] is a delimiter.
		i++
		if i == len(line) {
			return append(fields, "")
		}
	}
}

// readQuoted reads a quoted field whose content starts at i. It returns the
// unquoted text and the index of the delimiter ending the field, or len(line).
func (q quoting) readQuoted(line string, i int) (string, int) {
	var b strings.Builder
	for i < len(line) {
		c := line[i]
		switch {
		case q.escapes() && c == q.escape && i+1 < len(line):
			b.WriteByte(line[i+1])
			i += 2
			continue
		case c == q.enclosure && i+1 < len(line) && line[i+1] == q.enclosure:
			b.WriteByte(c)
			i += 2
			continue
		case c == q.enclosure:
			i++
			j := strings.IndexByte(line[i:], q.delimiter)
			if j < 0 {
				j = len(line) - i
			}
			b.WriteString(line[i : i+j])
			return b.String(), i + j
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}

// join renders fields as a single delimited line without a line ending.
func (q quoting) join(fields []string) string {
	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(q.delimiter)
		}
		if !q.needsQuotes(field) {
			b.WriteString(field)
			continue
		}
		b.WriteByte(q.enclosure)
		for j := 0; j < len(field); j++ {
			c := field[j]
			switch {
			case c == q.enclosure:
				b.WriteByte(q.enclosure)
			case q.escapes() && c == q.escape:
				b.WriteByte(q.escape)
			}
			b.WriteByte(c)
		}
		b.WriteByte(q.enclosure)
	}
	return b.String()
}

// needsQuotes reports whether field must be enclosed. Spaces and tabs are
// quoted as well as the special characters.
func (q quoting) needsQuotes(field string) bool {
	for i := 0; i < len(field); i++ {
		switch c := field[i]; {
		case c == q.delimiter, c == q.enclosure, c == '\r', c == '\n':
			return true
		case c == ' ', c == '\t':
			return true
		case q.escapes() && c == q.escape:
			return true
		}
	}
	return false
}
