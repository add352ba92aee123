package flatrecord

// lineBuilder is a buffer that can be used to efficiently build a line of
// fixed width text.
type lineBuilder struct {
	data []byte
}

// newLineBuilder makes a new lineBuilder. The line is filled with the provided
// fillChar.
func newLineBuilder(len, cap int, fillChar byte) *lineBuilder {
	data := make([]byte, len, cap)
	if len == 0 {
		return &lineBuilder{data: data}
	}

	// Fill the buffer with the fill character.
	data[0] = fillChar
	filled := 1
	for filled < len {
		copy(data[filled:], data[:filled])
		filled *= 2
	}

	return &lineBuilder{data: data}
}

// WriteString overwrites the line with s starting at the given byte offset.
// Bytes of s past the end of the line are dropped.
func (b *lineBuilder) WriteString(start int, s string) {
	if start >= len(b.data) {
		return
	}
	copy(b.data[start:], s)
}

// Append adds s past the end of the line.
func (b *lineBuilder) Append(s string) {
	b.data = append(b.data, s...)
}

func (b *lineBuilder) String() string {
	return string(b.data)
}
