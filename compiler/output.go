package compiler

import "strings"

// Output accumulates SQL text. Append separates tokens with a single space
// unless the previous text ends with an opening delimiter or the next one
// starts with a closing or separating delimiter.
type Output struct {
	b    strings.Builder
	last byte
	glue bool
}

// Append adds text, inserting a space where two tokens would run together.
func (o *Output) Append(text string) {
	if text == "" {
		return
	}
	if o.b.Len() > 0 && !o.glue && needsSpace(o.last, text[0]) {
		o.b.WriteByte(' ')
	}
	o.glue = false
	o.AppendRaw(text)
}

// AppendRaw adds text exactly as given.
func (o *Output) AppendRaw(text string) {
	if text == "" {
		return
	}
	o.b.WriteString(text)
	o.last = text[len(text)-1]
}

// Glue suppresses the space before the next appended token.
func (o *Output) Glue() { o.glue = true }

// Len returns the number of bytes written.
func (o *Output) Len() int { return o.b.Len() }

func (o *Output) String() string { return o.b.String() }

func needsSpace(last, next byte) bool {
	switch last {
	case ' ', '(', '\n', '.':
		return false
	}
	switch next {
	case ' ', ')', ',', '\n', '.', ';', '\r':
		return false
	}
	return true
}
