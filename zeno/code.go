/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package zeno

import "strings"

type CodeKind uint8

const (
	CodeIdentifier CodeKind = iota
	CodeKeyword
	CodeInteger
	CodeFloat
	CodeString
	CodeTuple
)

var codeKindNames = [...]string{"IDENTIFIER", "KEYWORD", "INTEGER", "FLOAT", "STRING", "TUPLE"}

func (k CodeKind) String() string {
	if int(k) < len(codeKindNames) {
		return codeKindNames[k]
	}
	return "UNKNOWN"
}

// Code is the only representation of program text. Atoms keep their
// literal source text (string literals including quotes and escapes),
// Tuples own their children; the first child is the operator.
type Code struct {
	Location int
	Kind     CodeKind
	Text     string
	Children []*Code
}

func NewAtom(location int, kind CodeKind, text string) *Code {
	return &Code{Location: location, Kind: kind, Text: text}
}

func NewTuple(location int, children ...*Code) *Code {
	if children == nil {
		children = []*Code{}
	}
	return &Code{Location: location, Kind: CodeTuple, Children: children}
}

// String renders the canonical form: atoms as written, tuples as
// space-joined children in parentheses. The reader reads it back to an
// equal tree when implicit parentheses are switched off.
func (c *Code) String() string {
	var b strings.Builder
	c.write(&b)
	return b.String()
}

func (c *Code) write(b *strings.Builder) {
	if c.Kind != CodeTuple {
		b.WriteString(c.Text)
		return
	}
	b.WriteByte('(')
	for i, child := range c.Children {
		if i != 0 {
			b.WriteByte(' ')
		}
		child.write(b)
	}
	b.WriteByte(')')
}

// Equal compares structure and text; locations are ignored.
func (c *Code) Equal(o *Code) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil || c.Kind != o.Kind {
		return false
	}
	if c.Kind != CodeTuple {
		return c.Text == o.Text
	}
	if len(c.Children) != len(o.Children) {
		return false
	}
	for i := range c.Children {
		if !c.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// relocate pins a whole (fresh) tree to one source location.
func (c *Code) relocate(location int) {
	c.Location = location
	for _, child := range c.Children {
		child.relocate(location)
	}
}

// StringValue returns the content of a string literal with escapes resolved.
// A backslash takes the next character literally except for n, r and t.
func (c *Code) StringValue() string {
	text := c.Text
	if c.Kind != CodeString || len(text) < 2 {
		return text
	}
	text = text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch == '\\' && i+1 < len(text) {
			i++
			switch text[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(text[i])
			}
			continue
		}
		b.WriteByte(ch)
	}
	return b.String()
}
