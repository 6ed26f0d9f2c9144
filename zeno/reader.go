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

import "golang.org/x/text/unicode/norm"

type ReadOptions struct {
	// NoImplicitParentheses switches the off-side rule off so that only
	// explicit parentheses group. Rendered code is read back this way.
	NoImplicitParentheses bool
}

/*
 Syntactic Analysis

 Every line whose first token is not a parenthesis opens an implicit
 tuple at the column of that token. The tuple takes the rest of the line
 and every following line that is indented deeper; the first line at the
 same or a lower column closes it. Explicit parentheses nest freely with
 implicit tuples: a ")" first closes the implicit tuples opened inside
 its group.
*/

type group struct {
	code     *Code
	implicit bool
	indent   int
}

type reader struct {
	source string
	s      string
	opts   ReadOptions
}

// Read parses one top-level form beginning at offset and returns it
// together with the offset to continue from. At the end of input the
// returned code is nil.
func Read(source, s string, offset int, opts ReadOptions) (code *Code, next int, err error) {
	defer catch(source, &err)
	r := &reader{source, s, opts}
	code, next = r.readForm(offset)
	return
}

// ReadAll parses every top-level form of s.
func ReadAll(source, s string, opts ReadOptions) (codes []*Code, err error) {
	defer catch(source, &err)
	r := &reader{source, s, opts}
	p := 0
	for {
		code, next := r.readForm(p)
		if code == nil {
			return
		}
		codes = append(codes, code)
		p = next
	}
}

func (r *reader) readForm(p int) (*Code, int) {
	var stack []group
	var result *Code
	end := p // behind the last consumed token
	closeTop := func() {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			parent := stack[len(stack)-1].code
			parent.Children = append(parent.Children, top.code)
		} else {
			result = top.code
		}
	}
	for {
		start := p
		var lineStart int
		var newline bool
		p, lineStart, newline = r.skip(p)
		if p >= len(r.s) {
			break
		}
		if (newline || start == 0) && !r.opts.NoImplicitParentheses {
			indent := p - lineStart
			for len(stack) > 0 && stack[len(stack)-1].implicit && stack[len(stack)-1].indent >= indent {
				closeTop()
			}
			if len(stack) == 0 && result != nil {
				// dedent behind the form: this line starts the next one
				return result, end
			}
			if ch := r.s[p]; ch != '(' && ch != ')' {
				stack = append(stack, group{NewTuple(p), true, indent})
			}
		}
		var code *Code
		switch ch := r.s[p]; {
		case ch == '(':
			stack = append(stack, group{code: NewTuple(p)})
			p++
			end = p
			continue
		case ch == ')':
			for len(stack) > 0 && stack[len(stack)-1].implicit {
				closeTop()
			}
			if len(stack) == 0 {
				panic(parseError(r.source, p, "unexpected closing parenthesis"))
			}
			p++
			end = p
			closeTop()
			if len(stack) == 0 {
				// an explicit group is complete regardless of what follows
				return result, p
			}
			continue
		case ch == '\'' || ch == ',':
			code, p = r.readSugar(p)
		case ch == '"':
			code, p = r.readString(p)
		case r.isNumberStart(p):
			code, p = r.readNumber(p)
		default:
			code, p = r.readSymbol(p)
		}
		end = p
		if len(stack) == 0 {
			return code, p
		}
		top := stack[len(stack)-1].code
		top.Children = append(top.Children, code)
	}
	for len(stack) > 0 {
		if !stack[len(stack)-1].implicit {
			panic(&ParseError{r.source, stack[len(stack)-1].code.Location, "missing closing parenthesis", true})
		}
		closeTop()
	}
	return result, p
}

/*
 Lexical Analysis
*/

// skip moves over white space and ; comments. lineStart is the offset of
// the line q is in, newline tells whether a line break was crossed.
func (r *reader) skip(p int) (q int, lineStart int, newline bool) {
	lineStart = p
	for p < len(r.s) {
		ch := r.s[p]
		switch {
		case ch == '\n':
			newline = true
			p++
			lineStart = p
		case ch == ';':
			for p < len(r.s) && r.s[p] != '\n' {
				p++
			}
		case isSpace(ch):
			p++
		default:
			return p, lineStart, newline
		}
	}
	return p, lineStart, newline
}

// 'X reads as ($quote X), ,X as ($unquote X)
func (r *reader) readSugar(p int) (*Code, int) {
	head := "$quote"
	if r.s[p] == ',' {
		head = "$unquote"
	}
	q, _, _ := r.skip(p + 1)
	if q >= len(r.s) {
		panic(&ParseError{r.source, p, "expected a form after " + string(r.s[p]), true})
	}
	if r.s[q] == ')' {
		panic(parseError(r.source, p, "expected a form after %c", r.s[p]))
	}
	quoted, next := r.readForm(p + 1)
	return NewTuple(p, NewAtom(p, CodeIdentifier, head), quoted), next
}

func (r *reader) readString(p int) (*Code, int) {
	i := p + 1
	for i < len(r.s) {
		switch r.s[i] {
		case '\\':
			i += 2
			continue
		case '"':
			return NewAtom(p, CodeString, r.s[p:i+1]), i + 1
		}
		i++
	}
	panic(&ParseError{r.source, p, "unterminated string literal", true})
}

func (r *reader) readSymbol(p int) (*Code, int) {
	start := p
	for p < len(r.s) && !isDelimiter(r.s[p]) {
		p++
	}
	text := norm.NFC.String(r.s[start:p])
	if text[0] == '#' {
		return NewAtom(start, CodeKeyword, text), p
	}
	return NewAtom(start, CodeIdentifier, text), p
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}

func isDelimiter(ch byte) bool {
	return isSpace(ch) || ch == '(' || ch == ')' || ch == ';'
}
