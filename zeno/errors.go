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

import "fmt"

// ParseError is raised by the reader on malformed surface syntax.
// Incomplete is set when more input could still complete the form
// (open parenthesis or string at end of input); the REPL uses it to
// ask for a continuation line.
type ParseError struct {
	Source     string
	Location   int
	Message    string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s[%d] %s", e.Source, e.Location, e.Message)
}

// EvaluationError aborts the evaluation of the current top-level form.
type EvaluationError struct {
	Source   string
	Location int
	Message  string
	Code     *Code
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s[%d] %s", e.Source, e.Location, e.Message)
}

// NotImplemented marks a case the builtin surface does not cover yet.
// It is never turned into an error value: it escapes as a real panic.
type NotImplemented string

func (n NotImplemented) Error() string {
	return "not implemented: " + string(n)
}

func parseError(source string, location int, format string, args ...any) *ParseError {
	return &ParseError{source, location, fmt.Sprintf(format, args...), false}
}

func ErrorAt(code *Code, format string, args ...any) *EvaluationError {
	return &EvaluationError{"", code.Location, fmt.Sprintf(format, args...), code}
}

// catch converts ParseError and EvaluationError panics into err. Anything
// else keeps panicking. Must be deferred directly.
func catch(source string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch e := r.(type) {
	case *ParseError:
		if e.Source == "" {
			e.Source = source
		}
		*err = e
	case *EvaluationError:
		if e.Source == "" {
			e.Source = source
		}
		*err = e
	default:
		panic(r)
	}
}
