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

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Value pairs a canonical Type with its payload:
//
//	TYPE              *Type
//	CODE              *Code
//	COMPTIME_INTEGER  *big.Int
//	COMPTIME_FLOAT    decimal.Decimal
//	BOOL              bool
//	PROCEDURE, MACRO  Callable
//	VOID, NULL        nil
type Value struct {
	Type *Type
	Data any
}

// Callable is either a *Native builtin or a user-defined *Procedure.
type Callable interface {
	callable()
}

type Native struct {
	Name string
	Fn   func(c *Call) Value
}

// Procedure is a user-defined procedure or macro. Its frame chains to
// Env, the environment the $proc/$macro form was evaluated in.
type Procedure struct {
	Params []Symbol
	Rest   Symbol // binds surplus arguments of a varargs callable
	Body   []*Code
	Env    *Env
	Source *Code // the defining form
}

func (*Native) callable()    {}
func (*Procedure) callable() {}

// Call is the ambient context a callable is invoked with.
type Call struct {
	Interp  *Interp
	Env     *Env
	Site    *Code
	Args    []Value
	InQuote bool
}

func (v Value) Code() *Code {
	return v.Data.(*Code)
}

func (v Value) TypeValue() *Type {
	return v.Data.(*Type)
}

func (v Value) Int() *big.Int {
	return v.Data.(*big.Int)
}

func (v Value) Float() decimal.Decimal {
	return v.Data.(decimal.Decimal)
}

func (v Value) Bool() bool {
	return v.Data.(bool)
}

func (v Value) IsVoid() bool {
	return v.Type != nil && v.Type.Kind == KindVoid
}

// RenderValue returns the canonical text of a value. The text reads back
// to code that denotes the value; VOID has no text.
func RenderValue(v Value) (string, bool) {
	switch v.Type.Kind {
	case KindCode:
		return v.Code().String(), true
	case KindComptimeInteger:
		return v.Int().String(), true
	case KindComptimeFloat:
		s := v.Float().String()
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s, true
	case KindBool:
		if v.Bool() {
			return "true", true
		}
		return "false", true
	case KindNull:
		return "null", true
	case KindType:
		return v.TypeValue().Source(), true
	case KindProcedure, KindMacro:
		switch fn := v.Data.(type) {
		case *Native:
			return fn.Name, true
		case *Procedure:
			return fn.Source.String(), true
		}
	}
	return "", false
}
