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

// digits of fractional results of non-decimal float literals
const floatPrecision = 40

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func digitValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return 99
}

func (r *reader) isNumberStart(p int) bool {
	ch := r.s[p]
	if isDigit(ch) {
		return true
	}
	return (ch == '+' || ch == '-') && p+1 < len(r.s) && isDigit(r.s[p+1])
}

// radix splits a literal into sign, base and the digits behind the prefix.
func radix(text string) (neg bool, base int, digits string) {
	if text != "" && (text[0] == '+' || text[0] == '-') {
		neg = text[0] == '-'
		text = text[1:]
	}
	base = 10
	if len(text) > 1 && text[0] == '0' {
		switch text[1] {
		case 'b', 'B':
			base = 2
		case 'o', 'O':
			base = 8
		case 'x', 'X':
			base = 16
		}
		if base != 10 {
			text = text[2:]
		}
	}
	return neg, base, text
}

// readNumber scans [+-][0b|0o|0x]digits[.digits][e[+-]digits]
func (r *reader) readNumber(p int) (*Code, int) {
	start := p
	if r.s[p] == '+' || r.s[p] == '-' {
		p++
	}
	_, base, _ := radix(r.s[start:min(len(r.s), p+2)])
	if base != 10 {
		p += 2
	}
	scanDigits := func() int {
		q := p
		for p < len(r.s) && digitValue(r.s[p]) < base {
			p++
		}
		return p - q
	}
	if scanDigits() == 0 {
		panic(parseError(r.source, start, "malformed number literal: missing digits"))
	}
	kind := CodeInteger
	if p < len(r.s) && r.s[p] == '.' {
		p++
		if scanDigits() == 0 {
			panic(parseError(r.source, start, "malformed number literal: missing digits after '.'"))
		}
		kind = CodeFloat
	}
	if p < len(r.s) && (r.s[p] == 'e' || r.s[p] == 'E') {
		if base != 10 {
			panic(parseError(r.source, start, "malformed number literal: exponent on a base %d literal", base))
		}
		p++
		if p < len(r.s) && (r.s[p] == '+' || r.s[p] == '-') {
			p++
		}
		q := p
		for p < len(r.s) && isDigit(r.s[p]) {
			p++
		}
		if p == q {
			panic(parseError(r.source, start, "malformed number literal: missing exponent digits"))
		}
		kind = CodeFloat
	}
	if p < len(r.s) && !isDelimiter(r.s[p]) {
		panic(parseError(r.source, start, "malformed number literal %q", r.s[start:p+1]))
	}
	return NewAtom(start, kind, r.s[start:p]), p
}

// IntegerValue converts the text of an Integer atom.
func IntegerValue(text string) *big.Int {
	neg, base, digits := radix(text)
	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		panic(NotImplemented("integer literal " + text))
	}
	if neg {
		i.Neg(i)
	}
	return i
}

// FloatValue converts the text of a Float atom.
func FloatValue(text string) decimal.Decimal {
	neg, base, digits := radix(text)
	var d decimal.Decimal
	if base == 10 {
		var err error
		d, err = decimal.NewFromString(digits)
		if err != nil {
			panic(NotImplemented("float literal " + text))
		}
	} else {
		whole, frac, _ := strings.Cut(digits, ".")
		mantissa, ok := new(big.Int).SetString(whole+frac, base)
		if !ok {
			panic(NotImplemented("float literal " + text))
		}
		scale := new(big.Int).Exp(big.NewInt(int64(base)), big.NewInt(int64(len(frac))), nil)
		d = decimal.NewFromBigInt(mantissa, 0).DivRound(decimal.NewFromBigInt(scale, 0), floatPrecision)
	}
	if neg {
		d = d.Neg()
	}
	return d
}
