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

	"github.com/shopspring/decimal"
)

// arithmetic on comptime numbers: integers stay exact, one float operand
// turns the whole fold into decimal arithmetic.
type aluOp struct {
	ints   func(a, b *big.Int) *big.Int
	floats func(a, b decimal.Decimal) decimal.Decimal
}

func (ip *Interp) initAlu() {
	ip.DeclareTitle("Arithmetic")
	ops := []struct {
		name, desc string
		op         aluOp
	}{
		{"+", "adds all values", aluOp{
			func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) },
			func(a, b decimal.Decimal) decimal.Decimal { return a.Add(b) },
		}},
		{"-", "subtracts all further values from the first one, negates a single value", aluOp{
			func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) },
			func(a, b decimal.Decimal) decimal.Decimal { return a.Sub(b) },
		}},
		{"*", "multiplies all values", aluOp{
			func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) },
			func(a, b decimal.Decimal) decimal.Decimal { return a.Mul(b) },
		}},
	}
	for _, o := range ops {
		op := o.op
		negate := o.name == "-"
		ip.Declare(ip.Root, &Declaration{
			o.name, o.desc,
			KindProcedure, []DeclarationParameter{
				{"value", KindAnytype, "COMPTIME_INTEGER or COMPTIME_FLOAT"},
				{"values...", KindAnytype, "further numbers"},
			}, KindAnytype,
			func(c *Call) Value {
				ip := c.Interp
				for i, v := range c.Args {
					if v.Type.Kind != KindComptimeInteger && v.Type.Kind != KindComptimeFloat {
						panic(ErrorAt(c.Site.Children[i+1], "\"%s\" expects argument %d to be a number, got %s", c.Site.Children[0], i+1, v.Type))
					}
				}
				args := c.Args
				if negate && len(args) == 1 {
					args = []Value{{ip.Types.Simple(KindComptimeInteger), big.NewInt(0)}, args[0]}
				}
				acc := args[0]
				for _, v := range args[1:] {
					acc = ip.fold(op, acc, v)
				}
				return acc
			},
		})
	}
}

func toDecimal(v Value) decimal.Decimal {
	if v.Type.Kind == KindComptimeInteger {
		return decimal.NewFromBigInt(v.Int(), 0)
	}
	return v.Float()
}

func (ip *Interp) fold(op aluOp, a, b Value) Value {
	if a.Type.Kind == KindComptimeInteger && b.Type.Kind == KindComptimeInteger {
		return Value{a.Type, op.ints(a.Int(), b.Int())}
	}
	return Value{ip.Types.Simple(KindComptimeFloat), op.floats(toDecimal(a), toDecimal(b))}
}
