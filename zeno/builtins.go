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
	"strings"

	"github.com/google/uuid"
)

// kinds that only exist with a payload the builtin surface cannot build yet
var payloadKinds = map[TypeKind]bool{
	KindErrorSet: true, KindErrorUnion: true, KindInteger: true, KindFloat: true,
	KindPointer: true, KindArray: true, KindMatrix: true, KindMap: true,
	KindStruct: true, KindUnion: true, KindEnum: true,
}

func (ip *Interp) initBuiltins() {
	en := ip.Root
	en.Define("true", Value{ip.Types.Simple(KindBool), true})
	en.Define("false", Value{ip.Types.Simple(KindBool), false})
	en.Define("null", Value{ip.Types.Simple(KindNull), nil})

	ip.DeclareTitle("Core")
	ip.Declare(en, &Declaration{
		"$define", "binds a name in the current frame\nA frame cannot bind the same name twice; inner frames may shadow outer ones.",
		KindMacro, []DeclarationParameter{
			{"name", KindCode, "identifier to bind"},
			{"value", KindAnytype, "value to bind"},
		}, KindVoid,
		func(c *Call) Value {
			name := c.Args[0].Code()
			if name.Kind != CodeIdentifier {
				panic(ErrorAt(name, "$define expects \"%s\" to be an identifier", name))
			}
			if !c.Env.Define(Symbol(name.Text), c.Args[1]) {
				panic(ErrorAt(name, "\"%s\" is already defined in this frame", name.Text))
			}
			return c.Interp.Void
		},
	})
	ip.quote = ip.Declare(en, &Declaration{
		"$quote", "returns its argument as code\n($unquote x) subforms are replaced by the value of x. 'x is short for ($quote x).",
		KindMacro, []DeclarationParameter{
			{"code", KindCode, "code to return"},
		}, KindCode,
		func(c *Call) Value {
			return c.Args[0]
		},
	})
	ip.unquote = ip.Declare(en, &Declaration{
		"$unquote", "marks a subform of $quote that is evaluated and spliced in\n,x is short for ($unquote x).",
		KindMacro, []DeclarationParameter{
			{"code", KindCode, "code to evaluate"},
		}, KindCode,
		func(c *Call) Value {
			if !c.InQuote {
				panic(ErrorAt(c.Site, "$unquote is only allowed inside of $quote"))
			}
			return c.Args[0]
		},
	})
	ip.Declare(en, &Declaration{
		"$proc", "creates a procedure\nEach parameter is a name, (name type) or a last rest... that collects surplus arguments. ($return x) ends the body with x.",
		KindMacro, []DeclarationParameter{
			{"parameters", KindCode, "parameter list"},
			{"return_type", KindType, "declared return type"},
			{"body...", KindCode, "statements"},
		}, KindProcedure,
		func(c *Call) Value {
			return c.Interp.makeCallable(KindProcedure, c)
		},
	})
	ip.Declare(en, &Declaration{
		"$macro", "creates a macro\nArguments for parameters of type CODE and surplus arguments are passed unevaluated. A macro returning CODE has its result evaluated in place of the call.",
		KindMacro, []DeclarationParameter{
			{"parameters", KindCode, "parameter list"},
			{"return_type", KindType, "declared return type"},
			{"body...", KindCode, "statements"},
		}, KindMacro,
		func(c *Call) Value {
			return c.Interp.makeCallable(KindMacro, c)
		},
	})
	ip.ret = ip.Declare(en, &Declaration{
		"$return", "ends the body of a procedure or macro with the given value",
		KindProcedure, []DeclarationParameter{
			{"value...", KindAnytype, "result, VOID when omitted"},
		}, KindNoreturn,
		func(c *Call) Value {
			panic(ErrorAt(c.Site, "$return is only allowed as a statement of a procedure body"))
		},
	})
	ip.Declare(en, &Declaration{
		"$type", "returns the type of the given kind\n($type PROCEDURE (param types) return_type #varargs) builds a signature, the same for MACRO.",
		KindMacro, []DeclarationParameter{
			{"kind", KindCode, "kind name like VOID or #COMPTIME_INTEGER"},
			{"args...", KindCode, "signature parts for PROCEDURE and MACRO"},
		}, KindType,
		func(c *Call) Value {
			return Value{c.Interp.Types.Simple(KindType), c.Interp.typeForm(c)}
		},
	})

	ip.DeclareTitle("Code")
	ip.Declare(en, &Declaration{
		"$insert", "evaluates a code value in the current environment",
		KindProcedure, []DeclarationParameter{
			{"code", KindCode, "code to evaluate"},
		}, KindAnytype,
		func(c *Call) Value {
			return c.Interp.eval(c.Args[0].Code(), c.Env, c.InQuote)
		},
	})
	ip.Declare(en, &Declaration{
		"$gensym", "returns a fresh identifier that collides with no other name",
		KindProcedure, []DeclarationParameter{
			{"prefix...", KindCode, "optional name prefix"},
		}, KindCode,
		func(c *Call) Value {
			prefix := "g"
			if len(c.Args) > 1 {
				panic(ErrorAt(c.Site, "$gensym expects at most 1 prefix, got %d", len(c.Args)))
			}
			if len(c.Args) == 1 {
				if c.Args[0].Type.Kind != KindCode {
					panic(ErrorAt(c.Site.Children[1], "$gensym expects an identifier or string as prefix, got %s", c.Args[0].Type))
				}
				p := c.Args[0].Code()
				switch p.Kind {
				case CodeIdentifier:
					prefix = p.Text
				case CodeString:
					prefix = p.StringValue()
				default:
					panic(ErrorAt(p, "$gensym expects an identifier or string as prefix, got %s", p))
				}
			}
			id := prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
			// the symbol has to read back as exactly this identifier
			if code, _, err := Read("gensym", id, 0, ReadOptions{NoImplicitParentheses: true}); err != nil || code == nil || code.Kind != CodeIdentifier || code.Text != id {
				panic(ErrorAt(c.Site.Children[1], "$gensym prefix %q does not form an identifier", prefix))
			}
			return c.Interp.codeValue(NewAtom(c.Site.Location, CodeIdentifier, id))
		},
	})
}

// makeCallable builds the value of a $proc or $macro form.
func (ip *Interp) makeCallable(kind TypeKind, c *Call) Value {
	list := c.Args[0].Code()
	if list.Kind != CodeTuple {
		panic(ErrorAt(list, "expected a parameter list, got %s", list))
	}
	p := &Procedure{Env: c.Env, Source: c.Site}
	var types []*Type
	varargs := false
	seen := make(map[Symbol]bool)
	for i, param := range list.Children {
		name := param
		t := ip.Types.Simple(KindAnytype)
		if param.Kind == CodeTuple {
			if len(param.Children) != 2 {
				panic(ErrorAt(param, "expected (name type), got %s", param))
			}
			name = param.Children[0]
			t = ip.typeExpr(param.Children[1], c.Env, c.InQuote)
		}
		if name.Kind != CodeIdentifier {
			panic(ErrorAt(name, "parameter \"%s\" is not an identifier", name))
		}
		s := Symbol(name.Text)
		if rest, ok := strings.CutSuffix(name.Text, "..."); ok && rest != "" {
			if i != len(list.Children)-1 || param.Kind == CodeTuple {
				panic(ErrorAt(name, "the rest parameter \"%s\" must be the last parameter and untyped", name.Text))
			}
			varargs = true
			s = Symbol(rest)
		}
		if seen[s] {
			panic(ErrorAt(name, "duplicate parameter \"%s\"", s))
		}
		seen[s] = true
		if varargs {
			p.Rest = s
		} else {
			p.Params = append(p.Params, s)
			types = append(types, t)
		}
	}
	ret := c.Args[1].TypeValue()
	for _, arg := range c.Args[2:] {
		p.Body = append(p.Body, arg.Code())
	}
	return Value{ip.Types.Signature(kind, types, ret, varargs), Callable(p)}
}

func (ip *Interp) kindName(code *Code) TypeKind {
	name := code.Text
	switch code.Kind {
	case CodeKeyword:
		name = name[1:]
	case CodeIdentifier:
	default:
		panic(ErrorAt(code, "expected a kind name, got %s", code))
	}
	kind, ok := KindByName(name)
	if !ok {
		panic(NotImplemented("type kind " + name))
	}
	if payloadKinds[kind] {
		panic(NotImplemented("type kind " + name + " with payload"))
	}
	return kind
}

// typeExpr evaluates a type position: a keyword names a kind, anything
// else has to evaluate to a TYPE.
func (ip *Interp) typeExpr(code *Code, en *Env, inQuote bool) *Type {
	if code.Kind == CodeKeyword {
		return ip.Types.Simple(ip.kindName(code))
	}
	v := ip.eval(code, en, inQuote)
	if v.Type.Kind != KindType {
		panic(ErrorAt(code, "expected a type, got a value of type %s", v.Type))
	}
	return v.TypeValue()
}

func (ip *Interp) typeForm(c *Call) *Type {
	kind := ip.kindName(c.Args[0].Code())
	args := c.Args[1:]
	if (kind != KindProcedure && kind != KindMacro) || len(args) == 0 {
		if len(args) != 0 {
			panic(ErrorAt(c.Site, "$type %s takes no further arguments", kind))
		}
		return ip.Types.Simple(kind)
	}
	if len(args) != 2 && len(args) != 3 {
		panic(ErrorAt(c.Site, "$type %s expects (param types) return_type [#varargs]", kind))
	}
	list := args[0].Code()
	if list.Kind != CodeTuple {
		panic(ErrorAt(list, "expected a list of parameter types, got %s", list))
	}
	params := make([]*Type, len(list.Children))
	for i, p := range list.Children {
		params[i] = ip.typeExpr(p, c.Env, c.InQuote)
	}
	ret := ip.typeExpr(args[1].Code(), c.Env, c.InQuote)
	varargs := false
	if len(args) == 3 {
		flag := args[2].Code()
		if flag.Kind != CodeKeyword || flag.Text != "#varargs" {
			panic(ErrorAt(flag, "expected #varargs, got %s", flag))
		}
		varargs = true
	}
	return ip.Types.Signature(kind, params, ret, varargs)
}
