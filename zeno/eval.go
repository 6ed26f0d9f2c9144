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
	"fmt"
	"time"
)

// Interp holds everything one evaluation thread owns: the type registry,
// the root frame with the builtins and the settings.
type Interp struct {
	Types    *Registry
	Root     *Env
	Settings SettingsT
	Void     Value // the canonical VOID value

	decls   *declarations
	quote   *Native
	unquote *Native
	ret     *Native
	depth   int
}

func New() *Interp {
	ip := &Interp{Types: NewRegistry(), Root: NewEnv(nil), Settings: DefaultSettings}
	ip.Void = Value{ip.Types.Simple(KindVoid), nil}
	ip.decls = newDeclarations()
	ip.initBuiltins()
	ip.initAlu()
	ip.initSettings()
	return ip
}

// NewProgramEnv opens the frame the top-level forms of one program share.
func (ip *Interp) NewProgramEnv() *Env {
	return NewEnv(ip.Root)
}

func (ip *Interp) codeValue(c *Code) Value {
	return Value{ip.Types.Simple(KindCode), c}
}

// Evaluate runs one form. EvaluationErrors come back as err and name source.
func (ip *Interp) Evaluate(source string, code *Code, en *Env) (value Value, err error) {
	defer catch(source, &err)
	return ip.Eval(code, en), nil
}

// EvalEach reads and evaluates the top-level forms of s one after another.
// fn receives every result or evaluation error and decides whether to go
// on. A parse error ends the run since there is no place to resume.
func (ip *Interp) EvalEach(source, s string, en *Env, fn func(Value, error) bool) error {
	p := 0
	for {
		code, next, err := Read(source, s, p, ReadOptions{})
		if err != nil {
			return err
		}
		if code == nil {
			return nil
		}
		p = next
		var start time.Time
		if ip.Settings.TracePrint {
			start = time.Now()
		}
		var value Value
		if Trace != nil {
			Trace.Duration(code.String(), "form", func() {
				value, err = ip.Evaluate(source, code, en)
			})
		} else {
			value, err = ip.Evaluate(source, code, en)
		}
		if ip.Settings.TracePrint {
			fmt.Println("trace", time.Since(start).String(), code.String())
		}
		if !fn(value, err) {
			return err
		}
	}
}

// EvalAll evaluates all forms of s and stops at the first error.
func (ip *Interp) EvalAll(source, s string, en *Env) (result Value, err error) {
	result = ip.Void
	err = ip.EvalEach(source, s, en, func(v Value, e error) bool {
		if e != nil {
			return false
		}
		result = v
		return true
	})
	return
}

/*
 Eval / Apply
*/

// Eval panics with *EvaluationError; use Evaluate at API boundaries.
func (ip *Interp) Eval(code *Code, en *Env) Value {
	return ip.eval(code, en, false)
}

func (ip *Interp) eval(code *Code, en *Env, inQuote bool) Value {
	ip.depth++
	defer func() { ip.depth-- }()
	if ip.depth > ip.Settings.MaxEvalDepth {
		panic(ErrorAt(code, "evaluation too deep (more than %d nested evaluations)", ip.Settings.MaxEvalDepth))
	}
	expansions := 0
restart:
	switch code.Kind {
	case CodeIdentifier:
		v, ok := en.Find(Symbol(code.Text))
		if !ok {
			panic(ErrorAt(code, "failed to find identifier \"%s\" in the environment", code.Text))
		}
		return v
	case CodeKeyword, CodeString:
		return ip.codeValue(code)
	case CodeInteger:
		return Value{ip.Types.Simple(KindComptimeInteger), IntegerValue(code.Text)}
	case CodeFloat:
		return Value{ip.Types.Simple(KindComptimeFloat), FloatValue(code.Text)}
	case CodeTuple:
		if len(code.Children) == 0 {
			panic(ErrorAt(code, "cannot evaluate an empty tuple"))
		}
		op := ip.eval(code.Children[0], en, inQuote)
		result := ip.apply(op, code, en, inQuote)
		if op.Type.Kind == KindMacro && op.Type.Return.Kind == KindCode && op.Data != Callable(ip.quote) {
			// the macro produced code to run in place of the call
			expansions++
			if expansions > ip.Settings.MaxExpansionDepth {
				panic(ErrorAt(code, "expansion too deep (more than %d expansions of %s)", ip.Settings.MaxExpansionDepth, code.Children[0]))
			}
			if Trace != nil {
				Trace.Event("expand "+code.Children[0].String(), "macro", "i")
			}
			code = result.Code()
			goto restart
		}
		return result
	}
	panic(NotImplemented("evaluation of " + code.Kind.String()))
}

func (ip *Interp) apply(op Value, site *Code, en *Env, inQuote bool) Value {
	name := site.Children[0]
	sig := op.Type
	if sig.Kind != KindProcedure && sig.Kind != KindMacro {
		panic(ErrorAt(name, "\"%s\" of type %s is not callable", name, sig))
	}
	args := site.Children[1:]
	if sig.Varargs && len(args) < len(sig.Params) {
		panic(ErrorAt(site, "wrong number of arguments for \"%s\": expected at least %d, got %d", name, len(sig.Params), len(args)))
	}
	if !sig.Varargs && len(args) != len(sig.Params) {
		panic(ErrorAt(site, "wrong number of arguments for \"%s\": expected %d, got %d", name, len(sig.Params), len(args)))
	}
	values := make([]Value, len(args))
	for i, arg := range args {
		if sig.Kind == KindMacro && (i >= len(sig.Params) || sig.Params[i].Kind == KindCode) {
			values[i] = ip.codeValue(arg)
		} else {
			values[i] = ip.eval(arg, en, inQuote)
		}
		if i < len(sig.Params) && !sig.Params[i].Accepts(values[i].Type) {
			panic(ErrorAt(arg, "\"%s\" expects argument %d to be of type %s, got %s", name, i+1, sig.Params[i], values[i].Type))
		}
	}
	call := &Call{ip, en, site, values, inQuote}
	var result Value
	switch fn := op.Data.(type) {
	case *Native:
		result = fn.Fn(call)
		if fn == ip.quote {
			result = ip.codeValue(ip.splice(result.Code(), en))
		}
	case *Procedure:
		result = ip.invoke(fn, sig, call)
	default:
		panic(NotImplemented(fmt.Sprintf("callable %T", op.Data)))
	}
	return result
}

// invoke runs a user-defined procedure or macro in a fresh frame.
func (ip *Interp) invoke(p *Procedure, sig *Type, c *Call) Value {
	frame := NewEnv(p.Env)
	for i, param := range p.Params {
		frame.Define(param, c.Args[i])
	}
	if sig.Varargs {
		rest := NewTuple(c.Site.Location)
		for i, arg := range c.Args[len(p.Params):] {
			if arg.Type.Kind == KindCode {
				rest.Children = append(rest.Children, arg.Code())
			} else {
				rest.Children = append(rest.Children, ip.valueCode(arg, c.Site.Children[1+len(p.Params)+i]))
			}
		}
		frame.Define(p.Rest, ip.codeValue(rest))
	}
	result := ip.Void
	for _, stmt := range p.Body {
		if v, ok := ip.returnStatement(stmt, frame, c.InQuote); ok {
			result = v
			break
		}
		ip.eval(stmt, frame, c.InQuote)
	}
	if !sig.Return.Accepts(result.Type) {
		panic(ErrorAt(c.Site, "\"%s\" is declared to return %s but returned %s", c.Site.Children[0], sig.Return, result.Type))
	}
	return result
}

// returnStatement evaluates a ($return [value]) body statement.
func (ip *Interp) returnStatement(stmt *Code, en *Env, inQuote bool) (Value, bool) {
	if !ip.isBuiltin(stmt, en, ip.ret) {
		return Value{}, false
	}
	switch len(stmt.Children) {
	case 1:
		return ip.Void, true
	case 2:
		return ip.eval(stmt.Children[1], en, inQuote), true
	}
	panic(ErrorAt(stmt, "$return expects at most 1 value, got %d", len(stmt.Children)-1))
}

// isBuiltin tells whether code is a tuple whose head is an identifier
// bound to the given builtin. Other heads are never evaluated here.
func (ip *Interp) isBuiltin(code *Code, en *Env, fn *Native) bool {
	if code.Kind != CodeTuple || len(code.Children) == 0 || code.Children[0].Kind != CodeIdentifier {
		return false
	}
	v, ok := en.Find(Symbol(code.Children[0].Text))
	return ok && v.Data == Callable(fn)
}

/*
 Quasiquote

 splice rebuilds the quoted tree with every ($unquote x) replaced by the
 rendered and re-read value of x. Untouched subtrees are shared, the tree
 the program was read into is never modified.
*/

func (ip *Interp) splice(code *Code, en *Env) *Code {
	if code.Kind != CodeTuple {
		return code
	}
	if ip.isBuiltin(code, en, ip.unquote) {
		if len(code.Children) != 2 {
			panic(ErrorAt(code, "wrong number of arguments for \"$unquote\": expected 1, got %d", len(code.Children)-1))
		}
		return ip.valueCode(ip.eval(code.Children[1], en, true), code)
	}
	var children []*Code
	for i, child := range code.Children {
		spliced := ip.splice(child, en)
		if spliced != child && children == nil {
			children = append(make([]*Code, 0, len(code.Children)), code.Children[:i]...)
		}
		if children != nil {
			children = append(children, spliced)
		}
	}
	if children == nil {
		return code
	}
	return NewTuple(code.Location, children...)
}

// valueCode renders v and reads the text back as one standalone form.
func (ip *Interp) valueCode(v Value, site *Code) *Code {
	text, ok := RenderValue(v)
	if !ok {
		panic(ErrorAt(site, "a value of type %s cannot be turned into code", v.Type))
	}
	codes, err := ReadAll("splice", text, ReadOptions{NoImplicitParentheses: true})
	if err != nil {
		panic(ErrorAt(site, "rendered value does not read back: %v", err))
	}
	if len(codes) != 1 {
		panic(ErrorAt(site, "rendered value %q is not a single form", text))
	}
	codes[0].relocate(site.Location)
	return codes[0]
}
