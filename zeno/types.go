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
	"strings"
)

type TypeKind uint8

const (
	KindType TypeKind = iota
	KindCode
	KindNull
	KindNoreturn
	KindVoid
	KindBool
	KindAnytype
	KindAnyopaque
	KindAnyerror
	KindComptimeInteger
	KindComptimeFloat
	KindErrorSet
	KindErrorUnion
	KindInteger
	KindFloat
	KindPointer
	KindArray
	KindMatrix
	KindMap
	KindStruct
	KindUnion
	KindEnum
	KindProcedure
	KindMacro
	numKinds
)

var kindNames = [numKinds]string{
	"TYPE", "CODE", "NULL", "NORETURN", "VOID", "BOOL", "ANYTYPE", "ANYOPAQUE", "ANYERROR",
	"COMPTIME_INTEGER", "COMPTIME_FLOAT", "ERROR_SET", "ERROR_UNION", "INTEGER", "FLOAT",
	"POINTER", "ARRAY", "MATRIX", "MAP", "STRUCT", "UNION", "ENUM", "PROCEDURE", "MACRO",
}

func (k TypeKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("KIND(%d)", uint8(k))
}

func KindByName(name string) (TypeKind, bool) {
	for i, n := range kindNames {
		if n == name {
			return TypeKind(i), true
		}
	}
	return 0, false
}

// Type is canonical per Registry: compare with ==. Only PROCEDURE and
// MACRO carry a signature; a PROCEDURE or MACRO without Return is the
// bare kind and stands for every signature of that kind.
type Type struct {
	Kind    TypeKind
	Params  []*Type
	Return  *Type
	Varargs bool
}

func (t *Type) IsSignature() bool {
	return t.Return != nil
}

// Accepts tells whether a value of type v may be passed where t is declared.
func (t *Type) Accepts(v *Type) bool {
	if t == v || t.Kind == KindAnytype {
		return true
	}
	if (t.Kind == KindProcedure || t.Kind == KindMacro) && !t.IsSignature() {
		return v.Kind == t.Kind
	}
	return false
}

// String is the type printer used in diagnostics,
// e.g. PROCEDURE(COMPTIME_INTEGER, ...) -> VOID
func (t *Type) String() string {
	if !t.IsSignature() {
		return t.Kind.String()
	}
	parts := make([]string, 0, len(t.Params)+1)
	for _, p := range t.Params {
		parts = append(parts, p.String())
	}
	if t.Varargs {
		parts = append(parts, "...")
	}
	return t.Kind.String() + "(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
}

// Source renders the type as a $type form that evaluates back to t.
func (t *Type) Source() string {
	if !t.IsSignature() {
		return "($type " + t.Kind.String() + ")"
	}
	var b strings.Builder
	b.WriteString("($type ")
	b.WriteString(t.Kind.String())
	b.WriteString(" (")
	for i, p := range t.Params {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Source())
	}
	b.WriteString(") ")
	b.WriteString(t.Return.Source())
	if t.Varargs {
		b.WriteString(" #varargs")
	}
	b.WriteByte(')')
	return b.String()
}

// Registry owns the canonical Type instances. Structurally equal
// signatures are interned to one pointer so identity comparison works.
type Registry struct {
	simple   [numKinds]*Type
	interned map[string]*Type
}

func NewRegistry() *Registry {
	r := &Registry{interned: make(map[string]*Type)}
	for k := range r.simple {
		r.simple[k] = &Type{Kind: TypeKind(k)}
	}
	return r
}

func (r *Registry) Simple(kind TypeKind) *Type {
	return r.simple[kind]
}

// Procedure and Macro are shorthands of Signature for host code that
// builds descriptors of a fixed kind.
func (r *Registry) Procedure(params []*Type, ret *Type, varargs bool) *Type {
	return r.Signature(KindProcedure, params, ret, varargs)
}

func (r *Registry) Macro(params []*Type, ret *Type, varargs bool) *Type {
	return r.Signature(KindMacro, params, ret, varargs)
}

// Signature interns a PROCEDURE or MACRO descriptor. params and ret must
// be canonical types of this registry; the key is built from their
// identities.
func (r *Registry) Signature(kind TypeKind, params []*Type, ret *Type, varargs bool) *Type {
	if kind != KindProcedure && kind != KindMacro {
		panic(NotImplemented("signature of kind " + kind.String()))
	}
	var key strings.Builder
	fmt.Fprintf(&key, "%d %t %p", kind, varargs, ret)
	for _, p := range params {
		fmt.Fprintf(&key, " %p", p)
	}
	if t, ok := r.interned[key.String()]; ok {
		return t
	}
	t := &Type{kind, append([]*Type{}, params...), ret, varargs}
	r.interned[key.String()] = t
	return t
}

// Len reports the number of interned signatures. The registry only grows.
func (r *Registry) Len() int {
	return len(r.interned)
}
