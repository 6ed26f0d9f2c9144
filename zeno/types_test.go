package zeno

import "testing"

func TestSignatureInterning(t *testing.T) {
	r := NewRegistry()
	ci := r.Simple(KindComptimeInteger)
	code := r.Simple(KindCode)
	void := r.Simple(KindVoid)

	a := r.Procedure([]*Type{ci, code}, void, false)
	b := r.Procedure([]*Type{ci, code}, void, false)
	if a != b {
		t.Fatal("equal procedure signatures are not interned to one instance")
	}
	if r.Procedure([]*Type{ci, code}, void, true) == a {
		t.Error("varargs flag ignored by interning")
	}
	if r.Macro([]*Type{ci, code}, void, false) == a {
		t.Error("macro and procedure share a signature")
	}
	if r.Procedure([]*Type{code, ci}, void, false) == a {
		t.Error("parameter order ignored by interning")
	}
	// nested signatures intern by the identity of their parts
	inner := r.Procedure(nil, ci, false)
	if r.Macro([]*Type{inner}, inner, false) != r.Macro([]*Type{r.Procedure([]*Type{}, ci, false)}, inner, false) {
		t.Error("nested signature not interned")
	}
	if r.Len() != 6 {
		t.Errorf("expected 6 interned signatures, got %d", r.Len())
	}
	if NewRegistry().Simple(KindVoid) == void {
		t.Error("registries share instances")
	}
}

func TestSignatureOfPlainKindIsNotImplemented(t *testing.T) {
	defer func() {
		if _, ok := recover().(NotImplemented); !ok {
			t.Fatal("expected a NotImplemented panic")
		}
	}()
	NewRegistry().Signature(KindBool, nil, nil, false)
}

func TestTypePrinter(t *testing.T) {
	r := NewRegistry()
	sig := r.Procedure([]*Type{r.Simple(KindComptimeInteger), r.Simple(KindCode)}, r.Simple(KindVoid), true)
	if s := sig.String(); s != "PROCEDURE(COMPTIME_INTEGER, CODE, ...) -> VOID" {
		t.Errorf("String() = %q", s)
	}
	if s := sig.Source(); s != "($type PROCEDURE (($type COMPTIME_INTEGER) ($type CODE)) ($type VOID) #varargs)" {
		t.Errorf("Source() = %q", s)
	}
	if s := r.Simple(KindComptimeFloat).String(); s != "COMPTIME_FLOAT" {
		t.Errorf("String() = %q", s)
	}
}

func TestAccepts(t *testing.T) {
	r := NewRegistry()
	ci := r.Simple(KindComptimeInteger)
	code := r.Simple(KindCode)
	sig := r.Procedure([]*Type{ci}, ci, false)
	cases := []struct {
		declared, given *Type
		ok              bool
	}{
		{ci, ci, true},
		{ci, code, false},
		{r.Simple(KindAnytype), code, true},
		{r.Simple(KindAnytype), sig, true},
		{r.Simple(KindProcedure), sig, true},
		{r.Simple(KindMacro), sig, false},
		{sig, r.Procedure([]*Type{ci}, ci, false), true},
		{sig, r.Procedure([]*Type{code}, ci, false), false},
	}
	for _, c := range cases {
		if c.declared.Accepts(c.given) != c.ok {
			t.Errorf("%s accepts %s: expected %v", c.declared, c.given, c.ok)
		}
	}
}

func TestKindByName(t *testing.T) {
	for k := TypeKind(0); k < numKinds; k++ {
		got, ok := KindByName(k.String())
		if !ok || got != k {
			t.Errorf("KindByName(%q) = %v %v", k.String(), got, ok)
		}
	}
	if _, ok := KindByName("NOPE"); ok {
		t.Error("unknown kind name resolved")
	}
}
