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
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

var explicit = ReadOptions{NoImplicitParentheses: true}

func readOne(t *testing.T, s string, opts ReadOptions) *Code {
	t.Helper()
	codes, err := ReadAll("test", s, opts)
	if err != nil {
		t.Fatalf("read %q: %v", s, err)
	}
	if len(codes) != 1 {
		t.Fatalf("read %q: expected 1 form, got %d", s, len(codes))
	}
	return codes[0]
}

func TestReadPrintRoundTrip(t *testing.T) {
	cases := []string{
		"(a (b c) #key 12 -3.5e2 \"s\\\"x\" ())",
		"($quote (a ($unquote (+ 1 2)) b))",
		"(0x1F 0b101 0o17 +4 1.25)",
		"x",
		"(é (((deep))))",
	}
	for _, s := range cases {
		code := readOne(t, s, explicit)
		if code.String() != s {
			t.Errorf("print(read(%q)) = %q", s, code.String())
		}
		again := readOne(t, code.String(), explicit)
		if !again.Equal(code) {
			t.Errorf("read(print(%q)) differs: %s", s, again)
		}
	}
}

func TestReadIndentationEquivalence(t *testing.T) {
	cases := []struct{ implicit, explicit string }{
		{"$define f\n  $proc (x) ($type ANYTYPE)\n    $return x\n",
			"($define f ($proc (x) ($type ANYTYPE) ($return x)))"},
		{"a b\n  c d\n  e\n    f g\n", "(a b (c d) (e (f g)))"},
		{"a (b\n  c) d\n", "(a (b (c)) d)"},
		{"a\n  ; comment\n  b c ; trailing\n", "(a (b c))"},
	}
	for _, c := range cases {
		got := readOne(t, c.implicit, ReadOptions{})
		want := readOne(t, c.explicit, explicit)
		if !got.Equal(want) {
			t.Errorf("read(%q) = %s, want %s", c.implicit, got, want)
		}
	}
}

func TestReadTopLevelForms(t *testing.T) {
	codes, err := ReadAll("test", "a b\nc d\n\n($define x 5)\nx\n", ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"(a b)", "(c d)", "($define x 5)", "(x)"}
	if len(codes) != len(want) {
		t.Fatalf("expected %d forms, got %d", len(want), len(codes))
	}
	for i := range want {
		if codes[i].String() != want[i] {
			t.Errorf("form %d = %s, want %s", i, codes[i], want[i])
		}
	}
	if codes[2].Location != 9 {
		t.Errorf("location of third form = %d, want 9", codes[2].Location)
	}
}

func TestReadContinuesAtOffset(t *testing.T) {
	s := "(a) (b)"
	code, next, err := Read("test", s, 0, explicit)
	if err != nil || code.String() != "(a)" {
		t.Fatalf("first read: %v %v", code, err)
	}
	code, next, err = Read("test", s, next, explicit)
	if err != nil || code.String() != "(b)" || code.Location != 4 {
		t.Fatalf("second read: %v %v", code, err)
	}
	code, _, err = Read("test", s, next, explicit)
	if err != nil || code != nil {
		t.Fatalf("expected end of input, got %v %v", code, err)
	}
}

func TestReadAtoms(t *testing.T) {
	code := readOne(t, "(#VOID \"a\\\"b\\n\" -12 e\u0301 1e3)", explicit)
	kinds := []CodeKind{CodeKeyword, CodeString, CodeInteger, CodeIdentifier, CodeFloat}
	for i, k := range kinds {
		if code.Children[i].Kind != k {
			t.Errorf("child %d: kind %s, want %s", i, code.Children[i].Kind, k)
		}
	}
	if s := code.Children[1].StringValue(); s != "a\"b\n" {
		t.Errorf("string value = %q", s)
	}
	if code.Children[3].Text != "\u00e9" {
		t.Errorf("identifier not NFC normalized: %q", code.Children[3].Text)
	}
	if code.Children[2].Location != 16 {
		t.Errorf("location of -12 = %d", code.Children[2].Location)
	}
}

func TestReadSugar(t *testing.T) {
	code := readOne(t, "'(a ,b)", explicit)
	if code.String() != "($quote (a ($unquote b)))" {
		t.Fatalf("got %s", code)
	}
	code = readOne(t, "f 'x\n", ReadOptions{})
	if code.String() != "(f ($quote x))" {
		t.Fatalf("got %s", code)
	}
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		s          string
		msg        string
		location   int
		incomplete bool
	}{
		{"(a b", "missing closing parenthesis", 0, true},
		{"(a (b)", "missing closing parenthesis", 0, true},
		{")", "unexpected closing parenthesis", 0, false},
		{"a)\n", "unexpected closing parenthesis", 1, false},
		{"(x \"abc", "unterminated string literal", 3, true},
		{"'", "expected a form after '", 0, true},
		{"(,)", "expected a form after ,", 1, false},
		{"0b102", "malformed number literal", 0, false},
		{"1.", "missing digits after '.'", 0, false},
		{"1e", "missing exponent digits", 0, false},
		{"0b1.1e3", "exponent on a base 2 literal", 0, false},
		{"12abc", "malformed number literal", 0, false},
	}
	for _, c := range cases {
		_, err := ReadAll("test", c.s, ReadOptions{})
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Errorf("read(%q): expected ParseError, got %v", c.s, err)
			continue
		}
		if !strings.Contains(perr.Message, c.msg) || perr.Location != c.location || perr.Incomplete != c.incomplete {
			t.Errorf("read(%q): got %q at %d (incomplete %v)", c.s, perr.Message, perr.Location, perr.Incomplete)
		}
		if perr.Source != "test" {
			t.Errorf("read(%q): source %q", c.s, perr.Source)
		}
	}
}

func TestNumberValues(t *testing.T) {
	ints := map[string]int64{"0x1F": 31, "-0b101": -5, "+12": 12, "0o17": 15, "007": 7}
	for text, want := range ints {
		if got := IntegerValue(text); got.Cmp(big.NewInt(want)) != 0 {
			t.Errorf("IntegerValue(%q) = %s, want %d", text, got, want)
		}
	}
	huge := IntegerValue("123456789012345678901234567890")
	if huge.String() != "123456789012345678901234567890" {
		t.Errorf("big integer lost digits: %s", huge)
	}
	floats := map[string]string{"0x1.8": "1.5", "2.5e2": "250", "-0b0.01": "-0.25", "1.25": "1.25", "5e-1": "0.5"}
	for text, want := range floats {
		if got := FloatValue(text); !got.Equal(decimal.RequireFromString(want)) {
			t.Errorf("FloatValue(%q) = %s, want %s", text, got, want)
		}
	}
}
