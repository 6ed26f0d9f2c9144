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
	"math/big"
	"strings"

	"github.com/dc0d/onexit"
	units "github.com/docker/go-units"
)

type SettingsT struct {
	Trace             bool
	TracePrint        bool
	MaxExpansionDepth int   // macro expansions of one call site
	MaxEvalDepth      int   // nested evaluations
	MaxSourceSize     int64 // bytes of one (decompressed) source file
	KeepGoing         bool  // batch mode continues after a failing form
}

var DefaultSettings SettingsT = SettingsT{false, false, 1000, 10000, 16 * units.MiB, false}

var settingNames = []string{"Trace", "TracePrint", "MaxExpansionDepth", "MaxEvalDepth", "MaxSourceSize", "KeepGoing"}

// call this after you filled Settings
func (ip *Interp) InitSettings() error {
	onexit.Register(func() { SetTrace(false) }) // close trace file on exit
	return SetTrace(ip.Settings.Trace)
}

func (ip *Interp) initSettings() {
	ip.DeclareTitle("Settings")
	ip.Declare(ip.Root, &Declaration{
		"$settings", "reads and changes runtime settings\n($settings) lists all settings, ($settings #Name) reads one, ($settings #Name value) changes it.",
		KindProcedure, []DeclarationParameter{
			{"args...", KindAnytype, "setting name and new value"},
		}, KindAnytype,
		func(c *Call) Value {
			return c.Interp.ChangeSettings(c)
		},
	})
}

func settingName(c *Call, v Value, i int) string {
	if v.Type.Kind == KindCode {
		code := v.Code()
		switch code.Kind {
		case CodeKeyword:
			return code.Text[1:]
		case CodeIdentifier:
			return code.Text
		case CodeString:
			return code.StringValue()
		}
	}
	panic(ErrorAt(c.Site.Children[i], "expected a setting name, got a value of type %s", v.Type))
}

func (ip *Interp) setting(name string) Value {
	s := &ip.Settings
	switch name {
	case "Trace":
		return Value{ip.Types.Simple(KindBool), s.Trace}
	case "TracePrint":
		return Value{ip.Types.Simple(KindBool), s.TracePrint}
	case "MaxExpansionDepth":
		return Value{ip.Types.Simple(KindComptimeInteger), big.NewInt(int64(s.MaxExpansionDepth))}
	case "MaxEvalDepth":
		return Value{ip.Types.Simple(KindComptimeInteger), big.NewInt(int64(s.MaxEvalDepth))}
	case "MaxSourceSize":
		return Value{ip.Types.Simple(KindComptimeInteger), big.NewInt(s.MaxSourceSize)}
	case "KeepGoing":
		return Value{ip.Types.Simple(KindBool), s.KeepGoing}
	}
	return Value{}
}

func (ip *Interp) ChangeSettings(c *Call) Value {
	switch len(c.Args) {
	case 0:
		var b strings.Builder
		b.WriteByte('(')
		for i, name := range settingNames {
			text, _ := RenderValue(ip.setting(name))
			if i != 0 {
				b.WriteByte(' ')
			}
			b.WriteString("#" + name + " " + text)
		}
		b.WriteByte(')')
		codes, err := ReadAll("settings", b.String(), ReadOptions{NoImplicitParentheses: true})
		if err != nil {
			panic(err)
		}
		codes[0].relocate(c.Site.Location)
		return ip.codeValue(codes[0])
	case 1:
		name := settingName(c, c.Args[0], 1)
		v := ip.setting(name)
		if v.Type == nil {
			panic(ErrorAt(c.Site.Children[1], "unknown setting: %s", name))
		}
		return v
	case 2:
		name := settingName(c, c.Args[0], 1)
		v := c.Args[1]
		site := c.Site.Children[2]
		s := &ip.Settings
		switch name {
		case "Trace":
			s.Trace = boolSetting(site, v)
			if err := SetTrace(s.Trace); err != nil {
				panic(ErrorAt(site, "cannot open trace file: %v", err))
			}
		case "TracePrint":
			s.TracePrint = boolSetting(site, v)
		case "MaxExpansionDepth":
			s.MaxExpansionDepth = int(intSetting(site, v))
		case "MaxEvalDepth":
			s.MaxEvalDepth = int(intSetting(site, v))
		case "MaxSourceSize":
			if v.Type.Kind == KindCode && v.Code().Kind == CodeString {
				size, err := units.RAMInBytes(v.Code().StringValue())
				if err != nil || size < 1 {
					panic(ErrorAt(site, "invalid size %s", v.Code()))
				}
				s.MaxSourceSize = size
			} else {
				s.MaxSourceSize = intSetting(site, v)
			}
		case "KeepGoing":
			s.KeepGoing = boolSetting(site, v)
		default:
			panic(ErrorAt(c.Site.Children[1], "unknown setting: %s", name))
		}
		return ip.Void
	}
	panic(ErrorAt(c.Site, "$settings expects at most 2 arguments, got %d", len(c.Args)))
}

func boolSetting(site *Code, v Value) bool {
	if v.Type.Kind != KindBool {
		panic(ErrorAt(site, "expected BOOL, got %s", v.Type))
	}
	return v.Bool()
}

func intSetting(site *Code, v Value) int64 {
	if v.Type.Kind != KindComptimeInteger || !v.Int().IsInt64() || v.Int().Sign() <= 0 {
		panic(ErrorAt(site, "expected a positive COMPTIME_INTEGER, got %s", describe(v)))
	}
	return v.Int().Int64()
}

// describe names a value in diagnostics: its text if it has one, else its type.
func describe(v Value) string {
	if text, ok := RenderValue(v); ok && v.Type.Kind != KindProcedure && v.Type.Kind != KindMacro {
		return fmt.Sprintf("%s %s", v.Type, text)
	}
	return v.Type.String()
}
