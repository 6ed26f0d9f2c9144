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

import "strings"

type Symbol string

type EnvEntry struct {
	Value Value
}

/*
 Environments

 A frame never rebinds a name it already holds; shadowing happens by
 opening a child frame.
*/

type Vars map[Symbol]*EnvEntry
type Env struct {
	Vars  Vars
	Outer *Env
}

func NewEnv(outer *Env) *Env {
	return &Env{make(Vars), outer}
}

// FindRead returns the nearest frame holding s or nil.
func (e *Env) FindRead(s Symbol) *Env {
	for ; e != nil; e = e.Outer {
		if _, ok := e.Vars[s]; ok {
			return e
		}
	}
	return nil
}

func (e *Env) Find(s Symbol) (Value, bool) {
	if en := e.FindRead(s); en != nil {
		return en.Vars[s].Value, true
	}
	return Value{}, false
}

// Define binds s in this frame. It reports false if the frame already
// holds s; outer frames are not consulted.
func (e *Env) Define(s Symbol, v Value) bool {
	if _, ok := e.Vars[s]; ok {
		return false
	}
	e.Vars[s] = &EnvEntry{v}
	return true
}

// Names collects the visible names starting with prefix, nearest first.
func (e *Env) Names(prefix string) []string {
	seen := make(map[Symbol]bool)
	var result []string
	for ; e != nil; e = e.Outer {
		for s := range e.Vars {
			if !seen[s] && strings.HasPrefix(string(s), prefix) {
				seen[s] = true
				result = append(result, string(s))
			}
		}
	}
	return result
}
