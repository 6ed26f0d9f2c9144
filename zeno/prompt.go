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
	"fmt"
	"io"
	"runtime/debug"
	"sort"

	"github.com/chzyer/readline"
)

const newprompt = "\033[32m>\033[0m "
const contprompt = "\033[32m.\033[0m "
const resultprompt = "\033[31m=\033[0m "

// completer offers builtin names and names bound in the prompt's frame.
type completer struct {
	ip *Interp
	en *Env
}

func (c completer) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && line[start-1] < 128 && !isDelimiter(byte(line[start-1])) && line[start-1] != '\'' && line[start-1] != ',' {
		start--
	}
	prefix := string(line[start:pos])
	seen := make(map[string]bool)
	var names []string
	for _, name := range append(c.ip.Completions(prefix), c.en.Names(prefix)...) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	result := make([][]rune, len(names))
	for i, name := range names {
		result[i] = []rune(name[len(prefix):])
	}
	return result, len([]rune(prefix))
}

// Repl reads forms from the terminal and evaluates them in en until EOF
// or ^C on an empty line. Open parentheses or strings continue on the
// next line.
func (ip *Interp) Repl(en *Env) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            newprompt,
		HistoryFile:       ".zeno-history.tmp",
		AutoComplete:      completer{ip, en},
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()
	l.CaptureExitSignal()

	oldline := ""
	for {
		line, err := l.Readline()
		line = oldline + line
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			oldline = ""
			l.SetPrompt(newprompt)
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			panic(err)
		}
		if line == "" {
			continue
		}

		// anti-panic func
		func() {
			defer func() {
				if r := recover(); r != nil {
					fmt.Println("panic:", r, string(debug.Stack()))
					oldline = ""
					l.SetPrompt(newprompt)
				}
			}()
			if _, err := ReadAll("user prompt", line, ReadOptions{}); err != nil {
				var perr *ParseError
				if errors.As(err, &perr) && perr.Incomplete {
					oldline = line + "\n"
					l.SetPrompt(contprompt)
					return
				}
			}
			oldline = ""
			l.SetPrompt(newprompt)
			err := ip.EvalEach("user prompt", line, en, func(v Value, err error) bool {
				if err != nil {
					fmt.Println("error:", err)
					return false
				}
				if v.IsVoid() {
					return true
				}
				if text, ok := RenderValue(v); ok {
					fmt.Println(resultprompt + text)
				}
				return true
			})
			var perr *ParseError
			if errors.As(err, &perr) {
				fmt.Println("error:", err)
			}
		}()
	}
}
