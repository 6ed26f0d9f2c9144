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

import "io"
import "os"
import "fmt"
import "sync"
import "time"
import "path/filepath"
import "encoding/json"

// Tracefile writes chrome trace events (chrome://tracing, ui.perfetto.dev).
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	m       sync.Mutex
}

var Trace *Tracefile // set to not nil if you want to trace
var traceMu sync.Mutex // serializes SetTrace, which runs from exit hooks too

type traceEvent struct {
	Name  string `json:"name"`
	Cat   string `json:"cat"`
	Phase string `json:"ph"`
	Ts    int64  `json:"ts"`
	Pid   int    `json:"pid"`
	Tid   int    `json:"tid"`
	Scope string `json:"s,omitempty"`
}

// SetTrace closes the current trace and opens a new one in $ZENO_TRACEDIR
// when on is set.
func SetTrace(on bool) error {
	traceMu.Lock()
	defer traceMu.Unlock()
	if Trace != nil {
		Trace.Close()
		Trace = nil
	}
	if on {
		name := filepath.Join(os.Getenv("ZENO_TRACEDIR"), "trace_"+fmt.Sprint(time.Now().Unix())+".json")
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		Trace = NewTrace(f)
	}
	return nil
}

func NewTrace(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{isFirst: true, file: file}
}

func (t *Tracefile) Close() {
	t.m.Lock()
	defer t.m.Unlock()
	t.file.Write([]byte("]"))
	t.file.Close()
}

func (t *Tracefile) Duration(name string, cat string, f func()) {
	t.Event(name, cat, "B")
	defer t.Event(name, cat, "E")
	f()
}

// Event writes one event; typ is B/E for begin/end or i for instants.
func (t *Tracefile) Event(name string, cat string, typ string) {
	ev := traceEvent{name, cat, typ, time.Since(start).Microseconds(), 0, 0, ""}
	if typ == "i" {
		ev.Scope = "g"
	}
	b, _ := json.Marshal(ev)
	t.m.Lock()
	defer t.m.Unlock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	t.file.Write(b)
}

var start time.Time = time.Now()
