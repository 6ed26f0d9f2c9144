package zeno

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
)

type closeBuffer struct {
	bytes.Buffer
	closes int
}

func (b *closeBuffer) Close() error {
	b.closes++
	return nil
}

func TestTraceEvents(t *testing.T) {
	var buf closeBuffer
	tr := NewTrace(&buf)
	tr.Event("start", "test", "i")
	tr.Duration("form", "eval", func() {})
	tr.Close()
	if buf.closes != 1 {
		t.Error("trace file not closed")
	}
	var events []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
		t.Fatalf("trace is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0]["s"] != "g" || events[1]["ph"] != "B" || events[2]["ph"] != "E" || events[2]["name"] != "form" {
		t.Errorf("events: %v", events)
	}
	if _, ok := events[1]["s"]; ok {
		t.Error("scope set on a duration event")
	}
}

func TestSetTraceConcurrentClose(t *testing.T) {
	var buf closeBuffer
	Trace = NewTrace(&buf)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetTrace(false)
		}()
	}
	wg.Wait()
	if Trace != nil || buf.closes != 1 {
		t.Errorf("trace closed %d times", buf.closes)
	}
}
