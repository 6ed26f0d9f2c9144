package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/launix-de/zeno/zeno"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, text := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestImportRelativeToImportingFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"main.zn":  "($import \"sub/x.zn\")\n($define z y)\n",
		"sub/x.zn": "($import \"y.zn\")\n($define x 1)\n",
		"sub/y.zn": "($define y 2)\n",
	})
	ip := zeno.New()
	program := zeno.NewEnv(setupIO(ip))
	if !runFile(ip, program, filepath.Join(dir, "main.zn")) {
		t.Fatal("runFile failed")
	}
	for name, want := range map[string]string{"x": "1", "y": "2", "z": "2"} {
		v, ok := program.Find(zeno.Symbol(name))
		if !ok {
			t.Errorf("%s is not bound in the program frame", name)
			continue
		}
		if text, _ := zeno.RenderValue(v); text != want {
			t.Errorf("%s = %s, want %s", name, text, want)
		}
	}
	// commands run after the files see their definitions
	if _, err := ip.EvalAll("command line", "($define w x)", program); err != nil {
		t.Errorf("command cannot see file definitions: %v", err)
	}
}

func TestImportErrors(t *testing.T) {
	ip := zeno.New()
	program := zeno.NewEnv(setupIO(ip))
	_, err := ip.EvalAll("test", "($import \""+filepath.Join(t.TempDir(), "missing.zn")+"\")", program)
	if err == nil || !strings.Contains(err.Error(), "missing.zn") {
		t.Errorf("missing import: %v", err)
	}
	if _, err := ip.EvalAll("test", "($import #x)", program); err == nil {
		t.Error("import of a keyword succeeded")
	}
}

func TestRunFileKeepGoing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"bad.zn":   "($define a 1)\n(nope)\n($define b 2)\n",
		"parse.zn": "($define a 1)\n(unclosed\n",
	})
	for _, keepGoing := range []bool{false, true} {
		ip := zeno.New()
		ip.Settings.KeepGoing = keepGoing
		program := zeno.NewEnv(setupIO(ip))
		if runFile(ip, program, filepath.Join(dir, "bad.zn")) {
			t.Errorf("keepGoing=%v: failing file reported success", keepGoing)
		}
		if _, ok := program.Find("a"); !ok {
			t.Errorf("keepGoing=%v: forms before the error did not run", keepGoing)
		}
		if _, ok := program.Find("b"); ok != keepGoing {
			t.Errorf("keepGoing=%v: form after the error ran: %v", keepGoing, ok)
		}
		if runFile(ip, zeno.NewEnv(program), filepath.Join(dir, "parse.zn")) {
			t.Errorf("keepGoing=%v: parse error reported success", keepGoing)
		}
	}
	ip := zeno.New()
	if runFile(ip, zeno.NewEnv(setupIO(ip)), filepath.Join(dir, "nothere.zn")) {
		t.Error("missing file reported success")
	}
}

func TestWatchFilesReloadsSerially(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.zn": "($hit \"a\")\n", "b.zn": "($hit \"b\")\n"})
	ip := zeno.New()
	ioenv := setupIO(ip)
	hits := make(chan string, 64)
	ip.Declare(ioenv, &zeno.Declaration{
		Name: "$hit", Desc: "records a reload",
		Kind: zeno.KindProcedure, Params: []zeno.DeclarationParameter{
			{Name: "name", Type: zeno.KindCode, Desc: "file tag"},
		}, Returns: zeno.KindVoid,
		Fn: func(c *zeno.Call) zeno.Value {
			hits <- c.Args[0].Code().StringValue()
			return c.Interp.Void
		},
	})
	names := []string{filepath.Join(dir, "a.zn"), filepath.Join(dir, "b.zn")}
	if err := watchFiles(ip, ioenv, names); err != nil {
		t.Skip("no file watcher available:", err)
	}
	writeFiles(t, dir, map[string]string{"a.zn": "($hit \"a\")\n", "b.zn": "($hit \"b\")\n"})
	seen := map[string]bool{}
	timeout := time.After(10 * time.Second)
	for !seen["a"] || !seen["b"] {
		select {
		case h := <-hits:
			seen[h] = true
		case <-timeout:
			t.Fatalf("reloads seen: %v", seen)
		}
	}
}

func TestCheckLimits(t *testing.T) {
	if err := checkLimits(zeno.DefaultSettings); err != nil {
		t.Errorf("defaults rejected: %v", err)
	}
	s := zeno.DefaultSettings
	s.MaxExpansionDepth = 0
	if err := checkLimits(s); err == nil || !strings.Contains(err.Error(), "-max-expansion") {
		t.Errorf("zero expansion depth: %v", err)
	}
	s = zeno.DefaultSettings
	s.MaxEvalDepth = -1
	if err := checkLimits(s); err == nil || !strings.Contains(err.Error(), "-max-depth") {
		t.Errorf("negative eval depth: %v", err)
	}
}
