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
/*
	zeno: a homoiconic language front end with indentation-aware syntax

*/
package main

import "os"
import "fmt"
import "flag"
import "time"
import "strings"
import "syscall"
import "os/signal"
import "crypto/rand"
import "path/filepath"
import "github.com/google/uuid"
import "github.com/jtolds/gls"
import "github.com/fsnotify/fsnotify"
import units "github.com/docker/go-units"
import "github.com/launix-de/zeno/zeno"

// the file a goroutine is currently evaluating; watcher reloads run in
// their own goroutine and keep their own value
var files = gls.NewContextManager()

const fileKey = "file"

func currentFile() string {
	if f, ok := files.GetValue(fileKey); ok {
		return f.(string)
	}
	return "command line"
}

// workaround for flags package to allow multiple values
type arrayFlags []string

func (i *arrayFlags) String() string {
	return strings.Join(*i, "; ")
}

func (i *arrayFlags) Set(value string) error {
	*i = append(*i, value)
	return nil
}

func setupIO(ip *zeno.Interp) *zeno.Env {
	// IO builtins live in their own frame so the core stays sandboxable
	ioenv := zeno.NewEnv(ip.Root)
	ip.DeclareTitle("IO")
	ip.Declare(ioenv, &zeno.Declaration{
		Name: "$print", Desc: "prints values to stdout, strings without quotes",
		Kind: zeno.KindProcedure, Params: []zeno.DeclarationParameter{
			{Name: "values...", Type: zeno.KindAnytype, Desc: "values to print"},
		}, Returns: zeno.KindVoid,
		Fn: func(c *zeno.Call) zeno.Value {
			parts := make([]string, 0, len(c.Args))
			for _, v := range c.Args {
				if v.Type.Kind == zeno.KindCode && v.Code().Kind == zeno.CodeString {
					parts = append(parts, v.Code().StringValue())
				} else if text, ok := zeno.RenderValue(v); ok {
					parts = append(parts, text)
				} else {
					parts = append(parts, v.Type.String())
				}
			}
			fmt.Println(strings.Join(parts, " "))
			return c.Interp.Void
		},
	})
	ip.Declare(ioenv, &zeno.Declaration{
		Name: "$help", Desc: "lists all builtins or prints the help page of one",
		Kind: zeno.KindProcedure, Params: []zeno.DeclarationParameter{
			{Name: "topic...", Type: zeno.KindAnytype, Desc: "builtin or its name as #keyword"},
		}, Returns: zeno.KindVoid,
		Fn: func(c *zeno.Call) zeno.Value {
			name := ""
			if len(c.Args) > 0 {
				v := c.Args[0]
				if def := c.Interp.DeclarationForValue(v); def != nil {
					name = def.Name
				} else if v.Type.Kind == zeno.KindCode && v.Code().Kind == zeno.CodeKeyword {
					name = v.Code().Text[1:]
				} else if v.Type.Kind == zeno.KindCode && v.Code().Kind == zeno.CodeString {
					name = v.Code().StringValue()
				} else {
					panic(zeno.ErrorAt(c.Site.Children[1], "no help for a value of type %s", v.Type))
				}
			}
			if err := c.Interp.Help(os.Stdout, name); err != nil {
				panic(zeno.ErrorAt(c.Site, "%v", err))
			}
			return c.Interp.Void
		},
	})
	ip.Declare(ioenv, &zeno.Declaration{
		Name: "$import", Desc: "evaluates a source file in the current frame; the path is relative to the importing file",
		Kind: zeno.KindProcedure, Params: []zeno.DeclarationParameter{
			{Name: "filename", Type: zeno.KindCode, Desc: "file name as string"},
		}, Returns: zeno.KindAnytype,
		Fn: func(c *zeno.Call) zeno.Value {
			name := c.Args[0].Code()
			if name.Kind != zeno.CodeString {
				panic(zeno.ErrorAt(name, "$import expects a string, got %s", name))
			}
			filename := name.StringValue()
			if !filepath.IsAbs(filename) {
				filename = filepath.Join(filepath.Dir(currentFile()), filename)
			}
			text, err := zeno.LoadSource(filename, c.Interp.Settings.MaxSourceSize)
			if err != nil {
				panic(zeno.ErrorAt(name, "%v", err))
			}
			var result zeno.Value
			files.SetValues(gls.Values{fileKey: filename}, func() {
				result, err = c.Interp.EvalAll(filename, text, c.Env)
			})
			if err != nil {
				panic(err)
			}
			return result
		},
	})
	return ioenv
}

// runFile evaluates a file in the program frame en and reports every
// error as <file>[<location>] <message>. It tells whether all forms passed.
func runFile(ip *zeno.Interp, en *zeno.Env, filename string) (ok bool) {
	ok = true
	files.SetValues(gls.Values{fileKey: filename}, func() {
		text, err := zeno.LoadSource(filename, ip.Settings.MaxSourceSize)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			ok = false
			return
		}
		stopped := false
		err = ip.EvalEach(filename, text, en, func(v zeno.Value, err error) bool {
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				ok = false
				stopped = !ip.Settings.KeepGoing
				return !stopped
			}
			return true
		})
		if err != nil && !stopped {
			// parse errors end the file
			fmt.Fprintln(os.Stderr, err)
			ok = false
		}
	})
	return
}

// watchFiles reruns every file that is written until the process ends.
// One goroutine serves all files; the interpreter is not reentrant.
func watchFiles(ip *zeno.Interp, en *zeno.Env, filenames []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, filename := range filenames {
		if err = watcher.Add(filename); err != nil {
			watcher.Close()
			return err
		}
	}
	gls.Go(func() {
		for {
			select {
			case ev := <-watcher.Events:
				changed := map[string]bool{filepath.Clean(ev.Name): true}
				// flush all other events
			flush:
				for {
					time.Sleep(10 * time.Millisecond) // delay a bit, so we don't read empty files
					select {
					case ev := <-watcher.Events:
						changed[filepath.Clean(ev.Name)] = true
					default:
						break flush
					}
				}
				for _, filename := range filenames {
					if !changed[filepath.Clean(filename)] {
						continue
					}
					fmt.Println("Reloading " + filename + " ...")
					runFile(ip, zeno.NewEnv(en), filename)
					watcher.Add(filename) // text editors rename, so we have to rewatch
				}
			case err := <-watcher.Errors:
				fmt.Fprintln(os.Stderr, "watch:", err)
			}
		}
	})
	return nil
}

// checkLimits rejects depth limits that would fail every evaluation.
func checkLimits(s zeno.SettingsT) error {
	if s.MaxExpansionDepth < 1 {
		return fmt.Errorf("invalid -max-expansion: %d, must be positive", s.MaxExpansionDepth)
	}
	if s.MaxEvalDepth < 1 {
		return fmt.Errorf("invalid -max-depth: %d, must be positive", s.MaxEvalDepth)
	}
	return nil
}

func main() {
	// init random generator for UUIDs
	uuid.SetRand(rand.Reader)

	ip := zeno.New()

	// parse command line options
	var commands arrayFlags
	flag.Var(&commands, "c", "Execute a form after the files (repeatable)")
	watch := flag.Bool("watch", false, "Rerun the files whenever they change")
	flag.BoolVar(&ip.Settings.Trace, "trace", ip.Settings.Trace, "Write a chrome trace of all evaluated forms to $ZENO_TRACEDIR")
	flag.BoolVar(&ip.Settings.TracePrint, "trace-print", ip.Settings.TracePrint, "Print the duration of every top-level form")
	docs := flag.String("doc", "", "Write markdown documentation of all builtins into this folder and exit")
	maxSource := flag.String("max-source", units.BytesSize(float64(ip.Settings.MaxSourceSize)), "Maximum size of a source file, e.g. 16MiB")
	flag.IntVar(&ip.Settings.MaxExpansionDepth, "max-expansion", ip.Settings.MaxExpansionDepth, "Maximum number of macro expansions of one call site")
	flag.IntVar(&ip.Settings.MaxEvalDepth, "max-depth", ip.Settings.MaxEvalDepth, "Maximum nesting depth of evaluation")
	flag.BoolVar(&ip.Settings.KeepGoing, "keep-going", ip.Settings.KeepGoing, "Continue with the next form after an error")
	flag.Parse()

	size, err := units.RAMInBytes(*maxSource)
	if err != nil || size < 1 {
		fmt.Fprintln(os.Stderr, "invalid -max-source:", *maxSource)
		os.Exit(2)
	}
	ip.Settings.MaxSourceSize = size
	if err := checkLimits(ip.Settings); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := ip.InitSettings(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ioenv := setupIO(ip)
	if *docs != "" {
		if err := ip.WriteDocumentation(*docs); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		exitroutine()
		return
	}

	// install exit handler
	cancelChan := make(chan os.Signal, 1)
	signal.Notify(cancelChan, syscall.SIGTERM, syscall.SIGINT)
	go (func() {
		<-cancelChan
		exitroutine()
		os.Exit(1)
	})()

	// files and commands share one program frame, so -c sees what the files defined
	program := zeno.NewEnv(ioenv)
	ok := true
	for _, filename := range flag.Args() {
		ok = runFile(ip, program, filename) && ok
	}
	for _, command := range commands {
		_, err := ip.EvalAll("command line", command, program)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			ok = false
		}
	}

	if *watch && flag.NArg() > 0 {
		if err := watchFiles(ip, ioenv, flag.Args()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitroutine()
			os.Exit(1)
		}
		select {} // the signal handler ends the process
	}

	if flag.NArg() == 0 && len(commands) == 0 {
		fmt.Print(`zeno Copyright (C) 2026   Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;

    Type ($help) to show help

`)
		// REPL shell
		ip.Repl(program)
	}

	// normal shutdown
	exitroutine()
	if !ok {
		os.Exit(1)
	}
}

func exitroutine() {
	zeno.SetTrace(false)
}
