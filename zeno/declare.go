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
import "strings"
import "path/filepath"
import "github.com/google/btree"

type Declaration struct {
	Name    string
	Desc    string
	Kind    TypeKind // KindProcedure or KindMacro
	Params  []DeclarationParameter
	Returns TypeKind
	Fn      func(c *Call) Value
}

// A parameter whose name ends in "..." must come last and makes the
// builtin varargs; it is not part of the signature's parameter list.
type DeclarationParameter struct {
	Name string
	Type TypeKind
	Desc string
}

func (d *Declaration) varargs() bool {
	return len(d.Params) > 0 && strings.HasSuffix(d.Params[len(d.Params)-1].Name, "...")
}

type declarations struct {
	titles []string // declaration order, chapter titles prefixed with #
	byName *btree.BTreeG[*Declaration]
	byFn   map[*Native]*Declaration
}

func newDeclarations() *declarations {
	return &declarations{
		byName: btree.NewG(8, func(a, b *Declaration) bool { return a.Name < b.Name }),
		byFn:   make(map[*Native]*Declaration),
	}
}

func (ip *Interp) DeclareTitle(title string) {
	ip.decls.titles = append(ip.decls.titles, "#"+title)
}

// Declare binds a native builtin in en and records its documentation.
func (ip *Interp) Declare(en *Env, def *Declaration) *Native {
	params := def.Params
	if def.varargs() {
		params = params[:len(params)-1]
	}
	types := make([]*Type, len(params))
	for i, p := range params {
		types[i] = ip.Types.Simple(p.Type)
	}
	sig := ip.Types.Signature(def.Kind, types, ip.Types.Simple(def.Returns), def.varargs())
	fn := &Native{def.Name, def.Fn}
	if !en.Define(Symbol(def.Name), Value{sig, Callable(fn)}) {
		panic(NotImplemented("duplicate builtin " + def.Name))
	}
	ip.decls.titles = append(ip.decls.titles, def.Name)
	ip.decls.byName.ReplaceOrInsert(def)
	ip.decls.byFn[fn] = def
	return fn
}

func (ip *Interp) Declaration(name string) (*Declaration, bool) {
	return ip.decls.byName.Get(&Declaration{Name: name})
}

// DeclarationForValue resolves a builtin value to its Declaration.
func (ip *Interp) DeclarationForValue(v Value) *Declaration {
	if fn, ok := v.Data.(*Native); ok {
		return ip.decls.byFn[fn]
	}
	return nil
}

// Completions lists declared builtin names starting with prefix in order.
func (ip *Interp) Completions(prefix string) []string {
	var result []string
	ip.decls.byName.AscendGreaterOrEqual(&Declaration{Name: prefix}, func(d *Declaration) bool {
		if !strings.HasPrefix(d.Name, prefix) {
			return false
		}
		result = append(result, d.Name)
		return true
	})
	return result
}

func (d *Declaration) signature() string {
	var b strings.Builder
	b.WriteString("(" + d.Name)
	for _, p := range d.Params {
		b.WriteString(" " + p.Name)
	}
	b.WriteString(") -> " + d.Returns.String())
	return b.String()
}

// Help writes the overview of all builtins or the page of one of them.
func (ip *Interp) Help(w io.Writer, name string) error {
	if name == "" {
		fmt.Fprintln(w, "Available builtins:")
		for _, title := range ip.decls.titles {
			if title[0] == '#' {
				fmt.Fprintln(w, "")
				fmt.Fprintln(w, "-- "+title[1:]+" --")
			} else if def, ok := ip.Declaration(title); ok {
				fmt.Fprintln(w, "  "+title+": "+strings.Split(def.Desc, "\n")[0])
			}
		}
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "get further information by typing ($help #name)")
		return nil
	}
	def, ok := ip.Declaration(name)
	if !ok {
		return fmt.Errorf("no builtin named %q", name)
	}
	fmt.Fprintln(w, "Help for: "+def.Name)
	fmt.Fprintln(w, "===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, def.Desc)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, def.Kind.String()+" "+def.signature())
	fmt.Fprintln(w, "")
	for _, p := range def.Params {
		fmt.Fprintln(w, " - "+p.Name+" ("+p.Type.String()+"): "+p.Desc)
	}
	fmt.Fprintln(w, "")
	return nil
}

// slugify makes a filesystem-safe, lowercase slug from a chapter title.
func slugify(s string) string {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "chapter"
	}
	return b.String()
}

// WriteDocumentation generates Markdown docs:
// - index.md with links to chapters
// - one <chapter>.md file per chapter, containing all builtins of that chapter
func (ip *Interp) WriteDocumentation(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", folder, err)
	}

	type Chapter struct {
		Title string
		Slug  string
		Defs  []*Declaration
	}
	var chapters []*Chapter
	var current *Chapter
	usedSlugs := map[string]bool{}
	open := func(title string) {
		slug := slugify(title)
		for i := 2; usedSlugs[slug]; i++ {
			slug = fmt.Sprintf("%s-%d", slugify(title), i)
		}
		usedSlugs[slug] = true
		current = &Chapter{Title: title, Slug: slug}
		chapters = append(chapters, current)
	}
	for _, t := range ip.decls.titles {
		if t[0] == '#' {
			open(strings.TrimSpace(t[1:]))
			continue
		}
		def, ok := ip.Declaration(t)
		if !ok {
			continue
		}
		if current == nil {
			open("General")
		}
		current.Defs = append(current.Defs, def)
	}

	indexPath := filepath.Join(folder, "index.md")
	index, err := os.Create(indexPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", indexPath, err)
	}
	defer index.Close()
	fmt.Fprint(index, "# Documentation\n\n")
	for _, ch := range chapters {
		if len(ch.Defs) != 0 {
			fmt.Fprintf(index, "- [%s](%s.md)\n", ch.Title, ch.Slug)
		}
	}

	for _, ch := range chapters {
		if len(ch.Defs) == 0 {
			continue
		}
		fp := filepath.Join(folder, ch.Slug+".md")
		f, err := os.Create(fp)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", fp, err)
		}
		fmt.Fprintf(f, "# %s\n\n", ch.Title)
		for _, def := range ch.Defs {
			fmt.Fprintf(f, "## %s\n\n", def.Name)
			if def.Desc != "" {
				fmt.Fprintf(f, "%s\n\n", def.Desc)
			}
			fmt.Fprintf(f, "**%s** `%s`\n\n", def.Kind, def.signature())
			fmt.Fprint(f, "### Parameters\n\n")
			if len(def.Params) == 0 {
				fmt.Fprint(f, "_This builtin has no parameters._\n\n")
			} else {
				for _, p := range def.Params {
					fmt.Fprintf(f, "- **%s** (`%s`): %s\n", p.Name, p.Type, p.Desc)
				}
				fmt.Fprintln(f)
			}
			fmt.Fprintf(f, "### Returns\n\n`%s`\n\n", def.Returns)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
