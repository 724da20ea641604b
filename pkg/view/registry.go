package view

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"maps"
	"sync"
)

// Fragment is one named, parseable unit of template source. A fragment may
// declare named blocks with {{define}} and invoke any template registered in
// the same registry with {{template}}.
type Fragment struct {
	Name   string
	Source string
}

// Registry owns a flat namespace of compiled templates plus the shared
// function table usable from any template in the set. Once two fragments are
// compiled into the same registry, each can invoke the other by name; there
// is no scoping below the registry.
//
// The function table must be complete before the first Compile call. New
// takes the initial table and Funcs rejects changes after compilation, so the
// ordering is structural rather than a caller convention.
type Registry struct {
	mu       sync.Mutex
	funcs    template.FuncMap
	root     *template.Template
	names    map[string]struct{}
	compiled bool
}

// New creates a registry with the given function table. A nil map is fine.
func New(funcs template.FuncMap) *Registry {
	fm := template.FuncMap{}
	maps.Copy(fm, funcs)
	return &Registry{
		funcs: fm,
		root:  template.New("").Funcs(fm),
		names: make(map[string]struct{}),
	}
}

// Funcs augments the shared function table. Returns ErrFuncsAfterCompile if
// any fragment has already been compiled into this registry.
func (r *Registry) Funcs(fm template.FuncMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.compiled {
		return ErrFuncsAfterCompile
	}
	maps.Copy(r.funcs, fm)
	r.root.Funcs(fm)
	return nil
}

// Compile parses the fragments in order into the registry's shared namespace
// and returns a Template whose entry point is entryName.
//
// Each fragment is registered under its own logical name; entryName does not
// have to match any of them. If it doesn't, executing the returned Template
// writes nothing and returns no error. That quirk is deliberate: a set parsed
// under a name nothing defines renders an empty page, and surfacing it as an
// error here would mask where the mistake actually is (the caller's naming).
//
// A fragment whose logical name, or any name it defines, already exists in
// the registry fails with ErrDuplicateTemplate and leaves the registry
// unchanged by that fragment.
func (r *Registry) Compile(entryName string, fragments ...Fragment) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range fragments {
		// Parse into a scratch set first so we can detect name collisions
		// (including {{define}}d names) before touching the shared namespace.
		scratch, err := template.New(f.Name).Funcs(r.funcs).Parse(f.Source)
		if err != nil {
			return nil, fmt.Errorf("view: parse %q: %w", f.Name, err)
		}

		for _, t := range scratch.Templates() {
			if t.Tree == nil {
				continue
			}
			if _, exists := r.names[t.Name()]; exists {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name())
			}
		}

		for _, t := range scratch.Templates() {
			if t.Tree == nil {
				continue
			}
			if _, err := r.root.AddParseTree(t.Name(), t.Tree); err != nil {
				return nil, fmt.Errorf("view: register %q: %w", t.Name(), err)
			}
			r.names[t.Name()] = struct{}{}
		}
	}

	r.compiled = true
	return &Template{registry: r, entry: entryName}, nil
}

// Lookup returns the template registered under name, or ErrTemplateNotFound.
// All lookups draw from the same shared namespace, so looking a name up
// through the registry or through any Template it returned is equivalent.
func (r *Registry) Lookup(name string) (*Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.names[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return &Template{registry: r, entry: name}, nil
}

// Template is an executable handle into a registry's namespace with a fixed
// entry name. Handles are cheap; the parsed state lives in the registry.
type Template struct {
	registry *Registry
	entry    string
}

// Name returns the template's entry name.
func (t *Template) Name() string {
	return t.entry
}

// Lookup resolves another name in the same shared namespace.
func (t *Template) Lookup(name string) (*Template, error) {
	return t.registry.Lookup(name)
}

// Execute renders the entry template with contextual autoescaping and writes
// the result to w. Output is buffered internally: on failure nothing is
// written to w and the error is wrapped with ErrRender.
//
// If the entry name was never defined by any fragment, Execute writes nothing
// and returns nil (see Compile).
func (t *Template) Execute(w io.Writer, data any) error {
	t.registry.mu.Lock()
	tmpl := t.registry.root.Lookup(t.entry)
	t.registry.mu.Unlock()

	if tmpl == nil {
		return nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRender, t.entry, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
