// Package view provides a flat-namespace template registry over
// [html/template] with a process-wide compile cache.
//
// A Registry holds one shared namespace: every fragment compiled into it can
// invoke every other by name. The function table is supplied up front and is
// frozen once the first fragment is compiled, because html/template resolves
// function references at parse time.
//
// # Usage
//
//	reg := view.New(template.FuncMap{
//		"reverse": router.Reverse,
//	})
//
//	page, err := reg.Compile("_base",
//		view.Fragment{Name: "_base", Source: baseSrc},
//		view.Fragment{Name: "login", Source: loginSrc},
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = page.Execute(w, data)
//
// Fragments fill a base layout's slots by defining templates of the same
// name ({{define "content"}} ... {{end}}); the base invokes them with
// {{template "content" .}}. This is plain named-template invocation, nothing
// more.
//
// # Caching
//
// Cache maps friendly keys to compiled templates and collapses concurrent
// first-time compiles with singleflight:
//
//	tmpl, err := cache.Load("login", func() (*view.Template, error) {
//		return reg.Compile("_base", base, login)
//	})
//
// The cache is unbounded and permanent by design; see Cache.
package view
