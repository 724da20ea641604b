package view_test

import (
	"bytes"
	"errors"
	"html/template"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hearthstack/hearth/pkg/view"
)

const (
	baseSrc = `<!DOCTYPE html>
<html>
<head><title>{{template "title" .}}</title></head>
<body>{{template "content" .}}</body>
</html>`

	loginSrc = `{{define "title"}}Sign in{{end}}
{{define "content"}}<form action="{{.Action}}" method="post">
<input type="text" name="username" value="{{.Username}}">
</form>{{end}}`
)

func TestCompileAndExecute(t *testing.T) {
	reg := view.New(nil)

	page, err := reg.Compile("_base",
		view.Fragment{Name: "_base", Source: baseSrc},
		view.Fragment{Name: "login", Source: loginSrc},
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var buf bytes.Buffer
	data := map[string]string{"Action": "/login", "Username": "alice"}
	if err := page.Execute(&buf, data); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<title>Sign in</title>") {
		t.Errorf("output missing title slot:\n%s", out)
	}
	if !strings.Contains(out, `action="/login"`) {
		t.Errorf("output missing form action:\n%s", out)
	}
}

func TestEscaping(t *testing.T) {
	reg := view.New(nil)

	page, err := reg.Compile("_base",
		view.Fragment{Name: "_base", Source: baseSrc},
		view.Fragment{Name: "login", Source: loginSrc},
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var buf bytes.Buffer
	data := map[string]string{"Action": "/login", "Username": `<script>alert(1)</script>`}
	if err := page.Execute(&buf, data); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Errorf("raw script tag leaked into output:\n%s", out)
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("expected escaped script tag in output:\n%s", out)
	}
}

func TestLookupIdempotence(t *testing.T) {
	reg := view.New(nil)

	if _, err := reg.Compile("_base",
		view.Fragment{Name: "_base", Source: baseSrc},
		view.Fragment{Name: "login", Source: loginSrc},
	); err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	data := map[string]string{"Action": "/login", "Username": "bob"}

	once, err := reg.Lookup("_base")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	twice, err := once.Lookup("_base")
	if err != nil {
		t.Fatalf("Lookup().Lookup() error: %v", err)
	}

	var a, b bytes.Buffer
	if err := once.Execute(&a, data); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if err := twice.Execute(&b, data); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("lookup(n).lookup(n) rendered differently from lookup(n)")
	}
}

func TestLookupNotFound(t *testing.T) {
	reg := view.New(nil)
	if _, err := reg.Lookup("missing"); !errors.Is(err, view.ErrTemplateNotFound) {
		t.Errorf("Lookup() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestDuplicateName(t *testing.T) {
	t.Run("same registry fails", func(t *testing.T) {
		reg := view.New(nil)
		if _, err := reg.Compile("a", view.Fragment{Name: "a", Source: "one"}); err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		_, err := reg.Compile("a", view.Fragment{Name: "a", Source: "two"})
		if !errors.Is(err, view.ErrDuplicateTemplate) {
			t.Errorf("Compile() error = %v, want ErrDuplicateTemplate", err)
		}
	})

	t.Run("defined name collides too", func(t *testing.T) {
		reg := view.New(nil)
		if _, err := reg.Compile("a", view.Fragment{Name: "a", Source: `{{define "shared"}}x{{end}}body`}); err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		_, err := reg.Compile("b", view.Fragment{Name: "b", Source: `{{define "shared"}}y{{end}}body`})
		if !errors.Is(err, view.ErrDuplicateTemplate) {
			t.Errorf("Compile() error = %v, want ErrDuplicateTemplate", err)
		}
	})

	t.Run("separate registries succeed", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			reg := view.New(nil)
			if _, err := reg.Compile("a", view.Fragment{Name: "a", Source: "one"}); err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
		}
	})
}

func TestEntryNameMismatchYieldsEmpty(t *testing.T) {
	reg := view.New(nil)

	page, err := reg.Compile("entry",
		view.Fragment{Name: "other", Source: "hello"},
	)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, nil); err != nil {
		t.Fatalf("Execute() error = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Execute() wrote %q, want empty output", buf.String())
	}
}

func TestFunctionTableOrdering(t *testing.T) {
	t.Run("unregistered function fails at compile", func(t *testing.T) {
		reg := view.New(nil)
		_, err := reg.Compile("a", view.Fragment{Name: "a", Source: `{{greet "x"}}`})
		if err == nil {
			t.Fatal("Compile() succeeded with unregistered function")
		}
	})

	t.Run("registered before compile is callable", func(t *testing.T) {
		reg := view.New(template.FuncMap{
			"greet": func(name string) string { return "hi " + name },
		})
		page, err := reg.Compile("a", view.Fragment{Name: "a", Source: `{{greet "x"}}`})
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}

		var buf bytes.Buffer
		if err := page.Execute(&buf, nil); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if buf.String() != "hi x" {
			t.Errorf("Execute() = %q, want %q", buf.String(), "hi x")
		}
	})

	t.Run("funcs after compile fails", func(t *testing.T) {
		reg := view.New(nil)
		if _, err := reg.Compile("a", view.Fragment{Name: "a", Source: "plain"}); err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		err := reg.Funcs(template.FuncMap{"late": func() string { return "" }})
		if !errors.Is(err, view.ErrFuncsAfterCompile) {
			t.Errorf("Funcs() error = %v, want ErrFuncsAfterCompile", err)
		}
	})

	t.Run("funcs before compile succeeds", func(t *testing.T) {
		reg := view.New(nil)
		if err := reg.Funcs(template.FuncMap{"early": func() string { return "e" }}); err != nil {
			t.Fatalf("Funcs() error: %v", err)
		}
		page, err := reg.Compile("a", view.Fragment{Name: "a", Source: `{{early}}`})
		if err != nil {
			t.Fatalf("Compile() error: %v", err)
		}
		var buf bytes.Buffer
		if err := page.Execute(&buf, nil); err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		if buf.String() != "e" {
			t.Errorf("Execute() = %q, want %q", buf.String(), "e")
		}
	})
}

func TestRenderErrorWritesNothing(t *testing.T) {
	reg := view.New(nil)

	page, err := reg.Compile("a", view.Fragment{Name: "a", Source: `before {{.Missing.Field}} after`})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	type data struct{ Missing *struct{ Field string } }

	var buf bytes.Buffer
	execErr := page.Execute(&buf, data{})
	if !errors.Is(execErr, view.ErrRender) {
		t.Fatalf("Execute() error = %v, want ErrRender", execErr)
	}
	if buf.Len() != 0 {
		t.Errorf("Execute() wrote %q before failing, want nothing", buf.String())
	}
}

func TestCacheLoad(t *testing.T) {
	reg := view.New(nil)
	cache := view.NewCache()

	var compiles atomic.Int32
	load := func() (*view.Template, error) {
		return cache.Load("page", func() (*view.Template, error) {
			compiles.Add(1)
			return reg.Compile("a", view.Fragment{Name: "a", Source: "cached"})
		})
	}

	first, err := load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	second, err := load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if first != second {
		t.Error("Load() returned different handles for the same key")
	}
	if n := compiles.Load(); n != 1 {
		t.Errorf("compile ran %d times, want 1", n)
	}
}

func TestCacheSingleFlight(t *testing.T) {
	cache := view.NewCache()

	var compiles atomic.Int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := cache.Load("hot", func() (*view.Template, error) {
				compiles.Add(1)
				reg := view.New(nil)
				return reg.Compile("a", view.Fragment{Name: "a", Source: "hot"})
			})
			if err != nil {
				t.Errorf("Load() error: %v", err)
			}
		}()
	}

	close(start)
	wg.Wait()

	if n := compiles.Load(); n != 1 {
		t.Errorf("compile ran %d times under contention, want 1", n)
	}
}
