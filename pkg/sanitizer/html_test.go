package sanitizer_test

import (
	"strings"
	"testing"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hearthstack/hearth/pkg/sanitizer"
)

func TestSanitizeHTML(t *testing.T) {
	t.Run("keeps formatting", func(t *testing.T) {
		got := sanitizer.SanitizeHTML("<p><strong>hi</strong></p>")
		if got != "<p><strong>hi</strong></p>" {
			t.Errorf("SanitizeHTML() = %q", got)
		}
	})

	t.Run("strips scripts", func(t *testing.T) {
		got := sanitizer.SanitizeHTML(`<p>ok</p><script>alert(1)</script>`)
		if strings.Contains(got, "script") {
			t.Errorf("script survived: %q", got)
		}
	})

	t.Run("strips javascript urls", func(t *testing.T) {
		got := sanitizer.SanitizeHTML(`<a href="javascript:alert(1)">x</a>`)
		if strings.Contains(got, "javascript:") {
			t.Errorf("javascript URL survived: %q", got)
		}
	})

	t.Run("adds nofollow to links", func(t *testing.T) {
		got := sanitizer.SanitizeHTML(`<a href="https://example.com">x</a>`)
		if !strings.Contains(got, "nofollow") {
			t.Errorf("nofollow missing: %q", got)
		}
	})
}

func TestSanitizeText(t *testing.T) {
	got := sanitizer.SanitizeText("<h1>Title</h1> body")
	if strings.Contains(got, "<") {
		t.Errorf("markup survived: %q", got)
	}
	if !strings.Contains(got, "Title") {
		t.Errorf("text content lost: %q", got)
	}
}

func TestSanitizeHTMLCustom(t *testing.T) {
	if got := sanitizer.SanitizeHTMLCustom("<b>x</b>", nil); got != "<b>x</b>" {
		t.Errorf("nil policy changed input: %q", got)
	}

	p := bluemonday.NewPolicy()
	if got := sanitizer.SanitizeHTMLCustom("<b>x</b>", p); got != "x" {
		t.Errorf("empty policy kept markup: %q", got)
	}
}
