package markdown

import (
	"bytes"
	"errors"
	"html/template"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hearthstack/hearth/pkg/sanitizer"
)

// ErrConvert indicates the markdown source could not be converted.
var ErrConvert = errors.New("markdown: convert failed")

var (
	md       goldmark.Markdown
	initOnce sync.Once
)

func processor() goldmark.Markdown {
	initOnce.Do(func() {
		md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return md
}

// Render converts markdown to sanitized HTML. The goldmark output is passed
// through the sanitizer allowlist, so raw HTML embedded in the source is
// stripped rather than trusted.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := processor().Convert([]byte(source), &buf); err != nil {
		return "", errors.Join(ErrConvert, err)
	}
	return template.HTML(sanitizer.SanitizeHTML(buf.String())), nil
}

// MustRender is Render for template function tables, where a conversion
// failure should surface as a render error, not a panic. On failure it
// returns the source escaped as plain text.
func MustRender(source string) template.HTML {
	out, err := Render(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return out
}
