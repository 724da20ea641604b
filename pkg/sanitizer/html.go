// Package sanitizer strips dangerous markup from user-generated content.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	safePolicy   *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		// Basic formatting for user-generated content. Scripts, event
		// handlers, and javascript: URLs never pass.
		safePolicy = bluemonday.NewPolicy()
		safePolicy.AllowStandardURLs()
		safePolicy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3", "h4",
		)
		safePolicy.AllowAttrs("href").OnElements("a")
		safePolicy.RequireNoFollowOnLinks(true)
	})
}

// SanitizeHTML keeps safe formatting tags (paragraphs, emphasis, lists,
// code blocks, links with nofollow) and strips everything else.
func SanitizeHTML(s string) string {
	initPolicies()
	return safePolicy.Sanitize(s)
}

// SanitizeText strips all markup, returning plain text. Use for values that
// end up in attributes, titles, or non-HTML sinks.
func SanitizeText(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// SanitizeHTMLCustom applies a caller-provided policy. A nil policy returns
// the input unchanged.
func SanitizeHTMLCustom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
