// Package markdown converts user-authored markdown to sanitized HTML,
// suitable for direct use inside html/template views.
package markdown
