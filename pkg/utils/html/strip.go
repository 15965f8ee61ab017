// ABOUTME: HTML utilities for stripping tags and decoding entities
// ABOUTME: Used to clean titles and abstracts before they reach JSON or the text formatter

package html

import (
	stdhtml "html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag; bluemonday policies are safe for concurrent use
var strictPolicy = bluemonday.StrictPolicy()

// StripHTML removes HTML tags, decodes entities and collapses whitespace
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	text := strictPolicy.Sanitize(s)
	// bluemonday escapes the text it keeps
	text = stdhtml.UnescapeString(text)
	return CollapseWhitespace(text)
}

// CollapseWhitespace trims s and replaces every run of whitespace (including newlines) with one space
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
