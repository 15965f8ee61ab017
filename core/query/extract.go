// ABOUTME: Query extraction turns a free-text instruction into a search query
// ABOUTME: Strips a leading command phrase such as "search" or "find" when one is present

package query

import "strings"

// commandPhrases are matched case-insensitively at the start of the input.
// Multi-word phrases come before their prefixes so "search for x" yields "x".
var commandPhrases = []string{
	"search for",
	"search",
	"find",
	"look up",
	"lookup",
	"show me",
	"get",
	"buscar",
	"procurar",
	"pesquisar",
}

// Extract returns the search query contained in input. When input starts with a
// command phrase followed by a separator the remainder is returned, otherwise the
// trimmed input itself. An empty result must be rejected by the caller.
func Extract(input string) string {
	text := strings.TrimSpace(input)
	lower := strings.ToLower(text)

	for _, phrase := range commandPhrases {
		if !strings.HasPrefix(lower, phrase) {
			continue
		}
		rest := text[len(phrase):]
		if rest == "" || !isSeparator(rest[0]) {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(rest, ": \t\n"))
	}

	return text
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', ':':
		return true
	}
	return false
}
