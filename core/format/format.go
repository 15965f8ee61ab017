// ABOUTME: Response formatter renders articles as human-readable text blocks
// ABOUTME: Output is deterministic so streamed and synchronous answers render identically

package format

import (
	"fmt"
	"strings"

	"github.com/Lucasff16/arxiv-api-backend/core/domain"
	"github.com/Lucasff16/arxiv-api-backend/pkg/utils/html"
)

// Placeholders for absent article fields
const (
	NoTitle      = "Untitled"
	NoAuthors    = "Unknown authors"
	NoCategories = "Uncategorized"
	NoDate       = "Unknown date"
	NoLink       = "No link available"
)

// One renders a single numbered article block. index is 1-based.
func One(index int, a domain.Article) string {
	var b strings.Builder

	title := html.CollapseWhitespace(domain.Deref(a.Title, ""))
	if title == "" {
		title = NoTitle
	}

	fmt.Fprintf(&b, "%d. %s\n", index, title)
	fmt.Fprintf(&b, "   Authors: %s\n", joinOr(a.Authors, NoAuthors))
	fmt.Fprintf(&b, "   Categories: %s\n", joinOr(a.Categories, NoCategories))
	fmt.Fprintf(&b, "   Published: %s\n", domain.Deref(a.Published, NoDate))
	fmt.Fprintf(&b, "   Link: %s", domain.Deref(a.Link, NoLink))
	if a.PDFURL != nil {
		fmt.Fprintf(&b, "\n   PDF: %s", *a.PDFURL)
	}

	return b.String()
}

// All renders a whole result set for a synchronous answer
func All(articles []domain.Article, query string) string {
	if len(articles) == 0 {
		return NoResults(query)
	}

	blocks := make([]string, 0, len(articles)+1)
	blocks = append(blocks, Header(len(articles), query))
	for i, a := range articles {
		blocks = append(blocks, One(i+1, a))
	}

	return strings.Join(blocks, "\n\n")
}

// Header names the query and the number of articles found
func Header(n int, query string) string {
	noun := "articles"
	if n == 1 {
		noun = "article"
	}
	return fmt.Sprintf("Found %d %s for %q:", n, noun, query)
}

// NoResults is the fixed text for an empty result set
func NoResults(query string) string {
	return fmt.Sprintf("No articles found for %q.", query)
}

func joinOr(values []string, placeholder string) string {
	if len(values) == 0 {
		return placeholder
	}
	return strings.Join(values, ", ")
}
