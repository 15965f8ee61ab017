// ABOUTME: Article domain model represents one paper entry returned by the article index
// ABOUTME: Optional fields are pointers so a missing upstream value stays distinguishable from an empty one

package domain

// Article represents a single scholarly article parsed from the upstream feed.
// A nil pointer means the field was absent in the feed.
type Article struct {
	// ID is the canonical entry identifier (for arXiv, the abs URL)
	ID *string `json:"id"`

	// Title is the article headline
	Title *string `json:"title"`

	// Summary is the abstract with markup removed
	Summary *string `json:"summary"`

	// Published and Updated are the raw timestamp strings from the feed
	Published *string `json:"published"`
	Updated   *string `json:"updated"`

	// Authors and Categories keep feed order
	Authors    []string `json:"authors"`
	Categories []string `json:"categories"`

	// Link is the landing page, PDFURL the direct PDF download
	Link   *string `json:"link"`
	PDFURL *string `json:"pdf_url"`
}

// StringPtr returns a pointer to s, or nil when s is empty
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to value or fallback when p is nil
func Deref(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
