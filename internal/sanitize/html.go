package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strict removes every HTML tag and attribute. Titles, locations, and
	// participant names are plain text only.
	strict = bluemonday.StrictPolicy()

	// ugc allows safe user-generated formatting (paragraphs, emphasis,
	// links, lists) for event descriptions while stripping scripts, event
	// handlers, and style attributes.
	ugc = bluemonday.UGCPolicy()
)

// Text strips all HTML from a plain-text field.
func Text(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}

// Description sanitizes an event description, keeping safe formatting tags.
func Description(input string) string {
	return strings.TrimSpace(ugc.Sanitize(input))
}
