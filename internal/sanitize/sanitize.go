package sanitize

import "github.com/microcosm-cc/bluemonday"

// strict drops every element and attribute, leaving only text nodes.
var strict = bluemonday.StrictPolicy()

// StripMarkup removes all markup tags from a rich-text body, preserving
// the inner text and whitespace. Used for plain display contexts and for
// length validation of rich-text fields; stored data is never mutated.
func StripMarkup(text string) string {
	return strict.Sanitize(text)
}
