package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Rule identifies the specific constraint a value violated.
type Rule string

const (
	RuleEmptyOrTooShort       Rule = "empty_or_too_short"
	RuleTitleLengthOutOfRange Rule = "title_length_out_of_range"
	RuleNameLengthOutOfRange  Rule = "name_length_out_of_range"
	RuleInvalidImageType      Rule = "invalid_image_type"
	RuleImageTooLarge         Rule = "image_too_large"
)

// Field limits shared with the storage schema.
const (
	TitleMinLength       = 10
	TitleMaxLength       = 50
	DescriptionMinLength = 20
	NameMaxLength        = 30
	ImageMaxBytes        = 3 * 1024 * 1024
)

// Error reports a field-level rule violation. Callers branch on Rule to
// build user-facing messages.
type Error struct {
	Field string
	Rule  Rule
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Rule)
}

// NonEmptyText checks that value, after trimming surrounding whitespace,
// is at least minLength characters. Lengths count runes, not bytes.
// Rich-text fields should be passed through sanitize.StripMarkup first
// so tags do not count towards the minimum.
func NonEmptyText(field, value string, minLength int) error {
	stripped := strings.TrimSpace(value)
	if stripped == "" || utf8.RuneCountInString(stripped) < minLength {
		return &Error{Field: field, Rule: RuleEmptyOrTooShort}
	}
	return nil
}

// TitleLength checks the ticket title length bounds after trimming,
// counting runes.
func TitleLength(title string) error {
	trimmed := strings.TrimSpace(title)
	length := utf8.RuneCountInString(trimmed)
	if length < TitleMinLength || length > TitleMaxLength {
		return &Error{Field: "title", Rule: RuleTitleLengthOutOfRange}
	}
	return nil
}

// Name checks a taxonomy name (team, category): non-empty and at most
// NameMaxLength runes after trimming.
func Name(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &Error{Field: field, Rule: RuleEmptyOrTooShort}
	}
	if utf8.RuneCountInString(trimmed) > NameMaxLength {
		return &Error{Field: field, Rule: RuleNameLengthOutOfRange}
	}
	return nil
}

var allowedImageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

var allowedImageContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// Image checks the upload metadata before any bytes reach blob storage:
// only jpg/png files, at most ImageMaxBytes (boundary inclusive). The
// payload itself is never read here.
func Image(fileName, contentType string, sizeBytes int64) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return &Error{Field: "image", Rule: RuleInvalidImageType}
	}
	if contentType != "" {
		if _, ok := allowedImageContentTypes[strings.ToLower(contentType)]; !ok {
			return &Error{Field: "image", Rule: RuleInvalidImageType}
		}
	}
	if sizeBytes > ImageMaxBytes {
		return &Error{Field: "image", Rule: RuleImageTooLarge}
	}
	return nil
}
