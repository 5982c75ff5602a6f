package carfax

import (
	"regexp"
	"strings"
)

// No + quantifier: each disallowed character maps to its own underscore so
// identifiers of equal length stay equal length.
var unsafeIdentifierChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeIdentifier converts an identifier into a safe archive filename stem.
func SanitizeIdentifier(identifier string) string {
	return unsafeIdentifierChars.ReplaceAllString(identifier, "_")
}

// ExtensionForContentType infers a file extension from a Content-Type header
// value. Anything that does not declare a PDF is stored as HTML, which covers
// report viewers and landing pages.
func ExtensionForContentType(contentType string) string {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return ".pdf"
	}
	return ".html"
}
