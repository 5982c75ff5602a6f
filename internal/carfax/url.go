package carfax

import (
	"net/url"
	"regexp"
	"strings"
)

// Spreadsheet exports wrap URLs in formulas like
// =HYPERLINK("https://...","label"); the first capture group is the URL.
var hyperlinkFormula = regexp.MustCompile(`(?i)^=HYPERLINK\("([^"]+)"(?:,"[^"]*")?\)$`)

// NormalizeURL cleans a raw spreadsheet cell into a fetchable URL. It trims
// whitespace, removes one layer of enclosing quotes, unwraps HYPERLINK
// formulas, and prefixes bare www. hosts with https. It performs no
// validation; see IsValidURL. Normalization is idempotent.
func NormalizeURL(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = stripQuoteLayer(cleaned)

	if m := hyperlinkFormula.FindStringSubmatch(cleaned); m != nil {
		cleaned = strings.TrimSpace(m[1])
	}

	if strings.HasPrefix(cleaned, "www.") {
		cleaned = "https://" + cleaned
	}
	return cleaned
}

// IsValidURL reports whether a normalized URL is absolute http(s) with a
// non-empty host. Records failing this check never reach the network.
func IsValidURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func stripQuoteLayer(s string) string {
	if len(s) > 0 && (s[0] == '\'' || s[0] == '"') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '\'' || s[len(s)-1] == '"') {
		s = s[:len(s)-1]
	}
	return s
}
