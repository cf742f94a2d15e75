package normalize

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
)

// abbreviations expanded in titles via word-boundary replacement.
// Keys are matched case-insensitively after punctuation stripping.
var abbreviations = map[string]string{
	"sr":     "senior",
	"jr":     "junior",
	"pm":     "product manager",
	"swe":    "software engineer",
	"sde":    "software development engineer",
	"ml":     "machine learning",
	"devops": "devops",
	"fe":     "frontend",
	"be":     "backend",
	"qa":     "quality assurance",
	"eng":    "engineer",
	"mgr":    "manager",
}

// legal suffixes stripped from company names for fuzzy comparison only.
var legalSuffixes = []string{
	"inc", "llc", "ltd", "gmbh", "corp", "co", "sa", "bv", "ab", "plc", "limited", "incorporated",
}

// StripHTML converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles providers that double-encode;
// no-op on already-real HTML), strips all tags, then collapses whitespace.
func StripHTML(content string) string {
	unescaped := html.UnescapeString(content)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	return strings.Join(strings.Fields(plain), " ")
}

// CleanText collapses whitespace (including non-breaking spaces) and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Title lowercases, strips punctuation, collapses whitespace, and expands a
// fixed abbreviation table word by word. Deterministic and never fails.
func Title(title string) string {
	t := strings.ToLower(CleanText(title))
	t = punctuationRegex.ReplaceAllString(t, " ")

	words := strings.Fields(t)
	for i, w := range words {
		if full, ok := abbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// Company lowercases and trims a company name. This is the stored canonical
// form; legal suffixes are preserved.
func Company(name string) string {
	return strings.ToLower(CleanText(name))
}

// CompanyForMatch additionally strips legal suffixes (Inc/LLC/Ltd/GmbH, ...)
// so "Acme Inc." and "Acme" compare equal. Used for fuzzy comparison only,
// never for the stored name.
func CompanyForMatch(name string) string {
	c := strings.ToLower(CleanText(name))
	c = punctuationRegex.ReplaceAllString(c, " ")
	words := strings.Fields(c)

	for len(words) > 1 {
		last := words[len(words)-1]
		stripped := false
		for _, suffix := range legalSuffixes {
			if last == suffix {
				words = words[:len(words)-1]
				stripped = true
				break
			}
		}
		if !stripped {
			break
		}
	}
	return strings.Join(words, " ")
}

const maxRawURLFallback = 200

// ApplyURL reduces a URL to lowercased host+path with the trailing slash
// removed, so tracking parameters and scheme differences don't defeat exact
// matching. On parse failure it falls back to a lowercased, length-capped
// raw string; it never fails.
func ApplyURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		fallback := strings.ToLower(raw)
		if len(fallback) > maxRawURLFallback {
			fallback = fallback[:maxRawURLFallback]
		}
		return fallback
	}

	normalized := strings.ToLower(u.Host + u.Path)
	return strings.TrimSuffix(normalized, "/")
}

// PostedDay formats postedAt as YYYY-MM-DD in UTC. When postedAt is nil it
// falls back to the day portion of firstSeen.
func PostedDay(postedAt *time.Time, firstSeen time.Time) string {
	if postedAt != nil {
		return postedAt.UTC().Format("2006-01-02")
	}
	return firstSeen.UTC().Format("2006-01-02")
}
