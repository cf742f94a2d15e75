package normalize

import (
	"regexp"
	"strings"
)

// regionRule maps one family of phrasings to a standard region code.
// Rules are evaluated in order; within a family the first match wins, and a
// code is emitted at most once, preserving rule order in the joined result.
type regionRule struct {
	code    string
	pattern *regexp.Regexp
}

var regionRules = []regionRule{
	{"WORLDWIDE", regexp.MustCompile(`(?i)\b(worldwide|anywhere|global|all countries)\b`)},
	{"US", regexp.MustCompile(`(?i)\b(usa?( only)?|united states|us[- ]based|north america)\b`)},
	{"CANADA", regexp.MustCompile(`(?i)\bcanada\b`)},
	{"EU", regexp.MustCompile(`(?i)\b(eu( only)?|europe(an)?( union)?|emea|based in the eu)\b`)},
	{"UK", regexp.MustCompile(`(?i)\b(uk|united kingdom|great britain|england)\b`)},
	{"LATAM", regexp.MustCompile(`(?i)\b(latam|latin america|south america)\b`)},
	{"APAC", regexp.MustCompile(`(?i)\b(apac|asia([- ]pacific)?|australia|new zealand)\b`)},
	{"AFRICA", regexp.MustCompile(`(?i)\bafrica\b`)},
}

// Regions parses free-text region eligibility ("US only", "must be based in
// the EU", "Worldwide") into a comma-joined set of standard region codes.
// Returns "" when no rule matches.
func Regions(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var codes []string
	seen := make(map[string]bool)
	for _, rule := range regionRules {
		if !rule.pattern.MatchString(text) {
			continue
		}
		if seen[rule.code] {
			continue
		}
		seen[rule.code] = true
		codes = append(codes, rule.code)
	}
	return strings.Join(codes, ", ")
}

// RegionsOverlap reports whether any region in a (comma-joined) matches any
// in b, case-insensitively. Empty input on either side means no overlap.
func RegionsOverlap(a string, b []string) bool {
	if a == "" || len(b) == 0 {
		return false
	}
	have := make(map[string]bool)
	for _, r := range strings.Split(a, ",") {
		have[strings.ToUpper(strings.TrimSpace(r))] = true
	}
	for _, r := range b {
		if have[strings.ToUpper(strings.TrimSpace(r))] {
			return true
		}
	}
	return false
}
