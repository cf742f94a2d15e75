package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jobsift/jobsift/internal/model"
)

// RemoteTypeOf infers the remote type from keyword heuristics over the
// combined title, description, and location text. Connectors that have an
// explicit provider flag should use it first and only fall back here.
func RemoteTypeOf(title, description, location string) model.RemoteType {
	blob := strings.ToLower(strings.Join([]string{title, description, location}, " "))

	switch {
	case strings.Contains(blob, "hybrid"):
		return model.RemoteTypeHybrid
	case strings.Contains(blob, "remote") || strings.Contains(blob, "wfh") ||
		strings.Contains(blob, "work from home"):
		return model.RemoteTypeRemote
	case strings.Contains(blob, "on-site") || strings.Contains(blob, "onsite") ||
		strings.Contains(blob, "on site") || strings.Contains(blob, "in-office") ||
		strings.Contains(blob, "in office"):
		return model.RemoteTypeOnsite
	default:
		return model.RemoteTypeUnknown
	}
}

// seniority rules checked in order; first hit wins.
var seniorityRules = []struct {
	level    string
	patterns []string
}{
	{"staff", []string{"staff engineer", "staff software", "distinguished"}},
	{"principal", []string{"principal"}},
	{"lead", []string{"lead ", "tech lead", "team lead", "head of"}},
	{"senior", []string{"senior", "sr "}},
	{"junior", []string{"junior", "jr ", "entry level", "entry-level", "graduate", "intern"}},
	{"mid", []string{"mid-level", "mid level", "intermediate"}},
}

// SeniorityOf infers a seniority label from the title, empty when nothing
// matches.
func SeniorityOf(title string) string {
	t := strings.ToLower(title) + " "
	for _, rule := range seniorityRules {
		for _, p := range rule.patterns {
			if strings.Contains(t, p) {
				return rule.level
			}
		}
	}
	return ""
}

var employmentRules = []struct {
	kind     string
	patterns []string
}{
	{"contract", []string{"contract", "contractor", "freelance", "b2b"}},
	{"part_time", []string{"part-time", "part time"}},
	{"internship", []string{"internship", "intern "}},
	{"full_time", []string{"full-time", "full time", "permanent"}},
}

// EmploymentTypeOf infers the employment type from title plus any provider
// hint text (e.g. Remotive's job_type, Adzuna's contract_time).
func EmploymentTypeOf(texts ...string) string {
	blob := strings.ToLower(strings.Join(texts, " ")) + " "
	blob = strings.ReplaceAll(blob, "_", " ")
	for _, rule := range employmentRules {
		for _, p := range rule.patterns {
			if strings.Contains(blob, p) {
				return rule.kind
			}
		}
	}
	return ""
}

var salaryRegex = regexp.MustCompile(`(?i)[\$€£]?\s*(\d{2,3})[,.]?(\d{3})?\s*(k)?\s*(?:-|–|to)\s*[\$€£]?\s*(\d{2,3})[,.]?(\d{3})?\s*(k)?`)

// Salary extracts a best-effort numeric range from free salary text
// ("$80,000 - $120,000", "80k-120k"). Returns nils when no range is found;
// no currency conversion is attempted.
func Salary(text string) (min, max *float64) {
	m := salaryRegex.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}

	lo := parseSalaryPart(m[1], m[2], m[3])
	hi := parseSalaryPart(m[4], m[5], m[6])
	if lo <= 0 || hi <= 0 || hi < lo {
		return nil, nil
	}
	return &lo, &hi
}

func parseSalaryPart(lead, tail, kSuffix string) float64 {
	n, err := strconv.ParseFloat(lead+tail, 64)
	if err != nil {
		return 0
	}
	if strings.EqualFold(kSuffix, "k") {
		n *= 1000
	}
	return n
}
