package normalize

import (
	"regexp"
	"sort"
	"strings"
)

// skillVocabulary is the curated dictionary for extraction: languages,
// frameworks, cloud platforms, data stores, methodologies, and role titles.
// All entries are lowercase; matching is case-insensitive and word-bounded.
var skillVocabulary = []string{
	// languages
	"python", "javascript", "typescript", "golang", "java", "kotlin",
	"swift", "rust", "ruby", "php", "c++", "c#", "scala", "elixir", "clojure",
	"haskell", "perl", "sql", "html", "css", "bash", "dart",
	// frameworks and runtimes
	"react", "react native", "angular", "vue", "svelte", "next.js", "node.js",
	"django", "flask", "fastapi", "rails", "spring boot",
	"laravel", "symfony", ".net", "flutter", "graphql", "grpc",
	// cloud and infrastructure
	"aws", "azure", "gcp", "google cloud", "kubernetes", "docker", "terraform",
	"ansible", "jenkins", "circleci", "github actions", "linux", "nginx",
	"serverless", "lambda", "cloudflare", "heroku", "vercel",
	// data stores and pipelines
	"postgresql", "postgres", "mysql", "sqlite", "mongodb", "redis",
	"elasticsearch", "kafka", "rabbitmq", "spark", "airflow", "snowflake",
	"bigquery", "clickhouse", "dynamodb", "cassandra",
	// ML / data
	"machine learning", "deep learning", "pytorch", "tensorflow", "pandas",
	"numpy", "scikit-learn", "nlp", "computer vision", "llm", "data science",
	// methodologies and practices
	"agile", "scrum", "kanban", "tdd", "ci/cd", "devops", "microservices",
	"distributed systems", "observability", "sre",
	// role-adjacent
	"product management", "project management", "ux", "ui design",
	"technical writing", "security", "qa automation",
}

var skillPatterns = buildSkillPatterns()

// buildSkillPatterns compiles one word-bounded pattern per vocabulary term.
// \b misbehaves next to '+', '#', and '.', so boundaries are expressed as
// "not a word-ish character" classes instead.
func buildSkillPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(skillVocabulary))
	for _, skill := range skillVocabulary {
		quoted := regexp.QuoteMeta(skill)
		patterns[skill] = regexp.MustCompile(`(?i)(^|[^a-z0-9+#.])` + quoted + `($|[^a-z0-9+#.])`)
	}
	return patterns
}

// Skills extracts dictionary skills from free text. HTML is stripped first;
// the result is lowercase, deduplicated, and sorted so output is
// deterministic regardless of input order or repeated mentions.
func Skills(texts ...string) []string {
	blob := StripHTML(strings.Join(texts, " "))
	if blob == "" {
		return nil
	}

	var found []string
	for _, skill := range skillVocabulary {
		if skillPatterns[skill].MatchString(blob) {
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}

// MergeSkills combines skill lists into one lowercase, sorted, deduplicated
// set. Used to fold enrichment results into dictionary output.
func MergeSkills(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, s := range list {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
