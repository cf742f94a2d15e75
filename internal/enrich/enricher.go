package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

const maxPromptChars = 6000

// LLMEnricher suggests additional skills for a job description via an LLM.
// It fails open: any provider error, timeout, or malformed response yields an
// empty addition rather than a propagated error, so dictionary extraction
// never depends on it.
type LLMEnricher struct {
	provider LLMProvider
	logger   *slog.Logger
}

// NewLLMEnricher wraps provider in the fail-open enrichment contract.
func NewLLMEnricher(provider LLMProvider, logger *slog.Logger) *LLMEnricher {
	return &LLMEnricher{provider: provider, logger: logger}
}

// ExtractSkills returns lowercase skill strings mentioned in description, or
// an empty slice when the description is empty or the provider fails.
// The returned error is always nil.
func (e *LLMEnricher) ExtractSkills(ctx context.Context, description string) ([]string, error) {
	if strings.TrimSpace(description) == "" {
		return nil, nil
	}
	if len(description) > maxPromptChars {
		description = description[:maxPromptChars]
	}

	prompt := fmt.Sprintf(
		"List the technical skills, tools, and technologies required by this job description.\n\n%s",
		description,
	)

	raw, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.logger.Debug("skill enrichment unavailable", "error", err)
		return nil, nil
	}

	skills, err := parseSkills(raw)
	if err != nil {
		e.logger.Debug("skill enrichment returned malformed response", "error", err)
		return nil, nil
	}
	return skills, nil
}

// rawSkills is the JSON shape returned by the LLM (matches skillsSchema).
type rawSkills struct {
	Skills []string `json:"skills"`
}

func parseSkills(raw string) ([]string, error) {
	var rs rawSkills
	if err := json.Unmarshal([]byte(raw), &rs); err != nil {
		return nil, fmt.Errorf("unmarshal skills JSON: %w", err)
	}

	out := make([]string, 0, len(rs.Skills))
	for _, s := range rs.Skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
