package enrich

import "context"

// NopEnricher is used when enrichment is disabled. It adds nothing and makes
// no network calls.
type NopEnricher struct{}

// NewNopEnricher returns a NopEnricher.
func NewNopEnricher() *NopEnricher {
	return &NopEnricher{}
}

// ExtractSkills returns no skills.
func (n *NopEnricher) ExtractSkills(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}
