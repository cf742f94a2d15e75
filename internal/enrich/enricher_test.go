package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns canned responses.
type stubProvider struct {
	response string
	err      error
}

func (s *stubProvider) Complete(_ context.Context, _ string) (string, error) {
	return s.response, s.err
}

func TestExtractSkills_ParsesAndLowercases(t *testing.T) {
	e := NewLLMEnricher(&stubProvider{response: `{"skills": ["Kubernetes", " Terraform ", "go"]}`}, discardLogger())

	got, err := e.ExtractSkills(context.Background(), "We run everything on Kubernetes.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"kubernetes", "terraform", "go"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractSkills_FailsOpenOnProviderError(t *testing.T) {
	e := NewLLMEnricher(&stubProvider{err: errors.New("timeout")}, discardLogger())

	got, err := e.ExtractSkills(context.Background(), "Some description")
	if err != nil {
		t.Fatalf("expected fail-open nil error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestExtractSkills_FailsOpenOnMalformedResponse(t *testing.T) {
	e := NewLLMEnricher(&stubProvider{response: `not json at all`}, discardLogger())

	got, err := e.ExtractSkills(context.Background(), "Some description")
	if err != nil {
		t.Fatalf("expected fail-open nil error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no skills, got %v", got)
	}
}

func TestExtractSkills_EmptyDescriptionSkipsProvider(t *testing.T) {
	provider := &stubProvider{response: `{"skills": ["python"]}`}
	e := NewLLMEnricher(provider, discardLogger())

	got, err := e.ExtractSkills(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for empty description, got %v", got)
	}
}
